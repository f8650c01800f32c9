package v1

import (
	"github.com/gin-gonic/gin"

	"dealdesk/internal/interfaces/httpserver/handlers"
)

// Routes encapsulates versioned route registration.
type Routes struct {
	handlers *handlers.Provider
}

func NewRoutes(provider *handlers.Provider) *Routes {
	return &Routes{handlers: provider}
}

// Register attaches all v1 routes under the /v1 prefix. The reply-link
// endpoints are public: the token in the path is the whole credential.
// Creator endpoints sit behind the auth middleware.
func (r *Routes) Register(router gin.IRouter, authMiddleware gin.HandlerFunc) {
	group := router.Group("/v1")

	group.GET("/brand-response/:token", r.handlers.BrandResponse.GetDealView)
	group.POST("/brand-response/:token", r.handlers.BrandResponse.SubmitDecision)
	group.POST("/brand-response/:token/sign", r.handlers.Signature.SignAsBrand)

	group.GET("/debug/tokens/:token", r.handlers.BrandResponse.InspectToken)

	creator := group.Group("", authMiddleware)
	creator.POST("/deals/:deal_id/reply-tokens", r.handlers.Token.Issue)
	creator.DELETE("/reply-tokens/:token", r.handlers.Token.Revoke)
	creator.GET("/deals/:deal_id/audit", r.handlers.Token.AuditTrail)
	creator.POST("/deals/:deal_id/signatures/creator", r.handlers.Signature.SignAsCreator)
	creator.GET("/deals/:deal_id/signatures/:role", r.handlers.Signature.GetSignature)
}
