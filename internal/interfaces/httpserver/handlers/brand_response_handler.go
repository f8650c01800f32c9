package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"dealdesk/internal/config"
	"dealdesk/internal/domain/audit"
	"dealdesk/internal/domain/brandresponse"
	"dealdesk/internal/domain/token"
	"dealdesk/internal/interfaces/httpserver/requests"
	"dealdesk/internal/interfaces/httpserver/responses"
	"dealdesk/internal/utils/clientip"
	"dealdesk/internal/utils/platformerrors"
)

// BrandResponseHandler exposes the token-gated public brand reply endpoints.
type BrandResponseHandler struct {
	cfg     *config.Config
	service *brandresponse.Service
	tokens  *token.Service
	log     zerolog.Logger
}

func NewBrandResponseHandler(cfg *config.Config, service *brandresponse.Service, tokens *token.Service, log zerolog.Logger) *BrandResponseHandler {
	return &BrandResponseHandler{
		cfg:     cfg,
		service: service,
		tokens:  tokens,
		log:     log.With().Str("component", "brand-response-handler").Logger(),
	}
}

// GetDealView godoc
// @Summary      View deal terms via reply link
// @Description  Returns the public deal projection for a valid reply token.
// @Tags         brand-response
// @Produce      json
// @Param        token  path      string  true  "Reply token"
// @Success      200    {object}  responses.DealViewResponse
// @Failure      403    {object}  platformerrors.HTTPErrorResponse
// @Failure      404    {object}  platformerrors.HTTPErrorResponse
// @Router       /v1/brand-response/{token} [get]
func (h *BrandResponseHandler) GetDealView(c *gin.Context) {
	view, err := h.service.GetDealView(c.Request.Context(), c.Param("token"), requestContext(c))
	if err != nil {
		platformerrors.WriteError(c, err, h.log)
		return
	}
	c.JSON(http.StatusOK, responses.DealViewResponse{Success: true, Data: view})
}

// SubmitDecision godoc
// @Summary      Submit brand decision
// @Description  Records accept, negotiate or reject against the reply link's deal.
// @Tags         brand-response
// @Accept       json
// @Produce      json
// @Param        token    path      string                           true  "Reply token"
// @Param        request  body      requests.SubmitDecisionRequest   true  "Decision payload"
// @Success      200      {object}  responses.SubmitDecisionResponse
// @Failure      400      {object}  platformerrors.HTTPErrorResponse
// @Failure      403      {object}  platformerrors.HTTPErrorResponse
// @Failure      404      {object}  platformerrors.HTTPErrorResponse
// @Router       /v1/brand-response/{token} [post]
func (h *BrandResponseHandler) SubmitDecision(c *gin.Context) {
	var req requests.SubmitDecisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		platformerrors.WriteValidationError(c, "invalid request body")
		return
	}

	result, err := h.service.SubmitDecision(c.Request.Context(), c.Param("token"), brandresponse.SubmitParams{
		Status:        req.Status,
		Message:       req.Message,
		BrandTeamName: req.BrandTeamName,
	}, requestContext(c))
	if err != nil {
		platformerrors.WriteError(c, err, h.log)
		return
	}

	c.JSON(http.StatusOK, responses.SubmitDecisionResponse{
		Success: true,
		Status:  string(result.Status),
	})
}

// InspectToken godoc
// @Summary      Inspect a reply token
// @Description  Returns raw token state and the validation reason. Development tooling, disabled in production.
// @Tags         debug
// @Produce      json
// @Param        token  path      string  true  "Reply token"
// @Success      200    {object}  map[string]interface{}
// @Failure      404    {object}  platformerrors.HTTPErrorResponse
// @Router       /v1/debug/tokens/{token} [get]
func (h *BrandResponseHandler) InspectToken(c *gin.Context) {
	if h.cfg.IsProduction() {
		platformerrors.WriteNotFound(c, "not found")
		return
	}

	t, reason, err := h.tokens.Inspect(c.Request.Context(), c.Param("token"))
	if err != nil {
		platformerrors.WriteError(c, err, h.log)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"reason":  string(reason),
		"token":   t,
	})
}

func requestContext(c *gin.Context) audit.RequestContext {
	return audit.RequestContext{
		ClientIP:  clientip.FromRequest(c.Request),
		UserAgent: c.Request.UserAgent(),
	}
}
