package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"dealdesk/internal/domain/signature"
	"dealdesk/internal/domain/token"
	"dealdesk/internal/infrastructure/auth"
	"dealdesk/internal/interfaces/httpserver/requests"
	"dealdesk/internal/interfaces/httpserver/responses"
	"dealdesk/internal/utils/clientip"
	"dealdesk/internal/utils/platformerrors"
)

// SignatureHandler exposes contract signing endpoints for both parties.
type SignatureHandler struct {
	service *signature.Service
	tokens  *token.Service
	log     zerolog.Logger
}

func NewSignatureHandler(service *signature.Service, tokens *token.Service, log zerolog.Logger) *SignatureHandler {
	return &SignatureHandler{
		service: service,
		tokens:  tokens,
		log:     log.With().Str("component", "signature-handler").Logger(),
	}
}

// SignAsBrand godoc
// @Summary      Sign contract as brand
// @Description  Records the brand signature through a valid reply link. Requires prior OTP verification.
// @Tags         signature
// @Accept       json
// @Produce      json
// @Param        token    path      string                     true  "Reply token"
// @Param        request  body      requests.BrandSignRequest  true  "Signing payload"
// @Success      200      {object}  responses.SignatureResponse
// @Failure      400      {object}  platformerrors.HTTPErrorResponse
// @Failure      403      {object}  platformerrors.HTTPErrorResponse
// @Failure      409      {object}  platformerrors.HTTPErrorResponse
// @Router       /v1/brand-response/{token}/sign [post]
func (h *SignatureHandler) SignAsBrand(c *gin.Context) {
	var req requests.BrandSignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		platformerrors.WriteValidationError(c, "invalid request body")
		return
	}

	val, err := h.tokens.Validate(c.Request.Context(), c.Param("token"))
	if err != nil {
		platformerrors.WriteError(c, err, h.log)
		return
	}

	rec, err := h.service.SignAsBrand(c.Request.Context(), signature.SignRequest{
		DealID:               val.DealID,
		SubmissionID:         req.SubmissionID,
		SignerName:           req.SignerName,
		SignerEmail:          req.SignerEmail,
		SignerPhone:          req.SignerPhone,
		OTPVerified:          req.OTPVerified,
		OTPVerifiedAt:        req.OTPVerifiedAt,
		IPAddress:            clientip.FromRequest(c.Request),
		UserAgent:            c.Request.UserAgent(),
		ContractVersionID:    req.ContractVersionID,
		ContractSnapshotHTML: req.ContractSnapshotHTML,
	})
	if err != nil {
		platformerrors.WriteError(c, err, h.log)
		return
	}

	c.JSON(http.StatusOK, responses.SignatureResponse{Success: true, Data: rec})
}

// SignAsCreator godoc
// @Summary      Countersign contract as creator
// @Description  Records the creator signature once the brand has signed. Authenticated.
// @Tags         signature
// @Accept       json
// @Produce      json
// @Param        deal_id  path      string                       true  "Deal id"
// @Param        request  body      requests.CreatorSignRequest  true  "Signing payload"
// @Success      200      {object}  responses.SignatureResponse
// @Failure      400      {object}  platformerrors.HTTPErrorResponse
// @Failure      403      {object}  platformerrors.HTTPErrorResponse
// @Failure      409      {object}  platformerrors.HTTPErrorResponse
// @Security     BearerAuth
// @Router       /v1/deals/{deal_id}/signatures/creator [post]
func (h *SignatureHandler) SignAsCreator(c *gin.Context) {
	var req requests.CreatorSignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		platformerrors.WriteValidationError(c, "invalid request body")
		return
	}

	rec, err := h.service.SignAsCreator(c.Request.Context(), signature.SignRequest{
		DealID:               c.Param("deal_id"),
		CreatorID:            auth.CreatorID(c),
		SignerName:           req.SignerName,
		SignerEmail:          req.SignerEmail,
		OTPVerified:          req.OTPVerified,
		OTPVerifiedAt:        req.OTPVerifiedAt,
		IPAddress:            clientip.FromRequest(c.Request),
		UserAgent:            c.Request.UserAgent(),
		ContractVersionID:    req.ContractVersionID,
		ContractSnapshotHTML: req.ContractSnapshotHTML,
	})
	if err != nil {
		platformerrors.WriteError(c, err, h.log)
		return
	}

	c.JSON(http.StatusOK, responses.SignatureResponse{Success: true, Data: rec})
}

// GetSignature godoc
// @Summary      Fetch a signature record
// @Description  Returns one party's signature for a deal, if present. Authenticated.
// @Tags         signature
// @Produce      json
// @Param        deal_id  path      string  true  "Deal id"
// @Param        role     path      string  true  "Signer role"  Enums(brand, creator)
// @Success      200      {object}  responses.SignatureResponse
// @Failure      404      {object}  platformerrors.HTTPErrorResponse
// @Security     BearerAuth
// @Router       /v1/deals/{deal_id}/signatures/{role} [get]
func (h *SignatureHandler) GetSignature(c *gin.Context) {
	role := signature.Role(c.Param("role"))
	if role != signature.RoleBrand && role != signature.RoleCreator {
		platformerrors.WriteValidationError(c, "role must be brand or creator")
		return
	}

	rec, err := h.service.Get(c.Request.Context(), c.Param("deal_id"), role)
	if err != nil {
		platformerrors.WriteError(c, err, h.log)
		return
	}
	if rec == nil {
		platformerrors.WriteNotFound(c, "signature not found")
		return
	}
	c.JSON(http.StatusOK, responses.SignatureResponse{Success: true, Data: rec})
}
