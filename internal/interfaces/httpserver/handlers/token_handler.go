package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"dealdesk/internal/domain/audit"
	"dealdesk/internal/domain/token"
	"dealdesk/internal/interfaces/httpserver/responses"
	"dealdesk/internal/utils/platformerrors"
)

// TokenHandler exposes creator-side reply link management and the deal
// audit trail.
type TokenHandler struct {
	tokens *token.Service
	audits audit.Repository
	log    zerolog.Logger
}

func NewTokenHandler(tokens *token.Service, audits audit.Repository, log zerolog.Logger) *TokenHandler {
	return &TokenHandler{
		tokens: tokens,
		audits: audits,
		log:    log.With().Str("component", "token-handler").Logger(),
	}
}

// Issue godoc
// @Summary      Issue a reply link
// @Description  Creates a fresh reply token for a deal and revokes any prior active one. Authenticated.
// @Tags         tokens
// @Produce      json
// @Param        deal_id  path      string  true  "Deal id"
// @Success      201      {object}  responses.TokenIssuedResponse
// @Failure      400      {object}  platformerrors.HTTPErrorResponse
// @Security     BearerAuth
// @Router       /v1/deals/{deal_id}/reply-tokens [post]
func (h *TokenHandler) Issue(c *gin.Context) {
	t, err := h.tokens.Issue(c.Request.Context(), c.Param("deal_id"))
	if err != nil {
		platformerrors.WriteError(c, err, h.log)
		return
	}
	c.JSON(http.StatusCreated, responses.TokenIssuedResponse{
		Success:   true,
		Token:     t.ID,
		DealID:    t.DealID,
		ExpiresAt: t.ExpiresAt,
	})
}

// Revoke godoc
// @Summary      Revoke a reply link
// @Description  Deactivates a reply token. Idempotent. Authenticated.
// @Tags         tokens
// @Produce      json
// @Param        token  path      string  true  "Reply token"
// @Success      200    {object}  responses.TokenRevokedResponse
// @Failure      400    {object}  platformerrors.HTTPErrorResponse
// @Security     BearerAuth
// @Router       /v1/reply-tokens/{token} [delete]
func (h *TokenHandler) Revoke(c *gin.Context) {
	tokenID := c.Param("token")
	if err := h.tokens.Revoke(c.Request.Context(), tokenID); err != nil {
		platformerrors.WriteError(c, err, h.log)
		return
	}
	c.JSON(http.StatusOK, responses.TokenRevokedResponse{Success: true, Token: tokenID})
}

// AuditTrail godoc
// @Summary      List deal audit trail
// @Description  Returns brand interaction history for a deal, most recent first. Authenticated.
// @Tags         tokens
// @Produce      json
// @Param        deal_id  path      string  true   "Deal id"
// @Param        limit    query     int     false  "Max entries"  default(100)
// @Success      200      {object}  responses.AuditTrailResponse
// @Failure      500      {object}  platformerrors.HTTPErrorResponse
// @Security     BearerAuth
// @Router       /v1/deals/{deal_id}/audit [get]
func (h *TokenHandler) AuditTrail(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))

	entries, err := h.audits.ListByDeal(c.Request.Context(), c.Param("deal_id"), limit)
	if err != nil {
		platformerrors.WriteError(c, err, h.log)
		return
	}

	views := make([]responses.AuditEntryView, 0, len(entries))
	for _, e := range entries {
		views = append(views, responses.AuditEntryView{
			ActionType:       string(e.ActionType),
			ActionTimestamp:  e.ActionTimestamp,
			ActionSource:     e.ActionSource,
			UserAgent:        e.UserAgent,
			IPAddressPartial: e.IPAddressPartial,
			ResponseStatus:   e.ResponseStatus,
			BrandTeamName:    e.BrandTeamName,
			OptionalComment:  e.OptionalComment,
			DecisionVersion:  e.DecisionVersion,
		})
	}
	c.JSON(http.StatusOK, responses.AuditTrailResponse{Success: true, Data: views})
}
