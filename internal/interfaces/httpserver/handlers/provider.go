package handlers

import (
	"github.com/rs/zerolog"

	"dealdesk/internal/config"
	"dealdesk/internal/domain/audit"
	"dealdesk/internal/domain/brandresponse"
	"dealdesk/internal/domain/signature"
	"dealdesk/internal/domain/token"
)

// Provider wires all HTTP handlers for dependency injection.
type Provider struct {
	BrandResponse *BrandResponseHandler
	Signature     *SignatureHandler
	Token         *TokenHandler
}

// NewProvider constructs the handler provider with domain services.
func NewProvider(
	cfg *config.Config,
	brandSvc *brandresponse.Service,
	signatureSvc *signature.Service,
	tokenSvc *token.Service,
	auditRepo audit.Repository,
	log zerolog.Logger,
) *Provider {
	return &Provider{
		BrandResponse: NewBrandResponseHandler(cfg, brandSvc, tokenSvc, log),
		Signature:     NewSignatureHandler(signatureSvc, tokenSvc, log),
		Token:         NewTokenHandler(tokenSvc, auditRepo, log),
	}
}
