package token

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"dealdesk/internal/config"
	"dealdesk/internal/utils/platformerrors"
)

// Service validates, issues and revokes brand reply tokens.
type Service struct {
	repo Repository
	ttl  time.Duration
	log  zerolog.Logger
	now  func() time.Time
}

func NewService(cfg *config.Config, repo Repository, log zerolog.Logger) *Service {
	return &Service{
		repo: repo,
		ttl:  cfg.ReplyTokenTTL,
		log:  log.With().Str("component", "token-service").Logger(),
		now:  time.Now,
	}
}

// Validate checks a token id for format and usability. The returned errors
// carry the neutral external messages; the precise reason is only logged.
// Pure read, no side effects.
func (s *Service) Validate(ctx context.Context, tokenID string) (*Validation, error) {
	if !wellFormed(tokenID) {
		// Rejected before any lookup so malformed probes never touch storage
		// and stay indistinguishable from not-found responses.
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain,
			platformerrors.ErrorTypeNotFound, MsgLinkInvalid, nil,
			"0f4c61d2-8a2e-4d5b-9c1f-3b7a8e2d4f60")
	}

	t, err := s.repo.GetByID(ctx, tokenID)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "load reply token")
	}

	switch reason := s.usability(t); reason {
	case ReasonNotFound:
		s.log.Info().Str("reason", string(reason)).Msg("reply token rejected")
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain,
			platformerrors.ErrorTypeNotFound, MsgLinkInvalid, nil,
			"5a9d2c4e-1b3f-4e7a-8d6c-2f0b9a1c3e58")
	case ReasonRevoked:
		s.log.Info().Str("reason", string(reason)).Msg("reply token rejected")
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain,
			platformerrors.ErrorTypeForbidden, MsgLinkInvalid, nil,
			"7c3e8f1a-4d2b-4a9e-b5c7-6e1d0f8a2b49")
	case ReasonExpired:
		s.log.Info().Str("reason", string(reason)).Msg("reply token rejected")
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain,
			platformerrors.ErrorTypeExpired, MsgLinkExpired, nil,
			"9e5b0d3c-6f4a-4c8e-a1d9-8b2f7c0e4a31")
	default:
		return &Validation{Token: t, DealID: t.DealID}, nil
	}
}

// Inspect returns the raw token and its usability reason without neutral
// error mapping. Dev tooling only; routes expose this outside production.
func (s *Service) Inspect(ctx context.Context, tokenID string) (*ReplyToken, Reason, error) {
	if !wellFormed(tokenID) {
		return nil, ReasonInvalidFormat, nil
	}
	t, err := s.repo.GetByID(ctx, tokenID)
	if err != nil {
		return nil, "", platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "load reply token")
	}
	return t, s.usability(t), nil
}

// Issue mints a new reply token for a deal and revokes any previously active
// token so exactly one link is live per deal.
func (s *Service) Issue(ctx context.Context, dealID string) (*ReplyToken, error) {
	if _, err := uuid.Parse(dealID); err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain,
			platformerrors.ErrorTypeValidation, "invalid deal id", err,
			"2b8f4a6d-0c1e-4f3b-9a5d-7e2c8b0f4d16")
	}

	now := s.now().UTC()
	if err := s.repo.RevokeActiveForDeal(ctx, dealID, now); err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "revoke prior tokens")
	}

	t := &ReplyToken{
		ID:       uuid.NewString(),
		DealID:   dealID,
		IsActive: true,
	}
	if s.ttl > 0 {
		expires := now.Add(s.ttl)
		t.ExpiresAt = &expires
	}
	if err := s.repo.Create(ctx, t); err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "create reply token")
	}

	s.log.Info().Str("deal_id", dealID).Msg("issued reply token")
	return t, nil
}

// Revoke deactivates a token. Revoking an already revoked token is a no-op.
func (s *Service) Revoke(ctx context.Context, tokenID string) error {
	if !wellFormed(tokenID) {
		return platformerrors.NewError(ctx, platformerrors.LayerDomain,
			platformerrors.ErrorTypeValidation, "invalid token format", nil,
			"4d0a2e8c-5b7f-4d1a-8e3c-9f6b4a2d0c85")
	}

	t, err := s.repo.GetByID(ctx, tokenID)
	if err != nil {
		return platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "load reply token")
	}
	if t == nil {
		return platformerrors.NewError(ctx, platformerrors.LayerDomain,
			platformerrors.ErrorTypeNotFound, "token not found", nil,
			"6f2c8a0e-3d5b-4f9c-a7e1-0b4d8c6f2a93")
	}
	if t.RevokedAt != nil {
		return nil
	}
	if err := s.repo.Revoke(ctx, tokenID, s.now().UTC()); err != nil {
		return platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "revoke reply token")
	}
	return nil
}

func (s *Service) usability(t *ReplyToken) Reason {
	switch {
	case t == nil:
		return ReasonNotFound
	case t.IsRevoked():
		return ReasonRevoked
	case t.IsExpired(s.now()):
		return ReasonExpired
	default:
		return ReasonValid
	}
}

// wellFormed requires the uuid-v4 shape reply tokens are minted with.
func wellFormed(tokenID string) bool {
	u, err := uuid.Parse(tokenID)
	if err != nil {
		return false
	}
	return u.Version() == 4
}
