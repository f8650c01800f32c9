package token

import (
	"context"
	"time"
)

// ReplyToken is a single-deal capability link handed to a brand contact.
// It is never deleted; revocation is the only mutation after creation.
type ReplyToken struct {
	ID        string     `json:"id"`
	DealID    string     `json:"deal_id"`
	IsActive  bool       `json:"is_active"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
	RevokedAt *time.Time `json:"revoked_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

// IsExpired checks if the token has expired. All comparisons use UTC.
func (t *ReplyToken) IsExpired(now time.Time) bool {
	if t.ExpiresAt == nil {
		return false
	}
	return now.UTC().After(t.ExpiresAt.UTC())
}

// IsRevoked checks if the token has been revoked or deactivated.
func (t *ReplyToken) IsRevoked() bool {
	return !t.IsActive || t.RevokedAt != nil
}

// Reason is the internal validation outcome. It is logged server-side and
// never exposed verbatim to the brand viewer.
type Reason string

const (
	ReasonValid         Reason = "valid"
	ReasonInvalidFormat Reason = "invalid_format"
	ReasonNotFound      Reason = "not_found"
	ReasonRevoked       Reason = "revoked"
	ReasonExpired       Reason = "expired"
)

// External messages. Not-found and revoked share one neutral message so an
// unauthenticated caller cannot probe which condition failed; expiry is not
// security-sensitive and gets its own text.
const (
	MsgLinkInvalid = "This link is no longer valid. Please contact the creator."
	MsgLinkExpired = "This request has expired. Please ask the creator to resend it."
)

// Validation is the result of a successful token check.
type Validation struct {
	Token  *ReplyToken
	DealID string
}

// Repository defines persistence operations needed by the token service.
type Repository interface {
	// GetByID returns nil, nil when no token exists with the given id.
	GetByID(ctx context.Context, id string) (*ReplyToken, error)
	Create(ctx context.Context, t *ReplyToken) error
	Revoke(ctx context.Context, id string, at time.Time) error
	RevokeActiveForDeal(ctx context.Context, dealID string, at time.Time) error
}
