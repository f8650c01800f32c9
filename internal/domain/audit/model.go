package audit

import (
	"context"
	"time"
)

// ActionType enumerates the actions recorded against a reply token.
type ActionType string

const (
	ActionViewed               ActionType = "viewed"
	ActionAccepted             ActionType = "accepted"
	ActionNegotiationRequested ActionType = "negotiation_requested"
	ActionRejected             ActionType = "rejected"
	ActionUpdatedResponse      ActionType = "updated_response"
)

// ActionSource identifies this service as the origin of every entry.
const ActionSource = "brand_reply_link"

// Entry is one immutable audit row. Viewed entries never carry a decision
// version; every other action gets the next per-deal version assigned at
// write time.
type Entry struct {
	ID               int64
	ReplyTokenID     string
	DealID           string
	ActionType       ActionType
	ActionTimestamp  time.Time
	ActionSource     string
	UserAgent        string
	IPAddressHash    string
	IPAddressPartial *string
	OptionalComment  string
	ResponseStatus   string
	BrandTeamName    string
	DecisionVersion  *int
}

// RequestContext carries the raw client context of the acting request.
type RequestContext struct {
	ClientIP  string
	UserAgent string
}

// Metadata carries decision details attached to non-viewed entries.
type Metadata struct {
	ResponseStatus  string
	BrandTeamName   string
	OptionalComment string
}

// Repository defines the append-only persistence for audit entries.
type Repository interface {
	// Append writes the entry. For non-viewed actions the repository assigns
	// DecisionVersion atomically as max(existing)+1 for the deal.
	Append(ctx context.Context, e *Entry) error
	// LastViewedAt returns the timestamp of the most recent viewed entry for
	// the token, or nil when none exists.
	LastViewedAt(ctx context.Context, replyTokenID string) (*time.Time, error)
	// ListByDeal returns entries for a deal, most recent first.
	ListByDeal(ctx context.Context, dealID string, limit int) ([]Entry, error)
}
