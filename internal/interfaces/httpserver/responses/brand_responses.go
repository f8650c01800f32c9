package responses

import (
	"time"

	"dealdesk/internal/domain/brandresponse"
	"dealdesk/internal/domain/signature"
)

// DealViewResponse wraps the public deal projection served to the brand
// reply page.
type DealViewResponse struct {
	Success bool                    `json:"success"`
	Data    *brandresponse.DealView `json:"data"`
}

// SubmitDecisionResponse confirms a recorded brand decision.
type SubmitDecisionResponse struct {
	Success bool   `json:"success"`
	Status  string `json:"status" example:"accepted"`
}

// SignatureResponse wraps one signature record.
type SignatureResponse struct {
	Success bool              `json:"success"`
	Data    *signature.Record `json:"data"`
}

// TokenIssuedResponse returns a freshly issued reply link token.
type TokenIssuedResponse struct {
	Success   bool       `json:"success"`
	Token     string     `json:"token"`
	DealID    string     `json:"deal_id"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

// TokenRevokedResponse confirms a revocation.
type TokenRevokedResponse struct {
	Success bool   `json:"success"`
	Token   string `json:"token"`
}

// AuditEntryView is one audit trail row on the creator API. IP material is
// exposed only in its pseudonymized form.
type AuditEntryView struct {
	ActionType       string    `json:"action_type"`
	ActionTimestamp  time.Time `json:"action_timestamp"`
	ActionSource     string    `json:"action_source"`
	UserAgent        string    `json:"user_agent,omitempty"`
	IPAddressPartial *string   `json:"ip_address_partial,omitempty"`
	ResponseStatus   string    `json:"response_status,omitempty"`
	BrandTeamName    string    `json:"brand_team_name,omitempty"`
	OptionalComment  string    `json:"optional_comment,omitempty"`
	DecisionVersion  *int      `json:"decision_version,omitempty"`
}

// AuditTrailResponse lists audit entries for a deal.
type AuditTrailResponse struct {
	Success bool             `json:"success"`
	Data    []AuditEntryView `json:"data"`
}
