// Package deal holds the collaboration record shared by the brand response
// and signature workflows.
package deal

import (
	"context"
	"time"
)

// ResponseStatus is the brand's decision on the deal terms.
type ResponseStatus string

const (
	ResponsePending          ResponseStatus = "pending"
	ResponseAccepted         ResponseStatus = "accepted"
	ResponseAcceptedVerified ResponseStatus = "accepted_verified"
	ResponseNegotiating      ResponseStatus = "negotiating"
	ResponseRejected         ResponseStatus = "rejected"
)

// Valid reports whether s is a submittable decision value. "pending" is the
// initial state, never a submission.
func (s ResponseStatus) Valid() bool {
	switch s {
	case ResponseAccepted, ResponseAcceptedVerified, ResponseNegotiating, ResponseRejected:
		return true
	}
	return false
}

// Stage is the business-level deal status.
type Stage string

const (
	StagePendingBrandResponse Stage = "PendingBrandResponse"
	StageApproved             Stage = "Approved"
	StageNegotiating          Stage = "Negotiating"
	StageRejected             Stage = "Rejected"
	StageSignedByBrand        Stage = "SignedByBrand"
)

// ExecutionStatus tracks contract execution after acceptance.
type ExecutionStatus string

const (
	ExecutionPendingSignature ExecutionStatus = "pending_signature"
	ExecutionCompleted        ExecutionStatus = "completed"
)

// DealType distinguishes paid collaborations from barter.
type DealType string

const (
	DealTypePaid   DealType = "paid"
	DealTypeBarter DealType = "barter"
)

// Deal is the brand/creator collaboration record.
type Deal struct {
	ID                   string           `json:"id"`
	CreatorID            string           `json:"creator_id"`
	CreatorEmail         string           `json:"creator_email"`
	BrandName            string           `json:"brand_name"`
	BrandEmail           string           `json:"brand_email"`
	AmountCents          int64            `json:"amount_cents"`
	Deliverables         string           `json:"deliverables"`
	DealType             DealType         `json:"deal_type"`
	Status               Stage            `json:"status"`
	BrandResponseStatus  ResponseStatus   `json:"brand_response_status"`
	BrandResponseMessage string           `json:"brand_response_message"`
	BrandResponseAt      *time.Time       `json:"brand_response_at,omitempty"`
	BrandResponseIP      string           `json:"-"`
	BrandTeamName        string           `json:"brand_team_name"`
	DealExecutionStatus  *ExecutionStatus `json:"deal_execution_status,omitempty"`
	AnalysisReportID     *string          `json:"analysis_report_id,omitempty"`
	SignedContractURL    string           `json:"signed_contract_url"`
	CreatedAt            time.Time        `json:"created_at"`
	UpdatedAt            time.Time        `json:"updated_at"`
}

// DisplayFields is the field subset rendered on the public brand page.
type DisplayFields struct {
	BrandName           string           `json:"brand_name"`
	ResponseStatus      ResponseStatus   `json:"response_status"`
	ResponseMessage     string           `json:"response_message,omitempty"`
	ResponseAt          *time.Time       `json:"response_at,omitempty"`
	AmountCents         int64            `json:"amount_cents"`
	Deliverables        string           `json:"deliverables"`
	SignedContractURL   string           `json:"signed_contract_url,omitempty"`
	DealExecutionStatus *ExecutionStatus `json:"deal_execution_status,omitempty"`
	AnalysisReportID    *string          `json:"-"`
}

// PlaceholderDisplay is the safe fallback shown when every read path fails.
// The public page always renders something rather than exposing a failure.
func PlaceholderDisplay() *DisplayFields {
	return &DisplayFields{
		BrandName:      "Collaboration",
		ResponseStatus: ResponsePending,
	}
}

// ResponseUpdate is the mutation applied when a brand submits a decision.
type ResponseUpdate struct {
	ResponseStatus  ResponseStatus
	ResponseAt      time.Time
	ResponseIP      string
	Message         *string          // nil leaves the column untouched
	BrandTeamName   *string          // nil leaves the column untouched
	Stage           *Stage           // nil leaves the stage untouched
	ExecutionStatus *ExecutionStatus // applied only when currently unset
}

// Repository defines deal persistence used by the response and signature
// workflows.
type Repository interface {
	// GetByID returns nil, nil when no deal exists.
	GetByID(ctx context.Context, id string) (*Deal, error)
	// GetDisplay loads the full public display projection.
	GetDisplay(ctx context.Context, id string) (*DisplayFields, error)
	// GetDisplayCore loads the reduced, guaranteed-safe projection used when
	// the primary projection fails.
	GetDisplayCore(ctx context.Context, id string) (*DisplayFields, error)
	Create(ctx context.Context, d *Deal) error
	// ApplyResponse persists a brand decision.
	ApplyResponse(ctx context.Context, id string, update ResponseUpdate) error
	// SetStage updates the business stage and optionally the response status.
	SetStage(ctx context.Context, id string, stage Stage, responseStatus *ResponseStatus) error
	// SetExecutionStatus unconditionally sets the execution status.
	SetExecutionStatus(ctx context.Context, id string, status ExecutionStatus) error
}
