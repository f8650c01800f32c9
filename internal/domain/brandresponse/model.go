package brandresponse

import (
	"context"
	"encoding/json"

	"dealdesk/internal/domain/deal"
)

// RequestedChange is one analysis finding surfaced to the brand as a
// requested contract change.
type RequestedChange struct {
	Title       string `json:"title"`
	Severity    string `json:"severity"`
	Category    string `json:"category"`
	Description string `json:"description"`
}

// DealView is the public projection returned to the brand page. It never
// carries internal ids, tokens, or raw error detail.
type DealView struct {
	Deal             *deal.DisplayFields `json:"deal"`
	RequestedChanges []RequestedChange   `json:"requested_changes"`
	AnalysisData     json.RawMessage     `json:"analysis_data,omitempty"`
}

// SubmitParams is a brand decision submission.
type SubmitParams struct {
	Status        string
	Message       string
	BrandTeamName string
}

// SubmitResult confirms a recorded decision.
type SubmitResult struct {
	Status deal.ResponseStatus `json:"status"`
}

// AnalysisRepository loads contract-analysis findings for a deal's report.
type AnalysisRepository interface {
	// IssuesForReport returns issues flagged high, medium or warning, ordered
	// by severity (high first) then creation time ascending.
	IssuesForReport(ctx context.Context, reportID string) ([]RequestedChange, error)
	// ReportData returns the raw analysis blob, or nil when absent.
	ReportData(ctx context.Context, reportID string) (json.RawMessage, error)
}

// InvoiceService triggers invoice generation for verified acceptances.
type InvoiceService interface {
	Generate(ctx context.Context, dealID string) error
}
