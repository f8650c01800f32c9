package brandresponse

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"dealdesk/internal/domain/audit"
	"dealdesk/internal/domain/deal"
	"dealdesk/internal/domain/token"
	"dealdesk/internal/infrastructure/metrics"
	"dealdesk/internal/infrastructure/observability"
	"dealdesk/internal/utils/besteffort"
	"dealdesk/internal/utils/platformerrors"
)

// Service handles the token-gated public brand response flow: viewing deal
// terms and submitting accept/negotiate/reject decisions.
type Service struct {
	tokens   *token.Service
	deals    deal.Repository
	analysis AnalysisRepository
	audit    *audit.Logger
	invoices InvoiceService
	log      zerolog.Logger
	now      func() time.Time
}

func NewService(
	tokens *token.Service,
	deals deal.Repository,
	analysis AnalysisRepository,
	auditLog *audit.Logger,
	invoices InvoiceService,
	log zerolog.Logger,
) *Service {
	return &Service{
		tokens:   tokens,
		deals:    deals,
		analysis: analysis,
		audit:    auditLog,
		invoices: invoices,
		log:      log.With().Str("component", "brand-response-service").Logger(),
		now:      time.Now,
	}
}

// GetDealView returns the deal terms and requested changes for a valid
// token. The viewed audit entry is recorded off the request path and the
// read degrades to a reduced projection, then a placeholder, before it ever
// surfaces a failure to the unauthenticated viewer.
func (s *Service) GetDealView(ctx context.Context, tokenID string, reqCtx audit.RequestContext) (*DealView, error) {
	ctx, span := observability.StartBrandViewSpan(ctx, tokenID)
	defer span.End()

	val, err := s.tokens.Validate(ctx, tokenID)
	if err != nil {
		observability.RecordError(span, err)
		metrics.RecordBrandView("rejected")
		return nil, err
	}

	auditCtx := context.WithoutCancel(ctx)
	besteffort.Go(s.log, "audit-viewed", func() error {
		s.audit.Record(auditCtx, tokenID, val.DealID, audit.ActionViewed, reqCtx, audit.Metadata{})
		return nil
	})

	display := s.loadDisplay(ctx, val.DealID)

	view := &DealView{
		Deal:             display,
		RequestedChanges: []RequestedChange{},
	}

	if display.AnalysisReportID != nil {
		reportID := *display.AnalysisReportID
		issues, err := s.analysis.IssuesForReport(ctx, reportID)
		if err != nil {
			s.log.Warn().Err(err).Str("deal_id", val.DealID).Msg("failed to load analysis issues")
		} else {
			view.RequestedChanges = issues
		}
		data, err := s.analysis.ReportData(ctx, reportID)
		if err != nil {
			s.log.Warn().Err(err).Str("deal_id", val.DealID).Msg("failed to load analysis blob")
		} else {
			view.AnalysisData = data
		}
	}

	metrics.RecordBrandView("ok")
	return view, nil
}

// loadDisplay implements the degraded-read policy for the public page:
// full projection, then reduced projection, then a generic placeholder.
func (s *Service) loadDisplay(ctx context.Context, dealID string) *deal.DisplayFields {
	display, err := s.deals.GetDisplay(ctx, dealID)
	if err != nil {
		s.log.Warn().Err(err).Str("deal_id", dealID).Msg("primary display read failed, retrying reduced")
		display, err = s.deals.GetDisplayCore(ctx, dealID)
		if err != nil {
			s.log.Error().Err(err).Str("deal_id", dealID).Msg("reduced display read failed, serving placeholder")
			return deal.PlaceholderDisplay()
		}
	}
	if display == nil {
		return deal.PlaceholderDisplay()
	}
	if display.ResponseStatus == "" {
		display.ResponseStatus = deal.ResponsePending
	}
	return display
}

// SubmitDecision records a brand decision against the token's deal.
func (s *Service) SubmitDecision(ctx context.Context, tokenID string, params SubmitParams, reqCtx audit.RequestContext) (*SubmitResult, error) {
	ctx, span := observability.StartDecisionSpan(ctx, tokenID, params.Status)
	defer span.End()

	status := deal.ResponseStatus(params.Status)
	if !status.Valid() {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain,
			platformerrors.ErrorTypeValidation,
			"status must be one of: accepted, accepted_verified, negotiating, rejected", nil,
			"8d1f3b5c-7e0a-4c2d-9b4f-6a8e0c2d4f17")
	}

	val, err := s.tokens.Validate(ctx, tokenID)
	if err != nil {
		return nil, err
	}

	d, err := s.deals.GetByID(ctx, val.DealID)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "load deal")
	}
	if d == nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain,
			platformerrors.ErrorTypeNotFound, token.MsgLinkInvalid, nil,
			"1e7b9d3f-2a4c-4e6b-8c0d-5f9a7b1e3d26")
	}

	actionType := decisionAction(d.BrandResponseStatus, status)

	now := s.now().UTC()
	update := deal.ResponseUpdate{
		ResponseStatus: status,
		ResponseAt:     now,
		ResponseIP:     reqCtx.ClientIP,
	}
	if msg := strings.TrimSpace(params.Message); msg != "" {
		update.Message = &msg
	}
	if team := strings.TrimSpace(params.BrandTeamName); team != "" {
		update.BrandTeamName = &team
	}

	if stage := stageFor(status); stage != d.Status {
		update.Stage = &stage
		observability.AddStageTransition(span, string(d.Status), string(stage))
	}
	if (status == deal.ResponseAccepted || status == deal.ResponseAcceptedVerified) && d.DealExecutionStatus == nil {
		pending := deal.ExecutionPendingSignature
		update.ExecutionStatus = &pending
	}

	if err := s.deals.ApplyResponse(ctx, d.ID, update); err != nil {
		observability.RecordError(span, err)
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "persist brand response")
	}

	besteffort.Run(s.log, "audit-decision", func() error {
		s.audit.Record(ctx, tokenID, d.ID, actionType, reqCtx, audit.Metadata{
			ResponseStatus:  string(status),
			BrandTeamName:   strings.TrimSpace(params.BrandTeamName),
			OptionalComment: strings.TrimSpace(params.Message),
		})
		return nil
	})

	if status == deal.ResponseAcceptedVerified && s.invoices != nil {
		invoiceCtx := context.WithoutCancel(ctx)
		dealID := d.ID
		besteffort.Go(s.log, "invoice-generation", func() error {
			return s.invoices.Generate(invoiceCtx, dealID)
		})
	}

	metrics.RecordBrandDecision(string(status))
	s.log.Info().
		Str("deal_id", d.ID).
		Str("status", string(status)).
		Str("action", string(actionType)).
		Msg("brand decision recorded")

	return &SubmitResult{Status: status}, nil
}

// decisionAction maps a submission to its audit action. Any resubmission
// over a non-pending prior response is an update, whatever the new status.
func decisionAction(prior deal.ResponseStatus, submitted deal.ResponseStatus) audit.ActionType {
	if prior != "" && prior != deal.ResponsePending {
		return audit.ActionUpdatedResponse
	}
	switch submitted {
	case deal.ResponseNegotiating:
		return audit.ActionNegotiationRequested
	case deal.ResponseRejected:
		return audit.ActionRejected
	default:
		return audit.ActionAccepted
	}
}

func stageFor(status deal.ResponseStatus) deal.Stage {
	switch status {
	case deal.ResponseNegotiating:
		return deal.StageNegotiating
	case deal.ResponseRejected:
		return deal.StageRejected
	default:
		return deal.StageApproved
	}
}
