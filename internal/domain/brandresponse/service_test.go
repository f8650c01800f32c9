package brandresponse_test

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dealdesk/internal/config"
	"dealdesk/internal/domain/audit"
	"dealdesk/internal/domain/brandresponse"
	"dealdesk/internal/domain/deal"
	"dealdesk/internal/domain/token"
	"dealdesk/internal/utils/platformerrors"
)

const (
	tokenID  = "a3bb189e-8bf9-4888-9912-ace4e6543002"
	dealID   = "b4cc290f-9c0a-4999-aa23-bdf5f7654113"
	reportID = "d7ff5c3a-1f2d-4ccc-8e56-fa1810987446"
)

type fakeTokenRepo struct {
	token *token.ReplyToken
}

func (f *fakeTokenRepo) GetByID(ctx context.Context, id string) (*token.ReplyToken, error) {
	if f.token == nil || f.token.ID != id {
		return nil, nil
	}
	return f.token, nil
}

func (f *fakeTokenRepo) Create(ctx context.Context, t *token.ReplyToken) error { return nil }
func (f *fakeTokenRepo) Revoke(ctx context.Context, id string, at time.Time) error {
	return nil
}
func (f *fakeTokenRepo) RevokeActiveForDeal(ctx context.Context, dealID string, at time.Time) error {
	return nil
}

type fakeDealRepo struct {
	mu          sync.Mutex
	deal        *deal.Deal
	displayErr  error
	coreErr     error
	lastUpdate  *deal.ResponseUpdate
	applyCalled int
}

func (f *fakeDealRepo) GetByID(ctx context.Context, id string) (*deal.Deal, error) {
	if f.deal == nil || f.deal.ID != id {
		return nil, nil
	}
	cp := *f.deal
	return &cp, nil
}

func (f *fakeDealRepo) GetDisplay(ctx context.Context, id string) (*deal.DisplayFields, error) {
	if f.displayErr != nil {
		return nil, f.displayErr
	}
	if f.deal == nil {
		return nil, nil
	}
	return &deal.DisplayFields{
		BrandName:        f.deal.BrandName,
		ResponseStatus:   f.deal.BrandResponseStatus,
		AmountCents:      f.deal.AmountCents,
		Deliverables:     f.deal.Deliverables,
		AnalysisReportID: f.deal.AnalysisReportID,
	}, nil
}

func (f *fakeDealRepo) GetDisplayCore(ctx context.Context, id string) (*deal.DisplayFields, error) {
	if f.coreErr != nil {
		return nil, f.coreErr
	}
	if f.deal == nil {
		return nil, nil
	}
	return &deal.DisplayFields{
		BrandName:      f.deal.BrandName,
		ResponseStatus: f.deal.BrandResponseStatus,
	}, nil
}

func (f *fakeDealRepo) Create(ctx context.Context, d *deal.Deal) error { return nil }

func (f *fakeDealRepo) ApplyResponse(ctx context.Context, id string, update deal.ResponseUpdate) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.applyCalled++
	f.lastUpdate = &update
	return nil
}

func (f *fakeDealRepo) SetStage(ctx context.Context, id string, stage deal.Stage, responseStatus *deal.ResponseStatus) error {
	return nil
}

func (f *fakeDealRepo) SetExecutionStatus(ctx context.Context, id string, status deal.ExecutionStatus) error {
	return nil
}

type fakeAuditRepo struct {
	mu      sync.Mutex
	entries []audit.Entry
}

func (f *fakeAuditRepo) Append(ctx context.Context, e *audit.Entry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if e.ActionType != audit.ActionViewed {
		next := 1
		for _, prev := range f.entries {
			if prev.DealID == e.DealID && prev.DecisionVersion != nil && *prev.DecisionVersion >= next {
				next = *prev.DecisionVersion + 1
			}
		}
		e.DecisionVersion = &next
	}
	f.entries = append(f.entries, *e)
	return nil
}

func (f *fakeAuditRepo) LastViewedAt(ctx context.Context, replyTokenID string) (*time.Time, error) {
	return nil, nil
}

func (f *fakeAuditRepo) ListByDeal(ctx context.Context, dealID string, limit int) ([]audit.Entry, error) {
	return nil, nil
}

func (f *fakeAuditRepo) byAction(action audit.ActionType) []audit.Entry {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []audit.Entry
	for _, e := range f.entries {
		if e.ActionType == action {
			out = append(out, e)
		}
	}
	return out
}

type fakeAnalysisRepo struct {
	issues []brandresponse.RequestedChange
	data   json.RawMessage
	err    error
}

func (f *fakeAnalysisRepo) IssuesForReport(ctx context.Context, reportID string) ([]brandresponse.RequestedChange, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.issues, nil
}

func (f *fakeAnalysisRepo) ReportData(ctx context.Context, reportID string) (json.RawMessage, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.data, nil
}

type recordingInvoiceService struct {
	triggered chan string
}

func (r *recordingInvoiceService) Generate(ctx context.Context, dealID string) error {
	r.triggered <- dealID
	return nil
}

type fixture struct {
	svc      *brandresponse.Service
	tokens   *fakeTokenRepo
	deals    *fakeDealRepo
	audits   *fakeAuditRepo
	invoices *recordingInvoiceService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	tok := &token.ReplyToken{ID: tokenID, DealID: dealID, IsActive: true, CreatedAt: time.Now().UTC()}
	tokens := &fakeTokenRepo{token: tok}
	deals := &fakeDealRepo{deal: &deal.Deal{
		ID:                  dealID,
		CreatorID:           "creator-42",
		BrandName:           "Acme Beverages",
		AmountCents:         250000,
		Deliverables:        "2 reels, 1 story",
		DealType:            deal.DealTypePaid,
		Status:              deal.StagePendingBrandResponse,
		BrandResponseStatus: deal.ResponsePending,
	}}
	audits := &fakeAuditRepo{}
	invoices := &recordingInvoiceService{triggered: make(chan string, 4)}

	log := zerolog.Nop()
	cfg := &config.Config{}
	tokenSvc := token.NewService(cfg, tokens, log)
	auditLog := audit.NewLogger(audits, time.Hour, log)
	svc := brandresponse.NewService(tokenSvc, deals, &fakeAnalysisRepo{}, auditLog, invoices, log)

	return &fixture{svc: svc, tokens: tokens, deals: deals, audits: audits, invoices: invoices}
}

func reqCtx() audit.RequestContext {
	return audit.RequestContext{ClientIP: "203.0.113.7", UserAgent: "Mozilla/5.0"}
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met in time")
}

func TestGetDealViewHappyPath(t *testing.T) {
	f := newFixture(t)

	view, err := f.svc.GetDealView(context.Background(), tokenID, reqCtx())
	require.NoError(t, err)
	assert.Equal(t, "Acme Beverages", view.Deal.BrandName)
	assert.Equal(t, deal.ResponsePending, view.Deal.ResponseStatus)
	assert.NotNil(t, view.RequestedChanges, "requested changes are always present, possibly empty")

	waitFor(t, func() bool { return len(f.audits.byAction(audit.ActionViewed)) == 1 })
	viewed := f.audits.byAction(audit.ActionViewed)[0]
	assert.Equal(t, tokenID, viewed.ReplyTokenID)
	assert.Nil(t, viewed.DecisionVersion)
}

func TestGetDealViewRevokedToken(t *testing.T) {
	f := newFixture(t)
	at := time.Now().UTC()
	f.tokens.token.RevokedAt = &at

	_, err := f.svc.GetDealView(context.Background(), tokenID, reqCtx())
	require.Error(t, err)
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeForbidden))
	assert.Equal(t, token.MsgLinkInvalid, platformerrors.GetPlatformError(err).Message)
}

func TestGetDealViewExpiredToken(t *testing.T) {
	f := newFixture(t)
	at := time.Now().UTC().Add(-time.Minute)
	f.tokens.token.ExpiresAt = &at

	_, err := f.svc.GetDealView(context.Background(), tokenID, reqCtx())
	require.Error(t, err)
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeExpired))
	assert.Equal(t, token.MsgLinkExpired, platformerrors.GetPlatformError(err).Message)
}

func TestGetDealViewDegradesToPlaceholder(t *testing.T) {
	f := newFixture(t)
	f.deals.displayErr = errors.New("projection query failed")
	f.deals.coreErr = errors.New("core query failed")

	view, err := f.svc.GetDealView(context.Background(), tokenID, reqCtx())
	require.NoError(t, err, "read failures are never surfaced to the brand page")
	assert.Equal(t, "Collaboration", view.Deal.BrandName)
	assert.Equal(t, deal.ResponsePending, view.Deal.ResponseStatus)
}

func TestGetDealViewReducedProjectionFallback(t *testing.T) {
	f := newFixture(t)
	f.deals.displayErr = errors.New("projection query failed")

	view, err := f.svc.GetDealView(context.Background(), tokenID, reqCtx())
	require.NoError(t, err)
	assert.Equal(t, "Acme Beverages", view.Deal.BrandName)
	assert.Zero(t, view.Deal.AmountCents, "reduced projection carries core fields only")
}

func TestGetDealViewIncludesAnalysisFindings(t *testing.T) {
	f := newFixture(t)
	rid := reportID
	f.deals.deal.AnalysisReportID = &rid

	issues := []brandresponse.RequestedChange{
		{Title: "Exclusivity too broad", Severity: "high", Category: "exclusivity"},
		{Title: "Payment terms unclear", Severity: "medium", Category: "payment"},
	}
	analysis := &fakeAnalysisRepo{issues: issues, data: json.RawMessage(`{"score":62}`)}

	log := zerolog.Nop()
	svc := brandresponse.NewService(
		token.NewService(&config.Config{}, f.tokens, log),
		f.deals, analysis, audit.NewLogger(f.audits, time.Hour, log), f.invoices, log)

	view, err := svc.GetDealView(context.Background(), tokenID, reqCtx())
	require.NoError(t, err)
	assert.Equal(t, issues, view.RequestedChanges)
	assert.JSONEq(t, `{"score":62}`, string(view.AnalysisData))
}

func TestSubmitDecisionInvalidStatus(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.SubmitDecision(context.Background(), tokenID,
		brandresponse.SubmitParams{Status: "maybe"}, reqCtx())
	require.Error(t, err)
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeValidation))
	assert.Zero(t, f.deals.applyCalled)
}

func TestSubmitDecisionAccepted(t *testing.T) {
	f := newFixture(t)

	res, err := f.svc.SubmitDecision(context.Background(), tokenID,
		brandresponse.SubmitParams{Status: "accepted", Message: "  Looks good  ", BrandTeamName: "Acme Legal"},
		reqCtx())
	require.NoError(t, err)
	assert.Equal(t, deal.ResponseAccepted, res.Status)

	u := f.deals.lastUpdate
	require.NotNil(t, u)
	assert.Equal(t, deal.ResponseAccepted, u.ResponseStatus)
	require.NotNil(t, u.Message)
	assert.Equal(t, "Looks good", *u.Message, "free-text fields are trimmed")
	require.NotNil(t, u.Stage)
	assert.Equal(t, deal.StageApproved, *u.Stage)
	require.NotNil(t, u.ExecutionStatus)
	assert.Equal(t, deal.ExecutionPendingSignature, *u.ExecutionStatus)

	entries := f.audits.byAction(audit.ActionAccepted)
	require.Len(t, entries, 1)
	assert.Equal(t, "accepted", entries[0].ResponseStatus)
	assert.Equal(t, "Acme Legal", entries[0].BrandTeamName)
}

func TestSubmitDecisionAcceptedPreservesExecutionStatus(t *testing.T) {
	f := newFixture(t)
	completed := deal.ExecutionCompleted
	f.deals.deal.DealExecutionStatus = &completed

	_, err := f.svc.SubmitDecision(context.Background(), tokenID,
		brandresponse.SubmitParams{Status: "accepted"}, reqCtx())
	require.NoError(t, err)
	assert.Nil(t, f.deals.lastUpdate.ExecutionStatus, "execution status is only set when unset")
}

func TestSubmitDecisionNegotiating(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.SubmitDecision(context.Background(), tokenID,
		brandresponse.SubmitParams{Status: "negotiating", Message: "Rate is too low"}, reqCtx())
	require.NoError(t, err)

	u := f.deals.lastUpdate
	require.NotNil(t, u.Stage)
	assert.Equal(t, deal.StageNegotiating, *u.Stage)
	assert.Nil(t, u.ExecutionStatus)
	require.Len(t, f.audits.byAction(audit.ActionNegotiationRequested), 1)
}

func TestSubmitDecisionRejected(t *testing.T) {
	f := newFixture(t)

	res, err := f.svc.SubmitDecision(context.Background(), tokenID,
		brandresponse.SubmitParams{Status: "rejected"}, reqCtx())
	require.NoError(t, err)
	assert.Equal(t, deal.ResponseRejected, res.Status)

	u := f.deals.lastUpdate
	require.NotNil(t, u.Stage)
	assert.Equal(t, deal.StageRejected, *u.Stage)
	assert.Nil(t, u.ExecutionStatus)

	entries := f.audits.byAction(audit.ActionRejected)
	require.Len(t, entries, 1)
	require.NotNil(t, entries[0].DecisionVersion)
	assert.Equal(t, 1, *entries[0].DecisionVersion)
}

func TestSubmitDecisionResubmissionIsUpdate(t *testing.T) {
	f := newFixture(t)
	f.deals.deal.BrandResponseStatus = deal.ResponseNegotiating
	f.deals.deal.Status = deal.StageNegotiating

	_, err := f.svc.SubmitDecision(context.Background(), tokenID,
		brandresponse.SubmitParams{Status: "accepted"}, reqCtx())
	require.NoError(t, err)

	require.Len(t, f.audits.byAction(audit.ActionUpdatedResponse), 1)
	assert.Empty(t, f.audits.byAction(audit.ActionAccepted))
}

func TestSubmitDecisionStageOmittedWhenUnchanged(t *testing.T) {
	f := newFixture(t)
	f.deals.deal.Status = deal.StageNegotiating
	f.deals.deal.BrandResponseStatus = deal.ResponseNegotiating

	_, err := f.svc.SubmitDecision(context.Background(), tokenID,
		brandresponse.SubmitParams{Status: "negotiating"}, reqCtx())
	require.NoError(t, err)
	assert.Nil(t, f.deals.lastUpdate.Stage)
}

func TestSubmitDecisionVerifiedAcceptanceTriggersInvoice(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.SubmitDecision(context.Background(), tokenID,
		brandresponse.SubmitParams{Status: "accepted_verified"}, reqCtx())
	require.NoError(t, err)

	select {
	case got := <-f.invoices.triggered:
		assert.Equal(t, dealID, got)
	case <-time.After(2 * time.Second):
		t.Fatal("invoice generation was not triggered")
	}
}

func TestSubmitDecisionPlainAcceptanceDoesNotTriggerInvoice(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.SubmitDecision(context.Background(), tokenID,
		brandresponse.SubmitParams{Status: "accepted"}, reqCtx())
	require.NoError(t, err)

	select {
	case <-f.invoices.triggered:
		t.Fatal("plain acceptance must not generate an invoice")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestSubmitDecisionUnknownTokenIsNotFound(t *testing.T) {
	f := newFixture(t)
	f.tokens.token = nil

	_, err := f.svc.SubmitDecision(context.Background(), tokenID,
		brandresponse.SubmitParams{Status: "accepted"}, reqCtx())
	require.Error(t, err)
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeNotFound))
	assert.Equal(t, token.MsgLinkInvalid, platformerrors.GetPlatformError(err).Message)
}

func TestSubmitDecisionDealMissing(t *testing.T) {
	f := newFixture(t)
	f.deals.deal = nil

	_, err := f.svc.SubmitDecision(context.Background(), tokenID,
		brandresponse.SubmitParams{Status: "accepted"}, reqCtx())
	require.Error(t, err)
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeNotFound))
	assert.Equal(t, token.MsgLinkInvalid, platformerrors.GetPlatformError(err).Message)
}
