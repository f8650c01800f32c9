package signature_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dealdesk/internal/domain/deal"
	"dealdesk/internal/domain/signature"
	"dealdesk/internal/utils/platformerrors"
)

const (
	dealID       = "b4cc290f-9c0a-4999-aa23-bdf5f7654113"
	creatorID    = "creator-42"
	submissionID = "c5dd3a1e-0d1b-4aaa-bb34-cef608765224"
)

type fakeDealRepo struct {
	mu    sync.Mutex
	deals map[string]*deal.Deal
}

func newFakeDealRepo(deals ...*deal.Deal) *fakeDealRepo {
	m := map[string]*deal.Deal{}
	for _, d := range deals {
		m[d.ID] = d
	}
	return &fakeDealRepo{deals: m}
}

func (f *fakeDealRepo) GetByID(ctx context.Context, id string) (*deal.Deal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	d, ok := f.deals[id]
	if !ok {
		return nil, nil
	}
	cp := *d
	return &cp, nil
}

func (f *fakeDealRepo) GetDisplay(ctx context.Context, id string) (*deal.DisplayFields, error) {
	return nil, nil
}

func (f *fakeDealRepo) GetDisplayCore(ctx context.Context, id string) (*deal.DisplayFields, error) {
	return nil, nil
}

func (f *fakeDealRepo) Create(ctx context.Context, d *deal.Deal) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *d
	f.deals[d.ID] = &cp
	return nil
}

func (f *fakeDealRepo) ApplyResponse(ctx context.Context, id string, update deal.ResponseUpdate) error {
	return nil
}

func (f *fakeDealRepo) SetStage(ctx context.Context, id string, stage deal.Stage, responseStatus *deal.ResponseStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if d, ok := f.deals[id]; ok {
		d.Status = stage
		if responseStatus != nil {
			d.BrandResponseStatus = *responseStatus
		}
	}
	return nil
}

func (f *fakeDealRepo) SetExecutionStatus(ctx context.Context, id string, status deal.ExecutionStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if d, ok := f.deals[id]; ok {
		d.DealExecutionStatus = &status
	}
	return nil
}

type fakeSignatureRepo struct {
	mu      sync.Mutex
	records map[string]*signature.Record // keyed by dealID/role
}

func newFakeSignatureRepo() *fakeSignatureRepo {
	return &fakeSignatureRepo{records: map[string]*signature.Record{}}
}

func key(dealID string, role signature.Role) string {
	return dealID + "/" + string(role)
}

func (f *fakeSignatureRepo) Get(ctx context.Context, dealID string, role signature.Role) (*signature.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.records[key(dealID, role)]
	if !ok {
		return nil, nil
	}
	cp := *r
	return &cp, nil
}

func (f *fakeSignatureRepo) Upsert(ctx context.Context, r *signature.Record) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *r
	f.records[key(r.DealID, r.SignerRole)] = &cp
	return nil
}

type fakeSubmissionRepo struct {
	submissions map[string]*signature.Submission
}

func (f *fakeSubmissionRepo) GetByID(ctx context.Context, id string) (*signature.Submission, error) {
	if f.submissions == nil {
		return nil, nil
	}
	return f.submissions[id], nil
}

type recordingEmailSender struct {
	mu   sync.Mutex
	sent []string
}

func (r *recordingEmailSender) Send(ctx context.Context, to, subject, html string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, to)
	return nil
}

func newService(deals *fakeDealRepo, sigs *fakeSignatureRepo, subs *fakeSubmissionRepo) *signature.Service {
	if subs == nil {
		subs = &fakeSubmissionRepo{}
	}
	return signature.NewService(deals, sigs, subs, &recordingEmailSender{}, zerolog.Nop())
}

func pendingDeal() *deal.Deal {
	return &deal.Deal{
		ID:        dealID,
		CreatorID: creatorID,
		BrandName: "Acme Beverages",
		Status:    deal.StagePendingBrandResponse,
	}
}

func brandRequest() signature.SignRequest {
	return signature.SignRequest{
		DealID:      dealID,
		SignerName:  "Dana Field",
		SignerEmail: "dana@acme.example",
		OTPVerified: true,
		UserAgent:   "Mozilla/5.0 (iPhone) Mobile Safari/604.1",
	}
}

func TestSignAsBrandRejectsWithoutOTP(t *testing.T) {
	deals := newFakeDealRepo(pendingDeal())
	sigs := newFakeSignatureRepo()
	svc := newService(deals, sigs, nil)

	req := brandRequest()
	req.OTPVerified = false

	_, err := svc.SignAsBrand(context.Background(), req)
	require.Error(t, err)
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeValidation))
	assert.Equal(t, signature.MsgOTPRequired, platformerrors.GetPlatformError(err).Message)

	rec, err := sigs.Get(context.Background(), dealID, signature.RoleBrand)
	require.NoError(t, err)
	assert.Nil(t, rec, "no signature record may exist after an OTP rejection")

	d, _ := deals.GetByID(context.Background(), dealID)
	assert.Equal(t, deal.StagePendingBrandResponse, d.Status, "deal must not be mutated")
}

func TestSignAsBrandHappyPath(t *testing.T) {
	deals := newFakeDealRepo(pendingDeal())
	sigs := newFakeSignatureRepo()
	svc := newService(deals, sigs, nil)

	rec, err := svc.SignAsBrand(context.Background(), brandRequest())
	require.NoError(t, err)
	assert.True(t, rec.Signed)
	require.NotNil(t, rec.SignedAt)
	require.NotNil(t, rec.OTPVerifiedAt)
	assert.Equal(t, "mobile/safari", rec.DeviceInfo, "device info derived from user agent")

	d, _ := deals.GetByID(context.Background(), dealID)
	assert.Equal(t, deal.StageSignedByBrand, d.Status)
	assert.Equal(t, deal.ResponseAcceptedVerified, d.BrandResponseStatus)
}

func TestSignAsBrandTwiceIsRejected(t *testing.T) {
	deals := newFakeDealRepo(pendingDeal())
	sigs := newFakeSignatureRepo()
	svc := newService(deals, sigs, nil)

	first, err := svc.SignAsBrand(context.Background(), brandRequest())
	require.NoError(t, err)
	firstSignedAt := *first.SignedAt

	_, err = svc.SignAsBrand(context.Background(), brandRequest())
	require.Error(t, err)
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeConflict))
	assert.Equal(t, signature.MsgAlreadySigned, platformerrors.GetPlatformError(err).Message)

	rec, _ := sigs.Get(context.Background(), dealID, signature.RoleBrand)
	require.NotNil(t, rec)
	assert.Equal(t, firstSignedAt, *rec.SignedAt, "original signed_at must be preserved")
}

func TestSignAsBrandMaterializesDealFromSubmission(t *testing.T) {
	deals := newFakeDealRepo() // deal does not exist yet
	sigs := newFakeSignatureRepo()
	subs := &fakeSubmissionRepo{submissions: map[string]*signature.Submission{
		submissionID: {
			ID:          submissionID,
			DealID:      dealID,
			CreatorID:   creatorID,
			BrandName:   "Acme Beverages",
			AmountCents: 250000,
			DealType:    "paid",
		},
	}}
	svc := newService(deals, sigs, subs)

	req := brandRequest()
	req.SubmissionID = submissionID

	rec, err := svc.SignAsBrand(context.Background(), req)
	require.NoError(t, err)
	assert.True(t, rec.Signed)

	d, _ := deals.GetByID(context.Background(), dealID)
	require.NotNil(t, d, "deal must be materialized from the submission")
	assert.Equal(t, "Acme Beverages", d.BrandName)
	assert.Equal(t, int64(250000), d.AmountCents)
}

func TestSignAsBrandDealMismatch(t *testing.T) {
	deals := newFakeDealRepo()
	sigs := newFakeSignatureRepo()
	subs := &fakeSubmissionRepo{submissions: map[string]*signature.Submission{
		submissionID: {ID: submissionID, DealID: "e6ee4b2f-1e2c-4bbb-cc45-df0709876335", CreatorID: creatorID},
	}}
	svc := newService(deals, sigs, subs)

	req := brandRequest() // references dealID, submission reserves a different one
	req.SubmissionID = submissionID

	_, err := svc.SignAsBrand(context.Background(), req)
	require.Error(t, err)
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeConflict))
}

func TestSignAsCreatorRequiresBrandFirst(t *testing.T) {
	deals := newFakeDealRepo(pendingDeal())
	sigs := newFakeSignatureRepo()
	svc := newService(deals, sigs, nil)

	req := brandRequest()
	req.CreatorID = creatorID

	_, err := svc.SignAsCreator(context.Background(), req)
	require.Error(t, err)
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeConflict))
	assert.Equal(t, signature.MsgBrandMustSignFirst, platformerrors.GetPlatformError(err).Message)

	rec, _ := sigs.Get(context.Background(), dealID, signature.RoleCreator)
	assert.Nil(t, rec, "ordering rejection must not create a record")
}

func TestSignAsCreatorForbiddenForOtherCreator(t *testing.T) {
	deals := newFakeDealRepo(pendingDeal())
	sigs := newFakeSignatureRepo()
	svc := newService(deals, sigs, nil)

	_, err := svc.SignAsBrand(context.Background(), brandRequest())
	require.NoError(t, err)

	req := brandRequest()
	req.CreatorID = "someone-else"

	_, err = svc.SignAsCreator(context.Background(), req)
	require.Error(t, err)
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeForbidden))
}

func TestFullSigningFlowCompletesExecution(t *testing.T) {
	deals := newFakeDealRepo(pendingDeal())
	sigs := newFakeSignatureRepo()
	svc := newService(deals, sigs, nil)

	_, err := svc.SignAsBrand(context.Background(), brandRequest())
	require.NoError(t, err)

	req := signature.SignRequest{
		DealID:      dealID,
		CreatorID:   creatorID,
		SignerName:  "Jordan Vale",
		SignerEmail: "jordan@creator.example",
		OTPVerified: true,
	}
	rec, err := svc.SignAsCreator(context.Background(), req)
	require.NoError(t, err)
	assert.True(t, rec.Signed)

	d, _ := deals.GetByID(context.Background(), dealID)
	require.NotNil(t, d.DealExecutionStatus)
	assert.Equal(t, deal.ExecutionCompleted, *d.DealExecutionStatus)
}

func TestGetReturnsNilWhenUnsigned(t *testing.T) {
	deals := newFakeDealRepo(pendingDeal())
	sigs := newFakeSignatureRepo()
	svc := newService(deals, sigs, nil)

	rec, err := svc.Get(context.Background(), dealID, signature.RoleBrand)
	require.NoError(t, err)
	assert.Nil(t, rec)
}

func TestSigningWithoutEmailSenderSkipsDispatch(t *testing.T) {
	deals := newFakeDealRepo(pendingDeal())
	sigs := newFakeSignatureRepo()
	svc := signature.NewService(deals, sigs, &fakeSubmissionRepo{}, nil, zerolog.Nop())

	rec, err := svc.SignAsBrand(context.Background(), brandRequest())
	require.NoError(t, err)
	assert.True(t, rec.Signed)

	rec, err = svc.SignAsCreator(context.Background(), signature.SignRequest{
		DealID:      dealID,
		CreatorID:   creatorID,
		SignerName:  "Jordan Vale",
		SignerEmail: "jordan@creator.example",
		OTPVerified: true,
	})
	require.NoError(t, err)
	assert.True(t, rec.Signed)

	d, _ := deals.GetByID(context.Background(), dealID)
	require.NotNil(t, d.DealExecutionStatus)
	assert.Equal(t, deal.ExecutionCompleted, *d.DealExecutionStatus)
}

func TestSignedAtUsesUTC(t *testing.T) {
	deals := newFakeDealRepo(pendingDeal())
	sigs := newFakeSignatureRepo()
	svc := newService(deals, sigs, nil)

	before := time.Now().UTC().Add(-time.Second)
	rec, err := svc.SignAsBrand(context.Background(), brandRequest())
	require.NoError(t, err)
	after := time.Now().UTC().Add(time.Second)

	assert.True(t, rec.SignedAt.After(before) && rec.SignedAt.Before(after))
	assert.Equal(t, time.UTC, rec.SignedAt.Location())
}
