package signature

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"dealdesk/internal/domain/deal"
	"dealdesk/internal/infrastructure/metrics"
	"dealdesk/internal/infrastructure/observability"
	"dealdesk/internal/utils/besteffort"
	"dealdesk/internal/utils/devicedetect"
	"dealdesk/internal/utils/platformerrors"
)

// Service records contract signatures and drives deal execution status.
// OTP, ordering and uniqueness violations are hard rejections; email,
// analytics and secondary deal updates are soft failures because they are
// not required for the legal fact of signing to hold.
type Service struct {
	deals       deal.Repository
	signatures  Repository
	submissions SubmissionRepository
	email       EmailSender
	log         zerolog.Logger
	now         func() time.Time
}

func NewService(
	deals deal.Repository,
	signatures Repository,
	submissions SubmissionRepository,
	email EmailSender,
	log zerolog.Logger,
) *Service {
	return &Service{
		deals:       deals,
		signatures:  signatures,
		submissions: submissions,
		email:       email,
		log:         log.With().Str("component", "signature-service").Logger(),
		now:         time.Now,
	}
}

// SignAsBrand records the brand-side signature. If the deal does not exist
// yet and the request names a stored submission, the deal is materialized
// from it first: deal records are deferred until a collaboration request is
// actually accepted.
func (s *Service) SignAsBrand(ctx context.Context, req SignRequest) (*Record, error) {
	ctx, span := observability.StartSignatureSpan(ctx, req.DealID, string(RoleBrand))
	defer span.End()

	if !req.OTPVerified {
		metrics.RecordSignature(string(RoleBrand), "otp_required")
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain,
			platformerrors.ErrorTypeValidation, MsgOTPRequired, nil,
			"3c5e7a9b-1d0f-4b2c-8e4a-6f8d0b2c4e39")
	}

	d, err := s.deals.GetByID(ctx, req.DealID)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "load deal")
	}
	if d == nil && req.SubmissionID != "" {
		d, err = s.materializeDeal(ctx, req.SubmissionID)
		if err != nil {
			return nil, err
		}
	}
	if d == nil {
		metrics.RecordSignature(string(RoleBrand), "deal_not_found")
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain,
			platformerrors.ErrorTypeNotFound, "deal not found", nil,
			"5e9b1d3f-7c2a-4d6e-a0c8-2b4f6d8e0a57")
	}
	// Guard against a stale token → deal binding.
	if d.ID != req.DealID {
		metrics.RecordSignature(string(RoleBrand), "deal_mismatch")
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain,
			platformerrors.ErrorTypeConflict, "deal reference mismatch", nil,
			"7a1d3f5b-9e4c-4f8a-b2e0-4d6f8a0c2e75")
	}

	rec, err := s.sign(ctx, d.ID, RoleBrand, req)
	if err != nil {
		observability.RecordError(span, err)
		return nil, err
	}

	accepted := deal.ResponseAcceptedVerified
	besteffort.Run(s.log, "brand-signed-deal-status", func() error {
		return s.deals.SetStage(ctx, d.ID, deal.StageSignedByBrand, &accepted)
	})

	metrics.RecordSignature(string(RoleBrand), "signed")
	s.log.Info().Str("deal_id", d.ID).Str("role", string(RoleBrand)).Msg("contract signed")

	if s.email != nil {
		emailCtx := context.WithoutCancel(ctx)
		brandName, creatorEmail := d.BrandName, d.CreatorEmail
		signerEmail := req.SignerEmail
		besteffort.Go(s.log, "brand-signed-emails", func() error {
			return s.sendBrandSignedEmails(emailCtx, brandName, signerEmail, creatorEmail)
		})
	}

	return rec, nil
}

// SignAsCreator records the creator-side signature. The brand signs first.
func (s *Service) SignAsCreator(ctx context.Context, req SignRequest) (*Record, error) {
	ctx, span := observability.StartSignatureSpan(ctx, req.DealID, string(RoleCreator))
	defer span.End()

	if !req.OTPVerified {
		metrics.RecordSignature(string(RoleCreator), "otp_required")
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain,
			platformerrors.ErrorTypeValidation, MsgOTPRequired, nil,
			"9c3f5d7b-0e2a-4c6d-8a4f-6b8d0f2a4c93")
	}

	d, err := s.deals.GetByID(ctx, req.DealID)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "load deal")
	}
	if d == nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain,
			platformerrors.ErrorTypeNotFound, "deal not found", nil,
			"1f5b7d9e-2c4a-4e8b-a6d0-8f0b2d4e6a11")
	}
	if d.CreatorID != req.CreatorID {
		metrics.RecordSignature(string(RoleCreator), "forbidden")
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain,
			platformerrors.ErrorTypeForbidden, "deal does not belong to this creator", nil,
			"3d7f9b1c-4e6a-4a0d-b8f2-0d2f4b6c8e33")
	}

	brandSig, err := s.signatures.Get(ctx, d.ID, RoleBrand)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "load brand signature")
	}
	if brandSig == nil || !brandSig.Signed {
		metrics.RecordSignature(string(RoleCreator), "brand_unsigned")
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain,
			platformerrors.ErrorTypeConflict, MsgBrandMustSignFirst, nil,
			"5b9d1f3e-6a8c-4c2f-a0b4-2f4d6b8e0c55")
	}

	rec, err := s.sign(ctx, d.ID, RoleCreator, req)
	if err != nil {
		observability.RecordError(span, err)
		return nil, err
	}

	besteffort.Run(s.log, "creator-signed-deal-status", func() error {
		return s.deals.SetExecutionStatus(ctx, d.ID, deal.ExecutionCompleted)
	})

	metrics.RecordSignature(string(RoleCreator), "signed")
	s.log.Info().Str("deal_id", d.ID).Str("role", string(RoleCreator)).Msg("contract signed")

	if s.email != nil {
		emailCtx := context.WithoutCancel(ctx)
		brandName, signerEmail := d.BrandName, req.SignerEmail
		besteffort.Go(s.log, "creator-signed-email", func() error {
			return s.email.Send(emailCtx, signerEmail,
				fmt.Sprintf("Contract with %s fully executed", brandName),
				fmt.Sprintf("<p>Both parties have signed the collaboration contract with %s. The deal is now in execution.</p>", brandName))
		})
	}

	return rec, nil
}

// Get returns the signature for a role, or nil when none exists. No side
// effects.
func (s *Service) Get(ctx context.Context, dealID string, role Role) (*Record, error) {
	rec, err := s.signatures.Get(ctx, dealID, role)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "load signature")
	}
	return rec, nil
}

// sign enforces the per-role idempotence guard and persists the record.
func (s *Service) sign(ctx context.Context, dealID string, role Role, req SignRequest) (*Record, error) {
	existing, err := s.signatures.Get(ctx, dealID, role)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "load signature")
	}
	if existing != nil && existing.Signed {
		metrics.RecordSignature(string(role), "already_signed")
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain,
			platformerrors.ErrorTypeConflict, MsgAlreadySigned, nil,
			"7d1f3b5e-8c0a-4e4b-b2d6-4b6f8d0e2a77")
	}

	now := s.now().UTC()
	otpAt := req.OTPVerifiedAt
	if otpAt == nil {
		otpAt = &now
	}
	device := req.DeviceInfo
	if device == "" {
		device = devicedetect.Detect(req.UserAgent).String()
	}

	rec := &Record{
		DealID:               dealID,
		SignerRole:           role,
		SignerName:           req.SignerName,
		SignerEmail:          req.SignerEmail,
		SignerPhone:          req.SignerPhone,
		IPAddress:            req.IPAddress,
		UserAgent:            req.UserAgent,
		DeviceInfo:           device,
		OTPVerified:          true,
		OTPVerifiedAt:        otpAt,
		Signed:               true,
		SignedAt:             &now,
		ContractVersionID:    req.ContractVersionID,
		ContractSnapshotHTML: req.ContractSnapshotHTML,
	}
	if err := s.signatures.Upsert(ctx, rec); err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "persist signature")
	}
	return rec, nil
}

// materializeDeal creates the deal from its stored submission form. Deal
// creation is deferred until a collaboration request is actually signed so
// never-accepted requests leave no deal records behind.
func (s *Service) materializeDeal(ctx context.Context, submissionID string) (*deal.Deal, error) {
	sub, err := s.submissions.GetByID(ctx, submissionID)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "load submission")
	}
	if sub == nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain,
			platformerrors.ErrorTypeNotFound, "submission not found", nil,
			"9f3b5d7c-0a2e-4b6d-a4f8-6d8b0f2c4e99")
	}

	d := &deal.Deal{
		ID:           sub.DealID,
		CreatorID:    sub.CreatorID,
		BrandName:    sub.BrandName,
		BrandEmail:   sub.BrandEmail,
		AmountCents:  sub.AmountCents,
		Deliverables: sub.Deliverables,
		DealType:     deal.DealType(sub.DealType),
		Status:       deal.StagePendingBrandResponse,
	}
	if err := s.deals.Create(ctx, d); err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "materialize deal")
	}
	s.log.Info().Str("deal_id", d.ID).Str("submission_id", submissionID).Msg("deal materialized from submission")
	return d, nil
}

func (s *Service) sendBrandSignedEmails(ctx context.Context, brandName, brandSignerEmail, creatorEmail string) error {
	var firstErr error
	if brandSignerEmail != "" {
		if err := s.email.Send(ctx, brandSignerEmail,
			fmt.Sprintf("You signed the collaboration contract with %s", brandName),
			fmt.Sprintf("<p>Your signature on the %s collaboration contract has been recorded. The creator signs next.</p>", brandName)); err != nil {
			firstErr = err
		}
	}
	if creatorEmail != "" {
		if err := s.email.Send(ctx, creatorEmail,
			fmt.Sprintf("%s signed your collaboration contract", brandName),
			fmt.Sprintf("<p>%s has signed the collaboration contract. It is ready for your signature.</p>", brandName)); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
