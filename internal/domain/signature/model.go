package signature

import (
	"context"
	"time"
)

// Role identifies the signing party. Exactly one record exists per
// (deal, role).
type Role string

const (
	RoleBrand   Role = "brand"
	RoleCreator Role = "creator"
)

// Record is one party's execution of a contract.
type Record struct {
	ID                   int64      `json:"-"`
	DealID               string     `json:"deal_id"`
	SignerRole           Role       `json:"signer_role"`
	SignerName           string     `json:"signer_name"`
	SignerEmail          string     `json:"signer_email"`
	SignerPhone          string     `json:"signer_phone,omitempty"`
	IPAddress            string     `json:"-"`
	UserAgent            string     `json:"-"`
	DeviceInfo           string     `json:"device_info"`
	OTPVerified          bool       `json:"otp_verified"`
	OTPVerifiedAt        *time.Time `json:"otp_verified_at,omitempty"`
	Signed               bool       `json:"signed"`
	SignedAt             *time.Time `json:"signed_at,omitempty"`
	ContractVersionID    string     `json:"contract_version_id,omitempty"`
	ContractSnapshotHTML string     `json:"-"`
	CreatedAt            time.Time  `json:"created_at"`
	UpdatedAt            time.Time  `json:"updated_at"`
}

// SignRequest carries one signing attempt.
type SignRequest struct {
	DealID               string
	CreatorID            string // creator signing only, from the authenticated principal
	SubmissionID         string // brand signing only, enables lazy deal materialization
	SignerName           string
	SignerEmail          string
	SignerPhone          string
	OTPVerified          bool
	OTPVerifiedAt        *time.Time
	IPAddress            string
	UserAgent            string
	DeviceInfo           string
	ContractVersionID    string
	ContractSnapshotHTML string
}

// Integrity rejection messages. These are specific, not neutral: by the time
// a party signs it is a legitimate authenticated/verified caller that needs
// actionable detail.
const (
	MsgOTPRequired        = "OTP verification is required before signing"
	MsgAlreadySigned      = "this contract has already been signed for this role"
	MsgBrandMustSignFirst = "the brand must sign before the creator"
)

// Repository defines signature persistence. The storage layer carries the
// unique (deal_id, signer_role) constraint; the service checks are a fast
// path only.
type Repository interface {
	// Get returns nil, nil when no record exists for the role.
	Get(ctx context.Context, dealID string, role Role) (*Record, error)
	// Upsert inserts or, while signed is still false, updates the record for
	// (deal_id, signer_role).
	Upsert(ctx context.Context, r *Record) error
}

// Submission is the stored collaboration form a deal can be materialized
// from on first brand signature.
type Submission struct {
	ID           string
	DealID       string
	CreatorID    string
	BrandName    string
	BrandEmail   string
	AmountCents  int64
	Deliverables string
	DealType     string
}

// SubmissionRepository loads stored collaboration submissions.
type SubmissionRepository interface {
	// GetByID returns nil, nil when no submission exists.
	GetByID(ctx context.Context, id string) (*Submission, error)
}

// EmailSender dispatches transactional email. Only the success/error signal
// matters to this service.
type EmailSender interface {
	Send(ctx context.Context, to, subject, html string) error
}
