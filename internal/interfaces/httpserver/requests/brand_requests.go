package requests

import "time"

// SubmitDecisionRequest is the brand decision payload posted against a
// reply link.
type SubmitDecisionRequest struct {
	Status        string `json:"status" binding:"required" example:"accepted"`
	Message       string `json:"message,omitempty" example:"Happy to move forward"`
	BrandTeamName string `json:"brand_team_name,omitempty" example:"Acme Partnerships"`
}

// BrandSignRequest is the brand-side contract signing payload, posted
// against a reply link after OTP verification.
type BrandSignRequest struct {
	SubmissionID         string     `json:"submission_id,omitempty"`
	SignerName           string     `json:"signer_name" binding:"required"`
	SignerEmail          string     `json:"signer_email" binding:"required"`
	SignerPhone          string     `json:"signer_phone,omitempty"`
	OTPVerified          bool       `json:"otp_verified"`
	OTPVerifiedAt        *time.Time `json:"otp_verified_at,omitempty"`
	ContractVersionID    string     `json:"contract_version_id,omitempty"`
	ContractSnapshotHTML string     `json:"contract_snapshot_html,omitempty"`
}

// CreatorSignRequest is the creator-side countersigning payload on the
// authenticated API.
type CreatorSignRequest struct {
	SignerName           string     `json:"signer_name" binding:"required"`
	SignerEmail          string     `json:"signer_email" binding:"required"`
	OTPVerified          bool       `json:"otp_verified"`
	OTPVerifiedAt        *time.Time `json:"otp_verified_at,omitempty"`
	ContractVersionID    string     `json:"contract_version_id,omitempty"`
	ContractSnapshotHTML string     `json:"contract_snapshot_html,omitempty"`
}
