package entities

import "time"

// SignatureRecord represents one party's execution of a contract. The
// composite unique index is the actual uniqueness guarantee for
// (deal, role); application-level checks are a fast path only.
type SignatureRecord struct {
	ID                   int64  `gorm:"primaryKey;autoIncrement"`
	DealID               string `gorm:"type:uuid;not null;uniqueIndex:idx_signature_deal_role"`
	SignerRole           string `gorm:"type:varchar(16);not null;uniqueIndex:idx_signature_deal_role"`
	SignerName           string `gorm:"type:varchar(255)"`
	SignerEmail          string `gorm:"type:varchar(255)"`
	SignerPhone          string `gorm:"type:varchar(64)"`
	IPAddress            string `gorm:"type:varchar(64)"`
	UserAgent            string `gorm:"type:text"`
	DeviceInfo           string `gorm:"type:varchar(64)"`
	OTPVerified          bool   `gorm:"not null;default:false"`
	OTPVerifiedAt        *time.Time
	Signed               bool `gorm:"not null;default:false"`
	SignedAt             *time.Time
	ContractVersionID    string    `gorm:"type:varchar(64)"`
	ContractSnapshotHTML string    `gorm:"type:text"`
	CreatedAt            time.Time `gorm:"autoCreateTime"`
	UpdatedAt            time.Time `gorm:"autoUpdateTime"`
}

func (SignatureRecord) TableName() string {
	return "deal_api.signature_records"
}
