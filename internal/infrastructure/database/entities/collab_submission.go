package entities

import "time"

// CollabSubmission holds the brand-submitted collaboration form while no
// deal record exists yet. The deal is materialized from this row on the
// first successful brand signature.
type CollabSubmission struct {
	ID           string `gorm:"type:uuid;primaryKey"`
	DealID       string `gorm:"type:uuid;not null;index"` // reserved deal id
	CreatorID    string `gorm:"type:varchar(64);not null"`
	BrandName    string `gorm:"type:varchar(255);not null"`
	BrandEmail   string `gorm:"type:varchar(255)"`
	AmountCents  int64
	Deliverables string `gorm:"type:text"`
	DealType     string `gorm:"type:varchar(16)"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`
}

func (CollabSubmission) TableName() string {
	return "deal_api.collab_submissions"
}
