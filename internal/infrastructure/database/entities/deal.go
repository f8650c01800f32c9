package entities

import "time"

// Deal represents the persisted brand/creator collaboration record.
type Deal struct {
	ID                   string `gorm:"type:uuid;primaryKey"`
	CreatorID            string `gorm:"type:varchar(64);index"`
	CreatorEmail         string `gorm:"type:varchar(255)"`
	BrandName            string `gorm:"type:varchar(255);not null"`
	BrandEmail           string `gorm:"type:varchar(255)"`
	AmountCents          int64
	Deliverables         string `gorm:"type:text"`
	DealType             string `gorm:"type:varchar(16)"`
	Status               string `gorm:"type:varchar(32);not null"`
	BrandResponseStatus  string `gorm:"type:varchar(32)"`
	BrandResponseMessage string `gorm:"type:text"`
	BrandResponseAt      *time.Time
	BrandResponseIP      string  `gorm:"type:varchar(64)"`
	BrandTeamName        string  `gorm:"type:varchar(255)"`
	DealExecutionStatus  *string `gorm:"type:varchar(32)"`
	AnalysisReportID     *string `gorm:"type:uuid"`
	SignedContractURL    string  `gorm:"type:text"`
	CreatedAt            time.Time `gorm:"autoCreateTime"`
	UpdatedAt            time.Time `gorm:"autoUpdateTime"`
}

func (Deal) TableName() string {
	return "deal_api.deals"
}
