package entities

import "time"

// AuditLogEntry represents one immutable row of the brand reply audit trail.
// Rows are append-only: never updated, never deleted.
type AuditLogEntry struct {
	ID               int64  `gorm:"primaryKey;autoIncrement"`
	ReplyTokenID     string `gorm:"type:uuid;not null;index"`
	DealID           string `gorm:"type:uuid;not null;index"`
	ActionType       string `gorm:"type:varchar(32);not null"`
	ActionTimestamp  time.Time
	ActionSource     string  `gorm:"type:varchar(32);not null"`
	UserAgent        string  `gorm:"type:text"`
	IPAddressHash    string  `gorm:"type:char(16)"`
	IPAddressPartial *string `gorm:"type:varchar(32)"`
	OptionalComment  string  `gorm:"type:text"`
	ResponseStatus   string  `gorm:"type:varchar(32)"`
	BrandTeamName    string  `gorm:"type:varchar(255)"`
	DecisionVersion  *int
	CreatedAt        time.Time `gorm:"autoCreateTime"`
}

func (AuditLogEntry) TableName() string {
	return "deal_api.audit_log_entries"
}
