package entities

import "time"

// ReplyToken represents the persisted brand reply link capability.
// Rows are never deleted; revocation is the only mutation.
type ReplyToken struct {
	ID        string `gorm:"type:uuid;primaryKey"`
	DealID    string `gorm:"type:uuid;not null;index"`
	IsActive  bool   `gorm:"not null;default:true"`
	ExpiresAt *time.Time
	RevokedAt *time.Time
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (ReplyToken) TableName() string {
	return "deal_api.reply_tokens"
}
