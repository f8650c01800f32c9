package entities

import "time"

// AnalysisReport stores the contract-analysis blob a deal may reference.
type AnalysisReport struct {
	ID        string `gorm:"type:uuid;primaryKey"`
	DealID    string `gorm:"type:uuid;index"`
	Data      []byte `gorm:"type:jsonb"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (AnalysisReport) TableName() string {
	return "deal_api.analysis_reports"
}

// AnalysisIssue is one flagged finding inside an analysis report.
type AnalysisIssue struct {
	ID          int64  `gorm:"primaryKey;autoIncrement"`
	ReportID    string `gorm:"type:uuid;not null;index"`
	Title       string `gorm:"type:varchar(255);not null"`
	Severity    string `gorm:"type:varchar(16);not null"`
	Category    string `gorm:"type:varchar(64)"`
	Description string `gorm:"type:text"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
}

func (AnalysisIssue) TableName() string {
	return "deal_api.analysis_issues"
}
