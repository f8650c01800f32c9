package analysis

import (
	"context"
	"encoding/json"
	"errors"

	"gorm.io/gorm"

	"dealdesk/internal/domain/brandresponse"
	"dealdesk/internal/infrastructure/database/entities"
	"dealdesk/internal/utils/platformerrors"
)

// PostgresRepository reads contract-analysis reports and their findings.
type PostgresRepository struct {
	db *gorm.DB
}

// NewPostgresRepository constructs the repository.
func NewPostgresRepository(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// IssuesForReport returns findings flagged high, medium or warning, most
// severe first, oldest first within a severity.
func (r *PostgresRepository) IssuesForReport(ctx context.Context, reportID string) ([]brandresponse.RequestedChange, error) {
	var rows []entities.AnalysisIssue
	if err := r.db.WithContext(ctx).
		Where("report_id = ? AND severity IN ?", reportID, []string{"high", "medium", "warning"}).
		Order("CASE severity WHEN 'high' THEN 0 WHEN 'medium' THEN 1 ELSE 2 END, created_at ASC").
		Find(&rows).Error; err != nil {
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to list analysis issues",
			err,
			"analysis-issues-db-001",
		)
	}

	changes := make([]brandresponse.RequestedChange, 0, len(rows))
	for _, row := range rows {
		changes = append(changes, brandresponse.RequestedChange{
			Title:       row.Title,
			Severity:    row.Severity,
			Category:    row.Category,
			Description: row.Description,
		})
	}
	return changes, nil
}

// ReportData returns the raw analysis blob, or nil when the report is
// missing or empty.
func (r *PostgresRepository) ReportData(ctx context.Context, reportID string) (json.RawMessage, error) {
	var entity entities.AnalysisReport
	if err := r.db.WithContext(ctx).
		Select("data").
		Where("id = ?", reportID).
		First(&entity).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to load analysis report",
			err,
			"analysis-report-db-001",
		)
	}
	if len(entity.Data) == 0 {
		return nil, nil
	}
	return json.RawMessage(entity.Data), nil
}
