package audit

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	domain "dealdesk/internal/domain/audit"
	"dealdesk/internal/infrastructure/database/entities"
	"dealdesk/internal/utils/platformerrors"
)

// PostgresRepository provides append-only persistence for the audit trail.
type PostgresRepository struct {
	db *gorm.DB
}

// NewPostgresRepository constructs the repository.
func NewPostgresRepository(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Append writes one audit entry. Decision entries take their version from a
// subselect inside the insert so concurrent decisions on the same deal can
// never claim the same version.
func (r *PostgresRepository) Append(ctx context.Context, e *domain.Entry) error {
	if e.ActionType == domain.ActionViewed {
		entity := mapEntryToEntity(e)
		if err := r.db.WithContext(ctx).Create(entity).Error; err != nil {
			return platformerrors.NewError(
				ctx,
				platformerrors.LayerRepository,
				platformerrors.ErrorTypeDatabaseError,
				"failed to append viewed audit entry",
				err,
				"audit-append-viewed-db-001",
			)
		}
		e.ID = entity.ID
		return nil
	}

	var row struct {
		ID              int64
		DecisionVersion int
	}
	err := r.db.WithContext(ctx).Raw(`
		INSERT INTO deal_api.audit_log_entries
			(reply_token_id, deal_id, action_type, action_timestamp, action_source,
			 user_agent, ip_address_hash, ip_address_partial, optional_comment,
			 response_status, brand_team_name, decision_version, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?,
			(SELECT COALESCE(MAX(decision_version), 0) + 1
			   FROM deal_api.audit_log_entries
			  WHERE deal_id = ? AND decision_version IS NOT NULL),
			NOW())
		RETURNING id, decision_version`,
		e.ReplyTokenID, e.DealID, string(e.ActionType), e.ActionTimestamp, e.ActionSource,
		e.UserAgent, e.IPAddressHash, e.IPAddressPartial, e.OptionalComment,
		e.ResponseStatus, e.BrandTeamName, e.DealID,
	).Scan(&row).Error
	if err != nil {
		return platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to append decision audit entry",
			err,
			"audit-append-decision-db-001",
		)
	}

	e.ID = row.ID
	e.DecisionVersion = &row.DecisionVersion
	return nil
}

// LastViewedAt returns the timestamp of the most recent viewed entry for the
// token, or nil when none exists.
func (r *PostgresRepository) LastViewedAt(ctx context.Context, replyTokenID string) (*time.Time, error) {
	var entity entities.AuditLogEntry
	if err := r.db.WithContext(ctx).
		Select("action_timestamp").
		Where("reply_token_id = ? AND action_type = ?", replyTokenID, string(domain.ActionViewed)).
		Order("action_timestamp DESC").
		First(&entity).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to load last viewed timestamp",
			err,
			"audit-last-viewed-db-001",
		)
	}
	ts := entity.ActionTimestamp
	return &ts, nil
}

// ListByDeal returns entries for a deal, most recent first.
func (r *PostgresRepository) ListByDeal(ctx context.Context, dealID string, limit int) ([]domain.Entry, error) {
	if limit <= 0 {
		limit = 100
	}
	var rows []entities.AuditLogEntry
	if err := r.db.WithContext(ctx).
		Where("deal_id = ?", dealID).
		Order("action_timestamp DESC").
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to list audit entries",
			err,
			"audit-list-db-001",
		)
	}

	entries := make([]domain.Entry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, *mapEntryFromEntity(&row))
	}
	return entries, nil
}

func mapEntryToEntity(e *domain.Entry) *entities.AuditLogEntry {
	return &entities.AuditLogEntry{
		ReplyTokenID:     e.ReplyTokenID,
		DealID:           e.DealID,
		ActionType:       string(e.ActionType),
		ActionTimestamp:  e.ActionTimestamp,
		ActionSource:     e.ActionSource,
		UserAgent:        e.UserAgent,
		IPAddressHash:    e.IPAddressHash,
		IPAddressPartial: e.IPAddressPartial,
		OptionalComment:  e.OptionalComment,
		ResponseStatus:   e.ResponseStatus,
		BrandTeamName:    e.BrandTeamName,
		DecisionVersion:  e.DecisionVersion,
	}
}

func mapEntryFromEntity(entity *entities.AuditLogEntry) *domain.Entry {
	return &domain.Entry{
		ID:               entity.ID,
		ReplyTokenID:     entity.ReplyTokenID,
		DealID:           entity.DealID,
		ActionType:       domain.ActionType(entity.ActionType),
		ActionTimestamp:  entity.ActionTimestamp,
		ActionSource:     entity.ActionSource,
		UserAgent:        entity.UserAgent,
		IPAddressHash:    entity.IPAddressHash,
		IPAddressPartial: entity.IPAddressPartial,
		OptionalComment:  entity.OptionalComment,
		ResponseStatus:   entity.ResponseStatus,
		BrandTeamName:    entity.BrandTeamName,
		DecisionVersion:  entity.DecisionVersion,
	}
}
