package token

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	domain "dealdesk/internal/domain/token"
	"dealdesk/internal/infrastructure/database/entities"
	"dealdesk/internal/utils/platformerrors"
)

// PostgresRepository provides persistence for reply tokens.
type PostgresRepository struct {
	db *gorm.DB
}

// NewPostgresRepository constructs the repository.
func NewPostgresRepository(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// GetByID fetches a reply token, returning nil when none exists.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*domain.ReplyToken, error) {
	var entity entities.ReplyToken
	if err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&entity).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to load reply token",
			err,
			"token-get-db-001",
		)
	}
	return mapTokenFromEntity(&entity), nil
}

// Create inserts a new reply token row.
func (r *PostgresRepository) Create(ctx context.Context, t *domain.ReplyToken) error {
	entity := mapTokenToEntity(t)
	if err := r.db.WithContext(ctx).Create(entity).Error; err != nil {
		return platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to create reply token",
			err,
			"token-create-db-001",
		)
	}
	t.CreatedAt = entity.CreatedAt
	return nil
}

// Revoke marks a single token revoked. Already-revoked rows are untouched
// so the first revocation timestamp survives repeat calls.
func (r *PostgresRepository) Revoke(ctx context.Context, id string, at time.Time) error {
	if err := r.db.WithContext(ctx).
		Model(&entities.ReplyToken{}).
		Where("id = ? AND revoked_at IS NULL", id).
		Updates(map[string]interface{}{
			"is_active":  false,
			"revoked_at": at,
		}).Error; err != nil {
		return platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to revoke reply token",
			err,
			"token-revoke-db-001",
		)
	}
	return nil
}

// RevokeActiveForDeal revokes every active token for a deal in one statement.
func (r *PostgresRepository) RevokeActiveForDeal(ctx context.Context, dealID string, at time.Time) error {
	if err := r.db.WithContext(ctx).
		Model(&entities.ReplyToken{}).
		Where("deal_id = ? AND is_active = ?", dealID, true).
		Updates(map[string]interface{}{
			"is_active":  false,
			"revoked_at": at,
		}).Error; err != nil {
		return platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to revoke active tokens for deal",
			err,
			"token-revoke-deal-db-001",
		)
	}
	return nil
}

func mapTokenToEntity(t *domain.ReplyToken) *entities.ReplyToken {
	return &entities.ReplyToken{
		ID:        t.ID,
		DealID:    t.DealID,
		IsActive:  t.IsActive,
		ExpiresAt: t.ExpiresAt,
		RevokedAt: t.RevokedAt,
		CreatedAt: t.CreatedAt,
	}
}

func mapTokenFromEntity(entity *entities.ReplyToken) *domain.ReplyToken {
	return &domain.ReplyToken{
		ID:        entity.ID,
		DealID:    entity.DealID,
		IsActive:  entity.IsActive,
		ExpiresAt: entity.ExpiresAt,
		RevokedAt: entity.RevokedAt,
		CreatedAt: entity.CreatedAt,
	}
}
