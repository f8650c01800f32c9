package submission

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"dealdesk/internal/domain/signature"
	"dealdesk/internal/infrastructure/database/entities"
	"dealdesk/internal/utils/platformerrors"
)

// PostgresRepository reads stored collaboration submissions.
type PostgresRepository struct {
	db *gorm.DB
}

// NewPostgresRepository constructs the repository.
func NewPostgresRepository(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// GetByID fetches a submission, returning nil when none exists.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*signature.Submission, error) {
	var entity entities.CollabSubmission
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
			"failed to load collab submission",
			err,
			"submission-get-db-001",
		)
	}
	return &signature.Submission{
		ID:           entity.ID,
		DealID:       entity.DealID,
		CreatorID:    entity.CreatorID,
		BrandName:    entity.BrandName,
		BrandEmail:   entity.BrandEmail,
		AmountCents:  entity.AmountCents,
		Deliverables: entity.Deliverables,
		DealType:     entity.DealType,
	}, nil
}
