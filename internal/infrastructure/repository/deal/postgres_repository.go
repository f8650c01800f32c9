package deal

import (
	"context"
	"errors"

	"gorm.io/gorm"

	domain "dealdesk/internal/domain/deal"
	"dealdesk/internal/infrastructure/database/entities"
	"dealdesk/internal/utils/platformerrors"
)

// PostgresRepository provides persistence for deals.
type PostgresRepository struct {
	db *gorm.DB
}

// NewPostgresRepository constructs the repository.
func NewPostgresRepository(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// GetByID fetches a deal, returning nil when none exists.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*domain.Deal, error) {
	var entity entities.Deal
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
			"failed to load deal",
			err,
			"deal-get-db-001",
		)
	}
	return mapDealFromEntity(&entity), nil
}

// GetDisplay loads the full public display projection.
func (r *PostgresRepository) GetDisplay(ctx context.Context, id string) (*domain.DisplayFields, error) {
	var entity entities.Deal
	if err := r.db.WithContext(ctx).
		Select("brand_name", "brand_response_status", "brand_response_message",
			"brand_response_at", "amount_cents", "deliverables",
			"signed_contract_url", "deal_execution_status", "analysis_report_id").
		Where("id = ?", id).
		First(&entity).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to load deal display projection",
			err,
			"deal-display-db-001",
		)
	}
	return mapDisplayFromEntity(&entity), nil
}

// GetDisplayCore loads the reduced projection used when the full one fails.
// Only columns present since the first schema version are touched.
func (r *PostgresRepository) GetDisplayCore(ctx context.Context, id string) (*domain.DisplayFields, error) {
	var entity entities.Deal
	if err := r.db.WithContext(ctx).
		Select("brand_name", "brand_response_status", "brand_response_message", "brand_response_at").
		Where("id = ?", id).
		First(&entity).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to load reduced deal projection",
			err,
			"deal-display-core-db-001",
		)
	}
	return &domain.DisplayFields{
		BrandName:       entity.BrandName,
		ResponseStatus:  domain.ResponseStatus(entity.BrandResponseStatus),
		ResponseMessage: entity.BrandResponseMessage,
		ResponseAt:      entity.BrandResponseAt,
	}, nil
}

// Create inserts a new deal row.
func (r *PostgresRepository) Create(ctx context.Context, d *domain.Deal) error {
	entity := mapDealToEntity(d)
	if err := r.db.WithContext(ctx).Create(entity).Error; err != nil {
		return platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to create deal",
			err,
			"deal-create-db-001",
		)
	}
	d.CreatedAt = entity.CreatedAt
	d.UpdatedAt = entity.UpdatedAt
	return nil
}

// ApplyResponse persists a brand decision. The execution status column is
// coalesced in SQL so a concurrent prior value is never overwritten.
func (r *PostgresRepository) ApplyResponse(ctx context.Context, id string, update domain.ResponseUpdate) error {
	updates := map[string]interface{}{
		"brand_response_status": string(update.ResponseStatus),
		"brand_response_at":     update.ResponseAt,
		"brand_response_ip":     update.ResponseIP,
	}
	if update.Message != nil {
		updates["brand_response_message"] = *update.Message
	}
	if update.BrandTeamName != nil {
		updates["brand_team_name"] = *update.BrandTeamName
	}
	if update.Stage != nil {
		updates["status"] = string(*update.Stage)
	}
	if update.ExecutionStatus != nil {
		updates["deal_execution_status"] = gorm.Expr("COALESCE(deal_execution_status, ?)", string(*update.ExecutionStatus))
	}

	if err := r.db.WithContext(ctx).
		Model(&entities.Deal{}).
		Where("id = ?", id).
		Updates(updates).Error; err != nil {
		return platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to persist brand response",
			err,
			"deal-response-db-001",
		)
	}
	return nil
}

// SetStage updates the business stage and optionally the response status.
func (r *PostgresRepository) SetStage(ctx context.Context, id string, stage domain.Stage, responseStatus *domain.ResponseStatus) error {
	updates := map[string]interface{}{
		"status": string(stage),
	}
	if responseStatus != nil {
		updates["brand_response_status"] = string(*responseStatus)
	}
	if err := r.db.WithContext(ctx).
		Model(&entities.Deal{}).
		Where("id = ?", id).
		Updates(updates).Error; err != nil {
		return platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to update deal stage",
			err,
			"deal-stage-db-001",
		)
	}
	return nil
}

// SetExecutionStatus unconditionally sets the execution status.
func (r *PostgresRepository) SetExecutionStatus(ctx context.Context, id string, status domain.ExecutionStatus) error {
	if err := r.db.WithContext(ctx).
		Model(&entities.Deal{}).
		Where("id = ?", id).
		Update("deal_execution_status", string(status)).Error; err != nil {
		return platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to update deal execution status",
			err,
			"deal-execution-db-001",
		)
	}
	return nil
}

func mapDealToEntity(d *domain.Deal) *entities.Deal {
	entity := &entities.Deal{
		ID:                   d.ID,
		CreatorID:            d.CreatorID,
		CreatorEmail:         d.CreatorEmail,
		BrandName:            d.BrandName,
		BrandEmail:           d.BrandEmail,
		AmountCents:          d.AmountCents,
		Deliverables:         d.Deliverables,
		DealType:             string(d.DealType),
		Status:               string(d.Status),
		BrandResponseStatus:  string(d.BrandResponseStatus),
		BrandResponseMessage: d.BrandResponseMessage,
		BrandResponseAt:      d.BrandResponseAt,
		BrandResponseIP:      d.BrandResponseIP,
		BrandTeamName:        d.BrandTeamName,
		AnalysisReportID:     d.AnalysisReportID,
		SignedContractURL:    d.SignedContractURL,
		CreatedAt:            d.CreatedAt,
		UpdatedAt:            d.UpdatedAt,
	}
	if d.DealExecutionStatus != nil {
		s := string(*d.DealExecutionStatus)
		entity.DealExecutionStatus = &s
	}
	return entity
}

func mapDealFromEntity(entity *entities.Deal) *domain.Deal {
	d := &domain.Deal{
		ID:                   entity.ID,
		CreatorID:            entity.CreatorID,
		CreatorEmail:         entity.CreatorEmail,
		BrandName:            entity.BrandName,
		BrandEmail:           entity.BrandEmail,
		AmountCents:          entity.AmountCents,
		Deliverables:         entity.Deliverables,
		DealType:             domain.DealType(entity.DealType),
		Status:               domain.Stage(entity.Status),
		BrandResponseStatus:  domain.ResponseStatus(entity.BrandResponseStatus),
		BrandResponseMessage: entity.BrandResponseMessage,
		BrandResponseAt:      entity.BrandResponseAt,
		BrandResponseIP:      entity.BrandResponseIP,
		BrandTeamName:        entity.BrandTeamName,
		AnalysisReportID:     entity.AnalysisReportID,
		SignedContractURL:    entity.SignedContractURL,
		CreatedAt:            entity.CreatedAt,
		UpdatedAt:            entity.UpdatedAt,
	}
	if entity.DealExecutionStatus != nil {
		s := domain.ExecutionStatus(*entity.DealExecutionStatus)
		d.DealExecutionStatus = &s
	}
	return d
}

func mapDisplayFromEntity(entity *entities.Deal) *domain.DisplayFields {
	display := &domain.DisplayFields{
		BrandName:         entity.BrandName,
		ResponseStatus:    domain.ResponseStatus(entity.BrandResponseStatus),
		ResponseMessage:   entity.BrandResponseMessage,
		ResponseAt:        entity.BrandResponseAt,
		AmountCents:       entity.AmountCents,
		Deliverables:      entity.Deliverables,
		SignedContractURL: entity.SignedContractURL,
		AnalysisReportID:  entity.AnalysisReportID,
	}
	if entity.DealExecutionStatus != nil {
		s := domain.ExecutionStatus(*entity.DealExecutionStatus)
		display.DealExecutionStatus = &s
	}
	return display
}
