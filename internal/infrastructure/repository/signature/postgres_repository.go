package signature

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "dealdesk/internal/domain/signature"
	"dealdesk/internal/infrastructure/database/entities"
	"dealdesk/internal/utils/platformerrors"
)

// PostgresRepository provides persistence for signature records.
type PostgresRepository struct {
	db *gorm.DB
}

// NewPostgresRepository constructs the repository.
func NewPostgresRepository(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Get fetches the signature record for a role, returning nil when none
// exists.
func (r *PostgresRepository) Get(ctx context.Context, dealID string, role domain.Role) (*domain.Record, error) {
	var entity entities.SignatureRecord
	if err := r.db.WithContext(ctx).
		Where("deal_id = ? AND signer_role = ?", dealID, string(role)).
		First(&entity).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to load signature record",
			err,
			"signature-get-db-001",
		)
	}
	return mapRecordFromEntity(&entity), nil
}

// Upsert inserts the record or, while the existing row is still unsigned,
// updates it in place. A signed row is immutable: the conflict update is
// guarded on signed = false, so racing signers cannot overwrite a completed
// signature even past the service-level check.
func (r *PostgresRepository) Upsert(ctx context.Context, rec *domain.Record) error {
	entity := mapRecordToEntity(rec)
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "deal_id"}, {Name: "signer_role"}},
			Where: clause.Where{Exprs: []clause.Expression{
				clause.Eq{Column: clause.Column{Table: "signature_records", Name: "signed"}, Value: false},
			}},
			DoUpdates: clause.AssignmentColumns([]string{
				"signer_name", "signer_email", "signer_phone",
				"ip_address", "user_agent", "device_info",
				"otp_verified", "otp_verified_at",
				"signed", "signed_at",
				"contract_version_id", "contract_snapshot_html",
				"updated_at",
			}),
		}).
		Create(entity).Error
	if err != nil {
		return platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to upsert signature record",
			err,
			"signature-upsert-db-001",
		)
	}
	rec.ID = entity.ID
	return nil
}

func mapRecordToEntity(rec *domain.Record) *entities.SignatureRecord {
	return &entities.SignatureRecord{
		ID:                   rec.ID,
		DealID:               rec.DealID,
		SignerRole:           string(rec.SignerRole),
		SignerName:           rec.SignerName,
		SignerEmail:          rec.SignerEmail,
		SignerPhone:          rec.SignerPhone,
		IPAddress:            rec.IPAddress,
		UserAgent:            rec.UserAgent,
		DeviceInfo:           rec.DeviceInfo,
		OTPVerified:          rec.OTPVerified,
		OTPVerifiedAt:        rec.OTPVerifiedAt,
		Signed:               rec.Signed,
		SignedAt:             rec.SignedAt,
		ContractVersionID:    rec.ContractVersionID,
		ContractSnapshotHTML: rec.ContractSnapshotHTML,
	}
}

func mapRecordFromEntity(entity *entities.SignatureRecord) *domain.Record {
	return &domain.Record{
		ID:                   entity.ID,
		DealID:               entity.DealID,
		SignerRole:           domain.Role(entity.SignerRole),
		SignerName:           entity.SignerName,
		SignerEmail:          entity.SignerEmail,
		SignerPhone:          entity.SignerPhone,
		IPAddress:            entity.IPAddress,
		UserAgent:            entity.UserAgent,
		DeviceInfo:           entity.DeviceInfo,
		OTPVerified:          entity.OTPVerified,
		OTPVerifiedAt:        entity.OTPVerifiedAt,
		Signed:               entity.Signed,
		SignedAt:             entity.SignedAt,
		ContractVersionID:    entity.ContractVersionID,
		ContractSnapshotHTML: entity.ContractSnapshotHTML,
		CreatedAt:            entity.CreatedAt,
		UpdatedAt:            entity.UpdatedAt,
	}
}
