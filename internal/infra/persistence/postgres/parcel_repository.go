package postgres

import (
	"context"
	"time"

	"lockerbox/internal/domain/entity"
	domainerrors "lockerbox/internal/domain/errors"
	"lockerbox/internal/domain/repository"
	"lockerbox/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// parcelRepository implements the domain.ParcelRepository interface.
type parcelRepository struct {
	db *gorm.DB
}

// NewParcelRepository is the constructor for parcelRepository.
func NewParcelRepository(db *gorm.DB) repository.ParcelRepository {
	return &parcelRepository{db: db}
}

// Create persists a freshly deposited parcel.
func (repo *parcelRepository) Create(ctx context.Context, parcel *entity.Parcel) error {
	if parcel.ID == uuid.Nil {
		parcel.ID = uuid.New()
	}

	parcelM := fromParcelDomain(parcel)

	if err := repo.db.WithContext(ctx).Create(parcelM).Error; err != nil {
		if isNotNullConstraintViolation(err) {
			return domainerrors.ErrValidationFailed.WrapMessage("missing required parcel information")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create parcel")
	}

	parcel.CreatedAt = parcelM.CreatedAt
	parcel.UpdatedAt = parcelM.UpdatedAt

	return nil
}

// FindByID retrieves a single parcel.
func (repo *parcelRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Parcel, error) {
	var parcelM model.ParcelModel

	err := repo.db.WithContext(ctx).
		Where("id = ?", id).
		First(&parcelM).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrParcelNotFound
		}

		return nil, errors.WithStack(err)
	}

	return toParcelDomain(&parcelM), nil
}

// FindByIDForUpdate retrieves a parcel row-locked until the surrounding
// transaction ends. Pickup, reissue and resolution flows mutate PIN and
// status fields under this lock.
func (repo *parcelRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.Parcel, error) {
	var parcelM model.ParcelModel

	query := repo.db.WithContext(ctx)
	// SQLite, used by the repository tests, has no SELECT ... FOR UPDATE.
	if repo.db.Dialector.Name() == "postgres" {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	err := query.
		Where("id = ?", id).
		First(&parcelM).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrParcelNotFound
		}

		return nil, errors.WithStack(err)
	}

	return toParcelDomain(&parcelM), nil
}

// Update persists status, PIN and reminder mutations.
func (repo *parcelRepository) Update(ctx context.Context, parcel *entity.Parcel) error {
	parcelM := fromParcelDomain(parcel)

	result := repo.db.WithContext(ctx).
		Model(&model.ParcelModel{}).
		Where("id = ?", parcelM.ID).
		Select("*").
		Omit("id", "created_at").
		Updates(parcelM)
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to update parcel")
	}

	if result.RowsAffected == 0 {
		return repository.ErrParcelNotFound
	}

	return nil
}

// CountActiveByLocker counts deposited parcels referencing the locker.
func (repo *parcelRepository) CountActiveByLocker(ctx context.Context, lockerID uuid.UUID) (int, error) {
	var count int64

	err := repo.db.WithContext(ctx).
		Model(&model.ParcelModel{}).
		Where("locker_id = ? AND status = ?", lockerID, entity.ParcelDeposited).
		Count(&count).Error
	if err != nil {
		return 0, errors.WithStack(err)
	}

	return int(count), nil
}

// FindReminderDue returns deposited parcels created before the cutoff that
// have not yet received an overdue-pickup reminder.
func (repo *parcelRepository) FindReminderDue(ctx context.Context, cutoff time.Time) ([]*entity.Parcel, error) {
	var parcelModels []*model.ParcelModel

	err := repo.db.WithContext(ctx).
		Where("status = ? AND created_at < ? AND reminder_sent_at IS NULL", entity.ParcelDeposited, cutoff).
		Order("created_at asc").
		Find(&parcelModels).Error
	if err != nil {
		return nil, errors.WithStack(err)
	}

	parcels := make([]*entity.Parcel, 0, len(parcelModels))
	for _, parcelM := range parcelModels {
		parcels = append(parcels, toParcelDomain(parcelM))
	}

	return parcels, nil
}

// --- Mapper Functions ---

// toParcelDomain converts a GORM ParcelModel to a domain Parcel entity.
func toParcelDomain(data *model.ParcelModel) *entity.Parcel {
	if data == nil {
		return nil
	}

	return &entity.Parcel{
		ID:                 data.ID,
		LockerID:           data.LockerID,
		RecipientEmail:     data.RecipientEmail,
		Status:             entity.ParcelStatus(data.Status),
		PinHash:            data.PinHash,
		PinSalt:            data.PinSalt,
		PinGeneratedAt:     data.PinGeneratedAt,
		ExpiresAt:          data.ExpiresAt,
		PinGenerationCount: data.PinGenerationCount,
		PinWindowStartedAt: data.PinWindowStartedAt,
		ReminderSentAt:     data.ReminderSentAt,
		CreatedAt:          data.CreatedAt,
		UpdatedAt:          data.UpdatedAt,
	}
}

// fromParcelDomain converts a domain Parcel entity to a GORM ParcelModel.
func fromParcelDomain(data *entity.Parcel) *model.ParcelModel {
	if data == nil {
		return nil
	}

	return &model.ParcelModel{
		ID:                 data.ID,
		LockerID:           data.LockerID,
		RecipientEmail:     data.RecipientEmail,
		Status:             string(data.Status),
		PinHash:            data.PinHash,
		PinSalt:            data.PinSalt,
		PinGeneratedAt:     data.PinGeneratedAt,
		ExpiresAt:          data.ExpiresAt,
		PinGenerationCount: data.PinGenerationCount,
		PinWindowStartedAt: data.PinWindowStartedAt,
		ReminderSentAt:     data.ReminderSentAt,
		CreatedAt:          data.CreatedAt,
		UpdatedAt:          data.UpdatedAt,
	}
}
