package postgres

import (
	"context"

	"lockerbox/internal/domain/entity"
	domainerrors "lockerbox/internal/domain/errors"
	"lockerbox/internal/domain/repository"
	"lockerbox/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// lockerRepository implements the domain.LockerRepository interface.
type lockerRepository struct {
	db *gorm.DB
}

// NewLockerRepository is the constructor for lockerRepository.
func NewLockerRepository(db *gorm.DB) repository.LockerRepository {
	return &lockerRepository{db: db}
}

// Create provisions a new locker compartment.
func (repo *lockerRepository) Create(ctx context.Context, locker *entity.Locker) error {
	if locker.ID == uuid.Nil {
		locker.ID = uuid.New()
	}
	if locker.Status == "" {
		locker.Status = entity.LockerFree
	}

	lockerM := fromLockerDomain(locker)

	if err := repo.db.WithContext(ctx).Create(lockerM).Error; err != nil {
		if isNotNullConstraintViolation(err) {
			return domainerrors.ErrValidationFailed.WrapMessage("missing required locker information")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create locker")
	}

	locker.CreatedAt = lockerM.CreatedAt
	locker.UpdatedAt = lockerM.UpdatedAt

	return nil
}

// FindByID retrieves a single locker.
func (repo *lockerRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Locker, error) {
	var lockerM model.LockerModel

	err := repo.db.WithContext(ctx).
		Where("id = ?", id).
		First(&lockerM).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrLockerNotFound
		}

		return nil, errors.WithStack(err)
	}

	return toLockerDomain(&lockerM), nil
}

// FindAvailableForUpdate returns the free locker of the given size with the
// lowest ID, row-locked until the surrounding transaction ends. Concurrent
// deposits therefore serialize on the same candidate row instead of
// double-assigning it.
func (repo *lockerRepository) FindAvailableForUpdate(ctx context.Context, size entity.LockerSize) (*entity.Locker, error) {
	var lockerM model.LockerModel

	query := repo.db.WithContext(ctx)
	// SQLite, used by the repository tests, has no SELECT ... FOR UPDATE.
	if repo.db.Dialector.Name() == "postgres" {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	err := query.
		Where("status = ? AND size = ?", entity.LockerFree, size).
		Order("id asc").
		First(&lockerM).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrLockerNotFound
		}

		return nil, errors.WithStack(err)
	}

	return toLockerDomain(&lockerM), nil
}

// UpdateStatus persists a status change.
func (repo *lockerRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status entity.LockerStatus) error {
	result := repo.db.WithContext(ctx).
		Model(&model.LockerModel{}).
		Where("id = ?", id).
		Update("status", string(status))
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to update locker status")
	}

	// If no rows were affected, the locker does not exist.
	if result.RowsAffected == 0 {
		return repository.ErrLockerNotFound
	}

	return nil
}

// List returns all lockers ordered by ID for the admin overview.
func (repo *lockerRepository) List(ctx context.Context) ([]*entity.Locker, error) {
	var lockerModels []*model.LockerModel

	err := repo.db.WithContext(ctx).
		Order("id asc").
		Find(&lockerModels).Error
	if err != nil {
		return nil, errors.WithStack(err)
	}

	lockers := make([]*entity.Locker, 0, len(lockerModels))
	for _, lockerM := range lockerModels {
		lockers = append(lockers, toLockerDomain(lockerM))
	}

	return lockers, nil
}

// --- Mapper Functions ---

// toLockerDomain converts a GORM LockerModel to a domain Locker entity.
func toLockerDomain(data *model.LockerModel) *entity.Locker {
	if data == nil {
		return nil
	}

	return &entity.Locker{
		ID:        data.ID,
		Location:  data.Location,
		Size:      entity.LockerSize(data.Size),
		Status:    entity.LockerStatus(data.Status),
		CreatedAt: data.CreatedAt,
		UpdatedAt: data.UpdatedAt,
	}
}

// fromLockerDomain converts a domain Locker entity to a GORM LockerModel.
func fromLockerDomain(data *entity.Locker) *model.LockerModel {
	if data == nil {
		return nil
	}

	return &model.LockerModel{
		ID:        data.ID,
		Location:  data.Location,
		Size:      string(data.Size),
		Status:    string(data.Status),
		CreatedAt: data.CreatedAt,
		UpdatedAt: data.UpdatedAt,
	}
}
