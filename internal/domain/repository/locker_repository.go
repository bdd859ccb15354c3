// Package repository defines the persistence contracts consumed by the use
// case layer. Implementations live under internal/infra/persistence.
package repository

import (
	"context"

	"lockerbox/internal/domain/entity"
	"lockerbox/internal/errors"

	"github.com/google/uuid"
)

// ErrLockerNotFound is returned when no locker matches the lookup.
var ErrLockerNotFound = errors.New("locker not found")

// LockerRepository persists locker compartments.
type LockerRepository interface {
	// Create provisions a new locker. Used at install time and by tests.
	Create(ctx context.Context, locker *entity.Locker) error

	// FindByID retrieves a single locker.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Locker, error)

	// FindAvailableForUpdate returns the free locker of the given size with
	// the lowest ID, row-locked for the duration of the surrounding
	// transaction so concurrent deposits cannot claim the same compartment.
	// Returns ErrLockerNotFound when no free locker of that size exists.
	FindAvailableForUpdate(ctx context.Context, size entity.LockerSize) (*entity.Locker, error)

	// UpdateStatus persists a status change.
	UpdateStatus(ctx context.Context, id uuid.UUID, status entity.LockerStatus) error

	// List returns all lockers ordered by ID for the admin overview.
	List(ctx context.Context) ([]*entity.Locker, error)
}
