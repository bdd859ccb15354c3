package repository

import (
	"context"
	"time"

	"lockerbox/internal/domain/entity"
	"lockerbox/internal/errors"

	"github.com/google/uuid"
)

// ErrParcelNotFound is returned when no parcel matches the lookup.
var ErrParcelNotFound = errors.New("parcel not found")

// ParcelRepository persists parcels and their PIN material.
type ParcelRepository interface {
	// Create persists a freshly deposited parcel.
	Create(ctx context.Context, parcel *entity.Parcel) error

	// FindByID retrieves a single parcel.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Parcel, error)

	// FindByIDForUpdate retrieves a parcel row-locked for the surrounding
	// transaction. Pickup and reissue mutate PIN/status fields under this lock.
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.Parcel, error)

	// Update persists status, PIN and reminder mutations.
	Update(ctx context.Context, parcel *entity.Parcel) error

	// CountActiveByLocker counts parcels in status deposited referencing the
	// locker. The deposit invariant requires this to stay at most one.
	CountActiveByLocker(ctx context.Context, lockerID uuid.UUID) (int, error)

	// FindReminderDue returns parcels still deposited, created before the
	// cutoff, with no reminder sent yet, ordered by creation time.
	FindReminderDue(ctx context.Context, cutoff time.Time) ([]*entity.Parcel, error)
}
