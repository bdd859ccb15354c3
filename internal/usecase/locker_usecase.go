package usecase

import (
	"context"

	"lockerbox/internal/domain/entity"

	"github.com/google/uuid"
)

// LockerUsecase covers admin-facing locker management.
type LockerUsecase interface {
	// SetStatus applies an admin status change, validated against the
	// locker transition table. A locker holding an active parcel cannot be
	// freed. The actor is recorded in the audit trail.
	SetStatus(ctx context.Context, lockerID uuid.UUID, status entity.LockerStatus, actor string) (*entity.Locker, error)

	// ListLockers returns all lockers for the admin overview.
	ListLockers(ctx context.Context) ([]*entity.Locker, error)
}
