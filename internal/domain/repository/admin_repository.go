package repository

import (
	"context"
	"time"

	"lockerbox/internal/domain/entity"
	"lockerbox/internal/errors"

	"github.com/google/uuid"
)

// ErrAdminNotFound is returned when no admin user matches the lookup.
var ErrAdminNotFound = errors.New("admin user not found")

// AdminRepository persists operator accounts.
type AdminRepository interface {
	// Create persists a new admin account.
	Create(ctx context.Context, admin *entity.AdminUser) error

	// FindByUsername retrieves an admin account by its login name.
	FindByUsername(ctx context.Context, username string) (*entity.AdminUser, error)

	// UpdateLastLogin records a successful authentication.
	UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error
}
