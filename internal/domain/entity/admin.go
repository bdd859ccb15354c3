package entity

import (
	"time"

	"github.com/google/uuid"
)

// AdminRole is the authorization role carried in admin access tokens.
type AdminRole string

const (
	RoleAdmin AdminRole = "admin"
)

// AdminUser is an operator account for locker management and audit review.
// The password is stored as a bcrypt hash only.
type AdminUser struct {
	ID           uuid.UUID
	Username     string
	PasswordHash string
	Role         AdminRole
	LastLogin    *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
