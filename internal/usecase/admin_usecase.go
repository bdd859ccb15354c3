package usecase

import (
	"context"
	"time"

	"lockerbox/internal/domain/entity"
)

// AuthResult is returned on successful admin authentication.
type AuthResult struct {
	Token     string
	ExpiresAt time.Time
	Admin     *entity.AdminUser
}

// AdminUsecase covers operator authentication.
type AdminUsecase interface {
	// Authenticate verifies the credentials and issues a signed access
	// token. Unknown usernames and wrong passwords are indistinguishable to
	// the caller; the audit trail records every failed attempt.
	Authenticate(ctx context.Context, username, password string) (*AuthResult, error)
}
