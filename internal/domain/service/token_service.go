package service

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims defines the custom claims for admin access tokens.
type Claims struct {
	AdminID  uuid.UUID
	Username string
	Role     string
	jwt.RegisteredClaims
}

// TokenService defines the interface for generating and validating admin JWTs.
// This abstracts the details of token creation from the use cases.
type TokenService interface {
	// GenerateToken creates a new access token for an authenticated admin.
	GenerateToken(adminID uuid.UUID, username, role string) (string, error)

	// ValidateToken checks the validity of a token string.
	ValidateToken(tokenString string) (*Claims, error)

	// AccessTokenDuration returns the configured token lifetime.
	AccessTokenDuration() time.Duration
}
