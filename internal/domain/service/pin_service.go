// Package service defines the domain-level contracts for cryptography,
// notification and auditing collaborators consumed by the use cases.
package service

import "time"

// PinService generates and verifies one-time pickup PINs. The plaintext PIN
// exists only in the return value of Generate; callers persist salt and hash.
type PinService interface {
	// Generate produces a 6-digit PIN from a cryptographically secure
	// source, a fresh random salt and the derived hash.
	Generate() (plaintext string, salt []byte, hash []byte, err error)

	// Verify recomputes the derivation for candidate and compares it against
	// expectedHash in constant time. It never returns an error; malformed
	// input simply fails verification.
	Verify(candidate string, salt []byte, expectedHash []byte) bool

	// IsValidFormat reports whether candidate is exactly six ASCII digits.
	// Checked before any derivation work.
	IsValidFormat(candidate string) bool

	// IsExpired reports whether a PIN whose validity ends at expiresAt is no
	// longer usable at now. A PIN is expired from expiresAt onwards, so the
	// exact TTL boundary rejects.
	IsExpired(expiresAt, now time.Time) bool

	// TTL returns the configured PIN validity window.
	TTL() time.Duration
}
