// Package pin provides the concrete one-time PIN generator and verifier
// backed by PBKDF2-SHA256.
package pin

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"math/big"
	"time"

	"lockerbox/config"
	"lockerbox/internal/domain/service"
	"lockerbox/internal/errors"

	"golang.org/x/crypto/pbkdf2"
)

const (
	pinLength = 6
	saltSize  = 16
	keySize   = 32
)

// pinSpace is 10^pinLength, the number of distinct PINs.
var pinSpace = big.NewInt(1_000_000)

// pbkdf2Service is a concrete implementation of the PinService interface.
type pbkdf2Service struct {
	iterations int
	ttl        time.Duration
}

// NewPinService is the constructor for pbkdf2Service. Iteration count and
// TTL come from config so tests can shrink the work factor.
func NewPinService(cfg *config.Config) (service.PinService, error) {
	if cfg.Pin == nil {
		return nil, errors.New("pin configuration must be provided")
	}
	if cfg.Pin.Iterations < 1 {
		return nil, errors.Errorf("pin iteration count must be positive, got %d", cfg.Pin.Iterations)
	}

	return &pbkdf2Service{
		iterations: cfg.Pin.Iterations,
		ttl:        cfg.Pin.TTL,
	}, nil
}

// Generate produces a 6-digit PIN, a fresh 16-byte salt and the PBKDF2 hash.
// The plaintext is returned exactly once; callers must not persist it.
func (s *pbkdf2Service) Generate() (string, []byte, []byte, error) {
	n, err := rand.Int(rand.Reader, pinSpace)
	if err != nil {
		return "", nil, nil, errors.Wrap(err, "failed to draw random pin")
	}

	// Left-pad with zeroes so "7" becomes "000007".
	digits := n.String()
	for len(digits) < pinLength {
		digits = "0" + digits
	}

	salt := make([]byte, saltSize)
	if _, err := rand.Read(salt); err != nil {
		return "", nil, nil, errors.Wrap(err, "failed to draw pin salt")
	}

	hash := s.derive(digits, salt)

	return digits, salt, hash, nil
}

// Verify recomputes the derivation and compares in constant time. Input that
// fails the format check is rejected before any derivation work.
func (s *pbkdf2Service) Verify(candidate string, salt []byte, expectedHash []byte) bool {
	if !s.IsValidFormat(candidate) {
		return false
	}
	if len(salt) == 0 || len(expectedHash) == 0 {
		return false
	}

	derived := s.derive(candidate, salt)

	return subtle.ConstantTimeCompare(derived, expectedHash) == 1
}

// IsValidFormat reports whether candidate is exactly six ASCII digits.
func (s *pbkdf2Service) IsValidFormat(candidate string) bool {
	if len(candidate) != pinLength {
		return false
	}
	for i := 0; i < len(candidate); i++ {
		if candidate[i] < '0' || candidate[i] > '9' {
			return false
		}
	}

	return true
}

// IsExpired treats the exact expiry instant as already expired: a PIN with a
// 24h TTL is rejected at generation time + 24h sharp.
func (s *pbkdf2Service) IsExpired(expiresAt, now time.Time) bool {
	return !now.Before(expiresAt)
}

// TTL returns the configured PIN validity window.
func (s *pbkdf2Service) TTL() time.Duration {
	return s.ttl
}

func (s *pbkdf2Service) derive(pin string, salt []byte) []byte {
	return pbkdf2.Key([]byte(pin), salt, s.iterations, keySize, sha256.New)
}
