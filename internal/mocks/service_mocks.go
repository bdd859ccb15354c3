package mocks

import (
	"context"
	"testing"
	"time"

	"lockerbox/internal/domain/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockPinService is a mock implementation of service.PinService.
type MockPinService struct {
	mock.Mock
}

// NewMockPinService creates a mock wired to the test lifecycle.
func NewMockPinService(t *testing.T) *MockPinService {
	m := &MockPinService{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockPinService) Generate() (string, []byte, []byte, error) {
	args := m.Called()

	var salt, hash []byte
	if b, ok := args.Get(1).([]byte); ok {
		salt = b
	}
	if b, ok := args.Get(2).([]byte); ok {
		hash = b
	}

	return args.String(0), salt, hash, args.Error(3)
}

func (m *MockPinService) Verify(candidate string, salt, expectedHash []byte) bool {
	args := m.Called(candidate, salt, expectedHash)

	return args.Bool(0)
}

func (m *MockPinService) IsValidFormat(candidate string) bool {
	args := m.Called(candidate)

	return args.Bool(0)
}

func (m *MockPinService) IsExpired(expiresAt, now time.Time) bool {
	args := m.Called(expiresAt, now)

	return args.Bool(0)
}

func (m *MockPinService) TTL() time.Duration {
	args := m.Called()

	return args.Get(0).(time.Duration)
}

// MockPasswordHasher is a mock implementation of service.PasswordHasher.
type MockPasswordHasher struct {
	mock.Mock
}

// NewMockPasswordHasher creates a mock wired to the test lifecycle.
func NewMockPasswordHasher(t *testing.T) *MockPasswordHasher {
	m := &MockPasswordHasher{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockPasswordHasher) Hash(password string) (string, error) {
	args := m.Called(password)

	return args.String(0), args.Error(1)
}

func (m *MockPasswordHasher) Check(password, hash string) bool {
	args := m.Called(password, hash)

	return args.Bool(0)
}

// MockTokenService is a mock implementation of service.TokenService.
type MockTokenService struct {
	mock.Mock
}

// NewMockTokenService creates a mock wired to the test lifecycle.
func NewMockTokenService(t *testing.T) *MockTokenService {
	m := &MockTokenService{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockTokenService) GenerateToken(adminID uuid.UUID, username, role string) (string, error) {
	args := m.Called(adminID, username, role)

	return args.String(0), args.Error(1)
}

func (m *MockTokenService) ValidateToken(tokenString string) (*service.Claims, error) {
	args := m.Called(tokenString)
	if claims, ok := args.Get(0).(*service.Claims); ok {
		return claims, args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *MockTokenService) AccessTokenDuration() time.Duration {
	args := m.Called()

	return args.Get(0).(time.Duration)
}

// MockMailSender is a mock implementation of service.MailSender.
type MockMailSender struct {
	mock.Mock
}

// NewMockMailSender creates a mock wired to the test lifecycle.
func NewMockMailSender(t *testing.T) *MockMailSender {
	m := &MockMailSender{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockMailSender) Send(ctx context.Context, to, subject, body string) error {
	args := m.Called(ctx, to, subject, body)

	return args.Error(0)
}

// MockQRCodeService is a mock implementation of service.QRCodeService.
type MockQRCodeService struct {
	mock.Mock
}

// NewMockQRCodeService creates a mock wired to the test lifecycle.
func NewMockQRCodeService(t *testing.T) *MockQRCodeService {
	m := &MockQRCodeService{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockQRCodeService) GeneratePickupQR(parcelID uuid.UUID) ([]byte, error) {
	args := m.Called(parcelID)
	if png, ok := args.Get(0).([]byte); ok {
		return png, args.Error(1)
	}

	return nil, args.Error(1)
}
