// Package mocks provides testify mocks for the domain repository and
// service interfaces.
package mocks

import (
	"context"
	"testing"
	"time"

	"lockerbox/internal/domain/entity"
	"lockerbox/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockLockerRepository is a mock implementation of repository.LockerRepository.
type MockLockerRepository struct {
	mock.Mock
}

// NewMockLockerRepository creates a mock wired to the test lifecycle.
func NewMockLockerRepository(t *testing.T) *MockLockerRepository {
	m := &MockLockerRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockLockerRepository) Create(ctx context.Context, locker *entity.Locker) error {
	args := m.Called(ctx, locker)

	return args.Error(0)
}

func (m *MockLockerRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Locker, error) {
	args := m.Called(ctx, id)
	if locker, ok := args.Get(0).(*entity.Locker); ok {
		return locker, args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *MockLockerRepository) FindAvailableForUpdate(ctx context.Context, size entity.LockerSize) (*entity.Locker, error) {
	args := m.Called(ctx, size)
	if locker, ok := args.Get(0).(*entity.Locker); ok {
		return locker, args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *MockLockerRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status entity.LockerStatus) error {
	args := m.Called(ctx, id, status)

	return args.Error(0)
}

func (m *MockLockerRepository) List(ctx context.Context) ([]*entity.Locker, error) {
	args := m.Called(ctx)
	if lockers, ok := args.Get(0).([]*entity.Locker); ok {
		return lockers, args.Error(1)
	}

	return nil, args.Error(1)
}

// MockParcelRepository is a mock implementation of repository.ParcelRepository.
type MockParcelRepository struct {
	mock.Mock
}

// NewMockParcelRepository creates a mock wired to the test lifecycle.
func NewMockParcelRepository(t *testing.T) *MockParcelRepository {
	m := &MockParcelRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockParcelRepository) Create(ctx context.Context, parcel *entity.Parcel) error {
	args := m.Called(ctx, parcel)

	return args.Error(0)
}

func (m *MockParcelRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Parcel, error) {
	args := m.Called(ctx, id)
	if parcel, ok := args.Get(0).(*entity.Parcel); ok {
		return parcel, args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *MockParcelRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.Parcel, error) {
	args := m.Called(ctx, id)
	if parcel, ok := args.Get(0).(*entity.Parcel); ok {
		return parcel, args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *MockParcelRepository) Update(ctx context.Context, parcel *entity.Parcel) error {
	args := m.Called(ctx, parcel)

	return args.Error(0)
}

func (m *MockParcelRepository) CountActiveByLocker(ctx context.Context, lockerID uuid.UUID) (int, error) {
	args := m.Called(ctx, lockerID)

	return args.Int(0), args.Error(1)
}

func (m *MockParcelRepository) FindReminderDue(ctx context.Context, cutoff time.Time) ([]*entity.Parcel, error) {
	args := m.Called(ctx, cutoff)
	if parcels, ok := args.Get(0).([]*entity.Parcel); ok {
		return parcels, args.Error(1)
	}

	return nil, args.Error(1)
}

// MockAdminRepository is a mock implementation of repository.AdminRepository.
type MockAdminRepository struct {
	mock.Mock
}

// NewMockAdminRepository creates a mock wired to the test lifecycle.
func NewMockAdminRepository(t *testing.T) *MockAdminRepository {
	m := &MockAdminRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockAdminRepository) Create(ctx context.Context, admin *entity.AdminUser) error {
	args := m.Called(ctx, admin)

	return args.Error(0)
}

func (m *MockAdminRepository) FindByUsername(ctx context.Context, username string) (*entity.AdminUser, error) {
	args := m.Called(ctx, username)
	if admin, ok := args.Get(0).(*entity.AdminUser); ok {
		return admin, args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *MockAdminRepository) UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	args := m.Called(ctx, id, at)

	return args.Error(0)
}

// MockAuditRepository is a mock implementation of repository.AuditRepository.
type MockAuditRepository struct {
	mock.Mock
}

// NewMockAuditRepository creates a mock wired to the test lifecycle.
func NewMockAuditRepository(t *testing.T) *MockAuditRepository {
	m := &MockAuditRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockAuditRepository) Append(ctx context.Context, event *entity.AuditEvent) error {
	args := m.Called(ctx, event)

	return args.Error(0)
}

func (m *MockAuditRepository) ListLatest(ctx context.Context, limit int, category entity.AuditCategory) ([]*entity.AuditEvent, error) {
	args := m.Called(ctx, limit, category)
	if events, ok := args.Get(0).([]*entity.AuditEvent); ok {
		return events, args.Error(1)
	}

	return nil, args.Error(1)
}

// MockRepositoryFactory is a mock implementation of repository.RepositoryFactory.
type MockRepositoryFactory struct {
	mock.Mock
}

// NewMockRepositoryFactory creates a mock wired to the test lifecycle.
func NewMockRepositoryFactory(t *testing.T) *MockRepositoryFactory {
	m := &MockRepositoryFactory{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockRepositoryFactory) NewLockerRepository() repository.LockerRepository {
	args := m.Called()

	return args.Get(0).(repository.LockerRepository)
}

func (m *MockRepositoryFactory) NewParcelRepository() repository.ParcelRepository {
	args := m.Called()

	return args.Get(0).(repository.ParcelRepository)
}

func (m *MockRepositoryFactory) NewAdminRepository() repository.AdminRepository {
	args := m.Called()

	return args.Get(0).(repository.AdminRepository)
}
