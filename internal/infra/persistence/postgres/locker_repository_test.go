package postgres

import (
	"context"
	"testing"

	"lockerbox/internal/domain/entity"
	"lockerbox/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// lockerID builds a deterministic UUID so lowest-ID ordering is predictable.
func lockerID(n byte) uuid.UUID {
	var id uuid.UUID
	id[15] = n

	return id
}

func seedLocker(t *testing.T, repo repository.LockerRepository, id uuid.UUID, size entity.LockerSize, status entity.LockerStatus) *entity.Locker {
	t.Helper()

	locker := &entity.Locker{
		ID:       id,
		Location: "Main hall, bank B",
		Size:     size,
		Status:   status,
	}
	require.NoError(t, repo.Create(context.Background(), locker))

	return locker
}

func TestLockerRepository_CreateAndFindByID(t *testing.T) {
	repo := NewLockerRepository(newTestDB(t))
	ctx := context.Background()

	created := seedLocker(t, repo, uuid.Nil, entity.SizeMedium, entity.LockerFree)
	assert.NotEqual(t, uuid.Nil, created.ID, "create assigns an ID")

	found, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)
	assert.Equal(t, entity.SizeMedium, found.Size)
	assert.Equal(t, entity.LockerFree, found.Status)
	assert.Equal(t, "Main hall, bank B", found.Location)
}

func TestLockerRepository_FindByID_NotFound(t *testing.T) {
	repo := NewLockerRepository(newTestDB(t))

	_, err := repo.FindByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, repository.ErrLockerNotFound)
}

func TestLockerRepository_FindAvailableForUpdate_LowestIDWins(t *testing.T) {
	repo := NewLockerRepository(newTestDB(t))
	ctx := context.Background()

	// The occupied locker has the lowest ID overall and must be skipped.
	seedLocker(t, repo, lockerID(1), entity.SizeMedium, entity.LockerOccupied)
	seedLocker(t, repo, lockerID(2), entity.SizeSmall, entity.LockerFree)
	seedLocker(t, repo, lockerID(4), entity.SizeMedium, entity.LockerFree)
	seedLocker(t, repo, lockerID(3), entity.SizeMedium, entity.LockerFree)

	found, err := repo.FindAvailableForUpdate(ctx, entity.SizeMedium)
	require.NoError(t, err)
	assert.Equal(t, lockerID(3), found.ID, "lowest free medium locker wins")
}

func TestLockerRepository_FindAvailableForUpdate_NoneFree(t *testing.T) {
	repo := NewLockerRepository(newTestDB(t))
	ctx := context.Background()

	seedLocker(t, repo, lockerID(1), entity.SizeLarge, entity.LockerOccupied)
	seedLocker(t, repo, lockerID(2), entity.SizeLarge, entity.LockerOutOfService)

	_, err := repo.FindAvailableForUpdate(ctx, entity.SizeLarge)
	assert.ErrorIs(t, err, repository.ErrLockerNotFound)
}

func TestLockerRepository_UpdateStatus(t *testing.T) {
	repo := NewLockerRepository(newTestDB(t))
	ctx := context.Background()

	locker := seedLocker(t, repo, uuid.Nil, entity.SizeSmall, entity.LockerFree)

	require.NoError(t, repo.UpdateStatus(ctx, locker.ID, entity.LockerOccupied))

	found, err := repo.FindByID(ctx, locker.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.LockerOccupied, found.Status)
}

func TestLockerRepository_UpdateStatus_NotFound(t *testing.T) {
	repo := NewLockerRepository(newTestDB(t))

	err := repo.UpdateStatus(context.Background(), uuid.New(), entity.LockerFree)
	assert.ErrorIs(t, err, repository.ErrLockerNotFound)
}

func TestLockerRepository_List_OrderedByID(t *testing.T) {
	repo := NewLockerRepository(newTestDB(t))
	ctx := context.Background()

	seedLocker(t, repo, lockerID(2), entity.SizeSmall, entity.LockerFree)
	seedLocker(t, repo, lockerID(1), entity.SizeLarge, entity.LockerOccupied)

	lockers, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, lockers, 2)
	assert.Equal(t, lockerID(1), lockers[0].ID)
	assert.Equal(t, lockerID(2), lockers[1].ID)
}
