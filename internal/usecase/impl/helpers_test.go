package impl

import (
	"context"
	"io"
	"log/slog"
	"sync"

	"lockerbox/internal/domain/entity"
	"lockerbox/internal/domain/repository"
)

// fakeTxManager runs the callback directly against a fixed factory, without
// any real transaction.
type fakeTxManager struct {
	factory repository.RepositoryFactory
}

func (f *fakeTxManager) Execute(_ context.Context, fn func(repository.RepositoryFactory) error) error {
	return fn(f.factory)
}

// fakeFactory hands out the repositories the test wired in.
type fakeFactory struct {
	lockerRepo repository.LockerRepository
	parcelRepo repository.ParcelRepository
	adminRepo  repository.AdminRepository
}

func (f *fakeFactory) NewLockerRepository() repository.LockerRepository { return f.lockerRepo }
func (f *fakeFactory) NewParcelRepository() repository.ParcelRepository { return f.parcelRepo }
func (f *fakeFactory) NewAdminRepository() repository.AdminRepository   { return f.adminRepo }

// sinkEntry is one recorded audit call.
type sinkEntry struct {
	code     string
	category entity.AuditCategory
	severity entity.AuditSeverity
	details  map[string]any
}

// recordingSink captures audit calls for assertions.
type recordingSink struct {
	mu      sync.Mutex
	entries []sinkEntry
}

func (r *recordingSink) Log(_ context.Context, actionCode string, category entity.AuditCategory, severity entity.AuditSeverity, details map[string]any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, sinkEntry{
		code:     actionCode,
		category: category,
		severity: severity,
		details:  details,
	})
}

func (r *recordingSink) codes() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	codes := make([]string, 0, len(r.entries))
	for _, entry := range r.entries {
		codes = append(codes, entry.code)
	}

	return codes
}

func (r *recordingSink) last() *sinkEntry {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.entries) == 0 {
		return nil
	}

	return &r.entries[len(r.entries)-1]
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
