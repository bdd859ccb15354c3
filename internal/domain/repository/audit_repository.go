package repository

import (
	"context"

	"lockerbox/internal/domain/entity"
)

// AuditRepository is the append-only store for audit events. The application
// never updates or deletes events; retention is an external cleanup job.
type AuditRepository interface {
	// Append persists one audit event.
	Append(ctx context.Context, event *entity.AuditEvent) error

	// ListLatest returns up to limit events, newest first, optionally
	// filtered by category (empty category means no filter).
	ListLatest(ctx context.Context, limit int, category entity.AuditCategory) ([]*entity.AuditEvent, error)
}
