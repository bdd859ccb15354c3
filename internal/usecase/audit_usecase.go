package usecase

import (
	"context"

	"lockerbox/internal/domain/entity"
)

// AuditUsecase exposes the audit trail to administrators.
type AuditUsecase interface {
	// ListEvents returns up to limit events, newest first, optionally
	// filtered by category.
	ListEvents(ctx context.Context, limit int, category entity.AuditCategory) ([]*entity.AuditEvent, error)
}
