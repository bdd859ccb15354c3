// Package audit persists audit events emitted by the workflow.
package audit

import (
	"context"
	"log/slog"

	"lockerbox/internal/domain/entity"
	"lockerbox/internal/domain/repository"
	"lockerbox/internal/domain/service"
)

// repositorySink writes audit events through the audit repository. A failed
// append is logged and swallowed; audit logging never fails a business flow.
type repositorySink struct {
	repo   repository.AuditRepository
	logger *slog.Logger
}

// NewSink is the constructor for repositorySink.
func NewSink(repo repository.AuditRepository, logger *slog.Logger) service.AuditSink {
	return &repositorySink{
		repo:   repo,
		logger: logger,
	}
}

// Log records one audit event.
func (s *repositorySink) Log(ctx context.Context, actionCode string, category entity.AuditCategory, severity entity.AuditSeverity, details map[string]any) {
	event := &entity.AuditEvent{
		ActionCode: actionCode,
		Category:   category,
		Severity:   severity,
		Details:    details,
	}

	if err := s.repo.Append(ctx, event); err != nil {
		s.logger.LogAttrs(ctx, slog.LevelError, "failed to append audit event",
			slog.String("actionCode", actionCode),
			slog.String("category", string(category)),
			slog.String("error", err.Error()),
		)
	}
}
