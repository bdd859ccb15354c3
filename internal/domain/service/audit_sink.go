package service

import (
	"context"

	"lockerbox/internal/domain/entity"
)

// AuditSink records audit events. Calls are synchronous but fire-and-forget
// with respect to the caller's transaction: a sink failure is logged by the
// implementation and never propagated into the business flow.
type AuditSink interface {
	Log(ctx context.Context, actionCode string, category entity.AuditCategory, severity entity.AuditSeverity, details map[string]any)
}
