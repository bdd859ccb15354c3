package impl

import (
	"context"

	"lockerbox/internal/domain/entity"
	domainerrors "lockerbox/internal/domain/errors"
	"lockerbox/internal/domain/repository"
	"lockerbox/internal/usecase"

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

const (
	defaultAuditListLimit = 50
	maxAuditListLimit     = 500
)

type auditService struct {
	auditRepo repository.AuditRepository
}

// AuditServiceParams holds dependencies for AuditService, injected by Fx.
type AuditServiceParams struct {
	fx.In

	AuditRepo repository.AuditRepository
}

// NewAuditService creates a new audit service instance
func NewAuditService(params AuditServiceParams) usecase.AuditUsecase {
	return &auditService{auditRepo: params.AuditRepo}
}

// ListEvents returns up to limit events, newest first, optionally filtered
// by category. A non-positive limit falls back to the default page size.
func (s *auditService) ListEvents(ctx context.Context, limit int, category entity.AuditCategory) ([]*entity.AuditEvent, error) {
	if limit <= 0 {
		limit = defaultAuditListLimit
	}
	if limit > maxAuditListLimit {
		limit = maxAuditListLimit
	}
	if category != "" && !category.Valid() {
		return nil, domainerrors.ErrValidationFailed.WrapMessage("unknown audit category")
	}

	events, err := s.auditRepo.ListLatest(ctx, limit, category)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list audit events")
	}

	return events, nil
}
