package impl

import (
	"context"
	"log/slog"

	deliveryContext "lockerbox/internal/delivery/context"
	"lockerbox/internal/domain/entity"
	domainerrors "lockerbox/internal/domain/errors"
	"lockerbox/internal/domain/repository"
	"lockerbox/internal/domain/service"
	"lockerbox/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

type lockerService struct {
	txManager  repository.TransactionManager
	lockerRepo repository.LockerRepository
	auditSink  service.AuditSink
	logger     *slog.Logger
}

// LockerServiceParams holds dependencies for LockerService, injected by Fx.
type LockerServiceParams struct {
	fx.In

	TxManager  repository.TransactionManager
	LockerRepo repository.LockerRepository
	AuditSink  service.AuditSink
	Logger     *slog.Logger
}

// NewLockerService creates a new locker service instance
func NewLockerService(params LockerServiceParams) usecase.LockerUsecase {
	return &lockerService{
		txManager:  params.TxManager,
		lockerRepo: params.LockerRepo,
		auditSink:  params.AuditSink,
		logger:     params.Logger,
	}
}

// SetStatus applies an admin status change, validated against the locker
// transition table. Freeing a locker that still holds an active parcel is
// rejected.
func (s *lockerService) SetStatus(ctx context.Context, lockerID uuid.UUID, status entity.LockerStatus, actor string) (*entity.Locker, error) {
	if !status.Valid() {
		return nil, domainerrors.ErrValidationFailed.WrapMessage("unknown locker status")
	}

	var (
		locker *entity.Locker
		from   entity.LockerStatus
	)

	err := s.txManager.Execute(ctx, func(factory repository.RepositoryFactory) error {
		lockerRepo := factory.NewLockerRepository()

		found, err := lockerRepo.FindByID(ctx, lockerID)
		if err != nil {
			if errors.Is(err, repository.ErrLockerNotFound) {
				return domainerrors.ErrLockerNotFound
			}

			return errors.Wrap(err, "failed to load locker")
		}

		from = found.Status
		if !found.Status.CanTransitionTo(status) {
			return domainerrors.ErrInvalidTransition.WrapMessage("locker status change not allowed")
		}

		// A compartment that still physically holds a parcel must not
		// return to the free pool.
		if status == entity.LockerFree {
			active, err := factory.NewParcelRepository().CountActiveByLocker(ctx, lockerID)
			if err != nil {
				return errors.Wrap(err, "failed to count active parcels")
			}
			if active > 0 {
				return domainerrors.ErrInvalidTransition.WrapMessage("locker still holds an active parcel")
			}
		}

		if err := lockerRepo.UpdateStatus(ctx, lockerID, status); err != nil {
			return errors.Wrap(err, "failed to update locker status")
		}
		found.Status = status
		locker = found

		return nil
	})
	if err != nil {
		return nil, err
	}

	s.auditSink.Log(ctx, entity.ActionLockerStatusChanged, entity.AuditAdminAction, entity.SeverityLow, map[string]any{
		"locker_id": lockerID.String(),
		"from":      string(from),
		"to":        string(status),
		"actor":     actor,
	})

	s.log(ctx).Info("Locker status changed",
		slog.String("locker_id", lockerID.String()),
		slog.String("from", string(from)),
		slog.String("to", string(status)),
		slog.String("actor", actor),
	)

	return locker, nil
}

// ListLockers returns all lockers for the admin overview.
func (s *lockerService) ListLockers(ctx context.Context) ([]*entity.Locker, error) {
	lockers, err := s.lockerRepo.List(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list lockers")
	}

	return lockers, nil
}

// log returns the request-scoped logger when present.
func (s *lockerService) log(ctx context.Context) *slog.Logger {
	return deliveryContext.GetLoggerOrDefault(ctx, s.logger)
}
