// Package impl contains the concrete use case services.
package impl

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"lockerbox/config"
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

type parcelService struct {
	txManager  repository.TransactionManager
	parcelRepo repository.ParcelRepository
	lockerRepo repository.LockerRepository
	pinService service.PinService
	mailSender service.MailSender
	auditSink  service.AuditSink
	qrService  service.QRCodeService
	config     *config.Config
	logger     *slog.Logger
}

// ParcelServiceParams holds dependencies for ParcelService, injected by Fx.
type ParcelServiceParams struct {
	fx.In

	TxManager  repository.TransactionManager
	ParcelRepo repository.ParcelRepository
	LockerRepo repository.LockerRepository
	PinService service.PinService
	MailSender service.MailSender
	AuditSink  service.AuditSink
	QRService  service.QRCodeService
	Config     *config.Config
	Logger     *slog.Logger
}

// NewParcelService creates a new parcel service instance
func NewParcelService(params ParcelServiceParams) usecase.ParcelUsecase {
	return &parcelService{
		txManager:  params.TxManager,
		parcelRepo: params.ParcelRepo,
		lockerRepo: params.LockerRepo,
		pinService: params.PinService,
		mailSender: params.MailSender,
		auditSink:  params.AuditSink,
		qrService:  params.QRService,
		config:     params.Config,
		logger:     params.Logger,
	}
}

// log returns the request-scoped logger when present.
func (s *parcelService) log(ctx context.Context) *slog.Logger {
	return deliveryContext.GetLoggerOrDefault(ctx, s.logger)
}

// Deposit atomically reserves a locker, generates a PIN and creates the
// parcel. The candidate locker row stays locked until commit, so two
// concurrent deposits can never claim the same compartment.
func (s *parcelService) Deposit(ctx context.Context, input *usecase.DepositInput) (*usecase.DepositResult, error) {
	if input == nil || input.RecipientEmail == "" {
		return nil, domainerrors.ErrValidationFailed.WrapMessage("recipient email is required")
	}
	if !input.Size.Valid() {
		return nil, domainerrors.ErrValidationFailed.WrapMessage("unknown locker size")
	}

	plaintext, salt, hash, err := s.pinService.Generate()
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate PIN")
	}

	now := time.Now()
	parcel := &entity.Parcel{
		ID:                 uuid.New(),
		RecipientEmail:     input.RecipientEmail,
		Status:             entity.ParcelDeposited,
		PinHash:            hash,
		PinSalt:            salt,
		PinGeneratedAt:     now,
		ExpiresAt:          now.Add(s.pinService.TTL()),
		PinGenerationCount: 1,
		PinWindowStartedAt: now,
	}

	var locker *entity.Locker
	err = s.txManager.Execute(ctx, func(factory repository.RepositoryFactory) error {
		lockerRepo := factory.NewLockerRepository()

		found, err := lockerRepo.FindAvailableForUpdate(ctx, input.Size)
		if err != nil {
			if errors.Is(err, repository.ErrLockerNotFound) {
				return domainerrors.ErrNoLockerAvailable
			}

			return errors.Wrap(err, "failed to find available locker")
		}

		if err := lockerRepo.UpdateStatus(ctx, found.ID, entity.LockerOccupied); err != nil {
			return errors.Wrap(err, "failed to occupy locker")
		}
		found.Status = entity.LockerOccupied

		parcel.LockerID = &found.ID
		if err := factory.NewParcelRepository().Create(ctx, parcel); err != nil {
			return errors.Wrap(err, "failed to create parcel")
		}

		locker = found

		return nil
	})
	if err != nil {
		return nil, err
	}

	s.auditSink.Log(ctx, entity.ActionDepositSuccess, entity.AuditUserAction, entity.SeverityLow, map[string]any{
		"parcel_id":   parcel.ID.String(),
		"locker_id":   locker.ID.String(),
		"locker_size": string(input.Size),
	})

	// Notification happens strictly after commit and never fails the deposit.
	s.notify(ctx, parcel, "Your parcel has arrived",
		fmt.Sprintf("A parcel is waiting in locker %s (%s).\nYour pickup PIN is %s. It expires at %s.",
			locker.ID, locker.Location, plaintext, parcel.ExpiresAt.Format(time.RFC1123)))

	return &usecase.DepositResult{
		Parcel: parcel,
		Locker: locker,
		Pin:    plaintext,
	}, nil
}

// Pickup verifies the candidate PIN under a row lock and resolves the parcel
// on success. Every rejection maps to the same generic error; the audit
// trail keeps the distinct cause.
func (s *parcelService) Pickup(ctx context.Context, parcelID uuid.UUID, candidatePin string) (*usecase.PickupResult, error) {
	var (
		parcel    *entity.Parcel
		lockerID  uuid.UUID
		auditCode string
	)

	err := s.txManager.Execute(ctx, func(factory repository.RepositoryFactory) error {
		parcelRepo := factory.NewParcelRepository()

		found, err := parcelRepo.FindByIDForUpdate(ctx, parcelID)
		if err != nil {
			if errors.Is(err, repository.ErrParcelNotFound) {
				return domainerrors.ErrParcelNotFound
			}

			return errors.Wrap(err, "failed to load parcel")
		}

		if found.Status != entity.ParcelDeposited {
			auditCode = entity.ActionPickupWrongState

			return domainerrors.ErrPickupRejected
		}
		if !s.pinService.IsValidFormat(candidatePin) {
			auditCode = entity.ActionPickupInvalidPin

			return domainerrors.ErrPickupRejected
		}
		if s.pinService.IsExpired(found.ExpiresAt, time.Now()) {
			auditCode = entity.ActionPickupPinExpired

			return domainerrors.ErrPickupRejected
		}
		if !s.pinService.Verify(candidatePin, found.PinSalt, found.PinHash) {
			auditCode = entity.ActionPickupInvalidPin

			return domainerrors.ErrPickupRejected
		}

		if found.LockerID != nil {
			lockerID = *found.LockerID
		}
		found.Status = entity.ParcelPickedUp
		found.LockerID = nil
		if err := parcelRepo.Update(ctx, found); err != nil {
			return errors.Wrap(err, "failed to update parcel")
		}

		if lockerID != uuid.Nil {
			if err := s.freeLocker(ctx, factory.NewLockerRepository(), lockerID); err != nil {
				return err
			}
		}

		parcel = found

		return nil
	})
	if err != nil {
		if auditCode != "" {
			s.auditSink.Log(ctx, auditCode, entity.AuditSecurityEvent, entity.SeverityMedium, map[string]any{
				"parcel_id": parcelID.String(),
			})
		}

		return nil, err
	}

	s.auditSink.Log(ctx, entity.ActionPickupSuccess, entity.AuditUserAction, entity.SeverityLow, map[string]any{
		"parcel_id": parcelID.String(),
		"locker_id": lockerID.String(),
	})

	return &usecase.PickupResult{Parcel: parcel, LockerID: lockerID}, nil
}

// ReissuePin replaces the PIN of a deposited parcel. Generations are counted
// inside a rolling window anchored at the first generation; once the window
// elapses the counter starts over.
func (s *parcelService) ReissuePin(ctx context.Context, parcelID uuid.UUID) (*usecase.ReissueResult, error) {
	var (
		parcel      *entity.Parcel
		plaintext   string
		rateLimited bool
	)

	err := s.txManager.Execute(ctx, func(factory repository.RepositoryFactory) error {
		parcelRepo := factory.NewParcelRepository()

		found, err := parcelRepo.FindByIDForUpdate(ctx, parcelID)
		if err != nil {
			if errors.Is(err, repository.ErrParcelNotFound) {
				return domainerrors.ErrParcelNotFound
			}

			return errors.Wrap(err, "failed to load parcel")
		}

		if found.Status != entity.ParcelDeposited {
			return domainerrors.ErrInvalidTransition.WrapMessage("parcel is no longer awaiting pickup")
		}

		now := time.Now()
		if now.Sub(found.PinWindowStartedAt) >= s.config.Pin.Window {
			// Window elapsed; this generation starts a fresh one.
			found.PinGenerationCount = 0
			found.PinWindowStartedAt = now
		}
		if found.PinGenerationCount >= s.config.Pin.MaxGenerations {
			rateLimited = true

			return domainerrors.ErrPinRateLimited
		}

		// Rejected requests never reach the KDF; the derivation runs only
		// once every check above has passed.
		pin, salt, hash, err := s.pinService.Generate()
		if err != nil {
			return errors.Wrap(err, "failed to generate PIN")
		}
		plaintext = pin

		found.PinHash = hash
		found.PinSalt = salt
		found.PinGeneratedAt = now
		found.ExpiresAt = now.Add(s.pinService.TTL())
		found.PinGenerationCount++
		if err := parcelRepo.Update(ctx, found); err != nil {
			return errors.Wrap(err, "failed to update parcel")
		}

		parcel = found

		return nil
	})
	if err != nil {
		if rateLimited {
			s.auditSink.Log(ctx, entity.ActionPinRateLimited, entity.AuditSecurityEvent, entity.SeverityMedium, map[string]any{
				"parcel_id": parcelID.String(),
			})
		}

		return nil, err
	}

	s.auditSink.Log(ctx, entity.ActionPinReissued, entity.AuditUserAction, entity.SeverityLow, map[string]any{
		"parcel_id":  parcelID.String(),
		"generation": parcel.PinGenerationCount,
	})

	s.notify(ctx, parcel, "Your new pickup PIN",
		fmt.Sprintf("Your new pickup PIN is %s. It expires at %s. The previous PIN no longer works.",
			plaintext, parcel.ExpiresAt.Format(time.RFC1123)))

	return &usecase.ReissueResult{Parcel: parcel, Pin: plaintext}, nil
}

// Retract lets the sender withdraw a still-deposited parcel and frees the
// locker.
func (s *parcelService) Retract(ctx context.Context, parcelID uuid.UUID) (*entity.Parcel, error) {
	parcel, err := s.resolve(ctx, parcelID, entity.ParcelRetractedBySender, entity.LockerFree)
	if err != nil {
		return nil, err
	}

	s.auditSink.Log(ctx, entity.ActionParcelRetracted, entity.AuditUserAction, entity.SeverityLow, map[string]any{
		"parcel_id": parcelID.String(),
	})

	return parcel, nil
}

// DisputePickup quarantines the locker of a contested parcel. The locker
// stays referenced by the parcel until an admin resolves the dispute.
func (s *parcelService) DisputePickup(ctx context.Context, parcelID uuid.UUID) (*entity.Parcel, error) {
	var parcel *entity.Parcel

	err := s.txManager.Execute(ctx, func(factory repository.RepositoryFactory) error {
		parcelRepo := factory.NewParcelRepository()

		found, err := parcelRepo.FindByIDForUpdate(ctx, parcelID)
		if err != nil {
			if errors.Is(err, repository.ErrParcelNotFound) {
				return domainerrors.ErrParcelNotFound
			}

			return errors.Wrap(err, "failed to load parcel")
		}

		if !found.Status.CanTransitionTo(entity.ParcelPickupDisputed) {
			return domainerrors.ErrInvalidTransition.WrapMessage("parcel cannot be disputed in its current state")
		}

		found.Status = entity.ParcelPickupDisputed
		if err := parcelRepo.Update(ctx, found); err != nil {
			return errors.Wrap(err, "failed to update parcel")
		}

		if found.LockerID != nil {
			if err := factory.NewLockerRepository().UpdateStatus(ctx, *found.LockerID, entity.LockerDisputedContents); err != nil {
				return errors.Wrap(err, "failed to quarantine locker")
			}
		}

		parcel = found

		return nil
	})
	if err != nil {
		return nil, err
	}

	s.auditSink.Log(ctx, entity.ActionPickupDisputed, entity.AuditUserAction, entity.SeverityMedium, map[string]any{
		"parcel_id": parcelID.String(),
	})

	return parcel, nil
}

// ReportMissing marks a parcel as missing and takes its locker out of
// service pending inspection. The audit category follows who filed the
// report: the recipient (empty actor) or an admin.
func (s *parcelService) ReportMissing(ctx context.Context, parcelID uuid.UUID, actor string) (*entity.Parcel, error) {
	parcel, err := s.resolve(ctx, parcelID, entity.ParcelMissing, entity.LockerOutOfService)
	if err != nil {
		return nil, err
	}

	category := entity.AuditUserAction
	details := map[string]any{
		"parcel_id": parcelID.String(),
	}
	if actor != "" {
		category = entity.AuditAdminAction
		details["actor"] = actor
	}
	s.auditSink.Log(ctx, entity.ActionParcelMissing, category, entity.SeverityHigh, details)

	return parcel, nil
}

// GeneratePickupQR renders the pickup link for a deposited parcel.
func (s *parcelService) GeneratePickupQR(ctx context.Context, parcelID uuid.UUID) ([]byte, error) {
	parcel, err := s.parcelRepo.FindByID(ctx, parcelID)
	if err != nil {
		if errors.Is(err, repository.ErrParcelNotFound) {
			return nil, domainerrors.ErrParcelNotFound
		}

		return nil, errors.Wrap(err, "failed to load parcel")
	}

	if parcel.Status != entity.ParcelDeposited {
		return nil, domainerrors.ErrInvalidTransition.WrapMessage("parcel is no longer awaiting pickup")
	}

	png, err := s.qrService.GeneratePickupQR(parcel.ID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate pickup QR")
	}

	return png, nil
}

// ProcessReminders sends one reminder per overdue parcel. Failures are
// audited and skipped; the sweep always runs to completion.
func (s *parcelService) ProcessReminders(ctx context.Context, now time.Time) (*usecase.ReminderReport, error) {
	threshold := s.config.Reminder.Threshold
	cutoff := now.Add(-threshold)

	due, err := s.parcelRepo.FindReminderDue(ctx, cutoff)
	if err != nil {
		return nil, errors.Wrap(err, "failed to find reminder-due parcels")
	}

	report := &usecase.ReminderReport{Due: len(due)}
	for _, parcel := range due {
		body := fmt.Sprintf("Your parcel has been waiting since %s. Please pick it up soon.",
			parcel.CreatedAt.Format(time.RFC1123))
		if err := s.mailSender.Send(ctx, parcel.RecipientEmail, "Pickup reminder", body); err != nil {
			report.Failed++
			s.auditSink.Log(ctx, entity.ActionNotificationFailed, entity.AuditErrorEvent, entity.SeverityMedium, map[string]any{
				"parcel_id": parcel.ID.String(),
				"kind":      "reminder",
			})

			continue
		}

		sentAt := now
		parcel.ReminderSentAt = &sentAt
		if err := s.parcelRepo.Update(ctx, parcel); err != nil {
			report.Failed++
			s.log(ctx).LogAttrs(ctx, slog.LevelError, "failed to mark reminder sent",
				slog.String("parcelID", parcel.ID.String()),
				slog.String("error", err.Error()),
			)

			continue
		}
		report.Sent++
	}

	s.auditSink.Log(ctx, entity.ActionReminderRun, entity.AuditSystemAction, entity.SeverityLow, map[string]any{
		"due":    report.Due,
		"sent":   report.Sent,
		"failed": report.Failed,
	})

	return report, nil
}

// resolve moves a deposited parcel into a terminal status and releases its
// locker into releaseStatus, unless the locker is out of service.
func (s *parcelService) resolve(ctx context.Context, parcelID uuid.UUID, target entity.ParcelStatus, releaseStatus entity.LockerStatus) (*entity.Parcel, error) {
	var parcel *entity.Parcel

	err := s.txManager.Execute(ctx, func(factory repository.RepositoryFactory) error {
		parcelRepo := factory.NewParcelRepository()

		found, err := parcelRepo.FindByIDForUpdate(ctx, parcelID)
		if err != nil {
			if errors.Is(err, repository.ErrParcelNotFound) {
				return domainerrors.ErrParcelNotFound
			}

			return errors.Wrap(err, "failed to load parcel")
		}

		if !found.Status.CanTransitionTo(target) {
			return domainerrors.ErrInvalidTransition.WrapMessage("parcel cannot change state")
		}

		var lockerID uuid.UUID
		if found.LockerID != nil {
			lockerID = *found.LockerID
		}
		found.Status = target
		found.LockerID = nil
		if err := parcelRepo.Update(ctx, found); err != nil {
			return errors.Wrap(err, "failed to update parcel")
		}

		if lockerID != uuid.Nil {
			lockerRepo := factory.NewLockerRepository()
			if releaseStatus == entity.LockerFree {
				if err := s.freeLocker(ctx, lockerRepo, lockerID); err != nil {
					return err
				}
			} else if err := lockerRepo.UpdateStatus(ctx, lockerID, releaseStatus); err != nil {
				return errors.Wrap(err, "failed to update locker status")
			}
		}

		parcel = found

		return nil
	})
	if err != nil {
		return nil, err
	}

	return parcel, nil
}

// freeLocker releases a compartment after its parcel is resolved. A locker
// taken out of service by an admin stays out of service.
func (s *parcelService) freeLocker(ctx context.Context, lockerRepo repository.LockerRepository, lockerID uuid.UUID) error {
	locker, err := lockerRepo.FindByID(ctx, lockerID)
	if err != nil {
		return errors.Wrap(err, "failed to load locker")
	}

	// An admin may have disabled the compartment while it was occupied;
	// resolution must not silently re-enable it.
	if locker.Status == entity.LockerOutOfService {
		return nil
	}

	if err := lockerRepo.UpdateStatus(ctx, lockerID, entity.LockerFree); err != nil {
		return errors.Wrap(err, "failed to free locker")
	}

	return nil
}

// notify sends recipient mail after commit. Failures are logged and audited,
// never returned.
func (s *parcelService) notify(ctx context.Context, parcel *entity.Parcel, subject, body string) {
	if err := s.mailSender.Send(ctx, parcel.RecipientEmail, subject, body); err != nil {
		s.log(ctx).LogAttrs(ctx, slog.LevelWarn, "recipient notification failed",
			slog.String("parcelID", parcel.ID.String()),
			slog.String("error", err.Error()),
		)
		s.auditSink.Log(ctx, entity.ActionNotificationFailed, entity.AuditErrorEvent, entity.SeverityMedium, map[string]any{
			"parcel_id": parcel.ID.String(),
		})
	}
}
