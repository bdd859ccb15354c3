// Package usecase defines the application-facing interfaces and DTOs for the
// parcel locker workflows.
package usecase

import (
	"context"
	"time"

	"lockerbox/internal/domain/entity"

	"github.com/google/uuid"
)

// DepositInput carries the sender-provided fields for a deposit.
type DepositInput struct {
	RecipientEmail string
	Size           entity.LockerSize
}

// DepositResult is returned on a successful deposit. Pin is the plaintext
// pickup PIN, surfaced exactly once and never persisted.
type DepositResult struct {
	Parcel *entity.Parcel
	Locker *entity.Locker
	Pin    string
}

// PickupResult is returned on a successful pickup. LockerID names the
// compartment that opened.
type PickupResult struct {
	Parcel   *entity.Parcel
	LockerID uuid.UUID
}

// ReissueResult is returned when a fresh PIN is issued for a deposited
// parcel. The previous PIN is invalid from this point on.
type ReissueResult struct {
	Parcel *entity.Parcel
	Pin    string
}

// ReminderReport summarizes one reminder sweep.
type ReminderReport struct {
	Due    int
	Sent   int
	Failed int
}

// ParcelUsecase drives the parcel lifecycle from deposit to resolution.
type ParcelUsecase interface {
	// Deposit atomically reserves a free locker of the requested size,
	// generates a PIN and creates the parcel. Notification is dispatched
	// after commit and is best-effort.
	Deposit(ctx context.Context, input *DepositInput) (*DepositResult, error)

	// Pickup verifies the candidate PIN and, on success, resolves the parcel
	// and frees the locker. All failure causes share one generic error.
	Pickup(ctx context.Context, parcelID uuid.UUID, candidatePin string) (*PickupResult, error)

	// ReissuePin replaces the PIN of a deposited parcel, rate-limited per
	// parcel within a rolling window.
	ReissuePin(ctx context.Context, parcelID uuid.UUID) (*ReissueResult, error)

	// Retract lets the sender withdraw a still-deposited parcel.
	Retract(ctx context.Context, parcelID uuid.UUID) (*entity.Parcel, error)

	// DisputePickup flags a deposited parcel whose locker content is
	// contested; the locker is quarantined until an admin resolves it.
	DisputePickup(ctx context.Context, parcelID uuid.UUID) (*entity.Parcel, error)

	// ReportMissing marks a parcel as missing and takes the locker out of
	// service pending inspection. An empty actor means the recipient filed
	// the report; a non-empty actor is the admin username from the access
	// token.
	ReportMissing(ctx context.Context, parcelID uuid.UUID, actor string) (*entity.Parcel, error)

	// GeneratePickupQR renders a QR code linking to the pickup page for a
	// deposited parcel.
	GeneratePickupQR(ctx context.Context, parcelID uuid.UUID) ([]byte, error)

	// ProcessReminders sends one overdue-pickup reminder per due parcel and
	// reports the sweep outcome. Individual send failures do not stop the
	// sweep.
	ProcessReminders(ctx context.Context, now time.Time) (*ReminderReport, error)
}
