package entity

import (
	"time"

	"github.com/google/uuid"
)

// ParcelStatus is the closed set of parcel lifecycle states.
type ParcelStatus string

const (
	ParcelDeposited         ParcelStatus = "deposited"
	ParcelPickedUp          ParcelStatus = "picked_up"
	ParcelMissing           ParcelStatus = "missing"
	ParcelRetractedBySender ParcelStatus = "retracted_by_sender"
	ParcelPickupDisputed    ParcelStatus = "pickup_disputed"
	ParcelReturnToSender    ParcelStatus = "return_to_sender"
)

// parcelTransitions is the allowed status transition table. Terminal states
// (picked_up, missing, return_to_sender) have no outgoing edges.
var parcelTransitions = map[ParcelStatus][]ParcelStatus{
	ParcelDeposited: {
		ParcelPickedUp,
		ParcelMissing,
		ParcelRetractedBySender,
		ParcelPickupDisputed,
	},
	ParcelPickupDisputed: {ParcelPickedUp, ParcelMissing, ParcelReturnToSender},
}

// CanTransitionTo reports whether the state machine permits moving from the
// current status to next.
func (s ParcelStatus) CanTransitionTo(next ParcelStatus) bool {
	for _, allowed := range parcelTransitions[s] {
		if allowed == next {
			return true
		}
	}

	return false
}

// Terminal reports whether a parcel in this status is immutable.
func (s ParcelStatus) Terminal() bool {
	switch s {
	case ParcelPickedUp, ParcelMissing, ParcelReturnToSender:
		return true
	}

	return false
}

// Parcel is one deposited shipment. It owns the locker assignment while
// deposited (a back-reference; the Locker entity itself is shared and
// long-lived) and carries the hashed pickup PIN material. The plaintext PIN
// is never stored.
type Parcel struct {
	ID             uuid.UUID
	LockerID       *uuid.UUID // Set while the parcel occupies a locker; nil after resolution.
	RecipientEmail string
	Status         ParcelStatus

	// PIN material. PinHash is the PBKDF2 digest, never the plaintext.
	PinHash        []byte
	PinSalt        []byte
	PinGeneratedAt time.Time
	ExpiresAt      time.Time

	// Reissue rate limiting: generations counted inside a rolling window
	// anchored at the first generation.
	PinGenerationCount int
	PinWindowStartedAt time.Time

	ReminderSentAt *time.Time // Set once the overdue-pickup reminder went out.

	CreatedAt time.Time
	UpdatedAt time.Time
}

// ActiveInLocker reports whether the parcel currently claims a locker slot.
func (p *Parcel) ActiveInLocker() bool {
	return p.Status == ParcelDeposited && p.LockerID != nil
}
