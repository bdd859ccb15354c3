// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// LockerSize is the physical compartment size class of a locker.
type LockerSize string

const (
	SizeSmall  LockerSize = "small"
	SizeMedium LockerSize = "medium"
	SizeLarge  LockerSize = "large"
)

// Valid reports whether the size is one of the known classes.
func (s LockerSize) Valid() bool {
	switch s {
	case SizeSmall, SizeMedium, SizeLarge:
		return true
	}

	return false
}

// LockerStatus is the closed set of locker lifecycle states.
type LockerStatus string

const (
	LockerFree             LockerStatus = "free"
	LockerOccupied         LockerStatus = "occupied"
	LockerOutOfService     LockerStatus = "out_of_service"
	LockerDisputedContents LockerStatus = "disputed_contents"
)

// lockerTransitions is the allowed status transition table. Status changes
// happen only through the locker use case, which consults this table.
var lockerTransitions = map[LockerStatus][]LockerStatus{
	LockerFree:             {LockerOccupied, LockerOutOfService},
	LockerOccupied:         {LockerFree, LockerOutOfService, LockerDisputedContents},
	LockerOutOfService:     {LockerFree},
	LockerDisputedContents: {LockerFree, LockerOutOfService},
}

// CanTransitionTo reports whether the state machine permits moving from the
// current status to next.
func (s LockerStatus) CanTransitionTo(next LockerStatus) bool {
	for _, allowed := range lockerTransitions[s] {
		if allowed == next {
			return true
		}
	}

	return false
}

// Valid reports whether the status is one of the known states.
func (s LockerStatus) Valid() bool {
	switch s {
	case LockerFree, LockerOccupied, LockerOutOfService, LockerDisputedContents:
		return true
	}

	return false
}

// Locker is a single physical compartment in the locker bank. Lockers are
// provisioned once and never deleted; only their status changes.
type Locker struct {
	ID        uuid.UUID    // Unique identifier of the compartment.
	Location  string       // Human-readable placement, e.g. "Main hall, bank B".
	Size      LockerSize   // Compartment size class.
	Status    LockerStatus // Current lifecycle state.
	CreatedAt time.Time    // Timestamp of provisioning.
	UpdatedAt time.Time    // Timestamp of the last status change.
}
