package model

import (
	"time"

	"github.com/google/uuid"
)

// ParcelModel is the GORM-specific struct for the 'parcels' table.
// PIN material is stored as a salted hash only; the plaintext PIN is never persisted.
type ParcelModel struct {
	ID                 uuid.UUID  `gorm:"type:uuid;primaryKey"`
	LockerID           *uuid.UUID `gorm:"type:uuid;index"`
	RecipientEmail     string     `gorm:"type:text;not null;index"`
	Status             string     `gorm:"type:text;not null;index"`
	PinHash            []byte     `gorm:"type:bytea;not null"`
	PinSalt            []byte     `gorm:"type:bytea;not null"`
	PinGeneratedAt     time.Time  `gorm:"not null"`
	ExpiresAt          time.Time  `gorm:"not null;index"`
	PinGenerationCount int        `gorm:"not null;default:1"`
	PinWindowStartedAt time.Time  `gorm:"not null"`
	ReminderSentAt     *time.Time
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// TableName explicitly sets the table name for GORM.
func (ParcelModel) TableName() string {
	return "parcels"
}
