// Package model contains the GORM-specific persistence structs.
package model

import (
	"time"

	"github.com/google/uuid"
)

// LockerModel is the GORM-specific struct for the 'lockers' table.
type LockerModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Location  string    `gorm:"type:text;not null"`
	Size      string    `gorm:"type:text;not null;index"`
	Status    string    `gorm:"type:text;not null;index"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName explicitly sets the table name for GORM.
func (LockerModel) TableName() string {
	return "lockers"
}
