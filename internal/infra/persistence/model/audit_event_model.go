package model

import (
	"time"

	"github.com/google/uuid"
)

// AuditEventModel is the GORM-specific struct for the 'audit_events' table.
// Details holds a JSON-encoded map of event-specific fields.
type AuditEventModel struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	Timestamp  time.Time `gorm:"not null;index"`
	ActionCode string    `gorm:"type:text;not null;index"`
	Category   string    `gorm:"type:text;not null;index"`
	Severity   string    `gorm:"type:text;not null"`
	Details    []byte    `gorm:"type:jsonb"`
}

// TableName explicitly sets the table name for GORM.
func (AuditEventModel) TableName() string {
	return "audit_events"
}
