package entity

import (
	"time"

	"github.com/google/uuid"
)

// AuditCategory classifies who or what triggered an audited action.
type AuditCategory string

const (
	AuditUserAction    AuditCategory = "user_action"
	AuditAdminAction   AuditCategory = "admin_action"
	AuditSecurityEvent AuditCategory = "security_event"
	AuditSystemAction  AuditCategory = "system_action"
	AuditErrorEvent    AuditCategory = "error_event"
)

// Valid reports whether the category is one of the known classes.
func (c AuditCategory) Valid() bool {
	switch c {
	case AuditUserAction, AuditAdminAction, AuditSecurityEvent, AuditSystemAction, AuditErrorEvent:
		return true
	}

	return false
}

// AuditSeverity grades an audit event for incident triage.
type AuditSeverity string

const (
	SeverityLow      AuditSeverity = "low"
	SeverityMedium   AuditSeverity = "medium"
	SeverityHigh     AuditSeverity = "high"
	SeverityCritical AuditSeverity = "critical"
)

// Audit action codes emitted by the workflow. Each state-changing operation
// writes exactly one event with one of these codes.
const (
	ActionDepositSuccess      = "USER_DEPOSIT_SUCCESS"
	ActionPickupSuccess       = "USER_PICKUP_SUCCESS"
	ActionPickupInvalidPin    = "USER_PICKUP_INVALID_PIN"
	ActionPickupPinExpired    = "USER_PICKUP_PIN_EXPIRED"
	ActionPickupWrongState    = "USER_PICKUP_WRONG_STATE"
	ActionPinReissued         = "USER_PIN_REISSUED"
	ActionPinRateLimited      = "USER_PIN_RATE_LIMITED"
	ActionParcelRetracted     = "USER_PARCEL_RETRACTED"
	ActionPickupDisputed      = "USER_PICKUP_DISPUTED"
	ActionParcelMissing       = "PARCEL_REPORTED_MISSING"
	ActionLockerStatusChanged = "ADMIN_LOCKER_STATUS_CHANGED"
	ActionAdminLoginSuccess   = "ADMIN_LOGIN_SUCCESS"
	ActionAdminLoginFailed    = "ADMIN_LOGIN_FAILED"
	ActionReminderRun         = "SYSTEM_REMINDER_RUN"
	ActionNotificationFailed  = "NOTIFICATION_SEND_FAILED"
)

// AuditEvent is an immutable record of a state-changing action. The
// application only ever appends events; retention cleanup is an external job.
type AuditEvent struct {
	ID         uuid.UUID
	Timestamp  time.Time
	ActionCode string
	Category   AuditCategory
	Severity   AuditSeverity
	Details    map[string]any // Structured context, persisted as JSON.
}
