package postgres

import (
	"context"
	"encoding/json"
	"time"

	"lockerbox/internal/domain/entity"
	domainerrors "lockerbox/internal/domain/errors"
	"lockerbox/internal/domain/repository"
	"lockerbox/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// auditRepository implements the domain.AuditRepository interface.
// The table is append-only; no update or delete paths exist.
type auditRepository struct {
	db *gorm.DB
}

// NewAuditRepository is the constructor for auditRepository.
func NewAuditRepository(db *gorm.DB) repository.AuditRepository {
	return &auditRepository{db: db}
}

// Append persists one audit event.
func (repo *auditRepository) Append(ctx context.Context, event *entity.AuditEvent) error {
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	eventM, err := fromAuditEventDomain(event)
	if err != nil {
		return errors.Wrap(err, "failed to encode audit details")
	}

	if err := repo.db.WithContext(ctx).Create(eventM).Error; err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to append audit event")
	}

	return nil
}

// ListLatest returns up to limit events, newest first, optionally filtered
// by category.
func (repo *auditRepository) ListLatest(ctx context.Context, limit int, category entity.AuditCategory) ([]*entity.AuditEvent, error) {
	var eventModels []*model.AuditEventModel

	query := repo.db.WithContext(ctx).
		Order("timestamp desc").
		Limit(limit)
	if category != "" {
		query = query.Where("category = ?", string(category))
	}

	if err := query.Find(&eventModels).Error; err != nil {
		return nil, errors.WithStack(err)
	}

	events := make([]*entity.AuditEvent, 0, len(eventModels))
	for _, eventM := range eventModels {
		event, err := toAuditEventDomain(eventM)
		if err != nil {
			return nil, errors.Wrap(err, "failed to decode audit details")
		}
		events = append(events, event)
	}

	return events, nil
}

// --- Mapper Functions ---

// toAuditEventDomain converts a GORM AuditEventModel to a domain AuditEvent entity.
func toAuditEventDomain(data *model.AuditEventModel) (*entity.AuditEvent, error) {
	if data == nil {
		return nil, nil
	}

	var details map[string]any
	if len(data.Details) > 0 {
		if err := json.Unmarshal(data.Details, &details); err != nil {
			return nil, err
		}
	}

	return &entity.AuditEvent{
		ID:         data.ID,
		Timestamp:  data.Timestamp,
		ActionCode: data.ActionCode,
		Category:   entity.AuditCategory(data.Category),
		Severity:   entity.AuditSeverity(data.Severity),
		Details:    details,
	}, nil
}

// fromAuditEventDomain converts a domain AuditEvent entity to a GORM AuditEventModel.
func fromAuditEventDomain(data *entity.AuditEvent) (*model.AuditEventModel, error) {
	if data == nil {
		return nil, nil
	}

	var details []byte
	if len(data.Details) > 0 {
		encoded, err := json.Marshal(data.Details)
		if err != nil {
			return nil, err
		}
		details = encoded
	}

	return &model.AuditEventModel{
		ID:         data.ID,
		Timestamp:  data.Timestamp,
		ActionCode: data.ActionCode,
		Category:   string(data.Category),
		Severity:   string(data.Severity),
		Details:    details,
	}, nil
}
