package audit

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"lockerbox/internal/domain/entity"
	"lockerbox/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingAuditRepo struct {
	events []*entity.AuditEvent
	err    error
}

func (r *recordingAuditRepo) Append(_ context.Context, event *entity.AuditEvent) error {
	if r.err != nil {
		return r.err
	}
	r.events = append(r.events, event)

	return nil
}

func (r *recordingAuditRepo) ListLatest(_ context.Context, _ int, _ entity.AuditCategory) ([]*entity.AuditEvent, error) {
	return r.events, nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestSink_LogAppendsEvent(t *testing.T) {
	repo := &recordingAuditRepo{}
	sink := NewSink(repo, discardLogger())

	sink.Log(context.Background(), entity.ActionDepositSuccess, entity.AuditUserAction, entity.SeverityLow,
		map[string]any{"locker_size": "small"})

	require.Len(t, repo.events, 1)
	assert.Equal(t, entity.ActionDepositSuccess, repo.events[0].ActionCode)
	assert.Equal(t, entity.AuditUserAction, repo.events[0].Category)
	assert.Equal(t, "small", repo.events[0].Details["locker_size"])
}

func TestSink_SwallowsRepositoryFailure(t *testing.T) {
	repo := &recordingAuditRepo{err: errors.New("disk full")}
	sink := NewSink(repo, discardLogger())

	assert.NotPanics(t, func() {
		sink.Log(context.Background(), entity.ActionPickupSuccess, entity.AuditUserAction, entity.SeverityLow, nil)
	})
}
