// Package worker hosts the background jobs started alongside the HTTP
// server.
package worker

import (
	"context"
	"log/slog"
	"time"

	"lockerbox/config"
	"lockerbox/internal/delivery"
	"lockerbox/internal/usecase"

	"go.uber.org/fx"
)

// ReminderParams holds dependencies for the reminder worker.
type ReminderParams struct {
	fx.In

	Lc     fx.Lifecycle
	Cfg    *config.Config
	Logger *slog.Logger
	Parcel usecase.ParcelUsecase
}

// reminderWorker periodically sweeps for overdue parcels and dispatches one
// pickup reminder per parcel.
type reminderWorker struct {
	cfg    *config.Config
	logger *slog.Logger
	parcel usecase.ParcelUsecase
	now    func() time.Time
	stop   chan struct{}
}

// NewReminderWorker creates the reminder sweep job.
func NewReminderWorker(params ReminderParams) (delivery.Delivery, error) {
	w := &reminderWorker{
		cfg:    params.Cfg,
		logger: params.Logger,
		parcel: params.Parcel,
		now:    time.Now,
		stop:   make(chan struct{}),
	}

	params.Lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			close(w.stop)

			return nil
		},
	})

	return w, nil
}

// Serve runs the sweep loop until the fx lifecycle stops it.
func (w *reminderWorker) Serve(ctx context.Context) error {
	if w.cfg.Reminder == nil || !w.cfg.Reminder.Enabled {
		w.logger.Info("Reminder worker disabled")
		<-w.stop

		return nil
	}

	interval := w.cfg.Reminder.Interval
	w.logger.Info("Starting reminder worker", slog.Duration("interval", interval))

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-w.stop:
			w.logger.Info("Reminder worker stopping")

			return nil
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			w.runOnce(ctx)
		}
	}
}

func (w *reminderWorker) runOnce(ctx context.Context) {
	report, err := w.parcel.ProcessReminders(ctx, w.now())
	if err != nil {
		w.logger.Error("Reminder sweep failed", slog.Any("error", err))

		return
	}

	if report.Due > 0 {
		w.logger.Info("Reminder sweep finished",
			slog.Int("due", report.Due),
			slog.Int("sent", report.Sent),
			slog.Int("failed", report.Failed),
		)
	}
}
