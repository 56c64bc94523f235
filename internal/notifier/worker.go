package notifier

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/robfig/cron/v3"

	"github.com/adjovi/telegrid/internal/logger"
	"github.com/adjovi/telegrid/internal/reminder"
)

var (
	remindersDelivered = promauto.NewCounter(prometheus.CounterOpts{
		Name: "telegrid_reminders_delivered_total",
		Help: "Total number of reminders delivered successfully",
	})
	remindersFailed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "telegrid_reminders_failed_total",
		Help: "Total number of reminders that failed delivery",
	})
	deliveryDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "telegrid_reminder_delivery_duration_seconds",
		Help:    "Time spent delivering one batch of due reminders",
		Buckets: prometheus.DefBuckets,
	})
)

// Worker polls the reminder scheduler on a cron schedule and delivers due
// reminders through a Sender. The core exposes no timers of its own; this
// worker is the external delivery collaborator.
type Worker struct {
	reminders *reminder.Service
	sender    Sender
	schedule  string
	cron      *cron.Cron
}

// NewWorker creates a delivery worker. schedule is a cron expression such as
// "@every 30s".
func NewWorker(reminders *reminder.Service, sender Sender, schedule string) *Worker {
	if sender == nil {
		sender = LogSender{}
	}
	return &Worker{
		reminders: reminders,
		sender:    sender,
		schedule:  schedule,
	}
}

// Start begins the polling loop. Returns an error for an invalid schedule.
func (w *Worker) Start() error {
	w.cron = cron.New()
	if _, err := w.cron.AddFunc(w.schedule, func() {
		w.DeliverDue(context.Background(), time.Now().UTC())
	}); err != nil {
		return err
	}
	w.cron.Start()

	logger.Log.Info().
		Str("schedule", w.schedule).
		Msg("Reminder delivery worker started")
	return nil
}

// Stop halts the polling loop and waits for an in-flight run to finish
func (w *Worker) Stop() {
	if w.cron != nil {
		ctx := w.cron.Stop()
		<-ctx.Done()
	}
	logger.Log.Info().Msg("Reminder delivery worker stopped")
}

// DeliverDue performs one polling pass: fetch due reminders for the supplied
// instant, send each, and record the outcome. The pass is callable directly
// with an explicit "now" so it is deterministically testable.
func (w *Worker) DeliverDue(ctx context.Context, now time.Time) {
	timer := prometheus.NewTimer(deliveryDuration)
	defer timer.ObserveDuration()

	due, err := w.reminders.DueForDelivery(ctx, now)
	if err != nil {
		logger.Log.Error().
			Err(err).
			Msg("Failed to fetch due reminders")
		return
	}

	if len(due) == 0 {
		return
	}

	logger.Log.Info().
		Int("count", len(due)).
		Msg("Delivering due reminders")

	for _, rem := range due {
		if err := w.sender.Send(ctx, rem); err != nil {
			logger.Log.Error().
				Err(err).
				Str("reminder_id", rem.ID.String()).
				Msg("Reminder delivery failed")
			if markErr := w.reminders.MarkFailed(ctx, rem.ID); markErr != nil {
				logger.Log.Error().
					Err(markErr).
					Str("reminder_id", rem.ID.String()).
					Msg("Failed to record delivery failure")
			}
			remindersFailed.Inc()
			continue
		}

		if err := w.reminders.MarkSent(ctx, rem.ID, time.Now().UTC()); err != nil {
			logger.Log.Error().
				Err(err).
				Str("reminder_id", rem.ID.String()).
				Msg("Failed to record delivery success")
			continue
		}
		remindersDelivered.Inc()
	}
}
