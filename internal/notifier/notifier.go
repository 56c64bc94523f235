// Package notifier polls the reminder scheduler for due reminders and hands
// them to a delivery transport. Delivery itself is external to the core: the
// default Sender only logs, and real transports plug in behind the interface.
package notifier

import (
	"context"

	"github.com/adjovi/telegrid/internal/logger"
	"github.com/adjovi/telegrid/internal/models"
)

// Sender delivers a single reminder over its transport. A returned error
// marks the reminder failed; nil marks it sent.
type Sender interface {
	Send(ctx context.Context, reminder *models.Reminder) error
}

// LogSender is the default Sender: it records the delivery in the log and
// always succeeds. Useful for development and as a stand-in until a push
// transport is wired up.
type LogSender struct{}

// Send logs the reminder that would have been delivered
func (LogSender) Send(_ context.Context, rem *models.Reminder) error {
	logger.Log.Info().
		Str("reminder_id", rem.ID.String()).
		Str("user_id", rem.UserID).
		Str("reminder_type", rem.ReminderType).
		Str("program_title", rem.ProgramTitle).
		Time("program_start_time", rem.ProgramStartTime).
		Msg("Reminder delivered (log transport)")
	return nil
}
