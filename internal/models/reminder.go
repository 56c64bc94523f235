package models

import (
	"time"

	"github.com/google/uuid"
)

// Reminder represents a per-user program reminder. ScheduledFor is derived
// from the program start time minus the lead time at creation or explicit
// update; the ProgramTitle/ProgramStartTime/ChannelName fields are a display
// snapshot taken at creation and survive later program edits or deletion.
type Reminder struct {
	ID               uuid.UUID  `json:"id" gorm:"type:text;primaryKey;column:id"`
	UserID           string     `json:"user_id" gorm:"type:text;not null;column:user_id"`
	ProgramID        uuid.UUID  `json:"program_id" gorm:"type:text;not null;column:program_id"`
	MinutesBefore    int        `json:"minutes_before" gorm:"type:integer;not null;default:15;column:minutes_before" validate:"min=1,max=1440"`
	ReminderType     string     `json:"reminder_type" gorm:"type:text;not null;default:push;column:reminder_type"`
	Status           string     `json:"status" gorm:"type:text;not null;default:scheduled;column:status"`
	ScheduledFor     time.Time  `json:"scheduled_for" gorm:"type:datetime;not null;column:scheduled_for"`
	SentAt           *time.Time `json:"sent_at,omitempty" gorm:"type:datetime;column:sent_at"`
	ProgramTitle     string     `json:"program_title" gorm:"type:text;column:program_title"`
	ProgramStartTime time.Time  `json:"program_start_time" gorm:"type:datetime;column:program_start_time"`
	ChannelName      *string    `json:"channel_name,omitempty" gorm:"type:text;column:channel_name"`
	CreatedAt        time.Time  `json:"created_at" gorm:"type:datetime;default:CURRENT_TIMESTAMP;column:created_at"`
	UpdatedAt        time.Time  `json:"updated_at" gorm:"type:datetime;default:CURRENT_TIMESTAMP;column:updated_at"`
}

// TableName maps the model onto the program_reminders table
func (Reminder) TableName() string {
	return "program_reminders"
}

// IsTerminal reports whether the reminder has left the scheduled state.
// Terminal reminders never transition again.
func (r *Reminder) IsTerminal() bool {
	return r.Status != ReminderStatusScheduled
}

// FireTime computes the instant a reminder should fire for a given program
// start time and lead time in minutes.
func FireTime(programStart time.Time, minutesBefore int) time.Time {
	return programStart.Add(-time.Duration(minutesBefore) * time.Minute)
}
