package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDurationBetween(t *testing.T) {
	start := time.Date(2026, 9, 7, 19, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		end  time.Time
		want int
	}{
		{"whole hour", start.Add(time.Hour), 60},
		{"ninety minutes", start.Add(90 * time.Minute), 90},
		{"rounds half up", start.Add(10*time.Minute + 30*time.Second), 11},
		{"rounds down below half", start.Add(10*time.Minute + 20*time.Second), 10},
		{"one minute", start.Add(time.Minute), 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DurationBetween(start, tt.end))
		})
	}
}

func TestRecomputeDuration_OverwritesStoredValue(t *testing.T) {
	start := time.Date(2026, 9, 7, 19, 0, 0, 0, time.UTC)
	p := &Program{
		StartTime:       start,
		EndTime:         start.Add(45 * time.Minute),
		DurationMinutes: 999,
	}

	p.RecomputeDuration()

	assert.Equal(t, 45, p.DurationMinutes)
}

func TestFireTime(t *testing.T) {
	start := time.Date(2026, 9, 7, 19, 30, 0, 0, time.UTC)

	assert.Equal(t, start.Add(-15*time.Minute), FireTime(start, 15))
	assert.Equal(t, start.Add(-24*time.Hour), FireTime(start, 1440))
}

func TestReminderIsTerminal(t *testing.T) {
	assert.False(t, (&Reminder{Status: ReminderStatusScheduled}).IsTerminal())
	assert.True(t, (&Reminder{Status: ReminderStatusSent}).IsTerminal())
	assert.True(t, (&Reminder{Status: ReminderStatusCancelled}).IsTerminal())
	assert.True(t, (&Reminder{Status: ReminderStatusFailed}).IsTerminal())
}

func TestNewChannel_Defaults(t *testing.T) {
	ch := NewChannel("Canal Un", 3)

	assert.Equal(t, "Canal Un", ch.Name)
	assert.Equal(t, 3, ch.DisplayOrder)
	assert.True(t, ch.IsActive)
	assert.False(t, ch.CreatedAt.IsZero())
}
