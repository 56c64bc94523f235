package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// ReminderStatus values for the reminder state machine
const (
	ReminderStatusScheduled = "scheduled"
	ReminderStatusSent      = "sent"
	ReminderStatusCancelled = "cancelled"
	ReminderStatusFailed    = "failed"
)

// Delivery-channel hints for reminders
const (
	ReminderTypePush  = "push"
	ReminderTypeInApp = "inapp"
	ReminderTypeEmail = "email"
	ReminderTypeSMS   = "sms"
)

// Reminder lead-time bounds in minutes
const (
	MinMinutesBefore = 1
	MaxMinutesBefore = 1440
)

// IsValidReminderStatus reports whether s is a known reminder status
func IsValidReminderStatus(s string) bool {
	switch s {
	case ReminderStatusScheduled, ReminderStatusSent, ReminderStatusCancelled, ReminderStatusFailed:
		return true
	}
	return false
}

// IsValidReminderType reports whether t is a known delivery-channel hint
func IsValidReminderType(t string) bool {
	switch t {
	case ReminderTypePush, ReminderTypeInApp, ReminderTypeEmail, ReminderTypeSMS:
		return true
	}
	return false
}

// StringList is a []string stored as a JSON text column
type StringList []string

// Value implements driver.Valuer for database serialization
func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal(l)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal string list: %w", err)
	}
	return string(b), nil
}

// Scan implements sql.Scanner for database deserialization
func (l *StringList) Scan(value interface{}) error {
	if value == nil {
		*l = nil
		return nil
	}

	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported type for string list: %T", value)
	}

	if len(data) == 0 {
		*l = nil
		return nil
	}
	return json.Unmarshal(data, l)
}
