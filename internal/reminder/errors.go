package reminder

import "errors"

// Custom reminder service errors
var (
	// ErrReminderNotFound indicates the reminder does not exist or does not
	// belong to the requesting user. Ownership failures are deliberately
	// indistinguishable from missing ids so other users' reminders stay
	// invisible.
	ErrReminderNotFound = errors.New("reminder not found")

	// ErrProgramNotFound indicates the referenced program does not exist
	ErrProgramNotFound = errors.New("program not found")

	// ErrInvalidMinutesBefore indicates the lead time is outside [1, 1440]
	ErrInvalidMinutesBefore = errors.New("minutes before must be between 1 and 1440")

	// ErrInvalidReminderType indicates an unknown delivery-channel hint
	ErrInvalidReminderType = errors.New("invalid reminder type")

	// ErrInvalidStatusTransition indicates an attempt to leave a terminal state
	ErrInvalidStatusTransition = errors.New("invalid reminder status transition")
)

// IsReminderNotFound checks if the error is a reminder not found error
func IsReminderNotFound(err error) bool {
	return errors.Is(err, ErrReminderNotFound)
}

// IsProgramNotFound checks if the error is a program not found error
func IsProgramNotFound(err error) bool {
	return errors.Is(err, ErrProgramNotFound)
}

// IsInvalidMinutesBefore checks if the error is an invalid lead time error
func IsInvalidMinutesBefore(err error) bool {
	return errors.Is(err, ErrInvalidMinutesBefore)
}

// IsInvalidReminderType checks if the error is an invalid reminder type error
func IsInvalidReminderType(err error) bool {
	return errors.Is(err, ErrInvalidReminderType)
}

// IsInvalidStatusTransition checks if the error is an invalid transition error
func IsInvalidStatusTransition(err error) bool {
	return errors.Is(err, ErrInvalidStatusTransition)
}
