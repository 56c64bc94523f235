package program

import "errors"

// Custom program service errors
var (
	// ErrProgramNotFound indicates the requested program does not exist
	ErrProgramNotFound = errors.New("program not found")

	// ErrInvalidTimeRange indicates end time is not after start time
	ErrInvalidTimeRange = errors.New("end time must be after start time")
)

// IsProgramNotFound checks if the error is a program not found error
func IsProgramNotFound(err error) bool {
	return errors.Is(err, ErrProgramNotFound)
}

// IsInvalidTimeRange checks if the error is an invalid time range error
func IsInvalidTimeRange(err error) bool {
	return errors.Is(err, ErrInvalidTimeRange)
}
