package guide

import (
	"time"

	"github.com/adjovi/telegrid/internal/models"
)

// DayGroup holds the programs of one calendar day in display order
type DayGroup struct {
	// Date is the calendar date key in YYYY-MM-DD form
	Date string `json:"date"`

	// DayName is the English weekday name (Monday..Sunday)
	DayName string `json:"day_name"`

	// DayLabel combines the day name with a zero-padded day/month, e.g. "Monday 02/01"
	DayLabel string `json:"day_label"`

	// Programs in ascending start-time order
	Programs []*models.Program `json:"programs"`
}

// WeekGrid is the day-grouped guide for a single week
type WeekGrid struct {
	Days []DayGroup `json:"days"`

	// TypesAvailable is the distinct set of program types observed in the
	// week, for building a category filter
	TypesAvailable []string `json:"types_available"`

	TotalCount int `json:"total_count"`
}

// DateRange echoes the resolved query window of a grid request
type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Grid is the day-grouped guide for an arbitrary date range
type Grid struct {
	Days          []DayGroup `json:"days"`
	TotalPrograms int        `json:"total_programs"`
	DateRange     DateRange  `json:"date_range"`
}
