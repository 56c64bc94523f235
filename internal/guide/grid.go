// Package guide derives the viewer-facing program guide from the catalog:
// what is on air now, what starts soon, and the week/day grid grouped into
// calendar-day buckets.
package guide

import (
	"fmt"
	"sort"
	"time"

	"github.com/adjovi/telegrid/internal/models"
)

// dayNames indexed with Monday = 0
var dayNames = [7]string{
	"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday",
}

// weekdayIndex converts a time to its weekday index with Monday = 0
func weekdayIndex(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}

// WeekWindow computes the [Monday 00:00, +7d) window of the week containing
// now shifted by weeksAhead whole weeks. Day boundaries are taken in loc,
// never in the host's local zone.
//
// This is a pure function: it takes the reference instant as a parameter and
// performs no I/O.
func WeekWindow(now time.Time, weeksAhead int, loc *time.Location) (time.Time, time.Time) {
	t := now.In(loc).AddDate(0, 0, 7*weeksAhead)
	monday := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc).
		AddDate(0, 0, -weekdayIndex(t))
	return monday, monday.AddDate(0, 0, 7)
}

// GroupByDay buckets a time-sorted program list into calendar-day groups.
// The bucket of a program is the calendar date of its start time in loc.
// Groups are ordered ascending by date; programs keep their input order.
//
// An empty input yields an empty (non-nil) slice, not an error.
func GroupByDay(programs []*models.Program, loc *time.Location) []DayGroup {
	type bucket struct {
		group   DayGroup
		sortKey time.Time
	}

	buckets := make(map[string]*bucket)
	for _, p := range programs {
		start := p.StartTime.In(loc)
		dateKey := start.Format("2006-01-02")

		b, ok := buckets[dateKey]
		if !ok {
			dayName := dayNames[weekdayIndex(start)]
			b = &bucket{
				group: DayGroup{
					Date:     dateKey,
					DayName:  dayName,
					DayLabel: fmt.Sprintf("%s %02d/%02d", dayName, start.Day(), int(start.Month())),
				},
				// Midnight of the bucket's day; comparing instants avoids
				// string-sort ambiguity across month and year boundaries
				sortKey: time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, loc),
			}
			buckets[dateKey] = b
		}
		b.group.Programs = append(b.group.Programs, p)
	}

	ordered := make([]*bucket, 0, len(buckets))
	for _, b := range buckets {
		ordered = append(ordered, b)
	}
	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i].sortKey.Before(ordered[j].sortKey)
	})

	days := make([]DayGroup, len(ordered))
	for i, b := range ordered {
		days[i] = b.group
	}
	return days
}

// distinctTypes collects the unique program types in input order
func distinctTypes(programs []*models.Program) []string {
	seen := make(map[string]struct{})
	types := make([]string, 0)
	for _, p := range programs {
		if p.Type == "" {
			continue
		}
		if _, ok := seen[p.Type]; ok {
			continue
		}
		seen[p.Type] = struct{}{}
		types = append(types, p.Type)
	}
	return types
}
