package guide

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adjovi/telegrid/internal/models"
)

func makeProgram(title string, start time.Time, minutes int) *models.Program {
	p := &models.Program{
		ID:        uuid.New(),
		Title:     title,
		Type:      "show",
		StartTime: start,
		EndTime:   start.Add(time.Duration(minutes) * time.Minute),
	}
	p.RecomputeDuration()
	return p
}

func TestWeekWindow_CurrentWeek(t *testing.T) {
	// Wednesday 2026-09-02 15:30 UTC
	now := time.Date(2026, 9, 2, 15, 30, 0, 0, time.UTC)

	start, end := WeekWindow(now, 0, time.UTC)

	// Window opens on Monday midnight of the same week
	assert.Equal(t, time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC), end)
}

func TestWeekWindow_MondayIsItsOwnWeekStart(t *testing.T) {
	now := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC) // a Monday

	start, end := WeekWindow(now, 0, time.UTC)

	assert.Equal(t, now, start)
	assert.Equal(t, now.AddDate(0, 0, 7), end)
}

func TestWeekWindow_WeeksAhead(t *testing.T) {
	now := time.Date(2026, 9, 2, 15, 30, 0, 0, time.UTC)

	start0, _ := WeekWindow(now, 0, time.UTC)
	start2, end2 := WeekWindow(now, 2, time.UTC)

	assert.Equal(t, start0.AddDate(0, 0, 14), start2)
	assert.Equal(t, start2.AddDate(0, 0, 7), end2)
}

func TestWeekWindow_UsesDisplayTimezone(t *testing.T) {
	paris, err := time.LoadLocation("Europe/Paris")
	require.NoError(t, err)

	// 23:30 UTC on Sunday is already Monday 01:30 in Paris
	now := time.Date(2026, 9, 6, 23, 30, 0, 0, time.UTC)

	start, _ := WeekWindow(now, 0, paris)

	assert.Equal(t, time.Date(2026, 9, 7, 0, 0, 0, 0, paris), start)
}

func TestGroupByDay_Empty(t *testing.T) {
	groups := GroupByDay(nil, time.UTC)
	assert.Empty(t, groups)
}

func TestGroupByDay_SortsDaysAndPrograms(t *testing.T) {
	tuesday := time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC)
	monday := time.Date(2026, 8, 31, 20, 0, 0, 0, time.UTC)

	// Input is time-sorted, the way the repository returns it
	programs := []*models.Program{
		makeProgram("Monday Earlier", monday.Add(-2*time.Hour), 60),
		makeProgram("Monday Night", monday, 60),
		makeProgram("Tuesday Morning", tuesday, 60),
	}

	groups := GroupByDay(programs, time.UTC)

	require.Len(t, groups, 2)
	assert.Equal(t, "Monday", groups[0].DayName)
	assert.Equal(t, "Monday 31/08", groups[0].DayLabel)
	assert.Equal(t, "Tuesday", groups[1].DayName)

	require.Len(t, groups[0].Programs, 2)
	assert.Equal(t, "Monday Earlier", groups[0].Programs[0].Title)
	assert.Equal(t, "Monday Night", groups[0].Programs[1].Title)
}

func TestGroupByDay_BucketsByDisplayTimezone(t *testing.T) {
	paris, err := time.LoadLocation("Europe/Paris")
	require.NoError(t, err)

	// 23:00 UTC Monday is 01:00 Tuesday in Paris
	lateMonday := time.Date(2026, 8, 31, 23, 0, 0, 0, time.UTC)
	programs := []*models.Program{makeProgram("Late Show", lateMonday, 60)}

	utcGroups := GroupByDay(programs, time.UTC)
	parisGroups := GroupByDay(programs, paris)

	require.Len(t, utcGroups, 1)
	require.Len(t, parisGroups, 1)
	assert.Equal(t, "Monday", utcGroups[0].DayName)
	assert.Equal(t, "Tuesday", parisGroups[0].DayName)
}

func TestGroupByDay_ProgramSpanningMidnightStaysOnStartDay(t *testing.T) {
	// Ends at 00:30 the next day but belongs to its start day
	lateFilm := makeProgram("Late Film", time.Date(2026, 9, 1, 23, 0, 0, 0, time.UTC), 90)

	groups := GroupByDay([]*models.Program{lateFilm}, time.UTC)

	require.Len(t, groups, 1)
	assert.Equal(t, "Tuesday", groups[0].DayName)
}

func TestWeekdayIndex_MondayFirst(t *testing.T) {
	monday := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	sunday := time.Date(2026, 9, 6, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, 0, weekdayIndex(monday))
	assert.Equal(t, 6, weekdayIndex(sunday))
}

func TestDistinctTypes(t *testing.T) {
	programs := []*models.Program{
		makeProgram("A", time.Now(), 30),
		makeProgram("B", time.Now(), 30),
		makeProgram("C", time.Now(), 30),
	}
	programs[0].Type = "news"
	programs[1].Type = "film"
	programs[2].Type = "news"

	types := distinctTypes(programs)

	assert.ElementsMatch(t, []string{"news", "film"}, types)
}
