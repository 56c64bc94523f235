package guide

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/adjovi/telegrid/internal/db"
	"github.com/adjovi/telegrid/internal/logger"
	"github.com/adjovi/telegrid/internal/models"
)

// Service answers temporal queries and builds day-grouped guide grids.
// Every operation takes "now" (or an explicit window) from the caller, so
// results are deterministic for a given catalog state.
type Service struct {
	repos *db.Repositories
	loc   *time.Location
}

// NewService creates a new guide service. loc is the single display timezone
// used for day bucketing; it is configuration, not the host's local clock.
func NewService(repos *db.Repositories, loc *time.Location) *Service {
	if loc == nil {
		loc = time.UTC
	}
	return &Service{
		repos: repos,
		loc:   loc,
	}
}

// CurrentlyLive retrieves programs on air at now, bounds inclusive,
// ascending by start time
func (s *Service) CurrentlyLive(ctx context.Context, now time.Time) ([]*models.Program, error) {
	programs, err := s.repos.Programs.CurrentlyLive(ctx, now)
	if err != nil {
		logger.Log.Error().
			Err(err).
			Time("now", now).
			Msg("Failed to query currently live programs")
		return nil, fmt.Errorf("failed to get live programs: %w", err)
	}
	return programs, nil
}

// Upcoming retrieves programs starting within minutesAhead of now, ascending
// by start time and capped at limit
func (s *Service) Upcoming(ctx context.Context, now time.Time, minutesAhead, limit int) ([]*models.Program, error) {
	ahead := time.Duration(minutesAhead) * time.Minute
	programs, err := s.repos.Programs.Upcoming(ctx, now, ahead, limit)
	if err != nil {
		logger.Log.Error().
			Err(err).
			Time("now", now).
			Int("minutes_ahead", minutesAhead).
			Msg("Failed to query upcoming programs")
		return nil, fmt.Errorf("failed to get upcoming programs: %w", err)
	}
	return programs, nil
}

// Range retrieves programs whose start time falls in [start, end], optionally
// narrowed by type and channel
func (s *Service) Range(ctx context.Context, start, end time.Time, programType *string, channelID *uuid.UUID) ([]*models.Program, error) {
	programs, err := s.repos.Programs.Range(ctx, start, end, programType, channelID)
	if err != nil {
		logger.Log.Error().
			Err(err).
			Time("start", start).
			Time("end", end).
			Msg("Failed to query program range")
		return nil, fmt.Errorf("failed to get program range: %w", err)
	}
	return programs, nil
}

// Week builds the day-grouped grid for the week containing now shifted by
// weeksAhead weeks, optionally filtered by program type
func (s *Service) Week(ctx context.Context, now time.Time, weeksAhead int, programType *string) (*WeekGrid, error) {
	start, end := WeekWindow(now, weeksAhead, s.loc)

	programs, err := s.Range(ctx, start, end, programType, nil)
	if err != nil {
		return nil, err
	}

	logger.Log.Debug().
		Time("week_start", start).
		Int("weeks_ahead", weeksAhead).
		Int("count", len(programs)).
		Msg("Built weekly guide grid")

	return &WeekGrid{
		Days:           GroupByDay(programs, s.loc),
		TypesAvailable: distinctTypes(programs),
		TotalCount:     len(programs),
	}, nil
}

// GridRange builds the day-grouped grid for an explicit window. Nil start or
// end fall back to the current week's Monday and +7 days respectively.
func (s *Service) GridRange(ctx context.Context, now time.Time, start, end *time.Time, programType *string, channelID *uuid.UUID) (*Grid, error) {
	weekStart, weekEnd := WeekWindow(now, 0, s.loc)
	from := weekStart
	if start != nil {
		from = *start
	}
	to := weekEnd
	if end != nil {
		to = *end
	}

	programs, err := s.Range(ctx, from, to, programType, channelID)
	if err != nil {
		return nil, err
	}

	logger.Log.Debug().
		Time("start", from).
		Time("end", to).
		Int("count", len(programs)).
		Msg("Built range guide grid")

	return &Grid{
		Days:          GroupByDay(programs, s.loc),
		TotalPrograms: len(programs),
		DateRange: DateRange{
			Start: from,
			End:   to,
		},
	}, nil
}
