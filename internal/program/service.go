// Package program implements the guide program catalog. Programs are absolute
// time intervals; the stored duration is always recomputed from the interval
// bounds and a caller-supplied duration is never trusted.
package program

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/adjovi/telegrid/internal/db"
	"github.com/adjovi/telegrid/internal/logger"
	"github.com/adjovi/telegrid/internal/models"
)

// Service handles business logic for program catalog operations
type Service struct {
	repos *db.Repositories
}

// NewService creates a new program service instance
func NewService(repos *db.Repositories) *Service {
	return &Service{
		repos: repos,
	}
}

// CreateParams holds the caller-supplied fields for a new program
type CreateParams struct {
	Title        string
	Description  *string
	Type         string
	Category     *string
	StartTime    time.Time
	EndTime      time.Time
	ImageURL     *string
	ThumbnailURL *string
	Host         *string
	Guests       []string
	HasReplay    bool
	ReplayURL    *string
	ChannelID    *uuid.UUID
	ShowID       *uuid.UUID
	Rating       *string
}

// UpdateParams holds the optional fields for a partial program update.
// Nil fields keep their stored value.
type UpdateParams struct {
	Title        *string
	Description  *string
	Type         *string
	Category     *string
	StartTime    *time.Time
	EndTime      *time.Time
	ImageURL     *string
	ThumbnailURL *string
	Host         *string
	Guests       []string
	HasReplay    *bool
	ReplayURL    *string
	ChannelID    *uuid.UUID
	ShowID       *uuid.UUID
	Rating       *string
}

// Create creates a new program, deriving the duration from the time bounds
func (s *Service) Create(ctx context.Context, params CreateParams) (*models.Program, error) {
	if !params.EndTime.After(params.StartTime) {
		logger.Log.Warn().
			Time("start_time", params.StartTime).
			Time("end_time", params.EndTime).
			Msg("Program creation failed: invalid time range")
		return nil, ErrInvalidTimeRange
	}

	now := time.Now().UTC()
	p := &models.Program{
		ID:           uuid.New(),
		Title:        params.Title,
		Description:  params.Description,
		Type:         params.Type,
		Category:     params.Category,
		StartTime:    params.StartTime.UTC(),
		EndTime:      params.EndTime.UTC(),
		ImageURL:     params.ImageURL,
		ThumbnailURL: params.ThumbnailURL,
		Host:         params.Host,
		Guests:       params.Guests,
		HasReplay:    params.HasReplay,
		ReplayURL:    params.ReplayURL,
		ChannelID:    params.ChannelID,
		ShowID:       params.ShowID,
		Rating:       params.Rating,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	p.RecomputeDuration()

	if err := s.repos.Programs.Create(ctx, p); err != nil {
		logger.Log.Error().
			Err(err).
			Str("title", params.Title).
			Msg("Failed to create program in database")
		return nil, fmt.Errorf("failed to create program: %w", err)
	}

	logger.Log.Info().
		Str("program_id", p.ID.String()).
		Str("title", p.Title).
		Int("duration_minutes", p.DurationMinutes).
		Msg("Program created successfully")

	return p, nil
}

// GetByID retrieves a program by its ID
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*models.Program, error) {
	p, err := s.repos.Programs.GetByID(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, ErrProgramNotFound
		}
		logger.Log.Error().
			Err(err).
			Str("program_id", id.String()).
			Msg("Failed to get program by ID")
		return nil, fmt.Errorf("failed to get program: %w", err)
	}

	return p, nil
}

// List retrieves programs matching the filters, ascending by start time
func (s *Service) List(ctx context.Context, filters db.ProgramFilters) ([]*models.Program, error) {
	programs, err := s.repos.Programs.List(ctx, filters)
	if err != nil {
		logger.Log.Error().
			Err(err).
			Msg("Failed to list programs")
		return nil, fmt.Errorf("failed to list programs: %w", err)
	}

	logger.Log.Debug().
		Int("count", len(programs)).
		Msg("Listed programs")

	return programs, nil
}

// Update applies a partial update. When either time bound is present the
// duration is recomputed from the resulting bounds; a resulting end at or
// before start rejects the whole update before any write.
func (s *Service) Update(ctx context.Context, id uuid.UUID, params UpdateParams) (*models.Program, error) {
	p, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if params.Title != nil {
		p.Title = *params.Title
	}
	if params.Description != nil {
		p.Description = params.Description
	}
	if params.Type != nil {
		p.Type = *params.Type
	}
	if params.Category != nil {
		p.Category = params.Category
	}
	if params.ImageURL != nil {
		p.ImageURL = params.ImageURL
	}
	if params.ThumbnailURL != nil {
		p.ThumbnailURL = params.ThumbnailURL
	}
	if params.Host != nil {
		p.Host = params.Host
	}
	if params.Guests != nil {
		p.Guests = params.Guests
	}
	if params.HasReplay != nil {
		p.HasReplay = *params.HasReplay
	}
	if params.ReplayURL != nil {
		p.ReplayURL = params.ReplayURL
	}
	if params.ChannelID != nil {
		p.ChannelID = params.ChannelID
	}
	if params.ShowID != nil {
		p.ShowID = params.ShowID
	}
	if params.Rating != nil {
		p.Rating = params.Rating
	}

	if params.StartTime != nil || params.EndTime != nil {
		// Merge the partial bounds with the stored ones before validating
		if params.StartTime != nil {
			p.StartTime = params.StartTime.UTC()
		}
		if params.EndTime != nil {
			p.EndTime = params.EndTime.UTC()
		}
		if !p.EndTime.After(p.StartTime) {
			logger.Log.Warn().
				Str("program_id", id.String()).
				Time("start_time", p.StartTime).
				Time("end_time", p.EndTime).
				Msg("Program update failed: invalid time range")
			return nil, ErrInvalidTimeRange
		}
		p.RecomputeDuration()
	}

	if err := s.repos.Programs.Update(ctx, p); err != nil {
		if db.IsNotFound(err) {
			return nil, ErrProgramNotFound
		}
		logger.Log.Error().
			Err(err).
			Str("program_id", id.String()).
			Msg("Failed to update program in database")
		return nil, fmt.Errorf("failed to update program: %w", err)
	}

	logger.Log.Info().
		Str("program_id", p.ID.String()).
		Str("title", p.Title).
		Msg("Program updated successfully")

	return p, nil
}

// MarkLive flips the live flag without touching the timing fields
func (s *Service) MarkLive(ctx context.Context, id uuid.UUID, isLive bool) (*models.Program, error) {
	if err := s.repos.Programs.SetLive(ctx, id, isLive); err != nil {
		if db.IsNotFound(err) {
			return nil, ErrProgramNotFound
		}
		logger.Log.Error().
			Err(err).
			Str("program_id", id.String()).
			Msg("Failed to set live flag")
		return nil, fmt.Errorf("failed to mark program live: %w", err)
	}

	logger.Log.Info().
		Str("program_id", id.String()).
		Bool("is_live", isLive).
		Msg("Program live flag updated")

	return s.GetByID(ctx, id)
}

// Delete deletes a program by its ID
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}

	if err := s.repos.Programs.Delete(ctx, id); err != nil {
		logger.Log.Error().
			Err(err).
			Str("program_id", id.String()).
			Msg("Failed to delete program from database")
		return fmt.Errorf("failed to delete program: %w", err)
	}

	logger.Log.Info().
		Str("program_id", id.String()).
		Msg("Program deleted successfully")

	return nil
}
