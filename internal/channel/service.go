// Package channel implements the broadcast channel registry. Channels carry
// presentation metadata only; programs reference them by id and tolerate the
// reference going stale after a delete.
package channel

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/adjovi/telegrid/internal/db"
	"github.com/adjovi/telegrid/internal/logger"
	"github.com/adjovi/telegrid/internal/models"
)

// Service handles business logic for channel operations
type Service struct {
	repos *db.Repositories
}

// NewService creates a new channel service instance
func NewService(repos *db.Repositories) *Service {
	return &Service{
		repos: repos,
	}
}

// CreateParams holds the caller-supplied fields for a new channel
type CreateParams struct {
	Name          string
	Description   *string
	LogoURL       *string
	DisplayOrder  int
	IsActive      bool
	IsNewsChannel bool
}

// Create creates a new channel with validation
func (s *Service) Create(ctx context.Context, params CreateParams) (*models.Channel, error) {
	if err := s.validateNameUniqueness(ctx, params.Name, uuid.Nil); err != nil {
		logger.Log.Warn().
			Str("name", params.Name).
			Msg("Channel creation failed: duplicate name")
		return nil, fmt.Errorf("failed to create channel: %w", err)
	}

	now := time.Now().UTC()
	ch := &models.Channel{
		ID:            uuid.New(),
		Name:          params.Name,
		Description:   params.Description,
		LogoURL:       params.LogoURL,
		DisplayOrder:  params.DisplayOrder,
		IsActive:      params.IsActive,
		IsNewsChannel: params.IsNewsChannel,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.repos.Channels.Create(ctx, ch); err != nil {
		logger.Log.Error().
			Err(err).
			Str("name", params.Name).
			Msg("Failed to create channel in database")
		return nil, fmt.Errorf("failed to create channel: %w", err)
	}

	logger.Log.Info().
		Str("channel_id", ch.ID.String()).
		Str("name", ch.Name).
		Msg("Channel created successfully")

	return ch, nil
}

// GetByID retrieves a channel by its ID
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*models.Channel, error) {
	ch, err := s.repos.Channels.GetByID(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, ErrChannelNotFound
		}
		logger.Log.Error().
			Err(err).
			Str("channel_id", id.String()).
			Msg("Failed to get channel by ID")
		return nil, fmt.Errorf("failed to get channel: %w", err)
	}

	return ch, nil
}

// List retrieves channels ordered by display order, optionally restricted to
// one active state
func (s *Service) List(ctx context.Context, isActive *bool, offset, limit int) ([]*models.Channel, error) {
	channels, err := s.repos.Channels.List(ctx, isActive, offset, limit)
	if err != nil {
		logger.Log.Error().
			Err(err).
			Msg("Failed to list channels")
		return nil, fmt.Errorf("failed to list channels: %w", err)
	}

	logger.Log.Debug().
		Int("count", len(channels)).
		Msg("Listed channels")

	return channels, nil
}

// Update updates an existing channel with validation
func (s *Service) Update(ctx context.Context, ch *models.Channel) error {
	existing, err := s.GetByID(ctx, ch.ID)
	if err != nil {
		return err
	}

	// Validate name uniqueness if name changed
	if !strings.EqualFold(existing.Name, ch.Name) {
		if err := s.validateNameUniqueness(ctx, ch.Name, ch.ID); err != nil {
			logger.Log.Warn().
				Str("channel_id", ch.ID.String()).
				Str("name", ch.Name).
				Msg("Channel update failed: duplicate name")
			return fmt.Errorf("failed to update channel: %w", err)
		}
	}

	ch.UpdatedAt = time.Now().UTC()

	if err := s.repos.Channels.Update(ctx, ch); err != nil {
		logger.Log.Error().
			Err(err).
			Str("channel_id", ch.ID.String()).
			Msg("Failed to update channel in database")
		return fmt.Errorf("failed to update channel: %w", err)
	}

	logger.Log.Info().
		Str("channel_id", ch.ID.String()).
		Str("name", ch.Name).
		Msg("Channel updated successfully")

	return nil
}

// Delete deletes a channel by its ID. Programs keep their channel_id; lookups
// against the deleted channel resolve to an unknown channel, not an error.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}

	if err := s.repos.Channels.Delete(ctx, id); err != nil {
		logger.Log.Error().
			Err(err).
			Str("channel_id", id.String()).
			Msg("Failed to delete channel from database")
		return fmt.Errorf("failed to delete channel: %w", err)
	}

	logger.Log.Info().
		Str("channel_id", id.String()).
		Msg("Channel deleted successfully")

	return nil
}

// ResolveName returns the channel name for a possibly stale channel id.
// A missing channel yields nil rather than an error.
func (s *Service) ResolveName(ctx context.Context, id *uuid.UUID) *string {
	if id == nil {
		return nil
	}
	ch, err := s.repos.Channels.GetByID(ctx, *id)
	if err != nil {
		if !db.IsNotFound(err) {
			logger.Log.Warn().
				Err(err).
				Str("channel_id", id.String()).
				Msg("Failed to resolve channel name")
		}
		return nil
	}
	return &ch.Name
}

// validateNameUniqueness checks if a channel name is unique (case-insensitive)
// excludeID allows excluding a specific channel ID (for updates)
func (s *Service) validateNameUniqueness(ctx context.Context, name string, excludeID uuid.UUID) error {
	channels, err := s.repos.Channels.List(ctx, nil, 0, 0)
	if err != nil {
		return fmt.Errorf("failed to validate name uniqueness: %w", err)
	}

	nameLower := strings.ToLower(strings.TrimSpace(name))

	for _, ch := range channels {
		if ch.ID == excludeID {
			continue
		}

		if strings.ToLower(strings.TrimSpace(ch.Name)) == nameLower {
			return ErrDuplicateChannelName
		}
	}

	return nil
}
