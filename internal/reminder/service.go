// Package reminder implements per-user program reminders with a small state
// machine: scheduled is the only live state; sent, cancelled and failed are
// terminal. The fire time is derived from the referenced program's start time
// at creation and at explicit update, never reactively on program edits.
package reminder

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/adjovi/telegrid/internal/db"
	"github.com/adjovi/telegrid/internal/logger"
	"github.com/adjovi/telegrid/internal/models"
)

// Service handles business logic for reminder operations
type Service struct {
	repos *db.Repositories
}

// NewService creates a new reminder service instance
func NewService(repos *db.Repositories) *Service {
	return &Service{
		repos: repos,
	}
}

// UpdateParams holds the optional fields for a partial reminder update
type UpdateParams struct {
	MinutesBefore *int
	ReminderType  *string
	Status        *string
}

// Create creates a reminder for an existing program. While a scheduled
// reminder for the same (user, program) pair exists, create is idempotent and
// returns that reminder instead of inserting a duplicate.
func (s *Service) Create(ctx context.Context, userID string, programID uuid.UUID, minutesBefore int, reminderType string) (*models.Reminder, error) {
	if minutesBefore < models.MinMinutesBefore || minutesBefore > models.MaxMinutesBefore {
		return nil, ErrInvalidMinutesBefore
	}
	if reminderType == "" {
		reminderType = models.ReminderTypePush
	}
	if !models.IsValidReminderType(reminderType) {
		return nil, ErrInvalidReminderType
	}

	prog, err := s.repos.Programs.GetByID(ctx, programID)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, ErrProgramNotFound
		}
		return nil, fmt.Errorf("failed to load program: %w", err)
	}

	if existing, err := s.repos.Reminders.GetScheduled(ctx, userID, programID); err == nil {
		logger.Log.Debug().
			Str("reminder_id", existing.ID.String()).
			Str("user_id", userID).
			Str("program_id", programID.String()).
			Msg("Reminder already scheduled, returning existing")
		return existing, nil
	} else if !db.IsNotFound(err) {
		return nil, fmt.Errorf("failed to check existing reminder: %w", err)
	}

	now := time.Now().UTC()
	rem := &models.Reminder{
		ID:               uuid.New(),
		UserID:           userID,
		ProgramID:        programID,
		MinutesBefore:    minutesBefore,
		ReminderType:     reminderType,
		Status:           models.ReminderStatusScheduled,
		ScheduledFor:     models.FireTime(prog.StartTime, minutesBefore),
		ProgramTitle:     prog.Title,
		ProgramStartTime: prog.StartTime,
		ChannelName:      s.resolveChannelName(ctx, prog.ChannelID),
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if err := s.repos.Reminders.Create(ctx, rem); err != nil {
		// A concurrent create for the same pair can win the race between the
		// scheduled-lookup above and this insert; the partial unique index
		// turns that into a duplicate error and the winner is returned.
		if db.IsDuplicate(err) {
			existing, lookupErr := s.repos.Reminders.GetScheduled(ctx, userID, programID)
			if lookupErr == nil {
				return existing, nil
			}
			return nil, fmt.Errorf("failed to load reminder after duplicate insert: %w", lookupErr)
		}
		logger.Log.Error().
			Err(err).
			Str("user_id", userID).
			Str("program_id", programID.String()).
			Msg("Failed to create reminder in database")
		return nil, fmt.Errorf("failed to create reminder: %w", err)
	}

	logger.Log.Info().
		Str("reminder_id", rem.ID.String()).
		Str("user_id", userID).
		Str("program_id", programID.String()).
		Time("scheduled_for", rem.ScheduledFor).
		Msg("Reminder created successfully")

	return rem, nil
}

// ListForUser retrieves a user's reminders ascending by fire time. status
// optionally filters by status; when upcomingOnly is set only reminders
// firing at or after now are returned.
func (s *Service) ListForUser(ctx context.Context, userID string, status *string, upcomingOnly bool, now time.Time) ([]*models.Reminder, error) {
	var after *time.Time
	if upcomingOnly {
		after = &now
	}

	reminders, err := s.repos.Reminders.ListForUser(ctx, userID, status, after)
	if err != nil {
		logger.Log.Error().
			Err(err).
			Str("user_id", userID).
			Msg("Failed to list reminders")
		return nil, fmt.Errorf("failed to list reminders: %w", err)
	}
	return reminders, nil
}

// Get retrieves one of the user's reminders by ID
func (s *Service) Get(ctx context.Context, userID string, id uuid.UUID) (*models.Reminder, error) {
	return s.getOwned(ctx, userID, id)
}

// Update applies a partial update to one of the user's reminders. A changed
// lead time recomputes the fire time from the program's *current* start time
// in the catalog; the creation-time snapshot is presentation-only and is
// never used for scheduling.
func (s *Service) Update(ctx context.Context, userID string, id uuid.UUID, params UpdateParams) (*models.Reminder, error) {
	rem, err := s.getOwned(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if params.MinutesBefore != nil {
		if *params.MinutesBefore < models.MinMinutesBefore || *params.MinutesBefore > models.MaxMinutesBefore {
			return nil, ErrInvalidMinutesBefore
		}
		rem.MinutesBefore = *params.MinutesBefore

		prog, err := s.repos.Programs.GetByID(ctx, rem.ProgramID)
		if err == nil {
			rem.ScheduledFor = models.FireTime(prog.StartTime, rem.MinutesBefore)
		} else if db.IsNotFound(err) {
			// Program deleted since creation: keep the stored fire time, the
			// reminder still renders from its snapshot
			logger.Log.Warn().
				Str("reminder_id", id.String()).
				Str("program_id", rem.ProgramID.String()).
				Msg("Program gone, fire time not recomputed")
		} else {
			return nil, fmt.Errorf("failed to load program for recompute: %w", err)
		}
	}

	if params.ReminderType != nil {
		if !models.IsValidReminderType(*params.ReminderType) {
			return nil, ErrInvalidReminderType
		}
		rem.ReminderType = *params.ReminderType
	}

	if params.Status != nil && *params.Status != rem.Status {
		if !models.IsValidReminderStatus(*params.Status) {
			return nil, ErrInvalidStatusTransition
		}
		if rem.IsTerminal() {
			return nil, ErrInvalidStatusTransition
		}
		rem.Status = *params.Status
		if rem.Status == models.ReminderStatusSent {
			sentAt := time.Now().UTC()
			rem.SentAt = &sentAt
		}
	}

	if err := s.repos.Reminders.Update(ctx, rem); err != nil {
		if db.IsNotFound(err) {
			return nil, ErrReminderNotFound
		}
		logger.Log.Error().
			Err(err).
			Str("reminder_id", id.String()).
			Msg("Failed to update reminder in database")
		return nil, fmt.Errorf("failed to update reminder: %w", err)
	}

	logger.Log.Info().
		Str("reminder_id", rem.ID.String()).
		Time("scheduled_for", rem.ScheduledFor).
		Str("status", rem.Status).
		Msg("Reminder updated successfully")

	return rem, nil
}

// Cancel transitions a scheduled reminder to cancelled. Cancelling an already
// cancelled reminder is a no-op success; other terminal states refuse.
func (s *Service) Cancel(ctx context.Context, userID string, id uuid.UUID) (*models.Reminder, error) {
	rem, err := s.getOwned(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if rem.Status == models.ReminderStatusCancelled {
		return rem, nil
	}
	if rem.IsTerminal() {
		return nil, ErrInvalidStatusTransition
	}

	rem.Status = models.ReminderStatusCancelled
	if err := s.repos.Reminders.Update(ctx, rem); err != nil {
		logger.Log.Error().
			Err(err).
			Str("reminder_id", id.String()).
			Msg("Failed to cancel reminder in database")
		return nil, fmt.Errorf("failed to cancel reminder: %w", err)
	}

	logger.Log.Info().
		Str("reminder_id", id.String()).
		Str("user_id", userID).
		Msg("Reminder cancelled")

	return rem, nil
}

// Delete permanently removes one of the user's reminders
func (s *Service) Delete(ctx context.Context, userID string, id uuid.UUID) error {
	if _, err := s.getOwned(ctx, userID, id); err != nil {
		return err
	}

	if err := s.repos.Reminders.Delete(ctx, id); err != nil {
		logger.Log.Error().
			Err(err).
			Str("reminder_id", id.String()).
			Msg("Failed to delete reminder from database")
		return fmt.Errorf("failed to delete reminder: %w", err)
	}

	logger.Log.Info().
		Str("reminder_id", id.String()).
		Str("user_id", userID).
		Msg("Reminder deleted")

	return nil
}

// DueForDelivery retrieves scheduled reminders whose fire time has been
// reached, ascending by fire time. It never mutates state; the delivery
// collaborator calls MarkSent or MarkFailed per reminder afterwards.
func (s *Service) DueForDelivery(ctx context.Context, now time.Time) ([]*models.Reminder, error) {
	reminders, err := s.repos.Reminders.DueForDelivery(ctx, now)
	if err != nil {
		logger.Log.Error().
			Err(err).
			Time("now", now).
			Msg("Failed to query due reminders")
		return nil, fmt.Errorf("failed to get due reminders: %w", err)
	}
	return reminders, nil
}

// MarkSent transitions scheduled to sent, stamping the delivery instant.
// Called exclusively by the delivery collaborator after a successful send.
func (s *Service) MarkSent(ctx context.Context, id uuid.UUID, sentAt time.Time) error {
	return s.finish(ctx, id, models.ReminderStatusSent, &sentAt)
}

// MarkFailed transitions scheduled to failed after a delivery failure report
func (s *Service) MarkFailed(ctx context.Context, id uuid.UUID) error {
	return s.finish(ctx, id, models.ReminderStatusFailed, nil)
}

func (s *Service) finish(ctx context.Context, id uuid.UUID, status string, sentAt *time.Time) error {
	rem, err := s.repos.Reminders.GetByID(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return ErrReminderNotFound
		}
		return fmt.Errorf("failed to get reminder: %w", err)
	}

	if rem.IsTerminal() {
		return ErrInvalidStatusTransition
	}

	rem.Status = status
	if sentAt != nil {
		t := sentAt.UTC()
		rem.SentAt = &t
	}

	if err := s.repos.Reminders.Update(ctx, rem); err != nil {
		logger.Log.Error().
			Err(err).
			Str("reminder_id", id.String()).
			Str("status", status).
			Msg("Failed to finish reminder in database")
		return fmt.Errorf("failed to update reminder status: %w", err)
	}

	logger.Log.Info().
		Str("reminder_id", id.String()).
		Str("status", status).
		Msg("Reminder delivery state recorded")

	return nil
}

// getOwned loads a reminder and enforces ownership. A reminder belonging to
// another user surfaces as not found.
func (s *Service) getOwned(ctx context.Context, userID string, id uuid.UUID) (*models.Reminder, error) {
	rem, err := s.repos.Reminders.GetByID(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, ErrReminderNotFound
		}
		return nil, fmt.Errorf("failed to get reminder: %w", err)
	}
	if rem.UserID != userID {
		return nil, ErrReminderNotFound
	}
	return rem, nil
}

// resolveChannelName snapshots the channel name at reminder creation time.
// Dangling channel ids are tolerated as an unknown channel.
func (s *Service) resolveChannelName(ctx context.Context, channelID *uuid.UUID) *string {
	if channelID == nil {
		return nil
	}
	ch, err := s.repos.Channels.GetByID(ctx, *channelID)
	if err != nil {
		return nil
	}
	return &ch.Name
}
