package db

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/adjovi/telegrid/internal/models"
)

// ReminderRepository handles database operations for program reminders
type ReminderRepository struct {
	db *DB
}

// NewReminderRepository creates a new reminder repository
func NewReminderRepository(db *DB) *ReminderRepository {
	return &ReminderRepository{db: db}
}

// Create inserts a new reminder. The schema carries a partial unique index on
// (user_id, program_id) for scheduled reminders, so concurrent duplicate
// creates surface as ErrDuplicate rather than a second row.
func (r *ReminderRepository) Create(ctx context.Context, reminder *models.Reminder) error {
	result := r.db.WithContext(ctx).Create(reminder)
	if result.Error != nil {
		return fmt.Errorf("failed to create reminder: %w", MapGormError(result.Error))
	}
	return nil
}

// GetByID retrieves a reminder by its UUID
func (r *ReminderRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Reminder, error) {
	var reminder models.Reminder
	result := r.db.WithContext(ctx).Where("id = ?", id.String()).First(&reminder)
	if result.Error != nil {
		return nil, MapGormError(result.Error)
	}
	return &reminder, nil
}

// GetScheduled retrieves the scheduled reminder for a (user, program) pair,
// or ErrNotFound when none exists
func (r *ReminderRepository) GetScheduled(ctx context.Context, userID string, programID uuid.UUID) (*models.Reminder, error) {
	var reminder models.Reminder
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND program_id = ? AND status = ?", userID, programID.String(), models.ReminderStatusScheduled).
		First(&reminder)
	if result.Error != nil {
		return nil, MapGormError(result.Error)
	}
	return &reminder, nil
}

// ListForUser retrieves a user's reminders ascending by fire time. A non-nil
// status restricts to that status; a non-nil after restricts to reminders
// firing at or after that instant.
func (r *ReminderRepository) ListForUser(ctx context.Context, userID string, status *string, after *time.Time) ([]*models.Reminder, error) {
	query := r.db.WithContext(ctx).Where("user_id = ?", userID)
	if status != nil {
		query = query.Where("status = ?", *status)
	}
	if after != nil {
		query = query.Where("scheduled_for >= ?", *after)
	}

	var reminders []*models.Reminder
	result := query.Order("scheduled_for ASC").Find(&reminders)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list reminders: %w", MapGormError(result.Error))
	}
	return reminders, nil
}

// Update updates an existing reminder
func (r *ReminderRepository) Update(ctx context.Context, reminder *models.Reminder) error {
	reminder.UpdatedAt = time.Now().UTC()

	result := r.db.WithContext(ctx).
		Where("id = ?", reminder.ID.String()).
		Select("minutes_before", "reminder_type", "status", "scheduled_for", "sent_at", "updated_at").
		Updates(reminder)
	if result.Error != nil {
		return fmt.Errorf("failed to update reminder: %w", MapGormError(result.Error))
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete deletes a reminder by its UUID
func (r *ReminderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("id = ?", id.String()).Delete(&models.Reminder{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete reminder: %w", MapGormError(result.Error))
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DueForDelivery retrieves all scheduled reminders whose fire time has been
// reached, ascending by fire time. Read-only; the delivery collaborator
// transitions each reminder afterwards.
func (r *ReminderRepository) DueForDelivery(ctx context.Context, now time.Time) ([]*models.Reminder, error) {
	var reminders []*models.Reminder
	result := r.db.WithContext(ctx).
		Where("status = ? AND scheduled_for <= ?", models.ReminderStatusScheduled, now).
		Order("scheduled_for ASC").
		Find(&reminders)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to query due reminders: %w", MapGormError(result.Error))
	}
	return reminders, nil
}
