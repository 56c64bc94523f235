package db

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/adjovi/telegrid/internal/models"
)

// ProgramFilters enumerates the supported program list predicates. Nil fields
// are skipped. Date restricts start_time to a single calendar day; StartDate
// and EndDate bound start_time from below and above independently.
type ProgramFilters struct {
	Date      *time.Time
	StartDate *time.Time
	EndDate   *time.Time
	Type      *string
	Category  *string
	ChannelID *uuid.UUID
	IsLive    *bool
	HasReplay *bool
	Host      *string
	Offset    int
	Limit     int
}

// ProgramRepository handles database operations for guide programs
type ProgramRepository struct {
	db *DB
}

// NewProgramRepository creates a new program repository
func NewProgramRepository(db *DB) *ProgramRepository {
	return &ProgramRepository{db: db}
}

// Create inserts a new program into the database
func (r *ProgramRepository) Create(ctx context.Context, program *models.Program) error {
	result := r.db.WithContext(ctx).Create(program)
	if result.Error != nil {
		return fmt.Errorf("failed to create program: %w", MapGormError(result.Error))
	}
	return nil
}

// GetByID retrieves a program by its UUID
func (r *ProgramRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Program, error) {
	var program models.Program
	result := r.db.WithContext(ctx).Where("id = ?", id.String()).First(&program)
	if result.Error != nil {
		return nil, MapGormError(result.Error)
	}
	return &program, nil
}

// List retrieves programs matching the filters, ascending by start time
func (r *ProgramRepository) List(ctx context.Context, filters ProgramFilters) ([]*models.Program, error) {
	query := r.applyFilters(r.db.WithContext(ctx), filters).Order("start_time ASC")
	if filters.Offset > 0 {
		query = query.Offset(filters.Offset)
	}
	if filters.Limit > 0 {
		query = query.Limit(filters.Limit)
	}

	var programs []*models.Program
	result := query.Find(&programs)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list programs: %w", MapGormError(result.Error))
	}
	return programs, nil
}

// Update updates an existing program
func (r *ProgramRepository) Update(ctx context.Context, program *models.Program) error {
	program.UpdatedAt = time.Now().UTC()

	// Use Select to explicitly update all fields including zero values
	result := r.db.WithContext(ctx).
		Where("id = ?", program.ID.String()).
		Select("title", "description", "type", "category", "start_time", "end_time",
			"duration_minutes", "image_url", "thumbnail_url", "host", "guests",
			"is_live", "has_replay", "replay_url", "channel_id", "show_id",
			"rating", "updated_at").
		Updates(program)
	if result.Error != nil {
		return fmt.Errorf("failed to update program: %w", MapGormError(result.Error))
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// SetLive flips the is_live flag without touching the timing fields
func (r *ProgramRepository) SetLive(ctx context.Context, id uuid.UUID, isLive bool) error {
	result := r.db.WithContext(ctx).
		Model(&models.Program{}).
		Where("id = ?", id.String()).
		Updates(map[string]interface{}{
			"is_live":    isLive,
			"updated_at": time.Now().UTC(),
		})
	if result.Error != nil {
		return fmt.Errorf("failed to set live flag: %w", MapGormError(result.Error))
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete deletes a program by its UUID
func (r *ProgramRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("id = ?", id.String()).Delete(&models.Program{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete program: %w", MapGormError(result.Error))
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// CurrentlyLive retrieves programs on air at the given instant, inclusive on
// both bounds, ascending by start time
func (r *ProgramRepository) CurrentlyLive(ctx context.Context, now time.Time) ([]*models.Program, error) {
	var programs []*models.Program
	result := r.db.WithContext(ctx).
		Where("start_time <= ? AND end_time >= ?", now, now).
		Order("start_time ASC").
		Find(&programs)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to query live programs: %w", MapGormError(result.Error))
	}
	return programs, nil
}

// Upcoming retrieves programs starting within the window [now, now+ahead],
// ascending by start time, capped at limit (0 = no cap)
func (r *ProgramRepository) Upcoming(ctx context.Context, now time.Time, ahead time.Duration, limit int) ([]*models.Program, error) {
	query := r.db.WithContext(ctx).
		Where("start_time >= ? AND start_time <= ?", now, now.Add(ahead)).
		Order("start_time ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var programs []*models.Program
	result := query.Find(&programs)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to query upcoming programs: %w", MapGormError(result.Error))
	}
	return programs, nil
}

// Range retrieves programs whose start time falls in [start, end], optionally
// narrowed by type and channel, ascending by start time
func (r *ProgramRepository) Range(ctx context.Context, start, end time.Time, programType *string, channelID *uuid.UUID) ([]*models.Program, error) {
	query := r.db.WithContext(ctx).
		Where("start_time >= ? AND start_time <= ?", start, end)
	if programType != nil {
		query = query.Where("type = ?", *programType)
	}
	if channelID != nil {
		query = query.Where("channel_id = ?", channelID.String())
	}

	var programs []*models.Program
	result := query.Order("start_time ASC").Find(&programs)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to query program range: %w", MapGormError(result.Error))
	}
	return programs, nil
}

func (r *ProgramRepository) applyFilters(query *gorm.DB, filters ProgramFilters) *gorm.DB {
	if filters.Date != nil {
		dayStart := filters.Date.Truncate(24 * time.Hour)
		query = query.Where("start_time >= ? AND start_time <= ?", dayStart, dayStart.Add(24*time.Hour))
	}
	if filters.StartDate != nil {
		query = query.Where("start_time >= ?", *filters.StartDate)
	}
	if filters.EndDate != nil {
		query = query.Where("start_time <= ?", *filters.EndDate)
	}
	if filters.Type != nil {
		query = query.Where("type = ?", *filters.Type)
	}
	if filters.Category != nil {
		query = query.Where("category = ?", *filters.Category)
	}
	if filters.ChannelID != nil {
		query = query.Where("channel_id = ?", filters.ChannelID.String())
	}
	if filters.IsLive != nil {
		query = query.Where("is_live = ?", *filters.IsLive)
	}
	if filters.HasReplay != nil {
		query = query.Where("has_replay = ?", *filters.HasReplay)
	}
	if filters.Host != nil {
		query = query.Where("host = ?", *filters.Host)
	}
	return query
}
