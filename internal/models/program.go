package models

import (
	"math"
	"time"

	"github.com/google/uuid"
)

// Program represents a single broadcast slot in the electronic program guide.
// StartTime and EndTime are absolute instants; DurationMinutes is always
// derived from them and never trusted from callers.
type Program struct {
	ID              uuid.UUID  `json:"id" gorm:"type:text;primaryKey;column:id"`
	Title           string     `json:"title" gorm:"type:text;not null;column:title" validate:"required,min=1,max=255"`
	Description     *string    `json:"description,omitempty" gorm:"type:text;column:description"`
	Type            string     `json:"type" gorm:"type:text;not null;column:type" validate:"required"`
	Category        *string    `json:"category,omitempty" gorm:"type:text;column:category"`
	StartTime       time.Time  `json:"start_time" gorm:"type:datetime;not null;column:start_time" validate:"required"`
	EndTime         time.Time  `json:"end_time" gorm:"type:datetime;not null;column:end_time" validate:"required"`
	DurationMinutes int        `json:"duration_minutes" gorm:"type:integer;not null;column:duration_minutes"`
	ImageURL        *string    `json:"image_url,omitempty" gorm:"type:text;column:image_url"`
	ThumbnailURL    *string    `json:"thumbnail_url,omitempty" gorm:"type:text;column:thumbnail_url"`
	Host            *string    `json:"host,omitempty" gorm:"type:text;column:host"`
	Guests          StringList `json:"guests" gorm:"type:text;column:guests"`
	IsLive          bool       `json:"is_live" gorm:"type:integer;not null;default:0;column:is_live"`
	HasReplay       bool       `json:"has_replay" gorm:"type:integer;not null;default:0;column:has_replay"`
	ReplayURL       *string    `json:"replay_url,omitempty" gorm:"type:text;column:replay_url"`
	ChannelID       *uuid.UUID `json:"channel_id,omitempty" gorm:"type:text;column:channel_id"`
	ShowID          *uuid.UUID `json:"show_id,omitempty" gorm:"type:text;column:show_id"`
	Rating          *string    `json:"rating,omitempty" gorm:"type:text;column:rating"`
	CreatedAt       time.Time  `json:"created_at" gorm:"type:datetime;default:CURRENT_TIMESTAMP;column:created_at"`
	UpdatedAt       time.Time  `json:"updated_at" gorm:"type:datetime;default:CURRENT_TIMESTAMP;column:updated_at"`
}

// DurationBetween computes the program duration in whole minutes, rounding
// to the nearest minute.
func DurationBetween(start, end time.Time) int {
	return int(math.Round(end.Sub(start).Minutes()))
}

// RecomputeDuration refreshes DurationMinutes from the current time bounds
func (p *Program) RecomputeDuration() {
	p.DurationMinutes = DurationBetween(p.StartTime, p.EndTime)
}
