package models

import (
	"time"

	"github.com/google/uuid"
)

// Channel represents a broadcast channel entity
type Channel struct {
	ID            uuid.UUID `json:"id" gorm:"type:text;primaryKey;column:id"`
	Name          string    `json:"name" gorm:"type:text;not null;column:name" validate:"required,min=1,max=255"`
	Description   *string   `json:"description,omitempty" gorm:"type:text;column:description"`
	LogoURL       *string   `json:"logo_url,omitempty" gorm:"type:text;column:logo_url"`
	DisplayOrder  int       `json:"display_order" gorm:"type:integer;not null;default:0;column:display_order"`
	IsActive      bool      `json:"is_active" gorm:"type:integer;not null;default:1;column:is_active"`
	IsNewsChannel bool      `json:"is_news_channel" gorm:"type:integer;not null;default:0;column:is_news_channel"`
	CreatedAt     time.Time `json:"created_at" gorm:"type:datetime;default:CURRENT_TIMESTAMP;column:created_at"`
	UpdatedAt     time.Time `json:"updated_at" gorm:"type:datetime;default:CURRENT_TIMESTAMP;column:updated_at"`
}

// NewChannel creates a new Channel with generated UUID and timestamps
func NewChannel(name string, displayOrder int) *Channel {
	now := time.Now().UTC()
	return &Channel{
		ID:           uuid.New(),
		Name:         name,
		DisplayOrder: displayOrder,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}
