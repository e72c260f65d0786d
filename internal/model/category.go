package model

import (
	"time"

	"github.com/google/uuid"
)

// Category is a user-owned task grouping. Soft-deleted via IsActive.
type Category struct {
	CategoryID  int       `json:"category_id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	ColorHex    string    `json:"color_hex"`
	IconName    string    `json:"icon_name,omitempty"`
	CreatedBy   uuid.UUID `json:"created_by"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CategoryRequest represents a category create or update request.
type CategoryRequest struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	ColorHex    string `json:"color_hex,omitempty"`
	IconName    string `json:"icon_name,omitempty"`
}
