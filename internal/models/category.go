package models

import (
	"time"

	"github.com/google/uuid"
)

// Category is a catalog entry (a zoo record discipline such as "largest" or
// "fastest"). Deletion is soft: is_active flips to false and the photo blob
// is removed, but historical associations keep referencing the row.
type Category struct {
	ID          uuid.UUID `json:"id" db:"id"`
	Title       string    `json:"title" db:"title"`
	Photo       *string   `json:"photo" db:"photo"`
	IsActive    bool      `json:"is_active" db:"is_active"`
	Measurement *string   `json:"measurement" db:"measurement"`
	Description *string   `json:"description" db:"description"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// CategorySummary is the trimmed shape embedded in full animal responses.
type CategorySummary struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Photo       *string   `json:"photo"`
	Measurement *string   `json:"measurement"`
}

// CategoryUpdate carries the mutable fields of a category; nil means "leave
// unchanged".
type CategoryUpdate struct {
	Title       *string `json:"title"`
	Measurement *string `json:"measurement"`
	Description *string `json:"description"`
}
