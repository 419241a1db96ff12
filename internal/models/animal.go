package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Animal request statuses. Transitions are monotonic:
// DRAFT -> FORMED -> {COMPLETED, REJECTED}, and DRAFT -> DELETED.
const (
	StatusDraft     = "DRAFT"
	StatusFormed    = "FORMED"
	StatusCompleted = "COMPLETED"
	StatusRejected  = "REJECTED"
	StatusDeleted   = "DELETED"
)

// NormalizeStatus upper-cases an externally supplied status and checks it
// against the known set.
func NormalizeStatus(s string) (string, error) {
	status := strings.ToUpper(strings.TrimSpace(s))
	switch status {
	case StatusDraft, StatusFormed, StatusCompleted, StatusRejected, StatusDeleted:
		return status, nil
	}
	return "", fmt.Errorf("unknown status %q", s)
}

// Animal is a zoo record request. A DRAFT animal doubles as its creator's
// cart; at most one exists per creator at any time.
type Animal struct {
	ID             uuid.UUID  `json:"id" db:"id"`
	Status         string     `json:"status" db:"status"`
	Animal         *string    `json:"animal" db:"animal"`
	Period         *string    `json:"period" db:"period"`
	Habitat        *string    `json:"habitat" db:"habitat"`
	CreationDate   time.Time  `json:"creation_date" db:"creation_date"`
	FormationDate  *time.Time `json:"formation_date" db:"formation_date"`
	CompletionDate *time.Time `json:"completion_date" db:"completion_date"`
	RecordDate     *time.Time `json:"record_date" db:"record_date"`
	Creator        Creator    `json:"creator"`
	ModeratorID    *uuid.UUID `json:"moderator" db:"moderator_id"`
}

// AnimalUpdate carries the draft-editable fields; nil means "leave unchanged".
type AnimalUpdate struct {
	Animal  *string `json:"animal"`
	Period  *string `json:"period"`
	Habitat *string `json:"habitat"`
}

// AnimalFilter narrows animal listings. Status is an exact match after
// normalization; the date bounds apply to formation_date.
type AnimalFilter struct {
	Status       *string
	FormedAfter  *time.Time
	FormedBefore *time.Time
}

// AnimalDetail is an animal together with its associated categories.
type AnimalDetail struct {
	Animal
	Categories []AssociatedCategory `json:"category_list"`
}
