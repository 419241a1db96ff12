package models

import "github.com/google/uuid"

// AnimalCategory is the m2m join between a request and a category, unique on
// the (animal, category) pair. Record is the measured value for the pair,
// absent until set explicitly.
type AnimalCategory struct {
	AnimalID   uuid.UUID `json:"animal" db:"animal_id"`
	CategoryID uuid.UUID `json:"category" db:"category_id"`
	Record     *int      `json:"record" db:"record"`
}

// AssociatedCategory is the join row as embedded in full animal responses.
type AssociatedCategory struct {
	Category CategorySummary `json:"category"`
	Record   *int            `json:"record"`
}
