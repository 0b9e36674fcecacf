package domain

import (
	"time"

	"github.com/google/uuid"
)

// Recipe is a family recipe book entry.
type Recipe struct {
	ID           uuid.UUID `json:"id"`
	FamilyID     uuid.UUID `json:"family_id"`
	AuthorID     uuid.UUID `json:"author_id"`
	Title        string    `json:"title"`
	Ingredients  string    `json:"ingredients"`
	Instructions string    `json:"instructions"`
	CreatedAt    time.Time `json:"created_at"`
}
