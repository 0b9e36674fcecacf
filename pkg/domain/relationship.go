package domain

import (
	"time"

	"github.com/google/uuid"
)

// Relationship links two family members in the genealogy graph
// (parent-of, spouse-of, sibling-of, ...).
type Relationship struct {
	ID         uuid.UUID `json:"id"`
	FamilyID   uuid.UUID `json:"family_id"`
	FromUserID uuid.UUID `json:"from_user_id"`
	ToUserID   uuid.UUID `json:"to_user_id"`
	Type       string    `json:"type"`
	CreatedAt  time.Time `json:"created_at"`
}
