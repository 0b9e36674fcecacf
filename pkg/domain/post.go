package domain

import (
	"time"

	"github.com/google/uuid"
)

// Post is a feed entry written by a family member.
type Post struct {
	ID        uuid.UUID `json:"id"`
	FamilyID  uuid.UUID `json:"family_id"`
	AuthorID  uuid.UUID `json:"author_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}
