package domain

import (
	"time"

	"github.com/google/uuid"
)

// User represents the account. User identities may be shared across families,
// so users are not scoped by family id.
type User struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	Name      *string   `json:"name,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
