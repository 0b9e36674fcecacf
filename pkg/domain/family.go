package domain

import (
	"time"

	"github.com/google/uuid"
)

// Family is the tenant boundary: nearly every entity belongs to exactly one family.
type Family struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Role of a user within a family.
type Role string

const (
	RoleOwner  Role = "owner"
	RoleAdult  Role = "adult"
	RoleChild  Role = "child"
	RoleMember Role = "member"
)

// Member is a user's membership in a family, joined with profile data.
// ID is the member's user id; the membership row carries its own key in storage.
type Member struct {
	ID       uuid.UUID `json:"id"`
	FamilyID uuid.UUID `json:"family_id"`
	Email    string    `json:"email"`
	Name     *string   `json:"name,omitempty"`
	Role     Role      `json:"role"`
	JoinedAt time.Time `json:"joined_at"`
}

// IsOwner returns true if the member owns the family.
func (m *Member) IsOwner() bool {
	return m.Role == RoleOwner
}
