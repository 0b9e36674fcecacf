package domain

import (
	"time"

	"github.com/google/uuid"
)

// Vault is a sealed container of family documents.
type Vault struct {
	ID        uuid.UUID `json:"id"`
	FamilyID  uuid.UUID `json:"family_id"`
	OwnerID   uuid.UUID `json:"owner_id"`
	Name      string    `json:"name"`
	Sealed    bool      `json:"sealed"`
	CreatedAt time.Time `json:"created_at"`
}

// VaultItem is a single document stored inside a vault. Items are scoped
// through their vault, not directly by family.
type VaultItem struct {
	ID        uuid.UUID `json:"id"`
	VaultID   uuid.UUID `json:"vault_id"`
	Title     string    `json:"title"`
	Payload   []byte    `json:"payload"`
	CreatedAt time.Time `json:"created_at"`
}
