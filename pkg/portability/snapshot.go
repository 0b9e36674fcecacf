package portability

import (
	"time"

	"github.com/famhub/famhub/pkg/domain"
	"github.com/google/uuid"
)

// SnapshotVersion is the only snapshot format version this engine reads and
// writes. Any other value is rejected rather than guessed at.
const SnapshotVersion = "1.0"

// Snapshot is the immutable export payload representing one family's full
// data graph at a point in time. Media variants travel nested inside their
// media items.
type Snapshot struct {
	Version       string                `json:"version"`
	ExportedAt    time.Time             `json:"exported_at"`
	Family        domain.Family         `json:"family"`
	Members       []domain.Member       `json:"members"`
	Posts         []domain.Post         `json:"posts"`
	MediaItems    []domain.MediaItem    `json:"media_items"`
	Events        []domain.Event        `json:"events"`
	Recipes       []domain.Recipe       `json:"recipes"`
	Conversations []domain.Conversation `json:"conversations"`
	Messages      []domain.Message      `json:"messages"`
	Vaults        []domain.Vault        `json:"vaults"`
	VaultItems    []domain.VaultItem    `json:"vault_items"`
	Relationships []domain.Relationship `json:"relationships"`
	AuditEvents   []domain.AuditEvent   `json:"audit_events"`
}

// Validate checks the snapshot is something this engine can import.
func (s *Snapshot) Validate() error {
	if s.Version != SnapshotVersion {
		return domain.ErrUnsupportedSnapshotVersion
	}
	if s.Family.ID == uuid.Nil {
		return domain.ErrEmptySnapshot
	}
	return nil
}
