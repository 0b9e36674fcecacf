package domain

import (
	"time"

	"github.com/google/uuid"
)

// Audit actions recorded by the portability engine.
const (
	AuditActionExport = "portability.export"
	AuditActionImport = "portability.import"
	AuditActionVerify = "portability.verify"
)

// AuditEvent records an action performed within a family. ActorID may be nil
// for system-initiated actions.
type AuditEvent struct {
	ID        uuid.UUID  `json:"id"`
	FamilyID  uuid.UUID  `json:"family_id"`
	ActorID   *uuid.UUID `json:"actor_id,omitempty"`
	Action    string     `json:"action"`
	Details   *string    `json:"details,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}
