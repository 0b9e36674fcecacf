// Package portability implements the family data-portability engine: export
// of a family's entire data graph to a versioned snapshot, re-import of such
// a snapshot under fresh identifiers, permanent erasure, and referential
// integrity verification.
//
// Export, Verify and Summarize are pure reads on the shared connection pool.
// Import and Erase each hold one connection for the full operation and run
// every statement inside a single transaction. Concurrent operations on the
// same family are not serialized here; callers needing that must impose an
// external per-family lock.
package portability

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/famhub/famhub/pkg/repository"
	"github.com/google/uuid"
)

// Service is the portability engine. It reads and writes entity tables
// directly and does not re-run the owning modules' business rules.
type Service struct {
	db     *sql.DB
	audit  *repository.AuditRepository
	users  *repository.UsersRepository
	logger *slog.Logger
}

// NewService creates a portability service. audit may be nil to disable the
// audit trail.
func NewService(db *sql.DB, audit *repository.AuditRepository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		db:     db,
		audit:  audit,
		users:  repository.NewUsersRepository(db),
		logger: logger,
	}
}

// ImportOptions control import behavior.
type ImportOptions struct {
	// TargetFamilyID merges the snapshot into an existing family instead of
	// creating a new family row. Rows are still created fresh; nothing is
	// deduplicated against pre-existing data.
	TargetFamilyID *uuid.UUID

	// ActorID, when set, is recorded in the destination family's audit trail.
	ActorID *uuid.UUID
}

// ImportSummary reports the outcome of one import call.
type ImportSummary struct {
	FamilyID  uuid.UUID      `json:"family_id"`
	Counts    map[string]int `json:"counts"`
	IDMapping IDMap          `json:"id_mapping"`
}

// DeletionSummary reports the outcome of one erase call. Counts record every
// step, including steps that deleted zero rows.
type DeletionSummary struct {
	FamilyID    uuid.UUID      `json:"family_id"`
	Counts      map[string]int `json:"counts"`
	CompletedAt time.Time      `json:"completed_at"`
}

// IntegrityReport is the result of a referential integrity verification.
type IntegrityReport struct {
	FamilyID  uuid.UUID `json:"family_id"`
	Valid     bool      `json:"valid"`
	Issues    []string  `json:"issues"`
	CheckedAt time.Time `json:"checked_at"`
}

// DataSummary holds per-entity-type counts for a family.
type DataSummary struct {
	Members       int `json:"members"`
	Posts         int `json:"posts"`
	Media         int `json:"media"`
	Events        int `json:"events"`
	Recipes       int `json:"recipes"`
	Conversations int `json:"conversations"`
	Messages      int `json:"messages"`
	Vaults        int `json:"vaults"`
}

// execer is the write surface erase steps run on. *sql.Tx satisfies it;
// tests substitute a recording fake.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// recordAudit best-effort writes an audit event. Failures are logged and
// never surfaced; the audit trail must not fail a completed operation.
func (s *Service) recordAudit(ctx context.Context, familyID uuid.UUID, actorID *uuid.UUID, action, details string) {
	if s.audit == nil {
		return
	}
	if err := s.audit.Record(ctx, familyID, actorID, action, &details); err != nil {
		s.logger.Warn("failed to record audit event",
			"action", action,
			"family_id", familyID,
			"error", err,
		)
	}
}
