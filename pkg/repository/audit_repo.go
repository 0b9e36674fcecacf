package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/famhub/famhub/pkg/domain"
	"github.com/google/uuid"
)

// AuditRepository handles audit event persistence.
type AuditRepository struct {
	db *sql.DB
}

// NewAuditRepository creates a new audit repository.
func NewAuditRepository(db *sql.DB) *AuditRepository {
	return &AuditRepository{db: db}
}

// Record writes an audit event for a family.
func (r *AuditRepository) Record(ctx context.Context, familyID uuid.UUID, actorID *uuid.UUID, action string, details *string) error {
	query := `
		INSERT INTO audit_events (id, family_id, actor_id, action, details, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.db.ExecContext(ctx, query,
		uuid.New(), familyID, actorID, action, details, time.Now(),
	)
	return err
}

// ListByFamily retrieves audit events for a family, newest first.
func (r *AuditRepository) ListByFamily(ctx context.Context, familyID uuid.UUID, limit int) ([]*domain.AuditEvent, error) {
	query := `
		SELECT id, family_id, actor_id, action, details, created_at
		FROM audit_events
		WHERE family_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`
	rows, err := r.db.QueryContext(ctx, query, familyID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []*domain.AuditEvent
	for rows.Next() {
		ev := &domain.AuditEvent{}
		err := rows.Scan(&ev.ID, &ev.FamilyID, &ev.ActorID, &ev.Action, &ev.Details, &ev.CreatedAt)
		if err != nil {
			return nil, err
		}
		events = append(events, ev)
	}
	return events, rows.Err()
}
