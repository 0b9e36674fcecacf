package portability

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// deleteStatements maps each entity kind to the statement removing every row
// of that kind belonging to one family. Kinds without a family column are
// scoped through a subquery over their owning parent.
var deleteStatements = map[Kind]string{
	KindMessage:      `DELETE FROM messages WHERE conversation_id IN (SELECT id FROM conversations WHERE family_id = $1)`,
	KindConversation: `DELETE FROM conversations WHERE family_id = $1`,
	KindVaultItem:    `DELETE FROM vault_items WHERE vault_id IN (SELECT id FROM vaults WHERE family_id = $1)`,
	KindVault:        `DELETE FROM vaults WHERE family_id = $1`,
	KindEvent:        `DELETE FROM events WHERE family_id = $1`,
	KindRecipe:       `DELETE FROM recipes WHERE family_id = $1`,
	KindMediaVariant: `DELETE FROM media_variants WHERE media_item_id IN (SELECT id FROM media_items WHERE family_id = $1)`,
	KindMediaItem:    `DELETE FROM media_items WHERE family_id = $1`,
	KindPost:         `DELETE FROM posts WHERE family_id = $1`,
	KindRelationship: `DELETE FROM relationships WHERE family_id = $1`,
	KindMembership:   `DELETE FROM memberships WHERE family_id = $1`,
	KindAuditEvent:   `DELETE FROM audit_events WHERE family_id = $1`,
	KindFamily:       `DELETE FROM families WHERE id = $1`,
}

// Erase permanently deletes a family's entire data graph: hard deletes, no
// tombstones, no undo. The whole operation runs inside one transaction on
// one exclusively held connection; any failure rolls back every prior delete
// and the original error is returned unmodified. User rows are left in
// place, since identities may be shared across families.
func (s *Service) Erase(ctx context.Context, familyID uuid.UUID) (*DeletionSummary, error) {
	conn, err := s.db.Conn(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}

	counts, err := eraseFamily(ctx, tx, familyID)
	if err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}

	// The family's audit trail is deleted with it, so erasure is only
	// recorded in the service log.
	s.logger.Info("family erased", "family_id", familyID, "counts", counts)

	return &DeletionSummary{
		FamilyID:    familyID,
		Counts:      counts,
		CompletedAt: time.Now().UTC(),
	}, nil
}

// eraseFamily deletes in reverse dependency order so no statement runs
// before the statements covering its dependents. Each step's row count is
// recorded even when zero; the family row always goes last.
func eraseFamily(ctx context.Context, q execer, familyID uuid.UUID) (map[string]int, error) {
	counts := make(map[string]int, len(kinds))
	for _, kind := range DeleteOrder() {
		res, err := q.ExecContext(ctx, deleteStatements[kind], familyID)
		if err != nil {
			return nil, err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return nil, err
		}
		counts[kind.Table()] = int(n)
	}
	return counts, nil
}
