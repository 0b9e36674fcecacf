package portability

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// integrityCheck counts rows violating one referential rule. Scoped checks
// take the family id as $1; unscoped checks scan for orphans of entity kinds
// that carry no family column of their own. Because the unscoped scans cover
// the whole database, orphans left behind by another tenant surface in this
// family's report too; the issue text cannot attribute them to a family.
type integrityCheck struct {
	format string
	query  string
	scoped bool
}

var integrityChecks = []integrityCheck{
	{
		format: "%d post(s) referencing authors not in family members",
		query: `SELECT COUNT(*) FROM posts p
			WHERE p.family_id = $1
			AND NOT EXISTS (SELECT 1 FROM memberships m WHERE m.family_id = $1 AND m.user_id = p.author_id)`,
		scoped: true,
	},
	{
		format: "%d media item(s) referencing uploaders not in family members",
		query: `SELECT COUNT(*) FROM media_items i
			WHERE i.family_id = $1
			AND NOT EXISTS (SELECT 1 FROM memberships m WHERE m.family_id = $1 AND m.user_id = i.uploader_id)`,
		scoped: true,
	},
	{
		format: "%d media variant(s) referencing missing media items",
		query: `SELECT COUNT(*) FROM media_variants v
			WHERE NOT EXISTS (SELECT 1 FROM media_items i WHERE i.id = v.media_item_id)`,
	},
	{
		format: "%d message(s) referencing senders not in family members",
		query: `SELECT COUNT(*) FROM messages msg
			WHERE msg.conversation_id IN (SELECT id FROM conversations WHERE family_id = $1)
			AND NOT EXISTS (SELECT 1 FROM memberships m WHERE m.family_id = $1 AND m.user_id = msg.sender_id)`,
		scoped: true,
	},
	{
		format: "%d vault item(s) referencing missing vaults",
		query: `SELECT COUNT(*) FROM vault_items vi
			WHERE NOT EXISTS (SELECT 1 FROM vaults v WHERE v.id = vi.vault_id)`,
	},
	{
		format: "%d relationship(s) referencing users not in family members",
		query: `SELECT COUNT(*) FROM relationships r
			WHERE r.family_id = $1
			AND (NOT EXISTS (SELECT 1 FROM memberships m WHERE m.family_id = $1 AND m.user_id = r.from_user_id)
			  OR NOT EXISTS (SELECT 1 FROM memberships m WHERE m.family_id = $1 AND m.user_id = r.to_user_id))`,
		scoped: true,
	},
}

// Verify runs read-only referential integrity checks over a family's stored
// graph. Data problems never raise an error; each inconsistency becomes an
// entry in Issues and Valid is true iff Issues is empty. Only the underlying
// connectivity can fail the call. The checks do not short-circuit: every one
// runs regardless of earlier findings, except that a missing family returns
// immediately with a single issue.
func (s *Service) Verify(ctx context.Context, familyID uuid.UUID) (*IntegrityReport, error) {
	report := &IntegrityReport{
		FamilyID:  familyID,
		Issues:    []string{},
		CheckedAt: time.Now().UTC(),
	}

	var exists bool
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM families WHERE id = $1)`, familyID,
	).Scan(&exists)
	if err != nil {
		return nil, err
	}
	if !exists {
		report.Issues = append(report.Issues, "family not found")
		return report, nil
	}

	for _, check := range integrityChecks {
		var n int
		if check.scoped {
			err = s.db.QueryRowContext(ctx, check.query, familyID).Scan(&n)
		} else {
			err = s.db.QueryRowContext(ctx, check.query).Scan(&n)
		}
		if err != nil {
			return nil, err
		}
		if n > 0 {
			report.Issues = append(report.Issues, fmt.Sprintf(check.format, n))
		}
	}

	report.Valid = len(report.Issues) == 0

	return report, nil
}
