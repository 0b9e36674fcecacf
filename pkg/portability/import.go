package portability

import (
	"context"
	"fmt"
	"time"

	"github.com/famhub/famhub/pkg/domain"
	"github.com/famhub/famhub/pkg/repository"
	"github.com/google/uuid"
)

// Import writes a snapshot into a destination family, assigning fresh
// identifiers to every row while preserving the snapshot's internal
// reference graph. Existing rows are never reused or updated, even in merge
// mode, so import is intentionally not idempotent: re-running it produces
// duplicate rows under a disjoint identifier set.
//
// The whole operation runs inside one transaction on one exclusively held
// connection. On any failure the transaction is rolled back, the connection
// released, and the original error returned unmodified.
//
// Person references (authors, uploaders, creators, owners, senders,
// relationship endpoints) that point outside the snapshot's member set pass
// through with their original value and may dangle in the destination.
func (s *Service) Import(ctx context.Context, snap *Snapshot, opts ImportOptions) (*ImportSummary, error) {
	if err := snap.Validate(); err != nil {
		return nil, err
	}

	ids := make(IDMap)
	merge := opts.TargetFamilyID != nil
	if merge {
		ids[snap.Family.ID] = *opts.TargetFamilyID
	}
	destID := ids.Remap(snap.Family.ID)

	conn, err := s.db.Conn(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}

	counts, err := s.importSnapshot(ctx, tx, snap, ids, destID, merge)
	if err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}

	s.logger.Info("snapshot imported",
		"family_id", destID,
		"source_family_id", snap.Family.ID,
		"merge", merge,
		"remapped_ids", len(ids),
	)
	s.recordAudit(ctx, destID, opts.ActorID, domain.AuditActionImport,
		fmt.Sprintf("imported snapshot of family %s exported at %s", snap.Family.ID, snap.ExportedAt.Format(time.RFC3339)))

	return &ImportSummary{FamilyID: destID, Counts: counts, IDMapping: ids}, nil
}

// importSnapshot inserts every snapshot row following the dependency graph's
// insertion order, so each referenced row exists before any dependent row is
// written, without relying on deferred constraint checking.
func (s *Service) importSnapshot(ctx context.Context, q repository.Querier, snap *Snapshot, ids IDMap, destID uuid.UUID, merge bool) (map[string]int, error) {
	counts := make(map[string]int, len(kinds))
	for _, kind := range InsertOrder() {
		n, err := s.importKind(ctx, q, kind, snap, ids, destID, merge)
		if err != nil {
			return nil, err
		}
		counts[kind.Table()] = n
	}
	return counts, nil
}

func (s *Service) importKind(ctx context.Context, q repository.Querier, kind Kind, snap *Snapshot, ids IDMap, destID uuid.UUID, merge bool) (int, error) {
	switch kind {
	case KindFamily:
		// Merge mode reuses the caller-supplied family row.
		if merge {
			return 0, nil
		}
		now := time.Now()
		_, err := q.ExecContext(ctx, `
			INSERT INTO families (id, name, created_at, updated_at)
			VALUES ($1, $2, $3, $4)`,
			destID, snap.Family.Name, snap.Family.CreatedAt, now,
		)
		if err != nil {
			return 0, err
		}
		return 1, nil

	case KindMembership:
		for i := range snap.Members {
			mb := &snap.Members[i]
			userID := ids.Remap(mb.ID)
			// User identities may be shared across families; the upsert lets
			// an existing row win and the membership points at it.
			if err := s.users.UpsertTx(ctx, q, &domain.User{
				ID:        userID,
				Email:     mb.Email,
				Name:      mb.Name,
				CreatedAt: mb.JoinedAt,
				UpdatedAt: mb.JoinedAt,
			}); err != nil {
				return 0, err
			}
			if _, err := q.ExecContext(ctx, `
				INSERT INTO memberships (id, family_id, user_id, role, joined_at)
				VALUES ($1, $2, $3, $4, $5)`,
				uuid.New(), destID, userID, mb.Role, mb.JoinedAt,
			); err != nil {
				return 0, err
			}
		}
		return len(snap.Members), nil

	case KindPost:
		for i := range snap.Posts {
			p := &snap.Posts[i]
			if _, err := q.ExecContext(ctx, `
				INSERT INTO posts (id, family_id, author_id, content, created_at)
				VALUES ($1, $2, $3, $4, $5)`,
				ids.Remap(p.ID), destID, ids.Lookup(p.AuthorID), p.Content, p.CreatedAt,
			); err != nil {
				return 0, err
			}
		}
		return len(snap.Posts), nil

	case KindMediaItem:
		for i := range snap.MediaItems {
			it := &snap.MediaItems[i]
			if _, err := q.ExecContext(ctx, `
				INSERT INTO media_items (id, family_id, uploader_id, file_name, content_type, size_bytes, created_at)
				VALUES ($1, $2, $3, $4, $5, $6, $7)`,
				ids.Remap(it.ID), destID, ids.Lookup(it.UploaderID), it.FileName, it.ContentType, it.SizeBytes, it.CreatedAt,
			); err != nil {
				return 0, err
			}
		}
		return len(snap.MediaItems), nil

	case KindMediaVariant:
		n := 0
		for i := range snap.MediaItems {
			for j := range snap.MediaItems[i].Variants {
				v := &snap.MediaItems[i].Variants[j]
				if _, err := q.ExecContext(ctx, `
					INSERT INTO media_variants (id, media_item_id, variant, storage_path, width, height)
					VALUES ($1, $2, $3, $4, $5, $6)`,
					ids.Remap(v.ID), ids.Remap(v.MediaItemID), v.Variant, v.StoragePath, v.Width, v.Height,
				); err != nil {
					return 0, err
				}
				n++
			}
		}
		return n, nil

	case KindEvent:
		for i := range snap.Events {
			e := &snap.Events[i]
			if _, err := q.ExecContext(ctx, `
				INSERT INTO events (id, family_id, creator_id, title, description, starts_at, ends_at, created_at)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
				ids.Remap(e.ID), destID, ids.Lookup(e.CreatorID), e.Title, e.Description, e.StartsAt, e.EndsAt, e.CreatedAt,
			); err != nil {
				return 0, err
			}
		}
		return len(snap.Events), nil

	case KindRecipe:
		for i := range snap.Recipes {
			r := &snap.Recipes[i]
			if _, err := q.ExecContext(ctx, `
				INSERT INTO recipes (id, family_id, author_id, title, ingredients, instructions, created_at)
				VALUES ($1, $2, $3, $4, $5, $6, $7)`,
				ids.Remap(r.ID), destID, ids.Lookup(r.AuthorID), r.Title, r.Ingredients, r.Instructions, r.CreatedAt,
			); err != nil {
				return 0, err
			}
		}
		return len(snap.Recipes), nil

	case KindConversation:
		for i := range snap.Conversations {
			c := &snap.Conversations[i]
			if _, err := q.ExecContext(ctx, `
				INSERT INTO conversations (id, family_id, title, created_at)
				VALUES ($1, $2, $3, $4)`,
				ids.Remap(c.ID), destID, c.Title, c.CreatedAt,
			); err != nil {
				return 0, err
			}
		}
		return len(snap.Conversations), nil

	case KindMessage:
		for i := range snap.Messages {
			m := &snap.Messages[i]
			// reply_to uses Remap, not Lookup: the reply target may appear
			// later in the slice, and both occurrences must converge on the
			// same fresh identifier.
			if _, err := q.ExecContext(ctx, `
				INSERT INTO messages (id, conversation_id, sender_id, reply_to_id, body, sent_at)
				VALUES ($1, $2, $3, $4, $5, $6)`,
				ids.Remap(m.ID), ids.Remap(m.ConversationID), ids.Lookup(m.SenderID), ids.RemapPtr(m.ReplyToID), m.Body, m.SentAt,
			); err != nil {
				return 0, err
			}
		}
		return len(snap.Messages), nil

	case KindVault:
		for i := range snap.Vaults {
			v := &snap.Vaults[i]
			if _, err := q.ExecContext(ctx, `
				INSERT INTO vaults (id, family_id, owner_id, name, sealed, created_at)
				VALUES ($1, $2, $3, $4, $5, $6)`,
				ids.Remap(v.ID), destID, ids.Lookup(v.OwnerID), v.Name, v.Sealed, v.CreatedAt,
			); err != nil {
				return 0, err
			}
		}
		return len(snap.Vaults), nil

	case KindVaultItem:
		for i := range snap.VaultItems {
			it := &snap.VaultItems[i]
			if _, err := q.ExecContext(ctx, `
				INSERT INTO vault_items (id, vault_id, title, payload, created_at)
				VALUES ($1, $2, $3, $4, $5)`,
				ids.Remap(it.ID), ids.Remap(it.VaultID), it.Title, it.Payload, it.CreatedAt,
			); err != nil {
				return 0, err
			}
		}
		return len(snap.VaultItems), nil

	case KindRelationship:
		for i := range snap.Relationships {
			r := &snap.Relationships[i]
			if _, err := q.ExecContext(ctx, `
				INSERT INTO relationships (id, family_id, from_user_id, to_user_id, type, created_at)
				VALUES ($1, $2, $3, $4, $5, $6)`,
				ids.Remap(r.ID), destID, ids.Lookup(r.FromUserID), ids.Lookup(r.ToUserID), r.Type, r.CreatedAt,
			); err != nil {
				return 0, err
			}
		}
		return len(snap.Relationships), nil

	case KindAuditEvent:
		for i := range snap.AuditEvents {
			e := &snap.AuditEvents[i]
			if _, err := q.ExecContext(ctx, `
				INSERT INTO audit_events (id, family_id, actor_id, action, details, created_at)
				VALUES ($1, $2, $3, $4, $5, $6)`,
				ids.Remap(e.ID), destID, ids.LookupPtr(e.ActorID), e.Action, e.Details, e.CreatedAt,
			); err != nil {
				return 0, err
			}
		}
		return len(snap.AuditEvents), nil

	default:
		return 0, fmt.Errorf("portability: no importer for kind %q", kind)
	}
}
