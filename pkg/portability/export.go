package portability

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/famhub/famhub/pkg/domain"
	"github.com/google/uuid"
)

// Export reads a family's entire data graph into a versioned snapshot.
// It fails with domain.ErrFamilyNotFound if the family row is absent; no
// partial snapshot is ever returned. Reads run on the shared pool without a
// transaction, so a concurrent writer may yield a logically inconsistent
// view; safe to call repeatedly, each call carries a fresh exported_at.
func (s *Service) Export(ctx context.Context, familyID uuid.UUID) (*Snapshot, error) {
	family, err := s.fetchFamily(ctx, familyID)
	if err != nil {
		return nil, err
	}

	snap := &Snapshot{
		Version:    SnapshotVersion,
		ExportedAt: time.Now().UTC(),
		Family:     *family,
	}

	if snap.Members, err = s.exportMembers(ctx, familyID); err != nil {
		return nil, err
	}
	if snap.Posts, err = s.exportPosts(ctx, familyID); err != nil {
		return nil, err
	}
	if snap.MediaItems, err = s.exportMediaItems(ctx, familyID); err != nil {
		return nil, err
	}
	if snap.Events, err = s.exportEvents(ctx, familyID); err != nil {
		return nil, err
	}
	if snap.Recipes, err = s.exportRecipes(ctx, familyID); err != nil {
		return nil, err
	}
	if snap.Conversations, err = s.exportConversations(ctx, familyID); err != nil {
		return nil, err
	}
	if len(snap.Conversations) > 0 {
		if snap.Messages, err = s.exportMessages(ctx, familyID); err != nil {
			return nil, err
		}
	}
	if snap.Vaults, err = s.exportVaults(ctx, familyID); err != nil {
		return nil, err
	}
	if len(snap.Vaults) > 0 {
		if snap.VaultItems, err = s.exportVaultItems(ctx, familyID); err != nil {
			return nil, err
		}
	}
	if snap.Relationships, err = s.exportRelationships(ctx, familyID); err != nil {
		return nil, err
	}
	if snap.AuditEvents, err = s.exportAuditEvents(ctx, familyID); err != nil {
		return nil, err
	}

	s.logger.Info("family exported",
		"family_id", familyID,
		"members", len(snap.Members),
		"posts", len(snap.Posts),
		"messages", len(snap.Messages),
	)

	return snap, nil
}

func (s *Service) fetchFamily(ctx context.Context, familyID uuid.UUID) (*domain.Family, error) {
	query := `
		SELECT id, name, created_at, updated_at
		FROM families
		WHERE id = $1
	`
	var family domain.Family
	err := s.db.QueryRowContext(ctx, query, familyID).Scan(
		&family.ID, &family.Name, &family.CreatedAt, &family.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrFamilyNotFound
	}
	if err != nil {
		return nil, err
	}
	return &family, nil
}

func (s *Service) exportMembers(ctx context.Context, familyID uuid.UUID) ([]domain.Member, error) {
	query := `
		SELECT m.user_id, m.family_id, u.email, u.name, m.role, m.joined_at
		FROM memberships m
		JOIN users u ON u.id = m.user_id
		WHERE m.family_id = $1
		ORDER BY m.joined_at ASC
	`
	rows, err := s.db.QueryContext(ctx, query, familyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var members []domain.Member
	for rows.Next() {
		var m domain.Member
		if err := rows.Scan(&m.ID, &m.FamilyID, &m.Email, &m.Name, &m.Role, &m.JoinedAt); err != nil {
			return nil, err
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

func (s *Service) exportPosts(ctx context.Context, familyID uuid.UUID) ([]domain.Post, error) {
	query := `
		SELECT id, family_id, author_id, content, created_at
		FROM posts
		WHERE family_id = $1
		ORDER BY created_at ASC
	`
	rows, err := s.db.QueryContext(ctx, query, familyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var posts []domain.Post
	for rows.Next() {
		var p domain.Post
		if err := rows.Scan(&p.ID, &p.FamilyID, &p.AuthorID, &p.Content, &p.CreatedAt); err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

// exportMediaItems aggregates each media item with its variants.
func (s *Service) exportMediaItems(ctx context.Context, familyID uuid.UUID) ([]domain.MediaItem, error) {
	query := `
		SELECT id, family_id, uploader_id, file_name, content_type, size_bytes, created_at
		FROM media_items
		WHERE family_id = $1
		ORDER BY created_at ASC
	`
	rows, err := s.db.QueryContext(ctx, query, familyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.MediaItem
	byID := make(map[uuid.UUID]int)
	for rows.Next() {
		var it domain.MediaItem
		if err := rows.Scan(&it.ID, &it.FamilyID, &it.UploaderID, &it.FileName, &it.ContentType, &it.SizeBytes, &it.CreatedAt); err != nil {
			return nil, err
		}
		byID[it.ID] = len(items)
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return items, nil
	}

	variantQuery := `
		SELECT id, media_item_id, variant, storage_path, width, height
		FROM media_variants
		WHERE media_item_id IN (SELECT id FROM media_items WHERE family_id = $1)
		ORDER BY variant ASC
	`
	vrows, err := s.db.QueryContext(ctx, variantQuery, familyID)
	if err != nil {
		return nil, err
	}
	defer vrows.Close()

	for vrows.Next() {
		var v domain.MediaVariant
		if err := vrows.Scan(&v.ID, &v.MediaItemID, &v.Variant, &v.StoragePath, &v.Width, &v.Height); err != nil {
			return nil, err
		}
		if i, ok := byID[v.MediaItemID]; ok {
			items[i].Variants = append(items[i].Variants, v)
		}
	}
	return items, vrows.Err()
}

func (s *Service) exportEvents(ctx context.Context, familyID uuid.UUID) ([]domain.Event, error) {
	query := `
		SELECT id, family_id, creator_id, title, description, starts_at, ends_at, created_at
		FROM events
		WHERE family_id = $1
		ORDER BY starts_at ASC
	`
	rows, err := s.db.QueryContext(ctx, query, familyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []domain.Event
	for rows.Next() {
		var e domain.Event
		if err := rows.Scan(&e.ID, &e.FamilyID, &e.CreatorID, &e.Title, &e.Description, &e.StartsAt, &e.EndsAt, &e.CreatedAt); err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

func (s *Service) exportRecipes(ctx context.Context, familyID uuid.UUID) ([]domain.Recipe, error) {
	query := `
		SELECT id, family_id, author_id, title, ingredients, instructions, created_at
		FROM recipes
		WHERE family_id = $1
		ORDER BY created_at ASC
	`
	rows, err := s.db.QueryContext(ctx, query, familyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var recipes []domain.Recipe
	for rows.Next() {
		var r domain.Recipe
		if err := rows.Scan(&r.ID, &r.FamilyID, &r.AuthorID, &r.Title, &r.Ingredients, &r.Instructions, &r.CreatedAt); err != nil {
			return nil, err
		}
		recipes = append(recipes, r)
	}
	return recipes, rows.Err()
}

func (s *Service) exportConversations(ctx context.Context, familyID uuid.UUID) ([]domain.Conversation, error) {
	query := `
		SELECT id, family_id, title, created_at
		FROM conversations
		WHERE family_id = $1
		ORDER BY created_at ASC
	`
	rows, err := s.db.QueryContext(ctx, query, familyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var conversations []domain.Conversation
	for rows.Next() {
		var c domain.Conversation
		if err := rows.Scan(&c.ID, &c.FamilyID, &c.Title, &c.CreatedAt); err != nil {
			return nil, err
		}
		conversations = append(conversations, c)
	}
	return conversations, rows.Err()
}

func (s *Service) exportMessages(ctx context.Context, familyID uuid.UUID) ([]domain.Message, error) {
	query := `
		SELECT id, conversation_id, sender_id, reply_to_id, body, sent_at
		FROM messages
		WHERE conversation_id IN (SELECT id FROM conversations WHERE family_id = $1)
		ORDER BY sent_at ASC
	`
	rows, err := s.db.QueryContext(ctx, query, familyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []domain.Message
	for rows.Next() {
		var m domain.Message
		if err := rows.Scan(&m.ID, &m.ConversationID, &m.SenderID, &m.ReplyToID, &m.Body, &m.SentAt); err != nil {
			return nil, err
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}

func (s *Service) exportVaults(ctx context.Context, familyID uuid.UUID) ([]domain.Vault, error) {
	query := `
		SELECT id, family_id, owner_id, name, sealed, created_at
		FROM vaults
		WHERE family_id = $1
		ORDER BY created_at ASC
	`
	rows, err := s.db.QueryContext(ctx, query, familyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var vaults []domain.Vault
	for rows.Next() {
		var v domain.Vault
		if err := rows.Scan(&v.ID, &v.FamilyID, &v.OwnerID, &v.Name, &v.Sealed, &v.CreatedAt); err != nil {
			return nil, err
		}
		vaults = append(vaults, v)
	}
	return vaults, rows.Err()
}

func (s *Service) exportVaultItems(ctx context.Context, familyID uuid.UUID) ([]domain.VaultItem, error) {
	query := `
		SELECT id, vault_id, title, payload, created_at
		FROM vault_items
		WHERE vault_id IN (SELECT id FROM vaults WHERE family_id = $1)
		ORDER BY created_at ASC
	`
	rows, err := s.db.QueryContext(ctx, query, familyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.VaultItem
	for rows.Next() {
		var it domain.VaultItem
		if err := rows.Scan(&it.ID, &it.VaultID, &it.Title, &it.Payload, &it.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func (s *Service) exportRelationships(ctx context.Context, familyID uuid.UUID) ([]domain.Relationship, error) {
	query := `
		SELECT id, family_id, from_user_id, to_user_id, type, created_at
		FROM relationships
		WHERE family_id = $1
		ORDER BY created_at ASC
	`
	rows, err := s.db.QueryContext(ctx, query, familyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rels []domain.Relationship
	for rows.Next() {
		var r domain.Relationship
		if err := rows.Scan(&r.ID, &r.FamilyID, &r.FromUserID, &r.ToUserID, &r.Type, &r.CreatedAt); err != nil {
			return nil, err
		}
		rels = append(rels, r)
	}
	return rels, rows.Err()
}

func (s *Service) exportAuditEvents(ctx context.Context, familyID uuid.UUID) ([]domain.AuditEvent, error) {
	query := `
		SELECT id, family_id, actor_id, action, details, created_at
		FROM audit_events
		WHERE family_id = $1
		ORDER BY created_at ASC
	`
	rows, err := s.db.QueryContext(ctx, query, familyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []domain.AuditEvent
	for rows.Next() {
		var e domain.AuditEvent
		if err := rows.Scan(&e.ID, &e.FamilyID, &e.ActorID, &e.Action, &e.Details, &e.CreatedAt); err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}
