package portability

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
)

// Summarize returns per-entity-type counts for a family. Each field is an
// independent query on the shared pool; messages are counted through the
// family's conversations since they carry no family column. Missing
// aggregates normalize to zero, never null.
func (s *Service) Summarize(ctx context.Context, familyID uuid.UUID) (*DataSummary, error) {
	sum := &DataSummary{}
	counts := []struct {
		dst   *int
		query string
	}{
		{&sum.Members, `SELECT COUNT(*) FROM memberships WHERE family_id = $1`},
		{&sum.Posts, `SELECT COUNT(*) FROM posts WHERE family_id = $1`},
		{&sum.Media, `SELECT COUNT(*) FROM media_items WHERE family_id = $1`},
		{&sum.Events, `SELECT COUNT(*) FROM events WHERE family_id = $1`},
		{&sum.Recipes, `SELECT COUNT(*) FROM recipes WHERE family_id = $1`},
		{&sum.Conversations, `SELECT COUNT(*) FROM conversations WHERE family_id = $1`},
		{&sum.Messages, `SELECT COUNT(*) FROM messages WHERE conversation_id IN (SELECT id FROM conversations WHERE family_id = $1)`},
		{&sum.Vaults, `SELECT COUNT(*) FROM vaults WHERE family_id = $1`},
	}

	for _, c := range counts {
		var n sql.NullInt64
		if err := s.db.QueryRowContext(ctx, c.query, familyID).Scan(&n); err != nil {
			return nil, err
		}
		*c.dst = int(n.Int64)
	}
	return sum, nil
}
