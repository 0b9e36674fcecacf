package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/famhub/famhub/pkg/domain"
	"github.com/google/uuid"
)

// MembersRepository handles family membership persistence.
type MembersRepository struct {
	db *sql.DB
}

// NewMembersRepository creates a new members repository.
func NewMembersRepository(db *sql.DB) *MembersRepository {
	return &MembersRepository{db: db}
}

// Add adds a user to a family.
func (r *MembersRepository) Add(ctx context.Context, familyID, userID uuid.UUID, role domain.Role) error {
	return r.AddTx(ctx, r.db, familyID, userID, role, time.Now())
}

// AddTx adds a user to a family within a transaction.
func (r *MembersRepository) AddTx(ctx context.Context, q Querier, familyID, userID uuid.UUID, role domain.Role, joinedAt time.Time) error {
	query := `
		INSERT INTO memberships (id, family_id, user_id, role, joined_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := q.ExecContext(ctx, query,
		uuid.New(),
		familyID,
		userID,
		role,
		joinedAt,
	)
	return err
}

// GetByUserAndFamily retrieves a user's membership in a family.
func (r *MembersRepository) GetByUserAndFamily(ctx context.Context, userID, familyID uuid.UUID) (*domain.Member, error) {
	query := `
		SELECT m.user_id, m.family_id, u.email, u.name, m.role, m.joined_at
		FROM memberships m
		JOIN users u ON u.id = m.user_id
		WHERE m.user_id = $1 AND m.family_id = $2
	`

	var member domain.Member
	err := r.db.QueryRowContext(ctx, query, userID, familyID).Scan(
		&member.ID,
		&member.FamilyID,
		&member.Email,
		&member.Name,
		&member.Role,
		&member.JoinedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrMemberNotFound
		}
		return nil, err
	}

	return &member, nil
}

// ListByFamily retrieves all members of a family joined with profile data.
func (r *MembersRepository) ListByFamily(ctx context.Context, familyID uuid.UUID) ([]*domain.Member, error) {
	query := `
		SELECT m.user_id, m.family_id, u.email, u.name, m.role, m.joined_at
		FROM memberships m
		JOIN users u ON u.id = m.user_id
		WHERE m.family_id = $1
		ORDER BY m.joined_at ASC
	`
	rows, err := r.db.QueryContext(ctx, query, familyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var members []*domain.Member
	for rows.Next() {
		member := &domain.Member{}
		err := rows.Scan(
			&member.ID,
			&member.FamilyID,
			&member.Email,
			&member.Name,
			&member.Role,
			&member.JoinedAt,
		)
		if err != nil {
			return nil, err
		}
		members = append(members, member)
	}
	return members, rows.Err()
}
