package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/famhub/famhub/pkg/domain"
	"github.com/google/uuid"
)

// FamiliesRepository handles family data persistence.
type FamiliesRepository struct {
	db *sql.DB
}

// NewFamiliesRepository creates a new families repository.
func NewFamiliesRepository(db *sql.DB) *FamiliesRepository {
	return &FamiliesRepository{db: db}
}

// Create creates a new family.
func (r *FamiliesRepository) Create(ctx context.Context, family *domain.Family) error {
	return r.CreateTx(ctx, r.db, family)
}

// CreateTx creates a new family within a transaction.
func (r *FamiliesRepository) CreateTx(ctx context.Context, q Querier, family *domain.Family) error {
	query := `
		INSERT INTO families (id, name, created_at, updated_at)
		VALUES ($1, $2, $3, $4)
	`
	_, err := q.ExecContext(ctx, query,
		family.ID,
		family.Name,
		family.CreatedAt,
		family.UpdatedAt,
	)
	return err
}

// GetByID retrieves a family by ID.
func (r *FamiliesRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Family, error) {
	query := `
		SELECT id, name, created_at, updated_at
		FROM families
		WHERE id = $1
	`

	var family domain.Family
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&family.ID,
		&family.Name,
		&family.CreatedAt,
		&family.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrFamilyNotFound
		}
		return nil, err
	}

	return &family, nil
}

// Update updates a family's name.
func (r *FamiliesRepository) Update(ctx context.Context, family *domain.Family) error {
	query := `
		UPDATE families
		SET name = $1, updated_at = NOW()
		WHERE id = $2
	`
	result, err := r.db.ExecContext(ctx, query,
		family.Name,
		family.ID,
	)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrFamilyNotFound
	}

	return nil
}
