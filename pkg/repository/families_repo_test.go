package repository

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/famhub/famhub/pkg/domain"
)

func TestFamiliesRepository_CreateTx(t *testing.T) {
	repo := NewFamiliesRepository(nil)
	q := &recordingQuerier{}

	now := time.Now()
	family := &domain.Family{
		ID:        uuid.New(),
		Name:      "The Tests",
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := repo.CreateTx(context.Background(), q, family); err != nil {
		t.Fatalf("CreateTx() failed: %v", err)
	}

	if len(q.queries) != 1 {
		t.Fatalf("CreateTx issued %d statements, want 1", len(q.queries))
	}
	if !strings.Contains(q.queries[0], "INSERT INTO families") {
		t.Errorf("CreateTx must insert a family row, got: %s", q.queries[0])
	}
	if got := q.args[0][0].(uuid.UUID); got != family.ID {
		t.Errorf("CreateTx inserted id %s, want %s", got, family.ID)
	}
	if got := q.args[0][1].(string); got != family.Name {
		t.Errorf("CreateTx inserted name %q, want %q", got, family.Name)
	}
}

func TestFamiliesRepository_Instantiation(t *testing.T) {
	repo := NewFamiliesRepository(nil)
	if repo == nil {
		t.Fatal("NewFamiliesRepository should not return nil")
	}

	// Update reports domain.ErrFamilyNotFound when no row matched; exercised
	// in integration tests with a real database
	t.Skip("Skipping method calls - requires database connection for integration tests")
}
