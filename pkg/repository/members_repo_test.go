package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/famhub/famhub/pkg/domain"
)

func TestMembersRepository_AddTx(t *testing.T) {
	repo := NewMembersRepository(nil)
	q := &recordingQuerier{}

	familyID := uuid.New()
	userID := uuid.New()
	joinedAt := time.Now()

	if err := repo.AddTx(context.Background(), q, familyID, userID, domain.RoleOwner, joinedAt); err != nil {
		t.Fatalf("AddTx() failed: %v", err)
	}

	if len(q.queries) != 1 {
		t.Fatalf("AddTx issued %d statements, want 1", len(q.queries))
	}
	if !strings.Contains(q.queries[0], "INSERT INTO memberships") {
		t.Errorf("AddTx must insert a membership row, got: %s", q.queries[0])
	}
	if got := q.args[0][1].(uuid.UUID); got != familyID {
		t.Errorf("AddTx inserted family %s, want %s", got, familyID)
	}
	if got := q.args[0][2].(uuid.UUID); got != userID {
		t.Errorf("AddTx inserted user %s, want %s", got, userID)
	}
	if got := q.args[0][3].(domain.Role); got != domain.RoleOwner {
		t.Errorf("AddTx inserted role %q, want %q", got, domain.RoleOwner)
	}
}

func TestMembersRepository_Instantiation(t *testing.T) {
	repo := NewMembersRepository(nil)
	if repo == nil {
		t.Fatal("NewMembersRepository should not return nil")
	}

	t.Skip("Skipping method calls - requires database connection for integration tests")
}

func TestMembersRepository_ErrorMapping(t *testing.T) {
	// GetByUserAndFamily maps sql.ErrNoRows to domain.ErrMemberNotFound so
	// handlers can turn a missing membership into a 403
	if errors.Is(sql.ErrNoRows, domain.ErrMemberNotFound) {
		t.Error("sql.ErrNoRows must not satisfy ErrMemberNotFound directly")
	}
	if !errors.Is(domain.ErrMemberNotFound, domain.ErrMemberNotFound) {
		t.Error("Expected ErrMemberNotFound")
	}
}

func TestMember_IsOwner(t *testing.T) {
	tests := []struct {
		name string
		role domain.Role
		want bool
	}{
		{"owner", domain.RoleOwner, true},
		{"member", domain.RoleMember, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &domain.Member{ID: uuid.New(), Role: tt.role}
			if got := m.IsOwner(); got != tt.want {
				t.Errorf("IsOwner() = %v, want %v", got, tt.want)
			}
		})
	}
}
