// Package families exposes family and membership management endpoints.
package families

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/famhub/famhub/internal/http/middleware"
	"github.com/famhub/famhub/internal/httputil"
	"github.com/famhub/famhub/pkg/domain"
	"github.com/famhub/famhub/pkg/repository"
)

// Handler handles family endpoints.
type Handler struct {
	logger   *slog.Logger
	families *repository.FamiliesRepository
	members  *repository.MembersRepository
	users    *repository.UsersRepository
}

// NewHandler creates a new families handler.
func NewHandler(
	logger *slog.Logger,
	families *repository.FamiliesRepository,
	members *repository.MembersRepository,
	users *repository.UsersRepository,
) *Handler {
	return &Handler{
		logger:   logger,
		families: families,
		members:  members,
		users:    users,
	}
}

// CreateRequest represents a family creation request.
type CreateRequest struct {
	Name string `json:"name"`
}

// RenameRequest represents a family rename request.
type RenameRequest struct {
	Name string `json:"name"`
}

// FamilyResponse represents a family in responses.
type FamilyResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// Create creates a family and enrolls the caller as its owner. Callers seen
// for the first time are provisioned a local user row from their token's
// email claim.
// POST /v1/families
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		httputil.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		httputil.Error(w, http.StatusBadRequest, "name is required")
		return
	}

	if !h.provisionUser(w, r, userID) {
		return
	}

	now := time.Now()
	family := &domain.Family{
		ID:        uuid.New(),
		Name:      req.Name,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := h.families.Create(r.Context(), family); err != nil {
		h.logger.Error("create family failed", "error", err)
		httputil.Error(w, http.StatusInternalServerError, "create family failed")
		return
	}

	if err := h.members.Add(r.Context(), family.ID, userID, domain.RoleOwner); err != nil {
		h.logger.Error("enroll owner failed", "family_id", family.ID, "user_id", userID, "error", err)
		httputil.Error(w, http.StatusInternalServerError, "create family failed")
		return
	}

	httputil.JSON(w, http.StatusCreated, FamilyResponse{
		ID:        family.ID.String(),
		Name:      family.Name,
		CreatedAt: family.CreatedAt,
	})
}

// Get returns a family. Only members may view it.
// GET /v1/families/{familyID}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	familyID, ok := parseFamilyID(w, r)
	if !ok {
		return
	}
	if _, ok := h.requireMember(w, r, familyID); !ok {
		return
	}

	family, err := h.families.GetByID(r.Context(), familyID)
	if err != nil {
		if errors.Is(err, domain.ErrFamilyNotFound) {
			httputil.Error(w, http.StatusNotFound, "family not found")
			return
		}
		h.logger.Error("get family failed", "family_id", familyID, "error", err)
		httputil.Error(w, http.StatusInternalServerError, "get family failed")
		return
	}

	httputil.JSON(w, http.StatusOK, FamilyResponse{
		ID:        family.ID.String(),
		Name:      family.Name,
		CreatedAt: family.CreatedAt,
	})
}

// Rename changes a family's name. Only the family owner may rename.
// PATCH /v1/families/{familyID}
func (h *Handler) Rename(w http.ResponseWriter, r *http.Request) {
	familyID, ok := parseFamilyID(w, r)
	if !ok {
		return
	}

	var req RenameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		httputil.Error(w, http.StatusBadRequest, "name is required")
		return
	}

	member, ok := h.requireMember(w, r, familyID)
	if !ok {
		return
	}
	if !member.IsOwner() {
		httputil.Error(w, http.StatusForbidden, "owner role required")
		return
	}

	family := &domain.Family{ID: familyID, Name: req.Name}
	if err := h.families.Update(r.Context(), family); err != nil {
		if errors.Is(err, domain.ErrFamilyNotFound) {
			httputil.Error(w, http.StatusNotFound, "family not found")
			return
		}
		h.logger.Error("rename family failed", "family_id", familyID, "error", err)
		httputil.Error(w, http.StatusInternalServerError, "rename family failed")
		return
	}

	httputil.JSON(w, http.StatusOK, FamilyResponse{
		ID:   familyID.String(),
		Name: req.Name,
	})
}

// MemberResponse represents a member in responses.
type MemberResponse struct {
	ID       string    `json:"id"`
	Email    string    `json:"email"`
	Name     *string   `json:"name,omitempty"`
	Role     string    `json:"role"`
	JoinedAt time.Time `json:"joined_at"`
}

// ListMembers returns the family's members. Only members may list them.
// GET /v1/families/{familyID}/members
func (h *Handler) ListMembers(w http.ResponseWriter, r *http.Request) {
	familyID, ok := parseFamilyID(w, r)
	if !ok {
		return
	}
	if _, ok := h.requireMember(w, r, familyID); !ok {
		return
	}

	members, err := h.members.ListByFamily(r.Context(), familyID)
	if err != nil {
		h.logger.Error("list members failed", "family_id", familyID, "error", err)
		httputil.Error(w, http.StatusInternalServerError, "list members failed")
		return
	}

	resp := make([]MemberResponse, 0, len(members))
	for _, m := range members {
		resp = append(resp, MemberResponse{
			ID:       m.ID.String(),
			Email:    m.Email,
			Name:     m.Name,
			Role:     string(m.Role),
			JoinedAt: m.JoinedAt,
		})
	}

	httputil.JSON(w, http.StatusOK, resp)
}

// provisionUser makes sure the caller has a local user row, creating one
// from the token's email claim on first contact. Writes the error response
// itself and reports whether the caller may proceed.
func (h *Handler) provisionUser(w http.ResponseWriter, r *http.Request, userID uuid.UUID) bool {
	_, err := h.users.GetByID(r.Context(), userID)
	if err == nil {
		return true
	}
	if !errors.Is(err, domain.ErrUserNotFound) {
		h.logger.Error("user lookup failed", "user_id", userID, "error", err)
		httputil.Error(w, http.StatusInternalServerError, "user lookup failed")
		return false
	}

	claims, ok := middleware.GetClaims(r.Context())
	if !ok || claims.Email == "" {
		httputil.Error(w, http.StatusBadRequest, "email claim required for first use")
		return false
	}

	// The email may already belong to a row provisioned under a different
	// subject; refuse rather than create a duplicate identity.
	if _, err := h.users.GetByEmail(r.Context(), claims.Email); err == nil {
		httputil.Error(w, http.StatusConflict, "email already registered")
		return false
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		h.logger.Error("user lookup failed", "email", claims.Email, "error", err)
		httputil.Error(w, http.StatusInternalServerError, "user lookup failed")
		return false
	}

	now := time.Now()
	user := &domain.User{
		ID:        userID,
		Email:     claims.Email,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := h.users.Create(r.Context(), user); err != nil {
		h.logger.Error("provision user failed", "user_id", userID, "error", err)
		httputil.Error(w, http.StatusInternalServerError, "provision user failed")
		return false
	}

	h.logger.Info("user provisioned", "user_id", userID)
	return true
}

// requireMember loads the caller's membership in the family, writing the
// error response itself when the caller is unauthenticated or not a member.
func (h *Handler) requireMember(w http.ResponseWriter, r *http.Request, familyID uuid.UUID) (*domain.Member, bool) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		httputil.Error(w, http.StatusUnauthorized, "unauthorized")
		return nil, false
	}

	member, err := h.members.GetByUserAndFamily(r.Context(), userID, familyID)
	if err != nil {
		if errors.Is(err, domain.ErrMemberNotFound) {
			httputil.Error(w, http.StatusForbidden, "not a family member")
			return nil, false
		}
		h.logger.Error("membership lookup failed", "family_id", familyID, "user_id", userID, "error", err)
		httputil.Error(w, http.StatusInternalServerError, "membership lookup failed")
		return nil, false
	}
	return member, true
}

func parseFamilyID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	familyID, err := uuid.Parse(chi.URLParam(r, "familyID"))
	if err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid family id")
		return uuid.Nil, false
	}
	return familyID, true
}
