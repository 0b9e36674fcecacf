// Package portability exposes the export, import, erase, verify, and
// summary operations over HTTP.
package portability

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/famhub/famhub/internal/http/middleware"
	"github.com/famhub/famhub/internal/httputil"
	"github.com/famhub/famhub/internal/notification"
	"github.com/famhub/famhub/pkg/domain"
	"github.com/famhub/famhub/pkg/portability"
	"github.com/famhub/famhub/pkg/repository"
)

// Handler handles portability endpoints. The engine's read-only operations
// never write, so the audit trail for export and verify is recorded here,
// alongside the notification emails.
type Handler struct {
	logger       *slog.Logger
	service      *portability.Service
	users        *repository.UsersRepository
	members      *repository.MembersRepository
	audit        *repository.AuditRepository
	emailService *notification.EmailService
}

// NewHandler creates a new portability handler. audit and emailService may
// be nil to disable the audit trail and notifications respectively.
func NewHandler(
	logger *slog.Logger,
	service *portability.Service,
	users *repository.UsersRepository,
	members *repository.MembersRepository,
	audit *repository.AuditRepository,
	emailService *notification.EmailService,
) *Handler {
	return &Handler{
		logger:       logger,
		service:      service,
		users:        users,
		members:      members,
		audit:        audit,
		emailService: emailService,
	}
}

// Export produces a full snapshot of the family's data.
// POST /v1/families/{familyID}/export
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	familyID, ok := parseFamilyID(w, r)
	if !ok {
		return
	}
	if _, ok := h.requireMember(w, r, familyID); !ok {
		return
	}

	snap, err := h.service.Export(r.Context(), familyID)
	if err != nil {
		if errors.Is(err, domain.ErrFamilyNotFound) {
			httputil.Error(w, http.StatusNotFound, "family not found")
			return
		}
		h.logger.Error("export failed", "family_id", familyID, "error", err)
		httputil.Error(w, http.StatusInternalServerError, "export failed")
		return
	}

	h.recordAudit(r, familyID, domain.AuditActionExport,
		fmt.Sprintf("exported snapshot version %s", portability.SnapshotVersion))
	h.notifyActor(r, snap.Family.Name, func(s *notification.EmailService, to, familyName string) error {
		return s.SendExportReadyEmail(to, familyName)
	})

	httputil.JSON(w, http.StatusOK, snap)
}

// Import restores a snapshot under fresh identifiers.
// POST /v1/import?family_id={optional merge target}
func (h *Handler) Import(w http.ResponseWriter, r *http.Request) {
	actorID, ok := middleware.GetUserID(r.Context())
	if !ok {
		httputil.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var snap portability.Snapshot
	if err := json.NewDecoder(r.Body).Decode(&snap); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	opts := portability.ImportOptions{ActorID: &actorID}
	if raw := r.URL.Query().Get("family_id"); raw != "" {
		targetID, err := uuid.Parse(raw)
		if err != nil {
			httputil.Error(w, http.StatusBadRequest, "invalid family_id")
			return
		}
		// Merging into an existing family requires membership in it.
		if _, ok := h.requireMember(w, r, targetID); !ok {
			return
		}
		opts.TargetFamilyID = &targetID
	}

	summary, err := h.service.Import(r.Context(), &snap, opts)
	if err != nil {
		if errors.Is(err, domain.ErrUnsupportedSnapshotVersion) || errors.Is(err, domain.ErrEmptySnapshot) {
			httputil.Error(w, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.Error("import failed", "error", err)
		httputil.Error(w, http.StatusInternalServerError, "import failed")
		return
	}

	httputil.JSON(w, http.StatusCreated, summary)
}

// Erase permanently deletes all of the family's data. Only the family owner
// may erase.
// DELETE /v1/families/{familyID}
func (h *Handler) Erase(w http.ResponseWriter, r *http.Request) {
	familyID, ok := parseFamilyID(w, r)
	if !ok {
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

	summary, err := h.service.Erase(r.Context(), familyID)
	if err != nil {
		h.logger.Error("erase failed", "family_id", familyID, "error", err)
		httputil.Error(w, http.StatusInternalServerError, "erase failed")
		return
	}

	h.notifyActor(r, familyID.String(), func(s *notification.EmailService, to, familyName string) error {
		return s.SendErasureCompletedEmail(to, familyName)
	})

	httputil.JSON(w, http.StatusOK, summary)
}

// Verify checks referential integrity of the family's data graph.
// GET /v1/families/{familyID}/integrity
func (h *Handler) Verify(w http.ResponseWriter, r *http.Request) {
	familyID, ok := parseFamilyID(w, r)
	if !ok {
		return
	}
	if _, ok := h.requireMember(w, r, familyID); !ok {
		return
	}

	report, err := h.service.Verify(r.Context(), familyID)
	if err != nil {
		h.logger.Error("integrity check failed", "family_id", familyID, "error", err)
		httputil.Error(w, http.StatusInternalServerError, "integrity check failed")
		return
	}

	h.recordAudit(r, familyID, domain.AuditActionVerify,
		fmt.Sprintf("integrity verified, %d issue(s)", len(report.Issues)))

	httputil.JSON(w, http.StatusOK, report)
}

// Summary returns per-entity-type counts for the family.
// GET /v1/families/{familyID}/summary
func (h *Handler) Summary(w http.ResponseWriter, r *http.Request) {
	familyID, ok := parseFamilyID(w, r)
	if !ok {
		return
	}
	if _, ok := h.requireMember(w, r, familyID); !ok {
		return
	}

	summary, err := h.service.Summarize(r.Context(), familyID)
	if err != nil {
		h.logger.Error("summarize failed", "family_id", familyID, "error", err)
		httputil.Error(w, http.StatusInternalServerError, "summarize failed")
		return
	}

	httputil.JSON(w, http.StatusOK, summary)
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

// recordAudit best-effort writes an audit event attributed to the
// authenticated user. Failures are logged and never affect the response.
func (h *Handler) recordAudit(r *http.Request, familyID uuid.UUID, action, details string) {
	if h.audit == nil {
		return
	}
	var actorID *uuid.UUID
	if id, ok := middleware.GetUserID(r.Context()); ok {
		actorID = &id
	}
	if err := h.audit.Record(r.Context(), familyID, actorID, action, &details); err != nil {
		h.logger.Warn("failed to record audit event",
			"action", action,
			"family_id", familyID,
			"error", err,
		)
	}
}

// notifyActor sends a best-effort notification email to the authenticated
// user. Failures are logged and never affect the response.
func (h *Handler) notifyActor(r *http.Request, familyName string, send func(*notification.EmailService, string, string) error) {
	if h.emailService == nil || h.users == nil {
		return
	}
	actorID, ok := middleware.GetUserID(r.Context())
	if !ok {
		return
	}
	actor, err := h.users.GetByID(r.Context(), actorID)
	if err != nil {
		return
	}
	if err := send(h.emailService, actor.Email, familyName); err != nil {
		h.logger.Warn("notification email failed", "user_id", actorID, "error", err)
	}
}

func parseFamilyID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	familyID, err := uuid.Parse(chi.URLParam(r, "familyID"))
	if err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid family id")
		return uuid.Nil, false
	}
	return familyID, true
}
