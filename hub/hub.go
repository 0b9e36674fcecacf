// Package hub provides the family data-portability engine as an
// embeddable library.
//
// Setup:
//
//  1. Run migrations (see internal/database/migrations, or call with
//     MigrateOnStart through the server binary)
//  2. Create a Hub instance and mount its router
//
// Basic usage:
//
//	db, _ := sql.Open("postgres", "postgres://localhost/myapp?sslmode=disable")
//
//	h, err := hub.New(hub.Config{
//	    DB:        db,
//	    JWTSecret: "your-secret-key-at-least-32-chars",
//	})
//	if err != nil {
//	    log.Fatal(err) // Will fail if migrations haven't been run
//	}
//
//	r := chi.NewRouter()
//	r.Mount("/", h.Router())
//	http.ListenAndServe(":8080", r)
package hub

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/famhub/famhub/internal/http/features/families"
	portabilityfeature "github.com/famhub/famhub/internal/http/features/portability"
	"github.com/famhub/famhub/internal/http/middleware"
	"github.com/famhub/famhub/internal/httputil"
	"github.com/famhub/famhub/pkg/auth"
	"github.com/famhub/famhub/pkg/portability"
	"github.com/famhub/famhub/pkg/repository"
)

// Config holds the configuration for the hub library.
type Config struct {
	// DB is the database connection (required).
	DB *sql.DB

	// JWTSecret is the secret key for validating JWT tokens (required, min 32 chars).
	JWTSecret string

	// JWTIssuer is the expected issuer claim in JWT tokens (default: no issuer check).
	JWTIssuer string

	// Logger is the structured logger (default: JSON to stdout).
	Logger *slog.Logger
}

// Hub is the main portability engine instance.
type Hub struct {
	config        Config
	db            *sql.DB
	familiesRepo  *repository.FamiliesRepository
	membersRepo   *repository.MembersRepository
	usersRepo     *repository.UsersRepository
	auditRepo     *repository.AuditRepository
	tokenVerifier *auth.TokenVerifier
	service       *portability.Service
}

// New creates a new Hub instance with the given configuration.
// Returns an error if required database tables don't exist.
// Run migrations first.
func New(cfg Config) (*Hub, error) {
	if err := validateConfig(&cfg); err != nil {
		return nil, err
	}

	applyDefaults(&cfg)

	// Validate schema exists
	if err := validateSchema(cfg.DB); err != nil {
		return nil, err
	}

	familiesRepo := repository.NewFamiliesRepository(cfg.DB)
	membersRepo := repository.NewMembersRepository(cfg.DB)
	usersRepo := repository.NewUsersRepository(cfg.DB)
	auditRepo := repository.NewAuditRepository(cfg.DB)

	return &Hub{
		config:        cfg,
		db:            cfg.DB,
		familiesRepo:  familiesRepo,
		membersRepo:   membersRepo,
		usersRepo:     usersRepo,
		auditRepo:     auditRepo,
		tokenVerifier: auth.NewTokenVerifier([]byte(cfg.JWTSecret), cfg.JWTIssuer),
		service:       portability.NewService(cfg.DB, auditRepo, cfg.Logger),
	}, nil
}

// Router returns a chi router with all hub routes, protected by token auth.
// Mount this on your main router:
//
//	r := chi.NewRouter()
//	r.Mount("/", h.Router())
//
// Routes:
//
//	POST   /v1/families                        - Create a family
//	GET    /v1/families/{familyID}             - Get a family
//	PATCH  /v1/families/{familyID}             - Rename a family
//	GET    /v1/families/{familyID}/members     - List members
//	POST   /v1/families/{familyID}/export      - Export full snapshot
//	POST   /v1/import                          - Import a snapshot
//	DELETE /v1/families/{familyID}             - Permanently erase
//	GET    /v1/families/{familyID}/integrity   - Verify integrity
//	GET    /v1/families/{familyID}/summary     - Per-entity counts
func (h *Hub) Router() chi.Router {
	r := chi.NewRouter()

	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Logger)
	r.Use(middleware.Auth(h.tokenVerifier))

	familiesHandler := families.NewHandler(h.config.Logger, h.familiesRepo, h.membersRepo, h.usersRepo)
	r.Post("/v1/families", familiesHandler.Create)
	r.Get("/v1/families/{familyID}", familiesHandler.Get)
	r.Patch("/v1/families/{familyID}", familiesHandler.Rename)
	r.Get("/v1/families/{familyID}/members", familiesHandler.ListMembers)

	portabilityHandler := portabilityfeature.NewHandler(h.config.Logger, h.service, h.usersRepo, h.membersRepo, h.auditRepo, nil)
	r.Post("/v1/families/{familyID}/export", portabilityHandler.Export)
	r.Post("/v1/import", portabilityHandler.Import)
	r.Delete("/v1/families/{familyID}", portabilityHandler.Erase)
	r.Get("/v1/families/{familyID}/integrity", portabilityHandler.Verify)
	r.Get("/v1/families/{familyID}/summary", portabilityHandler.Summary)

	return r
}

// Service returns the portability service for direct use without HTTP:
//
//	snap, err := h.Service().Export(ctx, familyID)
func (h *Hub) Service() *portability.Service {
	return h.service
}

// AuthMiddleware returns middleware that validates JWT tokens.
// Use this to protect your own routes:
//
//	r.Group(func(r chi.Router) {
//	    r.Use(h.AuthMiddleware())
//	    r.Get("/protected", handler)
//	})
func (h *Hub) AuthMiddleware() func(http.Handler) http.Handler {
	return middleware.Auth(h.tokenVerifier)
}

// GetUserIDFromContext extracts the authenticated user ID from a context.
// Use after AuthMiddleware.
func GetUserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	return middleware.GetUserID(ctx)
}

// HealthHandler returns a simple health check handler.
func (h *Hub) HealthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		httputil.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

// Handler returns an http.Handler for mounting with http.StripPrefix.
// This is useful when using standard library ServeMux:
//
//	mux := http.NewServeMux()
//	mux.Handle("/hub/", http.StripPrefix("/hub", h.Handler()))
func (h *Hub) Handler() http.Handler {
	return h.Router()
}

func validateConfig(cfg *Config) error {
	if cfg.DB == nil {
		return errors.New("hub: DB is required")
	}
	if cfg.JWTSecret == "" {
		return errors.New("hub: JWTSecret is required")
	}
	if len(cfg.JWTSecret) < 32 {
		return errors.New("hub: JWTSecret must be at least 32 characters")
	}
	return nil
}

func applyDefaults(cfg *Config) {
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.NewJSONHandler(os.Stdout, nil))
	}
}

// validateSchema checks that required database tables exist.
func validateSchema(db *sql.DB) error {
	requiredTables := []string{"users", "families", "memberships", "audit_events"}

	query := `
		SELECT table_name
		FROM information_schema.tables
		WHERE table_schema = 'public' AND table_name = $1
	`

	for _, table := range requiredTables {
		var name string
		err := db.QueryRow(query, table).Scan(&name)
		if err == sql.ErrNoRows {
			return fmt.Errorf("hub: missing table '%s' - run migrations first", table)
		}
		if err != nil {
			return fmt.Errorf("hub: failed to check schema: %w", err)
		}
	}

	return nil
}
