package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/famhub/famhub/internal/config"
	"github.com/famhub/famhub/internal/http/features/families"
	portabilityfeature "github.com/famhub/famhub/internal/http/features/portability"
	"github.com/famhub/famhub/internal/http/middleware"
	"github.com/famhub/famhub/internal/httputil"
	"github.com/famhub/famhub/internal/notification"
	"github.com/famhub/famhub/pkg/auth"
	"github.com/famhub/famhub/pkg/portability"
	"github.com/famhub/famhub/pkg/repository"
)

// RouterConfig holds configuration for the router.
type RouterConfig struct {
	Logger             *slog.Logger
	TokenVerifier      *auth.TokenVerifier
	PortabilityService *portability.Service
	FamiliesRepo       *repository.FamiliesRepository
	MembersRepo        *repository.MembersRepository
	UsersRepo          *repository.UsersRepository
	AuditRepo          *repository.AuditRepository
	EmailService       *notification.EmailService
	RateLimitConfig    config.RateLimitConfig
	MaxRequestBodySize int64
}

// NewRouter creates a new HTTP router with all routes registered.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Apply global middleware
	r.Use(middleware.Recover(cfg.Logger))
	r.Use(middleware.Logging(cfg.Logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.RequestSizeLimit(cfg.MaxRequestBodySize))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		httputil.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// Create rate limiters for different endpoint types
	rateLimiters := middleware.CreateRateLimiters(cfg.RateLimitConfig, cfg.Logger)

	// Register family management routes
	familiesHandler := families.NewHandler(cfg.Logger, cfg.FamiliesRepo, cfg.MembersRepo, cfg.UsersRepo)
	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(cfg.TokenVerifier))
		r.Use(rateLimiters["api"])
		r.Post("/v1/families", familiesHandler.Create)
		r.Get("/v1/families/{familyID}", familiesHandler.Get)
		r.Patch("/v1/families/{familyID}", familiesHandler.Rename)
		r.Get("/v1/families/{familyID}/members", familiesHandler.ListMembers)
	})

	// Register portability routes. Export, import, and erase move whole
	// data graphs, so they share the tight portability limiter.
	portabilityHandler := portabilityfeature.NewHandler(cfg.Logger, cfg.PortabilityService, cfg.UsersRepo, cfg.MembersRepo, cfg.AuditRepo, cfg.EmailService)
	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(cfg.TokenVerifier))
		r.Use(rateLimiters["portability"])
		r.Post("/v1/families/{familyID}/export", portabilityHandler.Export)
		r.Post("/v1/import", portabilityHandler.Import)
		r.Delete("/v1/families/{familyID}", portabilityHandler.Erase)
	})
	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(cfg.TokenVerifier))
		r.Use(rateLimiters["api"])
		r.Get("/v1/families/{familyID}/integrity", portabilityHandler.Verify)
		r.Get("/v1/families/{familyID}/summary", portabilityHandler.Summary)
	})

	return r
}
