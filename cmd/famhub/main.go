package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/famhub/famhub/internal/config"
	"github.com/famhub/famhub/internal/database/migrations"
	httpserver "github.com/famhub/famhub/internal/http"
	"github.com/famhub/famhub/internal/notification"
	"github.com/famhub/famhub/pkg/auth"
	"github.com/famhub/famhub/pkg/portability"
	"github.com/famhub/famhub/pkg/repository"
)

func main() {
	// Load .env file if present (ignore error if not found)
	_ = godotenv.Load()

	// Setup logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Connect to database
	db, err := repository.NewDB(repository.Config{
		Host:     cfg.DBHost,
		Port:     cfg.DBPort,
		User:     cfg.DBUser,
		Password: cfg.DBPassword,
		DBName:   cfg.DBName,
		SSLMode:  cfg.DBSSLMode,
	})
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	logger.Info("connected to database")

	// Run or verify migrations
	if cfg.MigrateOnStart {
		if err := migrations.MigrateUp(db); err != nil {
			logger.Error("failed to run migrations", "error", err)
			os.Exit(1)
		}
		logger.Info("migrations up to date")
	} else {
		if err := migrations.CheckDBMigrationStatus(db); err != nil {
			logger.Error("database schema is out of date", "error", err)
			os.Exit(1)
		}
	}

	// Initialize repositories
	familiesRepo := repository.NewFamiliesRepository(db)
	membersRepo := repository.NewMembersRepository(db)
	usersRepo := repository.NewUsersRepository(db)
	auditRepo := repository.NewAuditRepository(db)

	// Initialize the portability engine
	portabilityService := portability.NewService(db, auditRepo, logger)

	tokenVerifier := auth.NewTokenVerifier([]byte(cfg.JWTSecret), cfg.JWTIssuer)

	// Initialize email service if configured
	var emailService *notification.EmailService
	if cfg.HasSMTP() {
		emailService = notification.NewEmailService(notification.EmailConfig{
			Host:     cfg.SMTP.Host,
			Port:     cfg.SMTP.Port,
			User:     cfg.SMTP.User,
			Password: cfg.SMTP.Password,
			From:     cfg.SMTP.From,
			FromName: cfg.SMTP.FromName,
		})
		logger.Info("email service enabled")
	}

	// Create router
	router := httpserver.NewRouter(httpserver.RouterConfig{
		Logger:             logger,
		TokenVerifier:      tokenVerifier,
		PortabilityService: portabilityService,
		FamiliesRepo:       familiesRepo,
		MembersRepo:        membersRepo,
		UsersRepo:          usersRepo,
		AuditRepo:          auditRepo,
		EmailService:       emailService,
		RateLimitConfig:    cfg.RateLimit,
		MaxRequestBodySize: cfg.MaxRequestBodySize,
	})

	// Create HTTP server
	addr := fmt.Sprintf("%s:%d", cfg.ServerAddr, cfg.ServerPort)
	server := &http.Server{
		Addr:    addr,
		Handler: router,
		// Exports and imports stream large snapshots, so read and write
		// timeouts are generous compared to a typical JSON API.
		ReadTimeout:  5 * time.Minute,
		WriteTimeout: 5 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		logger.Info("starting server", "addr", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	logger.Info("server stopped")
}
