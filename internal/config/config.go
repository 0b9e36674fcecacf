package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// RateLimitConfig holds rate limiting settings. Portability operations are
// heavy (full-graph reads and writes), so they get a much tighter budget
// than the regular API.
type RateLimitConfig struct {
	Enabled                   bool
	APIRequestsPerMinute      int
	APIWindowMinutes          int
	PortabilityRequestsPerMin int
	PortabilityWindowMinutes  int
}

// SMTPConfig holds outbound email settings.
type SMTPConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
	FromName string
}

// Config holds application configuration.
type Config struct {
	// Server
	ServerAddr string
	ServerPort int

	// Database
	DBHost     string
	DBPort     int
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Migrations
	MigrateOnStart bool

	// JWT
	JWTSecret string
	JWTIssuer string

	// Request limits
	MaxRequestBodySize int64

	RateLimit RateLimitConfig
	SMTP      SMTPConfig
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		// Server defaults
		ServerAddr: getEnv("SERVER_ADDR", "0.0.0.0"),
		ServerPort: getEnvInt("SERVER_PORT", 8080),

		// Database defaults
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnvInt("DB_PORT", 5432),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", "postgres"),
		DBName:     getEnv("DB_NAME", "famhub"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		MigrateOnStart: getEnvBool("MIGRATE_ON_START", true),

		// JWT defaults
		JWTSecret: getEnv("JWT_SECRET", ""),
		JWTIssuer: getEnv("JWT_ISSUER", "famhub"),

		// Snapshots can be large; default allows 64 MiB import payloads.
		MaxRequestBodySize: getEnvInt64("MAX_REQUEST_BODY_SIZE", 64<<20),

		RateLimit: RateLimitConfig{
			Enabled:                   getEnvBool("RATE_LIMIT_ENABLED", true),
			APIRequestsPerMinute:      getEnvInt("RATE_LIMIT_API_PER_MINUTE", 120),
			APIWindowMinutes:          getEnvInt("RATE_LIMIT_API_WINDOW_MINUTES", 1),
			PortabilityRequestsPerMin: getEnvInt("RATE_LIMIT_PORTABILITY_PER_WINDOW", 5),
			PortabilityWindowMinutes:  getEnvInt("RATE_LIMIT_PORTABILITY_WINDOW_MINUTES", 10),
		},

		SMTP: SMTPConfig{
			Host:     getEnv("SMTP_HOST", ""),
			Port:     getEnvInt("SMTP_PORT", 587),
			User:     getEnv("SMTP_USER", ""),
			Password: getEnv("SMTP_PASSWORD", ""),
			From:     getEnv("SMTP_FROM", ""),
			FromName: getEnv("SMTP_FROM_NAME", "famhub"),
		},
	}

	// Validate required fields
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	return cfg, nil
}

// HasSMTP returns true if outbound email is configured.
func (c *Config) HasSMTP() bool {
	return c.SMTP.Host != "" && c.SMTP.From != ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.ParseInt(value, 10, 64); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

// PortabilityWindow returns the rate limit window for portability endpoints.
func (c *RateLimitConfig) PortabilityWindow() time.Duration {
	return time.Duration(c.PortabilityWindowMinutes) * time.Minute
}

// APIWindow returns the rate limit window for regular API endpoints.
func (c *RateLimitConfig) APIWindow() time.Duration {
	return time.Duration(c.APIWindowMinutes) * time.Minute
}
