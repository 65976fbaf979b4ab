package config

import (
	"os"
	"time"
)

// Config holds application configuration
type Config struct {
	ServerPort     string
	DatabaseType   string // "sqlite", "postgres" or "mysql"
	DatabasePath   string // for SQLite
	DatabaseURL    string // for PostgreSQL/MySQL
	MigrationsPath string

	// Identity provider shared secret for verifying bearer tokens
	AuthJWTSecret string

	// Gemini assistant
	GeminiAPIKey string
	GeminiModel  string

	// Google Calendar OAuth
	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURL  string

	// Base URL of the web frontend, used for OAuth callback redirects
	AppBaseURL string

	// Daily schedule digest email (optional, disabled when unset)
	AWSRegion     string
	SESFromEmail  string
	DigestToEmail string
	DigestHour    int

	EventCacheTTL time.Duration
}

// Load reads configuration from environment variables with sensible defaults
func Load() *Config {
	return &Config{
		ServerPort:     getEnv("PORT", "8080"),
		DatabaseType:   getEnv("DB_TYPE", "sqlite"),
		DatabasePath:   getEnv("DB_PATH", "./familyhub.db"),
		DatabaseURL:    getEnv("DATABASE_URL", ""),
		MigrationsPath: getEnv("MIGRATIONS_PATH", "./migrations"),

		AuthJWTSecret: getEnv("AUTH_JWT_SECRET", ""),

		GeminiAPIKey: getEnv("GEMINI_API_KEY", ""),
		GeminiModel:  getEnv("GEMINI_MODEL", "gemini-2.0-flash"),

		GoogleClientID:     getEnv("GOOGLE_CLIENT_ID", ""),
		GoogleClientSecret: getEnv("GOOGLE_CLIENT_SECRET", ""),
		GoogleRedirectURL:  getEnv("GOOGLE_REDIRECT_URL", "http://localhost:8080/api/google/callback"),

		AppBaseURL: getEnv("APP_BASE_URL", "http://localhost:3000"),

		AWSRegion:     getEnv("AWS_REGION", "eu-west-1"),
		SESFromEmail:  getEnv("SES_FROM_EMAIL", ""),
		DigestToEmail: getEnv("DIGEST_TO_EMAIL", ""),
		DigestHour:    7,

		EventCacheTTL: 5 * time.Minute,
	}
}

// getEnv reads an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
