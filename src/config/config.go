package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Default and allowed bounds for ranked-table truncation. The top-N knob is
// a per-request setting; the env var only moves the default inside the same
// bounds.
const (
	MinTopN      = 5
	MaxTopN      = 15
	FallbackTopN = 9
)

// AppConfig holds all configuration for the application, loaded from
// environment variables.
type AppConfig struct {
	// Core settings
	Port         string
	DatabasePath string
	LogLevel     string

	// Upload limits
	MaxUploadSizeBytes int64

	// Statement token settings
	StatementTokenSecret string
	StatementTokenExpiry time.Duration

	// Report settings
	DefaultTopN int

	// CORS allow-list
	AllowedOrigins []string
}

// Cfg is the global instance of the AppConfig.
var Cfg *AppConfig

// LoadConfig loads configuration from environment variables or a .env file.
func LoadConfig() {
	if err := godotenv.Load(); err != nil {
		if os.IsNotExist(err) {
			log.Println("Info: No .env file found. Relying on OS environment variables (expected in production).")
		} else {
			log.Printf("Warning: Error loading .env file: %v. Relying on OS environment variables.", err)
		}
	} else {
		log.Println(".env file loaded successfully.")
	}

	log.Println("Loading application configuration...")

	tokenSecret := getRequiredEnv("STATEMENT_TOKEN_SECRET")

	maxUploadSizeBytesStr := getEnv("MAX_UPLOAD_SIZE_BYTES", "10485760") // 10MB default
	maxUploadSizeBytes, err := strconv.ParseInt(maxUploadSizeBytesStr, 10, 64)
	if err != nil {
		log.Printf("WARNING: Invalid MAX_UPLOAD_SIZE_BYTES format '%s'. Using default 10MB. Error: %v", maxUploadSizeBytesStr, err)
		maxUploadSizeBytes = 10 * 1024 * 1024
	}

	defaultTopN := getEnvAsInt("DEFAULT_TOP_N", FallbackTopN)
	if defaultTopN < MinTopN || defaultTopN > MaxTopN {
		log.Printf("WARNING: DEFAULT_TOP_N %d outside [%d, %d], using %d", defaultTopN, MinTopN, MaxTopN, FallbackTopN)
		defaultTopN = FallbackTopN
	}

	Cfg = &AppConfig{
		Port:         getEnv("PORT", "8080"),
		DatabasePath: getEnv("DATABASE_PATH", "./mtop.db"),
		LogLevel:     getEnv("LOG_LEVEL", "info"),

		MaxUploadSizeBytes: maxUploadSizeBytes,

		StatementTokenSecret: tokenSecret,
		StatementTokenExpiry: getEnvAsDuration("STATEMENT_TOKEN_EXPIRY", 24*time.Hour),

		DefaultTopN: defaultTopN,

		AllowedOrigins: getList("ALLOWED_ORIGINS", "http://localhost:3000"),
	}

	log.Printf("Configuration loaded: Port=%s, LogLevel=%s, DBPath=%s, DefaultTopN=%d",
		Cfg.Port, Cfg.LogLevel, Cfg.DatabasePath, Cfg.DefaultTopN)
}

// getEnv retrieves an environment variable or returns a fallback value.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

// getRequiredEnv retrieves an environment variable or terminates the
// application if not set.
func getRequiredEnv(key string) string {
	value, exists := os.LookupEnv(key)
	if !exists || strings.TrimSpace(value) == "" {
		log.Fatalf("FATAL: Required environment variable %s is not set or is empty. Application cannot start securely.", key)
	}
	return value
}

// getEnvAsInt retrieves an environment variable as an integer or returns a
// fallback.
func getEnvAsInt(key string, fallback int) int {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return fallback
	}
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	log.Printf("Invalid integer value for %s ('%s'), using default: %d", key, valueStr, fallback)
	return fallback
}

// getEnvAsDuration retrieves an environment variable as a time.Duration or
// returns a fallback.
func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return fallback
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	log.Printf("Invalid duration value for %s ('%s'), using default: %s", key, valueStr, fallback.String())
	return fallback
}

// getList retrieves a comma-separated environment variable as a trimmed
// string slice.
func getList(key, fallback string) []string {
	raw := getEnv(key, fallback)
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}
	return parts
}
