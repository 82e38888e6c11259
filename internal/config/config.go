// Package config provides configuration management for the ResolveIT client.
//
// This package handles loading configuration from environment variables,
// validating required settings, and providing sensible defaults for optional
// parameters. Configuration is loaded once at startup and remains immutable
// during runtime for thread-safety.
//
// Configuration sources (in order of precedence):
//  1. Environment variables (highest priority)
//  2. External .env file in the working directory
//  3. Hard-coded defaults (lowest priority)
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration.
//
// This struct is immutable after creation to ensure thread-safety.
// All duration and timeout values are configurable via environment
// variables to allow tuning for different network conditions.
type Config struct {
	// BaseURL of the ResolveIT backend, without trailing slash
	BaseURL string

	// Authentication credentials (required for the watch daemon,
	// optional for interactive CLI use where `login` stores a session)
	Email    string
	Password string

	// SessionFile overrides where the auth session is persisted
	SessionFile string

	// StateFile is where the watch daemon persists tracked complaints
	StateFile string

	// Retry configuration for resilience
	MaxLoginRetries int           // Maximum login attempts before giving up
	LoginRetryDelay time.Duration // Delay between login retry attempts
	MaxFetchRetries int           // Maximum fetch attempts before alerting

	// Timing configuration
	PollInterval time.Duration // How often the watcher checks for changes
	FetchTimeout time.Duration // Maximum time for one fetch cycle

	// Admin sweeps (optional, zero disables them)
	AutoEscalateInterval time.Duration // How often to trigger the overdue sweep
	ReminderInterval     time.Duration // How often to trigger stale-assignment reminders

	// SummaryInterval is how often the watcher pushes an open-complaints
	// summary image to Telegram (optional, zero disables it)
	SummaryInterval time.Duration

	// Telegram configuration (optional)
	TelegramBotToken string
	TelegramChatID   string

	// Health check server configuration
	HealthCheckPort string

	// Debug mode - logs notifications instead of sending them
	DebugMode bool

	// Performance tuning
	WorkerPoolSize int           // Number of concurrent workers for complaint processing
	HTTPTimeout    time.Duration // HTTP client timeout
}

// LoadConfig loads configuration from environment variables with defaults.
//
// Loading process:
//  1. Try to load an external .env file (optional)
//  2. Read environment variables (override .env values godotenv left alone)
//  3. Apply hard-coded defaults for any missing optional values
//  4. Validate that required fields are present
//
// Returns:
//   - *Config: Fully populated configuration struct
//   - error: Validation error if required fields are missing
func LoadConfig() (*Config, error) {
	// Optional; env vars already set take precedence over the file
	_ = godotenv.Load()

	cfg := &Config{
		BaseURL: getEnvOrDefault("RESOLVEIT_BASE_URL", "http://localhost:8080"),

		Email:    os.Getenv("RESOLVEIT_EMAIL"),
		Password: os.Getenv("RESOLVEIT_PASSWORD"),

		SessionFile: os.Getenv("RESOLVEIT_SESSION_FILE"),
		StateFile:   getEnvOrDefault("RESOLVEIT_STATE_FILE", "complaints_seen.csv"),

		MaxLoginRetries: getEnvInt("MAX_LOGIN_RETRIES", 3),
		LoginRetryDelay: getEnvDuration("LOGIN_RETRY_DELAY", 5*time.Second),
		MaxFetchRetries: getEnvInt("MAX_FETCH_RETRIES", 2),

		PollInterval: getEnvDuration("POLL_INTERVAL", 5*time.Minute),
		FetchTimeout: getEnvDuration("FETCH_TIMEOUT", 2*time.Minute),

		AutoEscalateInterval: getEnvDuration("AUTO_ESCALATE_INTERVAL", 0),
		ReminderInterval:     getEnvDuration("REMINDER_INTERVAL", 0),
		SummaryInterval:      getEnvDuration("SUMMARY_INTERVAL", 0),

		TelegramBotToken: os.Getenv("TELEGRAM_BOT_TOKEN"),
		TelegramChatID:   os.Getenv("TELEGRAM_CHAT_ID"),

		HealthCheckPort: getEnvOrDefault("HEALTH_CHECK_PORT", "8090"),

		DebugMode: getEnvOrDefault("DEBUG_MODE", "false") == "true",

		WorkerPoolSize: getEnvInt("WORKER_POOL_SIZE", 5),
		HTTPTimeout:    getEnvDuration("HTTP_TIMEOUT", 30*time.Second),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks that configuration values are sensible.
//
// Credentials are deliberately not required here: interactive CLI use
// authenticates through the stored session instead. The watch daemon
// calls RequireCredentials separately.
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("RESOLVEIT_BASE_URL cannot be empty")
	}
	if c.PollInterval < time.Second {
		return fmt.Errorf("POLL_INTERVAL must be at least 1s, got %s", c.PollInterval)
	}
	if c.WorkerPoolSize < 1 {
		return fmt.Errorf("WORKER_POOL_SIZE must be at least 1, got %d", c.WorkerPoolSize)
	}
	if c.MaxLoginRetries < 1 {
		return fmt.Errorf("MAX_LOGIN_RETRIES must be at least 1, got %d", c.MaxLoginRetries)
	}
	return nil
}

// RequireCredentials checks that login credentials are configured.
// The watch daemon needs them to recover from session expiry unattended.
func (c *Config) RequireCredentials() error {
	if c.Email == "" {
		return fmt.Errorf("RESOLVEIT_EMAIL environment variable is required")
	}
	if c.Password == "" {
		return fmt.Errorf("RESOLVEIT_PASSWORD environment variable is required")
	}
	return nil
}

// TelegramEnabled reports whether notification delivery is configured.
func (c *Config) TelegramEnabled() bool {
	return c.TelegramBotToken != "" && c.TelegramChatID != ""
}

// Helper functions for environment variable parsing

// getEnvOrDefault returns the environment variable value or a default if not set
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt returns the environment variable as an integer or a default if not set/invalid
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// getEnvDuration returns the environment variable as a duration or a default if not set/invalid.
//
// Accepts standard Go duration strings like "5s", "10m", "1h30m"
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
