package config

import (
	"os"
	"testing"
	"time"
)

func TestLoadConfigDefaults(t *testing.T) {
	for _, key := range []string{
		"RESOLVEIT_BASE_URL", "RESOLVEIT_EMAIL", "RESOLVEIT_PASSWORD",
		"POLL_INTERVAL", "WORKER_POOL_SIZE", "HEALTH_CHECK_PORT",
	} {
		orig := os.Getenv(key)
		os.Unsetenv(key)
		defer func(k, v string) {
			if v != "" {
				os.Setenv(k, v)
			}
		}(key, orig)
	}

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("expected no error but got: %v", err)
	}

	if cfg.BaseURL != "http://localhost:8080" {
		t.Errorf("expected default base URL but got %q", cfg.BaseURL)
	}
	if cfg.PollInterval != 5*time.Minute {
		t.Errorf("expected default PollInterval=5m but got %v", cfg.PollInterval)
	}
	if cfg.MaxLoginRetries != 3 {
		t.Errorf("expected default MaxLoginRetries=3 but got %d", cfg.MaxLoginRetries)
	}
	if cfg.WorkerPoolSize != 5 {
		t.Errorf("expected default WorkerPoolSize=5 but got %d", cfg.WorkerPoolSize)
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	os.Setenv("RESOLVEIT_BASE_URL", "https://resolveit.example.com")
	os.Setenv("POLL_INTERVAL", "30s")
	defer os.Unsetenv("RESOLVEIT_BASE_URL")
	defer os.Unsetenv("POLL_INTERVAL")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("expected no error but got: %v", err)
	}

	if cfg.BaseURL != "https://resolveit.example.com" {
		t.Errorf("expected overridden base URL but got %q", cfg.BaseURL)
	}
	if cfg.PollInterval != 30*time.Second {
		t.Errorf("expected PollInterval=30s but got %v", cfg.PollInterval)
	}
}

func TestGetEnvOrDefault(t *testing.T) {
	tests := []struct {
		name         string
		key          string
		defaultValue string
		envValue     string
		expected     string
	}{
		{
			name:         "env var set",
			key:          "TEST_VAR",
			defaultValue: "default",
			envValue:     "custom",
			expected:     "custom",
		},
		{
			name:         "env var not set",
			key:          "NONEXISTENT_VAR",
			defaultValue: "default",
			envValue:     "",
			expected:     "default",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.envValue != "" {
				os.Setenv(tt.key, tt.envValue)
				defer os.Unsetenv(tt.key)
			}

			result := getEnvOrDefault(tt.key, tt.defaultValue)
			if result != tt.expected {
				t.Errorf("expected %q but got %q", tt.expected, result)
			}
		})
	}
}

func TestGetEnvDuration(t *testing.T) {
	tests := []struct {
		name         string
		key          string
		defaultValue time.Duration
		envValue     string
		expected     time.Duration
	}{
		{
			name:         "valid duration",
			key:          "TEST_DUR",
			defaultValue: time.Minute,
			envValue:     "90s",
			expected:     90 * time.Second,
		},
		{
			name:         "invalid duration uses default",
			key:          "TEST_DUR_INVALID",
			defaultValue: time.Minute,
			envValue:     "soon",
			expected:     time.Minute,
		},
		{
			name:         "empty uses default",
			key:          "TEST_DUR_EMPTY",
			defaultValue: time.Minute,
			envValue:     "",
			expected:     time.Minute,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.envValue != "" {
				os.Setenv(tt.key, tt.envValue)
				defer os.Unsetenv(tt.key)
			}

			result := getEnvDuration(tt.key, tt.defaultValue)
			if result != tt.expected {
				t.Errorf("expected %v but got %v", tt.expected, result)
			}
		})
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name      string
		config    *Config
		expectErr bool
	}{
		{
			name: "valid config",
			config: &Config{
				BaseURL:         "http://example.com",
				PollInterval:    time.Minute,
				WorkerPoolSize:  5,
				MaxLoginRetries: 3,
			},
			expectErr: false,
		},
		{
			name: "missing base URL",
			config: &Config{
				PollInterval:    time.Minute,
				WorkerPoolSize:  5,
				MaxLoginRetries: 3,
			},
			expectErr: true,
		},
		{
			name: "poll interval too short",
			config: &Config{
				BaseURL:         "http://example.com",
				PollInterval:    100 * time.Millisecond,
				WorkerPoolSize:  5,
				MaxLoginRetries: 3,
			},
			expectErr: true,
		},
		{
			name: "zero workers",
			config: &Config{
				BaseURL:         "http://example.com",
				PollInterval:    time.Minute,
				MaxLoginRetries: 3,
			},
			expectErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.expectErr && err == nil {
				t.Error("expected error but got nil")
			}
			if !tt.expectErr && err != nil {
				t.Errorf("expected no error but got: %v", err)
			}
		})
	}
}

func TestRequireCredentials(t *testing.T) {
	cfg := &Config{BaseURL: "http://example.com"}
	if err := cfg.RequireCredentials(); err == nil {
		t.Error("expected error for missing credentials")
	}

	cfg.Email = "admin@example.com"
	cfg.Password = "secret"
	if err := cfg.RequireCredentials(); err != nil {
		t.Errorf("expected no error but got: %v", err)
	}
}

func TestTelegramEnabled(t *testing.T) {
	cfg := &Config{}
	if cfg.TelegramEnabled() {
		t.Error("expected telegram disabled with no token")
	}

	cfg.TelegramBotToken = "123:abc"
	cfg.TelegramChatID = "-100200300"
	if !cfg.TelegramEnabled() {
		t.Error("expected telegram enabled with token and chat ID")
	}
}
