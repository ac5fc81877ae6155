package backend

import (
	"os"
	"time"
)

// Config holds backend client configuration.
type Config struct {
	// BaseURL is the backend root, e.g. "http://localhost:8000".
	BaseURL string

	// Timeout is the maximum duration for a single request. Question
	// generation reads the whole document server-side, so this is
	// deliberately generous.
	Timeout time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		BaseURL: "http://localhost:8000",
		Timeout: 90 * time.Second,
	}
}

// ConfigFromEnv builds a Config from environment variables, falling back
// to defaults for unset values.
//
// QUIZQUEST_BACKEND_URL — backend base URL
// QUIZQUEST_BACKEND_TIMEOUT — request timeout as a Go duration, e.g. "2m"
func ConfigFromEnv() Config {
	cfg := DefaultConfig()

	if v := os.Getenv("QUIZQUEST_BACKEND_URL"); v != "" {
		cfg.BaseURL = v
	}
	if v := os.Getenv("QUIZQUEST_BACKEND_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Timeout = d
		}
	}

	return cfg
}
