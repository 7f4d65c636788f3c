package api

import (
	"fmt"
	"os"
	"time"
)

// Config holds connection settings for the SecDojo platform API.
type Config struct {
	// BaseURL is the API root, e.g. "https://api.secdojo.io".
	BaseURL string

	// Token is the bearer token for the enrolled learner.
	Token string

	// Timeout is the maximum duration for a single request. Default: 15s.
	Timeout time.Duration

	// MaxRetries is the number of additional attempts for transient
	// failures on read operations. Writes are never retried.
	MaxRetries int
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Timeout:    15 * time.Second,
		MaxRetries: 2,
	}
}

// ConfigFromEnv builds a Config from SECDOJO_API_URL and SECDOJO_API_TOKEN.
func ConfigFromEnv() (Config, error) {
	cfg := DefaultConfig()
	cfg.BaseURL = os.Getenv("SECDOJO_API_URL")
	cfg.Token = os.Getenv("SECDOJO_API_TOKEN")
	if cfg.BaseURL == "" {
		return cfg, fmt.Errorf("SECDOJO_API_URL is not set")
	}
	if cfg.Token == "" {
		return cfg, fmt.Errorf("SECDOJO_API_TOKEN is not set")
	}
	return cfg, nil
}
