package mentor

import (
	"fmt"
	"os"
	"time"
)

// Config selects and configures the mentor provider.
type Config struct {
	// Provider is one of "anthropic", "openai", "gemini", "mock".
	Provider string

	APIKey string
	Model  string

	// BaseURL overrides the OpenAI endpoint for compatible APIs.
	BaseURL string

	Retry RetryConfig
}

// RetryConfig configures retry behavior for transient provider failures.
type RetryConfig struct {
	MaxAttempts int
	InitialWait time.Duration
	MaxWait     time.Duration
	Multiplier  float64
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Provider: "anthropic",
		Retry: RetryConfig{
			MaxAttempts: 3,
			InitialWait: 1 * time.Second,
			MaxWait:     8 * time.Second,
			Multiplier:  2.0,
		},
	}
}

// ConfigFromEnv reads mentor configuration from the environment.
// SECDOJO_LLM_PROVIDER selects the provider; the key comes from the
// vendor's conventional variable (ANTHROPIC_API_KEY, OPENAI_API_KEY,
// GEMINI_API_KEY).
func ConfigFromEnv() (Config, error) {
	cfg := DefaultConfig()
	if p := os.Getenv("SECDOJO_LLM_PROVIDER"); p != "" {
		cfg.Provider = p
	}
	cfg.Model = os.Getenv("SECDOJO_LLM_MODEL")
	cfg.BaseURL = os.Getenv("SECDOJO_LLM_BASE_URL")

	switch cfg.Provider {
	case "anthropic":
		cfg.APIKey = os.Getenv("ANTHROPIC_API_KEY")
	case "openai":
		cfg.APIKey = os.Getenv("OPENAI_API_KEY")
	case "gemini":
		cfg.APIKey = os.Getenv("GEMINI_API_KEY")
	case "mock":
		return cfg, nil
	default:
		return cfg, fmt.Errorf("unknown mentor provider: %q", cfg.Provider)
	}

	if cfg.APIKey == "" {
		return cfg, fmt.Errorf("no API key configured for mentor provider %q", cfg.Provider)
	}
	return cfg, nil
}
