// Package mentor is the optional AI assistant: it answers learner
// questions about the active lesson. Providers are pluggable (Anthropic,
// OpenAI and compatibles, Gemini, mock); when none is configured the
// feature simply stays hidden.
package mentor

import (
	"context"
	"encoding/json"
	"fmt"
)

// Provider generates mentor replies. Implementations use each vendor's
// native structured-output mechanism when a schema is set.
type Provider interface {
	Advise(ctx context.Context, p Prompt) (*Reply, error)
	ModelID() string
}

// Prompt is one mentor request.
type Prompt struct {
	System string
	User   string

	// SchemaName and Schema request structured JSON output. When Schema is
	// nil the reply content is raw text wrapped as a JSON string.
	SchemaName string
	Schema     map[string]any

	MaxTokens   int
	Temperature float64
}

// Reply is the provider's output.
type Reply struct {
	Content json.RawMessage
	Model   string
}

// ErrProviderUnavailable indicates the provider is down or unreachable.
type ErrProviderUnavailable struct {
	Err error
}

func (e *ErrProviderUnavailable) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("mentor provider unavailable: %v", e.Err)
	}
	return "mentor provider unavailable"
}

func (e *ErrProviderUnavailable) Unwrap() error { return e.Err }

// ErrRateLimit indicates the provider returned a rate limit error (429).
type ErrRateLimit struct {
	Err error
}

func (e *ErrRateLimit) Error() string {
	return fmt.Sprintf("mentor provider rate limited: %v", e.Err)
}

func (e *ErrRateLimit) Unwrap() error { return e.Err }

// ErrInvalidReply indicates the provider returned content that does not
// conform to the requested schema.
type ErrInvalidReply struct {
	Content json.RawMessage
	Err     error
}

func (e *ErrInvalidReply) Error() string {
	return fmt.Sprintf("invalid mentor reply: %v", e.Err)
}

func (e *ErrInvalidReply) Unwrap() error { return e.Err }

// resolveModel maps a friendly model name to a provider model ID.
func resolveModel(name string, models map[string]string) string {
	if id, ok := models[name]; ok {
		return id
	}
	return name
}
