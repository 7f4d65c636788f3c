package mentor

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/ivasilev/secdojo/internal/course"
)

// Advice is one structured mentor answer.
type Advice struct {
	Answer    string   `json:"answer"`
	KeyPoints []string `json:"key_points"`
	Resources []string `json:"suggested_resources"`
}

// Question carries the learner's question plus the active-lesson context
// the mentor grounds its answer in.
type Question struct {
	Text   string
	Lesson *course.LessonDetail
}

// adviceSchema is the structured-output contract for mentor replies.
var adviceSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"answer": map[string]any{
			"type":        "string",
			"description": "Direct answer to the learner's question, grounded in the lesson (3-6 sentences)",
		},
		"key_points": map[string]any{
			"type":        "array",
			"items":       map[string]any{"type": "string"},
			"description": "2-4 takeaways worth remembering",
		},
		"suggested_resources": map[string]any{
			"type":        "array",
			"items":       map[string]any{"type": "string"},
			"description": "Topics or tools to explore next, may be empty",
		},
	},
	"required":             []any{"answer", "key_points", "suggested_resources"},
	"additionalProperties": false,
}

const mentorSystemPrompt = `You are a patient cybersecurity mentor embedded in a hands-on training
platform. Answer the learner's question about the lesson they are viewing.
Stay within defensive-security and authorized-lab framing, keep answers
practical, and never invent facts about the lesson content you were not
given.`

// Service answers lesson questions asynchronously. Only one question is
// in flight at a time; a new request replaces a pending, unconsumed answer.
type Service struct {
	provider Provider

	mu      sync.Mutex
	pending *Advice
	err     error
	ready   bool
}

// NewService creates a mentor service over the given provider.
func NewService(provider Provider) *Service {
	return &Service{provider: provider}
}

// NewServiceFromConfig builds the provider chain (base → retry) and wraps
// it in a Service.
func NewServiceFromConfig(ctx context.Context, cfg Config) (*Service, error) {
	var base Provider
	var err error

	switch cfg.Provider {
	case "anthropic":
		base, err = NewAnthropicProvider(cfg)
	case "openai":
		base, err = NewOpenAIProvider(cfg)
	case "gemini":
		base, err = NewGeminiProvider(ctx, cfg)
	case "mock":
		base = NewMockProvider()
	default:
		return nil, fmt.Errorf("unknown mentor provider: %q", cfg.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("initializing %s provider: %w", cfg.Provider, err)
	}

	return NewService(WithRetry(base, cfg.Retry)), nil
}

// Ask starts answering q in the background. The result is collected with
// ConsumeAdvice.
func (s *Service) Ask(ctx context.Context, q Question) {
	go func() {
		advice, err := s.answer(ctx, q)
		s.mu.Lock()
		defer s.mu.Unlock()
		s.pending = advice
		s.err = err
		s.ready = true
	}()
}

// Result is a settled mentor request: an answer or an error.
type Result struct {
	Advice *Advice
	Err    error
}

// Consume returns the pending result if one is ready, clearing the slot.
func (s *Service) Consume() (Result, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.ready {
		return Result{}, false
	}
	res := Result{Advice: s.pending, Err: s.err}
	s.pending = nil
	s.err = nil
	s.ready = false
	return res, true
}

func (s *Service) answer(ctx context.Context, q Question) (*Advice, error) {
	prompt := Prompt{
		System:      mentorSystemPrompt,
		User:        buildQuestionMessage(q),
		SchemaName:  "mentor-advice",
		Schema:      adviceSchema,
		MaxTokens:   1024,
		Temperature: 0.3,
	}

	reply, err := s.provider.Advise(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("mentor request: %w", err)
	}

	if err := validateAdvice(reply.Content); err != nil {
		return nil, err
	}

	var advice Advice
	if err := json.Unmarshal(reply.Content, &advice); err != nil {
		return nil, fmt.Errorf("parse mentor reply: %w", err)
	}
	return &advice, nil
}

func buildQuestionMessage(q Question) string {
	var b strings.Builder
	if q.Lesson != nil {
		fmt.Fprintf(&b, "Lesson: %s (%s)\n", q.Lesson.Content.Title, q.Lesson.Content.Type)
		fmt.Fprintf(&b, "Module: %s\n", q.Lesson.Module.Title)
		if q.Lesson.Content.Description != "" {
			fmt.Fprintf(&b, "Lesson description: %s\n", q.Lesson.Content.Description)
		}
		if q.Lesson.Content.Instructions != "" {
			fmt.Fprintf(&b, "Lesson instructions:\n%s\n", q.Lesson.Content.Instructions)
		}
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "Learner question: %s", q.Text)
	return b.String()
}

var (
	adviceCompileOnce sync.Once
	adviceCompiled    *jsonschema.Schema
	adviceCompileErr  error
)

// validateAdvice checks a reply against the advice schema before parsing.
func validateAdvice(raw json.RawMessage) error {
	adviceCompileOnce.Do(func() {
		defBytes, err := json.Marshal(adviceSchema)
		if err != nil {
			adviceCompileErr = fmt.Errorf("marshal schema definition: %w", err)
			return
		}
		var defParsed any
		if err := json.Unmarshal(defBytes, &defParsed); err != nil {
			adviceCompileErr = fmt.Errorf("parse schema definition: %w", err)
			return
		}
		c := jsonschema.NewCompiler()
		if err := c.AddResource("schema://mentor-advice.json", defParsed); err != nil {
			adviceCompileErr = fmt.Errorf("add resource: %w", err)
			return
		}
		adviceCompiled, adviceCompileErr = c.Compile("schema://mentor-advice.json")
	})
	if adviceCompileErr != nil {
		return &ErrInvalidReply{Content: raw, Err: adviceCompileErr}
	}

	var parsed any
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return &ErrInvalidReply{Content: raw, Err: fmt.Errorf("invalid JSON: %w", err)}
	}
	if err := adviceCompiled.Validate(parsed); err != nil {
		return &ErrInvalidReply{Content: raw, Err: err}
	}
	return nil
}
