package api

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/ivasilev/secdojo/internal/course"
)

// instructionsSchema describes the JSON document lab and game lessons
// carry in their instructions field. Authored content is validated before
// the view renders it; malformed content surfaces as a lesson-scoped error.
var instructionsSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"objective": map[string]any{
			"type":        "string",
			"description": "What the learner must accomplish",
		},
		"steps": map[string]any{
			"type":     "array",
			"minItems": 1,
			"items": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"title":   map[string]any{"type": "string"},
					"body":    map[string]any{"type": "string"},
					"command": map[string]any{"type": "string"},
				},
				"required":             []any{"title", "body"},
				"additionalProperties": false,
			},
		},
		"hints": map[string]any{
			"type":  "array",
			"items": map[string]any{"type": "string"},
		},
		"success_criteria": map[string]any{
			"type":  "array",
			"items": map[string]any{"type": "string"},
		},
	},
	"required":             []any{"objective", "steps"},
	"additionalProperties": false,
}

var (
	compileOnce sync.Once
	compiled    *jsonschema.Schema
	compileErr  error
)

func compiledInstructionsSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		// The jsonschema library expects a parsed JSON value; round-trip the
		// definition so nested literals come out in canonical form.
		defBytes, err := json.Marshal(instructionsSchema)
		if err != nil {
			compileErr = fmt.Errorf("marshal schema definition: %w", err)
			return
		}
		var defParsed any
		if err := json.Unmarshal(defBytes, &defParsed); err != nil {
			compileErr = fmt.Errorf("parse schema definition: %w", err)
			return
		}

		c := jsonschema.NewCompiler()
		if err := c.AddResource("schema://instructions.json", defParsed); err != nil {
			compileErr = fmt.Errorf("add resource: %w", err)
			return
		}
		compiled, compileErr = c.Compile("schema://instructions.json")
	})
	return compiled, compileErr
}

// ValidateInstructions checks the instructions document of lab and game
// lessons against the schema. Lessons of other types, and lessons without
// instructions, pass through untouched.
func ValidateInstructions(d *course.LessonDetail) error {
	if d.Content.Type != course.TypeLab && d.Content.Type != course.TypeGame {
		return nil
	}
	if d.Content.Instructions == "" {
		return nil
	}

	var parsed any
	if err := json.Unmarshal([]byte(d.Content.Instructions), &parsed); err != nil {
		return &ContentInvalidError{ContentID: d.Content.ID, Err: fmt.Errorf("invalid JSON: %w", err)}
	}

	schema, err := compiledInstructionsSchema()
	if err != nil {
		return &ContentInvalidError{ContentID: d.Content.ID, Err: err}
	}
	if err := schema.Validate(parsed); err != nil {
		return &ContentInvalidError{ContentID: d.Content.ID, Err: err}
	}
	return nil
}

// Instructions is the parsed form of a validated instructions document.
type Instructions struct {
	Objective       string            `json:"objective"`
	Steps           []InstructionStep `json:"steps"`
	Hints           []string          `json:"hints,omitempty"`
	SuccessCriteria []string          `json:"success_criteria,omitempty"`
}

// InstructionStep is one step of a lab or game walkthrough.
type InstructionStep struct {
	Title   string `json:"title"`
	Body    string `json:"body"`
	Command string `json:"command,omitempty"`
}

// ParseInstructions decodes a validated instructions document.
func ParseInstructions(raw string) (*Instructions, error) {
	var ins Instructions
	if err := json.Unmarshal([]byte(raw), &ins); err != nil {
		return nil, fmt.Errorf("parse instructions: %w", err)
	}
	return &ins, nil
}
