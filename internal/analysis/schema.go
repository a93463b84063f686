package analysis

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// Tones is the fixed sentiment vocabulary the generator must pick from.
var Tones = []string{"positive", "encouraging", "neutral", "critical"}

// narrativeSchemaJSON is the strict shape every generated narrative must
// satisfy. additionalProperties is off so the generator cannot smuggle
// unexpected fields past validation.
const narrativeSchemaJSON = `{
	"$schema": "https://json-schema.org/draft/2020-12/schema",
	"type": "object",
	"additionalProperties": false,
	"required": ["narrative", "tone"],
	"properties": {
		"narrative": {"type": "string", "minLength": 40, "maxLength": 1200},
		"tone": {"enum": ["positive", "encouraging", "neutral", "critical"]},
		"highlights": {
			"type": "array",
			"maxItems": 5,
			"items": {"type": "string", "minLength": 1, "maxLength": 200}
		},
		"suggestions": {
			"type": "array",
			"maxItems": 5,
			"items": {"type": "string", "minLength": 1, "maxLength": 300}
		}
	}
}`

var narrativeSchema = jsonschema.MustCompileString("narrative.schema.json", narrativeSchemaJSON)

// NarrativeFields is the validated generator payload merged into the base
// report.
type NarrativeFields struct {
	Narrative   string   `json:"narrative"`
	Tone        string   `json:"tone"`
	Highlights  []string `json:"highlights,omitempty"`
	Suggestions []string `json:"suggestions,omitempty"`
}

// ParseNarrative parses raw generator output and validates it against the
// narrative schema. The two failure classes are distinguished so degradation
// reasons stay precise: a *ParseError for malformed JSON, a *SchemaError for
// well-formed JSON of the wrong shape.
func ParseNarrative(raw string) (*NarrativeFields, error) {
	cleaned := stripCodeFence(raw)

	var payload any
	if err := json.Unmarshal([]byte(cleaned), &payload); err != nil {
		return nil, &ParseError{Err: err}
	}

	if err := narrativeSchema.Validate(payload); err != nil {
		return nil, &SchemaError{Err: err}
	}

	var fields NarrativeFields
	dec := json.NewDecoder(bytes.NewReader([]byte(cleaned)))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&fields); err != nil {
		return nil, &SchemaError{Err: err}
	}
	return &fields, nil
}

// ParseError reports generator output that is not valid JSON at all.
type ParseError struct{ Err error }

func (e *ParseError) Error() string { return fmt.Sprintf("narrative is not valid JSON: %v", e.Err) }
func (e *ParseError) Unwrap() error { return e.Err }

// SchemaError reports valid JSON that fails the narrative schema.
type SchemaError struct{ Err error }

func (e *SchemaError) Error() string { return fmt.Sprintf("narrative failed schema: %v", e.Err) }
func (e *SchemaError) Unwrap() error { return e.Err }

// stripCodeFence removes a markdown code fence if the generator wrapped its
// JSON in one.
func stripCodeFence(raw string) string {
	s := strings.TrimSpace(raw)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	if i := strings.LastIndex(s, "```"); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}
