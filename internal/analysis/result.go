// Package analysis runs mode-specific performance analysis strategies. Every
// strategy computes deterministic scores, asks the narrative generator for
// schema-shaped text, validates it, and degrades to the deterministic-only
// fallback on any failure. Execute never propagates an error to the caller.
package analysis

import (
	"riftrecap/internal/scoring"
	"riftrecap/internal/timeline"
)

// Outcome classifies how a strategy execution ended. Degradation is an
// ordinary, typed control path, not an exception swallow.
type Outcome int

const (
	OutcomeSuccess Outcome = iota
	OutcomeDegraded
)

func (o Outcome) String() string {
	if o == OutcomeDegraded {
		return "degraded"
	}
	return "success"
}

// Degradation reason tags.
const (
	ReasonGeneratorError       = "generator-error"
	ReasonParseError           = "parse-error"
	ReasonSchemaInvalid        = "schema-invalid"
	ReasonComplianceViolation  = "compliance-violation"
	ReasonHallucinationCaught  = "hallucination-detected"
	ReasonGeneratorUnavailable = "generator-unavailable"
	ReasonInternalPanic        = "internal-panic"
)

// Metrics carries per-execution accounting for the orchestrator.
type Metrics struct {
	Degraded           bool   `json:"degraded"`
	DegradationReason  string `json:"degradationReason,omitempty"`
	PromptTokens       int    `json:"promptTokens"`
	OutputTokens       int    `json:"outputTokens"`
	GeneratorLatencyMS int64  `json:"generatorLatencyMs"`
	GeneratorModel     string `json:"generatorModel,omitempty"`
}

// ScoreData is the consumable analysis payload: deterministic scores plus the
// (possibly template-generated) narrative fields.
type ScoreData struct {
	Scores      scoring.Scores     `json:"scores"`
	Narrative   string             `json:"narrative"`
	Tone        string             `json:"tone"`
	Highlights  []string           `json:"highlights,omitempty"`
	Suggestions []string           `json:"suggestions,omitempty"`
	Evidence    *timeline.Evidence `json:"evidence,omitempty"`
}

// StrategyResult is always present and never nil-valued: every execution,
// including total failure, produces a consumable result with the original
// mode label preserved.
type StrategyResult struct {
	Mode      string    `json:"mode"`
	Outcome   Outcome   `json:"outcome"`
	Metrics   Metrics   `json:"metrics"`
	ScoreData ScoreData `json:"scoreData"`
}

// RequestContext carries requester identity and optional personalization into
// the strategy.
type RequestContext struct {
	RequesterID     string
	TraceID         string
	Personalization string
}
