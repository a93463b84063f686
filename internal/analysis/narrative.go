package analysis

import "context"

// Generator produces structured narrative text. Implementations may fail on
// provider errors; output is untrusted and always schema-validated here.
type Generator interface {
	// GenerateStructured returns raw text expected to be a single JSON
	// object matching the narrative schema.
	GenerateStructured(ctx context.Context, prompt, systemPrompt, modeLabel string) (GeneratedText, error)
}

// GeneratedText is raw generator output plus usage accounting.
type GeneratedText struct {
	Raw          string
	Model        string
	PromptTokens int
	OutputTokens int
}
