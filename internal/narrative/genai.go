// Package narrative adapts the Gemini API to the analysis generator contract.
package narrative

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"riftrecap/internal/analysis"
)

// GeminiGenerator produces structured narrative JSON through the Gemini API.
// It is safe for concurrent use.
type GeminiGenerator struct {
	client *genai.Client
	model  string
	logger *zap.Logger
}

// NewGeminiGenerator creates a generator bound to the given model. Returns an
// error when no API key is configured so callers can fall back to template
// summaries instead of failing per-task.
func NewGeminiGenerator(ctx context.Context, apiKey, model string, logger *zap.Logger) (*GeminiGenerator, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini api key not configured")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	return &GeminiGenerator{client: client, model: model, logger: logger}, nil
}

// GenerateStructured sends one prompt and returns the raw model output. The
// response MIME type is pinned to JSON; validation of the payload itself is
// the caller's job.
func (g *GeminiGenerator) GenerateStructured(ctx context.Context, prompt, systemPrompt, modeLabel string) (analysis.GeneratedText, error) {
	config := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
	}
	if systemPrompt != "" {
		config.SystemInstruction = genai.NewContentFromText(systemPrompt, genai.RoleUser)
	}

	start := time.Now()
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), config)
	if err != nil {
		g.logger.Warn("gemini generation failed",
			zap.String("model", g.model),
			zap.String("mode", modeLabel),
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err))
		return analysis.GeneratedText{}, fmt.Errorf("gemini generation: %w", err)
	}

	text := resp.Text()
	if text == "" {
		return analysis.GeneratedText{}, fmt.Errorf("gemini returned an empty response")
	}

	out := analysis.GeneratedText{Raw: text, Model: g.model}
	if resp.UsageMetadata != nil {
		out.PromptTokens = int(resp.UsageMetadata.PromptTokenCount)
		out.OutputTokens = int(resp.UsageMetadata.CandidatesTokenCount)
	}

	g.logger.Debug("gemini generation complete",
		zap.String("model", g.model),
		zap.String("mode", modeLabel),
		zap.Int("prompt_tokens", out.PromptTokens),
		zap.Int("output_tokens", out.OutputTokens),
		zap.Duration("elapsed", time.Since(start)))

	return out, nil
}
