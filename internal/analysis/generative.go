package analysis

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"riftrecap/internal/riot"
	"riftrecap/internal/scoring"
	"riftrecap/internal/timeline"
)

// generativeStrategy is the shared engine behind every mode-specific
// strategy: deterministic base report, narrative generation, validation,
// policy screening, and typed degradation to the fallback.
type generativeStrategy struct {
	mode          string
	systemPrompt  string
	policyGuarded bool // reject probability/percentage claims
	focus         func(match *riot.MatchResponse, p *riot.MatchParticipant, s scoring.Scores, ev timeline.Evidence) string

	generator Generator
	logger    *zap.Logger
	fallback  *FallbackStrategy
}

func (s *generativeStrategy) ModeLabel() string { return s.mode }

// Execute runs the full happy path and converges every failure on a degraded
// result from the fallback strategy with the original mode label preserved.
func (s *generativeStrategy) Execute(ctx context.Context, match *riot.MatchResponse, tl *riot.TimelineResponse, participantID int, reqCtx RequestContext) (result StrategyResult) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("strategy panicked", zap.Any("panic", r))
			result = s.degrade(ctx, match, tl, participantID, reqCtx, ReasonInternalPanic, Metrics{})
		}
	}()

	if s.generator == nil {
		return s.degrade(ctx, match, tl, participantID, reqCtx, ReasonGeneratorUnavailable, Metrics{})
	}

	scores := scoring.Compute(match, tl, participantID)
	ev := timeline.ExtractEvidence(tl, participantID)

	prompt := s.buildPrompt(match, participantID, scores, ev, reqCtx)

	start := time.Now()
	generated, err := s.generator.GenerateStructured(ctx, prompt, s.systemPrompt, s.mode)
	metrics := Metrics{
		PromptTokens:       generated.PromptTokens,
		OutputTokens:       generated.OutputTokens,
		GeneratorLatencyMS: time.Since(start).Milliseconds(),
		GeneratorModel:     generated.Model,
	}
	if err != nil {
		s.logger.Warn("narrative generation failed", zap.Error(err))
		return s.degrade(ctx, match, tl, participantID, reqCtx, ReasonGeneratorError, metrics)
	}

	fields, err := ParseNarrative(generated.Raw)
	if err != nil {
		reason := ReasonSchemaInvalid
		if _, ok := err.(*ParseError); ok {
			reason = ReasonParseError
		}
		s.logger.Warn("narrative rejected", zap.String("reason", reason), zap.Error(err))
		return s.degrade(ctx, match, tl, participantID, reqCtx, reason, metrics)
	}

	texts := append([]string{fields.Narrative}, fields.Suggestions...)
	texts = append(texts, fields.Highlights...)

	if s.policyGuarded {
		if err := CheckCompliance(texts...); err != nil {
			s.logger.Warn("narrative rejected", zap.String("reason", ReasonComplianceViolation), zap.Error(err))
			return s.degrade(ctx, match, tl, participantID, reqCtx, ReasonComplianceViolation, metrics)
		}
	}

	if err := CheckHallucination(texts...); err != nil {
		s.logger.Warn("narrative rejected", zap.String("reason", ReasonHallucinationCaught), zap.Error(err))
		return s.degrade(ctx, match, tl, participantID, reqCtx, ReasonHallucinationCaught, metrics)
	}

	return StrategyResult{
		Mode:    s.mode,
		Outcome: OutcomeSuccess,
		Metrics: metrics,
		ScoreData: ScoreData{
			Scores:      scores,
			Narrative:   fields.Narrative,
			Tone:        fields.Tone,
			Highlights:  fields.Highlights,
			Suggestions: fields.Suggestions,
			Evidence:    &ev,
		},
	}
}

// degrade delegates to the fallback strategy and tags the result with the
// failure reason while keeping this strategy's mode label.
func (s *generativeStrategy) degrade(ctx context.Context, match *riot.MatchResponse, tl *riot.TimelineResponse, participantID int, reqCtx RequestContext, reason string, metrics Metrics) StrategyResult {
	result := s.fallback.Execute(ctx, match, tl, participantID, reqCtx)
	result.Mode = s.mode
	result.Outcome = OutcomeDegraded
	result.Metrics = metrics
	result.Metrics.Degraded = true
	result.Metrics.DegradationReason = reason
	return result
}

// buildPrompt assembles the compact textual context handed to the generator.
func (s *generativeStrategy) buildPrompt(match *riot.MatchResponse, participantID int, scores scoring.Scores, ev timeline.Evidence, reqCtx RequestContext) string {
	p := match.ParticipantByID(participantID)
	if p == nil {
		return "participant data unavailable"
	}

	outcome := "loss"
	if p.Win {
		outcome = "win"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Champion: %s (%s), result: %s, duration: %dm%02ds\n",
		p.ChampionName, p.TeamPosition, outcome, match.Info.GameDuration/60, match.Info.GameDuration%60)
	fmt.Fprintf(&b, "KDA: %d/%d/%d (%.1f), cs/min: %.1f, gold/min: %.0f, damage share: %.2f of team damage\n",
		p.Kills, p.Deaths, p.Assists, scores.KDA, scores.CSPerMin, scores.GoldPerMin, scores.DamageShare)
	fmt.Fprintf(&b, "Scores (0-100): overall %.0f, combat %.0f, economy %.0f, vision %.0f, objectives %.0f, laning %.0f\n",
		scores.Overall, scores.Combat, scores.Economy, scores.Vision, scores.Objectives, scores.Laning)

	if focus := s.focus(match, p, scores, ev); focus != "" {
		b.WriteString(focus)
	}

	if len(ev.Combat.Samples) > 0 {
		b.WriteString("Key fights:\n")
		for _, sample := range ev.Combat.Samples {
			fmt.Fprintf(&b, "- %s at %s (%s)\n", sample.Role, sample.Clock, sample.Region)
		}
	}
	if ev.Combat.EarlyFlashDeaths > 0 {
		fmt.Fprintf(&b, "Flash was burned within 5s of dying %d time(s).\n", ev.Combat.EarlyFlashDeaths)
	}

	if reqCtx.Personalization != "" {
		fmt.Fprintf(&b, "Player context: %s\n", reqCtx.Personalization)
	}

	return b.String()
}
