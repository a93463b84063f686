package analysis

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"riftrecap/internal/riot"
	"riftrecap/internal/scoring"
	"riftrecap/internal/timeline"
)

// FallbackStrategy produces a deterministic-only report: per-participant
// stats plus a template summary, with no text-generation call. It serves both
// as the strategy for unsupported modes and as the degradation target for
// every generative strategy.
type FallbackStrategy struct {
	mode   string
	logger *zap.Logger
}

// NewFallbackStrategy creates a fallback strategy reporting the given mode
// label. The label is preserved so downstream consumers still know which
// mode the match was even after degradation.
func NewFallbackStrategy(mode string, logger *zap.Logger) *FallbackStrategy {
	return &FallbackStrategy{mode: mode, logger: logger.Named("fallback")}
}

func (s *FallbackStrategy) ModeLabel() string { return s.mode }

// Execute never fails and never calls the generator.
func (s *FallbackStrategy) Execute(ctx context.Context, match *riot.MatchResponse, tl *riot.TimelineResponse, participantID int, reqCtx RequestContext) StrategyResult {
	_ = ctx

	scores := scoring.Compute(match, tl, participantID)
	ev := timeline.ExtractEvidence(tl, participantID)

	return StrategyResult{
		Mode:    s.mode,
		Outcome: OutcomeSuccess,
		ScoreData: ScoreData{
			Scores:    scores,
			Narrative: templateSummary(match, participantID, scores),
			Tone:      templateTone(match, participantID),
			Evidence:  &ev,
		},
	}
}

// templateSummary builds the deterministic narrative used when generation is
// unavailable or rejected.
func templateSummary(match *riot.MatchResponse, participantID int, s scoring.Scores) string {
	var p *riot.MatchParticipant
	if match != nil {
		p = match.ParticipantByID(participantID)
	}
	if p == nil {
		return "No participant data was recorded for this match."
	}

	outcome := "defeat"
	if p.Win {
		outcome = "victory"
	}

	summary := fmt.Sprintf(
		"%s finished the game in a %s with %d kills, %d deaths and %d assists (%.1f KDA). "+
			"Farm held at %.1f cs per minute with %.0f gold per minute, and overall performance rated %.0f out of 100.",
		p.ChampionName, outcome, p.Kills, p.Deaths, p.Assists, s.KDA, s.CSPerMin, s.GoldPerMin, s.Overall)

	if s.GoldDiffAt10 != 0 {
		summary += fmt.Sprintf(" At ten minutes the lane stood at %+d gold against the direct opponent.", s.GoldDiffAt10)
	}
	return summary
}

func templateTone(match *riot.MatchResponse, participantID int) string {
	if match == nil {
		return "encouraging"
	}
	p := match.ParticipantByID(participantID)
	if p != nil && p.Win {
		return "positive"
	}
	return "encouraging"
}
