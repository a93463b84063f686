package analysis

import (
	"fmt"
	"strings"

	"riftrecap/internal/gamemode"
	"riftrecap/internal/riot"
	"riftrecap/internal/scoring"
	"riftrecap/internal/timeline"
)

const riftSystemPrompt = `You are a League of Legends performance coach reviewing one player's Summoner's Rift game.
Write a grounded review using ONLY the stats and events supplied in the context.
Never invent numbers, never claim data is missing, and never state win probabilities or percentages.
Respond with a single JSON object: {"narrative": string, "tone": one of ["positive","encouraging","neutral","critical"], "highlights": [string], "suggestions": [string]}.`

// newSummonersRiftStrategy analyzes the primary map: laning, vision and
// objective play matter here, and the mode is policy-constrained.
func newSummonersRiftStrategy(deps Deps) Strategy {
	mode := string(gamemode.ModeSummonersRift)
	return &generativeStrategy{
		mode:          mode,
		systemPrompt:  riftSystemPrompt,
		policyGuarded: true,
		focus:         riftFocus,
		generator:     deps.Generator,
		logger:        deps.Logger.Named("strategy").With(modeField(mode)),
		fallback:      NewFallbackStrategy(mode, deps.Logger),
	}
}

func riftFocus(match *riot.MatchResponse, p *riot.MatchParticipant, s scoring.Scores, ev timeline.Evidence) string {
	var b strings.Builder

	if s.GoldDiffAt10 != 0 || s.XPDiffAt10 != 0 {
		fmt.Fprintf(&b, "Laning at 10:00: %+d gold, %+d xp against the lane opponent.\n",
			s.GoldDiffAt10, s.XPDiffAt10)
	}

	fmt.Fprintf(&b, "Vision: %d wards placed, %d cleared.\n", ev.Wards.TotalPlaced, ev.Wards.TotalKilled)
	for _, w := range ev.Wards.Samples {
		fmt.Fprintf(&b, "- ward at %s (%s)\n", w.Clock, w.Region)
	}

	if p.TurretTakedowns+p.DragonTakedowns+p.BaronTakedowns > 0 {
		fmt.Fprintf(&b, "Objectives: %d turrets, %d dragons, %d barons.\n",
			p.TurretTakedowns, p.DragonTakedowns, p.BaronTakedowns)
	}
	return b.String()
}
