package analysis

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"riftrecap/internal/gamemode"
	"riftrecap/internal/riot"
	"riftrecap/internal/scoring"
	"riftrecap/internal/timeline"
)

const arenaSystemPrompt = `You are a League of Legends coach reviewing one player's Arena game (2v2v2v2 rounds).
Final placement and round-by-round dueling are what matter; there are no lanes, objectives, or wards.
Use ONLY the stats and events supplied. Never invent numbers, never claim data is missing,
and never state win probabilities or percentages.
Respond with a single JSON object: {"narrative": string, "tone": one of ["positive","encouraging","neutral","critical"], "highlights": [string], "suggestions": [string]}.`

// newArenaStrategy analyzes the free-for-all map: placement-driven, duel
// heavy, no map objectives.
func newArenaStrategy(deps Deps) Strategy {
	mode := string(gamemode.ModeArena)
	return &generativeStrategy{
		mode:          mode,
		systemPrompt:  arenaSystemPrompt,
		policyGuarded: true,
		focus:         arenaFocus,
		generator:     deps.Generator,
		logger:        deps.Logger.Named("strategy").With(modeField(mode)),
		fallback:      NewFallbackStrategy(mode, deps.Logger),
	}
}

func arenaFocus(match *riot.MatchResponse, p *riot.MatchParticipant, s scoring.Scores, ev timeline.Evidence) string {
	var b strings.Builder

	if p.Placement > 0 {
		fmt.Fprintf(&b, "Final placement: %s of %d teams.\n",
			ordinal(p.Placement), len(match.Info.Participants)/2)
	}
	fmt.Fprintf(&b, "Dueling: %d kills (%d solo), %d deaths, %d damage dealt.\n",
		ev.Combat.Kills, ev.Combat.SoloKills, ev.Combat.Deaths, p.TotalDamageDealtToChampions)
	return b.String()
}

func ordinal(n int) string {
	switch n {
	case 1:
		return "1st"
	case 2:
		return "2nd"
	case 3:
		return "3rd"
	default:
		return fmt.Sprintf("%dth", n)
	}
}

func modeField(mode string) zap.Field {
	return zap.String("mode", mode)
}
