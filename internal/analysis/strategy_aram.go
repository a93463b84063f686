package analysis

import (
	"fmt"
	"strings"

	"riftrecap/internal/gamemode"
	"riftrecap/internal/riot"
	"riftrecap/internal/scoring"
	"riftrecap/internal/timeline"
)

const aramSystemPrompt = `You are a League of Legends coach reviewing one player's ARAM game on the Howling Abyss.
There is no laning phase and no warding economy: judge team fighting, positioning, and damage trading only,
using ONLY the stats and events supplied. Never invent numbers, never claim data is missing,
and never state win probabilities or percentages.
Respond with a single JSON object: {"narrative": string, "tone": one of ["positive","encouraging","neutral","critical"], "highlights": [string], "suggestions": [string]}.`

// newARAMStrategy analyzes the team-fight map: one lane, constant skirmishes,
// no laning or vision economy worth scoring.
func newARAMStrategy(deps Deps) Strategy {
	mode := string(gamemode.ModeARAM)
	return &generativeStrategy{
		mode:          mode,
		systemPrompt:  aramSystemPrompt,
		policyGuarded: true,
		focus:         aramFocus,
		generator:     deps.Generator,
		logger:        deps.Logger.Named("strategy").With(modeField(mode)),
		fallback:      NewFallbackStrategy(mode, deps.Logger),
	}
}

func aramFocus(match *riot.MatchResponse, p *riot.MatchParticipant, s scoring.Scores, ev timeline.Evidence) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Team fighting: kill participation %.2f (share of team kills), %d solo kills.\n",
		s.KillParticipation, ev.Combat.SoloKills)
	fmt.Fprintf(&b, "Damage: %d dealt to champions, %d taken.\n",
		p.TotalDamageDealtToChampions, p.TotalDamageTaken)
	return b.String()
}
