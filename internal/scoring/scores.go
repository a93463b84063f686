// Package scoring computes deterministic per-participant performance scores
// from a match and its timeline. Everything here is a pure function of its
// inputs; the narrative layer consumes these numbers but never changes them.
package scoring

import (
	"math"
	"strconv"

	"riftrecap/internal/riot"
	"riftrecap/internal/timeline"
)

// laningCheckpointMS is the timestamp used for laning-phase comparisons.
const laningCheckpointMS = 600000 // 10 minutes

// Scores is the deterministic score summary for one participant. Component
// scores are scaled 0-100.
type Scores struct {
	Overall    float64 `json:"overall"`
	Combat     float64 `json:"combat"`
	Economy    float64 `json:"economy"`
	Vision     float64 `json:"vision"`
	Objectives float64 `json:"objectives"`
	Laning     float64 `json:"laning"`

	KDA               float64 `json:"kda"`
	CSPerMin          float64 `json:"csPerMin"`
	GoldPerMin        float64 `json:"goldPerMin"`
	DamageShare       float64 `json:"damageShare"`       // 0-1 of team damage
	KillParticipation float64 `json:"killParticipation"` // 0-1 of team kills

	// GoldDiffAt10 and XPDiffAt10 compare against the lane opponent at the
	// laning checkpoint; zero when no opponent or frame was resolvable.
	GoldDiffAt10 int `json:"goldDiffAt10"`
	XPDiffAt10   int `json:"xpDiffAt10"`
}

// Compute derives the full score summary for one participant. A nil timeline
// zeroes the laning comparison but everything else still computes.
func Compute(match *riot.MatchResponse, tl *riot.TimelineResponse, participantID int) Scores {
	if match == nil {
		return Scores{}
	}
	p := match.ParticipantByID(participantID)
	if p == nil {
		return Scores{}
	}

	minutes := float64(match.Info.GameDuration) / 60.0
	if minutes <= 0 {
		minutes = 1
	}

	s := Scores{
		KDA:        kda(p.Kills, p.Deaths, p.Assists),
		CSPerMin:   float64(p.TotalMinionsKilled+p.NeutralMinionsKilled) / minutes,
		GoldPerMin: float64(p.GoldEarned) / minutes,
	}

	teamKills, teamDamage := teamTotals(match, p.TeamID)
	if teamDamage > 0 {
		s.DamageShare = float64(p.TotalDamageDealtToChampions) / float64(teamDamage)
	}
	if teamKills > 0 {
		// Assists on shared kills can push K+A past team kills in odd data.
		s.KillParticipation = math.Min(1, float64(p.Kills+p.Assists)/float64(teamKills))
	}

	s.GoldDiffAt10, s.XPDiffAt10 = laningDiff(match, tl, p)

	s.Combat = clamp(s.KDA*12 + s.DamageShare*120 + s.KillParticipation*30)
	s.Economy = clamp(s.CSPerMin*8 + s.GoldPerMin/6)
	s.Vision = clamp(float64(p.VisionScore)*2.2 + float64(p.WardsKilled)*3)
	s.Objectives = clamp(float64(p.TurretTakedowns)*12 + float64(p.DragonTakedowns)*15 + float64(p.BaronTakedowns)*20)
	s.Laning = clamp(50 + float64(s.GoldDiffAt10)/30 + float64(s.XPDiffAt10)/40)

	s.Overall = clamp(s.Combat*0.35 + s.Economy*0.25 + s.Laning*0.2 + s.Vision*0.1 + s.Objectives*0.1)
	return s
}

func kda(kills, deaths, assists int) float64 {
	if deaths == 0 {
		return float64(kills + assists)
	}
	return float64(kills+assists) / float64(deaths)
}

func teamTotals(match *riot.MatchResponse, teamID int) (kills, damage int) {
	for _, p := range match.Info.Participants {
		if p.TeamID != teamID {
			continue
		}
		kills += p.Kills
		damage += p.TotalDamageDealtToChampions
	}
	return kills, damage
}

// laningDiff compares gold and xp against the lane opponent at the 10-minute
// checkpoint. Falls back to zero when the opponent or a usable frame is
// missing rather than failing the whole computation.
func laningDiff(match *riot.MatchResponse, tl *riot.TimelineResponse, p *riot.MatchParticipant) (goldDiff, xpDiff int) {
	if tl == nil || p.TeamPosition == "" {
		return 0, 0
	}

	var opponent *riot.MatchParticipant
	for i := range match.Info.Participants {
		o := &match.Info.Participants[i]
		if o.TeamID != p.TeamID && o.TeamPosition == p.TeamPosition {
			opponent = o
			break
		}
	}
	if opponent == nil {
		return 0, 0
	}

	frame, _ := timeline.ResolveFrame(tl.Info.Frames, laningCheckpointMS, timeline.DefaultToleranceMS,
		[]int{p.ParticipantID, opponent.ParticipantID})
	if frame == nil {
		return 0, 0
	}

	mine := frame.ParticipantFrames[strconv.Itoa(p.ParticipantID)]
	theirs := frame.ParticipantFrames[strconv.Itoa(opponent.ParticipantID)]
	return mine.TotalGold - theirs.TotalGold, mine.XP - theirs.XP
}

func clamp(v float64) float64 {
	return math.Max(0, math.Min(100, v))
}
