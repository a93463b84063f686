package scoring

import (
	"testing"

	"riftrecap/internal/riot"
)

func testMatch() *riot.MatchResponse {
	return &riot.MatchResponse{
		Info: riot.MatchInfo{
			GameDuration: 1800, // 30 min
			QueueID:      420,
			Participants: []riot.MatchParticipant{
				{ParticipantID: 1, TeamID: 100, TeamPosition: "MIDDLE", Kills: 8, Deaths: 2, Assists: 6,
					GoldEarned: 13500, TotalMinionsKilled: 210, TotalDamageDealtToChampions: 24000,
					VisionScore: 22, WardsPlaced: 9, WardsKilled: 3, TurretTakedowns: 2, DragonTakedowns: 1},
				{ParticipantID: 2, TeamID: 100, Kills: 4, Deaths: 5, Assists: 10, TotalDamageDealtToChampions: 16000},
				{ParticipantID: 6, TeamID: 200, TeamPosition: "MIDDLE", Kills: 3, Deaths: 6, Assists: 4,
					GoldEarned: 10500, TotalDamageDealtToChampions: 14000},
			},
		},
	}
}

func testTimeline() *riot.TimelineResponse {
	frames := []riot.TimelineFrame{
		{Timestamp: 0},
		{Timestamp: 600000, ParticipantFrames: map[string]riot.ParticipantFrame{
			"1": {ParticipantID: 1, TotalGold: 3900, XP: 4700},
			"6": {ParticipantID: 6, TotalGold: 3300, XP: 4300},
		}},
	}
	return &riot.TimelineResponse{Info: riot.TimelineInfo{Frames: frames}}
}

// TestCompute_Deterministic verifies repeated calls produce identical scores.
func TestCompute_Deterministic(t *testing.T) {
	match, tl := testMatch(), testTimeline()

	first := Compute(match, tl, 1)
	for i := 0; i < 3; i++ {
		if got := Compute(match, tl, 1); got != first {
			t.Fatalf("Compute not deterministic: %+v vs %+v", first, got)
		}
	}
}

// TestCompute_Basics sanity-checks the derived rates.
func TestCompute_Basics(t *testing.T) {
	s := Compute(testMatch(), testTimeline(), 1)

	if s.KDA != 7.0 {
		t.Errorf("Expected KDA 7.0, got %f", s.KDA)
	}
	if s.CSPerMin != 7.0 {
		t.Errorf("Expected 7 cs/min, got %f", s.CSPerMin)
	}
	if s.GoldDiffAt10 != 600 {
		t.Errorf("Expected +600 gold at 10, got %d", s.GoldDiffAt10)
	}
	if s.XPDiffAt10 != 400 {
		t.Errorf("Expected +400 xp at 10, got %d", s.XPDiffAt10)
	}
	if s.Overall <= 0 || s.Overall > 100 {
		t.Errorf("Overall out of range: %f", s.Overall)
	}
	if s.KillParticipation <= 0 || s.KillParticipation > 1 {
		t.Errorf("Kill participation out of range: %f", s.KillParticipation)
	}
}

// TestCompute_ZeroDeaths verifies the KDA guard against division by zero.
func TestCompute_ZeroDeaths(t *testing.T) {
	match := testMatch()
	match.Info.Participants[0].Deaths = 0

	s := Compute(match, nil, 1)
	if s.KDA != 14.0 {
		t.Errorf("Expected KDA 14 with zero deaths, got %f", s.KDA)
	}
}

// TestCompute_NilTimeline verifies laning diffs zero out without a timeline.
func TestCompute_NilTimeline(t *testing.T) {
	s := Compute(testMatch(), nil, 1)
	if s.GoldDiffAt10 != 0 || s.XPDiffAt10 != 0 {
		t.Errorf("Expected zero diffs without timeline, got %d/%d", s.GoldDiffAt10, s.XPDiffAt10)
	}
	if s.Combat == 0 {
		t.Error("Combat score should still compute without a timeline")
	}
}

// TestCompute_UnknownParticipant verifies a missing participant yields zeroes.
func TestCompute_UnknownParticipant(t *testing.T) {
	if s := Compute(testMatch(), nil, 42); s != (Scores{}) {
		t.Errorf("Expected zero scores for unknown participant, got %+v", s)
	}
}
