package timeline

import (
	"testing"

	"riftrecap/internal/riot"
)

func timelineWithEvents(events ...riot.TimelineEvent) *riot.TimelineResponse {
	return &riot.TimelineResponse{
		Info: riot.TimelineInfo{
			FrameInterval: 60000,
			Frames: []riot.TimelineFrame{
				{Timestamp: 0},
				{Timestamp: 60000, Events: events},
			},
		},
	}
}

// TestExtractEvidence_WardSampleCap verifies the sample list never exceeds the
// cap regardless of event volume.
func TestExtractEvidence_WardSampleCap(t *testing.T) {
	var events []riot.TimelineEvent
	for i := 0; i < 40; i++ {
		events = append(events, riot.TimelineEvent{
			Type:      riot.EventWardPlaced,
			Timestamp: i * 10000,
			CreatorID: 3,
			WardType:  "YELLOW_TRINKET",
			Position:  riot.Position{X: 5000, Y: 10000},
		})
	}

	ev := ExtractEvidence(timelineWithEvents(events...), 3)

	if ev.Wards.TotalPlaced != 40 {
		t.Errorf("Expected 40 placements counted, got %d", ev.Wards.TotalPlaced)
	}
	if len(ev.Wards.Samples) > MaxSamples {
		t.Errorf("Ward samples exceed cap: %d", len(ev.Wards.Samples))
	}
	// Most recent placements are kept.
	if ev.Wards.Samples[0].TimestampMS != 35*10000 {
		t.Errorf("Expected most recent samples, first is %d", ev.Wards.Samples[0].TimestampMS)
	}
}

// TestExtractEvidence_KillSampleCap verifies the combat sample cap.
func TestExtractEvidence_KillSampleCap(t *testing.T) {
	var events []riot.TimelineEvent
	for i := 0; i < 20; i++ {
		events = append(events, riot.TimelineEvent{
			Type:      riot.EventChampionKill,
			Timestamp: i * 30000,
			KillerID:  3,
			VictimID:  8,
			Position:  riot.Position{X: 7400, Y: 7400},
		})
	}

	ev := ExtractEvidence(timelineWithEvents(events...), 3)

	if ev.Combat.Kills != 20 {
		t.Errorf("Expected 20 kills, got %d", ev.Combat.Kills)
	}
	if ev.Combat.SoloKills != 20 {
		t.Errorf("Expected 20 solo kills, got %d", ev.Combat.SoloKills)
	}
	if len(ev.Combat.Samples) > MaxSamples {
		t.Errorf("Kill samples exceed cap: %d", len(ev.Combat.Samples))
	}
}

// TestExtractEvidence_Tallies covers killer/victim/assist attribution.
func TestExtractEvidence_Tallies(t *testing.T) {
	ev := ExtractEvidence(timelineWithEvents(
		riot.TimelineEvent{Type: riot.EventChampionKill, Timestamp: 100000, KillerID: 3, VictimID: 8,
			AssistingParticipantIDs: []int{4}},
		riot.TimelineEvent{Type: riot.EventChampionKill, Timestamp: 200000, KillerID: 8, VictimID: 3},
		riot.TimelineEvent{Type: riot.EventChampionKill, Timestamp: 300000, KillerID: 4, VictimID: 9,
			AssistingParticipantIDs: []int{3, 5}},
		riot.TimelineEvent{Type: riot.EventWardKill, Timestamp: 350000, KillerID: 3},
	), 3)

	if ev.Combat.Kills != 1 || ev.Combat.Deaths != 1 || ev.Combat.Assists != 1 {
		t.Errorf("Expected 1/1/1 K/D/A, got %d/%d/%d", ev.Combat.Kills, ev.Combat.Deaths, ev.Combat.Assists)
	}
	if ev.Combat.SoloKills != 0 {
		t.Errorf("Assisted kill counted as solo: %d", ev.Combat.SoloKills)
	}
	if ev.Wards.TotalKilled != 1 {
		t.Errorf("Expected 1 ward cleared, got %d", ev.Wards.TotalKilled)
	}
}

// TestExtractEvidence_EarlyFlash verifies the flash-into-death window.
func TestExtractEvidence_EarlyFlash(t *testing.T) {
	ev := ExtractEvidence(timelineWithEvents(
		riot.TimelineEvent{Type: riot.EventSummonerSpellUsed, Timestamp: 97000, ParticipantID: 3, SpellName: "FLASH"},
		riot.TimelineEvent{Type: riot.EventChampionKill, Timestamp: 100000, KillerID: 8, VictimID: 3},
		// Flash well before a later death: not counted.
		riot.TimelineEvent{Type: riot.EventSummonerSpellUsed, Timestamp: 150000, ParticipantID: 3, SpellName: "FLASH"},
		riot.TimelineEvent{Type: riot.EventChampionKill, Timestamp: 190000, KillerID: 9, VictimID: 3},
	), 3)

	if ev.Combat.EarlyFlashDeaths != 1 {
		t.Errorf("Expected 1 early-flash death, got %d", ev.Combat.EarlyFlashDeaths)
	}
}

// TestExtractEvidence_AbilityContext verifies nearby ability usage is attached
// to kill samples.
func TestExtractEvidence_AbilityContext(t *testing.T) {
	ev := ExtractEvidence(timelineWithEvents(
		riot.TimelineEvent{Type: riot.EventSummonerSpellUsed, Timestamp: 95000, ParticipantID: 3, SpellName: "IGNITE"},
		riot.TimelineEvent{Type: riot.EventChampionKill, Timestamp: 100000, KillerID: 3, VictimID: 8},
		// Outside the ±10s window.
		riot.TimelineEvent{Type: riot.EventItemPurchased, Timestamp: 140000, ParticipantID: 3, ItemID: 3153},
	), 3)

	if len(ev.Combat.Samples) != 1 {
		t.Fatalf("Expected 1 kill sample, got %d", len(ev.Combat.Samples))
	}
	sample := ev.Combat.Samples[0]
	if len(sample.AbilityContext) != 1 {
		t.Fatalf("Expected 1 context entry, got %v", sample.AbilityContext)
	}
}

// TestExtractEvidence_NilTimeline verifies a nil timeline degrades to an empty
// package instead of panicking.
func TestExtractEvidence_NilTimeline(t *testing.T) {
	ev := ExtractEvidence(nil, 3)
	if ev.Wards.TotalPlaced != 0 || ev.Combat.Kills != 0 {
		t.Errorf("Expected empty evidence, got %+v", ev)
	}
}

// TestRegionLabel spot-checks the named boxes and lane heuristics.
func TestRegionLabel(t *testing.T) {
	cases := []struct {
		pos  riot.Position
		want string
	}{
		{riot.Position{X: 5000, Y: 10400}, "Baron pit"},
		{riot.Position{X: 9900, Y: 4300}, "Dragon pit"},
		{riot.Position{X: 500, Y: 500}, "blue-side base"},
		{riot.Position{X: 7400, Y: 7400}, "mid lane"},
		{riot.Position{X: 2000, Y: 13000}, "top lane"},
		{riot.Position{X: 13000, Y: 2000}, "bottom lane"},
	}
	for _, c := range cases {
		if got := RegionLabel(c.pos); got != c.want {
			t.Errorf("RegionLabel(%d,%d) = %q, want %q", c.pos.X, c.pos.Y, got, c.want)
		}
	}
}

// TestClock verifies the human-readable clock rendering.
func TestClock(t *testing.T) {
	for _, c := range []struct {
		ms   int
		want string
	}{
		{0, "0:00"}, {65000, "1:05"}, {600000, "10:00"}, {754000, "12:34"},
	} {
		if got := Clock(c.ms); got != c.want {
			t.Errorf("Clock(%d) = %q, want %q", c.ms, got, c.want)
		}
	}
}
