package timeline

import (
	"fmt"

	"riftrecap/internal/riot"
)

const (
	// MaxSamples caps every evidence sample list.
	MaxSamples = 5

	// earlyFlashWindowMS flags an escape ability burned just before death.
	earlyFlashWindowMS = 5000

	// abilityContextWindowMS bounds the ability-usage context around a kill.
	abilityContextWindowMS = 10000
)

// Evidence is the capped, per-participant package of timeline-derived facts
// used to ground narrative text. Built fresh per request, never cached.
type Evidence struct {
	Wards  WardEvidence   `json:"wards"`
	Combat CombatEvidence `json:"combat"`
}

type WardEvidence struct {
	TotalPlaced int          `json:"totalPlaced"`
	TotalKilled int          `json:"totalKilled"`
	Samples     []WardSample `json:"samples"` // most recent placements, capped
}

type WardSample struct {
	TimestampMS int    `json:"timestampMs"`
	Clock       string `json:"clock"`
	WardType    string `json:"wardType"`
	Region      string `json:"region"`
}

type CombatEvidence struct {
	Kills            int          `json:"kills"`
	Deaths           int          `json:"deaths"`
	Assists          int          `json:"assists"`
	SoloKills        int          `json:"soloKills"`
	EarlyFlashDeaths int          `json:"earlyFlashDeaths"`
	Samples          []KillSample `json:"samples"` // capped
}

// KillSample is one champion-kill event the participant took part in, with
// nearby ability usage for context.
type KillSample struct {
	TimestampMS    int      `json:"timestampMs"`
	Clock          string   `json:"clock"`
	Role           string   `json:"role"` // killer, victim, assist
	Region         string   `json:"region"`
	AbilityContext []string `json:"abilityContext,omitempty"`
}

// ExtractEvidence mines the timeline for ward and combat evidence around one
// participant. It never fails: a nil or malformed timeline yields an empty
// package, since losing evidence must not take down the strategy.
func ExtractEvidence(timeline *riot.TimelineResponse, participantID int) (ev Evidence) {
	defer func() {
		if r := recover(); r != nil {
			ev = Evidence{}
		}
	}()

	if timeline == nil {
		return Evidence{}
	}

	ev.Wards = extractWards(timeline, participantID)
	ev.Combat = extractCombat(timeline, participantID)
	return ev
}

func extractWards(timeline *riot.TimelineResponse, participantID int) WardEvidence {
	wards := WardEvidence{Samples: make([]WardSample, 0, MaxSamples)}

	var placements []WardSample
	for _, frame := range timeline.Info.Frames {
		for _, event := range frame.Events {
			switch event.Type {
			case riot.EventWardPlaced:
				if event.CreatorID != participantID {
					continue
				}
				wards.TotalPlaced++
				placements = append(placements, WardSample{
					TimestampMS: event.Timestamp,
					Clock:       Clock(event.Timestamp),
					WardType:    event.WardType,
					Region:      RegionLabel(event.Position),
				})
			case riot.EventWardKill:
				if event.KillerID == participantID {
					wards.TotalKilled++
				}
			}
		}
	}

	// Keep the most recent placements.
	if len(placements) > MaxSamples {
		placements = placements[len(placements)-MaxSamples:]
	}
	wards.Samples = append(wards.Samples, placements...)
	return wards
}

func extractCombat(timeline *riot.TimelineResponse, participantID int) CombatEvidence {
	combat := CombatEvidence{Samples: make([]KillSample, 0, MaxSamples)}

	// Flash usage timestamps feed early-flash detection below.
	var flashTimes []int
	for _, frame := range timeline.Info.Frames {
		for _, event := range frame.Events {
			if event.Type == riot.EventSummonerSpellUsed &&
				event.ParticipantID == participantID &&
				event.SpellName == "FLASH" {
				flashTimes = append(flashTimes, event.Timestamp)
			}
		}
	}

	for _, frame := range timeline.Info.Frames {
		for _, event := range frame.Events {
			if event.Type != riot.EventChampionKill {
				continue
			}

			role := ""
			switch {
			case event.KillerID == participantID:
				combat.Kills++
				role = "killer"
				if len(event.AssistingParticipantIDs) == 0 {
					combat.SoloKills++
				}
			case event.VictimID == participantID:
				combat.Deaths++
				role = "victim"
				for _, t := range flashTimes {
					if delta := event.Timestamp - t; delta > 0 && delta < earlyFlashWindowMS {
						combat.EarlyFlashDeaths++
						break
					}
				}
			default:
				for _, pid := range event.AssistingParticipantIDs {
					if pid == participantID {
						combat.Assists++
						role = "assist"
						break
					}
				}
			}

			if role == "" || len(combat.Samples) >= MaxSamples {
				continue
			}
			combat.Samples = append(combat.Samples, KillSample{
				TimestampMS:    event.Timestamp,
				Clock:          Clock(event.Timestamp),
				Role:           role,
				Region:         RegionLabel(event.Position),
				AbilityContext: abilityContext(timeline, participantID, event.Timestamp),
			})
		}
	}

	return combat
}

// abilityContext lists ability and item usage by the participant within the
// context window around ts.
func abilityContext(timeline *riot.TimelineResponse, participantID, ts int) []string {
	var context []string
	for _, frame := range timeline.Info.Frames {
		for _, event := range frame.Events {
			if event.ParticipantID != participantID {
				continue
			}
			if abs(event.Timestamp-ts) > abilityContextWindowMS {
				continue
			}
			switch event.Type {
			case riot.EventSummonerSpellUsed:
				context = append(context, fmt.Sprintf("%s at %s", event.SpellName, Clock(event.Timestamp)))
			case riot.EventSkillLevelUp:
				context = append(context, fmt.Sprintf("skill %d leveled at %s", event.SkillSlot, Clock(event.Timestamp)))
			case riot.EventItemPurchased:
				context = append(context, fmt.Sprintf("item %d bought at %s", event.ItemID, Clock(event.Timestamp)))
			}
		}
	}
	return context
}

// Clock renders a timeline timestamp as MM:SS.
func Clock(ms int) string {
	totalSec := ms / 1000
	return fmt.Sprintf("%d:%02d", totalSec/60, totalSec%60)
}
