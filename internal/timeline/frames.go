// Package timeline mines per-minute match timelines: resolving the snapshot
// closest to a target time and extracting capped evidence samples for one
// participant.
package timeline

import (
	"sort"
	"strconv"

	"riftrecap/internal/riot"
)

// DefaultToleranceMS is the default window around the target timestamp.
const DefaultToleranceMS = 15000

// Resolution reasons recorded in FrameMeta.
const (
	ReasonExact          = "exact"
	ReasonNearest        = "nearest"
	ReasonExpandedSearch = "expanded-search"
)

// FrameMeta describes how a frame was chosen.
type FrameMeta struct {
	// DeltaMS is the signed distance from the target to the chosen frame.
	DeltaMS int
	Reason  string
}

// ResolveFrame finds the frame closest to targetMS within tolMS that carries
// participant data for every id in requiredPIDs. When the primary window
// yields nothing usable the search widens to the whole list, because
// truncated timelines sometimes drop participant frames and failing outright
// would break every metric downstream. Returns (nil, nil) if no frame
// qualifies anywhere.
func ResolveFrame(frames []riot.TimelineFrame, targetMS, tolMS int, requiredPIDs []int) (*riot.TimelineFrame, *FrameMeta) {
	if len(frames) == 0 {
		return nil, nil
	}
	if tolMS <= 0 {
		tolMS = DefaultToleranceMS
	}

	// First frame at/after the target.
	after := sort.Search(len(frames), func(i int) bool {
		return frames[i].Timestamp >= targetMS
	})

	// Exact hit with usable data wins immediately.
	if after < len(frames) && frames[after].Timestamp == targetMS && hasParticipantData(&frames[after], requiredPIDs) {
		return &frames[after], &FrameMeta{DeltaMS: 0, Reason: ReasonExact}
	}

	// Candidates bracketing the target.
	var candidates []int
	if after < len(frames) {
		candidates = append(candidates, after)
	}
	if after > 0 {
		candidates = append(candidates, after-1)
	}

	best := -1
	bestDelta := 0
	for _, i := range candidates {
		delta := frames[i].Timestamp - targetMS
		if abs(delta) > tolMS {
			continue
		}
		if !hasParticipantData(&frames[i], requiredPIDs) {
			continue
		}
		if best == -1 || abs(delta) < abs(bestDelta) {
			best = i
			bestDelta = delta
		}
	}
	if best >= 0 {
		return &frames[best], &FrameMeta{DeltaMS: bestDelta, Reason: ReasonNearest}
	}

	// Widen to the entire list: closest frame anywhere that qualifies.
	for i := range frames {
		delta := frames[i].Timestamp - targetMS
		if !hasParticipantData(&frames[i], requiredPIDs) {
			continue
		}
		if best == -1 || abs(delta) < abs(bestDelta) {
			best = i
			bestDelta = delta
		}
	}
	if best >= 0 {
		return &frames[best], &FrameMeta{DeltaMS: bestDelta, Reason: ReasonExpandedSearch}
	}

	return nil, nil
}

// hasParticipantData reports whether the frame carries a snapshot for every
// required participant.
func hasParticipantData(frame *riot.TimelineFrame, requiredPIDs []int) bool {
	if len(requiredPIDs) == 0 {
		return true
	}
	if len(frame.ParticipantFrames) == 0 {
		return false
	}
	for _, pid := range requiredPIDs {
		if _, ok := frame.ParticipantFrames[strconv.Itoa(pid)]; !ok {
			return false
		}
	}
	return true
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
