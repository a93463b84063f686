// Package gamemode resolves a canonical game mode from partially-trustworthy
// signals: the numeric queue id, the raw mode string, and the participant
// count. Resolution is pure and deterministic and never fails - unknown
// inputs yield ModeUnknown.
package gamemode

import "go.uber.org/zap"

// Mode is a canonical game-mode label.
type Mode string

const (
	ModeSummonersRift Mode = "summoners-rift" // primary map
	ModeARAM          Mode = "aram"           // team-fight map
	ModeArena         Mode = "arena"          // free-for-all map
	ModeUnknown       Mode = "unknown"
)

// summonersRiftPartySize is the fixed participant count on the primary map.
const summonersRiftPartySize = 10

// queueModes maps queue ids to a base label.
var queueModes = map[int]Mode{
	400:  ModeSummonersRift, // normal draft
	420:  ModeSummonersRift, // ranked solo
	430:  ModeSummonersRift, // normal blind
	440:  ModeSummonersRift, // ranked flex
	490:  ModeSummonersRift, // quickplay
	700:  ModeSummonersRift, // clash
	450:  ModeARAM,
	1700: ModeArena,
	1710: ModeArena,
}

// stringModes maps raw mode strings to a label. Strings are considered more
// authoritative than queue ids when both resolve.
var stringModes = map[string]Mode{
	"CLASSIC": ModeSummonersRift,
	"ARAM":    ModeARAM,
	"CHERRY":  ModeArena,
}

// Policy controls the tie-break when queue id and mode string disagree. The
// rule came from observed data quirks, not a documented contract, so it is
// configurable rather than hard-coded.
type Policy struct {
	PreferQueueID bool
}

// Resolver computes canonical mode labels.
type Resolver struct {
	policy Policy
	logger *zap.Logger
}

// NewResolver creates a resolver with the default prefer-string policy.
func NewResolver(logger *zap.Logger) *Resolver {
	return NewResolverWithPolicy(Policy{}, logger)
}

// NewResolverWithPolicy creates a resolver with an explicit tie-break policy.
func NewResolverWithPolicy(policy Policy, logger *zap.Logger) *Resolver {
	return &Resolver{policy: policy, logger: logger.Named("gamemode")}
}

// Resolve returns the canonical label for the given signals. Identical inputs
// always yield the identical label.
func (r *Resolver) Resolve(queueID int, rawMode string, participantCount int) Mode {
	fromQueue, queueOK := queueModes[queueID]
	fromString, stringOK := stringModes[rawMode]

	var mode Mode
	switch {
	case queueOK && stringOK:
		if fromQueue != fromString {
			r.logger.Warn("mode signals disagree",
				zap.Int("queue_id", queueID),
				zap.String("raw_mode", rawMode),
				zap.String("from_queue", string(fromQueue)),
				zap.String("from_string", string(fromString)))
			if r.policy.PreferQueueID {
				mode = fromQueue
			} else {
				mode = fromString
			}
		} else {
			mode = fromString
		}
	case stringOK:
		mode = fromString
	case queueOK:
		mode = fromQueue
	default:
		return ModeUnknown
	}

	// Known data quirk: some arena-tagged records are actually standard
	// ten-player games on the primary map.
	if mode == ModeArena && participantCount == summonersRiftPartySize {
		r.logger.Warn("arena label with full primary-map lobby, overriding",
			zap.Int("queue_id", queueID),
			zap.Int("participants", participantCount))
		mode = ModeSummonersRift
	}

	return mode
}
