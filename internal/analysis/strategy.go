package analysis

import (
	"context"

	"go.uber.org/zap"

	"riftrecap/internal/gamemode"
	"riftrecap/internal/riot"
)

// Strategy is the common contract all mode analyses implement. Execute never
// propagates an error; every failure path returns a degraded result.
type Strategy interface {
	Execute(ctx context.Context, match *riot.MatchResponse, tl *riot.TimelineResponse, participantID int, reqCtx RequestContext) StrategyResult
	ModeLabel() string
}

// Deps holds the collaborators a strategy needs. The factory is stateless and
// safe to share across concurrent task executions.
type Deps struct {
	Generator Generator
	Logger    *zap.Logger
}

// NewStrategy maps a resolved mode to its strategy. Strategies are built
// lazily, only when selected. Any instantiation problem - in practice a
// missing generator for a generative mode - selects the fallback strategy
// instead of failing the caller.
func NewStrategy(mode gamemode.Mode, deps Deps) Strategy {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
		deps.Logger = logger
	}

	if mode == gamemode.ModeUnknown {
		return NewFallbackStrategy(string(mode), logger)
	}

	if deps.Generator == nil {
		logger.Warn("no narrative generator configured, selecting fallback",
			zap.String("mode", string(mode)))
		return NewFallbackStrategy(string(mode), logger)
	}

	switch mode {
	case gamemode.ModeSummonersRift:
		return newSummonersRiftStrategy(deps)
	case gamemode.ModeARAM:
		return newARAMStrategy(deps)
	case gamemode.ModeArena:
		return newArenaStrategy(deps)
	default:
		logger.Warn("unmapped mode, selecting fallback", zap.String("mode", string(mode)))
		return NewFallbackStrategy(string(mode), logger)
	}
}

// NewStrategyForSignals is the safeguarded variant: it re-derives the mode
// from raw signals before dispatching, for callers that cannot trust an
// upstream label.
func NewStrategyForSignals(queueID int, rawMode string, participantCount int, deps Deps) Strategy {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	mode := gamemode.NewResolver(logger).Resolve(queueID, rawMode, participantCount)
	return NewStrategy(mode, deps)
}
