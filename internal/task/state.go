// Package task drives one analysis from fetch to delivery and schedules
// concurrent executions with retry on rate limiting.
package task

import (
	"fmt"
	"sync"
)

// Stage names one step of a task execution.
type Stage string

const (
	StagePending          Stage = "pending"
	StageFetching         Stage = "fetching"
	StagePersisting       Stage = "persisting"
	StageResolvingMode    Stage = "mode-resolving"
	StageStrategizing     Stage = "strategizing"
	StagePersistingResult Stage = "persisting-result"
	StageDelivering       Stage = "delivering"
	StageDone             Stage = "done"
	StageFailed           Stage = "failed"
)

// next maps each stage to its single legal successor. failed is reachable
// from every non-terminal stage.
var next = map[Stage]Stage{
	StagePending:          StageFetching,
	StageFetching:         StagePersisting,
	StagePersisting:       StageResolvingMode,
	StageResolvingMode:    StageStrategizing,
	StageStrategizing:     StagePersistingResult,
	StagePersistingResult: StageDelivering,
	StageDelivering:       StageDone,
}

// StateMachine tracks the stage of a single task execution. Stages advance
// strictly forward; there is no re-entry.
type StateMachine struct {
	mu           sync.Mutex
	current      Stage
	onTransition func(from, to Stage)
}

// NewStateMachine starts in pending.
func NewStateMachine() *StateMachine {
	return &StateMachine{current: StagePending}
}

// OnTransition registers a callback invoked after every successful
// transition. Must be set before the first TransitionTo.
func (sm *StateMachine) OnTransition(fn func(from, to Stage)) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.onTransition = fn
}

// Current returns the present stage.
func (sm *StateMachine) Current() Stage {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	return sm.current
}

// TransitionTo advances to the given stage. Only the linear successor and
// failed are legal; terminal stages accept no further transitions.
func (sm *StateMachine) TransitionTo(to Stage) error {
	sm.mu.Lock()

	from := sm.current
	if from == StageDone || from == StageFailed {
		sm.mu.Unlock()
		return fmt.Errorf("cannot leave terminal stage %s", from)
	}
	if to != StageFailed && next[from] != to {
		sm.mu.Unlock()
		return fmt.Errorf("illegal transition %s -> %s", from, to)
	}

	sm.current = to
	fn := sm.onTransition
	sm.mu.Unlock()

	if fn != nil {
		fn(from, to)
	}
	return nil
}
