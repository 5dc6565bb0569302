package game

import (
	"fmt"

	"github.com/plus3/veggietd/ecs"
)

type GameState int

const (
	MainMenu GameState = iota
	InGame
	GameOver
)

func (s GameState) String() string {
	switch s {
	case MainMenu:
		return "MainMenu"
	case InGame:
		return "InGame"
	case GameOver:
		return "GameOver"
	}
	return fmt.Sprintf("GameState(%d)", int(s))
}

// CanTransition reports whether from -> to is a legal transition.
// GameOver is terminal.
func CanTransition(from, to GameState) bool {
	switch from {
	case MainMenu:
		return to == InGame
	case InGame:
		return to == GameOver
	}
	return false
}

// StateMachine holds the current state and at most one pending request.
// Requests are validated against the current state and applied by the
// controller between ticks.
type StateMachine struct {
	current    GameState
	pending    GameState
	hasPending bool
}

func (m *StateMachine) Current() GameState { return m.current }

// Pending returns the requested next state, if any.
func (m *StateMachine) Pending() (GameState, bool) {
	return m.pending, m.hasPending
}

// Request queues a transition. It returns false if the transition is not
// legal from the current state. A later legal request replaces an earlier
// one.
func (m *StateMachine) Request(next GameState) bool {
	if !CanTransition(m.current, next) {
		return false
	}
	m.pending = next
	m.hasPending = true
	return true
}

// apply commits the pending request.
func (m *StateMachine) apply() (from, to GameState, ok bool) {
	if !m.hasPending {
		return m.current, m.current, false
	}
	from, to = m.current, m.pending
	m.current = m.pending
	m.hasPending = false
	return from, to, true
}

// InState is a run condition that holds while the current state is s.
func InState(s GameState) ecs.Condition {
	return func(storage *ecs.Storage) bool {
		var sm *StateMachine
		return storage.ReadSingleton(&sm) && sm.current == s
	}
}
