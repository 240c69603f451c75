package engine

import (
	"errors"
	"fmt"
)

// State is the play state of a game view.
type State int

const (
	StateReady State = iota
	StatePlaying
	StateGameOver
)

func (s State) String() string {
	switch s {
	case StateReady:
		return "ready"
	case StatePlaying:
		return "playing"
	case StateGameOver:
		return "game_over"
	default:
		return "unknown"
	}
}

// Event drives state transitions.
type Event int

const (
	EventStart Event = iota
	EventLose
	EventStop
	EventRestart
	EventReset
)

func (e Event) String() string {
	switch e {
	case EventStart:
		return "start"
	case EventLose:
		return "lose"
	case EventStop:
		return "stop"
	case EventRestart:
		return "restart"
	case EventReset:
		return "reset"
	default:
		return "unknown"
	}
}

// ErrInvalidTransition is returned for events not allowed in the current state.
var ErrInvalidTransition = errors.New("engine: invalid transition")

var transitions = map[State]map[Event]State{
	StateReady: {
		EventStart: StatePlaying,
	},
	StatePlaying: {
		EventLose: StateGameOver,
		EventStop: StateReady,
	},
	StateGameOver: {
		EventRestart: StatePlaying,
		EventReset:   StateReady,
	},
}

// StateMachine holds the current play state. The zero value is Ready.
type StateMachine struct {
	state State
}

// State returns the current state.
func (m *StateMachine) State() State { return m.state }

// Can reports whether ev is allowed in the current state.
func (m *StateMachine) Can(ev Event) bool {
	_, ok := transitions[m.state][ev]
	return ok
}

// Fire applies ev and returns the new state.
func (m *StateMachine) Fire(ev Event) (State, error) {
	next, ok := transitions[m.state][ev]
	if !ok {
		return m.state, fmt.Errorf("%w: %s in state %s", ErrInvalidTransition, ev, m.state)
	}
	m.state = next
	return next, nil
}
