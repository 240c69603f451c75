package engine

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStateMachineTransitions(t *testing.T) {
	events := []Event{EventStart, EventLose, EventStop, EventRestart, EventReset}
	legal := map[State]map[Event]State{
		StateReady:    {EventStart: StatePlaying},
		StatePlaying:  {EventLose: StateGameOver, EventStop: StateReady},
		StateGameOver: {EventRestart: StatePlaying, EventReset: StateReady},
	}

	for from, allowed := range legal {
		for _, ev := range events {
			m := StateMachine{state: from}
			got, err := m.Fire(ev)
			if want, ok := allowed[ev]; ok {
				require.NoError(t, err, "%s on %s", ev, from)
				assert.Equal(t, want, got)
				assert.Equal(t, want, m.State())
				continue
			}
			require.Error(t, err, "%s on %s", ev, from)
			assert.True(t, errors.Is(err, ErrInvalidTransition))
			assert.Equal(t, from, m.State(), "state must not change on %s", ev)
		}
	}
}

func TestStateMachineZeroValueIsReady(t *testing.T) {
	var m StateMachine
	assert.Equal(t, StateReady, m.State())
	assert.True(t, m.Can(EventStart))
	assert.False(t, m.Can(EventLose))
}

func TestStateStrings(t *testing.T) {
	assert.Equal(t, "game_over", StateGameOver.String())
	assert.Equal(t, "restart", EventRestart.String())
}
