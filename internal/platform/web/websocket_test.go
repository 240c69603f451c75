package web

import (
	"encoding/json"
	"io"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/neon-arcade/internal/engine"
)

func drain(t *testing.T, c *playConn) []FrameJSON {
	t.Helper()
	var out []FrameJSON
	for {
		select {
		case b := <-c.send:
			var f FrameJSON
			require.NoError(t, json.Unmarshal(b, &f))
			out = append(out, f)
		default:
			return out
		}
	}
}

func TestSlowClientStillSeesStateChange(t *testing.T) {
	c := &playConn{send: make(chan []byte, 2), logger: log.New(io.Discard)}

	for tick := 1; tick <= 5; tick++ {
		require.NoError(t, c.Render(&engine.Frame{GameID: "snake", State: engine.StatePlaying, Tick: tick}))
	}
	require.NoError(t, c.Render(&engine.Frame{GameID: "snake", State: engine.StateGameOver, Tick: 6}))

	frames := drain(t, c)
	require.Len(t, frames, 2)
	assert.Equal(t, "playing", frames[0].State)
	assert.Equal(t, 2, frames[0].Tick, "the oldest frame was evicted")
	assert.Equal(t, "game_over", frames[1].State)
}

func TestRenderAfterCloseIsSurfaceGone(t *testing.T) {
	c := &playConn{send: make(chan []byte, 2), logger: log.New(io.Discard)}
	c.close()

	err := c.Render(&engine.Frame{GameID: "snake", State: engine.StatePlaying})
	assert.ErrorIs(t, err, engine.ErrSurfaceGone)
}
