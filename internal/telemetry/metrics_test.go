package telemetry

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/vovakirdan/neon-arcade/internal/engine"
)

func TestTransitionCountsSessions(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.Transition("snake", engine.StateReady, engine.StatePlaying)
	m.Transition("snake", engine.StatePlaying, engine.StateGameOver)
	m.Transition("snake", engine.StateGameOver, engine.StatePlaying)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.sessions.WithLabelValues("snake")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.transitions.WithLabelValues("snake", "playing", "game_over")))
}

func TestTickRecordsEntities(t *testing.T) {
	m := New(prometheus.NewRegistry())
	store := engine.NewStore(100, 100, nil)
	store.Spawn(engine.Entity{Kind: engine.KindEnemy})
	store.Spawn(engine.Entity{Kind: engine.KindEnemy})
	store.Spawn(engine.Entity{Kind: engine.KindPlayer})

	m.Tick("shooter", time.Millisecond, &engine.Session{Store: store})

	assert.Equal(t, 2.0, testutil.ToFloat64(m.entities.WithLabelValues("shooter", "enemy")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.entities.WithLabelValues("shooter", "player")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.entities.WithLabelValues("shooter", "particle")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.tickDuration))
}

func TestFinalizedCountsRecords(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.Finalized("runner", 120, true)
	m.Finalized("runner", 80, false)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.newRecords.WithLabelValues("runner")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.finalScore))
}

func TestServerCounters(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.WSConnected(1)
	m.WSConnected(1)
	m.WSConnected(-1)
	m.WSMessage("in")
	m.RecordRejected(ReasonRateLimit)
	m.ObserveRequest("GET", "/api/games", 200, 5*time.Millisecond)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.wsActive))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.wsMessages.WithLabelValues("in")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.rejected.WithLabelValues(ReasonRateLimit)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requestTotal.WithLabelValues("GET", "/api/games", "200")))
}

func TestObserverWiredIntoEngine(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)
	frames := engine.NewManualFrames()
	e := engine.New(countdown{}, engine.WithClock(engine.FrameSynced(frames)), engine.WithObserver(m))

	blank := engine.RendererFunc(func(*engine.Frame) error { return nil })
	assert.NoError(t, e.Start(engine.StaticSurface(blank)))
	for i := 0; i < 3; i++ {
		frames.Advance(time.Now())
	}

	assert.Equal(t, engine.StateGameOver, e.State())
	assert.Equal(t, 1.0, testutil.ToFloat64(m.sessions.WithLabelValues("countdown")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.transitions.WithLabelValues("countdown", "playing", "game_over")))
}

// countdown loses on its third tick.
type countdown struct{}

func (countdown) ID() string    { return "countdown" }
func (countdown) Title() string { return "Countdown" }
func (countdown) Config() engine.GameSpec {
	return engine.GameSpec{Width: 10, Height: 10, Lives: 1, Keys: engine.KeyMap{}}
}
func (countdown) Setup(*engine.Session) {}
func (countdown) Update(s *engine.Session, _ time.Time) {
	s.AddPoints(1)
	if s.Tick == 3 {
		s.Lose("time")
	}
}
