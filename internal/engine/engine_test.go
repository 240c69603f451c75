package engine

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/neon-arcade/internal/core"
)

// tallyRules scores 10 per fire press and loses at a fixed tick.
type tallyRules struct {
	loseAt  int
	session *Session
	setups  int
}

func (r *tallyRules) ID() string    { return "tally" }
func (r *tallyRules) Title() string { return "Tally" }

func (r *tallyRules) Config() GameSpec {
	keys := KeyMap{}
	keys.Bind(core.ActionFire, "space")
	return GameSpec{
		Width:  100,
		Height: 100,
		Mode:   ModeFrame,
		Lives:  1,
		Keys:   keys,
	}
}

func (r *tallyRules) Setup(s *Session) {
	r.setups++
	r.session = s
	s.Store.Spawn(Entity{Kind: KindPlayer, X: 10, Y: 10, W: 5, H: 5})
}

func (r *tallyRules) Update(s *Session, _ time.Time) {
	if s.Input.Pressed(core.ActionFire) {
		s.AddPoints(10)
		s.Store.Spawn(Entity{Kind: KindProjectile, W: 1, H: 1})
	}
	if r.loseAt > 0 && s.Tick >= r.loseAt {
		s.Lose("time up")
	}
}

type recorder struct {
	mu     sync.Mutex
	frames []Frame
	err    error
}

func (r *recorder) Render(f *Frame) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.frames = append(r.frames, *f)
	return r.err
}

func (r *recorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.frames)
}

func (r *recorder) last() Frame {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.frames[len(r.frames)-1]
}

type history struct {
	scores []int
}

func (h *history) SaveScore(_ string, score int) (int64, error) {
	h.scores = append(h.scores, score)
	return int64(len(h.scores)), nil
}

type transitionLog struct {
	seen      []State
	finalized int
	ticks     int
}

func (o *transitionLog) Transition(_ string, _, to State)     { o.seen = append(o.seen, to) }
func (o *transitionLog) Tick(string, time.Duration, *Session) { o.ticks++ }
func (o *transitionLog) Finalized(string, int, bool)          { o.finalized++ }

func newTestEngine(t *testing.T, rules Rules, opts ...Option) (*Engine, *ManualFrames) {
	t.Helper()
	frames := NewManualFrames()
	opts = append([]Option{WithClock(FrameSynced(frames)), WithSeed(1)}, opts...)
	return New(rules, opts...), frames
}

func advance(frames *ManualFrames, n int) {
	for i := 0; i < n; i++ {
		frames.Advance(time.Now())
	}
}

func TestEngineStartUnavailableSurface(t *testing.T) {
	e, frames := newTestEngine(t, &tallyRules{})
	broken := SurfaceFunc(func(float64, float64) (Renderer, error) {
		return nil, errors.New("no canvas")
	})

	err := e.Start(broken)

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrSurfaceUnavailable))
	assert.Equal(t, StateReady, e.State())
	assert.Zero(t, frames.Pending())
}

func TestEngineStartTwiceRejected(t *testing.T) {
	e, _ := newTestEngine(t, &tallyRules{})
	require.NoError(t, e.Start(StaticSurface(&recorder{})))

	err := e.Start(StaticSurface(&recorder{}))
	assert.True(t, errors.Is(err, ErrInvalidTransition))
	assert.Equal(t, StatePlaying, e.State())
}

func TestEngineLoseFinalizesOnce(t *testing.T) {
	kv := newMapKV()
	kv.data[HighScoreKey("tally")] = "15"
	hist := &history{}
	obs := &transitionLog{}
	rules := &tallyRules{loseAt: 4}
	e, frames := newTestEngine(t, rules, WithKV(kv), WithHistory(hist), WithObserver(obs))
	rec := &recorder{}

	require.NoError(t, e.Start(StaticSurface(rec)))
	assert.Equal(t, 15, e.HighScore())

	e.KeyDown("space")
	advance(frames, 1)
	e.KeyDown("space")
	advance(frames, 10)

	assert.Equal(t, StateGameOver, e.State())
	assert.Equal(t, 4, rules.session.Tick)
	assert.Zero(t, frames.Pending())
	assert.Equal(t, "20", kv.data[HighScoreKey("tally")])
	assert.Equal(t, 1, kv.sets)
	assert.Equal(t, []int{20}, hist.scores)
	assert.Equal(t, 1, obs.finalized)
	assert.Equal(t, []State{StatePlaying, StateGameOver}, obs.seen)
	assert.Equal(t, 20, e.HighScore())

	last := rec.last()
	assert.Equal(t, StateGameOver, last.State)
	assert.Equal(t, 20, last.Score)
	assert.True(t, last.NewRecord)
}

func TestEngineScoreMonotonicAndSumOfEvents(t *testing.T) {
	rules := &tallyRules{}
	e, frames := newTestEngine(t, rules)
	rec := &recorder{}
	require.NoError(t, e.Start(StaticSurface(rec)))

	for i := 0; i < 6; i++ {
		if i%2 == 0 {
			e.KeyDown("space")
		}
		advance(frames, 1)
	}

	prev := 0
	for _, f := range rec.frames {
		assert.GreaterOrEqual(t, f.Score, prev)
		prev = f.Score
	}
	assert.Equal(t, 30, e.Snapshot().Score)
}

func TestEngineKeysIgnoredOutsidePlaying(t *testing.T) {
	rules := &tallyRules{loseAt: 1}
	e, frames := newTestEngine(t, rules)

	e.KeyDown("space")
	require.NoError(t, e.Start(StaticSurface(&recorder{})))
	advance(frames, 1)
	require.Equal(t, StateGameOver, e.State())

	e.KeyDown("space")
	assert.Zero(t, rules.session.Score())
	assert.Empty(t, rules.session.Input.Drain())
}

func TestEngineDetachStopsAllMutation(t *testing.T) {
	rules := &tallyRules{}
	e, frames := newTestEngine(t, rules)
	rec := &recorder{}
	require.NoError(t, e.Start(StaticSurface(rec)))
	advance(frames, 3)
	s := rules.session

	e.Detach()
	tick, rendered, entities := s.Tick, rec.count(), s.Store.Len()
	e.KeyDown("space")
	advance(frames, 5)

	assert.Equal(t, StateReady, e.State())
	assert.Equal(t, tick, s.Tick)
	assert.Equal(t, rendered, rec.count())
	assert.Equal(t, entities, s.Store.Len())
	assert.Zero(t, frames.Pending())
	assert.Empty(t, e.Snapshot().SessionID)
}

func TestEngineDetachStopsIntervalClock(t *testing.T) {
	rules := &tallyRules{}
	e := New(rules, WithClock(Interval(time.Millisecond)))
	rec := &recorder{}
	require.NoError(t, e.Start(StaticSurface(rec)))
	require.Eventually(t, func() bool { return rec.count() >= 3 }, time.Second, time.Millisecond)

	e.Detach()
	rendered := rec.count()
	time.Sleep(20 * time.Millisecond)

	assert.Equal(t, rendered, rec.count())
	assert.Equal(t, StateReady, e.State())
}

func TestEngineSurfaceGoneDetaches(t *testing.T) {
	rules := &tallyRules{}
	e, frames := newTestEngine(t, rules)
	rec := &recorder{}
	require.NoError(t, e.Start(StaticSurface(rec)))
	advance(frames, 2)

	rec.err = ErrSurfaceGone
	advance(frames, 1)
	tick := rules.session.Tick
	advance(frames, 3)

	assert.Equal(t, StateReady, e.State())
	assert.Equal(t, tick, rules.session.Tick)
	assert.Zero(t, frames.Pending())
}

func TestEngineStartSurfaceGoneOnFirstFrame(t *testing.T) {
	e, frames := newTestEngine(t, &tallyRules{})
	rec := &recorder{err: ErrSurfaceGone}

	err := e.Start(StaticSurface(rec))

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrSurfaceUnavailable))
	assert.True(t, errors.Is(err, ErrSurfaceGone))
	assert.Equal(t, StateReady, e.State())
	assert.Equal(t, 1, rec.count())
	assert.Zero(t, frames.Pending())
}

func TestEngineRestartReinitializes(t *testing.T) {
	rules := &tallyRules{loseAt: 3}
	e, frames := newTestEngine(t, rules)
	require.NoError(t, e.Start(StaticSurface(&recorder{})))
	e.KeyDown("space")
	advance(frames, 3)
	require.Equal(t, StateGameOver, e.State())
	first := rules.session

	require.NoError(t, e.Restart(StaticSurface(&recorder{})))

	assert.Equal(t, StatePlaying, e.State())
	assert.NotSame(t, first, rules.session)
	assert.NotEqual(t, first.ID, rules.session.ID)
	assert.Zero(t, rules.session.Score())
	assert.Zero(t, rules.session.Tick)
	assert.Equal(t, 1, rules.session.Store.Len())
	assert.Equal(t, 2, rules.setups)
	assert.Equal(t, 1, frames.Pending())
}

func TestEngineResetOnlyFromGameOver(t *testing.T) {
	rules := &tallyRules{loseAt: 1}
	e, frames := newTestEngine(t, rules)

	assert.True(t, errors.Is(e.Reset(), ErrInvalidTransition))
	require.NoError(t, e.Start(StaticSurface(&recorder{})))
	assert.True(t, errors.Is(e.Reset(), ErrInvalidTransition))
	assert.True(t, errors.Is(e.Restart(StaticSurface(&recorder{})), ErrInvalidTransition))

	advance(frames, 1)
	require.NoError(t, e.Reset())
	assert.Equal(t, StateReady, e.State())
	require.NoError(t, e.Start(StaticSurface(&recorder{})))
}

func TestEngineStartFromGameOver(t *testing.T) {
	rules := &tallyRules{loseAt: 1}
	e, frames := newTestEngine(t, rules)
	require.NoError(t, e.Start(StaticSurface(&recorder{})))
	advance(frames, 1)

	require.NoError(t, e.Start(StaticSurface(&recorder{})))
	assert.Equal(t, StatePlaying, e.State())
}

func TestEngineHighScoreBeforeAnySession(t *testing.T) {
	kv := newMapKV()
	kv.data[HighScoreKey("tally")] = "not a number"
	e, _ := newTestEngine(t, &tallyRules{}, WithKV(kv))
	assert.Zero(t, e.HighScore())

	kv2 := newMapKV()
	kv2.data[HighScoreKey("tally")] = "77"
	e2, _ := newTestEngine(t, &tallyRules{}, WithKV(kv2))
	assert.Equal(t, 77, e2.HighScore())
}

func TestEngineFrameExposesEntitiesInDrawOrder(t *testing.T) {
	rules := &tallyRules{}
	e, _ := newTestEngine(t, rules)
	var kinds []Kind
	r := RendererFunc(func(f *Frame) error {
		kinds = kinds[:0]
		f.Entities(func(e *Entity) { kinds = append(kinds, e.Kind) })
		return nil
	})
	require.NoError(t, e.Start(StaticSurface(r)))
	rules.session.Store.Spawn(Entity{Kind: KindStar})

	e.Render()
	assert.Equal(t, []Kind{KindStar, KindPlayer}, kinds)
}
