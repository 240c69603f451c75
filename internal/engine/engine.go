// Package engine is the tick-driven simulation core shared by every game:
// clock, input, entity store, collisions, spawning, scoring and the play
// state machine. Games plug in through Rules; hosts plug in through Surface.
package engine

import (
	"errors"
	"fmt"
	"io"
	"math/rand"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

// ClockMode selects how a game is paced when no clock is injected.
type ClockMode int

const (
	ModeInterval ClockMode = iota // fixed period timer
	ModeFrame                     // display refresh
)

// GameSpec describes the static parameters of a game.
type GameSpec struct {
	Width, Height float64
	Grid          float64 // cell size for grid games
	Mode          ClockMode
	Period        time.Duration // ModeInterval tick period
	FrameRate     int           // ModeFrame refresh rate
	Lives         int
	MaxFall       float64
	Keys          KeyMap
	Cull          map[Kind]CullEdges
	Spawner       Spawner
}

// Rules implements one game on top of the engine. A Rules value serves one
// engine and may keep per-session state, reinitialized by Setup.
type Rules interface {
	ID() string
	Title() string
	Config() GameSpec
	// Setup populates a fresh session before its first tick.
	Setup(s *Session)
	// Update advances the session by one tick: read input, spawn, move,
	// resolve collisions, score. It calls s.Lose to end the game.
	Update(s *Session, now time.Time)
}

// Observer receives engine lifecycle notifications. Calls happen with the
// engine lock held and must not call back into the engine.
type Observer interface {
	Transition(gameID string, from, to State)
	Tick(gameID string, elapsed time.Duration, s *Session)
	Finalized(gameID string, score int, newRecord bool)
}

// Stats is a point-in-time summary of an engine.
type Stats struct {
	GameID    string
	SessionID string
	State     State
	Score     int
	HighScore int
	Lives     int
	Level     int
	Tick      int
	Entities  int
}

// Engine runs one game view: at most one session plays at a time.
type Engine struct {
	mu sync.Mutex

	rules    Rules
	spec     GameSpec
	clock    Clock
	kv       KV
	history  History
	newRand  func() Rand
	logger   *log.Logger
	observer Observer
	now      func() time.Time

	fsm       StateMachine
	session   *Session
	renderer  Renderer
	handle    Handle
	gen       uint64
	high      int
	highKnown bool
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock overrides the clock chosen from the game's spec.
func WithClock(c Clock) Option {
	return func(e *Engine) { e.clock = c }
}

// WithKV sets the high score store.
func WithKV(kv KV) Option {
	return func(e *Engine) { e.kv = kv }
}

// WithHistory records every finished session.
func WithHistory(h History) Option {
	return func(e *Engine) { e.history = h }
}

// WithRandSource sets the constructor for each session's random source.
func WithRandSource(fn func() Rand) Option {
	return func(e *Engine) { e.newRand = fn }
}

// WithSeed makes every session use a math/rand source seeded with seed.
func WithSeed(seed int64) Option {
	return WithRandSource(func() Rand { return rand.New(rand.NewSource(seed)) })
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *log.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// WithObserver registers a lifecycle observer.
func WithObserver(o Observer) Option {
	return func(e *Engine) { e.observer = o }
}

// WithNow overrides the wall clock used for session timestamps.
func WithNow(fn func() time.Time) Option {
	return func(e *Engine) { e.now = fn }
}

// New creates an engine for rules in the Ready state.
func New(rules Rules, opts ...Option) *Engine {
	e := &Engine{
		rules: rules,
		spec:  rules.Config(),
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.logger == nil {
		e.logger = log.New(io.Discard)
	}
	if e.newRand == nil {
		e.newRand = func() Rand { return rand.New(rand.NewSource(time.Now().UnixNano())) }
	}
	if e.clock == nil {
		e.clock = clockFor(e.spec)
	}
	if e.spec.Keys == nil {
		e.spec.Keys = KeyMap{}
	}
	return e
}

func clockFor(spec GameSpec) Clock {
	if spec.Mode == ModeFrame {
		return FrameSynced(NewVSync(spec.FrameRate))
	}
	return Interval(spec.Period)
}

// Rules returns the game rules the engine runs.
func (e *Engine) Rules() Rules { return e.rules }

// Spec returns the game's static parameters.
func (e *Engine) Spec() GameSpec { return e.spec }

// Start begins a new session drawing on surface. It is valid in Ready and
// GameOver. If surface cannot provide a renderer the state is unchanged and
// the error wraps ErrSurfaceUnavailable.
func (e *Engine) Start(surface Surface) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	switch e.fsm.State() {
	case StateReady:
		return e.beginLocked(surface, EventStart)
	case StateGameOver:
		return e.beginLocked(surface, EventRestart)
	default:
		return fmt.Errorf("%w: start in state %s", ErrInvalidTransition, e.fsm.State())
	}
}

// Restart begins a new session after a game over.
func (e *Engine) Restart(surface Surface) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.beginLocked(surface, EventRestart)
}

func (e *Engine) beginLocked(surface Surface, ev Event) error {
	if !e.fsm.Can(ev) {
		return fmt.Errorf("%w: %s in state %s", ErrInvalidTransition, ev, e.fsm.State())
	}
	if surface == nil {
		return fmt.Errorf("%w: no surface", ErrSurfaceUnavailable)
	}
	r, err := surface.Acquire(e.spec.Width, e.spec.Height)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSurfaceUnavailable, err)
	}
	if r == nil {
		return fmt.Errorf("%w: no renderer", ErrSurfaceUnavailable)
	}

	s := newSession(e.rules.ID(), e.spec, e.newRand(), e.kv, e.now())
	if err := s.score.Begin(); err != nil {
		e.logger.Warn("high score unavailable", "game", e.rules.ID(), "err", err)
	}
	e.rules.Setup(s)

	e.transitionLocked(ev)
	e.session = s
	e.renderer = r
	e.high = s.HighScore()
	e.highKnown = true
	e.gen++
	e.logger.Info("session started", "game", e.rules.ID(), "session", s.ID, "high", s.HighScore())

	if !e.renderLocked() {
		return fmt.Errorf("%w: %w on first frame", ErrSurfaceUnavailable, ErrSurfaceGone)
	}
	e.handle = e.clock.Start(e.stepFor(e.gen))
	return nil
}

func (e *Engine) transitionLocked(ev Event) {
	from := e.fsm.State()
	to, err := e.fsm.Fire(ev)
	if err != nil {
		e.logger.Error("transition rejected", "game", e.rules.ID(), "err", err)
		return
	}
	e.logger.Debug("transition", "game", e.rules.ID(), "event", ev, "from", from, "to", to)
	if e.observer != nil {
		e.observer.Transition(e.rules.ID(), from, to)
	}
}

// stepFor binds a step to one session generation. Steps from an older
// generation return false without touching state.
func (e *Engine) stepFor(gen uint64) StepFunc {
	return func(now time.Time) bool {
		e.mu.Lock()
		defer e.mu.Unlock()
		if gen != e.gen || e.session == nil || e.fsm.State() != StatePlaying {
			return false
		}
		return e.tickLocked(now)
	}
}

func (e *Engine) tickLocked(now time.Time) bool {
	began := time.Now()
	s := e.session

	s.Tick++
	e.rules.Update(s, now)
	if s.Lost() {
		e.finishLocked()
	}
	if !e.renderLocked() {
		return false
	}
	s.Store.RemoveDead()
	s.Input.EndTick()

	if e.observer != nil {
		e.observer.Tick(e.rules.ID(), time.Since(began), s)
	}
	return e.fsm.State() == StatePlaying
}

// finishLocked moves to GameOver and persists the score exactly once.
func (e *Engine) finishLocked() {
	s := e.session
	e.transitionLocked(EventLose)

	final, err := s.score.Finalize()
	if err != nil {
		e.logger.Error("high score not saved", "game", e.rules.ID(), "err", err)
	}
	e.high = final
	record := s.score.NewRecord()

	if e.history != nil && s.Score() > 0 {
		if _, err := e.history.SaveScore(e.rules.ID(), s.Score()); err != nil {
			e.logger.Error("score history not saved", "game", e.rules.ID(), "err", err)
		}
	}
	e.logger.Info("game over", "game", e.rules.ID(), "session", s.ID,
		"reason", s.lostReason, "score", s.Score(), "high", final, "record", record)
	if e.observer != nil {
		e.observer.Finalized(e.rules.ID(), s.Score(), record)
	}
}

// renderLocked draws the current session. It returns false when the surface
// is gone, after detaching.
func (e *Engine) renderLocked() bool {
	if e.renderer == nil || e.session == nil {
		return false
	}
	err := e.renderer.Render(e.frameLocked())
	if err == nil {
		return true
	}
	if errors.Is(err, ErrSurfaceGone) {
		e.logger.Warn("surface gone, detaching", "game", e.rules.ID())
		e.teardownLocked()
		return false
	}
	e.logger.Error("render failed", "game", e.rules.ID(), "err", err)
	return true
}

func (e *Engine) frameLocked() *Frame {
	s := e.session
	return &Frame{
		GameID:     e.rules.ID(),
		Title:      e.rules.Title(),
		Width:      e.spec.Width,
		Height:     e.spec.Height,
		Grid:       e.spec.Grid,
		State:      e.fsm.State(),
		Score:      s.Score(),
		HighScore:  max(s.HighScore(), s.Score()),
		NewRecord:  s.score.NewRecord(),
		Lives:      s.Lives,
		Level:      s.Level,
		Tick:       s.Tick,
		Difficulty: s.Difficulty,
		store:      s.Store,
	}
}

// teardownLocked invalidates the running clock and drops the view. A
// playing session is discarded without recording its score.
func (e *Engine) teardownLocked() Handle {
	h := e.handle
	e.handle = nil
	e.gen++
	e.renderer = nil
	if e.fsm.State() == StatePlaying {
		e.transitionLocked(EventStop)
		e.session = nil
	}
	if e.session != nil {
		e.session.Input.ReleaseAll()
	}
	return h
}

// Detach tears the view down: the clock is stopped, input is dropped and a
// playing session is discarded. No step runs after Detach returns.
func (e *Engine) Detach() {
	e.mu.Lock()
	h := e.teardownLocked()
	e.mu.Unlock()
	if h != nil {
		h.Stop()
	}
}

// Reset returns from GameOver to Ready, discarding the finished session.
func (e *Engine) Reset() error {
	e.mu.Lock()
	if !e.fsm.Can(EventReset) {
		defer e.mu.Unlock()
		return fmt.Errorf("%w: reset in state %s", ErrInvalidTransition, e.fsm.State())
	}
	h := e.handle
	e.handle = nil
	e.gen++
	e.transitionLocked(EventReset)
	e.session = nil
	e.renderer = nil
	e.mu.Unlock()
	if h != nil {
		h.Stop()
	}
	return nil
}

// KeyDown forwards a key press to the playing session. Keys arriving in any
// other state, or unknown to the game, are ignored.
func (e *Engine) KeyDown(key string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.fsm.State() == StatePlaying && e.session != nil {
		e.session.Input.KeyDown(key)
	}
}

// KeyUp forwards a key release to the playing session.
func (e *Engine) KeyUp(key string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.fsm.State() == StatePlaying && e.session != nil {
		e.session.Input.KeyUp(key)
	}
}

// State returns the current play state.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.fsm.State()
}

// HighScore returns the best known score, reading the store when no session
// has loaded it yet.
func (e *Engine) HighScore() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.highKnown {
		high, err := LoadHighScore(e.kv, e.rules.ID())
		if err != nil {
			e.logger.Warn("high score unavailable", "game", e.rules.ID(), "err", err)
			return 0
		}
		e.high = high
		e.highKnown = true
	}
	return e.high
}

// Snapshot returns a summary of the current session.
func (e *Engine) Snapshot() Stats {
	e.mu.Lock()
	defer e.mu.Unlock()
	st := Stats{
		GameID:    e.rules.ID(),
		State:     e.fsm.State(),
		HighScore: e.high,
	}
	if s := e.session; s != nil {
		st.SessionID = s.ID
		st.Score = s.Score()
		st.HighScore = max(e.high, s.Score())
		st.Lives = s.Lives
		st.Level = s.Level
		st.Tick = s.Tick
		st.Entities = s.Store.Len()
	}
	return st
}

// Render redraws the current session once. Hosts use it to repaint a
// game-over screen.
func (e *Engine) Render() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.renderLocked()
}
