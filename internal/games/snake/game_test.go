package snake

import (
	"testing"
	"time"

	"github.com/vovakirdan/neon-arcade/internal/config"
	"github.com/vovakirdan/neon-arcade/internal/engine"
	"github.com/vovakirdan/neon-arcade/internal/storage"
)

// scriptRand returns scripted Intn values, then zeros.
type scriptRand struct {
	ints []int
	i    int
}

func (r *scriptRand) Float64() float64 { return 0 }

func (r *scriptRand) Intn(n int) int {
	if r.i >= len(r.ints) {
		return 0
	}
	v := r.ints[r.i] % n
	r.i++
	return v
}

type harness struct {
	game   *Game
	engine *engine.Engine
	frames *engine.ManualFrames
	kv     *storage.Memory
}

var blank = engine.StaticSurface(engine.RendererFunc(func(*engine.Frame) error { return nil }))

func newHarness(t *testing.T, cfg config.SnakeConfig, rolls ...int) *harness {
	t.Helper()
	h := &harness{
		game:   NewWithConfig(cfg),
		frames: engine.NewManualFrames(),
		kv:     storage.NewMemory(),
	}
	h.engine = engine.New(h.game,
		engine.WithClock(engine.FrameSynced(h.frames)),
		engine.WithKV(h.kv),
		engine.WithRandSource(func() engine.Rand { return &scriptRand{ints: rolls} }),
	)
	if err := h.engine.Start(blank); err != nil {
		t.Fatalf("Start() error: %v", err)
	}
	return h
}

func (h *harness) tick(n int) {
	for i := 0; i < n; i++ {
		h.frames.Advance(time.Now())
	}
}

func TestSnakeStartsMovingRight(t *testing.T) {
	h := newHarness(t, config.DefaultSnakeConfig())

	want := Snapshot{Length: 1, HeadX: 10, HeadY: 10, Dir: DirRight, FoodX: 15, FoodY: 15}
	if snap := h.game.Snapshot(); snap != want {
		t.Errorf("initial snapshot = %+v, expected %+v", snap, want)
	}

	h.tick(3)
	snap := h.game.Snapshot()
	if snap.HeadX != 13 || snap.HeadY != 10 {
		t.Errorf("head after 3 ticks = (%d, %d), expected (13, 10)", snap.HeadX, snap.HeadY)
	}
}

func TestSnakeConfigMatchesGrid(t *testing.T) {
	spec := NewWithConfig(config.DefaultSnakeConfig()).Config()

	if spec.Width != 400 || spec.Height != 400 {
		t.Errorf("playfield = %vx%v, expected 400x400", spec.Width, spec.Height)
	}
	if spec.Grid != 20 {
		t.Errorf("Grid = %v, expected 20", spec.Grid)
	}
	if spec.Mode != engine.ModeInterval {
		t.Errorf("Mode = %v, expected interval", spec.Mode)
	}
	if spec.Period != 100*time.Millisecond {
		t.Errorf("Period = %v, expected 100ms", spec.Period)
	}
}

func TestSnakeSteering(t *testing.T) {
	tests := []struct {
		name  string
		keys  []string
		dir   Direction
		headX int
		headY int
	}{
		{"reversal ignored", []string{"ArrowLeft"}, DirRight, 11, 10},
		{"turn applies on next tick", []string{"up"}, DirUp, 10, 9},
		{"last perpendicular press wins", []string{"up", "left", "down"}, DirDown, 10, 11},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h := newHarness(t, config.DefaultSnakeConfig())
			for _, k := range tc.keys {
				h.engine.KeyDown(k)
			}
			h.tick(1)

			snap := h.game.Snapshot()
			if snap.Dir != tc.dir {
				t.Errorf("Dir = %v, expected %v", snap.Dir, tc.dir)
			}
			if snap.HeadX != tc.headX || snap.HeadY != tc.headY {
				t.Errorf("head = (%d, %d), expected (%d, %d)", snap.HeadX, snap.HeadY, tc.headX, tc.headY)
			}
		})
	}
}

func TestSnakeWallEndsGame(t *testing.T) {
	h := newHarness(t, config.DefaultSnakeConfig())

	h.tick(9)
	if h.engine.State() != engine.StatePlaying {
		t.Fatalf("state after 9 ticks = %v, expected playing", h.engine.State())
	}
	if x := h.game.Snapshot().HeadX; x != 19 {
		t.Errorf("HeadX = %d, expected 19", x)
	}

	h.tick(1)
	if h.engine.State() != engine.StateGameOver {
		t.Errorf("state = %v, expected game over", h.engine.State())
	}
	if score := h.engine.Snapshot().Score; score != 0 {
		t.Errorf("Score = %d, expected 0", score)
	}
}

func TestSnakeEatGrowsAndScores(t *testing.T) {
	cfg := config.DefaultSnakeConfig()
	cfg.Food.StartX, cfg.Food.StartY = 12, 10
	h := newHarness(t, cfg, 3, 4)

	h.tick(2)

	snap := h.game.Snapshot()
	if snap.Length != 2 || snap.HeadX != 12 {
		t.Errorf("after eating: length %d head x %d, expected 2 and 12", snap.Length, snap.HeadX)
	}
	if snap.FoodX != 3 || snap.FoodY != 4 {
		t.Errorf("food = (%d, %d), expected (3, 4)", snap.FoodX, snap.FoodY)
	}
	if score := h.engine.Snapshot().Score; score != 10 {
		t.Errorf("Score = %d, expected 10", score)
	}

	h.tick(1)
	if l := h.game.Snapshot().Length; l != 2 {
		t.Errorf("Length = %d, expected 2 without more food", l)
	}
}

func TestSnakeSelfCollisionFinalizesHighScore(t *testing.T) {
	cfg := config.DefaultSnakeConfig()
	cfg.Food.StartX, cfg.Food.StartY = 11, 10
	h := newHarness(t, cfg, 12, 10, 13, 10, 14, 10, 15, 10, 0, 0)

	h.tick(5)
	if l := h.game.Snapshot().Length; l != 6 {
		t.Fatalf("Length = %d, expected 6", l)
	}

	for _, k := range []string{"down", "left", "up"} {
		h.engine.KeyDown(k)
		h.tick(1)
	}

	if h.engine.State() != engine.StateGameOver {
		t.Errorf("state = %v, expected game over", h.engine.State())
	}
	if score := h.engine.Snapshot().Score; score != 50 {
		t.Errorf("Score = %d, expected 50", score)
	}

	stored, ok, err := h.kv.Get(engine.HighScoreKey("snake"))
	if err != nil || !ok || stored != "50" {
		t.Errorf("stored high score = (%q, %v, %v), expected 50", stored, ok, err)
	}
}

func TestSnakeFoodPlacement(t *testing.T) {
	tests := []struct {
		name      string
		avoidBody bool
		rolls     []int
		foodX     int
		foodY     int
	}{
		// The first roll lands on the new head.
		{"may land on body by default", false, []int{11, 10}, 11, 10},
		{"re-rolled when avoiding body", true, []int{11, 10, 5, 5}, 5, 5},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := config.DefaultSnakeConfig()
			cfg.Food.StartX, cfg.Food.StartY = 11, 10
			cfg.Food.AvoidBody = tc.avoidBody
			h := newHarness(t, cfg, tc.rolls...)

			h.tick(1)

			snap := h.game.Snapshot()
			if snap.FoodX != tc.foodX || snap.FoodY != tc.foodY {
				t.Errorf("food = (%d, %d), expected (%d, %d)", snap.FoodX, snap.FoodY, tc.foodX, tc.foodY)
			}
		})
	}
}

func TestSnakeRestartResetsBody(t *testing.T) {
	cfg := config.DefaultSnakeConfig()
	cfg.Food.StartX, cfg.Food.StartY = 11, 10
	h := newHarness(t, cfg, 19, 19)
	h.tick(10) // eat once, then hit the wall
	if h.engine.State() != engine.StateGameOver {
		t.Fatalf("state = %v, expected game over", h.engine.State())
	}

	if err := h.engine.Restart(blank); err != nil {
		t.Fatalf("Restart() error: %v", err)
	}

	want := Snapshot{Length: 1, HeadX: 10, HeadY: 10, Dir: DirRight, FoodX: 11, FoodY: 10}
	if snap := h.game.Snapshot(); snap != want {
		t.Errorf("snapshot after restart = %+v, expected %+v", snap, want)
	}
	if score := h.engine.Snapshot().Score; score != 0 {
		t.Errorf("Score = %d, expected 0", score)
	}
}
