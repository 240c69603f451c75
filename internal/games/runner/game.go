// Package runner implements a side-scrolling platform runner.
// The player jumps (and double-jumps) between scrolling platforms while
// avoiding spikes; the world speeds up the longer the run lasts.
package runner

import (
	"time"

	"github.com/vovakirdan/neon-arcade/internal/config"
	"github.com/vovakirdan/neon-arcade/internal/core"
	"github.com/vovakirdan/neon-arcade/internal/engine"
	"github.com/vovakirdan/neon-arcade/internal/registry"
)

// Game implements the runner rules.
type Game struct {
	cfg        config.RunnerConfig
	difficulty *config.DifficultyManager
	obstacles  *ObstacleManager
	store      *engine.Store
	player     *engine.Entity
	speed      float64
}

func init() {
	registry.Register(registry.GameInfo{
		ID:          "runner",
		Title:       "Pixel Runner",
		Description: "Jump, double-jump, don't touch the spikes.",
	}, func(opts registry.Options) (engine.Rules, error) {
		return New(opts.ConfigPath, opts.Preset)
	})
}

// New loads the runner config from the search path and applies preset.
func New(configPath string, preset config.DifficultyPreset) (*Game, error) {
	cfg, err := config.LoadRunner(configPath)
	if err != nil {
		return nil, err
	}
	if preset != "" {
		config.ApplyRunnerPreset(&cfg, preset)
	}
	return NewWithConfig(cfg), nil
}

// NewWithConfig creates a game from an already loaded config.
func NewWithConfig(cfg config.RunnerConfig) *Game {
	return &Game{
		cfg:        cfg,
		difficulty: config.NewDifficultyManager(cfg.Difficulty),
		obstacles:  NewObstacleManager(&cfg.Spawn, cfg.Playfield.Width),
	}
}

// ID returns the unique identifier for this game.
func (g *Game) ID() string { return "runner" }

// Title returns the display name for this game.
func (g *Game) Title() string { return "Pixel Runner" }

// Config describes the playfield, the 20 ms tick and left-edge culling of
// scrolling entities.
func (g *Game) Config() engine.GameSpec {
	return engine.GameSpec{
		Width:   g.cfg.Playfield.Width,
		Height:  g.cfg.Playfield.Height,
		Mode:    engine.ModeInterval,
		Period:  time.Duration(g.cfg.Physics.TickMillis) * time.Millisecond,
		Lives:   1,
		MaxFall: g.cfg.Physics.MaxFallSpeed,
		Keys:    engine.KeyMapFrom(g.cfg.Keys),
		Cull: map[engine.Kind]engine.CullEdges{
			engine.KindPlatform: engine.CullLeft,
			engine.KindObstacle: engine.CullLeft,
		},
		Spawner: engine.Spawner{Every: g.cfg.Spawn.Every},
	}
}

// Setup places the starting platforms and the player and spawns the first
// wave immediately.
func (g *Game) Setup(s *engine.Session) {
	g.store = s.Store
	for _, b := range g.cfg.Spawn.Initial {
		s.Store.Spawn(engine.Entity{
			Kind:  engine.KindPlatform,
			X:     b.X,
			Y:     b.Y,
			W:     b.Width,
			H:     b.Height,
			Color: core.ColorGray,
		})
	}

	p := g.cfg.Player
	g.player = s.Store.Spawn(engine.Entity{
		Kind:     engine.KindPlayer,
		X:        p.X,
		Y:        p.Y,
		W:        p.Width,
		H:        p.Height,
		Gravity:  true,
		Jumps:    p.Jumps,
		MaxJumps: p.Jumps,
		Color:    core.ColorOrange,
	})
	g.speed = g.cfg.Physics.BaseSpeed
	g.obstacles.Spawn(s.Store, s.Rand)
}

// Update advances the run by one tick.
func (g *Game) Update(s *engine.Session, now time.Time) {
	p := g.player
	phys := g.cfg.Physics

	// Input
	if s.Input.Pressed(core.ActionJump) && p.Jumps > 0 &&
		s.Input.TryTrigger(core.ActionJump, now, time.Duration(phys.JumpCooldownMS)*time.Millisecond) {
		p.VY = phys.JumpImpulse
		p.Jumps--
	}

	// Difficulty
	progress := config.Progress{Score: s.Score(), Ticks: s.Tick, Level: s.Level}
	g.speed = g.difficulty.Speed(phys.BaseSpeed, progress)
	if phys.MaxSpeed > 0 {
		g.speed = min(g.speed, phys.MaxSpeed)
	}
	s.Difficulty = g.difficulty.SpeedFactor(progress)

	// Spawning
	s.Spawner.Every = g.difficulty.Interval(g.cfg.Spawn.Every, progress)
	if s.Spawner.Due(0) {
		g.obstacles.Spawn(s.Store, s.Rand)
	}

	// Motion
	g.obstacles.Scroll(s.Store, g.speed)
	s.Store.Integrate(phys.Gravity, engine.KindPlayer, engine.KindPlatform, engine.KindObstacle)

	// Collisions
	engine.Land(p, s.Store, phys.LandingTolerance)
	if p.Y > s.Height {
		s.Lose("fell")
		return
	}
	if engine.FirstHit(s.Store, p, engine.KindObstacle) != nil {
		s.Lose("spike")
		return
	}

	s.AddPoints(1)
}

// Speed returns the current scroll speed in pixels per tick.
func (g *Game) Speed() float64 { return g.speed }

// Player returns the player entity of the current session.
func (g *Game) Player() *engine.Entity { return g.player }
