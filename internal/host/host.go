// Package host wires registered games to the services a process provides:
// score storage, logging, telemetry and seeding. Every front end (terminal,
// SSH, web, snapshot) builds its engines here.
package host

import (
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/neon-arcade/internal/config"
	"github.com/vovakirdan/neon-arcade/internal/engine"
	"github.com/vovakirdan/neon-arcade/internal/registry"
	"github.com/vovakirdan/neon-arcade/internal/storage"
)

// Deps are the services shared by every game view in a process.
type Deps struct {
	Store      *storage.Store // nil keeps high scores in memory
	Logger     *log.Logger
	Observer   engine.Observer
	Seed       int64 // 0 seeds from the clock
	ConfigPath string
	Preset     config.DifficultyPreset
}

// Options returns the engine options for d, using clock when non-nil.
// Without a Store each call gets its own in-memory high score table.
func (d Deps) Options(clock engine.Clock) []engine.Option {
	var opts []engine.Option
	if clock != nil {
		opts = append(opts, engine.WithClock(clock))
	}
	if d.Store != nil {
		opts = append(opts, engine.WithKV(d.Store), engine.WithHistory(d.Store))
	} else {
		opts = append(opts, engine.WithKV(storage.NewMemory()))
	}
	if d.Logger != nil {
		opts = append(opts, engine.WithLogger(d.Logger))
	}
	if d.Observer != nil {
		opts = append(opts, engine.WithObserver(d.Observer))
	}
	if d.Seed != 0 {
		opts = append(opts, engine.WithSeed(d.Seed))
	}
	return opts
}

// NewEngine creates fresh rules for gameID and an engine running them.
func (d Deps) NewEngine(gameID string, clock engine.Clock) (*engine.Engine, error) {
	rules, err := registry.Create(gameID, registry.Options{ConfigPath: d.ConfigPath, Preset: d.Preset})
	if err != nil {
		return nil, fmt.Errorf("host: %w", err)
	}
	return engine.New(rules, d.Options(clock)...), nil
}

// Interval returns how often a host driving its own frames should advance
// the engine for spec.
func Interval(spec engine.GameSpec) time.Duration {
	if spec.Mode == engine.ModeFrame {
		rate := spec.FrameRate
		if rate <= 0 {
			rate = 60
		}
		return time.Second / time.Duration(rate)
	}
	if spec.Period <= 0 {
		return time.Second / 60
	}
	return spec.Period
}
