// Package snake implements the grid Snake game on top of the engine.
// The snake moves one cell per tick, grows when it eats and dies on walls
// or on itself.
package snake

import (
	"time"

	"github.com/vovakirdan/neon-arcade/internal/config"
	"github.com/vovakirdan/neon-arcade/internal/core"
	"github.com/vovakirdan/neon-arcade/internal/engine"
	"github.com/vovakirdan/neon-arcade/internal/registry"
)

// Direction represents the snake's movement direction.
type Direction int

const (
	DirRight Direction = iota
	DirDown
	DirLeft
	DirUp
)

func (d Direction) delta() (int, int) {
	switch d {
	case DirRight:
		return 1, 0
	case DirDown:
		return 0, 1
	case DirLeft:
		return -1, 0
	default:
		return 0, -1
	}
}

func (d Direction) horizontal() bool {
	return d == DirLeft || d == DirRight
}

func (d Direction) String() string {
	switch d {
	case DirRight:
		return "right"
	case DirDown:
		return "down"
	case DirLeft:
		return "left"
	default:
		return "up"
	}
}

var actionDirs = map[core.Action]Direction{
	core.ActionRight: DirRight,
	core.ActionDown:  DirDown,
	core.ActionLeft:  DirLeft,
	core.ActionUp:    DirUp,
}

// Game implements the Snake rules.
type Game struct {
	cfg  config.SnakeConfig
	cell float64

	direction Direction
	nextDir   Direction        // buffered until the next move
	body      []*engine.Entity // head at index 0
	food      *engine.Entity
}

func init() {
	registry.Register(registry.GameInfo{
		ID:          "snake",
		Title:       "Snake",
		Description: "Eat, grow, don't bite yourself.",
	}, func(opts registry.Options) (engine.Rules, error) {
		return New(opts.ConfigPath, opts.Preset)
	})
}

// New loads the Snake config from the search path and applies preset.
func New(configPath string, preset config.DifficultyPreset) (*Game, error) {
	cfg, err := config.LoadSnake(configPath)
	if err != nil {
		return nil, err
	}
	if preset != "" {
		config.ApplySnakePreset(&cfg, preset)
	}
	return NewWithConfig(cfg), nil
}

// NewWithConfig creates a game from an already loaded config.
func NewWithConfig(cfg config.SnakeConfig) *Game {
	return &Game{cfg: cfg, cell: float64(cfg.Grid.CellSize)}
}

// ID returns the game identifier.
func (g *Game) ID() string { return "snake" }

// Title returns the display name.
func (g *Game) Title() string { return "Snake" }

// Config describes the grid playfield and the fixed move interval.
func (g *Game) Config() engine.GameSpec {
	return engine.GameSpec{
		Width:  float64(g.cfg.Grid.Cols) * g.cell,
		Height: float64(g.cfg.Grid.Rows) * g.cell,
		Grid:   g.cell,
		Mode:   engine.ModeInterval,
		Period: time.Duration(g.cfg.Gameplay.TickMillis) * time.Millisecond,
		Lives:  1,
		Keys:   engine.KeyMapFrom(g.cfg.Keys),
	}
}

// Setup places a one-cell snake moving right and the first food.
func (g *Game) Setup(s *engine.Session) {
	g.direction = DirRight
	g.nextDir = DirRight
	g.body = g.body[:0]
	g.body = append(g.body, s.Store.Spawn(g.cellEntity(engine.KindSegment, g.cfg.Gameplay.StartX, g.cfg.Gameplay.StartY)))
	g.body[0].Color = core.ColorMagenta
	g.food = s.Store.Spawn(g.cellEntity(engine.KindFood, g.cfg.Food.StartX, g.cfg.Food.StartY))
	g.food.Color = core.ColorBrightMagenta
}

// Update moves the snake one cell.
func (g *Game) Update(s *engine.Session, _ time.Time) {
	g.steer(s.Input.Drain())
	g.direction = g.nextDir

	dx, dy := g.direction.delta()
	hx, hy := g.cellOf(g.body[0])
	hx, hy = hx+dx, hy+dy

	if hx < 0 || hx >= g.cfg.Grid.Cols || hy < 0 || hy >= g.cfg.Grid.Rows {
		s.Lose("wall")
		return
	}

	head := g.cellEntity(engine.KindSegment, hx, hy)
	if engine.FirstHit(s.Store, &head, engine.KindSegment) != nil {
		s.Lose("self")
		return
	}

	if head.Overlaps(g.food) {
		s.AddPoints(g.cfg.Food.Points)
		g.grow(s, head)
		g.placeFood(s)
		return
	}
	g.slide(head)
}

// steer applies key presses in arrival order. A turn is accepted only onto
// the axis perpendicular to the current movement; the last one wins.
func (g *Game) steer(presses []core.Action) {
	for _, a := range presses {
		d, ok := actionDirs[a]
		if !ok {
			continue
		}
		if d.horizontal() != g.direction.horizontal() {
			g.nextDir = d
		}
	}
}

func (g *Game) grow(s *engine.Session, head engine.Entity) {
	g.body[0].Color = core.ColorBlue
	e := s.Store.Spawn(head)
	e.Color = core.ColorMagenta
	g.body = append([]*engine.Entity{e}, g.body...)
}

// slide moves the tail segment to the new head position.
func (g *Game) slide(head engine.Entity) {
	last := len(g.body) - 1
	tail := g.body[last]
	tail.X, tail.Y = head.X, head.Y

	copy(g.body[1:], g.body[:last])
	g.body[0] = tail
	for i, e := range g.body {
		e.Color = core.ColorBlue
		if i == 0 {
			e.Color = core.ColorMagenta
		}
	}
}

// placeFood moves the food to a uniformly random cell. With avoid_body set
// cells under the snake are re-rolled.
func (g *Game) placeFood(s *engine.Session) {
	cols, rows := g.cfg.Grid.Cols, g.cfg.Grid.Rows
	for tries := 0; ; tries++ {
		x := engine.Choose(s.Rand, cols)
		y := engine.Choose(s.Rand, rows)
		g.food.X, g.food.Y = float64(x)*g.cell, float64(y)*g.cell
		if !g.cfg.Food.AvoidBody || tries >= cols*rows || len(g.body) >= cols*rows {
			return
		}
		if engine.FirstHit(s.Store, g.food, engine.KindSegment) == nil {
			return
		}
	}
}

func (g *Game) cellEntity(kind engine.Kind, x, y int) engine.Entity {
	return engine.Entity{
		Kind: kind,
		X:    float64(x) * g.cell,
		Y:    float64(y) * g.cell,
		W:    g.cell,
		H:    g.cell,
	}
}

func (g *Game) cellOf(e *engine.Entity) (int, int) {
	return int(e.X / g.cell), int(e.Y / g.cell)
}
