package engine

import "errors"

var (
	// ErrSurfaceUnavailable is returned by Start when no renderer can be acquired.
	ErrSurfaceUnavailable = errors.New("engine: surface unavailable")
	// ErrSurfaceGone is returned by a Renderer whose output has gone away.
	// The engine stops and detaches when it sees it.
	ErrSurfaceGone = errors.New("engine: surface gone")
)

// Surface is something a game view can draw on.
type Surface interface {
	Acquire(width, height float64) (Renderer, error)
}

// Renderer draws one frame. It must not retain f or the store after Render
// returns.
type Renderer interface {
	Render(f *Frame) error
}

// SurfaceFunc adapts a function to Surface.
type SurfaceFunc func(width, height float64) (Renderer, error)

func (f SurfaceFunc) Acquire(width, height float64) (Renderer, error) {
	return f(width, height)
}

// RendererFunc adapts a function to Renderer.
type RendererFunc func(f *Frame) error

func (fn RendererFunc) Render(f *Frame) error {
	return fn(f)
}

// StaticSurface always hands out the same renderer.
func StaticSurface(r Renderer) Surface {
	return SurfaceFunc(func(float64, float64) (Renderer, error) { return r, nil })
}

// Frame is the read-only view of a session handed to renderers each tick.
type Frame struct {
	GameID     string
	Title      string
	Width      float64
	Height     float64
	Grid       float64 // cell size for grid games, 0 otherwise
	State      State
	Score      int
	HighScore  int
	NewRecord  bool
	Lives      int
	Level      int
	Tick       int
	Difficulty float64

	store *Store
}

// Entities calls fn for every live, visible entity in draw order.
func (f *Frame) Entities(fn func(e *Entity)) {
	if f.store == nil {
		return
	}
	for _, k := range DrawOrder {
		f.store.ForEach(k, func(e *Entity) bool {
			if !e.Hidden {
				fn(e)
			}
			return true
		})
	}
}

// Count returns the number of live entities of kind.
func (f *Frame) Count(kind Kind) int {
	if f.store == nil {
		return 0
	}
	return f.store.Count(kind)
}
