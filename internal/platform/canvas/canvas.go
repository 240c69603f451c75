// Package canvas renders engine frames to images with fogleman/gg. The
// image uses the playfield's logical pixels, optionally scaled.
package canvas

import (
	"errors"
	"fmt"
	"image"
	"io"
	"math"
	"sync"
	"time"

	"github.com/fogleman/gg"

	"github.com/vovakirdan/neon-arcade/internal/engine"
	"github.com/vovakirdan/neon-arcade/internal/host"
)

const (
	background = "#0b0b1a"
	hudColor   = "#f9fafb"
	maxScale   = 4
)

// Renderer draws frames into an in-memory image.
type Renderer struct {
	mu     sync.Mutex
	dc     *gg.Context
	scale  float64
	frames int
	closed bool
}

var _ engine.Renderer = (*Renderer)(nil)

// New creates a renderer for a width x height playfield drawn at scale.
func New(width, height, scale float64) (*Renderer, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("canvas: invalid playfield %gx%g", width, height)
	}
	if scale <= 0 || scale > maxScale {
		return nil, fmt.Errorf("canvas: scale %g out of range (0, %d]", scale, maxScale)
	}
	w := int(math.Ceil(width * scale))
	h := int(math.Ceil(height * scale))
	return &Renderer{dc: gg.NewContext(w, h), scale: scale}, nil
}

// Surface hands out a new Renderer sized to each session's playfield.
// onAcquire, when non-nil, receives every renderer handed out.
func Surface(scale float64, onAcquire func(*Renderer)) engine.Surface {
	return engine.SurfaceFunc(func(width, height float64) (engine.Renderer, error) {
		r, err := New(width, height, scale)
		if err != nil {
			return nil, errors.Join(engine.ErrSurfaceUnavailable, err)
		}
		if onAcquire != nil {
			onAcquire(r)
		}
		return r, nil
	})
}

// Render draws the background, every visible entity and the HUD.
func (r *Renderer) Render(f *engine.Frame) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return engine.ErrSurfaceGone
	}

	dc := r.dc
	dc.SetHexColor(background)
	dc.Clear()

	dc.Push()
	dc.Scale(r.scale, r.scale)
	f.Entities(func(e *engine.Entity) {
		drawEntity(dc, e)
	})
	dc.Pop()

	drawHUD(dc, f)
	r.frames++
	return nil
}

func drawEntity(dc *gg.Context, e *engine.Entity) {
	dc.SetHexColor(e.Color.Hex())
	switch e.Kind {
	case engine.KindParticle:
		dc.SetHexColor(fmt.Sprintf("%s%02x", e.Color.Hex(), uint8(e.Fade()*255)))
		dc.DrawCircle(e.X+e.W/2, e.Y+e.H/2, math.Max(e.W, e.H)/2)
	case engine.KindStar:
		dc.DrawCircle(e.X+e.W/2, e.Y+e.H/2, e.W/2)
	case engine.KindObstacle:
		dc.MoveTo(e.X, e.Bottom())
		dc.LineTo(e.X+e.W/2, e.Y)
		dc.LineTo(e.Right(), e.Bottom())
		dc.ClosePath()
	case engine.KindFood:
		dc.DrawCircle(e.X+e.W/2, e.Y+e.H/2, e.W/2-1)
	case engine.KindSegment:
		dc.DrawRectangle(e.X+1, e.Y+1, e.W-2, e.H-2)
	default:
		dc.DrawRectangle(e.X, e.Y, e.W, e.H)
	}
	dc.Fill()
}

func drawHUD(dc *gg.Context, f *engine.Frame) {
	dc.SetHexColor(hudColor)
	dc.DrawString(fmt.Sprintf("Score: %d", f.Score), 8, 16)
	dc.DrawStringAnchored(fmt.Sprintf("High: %d", f.HighScore), float64(dc.Width())-8, 16, 1, 0)
	if f.Lives > 1 || f.Level > 1 {
		dc.DrawString(fmt.Sprintf("Lives: %d  Level: %d", f.Lives, f.Level), 8, 32)
	}

	if f.State == engine.StateGameOver {
		w, h := float64(dc.Width()), float64(dc.Height())
		dc.SetRGBA(0, 0, 0, 0.6)
		dc.DrawRectangle(0, 0, w, h)
		dc.Fill()
		dc.SetHexColor(hudColor)
		dc.DrawStringAnchored("GAME OVER", w/2, h/2-10, 0.5, 0.5)
		dc.DrawStringAnchored(fmt.Sprintf("Score: %d", f.Score), w/2, h/2+10, 0.5, 0.5)
		if f.NewRecord {
			dc.DrawStringAnchored("NEW HIGH SCORE!", w/2, h/2+30, 0.5, 0.5)
		}
	}
}

// Frames returns how many frames have been drawn.
func (r *Renderer) Frames() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.frames
}

// Image returns the current image.
func (r *Renderer) Image() image.Image {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.dc.Image()
}

// EncodePNG writes the current image as PNG.
func (r *Renderer) EncodePNG(w io.Writer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.dc.EncodePNG(w)
}

// SavePNG writes the current image to path.
func (r *Renderer) SavePNG(path string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.dc.SavePNG(path)
}

// Close makes further renders fail with engine.ErrSurfaceGone, which stops
// the engine drawing on it.
func (r *Renderer) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
}

// Capture plays gameID headless for up to ticks frames with no input and
// returns the renderer holding the last frame. Play stops early on a game
// over.
func Capture(deps host.Deps, gameID string, ticks int, scale float64) (*Renderer, error) {
	frames := engine.NewManualFrames()
	eng, err := deps.NewEngine(gameID, engine.FrameSynced(frames))
	if err != nil {
		return nil, err
	}

	var r *Renderer
	if err := eng.Start(Surface(scale, func(got *Renderer) { r = got })); err != nil {
		return nil, fmt.Errorf("canvas: start %s: %w", gameID, err)
	}

	now := time.Now()
	period := host.Interval(eng.Spec())
	for i := 0; i < ticks && eng.State() == engine.StatePlaying; i++ {
		now = now.Add(period)
		frames.Advance(now)
	}
	eng.Detach()
	return r, nil
}
