package tui

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/neon-arcade/internal/core"
	"github.com/vovakirdan/neon-arcade/internal/engine"
)

// colorStyles maps core.Color to lipgloss styles.
var colorStyles = map[core.Color]lipgloss.Style{
	core.ColorDefault:       lipgloss.NewStyle(),
	core.ColorRed:           lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
	core.ColorGreen:         lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
	core.ColorYellow:        lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
	core.ColorBlue:          lipgloss.NewStyle().Foreground(lipgloss.Color("4")),
	core.ColorMagenta:       lipgloss.NewStyle().Foreground(lipgloss.Color("5")),
	core.ColorCyan:          lipgloss.NewStyle().Foreground(lipgloss.Color("6")),
	core.ColorWhite:         lipgloss.NewStyle().Foreground(lipgloss.Color("7")),
	core.ColorBrightRed:     lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
	core.ColorBrightGreen:   lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
	core.ColorBrightYellow:  lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
	core.ColorBrightBlue:    lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
	core.ColorBrightMagenta: lipgloss.NewStyle().Foreground(lipgloss.Color("13")),
	core.ColorBrightCyan:    lipgloss.NewStyle().Foreground(lipgloss.Color("14")),
	core.ColorBrightWhite:   lipgloss.NewStyle().Foreground(lipgloss.Color("15")),
	core.ColorOrange:        lipgloss.NewStyle().Foreground(lipgloss.Color("208")),
	core.ColorGray:          lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
}

// glyphs is the rune each entity kind is drawn with.
var glyphs = map[engine.Kind]rune{
	engine.KindPlayer:          '█',
	engine.KindPlatform:        '▒',
	engine.KindObstacle:        '▲',
	engine.KindEnemy:           '▼',
	engine.KindProjectile:      '|',
	engine.KindEnemyProjectile: '¦',
	engine.KindParticle:        '*',
	engine.KindFood:            '●',
	engine.KindSegment:         '█',
	engine.KindStar:            '.',
}

// ScreenRenderer draws engine frames into a character Screen. Row 0 holds
// the HUD; the playfield is boxed below it and scaled to fit, keeping
// terminal cells at roughly twice as tall as they are wide.
type ScreenRenderer struct {
	screen *core.Screen
}

var _ engine.Renderer = (*ScreenRenderer)(nil)

// NewScreenRenderer creates a renderer writing into screen.
func NewScreenRenderer(screen *core.Screen) *ScreenRenderer {
	return &ScreenRenderer{screen: screen}
}

// viewport maps playfield pixels to screen cells.
type viewport struct {
	ox, oy int     // top-left inner cell
	w, h   int     // inner size in cells
	sx, sy float64 // cells per pixel
	offX   int     // centering offset inside the box
	offY   int
}

func (r *ScreenRenderer) viewport(f *engine.Frame) viewport {
	s := r.screen
	vp := viewport{ox: 1, oy: 2, w: s.Width() - 2, h: s.Height() - 3}
	if vp.w <= 0 || vp.h <= 0 || f.Width <= 0 || f.Height <= 0 {
		return vp
	}

	if f.Grid > 0 {
		cols := int(f.Width / f.Grid)
		rows := int(f.Height / f.Grid)
		rowsPer := vp.h / rows
		if rowsPer >= 1 && cols*rowsPer*2 <= vp.w {
			vp.sy = float64(rowsPer) / f.Grid
			vp.sx = 2 * vp.sy
			vp.offX = (vp.w - cols*rowsPer*2) / 2
			vp.offY = (vp.h - rows*rowsPer) / 2
			return vp
		}
	}

	vp.sy = math.Min(float64(vp.h)/f.Height, float64(vp.w)/(2*f.Width))
	vp.sx = 2 * vp.sy
	vp.offX = (vp.w - int(f.Width*vp.sx)) / 2
	vp.offY = (vp.h - int(f.Height*vp.sy)) / 2
	return vp
}

// Render draws the HUD, the playfield box, every visible entity and, after
// a game over, the result panel.
func (r *ScreenRenderer) Render(f *engine.Frame) error {
	s := r.screen
	s.Clear()
	r.drawHUD(f)

	vp := r.viewport(f)
	if vp.w <= 0 || vp.h <= 0 {
		return nil
	}
	fieldW := int(math.Ceil(f.Width * vp.sx))
	fieldH := int(math.Ceil(f.Height * vp.sy))
	s.DrawBox(vp.ox+vp.offX-1, vp.oy+vp.offY-1, fieldW+2, fieldH+2)

	f.Entities(func(e *engine.Entity) {
		r.drawEntity(vp, fieldW, fieldH, e)
	})

	if f.State == engine.StateGameOver {
		lines := []string{"GAME OVER", "", fmt.Sprintf("Score: %d", f.Score)}
		if f.NewRecord {
			lines = append(lines, "NEW HIGH SCORE!")
		}
		lines = append(lines, "", "Enter: play again  Esc: menu")
		r.Panel(lines...)
	}
	return nil
}

func (r *ScreenRenderer) drawEntity(vp viewport, fieldW, fieldH int, e *engine.Entity) {
	x0 := int(math.Floor(e.X * vp.sx))
	y0 := int(math.Floor(e.Y * vp.sy))
	x1 := max(int(math.Ceil(e.Right()*vp.sx)), x0+1)
	y1 := max(int(math.Ceil(e.Bottom()*vp.sy)), y0+1)

	x0, x1 = max(x0, 0), min(x1, fieldW)
	y0, y1 = max(y0, 0), min(y1, fieldH)
	if x0 >= x1 || y0 >= y1 {
		return
	}

	ch := glyphs[e.Kind]
	if e.Kind == engine.KindParticle && e.Fade() < 0.5 {
		ch = '·'
	}
	r.screen.FillCells(vp.ox+vp.offX+x0, vp.oy+vp.offY+y0, x1-x0, y1-y0, ch, e.Color)
}

func (r *ScreenRenderer) drawHUD(f *engine.Frame) {
	hud := fmt.Sprintf(" %s   Score %d   High %d", strings.ToUpper(f.Title), f.Score, f.HighScore)
	if f.Lives > 0 {
		hud += "   " + strings.Repeat("♥", f.Lives)
	}
	if f.Level > 1 {
		hud += fmt.Sprintf("   Level %d", f.Level)
	}
	r.screen.DrawTextColored(0, 0, hud, core.ColorBrightWhite)
}

// Panel draws a boxed, centered block of lines over the screen.
func (r *ScreenRenderer) Panel(lines ...string) {
	s := r.screen
	w := 0
	for _, l := range lines {
		w = max(w, len([]rune(l)))
	}
	boxW, boxH := w+4, len(lines)+2
	x := (s.Width() - boxW) / 2
	y := (s.Height() - boxH) / 2

	s.FillCells(x, y, boxW, boxH, ' ', core.ColorDefault)
	s.DrawBox(x, y, boxW, boxH)
	for i, l := range lines {
		lx := x + (boxW-len([]rune(l)))/2
		s.DrawTextColored(lx, y+1+i, l, core.ColorBrightYellow)
	}
}

// RenderScreen converts a Screen buffer to a styled string for display.
// Groups adjacent cells with the same color to minimize ANSI escape sequences.
func RenderScreen(s *core.Screen) string {
	var sb strings.Builder
	sb.Grow(s.Width()*s.Height()*2 + s.Height())

	for y := range s.Height() {
		if y > 0 {
			sb.WriteRune('\n')
		}

		x := 0
		for x < s.Width() {
			startColor := s.GetCell(x, y).Color

			var run strings.Builder
			for x < s.Width() {
				cell := s.GetCell(x, y)
				if cell.Color != startColor {
					break
				}
				run.WriteRune(cell.Rune)
				x++
			}

			style, ok := colorStyles[startColor]
			if !ok {
				style = colorStyles[core.ColorDefault]
			}
			sb.WriteString(style.Render(run.String()))
		}
	}
	return sb.String()
}
