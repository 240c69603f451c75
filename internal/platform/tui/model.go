package tui

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/neon-arcade/internal/core"
	"github.com/vovakirdan/neon-arcade/internal/engine"
	"github.com/vovakirdan/neon-arcade/internal/host"
)

// keyRelease is how long a key counts as held after its last press.
// Terminals report presses and repeats but never releases.
const keyRelease = 200 * time.Millisecond

// Model is the Bubble Tea model hosting one game engine. Bubble Tea ticks
// drive a manual frame source, so every simulation step and render happens
// on the program's update goroutine.
type Model struct {
	eng      *engine.Engine
	frames   *engine.ManualFrames
	screen   *core.Screen
	renderer *ScreenRenderer
	keys     GameKeyMap
	help     help.Model
	held     map[string]time.Time
	interval time.Duration
	id       uint64

	exitOnBack bool
	backToMenu bool
	quitting   bool
	err        error
}

// NewModel creates a game view for gameID.
func NewModel(gameID string, deps host.Deps, cfg core.RuntimeConfig) (Model, error) {
	frames := engine.NewManualFrames()
	eng, err := deps.NewEngine(gameID, engine.FrameSynced(frames))
	if err != nil {
		return Model{}, err
	}

	screen := core.NewScreen(cfg.ScreenW, max(cfg.ScreenH-1, 1))
	h := help.New()
	h.Width = cfg.ScreenW

	return Model{
		eng:      eng,
		frames:   frames,
		screen:   screen,
		renderer: NewScreenRenderer(screen),
		keys:     DefaultGameKeyMap(gameID),
		help:     h,
		held:     make(map[string]time.Time),
		interval: host.Interval(eng.Spec()),
		id:       viewSeq.Add(1),
	}, nil
}

// Engine returns the hosted engine.
func (m Model) Engine() *engine.Engine { return m.eng }

// Init starts the tick loop. The game waits in Ready for Enter.
func (m Model) Init() tea.Cmd {
	return tickCmd(m.id, m.interval)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.screen.Resize(msg.Width, max(msg.Height-1, 1))
		m.help.Width = msg.Width
		m.eng.Render()
		return m, nil

	case TickMsg:
		if msg.view != m.id {
			return m, nil
		}
		return m.handleTick(msg.At)
	}

	return m, nil
}

// handleKey routes host keys by state and forwards everything else to the
// engine while playing.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		m.eng.Detach()
		m.quitting = true
		return m, tea.Quit
	}
	if msg.String() == "ctrl+s" {
		m.saveScreenshot()
		return m, nil
	}

	switch m.eng.State() {
	case engine.StatePlaying:
		if key.Matches(msg, m.keys.Back) {
			m.eng.Detach()
			clear(m.held)
			return m, nil
		}
		k := msg.String()
		m.eng.KeyDown(k)
		m.held[k] = time.Now()

	case engine.StateReady:
		switch {
		case key.Matches(msg, m.keys.Start):
			m.start()
		case key.Matches(msg, m.keys.Back):
			m.backToMenu = true
			if m.exitOnBack {
				m.eng.Detach()
				return m, tea.Quit
			}
		}

	case engine.StateGameOver:
		switch {
		case key.Matches(msg, m.keys.Start):
			m.start()
		case key.Matches(msg, m.keys.Back):
			m.err = m.eng.Reset()
		}
	}
	return m, nil
}

func (m *Model) start() {
	clear(m.held)
	m.err = m.eng.Start(engine.StaticSurface(m.renderer))
}

// handleTick releases keys not repeated recently and advances the engine.
func (m Model) handleTick(now time.Time) (tea.Model, tea.Cmd) {
	for k, at := range m.held {
		if now.Sub(at) > keyRelease {
			m.eng.KeyUp(k)
			delete(m.held, k)
		}
	}
	m.frames.Advance(now)
	return m, tickCmd(m.id, m.interval)
}

// saveScreenshot saves the current screen to ~/.arcade/screenshots.
func (m *Model) saveScreenshot() {
	dir := filepath.Join(os.Getenv("HOME"), ".arcade", "screenshots")
	//nolint:errcheck // Best-effort directory creation
	os.MkdirAll(dir, 0o755)

	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("%s_%s.txt", m.eng.Rules().ID(), timestamp)

	//nolint:errcheck // Best-effort save, game continues regardless
	os.WriteFile(filepath.Join(dir, filename), []byte(m.screen.String()), 0o600)
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	if m.eng.State() == engine.StateReady {
		m.drawReady()
	}
	return RenderScreen(m.screen) + "\n" + m.help.View(m.keys)
}

func (m Model) drawReady() {
	m.screen.Clear()
	title := strings.ToUpper(m.eng.Rules().Title())
	lines := []string{title, "", fmt.Sprintf("High score: %d", m.eng.HighScore()), "", "Press Enter to start"}
	if m.err != nil {
		msg := m.err.Error()
		if errors.Is(m.err, engine.ErrSurfaceUnavailable) {
			msg = "Screen unavailable, resize and retry"
		}
		lines = append(lines, "", msg)
	}
	m.renderer.Panel(lines...)
}

// IsQuitting returns true if user requested to quit entirely.
func (m Model) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if user requested to go back to menu.
func (m Model) BackToMenu() bool {
	return m.backToMenu
}

// Run plays one game in the terminal until the player quits or backs out.
func Run(gameID string, deps host.Deps, cfg core.RuntimeConfig) error {
	model, err := NewModel(gameID, deps, cfg)
	if err != nil {
		return err
	}
	model.exitOnBack = true

	p := tea.NewProgram(model, tea.WithAltScreen())
	_, err = p.Run()
	model.eng.Detach()
	return err
}
