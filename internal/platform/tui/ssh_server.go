package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/bubbletea"
	"github.com/google/uuid"

	"github.com/vovakirdan/neon-arcade/internal/core"
	"github.com/vovakirdan/neon-arcade/internal/engine"
	"github.com/vovakirdan/neon-arcade/internal/host"
)

// SSHServerConfig holds configuration for the SSH server.
type SSHServerConfig struct {
	// Address is the host:port to listen on (e.g., ":23234").
	Address string

	// HostKeyPath is the path to the host key file.
	// If empty, a key will be auto-generated at ~/.arcade/host_key.
	HostKeyPath string

	// IdleTimeout is how long to wait before closing idle connections.
	IdleTimeout time.Duration
}

// DefaultSSHServerConfig returns a config with sensible defaults.
func DefaultSSHServerConfig() SSHServerConfig {
	return SSHServerConfig{
		Address:     ":23234",
		IdleTimeout: 30 * time.Minute,
	}
}

// SSHServer serves the arcade over SSH, one Bubble Tea program per session.
type SSHServer struct {
	config SSHServerConfig
	server *ssh.Server
	deps   host.Deps
	logger *log.Logger
}

// NewSSHServer creates a new SSH server. Every session shares deps, so
// high scores recorded over SSH land in the same store.
func NewSSHServer(cfg SSHServerConfig, deps host.Deps) (*SSHServer, error) {
	logger := deps.Logger
	if logger == nil {
		logger = log.NewWithOptions(os.Stderr, log.Options{
			ReportTimestamp: true,
			Prefix:          "arcade-ssh",
		})
		deps.Logger = logger
	}

	srv := &SSHServer{config: cfg, deps: deps, logger: logger}

	hostKeyPath := cfg.HostKeyPath
	if hostKeyPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("cannot get home directory: %w", err)
		}
		hostKeyPath = filepath.Join(home, ".arcade", "host_key")
	}
	if err := os.MkdirAll(filepath.Dir(hostKeyPath), 0o700); err != nil {
		return nil, fmt.Errorf("cannot create host key directory: %w", err)
	}

	server, err := wish.NewServer(
		wish.WithAddress(cfg.Address),
		wish.WithHostKeyPath(hostKeyPath),
		wish.WithIdleTimeout(cfg.IdleTimeout),
		wish.WithMiddleware(
			bubbletea.Middleware(srv.teaHandler),
			srv.loggingMiddleware,
		),
	)
	if err != nil {
		return nil, fmt.Errorf("cannot create SSH server: %w", err)
	}

	srv.server = server
	return srv, nil
}

// teaHandler creates a Bubble Tea program for each SSH session.
func (s *SSHServer) teaHandler(sess ssh.Session) (tea.Model, []tea.ProgramOption) {
	pty, _, ok := sess.Pty()
	if !ok {
		s.logger.Warn("no PTY requested", "user", sess.User())
		return nil, nil
	}

	cfg := core.DefaultConfig()
	cfg.ScreenW = pty.Window.Width
	cfg.ScreenH = pty.Window.Height

	deps := s.deps
	deps.Logger = s.logger.With("user", sess.User(), "session", uuid.NewString())
	if deps.Seed == 0 {
		deps.Seed = time.Now().UnixNano()
	}

	model := NewSessionModel(deps, cfg)
	go func() {
		<-sess.Context().Done()
		model.Close()
	}()
	return model, []tea.ProgramOption{tea.WithAltScreen()}
}

// loggingMiddleware logs SSH session events.
func (s *SSHServer) loggingMiddleware(next ssh.Handler) ssh.Handler {
	return func(sess ssh.Session) {
		start := time.Now()
		s.logger.Info("session started", "user", sess.User(), "remote", sess.RemoteAddr().String())
		next(sess)
		s.logger.Info("session ended",
			"user", sess.User(),
			"remote", sess.RemoteAddr().String(),
			"duration", time.Since(start).Round(time.Second),
		)
	}
}

// ListenAndServe serves until ctx is cancelled, then shuts down.
func (s *SSHServer) ListenAndServe(ctx context.Context) error {
	s.logger.Info("starting SSH server", "address", s.config.Address)

	errCh := make(chan error, 1)
	go func() {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down...")
	return s.Shutdown()
}

// Shutdown gracefully stops the server.
func (s *SSHServer) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.server.Shutdown(ctx)
}

// Addr returns the server's listen address string.
func (s *SSHServer) Addr() string {
	return s.config.Address
}

// SessionModel manages the full arcade flow of one connection:
// menu, then game, then back to the menu.
type SessionModel struct {
	deps     host.Deps
	config   core.RuntimeConfig
	menu     MenuModel
	game     *Model
	live     *liveEngine
	quitting bool
	err      error
}

// liveEngine is shared by every copy of a SessionModel so the connection's
// teardown can reach the engine currently in play.
type liveEngine struct {
	mu  sync.Mutex
	eng *engine.Engine
}

func (l *liveEngine) set(eng *engine.Engine) {
	l.mu.Lock()
	l.eng = eng
	l.mu.Unlock()
}

// NewSessionModel creates a new session model.
func NewSessionModel(deps host.Deps, cfg core.RuntimeConfig) SessionModel {
	return SessionModel{
		deps:   deps,
		config: cfg,
		menu:   NewMenuModel(kvOf(deps), deps.Preset, cfg),
		live:   &liveEngine{},
	}
}

// Close detaches the engine in play, if any. It is called when the client
// disconnects and is safe from any goroutine.
func (m SessionModel) Close() {
	m.live.mu.Lock()
	eng := m.live.eng
	m.live.eng = nil
	m.live.mu.Unlock()
	if eng != nil {
		eng.Detach()
	}
}

func kvOf(deps host.Deps) engine.KV {
	if deps.Store == nil {
		return nil
	}
	return deps.Store
}

// Init initializes the session.
func (m SessionModel) Init() tea.Cmd {
	return m.menu.Init()
}

// Update handles messages for the session.
func (m SessionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if wsm, ok := msg.(tea.WindowSizeMsg); ok {
		m.config.ScreenW = wsm.Width
		m.config.ScreenH = wsm.Height
	}

	if m.game != nil {
		return m.updateGame(msg)
	}
	return m.updateMenu(msg)
}

func (m SessionModel) updateMenu(msg tea.Msg) (tea.Model, tea.Cmd) {
	if _, ok := msg.(TickMsg); ok {
		// Stale tick from a game that was just left.
		return m, nil
	}

	next, cmd := m.menu.Update(msg)
	if menu, ok := next.(MenuModel); ok {
		m.menu = menu
	}

	if m.menu.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}

	// The scoreboard needs its own program; over SSH the menu stays put.
	if m.menu.WantsScoreboard() {
		m.menu.openScoreboard = false
		return m, nil
	}

	if selected := m.menu.Selected(); selected != nil {
		deps := m.deps
		deps.Preset = m.menu.Preset()
		game, err := NewModel(selected.GameID, deps, m.config)
		if err != nil {
			if m.deps.Logger != nil {
				m.deps.Logger.Error("cannot create game", "game", selected.GameID, "error", err)
			}
			m.menu.selected = nil
			m.err = err
			return m, nil
		}
		m.game = &game
		m.live.set(game.Engine())
		return m, game.Init()
	}

	return m, cmd
}

func (m SessionModel) updateGame(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.game.Update(msg)
	if game, ok := next.(Model); ok {
		m.game = &game
	}

	if m.game.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}

	if m.game.BackToMenu() {
		m.game.eng.Detach()
		m.live.set(nil)
		m.game = nil
		m.menu = NewMenuModel(kvOf(m.deps), m.menu.Preset(), m.config)
		return m, nil
	}

	return m, cmd
}

// View renders the current view.
func (m SessionModel) View() string {
	if m.quitting {
		return ""
	}
	if m.game != nil {
		return m.game.View()
	}
	view := m.menu.View()
	if m.err != nil {
		view += "\n" + centerText(m.err.Error(), m.config.ScreenW)
	}
	return view
}
