package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"

	"github.com/vovakirdan/neon-arcade/internal/engine"
	"github.com/vovakirdan/neon-arcade/internal/registry"
	"github.com/vovakirdan/neon-arcade/internal/telemetry"
)

const sendBuffer = 8

// playConn is one browser playing one engine. Frames are produced on the
// engine's clock goroutine and written by a single writer goroutine.
type playConn struct {
	id      string
	ws      *websocket.Conn
	eng     *engine.Engine
	limiter *rate.Limiter
	metrics *telemetry.Metrics
	logger  *log.Logger

	mu        sync.Mutex
	send      chan []byte
	closed    bool
	lastState engine.State
}

// push queues b for the writer. When the client falls behind, ordinary
// frames are dropped rather than stalling the engine. A keep message evicts
// the oldest queued one instead, so state changes and replies always arrive.
func (c *playConn) push(b []byte, keep bool) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}
	select {
	case c.send <- b:
		return true
	default:
	}
	if !keep {
		return true
	}
	// Only push adds to send and it holds mu, so a slot is free after this.
	select {
	case <-c.send:
	default:
	}
	c.send <- b
	return true
}

func (c *playConn) pushJSON(v any) {
	b, err := json.Marshal(v)
	if err != nil {
		c.logger.Error("encode message", "err", err)
		return
	}
	c.push(b, true)
}

func (c *playConn) close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		c.closed = true
		close(c.send)
	}
}

// Render implements engine.Renderer by streaming each frame as JSON.
func (c *playConn) Render(f *engine.Frame) error {
	b, err := EncodeFrame(f)
	if err != nil {
		return err
	}
	c.mu.Lock()
	changed := f.State != c.lastState
	c.lastState = f.State
	c.mu.Unlock()
	if !c.push(b, changed) {
		return engine.ErrSurfaceGone
	}
	return nil
}

func (c *playConn) writeLoop(done chan<- struct{}) {
	defer close(done)
	for b := range c.send {
		if err := c.ws.WriteMessage(websocket.TextMessage, b); err != nil {
			c.logger.Debug("write failed", "err", err)
			c.eng.Detach()
			c.close()
			return
		}
		c.metrics.WSMessage("out")
	}
}

// handle applies one client message to the engine.
func (c *playConn) handle(msg ClientMessage) error {
	switch msg.Type {
	case MsgStart:
		return c.eng.Start(engine.StaticSurface(c))
	case MsgStop:
		c.eng.Detach()
	case MsgReset:
		return c.eng.Reset()
	case MsgKeyDown:
		c.eng.KeyDown(msg.Key)
	case MsgKeyUp:
		c.eng.KeyUp(msg.Key)
	default:
		return errUnknownMessage
	}
	return nil
}

var errUnknownMessage = errors.New("unknown message type")

// handlePlay upgrades to a WebSocket and runs one engine for the
// connection's lifetime.
func (s *Server) handlePlay(w http.ResponseWriter, r *http.Request) {
	gameID := chi.URLParam(r, "id")
	if !registry.Exists(gameID) {
		writeError(w, "unknown game", http.StatusNotFound)
		return
	}

	if n := s.active.Add(1); s.cfg.MaxConnections > 0 && int(n) > s.cfg.MaxConnections {
		s.active.Add(-1)
		s.metrics.RecordRejected(telemetry.ReasonWSLimit)
		writeError(w, "too many connections", http.StatusServiceUnavailable)
		return
	}
	defer s.active.Add(-1)

	id := uuid.NewString()
	deps := s.cfg.Deps
	deps.Logger = s.logger.With("conn", id, "game", gameID)

	var clock engine.Clock
	if s.cfg.NewClock != nil {
		clock = s.cfg.NewClock()
	}
	eng, err := deps.NewEngine(gameID, clock)
	if err != nil {
		writeError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	ws, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		deps.Logger.Warn("upgrade failed", "err", err)
		return
	}

	c := &playConn{
		id:      id,
		ws:      ws,
		eng:     eng,
		limiter: rate.NewLimiter(rate.Limit(s.cfg.MessagesPerSecond), s.cfg.MessageBurst),
		metrics: s.metrics,
		logger:  deps.Logger,
		send:    make(chan []byte, sendBuffer),
	}
	s.metrics.WSConnected(1)
	c.logger.Info("player connected", "remote", clientIP(r))

	done := make(chan struct{})
	go c.writeLoop(done)

	spec := eng.Spec()
	c.pushJSON(Hello{
		Type:   MsgHello,
		Conn:   id,
		Game:   gameID,
		Title:  eng.Rules().Title(),
		Width:  spec.Width,
		Height: spec.Height,
		High:   eng.HighScore(),
	})

	c.readLoop()

	eng.Detach()
	c.close()
	<-done
	ws.Close()
	s.metrics.WSConnected(-1)
	c.logger.Info("player disconnected", "state", eng.State())
}

func (c *playConn) readLoop() {
	for {
		_, data, err := c.ws.ReadMessage()
		if err != nil {
			return
		}
		c.metrics.WSMessage("in")

		if !c.limiter.Allow() {
			c.metrics.RecordRejected(telemetry.ReasonRateLimit)
			continue
		}

		var msg ClientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			c.metrics.RecordRejected(telemetry.ReasonInvalid)
			c.pushJSON(ErrorMessage{Type: MsgError, Error: "malformed message"})
			continue
		}
		if err := c.handle(msg); err != nil {
			if errors.Is(err, errUnknownMessage) {
				c.metrics.RecordRejected(telemetry.ReasonInvalid)
			}
			c.pushJSON(ErrorMessage{Type: MsgError, Error: err.Error()})
		}
	}
}
