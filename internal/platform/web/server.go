// Package web serves the arcade over HTTP: a JSON API for games and scores,
// PNG previews, Prometheus metrics and a WebSocket endpoint that streams
// frames to a browser client.
package web

import (
	"context"
	"embed"
	"errors"
	"io/fs"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/gorilla/websocket"

	"github.com/vovakirdan/neon-arcade/internal/engine"
	"github.com/vovakirdan/neon-arcade/internal/host"
	"github.com/vovakirdan/neon-arcade/internal/telemetry"
)

//go:embed static
var staticFiles embed.FS

// Config contains everything the HTTP server needs.
type Config struct {
	Address string
	Deps    host.Deps

	// Metrics receives server and engine metrics; nil disables them.
	Metrics *telemetry.Metrics
	// MetricsHandler serves /metrics when non-nil.
	MetricsHandler http.Handler

	RateLimit   RateLimitConfig
	CORSOrigins []string
	// TrustProxy takes client addresses from X-Forwarded-For and X-Real-IP.
	// Enable it only behind a reverse proxy that sets them.
	TrustProxy bool

	MaxConnections    int
	MessagesPerSecond float64
	MessageBurst      int

	// NewClock builds the clock of each play connection's engine. Nil uses
	// the game's own clock.
	NewClock func() engine.Clock
}

// DefaultConfig returns production defaults listening on addr.
func DefaultConfig(addr string) Config {
	return Config{
		Address:           addr,
		RateLimit:         DefaultRateLimitConfig,
		CORSOrigins:       []string{"http://localhost:*", "http://127.0.0.1:*"},
		MaxConnections:    200,
		MessagesPerSecond: 60,
		MessageBurst:      120,
	}
}

// Server is the arcade HTTP server.
type Server struct {
	cfg      Config
	router   *chi.Mux
	limiter  *IPRateLimiter
	upgrader websocket.Upgrader
	metrics  *telemetry.Metrics
	logger   *log.Logger
	active   atomic.Int64
}

// New builds the server and its routes. It starts no goroutines.
func New(cfg Config) *Server {
	logger := cfg.Deps.Logger
	if logger == nil {
		logger = log.Default()
	}
	if cfg.Metrics != nil && cfg.Deps.Observer == nil {
		cfg.Deps.Observer = cfg.Metrics
	}

	s := &Server{
		cfg:     cfg,
		limiter: NewIPRateLimiter(cfg.RateLimit, cfg.Metrics),
		metrics: cfg.Metrics,
		logger:  logger.WithPrefix("web"),
	}
	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 4096,
		CheckOrigin:     s.checkOrigin,
	}
	s.router = s.routes()
	return s
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() *chi.Mux {
	r := chi.NewRouter()
	if s.cfg.TrustProxy {
		r.Use(middleware.RealIP)
	}
	r.Use(middleware.Recoverer)
	r.Use(s.observe)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.cfg.CORSOrigins,
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"*"},
	}))

	r.Route("/api", func(r chi.Router) {
		r.Use(s.limiter.Middleware)
		r.Get("/games", s.handleGames)
		r.Get("/games/{id}", s.handleGame)
		r.Get("/games/{id}/scores", s.handleScores)
		r.Get("/games/{id}/stats", s.handleStats)
		r.Get("/games/{id}/preview.png", s.handlePreview)
	})
	r.Get("/ws/{id}", s.handlePlay)

	if s.cfg.MetricsHandler != nil {
		r.Handle("/metrics", s.cfg.MetricsHandler)
	}

	static, err := fs.Sub(staticFiles, "static")
	if err == nil {
		r.Handle("/*", http.FileServer(http.FS(static)))
	}
	return r
}

// checkOrigin accepts same-host pages and the configured CORS origins.
func (s *Server) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" || origin == "http://"+r.Host || origin == "https://"+r.Host {
		return true
	}
	if originAllowed(origin, s.cfg.CORSOrigins) {
		return true
	}
	s.logger.Warn("websocket origin rejected", "origin", origin)
	s.metrics.RecordRejected(telemetry.ReasonInvalid)
	return false
}

// originAllowed matches origin against patterns holding at most one '*',
// the same form cors.Options.AllowedOrigins takes.
func originAllowed(origin string, patterns []string) bool {
	for _, p := range patterns {
		prefix, suffix, wild := strings.Cut(p, "*")
		if !wild {
			if origin == p {
				return true
			}
			continue
		}
		if len(origin) >= len(prefix)+len(suffix) &&
			strings.HasPrefix(origin, prefix) && strings.HasSuffix(origin, suffix) {
			return true
		}
	}
	return false
}

// observe logs each request and records its latency by route pattern.
func (s *Server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		d := time.Since(start)
		s.metrics.ObserveRequest(r.Method, route, status, d)
		s.logger.Debug("request", "method", r.Method, "route", route, "status", status, "duration", d)
	})
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Address,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go s.limiter.Run(ctx)

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "address", s.cfg.Address)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
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
	shutdownCtx, stop := context.WithTimeout(context.Background(), 10*time.Second)
	defer stop()
	return srv.Shutdown(shutdownCtx)
}
