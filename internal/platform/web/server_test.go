package web

import (
	"encoding/json"
	"fmt"
	"image/png"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/neon-arcade/internal/engine"
	_ "github.com/vovakirdan/neon-arcade/internal/games/runner"
	_ "github.com/vovakirdan/neon-arcade/internal/games/shooter"
	_ "github.com/vovakirdan/neon-arcade/internal/games/snake"
	"github.com/vovakirdan/neon-arcade/internal/host"
	"github.com/vovakirdan/neon-arcade/internal/storage"
	"github.com/vovakirdan/neon-arcade/internal/telemetry"
)

type harness struct {
	t       *testing.T
	srv     *httptest.Server
	store   *storage.Store
	frames  *engine.ManualFrames
	metrics *telemetry.Metrics
}

func newHarness(t *testing.T, tweak func(*Config)) *harness {
	t.Helper()
	t.Setenv("HOME", t.TempDir())

	store, err := storage.Open(filepath.Join(t.TempDir(), "scores.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	reg := prometheus.NewRegistry()
	h := &harness{
		t:       t,
		store:   store,
		frames:  engine.NewManualFrames(),
		metrics: telemetry.New(reg),
	}

	cfg := DefaultConfig("")
	cfg.Deps = host.Deps{Store: store, Seed: 9}
	cfg.Metrics = h.metrics
	cfg.MetricsHandler = promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
	cfg.RateLimit = RateLimitConfig{RequestsPerSecond: 1000, Burst: 1000}
	cfg.NewClock = func() engine.Clock { return engine.FrameSynced(h.frames) }
	if tweak != nil {
		tweak(&cfg)
	}

	h.srv = httptest.NewServer(New(cfg).Handler())
	t.Cleanup(h.srv.Close)
	return h
}

func (h *harness) get(path string) *http.Response {
	h.t.Helper()
	resp, err := http.Get(h.srv.URL + path)
	require.NoError(h.t, err)
	h.t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func (h *harness) getJSON(path string, v any) int {
	h.t.Helper()
	resp := h.get(path)
	require.NoError(h.t, json.NewDecoder(resp.Body).Decode(v))
	return resp.StatusCode
}

func (h *harness) dial(gameID string) (*websocket.Conn, *http.Response, error) {
	url := "ws" + strings.TrimPrefix(h.srv.URL, "http") + "/ws/" + gameID
	return websocket.DefaultDialer.Dial(url, nil)
}

func TestListGames(t *testing.T) {
	h := newHarness(t, nil)
	require.NoError(t, h.store.Set(engine.HighScoreKey("snake"), "120"))

	var games []GameJSON
	assert.Equal(t, http.StatusOK, h.getJSON("/api/games", &games))
	require.Len(t, games, 3)
	assert.Equal(t, "runner", games[0].ID)
	assert.Equal(t, "Snake", games[2].Title)
	assert.Equal(t, 120, games[2].HighScore)

	var one GameJSON
	assert.Equal(t, http.StatusOK, h.getJSON("/api/games/shooter", &one))
	assert.Equal(t, "Space Invaders", one.Title)
}

func TestUnknownGame(t *testing.T) {
	h := newHarness(t, nil)

	var body map[string]string
	assert.Equal(t, http.StatusNotFound, h.getJSON("/api/games/tetris/scores", &body))
	assert.Equal(t, "unknown game", body["error"])
}

func TestScoresAndStats(t *testing.T) {
	h := newHarness(t, nil)
	for _, s := range []int{50, 80, 20} {
		_, err := h.store.SaveScore("runner", s)
		require.NoError(t, err)
	}

	var scores []ScoreJSON
	assert.Equal(t, http.StatusOK, h.getJSON("/api/games/runner/scores?limit=2", &scores))
	require.Len(t, scores, 2)
	assert.Equal(t, ScoreJSON{Rank: 1, Score: 80, CreatedAt: scores[0].CreatedAt}, scores[0])
	assert.Equal(t, 50, scores[1].Score)

	var stats StatsJSON
	assert.Equal(t, http.StatusOK, h.getJSON("/api/games/runner/stats", &stats))
	assert.Equal(t, 3, stats.Games)
	assert.Equal(t, 80, stats.HighScore)
	assert.InDelta(t, 50.0, stats.AvgScore, 0.001)

	var empty []ScoreJSON
	assert.Equal(t, http.StatusOK, h.getJSON("/api/games/snake/scores", &empty))
	assert.Empty(t, empty)

	var bad map[string]string
	assert.Equal(t, http.StatusBadRequest, h.getJSON("/api/games/runner/scores?limit=500", &bad))
}

func TestPreviewPNG(t *testing.T) {
	h := newHarness(t, nil)

	resp := h.get("/api/games/snake/preview.png?ticks=3&scale=0.5")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/png", resp.Header.Get("Content-Type"))
	img, err := png.Decode(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, 200, img.Bounds().Dx())

	assert.Equal(t, http.StatusBadRequest, h.get("/api/games/snake/preview.png?scale=9").StatusCode)

	stats, err := h.store.GetGameStats("snake")
	require.NoError(t, err)
	assert.Zero(t, stats.GamesCount, "previews record nothing")
}

func TestRateLimit(t *testing.T) {
	h := newHarness(t, func(c *Config) {
		c.RateLimit = RateLimitConfig{RequestsPerSecond: 0.001, Burst: 2}
	})

	assert.Equal(t, http.StatusOK, h.get("/api/games").StatusCode)
	assert.Equal(t, http.StatusOK, h.get("/api/games").StatusCode)
	resp := h.get("/api/games")
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	assert.Equal(t, "1", resp.Header.Get("Retry-After"))

	// The index page is outside the limited API.
	assert.Equal(t, http.StatusOK, h.get("/").StatusCode)

	body, err := io.ReadAll(h.get("/metrics").Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `arcade_connection_rejected_total{reason="rate_limit"} 1`)
}

func TestRateLimitIgnoresForwardedHeaders(t *testing.T) {
	tests := []struct {
		name       string
		trustProxy bool
		lastStatus int
	}{
		{"direct clients cannot spoof", false, http.StatusTooManyRequests},
		{"trusted proxy headers", true, http.StatusOK},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h := newHarness(t, func(c *Config) {
				c.RateLimit = RateLimitConfig{RequestsPerSecond: 0.001, Burst: 2}
				c.TrustProxy = tc.trustProxy
			})

			var status int
			for i := 1; i <= 3; i++ {
				req, err := http.NewRequest(http.MethodGet, h.srv.URL+"/api/games", nil)
				require.NoError(t, err)
				req.Header.Set("X-Forwarded-For", fmt.Sprintf("203.0.113.%d", i))
				resp, err := http.DefaultClient.Do(req)
				require.NoError(t, err)
				resp.Body.Close()
				status = resp.StatusCode
			}
			assert.Equal(t, tc.lastStatus, status)
		})
	}
}

func TestMetricsEndpoint(t *testing.T) {
	h := newHarness(t, nil)
	h.get("/api/games")

	body, err := io.ReadAll(h.get("/metrics").Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `arcade_http_requests_total{method="GET",route="/api/games",status="200"} 1`)
}

func TestIndexPage(t *testing.T) {
	h := newHarness(t, nil)
	body, err := io.ReadAll(h.get("/").Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "NEON ARCADE")
}

func readMsg(t *testing.T, ws *websocket.Conn, v any) {
	t.Helper()
	require.NoError(t, ws.SetReadDeadline(time.Now().Add(5*time.Second)))
	_, data, err := ws.ReadMessage()
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, v))
}

func TestPlaySnakeOverWebSocket(t *testing.T) {
	h := newHarness(t, nil)
	ws, _, err := h.dial("snake")
	require.NoError(t, err)
	defer ws.Close()

	var hello Hello
	readMsg(t, ws, &hello)
	assert.Equal(t, MsgHello, hello.Type)
	assert.Equal(t, "snake", hello.Game)
	assert.Equal(t, 400.0, hello.Width)
	assert.NotEmpty(t, hello.Conn)

	require.NoError(t, ws.WriteJSON(ClientMessage{Type: MsgStart}))
	var f FrameJSON
	readMsg(t, ws, &f)
	assert.Equal(t, "playing", f.State)
	assert.Equal(t, 0, f.Tick)
	assert.Len(t, f.Entities, 2, "head and food")

	for i := 1; i <= 10; i++ {
		h.frames.Advance(time.Now())
		readMsg(t, ws, &f)
		assert.Equal(t, i, f.Tick)
	}
	assert.Equal(t, "game_over", f.State, "snake ran into the wall")

	// A second start restarts the finished game.
	require.NoError(t, ws.WriteJSON(ClientMessage{Type: MsgStart}))
	readMsg(t, ws, &f)
	assert.Equal(t, "playing", f.State)
	assert.Equal(t, 0, f.Tick)

	body, err := io.ReadAll(h.get("/metrics").Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `arcade_sessions_started_total{game="snake"} 2`)
	assert.Contains(t, string(body), `arcade_websocket_connections_active 1`)
}

func TestPlayRejectsBadMessages(t *testing.T) {
	h := newHarness(t, nil)
	ws, _, err := h.dial("runner")
	require.NoError(t, err)
	defer ws.Close()

	var hello Hello
	readMsg(t, ws, &hello)

	require.NoError(t, ws.WriteMessage(websocket.TextMessage, []byte("not json")))
	var e ErrorMessage
	readMsg(t, ws, &e)
	assert.Equal(t, "malformed message", e.Error)

	require.NoError(t, ws.WriteJSON(ClientMessage{Type: "jump"}))
	readMsg(t, ws, &e)
	assert.Equal(t, MsgError, e.Type)
	assert.Equal(t, "unknown message type", e.Error)

	require.NoError(t, ws.WriteJSON(ClientMessage{Type: MsgReset}))
	readMsg(t, ws, &e)
	assert.Contains(t, e.Error, "invalid transition")
}

func TestPlayConnectionLimit(t *testing.T) {
	h := newHarness(t, func(c *Config) { c.MaxConnections = 1 })

	first, _, err := h.dial("snake")
	require.NoError(t, err)
	defer first.Close()

	_, resp, err := h.dial("snake")
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestPlayUnknownGame(t *testing.T) {
	h := newHarness(t, nil)
	_, resp, err := h.dial("tetris")
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestOriginAllowed(t *testing.T) {
	patterns := []string{"http://localhost:*", "https://arcade.example.com"}
	tests := map[string]bool{
		"http://localhost:8080":      true,
		"https://arcade.example.com": true,
		"https://evil.example.com":   false,
		"http://localhost.evil.com":  false,
	}
	for origin, want := range tests {
		assert.Equal(t, want, originAllowed(origin, patterns), origin)
	}
}
