package web

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/vovakirdan/neon-arcade/internal/engine"
	"github.com/vovakirdan/neon-arcade/internal/platform/canvas"
	"github.com/vovakirdan/neon-arcade/internal/registry"
)

// GameJSON describes a registered game.
type GameJSON struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	HighScore   int    `json:"highScore"`
}

// ScoreJSON is one recorded session.
type ScoreJSON struct {
	Rank      int       `json:"rank"`
	Score     int       `json:"score"`
	CreatedAt time.Time `json:"createdAt"`
}

// StatsJSON aggregates a game's history.
type StatsJSON struct {
	Game       string    `json:"game"`
	Games      int       `json:"games"`
	HighScore  int       `json:"highScore"`
	AvgScore   float64   `json:"avgScore"`
	LastPlayed time.Time `json:"lastPlayed,omitzero"`
}

func (s *Server) kv() engine.KV {
	if s.cfg.Deps.Store == nil {
		return nil
	}
	return s.cfg.Deps.Store
}

func (s *Server) gameJSON(info registry.GameInfo) GameJSON {
	//nolint:errcheck // A failed read reports zero
	high, _ := engine.LoadHighScore(s.kv(), info.ID)
	return GameJSON{ID: info.ID, Title: info.Title, Description: info.Description, HighScore: high}
}

func (s *Server) handleGames(w http.ResponseWriter, _ *http.Request) {
	games := registry.List()
	out := make([]GameJSON, 0, len(games))
	for _, g := range games {
		out = append(out, s.gameJSON(g))
	}
	writeJSON(w, out)
}

// lookupGame resolves {id} or writes 404.
func lookupGame(w http.ResponseWriter, r *http.Request) (registry.GameInfo, bool) {
	info, ok := registry.Lookup(chi.URLParam(r, "id"))
	if !ok {
		writeError(w, "unknown game", http.StatusNotFound)
	}
	return info, ok
}

func (s *Server) handleGame(w http.ResponseWriter, r *http.Request) {
	if info, ok := lookupGame(w, r); ok {
		writeJSON(w, s.gameJSON(info))
	}
}

func (s *Server) handleScores(w http.ResponseWriter, r *http.Request) {
	info, ok := lookupGame(w, r)
	if !ok {
		return
	}
	limit, ok := intParam(w, r, "limit", 10, 1, 100)
	if !ok {
		return
	}

	out := []ScoreJSON{}
	if store := s.cfg.Deps.Store; store != nil {
		scores, err := store.TopScores(info.ID, limit)
		if err != nil {
			s.logger.Error("top scores", "game", info.ID, "err", err)
			writeError(w, "storage error", http.StatusInternalServerError)
			return
		}
		for i, e := range scores {
			out = append(out, ScoreJSON{Rank: i + 1, Score: e.Score, CreatedAt: e.CreatedAt})
		}
	}
	writeJSON(w, out)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	info, ok := lookupGame(w, r)
	if !ok {
		return
	}

	out := StatsJSON{Game: info.ID}
	if store := s.cfg.Deps.Store; store != nil {
		stats, err := store.GetGameStats(info.ID)
		if err != nil {
			s.logger.Error("game stats", "game", info.ID, "err", err)
			writeError(w, "storage error", http.StatusInternalServerError)
			return
		}
		out.Games = stats.GamesCount
		out.HighScore = stats.HighScore
		out.AvgScore = stats.AvgScore
		out.LastPlayed = stats.LastPlayed
	}
	writeJSON(w, out)
}

// handlePreview plays the game headless and returns its last frame as PNG.
// Preview sessions record no scores and no metrics.
func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	info, ok := lookupGame(w, r)
	if !ok {
		return
	}
	ticks, ok := intParam(w, r, "ticks", 60, 0, 600)
	if !ok {
		return
	}
	scale := 1.0
	if raw := r.URL.Query().Get("scale"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || v <= 0 || v > 2 {
			writeError(w, "scale must be in (0, 2]", http.StatusBadRequest)
			return
		}
		scale = v
	}

	deps := s.cfg.Deps
	deps.Store, deps.Observer = nil, nil
	deps.Logger = s.logger.With("game", info.ID, "preview", true)

	img, err := canvas.Capture(deps, info.ID, ticks, scale)
	if err != nil {
		s.logger.Error("preview", "game", info.ID, "err", err)
		writeError(w, "preview failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	if err := img.EncodePNG(w); err != nil {
		s.logger.Warn("preview write", "err", err)
	}
}

// intParam parses an optional bounded integer query parameter.
func intParam(w http.ResponseWriter, r *http.Request, name string, def, lo, hi int) (int, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < lo || v > hi {
		writeError(w, name+" must be an integer in ["+strconv.Itoa(lo)+", "+strconv.Itoa(hi)+"]", http.StatusBadRequest)
		return 0, false
	}
	return v, true
}

func writeJSON(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	//nolint:errcheck // The client may have gone away
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, message string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	//nolint:errcheck // The client may have gone away
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
