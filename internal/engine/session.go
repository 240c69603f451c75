package engine

import (
	"time"

	"github.com/google/uuid"
)

// Session is the mutable state of one play-through. It is created on start,
// mutated by Rules.Update every tick and discarded on reset or teardown.
type Session struct {
	ID         string
	GameID     string
	Started    time.Time
	Width      float64
	Height     float64
	Level      int
	Lives      int
	Tick       int
	Difficulty float64

	Store   *Store
	Input   *InputState
	Spawner *Spawner
	Rand    Rand

	score      *ScoreKeeper
	lost       bool
	lostReason string
}

func newSession(gameID string, spec GameSpec, r Rand, kv KV, now time.Time) *Session {
	s := &Session{
		ID:         uuid.NewString(),
		GameID:     gameID,
		Started:    now,
		Width:      spec.Width,
		Height:     spec.Height,
		Level:      1,
		Lives:      spec.Lives,
		Difficulty: 1,
		Store:      NewStore(spec.Width, spec.Height, spec.Cull),
		Input:      NewInputState(spec.Keys),
		Spawner:    spec.Spawner.clone(),
		Rand:       r,
		score:      NewScoreKeeper(gameID, kv),
	}
	s.Store.SetMaxFall(spec.MaxFall)
	return s
}

// AddPoints adds n to the score. Negative amounts are ignored.
func (s *Session) AddPoints(n int) { s.score.AddPoints(n) }

// Score returns the current score.
func (s *Session) Score() int { return s.score.Score() }

// HighScore returns the best known score for the game.
func (s *Session) HighScore() int { return s.score.High() }

// Lose ends the session at the end of the current tick.
func (s *Session) Lose(reason string) {
	if s.lost {
		return
	}
	s.lost = true
	s.lostReason = reason
}

// Lost reports whether Lose has been called.
func (s *Session) Lost() bool { return s.lost }

// LoseLife removes one life and loses the session when none remain.
// It reports whether the session is now lost.
func (s *Session) LoseLife(reason string) bool {
	if s.Lives > 0 {
		s.Lives--
	}
	if s.Lives == 0 {
		s.Lose(reason)
	}
	return s.Lost()
}
