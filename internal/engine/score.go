package engine

import (
	"fmt"
	"strconv"
	"strings"
)

// KV is the key/value capability used to persist high scores.
// Values are decimal text.
type KV interface {
	Get(key string) (value string, ok bool, err error)
	Set(key, value string) error
}

// History records every finished session. storage.Store implements it.
type History interface {
	SaveScore(gameID string, score int) (int64, error)
}

// HighScoreKey returns the namespaced KV key holding gameID's high score.
func HighScoreKey(gameID string) string {
	return "arcade/highscore/" + gameID
}

// LoadHighScore reads gameID's high score. Missing, malformed and negative
// values read as zero. A nil kv reads as zero.
func LoadHighScore(kv KV, gameID string) (int, error) {
	if kv == nil {
		return 0, nil
	}
	raw, ok, err := kv.Get(HighScoreKey(gameID))
	if err != nil {
		return 0, fmt.Errorf("load high score %s: %w", gameID, err)
	}
	if !ok {
		return 0, nil
	}
	return parseScore(raw), nil
}

func parseScore(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// ScoreKeeper accumulates a session score and persists the high score once
// the session ends.
type ScoreKeeper struct {
	gameID    string
	kv        KV
	score     int
	high      int
	finalized bool
	record    bool
}

// NewScoreKeeper creates a keeper for gameID backed by kv (may be nil).
func NewScoreKeeper(gameID string, kv KV) *ScoreKeeper {
	return &ScoreKeeper{gameID: gameID, kv: kv}
}

// Begin zeroes the score and loads the stored high score. On a read error
// the high score is treated as zero and the error returned.
func (k *ScoreKeeper) Begin() error {
	k.score = 0
	k.finalized = false
	k.record = false
	high, err := LoadHighScore(k.kv, k.gameID)
	k.high = high
	return err
}

// AddPoints adds n to the score. Negative amounts and points scored after
// Finalize are ignored.
func (k *ScoreKeeper) AddPoints(n int) {
	if n <= 0 || k.finalized {
		return
	}
	k.score += n
}

// Score returns the current session score.
func (k *ScoreKeeper) Score() int { return k.score }

// High returns the high score loaded at Begin, raised by Finalize.
func (k *ScoreKeeper) High() int { return k.high }

// Finalize writes the score when it strictly beats the stored high score and
// returns max(high, score). Calls after the first are no-ops.
func (k *ScoreKeeper) Finalize() (int, error) {
	if k.finalized {
		return k.high, nil
	}
	k.finalized = true
	if k.score <= k.high {
		return k.high, nil
	}
	k.high = k.score
	k.record = true
	if k.kv == nil {
		return k.high, nil
	}
	if err := k.kv.Set(HighScoreKey(k.gameID), strconv.Itoa(k.score)); err != nil {
		return k.high, fmt.Errorf("save high score %s: %w", k.gameID, err)
	}
	return k.high, nil
}

// NewRecord reports whether the finalized score beat the previous high score.
func (k *ScoreKeeper) NewRecord() bool {
	return k.record
}
