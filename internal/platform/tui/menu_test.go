package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/neon-arcade/internal/config"
	"github.com/vovakirdan/neon-arcade/internal/core"
	"github.com/vovakirdan/neon-arcade/internal/engine"
	"github.com/vovakirdan/neon-arcade/internal/storage"
)

func menuSend(t *testing.T, m MenuModel, msg tea.Msg) MenuModel {
	t.Helper()
	next, _ := m.Update(msg)
	out, ok := next.(MenuModel)
	require.True(t, ok)
	return out
}

func TestMenuListsGamesWithHighScores(t *testing.T) {
	kv := storage.NewMemory()
	require.NoError(t, kv.Set(engine.HighScoreKey("snake"), "120"))

	m := NewMenuModel(kv, config.DifficultyNormal, core.DefaultConfig())
	require.Len(t, m.items, 3)
	assert.Equal(t, "runner", m.items[0].GameID)
	assert.Equal(t, 120, m.items[2].High)

	view := m.View()
	assert.Contains(t, view, "Pixel Runner")
	assert.Contains(t, view, "Difficulty: < normal >")
}

func TestMenuSelect(t *testing.T) {
	m := NewMenuModel(nil, config.DifficultyHard, core.DefaultConfig())
	m = menuSend(t, m, keyDown)
	m = menuSend(t, m, keyDown)
	m = menuSend(t, m, keyDown) // stays on the last item
	m = menuSend(t, m, keyEnter)

	res := m.Result()
	assert.Equal(t, "snake", res.GameID)
	assert.Equal(t, config.DifficultyHard, res.Preset)
	assert.False(t, res.Quit)
}

func TestMenuDifficultyCycles(t *testing.T) {
	m := NewMenuModel(nil, config.DifficultyHard, core.DefaultConfig())
	right := tea.KeyMsg{Type: tea.KeyRight}
	left := tea.KeyMsg{Type: tea.KeyLeft}

	m = menuSend(t, m, right)
	assert.Equal(t, config.DifficultyFixed, m.Preset())
	m = menuSend(t, m, right)
	assert.Equal(t, config.DifficultyEasy, m.Preset())
	m = menuSend(t, m, left)
	assert.Equal(t, config.DifficultyFixed, m.Preset())
}

func TestMenuScoreboardAndQuit(t *testing.T) {
	m := NewMenuModel(nil, "", core.DefaultConfig())
	assert.Equal(t, config.DifficultyNormal, m.Preset())

	sb := menuSend(t, m, tea.KeyMsg{Type: tea.KeyTab})
	assert.True(t, sb.Result().WantsScoreboard)

	q := menuSend(t, m, runes("q"))
	assert.True(t, q.Result().Quit)
	assert.Empty(t, q.View())
}

func TestScoreboardCyclesGames(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	store, err := storage.Open(t.TempDir() + "/scores.db")
	require.NoError(t, err)
	defer store.Close()

	_, err = store.SaveScore("runner", 420)
	require.NoError(t, err)

	m := NewScoreboardModel(store, 100, 30)
	assert.Len(t, m.scores, 1)
	assert.Contains(t, m.View(), "1 games  best 420")

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m = next.(ScoreboardModel)
	assert.Equal(t, "shooter", m.games[m.cursor].ID)
	assert.Empty(t, m.scores)
	assert.Contains(t, m.View(), "No scores recorded yet.")

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyShiftTab})
	next, _ = next.Update(tea.KeyMsg{Type: tea.KeyShiftTab})
	m = next.(ScoreboardModel)
	assert.Equal(t, "snake", m.games[m.cursor].ID)

	next, _ = m.Update(keyEsc)
	assert.True(t, next.(ScoreboardModel).IsGoingBack())
}
