// Package tui provides the Bubble Tea integration for the arcade platform.
// It hosts game engines in the terminal, locally or over SSH.
package tui

import (
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// TickMsg advances the game view that scheduled it by one frame. Ticks
// scheduled by a view that has since been replaced are dropped.
type TickMsg struct {
	view uint64
	At   time.Time
}

var viewSeq atomic.Uint64

// tickCmd returns a Bubble Tea command that sends one tick after interval.
func tickCmd(view uint64, interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return TickMsg{view: view, At: t}
	})
}
