package tui

import "github.com/charmbracelet/bubbles/key"

// GameKeyMap holds the host-level bindings of a game view. Gameplay keys
// are bound per game through its config and only appear here for help.
type GameKeyMap struct {
	Move  key.Binding
	Act   key.Binding
	Start key.Binding
	Back  key.Binding
	Quit  key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k GameKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Move, k.Act, k.Start, k.Back, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k GameKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Move, k.Act}, {k.Start, k.Back, k.Quit}}
}

// DefaultGameKeyMap returns the bindings shown under a game.
func DefaultGameKeyMap(gameID string) GameKeyMap {
	km := GameKeyMap{
		Move: key.NewBinding(
			key.WithKeys("up", "down", "left", "right", "w", "a", "s", "d"),
			key.WithHelp("arrows/wasd", "move"),
		),
		Start: key.NewBinding(
			key.WithKeys("enter", "r"),
			key.WithHelp("enter", "start"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "b"),
			key.WithHelp("esc", "menu"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
	switch gameID {
	case "runner":
		km.Move.SetEnabled(false)
		km.Act = key.NewBinding(key.WithKeys(" ", "w", "up"), key.WithHelp("space", "jump"))
	case "shooter":
		km.Move.SetHelp("←/→", "move")
		km.Act = key.NewBinding(key.WithKeys(" ", "f"), key.WithHelp("space", "fire"))
	default:
		km.Act = key.NewBinding(key.WithDisabled())
	}
	return km
}

// MenuKeyMap holds the game picker bindings.
type MenuKeyMap struct {
	Up         key.Binding
	Down       key.Binding
	Difficulty key.Binding
	Select     key.Binding
	Scores     key.Binding
	Quit       key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k MenuKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Difficulty, k.Select, k.Scores, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k MenuKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Up, k.Down, k.Difficulty}, {k.Select, k.Scores, k.Quit}}
}

// DefaultMenuKeyMap returns default menu bindings.
func DefaultMenuKeyMap() MenuKeyMap {
	return MenuKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k", "w"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j", "s"),
			key.WithHelp("↓/j", "down"),
		),
		Difficulty: key.NewBinding(
			key.WithKeys("left", "right", "h", "l"),
			key.WithHelp("←/→", "difficulty"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter", " "),
			key.WithHelp("enter", "play"),
		),
		Scores: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "scores"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}
