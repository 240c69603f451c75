package core

import "strings"

// Action represents a semantic game action, abstracted from physical key presses.
// This allows games to work with high-level intents rather than raw input.
type Action int

const (
	ActionNone    Action = iota
	ActionLeft           // Left arrow, A
	ActionRight          // Right arrow, D
	ActionUp             // Up arrow
	ActionDown           // Down arrow
	ActionJump           // Space, W - runner jump
	ActionFire           // Space, F - shooter fire
	ActionConfirm        // Enter - start a session
	ActionRestart        // R - restart after game over
	ActionBack           // B, Escape - leave the game view
	ActionQuit           // Q, Ctrl+C - exit
)

var actionNames = map[Action]string{
	ActionNone:    "none",
	ActionLeft:    "left",
	ActionRight:   "right",
	ActionUp:      "up",
	ActionDown:    "down",
	ActionJump:    "jump",
	ActionFire:    "fire",
	ActionConfirm: "confirm",
	ActionRestart: "restart",
	ActionBack:    "back",
	ActionQuit:    "quit",
}

// String returns a human-readable name for the action.
func (a Action) String() string {
	if name, ok := actionNames[a]; ok {
		return name
	}
	return "unknown"
}

// ParseAction looks up an action by its String name (case-insensitive).
// Returns ActionNone and false for unknown names.
func ParseAction(name string) (Action, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for a, n := range actionNames {
		if n == name && a != ActionNone {
			return a, true
		}
	}
	return ActionNone, false
}
