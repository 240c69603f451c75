package engine

import (
	"strings"
	"time"

	"github.com/vovakirdan/neon-arcade/internal/core"
)

// KeyMap maps normalized key identifiers to game actions.
type KeyMap map[string]core.Action

// keyAliases folds browser and terminal spellings of the same key together.
var keyAliases = map[string]string{
	"arrowleft":  "left",
	"arrowright": "right",
	"arrowup":    "up",
	"arrowdown":  "down",
	" ":          "space",
	"spacebar":   "space",
	"esc":        "escape",
	"return":     "enter",
}

// NormalizeKey lower-cases a key identifier and resolves aliases, so that
// "ArrowLeft" (browser) and "left" (terminal) name the same key.
func NormalizeKey(key string) string {
	if key == " " {
		return "space"
	}
	k := strings.ToLower(strings.TrimSpace(key))
	if alias, ok := keyAliases[k]; ok {
		return alias
	}
	return k
}

// KeyMapFrom builds a key map from action names to key lists, as found in
// game config files. Unknown action names are skipped.
func KeyMapFrom(bindings map[string][]string) KeyMap {
	m := make(KeyMap)
	for name, keys := range bindings {
		if a, ok := core.ParseAction(name); ok {
			m.Bind(a, keys...)
		}
	}
	return m
}

// Lookup returns the action bound to key.
func (m KeyMap) Lookup(key string) (core.Action, bool) {
	a, ok := m[NormalizeKey(key)]
	return a, ok
}

// Bind maps every key to action, replacing existing bindings.
func (m KeyMap) Bind(action core.Action, keys ...string) {
	for _, k := range keys {
		m[NormalizeKey(k)] = action
	}
}

// Clone returns an independent copy of the map.
func (m KeyMap) Clone() KeyMap {
	out := make(KeyMap, len(m))
	for k, a := range m {
		out[k] = a
	}
	return out
}

// InputState tracks which actions are held, key-down edges queued since the
// last tick and the last successful trigger time per action.
type InputState struct {
	keys        KeyMap
	held        map[core.Action]bool
	lastTrigger map[core.Action]time.Time
	edges       []core.Action
}

// NewInputState creates an empty input state using keys for lookups.
func NewInputState(keys KeyMap) *InputState {
	return &InputState{
		keys:        keys,
		held:        make(map[core.Action]bool),
		lastTrigger: make(map[core.Action]time.Time),
	}
}

// KeyDown records a key press. Unknown keys are ignored and report false.
// Every press queues an edge, including terminal key repeats.
func (in *InputState) KeyDown(key string) bool {
	a, ok := in.keys.Lookup(key)
	if !ok {
		return false
	}
	in.held[a] = true
	in.edges = append(in.edges, a)
	return true
}

// KeyUp records a key release. Unknown keys are ignored and report false.
func (in *InputState) KeyUp(key string) bool {
	a, ok := in.keys.Lookup(key)
	if !ok {
		return false
	}
	delete(in.held, a)
	return true
}

// IsHeld reports whether action is currently held down.
func (in *InputState) IsHeld(a core.Action) bool {
	return in.held[a]
}

// Pressed reports whether action was pressed since the last tick and
// consumes its queued edges.
func (in *InputState) Pressed(a core.Action) bool {
	found := false
	kept := in.edges[:0]
	for _, e := range in.edges {
		if e == a {
			found = true
			continue
		}
		kept = append(kept, e)
	}
	in.edges = kept
	return found
}

// Drain returns the queued edges in arrival order and clears the queue.
func (in *InputState) Drain() []core.Action {
	out := in.edges
	in.edges = nil
	return out
}

// TryTrigger reports true at most once per cooldown window for action and
// records the trigger time on success.
func (in *InputState) TryTrigger(a core.Action, now time.Time, cooldown time.Duration) bool {
	if last, ok := in.lastTrigger[a]; ok && now.Sub(last) < cooldown {
		return false
	}
	in.lastTrigger[a] = now
	return true
}

// EndTick discards edges nobody consumed during the tick.
func (in *InputState) EndTick() {
	in.edges = in.edges[:0]
}

// ReleaseAll clears held actions and pending edges.
func (in *InputState) ReleaseAll() {
	clear(in.held)
	in.edges = nil
}
