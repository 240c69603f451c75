package web

import (
	"encoding/json"

	"github.com/vovakirdan/neon-arcade/internal/engine"
)

// Message types exchanged on the play socket.
const (
	MsgHello   = "hello"
	MsgFrame   = "frame"
	MsgError   = "error"
	MsgStart   = "start"
	MsgStop    = "stop"
	MsgReset   = "reset"
	MsgKeyDown = "keydown"
	MsgKeyUp   = "keyup"
)

// ClientMessage is sent by the browser.
type ClientMessage struct {
	Type string `json:"type"`
	Key  string `json:"key,omitempty"`
}

// Hello introduces the game to a freshly connected client.
type Hello struct {
	Type   string  `json:"type"`
	Conn   string  `json:"conn"`
	Game   string  `json:"game"`
	Title  string  `json:"title"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	High   int     `json:"high"`
}

// ErrorMessage reports a rejected client message.
type ErrorMessage struct {
	Type  string `json:"type"`
	Error string `json:"error"`
}

// EntityJSON is one drawn entity in logical pixels.
type EntityJSON struct {
	Kind  string  `json:"kind"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	W     float64 `json:"w"`
	H     float64 `json:"h"`
	Color string  `json:"color"`
	Alpha float64 `json:"alpha,omitempty"`
}

// FrameJSON is the wire form of engine.Frame.
type FrameJSON struct {
	Type       string       `json:"type"`
	Game       string       `json:"game"`
	State      string       `json:"state"`
	Score      int          `json:"score"`
	High       int          `json:"high"`
	NewRecord  bool         `json:"newRecord,omitempty"`
	Lives      int          `json:"lives"`
	Level      int          `json:"level"`
	Tick       int          `json:"tick"`
	Difficulty float64      `json:"difficulty"`
	Entities   []EntityJSON `json:"entities"`
}

// EncodeFrame converts f to JSON. Particles carry their fade as alpha.
func EncodeFrame(f *engine.Frame) ([]byte, error) {
	out := FrameJSON{
		Type:       MsgFrame,
		Game:       f.GameID,
		State:      f.State.String(),
		Score:      f.Score,
		High:       f.HighScore,
		NewRecord:  f.NewRecord,
		Lives:      f.Lives,
		Level:      f.Level,
		Tick:       f.Tick,
		Difficulty: f.Difficulty,
		Entities:   make([]EntityJSON, 0, 64),
	}
	f.Entities(func(e *engine.Entity) {
		ej := EntityJSON{
			Kind:  e.Kind.String(),
			X:     e.X,
			Y:     e.Y,
			W:     e.W,
			H:     e.H,
			Color: e.Color.Hex(),
		}
		if e.Kind == engine.KindParticle {
			ej.Alpha = e.Fade()
		}
		out.Entities = append(out.Entities, ej)
	})
	return json.Marshal(out)
}
