package runner

import "github.com/vovakirdan/neon-arcade/internal/engine"

// Snapshot captures the game state for determinism testing.
type Snapshot struct {
	PlayerY   float64
	PlayerVY  float64
	Jumps     int
	Speed     float64
	Platforms int
	Spikes    int
}

// Snapshot returns the current game snapshot.
func (g *Game) Snapshot() Snapshot {
	snap := Snapshot{Speed: g.speed}
	if g.player != nil {
		snap.PlayerY = g.player.Y
		snap.PlayerVY = g.player.VY
		snap.Jumps = g.player.Jumps
	}
	if g.store != nil {
		snap.Platforms = g.store.Count(engine.KindPlatform)
		snap.Spikes = g.store.Count(engine.KindObstacle)
	}
	return snap
}
