package shooter

import "github.com/vovakirdan/neon-arcade/internal/engine"

// Snapshot captures the game state for determinism testing.
type Snapshot struct {
	PlayerX      float64
	Enemies      int
	Shots        int
	EnemyShots   int
	Particles    int
	Invulnerable bool
}

// Snapshot returns the current game snapshot.
func (g *Game) Snapshot() Snapshot {
	var snap Snapshot
	if g.player != nil {
		snap.PlayerX = g.player.X
	}
	if g.store != nil {
		snap.Enemies = g.store.Count(engine.KindEnemy)
		snap.Shots = g.store.Count(engine.KindProjectile)
		snap.EnemyShots = g.store.Count(engine.KindEnemyProjectile)
		snap.Particles = g.store.Count(engine.KindParticle)
	}
	snap.Invulnerable = g.invulnerable()
	return snap
}
