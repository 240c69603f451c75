package engine

import (
	"math"

	"github.com/vovakirdan/neon-arcade/internal/core"
)

// FirstHit returns the first live entity among kinds whose box overlaps e,
// scanning kinds in the given order and each kind in spawn order.
func FirstHit(s *Store, e *Entity, kinds ...Kind) *Entity {
	var hit *Entity
	for _, k := range kinds {
		s.ForEach(k, func(other *Entity) bool {
			if other != e && e.Overlaps(other) {
				hit = other
				return false
			}
			return true
		})
		if hit != nil {
			return hit
		}
	}
	return nil
}

// ResolveHits matches each live shot against the first overlapping live
// target in spawn order. Both are killed and fn is called for the pair.
// It returns the number of hits.
func ResolveHits(s *Store, shotKind, targetKind Kind, fn func(shot, target *Entity)) int {
	hits := 0
	s.ForEach(shotKind, func(shot *Entity) bool {
		target := FirstHit(s, shot, targetKind)
		if target == nil {
			return true
		}
		shot.Kill()
		target.Kill()
		hits++
		if fn != nil {
			fn(shot, target)
		}
		return true
	})
	return hits
}

// Land snaps a falling entity onto the first platform whose top its bottom
// edge reached within tolerance pixels, or crossed during the last move.
// Landing zeroes vertical velocity and restores the jump budget.
func Land(e *Entity, s *Store, tolerance float64) bool {
	if e.VY < 0 {
		return false
	}
	landed := false
	s.ForEach(KindPlatform, func(p *Entity) bool {
		if e.X >= p.Right() || e.Right() <= p.X {
			return true
		}
		bottom := e.Bottom()
		if bottom < p.Y {
			return true
		}
		if bottom > p.Y+tolerance && bottom-e.VY > p.Y {
			return true
		}
		e.Y = p.Y - e.H
		e.VY = 0
		e.Jumps = e.MaxJumps
		landed = true
		return false
	})
	return landed
}

// Rand is the random source used for spawn decisions. *math/rand.Rand
// satisfies it; tests substitute deterministic sequences.
type Rand interface {
	Float64() float64
	Intn(n int) int
}

// Explode spawns n particles at (x, y) flying out in random directions with
// speeds up to speed. Each lives for life ticks.
func Explode(s *Store, r Rand, x, y float64, color core.Color, n int, speed float64, life int) {
	for i := 0; i < n; i++ {
		angle := r.Float64() * 2 * math.Pi
		v := speed * (0.3 + 0.7*r.Float64())
		s.Spawn(Entity{
			Kind:    KindParticle,
			X:       x - 1.5,
			Y:       y - 1.5,
			W:       3,
			H:       3,
			VX:      math.Cos(angle) * v,
			VY:      math.Sin(angle) * v,
			Color:   color,
			Life:    life,
			MaxLife: life,
		})
	}
}
