package engine

import "github.com/vovakirdan/neon-arcade/internal/core"

// Kind discriminates entity variants.
type Kind uint8

const (
	KindPlayer Kind = iota
	KindPlatform
	KindObstacle
	KindEnemy
	KindProjectile
	KindEnemyProjectile
	KindParticle
	KindFood
	KindSegment
	KindStar
	kindCount
)

var kindNames = [kindCount]string{
	KindPlayer:          "player",
	KindPlatform:        "platform",
	KindObstacle:        "obstacle",
	KindEnemy:           "enemy",
	KindProjectile:      "projectile",
	KindEnemyProjectile: "enemy_projectile",
	KindParticle:        "particle",
	KindFood:            "food",
	KindSegment:         "segment",
	KindStar:            "star",
}

func (k Kind) String() string {
	if k < kindCount {
		return kindNames[k]
	}
	return "unknown"
}

// Kinds lists every entity kind in declaration order.
func Kinds() []Kind {
	out := make([]Kind, 0, kindCount)
	for k := Kind(0); k < kindCount; k++ {
		out = append(out, k)
	}
	return out
}

// DrawOrder is the back-to-front order renderers paint entity kinds in.
var DrawOrder = []Kind{
	KindStar,
	KindPlatform,
	KindObstacle,
	KindFood,
	KindSegment,
	KindEnemy,
	KindEnemyProjectile,
	KindProjectile,
	KindParticle,
	KindPlayer,
}

// Entity is a positioned, sized object in playfield pixels.
// Fields after Gravity are meaningful only for some kinds.
type Entity struct {
	ID      uint64
	Kind    Kind
	X, Y    float64
	W, H    float64
	VX, VY  float64
	Alive   bool
	Gravity bool // affected by Store.Integrate gravity
	Hidden  bool // alive but not drawn this tick

	Variant  string     // enemy type, spike shape, platform tier
	Points   int        // awarded when destroyed
	Color    core.Color // render hint
	Life     int        // particles: ticks left
	MaxLife  int
	Jumps    int // player: jumps left before landing
	MaxJumps int
}

// Rect returns the entity's bounding box.
func (e *Entity) Rect() core.Rect {
	return core.NewRect(e.X, e.Y, e.W, e.H)
}

// Overlaps reports whether two entities' bounding boxes intersect.
func (e *Entity) Overlaps(other *Entity) bool {
	return e.Rect().Intersects(other.Rect())
}

// Kill marks the entity for removal on the next sweep.
func (e *Entity) Kill() {
	e.Alive = false
}

// Fade returns the remaining life fraction in [0, 1], or 1 for entities
// without a lifetime.
func (e *Entity) Fade() float64 {
	if e.MaxLife <= 0 {
		return 1
	}
	return core.ClampF(float64(e.Life)/float64(e.MaxLife), 0, 1)
}

// Right returns the x-coordinate of the right edge.
func (e *Entity) Right() float64 { return e.Rect().Right() }

// Bottom returns the y-coordinate of the bottom edge.
func (e *Entity) Bottom() float64 { return e.Rect().Bottom() }

// Center returns the center point of the entity.
func (e *Entity) Center() (float64, float64) { return e.Rect().Center() }
