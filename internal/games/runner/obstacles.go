package runner

import (
	"github.com/vovakirdan/neon-arcade/internal/config"
	"github.com/vovakirdan/neon-arcade/internal/core"
	"github.com/vovakirdan/neon-arcade/internal/engine"
)

// Spike variants.
const (
	SpikeSingle   = "single"
	SpikeDouble   = "double"
	SpikePlatform = "platform"
)

// ObstacleManager generates platforms and spikes at the right edge and
// scrolls the world left.
type ObstacleManager struct {
	cfg    *config.RunnerSpawn
	spawnX float64 // x where new entities appear
}

// NewObstacleManager creates a manager spawning at screenW.
func NewObstacleManager(cfg *config.RunnerSpawn, screenW float64) *ObstacleManager {
	return &ObstacleManager{cfg: cfg, spawnX: screenW}
}

// Spawn runs one evaluation: maybe a ground spike (single or double), always
// a platform at a random tier, and maybe a spike on that platform.
func (om *ObstacleManager) Spawn(store *engine.Store, r engine.Rand) {
	cfg := om.cfg

	switch engine.Bucket(r, cfg.SingleSpikeChance, cfg.DoubleSpikeChance) {
	case 0:
		om.spike(store, om.spawnX, cfg.GroundY, cfg.SpikeWidth, SpikeSingle)
	case 1:
		om.spike(store, om.spawnX, cfg.GroundY, cfg.DoubleSpikeWidth, SpikeDouble)
	}

	if len(cfg.PlatformTiers) == 0 {
		return
	}
	tier := cfg.PlatformTiers[engine.Choose(r, len(cfg.PlatformTiers))]
	store.Spawn(engine.Entity{
		Kind:  engine.KindPlatform,
		X:     om.spawnX,
		Y:     tier,
		W:     cfg.PlatformWidth,
		H:     cfg.PlatformHeight,
		Color: core.ColorGray,
	})

	if r.Float64() < cfg.PlatformSpikeChance {
		om.spike(store, om.spawnX+cfg.PlatformSpikeOffset, tier, cfg.SpikeWidth, SpikePlatform)
	}
}

// spike places a spike sunk into the surface whose top is at surfaceY.
func (om *ObstacleManager) spike(store *engine.Store, x, surfaceY, width float64, variant string) {
	store.Spawn(engine.Entity{
		Kind:    engine.KindObstacle,
		X:       x,
		Y:       surfaceY - om.cfg.SpikeSink,
		W:       width,
		H:       om.cfg.SpikeHeight,
		Variant: variant,
		Color:   core.ColorRed,
	})
}

// Scroll sets the leftward velocity of every platform and spike.
func (om *ObstacleManager) Scroll(store *engine.Store, speed float64) {
	for _, k := range []engine.Kind{engine.KindPlatform, engine.KindObstacle} {
		store.ForEach(k, func(e *engine.Entity) bool {
			e.VX = -speed
			return true
		})
	}
}
