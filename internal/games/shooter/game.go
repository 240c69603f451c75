// Package shooter implements a vertical space shooter: enemies descend in
// waves, the player strafes along the bottom edge and fires upward.
package shooter

import (
	"time"

	"github.com/vovakirdan/neon-arcade/internal/config"
	"github.com/vovakirdan/neon-arcade/internal/core"
	"github.com/vovakirdan/neon-arcade/internal/engine"
	"github.com/vovakirdan/neon-arcade/internal/registry"
)

const (
	enemyShotW = 4
	enemyShotH = 10
)

// Game implements the shooter rules.
type Game struct {
	cfg        config.ShooterConfig
	difficulty *config.DifficultyManager
	enemyFire  engine.Spawner // threshold only; fireTimer counts
	types      []enemyType

	store      *engine.Store
	player     *engine.Entity
	fireTimer  int
	invulnTime int // frames since the last hit, 0 when vulnerable
}

type enemyType struct {
	name   string
	speed  float64
	points int
	color  core.Color
}

func init() {
	registry.Register(registry.GameInfo{
		ID:          "shooter",
		Title:       "Space Invaders",
		Description: "Hold the line against endless waves.",
	}, func(opts registry.Options) (engine.Rules, error) {
		return New(opts.ConfigPath, opts.Preset)
	})
}

// New loads the shooter config from the search path and applies preset.
func New(configPath string, preset config.DifficultyPreset) (*Game, error) {
	cfg, err := config.LoadShooter(configPath)
	if err != nil {
		return nil, err
	}
	if preset != "" {
		config.ApplyShooterPreset(&cfg, preset)
	}
	return NewWithConfig(cfg), nil
}

// NewWithConfig creates a game from an already loaded config.
func NewWithConfig(cfg config.ShooterConfig) *Game {
	g := &Game{
		cfg:        cfg,
		difficulty: config.NewDifficultyManager(cfg.Difficulty),
		enemyFire: engine.Spawner{
			Every:  cfg.Shots.EnemyFireEvery,
			Reduce: cfg.Shots.EnemyFireReduce,
			Floor:  cfg.Shots.EnemyFireFloor,
		},
	}
	for _, t := range cfg.Enemies.Types {
		g.types = append(g.types, enemyType{
			name:   t.Name,
			speed:  t.Speed,
			points: t.Points,
			color:  core.ParseColor(t.Color),
		})
	}
	return g
}

// ID returns the game identifier.
func (g *Game) ID() string { return "shooter" }

// Title returns the display name.
func (g *Game) Title() string { return "Space Invaders" }

// Config describes a frame-synced playfield with capped enemy population.
func (g *Game) Config() engine.GameSpec {
	e := g.cfg.Enemies
	return engine.GameSpec{
		Width:     g.cfg.Playfield.Width,
		Height:    g.cfg.Playfield.Height,
		Mode:      engine.ModeFrame,
		FrameRate: g.cfg.Gameplay.FrameRate,
		Lives:     g.cfg.Player.Lives,
		Keys:      engine.KeyMapFrom(g.cfg.Keys),
		Cull: map[engine.Kind]engine.CullEdges{
			engine.KindProjectile:      engine.CullTop,
			engine.KindEnemyProjectile: engine.CullBottom,
			engine.KindEnemy:           engine.CullBottom,
		},
		Spawner: engine.Spawner{
			Every:  e.SpawnEvery,
			Reduce: e.SpawnReduce,
			Floor:  e.SpawnFloor,
			Caps:   map[engine.Kind]int{engine.KindEnemy: e.Max},
		},
	}
}

// Setup places the ship, scatters the starfield and sends the first wave.
func (g *Game) Setup(s *engine.Session) {
	g.store = s.Store
	g.fireTimer = 0
	g.invulnTime = 0

	p := g.cfg.Player
	g.player = s.Store.Spawn(engine.Entity{
		Kind:  engine.KindPlayer,
		X:     p.X,
		Y:     p.Y,
		W:     p.Width,
		H:     p.Height,
		Color: core.ColorBrightGreen,
	})

	for i := 0; i < g.cfg.Effects.Stars; i++ {
		size := 1 + s.Rand.Float64()
		s.Store.Spawn(engine.Entity{
			Kind:  engine.KindStar,
			X:     s.Rand.Float64() * s.Width,
			Y:     s.Rand.Float64() * s.Height,
			W:     size,
			H:     size,
			VY:    0.2 + s.Rand.Float64()*0.5,
			Color: core.ColorWhite,
		})
	}

	g.spawnWave(s)
}

// Update advances the shooter by one frame.
func (g *Game) Update(s *engine.Session, now time.Time) {
	g.steer(s, now)
	g.tickInvulnerability()
	g.enemyShoot(s)

	s.Store.Integrate(0,
		engine.KindStar,
		engine.KindProjectile,
		engine.KindEnemyProjectile,
		engine.KindEnemy,
		engine.KindParticle,
	)
	g.wrapStars(s)

	if !g.invulnerable() {
		if shot := engine.FirstHit(s.Store, g.player, engine.KindEnemyProjectile); shot != nil {
			shot.Kill()
			if g.hit(s) {
				return
			}
		}
	}

	if s.Spawner.Due(float64(s.Level)) {
		g.spawnWave(s)
	}

	if !g.invulnerable() {
		if enemy := engine.FirstHit(s.Store, g.player, engine.KindEnemy); enemy != nil {
			enemy.Kill()
			if g.hit(s) {
				return
			}
		}
	}

	fx := g.cfg.Effects
	engine.ResolveHits(s.Store, engine.KindProjectile, engine.KindEnemy, func(_, enemy *engine.Entity) {
		s.AddPoints(enemy.Points)
		cx, cy := enemy.Center()
		engine.Explode(s.Store, s.Rand, cx, cy, enemy.Color, fx.ExplosionParticles, fx.ExplosionSpeed, fx.ExplosionLife)
	})

	if per := g.cfg.Gameplay.PointsPerLevel; per > 0 {
		s.Level = 1 + s.Score()/per
	}
	s.Difficulty = g.difficulty.SpeedFactor(g.progress(s))
}

func (g *Game) progress(s *engine.Session) config.Progress {
	return config.Progress{Score: s.Score(), Ticks: s.Tick, Level: s.Level}
}

// steer moves the ship and fires. Taps between frames count as one frame
// of holding.
func (g *Game) steer(s *engine.Session, now time.Time) {
	p := g.player
	in := s.Input
	if active(in, core.ActionLeft) {
		p.X -= g.cfg.Player.Speed
	}
	if active(in, core.ActionRight) {
		p.X += g.cfg.Player.Speed
	}
	p.X = core.ClampF(p.X, 0, s.Width-p.W)

	if !active(in, core.ActionFire) {
		return
	}
	shots := g.cfg.Shots
	if s.Store.Count(engine.KindProjectile) >= shots.MaxPlayerShots {
		return
	}
	if !in.TryTrigger(core.ActionFire, now, time.Duration(shots.CooldownMS)*time.Millisecond) {
		return
	}
	s.Store.Spawn(engine.Entity{
		Kind:  engine.KindProjectile,
		X:     p.X + p.W/2 - shots.Width/2,
		Y:     p.Y,
		W:     shots.Width,
		H:     shots.Height,
		VY:    -shots.Speed,
		Color: core.ColorBrightMagenta,
	})
}

func active(in *engine.InputState, a core.Action) bool {
	pressed := in.Pressed(a)
	return pressed || in.IsHeld(a)
}

func (g *Game) invulnerable() bool { return g.invulnTime > 0 }

// tickInvulnerability counts down the post-hit grace period and blinks the
// ship every 10 frames while it lasts.
func (g *Game) tickInvulnerability() {
	if g.invulnTime == 0 {
		g.player.Hidden = false
		return
	}
	g.invulnTime++
	if g.invulnTime > g.cfg.Player.InvulnerableFrames {
		g.invulnTime = 0
	}
	g.player.Hidden = g.invulnTime > 0 && (g.invulnTime/10)%2 == 1
}

// hit costs a life and starts the grace period. It reports whether the
// session is lost.
func (g *Game) hit(s *engine.Session) bool {
	cx, cy := g.player.Center()
	fx := g.cfg.Effects
	engine.Explode(s.Store, s.Rand, cx, cy, core.ColorBrightGreen, fx.ExplosionParticles, fx.ExplosionSpeed, fx.ExplosionLife)
	g.invulnTime = 1
	return s.LoseLife("destroyed")
}

// enemyShoot fires from a random enemy once the fire timer passes its
// level-scaled threshold and the chance roll succeeds.
func (g *Game) enemyShoot(s *engine.Session) {
	g.fireTimer++
	if g.fireTimer <= g.enemyFire.Threshold(float64(s.Level)) {
		return
	}
	if s.Rand.Float64() >= g.cfg.Shots.EnemyFireChance {
		return
	}
	g.fireTimer = 0

	var enemies []*engine.Entity
	s.Store.ForEach(engine.KindEnemy, func(e *engine.Entity) bool {
		enemies = append(enemies, e)
		return true
	})
	if len(enemies) == 0 {
		return
	}
	shooter := enemies[engine.Choose(s.Rand, len(enemies))]
	s.Store.Spawn(engine.Entity{
		Kind:  engine.KindEnemyProjectile,
		X:     shooter.X + shooter.W/2 - enemyShotW/2,
		Y:     shooter.Bottom(),
		W:     enemyShotW,
		H:     enemyShotH,
		VY:    g.cfg.Shots.EnemyShotSpeed,
		Color: core.ColorRed,
	})
}

// spawnWave sends 1..n enemies stacked above the playfield, stopping at
// the population cap.
func (g *Game) spawnWave(s *engine.Session) {
	if len(g.types) == 0 || !s.Spawner.Allow(s.Store, engine.KindEnemy) {
		return
	}
	e := g.cfg.Enemies
	count := min(engine.Bucket(s.Rand, e.WaveWeights...)+1, max(len(e.WaveWeights), 1))
	if room := s.Spawner.Room(s.Store, engine.KindEnemy); room >= 0 {
		count = min(count, room)
	}
	factor := g.difficulty.SpeedFactor(g.progress(s))

	for i := 0; i < count; i++ {
		t := g.types[engine.Choose(s.Rand, len(g.types))]
		s.Store.Spawn(engine.Entity{
			Kind:    engine.KindEnemy,
			X:       s.Rand.Float64()*(s.Width-60) + 10,
			Y:       -50 - float64(i)*70,
			W:       e.Width,
			H:       e.Height,
			VY:      t.speed * factor,
			Variant: t.name,
			Points:  t.points,
			Color:   t.color,
		})
	}
}

// wrapStars returns stars that fell off the bottom to the top at a new x.
func (g *Game) wrapStars(s *engine.Session) {
	s.Store.ForEach(engine.KindStar, func(e *engine.Entity) bool {
		if e.Y > s.Height {
			e.Y = 0
			e.X = s.Rand.Float64() * s.Width
		}
		return true
	})
}

// Player returns the ship entity of the current session.
func (g *Game) Player() *engine.Entity { return g.player }
