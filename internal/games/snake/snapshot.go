package snake

// Snapshot captures the game state for determinism testing.
type Snapshot struct {
	Length int
	HeadX  int
	HeadY  int
	Dir    Direction
	FoodX  int
	FoodY  int
}

// Snapshot returns the current game snapshot in grid cells.
func (g *Game) Snapshot() Snapshot {
	snap := Snapshot{
		Length: len(g.body),
		Dir:    g.direction,
	}
	if len(g.body) > 0 {
		snap.HeadX, snap.HeadY = g.cellOf(g.body[0])
	}
	if g.food != nil {
		snap.FoodX, snap.FoodY = g.cellOf(g.food)
	}
	return snap
}
