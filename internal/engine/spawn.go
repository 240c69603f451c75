package engine

import "math"

// Spawner decides when a spawn evaluation is due. Its threshold starts at
// Every ticks and shrinks by Reduce ticks per unit of difficulty, never
// below Floor.
type Spawner struct {
	Every  int
	Reduce float64
	Floor  int
	Caps   map[Kind]int

	timer int
}

// Threshold returns the number of ticks between evaluations at difficulty.
func (sp *Spawner) Threshold(difficulty float64) int {
	t := sp.Every - int(math.Round(sp.Reduce*difficulty))
	return max(t, sp.Floor, 1)
}

// Due advances the timer by one tick and reports whether an evaluation is
// due. The timer resets to zero on each evaluation.
func (sp *Spawner) Due(difficulty float64) bool {
	sp.timer++
	if sp.timer < sp.Threshold(difficulty) {
		return false
	}
	sp.timer = 0
	return true
}

// Timer returns ticks elapsed since the last evaluation.
func (sp *Spawner) Timer() int { return sp.timer }

// Reset zeroes the timer.
func (sp *Spawner) Reset() { sp.timer = 0 }

// Allow reports whether kind is below its population cap. Kinds without a
// cap are always allowed.
func (sp *Spawner) Allow(s *Store, kind Kind) bool {
	limit, ok := sp.Caps[kind]
	return !ok || s.Count(kind) < limit
}

// Room returns how many more entities of kind fit under the cap, or -1 if
// the kind is uncapped.
func (sp *Spawner) Room(s *Store, kind Kind) int {
	limit, ok := sp.Caps[kind]
	if !ok {
		return -1
	}
	return max(limit-s.Count(kind), 0)
}

func (sp *Spawner) clone() *Spawner {
	c := &Spawner{Every: sp.Every, Reduce: sp.Reduce, Floor: sp.Floor}
	if sp.Caps != nil {
		c.Caps = make(map[Kind]int, len(sp.Caps))
		for k, v := range sp.Caps {
			c.Caps[k] = v
		}
	}
	return c
}

// Bucket draws one uniform number and returns the index of the cumulative
// weight bucket it falls in. A draw beyond all weights returns len(weights),
// the implicit "nothing" bucket.
func Bucket(r Rand, weights ...float64) int {
	u := r.Float64()
	acc := 0.0
	for i, w := range weights {
		acc += w
		if u < acc {
			return i
		}
	}
	return len(weights)
}

// Choose returns a uniform index in [0, n).
func Choose(r Rand, n int) int {
	if n <= 1 {
		return 0
	}
	return r.Intn(n)
}
