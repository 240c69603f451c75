package engine

// CullEdges is a bitmask of playfield edges past which a kind is removed.
type CullEdges uint8

const (
	CullLeft CullEdges = 1 << iota
	CullRight
	CullTop
	CullBottom
)

// Store owns every entity of a session, kept in spawn order per kind.
type Store struct {
	width, height float64
	nextID        uint64
	byKind        [kindCount][]*Entity
	cull          map[Kind]CullEdges
	player        *Entity
	maxFall       float64
}

// NewStore creates an empty store for a width x height playfield.
// cull lists the trailing edges for each kind; kinds not listed are never culled.
func NewStore(width, height float64, cull map[Kind]CullEdges) *Store {
	c := make(map[Kind]CullEdges, len(cull))
	for k, v := range cull {
		c[k] = v
	}
	return &Store{width: width, height: height, cull: c}
}

// Width returns the playfield width.
func (s *Store) Width() float64 { return s.width }

// Height returns the playfield height.
func (s *Store) Height() float64 { return s.height }

// SetMaxFall caps downward velocity of gravity entities. Zero disables the cap.
func (s *Store) SetMaxFall(v float64) {
	s.maxFall = v
}

// Spawn adds a copy of e, assigns it an ID and marks it alive.
// Spawning a player replaces the current player.
func (s *Store) Spawn(e Entity) *Entity {
	s.nextID++
	e.ID = s.nextID
	e.Alive = true
	p := &e
	if e.Kind == KindPlayer {
		s.byKind[KindPlayer] = s.byKind[KindPlayer][:0]
		s.player = p
	}
	s.byKind[e.Kind] = append(s.byKind[e.Kind], p)
	return p
}

// Player returns the player entity, or nil if none is alive.
func (s *Store) Player() *Entity {
	return s.player
}

// ForEach calls fn for every live entity of kind in spawn order until fn
// returns false.
func (s *Store) ForEach(kind Kind, fn func(*Entity) bool) {
	for _, e := range s.byKind[kind] {
		if !e.Alive {
			continue
		}
		if !fn(e) {
			return
		}
	}
}

// Count returns the number of live entities of kind.
func (s *Store) Count(kind Kind) int {
	n := 0
	for _, e := range s.byKind[kind] {
		if e.Alive {
			n++
		}
	}
	return n
}

// Len returns the number of live entities of all kinds.
func (s *Store) Len() int {
	n := 0
	for k := Kind(0); k < kindCount; k++ {
		n += s.Count(k)
	}
	return n
}

// Integrate advances entities of the given kinds by one tick. Gravity
// entities gain velocity before moving. Particles age and die at zero life.
func (s *Store) Integrate(gravity float64, kinds ...Kind) {
	for _, k := range kinds {
		for _, e := range s.byKind[k] {
			if !e.Alive {
				continue
			}
			if e.Gravity {
				e.VY += gravity
				if s.maxFall > 0 && e.VY > s.maxFall {
					e.VY = s.maxFall
				}
			}
			e.X += e.VX
			e.Y += e.VY
			if e.MaxLife > 0 {
				e.Life--
				if e.Life <= 0 {
					e.Alive = false
				}
			}
		}
	}
}

// Culled reports whether e is fully past one of its kind's trailing edges.
func (s *Store) Culled(e *Entity) bool {
	edges := s.cull[e.Kind]
	switch {
	case edges&CullLeft != 0 && e.X+e.W <= 0:
		return true
	case edges&CullRight != 0 && e.X >= s.width:
		return true
	case edges&CullTop != 0 && e.Y+e.H <= 0:
		return true
	case edges&CullBottom != 0 && e.Y >= s.height:
		return true
	}
	return false
}

// RemoveDead drops dead and culled entities and returns how many were removed.
func (s *Store) RemoveDead() int {
	removed := 0
	for k := Kind(0); k < kindCount; k++ {
		list := s.byKind[k]
		kept := list[:0]
		for _, e := range list {
			if e.Alive && !s.Culled(e) {
				kept = append(kept, e)
				continue
			}
			e.Alive = false
			removed++
		}
		clear(list[len(kept):])
		s.byKind[k] = kept
	}
	if s.player != nil && !s.player.Alive {
		s.player = nil
	}
	return removed
}

// Clear removes every entity.
func (s *Store) Clear() {
	for k := range s.byKind {
		s.byKind[k] = nil
	}
	s.player = nil
}
