package kernel

// explosionWaveInterval is the fixed time between successive explosion
// waves (spec.md §4.10: "processes one wave every fixed interval (100
// ms)").
const explosionWaveInterval = 0.1

// explosion is one in-flight bomb detonation, expanding outward from
// Origin in Chebyshev rings until every cell of Cells has been processed.
type explosion struct {
	Origin     Position
	Source     BombKind
	Cells      []Position
	byRadius   map[int][]Position
	maxRadius  int
	elapsed    float64
	nextRadius int
}

// ExplosionSystem advances every in-flight explosion by one tick's dt,
// destroying cells wave by wave and marking the whole footprint Suspended
// for the duration so physics leaves it alone (spec.md §4.10).
type ExplosionSystem struct {
	pool   *PoolRegistry
	active []*explosion
}

// NewExplosionSystem builds an ExplosionSystem sharing pool with the rest
// of the session.
func NewExplosionSystem(pool *PoolRegistry) *ExplosionSystem {
	return &ExplosionSystem{pool: pool}
}

// Trigger starts a new explosion: marks every affected non-Empty cell
// Suspended and groups cells into Chebyshev-distance waves around origin.
func (es *ExplosionSystem) Trigger(g *GameState, origin Position, source BombKind, cells []Position) {
	if len(cells) == 0 {
		return
	}
	for _, c := range cells {
		if !g.IsValid(c) {
			continue
		}
		t := g.GetTile(c)
		if !t.IsEmpty() {
			t.Suspended = true
			// A tile still mid-fall from a prior tick can land inside a new
			// footprint before physics runs again this tick (explosions step
			// in phase 4, physics in phase 5) — settle it here so Falling and
			// Suspended are never both true (spec.md §3 invariant (v)).
			t.Falling = false
			t.Vel = Vec2{}
			g.SetTile(c, t)
		}
	}

	byRadius := make(map[int][]Position, 4)
	maxR := 0
	for _, c := range cells {
		r := chebyshev(origin, c)
		byRadius[r] = append(byRadius[r], c)
		if r > maxR {
			maxR = r
		}
	}

	es.active = append(es.active, &explosion{
		Origin:    origin,
		Source:    source,
		Cells:     cells,
		byRadius:  byRadius,
		maxRadius: maxR,
	})
}

// Active reports whether any explosion is still expanding.
func (es *ExplosionSystem) Active() bool { return len(es.active) > 0 }

// Step advances every in-flight explosion by dt. It returns the positions
// of bombs it uncovered mid-blast (spec.md §4.10 "chain-triggered bomb";
// the orchestrator activates these immediately via the power-up handler).
func (es *ExplosionSystem) Step(g *GameState, dt float64, collector Collector) []Position {
	var chainBombs []Position
	remaining := es.active[:0]

	for _, exp := range es.active {
		exp.elapsed += dt
		for exp.elapsed >= explosionWaveInterval && exp.nextRadius <= exp.maxRadius {
			exp.elapsed -= explosionWaveInterval
			for _, c := range exp.byRadius[exp.nextRadius] {
				chainBombs = es.resolveCell(g, exp, c, collector, chainBombs)
			}
			exp.nextRadius++
		}

		if exp.nextRadius <= exp.maxRadius {
			remaining = append(remaining, exp)
		} else {
			es.release(g, exp)
		}
	}
	es.active = remaining
	return chainBombs
}

// resolveCell applies one explosion cell's effect (spec.md §4.10): a cover
// absorbs the hit instead of the tile clearing; a bomb other than the
// source becomes chain-triggered instead of destroyed directly; otherwise
// the tile is destroyed and the ground layer notified.
func (es *ExplosionSystem) resolveCell(g *GameState, exp *explosion, c Position, collector Collector, chainBombs []Position) []Position {
	if !g.IsValid(c) {
		return chainBombs
	}

	cov := g.GetCover(c)
	if cov.Kind != CoverNone {
		cov.Health--
		if cov.Health <= 0 {
			collector.Emit(&CoverDestroyedEvent{base: newBase(g.CurrentTick, g.SimulationTime), Pos: c, CoverKind_: cov.Kind})
			g.SetCover(c, Cover{})
		} else {
			g.SetCover(c, cov)
		}
		return chainBombs
	}

	t := g.GetTile(c)
	if t.IsEmpty() {
		return chainBombs
	}

	if t.Bomb != BombNone && c != exp.Origin {
		return append(chainBombs, c)
	}

	collector.Emit(&TileDestroyedEvent{base: newBase(g.CurrentTick, g.SimulationTime), Pos: c, TileID: t.ID, Color: t.Color, Reason: DestroyBomb})
	g.ClearTile(c)

	gr := g.GetGround(c)
	if gr.Kind != GroundNone {
		gr.Health--
		if gr.Health <= 0 {
			collector.Emit(&GroundDestroyedEvent{base: newBase(g.CurrentTick, g.SimulationTime), Pos: c, GroundKind_: gr.Kind})
			g.SetGround(c, Ground{})
		} else {
			g.SetGround(c, gr)
		}
	}
	return chainBombs
}

// release clears the Suspended flag from every cell of a finished
// explosion's footprint, handing them back to physics.
func (es *ExplosionSystem) release(g *GameState, exp *explosion) {
	for _, c := range exp.Cells {
		if !g.IsValid(c) {
			continue
		}
		t := g.GetTile(c)
		if !t.IsEmpty() && t.Suspended {
			t.Suspended = false
			g.SetTile(c, t)
		}
	}
}

func chebyshev(a, b Position) int {
	dx, dy := a.X-b.X, a.Y-b.Y
	if dx < 0 {
		dx = -dx
	}
	if dy < 0 {
		dy = -dy
	}
	if dx > dy {
		return dx
	}
	return dy
}
