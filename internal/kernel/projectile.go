package kernel

import "math"

// ProjectilePhase is a UFO projectile's position in its Takeoff → Flight →
// Impact state machine (spec.md §4.11).
type ProjectilePhase int

const (
	PhaseTakeoff ProjectilePhase = iota
	PhaseFlight
	PhaseImpact
)

// TargetMode selects how a projectile picks and re-evaluates its target
// (spec.md §4.11 "Targeting modes").
type TargetMode int

const (
	TargetFixedCell TargetMode = iota
	TargetDynamic
	TargetTrackTile
)

const (
	takeoffDuration = 0.3  // seconds
	takeoffHeight   = 1.5  // cells
	flightSpeed     = 12.0 // cells/sec
	impactThreshold = 0.2  // cells
)

// projectile is one in-flight UFO.
type projectile struct {
	ID          uint64
	Phase       ProjectilePhase
	Mode        TargetMode
	Pos         Vec2
	startY      float64
	elapsed     float64
	Target      Position
	TrackTileID uint64
	// footprint, when set, is emitted on impact instead of just Target —
	// used when a combo launches a UFO with a wider blast than a single cell.
	footprint []Position
}

// ProjectileSystem advances every in-flight UFO by one tick (spec.md
// §4.11).
type ProjectileSystem struct {
	pool   *PoolRegistry
	active []*projectile
	nextID uint64
}

// NewProjectileSystem builds a ProjectileSystem sharing pool with the rest
// of the session.
func NewProjectileSystem(pool *PoolRegistry) *ProjectileSystem {
	return &ProjectileSystem{pool: pool}
}

// Launch starts a new UFO from cell from, targeting target under mode.
// footprint overrides what Impact reports as affected, for combo-launched
// UFOs whose blast is wider than their landing cell; pass nil for the
// ordinary single-target case.
func (ps *ProjectileSystem) Launch(g *GameState, from Position, mode TargetMode, target Position, trackTileID uint64, footprint []Position, collector Collector) uint64 {
	ps.nextID++
	id := ps.nextID
	p := &projectile{
		ID:          id,
		Phase:       PhaseTakeoff,
		Mode:        mode,
		Pos:         Vec2{X: float64(from.X), Y: float64(from.Y)},
		startY:      float64(from.Y),
		Target:      target,
		TrackTileID: trackTileID,
		footprint:   footprint,
	}
	ps.active = append(ps.active, p)
	collector.Emit(&ProjectileLaunchedEvent{base: newBase(g.CurrentTick, g.SimulationTime), ID: id, From: from})
	return id
}

// Active reports whether any projectile is still in flight.
func (ps *ProjectileSystem) Active() bool { return len(ps.active) > 0 }

// Step advances every in-flight projectile by dt and returns the cells
// affected by any impacts that occurred this tick — the orchestrator runs
// match/clear logic over those cells (spec.md §4.13 step 3).
func (ps *ProjectileSystem) Step(g *GameState, dt float64, stream *Stream, collector Collector) []Position {
	var impacted []Position
	remaining := ps.active[:0]

	for _, p := range ps.active {
		switch p.Phase {
		case PhaseTakeoff:
			ps.stepTakeoff(g, p, dt, collector)
		case PhaseFlight:
			ps.stepFlight(g, p, dt, stream, collector)
		}

		if p.Phase == PhaseImpact {
			affected := p.footprint
			if affected == nil {
				affected = []Position{p.Target}
			}
			collector.Emit(&ProjectileImpactEvent{base: newBase(g.CurrentTick, g.SimulationTime), ID: p.ID, Positions: append([]Position(nil), affected...)})
			impacted = append(impacted, affected...)
		} else {
			remaining = append(remaining, p)
		}
	}
	ps.active = remaining
	return impacted
}

// stepTakeoff rises p with an ease-out arc over takeoffDuration, then hands
// off to Flight.
func (ps *ProjectileSystem) stepTakeoff(g *GameState, p *projectile, dt float64, collector Collector) {
	p.elapsed += dt
	t := p.elapsed / takeoffDuration
	if t > 1 {
		t = 1
	}
	eased := 1 - (1-t)*(1-t)
	p.Pos.Y = p.startY - takeoffHeight*eased

	collector.Emit(&ProjectileMovedEvent{base: newBase(g.CurrentTick, g.SimulationTime), ID: p.ID, Pos: p.Pos})

	if t >= 1 {
		p.Phase = PhaseFlight
		p.elapsed = 0
	}
}

// stepFlight re-evaluates the target (per Mode), then moves p at
// flightSpeed toward it; arrival within impactThreshold transitions to
// Impact.
func (ps *ProjectileSystem) stepFlight(g *GameState, p *projectile, dt float64, stream *Stream, collector Collector) {
	ps.retarget(g, p, stream, collector)

	tx, ty := float64(p.Target.X), float64(p.Target.Y)
	dx, dy := tx-p.Pos.X, ty-p.Pos.Y
	dist := math.Hypot(dx, dy)

	if dist <= impactThreshold {
		p.Phase = PhaseImpact
		return
	}

	step := flightSpeed * dt
	if step >= dist {
		p.Pos.X, p.Pos.Y = tx, ty
	} else {
		p.Pos.X += dx / dist * step
		p.Pos.Y += dy / dist * step
	}
	collector.Emit(&ProjectileMovedEvent{base: newBase(g.CurrentTick, g.SimulationTime), ID: p.ID, Pos: p.Pos})
}

// retarget applies spec.md §4.11's per-mode re-evaluation, emitting a
// retarget event whenever the target actually changes.
func (ps *ProjectileSystem) retarget(g *GameState, p *projectile, stream *Stream, collector Collector) {
	switch p.Mode {
	case TargetFixedCell:
		if g.GetTile(p.Target).IsEmpty() {
			if next, ok := randomNonEmpty(g, stream, nil); ok {
				p.Target = next
				collector.Emit(&ProjectileRetargetedEvent{base: newBase(g.CurrentTick, g.SimulationTime), ID: p.ID, Reason: "target_emptied"})
			}
			// else: no eligible target, continue toward the (now empty) cell.
		}

	case TargetDynamic:
		if next, ok := nearestNonEmpty(g, p.Pos); ok && next != p.Target {
			p.Target = next
			collector.Emit(&ProjectileRetargetedEvent{base: newBase(g.CurrentTick, g.SimulationTime), ID: p.ID, Reason: "dynamic_reeval"})
		}

	case TargetTrackTile:
		if pos, ok := findTileByID(g, p.TrackTileID); ok {
			if pos != p.Target {
				p.Target = pos
				collector.Emit(&ProjectileRetargetedEvent{base: newBase(g.CurrentTick, g.SimulationTime), ID: p.ID, Reason: "track_moved"})
			}
		} else if next, ok := randomNonEmpty(g, stream, nil); ok {
			p.Target = next
			collector.Emit(&ProjectileRetargetedEvent{base: newBase(g.CurrentTick, g.SimulationTime), ID: p.ID, Reason: "track_lost"})
		}
	}
}

// nearestNonEmpty returns the non-Empty cell closest to from, tie-broken by
// row-major scan order (first found at the minimal distance wins).
func nearestNonEmpty(g *GameState, from Vec2) (Position, bool) {
	best := Position{}
	bestDist := math.Inf(1)
	found := false
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			p := Position{X: x, Y: y}
			if g.GetTile(p).IsEmpty() {
				continue
			}
			d := math.Hypot(float64(x)-from.X, float64(y)-from.Y)
			if d < bestDist {
				bestDist = d
				best = p
				found = true
			}
		}
	}
	return best, found
}

// findTileByID locates the cell currently holding tile id, row-major scan.
func findTileByID(g *GameState, id uint64) (Position, bool) {
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			p := Position{X: x, Y: y}
			if t := g.GetTile(p); !t.IsEmpty() && t.ID == id {
				return p, true
			}
		}
	}
	return Position{}, false
}
