package kernel

import "math"

// Tuning constants for the continuous gravity/refill model (spec.md §4.8).
// The source gives qualitative behavior ("fixed slide speed", "reduction
// factor while sliding", "maximum fall speed", "minimum initial fall
// speed") without numbers; these pick concrete values and hold them fixed.
const (
	slideSpeed         = 8.0  // cells/sec, horizontal approach toward target x
	gravityAccel       = 30.0 // cells/sec^2
	slideGravityFactor = 0.4  // vertical accel multiplier while diagonally sliding
	maxFallSpeed       = 18.0 // cells/sec
	minFallSpeed       = 3.0  // cells/sec, applied the instant a tile starts falling
	stabilityEpsilon   = 0.02 // cells, both for |velocity| and |pos-cell|
)

// Physics steps gravity/refill for one tick (spec.md §4.8). It holds no
// per-session state; everything it needs is passed in.
type Physics struct {
	pool *PoolRegistry
}

// NewPhysics builds a Physics sharing pool with the rest of the session.
func NewPhysics(pool *PoolRegistry) *Physics {
	return &Physics{pool: pool}
}

// Refill creates a new falling tile at the top of every column whose (x,0)
// cell is Empty (spec.md §4.8 "Refill"). It never refills a column whose
// top is occupied, even by a tile mid-flight toward that cell — the cell
// value itself is the only thing Refill consults.
func (ph *Physics) Refill(g *GameState, spawn *SpawnModel, ctx SpawnContext, collector Collector) {
	spawnStream := g.Seeds.Stream(DomainSpawn)
	for x := 0; x < g.Width; x++ {
		top := Position{X: x, Y: 0}
		if !g.GetTile(top).IsEmpty() {
			continue
		}
		color := spawn.Choose(g, x, ctx, spawnStream)
		if color == ColorNone {
			continue
		}
		id := g.AllocateTileID()
		t := Tile{
			ID:      id,
			Color:   color,
			Pos:     Vec2{X: float64(x), Y: -1},
			Vel:     Vec2{X: 0, Y: minFallSpeed},
			Falling: true,
		}
		g.SetTile(top, t)
		collector.Emit(&TileSpawnedEvent{base: newBase(g.CurrentTick, g.SimulationTime), Pos: top, Color: color, ID: id})
	}
}

// moveMode is how Step moves a tile toward the logical destination cell it
// decided on.
type moveMode int

const (
	modeStay moveMode = iota
	modeDescend
	modeFollow
	modeSlide
)

// Step integrates one dt of gravity/refill motion across the whole board,
// column order shuffled via the Physics RNG domain (spec.md §4.8, §5
// "physics phase shuffles columns... deterministic per tick and per master
// seed"). Returns whether any tile is still not at rest.
func (ph *Physics) Step(g *GameState, dt float64, collector Collector) bool {
	occupied := ph.pool.AcquireSet()
	defer ph.pool.ReleaseSet(occupied)

	columns := make([]int, g.Width)
	for i := range columns {
		columns[i] = i
	}
	stream := g.Seeds.Stream(DomainPhysics)
	stream.Shuffle(len(columns), func(i, j int) { columns[i], columns[j] = columns[j], columns[i] })

	anyActive := false
	for _, x := range columns {
		reserved := ph.pool.AcquireSet()
		defer ph.pool.ReleaseSet(reserved)
		if ph.stepColumn(g, x, dt, reserved, occupied, collector, stream) {
			anyActive = true
		}
	}
	return anyActive
}

// stepColumn processes column x bottom-to-top so a lower tile's resolved
// target is available when a higher tile in the same column asks whether
// the cell below it is free.
func (ph *Physics) stepColumn(g *GameState, x int, dt float64, reserved, occupied PositionSet, collector Collector, stream *Stream) bool {
	anyActive := false
	for y := g.Height - 1; y >= 0; y-- {
		p := Position{X: x, Y: y}
		if _, moved := occupied[p]; moved {
			continue
		}
		tile := g.GetTile(p)
		if tile.IsEmpty() || tile.Suspended {
			continue
		}

		mode, targetCell, followVel := ph.determineTarget(g, p, tile, reserved, stream)
		if mode != modeStay {
			reserved[targetCell] = struct{}{}
		}

		active := ph.integrate(g, p, &tile, mode, targetCell, followVel, dt, occupied, collector)
		if active {
			anyActive = true
		}
	}
	return anyActive
}

// determineTarget implements spec.md §4.8 step 1.
func (ph *Physics) determineTarget(g *GameState, p Position, tile Tile, reserved PositionSet, stream *Stream) (moveMode, Position, Vec2) {
	if p.Y == g.Height-1 {
		return modeStay, p, Vec2{}
	}
	below := Position{X: p.X, Y: p.Y + 1}
	belowTile := g.GetTile(below)

	if belowTile.IsEmpty() {
		if _, taken := reserved[below]; !taken {
			target := below
			for ny := p.Y + 2; ny < g.Height; ny++ {
				next := Position{X: p.X, Y: ny}
				if _, taken := reserved[next]; taken {
					break
				}
				if !g.GetTile(next).IsEmpty() {
					break
				}
				target = next
			}
			return modeDescend, target, Vec2{}
		}
	}

	if !belowTile.IsEmpty() && belowTile.Falling {
		return modeFollow, p, belowTile.Vel
	}

	if belowTile.Suspended {
		leftP := Position{X: p.X - 1, Y: p.Y + 1}
		rightP := Position{X: p.X + 1, Y: p.Y + 1}
		leftFree := ph.diagonalFree(g, leftP, p, reserved)
		rightFree := ph.diagonalFree(g, rightP, p, reserved)
		switch {
		case leftFree && rightFree:
			if stream.Bool() {
				return modeSlide, leftP, Vec2{}
			}
			return modeSlide, rightP, Vec2{}
		case leftFree:
			return modeSlide, leftP, Vec2{}
		case rightFree:
			return modeSlide, rightP, Vec2{}
		}
	}

	return modeStay, p, Vec2{}
}

// diagonalFree reports whether diag is a valid in-bounds, Empty,
// not-yet-reserved cell, and the cell directly above it (on diag's column,
// at from's row) is also Empty — so a diagonal slide never steals a cell a
// vertical faller in that column is about to occupy.
func (ph *Physics) diagonalFree(g *GameState, diag, from Position, reserved PositionSet) bool {
	if !g.IsValid(diag) {
		return false
	}
	if !g.GetTile(diag).IsEmpty() {
		return false
	}
	if _, taken := reserved[diag]; taken {
		return false
	}
	above := Position{X: diag.X, Y: from.Y}
	return g.GetTile(above).IsEmpty()
}

// integrate advances tile's continuous position/velocity by dt, snaps on
// arrival, re-indexes the grid if the tile crossed into a new logical cell,
// and emits TileMovedEvent. Returns whether the tile is still active
// (not at rest).
func (ph *Physics) integrate(g *GameState, from Position, tile *Tile, mode moveMode, targetCell Position, followVel Vec2, dt float64, occupied PositionSet, collector Collector) bool {
	if mode == modeStay {
		tile.Falling = false
		tile.Vel = Vec2{}
		if !atRestAt(*tile, from) {
			tile.Pos = Vec2{X: float64(from.X), Y: float64(from.Y)}
			g.SetTile(from, *tile)
		}
		return false
	}

	tile.Falling = true
	targetX, targetY := float64(targetCell.X), float64(targetCell.Y)

	if tile.Pos.X < targetX {
		tile.Pos.X = math.Min(tile.Pos.X+slideSpeed*dt, targetX)
	} else if tile.Pos.X > targetX {
		tile.Pos.X = math.Max(tile.Pos.X-slideSpeed*dt, targetX)
	}

	accel := gravityAccel
	if mode == modeSlide {
		accel *= slideGravityFactor
	}
	tile.Vel.Y += accel * dt
	if tile.Vel.Y < minFallSpeed {
		tile.Vel.Y = minFallSpeed
	}
	if tile.Vel.Y > maxFallSpeed {
		tile.Vel.Y = maxFallSpeed
	}
	tile.Pos.Y += tile.Vel.Y * dt

	reachedY := tile.Pos.Y >= targetY
	if mode == modeFollow {
		// Follow mode's target is "just above the falling tile below" —
		// re-derive it each integrate call since the leader keeps moving.
		leaderPos := g.GetTile(Position{X: from.X, Y: from.Y + 1}).Pos
		reachedY = tile.Pos.Y >= leaderPos.Y-1
		if reachedY {
			tile.Pos.Y = leaderPos.Y - 1
			tile.Vel = followVel
		}
	} else if reachedY {
		tile.Pos.Y = targetY
		tile.Vel = Vec2{}
		tile.Falling = false
	}

	newCell := Position{X: int(math.Round(tile.Pos.X)), Y: int(math.Round(tile.Pos.Y))}
	if newCell != from && g.IsValid(newCell) {
		moved := *tile
		g.ClearTile(from)
		g.SetTile(newCell, moved)
		occupied[newCell] = struct{}{}

		reason := MoveGravity
		if mode == modeSlide {
			reason = MoveSlide
		}
		collector.Emit(&TileMovedEvent{base: newBase(g.CurrentTick, g.SimulationTime), Pos: newCell, Reason: reason})
		return !atRestAt(moved, newCell)
	}

	g.SetTile(from, *tile)
	return !atRestAt(*tile, from)
}

// atRestAt reports whether t's continuous state is settled at cell: near
// zero velocity and within epsilon of the cell's integer coordinates
// (spec.md §4.8 "Stability").
func atRestAt(t Tile, cell Position) bool {
	if math.Abs(t.Vel.X) > stabilityEpsilon || math.Abs(t.Vel.Y) > stabilityEpsilon {
		return false
	}
	return math.Abs(t.Pos.X-float64(cell.X)) <= stabilityEpsilon && math.Abs(t.Pos.Y-float64(cell.Y)) <= stabilityEpsilon
}

// IsBoardAtRest reports whether every non-Empty, non-Suspended tile has
// settled (spec.md §4.8 "Stability").
func IsBoardAtRest(g *GameState) bool {
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			t := g.GetTile(Position{X: x, Y: y})
			if t.IsEmpty() || t.Suspended {
				continue
			}
			if !atRestAt(t, Position{X: x, Y: y}) {
				return false
			}
		}
	}
	return true
}
