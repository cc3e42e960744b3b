package kernel

// swapAnimationDuration is how long an accepted swap's visual animation is
// given to settle before its consequences resolve (spec.md §4.12).
const swapAnimationDuration = 0.15

// PendingMove records one accepted-but-not-yet-resolved swap (spec.md
// §4.12).
type PendingMove struct {
	From, To         Position
	IDA, IDB         uint64
	HadMatch         bool
	IsBombSwap       bool
	AnimationElapsed float64
}

// SwapController implements the swap acceptance/revert protocol: it holds
// at most one pending move at a time and resolves it once its animation
// window elapses (spec.md §4.12).
type SwapController struct {
	pending *PendingMove
}

// NewSwapController builds an empty SwapController.
func NewSwapController() *SwapController { return &SwapController{} }

// HasPending reports whether a swap is mid-animation — match processing is
// suppressed for the tick while this is true (spec.md §4.12).
func (sc *SwapController) HasPending() bool { return sc.pending != nil }

// ApplyMove validates and, if accepted, stages from/to as a pending swap
// (spec.md §4.12, §6 applyMove). Returns false (no-op, nothing emitted) for
// out-of-bounds positions, non-adjacent cells, a swap already pending, or
// two Empty cells.
func (sc *SwapController) ApplyMove(g *GameState, from, to Position, collector Collector) bool {
	if sc.pending != nil {
		return false
	}
	if !g.IsValid(from) || !g.IsValid(to) {
		return false
	}
	if !adjacent(from, to) {
		return false
	}

	tileA, tileB := g.GetTile(from), g.GetTile(to)
	if tileA.IsEmpty() && tileB.IsEmpty() {
		return false
	}

	g.SetTile(from, tileB)
	g.SetTile(to, tileA)

	isBombSwap := isBombOrRainbow(tileA) || isBombOrRainbow(tileB)
	hadMatch := isBombSwap || createsMatchAt(g, from) || createsMatchAt(g, to)

	sc.pending = &PendingMove{
		From: from, To: to,
		IDA: tileA.ID, IDB: tileB.ID,
		HadMatch:   hadMatch,
		IsBombSwap: isBombSwap,
	}
	collector.Emit(&TilesSwappedEvent{base: newBase(g.CurrentTick, g.SimulationTime), From: from, To: to, IsRevert: false})
	return true
}

// Advance moves the pending swap's animation clock forward by dt and, once
// it reaches swapAnimationDuration, resolves it: reverts a non-matching
// swap, or (for a bomb-involving swap) runs the single-bomb or combo
// effect. A matching, non-bomb swap is simply cleared — the orchestrator's
// normal match processing acts on the new board this same tick (spec.md
// §4.12, §4.13 step 1).
// Advance returns (foci, true) exactly when a non-bomb matching swap just
// resolved, so the orchestrator can bias this tick's match processing
// toward those two cells (spec.md §4.4 "Foci", §4.13 step 6).
func (sc *SwapController) Advance(g *GameState, dt float64, collector Collector, powerUp *PowerUpHandler, matchProc *MatchProcessor, explosions *ExplosionSystem, projectiles *ProjectileSystem, stream *Stream) ([2]Position, bool) {
	if sc.pending == nil {
		return [2]Position{}, false
	}
	sc.pending.AnimationElapsed += dt
	if sc.pending.AnimationElapsed < swapAnimationDuration {
		return [2]Position{}, false
	}

	pm := sc.pending
	sc.pending = nil

	if !pm.HadMatch {
		a, b := g.GetTile(pm.From), g.GetTile(pm.To)
		g.SetTile(pm.From, b)
		g.SetTile(pm.To, a)
		collector.Emit(&TilesSwappedEvent{base: newBase(g.CurrentTick, g.SimulationTime), From: pm.From, To: pm.To, IsRevert: true})
		return [2]Position{}, false
	}

	if !pm.IsBombSwap {
		return [2]Position{pm.From, pm.To}, true
	}

	tileA, tileB := g.GetTile(pm.From), g.GetTile(pm.To)
	aBomb, bBomb := isBombOrRainbow(tileA), isBombOrRainbow(tileB)

	switch {
	case aBomb && bBomb:
		result := powerUp.Combo(g, pm.From, pm.To, pm.To, stream)
		applyComboResult(g, result, collector, matchProc, explosions, projectiles, stream)
	case aBomb:
		detonateSingle(g, pm.From, tileA, powerUp, explosions, stream)
	case bBomb:
		detonateSingle(g, pm.To, tileB, powerUp, explosions, stream)
	}
	return [2]Position{}, false
}

func detonateSingle(g *GameState, pos Position, t Tile, powerUp *PowerUpHandler, explosions *ExplosionSystem, stream *Stream) {
	kind := t.Bomb
	if t.Color == Rainbow {
		kind = BombRainbow
	}
	footprint := powerUp.Footprint(g, pos, kind, stream)
	explosions.Trigger(g, pos, kind, footprint)
}

// applyComboResult dispatches a combo's effect: a flat cell set clears
// immediately (spec.md §4.9's BFS, reused via MatchProcessor.ClearCells); a
// full-board combo clears everything; chain bombs are armed as new
// explosions (or launched as projectiles, for BombUFO).
func applyComboResult(g *GameState, result ComboResult, collector Collector, matchProc *MatchProcessor, explosions *ExplosionSystem, projectiles *ProjectileSystem, stream *Stream) {
	if result.FullBoard {
		matchProc.ClearCells(g, allCells(g), DestroyBomb, collector, stream)
		return
	}
	if len(result.DirectClear) > 0 {
		matchProc.ClearCells(g, result.DirectClear, DestroyBomb, collector, stream)
	}
	for _, cb := range result.ChainBombs {
		t := g.GetTile(cb.Pos)
		if t.IsEmpty() {
			continue
		}
		t.Bomb = cb.Kind
		g.SetTile(cb.Pos, t)
		collector.Emit(&BombActivatedEvent{base: newBase(g.CurrentTick, g.SimulationTime), Pos: cb.Pos, BombKind_: cb.Kind, ChainReaction: true})

		if cb.Kind == BombUFO {
			target, ok := randomNonEmpty(g, stream, map[Position]struct{}{cb.Pos: {}})
			if ok {
				projectiles.Launch(g, cb.Pos, TargetFixedCell, target, 0, nil, collector)
			}
			continue
		}
		footprint := powerUpFootprintForChain(g, cb, stream)
		explosions.Trigger(g, cb.Pos, cb.Kind, footprint)
	}
}

// powerUpFootprintForChain computes a chain bomb's footprint inline rather
// than threading a *PowerUpHandler through applyComboResult — the two
// kinds a Rainbow combo ever chains into Line/Square footprints don't need
// RNG, so this only forwards stream for completeness/signature symmetry.
func powerUpFootprintForChain(g *GameState, cb ChainBomb, stream *Stream) []Position {
	switch cb.Kind {
	case BombHorizontal:
		return rowCells(g, cb.Pos.Y)
	case BombVertical:
		return colCells(g, cb.Pos.X)
	case BombSquare:
		return squareCells(g, cb.Pos, 1)
	default:
		return nil
	}
}

func isBombOrRainbow(t Tile) bool {
	return t.Bomb != BombNone || t.Color == Rainbow
}

func createsMatchAt(g *GameState, p Position) bool {
	t := g.GetTile(p)
	if t.IsEmpty() {
		return false
	}
	return runLengthIfPlaced(g, p.X, p.Y, t.Color) >= 3
}

func adjacent(a, b Position) bool {
	dx, dy := a.X-b.X, a.Y-b.Y
	if dx < 0 {
		dx = -dx
	}
	if dy < 0 {
		dy = -dy
	}
	return dx+dy == 1
}
