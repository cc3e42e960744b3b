package kernel

// scoreBaseTile is the per-cell score awarded for every tile a match clears
// (spec.md §8 scenario 1: three cells ⇒ score 30).
const scoreBaseTile = 10

// scoreBombBonus is the extra score credited when a group spawns a bomb, on
// top of its per-cell base score (spec.md §8 scenario 2 "score = base match
// + bomb bonus"; the source does not give the bonus a number, so this picks
// one and keeps it fixed).
const scoreBombBonus = 50

// MatchProcessor applies the groups a MatchFinder/BombGenerator produced:
// scoring, bomb placement, and the clearing BFS that walks chain-triggered
// bombs and ground/cover layers (spec.md §4.6).
type MatchProcessor struct {
	pool    *PoolRegistry
	powerUp *PowerUpHandler
}

// NewMatchProcessor builds a MatchProcessor sharing pool and powerUp with
// the rest of the session.
func NewMatchProcessor(pool *PoolRegistry, powerUp *PowerUpHandler) *MatchProcessor {
	return &MatchProcessor{pool: pool, powerUp: powerUp}
}

// ProcessResult summarizes one Process call for the orchestrator's
// aggregate counters (spec.md §4.13 SimulationResult).
type ProcessResult struct {
	TilesCleared int
	BombsCreated int
	ScoreGained  int64
}

// Process applies every group in groups against g, in order, emitting
// events through collector. stream supplies RNG for any bomb detonated
// mid-clear (UFO target selection) — by convention the Main domain.
func (mp *MatchProcessor) Process(g *GameState, groups []MatchGroup, collector Collector, stream *Stream) ProcessResult {
	var result ProcessResult

	for _, group := range groups {
		collector.Emit(&MatchDetectedEvent{base: newBase(g.CurrentTick, g.SimulationTime), Shape: group.Shape, Positions: append([]Position(nil), group.Cells...)})

		gain := int64(len(group.Cells)) * scoreBaseTile
		if group.SpawnBomb != BombNone {
			gain += scoreBombBonus
		}
		g.Score += gain
		result.ScoreGained += gain
		collector.Emit(&ScoreAddedEvent{base: newBase(g.CurrentTick, g.SimulationTime), Amount: gain, Total: g.Score})

		protected := mp.pool.AcquireSet()
		defer mp.pool.ReleaseSet(protected)
		if group.SpawnBomb != BombNone {
			protected[group.Origin] = struct{}{}
			mp.spawnBombAt(g, group.Origin, group.SpawnBomb, collector)
			result.BombsCreated++
		}

		queue := mp.pool.AcquireSlice()
		for _, c := range group.Cells {
			if _, isOrigin := protected[c]; !isOrigin {
				queue = append(queue, c)
			}
		}
		defer mp.pool.ReleaseSlice(queue)

		cleared := mp.pool.AcquireSet()
		defer mp.pool.ReleaseSet(cleared)
		result.TilesCleared += mp.clear(g, queue, protected, cleared, DestroyMatch, collector, stream)
	}
	return result
}

// ClearCells runs the same clearing BFS Process uses, starting from an
// arbitrary cell set instead of a MatchGroup — used by bomb combos and
// projectile impacts (spec.md §4.9 "Clearing uses a BFS that triggers
// chain reactions"), which share every rule with §4.6's clearing except
// that no score or bomb-spawn happens at the call site itself.
func (mp *MatchProcessor) ClearCells(g *GameState, cells []Position, reason DestroyReason, collector Collector, stream *Stream) int {
	protected := mp.pool.AcquireSet()
	defer mp.pool.ReleaseSet(protected)
	cleared := mp.pool.AcquireSet()
	defer mp.pool.ReleaseSet(cleared)
	queue := mp.pool.AcquireSlice()
	defer mp.pool.ReleaseSlice(queue)

	queue = append(queue, cells...)
	return mp.clear(g, queue, protected, cleared, reason, collector, stream)
}

// spawnBombAt replaces the tile at pos with the bomb kind shape selected
// (spec.md §4.6 "Rainbow → rainbow tile; otherwise same color + bomb
// flag").
func (mp *MatchProcessor) spawnBombAt(g *GameState, pos Position, kind BombKind, collector Collector) {
	t := g.GetTile(pos)
	if kind == BombRainbow {
		t.Color = Rainbow
		t.Bomb = BombNone
	} else {
		t.Bomb = kind
	}
	g.SetTile(pos, t)
	collector.Emit(&BombCreatedEvent{base: newBase(g.CurrentTick, g.SimulationTime), Pos: pos, BombKind_: kind})
}

// clear runs the clearing BFS described in spec.md §4.6: dequeue, skip
// protected/already-handled cells, let covers absorb a hit instead of the
// tile beneath clearing, chain into a bomb's footprint without
// double-counting its own cell, then destroy the tile and notify ground.
func (mp *MatchProcessor) clear(g *GameState, queue PositionSlice, protected, cleared PositionSet, reason DestroyReason, collector Collector, stream *Stream) int {
	count := 0
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		if _, done := cleared[cur]; done {
			continue
		}
		if _, prot := protected[cur]; prot {
			continue
		}
		if !g.IsValid(cur) {
			continue
		}

		cov := g.GetCover(cur)
		if cov.Kind != CoverNone {
			cov.Health--
			if cov.Health <= 0 {
				collector.Emit(&CoverDestroyedEvent{base: newBase(g.CurrentTick, g.SimulationTime), Pos: cur, CoverKind_: cov.Kind})
				g.SetCover(cur, Cover{})
			} else {
				g.SetCover(cur, cov)
			}
			cleared[cur] = struct{}{}
			continue
		}

		t := g.GetTile(cur)
		if t.IsEmpty() {
			cleared[cur] = struct{}{}
			continue
		}

		if t.Bomb != BombNone {
			collector.Emit(&BombActivatedEvent{base: newBase(g.CurrentTick, g.SimulationTime), Pos: cur, BombKind_: t.Bomb, ChainReaction: true})
			footprint := mp.powerUp.Footprint(g, cur, t.Bomb, stream)
			for _, fp := range footprint {
				if fp == cur {
					continue // the bomb's own cell is never double-counted
				}
				if _, done := cleared[fp]; !done {
					queue = append(queue, fp)
				}
			}
		}

		collector.Emit(&TileDestroyedEvent{base: newBase(g.CurrentTick, g.SimulationTime), Pos: cur, TileID: t.ID, Color: t.Color, Reason: reason})
		g.ClearTile(cur)
		cleared[cur] = struct{}{}
		count++

		gr := g.GetGround(cur)
		if gr.Kind != GroundNone {
			gr.Health--
			if gr.Health <= 0 {
				collector.Emit(&GroundDestroyedEvent{base: newBase(g.CurrentTick, g.SimulationTime), Pos: cur, GroundKind_: gr.Kind})
				g.SetGround(cur, Ground{})
			} else {
				g.SetGround(cur, gr)
			}
		}
	}
	return count
}
