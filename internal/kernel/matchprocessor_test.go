package kernel

import "testing"

func TestProcessAwardsBaseScorePerCell(t *testing.T) {
	g := NewGameState(4, 4, 6, NewSeedManager(1))
	cells := []Position{{0, 0}, {1, 0}, {2, 0}}
	for _, p := range cells {
		g.SetTile(p, Tile{ID: g.AllocateTileID(), Color: Red})
	}
	pool := NewPoolRegistry()
	mp := NewMatchProcessor(pool, NewPowerUpHandler(pool))
	stream := g.Seeds.Stream(DomainMain)

	result := mp.Process(g, []MatchGroup{{Cells: cells, Shape: ShapePlain, SpawnBomb: BombNone}}, NullCollector{}, stream)

	if result.ScoreGained != 3*scoreBaseTile {
		t.Errorf("expected score gain %d, got %d", 3*scoreBaseTile, result.ScoreGained)
	}
	if result.TilesCleared != 3 {
		t.Errorf("expected 3 tiles cleared, got %d", result.TilesCleared)
	}
	for _, p := range cells {
		if !g.GetTile(p).IsEmpty() {
			t.Errorf("expected cell %+v to be cleared", p)
		}
	}
}

func TestProcessAddsBombBonusAndSpawnsBomb(t *testing.T) {
	g := NewGameState(5, 4, 6, NewSeedManager(1))
	cells := []Position{{0, 0}, {1, 0}, {2, 0}, {3, 0}}
	for _, p := range cells {
		g.SetTile(p, Tile{ID: g.AllocateTileID(), Color: Red})
	}
	origin := Position{1, 0}
	pool := NewPoolRegistry()
	mp := NewMatchProcessor(pool, NewPowerUpHandler(pool))
	stream := g.Seeds.Stream(DomainMain)

	result := mp.Process(g, []MatchGroup{{Cells: cells, Shape: ShapeLine4, SpawnBomb: BombHorizontal, Origin: origin}}, NullCollector{}, stream)

	wantScore := int64(len(cells))*scoreBaseTile + scoreBombBonus
	if result.ScoreGained != wantScore {
		t.Errorf("expected score gain %d, got %d", wantScore, result.ScoreGained)
	}
	if result.BombsCreated != 1 {
		t.Errorf("expected 1 bomb created, got %d", result.BombsCreated)
	}
	if got := g.GetTile(origin); got.Bomb != BombHorizontal {
		t.Errorf("expected the origin cell to hold the spawned bomb, got %+v", got)
	}
	// the origin cell itself must survive — it's protected during clearing.
	if g.GetTile(origin).IsEmpty() {
		t.Error("expected the bomb-spawning origin cell to not be cleared")
	}
}

func TestProcessRainbowSpawnSetsRainbowColor(t *testing.T) {
	g := NewGameState(6, 4, 6, NewSeedManager(1))
	cells := []Position{{0, 0}, {1, 0}, {2, 0}, {3, 0}, {4, 0}}
	for _, p := range cells {
		g.SetTile(p, Tile{ID: g.AllocateTileID(), Color: Red})
	}
	origin := Position{2, 0}
	pool := NewPoolRegistry()
	mp := NewMatchProcessor(pool, NewPowerUpHandler(pool))
	stream := g.Seeds.Stream(DomainMain)

	mp.Process(g, []MatchGroup{{Cells: cells, Shape: ShapeLine5, SpawnBomb: BombRainbow, Origin: origin}}, NullCollector{}, stream)

	got := g.GetTile(origin)
	if got.Color != Rainbow || got.Bomb != BombNone {
		t.Errorf("expected a rainbow spawn to set Color=Rainbow and Bomb=None, got %+v", got)
	}
}

func TestClearCoverAbsorbsHitInsteadOfTile(t *testing.T) {
	g := NewGameState(3, 3, 6, NewSeedManager(1))
	p := Position{1, 1}
	g.SetTile(p, Tile{ID: 1, Color: Red})
	g.SetCover(p, Cover{Kind: CoverCage, Health: 1})
	pool := NewPoolRegistry()
	mp := NewMatchProcessor(pool, NewPowerUpHandler(pool))
	stream := g.Seeds.Stream(DomainMain)

	cleared := mp.ClearCells(g, []Position{p}, DestroyMatch, NullCollector{}, stream)

	if cleared != 0 {
		t.Errorf("expected a covered cell's first hit to clear the cover, not the tile (count=%d)", cleared)
	}
	if g.GetCover(p).Kind != CoverNone {
		t.Error("expected the cover to be destroyed after its health reached 0")
	}
	if g.GetTile(p).IsEmpty() {
		t.Error("expected the tile beneath a destroyed cover to still be present")
	}
}

func TestClearChainTriggersBombFootprintWithoutDoubleCounting(t *testing.T) {
	g := NewGameState(5, 5, 6, NewSeedManager(1))
	bombPos := Position{2, 2}
	g.SetTile(bombPos, Tile{ID: 1, Color: Red, Bomb: BombHorizontal})
	for x := 0; x < 5; x++ {
		if x == bombPos.X {
			continue
		}
		g.SetTile(Position{X: x, Y: 2}, Tile{ID: g.AllocateTileID(), Color: Blue})
	}
	pool := NewPoolRegistry()
	mp := NewMatchProcessor(pool, NewPowerUpHandler(pool))
	stream := g.Seeds.Stream(DomainMain)

	cleared := mp.ClearCells(g, []Position{bombPos}, DestroyMatch, NullCollector{}, stream)

	if cleared != 5 {
		t.Errorf("expected the whole row (5 cells) cleared via the bomb's footprint, got %d", cleared)
	}
	for x := 0; x < 5; x++ {
		if !g.GetTile(Position{X: x, Y: 2}).IsEmpty() {
			t.Errorf("expected cell (%d,2) cleared by the bomb chain", x)
		}
	}
}
