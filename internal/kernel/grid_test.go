package kernel

import "testing"

func TestIndexIsRowMajor(t *testing.T) {
	g := NewGameState(5, 3, 6, NewSeedManager(1))
	if got := g.Index(0, 0); got != 0 {
		t.Errorf("Index(0,0) = %d, want 0", got)
	}
	if got := g.Index(4, 0); got != 4 {
		t.Errorf("Index(4,0) = %d, want 4", got)
	}
	if got := g.Index(0, 1); got != 5 {
		t.Errorf("Index(0,1) = %d, want 5", got)
	}
}

func TestIsValidRespectsBounds(t *testing.T) {
	g := NewGameState(4, 4, 6, NewSeedManager(1))
	cases := []struct {
		p     Position
		valid bool
	}{
		{Position{0, 0}, true},
		{Position{3, 3}, true},
		{Position{4, 0}, false},
		{Position{0, 4}, false},
		{Position{-1, 0}, false},
	}
	for _, c := range cases {
		if got := g.IsValid(c.p); got != c.valid {
			t.Errorf("IsValid(%+v) = %v, want %v", c.p, got, c.valid)
		}
	}
}

func TestSetGetTileRoundTrip(t *testing.T) {
	g := NewGameState(3, 3, 6, NewSeedManager(1))
	p := Position{X: 1, Y: 2}
	tile := Tile{ID: g.AllocateTileID(), Color: Red}
	g.SetTile(p, tile)

	got := g.GetTile(p)
	if got.Color != Red || got.ID != tile.ID {
		t.Errorf("GetTile(%+v) = %+v, want %+v", p, got, tile)
	}
	if g.GetTile(Position{0, 0}).IsEmpty() != true {
		t.Error("expected untouched cell to remain Empty")
	}
}

func TestClearTileResetsToEmptySentinel(t *testing.T) {
	g := NewGameState(2, 2, 6, NewSeedManager(1))
	p := Position{X: 0, Y: 0}
	g.SetTile(p, Tile{ID: 5, Color: Blue})
	g.ClearTile(p)

	if got := g.GetTile(p); got != EmptyTile {
		t.Errorf("ClearTile left %+v, want EmptyTile", got)
	}
}

func TestCloneIsIndependent(t *testing.T) {
	g := NewGameState(3, 3, 6, NewSeedManager(1))
	p := Position{X: 1, Y: 1}
	g.SetTile(p, Tile{ID: 1, Color: Green})

	clone := g.Clone(nil)
	clone.SetTile(p, Tile{ID: 2, Color: Purple})

	if g.GetTile(p).Color != Green {
		t.Error("mutating the clone's tile mutated the original")
	}
	if clone.GetTile(p).Color != Purple {
		t.Error("clone did not retain its own mutation")
	}
}

func TestCloneCopiesObjectivesByValue(t *testing.T) {
	g := NewGameState(2, 2, 6, NewSeedManager(1))
	g.Objectives = []Objective{{Layer: ObjectiveTile, ElementType: int(Red), RequiredCount: 3}}

	clone := g.Clone(nil)
	clone.Objectives[0].Progress = 1

	if g.Objectives[0].Progress != 0 {
		t.Error("mutating the clone's Objectives slice mutated the original")
	}
}

func TestSelectedPositionDefaultsToNoSelection(t *testing.T) {
	g := NewGameState(2, 2, 6, NewSeedManager(1))
	if _, has := g.SelectedPosition(); has {
		t.Error("expected a fresh GameState to have no selection")
	}
	g.SetSelectedPosition(Position{1, 1}, true)
	p, has := g.SelectedPosition()
	if !has || p != (Position{1, 1}) {
		t.Errorf("SelectedPosition() = (%+v, %v), want ({1 1}, true)", p, has)
	}
}
