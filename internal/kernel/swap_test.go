package kernel

import "testing"

func TestApplyMoveRejectsOutOfBounds(t *testing.T) {
	g := NewGameState(4, 4, 6, NewSeedManager(1))
	sc := NewSwapController()
	if sc.ApplyMove(g, Position{0, 0}, Position{-1, 0}, NullCollector{}) {
		t.Error("expected ApplyMove to reject an out-of-bounds target")
	}
}

func TestApplyMoveRejectsSecondPendingSwap(t *testing.T) {
	g := NewGameState(4, 4, 6, NewSeedManager(1))
	g.SetTile(Position{0, 0}, Tile{ID: 1, Color: Red})
	g.SetTile(Position{1, 0}, Tile{ID: 2, Color: Blue})
	g.SetTile(Position{2, 0}, Tile{ID: 3, Color: Green})
	sc := NewSwapController()

	if !sc.ApplyMove(g, Position{0, 0}, Position{1, 0}, NullCollector{}) {
		t.Fatal("expected the first ApplyMove to be accepted")
	}
	if sc.ApplyMove(g, Position{1, 0}, Position{2, 0}, NullCollector{}) {
		t.Error("expected a second ApplyMove to be rejected while one is pending")
	}
}

func TestApplyMoveSwapsTilesImmediately(t *testing.T) {
	g := NewGameState(4, 4, 6, NewSeedManager(1))
	g.SetTile(Position{0, 0}, Tile{ID: 1, Color: Red})
	g.SetTile(Position{1, 0}, Tile{ID: 2, Color: Blue})
	sc := NewSwapController()

	sc.ApplyMove(g, Position{0, 0}, Position{1, 0}, NullCollector{})

	if g.GetTile(Position{0, 0}).Color != Blue || g.GetTile(Position{1, 0}).Color != Red {
		t.Error("expected ApplyMove to swap the two tiles' contents eagerly")
	}
}

func TestAdvanceRevertsNonMatchingSwap(t *testing.T) {
	g := NewGameState(4, 4, 6, NewSeedManager(1))
	g.SetTile(Position{0, 0}, Tile{ID: 1, Color: Red})
	g.SetTile(Position{1, 0}, Tile{ID: 2, Color: Blue})
	sc := NewSwapController()
	sc.ApplyMove(g, Position{0, 0}, Position{1, 0}, NullCollector{})

	sc.Advance(g, swapAnimationDuration+0.01, NullCollector{}, nil, nil, nil, nil, nil)

	if g.GetTile(Position{0, 0}).Color != Red || g.GetTile(Position{1, 0}).Color != Blue {
		t.Error("expected a non-matching swap to be reverted back to its original colors")
	}
	if sc.HasPending() {
		t.Error("expected no pending swap after Advance resolves it")
	}
}

func TestAdvanceReturnsFociForMatchingNonBombSwap(t *testing.T) {
	g := NewGameState(6, 6, 6, NewSeedManager(1))
	// Row 0 already has Red at (1,0) and (2,0); swapping (0,0) Blue with the
	// Red at (0,1) makes (0,0) Red and completes a 3-run on row 0.
	g.SetTile(Position{1, 0}, Tile{ID: 1, Color: Red})
	g.SetTile(Position{2, 0}, Tile{ID: 2, Color: Red})
	g.SetTile(Position{0, 0}, Tile{ID: 3, Color: Blue})
	sc := NewSwapController()
	g.SetTile(Position{0, 1}, Tile{ID: 4, Color: Red})

	sc.ApplyMove(g, Position{0, 0}, Position{0, 1}, NullCollector{})
	foci, matched := sc.Advance(g, swapAnimationDuration+0.01, NullCollector{}, nil, nil, nil, nil, nil)

	if !matched {
		t.Fatal("expected the swap to be recognized as a match")
	}
	if foci != [2]Position{{0, 0}, {0, 1}} {
		t.Errorf("expected foci to be the swapped cells, got %+v", foci)
	}
}

func TestAdjacent(t *testing.T) {
	cases := []struct {
		a, b Position
		want bool
	}{
		{Position{0, 0}, Position{1, 0}, true},
		{Position{0, 0}, Position{0, 1}, true},
		{Position{0, 0}, Position{1, 1}, false},
		{Position{0, 0}, Position{2, 0}, false},
		{Position{0, 0}, Position{0, 0}, false},
	}
	for _, c := range cases {
		if got := adjacent(c.a, c.b); got != c.want {
			t.Errorf("adjacent(%+v, %+v) = %v, want %v", c.a, c.b, got, c.want)
		}
	}
}
