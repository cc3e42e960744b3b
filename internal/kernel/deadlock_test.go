package kernel

import "testing"

func TestHasMoveTrueWhenAdjacentSwapCreatesMatch(t *testing.T) {
	// Row 0 is Red Red Blue, row 1 is Blue Blue Red: swapping (2,0) Blue
	// with the Red below it completes Red Red Red on row 0.
	g := NewGameState(3, 2, 6, NewSeedManager(1))
	g.SetTile(Position{0, 0}, Tile{ID: 1, Color: Red})
	g.SetTile(Position{1, 0}, Tile{ID: 2, Color: Red})
	g.SetTile(Position{2, 0}, Tile{ID: 5, Color: Blue})
	g.SetTile(Position{0, 1}, Tile{ID: 3, Color: Blue})
	g.SetTile(Position{1, 1}, Tile{ID: 4, Color: Blue})
	g.SetTile(Position{2, 1}, Tile{ID: 6, Color: Red})
	dc := NewDeadlockChecker()

	if !dc.HasMove(g) {
		t.Fatal("expected swapping (2,0) and (2,1) to complete a 3-run and register as a legal move")
	}
}

func TestHasMoveFalseOnFullyLockedBoard(t *testing.T) {
	g := NewGameState(2, 2, 6, NewSeedManager(1))
	g.SetTile(Position{0, 0}, Tile{ID: 1, Color: Red})
	g.SetTile(Position{1, 0}, Tile{ID: 2, Color: Blue})
	g.SetTile(Position{0, 1}, Tile{ID: 3, Color: Blue})
	g.SetTile(Position{1, 1}, Tile{ID: 4, Color: Red})
	dc := NewDeadlockChecker()

	if dc.HasMove(g) {
		t.Error("expected a 2x2 checkerboard to have no move that creates a 3-run")
	}
}

func TestHasMoveRestoresBoardAfterTrialSwaps(t *testing.T) {
	g := NewGameState(2, 2, 6, NewSeedManager(1))
	g.SetTile(Position{0, 0}, Tile{ID: 1, Color: Red})
	g.SetTile(Position{1, 0}, Tile{ID: 2, Color: Blue})
	g.SetTile(Position{0, 1}, Tile{ID: 3, Color: Blue})
	g.SetTile(Position{1, 1}, Tile{ID: 4, Color: Red})
	dc := NewDeadlockChecker()

	dc.HasMove(g)

	if g.GetTile(Position{0, 0}).Color != Red || g.GetTile(Position{1, 1}).Color != Red {
		t.Error("expected HasMove's trial swaps to leave the board unchanged afterward")
	}
}

func TestShuffleEmitsExactlyOneBoardShuffledEvent(t *testing.T) {
	g := NewGameState(4, 4, 3, NewSeedManager(1))
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			c := BaseColors[(x+y)%3]
			g.SetTile(Position{X: x, Y: y}, Tile{ID: g.AllocateTileID(), Color: c})
		}
	}
	dc := NewDeadlockChecker()
	collector := &BufferedCollector{}
	stream := g.Seeds.Stream(DomainMain)

	dc.Shuffle(g, stream, collector)

	events := collector.Drain()
	count := 0
	for _, e := range events {
		if _, ok := e.(*BoardShuffledEvent); ok {
			count++
		}
	}
	if count != 1 {
		t.Errorf("expected exactly 1 BoardShuffledEvent, got %d (of %d total events)", count, len(events))
	}
}

func TestShufflePreservesPositionsAndBombs(t *testing.T) {
	g := NewGameState(4, 4, 3, NewSeedManager(1))
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			c := BaseColors[(x+y)%3]
			g.SetTile(Position{X: x, Y: y}, Tile{ID: g.AllocateTileID(), Color: c, Bomb: BombNone})
		}
	}
	g.SetTile(Position{0, 0}, Tile{ID: 99, Color: Red, Bomb: BombHorizontal})
	dc := NewDeadlockChecker()
	stream := g.Seeds.Stream(DomainMain)

	dc.Shuffle(g, stream, NullCollector{})

	if got := g.GetTile(Position{0, 0}); got.Bomb != BombHorizontal {
		t.Error("expected Shuffle to leave a bomb's kind in place, only colors redistribute")
	}
}
