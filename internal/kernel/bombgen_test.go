package kernel

import "testing"

func horizLine(startX, y, n int) []Position {
	cells := make([]Position, n)
	for i := 0; i < n; i++ {
		cells[i] = Position{X: startX + i, Y: y}
	}
	return cells
}

func TestGenerateFourLineSpawnsDirectionalBomb(t *testing.T) {
	bg := NewBombGenerator(NewPoolRegistry())
	region := horizLine(0, 0, 4)
	g := NewGameState(6, 6, 6, NewSeedManager(1))

	groups := bg.Generate(g, region, nil)
	if len(groups) != 1 {
		t.Fatalf("expected 1 group, got %d", len(groups))
	}
	if groups[0].SpawnBomb != BombHorizontal {
		t.Errorf("expected a horizontal 4-line to spawn BombHorizontal, got %v", groups[0].SpawnBomb)
	}
	if len(groups[0].Cells) != 4 {
		t.Errorf("expected all 4 cells covered by the single group, got %d", len(groups[0].Cells))
	}
}

func TestGenerateVerticalFourLineSpawnsVerticalBomb(t *testing.T) {
	bg := NewBombGenerator(NewPoolRegistry())
	region := []Position{{0, 0}, {0, 1}, {0, 2}, {0, 3}}
	g := NewGameState(6, 6, 6, NewSeedManager(1))

	groups := bg.Generate(g, region, nil)
	if len(groups) != 1 || groups[0].SpawnBomb != BombVertical {
		t.Fatalf("expected a single BombVertical group, got %+v", groups)
	}
}

func TestGenerateTShapeSpawnsSquareBomb(t *testing.T) {
	bg := NewBombGenerator(NewPoolRegistry())
	// A T: horizontal run y=1 x=0..2, vertical run x=1 y=0..2, sharing (1,1).
	region := []Position{{0, 1}, {1, 1}, {2, 1}, {1, 0}, {1, 2}}
	g := NewGameState(6, 6, 6, NewSeedManager(1))

	groups := bg.Generate(g, region, nil)
	foundSquare := false
	covered := 0
	for _, grp := range groups {
		if grp.SpawnBomb == BombSquare {
			foundSquare = true
		}
		covered += len(grp.Cells)
	}
	if !foundSquare {
		t.Errorf("expected a T-shaped region to spawn a BombSquare group, got %+v", groups)
	}
	if covered != len(region) {
		t.Errorf("expected every region cell covered exactly once, got %d of %d", covered, len(region))
	}
}

func TestGenerateScrapAbsorbedIntoAdjacentGroup(t *testing.T) {
	bg := NewBombGenerator(NewPoolRegistry())
	// A 4-line plus one extra cell hanging off the end — not its own
	// 3-run, so it must be absorbed rather than forming a second group.
	region := append(horizLine(0, 0, 4), Position{X: 0, Y: 1})
	g := NewGameState(6, 6, 6, NewSeedManager(1))

	groups := bg.Generate(g, region, nil)
	if len(groups) != 1 {
		t.Fatalf("expected scrap to be absorbed into the single bomb group, got %d groups: %+v", len(groups), groups)
	}
	if len(groups[0].Cells) != 5 {
		t.Errorf("expected all 5 cells in the absorbed group, got %d", len(groups[0].Cells))
	}
}

func TestGenerateOriginPrefersFocusCell(t *testing.T) {
	bg := NewBombGenerator(NewPoolRegistry())
	region := horizLine(0, 0, 4)
	foci := []Position{{X: 2, Y: 0}}
	g := NewGameState(6, 6, 6, NewSeedManager(1))

	groups := bg.Generate(g, region, foci)
	if len(groups) != 1 {
		t.Fatalf("expected 1 group, got %d", len(groups))
	}
	if groups[0].Origin != foci[0] {
		t.Errorf("expected bomb origin to prefer the focus cell %+v, got %+v", foci[0], groups[0].Origin)
	}
}

func TestGeneratePlainThreeHasNoOrigin(t *testing.T) {
	bg := NewBombGenerator(NewPoolRegistry())
	region := horizLine(0, 0, 3)
	g := NewGameState(6, 6, 6, NewSeedManager(1))

	groups := bg.Generate(g, region, nil)
	if len(groups) != 1 || groups[0].SpawnBomb != BombNone {
		t.Fatalf("expected a plain-3 region to spawn no bomb, got %+v", groups)
	}
	if groups[0].Origin != (Position{}) {
		t.Errorf("expected no origin set for a non-bomb group, got %+v", groups[0].Origin)
	}
}
