package replay

import (
	"path/filepath"
	"testing"

	"github.com/amalg/match3-kernel/internal/kernel"
)

func testSessionConfig() kernel.SessionConfig {
	grid := make([]kernel.Color, 8*8)
	for i := range grid {
		grid[i] = kernel.BaseColors[i%len(kernel.BaseColors)]
	}
	return kernel.SessionConfig{
		Width:          8,
		Height:         8,
		TileTypesCount: 6,
		RNGSeed:        42,
		Simulation:     kernel.DefaultSimulationConfig(),
		Level:          &kernel.LevelConfig{Grid: grid, MoveLimit: 20},
	}
}

func TestNewStampsSessionID(t *testing.T) {
	r := New(testSessionConfig())
	if r.SessionID == "" {
		t.Fatal("expected a non-empty SessionID")
	}
	r2 := New(testSessionConfig())
	if r.SessionID == r2.SessionID {
		t.Fatal("expected two New() calls to produce distinct SessionIDs")
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	cfg := testSessionConfig()
	r := New(cfg)
	r.RecordMove(0, kernel.Position{X: 0, Y: 0}, kernel.Position{X: 1, Y: 0})
	r.RecordTap(5, kernel.Position{X: 2, Y: 2})

	path := filepath.Join(t.TempDir(), "replay.yaml")
	if err := r.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.SessionID != r.SessionID {
		t.Errorf("SessionID mismatch: got %q, want %q", loaded.SessionID, r.SessionID)
	}
	if loaded.RNGSeed != r.RNGSeed {
		t.Errorf("RNGSeed mismatch: got %d, want %d", loaded.RNGSeed, r.RNGSeed)
	}
	if len(loaded.Inputs) != 2 {
		t.Fatalf("expected 2 inputs, got %d", len(loaded.Inputs))
	}
	if loaded.Inputs[0].Kind != ActionMove || loaded.Inputs[1].Kind != ActionTap {
		t.Errorf("input kinds did not round-trip: %+v", loaded.Inputs)
	}
}

func TestApplyReplaysDeterministically(t *testing.T) {
	cfg := testSessionConfig()
	r := New(cfg)
	r.RecordMove(0, kernel.Position{X: 0, Y: 0}, kernel.Position{X: 1, Y: 0})

	sessA, err := kernel.NewSession(r.SessionConfig())
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	sessB, err := kernel.NewSession(r.SessionConfig())
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}

	dt := cfg.Simulation.FixedDeltaTime
	if err := r.Apply(sessA, dt); err != nil {
		t.Fatalf("Apply sessA: %v", err)
	}
	if err := r.Apply(sessB, dt); err != nil {
		t.Fatalf("Apply sessB: %v", err)
	}
	for i := 0; i < 30; i++ {
		sessA.Tick(dt)
		sessB.Tick(dt)
	}

	stA, stB := sessA.State(), sessB.State()
	if stA.Score != stB.Score {
		t.Errorf("score diverged: %d vs %d", stA.Score, stB.Score)
	}
	for y := 0; y < stA.Height; y++ {
		for x := 0; x < stA.Width; x++ {
			p := kernel.Position{X: x, Y: y}
			ta, tb := stA.GetTile(p), stB.GetTile(p)
			if ta.Color != tb.Color || ta.Bomb != tb.Bomb {
				t.Fatalf("tile at (%d,%d) diverged: %+v vs %+v", x, y, ta, tb)
			}
		}
	}
}
