package kernel

import "testing"

func TestNewSessionRejectsBadDimensions(t *testing.T) {
	_, err := NewSession(SessionConfig{Width: 0, Height: 8, TileTypesCount: 6})
	if err == nil {
		t.Fatal("expected ConfigError for zero width")
	}
	if _, ok := err.(*ConfigError); !ok {
		t.Fatalf("expected *ConfigError, got %T", err)
	}
}

func TestNewSessionRejectsZeroTileTypes(t *testing.T) {
	_, err := NewSession(SessionConfig{Width: 8, Height: 8, TileTypesCount: 0})
	if err == nil {
		t.Fatal("expected ConfigError for zero tile-type count")
	}
}

func TestNewSessionRejectsMismatchedLevelGrid(t *testing.T) {
	_, err := NewSession(SessionConfig{
		Width: 4, Height: 4, TileTypesCount: 6,
		Level: &LevelConfig{Grid: make([]Color, 3)},
	})
	if err == nil {
		t.Fatal("expected ConfigError for a Grid whose length does not match Width*Height")
	}
}

func TestNewSessionAcceptsEmptyGridWithObjectivesOnly(t *testing.T) {
	_, err := NewSession(SessionConfig{
		Width: 8, Height: 8, TileTypesCount: 6,
		Level: &LevelConfig{
			Objectives: []Objective{{Layer: ObjectiveTile, ElementType: int(Red), RequiredCount: 15}},
		},
	})
	if err != nil {
		t.Fatalf("expected a Level with a nil Grid but set Objectives to be accepted, got %v", err)
	}
}

func testGrid(w, h int) []Color {
	grid := make([]Color, w*h)
	for i := range grid {
		grid[i] = BaseColors[i%len(BaseColors)]
	}
	return grid
}

func TestApplyMoveRejectsNonAdjacentCells(t *testing.T) {
	sess, err := NewSession(SessionConfig{
		Width: 6, Height: 6, TileTypesCount: 6,
		Level: &LevelConfig{Grid: testGrid(6, 6)},
	})
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	if ok := sess.ApplyMove(Position{0, 0}, Position{5, 5}); ok {
		t.Fatal("expected ApplyMove to reject a non-adjacent swap")
	}
	if sess.failedAttempts != 1 {
		t.Errorf("expected failedAttempts to increment on rejection, got %d", sess.failedAttempts)
	}
}

func TestTickAdvancesSimulationClock(t *testing.T) {
	sess, err := NewSession(SessionConfig{
		Width: 6, Height: 6, TileTypesCount: 6,
		Level: &LevelConfig{Grid: testGrid(6, 6)},
	})
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	dt := sess.sim.FixedDeltaTime
	tr := sess.Tick(dt)
	if tr.Tick != 1 {
		t.Errorf("expected tick counter to advance to 1, got %d", tr.Tick)
	}
	if sess.State().SimulationTime != dt {
		t.Errorf("expected SimulationTime %v, got %v", dt, sess.State().SimulationTime)
	}
}

func TestPausedTickDoesNotAdvance(t *testing.T) {
	sess, err := NewSession(SessionConfig{
		Width: 6, Height: 6, TileTypesCount: 6,
		Level: &LevelConfig{Grid: testGrid(6, 6)},
	})
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	sess.SetPaused(true)
	sess.Tick(sess.sim.FixedDeltaTime)
	if sess.State().CurrentTick != 0 {
		t.Errorf("expected a paused Tick to leave CurrentTick at 0, got %d", sess.State().CurrentTick)
	}
}

func TestRunUntilStableReachesStability(t *testing.T) {
	sess, err := NewSession(SessionConfig{
		Width: 6, Height: 6, TileTypesCount: 6,
		Simulation: DefaultSimulationConfig(),
		Level:      &LevelConfig{Grid: testGrid(6, 6)},
	})
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	result := sess.RunUntilStable()
	if !result.ReachedStability {
		t.Fatal("expected RunUntilStable to reach stability within MaxTicksPerRun")
	}
}

func TestCloneProducesIndependentState(t *testing.T) {
	sess, err := NewSession(SessionConfig{
		Width: 6, Height: 6, TileTypesCount: 6,
		Level: &LevelConfig{Grid: testGrid(6, 6)},
	})
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	clone := sess.Clone(nil)
	clone.State().Score = 999

	if sess.State().Score == 999 {
		t.Fatal("mutating the clone's score mutated the original session")
	}
}

func TestEventsNilWhenCollectionDisabled(t *testing.T) {
	sess, err := NewSession(SessionConfig{
		Width: 4, Height: 4, TileTypesCount: 6,
		Level: &LevelConfig{Grid: testGrid(4, 4)},
	})
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	sess.Tick(sess.sim.FixedDeltaTime)
	if events := sess.Events(); events != nil {
		t.Errorf("expected nil Events() when EnableEventCollection is false, got %d events", len(events))
	}
}

func TestEventsDrainsWhenCollectionEnabled(t *testing.T) {
	sess, err := NewSession(SessionConfig{
		Width: 4, Height: 4, TileTypesCount: 6,
		EnableEventCollection: true,
		Level:                 &LevelConfig{Grid: testGrid(4, 4)},
	})
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	sess.Tick(sess.sim.FixedDeltaTime)
	_ = sess.Events()
	if got := sess.Events(); len(got) != 0 {
		t.Errorf("expected Events() to drain the buffer, %d events remained", len(got))
	}
}
