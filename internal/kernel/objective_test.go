package kernel

import "testing"

func TestObserveBumpsMatchingTileObjective(t *testing.T) {
	g := NewGameState(4, 4, 6, NewSeedManager(1))
	g.Objectives = []Objective{{Layer: ObjectiveTile, ElementType: int(Red), RequiredCount: 3}}
	ot := NewObjectiveTracker()
	collector := &BufferedCollector{}

	ot.Observe(g, &TileDestroyedEvent{Color: Red}, collector)

	if g.Objectives[0].Progress != 1 {
		t.Errorf("expected progress 1, got %d", g.Objectives[0].Progress)
	}
}

func TestObserveIgnoresNonMatchingColor(t *testing.T) {
	g := NewGameState(4, 4, 6, NewSeedManager(1))
	g.Objectives = []Objective{{Layer: ObjectiveTile, ElementType: int(Red), RequiredCount: 3}}
	ot := NewObjectiveTracker()

	ot.Observe(g, &TileDestroyedEvent{Color: Blue}, NullCollector{})

	if g.Objectives[0].Progress != 0 {
		t.Errorf("expected progress to stay 0 for a non-matching color, got %d", g.Objectives[0].Progress)
	}
}

func TestObserveStopsAtRequiredCount(t *testing.T) {
	g := NewGameState(4, 4, 6, NewSeedManager(1))
	g.Objectives = []Objective{{Layer: ObjectiveTile, ElementType: int(Red), RequiredCount: 1, Progress: 1}}
	ot := NewObjectiveTracker()

	ot.Observe(g, &TileDestroyedEvent{Color: Red}, NullCollector{})

	if g.Objectives[0].Progress != 1 {
		t.Errorf("expected a Done objective to never over-progress, got %d", g.Objectives[0].Progress)
	}
}

func TestAllDoneFalseForEmptyObjectiveList(t *testing.T) {
	g := NewGameState(4, 4, 6, NewSeedManager(1))
	ot := NewObjectiveTracker()
	if ot.AllDone(g) {
		t.Error("expected a level with no objectives to never report AllDone")
	}
}

func TestAllDoneTrueWhenEveryObjectiveSatisfied(t *testing.T) {
	g := NewGameState(4, 4, 6, NewSeedManager(1))
	g.Objectives = []Objective{
		{Layer: ObjectiveTile, ElementType: int(Red), RequiredCount: 1, Progress: 1},
		{Layer: ObjectiveTile, ElementType: int(Blue), RequiredCount: 2, Progress: 2},
	}
	ot := NewObjectiveTracker()
	if !ot.AllDone(g) {
		t.Error("expected AllDone to be true once every objective reached its required count")
	}
}

func TestObserveEmitsLevelCompletedOnceLastObjectiveFinishes(t *testing.T) {
	g := NewGameState(4, 4, 6, NewSeedManager(1))
	g.Objectives = []Objective{{Layer: ObjectiveTile, ElementType: int(Red), RequiredCount: 1}}
	ot := NewObjectiveTracker()
	collector := &BufferedCollector{}

	ot.Observe(g, &TileDestroyedEvent{Color: Red}, collector)

	events := collector.Drain()
	found := false
	for _, e := range events {
		if _, ok := e.(*LevelCompletedEvent); ok {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a LevelCompletedEvent once the only objective finishes, got %+v", events)
	}
}
