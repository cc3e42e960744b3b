package kernel

// ObjectiveTracker counts destructions against a level's goal list and
// emits progress/completion events (spec.md §2, §6). It is a pure
// event-consuming visitor: every other subsystem keeps emitting through the
// same collector it always did, and the orchestrator also feeds each tick's
// events to the tracker once they've been collected.
type ObjectiveTracker struct{}

// NewObjectiveTracker builds an ObjectiveTracker. It holds no state of its
// own — progress lives on GameState.Objectives so it survives Clone.
func NewObjectiveTracker() *ObjectiveTracker { return &ObjectiveTracker{} }

// Observe applies one event's effect on g.Objectives, emitting
// ObjectiveProgressEvent for each objective it advances and
// LevelCompletedEvent once every objective is done. Call this once per
// event a tick produced, in emission order.
func (ot *ObjectiveTracker) Observe(g *GameState, e Event, collector Collector) {
	switch ev := e.(type) {
	case *TileDestroyedEvent:
		ot.bump(g, ObjectiveTile, int(ev.Color), collector)
	case *CoverDestroyedEvent:
		ot.bump(g, ObjectiveCover, int(ev.CoverKind_), collector)
	case *GroundDestroyedEvent:
		ot.bump(g, ObjectiveGround, int(ev.GroundKind_), collector)
	}
}

func (ot *ObjectiveTracker) bump(g *GameState, layer ObjectiveLayer, elementType int, collector Collector) {
	anyProgressed := false
	for i := range g.Objectives {
		obj := &g.Objectives[i]
		if obj.Layer != layer || obj.ElementType != elementType || obj.Done() {
			continue
		}
		obj.Progress++
		anyProgressed = true
		collector.Emit(&ObjectiveProgressEvent{
			base:     newBase(g.CurrentTick, g.SimulationTime),
			Index:    i,
			Progress: obj.Progress,
			Required: obj.RequiredCount,
		})
	}
	if anyProgressed && ot.AllDone(g) {
		collector.Emit(&LevelCompletedEvent{base: newBase(g.CurrentTick, g.SimulationTime)})
	}
}

// AllDone reports whether every objective has reached its required count.
// A level with no objectives is never "complete" by this check — the
// orchestrator simply never fires LevelCompletedEvent for it.
func (ot *ObjectiveTracker) AllDone(g *GameState) bool {
	if len(g.Objectives) == 0 {
		return false
	}
	for _, obj := range g.Objectives {
		if !obj.Done() {
			return false
		}
	}
	return true
}
