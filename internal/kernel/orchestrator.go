package kernel

// objectiveFeed forwards every emitted event to the real collector, then
// lets the objective tracker observe it — a decorator rather than a special
// case threaded through every subsystem call (spec.md §9 "mutable
// event-collector shared by many subsystems... pass the collector by
// borrow into each phase").
type objectiveFeed struct {
	inner   Collector
	g       *GameState
	tracker *ObjectiveTracker
}

func (f objectiveFeed) Emit(e Event) {
	f.inner.Emit(e)
	f.tracker.Observe(f.g, e, f.inner)
}

func (f objectiveFeed) IsEnabled() bool { return f.inner.IsEnabled() }

// TickResult reports what one Tick call observed (spec.md §4.13).
type TickResult struct {
	Tick                 int
	ElapsedTime          float64
	IsStable             bool
	HasActiveProjectiles bool
	HasFallingTiles      bool
	HasPendingMatches    bool
	DeltaTime            float64
	BoardShuffled        bool
}

// SimulationResult aggregates everything RunUntilStable observed across
// however many ticks it ran (spec.md §4.13).
type SimulationResult struct {
	TilesCleared     int
	MatchesProcessed int
	BombsActivated   int
	MaxCascadeDepth  int
	ScoreGained      int64
	ReachedStability bool
}

// Orchestrator composes every subsystem and drives the tick loop (spec.md
// §4.13). It holds no GameState of its own — every call takes one as an
// argument — so a single Orchestrator can drive any number of sessions
// sequentially, though in practice Session pairs one with one GameState.
type Orchestrator struct {
	pool        *PoolRegistry
	matchFinder *MatchFinder
	matchProc   *MatchProcessor
	physics     *Physics
	explosions  *ExplosionSystem
	projectiles *ProjectileSystem
	swaps       *SwapController
	spawn       *SpawnModel
	powerUp     *PowerUpHandler
	objectives  *ObjectiveTracker
	deadlock    *DeadlockChecker

	foci    [2]Position
	hasFoci bool
}

// NewOrchestrator builds an Orchestrator and every subsystem it composes,
// sharing one PoolRegistry across all of them (spec.md §9 "one pool
// registry keyed by structural kind").
func NewOrchestrator() *Orchestrator {
	pool := NewPoolRegistry()
	powerUp := NewPowerUpHandler(pool)
	return &Orchestrator{
		pool:        pool,
		matchFinder: NewMatchFinder(pool),
		matchProc:   NewMatchProcessor(pool, powerUp),
		physics:     NewPhysics(pool),
		explosions:  NewExplosionSystem(pool),
		projectiles: NewProjectileSystem(pool),
		swaps:       NewSwapController(),
		spawn:       NewSpawnModel(),
		powerUp:     powerUp,
		objectives:  NewObjectiveTracker(),
		deadlock:    NewDeadlockChecker(),
	}
}

// ApplyMove stages from/to as a pending swap (spec.md §6).
func (o *Orchestrator) ApplyMove(g *GameState, from, to Position, collector Collector) bool {
	return o.swaps.ApplyMove(g, from, to, collector)
}

// ActivateBomb manually detonates the bomb at p (spec.md §6
// activateBomb). chainReaction is false for a direct player activation.
func (o *Orchestrator) ActivateBomb(g *GameState, p Position, collector Collector) bool {
	return o.activateBomb(g, p, false, collector)
}

func (o *Orchestrator) activateBomb(g *GameState, p Position, chainReaction bool, collector Collector) bool {
	t := g.GetTile(p)
	if t.IsEmpty() {
		return false
	}
	kind := t.Bomb
	if t.Color == Rainbow {
		kind = BombRainbow
	}
	if kind == BombNone {
		return false
	}

	stream := g.Seeds.Stream(DomainMain)
	footprint := o.powerUp.Footprint(g, p, kind, stream)
	collector.Emit(&BombActivatedEvent{base: newBase(g.CurrentTick, g.SimulationTime), Pos: p, BombKind_: kind, ChainReaction: chainReaction})
	o.explosions.Trigger(g, p, kind, footprint)
	return true
}

// HandleTap implements spec.md §6 handleTap: activate a bomb tapped
// directly, else toggle tap-selection and attempt a swap with an already
// selected neighbor.
func (o *Orchestrator) HandleTap(g *GameState, p Position, collector Collector) bool {
	if !g.IsValid(p) {
		return false
	}
	t := g.GetTile(p)
	if t.IsEmpty() {
		return false
	}
	if t.Bomb != BombNone || t.Color == Rainbow {
		return o.activateBomb(g, p, false, collector)
	}

	sel, has := g.SelectedPosition()
	switch {
	case !has:
		g.SetSelectedPosition(p, true)
		return true
	case sel == p:
		g.SetSelectedPosition(Position{}, false)
		return true
	case !adjacent(sel, p):
		g.SetSelectedPosition(p, true)
		return true
	default:
		g.SetSelectedPosition(Position{}, false)
		return o.ApplyMove(g, sel, p, collector)
	}
}

// Tick runs one simulation step in the phase order spec.md §4.13 specifies.
func (o *Orchestrator) Tick(g *GameState, dt float64, ctx SpawnContext, collector Collector) TickResult {
	var discarded SimulationResult
	return o.tickWithCounters(g, dt, ctx, collector, &discarded)
}

// RunUntilStable repeatedly ticks g with a null collector (so AI rollouts
// pay no event-allocation cost) until it reports stable or maxTicks is
// reached, then returns aggregate counters (spec.md §4.13, §5
// "Cancellation / timeout").
func (o *Orchestrator) RunUntilStable(g *GameState, dt float64, ctx SpawnContext, maxTicks int) SimulationResult {
	var result SimulationResult
	null := NullCollector{}

	for i := 0; i < maxTicks; i++ {
		before := g.Score
		tr := o.tickWithCounters(g, dt, ctx, null, &result)
		result.ScoreGained += g.Score - before
		if tr.IsStable {
			result.ReachedStability = true
			return result
		}
	}
	return result
}

// tickWithCounters runs one tick while accumulating SimulationResult's
// per-tick counters that Tick itself does not track (tiles cleared, bombs
// activated, cascade depth). Tick calls it with a discarded accumulator, so
// single-tick callers run the same bookkeeping and drop the counters.
func (o *Orchestrator) tickWithCounters(g *GameState, dt float64, ctx SpawnContext, rawCollector Collector, result *SimulationResult) TickResult {
	mainStream := g.Seeds.Stream(DomainMain)
	collector := Collector(objectiveFeed{inner: rawCollector, g: g, tracker: o.objectives})

	if foci, ok := o.swaps.Advance(g, dt, collector, o.powerUp, o.matchProc, o.explosions, o.projectiles, mainStream); ok {
		o.foci = foci
		o.hasFoci = true
	}

	o.physics.Refill(g, o.spawn, ctx, collector)

	if impacted := o.projectiles.Step(g, dt, mainStream, collector); len(impacted) > 0 {
		result.TilesCleared += o.matchProc.ClearCells(g, impacted, DestroyProjectile, collector, mainStream)
	}

	cascadeDepth := 0
	for _, chainPos := range o.explosions.Step(g, dt, collector) {
		if o.activateBomb(g, chainPos, true, collector) {
			result.BombsActivated++
			cascadeDepth++
		}
	}
	if cascadeDepth > result.MaxCascadeDepth {
		result.MaxCascadeDepth = cascadeDepth
	}

	hasFalling := o.physics.Step(g, dt, collector)

	hasPendingMatches := false
	if !o.swaps.HasPending() {
		var foci []Position
		if o.hasFoci {
			foci = []Position{o.foci[0], o.foci[1]}
			o.hasFoci = false
		}
		groups := o.matchFinder.FindMatches(g, foci)
		if len(groups) > 0 {
			pr := o.matchProc.Process(g, groups, collector, mainStream)
			result.TilesCleared += pr.TilesCleared
			result.BombsActivated += pr.BombsCreated
			result.MatchesProcessed += len(groups)
			hasPendingMatches = true
		}
	}

	g.CurrentTick++
	g.SimulationTime += dt

	isStable := !hasFalling && !hasPendingMatches && !o.swaps.HasPending() &&
		!o.projectiles.Active() && !o.explosions.Active()

	shuffled := false
	if isStable && !o.deadlock.HasMove(g) {
		collector.Emit(&DeadlockDetectedEvent{base: newBase(g.CurrentTick, g.SimulationTime)})
		o.deadlock.Shuffle(g, mainStream, collector)
		shuffled = true
	}

	return TickResult{
		Tick:                 g.CurrentTick,
		ElapsedTime:          g.SimulationTime,
		IsStable:             isStable,
		HasActiveProjectiles: o.projectiles.Active(),
		HasFallingTiles:      hasFalling,
		HasPendingMatches:    hasPendingMatches,
		DeltaTime:            dt,
		BoardShuffled:        shuffled,
	}
}
