package kernel

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// SimulationConfig tunes the tick loop itself, independent of any one level
// (spec.md §6 "simulationConfig").
type SimulationConfig struct {
	FixedDeltaTime float64
	MaxTicksPerRun int
}

// DefaultSimulationConfig matches the 60Hz tick rate spec.md §4.13 assumes
// for its worked examples, with a generous ceiling on RunUntilStable so a
// pathological level can't spin forever inside one call.
func DefaultSimulationConfig() SimulationConfig {
	return SimulationConfig{FixedDeltaTime: 1.0 / 60.0, MaxTicksPerRun: 6000}
}

// LevelConfig describes a level's starting board and goal list — everything
// a host would otherwise load from a file, handed in already parsed since
// the kernel performs no I/O (spec.md Non-goals).
type LevelConfig struct {
	// Grid is the starting color of every cell, row-major. A non-empty Grid
	// must have length Width*Height; ColorNone leaves a cell Empty. A nil or
	// empty Grid starts every cell Empty while still applying Covers,
	// Grounds, MoveLimit, TargetDifficulty and Objectives below — useful for
	// a level that wants to fill the board only via Refill/Tick.
	Grid []Color
	// Bombs, Covers and Grounds are optional parallel layers; a nil or
	// short slice leaves the remaining cells at their zero kind.
	Bombs        []BombKind
	Covers       []CoverKind
	CoverHealth  []int
	Grounds      []GroundKind
	GroundHealth []int

	MoveLimit        int
	TargetDifficulty float64
	Objectives       []Objective
}

// SessionConfig is everything NewSession needs to build a playable session
// (spec.md §6 "sessionConfig").
type SessionConfig struct {
	Width, Height  int
	TileTypesCount int
	RNGSeed        int32

	Simulation            SimulationConfig
	EnableEventCollection bool

	// Level is optional; a nil Level starts every cell Empty, which is
	// valid (a host that wants to fill the board only via Refill/Tick
	// can start from here).
	Level *LevelConfig

	// MetricsRegisterer, if non-nil, enables Prometheus instrumentation
	// registered against it (e.g. prometheus.NewRegistry() for an
	// isolated per-session registry). Left nil, Session.metrics stays nil
	// and every ObserveX call below is a no-op.
	MetricsRegisterer prometheus.Registerer
}

// Session bundles a GameState with the Orchestrator and SeedManager that
// drive it, and is the surface a host actually talks to (spec.md §6). It
// owns exactly one GameState; branching for AI search goes through Clone.
type Session struct {
	state        *GameState
	orchestrator *Orchestrator
	collector    Collector
	sim          SimulationConfig
	paused       bool
	metrics      *MetricsRecorder

	failedAttempts int
}

// NewSession validates cfg and builds a Session. The only failure mode is
// ConfigError, and only for the cases spec.md §6 names: non-positive board
// dimensions, a zero tile-type count, or a LevelConfig whose Grid length
// doesn't match Width*Height.
func NewSession(cfg SessionConfig) (*Session, error) {
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, configErrorf("width/height", "board dimensions must be positive, got %dx%d", cfg.Width, cfg.Height)
	}
	if cfg.TileTypesCount <= 0 {
		return nil, configErrorf("tileTypesCount", "must be at least 1, got %d", cfg.TileTypesCount)
	}
	if cfg.Level != nil && len(cfg.Level.Grid) != 0 && len(cfg.Level.Grid) != cfg.Width*cfg.Height {
		return nil, configErrorf("level.grid", "length %d does not match board size %d", len(cfg.Level.Grid), cfg.Width*cfg.Height)
	}

	sim := cfg.Simulation
	if sim.FixedDeltaTime <= 0 {
		sim = DefaultSimulationConfig()
	}

	state := NewGameState(cfg.Width, cfg.Height, cfg.TileTypesCount, NewSeedManager(cfg.RNGSeed))
	if cfg.Level != nil {
		applyLevelConfig(state, cfg.Level)
	}

	var collector Collector = NullCollector{}
	if cfg.EnableEventCollection {
		collector = NewBufferedCollector()
	}

	var metrics *MetricsRecorder
	if cfg.MetricsRegisterer != nil {
		metrics = NewMetricsRecorder(cfg.MetricsRegisterer)
	}

	return &Session{
		state:        state,
		orchestrator: NewOrchestrator(),
		collector:    collector,
		sim:          sim,
		metrics:      metrics,
	}, nil
}

func applyLevelConfig(g *GameState, lvl *LevelConfig) {
	for i, color := range lvl.Grid {
		if color == ColorNone {
			continue
		}
		p := Position{X: i % g.Width, Y: i / g.Width}
		t := Tile{ID: g.AllocateTileID(), Color: color, Pos: Vec2{X: float64(p.X), Y: float64(p.Y)}}
		if i < len(lvl.Bombs) {
			t.Bomb = lvl.Bombs[i]
		}
		g.SetTile(p, t)
	}
	for i, ck := range lvl.Covers {
		if ck == CoverNone {
			continue
		}
		health := 1
		if i < len(lvl.CoverHealth) && lvl.CoverHealth[i] > 0 {
			health = lvl.CoverHealth[i]
		}
		g.SetCover(Position{X: i % g.Width, Y: i / g.Width}, Cover{Kind: ck, Health: health})
	}
	for i, gk := range lvl.Grounds {
		if gk == GroundNone {
			continue
		}
		health := 1
		if i < len(lvl.GroundHealth) && lvl.GroundHealth[i] > 0 {
			health = lvl.GroundHealth[i]
		}
		g.SetGround(Position{X: i % g.Width, Y: i / g.Width}, Ground{Kind: gk, Health: health})
	}

	g.MoveLimit = lvl.MoveLimit
	g.TargetDifficulty = lvl.TargetDifficulty
	g.Objectives = append([]Objective(nil), lvl.Objectives...)
}

// State exposes the live GameState for read access (rendering, persistence,
// inspection in tests). Callers must not mutate it outside the methods
// Session and the kernel package provide.
func (s *Session) State() *GameState { return s.state }

// ApplyMove stages a swap attempt (spec.md §6 applyMove). Failed attempts
// (rejected by SwapController — out of bounds, non-adjacent, already a swap
// pending) count toward FailedAttempts driving SpawnModel's Help strategy;
// any accepted attempt resets the counter, whether or not it ultimately
// matches, since the player did make a legal move (spec.md §9 open question:
// the source does not say whether "failed attempt" means rejected input or a
// reverted swap — this picks rejected input, since a reverted swap is
// already visible to the player as TilesSwappedEvent{IsRevert:true} and
// double-counting it felt wrong).
func (s *Session) ApplyMove(from, to Position) bool {
	ok := s.orchestrator.ApplyMove(s.state, from, to, s.collector)
	if ok {
		s.state.MoveCount++
		s.failedAttempts = 0
	} else {
		s.failedAttempts++
	}
	return ok
}

// ActivateBomb manually detonates the bomb at p (spec.md §6 activateBomb).
func (s *Session) ActivateBomb(p Position) bool {
	return s.orchestrator.ActivateBomb(s.state, p, s.collector)
}

// HandleTap implements tap-to-select/tap-to-swap input (spec.md §6
// handleTap).
func (s *Session) HandleTap(p Position) bool {
	return s.orchestrator.HandleTap(s.state, p, s.collector)
}

// SetPaused stops or resumes Tick from advancing the simulation (spec.md §6
// setPaused). A paused Tick call still returns a TickResult, reporting
// IsBoardAtRest for the current board rather than silently doing nothing.
func (s *Session) SetPaused(paused bool) { s.paused = paused }

// Paused reports the current pause state.
func (s *Session) Paused() bool { return s.paused }

// SetSelectedPosition sets the tap-selection cursor directly (spec.md §6
// setSelectedPosition), for a host that drives selection via e.g. keyboard
// focus instead of HandleTap's toggle logic.
func (s *Session) SetSelectedPosition(p Position, has bool) {
	s.state.SetSelectedPosition(p, has)
}

// Tick advances the simulation by dt (spec.md §6 tick, §4.13). A no-op while
// paused, returning IsBoardAtRest for the current board as its stability;
// that check covers tile motion only, not pending swaps, projectiles or
// explosions.
func (s *Session) Tick(dt float64) TickResult {
	if s.paused {
		return TickResult{Tick: s.state.CurrentTick, ElapsedTime: s.state.SimulationTime, IsStable: IsBoardAtRest(s.state)}
	}

	start := time.Now()
	tr := s.orchestrator.Tick(s.state, dt, s.buildSpawnContext(), s.collector)
	s.metrics.ObserveTick(time.Since(start), tr)
	if tr.BoardShuffled {
		s.metrics.ObserveDeadlock()
	}
	return tr
}

// RunUntilStable ticks the session at its configured fixed delta until it
// reports stable or MaxTicksPerRun elapses (spec.md §6 runUntilStable, §5
// "Cancellation / timeout"). Events are discarded for the duration — this is
// meant for AI lookahead, not for driving a live, observed session.
func (s *Session) RunUntilStable() SimulationResult {
	sr := s.orchestrator.RunUntilStable(s.state, s.sim.FixedDeltaTime, s.buildSpawnContext(), s.sim.MaxTicksPerRun)
	s.metrics.ObserveSimulationResult(sr)
	return sr
}

// Clone deep-copies the session for AI branching (spec.md §6 clone, §9). The
// clone always runs with a NullCollector — a rollout that wants its own
// events enabled should build its own Session around the cloned state
// instead, since sharing counters (failedAttempts) across clones of the same
// root would entangle otherwise-independent branches.
func (s *Session) Clone(newSeed *int32) *Session {
	return &Session{
		state:          s.state.Clone(newSeed),
		orchestrator:   NewOrchestrator(),
		collector:      NullCollector{},
		sim:            s.sim,
		failedAttempts: s.failedAttempts,
	}
}

// Events drains this session's buffered events, or returns nil if event
// collection is disabled (spec.md §6, §9).
func (s *Session) Events() []Event {
	if bc, ok := s.collector.(*BufferedCollector); ok {
		return bc.Drain()
	}
	return nil
}

func (s *Session) buildSpawnContext() SpawnContext {
	remaining := s.state.MoveLimit - s.state.MoveCount
	progress := s.goalProgress()
	return SpawnContext{
		TargetDifficulty: s.state.TargetDifficulty,
		RemainingMoves:   remaining,
		GoalProgress:     progress,
		FailedAttempts:   s.failedAttempts,
		InFlowState:      s.failedAttempts == 0 && progress > 0.3,
	}
}

func (s *Session) goalProgress() float64 {
	if len(s.state.Objectives) == 0 {
		return 0
	}
	var sum float64
	for _, o := range s.state.Objectives {
		if o.RequiredCount == 0 {
			continue
		}
		p := float64(o.Progress) / float64(o.RequiredCount)
		if p > 1 {
			p = 1
		}
		sum += p
	}
	return sum / float64(len(s.state.Objectives))
}
