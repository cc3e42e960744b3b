package kernel

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsRecorder is an optional per-session Prometheus instrument set,
// grounded on iamvalenciia-kick-game-stream/fight-club-go's
// internal/api/observability.go metrics (tick duration histogram, gauges,
// counters). Unlike that file's package-level promauto vars — which would
// double-register if this package were ever asked to build a second
// session — MetricsRecorder registers its own instruments against a
// caller-supplied registry, so a host embedding several kernel sessions
// gives each its own registry (or labels them itself) instead of colliding
// on shared global state.
type MetricsRecorder struct {
	tickDuration    prometheus.Histogram
	cascadeDepth    prometheus.Gauge
	bombsActivated  prometheus.Counter
	tilesCleared    prometheus.Counter
	deadlockCounter prometheus.Counter
}

// NewMetricsRecorder registers one session's metrics against reg. Pass
// prometheus.NewRegistry() for an isolated registry, or
// prometheus.DefaultRegisterer-backed registry for a single-session host
// that wants the metrics on its default /metrics endpoint.
func NewMetricsRecorder(reg prometheus.Registerer) *MetricsRecorder {
	factory := promauto.With(reg)
	return &MetricsRecorder{
		tickDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "match3_tick_duration_seconds",
			Help:    "Wall-clock time spent in one Orchestrator.Tick call",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.025, 0.05},
		}),
		cascadeDepth: factory.NewGauge(prometheus.GaugeOpts{
			Name: "match3_cascade_depth",
			Help: "Chain-reaction bomb depth reached by the most recent tick",
		}),
		bombsActivated: factory.NewCounter(prometheus.CounterOpts{
			Name: "match3_bombs_activated_total",
			Help: "Total bombs activated, including chain reactions",
		}),
		tilesCleared: factory.NewCounter(prometheus.CounterOpts{
			Name: "match3_tiles_cleared_total",
			Help: "Total tiles cleared across matches, bombs, and projectile impacts",
		}),
		deadlockCounter: factory.NewCounter(prometheus.CounterOpts{
			Name: "match3_deadlocks_total",
			Help: "Total times the board had no legal move and was reshuffled",
		}),
	}
}

// ObserveTick records one tick's elapsed wall-clock time; tr is not
// recorded. Session.Tick calls it around each Orchestrator.Tick, reading
// the clock only for this measurement, so the simulation state never
// depends on wall-clock time.
func (m *MetricsRecorder) ObserveTick(elapsed time.Duration, tr TickResult) {
	if m == nil {
		return
	}
	m.tickDuration.Observe(elapsed.Seconds())
}

// ObserveSimulationResult records one RunUntilStable call's aggregate
// counters.
func (m *MetricsRecorder) ObserveSimulationResult(sr SimulationResult) {
	if m == nil {
		return
	}
	m.cascadeDepth.Set(float64(sr.MaxCascadeDepth))
	m.bombsActivated.Add(float64(sr.BombsActivated))
	m.tilesCleared.Add(float64(sr.TilesCleared))
}

// ObserveDeadlock records one board-shuffle event.
func (m *MetricsRecorder) ObserveDeadlock() {
	if m == nil {
		return
	}
	m.deadlockCounter.Add(1)
}
