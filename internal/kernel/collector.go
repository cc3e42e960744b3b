package kernel

import "sync"

// Collector is how every subsystem reports what it did this tick. There are
// two implementations: NullCollector (AI rollouts, zero-cost) and
// BufferedCollector (everything else). Subsystems receive a Collector by
// borrow for the duration of one phase call and hold no reference to it
// across calls (spec.md §9).
type Collector interface {
	Emit(e Event)
	IsEnabled() bool
}

// NullCollector discards every event. Used by Session.RunUntilStable, which
// swaps it in for the duration of an AI rollout so branch exploration does
// not pay for event allocation (spec.md §4.3, §4.13).
type NullCollector struct{}

func (NullCollector) Emit(Event)      {}
func (NullCollector) IsEnabled() bool { return false }

// BufferedCollector appends events to an in-memory slice. It is safe for a
// single owning tick to call Emit from any phase; Drain/CopyOut are meant to
// be called between ticks by the same goroutine that drives Session.Tick —
// the mutex exists only to let a host read the buffer from another
// goroutine (e.g. a metrics exporter) without racing the next tick.
type BufferedCollector struct {
	mu     sync.Mutex
	events []Event
}

// NewBufferedCollector creates a collector with capacity pre-reserved for
// one tick's typical event volume, avoiding a grow-on-append in the common
// case.
func NewBufferedCollector() *BufferedCollector {
	return &BufferedCollector{events: make([]Event, 0, 64)}
}

func (c *BufferedCollector) Emit(e Event) {
	c.mu.Lock()
	c.events = append(c.events, e)
	c.mu.Unlock()
}

func (c *BufferedCollector) IsEnabled() bool { return true }

// Drain returns all buffered events and empties the buffer (allocating a new
// slice for the returned value; the internal buffer's capacity is retained
// for reuse).
func (c *BufferedCollector) Drain() []Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Event, len(c.events))
	copy(out, c.events)
	c.events = c.events[:0]
	return out
}

// CopyOut returns a copy of the buffered events without clearing the
// buffer — for a read-only observer (e.g. a debug UI) that must not disturb
// the next Drain.
func (c *BufferedCollector) CopyOut() []Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Event, len(c.events))
	copy(out, c.events)
	return out
}

// Len reports the number of buffered, undrained events without copying.
func (c *BufferedCollector) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.events)
}

// DrainInto is the zero-allocation variant of Drain: it appends into a
// caller-supplied slice (typically pool-borrowed) and empties the internal
// buffer, never allocating a new backing array of its own.
func (c *BufferedCollector) DrainInto(dst []Event) []Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	dst = append(dst, c.events...)
	c.events = c.events[:0]
	return dst
}
