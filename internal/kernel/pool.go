package kernel

import "sync"

// PositionSlice and PositionSet are the two pooled collection shapes every
// phase of the tick reaches for: an ordered list of cells (match regions,
// explosion footprints, BFS queues) and a membership test over cells
// (visited/protected sets). Modeled on the teacher-adjacent
// lixenwraith-vi-fighter `event/pool.go` sync.Pool pattern: acquire resets
// length/contents without discarding backing capacity, release clears
// references before returning the buffer so pooled slices never pin stale
// Tile/Position data.
type PositionSlice = []Position
type PositionSet = map[Position]struct{}

// Pool is a typed object pool around sync.Pool. new constructs a fresh
// instance on a pool miss; reset clears a reused instance back to empty
// without releasing its backing storage.
type Pool[T any] struct {
	pool  sync.Pool
	reset func(T) T
}

// NewPool builds a Pool whose sync.Pool.New calls newFn.
func NewPool[T any](newFn func() T, reset func(T) T) *Pool[T] {
	p := &Pool[T]{reset: reset}
	p.pool.New = func() any { return newFn() }
	return p
}

// Acquire returns a zeroed-length/zero-length instance, ready to append to.
func (p *Pool[T]) Acquire() T {
	v := p.pool.Get().(T)
	return p.reset(v)
}

// Release returns v to the pool after clearing it via reset, so the next
// Acquire never observes stale capacity-retained data.
func (p *Pool[T]) Release(v T) {
	p.pool.Put(p.reset(v))
}

// PoolRegistry is the one pool registry a Session owns, keyed by the
// structural kind of buffer a subsystem needs. Every consumer wraps its
// borrow in a scoped-release idiom (acquire, `defer registry.ReleaseSlice`)
// so even an early-return or panicking phase still returns its buffer —
// spec.md §5 "Pools must release on all exit paths, including exceptional
// ones."
type PoolRegistry struct {
	slices *Pool[PositionSlice]
	sets   *Pool[PositionSet]
}

// NewPoolRegistry constructs an empty registry; pools grow lazily on first
// Acquire and are reused for the lifetime of the owning Session.
func NewPoolRegistry() *PoolRegistry {
	return &PoolRegistry{
		slices: NewPool(
			func() PositionSlice { return make(PositionSlice, 0, 32) },
			func(s PositionSlice) PositionSlice { return s[:0] },
		),
		sets: NewPool(
			func() PositionSet { return make(PositionSet, 32) },
			func(s PositionSet) PositionSet {
				for k := range s {
					delete(s, k)
				}
				return s
			},
		),
	}
}

// AcquireSlice borrows a zero-length []Position for the duration of one
// phase call.
func (r *PoolRegistry) AcquireSlice() PositionSlice { return r.slices.Acquire() }

// ReleaseSlice returns a slice borrowed via AcquireSlice.
func (r *PoolRegistry) ReleaseSlice(s PositionSlice) { r.slices.Release(s) }

// AcquireSet borrows an empty map[Position]struct{} for the duration of one
// phase call.
func (r *PoolRegistry) AcquireSet() PositionSet { return r.sets.Acquire() }

// ReleaseSet returns a set borrowed via AcquireSet.
func (r *PoolRegistry) ReleaseSet(s PositionSet) { r.sets.Release(s) }
