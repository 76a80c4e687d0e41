// Package evict provides the entry record of a concurrent map with
// per-entry timed eviction.
//
// Design
//
//   - Entry binds a key to a value plus the metadata an evictor needs:
//     the requested TTL in milliseconds, whether the entry is evictible at
//     all (TTL > 0), and an absolute deadline on a monotonic clock that is
//     fixed at construction.
//
//   - Ownership: the enclosing map creates entries and implements Owner.
//     Entry.Evict calls back into Owner.Evict; the owner is responsible for
//     idempotent removal and for tearing down scheduler state when asked to.
//
//   - Values: SetValue is serialized by a per-entry mutex and publishes the
//     new value through an atomic pointer, so Value never blocks and never
//     observes a partial write. SetValue does NOT extend the TTL; the entry
//     is a one-shot timer. Sliding expiration is the owner's job (remove and
//     reinsert).
//
//   - Scheduler slot: Data/SetData is an opaque atomic slot reserved for the
//     eviction scheduler (a heap index, a timer, a queue node). Nothing else
//     should read or write it.
//
//   - Clock: deadlines and ShouldEvict use the same monotonic nanosecond
//     clock (internal/mono by default, injectable via WithClock for tests).
//     ShouldEvict uses a strict comparison: a reading equal to the deadline
//     is not yet expired.
//
// Basic usage
//
//	owner := evict.OwnerFunc[string, int](func(e *evict.Entry[string, int], cancel bool) {
//	    m.Delete(e.Key()) // remove from the enclosing map
//	})
//	e, err := evict.NewEntry[string, int](owner, "a", 1, 250) // 250ms TTL
//	if err != nil {
//	    return err
//	}
//	e.SetValue(2)          // returns 1, deadline unchanged
//	if e.ShouldEvict() {
//	    e.Evict(false)     // scheduler-driven eviction
//	}
//
// Logging
//
// Entries never log on their own. Wrap an owner with LoggingOwner to get a
// structured zap record per eviction; Entry implements zapcore.ObjectMarshaler.
package evict
