package evict

// Owner is the enclosing map of an entry. It is the only collaborator an
// entry calls into.
type Owner[K comparable, V any] interface {
	// Evict removes e from the map. cancelPendingEviction is true when the
	// call comes from a client-visible removal/replacement racing with the
	// scheduler, and false when the scheduler has already dequeued e.
	// Implementations must be idempotent.
	Evict(e *Entry[K, V], cancelPendingEviction bool)
}

// OwnerFunc adapts a plain function to Owner.
type OwnerFunc[K comparable, V any] func(e *Entry[K, V], cancelPendingEviction bool)

// Evict calls f(e, cancelPendingEviction).
func (f OwnerFunc[K, V]) Evict(e *Entry[K, V], cancelPendingEviction bool) {
	f(e, cancelPendingEviction)
}

// MapEntry is the standard key/value shape exposed to map clients and
// iterators.
type MapEntry[K comparable, V any] interface {
	Key() K
	Value() V
	// SetValue replaces the value and returns the previous one.
	SetValue(v V) V
}

// Clock provides monotonic time in nanoseconds. It must never be backed by
// the wall clock.
type Clock interface{ Now() int64 }

// Compile-time checks.
var (
	_ MapEntry[string, int] = (*Entry[string, int])(nil)
	_ Owner[string, int]    = OwnerFunc[string, int](nil)
)
