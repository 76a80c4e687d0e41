package evict

import (
	"fmt"
	"reflect"
	"sync"
	"sync/atomic"
	"time"

	"github.com/IvanBrykalov/evictor/internal/mono"
	"github.com/pkg/errors"
	"go.uber.org/zap/zapcore"
)

// Entry is a key/value binding with the metadata needed to evict it on time.
// All methods are safe for concurrent use. Entries must be created with
// NewEntry; the zero value is not usable.
type Entry[K comparable, V any] struct {
	// ---- frozen at construction ----
	owner     Owner[K, V]
	key       K
	evictMs   int64
	evictible bool
	// Absolute monotonic deadline in nanoseconds.
	// Zero means "not evictible".
	deadline int64
	clock    Clock

	// ---- mutable ----
	mu   sync.Mutex        // serializes SetValue
	val  atomic.Pointer[V] // never nil after construction
	data atomic.Pointer[slot]
}

// slot boxes the scheduler's data so any dynamic type (nil included)
// can be swapped atomically.
type slot struct{ v any }

// NewEntry creates an entry owned by owner that expires evictMs milliseconds
// from now. evictMs == 0 means the entry never expires.
//
// Errors:
//   - ErrInvalidTTL if evictMs < 0
//   - ErrNilOwner   if owner is nil (or a typed nil)
func NewEntry[K comparable, V any](owner Owner[K, V], key K, value V, evictMs int64, opts ...Option) (*Entry[K, V], error) {
	if isNil(owner) {
		return nil, errors.WithStack(ErrNilOwner)
	}
	if evictMs < 0 {
		return nil, errors.Wrapf(ErrInvalidTTL, "evictMs=%d", evictMs)
	}
	o := buildOptions(opts)

	e := &Entry[K, V]{
		owner:     owner,
		key:       key,
		evictMs:   evictMs,
		evictible: evictMs > 0,
		clock:     o.clock,
	}
	if e.evictible {
		e.deadline = mono.AddSat(o.clock.Now(), mono.MillisToNanos(evictMs))
	}
	e.val.Store(&value)
	return e, nil
}

// MustEntry is like NewEntry but panics on error.
// Use it only when owner and evictMs are known to be valid.
func MustEntry[K comparable, V any](owner Owner[K, V], key K, value V, evictMs int64, opts ...Option) *Entry[K, V] {
	e, err := NewEntry(owner, key, value, evictMs, opts...)
	if err != nil {
		panic(err)
	}
	return e
}

// Key returns the entry key.
func (e *Entry[K, V]) Key() K { return e.key }

// Value returns the most recently committed value. It never blocks.
func (e *Entry[K, V]) Value() V { return *e.val.Load() }

// SetValue replaces the value and returns the previous one.
// Concurrent calls are totally ordered; each caller receives the value
// committed by its immediate predecessor. The deadline is not reset.
func (e *Entry[K, V]) SetValue(v V) V {
	e.mu.Lock()
	old := e.val.Load()
	e.val.Store(&v)
	e.mu.Unlock()
	return *old
}

// IsEvictible reports whether the entry has a TTL (evictMs > 0).
func (e *Entry[K, V]) IsEvictible() bool { return e.evictible }

// EvictMs returns the TTL requested at construction, in milliseconds.
func (e *Entry[K, V]) EvictMs() int64 { return e.evictMs }

// TTL returns EvictMs as a Duration (saturating).
func (e *Entry[K, V]) TTL() time.Duration {
	return time.Duration(mono.MillisToNanos(e.evictMs))
}

// EvictionTime returns the absolute monotonic deadline in nanoseconds,
// or 0 when the entry is not evictible. Compare it with the clock only
// when IsEvictible is true.
func (e *Entry[K, V]) EvictionTime() int64 { return e.deadline }

// ShouldEvict reports whether the deadline has passed.
// A clock reading equal to the deadline is not yet expired.
func (e *Entry[K, V]) ShouldEvict() bool {
	return e.evictible && e.clock.Now() > e.deadline
}

// Remaining returns the time left until the deadline, clamped at zero.
// Non-evictible entries report 0; check IsEvictible first.
func (e *Entry[K, V]) Remaining() time.Duration {
	if !e.evictible {
		return 0
	}
	d := e.deadline - e.clock.Now()
	if d < 0 {
		return 0
	}
	return time.Duration(d)
}

// Data returns the scheduler's slot, or nil if it was never set.
func (e *Entry[K, V]) Data() any {
	if s := e.data.Load(); s != nil {
		return s.v
	}
	return nil
}

// SetData stores x in the scheduler's slot. Only the scheduler should call it.
func (e *Entry[K, V]) SetData(x any) { e.data.Store(&slot{v: x}) }

// Evict hands the entry back to its owner for removal.
// No entry lock is held while the owner runs.
func (e *Entry[K, V]) Evict(cancelPendingEviction bool) {
	e.owner.Evict(e, cancelPendingEviction)
}

// String renders "[key, value, evictMs]" for diagnostics; nil renders as null.
func (e *Entry[K, V]) String() string {
	return fmt.Sprintf("[%s, %s, %d]", render(e.key), render(e.Value()), e.evictMs)
}

// MarshalLogObject implements zapcore.ObjectMarshaler.
// Values are left out: they may be large or sensitive.
func (e *Entry[K, V]) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	if err := enc.AddReflected("key", e.key); err != nil {
		return err
	}
	enc.AddInt64("evict_ms", e.evictMs)
	enc.AddBool("evictible", e.evictible)
	if e.evictible {
		enc.AddInt64("eviction_time", e.deadline)
	}
	return nil
}

// ---- helpers ----

func render(v any) string {
	if isNil(v) {
		return "null"
	}
	return fmt.Sprint(v)
}

// isNil reports whether v is nil or a typed nil of a nillable kind.
func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface:
		return rv.IsNil()
	}
	return false
}
