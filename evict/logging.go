package evict

import "go.uber.org/zap"

// loggingOwner records every eviction before forwarding it.
type loggingOwner[K comparable, V any] struct {
	next Owner[K, V]
	log  *zap.Logger
}

// LoggingOwner wraps next so that each Evict call emits one Debug record
// carrying the entry (see Entry.MarshalLogObject), the cancel flag and
// whether the entry was already overdue. A nil logger disables output.
// Panics if next is nil.
func LoggingOwner[K comparable, V any](next Owner[K, V], log *zap.Logger) Owner[K, V] {
	if isNil(next) {
		panic("evict: LoggingOwner requires a non-nil owner")
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &loggingOwner[K, V]{next: next, log: log}
}

// Evict implements Owner.
func (o *loggingOwner[K, V]) Evict(e *Entry[K, V], cancelPendingEviction bool) {
	if ce := o.log.Check(zap.DebugLevel, "evict entry"); ce != nil {
		ce.Write(
			zap.Object("entry", e),
			zap.Bool("cancel_pending", cancelPendingEviction),
			zap.String("trigger", trigger(cancelPendingEviction)),
			zap.Bool("overdue", e.ShouldEvict()),
		)
	}
	o.next.Evict(e, cancelPendingEviction)
}

// trigger maps the cancel flag to a stable label value.
func trigger(cancelPendingEviction bool) string {
	if cancelPendingEviction {
		return "removal"
	}
	return "scheduler"
}
