// Package mono provides a process-local monotonic nanosecond clock.
package mono

import (
	"math"
	"time"
)

// epoch carries Go's monotonic clock reading; every Now is measured from it,
// so wall-clock steps (NTP, manual changes) never move the result.
var epoch = time.Now()

// Now returns nanoseconds elapsed since process start on the monotonic clock.
// Successive calls on the same goroutine never decrease.
func Now() int64 { return int64(time.Since(epoch)) }

// Clock is a zero-size adapter exposing Now as a method.
type Clock struct{}

// Now implements evict.Clock.
func (Clock) Now() int64 { return Now() }

// AddSat returns base+delta, clamped to math.MaxInt64 on overflow.
// delta is expected to be non-negative.
func AddSat(base, delta int64) int64 {
	if delta > 0 && base > math.MaxInt64-delta {
		return math.MaxInt64
	}
	return base + delta
}

// MillisToNanos converts ms to nanoseconds, saturating at math.MaxInt64.
func MillisToNanos(ms int64) int64 {
	const nsPerMs = int64(time.Millisecond)
	if ms > math.MaxInt64/nsPerMs {
		return math.MaxInt64
	}
	return ms * nsPerMs
}
