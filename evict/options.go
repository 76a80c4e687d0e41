package evict

import "github.com/IvanBrykalov/evictor/internal/mono"

// Option configures NewEntry. Zero options are safe:
//   - no WithClock => internal/mono monotonic clock
type Option func(*options)

type options struct {
	clock Clock
}

// WithClock overrides the time source used for the deadline and for
// ShouldEvict. A nil clock keeps the default. Tests use this to avoid
// sleeping.
func WithClock(c Clock) Option {
	return func(o *options) {
		if c != nil {
			o.clock = c
		}
	}
}

func buildOptions(opts []Option) options {
	o := options{clock: mono.Clock{}}
	for _, fn := range opts {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}
