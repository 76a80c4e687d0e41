package evict

import "github.com/pkg/errors"

var (
	// ErrInvalidTTL is returned by NewEntry when evictMs is negative.
	ErrInvalidTTL = errors.New("evict: eviction ms must be >= 0")

	// ErrNilOwner is returned by NewEntry when no owning map is given.
	ErrNilOwner = errors.New("evict: owner must not be nil")
)
