// Package genstore keeps per-key generation counters for the source cache.
//
// A cached source record carries the generation it was written under. Bumping
// the generation invalidates every copy at once, including writes that were
// in flight when the bump happened.
package genstore

import (
	"context"
	"time"
)

// Store abstracts where generations live. Local is in-process; Redis shares
// generations across processes that share a Redis provider.
type Store interface {
	// Snapshot returns the current generation, 0 when the key is unknown.
	Snapshot(ctx context.Context, storageKey string) (uint64, error)
	// Bump increments and returns the new generation.
	Bump(ctx context.Context, storageKey string) (uint64, error)
	// Cleanup forgets generations idle for longer than retention.
	Cleanup(retention time.Duration)
	Close(context.Context) error
}
