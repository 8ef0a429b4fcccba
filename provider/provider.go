// Package provider defines the byte store behind the source cache.
//
// A Provider holds framed source records (see internal/wire) keyed by
// "src:<ns>:<hash>". Stores must hand back exactly the bytes they were given;
// anything else reads as corruption and the record is dropped on the next Get.
// Do not write foreign values under the "src:" prefix.
package provider

import (
	"context"
	"time"
)

// Provider is a byte store with TTLs, safe for concurrent use.
type Provider interface {
	// Get returns (value, true, nil) on hit and (nil, false, nil) on miss.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores value for ttl. cost is a hint that stores may ignore.
	// ok=false means the store dropped the write (admission, pressure).
	Set(ctx context.Context, key string, value []byte, cost int64, ttl time.Duration) (ok bool, err error)

	// Del removes key. Missing keys are not an error.
	Del(ctx context.Context, key string) error

	Close(ctx context.Context) error
}
