package texcache

import (
	"context"
	"time"

	c "github.com/unkn0wn-root/texcache/codec"
	"github.com/unkn0wn-root/texcache/frame"
	gen "github.com/unkn0wn-root/texcache/genstore"
	"github.com/unkn0wn-root/texcache/origin"
	pr "github.com/unkn0wn-root/texcache/provider"
	"github.com/unkn0wn-root/texcache/source"
)

// SetCostFunc computes the admission cost of a source record. The default
// is the encoded size in bytes.
type SetCostFunc func(storageKey string, raw []byte) int64

// Cache is the acquire façade over the entry store and its fetch worker.
// All methods are safe for concurrent use.
type Cache interface {
	// Acquire returns the handle to display for key right now.
	// A key seen for the first time, or requested with a different origin,
	// is reset and queued for fetching. Until a frame is decoded the zero
	// Handle is returned.
	Acquire(key string, o origin.Origin) Handle

	// Invalidate drops the entry for key and its cached source bytes.
	// The next Acquire fetches again.
	Invalidate(ctx context.Context, key string) error

	// IsLoaded reports whether key has at least one decoded frame.
	IsLoaded(key string) bool

	// Stat returns a snapshot of the entry for key.
	Stat(key string) (Info, bool)

	// Close stops the worker, abandoning queued requests, and releases every
	// realized resource. It waits for the in-flight request only as long as
	// ctx allows.
	Close(ctx context.Context) error
}

// Options tune the cache. Every field is optional.
type Options struct {
	Namespace string   // isolates source cache keys; "" => "texcache"
	Logger    Logger   // nil => NopLogger
	Hooks     Hooks    // nil => NopHooks
	Realizer  Realizer // nil => RGBARealizer

	Fetcher      source.Fetcher // nil => source.HTTPFetcher
	Decoder      frame.Decoder  // nil => frame.Std{DefaultDelay}
	DefaultDelay time.Duration  // for the default decoder; 0 => 100ms
	Clock        func() time.Time

	// MaxSourceBytes caps how much of one origin is read; 0 => 32 MiB.
	MaxSourceBytes int64

	// Source byte cache for remote origins. Disabled when Provider is nil.
	Provider        pr.Provider
	Codec           c.Codec[source.Blob] // nil => CBOR
	GenStore        gen.Store            // nil => in-process generations
	SourceTTL       time.Duration        // 0 => 24h
	ComputeSetCost  SetCostFunc          // nil => len(raw)
	CleanupInterval time.Duration        // local gen store sweep; 0 => 1h
	GenRetention    time.Duration        // 0 => 30d
}

// New builds a cache and starts its worker.
func New(opts Options) (Cache, error) {
	cc, err := newCache(opts)
	if err != nil {
		return nil, err
	}
	cc.w.Start()
	return cc, nil
}
