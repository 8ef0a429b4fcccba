package texcache

import "time"

// DefaultNamespace prefixes source cache and generation keys when
// Options.Namespace is empty.
const DefaultNamespace = "texcache"

const (
	defaultMaxSourceBytes = 32 << 20
	defaultSourceTTL      = 24 * time.Hour
	defaultSweep          = time.Hour
	defaultGenRetention   = 30 * 24 * time.Hour
)

// coalesce returns def when v is the zero value of T - otherwise v.
func coalesce[T comparable](v, def T) T {
	var zero T
	if v == zero {
		return def
	}
	return v
}
