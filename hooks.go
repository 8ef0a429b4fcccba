package texcache

// Hooks are callbacks for high-signal events. FetchQueued and RealizeFailed
// run on the Acquire path and everything else on the worker, so
// implementations must be cheap and must not block. Wrap slow sinks with
// hooks/async.
type Hooks interface {
	// A fetch request was enqueued for key.
	FetchQueued(key string)

	// A fetch failed. The entry stays where it was (usually Empty).
	FetchFailed(key string, stage Stage, err error)

	// The worker dropped a result because the entry moved on
	// (origin changed, reset, or invalidated) while it was loading.
	StaleDiscarded(key string)

	// All frames of key were decoded and appended.
	FramesReady(key string, frames int)

	// The Realizer failed for frame index of key. Retried on the next Acquire.
	RealizeFailed(key string, index int, err error)

	// A source record was deleted on read.
	// reason ∈ {"corrupt", "gen_mismatch", "value_decode"}
	SourceSelfHeal(storageKey, reason string)

	// Provider returned ok=false on Set (admission or memory pressure).
	SourceSetRejected(storageKey string)

	// Generation store errors.
	GenSnapshotError(storageKey string, err error)
	GenBumpError(storageKey string, err error)

	// Both the generation bump and the delete failed during Invalidate.
	InvalidateOutage(key string, bumpErr, delErr error)
}

// NopHooks is the default.
type NopHooks struct{}

func (NopHooks) FetchQueued(string)                    {}
func (NopHooks) FetchFailed(string, Stage, error)      {}
func (NopHooks) StaleDiscarded(string)                 {}
func (NopHooks) FramesReady(string, int)               {}
func (NopHooks) RealizeFailed(string, int, error)      {}
func (NopHooks) SourceSelfHeal(string, string)         {}
func (NopHooks) SourceSetRejected(string)              {}
func (NopHooks) GenSnapshotError(string, error)        {}
func (NopHooks) GenBumpError(string, error)            {}
func (NopHooks) InvalidateOutage(string, error, error) {}
