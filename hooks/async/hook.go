// Package asynchook moves hook delivery off the Acquire and worker paths.
//
//	raw := sloghooks.New(slog.Default(), sloghooks.Options{QueuedEvery: 10})
//	hooks := asynchook.New(raw, 1, 1000) // 1 goroutine, 1000 queued events
//	defer hooks.Close()
//
//	cache, _ := texcache.New(texcache.Options{Hooks: hooks})
//
// Events are dropped, not blocked on, when the queue is full.
package asynchook

import (
	"sync"
	"sync/atomic"

	"github.com/unkn0wn-root/texcache"
)

type Hooks struct {
	inner   texcache.Hooks
	q       chan func()
	wg      sync.WaitGroup
	once    sync.Once
	mu      sync.RWMutex // guards q against send-after-close
	closed  bool
	dropped atomic.Uint64
}

var _ texcache.Hooks = (*Hooks)(nil)

func New(inner texcache.Hooks, workers, qlen int) *Hooks {
	if workers <= 0 {
		workers = 1
	}
	if qlen <= 0 {
		qlen = 1024
	}

	h := &Hooks{inner: inner, q: make(chan func(), qlen)}
	h.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer h.wg.Done()
			for f := range h.q {
				f()
			}
		}()
	}
	return h
}

// Close delivers what is queued and stops the goroutines. Events after
// Close are dropped.
func (h *Hooks) Close() {
	h.once.Do(func() {
		h.mu.Lock()
		h.closed = true
		close(h.q)
		h.mu.Unlock()
		h.wg.Wait()
	})
}

// Dropped is the number of events lost to a full queue or a closed hook.
func (h *Hooks) Dropped() uint64 { return h.dropped.Load() }

func (h *Hooks) try(f func()) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.closed {
		h.dropped.Add(1)
		return
	}
	select {
	case h.q <- f:
	default:
		h.dropped.Add(1)
	}
}

func (h *Hooks) FetchQueued(k string)    { h.try(func() { h.inner.FetchQueued(k) }) }
func (h *Hooks) StaleDiscarded(k string) { h.try(func() { h.inner.StaleDiscarded(k) }) }
func (h *Hooks) FramesReady(k string, n int) {
	h.try(func() { h.inner.FramesReady(k, n) })
}
func (h *Hooks) FetchFailed(k string, s texcache.Stage, err error) {
	h.try(func() { h.inner.FetchFailed(k, s, err) })
}
func (h *Hooks) RealizeFailed(k string, i int, err error) {
	h.try(func() { h.inner.RealizeFailed(k, i, err) })
}
func (h *Hooks) SourceSelfHeal(k, r string) { h.try(func() { h.inner.SourceSelfHeal(k, r) }) }
func (h *Hooks) SourceSetRejected(k string) { h.try(func() { h.inner.SourceSetRejected(k) }) }
func (h *Hooks) GenBumpError(k string, err error) {
	h.try(func() { h.inner.GenBumpError(k, err) })
}
func (h *Hooks) GenSnapshotError(k string, err error) {
	h.try(func() { h.inner.GenSnapshotError(k, err) })
}
func (h *Hooks) InvalidateOutage(k string, be, de error) {
	h.try(func() { h.inner.InvalidateOutage(k, be, de) })
}
