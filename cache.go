package texcache

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/unkn0wn-root/texcache/frame"
	"github.com/unkn0wn-root/texcache/origin"
	"github.com/unkn0wn-root/texcache/source"
)

type cache struct {
	store    *store
	w        *worker
	resolver *source.Resolver
	decoder  frame.Decoder
	realizer Realizer
	src      *sources // nil when the source cache is disabled
	log      Logger
	hooks    Hooks
	now      func() time.Time
	maxBytes int64

	gens      atomic.Uint64
	closed    atomic.Bool
	closeOnce sync.Once
	closeErr  error
}

var _ Cache = (*cache)(nil)

func newCache(opts Options) (*cache, error) {
	cc := &cache{
		store:    newStore(),
		resolver: source.NewResolver(opts.Fetcher),
		decoder:  opts.Decoder,
		now:      opts.Clock,
	}

	// defaults
	cc.log = coalesce[Logger](opts.Logger, NopLogger{})
	cc.hooks = coalesce[Hooks](opts.Hooks, NopHooks{})
	cc.realizer = coalesce[Realizer](opts.Realizer, RGBARealizer{})
	cc.maxBytes = coalesce(opts.MaxSourceBytes, defaultMaxSourceBytes)
	if cc.maxBytes < 0 {
		return nil, fmt.Errorf("texcache: MaxSourceBytes must not be negative")
	}
	if cc.decoder == nil {
		cc.decoder = frame.Std{DefaultDelay: opts.DefaultDelay}
	}
	if cc.now == nil {
		cc.now = time.Now
	}

	src, err := newSources(opts, cc.log, cc.hooks)
	if err != nil {
		return nil, fmt.Errorf("texcache: source cache: %w", err)
	}
	cc.src = src
	cc.w = newWorker(cc.process)
	return cc, nil
}

func (c *cache) Acquire(key string, o origin.Origin) Handle {
	if c.closed.Load() {
		return Handle{}
	}
	now := c.now()
	for {
		e := c.store.getOrCreate(key)
		e.mu.Lock()
		if e.removed {
			// lost a race with Invalidate; the key is free again
			e.mu.Unlock()
			continue
		}
		// generations start at 1, so gen 0 means never reset
		if e.gen == 0 || e.origin != o {
			old := e.reset(o, c.gens.Add(1))
			r := request{key: key, origin: o, gen: e.gen}
			c.release(old)
			e.mu.Unlock()
			c.enqueue(r)
			return Handle{}
		}
		h := c.show(key, e, now)
		e.mu.Unlock()
		return h
	}
}

// show advances e and returns the realized handle of its current frame.
// Caller holds e.mu.
func (c *cache) show(key string, e *entry, now time.Time) Handle {
	if len(e.frames) == 0 {
		return Handle{}
	}
	e.advance(now)

	i := e.index
	if h := e.realized[i]; h.Valid() {
		return h
	}
	name := handleName(key, i, e.animated)
	res, err := c.realizer.Realize(name, e.frames[i].Image())
	if err == nil && res == nil {
		err = errNilResource
	}
	if err != nil {
		c.hooks.RealizeFailed(key, i, err)
		c.log.Warn("realize failed", Fields{"key": key, "index": i, "err": err})
		return Handle{}
	}
	h := Handle{Name: name, Index: i, Resource: res}
	e.realized[i] = h
	return h
}

func (c *cache) enqueue(r request) {
	if !c.w.Enqueue(r) {
		c.log.Debug("fetch dropped (cache closed)", Fields{"key": r.key})
		return
	}
	c.hooks.FetchQueued(r.key)
	c.log.Debug("fetch queued", Fields{"key": r.key, "origin": r.origin.String(), "pending": c.w.Pending()})
}

func (c *cache) Invalidate(ctx context.Context, key string) error {
	if c.closed.Load() {
		return ErrClosed
	}
	e := c.store.remove(key)
	if e == nil {
		return nil
	}
	e.mu.Lock()
	e.removed = true
	o := e.origin
	c.release(e.reset(origin.Origin{}, 0))
	e.mu.Unlock()

	c.log.Debug("invalidated", Fields{"key": key})
	return c.src.invalidate(ctx, key, o)
}

func (c *cache) IsLoaded(key string) bool {
	e := c.store.get(key)
	if e == nil {
		return false
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.frames) > 0
}

func (c *cache) Stat(key string) (Info, bool) {
	e := c.store.get(key)
	if e == nil {
		return Info{}, false
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.removed {
		return Info{}, false
	}
	return e.info(), true
}

func (c *cache) Close(ctx context.Context) error {
	c.closeOnce.Do(func() {
		c.closed.Store(true)
		stopErr := c.w.Stop(ctx)
		for _, e := range c.store.drain() {
			e.mu.Lock()
			e.removed = true
			c.release(e.reset(origin.Origin{}, 0))
			e.mu.Unlock()
		}
		c.closeErr = errors.Join(stopErr, c.src.close(ctx))
	})
	return c.closeErr
}

func (c *cache) release(hs []Handle) {
	rel, ok := c.realizer.(Releaser)
	if !ok {
		return
	}
	for _, h := range hs {
		if h.Valid() {
			rel.Release(h.Resource)
		}
	}
}

// process runs one request on the worker goroutine. Failures, panics
// included, are reported and swallowed so the loop keeps going.
func (c *cache) process(ctx context.Context, r request) {
	defer func() {
		if p := recover(); p != nil {
			c.fail(r, StagePanic, fmt.Errorf("%v", p))
		}
	}()

	e := c.store.get(r.key)
	if e == nil || !c.accepting(e, r) {
		c.discard(r)
		return
	}

	blob, stage, err := c.load(ctx, r)
	if err != nil {
		c.fail(r, stage, err)
		return
	}

	sink := &entrySink{e: e, r: r}
	if _, err := c.decoder.Decode(bytes.NewReader(blob.Data), blob.Animated, sink); err != nil {
		if errors.Is(err, errStale) {
			c.discard(r)
			return
		}
		c.fail(r, StageDecode, err)
		return
	}

	e.mu.Lock()
	ok := e.accepts(r)
	if ok {
		e.complete = true
	}
	e.mu.Unlock()
	if !ok {
		c.discard(r)
		return
	}
	c.hooks.FramesReady(r.key, sink.n)
	c.log.Debug("frames ready", Fields{"key": r.key, "frames": sink.n, "animated": blob.Animated})
}

func (c *cache) accepting(e *entry, r request) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.accepts(r)
}

// load returns the bytes for r, going through the source cache for remote
// origins when one is configured.
func (c *cache) load(ctx context.Context, r request) (source.Blob, Stage, error) {
	if !c.src.caches(r.origin) {
		return c.fetch(ctx, r)
	}
	k := c.src.storageKey(r.origin)
	if b, ok := c.src.get(ctx, k); ok {
		// the hint may come from this key's name even when another key fetched the bytes
		b.Animated = b.Animated || origin.Animated(r.key, r.origin)
		c.log.Debug("source cache hit", Fields{"key": r.key})
		return b, "", nil
	}
	obs := c.src.snapshot(ctx, k)
	b, stage, err := c.fetch(ctx, r)
	if err != nil {
		return b, stage, err
	}
	if err := c.src.setWithGen(ctx, k, b, obs); err != nil {
		c.log.Warn("source cache set failed", Fields{"key": r.key, "err": err})
	}
	return b, "", nil
}

func (c *cache) fetch(ctx context.Context, r request) (source.Blob, Stage, error) {
	st, err := c.resolver.Resolve(ctx, r.key, r.origin)
	if err != nil {
		return source.Blob{}, StageResolve, err
	}
	data, err := source.ReadAll(st, c.maxBytes)
	if err != nil {
		return source.Blob{}, StageRead, err
	}
	return source.Blob{Data: data, MIME: st.MIME, Animated: st.Animated, FetchedAt: c.now()}, "", nil
}

func (c *cache) fail(r request, stage Stage, err error) {
	fe := &FetchError{Key: r.key, Origin: r.origin.String(), Stage: stage, Err: err}
	c.hooks.FetchFailed(r.key, stage, fe)
	c.log.Error("fetch failed", Fields{"key": r.key, "stage": string(stage), "err": fe})
}

func (c *cache) discard(r request) {
	c.hooks.StaleDiscarded(r.key)
	c.log.Debug("stale result discarded", Fields{"key": r.key})
}

// entrySink appends decoded frames to e while e still wants them.
type entrySink struct {
	e *entry
	r request
	n int
}

func (s *entrySink) Header(h frame.Header) error {
	s.e.mu.Lock()
	defer s.e.mu.Unlock()
	if !s.e.accepts(s.r) {
		return errStale
	}
	s.e.loop = h.Loop
	s.e.animated = h.Animated
	return nil
}

func (s *entrySink) Frame(f *frame.Frame) error {
	s.e.mu.Lock()
	defer s.e.mu.Unlock()
	if !s.e.accepts(s.r) {
		return errStale
	}
	s.e.frames = append(s.e.frames, f)
	s.e.realized = append(s.e.realized, Handle{})
	s.n++
	return nil
}
