package texcache

import (
	"context"
	"sync"

	"github.com/unkn0wn-root/texcache/internal/queue"
)

// worker drains the fetch queue on a single goroutine. handle must not
// panic past its own recovery; the loop never stops on a failed request.
type worker struct {
	q      *queue.Queue[request]
	handle func(ctx context.Context, r request)

	ctx    context.Context // cancelled by Stop to abort the in-flight fetch
	cancel context.CancelFunc
	done   chan struct{}

	startOnce sync.Once
	stopOnce  sync.Once
	started   bool
	mu        sync.Mutex
}

func newWorker(handle func(context.Context, request)) *worker {
	ctx, cancel := context.WithCancel(context.Background())
	return &worker{
		q:      queue.New[request](),
		handle: handle,
		ctx:    ctx,
		cancel: cancel,
		done:   make(chan struct{}),
	}
}

// Start launches the goroutine. Calls after the first are no-ops.
func (w *worker) Start() {
	w.startOnce.Do(func() {
		w.mu.Lock()
		w.started = true
		w.mu.Unlock()
		go w.loop()
	})
}

// Enqueue never blocks. It returns false once the worker is stopped.
func (w *worker) Enqueue(r request) bool { return w.q.Put(r) }

// Pending is the number of queued requests, not counting the one in flight.
func (w *worker) Pending() int { return w.q.Len() }

// Stop abandons queued requests, cancels the in-flight one and waits for the
// goroutine to exit or ctx to end, whichever comes first.
func (w *worker) Stop(ctx context.Context) error {
	w.stopOnce.Do(func() {
		w.q.Close()
		w.cancel()
	})
	w.mu.Lock()
	started := w.started
	w.mu.Unlock()
	if !started {
		return nil
	}
	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (w *worker) loop() {
	defer close(w.done)
	for {
		r, ok := w.q.Take()
		if !ok {
			return
		}
		w.handle(w.ctx, r)
	}
}
