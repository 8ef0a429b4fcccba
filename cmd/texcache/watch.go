package main

import (
	"sync"

	"github.com/unkn0wn-root/texcache"
)

// outcome is how the worker finished one key.
type outcome struct {
	frames int
	stage  texcache.Stage
	err    error
}

// watch forwards every event to the wrapped hooks and reports the terminal
// event of each expected key on a channel.
type watch struct {
	texcache.Hooks

	mu   sync.Mutex
	done map[string]chan outcome
}

func newWatch(inner texcache.Hooks) *watch {
	return &watch{Hooks: inner, done: make(map[string]chan outcome)}
}

// expect must be called before the key is acquired.
func (w *watch) expect(key string) <-chan outcome {
	w.mu.Lock()
	defer w.mu.Unlock()
	ch, ok := w.done[key]
	if !ok {
		ch = make(chan outcome, 1)
		w.done[key] = ch
	}
	return ch
}

func (w *watch) finish(key string, o outcome) {
	w.mu.Lock()
	ch, ok := w.done[key]
	w.mu.Unlock()
	if !ok {
		return
	}
	select {
	case ch <- o:
	default:
	}
}

func (w *watch) FramesReady(key string, n int) {
	w.Hooks.FramesReady(key, n)
	w.finish(key, outcome{frames: n})
}

func (w *watch) FetchFailed(key string, stage texcache.Stage, err error) {
	w.Hooks.FetchFailed(key, stage, err)
	w.finish(key, outcome{stage: stage, err: err})
}
