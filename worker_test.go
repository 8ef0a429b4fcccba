package texcache

import (
	"context"
	"sync"
	"testing"
	"time"
)

func TestWorkerPendingAndOrder(t *testing.T) {
	var (
		mu   sync.Mutex
		seen []string
	)
	w := newWorker(func(_ context.Context, r request) {
		mu.Lock()
		seen = append(seen, r.key)
		mu.Unlock()
	})
	for _, k := range []string{"a", "b", "c"} {
		if !w.Enqueue(request{key: k}) {
			t.Fatalf("enqueue %s refused before Stop", k)
		}
	}
	if n := w.Pending(); n != 3 {
		t.Fatalf("pending=%d want 3 before Start", n)
	}

	w.Start()
	waitFor(t, "queue drained", func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(seen) == 3
	})
	if w.Pending() != 0 {
		t.Fatalf("pending=%d after drain", w.Pending())
	}
	if seen[0] != "a" || seen[1] != "b" || seen[2] != "c" {
		t.Fatalf("out of order: %v", seen)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := w.Stop(ctx); err != nil {
		t.Fatalf("Stop: %v", err)
	}
	if w.Enqueue(request{key: "late"}) {
		t.Fatalf("enqueue accepted after Stop")
	}
}
