// Package queue provides an unbounded blocking FIFO.
package queue

import "sync"

// Queue is an unbounded FIFO. Put never blocks; Take blocks until an item is
// available or the queue is closed. Safe for concurrent use.
type Queue[T any] struct {
	mu     sync.Mutex
	cond   *sync.Cond
	items  []T
	head   int
	closed bool
}

func New[T any]() *Queue[T] {
	q := &Queue[T]{}
	q.cond = sync.NewCond(&q.mu)
	return q
}

// Put appends v. It reports false if the queue is already closed.
func (q *Queue[T]) Put(v T) bool {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return false
	}
	q.items = append(q.items, v)
	q.cond.Signal()
	q.mu.Unlock()
	return true
}

// Take removes and returns the oldest item. ok is false once the queue is
// closed; items still pending at that point are abandoned.
func (q *Queue[T]) Take() (v T, ok bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for q.head == len(q.items) && !q.closed {
		q.cond.Wait()
	}
	if q.closed {
		return v, false
	}
	v = q.items[q.head]
	var zero T
	q.items[q.head] = zero // drop reference for GC
	q.head++
	if q.head == len(q.items) {
		q.items = q.items[:0]
		q.head = 0
	}
	return v, true
}

// Len returns the number of pending items.
func (q *Queue[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items) - q.head
}

// Close wakes every blocked Take and discards pending items. Idempotent.
func (q *Queue[T]) Close() {
	q.mu.Lock()
	if !q.closed {
		q.closed = true
		q.items = nil
		q.head = 0
		q.cond.Broadcast()
	}
	q.mu.Unlock()
}
