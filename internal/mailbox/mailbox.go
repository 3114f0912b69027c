// Package mailbox provides a single-slot trigger buffer.
//
// It is NOT a queue: it holds at most one pending value and Put overwrites
// whatever is there. The daemon keeps one mailbox per job so that cron
// triggers arriving while a run is still in progress coalesce into a
// single follow-up run instead of stacking up.
package mailbox

import (
	"context"
	"sync"
)

type Mailbox[T any] struct {
	mu sync.Mutex
	ch chan T // capacity 1
}

func New[T any]() *Mailbox[T] {
	return &Mailbox[T]{ch: make(chan T, 1)}
}

// Put stores v, replacing any pending value. It never blocks.
func (m *Mailbox[T]) Put(v T) {
	m.mu.Lock()
	defer m.mu.Unlock()

	// Drain any stale value; latest wins.
	select {
	case <-m.ch:
	default:
	}
	m.ch <- v
}

// Take blocks until a value is available or ctx is done.
func (m *Mailbox[T]) Take(ctx context.Context) (T, bool) {
	select {
	case v := <-m.ch:
		return v, true
	case <-ctx.Done():
		var zero T
		return zero, false
	}
}

// Pending reports whether a value is currently waiting.
func (m *Mailbox[T]) Pending() bool {
	return len(m.ch) > 0
}
