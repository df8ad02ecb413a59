// Package mailbox provides a single-slot, last-value-wins message box
// with blocking, cancellable reads.
//
// The box holds at most one pending value. A publish overwrites any
// unread value; this is deliberate — a slow reader sees the latest
// state, not a backlog. Waiters are woken by broadcast, so every blocked
// Take re-checks the slot and exactly one of them wins the value.
package mailbox

import (
	"context"
	"errors"
	"sync"
)

// ErrClosed is returned by Take after the mailbox has been permanently
// closed. It is an expected shutdown result, not a failure.
var ErrClosed = errors.New("mailbox: closed")

// Mailbox is a single-slot message box. The zero value is not usable;
// create one with New.
type Mailbox[T any] struct {
	mu      sync.Mutex
	pending T
	has     bool
	closed  bool

	// wake is closed and replaced on every publish and on close. The
	// lock is held only for the slot/flag/channel swap; nothing that
	// can block runs inside it.
	wake chan struct{}
}

// New creates an open, empty Mailbox.
func New[T any]() *Mailbox[T] {
	return &Mailbox[T]{wake: make(chan struct{})}
}

// Publish stores v as the pending value, overwriting any unread one, and
// wakes all blocked readers. It never blocks. After Close it is a no-op.
func (m *Mailbox[T]) Publish(v T) {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	m.pending = v
	m.has = true
	wake := m.wake
	m.wake = make(chan struct{})
	m.mu.Unlock()

	close(wake)
}

// Take blocks until a value is pending or the mailbox is closed, then
// atomically takes and clears the pending value.
//
// It returns ErrClosed if the mailbox was closed, or ctx.Err() if the
// caller's context was cancelled first; both are restartable conditions
// for the caller, not failures. A woken reader that finds the slot
// already emptied by another reader blocks again.
func (m *Mailbox[T]) Take(ctx context.Context) (T, error) {
	var zero T
	for {
		m.mu.Lock()
		if m.has {
			v := m.pending
			m.pending = zero
			m.has = false
			m.mu.Unlock()
			// v is a local copy; handing it to the caller happens
			// outside the critical section.
			return v, nil
		}
		if m.closed {
			m.mu.Unlock()
			return zero, ErrClosed
		}
		wake := m.wake
		m.mu.Unlock()

		select {
		case <-wake:
		case <-ctx.Done():
			return zero, ctx.Err()
		}
	}
}

// TryTake takes the pending value without blocking. The second result
// reports whether a value was taken.
func (m *Mailbox[T]) TryTake() (T, bool) {
	var zero T
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.has {
		return zero, false
	}
	v := m.pending
	m.pending = zero
	m.has = false
	return v, true
}

// Close marks the mailbox permanently closed and wakes all blocked
// readers. Any still-pending value is discarded. Idempotent.
func (m *Mailbox[T]) Close() {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	m.closed = true
	var zero T
	m.pending = zero
	m.has = false
	wake := m.wake
	m.mu.Unlock()

	close(wake)
}

// Closed reports whether the mailbox has been closed.
func (m *Mailbox[T]) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}
