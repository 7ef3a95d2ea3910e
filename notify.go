// Package notify provides a one-shot, cancel-aware handoff between a
// single producer and a single consumer.
//
// The [New] constructor returns a connected [Notifier] and [Waiter]
// sharing one completion state. The producer calls Notify to deliver a
// value; the consumer calls Wait to receive it, or selects on the
// channel returned by Ready. Closing the waiter before a value arrives
// marks the exchange canceled, which the producer can observe and use
// to skip work whose result would only be discarded.
//
// For cases that do not need the cancellation contract, [Future]
// provides a plain single-shot value that any number of goroutines may
// wait on.
package notify

import (
	"context"
	"errors"
	"sync"
)

// ErrCanceled is reported by Wait when the waiter was closed before a
// value was delivered.
var ErrCanceled = errors.New("waiter is closed")

// New creates a connected producer/consumer pair sharing one empty
// completion state. The Notifier delivers at most one value, and the
// Waiter yields it at most once.
func New[T any]() (*Notifier[T], *Waiter[T]) {
	s := new(state[T])
	return &Notifier[T]{s: s}, &Waiter[T]{s: s}
}

// state is the completion record shared by a Notifier and a Waiter.
// One mutex guards all fields jointly; every critical section is short
// and makes no blocking calls. The done channel is created on demand
// by the first caller that needs it, and is closed exactly once, when
// the exchange reaches a terminal state.
type state[T any] struct {
	mu        sync.Mutex
	done      chan struct{} // lazily created; closed once terminal
	value     T
	completed bool // a value has been accepted; never reverts
	canceled  bool // the waiter was closed first; never reverts
	taken     bool // the value has been consumed
}

// complete records v as the result of the exchange and reports whether
// it won. A completion arriving after the exchange is already completed
// or canceled is discarded.
func (s *state[T]) complete(v T) bool {
	s.mu.Lock()
	if s.completed || s.canceled {
		s.mu.Unlock()
		return false
	}
	s.value = v
	s.completed = true
	done := s.done
	s.mu.Unlock()

	// Close outside the lock, so a consumer woken here can re-enter the
	// state without contending with its own wake-up.
	if done != nil {
		close(done)
	}
	return true
}

// ready returns the wake channel, creating it if necessary. If the
// exchange is already terminal the channel is created closed, so a
// consumer arriving late does not miss the wake-up.
func (s *state[T]) ready() chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.done == nil {
		s.done = make(chan struct{})
		if s.completed || s.canceled {
			close(s.done)
		}
	}
	return s.done
}

// cancel marks the exchange canceled unless a value was already
// delivered, and wakes a consumer blocked on the wake channel. It is a
// no-op after completion or a previous cancellation.
func (s *state[T]) cancel() {
	s.mu.Lock()
	if s.completed || s.canceled {
		s.mu.Unlock()
		return
	}
	s.canceled = true
	done := s.done
	s.mu.Unlock()
	if done != nil {
		close(done)
	}
}

// take consumes the delivered value. The caller must have observed the
// wake channel closed.
func (s *state[T]) take() (T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.completed {
		var zero T
		return zero, ErrCanceled
	}
	if s.taken {
		panic("notify: waiter resolved more than once")
	}
	s.taken = true
	return s.value, nil
}

// A Notifier is the producing side of an exchange created by [New].
// It is safe for concurrent use by multiple goroutines.
type Notifier[T any] struct {
	s *state[T]
}

// Notify delivers v to the paired waiter and reports whether v was
// accepted (true) or discarded (false). Only the first delivery on an
// exchange is accepted, and no delivery is accepted once the waiter
// has been closed. Notify does not block, but a winning call
// synchronously wakes a waiting consumer.
func (n *Notifier[T]) Notify(v T) bool { return n.s.complete(v) }

// Canceled reports whether the paired waiter was closed before any
// value was delivered. Once true it remains true. The result is
// advisory: a waiter may be closed immediately after Canceled reports
// false, but Notify is a safe no-op in that case.
func (n *Notifier[T]) Canceled() bool {
	n.s.mu.Lock()
	defer n.s.mu.Unlock()
	return n.s.canceled
}

// A Waiter is the consuming side of an exchange created by [New].
//
// A Waiter must be closed when its owner is done with it, whether or
// not a value was received; closing it before a value arrives is what
// marks the exchange canceled for the producer. The usual pattern is
// to defer Close at the point the pair is created.
type Waiter[T any] struct {
	s *state[T]
}

// Ready returns a channel that is closed once the exchange is
// terminal, meaning a value was delivered or w was closed. After the
// channel is closed, Wait does not block.
func (w *Waiter[T]) Ready() <-chan struct{} { return w.s.ready() }

// Wait blocks until a value is delivered, w is closed, or ctx ends.
//
// A successful Wait consumes the value: calling Wait again after it
// has returned a value panics, since a single-consumer exchange
// resolved by two callers indicates misuse of the API. A Wait that
// returns an error consumes nothing. It reports [ErrCanceled] if w was
// closed before a delivery, or ctx.Err() if ctx ended first; ctx
// governs only this call, so after a context error a later Wait may
// still succeed.
func (w *Waiter[T]) Wait(ctx context.Context) (T, error) {
	select {
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	case <-w.s.ready():
		return w.s.take()
	}
}

// Close marks the exchange canceled if no value has been delivered,
// and wakes a pending Wait, which will report [ErrCanceled]. Close is
// safe to call multiple times, has no effect once a value has been
// delivered, and always returns nil; the error result allows a Waiter
// to serve as an io.Closer.
func (w *Waiter[T]) Close() error {
	w.s.cancel()
	return nil
}
