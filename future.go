package notify

import (
	"context"
	"sync"
)

// A Future is a single-shot latched container for one value of type T,
// for cases that do not need the cancellation contract of a
// [Notifier]/[Waiter] pair. The first Set wins; once set, the value is
// visible to any number of goroutines, any number of times.
//
// A zero Future is ready for use, but must not be copied after its
// first use.
type Future[T any] struct {
	mu    sync.Mutex
	done  chan struct{} // lazily created; closed once set
	value T
	set   bool
}

// NewFuture constructs a new empty Future.
func NewFuture[T any]() *Future[T] { return new(Future[T]) }

// Set stores v as the value of f, and reports whether it was stored
// (true) or discarded because a value was already present (false).
// Set does not block.
func (f *Future[T]) Set(v T) bool {
	f.mu.Lock()
	if f.set {
		f.mu.Unlock()
		return false
	}
	f.value = v
	f.set = true
	done := f.done
	f.mu.Unlock()
	if done != nil {
		close(done)
	}
	return true
}

// Ready returns a channel that is closed once a value has been set.
func (f *Future[T]) Ready() <-chan struct{} {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.done == nil {
		f.done = make(chan struct{})
		if f.set {
			close(f.done)
		}
	}
	return f.done
}

// Wait blocks until a value is available or ctx ends, and returns the
// value. Unlike [Waiter.Wait], the value is not consumed: Wait may be
// called repeatedly and from multiple goroutines, and each call
// returns the same value.
func (f *Future[T]) Wait(ctx context.Context) (T, error) {
	select {
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	case <-f.Ready():
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.value, nil
}
