// Package task runs functions asynchronously, delivering their results
// through one-shot notify exchanges. A started task can be awaited,
// selected on, or abandoned; abandoning a task cancels the context its
// function runs under, so the work can stop early.
package task

import (
	"context"
	"sync"

	notify "github.com/wugren/notify-future"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

// A Func is a unit of work that can be run by [Start] or a [Pool].
type Func[T any] func(context.Context) (T, error)

type result[T any] struct {
	value T
	err   error
}

// A Task is a handle to a function started with [Start] or
// [Pool.Start]. It is safe for concurrent use by multiple goroutines.
type Task[T any] struct {
	w      *notify.Waiter[result[T]]
	cancel context.CancelFunc

	mu      sync.Mutex
	settled bool // res holds the final outcome
	res     result[T]
}

// Start runs fn in a new goroutine, delivering its result through a
// one-shot exchange owned by the returned Task. The goroutine's
// context is derived from ctx and is canceled when the function
// returns or the task is canceled.
func Start[T any](ctx context.Context, fn Func[T]) *Task[T] {
	ctx, cancel := context.WithCancel(ctx)
	n, w := notify.New[result[T]]()
	t := &Task[T]{w: w, cancel: cancel}
	go func() {
		defer cancel()
		v, err := fn(ctx)
		n.Notify(result[T]{value: v, err: err})
	}()
	return t
}

// Ready returns a channel that is closed once the task has delivered a
// result or been canceled.
func (t *Task[T]) Ready() <-chan struct{} { return t.w.Ready() }

// Wait blocks until the task settles or ctx ends, and returns the
// task's outcome. Unlike [notify.Waiter.Wait], Wait may be called
// repeatedly and from multiple goroutines; every call after the first
// returns the same outcome. A canceled task reports
// [notify.ErrCanceled].
func (t *Task[T]) Wait(ctx context.Context) (T, error) {
	select {
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	case <-t.w.Ready():
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.settled {
		// The exchange is terminal, so this cannot block.
		r, err := t.w.Wait(context.Background())
		if err != nil {
			r.err = err
		}
		t.res, t.settled = r, true
	}
	return t.res.value, t.res.err
}

// Cancel abandons the task: the context its function runs under is
// canceled so the work can stop early, and any result delivered after
// this point is discarded. Canceling a task that has already delivered
// its result has no effect.
func (t *Task[T]) Cancel() {
	t.w.Close()
	t.cancel()
}

// Gather waits until all the given tasks have settled and returns
// their values in order. If any task reports an error, Gather stops
// waiting on the rest and returns the first error observed; the tasks
// themselves keep running and may be awaited or canceled separately.
func Gather[T any](ctx context.Context, ts ...*Task[T]) ([]T, error) {
	g, ctx := errgroup.WithContext(ctx)
	out := make([]T, len(ts))
	for i, t := range ts {
		i, t := i, t
		g.Go(func() error {
			v, err := t.Wait(ctx)
			if err == nil {
				out[i] = v
			}
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// A Pool runs tasks with at most a fixed number executing at a time.
// Tasks started beyond the limit wait for a slot before their function
// is called.
type Pool[T any] struct {
	sem *semaphore.Weighted
}

// NewPool constructs a Pool that runs at most n tasks concurrently.
// NewPool panics if n <= 0.
func NewPool[T any](n int64) *Pool[T] {
	if n <= 0 {
		panic("task: pool size must be positive")
	}
	return &Pool[T]{sem: semaphore.NewWeighted(n)}
}

// Start schedules fn on the pool and returns a handle to it, as
// [Start] does. If the task is canceled while still waiting for a
// slot, fn is never called.
func (p *Pool[T]) Start(ctx context.Context, fn Func[T]) *Task[T] {
	ctx, cancel := context.WithCancel(ctx)
	n, w := notify.New[result[T]]()
	t := &Task[T]{w: w, cancel: cancel}
	go func() {
		defer cancel()
		if err := p.sem.Acquire(ctx, 1); err != nil {
			var zero T
			n.Notify(result[T]{value: zero, err: err})
			return
		}
		defer p.sem.Release(1)

		// The task may have been abandoned while queued; skip the work,
		// its result would only be discarded.
		if n.Canceled() {
			return
		}
		v, err := fn(ctx)
		n.Notify(result[T]{value: v, err: err})
	}()
	return t
}
