package notify_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/fortytw2/leaktest"
	notify "github.com/wugren/notify-future"
)

func TestFuture_Zero(t *testing.T) {
	var f notify.Future[int]

	if !f.Set(25) {
		t.Error("Set(25): got false, want true")
	}
	if got, err := f.Wait(context.Background()); got != 25 || err != nil {
		t.Errorf("Wait: got %v, %v; want 25, nil", got, err)
	}
}

func TestFuture(t *testing.T) {
	defer leaktest.Check(t)()

	f := notify.NewFuture[string]()

	mustSet := func(v string, want bool) {
		t.Helper()
		if got := f.Set(v); got != want {
			t.Errorf("Set(%q): got %v, want %v", v, got, want)
		}
	}

	select {
	case <-f.Ready():
		t.Error("Ready fired before any Set")
	default:
	}

	// The first value set wins, later ones are discarded.
	mustSet("apple", true)
	mustSet("pear", false)
	mustSet("plum", false)

	// Unlike a Waiter, the value may be read repeatedly.
	for n := 0; n < 3; n++ {
		if got, err := f.Wait(context.Background()); got != "apple" || err != nil {
			t.Errorf("Wait: got %q, %v; want apple, nil", got, err)
		}
	}
}

func TestFuture_MultipleWaiters(t *testing.T) {
	defer leaktest.Check(t)()

	f := notify.NewFuture[int]()

	const numTasks = 5

	var wg sync.WaitGroup
	got := make([]int, numTasks)
	for i := 0; i < numTasks; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			got[i], _ = f.Wait(context.Background())
		}()
	}

	time.AfterFunc(5*time.Millisecond, func() { f.Set(17) })
	wg.Wait()

	for i, v := range got {
		if v != 17 {
			t.Errorf("Waiter %d: got %v, want 17", i+1, v)
		}
	}
}

func TestFuture_Context(t *testing.T) {
	defer leaktest.Check(t)()

	f := notify.NewFuture[int]()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	if _, err := f.Wait(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Wait: got error %v, want %v", err, context.DeadlineExceeded)
	}

	// The future is unaffected by the abandoned Wait.
	f.Set(3)
	if got, err := f.Wait(context.Background()); got != 3 || err != nil {
		t.Errorf("Wait: got %v, %v; want 3, nil", got, err)
	}
}
