package notify_test

import (
	"context"
	"fmt"

	notify "github.com/wugren/notify-future"
)

func ExampleNew() {
	n, w := notify.New[string]()
	defer w.Close()

	// The producer delivers a single value, typically from another
	// goroutine; here it runs inline for determinism.
	n.Notify("hello")

	v, err := w.Wait(context.Background())
	fmt.Println(v, err)
	// Output:
	// hello <nil>
}

func ExampleNotifier_Canceled() {
	n, w := notify.New[int]()

	// The consumer gives up before any value arrives.
	w.Close()

	// The producer can now observe the abandonment and skip its work.
	// A delivery at this point is discarded.
	fmt.Println("canceled:", n.Canceled())
	fmt.Println("accepted:", n.Notify(42))
	// Output:
	// canceled: true
	// accepted: false
}

func ExampleFuture() {
	var f notify.Future[int]

	// Only the first value is kept.
	fmt.Println(f.Set(25))
	fmt.Println(f.Set(36))

	// The value can be read any number of times.
	for n := 0; n < 2; n++ {
		v, _ := f.Wait(context.Background())
		fmt.Println(v)
	}
	// Output:
	// true
	// false
	// 25
	// 25
}
