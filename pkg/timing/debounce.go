// Package timing wraps functions so that bursts of calls collapse into fewer
// executions.
package timing

import (
	"sync"
	"time"
)

// DefaultDebounceDelay is the quiet period used when none is given.
const DefaultDebounceDelay = 20 * time.Millisecond

// Debouncer runs fn once a burst of calls has gone quiet for delay. In
// immediate mode fn runs on the leading call of a burst instead and the
// trailing edge is skipped.
type Debouncer[T any] struct {
	fn        func(T)
	delay     time.Duration
	immediate bool

	mu    sync.Mutex
	timer *time.Timer
	gen   uint64
}

// NewDebouncer returns a Debouncer for fn. A non-positive delay selects
// DefaultDebounceDelay.
func NewDebouncer[T any](fn func(T), delay time.Duration, immediate bool) *Debouncer[T] {
	if delay <= 0 {
		delay = DefaultDebounceDelay
	}
	return &Debouncer[T]{fn: fn, delay: delay, immediate: immediate}
}

// Call registers a call with argument v. The trailing execution receives the
// argument of the last call in the burst.
func (d *Debouncer[T]) Call(v T) {
	d.mu.Lock()
	callNow := d.immediate && d.timer == nil
	if d.timer != nil {
		d.timer.Stop()
	}
	d.gen++
	gen := d.gen
	d.timer = time.AfterFunc(d.delay, func() {
		d.mu.Lock()
		if d.gen != gen {
			d.mu.Unlock()
			return
		}
		d.timer = nil
		d.mu.Unlock()
		if !d.immediate {
			d.fn(v)
		}
	})
	d.mu.Unlock()

	if callNow {
		d.fn(v)
	}
}

// Stop cancels any pending execution and ends the current burst.
func (d *Debouncer[T]) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.gen++
}

// Debounce wraps a no-argument fn. It returns the wrapped function and a
// function cancelling any pending call.
func Debounce(fn func(), delay time.Duration, immediate bool) (call func(), stop func()) {
	d := NewDebouncer(func(struct{}) { fn() }, delay, immediate)
	return func() { d.Call(struct{}{}) }, d.Stop
}
