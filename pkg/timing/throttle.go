package timing

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Frame is the default throttle window, one display frame at 60Hz.
const Frame = time.Second / 60

// Throttler admits at most one call per frame. An admitted call runs fn at the
// end of the frame, and additionally right away in immediate mode. Calls made
// while a frame is in progress are dropped.
type Throttler[T any] struct {
	fn        func(T)
	frame     time.Duration
	immediate bool
	limiter   *rate.Limiter

	mu      sync.Mutex
	pending *time.Timer
}

// NewThrottler returns a Throttler for fn. A non-positive frame selects Frame.
func NewThrottler[T any](fn func(T), frame time.Duration, immediate bool) *Throttler[T] {
	if frame <= 0 {
		frame = Frame
	}
	return &Throttler[T]{
		fn:        fn,
		frame:     frame,
		immediate: immediate,
		limiter:   rate.NewLimiter(rate.Every(frame), 1),
	}
}

// Call offers a call with argument v. It reports whether the call was admitted.
func (t *Throttler[T]) Call(v T) bool {
	if !t.limiter.Allow() {
		return false
	}

	t.mu.Lock()
	t.pending = time.AfterFunc(t.frame, func() {
		t.mu.Lock()
		t.pending = nil
		t.mu.Unlock()
		t.fn(v)
	})
	t.mu.Unlock()

	if t.immediate {
		t.fn(v)
	}
	return true
}

// Stop cancels the trailing execution of the current frame, if any.
func (t *Throttler[T]) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.pending != nil {
		t.pending.Stop()
		t.pending = nil
	}
}

// Throttle wraps a no-argument fn with a Throttler.
func Throttle(fn func(), frame time.Duration, immediate bool) func() {
	t := NewThrottler(func(struct{}) { fn() }, frame, immediate)
	return func() { t.Call(struct{}{}) }
}
