package timing

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type recorder struct {
	mu   sync.Mutex
	seen []int
}

func (r *recorder) record(v int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seen = append(r.seen, v)
}

func (r *recorder) values() []int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]int(nil), r.seen...)
}

func TestDebouncer_Trailing(t *testing.T) {
	var rec recorder
	d := NewDebouncer(rec.record, 100*time.Millisecond, false)

	for i := 1; i <= 5; i++ {
		d.Call(i)
		time.Sleep(5 * time.Millisecond)
	}
	assert.Empty(t, rec.values())

	assert.Eventually(t, func() bool { return len(rec.values()) == 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, []int{5}, rec.values())
}

func TestDebouncer_Immediate(t *testing.T) {
	var rec recorder
	d := NewDebouncer(rec.record, 50*time.Millisecond, true)

	d.Call(1)
	d.Call(2)
	d.Call(3)
	assert.Equal(t, []int{1}, rec.values())

	time.Sleep(150 * time.Millisecond)
	assert.Equal(t, []int{1}, rec.values())

	d.Call(4)
	assert.Equal(t, []int{1, 4}, rec.values())
}

func TestDebouncer_Stop(t *testing.T) {
	var rec recorder
	d := NewDebouncer(rec.record, 30*time.Millisecond, false)

	d.Call(1)
	d.Stop()

	time.Sleep(100 * time.Millisecond)
	assert.Empty(t, rec.values())
}

func TestDebounce_DefaultDelay(t *testing.T) {
	var n atomic.Int32
	call, stop := Debounce(func() { n.Add(1) }, 0, false)
	defer stop()

	call()
	call()
	assert.Eventually(t, func() bool { return n.Load() == 1 }, time.Second, 5*time.Millisecond)
}

func TestThrottler_DropsWithinFrame(t *testing.T) {
	var rec recorder
	th := NewThrottler(rec.record, 80*time.Millisecond, false)

	assert.True(t, th.Call(1))
	assert.False(t, th.Call(2))
	assert.False(t, th.Call(3))
	assert.Empty(t, rec.values())

	assert.Eventually(t, func() bool { return len(rec.values()) == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, []int{1}, rec.values())
}

func TestThrottler_Immediate(t *testing.T) {
	var rec recorder
	th := NewThrottler(rec.record, 50*time.Millisecond, true)

	th.Call(7)
	assert.Equal(t, []int{7}, rec.values())

	assert.Eventually(t, func() bool { return len(rec.values()) == 2 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, []int{7, 7}, rec.values())
}

func TestThrottler_AdmitsAgainAfterFrame(t *testing.T) {
	var n atomic.Int32
	call := Throttle(func() { n.Add(1) }, 20*time.Millisecond, false)

	call()
	time.Sleep(60 * time.Millisecond)
	call()

	assert.Eventually(t, func() bool { return n.Load() == 2 }, time.Second, 5*time.Millisecond)
}

func TestThrottler_Stop(t *testing.T) {
	var rec recorder
	th := NewThrottler(rec.record, 30*time.Millisecond, false)

	th.Call(1)
	th.Stop()

	time.Sleep(100 * time.Millisecond)
	assert.Empty(t, rec.values())
}
