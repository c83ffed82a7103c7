package composition

import (
	"sync"
	"time"
)

// Throttle runs fn at most once per interval. The first trigger after a quiet
// interval runs immediately; triggers inside the interval collapse into a single
// trailing run. Runs never overlap, and fn reads live state when it runs, so
// the last run always sees the latest state.
type Throttle struct {
	mu       sync.Mutex
	run      sync.Mutex // held for the duration of fn
	interval time.Duration
	fn       func()
	last     time.Time
	pending  bool

	now   func() time.Time
	after func(time.Duration, func())
}

// NewThrottle creates a throttle on the wall clock.
func NewThrottle(interval time.Duration, fn func()) *Throttle {
	return &Throttle{
		interval: interval,
		fn:       fn,
		now:      time.Now,
		after: func(d time.Duration, f func()) {
			time.AfterFunc(d, f)
		},
	}
}

// Trigger requests a run.
func (t *Throttle) Trigger() {
	t.mu.Lock()
	if t.pending {
		t.mu.Unlock()
		return
	}

	now := t.now()
	elapsed := now.Sub(t.last)
	if t.last.IsZero() || elapsed >= t.interval {
		t.last = now
		t.mu.Unlock()
		t.invoke()
		return
	}

	t.pending = true
	t.mu.Unlock()
	t.after(t.interval-elapsed, t.fire)
}

func (t *Throttle) fire() {
	t.mu.Lock()
	t.pending = false
	t.last = t.now()
	t.mu.Unlock()
	t.invoke()
}

func (t *Throttle) invoke() {
	t.run.Lock()
	defer t.run.Unlock()
	t.fn()
}
