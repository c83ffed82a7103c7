package composition

import (
	"sync"
	"testing"
	"time"
)

type fakeClock struct {
	now       time.Time
	scheduled []func()
	delays    []time.Duration
}

func (c *fakeClock) advance(d time.Duration) {
	c.now = c.now.Add(d)
}

func (c *fakeClock) fireAll() {
	pending := c.scheduled
	c.scheduled = nil
	for _, f := range pending {
		f()
	}
}

func newTestThrottle(interval time.Duration, fn func()) (*Throttle, *fakeClock) {
	clock := &fakeClock{now: time.Unix(1000, 0)}
	t := NewThrottle(interval, fn)
	t.now = func() time.Time { return clock.now }
	t.after = func(d time.Duration, f func()) {
		clock.delays = append(clock.delays, d)
		clock.scheduled = append(clock.scheduled, f)
	}
	return t, clock
}

func TestThrottleLeadingRun(t *testing.T) {
	runs := 0
	th, clock := newTestThrottle(30*time.Millisecond, func() { runs++ })

	th.Trigger()
	if runs != 1 {
		t.Fatalf("runs = %d, want immediate run", runs)
	}
	if len(clock.scheduled) != 0 {
		t.Error("leading run should not schedule")
	}
}

func TestThrottleCollapsesBurst(t *testing.T) {
	state := 0
	var seen []int
	th, clock := newTestThrottle(30*time.Millisecond, func() { seen = append(seen, state) })

	th.Trigger()
	for i := 1; i <= 50; i++ {
		state = i
		clock.advance(100 * time.Microsecond)
		th.Trigger()
	}

	if len(clock.scheduled) != 1 {
		t.Fatalf("scheduled = %d, want 1 trailing run", len(clock.scheduled))
	}
	if want := 30*time.Millisecond - 100*time.Microsecond; clock.delays[0] != want {
		t.Errorf("delay = %v, want %v", clock.delays[0], want)
	}

	clock.advance(25 * time.Millisecond)
	clock.fireAll()

	if len(seen) != 2 {
		t.Fatalf("runs = %d, want 2", len(seen))
	}
	if seen[1] != 50 {
		t.Errorf("trailing run saw state %d, want latest 50", seen[1])
	}
}

func TestThrottleRespectsIntervalAfterTrailingRun(t *testing.T) {
	runs := 0
	th, clock := newTestThrottle(30*time.Millisecond, func() { runs++ })

	th.Trigger()
	clock.advance(10 * time.Millisecond)
	th.Trigger()
	clock.advance(20 * time.Millisecond)
	clock.fireAll()

	clock.advance(5 * time.Millisecond)
	th.Trigger()
	if runs != 2 {
		t.Errorf("runs = %d, want 2 before the interval elapses", runs)
	}
	if len(clock.scheduled) != 1 {
		t.Errorf("scheduled = %d, want 1", len(clock.scheduled))
	}

	clock.advance(40 * time.Millisecond)
	clock.fireAll()
	if runs != 3 {
		t.Errorf("runs = %d, want 3", runs)
	}
}

func TestThrottleQuietPeriodRunsImmediately(t *testing.T) {
	runs := 0
	th, clock := newTestThrottle(30*time.Millisecond, func() { runs++ })

	th.Trigger()
	clock.advance(31 * time.Millisecond)
	th.Trigger()

	if runs != 2 || len(clock.scheduled) != 0 {
		t.Errorf("runs = %d, scheduled = %d", runs, len(clock.scheduled))
	}
}

func TestThrottleRunsDoNotOverlap(t *testing.T) {
	var (
		mu     sync.Mutex
		active int
		peak   int
		runs   int
	)
	entered := make(chan struct{}, 2)
	release := make(chan struct{})

	th, clock := newTestThrottle(30*time.Millisecond, func() {
		mu.Lock()
		active++
		peak = max(peak, active)
		runs++
		mu.Unlock()

		entered <- struct{}{}
		<-release

		mu.Lock()
		active--
		mu.Unlock()
	})

	var wg sync.WaitGroup
	wg.Go(th.Trigger)
	<-entered

	clock.advance(10 * time.Millisecond)
	th.Trigger()
	wg.Go(clock.fireAll)

	select {
	case <-entered:
		t.Fatal("trailing run started while the leading run was still going")
	case <-time.After(50 * time.Millisecond):
	}

	close(release)
	select {
	case <-entered:
	case <-time.After(time.Second):
		t.Fatal("trailing run never started")
	}
	wg.Wait()

	if runs != 2 || peak != 1 {
		t.Errorf("runs = %d, peak = %d, want 2 runs one at a time", runs, peak)
	}
}
