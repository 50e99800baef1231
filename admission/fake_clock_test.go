package admission

import (
	"sync"
	"time"

	"github.com/joeycumines/vystore-gov/internal/sched"
)

// fakeClock is a manually-advanced Clock for deterministic refill tests.
// Its tickers are fired explicitly via Tick, rather than on a real
// interval.
type fakeClock struct {
	mu      sync.Mutex
	now     time.Time
	tickers []*fakeTicker
}

func newFakeClock(start time.Time) *fakeClock {
	return &fakeClock{now: start}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func (c *fakeClock) NewTicker(d time.Duration) sched.Ticker {
	t := &fakeTicker{ch: make(chan time.Time, 1)}
	c.mu.Lock()
	c.tickers = append(c.tickers, t)
	c.mu.Unlock()
	return t
}

// NewTimer is backed by the real time package: this fake only controls
// Now()/ticker firing explicitly (via Tick), and every test that relies on
// a deadline actually elapsing does so through real-time waits short
// enough not to be flaky, same as the real clock would produce.
func (c *fakeClock) NewTimer(d time.Duration) sched.Timer {
	return realTimerAdapter{time.NewTimer(d)}
}

type realTimerAdapter struct{ t *time.Timer }

func (r realTimerAdapter) C() <-chan time.Time { return r.t.C }
func (r realTimerAdapter) Stop() bool          { return r.t.Stop() }

// Tick advances the clock by d and fires every outstanding ticker once
// without blocking: a tick is dropped if that ticker's one-slot channel
// still holds an unread tick.
func (c *fakeClock) Tick(d time.Duration) {
	c.Advance(d)
	c.mu.Lock()
	tickers := append([]*fakeTicker(nil), c.tickers...)
	c.mu.Unlock()
	now := c.Now()
	for _, t := range tickers {
		t.fire(now)
	}
}

type fakeTicker struct {
	ch chan time.Time
}

func (t *fakeTicker) C() <-chan time.Time { return t.ch }
func (t *fakeTicker) Stop()               {}

func (t *fakeTicker) fire(at time.Time) {
	select {
	case t.ch <- at:
	default:
	}
}
