package sched

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLatch_ExclusiveAndBlocking(t *testing.T) {
	l := NewLatch()
	require.NoError(t, l.Lock(context.Background()))

	unlocked := make(chan struct{})
	go func() {
		require.NoError(t, l.Lock(context.Background()))
		close(unlocked)
		l.Unlock()
	}()

	select {
	case <-unlocked:
		t.Fatal("second Lock succeeded while first holder still held the latch")
	case <-time.After(20 * time.Millisecond):
	}

	l.Unlock()

	select {
	case <-unlocked:
	case <-time.After(time.Second):
		t.Fatal("waiter was never woken after Unlock")
	}
}

func TestLatch_ContextCancellation(t *testing.T) {
	l := NewLatch()
	require.NoError(t, l.Lock(context.Background()))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	err := l.Lock(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestLatch_UnlockWithoutLockPanics(t *testing.T) {
	l := NewLatch()
	require.NoError(t, l.Lock(context.Background()))
	l.Unlock()
	assert.Panics(t, l.Unlock)
}

func TestWaiter_WakeBeforeDeadline(t *testing.T) {
	w := NewWaiter()
	go func() {
		time.Sleep(5 * time.Millisecond)
		w.Wake()
	}()
	woken := w.Wait(RealClock{}, time.Now().Add(time.Second))
	assert.True(t, woken)
}

func TestWaiter_TimesOut(t *testing.T) {
	w := NewWaiter()
	woken := w.Wait(RealClock{}, time.Now().Add(10*time.Millisecond))
	assert.False(t, woken)
}

func TestWaiter_NoDeadlineBlocksUntilWake(t *testing.T) {
	w := NewWaiter()
	done := make(chan bool, 1)
	go func() { done <- w.Wait(RealClock{}, time.Time{}) }()

	select {
	case <-done:
		t.Fatal("waiter resumed before Wake with no deadline set")
	case <-time.After(20 * time.Millisecond):
	}

	w.Wake()
	select {
	case woken := <-done:
		assert.True(t, woken)
	case <-time.After(time.Second):
		t.Fatal("waiter never resumed after Wake")
	}
}

func TestWaiter_WakeIsIdempotent(t *testing.T) {
	w := NewWaiter()
	w.Wake()
	w.Wake()
	assert.True(t, w.Wait(RealClock{}, time.Time{}))
}

func TestWaiter_FakeClockGovernsTimeout(t *testing.T) {
	clock := &recordingFakeClock{now: time.Now()}
	w := NewWaiter()
	woken := w.Wait(clock, clock.now.Add(10*time.Millisecond))
	assert.False(t, woken)
	assert.True(t, clock.timerRequested)
}

// recordingFakeClock is a minimal Clock used only to prove Wait routes its
// sleep through NewTimer rather than the real time package.
type recordingFakeClock struct {
	now            time.Time
	timerRequested bool
}

func (c *recordingFakeClock) Now() time.Time { return c.now }

func (c *recordingFakeClock) NewTicker(d time.Duration) Ticker { return RealClock{}.NewTicker(d) }

func (c *recordingFakeClock) NewTimer(d time.Duration) Timer {
	c.timerRequested = true
	return RealClock{}.NewTimer(d)
}

func TestRealClock(t *testing.T) {
	var c RealClock
	before := time.Now()
	got := c.Now()
	assert.False(t, got.Before(before))

	ticker := c.NewTicker(5 * time.Millisecond)
	defer ticker.Stop()
	select {
	case <-ticker.C():
	case <-time.After(time.Second):
		t.Fatal("ticker never fired")
	}
}
