package sched

import "time"

// Waiter is a park/wake primitive, standing in for a suspended cooperative
// task's handle. A task parks on Wait and is resumed by exactly one of: a
// call to Wake, or the deadline passing. A Waiter holds at most one pending
// wake: Wakes issued while one is already pending collapse into it, and a
// Wake issued while no Wait is parked (including after a timeout) is kept
// and consumed by the next Wait. One Waiter may be waited on repeatedly.
type Waiter struct {
	wake chan struct{}
}

// NewWaiter returns a ready-to-park Waiter.
func NewWaiter() *Waiter {
	return &Waiter{wake: make(chan struct{}, 1)}
}

// Wake resumes the parked task, or records a pending wake for the next
// Wait if none is parked. Safe to call from any goroutine, any number of
// times; a Wake while one is already pending has no effect.
func (w *Waiter) Wake() {
	select {
	case w.wake <- struct{}{}:
	default:
	}
}

// Wait parks the calling goroutine until Wake is called or deadline is
// reached according to clock (a zero deadline means no deadline). It
// reports whether the resume was due to Wake (true) as opposed to the
// deadline (false). clock governs the sleep itself, not just deadline
// comparisons, so a fake Clock can exercise timeout behavior
// deterministically.
func (w *Waiter) Wait(clock Clock, deadline time.Time) (woken bool) {
	if deadline.IsZero() {
		<-w.wake
		return true
	}
	remaining := deadline.Sub(clock.Now())
	if remaining <= 0 {
		select {
		case <-w.wake:
			return true
		default:
			return false
		}
	}
	timer := clock.NewTimer(remaining)
	defer timer.Stop()
	select {
	case <-w.wake:
		return true
	case <-timer.C():
		return false
	}
}
