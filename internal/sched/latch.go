package sched

import "context"

// Latch is a mutual exclusion primitive safe to hold across a suspending
// (potentially blocking, potentially long-running) call, such as a WAL or
// snapshot-engine garbage collection callback. It serializes concurrent
// callers without pinning an OS thread to a spinloop: a blocked Lock call
// parks on a channel receive, exactly like a suspended cooperative task
// waiting to be resumed.
//
// The zero value is not usable; construct with NewLatch.
type Latch struct {
	ch chan struct{}
}

// NewLatch returns a ready-to-use, unlocked Latch.
func NewLatch() *Latch {
	l := &Latch{ch: make(chan struct{}, 1)}
	l.ch <- struct{}{}
	return l
}

// Lock acquires the latch, blocking until it is available or ctx is done.
// On ctx cancellation it returns ctx.Err() without having acquired the
// latch.
func (l *Latch) Lock(ctx context.Context) error {
	select {
	case <-l.ch:
		return nil
	default:
	}
	select {
	case <-l.ch:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Unlock releases the latch. It is a programming error to call Unlock
// without a matching successful Lock; like sync.Mutex, it will panic on
// release of an already-unlocked latch.
func (l *Latch) Unlock() {
	select {
	case l.ch <- struct{}{}:
	default:
		panic("sched: unlock of unlocked Latch")
	}
}
