package admission

import (
	"fmt"
	"sync"
	"time"

	"github.com/joeycumines/vystore-gov/diag"
	"github.com/joeycumines/vystore-gov/internal/sched"
)

// Controller bounds growth of a logical working set: a byte budget shared
// across priorities, plus a token-bucket rate cell per priority. It is not
// safe for concurrent use from multiple goroutines acting as independent
// callers of the *same* logical task slot — see the package doc — but its
// Use method may be called from many goroutines standing in for many
// cooperative tasks, each suspending independently while admission is
// pending.
//
// A Controller must be constructed with New and, once Enable has been
// called, shut down with Close to stop its refill timer.
type Controller struct {
	reclaimer        Reclaimer
	logger           diag.Logger
	clock            sched.Clock
	refillInterval   time.Duration
	tooLongThreshold time.Duration

	mu            sync.Mutex
	closed        bool
	enabled       bool
	limit         int64
	used          int64
	cells         [numPriorities]RateCell
	queues        [numPriorities][]*waitNode
	nextTimestamp uint64

	ticker     sched.Ticker
	tickerStop chan struct{}
	tickerDone chan struct{}
}

// New constructs a Controller with the given byte limit. The quota starts
// disabled: Use always admits (though used is still tracked) until Enable
// is called. reclaimer may be nil, in which case exceeding the limit is
// tracked but nothing is notified.
func New(limit int64, reclaimer Reclaimer, opts ...Option) (*Controller, error) {
	if limit < 0 {
		return nil, fmt.Errorf("admission: limit must be >= 0, got %d", limit)
	}
	o := resolveOptions(opts)
	return &Controller{
		reclaimer:        reclaimer,
		logger:           o.logger,
		clock:            o.clock,
		refillInterval:   o.refillInterval,
		tooLongThreshold: o.tooLongThreshold,
		limit:            limit,
	}, nil
}

// Enable switches the controller into enforcing mode: Use begins blocking
// callers that would exceed the limit or an applicable rate cell, and the
// refill timer starts. If used already exceeds limit at the moment of the
// transition, the reclaimer is notified immediately. Calling Enable more
// than once, or after Close, is a no-op.
func (c *Controller) Enable() {
	c.mu.Lock()
	if c.closed || c.enabled {
		c.mu.Unlock()
		return
	}
	c.enabled = true
	c.ticker = c.clock.NewTicker(c.refillInterval)
	c.tickerStop = make(chan struct{})
	c.tickerDone = make(chan struct{})
	go c.refillLoop(c.ticker, c.tickerStop, c.tickerDone)
	exceeded := c.used > c.limit
	used, limit, reclaimer := c.used, c.limit, c.reclaimer
	c.mu.Unlock()

	if exceeded && reclaimer != nil {
		reclaimer.OnExceeded(used, limit)
	}
}

// Close stops the refill timer and marks the controller closed; every
// subsequent Use returns ErrClosed. The other methods have no error result
// and do not check for Close. Idempotent.
func (c *Controller) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	stop, done := c.tickerStop, c.tickerDone
	c.mu.Unlock()

	if stop != nil {
		close(stop)
		<-done
	}
	return nil
}

func (c *Controller) refillLoop(ticker sched.Ticker, stop, done chan struct{}) {
	defer close(done)
	for {
		select {
		case <-ticker.C():
			c.mu.Lock()
			for i := range c.cells {
				c.cells[i].refill(c.refillInterval)
			}
			c.signalLocked()
			c.mu.Unlock()
		case <-stop:
			ticker.Stop()
			return
		}
	}
}

// SetLimit updates the byte limit, checks whether used now exceeds it, and
// signals the wait queue (a higher limit may admit a waiting head).
func (c *Controller) SetLimit(limit int64) {
	c.mu.Lock()
	c.limit = limit
	c.signalLocked()
	exceeded := c.enabled && c.used > c.limit
	used, lim, reclaimer := c.used, c.limit, c.reclaimer
	c.mu.Unlock()

	if exceeded && reclaimer != nil {
		reclaimer.OnExceeded(used, lim)
	}
}

// SetRateLimit updates the rate cell at prio. A rate <= 0 means unlimited.
// Use PriorityAll to address the cell shared by every priority (see
// DESIGN.md for the resolved Open Question).
func (c *Controller) SetRateLimit(prio Priority, rate float64) {
	c.mu.Lock()
	c.cells[prio].setRate(rate)
	c.signalLocked()
	c.mu.Unlock()
}

// ForceUse unconditionally charges size to used and to every rate cell at
// or above prio, then checks the limit — it never blocks and is intended
// for paths with no alternative, such as reclamation bookkeeping.
func (c *Controller) ForceUse(prio Priority, size int64) {
	c.mu.Lock()
	c.used += size
	for i := int(prio); i < numPriorities; i++ {
		c.cells[i].debit(size)
	}
	exceeded := c.enabled && c.used > c.limit
	used, limit, reclaimer := c.used, c.limit, c.reclaimer
	c.mu.Unlock()

	if exceeded && reclaimer != nil {
		reclaimer.OnExceeded(used, limit)
	}
}

// Release subtracts size from used only — releases are not producers, so
// rate cells are not credited — then signals the wait queue.
func (c *Controller) Release(size int64) {
	c.mu.Lock()
	c.used -= size
	if c.used < 0 {
		c.used = 0
	}
	c.signalLocked()
	c.mu.Unlock()
}

// Adjust reconciles a reserve-then-allocate sequence at priority prio: if
// reserved exceeds usedActual, the delta is released from both used and
// the rate cells and the queue is signalled; if usedActual exceeds
// reserved, the delta is charged to both and the limit is re-checked.
func (c *Controller) Adjust(prio Priority, reserved, usedActual int64) {
	delta := reserved - usedActual
	c.mu.Lock()
	switch {
	case delta > 0:
		c.used -= delta
		if c.used < 0 {
			c.used = 0
		}
		for i := int(prio); i < numPriorities; i++ {
			c.cells[i].credit(delta)
		}
		c.signalLocked()
		c.mu.Unlock()

	case delta < 0:
		charge := -delta
		c.used += charge
		for i := int(prio); i < numPriorities; i++ {
			c.cells[i].debit(charge)
		}
		exceeded := c.enabled && c.used > c.limit
		used, limit, reclaimer := c.used, c.limit, c.reclaimer
		c.mu.Unlock()
		if exceeded && reclaimer != nil {
			reclaimer.OnExceeded(used, limit)
		}

	default:
		c.mu.Unlock()
	}
}

// Use requests admission of size bytes at priority prio, waiting up to
// timeout for capacity and rate to allow it. It returns nil on admission,
// ErrQuotaTimeout if the deadline passed while waiting, or an
// *OutOfMemoryError if size alone exceeds the configured limit (a
// capacity-fatal condition the caller should not retry without raising the
// limit).
func (c *Controller) Use(prio Priority, size int64, timeout time.Duration) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	if c.mayUseLocked(prio, size) {
		c.doUseLocked(prio, size)
		c.mu.Unlock()
		return nil
	}
	if size > c.limit {
		limit := c.limit
		c.mu.Unlock()
		return &OutOfMemoryError{Region: prio.String(), Size: size, Limit: limit}
	}

	now := c.clock.Now()
	deadline := now.Add(timeout)
	c.nextTimestamp++
	node := &waitNode{
		prio:       prio,
		size:       size,
		timestamp:  c.nextTimestamp,
		enqueuedAt: now,
		waiter:     sched.NewWaiter(),
	}
	c.queues[prio] = append(c.queues[prio], node)
	c.mu.Unlock()

	for {
		c.mu.Lock()
		exceeded := c.used+size > c.limit
		used, limit, reclaimer := c.used, c.limit, c.reclaimer
		c.mu.Unlock()

		if exceeded && reclaimer != nil {
			reclaimer.OnExceeded(used, limit)
		}

		node.waiter.Wait(c.clock, deadline)

		c.mu.Lock()
		if !c.clock.Now().Before(deadline) {
			c.removeFromQueueLocked(node)
			c.mu.Unlock()
			return ErrQuotaTimeout
		}
		if c.mayUseLocked(prio, size) {
			c.removeFromQueueLocked(node)
			waited := c.clock.Now().Sub(node.enqueuedAt)
			c.doUseLocked(prio, size)
			c.signalLocked()
			c.mu.Unlock()

			if waited > c.tooLongThreshold {
				c.logger.Warn("admission wait exceeded threshold", "size", size, "seconds", waited.Seconds())
			}
			return nil
		}
		c.mu.Unlock()
	}
}

// mayUseLocked reports whether size bytes at prio can be admitted right
// now: the quota must be disabled, or used+size must fit within limit and
// every rate cell at or above prio must have credit.
func (c *Controller) mayUseLocked(prio Priority, size int64) bool {
	if !c.enabled {
		return true
	}
	if c.used+size > c.limit {
		return false
	}
	for i := int(prio); i < numPriorities; i++ {
		if !c.cells[i].admits() {
			return false
		}
	}
	return true
}

func (c *Controller) doUseLocked(prio Priority, size int64) {
	c.used += size
	for i := int(prio); i < numPriorities; i++ {
		c.cells[i].debit(size)
	}
}

// signalLocked wakes at most one waiting caller: among the head of every
// non-empty queue that would currently pass mayUseLocked, the one with the
// smallest timestamp (oldest arrival), regardless of priority. The woken
// caller is responsible for calling signal again once it succeeds ("baton
// passing"), which this implementation achieves simply by having every
// resumed Use loop iteration re-check and, on success, call signalLocked
// itself.
func (c *Controller) signalLocked() {
	var chosen *waitNode
	for p := 0; p < numPriorities; p++ {
		q := c.queues[p]
		if len(q) == 0 {
			continue
		}
		head := q[0]
		if !c.mayUseLocked(head.prio, head.size) {
			continue
		}
		if chosen == nil || head.timestamp < chosen.timestamp {
			chosen = head
		}
	}
	if chosen != nil {
		chosen.waiter.Wake()
	}
}

func (c *Controller) removeFromQueueLocked(node *waitNode) {
	q := c.queues[node.prio]
	for i, n := range q {
		if n == node {
			c.queues[node.prio] = append(q[:i], q[i+1:]...)
			return
		}
	}
}
