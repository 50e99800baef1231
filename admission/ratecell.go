package admission

import (
	"time"

	"github.com/joeycumines/vystore-gov/internal/ordered"
)

// RateCell is a token bucket: value accrues at rate per second, clamped to
// a 2x burst cap, and is debited by consumers. A cell with rate <= 0 never
// blocks admission (it is treated as unlimited).
type RateCell struct {
	rate  float64 // tokens (bytes) per second; <=0 means unlimited
	value float64
}

// setRate updates the configured rate. It does not reset the accrued
// value, so in-flight burst credit survives a reconfiguration.
func (c *RateCell) setRate(rate float64) {
	c.rate = rate
}

// unlimited reports whether this cell imposes no rate constraint.
func (c *RateCell) unlimited() bool { return c.rate <= 0 }

// admits reports whether the cell currently has credit to spend. Unlimited
// cells always admit.
func (c *RateCell) admits() bool { return c.unlimited() || c.value > 0 }

// refill applies the bucket's refill law for an elapsed duration dt:
//
//	value <- min(value + rate*dt, 2*rate*dt)
//
// Note the cap is relative to this step's accrual, not an absolute
// ceiling — it bounds how much a single refill tick can credit, which in
// turn bounds burst size to two ticks' worth of traffic.
func (c *RateCell) refill(dt time.Duration) {
	if c.unlimited() || dt <= 0 {
		return
	}
	seconds := dt.Seconds()
	accrued := c.rate * seconds
	c.value = ordered.Min(c.value+accrued, 2*accrued)
}

// debit subtracts size from the cell's value. Unlimited cells are
// unaffected (there is nothing to track).
func (c *RateCell) debit(size int64) {
	if c.unlimited() {
		return
	}
	c.value -= float64(size)
}

// credit is debit's inverse, used by adjust-down to refund an
// over-reservation.
func (c *RateCell) credit(size int64) {
	if c.unlimited() {
		return
	}
	c.value += float64(size)
}
