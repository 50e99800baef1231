package admission

import (
	"time"

	"github.com/joeycumines/vystore-gov/internal/sched"
)

// waitNode pairs a suspended caller with its requested size and arrival
// order, while it sits in wait_queues[prio]. timestamp is strictly
// increasing over the Controller's lifetime and is the sole tiebreaker
// signal uses across priorities.
type waitNode struct {
	prio       Priority
	size       int64
	timestamp  uint64
	enqueuedAt time.Time
	waiter     *sched.Waiter
}
