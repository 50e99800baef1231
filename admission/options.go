package admission

import (
	"time"

	"github.com/joeycumines/vystore-gov/diag"
	"github.com/joeycumines/vystore-gov/internal/sched"
)

// controllerOptions holds configuration gathered from Option values,
// applied by New.
type controllerOptions struct {
	logger           diag.Logger
	clock            sched.Clock
	refillInterval   time.Duration
	tooLongThreshold time.Duration
}

// Option configures a Controller at construction time, following this
// module's functional-options convention (see also retention.Option).
type Option interface {
	applyController(*controllerOptions)
}

type controllerOptionFunc func(*controllerOptions)

func (f controllerOptionFunc) applyController(o *controllerOptions) { f(o) }

// WithLogger sets the diagnostics sink used for the too-long-wait warning.
// A nil logger (the default) discards everything.
func WithLogger(l diag.Logger) Option {
	return controllerOptionFunc(func(o *controllerOptions) {
		o.logger = l
	})
}

// WithClock overrides the clock used for rate-cell refill and deadline
// evaluation. Intended for deterministic tests; production callers should
// leave this at its default of sched.RealClock.
func WithClock(c sched.Clock) Option {
	return controllerOptionFunc(func(o *controllerOptions) {
		if c != nil {
			o.clock = c
		}
	})
}

// WithRefillInterval overrides the nominal 100ms refill period T_refill.
func WithRefillInterval(d time.Duration) Option {
	return controllerOptionFunc(func(o *controllerOptions) {
		if d > 0 {
			o.refillInterval = d
		}
	})
}

// WithTooLongThreshold sets the wait duration above which a successful
// admission logs a warning naming the size and elapsed seconds.
func WithTooLongThreshold(d time.Duration) Option {
	return controllerOptionFunc(func(o *controllerOptions) {
		if d > 0 {
			o.tooLongThreshold = d
		}
	})
}

func resolveOptions(opts []Option) *controllerOptions {
	o := &controllerOptions{
		refillInterval:   100 * time.Millisecond,
		tooLongThreshold: 5 * time.Second,
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt.applyController(o)
	}
	if o.logger == nil {
		o.logger = diag.Noop()
	}
	if o.clock == nil {
		o.clock = sched.RealClock{}
	}
	return o
}
