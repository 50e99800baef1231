package retention

import "github.com/joeycumines/vystore-gov/diag"

// trackerOptions holds configuration gathered from Option values, applied
// by New.
type trackerOptions struct {
	checkpointCount int
	logger          diag.Logger
}

// Option configures a Tracker at construction time, following this
// module's functional-options convention (see also admission.Option).
type Option interface {
	applyTracker(*trackerOptions)
}

type trackerOptionFunc func(*trackerOptions)

func (f trackerOptionFunc) applyTracker(o *trackerOptions) { f(o) }

// WithCheckpointCount sets the initial number of youngest checkpoints to
// preserve. Must be >= 1; invalid values are ignored (the default of 1
// applies). Can be changed later via Tracker.SetCheckpointCount.
func WithCheckpointCount(n int) Option {
	return trackerOptionFunc(func(o *trackerOptions) {
		if n >= 1 {
			o.checkpointCount = n
		}
	})
}

// WithLogger sets the diagnostics sink used for warnings and critical
// messages (e.g. forced replica eviction). A nil logger (the default)
// discards everything; see diag.FromLogiface to wire a real backend.
func WithLogger(l diag.Logger) Option {
	return trackerOptionFunc(func(o *trackerOptions) {
		o.logger = l
	})
}

func resolveOptions(opts []Option) *trackerOptions {
	o := &trackerOptions{checkpointCount: 1}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt.applyTracker(o)
	}
	if o.logger == nil {
		o.logger = diag.Noop()
	}
	return o
}
