package diag

import "github.com/joeycumines/logiface"

// FromLogiface adapts a *logiface.Logger[E] into a Logger, mapping Warn to
// logiface's Warning level and Crit to its Critical level. Extra args are
// attached as fields via Builder.Any, alternating key (expected to be a
// string) and value.
func FromLogiface[E logiface.Event](l *logiface.Logger[E]) Logger {
	return logifaceLogger[E]{l: l}
}

type logifaceLogger[E logiface.Event] struct {
	l *logiface.Logger[E]
}

func (x logifaceLogger[E]) Warn(msg string, args ...any) {
	withArgs(x.l.Warning(), args).Log(msg)
}

func (x logifaceLogger[E]) Crit(msg string, args ...any) {
	withArgs(x.l.Crit(), args).Log(msg)
}

func withArgs[E logiface.Event](b *logiface.Builder[E], args []any) *logiface.Builder[E] {
	for i := 0; i+1 < len(args); i += 2 {
		key, ok := args[i].(string)
		if !ok {
			continue
		}
		b = b.Any(key, args[i+1])
	}
	return b
}
