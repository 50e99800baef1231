// Package diag defines the diagnostics sink used by the retention tracker
// and admission controller for their warn(fmt,…)/critical(fmt,…) calls,
// plus an adapter onto this module's logging library of choice,
// github.com/joeycumines/logiface.
//
// The interface is intentionally minimal and dependency-free, styled after
// log/slog's Logger.Warn(msg string, args ...any): callers of retention and
// admission are never forced to take on logiface's generics just to supply
// a logger.
package diag

// Logger is the diagnostics sink consumed by retention.Tracker and
// admission.Controller. args are alternating key/value pairs, as accepted
// by log/slog.Logger.
type Logger interface {
	// Warn logs a warning, e.g. a wait that exceeded its configured
	// threshold.
	Warn(msg string, args ...any)
	// Crit logs a critical condition, e.g. the forced eviction of a
	// replica-bound consumer to reclaim disk space.
	Crit(msg string, args ...any)
}

// Noop is a Logger that discards everything. It is the default when no
// Logger is configured.
func Noop() Logger { return noopLogger{} }

type noopLogger struct{}

func (noopLogger) Warn(string, ...any) {}
func (noopLogger) Crit(string, ...any) {}
