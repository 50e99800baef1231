package diag

import (
	"log/slog"

	"github.com/joeycumines/logiface"
	logifaceslog "github.com/joeycumines/logiface-slog"
)

// NewSlogLogger builds a ready-to-use Logger backed by a slog.Handler,
// wiring logiface's generic core to the logiface-slog concrete backend so
// callers who just want "logging to slog" don't need to assemble
// logiface.New/FromLogiface themselves. handler must not be nil.
func NewSlogLogger(handler slog.Handler, opts ...logifaceslog.Option) Logger {
	base := logiface.New[*logifaceslog.Event](logifaceslog.NewLogger(handler, opts...))
	return FromLogiface[*logifaceslog.Event](base)
}
