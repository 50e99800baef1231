package diag_test

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/joeycumines/logiface"
	"github.com/joeycumines/vystore-gov/diag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingEvent is a minimal logiface.Event implementation for tests,
// following the pattern logiface itself uses for its own mock events
// (every implementation embeds UnimplementedEvent and need only provide
// Level/AddField).
type recordingEvent struct {
	logiface.UnimplementedEvent
	level  logiface.Level
	fields []string
}

func (e *recordingEvent) Level() logiface.Level { return e.level }

func (e *recordingEvent) AddField(key string, val any) {
	e.fields = append(e.fields, fmt.Sprintf("%s=%v", key, val))
}

func (e *recordingEvent) AddMessage(msg string) bool {
	e.fields = append(e.fields, "msg="+msg)
	return true
}

type recordingWriter struct{ buf *bytes.Buffer }

func (w recordingWriter) Write(e *recordingEvent) error {
	fmt.Fprintf(w.buf, "[%v]", e.level)
	for _, f := range e.fields {
		fmt.Fprintf(w.buf, " %s", f)
	}
	fmt.Fprintln(w.buf)
	return nil
}

func newRecordingLogger(buf *bytes.Buffer) *logiface.Logger[*recordingEvent] {
	return logiface.New[*recordingEvent](
		logiface.WithEventFactory[*recordingEvent](logiface.EventFactoryFunc[*recordingEvent](
			func(level logiface.Level) *recordingEvent { return &recordingEvent{level: level} },
		)),
		logiface.WithWriter[*recordingEvent](recordingWriter{buf: buf}),
		logiface.WithLevel[*recordingEvent](logiface.LevelTrace),
	)
}

func TestFromLogiface_WarnAndCrit(t *testing.T) {
	var buf bytes.Buffer
	l := diag.FromLogiface[*recordingEvent](newRecordingLogger(&buf))

	l.Warn("too long", "seconds", 5)
	l.Crit("evicting replica", "replica", "r1")

	out := buf.String()
	assert.Contains(t, out, "seconds=5")
	assert.Contains(t, out, "msg=too long")
	assert.Contains(t, out, "replica=r1")
	assert.Contains(t, out, "msg=evicting replica")
}

func TestFromLogiface_DisabledLoggerIsSafe(t *testing.T) {
	var buf bytes.Buffer
	base := newRecordingLogger(&buf)
	quiet := logiface.New[*recordingEvent](
		logiface.WithEventFactory[*recordingEvent](logiface.EventFactoryFunc[*recordingEvent](
			func(level logiface.Level) *recordingEvent { return &recordingEvent{level: level} },
		)),
		logiface.WithWriter[*recordingEvent](recordingWriter{buf: &buf}),
		logiface.WithLevel[*recordingEvent](logiface.LevelDisabled),
	)
	require.NotNil(t, base)

	l := diag.FromLogiface[*recordingEvent](quiet)
	assert.NotPanics(t, func() {
		l.Warn("should not appear")
		l.Crit("should not appear either")
	})
	assert.Empty(t, buf.String())
}
