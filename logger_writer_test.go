package libemit

import (
	"bytes"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFixedWriterLogger(buf *bytes.Buffer, minLevel level) *writerLogger {
	l := NewWriterLogger(buf, minLevel).(*writerLogger)
	l.now = func() time.Time { return time.Date(2024, 3, 1, 10, 20, 30, 0, time.UTC) }
	return l
}

func TestWriterLoggerFormat(t *testing.T) {
	var buf bytes.Buffer
	l := newFixedWriterLogger(&buf, LevelDebug)

	l.WithField("type", "emitter").WithField("event", "x").Infof("added %d", 1)
	l.Warnln("plain")

	assert.Equal(t,
		"[2024-03-01 10:20:30] INFO [event=x, type=emitter]: added 1\n"+
			"[2024-03-01 10:20:30] WARN: plain\n",
		buf.String(),
	)
}

func TestWriterLoggerLevelFilter(t *testing.T) {
	var buf bytes.Buffer
	l := newFixedWriterLogger(&buf, LevelWarn)

	l.Debug("debug")
	l.Info("info")
	l.Warn("warn")
	l.Error("error")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "WARN: warn")
	assert.Contains(t, lines[1], "ERROR: error")
}

func TestWriterLoggerWithFieldDoesNotLeak(t *testing.T) {
	var buf bytes.Buffer
	base := newFixedWriterLogger(&buf, LevelDebug)

	_ = base.WithField("child", true)
	base.Debug("base")

	assert.NotContains(t, buf.String(), "child")
}

func TestEmitterLogsStructuralChanges(t *testing.T) {
	var buf bytes.Buffer
	emitter := NewEmitter[string, int](WithLogger(newFixedWriterLogger(&buf, LevelDebug)))
	rec := &recorder{}
	a := rec.listener("A")

	require.NoError(t, emitter.On("x", a))
	require.NoError(t, emitter.On("x", a))
	_, err := emitter.Emit("x")
	require.NoError(t, err)
	emitter.Off("x", a)
	emitter.RemoveEvent("x")

	out := buf.String()
	assert.Contains(t, out, `DEBUG [type=emitter]: listener added to "x" (once=false)`)
	assert.Contains(t, out, `listener already registered on "x", ignoring`)
	assert.Contains(t, out, `dispatching "x" to 1 listener(s)`)
	assert.Contains(t, out, `removed 1 listener(s) from "x"`)
	assert.Contains(t, out, `event "x" removed`)
	assert.Regexp(t, regexp.MustCompile(`^\[2024-03-01 10:20:30\] DEBUG`), out)
}

func TestWithLoggerIgnoresNil(t *testing.T) {
	emitter := NewEmitter[string, int](WithLogger(nil))
	rec := &recorder{}

	assert.NotPanics(t, func() {
		require.NoError(t, emitter.On("x", rec.listener("A")))
		_, _ = emitter.Emit("x")
	})
	assert.Equal(t, []string{"A"}, rec.calls)
}
