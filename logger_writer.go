package libemit

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"
)

type level int

const (
	LevelDebug level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	default:
		return "ERROR"
	}
}

// writerLogger implements the logger interface on top of an io.Writer.
// Loggers derived through WithField share the writer and its mutex.
type writerLogger struct {
	mu     *sync.Mutex
	writer io.Writer
	min    level
	now    func() time.Time
	fields map[string]any
}

// NewWriterLogger creates a logger that writes lines of at least minLevel to w.
func NewWriterLogger(w io.Writer, minLevel level) logger {
	return &writerLogger{
		mu:     &sync.Mutex{},
		writer: w,
		min:    minLevel,
		now:    time.Now,
		fields: make(map[string]any),
	}
}

func (l *writerLogger) WithField(key string, value any) logger {
	fields := make(map[string]any, len(l.fields)+1)
	for k, v := range l.fields {
		fields[k] = v
	}
	fields[key] = value

	return &writerLogger{
		mu:     l.mu,
		writer: l.writer,
		min:    l.min,
		now:    l.now,
		fields: fields,
	}
}

func (l *writerLogger) formatFields() string {
	if len(l.fields) == 0 {
		return ""
	}

	keys := make([]string, 0, len(l.fields))
	for k := range l.fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(" [")
	for i, k := range keys {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%s=%v", k, l.fields[k])
	}
	b.WriteString("]")
	return b.String()
}

func (l *writerLogger) log(lvl level, msg string) {
	if lvl < l.min {
		return
	}

	timestamp := l.now().Format("2006-01-02 15:04:05")
	line := fmt.Sprintf("[%s] %s%s: %s\n", timestamp, lvl, l.formatFields(), strings.TrimSuffix(msg, "\n"))

	l.mu.Lock()
	defer l.mu.Unlock()
	_, _ = io.WriteString(l.writer, line)
}

func (l *writerLogger) Debug(args ...any) { l.log(LevelDebug, fmt.Sprint(args...)) }

func (l *writerLogger) Debugf(format string, args ...any) {
	l.log(LevelDebug, fmt.Sprintf(format, args...))
}

func (l *writerLogger) Debugln(args ...any) { l.log(LevelDebug, fmt.Sprintln(args...)) }

func (l *writerLogger) Info(args ...any) { l.log(LevelInfo, fmt.Sprint(args...)) }

func (l *writerLogger) Infof(format string, args ...any) {
	l.log(LevelInfo, fmt.Sprintf(format, args...))
}

func (l *writerLogger) Infoln(args ...any) { l.log(LevelInfo, fmt.Sprintln(args...)) }

func (l *writerLogger) Warn(args ...any) { l.log(LevelWarn, fmt.Sprint(args...)) }

func (l *writerLogger) Warnf(format string, args ...any) {
	l.log(LevelWarn, fmt.Sprintf(format, args...))
}

func (l *writerLogger) Warnln(args ...any) { l.log(LevelWarn, fmt.Sprintln(args...)) }

func (l *writerLogger) Error(args ...any) { l.log(LevelError, fmt.Sprint(args...)) }

func (l *writerLogger) Errorf(format string, args ...any) {
	l.log(LevelError, fmt.Sprintf(format, args...))
}

func (l *writerLogger) Errorln(args ...any) { l.log(LevelError, fmt.Sprintln(args...)) }
