package logger

import (
	"fmt"
	"io"
	"sync"
)

// Level is the minimum severity a StdLogger writes.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

// String returns the prefix tag used for the level.
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return fmt.Sprintf("LEVEL(%d)", int(l))
	}
}

// Logger defines the interface for logging messages.
type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}

// Noop returns a do-nothing Logger (null object pattern).
func Noop() Logger { return noopLogger{} }

type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// StdLogger writes "[LEVEL] message" lines to an output writer.
// It is safe for concurrent use.
type StdLogger struct {
	mu    sync.Mutex
	out   io.Writer
	level Level
}

// NewStdLogger creates a new Logger that writes messages at or above level to out.
func NewStdLogger(out io.Writer, level Level) *StdLogger {
	return &StdLogger{
		out:   out,
		level: level,
	}
}

// Debug logs a request-level trace message with [DEBUG] prefix.
func (l *StdLogger) Debug(format string, args ...any) { l.log(LevelDebug, format, args...) }

// Info logs an informational message with [INFO] prefix.
func (l *StdLogger) Info(format string, args ...any) { l.log(LevelInfo, format, args...) }

// Warn logs a warning with [WARN] prefix.
func (l *StdLogger) Warn(format string, args ...any) { l.log(LevelWarn, format, args...) }

// Error logs an error with [ERROR] prefix.
func (l *StdLogger) Error(format string, args ...any) { l.log(LevelError, format, args...) }

func (l *StdLogger) log(level Level, format string, args ...any) {
	if level < l.level {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	_, _ = fmt.Fprintf(l.out, "["+level.String()+"] "+format+"\n", args...)
}
