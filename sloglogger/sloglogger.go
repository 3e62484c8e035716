// Package sloglogger adapts a standard-library slog logger to the
// logger.Logger contract, for applications that want category-based
// resolution in front of an existing slog handler chain.
package sloglogger

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/globalmentor/globalmentor-log/core"
	"github.com/globalmentor/globalmentor-log/logger"
)

// LevelTrace is the slog level used for trace output, one step below
// slog's own debug level.
const LevelTrace = slog.LevelDebug - 4

// Logger forwards log calls to a slog.Logger.
type Logger struct {
	s *slog.Logger
}

var _ logger.Logger = (*Logger)(nil)

// New returns an adapter over the given slog logger; nil selects
// slog.Default.
func New(s *slog.Logger) *Logger {
	if s == nil {
		s = slog.Default()
	}
	return &Logger{s: s}
}

// Trace logs at LevelTrace.
func (l *Logger) Trace(v ...any) { l.write(core.TraceLevel, v) }

// TraceStack logs at LevelTrace with the current stack as an attribute.
func (l *Logger) TraceStack(v ...any) {
	msg, attrs := render(v)
	attrs = append(attrs, slog.String("stacktrace", core.CurrentStack().String()))
	l.s.LogAttrs(context.Background(), LevelTrace, msg, attrs...)
}

// Debug logs at slog's debug level.
func (l *Logger) Debug(v ...any) { l.write(core.DebugLevel, v) }

// Info logs at slog's info level.
func (l *Logger) Info(v ...any) { l.write(core.InfoLevel, v) }

// Warn logs at slog's warn level.
func (l *Logger) Warn(v ...any) { l.write(core.WarnLevel, v) }

// Error logs at slog's error level.
func (l *Logger) Error(v ...any) { l.write(core.ErrorLevel, v) }

// Log dispatches by level; an invalid level panics.
func (l *Logger) Log(level core.Level, v ...any) {
	if !level.Valid() {
		panic(fmt.Sprintf("log: unrecognized level %d", level))
	}
	l.write(level, v)
}

var slogLevels = map[core.Level]slog.Level{
	core.TraceLevel: LevelTrace,
	core.DebugLevel: slog.LevelDebug,
	core.InfoLevel:  slog.LevelInfo,
	core.WarnLevel:  slog.LevelWarn,
	core.ErrorLevel: slog.LevelError,
}

func (l *Logger) write(level core.Level, payload []any) {
	msg, attrs := render(payload)
	l.s.LogAttrs(context.Background(), slogLevels[level], msg, attrs...)
}

func render(payload []any) (string, []slog.Attr) {
	var parts []string
	var attrs []slog.Attr
	for _, v := range payload {
		switch e := v.(type) {
		case core.RawFlag:
			// Raw mode has no meaning for a structured backend.
		case error:
			attrs = append(attrs, slog.String("error", e.Error()))
		default:
			parts = append(parts, fmt.Sprint(v))
		}
	}
	return strings.Join(parts, " "), attrs
}
