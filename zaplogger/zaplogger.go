// Package zaplogger adapts a zap logger to the logger.Logger contract,
// so an application already standardized on zap can serve as a logging
// backend: register a zaplogger for a category and every call resolved
// to it is forwarded to zap with a comparable severity.
package zaplogger

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/globalmentor/globalmentor-log/core"
	"github.com/globalmentor/globalmentor-log/logger"
)

// Logger forwards log calls to a zap.Logger. Trace has no zap
// counterpart and maps to zap's debug level.
type Logger struct {
	z *zap.Logger
}

var _ logger.Logger = (*Logger)(nil)

// New returns an adapter over the given zap logger. AddCallerSkip is
// applied so zap reports the adapter's caller, not the adapter.
func New(z *zap.Logger) *Logger {
	return &Logger{z: z.WithOptions(zap.AddCallerSkip(2))}
}

// Trace logs at zap's debug level.
func (l *Logger) Trace(v ...any) { l.write(core.TraceLevel, v) }

// TraceStack logs at zap's debug level with a stack field attached.
func (l *Logger) TraceStack(v ...any) {
	msg, fields := render(v)
	fields = append(fields, zap.Stack("stacktrace"))
	l.z.Debug(msg, fields...)
}

// Debug logs at zap's debug level.
func (l *Logger) Debug(v ...any) { l.write(core.DebugLevel, v) }

// Info logs at zap's info level.
func (l *Logger) Info(v ...any) { l.write(core.InfoLevel, v) }

// Warn logs at zap's warn level.
func (l *Logger) Warn(v ...any) { l.write(core.WarnLevel, v) }

// Error logs at zap's error level.
func (l *Logger) Error(v ...any) { l.write(core.ErrorLevel, v) }

// Log dispatches by level; an invalid level panics.
func (l *Logger) Log(level core.Level, v ...any) {
	if !level.Valid() {
		panic(fmt.Sprintf("log: unrecognized level %d", level))
	}
	l.write(level, v)
}

func (l *Logger) write(level core.Level, payload []any) {
	msg, fields := render(payload)
	switch level {
	case core.TraceLevel, core.DebugLevel:
		l.z.Debug(msg, fields...)
	case core.InfoLevel:
		l.z.Info(msg, fields...)
	case core.WarnLevel:
		l.z.Warn(msg, fields...)
	case core.ErrorLevel:
		l.z.Error(msg, fields...)
	}
}

// render splits a payload into the space-joined message of its plain
// elements and zap fields for its error elements, matching how the
// line formatter treats errors specially.
func render(payload []any) (string, []zap.Field) {
	var parts []string
	var fields []zap.Field
	for _, v := range payload {
		switch e := v.(type) {
		case core.RawFlag:
			// Raw mode has no meaning for a structured backend.
		case error:
			fields = append(fields, zap.Error(e))
		default:
			parts = append(parts, fmt.Sprint(v))
		}
	}
	return strings.Join(parts, " "), fields
}
