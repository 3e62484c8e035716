package logger

import (
	"github.com/globalmentor/globalmentor-log/core"
)

// NameExtension is the conventional filename extension for log files.
const NameExtension = "log"

// Logger is the contract every logging backend satisfies. Any payload
// element may be an error value, which is rendered with its full cause
// chain instead of its plain string form.
type Logger interface {
	// Trace logs at the lowest severity.
	Trace(v ...any)
	// TraceStack logs the payload at trace severity and then,
	// unconditionally, a stack trace of the current location.
	TraceStack(v ...any)
	// Debug logs at debug severity.
	Debug(v ...any)
	// Info logs at info severity.
	Info(v ...any)
	// Warn logs at warn severity.
	Warn(v ...any)
	// Error logs at the highest severity.
	Error(v ...any)
	// Log dispatches to the method for the given level. An invalid
	// level is a programming error and panics.
	Log(level core.Level, v ...any)
}

// Display is an optional additional sink, typically a user-visible text
// area. A Dispatcher appends each emitted line to its display while the
// display is enabled.
type Display interface {
	SetEnabled(enabled bool)
	Enabled() bool
	Append(text string)
}

// Level Re-export type and constants for convenience
type Level = core.Level

const (
	TraceLevel = core.TraceLevel
	DebugLevel = core.DebugLevel
	InfoLevel  = core.InfoLevel
	WarnLevel  = core.WarnLevel
	ErrorLevel = core.ErrorLevel
)

// LevelSet Re-export the severity-set and report-set types so callers
// configuring a Dispatcher rarely need to import core directly.
type LevelSet = core.LevelSet

type ReportSet = core.ReportSet

const (
	ReportLevel    = core.ReportLevel
	ReportTime     = core.ReportTime
	ReportThread   = core.ReportThread
	ReportLocation = core.ReportLocation
	AllReports     = core.AllReports
)

// Raw marks the remainder of a log call as literal output; see core.Raw.
var Raw = core.Raw
