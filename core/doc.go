// Package core defines the shared types used across the logging runtime.
//
// It provides the Level type and LevelSet for severity filtering, the
// ReportSet flags that select which metadata fields are rendered on each
// log line, call-site capture that skips this module's own frames, and
// the Raw sentinel that marks a log call as literal output with no
// preface or line terminator (used for same-line progress updates).
package core
