package logger

import (
	"sync"

	"github.com/globalmentor/globalmentor-log/core"
)

var (
	defaultConfig Configuration
	defaultMu     sync.RWMutex
)

func init() {
	// Zero-value Config: common logger, info level, console output.
	defaultConfig = NewConfiguration(Config{})
}

// Default returns the process-wide configuration backing the
// package-level functions.
func Default() Configuration {
	defaultMu.RLock()
	defer defaultMu.RUnlock()
	return defaultConfig
}

// SetDefault installs a new process-wide configuration and returns the
// previous one, so callers can dispose of it or restore it later.
func SetDefault(c Configuration) Configuration {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	previous := defaultConfig
	defaultConfig = c
	return previous
}

// Package-level convenience functions using the default configuration

// Trace logs at trace severity using the resolved logger
func Trace(v ...any) {
	Default().Logger().Trace(v...)
}

// TraceStack logs at trace severity and appends a stack trace
func TraceStack(v ...any) {
	Default().Logger().TraceStack(v...)
}

// Debug logs at debug severity using the resolved logger
func Debug(v ...any) {
	Default().Logger().Debug(v...)
}

// Info logs at info severity using the resolved logger
func Info(v ...any) {
	Default().Logger().Info(v...)
}

// Warn logs at warn severity using the resolved logger
func Warn(v ...any) {
	Default().Logger().Warn(v...)
}

// Error logs at error severity using the resolved logger
func Error(v ...any) {
	Default().Logger().Error(v...)
}

// Log logs at the given severity using the resolved logger
func Log(level core.Level, v ...any) {
	Default().Logger().Log(level, v...)
}
