package core

import "strings"

// Level represents the severity of a log entry. Levels are ordered;
// a minimum level implies itself and every higher severity.
type Level int8

const (
	// TraceLevel indicates the program's execution path.
	TraceLevel Level = iota
	// DebugLevel for useful information, usually verbose.
	DebugLevel
	// InfoLevel for specific events which should be logged but which are
	// adversity-neutral.
	InfoLevel
	// WarnLevel indicates that conditions are possibly adverse.
	WarnLevel
	// ErrorLevel indicates an unexpected condition representing an error.
	ErrorLevel

	levelCount = int(ErrorLevel) + 1
)

// String returns the string representation of the level.
func (l Level) String() string {
	switch l {
	case TraceLevel:
		return "TRACE"
	case DebugLevel:
		return "DEBUG"
	case InfoLevel:
		return "INFO"
	case WarnLevel:
		return "WARN"
	case ErrorLevel:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// Valid reports whether the level is one of the defined severities.
func (l Level) Valid() bool {
	return l >= TraceLevel && l <= ErrorLevel
}

// ParseLevel converts a string to a Level. Unrecognized strings parse
// as InfoLevel.
func ParseLevel(s string) Level {
	switch strings.ToUpper(s) {
	case "TRACE":
		return TraceLevel
	case "DEBUG":
		return DebugLevel
	case "INFO":
		return InfoLevel
	case "WARN", "WARNING":
		return WarnLevel
	case "ERROR":
		return ErrorLevel
	default:
		return InfoLevel
	}
}

// LevelSet is a set of severities, stored as a bitmask. The zero value
// is the empty set; a Dispatcher never holds an empty set and treats
// the zero value as "use the default".
type LevelSet uint8

// AllLevels contains every defined severity.
const AllLevels LevelSet = 1<<levelCount - 1

// NewLevelSet returns a set containing exactly the given levels.
func NewLevelSet(levels ...Level) LevelSet {
	var s LevelSet
	for _, l := range levels {
		s |= 1 << uint(l)
	}
	return s
}

// MinLevelSet returns the set containing the given level and every
// higher severity.
func MinLevelSet(min Level) LevelSet {
	return AllLevels &^ (1<<uint(min) - 1)
}

// Contains reports whether the set includes the given level.
func (s LevelSet) Contains(l Level) bool {
	return s&(1<<uint(l)) != 0
}

// IsEmpty reports whether the set contains no levels.
func (s LevelSet) IsEmpty() bool {
	return s == 0
}

// Levels returns the members of the set in ascending severity order.
func (s LevelSet) Levels() []Level {
	levels := make([]Level, 0, levelCount)
	for l := TraceLevel; l <= ErrorLevel; l++ {
		if s.Contains(l) {
			levels = append(levels, l)
		}
	}
	return levels
}
