// Package writerpool shares open log destinations between loggers.
//
// A Pool maps canonical file paths to live writers so that any number
// of loggers appending to the same file share a single handle. Writers
// are created lazily on first demand with double-checked locking, start
// a fresh UTF-8 text file with a byte order mark, and by default
// decouple disk writes onto a background goroutine so that slow storage
// never blocks the logging path. Each Write call appends one complete
// record: the write and flush happen as one atomic unit, so records
// from concurrent goroutines never interleave.
//
// The pool never closes a writer during normal operation; destinations
// are expected to live for the whole process. Dispose closes every
// entry exactly once, collecting per-entry failures without letting one
// bad writer prevent the rest from closing.
//
// Options layer policy on top: WithRotation delegates the underlying
// file to lumberjack for size/age-based rotation, and WithMaxOpen
// bounds the number of simultaneously open destinations with LRU
// eviction, the optional memory-pressure policy on top of explicit
// disposal.
package writerpool
