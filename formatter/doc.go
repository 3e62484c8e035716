// Package formatter assembles log lines from a severity, the requested
// report fields, and a variadic payload.
//
// A line consists of a preface (the report fields in level, time,
// thread, location order, space-separated), a " :" separator, and the
// payload elements, each rendered by its default string form. Error
// payloads render their whole cause chain instead: each cause after the
// first is introduced by "Cause:", and errors carrying stack frames
// (github.com/pkg/errors) render the frames tab-indented one per line.
//
// The same path also serves raw, caller-controlled output: a line
// ending in a carriage return, or a call whose first payload element is
// the core.Raw sentinel, is emitted with no preface and no trailing
// line terminator, which is how same-line progress updates come out of
// a single formatting pipeline.
//
// Formatting uses a pooled bytes.Buffer; buffers larger than 64 KiB are
// not returned to the pool to prevent a single large log line from
// permanently inflating memory usage.
package formatter
