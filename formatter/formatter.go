package formatter

import (
	"bytes"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/globalmentor/globalmentor-log/core"
)

// TimeLayout is the W3C-style timestamp layout used for the time report
// field.
const TimeLayout = "2006-01-02T15:04:05.000-07:00"

// LineSeparator is the platform line terminator appended to every
// non-raw log line.
var LineSeparator = func() string {
	if runtime.GOOS == "windows" {
		return "\r\n"
	}
	return "\n"
}()

// timestamper formats timestamps into a reused scratch buffer. It is
// not safe for concurrent use and is guarded by its own narrow lock so
// that only the format call itself is serialized, not the whole line
// assembly.
type timestamper struct {
	mu      sync.Mutex
	scratch []byte
}

func (ts *timestamper) appendTo(buf *bytes.Buffer, t time.Time) {
	ts.mu.Lock()
	ts.scratch = t.AppendFormat(ts.scratch[:0], TimeLayout)
	buf.Write(ts.scratch)
	ts.mu.Unlock()
}

var stamper timestamper

// now is swapped out by tests that need a fixed timestamp.
var now = time.Now

// bufferPool is a pool of bytes.Buffer to reduce allocations.
var bufferPool = &sync.Pool{
	New: func() interface{} {
		b := new(bytes.Buffer)
		b.Grow(256)
		return b
	},
}

func getBuffer() *bytes.Buffer {
	buf := bufferPool.Get().(*bytes.Buffer)
	buf.Reset()
	return buf
}

func putBuffer(buf *bytes.Buffer) {
	if buf.Cap() > 64*1024 { // Don't keep very large buffers
		return
	}
	bufferPool.Put(buf)
}

// Format builds a single log line. The thread label and call site are
// only rendered when the corresponding report field is requested, so
// callers may pass zero values for fields they know are disabled.
//
// If the first payload element is the core.Raw sentinel, or the
// assembled line ends with a carriage return, the result is the bare
// payload: no preface, no separator, and no trailing line terminator.
// Otherwise the result ends with LineSeparator.
func Format(level core.Level, report core.ReportSet, thread string, site core.CallerInfo, payload []any) string {
	raw := false
	if len(payload) > 0 {
		if _, ok := payload[0].(core.RawFlag); ok {
			raw = true
			payload = payload[1:]
		}
	}

	buf := getBuffer()
	defer putBuffer(buf)

	if report.Has(core.ReportLevel) {
		buf.WriteString(level.String())
	}
	if report.Has(core.ReportTime) {
		pad(buf)
		stamper.appendTo(buf, now())
	}
	if report.Has(core.ReportThread) {
		pad(buf)
		buf.WriteByte('[')
		buf.WriteString(thread)
		buf.WriteByte(']')
	}
	if report.Has(core.ReportLocation) && site.Defined {
		pad(buf)
		buf.WriteString(site.String())
	}

	prefaceLen := -1
	if len(payload) > 0 {
		if buf.Len() > 0 {
			buf.WriteString(" :")
		}
		for i, v := range payload {
			if buf.Len() > 0 {
				buf.WriteByte(' ')
			}
			if i == 0 {
				prefaceLen = buf.Len()
			}
			appendValue(buf, v)
		}
	}
	if prefaceLen < 0 {
		prefaceLen = buf.Len()
	}

	b := buf.Bytes()
	if raw || (len(b) > 0 && b[len(b)-1] == '\r') {
		return string(b[prefaceLen:])
	}
	buf.WriteString(LineSeparator)
	return buf.String()
}

func pad(buf *bytes.Buffer) {
	if buf.Len() > 0 {
		buf.WriteByte(' ')
	}
}

// appendValue renders one payload element. Errors expand into their
// cause chain; everything else uses its default string form.
func appendValue(buf *bytes.Buffer, v any) {
	if err, ok := v.(error); ok && err != nil {
		appendErrorChain(buf, err)
		return
	}
	fmt.Fprint(buf, v)
}
