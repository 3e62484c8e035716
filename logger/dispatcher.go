package logger

import (
	"fmt"
	"io"
	"os"
	"sync"
	"sync/atomic"

	"github.com/globalmentor/globalmentor-log/core"
	"github.com/globalmentor/globalmentor-log/formatter"
	"github.com/globalmentor/globalmentor-log/writerpool"
)

// flusher is satisfied by buffered external writers such as
// *bufio.Writer; pooled writers flush internally.
type flusher interface {
	Flush() error
}

// Dispatcher is a configured logger instance. It guards on its level
// set before any formatting, assembles the line, and fans it out to the
// configured destination, the console, and an optional display.
//
// The level set, report set, and console toggle are swapped atomically
// as whole values, so readers never lock. The destination is guarded by
// a mutex and is either a pooled file path or an externally owned
// writer, never both.
type Dispatcher struct {
	levels atomic.Uint32
	report atomic.Uint32
	stdout atomic.Bool

	mu     sync.Mutex
	file   string
	writer io.Writer

	pool    *writerpool.Pool
	display atomic.Pointer[Display]

	// Console streams, replaceable in tests.
	out    io.Writer
	errOut io.Writer
}

// NewDispatcher returns a dispatcher with every level enabled, all
// report fields on, and console output enabled. File destinations are
// resolved through the given pool; a nil pool restricts the dispatcher
// to external writers and the console.
func NewDispatcher(pool *writerpool.Pool) *Dispatcher {
	d := &Dispatcher{
		pool:   pool,
		out:    os.Stdout,
		errOut: os.Stderr,
	}
	d.levels.Store(uint32(core.AllLevels))
	d.report.Store(uint32(core.AllReports))
	d.stdout.Store(true)
	return d
}

// Levels returns the enabled severity set.
func (d *Dispatcher) Levels() core.LevelSet {
	return core.LevelSet(d.levels.Load())
}

// SetLevels replaces the enabled severity set. An empty set is
// rejected; a dispatcher always accepts at least one severity.
func (d *Dispatcher) SetLevels(levels core.LevelSet) *Dispatcher {
	if !levels.IsEmpty() {
		d.levels.Store(uint32(levels))
	}
	return d
}

// SetLevel enables the given severity and all higher ones.
func (d *Dispatcher) SetLevel(min core.Level) *Dispatcher {
	return d.SetLevels(core.MinLevelSet(min))
}

// Report returns the set of fields rendered before the payload.
func (d *Dispatcher) Report() core.ReportSet {
	return core.ReportSet(d.report.Load())
}

// SetReport replaces the set of rendered fields.
func (d *Dispatcher) SetReport(report core.ReportSet) *Dispatcher {
	d.report.Store(uint32(report))
	return d
}

// StandardOutput reports whether lines are mirrored to the console.
func (d *Dispatcher) StandardOutput() bool {
	return d.stdout.Load()
}

// SetStandardOutput toggles console mirroring. Error-level lines go to
// the standard error stream, all others to standard output.
func (d *Dispatcher) SetStandardOutput(enabled bool) *Dispatcher {
	d.stdout.Store(enabled)
	return d
}

// File returns the pooled destination path, or "" if none.
func (d *Dispatcher) File() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.file
}

// SetFile directs output to the given path through the writer pool,
// clearing any external writer. The destination is opened lazily on
// first emit, so an unreachable path surfaces there, not here.
func (d *Dispatcher) SetFile(path string) *Dispatcher {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.file = path
	d.writer = nil
	return d
}

// SetWriter directs output to an externally owned writer, clearing any
// file destination. The dispatcher never closes this writer.
func (d *Dispatcher) SetWriter(w io.Writer) *Dispatcher {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.writer = w
	d.file = ""
	return d
}

// SetDisplay attaches an optional display sink; nil detaches it.
func (d *Dispatcher) SetDisplay(display Display) *Dispatcher {
	if display == nil {
		d.display.Store(nil)
	} else {
		d.display.Store(&display)
	}
	return d
}

// Trace logs at the lowest severity.
func (d *Dispatcher) Trace(v ...any) { d.dispatch(core.TraceLevel, v) }

// TraceStack logs the payload at trace severity, then a stack trace of
// the current location.
func (d *Dispatcher) TraceStack(v ...any) {
	if !d.Levels().Contains(core.TraceLevel) {
		return
	}
	if len(v) > 0 {
		d.dispatch(core.TraceLevel, v)
	}
	d.dispatch(core.TraceLevel, []any{core.CurrentStack()})
}

// Debug logs at debug severity.
func (d *Dispatcher) Debug(v ...any) { d.dispatch(core.DebugLevel, v) }

// Info logs at info severity.
func (d *Dispatcher) Info(v ...any) { d.dispatch(core.InfoLevel, v) }

// Warn logs at warn severity.
func (d *Dispatcher) Warn(v ...any) { d.dispatch(core.WarnLevel, v) }

// Error logs at the highest severity.
func (d *Dispatcher) Error(v ...any) { d.dispatch(core.ErrorLevel, v) }

// Log dispatches to the method for the given level. An invalid level
// indicates an internal invariant violation and panics.
func (d *Dispatcher) Log(level core.Level, v ...any) {
	switch level {
	case core.TraceLevel:
		d.Trace(v...)
	case core.DebugLevel:
		d.Debug(v...)
	case core.InfoLevel:
		d.Info(v...)
	case core.WarnLevel:
		d.Warn(v...)
	case core.ErrorLevel:
		d.Error(v...)
	default:
		panic(fmt.Sprintf("log: unrecognized level %d", level))
	}
}

// dispatch is the single emit path: guard, format, fan out. Formatting
// cost is never paid for a disabled severity.
func (d *Dispatcher) dispatch(level core.Level, payload []any) {
	if !d.Levels().Contains(level) {
		return
	}
	report := d.Report()
	var thread string
	if report.Has(core.ReportThread) {
		thread = core.GoroutineLabel()
	}
	var site core.CallerInfo
	if report.Has(core.ReportLocation) {
		site = core.CallingSite()
	}
	d.emit(level, formatter.Format(level, report, thread, site, payload))
}

// emit fans a formatted line out to the destination, the console, and
// the display. A destination failure is reported to the standard error
// stream and the call still returns normally; logging never propagates
// I/O errors to the caller.
func (d *Dispatcher) emit(level core.Level, line string) {
	if w := d.destination(); w != nil {
		if err := writeAndFlush(w, line); err != nil {
			fmt.Fprintln(d.errOut, "log: write failed:", err)
		}
	}
	if d.stdout.Load() {
		if level == core.ErrorLevel {
			io.WriteString(d.errOut, line)
		} else {
			io.WriteString(d.out, line)
		}
	}
	if p := d.display.Load(); p != nil {
		if display := *p; display.Enabled() {
			display.Append(line)
		}
	}
}

// destination resolves the current sink. Pooled writers are looked up
// on every emit so an evicted or not-yet-opened path is handled here;
// the lookup is a read-locked map hit after the first call.
func (d *Dispatcher) destination() io.Writer {
	d.mu.Lock()
	file, writer := d.file, d.writer
	d.mu.Unlock()

	if writer != nil {
		return writer
	}
	if file == "" || d.pool == nil {
		return nil
	}
	w, err := d.pool.Get(file)
	if err != nil {
		fmt.Fprintln(d.errOut, "log: cannot open destination:", err)
		return nil
	}
	return w
}

func writeAndFlush(w io.Writer, line string) error {
	if _, err := io.WriteString(w, line); err != nil {
		return err
	}
	if f, ok := w.(flusher); ok {
		return f.Flush()
	}
	return nil
}
