package logger

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/globalmentor/globalmentor-log/core"
	"github.com/globalmentor/globalmentor-log/formatter"
	"github.com/globalmentor/globalmentor-log/writerpool"
)

// countingPayload counts how often its string form is rendered, so
// tests can prove that disabled levels pay no formatting cost.
type countingPayload struct {
	renders atomic.Int64
}

func (c *countingPayload) String() string {
	c.renders.Add(1)
	return "payload"
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("disk full")
}

// spyDisplay records appended lines.
type spyDisplay struct {
	enabled bool
	lines   []string
}

func (d *spyDisplay) SetEnabled(enabled bool) { d.enabled = enabled }
func (d *spyDisplay) Enabled() bool           { return d.enabled }
func (d *spyDisplay) Append(text string)      { d.lines = append(d.lines, text) }

// newTestDispatcher returns a dispatcher with captured console streams.
func newTestDispatcher() (*Dispatcher, *bytes.Buffer, *bytes.Buffer) {
	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}
	d := NewDispatcher(nil)
	d.out = out
	d.errOut = errOut
	return d, out, errOut
}

func TestDisabledLevelDoesNoWork(t *testing.T) {
	var sink bytes.Buffer
	d, _, _ := newTestDispatcher()
	d.SetWriter(&sink).SetLevels(core.NewLevelSet(core.ErrorLevel))

	payload := &countingPayload{}
	d.Trace(payload)
	d.Debug(payload)
	d.Info(payload)
	d.Warn(payload)
	d.TraceStack(payload)

	assert.Zero(t, payload.renders.Load())
	assert.Zero(t, sink.Len())

	d.Error(payload)
	assert.Equal(t, int64(1), payload.renders.Load())
}

func TestWarnOnlyLevelReport(t *testing.T) {
	var sink bytes.Buffer
	d, _, _ := newTestDispatcher()
	d.SetWriter(&sink).
		SetStandardOutput(false).
		SetLevels(core.NewLevelSet(core.WarnLevel, core.ErrorLevel)).
		SetReport(core.ReportLevel)

	d.Info("x")
	assert.Zero(t, sink.Len())

	d.Warn("low disk")
	assert.Equal(t, "WARN : low disk"+formatter.LineSeparator, sink.String())
}

func TestConsoleMirroringSplitsByLevel(t *testing.T) {
	d, out, errOut := newTestDispatcher()
	d.SetReport(core.ReportLevel)

	d.Info("regular")
	d.Error("broken")

	assert.Equal(t, "INFO : regular"+formatter.LineSeparator, out.String())
	assert.Equal(t, "ERROR : broken"+formatter.LineSeparator, errOut.String())
}

func TestLogDispatchesByLevel(t *testing.T) {
	var sink bytes.Buffer
	d, _, _ := newTestDispatcher()
	d.SetWriter(&sink).SetStandardOutput(false).
		SetLevel(core.TraceLevel).SetReport(core.ReportLevel)

	d.Log(core.DebugLevel, "d")
	d.Log(core.ErrorLevel, "e")

	lines := strings.Split(strings.TrimSuffix(sink.String(), formatter.LineSeparator), formatter.LineSeparator)
	require.Len(t, lines, 2)
	assert.Equal(t, "DEBUG : d", lines[0])
	assert.Equal(t, "ERROR : e", lines[1])
}

func TestLogPanicsOnUnrecognizedLevel(t *testing.T) {
	d, _, _ := newTestDispatcher()
	assert.Panics(t, func() {
		d.Log(core.Level(99), "boom")
	})
}

func TestWriteFailureIsContained(t *testing.T) {
	d, out, errOut := newTestDispatcher()
	d.SetWriter(failingWriter{}).SetReport(core.ReportLevel)

	assert.NotPanics(t, func() {
		d.Info("hello")
	})
	assert.Contains(t, errOut.String(), "write failed")
	// Console mirroring still emits the line.
	assert.Contains(t, out.String(), "INFO : hello")
}

func TestUnopenableFileDegradesToConsole(t *testing.T) {
	pool := writerpool.New(writerpool.WithSync())
	defer pool.Dispose()

	dir := t.TempDir()
	blocked := filepath.Join(dir, "blocked")
	require.NoError(t, os.WriteFile(blocked, nil, 0o644))

	d, out, errOut := newTestDispatcher()
	d.pool = pool
	d.SetFile(filepath.Join(blocked, "app.log")).SetReport(core.ReportLevel)

	d.Warn("still visible")
	assert.Contains(t, errOut.String(), "cannot open destination")
	assert.Contains(t, out.String(), "WARN : still visible")
}

func TestFileDestination(t *testing.T) {
	pool := writerpool.New(writerpool.WithSync())
	path := filepath.Join(t.TempDir(), "app."+NameExtension)

	d, out, _ := newTestDispatcher()
	d.pool = pool
	d.SetFile(path).SetStandardOutput(false).SetReport(core.ReportLevel)

	d.Warn("persisted")
	require.NoError(t, pool.Dispose())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "WARN : persisted")
	assert.Zero(t, out.Len())
}

func TestSharedDestinationUsesOnePooledWriter(t *testing.T) {
	pool := writerpool.New(writerpool.WithSync())
	defer pool.Dispose()
	path := filepath.Join(t.TempDir(), "shared.log")

	a := NewDispatcher(pool).SetFile(path).SetStandardOutput(false)
	b := NewDispatcher(pool).SetFile(path).SetStandardOutput(false)
	a.Info("first")
	b.Info("second")

	assert.Equal(t, 1, pool.Len())
}

func TestDestinationMutualExclusion(t *testing.T) {
	var sink bytes.Buffer
	d, _, _ := newTestDispatcher()

	d.SetWriter(&sink)
	d.SetFile("app.log")
	assert.Equal(t, "app.log", d.File())

	d.SetWriter(&sink)
	assert.Empty(t, d.File())
}

func TestTraceStackAppendsStack(t *testing.T) {
	var sink bytes.Buffer
	d, _, _ := newTestDispatcher()
	d.SetWriter(&sink).SetStandardOutput(false).
		SetLevel(core.TraceLevel).SetReport(0)

	d.TraceStack("context")

	output := sink.String()
	assert.True(t, strings.HasPrefix(output, "context"+formatter.LineSeparator))
	assert.Contains(t, output, "stack trace:")
}

func TestRawProgressUpdate(t *testing.T) {
	var sink bytes.Buffer
	d, _, _ := newTestDispatcher()
	d.SetWriter(&sink).SetStandardOutput(false)

	d.Info(core.Raw, "progress 50%\r")
	assert.Equal(t, "progress 50%\r", sink.String())
}

func TestDisplayFanOut(t *testing.T) {
	d, _, _ := newTestDispatcher()
	display := &spyDisplay{}
	d.SetDisplay(display).SetReport(core.ReportLevel)

	d.Info("invisible")
	assert.Empty(t, display.lines)

	display.SetEnabled(true)
	d.Info("visible")
	require.Len(t, display.lines, 1)
	assert.Equal(t, "INFO : visible"+formatter.LineSeparator, display.lines[0])
}
