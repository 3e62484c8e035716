package writerpool

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"
)

type failCloser struct {
	io.Writer
}

func (failCloser) Close() error { return errors.New("close failed") }

func TestCloseDrainsLateArrivals(t *testing.T) {
	path := filepath.Join(t.TempDir(), "late.log")
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY, 0o644)
	require.NoError(t, err)

	// An async writer whose drain goroutine has already exited: a
	// racing Write can still have won the queue send afterwards.
	w := &Writer{
		dest:   f,
		buf:    bufio.NewWriterSize(f, 4096),
		async:  true,
		queue:  make(chan []byte, 4),
		closed: make(chan struct{}),
	}
	w.queue <- []byte("straggler\n")

	require.NoError(t, w.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "straggler\n", string(data))
}

func TestCloseIsIdempotent(t *testing.T) {
	w := newWriter(failCloser{io.Discard}, options{bufferSize: 64})

	first := w.Close()
	require.Error(t, first)
	assert.Equal(t, first, w.Close())
}

func TestDisposeReportsEachCloseFailureOnce(t *testing.T) {
	p := New(WithSync(), WithMaxOpen(2))
	var stderr bytes.Buffer
	p.errOut = &stderr

	w := newWriter(failCloser{io.Discard}, p.opts)
	p.cache.Add("/fake/path.log", w)

	err := p.Dispose()
	require.Error(t, err)
	assert.Len(t, multierr.Errors(err), 1)
	// The failure was aggregated by Dispose; the purge-triggered
	// eviction callback must not report it a second time.
	assert.Zero(t, stderr.Len())
}
