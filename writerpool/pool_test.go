package writerpool

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestGetSharesWriterPerPath(t *testing.T) {
	p := New(WithSync())
	defer p.Dispose()

	path := filepath.Join(t.TempDir(), "app.log")
	w1, err := p.Get(path)
	require.NoError(t, err)
	w2, err := p.Get(path)
	require.NoError(t, err)
	assert.Same(t, w1, w2)

	// A relative spelling of the same path resolves to the same entry.
	wd, err := os.Getwd()
	require.NoError(t, err)
	rel, err := filepath.Rel(wd, path)
	if err == nil {
		w3, err := p.Get(rel)
		require.NoError(t, err)
		assert.Same(t, w1, w3)
	}
	assert.Equal(t, 1, p.Len())
}

func TestFreshFileGetsByteOrderMark(t *testing.T) {
	p := New(WithSync())
	path := filepath.Join(t.TempDir(), "app.log")

	w, err := p.Get(path)
	require.NoError(t, err)
	_, err = w.Write([]byte("hello\n"))
	require.NoError(t, err)
	require.NoError(t, p.Dispose())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, append(append([]byte{}, utf8BOM...), []byte("hello\n")...), data)
}

func TestExistingFileKeepsSingleByteOrderMark(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "app.log")

	p := New(WithSync())
	w, err := p.Get(path)
	require.NoError(t, err)
	_, err = w.Write([]byte("one\n"))
	require.NoError(t, err)
	require.NoError(t, p.Dispose())

	// A second pool appending to the same file must not add another BOM.
	p2 := New(WithSync())
	w2, err := p2.Get(path)
	require.NoError(t, err)
	_, err = w2.Write([]byte("two\n"))
	require.NoError(t, err)
	require.NoError(t, p2.Dispose())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	want := append(append([]byte{}, utf8BOM...), []byte("one\ntwo\n")...)
	assert.Equal(t, want, data)
}

func TestDisposeIsIdempotentUnderConcurrency(t *testing.T) {
	p := New(WithSync())
	path := filepath.Join(t.TempDir(), "app.log")
	_, err := p.Get(path)
	require.NoError(t, err)

	var wg sync.WaitGroup
	errs := make([]error, 8)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = p.Dispose()
		}(i)
	}
	wg.Wait()
	for _, err := range errs {
		assert.NoError(t, err)
	}
	assert.Equal(t, 0, p.Len())

	_, err = p.Get(path)
	assert.ErrorIs(t, err, ErrDisposed)
}

func TestDisposeOnUnusedPool(t *testing.T) {
	p := New()
	assert.NoError(t, p.Dispose())
	assert.NoError(t, p.Dispose())
}

func TestAsyncWriterDrainsOnDispose(t *testing.T) {
	defer goleak.VerifyNone(t)

	p := New(WithQueueSize(4), WithDrainTimeout(2*time.Second))
	path := filepath.Join(t.TempDir(), "app.log")
	w, err := p.Get(path)
	require.NoError(t, err)

	for i := 0; i < 100; i++ {
		_, err := w.Write([]byte("record\n"))
		require.NoError(t, err)
	}
	require.NoError(t, p.Dispose())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 100, countOccurrences(data, []byte("record\n")))
}

func TestConcurrentWritersDoNotInterleave(t *testing.T) {
	p := New()
	path := filepath.Join(t.TempDir(), "app.log")
	w, err := p.Get(path)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				w.Write([]byte("aaaaaaaaaaaaaaaaaaaa\n"))
			}
		}()
	}
	wg.Wait()
	require.NoError(t, p.Dispose())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 400, countOccurrences(data, []byte("aaaaaaaaaaaaaaaaaaaa\n")))
}

func TestMaxOpenEvictsLeastRecentlyUsed(t *testing.T) {
	p := New(WithSync(), WithMaxOpen(2))
	defer p.Dispose()
	dir := t.TempDir()

	a, err := p.Get(filepath.Join(dir, "a.log"))
	require.NoError(t, err)
	_, err = p.Get(filepath.Join(dir, "b.log"))
	require.NoError(t, err)
	_, err = p.Get(filepath.Join(dir, "c.log"))
	require.NoError(t, err)
	assert.Equal(t, 2, p.Len())

	// The evicted writer was closed; a later Get reopens the path.
	_, err = a.writeSync([]byte("late\n"))
	assert.Error(t, err)
	a2, err := p.Get(filepath.Join(dir, "a.log"))
	require.NoError(t, err)
	assert.NotSame(t, a, a2)
}

func TestRotationDestination(t *testing.T) {
	p := New(WithSync(), WithRotation(1, 2, 0))
	path := filepath.Join(t.TempDir(), "app.log")

	w, err := p.Get(path)
	require.NoError(t, err)
	_, err = w.Write([]byte("rotated destination\n"))
	require.NoError(t, err)
	require.NoError(t, p.Dispose())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "rotated destination")
}

func TestGetUnopenableDestination(t *testing.T) {
	p := New(WithSync())
	defer p.Dispose()

	dir := t.TempDir()
	blocked := filepath.Join(dir, "blocked")
	require.NoError(t, os.WriteFile(blocked, nil, 0o644))

	// The parent "directory" is a regular file, so the destination
	// cannot be created.
	_, err := p.Get(filepath.Join(blocked, "app.log"))
	assert.Error(t, err)
}

func countOccurrences(data, sep []byte) int {
	count := 0
	for i := 0; i+len(sep) <= len(data); {
		if string(data[i:i+len(sep)]) == string(sep) {
			count++
			i += len(sep)
		} else {
			i++
		}
	}
	return count
}
