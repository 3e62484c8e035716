package writerpool

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"gopkg.in/natefinch/lumberjack.v2"
)

// ErrDisposed is returned by Get after the pool has been disposed.
var ErrDisposed = errors.New("writerpool: pool disposed")

// utf8BOM is written when a destination file is first created, marking
// it as UTF-8 text.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Pool is a thread-safe cache of open writers keyed by canonical file
// path. The zero value is not usable; construct with New.
type Pool struct {
	mu        sync.RWMutex
	opts      options
	writers   map[string]*Writer
	cache     *lru.Cache[string, *Writer]
	disposed  bool
	disposing bool

	// errOut receives eviction close failures, replaceable in tests.
	errOut io.Writer
}

// New creates an empty pool. Writers are opened lazily by Get.
func New(opts ...Option) *Pool {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	p := &Pool{opts: o, errOut: os.Stderr}
	if o.maxOpen > 0 {
		// The constructor only fails for a non-positive size, which
		// WithMaxOpen already rejects.
		p.cache, _ = lru.NewWithEvict[string, *Writer](o.maxOpen, p.onEvict)
	} else {
		p.writers = make(map[string]*Writer)
	}
	return p
}

// onEvict closes a writer pushed out by the open-destination bound.
// During Dispose the writers are already closed and their failures
// aggregated, so the purge-triggered callbacks stay silent instead of
// reporting the same failure again.
func (p *Pool) onEvict(path string, w *Writer) {
	if p.disposing {
		return
	}
	if err := w.Close(); err != nil {
		fmt.Fprintln(p.errOut, "log: closing evicted writer for", path+":", err)
	}
}

// Get returns the shared writer for the given destination path,
// creating and caching it on first demand. Concurrent callers for the
// same path always receive the same writer.
func (p *Pool) Get(path string) (*Writer, error) {
	key, err := filepath.Abs(path)
	if err != nil {
		return nil, errors.Wrapf(err, "resolve log destination %q", path)
	}

	p.mu.RLock()
	w := p.lookup(key)
	disposed := p.disposed
	p.mu.RUnlock()
	if w != nil {
		return w, nil
	}
	if disposed {
		return nil, ErrDisposed
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.disposed {
		return nil, ErrDisposed
	}
	// A second caller may have created the entry while we upgraded the
	// lock.
	if w := p.lookup(key); w != nil {
		return w, nil
	}
	w, err = p.open(key)
	if err != nil {
		return nil, err
	}
	p.store(key, w)
	return w, nil
}

func (p *Pool) lookup(key string) *Writer {
	if p.cache != nil {
		if w, ok := p.cache.Get(key); ok {
			return w
		}
		return nil
	}
	return p.writers[key]
}

func (p *Pool) store(key string, w *Writer) {
	if p.cache != nil {
		p.cache.Add(key, w)
		return
	}
	p.writers[key] = w
}

// open creates the writer for a destination, injecting the UTF-8 byte
// order mark when establishing a fresh text file. This happens at most
// once per path for the life of the pool, never per write.
func (p *Pool) open(key string) (*Writer, error) {
	if err := os.MkdirAll(filepath.Dir(key), 0o755); err != nil {
		return nil, errors.Wrapf(err, "create log directory for %q", key)
	}

	fresh := true
	if info, err := os.Stat(key); err == nil {
		fresh = info.Size() == 0
	}

	var dest io.WriteCloser
	if r := p.opts.rotation; r != nil {
		dest = &lumberjack.Logger{
			Filename:   key,
			MaxSize:    r.maxSizeMB,
			MaxBackups: r.maxBackups,
			MaxAge:     r.maxAgeDays,
		}
	} else {
		f, err := os.OpenFile(key, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, errors.Wrapf(err, "open log destination %q", key)
		}
		dest = f
	}

	w := newWriter(dest, p.opts)
	if fresh {
		if _, err := w.writeSync(utf8BOM); err != nil {
			w.Close()
			return nil, errors.Wrapf(err, "initialize log destination %q", key)
		}
	}
	return w, nil
}

// Len returns the number of currently open destinations.
func (p *Pool) Len() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.cache != nil {
		return p.cache.Len()
	}
	return len(p.writers)
}

// Dispose closes every pooled writer. A close failure is collected and
// does not prevent the remaining writers from closing; the collected
// failures are returned as one aggregate error. Dispose is idempotent
// and safe to call on a pool that was never used.
func (p *Pool) Dispose() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.disposed {
		return nil
	}
	p.disposed = true
	p.disposing = true

	var err error
	if p.cache != nil {
		for _, w := range p.cache.Values() {
			err = multierr.Append(err, w.Close())
		}
		p.cache.Purge()
	} else {
		for _, w := range p.writers {
			err = multierr.Append(err, w.Close())
		}
		p.writers = nil
	}
	return err
}
