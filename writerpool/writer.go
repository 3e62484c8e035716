package writerpool

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

// Writer is one pooled destination. Many goroutines may write to it
// concurrently; each Write appends one complete record, with write and
// flush performed as a single atomic unit so records never interleave.
//
// In async mode records are handed to a background goroutine through a
// bounded queue. A full queue blocks the caller for at most the
// configured block timeout before falling back to a synchronous write,
// so no record is dropped and no call stalls indefinitely.
type Writer struct {
	mu   sync.Mutex
	dest io.WriteCloser
	buf  *bufio.Writer

	async        bool
	queue        chan []byte
	closed       chan struct{}
	wg           sync.WaitGroup
	blockTimeout time.Duration
	drainTimeout time.Duration

	closeOnce sync.Once
	closeErr  error

	stats Stats
}

func newWriter(dest io.WriteCloser, opts options) *Writer {
	w := &Writer{
		dest:         dest,
		buf:          bufio.NewWriterSize(dest, opts.bufferSize),
		async:        opts.async,
		closed:       make(chan struct{}),
		blockTimeout: opts.blockTimeout,
		drainTimeout: opts.drainTimeout,
	}
	if w.async {
		w.queue = make(chan []byte, opts.queueSize)
		w.wg.Add(1)
		go w.process()
	}
	return w
}

// Write appends one record. In async mode the record is queued and the
// returned error reflects only enqueueing; background write failures
// are reported to the standard error stream.
func (w *Writer) Write(p []byte) (int, error) {
	if !w.async {
		return w.writeSync(p)
	}

	// The caller may reuse p after Write returns.
	record := make([]byte, len(p))
	copy(record, p)

	select {
	case w.queue <- record:
		return len(p), nil
	default:
	}

	// Queue full: wait briefly for space, then write synchronously
	// rather than dropping the record or blocking indefinitely.
	select {
	case w.queue <- record:
		return len(p), nil
	case <-time.After(w.blockTimeout):
		w.stats.incrementBlocked()
		return w.writeSync(p)
	case <-w.closed:
		return w.writeSync(p)
	}
}

// writeSync performs the atomic write+flush pair.
func (w *Writer) writeSync(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	n, err := w.buf.Write(p)
	if err == nil {
		err = w.buf.Flush()
	}
	if err == nil {
		w.stats.incrementProcessed()
	}
	return n, err
}

// process drains the async queue in the background.
func (w *Writer) process() {
	defer w.wg.Done()

	for {
		select {
		case record := <-w.queue:
			w.report(record)
		case <-w.closed:
			// Drain remaining records with a deadline so Close never
			// hangs on slow storage.
			deadline := time.After(w.drainTimeout)
		drainLoop:
			for {
				select {
				case record := <-w.queue:
					w.report(record)
				case <-deadline:
					break drainLoop
				default:
					break drainLoop
				}
			}
			return
		}
	}
}

// report writes one queued record, sending any failure to the standard
// error stream; a log write failure must never take the process down.
func (w *Writer) report(record []byte) {
	if _, err := w.writeSync(record); err != nil {
		fmt.Fprintln(os.Stderr, "log: write failed:", err)
	}
}

// Close stops the background goroutine, drains queued records, flushes
// the buffer, and closes the destination. It is idempotent; later calls
// return the first result.
func (w *Writer) Close() error {
	w.closeOnce.Do(func() {
		if w.async {
			close(w.closed)
			w.wg.Wait()
			// A Write racing Close can still win the queue send after
			// the drain goroutine took its empty-queue exit; pick up
			// such stragglers so no acknowledged record is lost.
		lateDrain:
			for {
				select {
				case record := <-w.queue:
					w.report(record)
				default:
					break lateDrain
				}
			}
		}
		w.mu.Lock()
		defer w.mu.Unlock()
		err := w.buf.Flush()
		if cerr := w.dest.Close(); err == nil {
			err = cerr
		}
		w.closeErr = err
	})
	return w.closeErr
}

// Stats returns a snapshot of the writer's counters.
func (w *Writer) Stats() Snapshot {
	return w.stats.snapshot()
}
