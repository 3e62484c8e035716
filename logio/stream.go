package logio

import (
	"io"
	"sync"

	"github.com/globalmentor/globalmentor-log/core"
	"github.com/globalmentor/globalmentor-log/logger"
)

// EndOfTransmission is logged once when a decorated stream ends.
const EndOfTransmission = "␄" // ␄

// Reader decorates an io.Reader, mirroring every byte read to a log in
// raw mode so the stream content appears verbatim, and logging the
// end-of-transmission symbol once when the stream is exhausted.
type Reader struct {
	r     io.Reader
	log   logger.Logger
	level core.Level
	eof   sync.Once
}

// NewReader returns a decorated reader logging at the given level.
func NewReader(r io.Reader, log logger.Logger, level core.Level) *Reader {
	return &Reader{r: r, log: log, level: level}
}

func (r *Reader) Read(p []byte) (int, error) {
	n, err := r.r.Read(p)
	if n > 0 {
		r.log.Log(r.level, core.Raw, string(p[:n]))
	}
	if err == io.EOF {
		r.eof.Do(func() {
			r.log.Log(r.level, core.Raw, EndOfTransmission)
		})
	}
	return n, err
}

// Writer decorates an io.Writer, mirroring every byte written to a log
// in raw mode. Close logs the end-of-transmission symbol once and
// closes the underlying writer if it is a closer.
type Writer struct {
	w     io.Writer
	log   logger.Logger
	level core.Level
	end   sync.Once
}

// NewWriter returns a decorated writer logging at the given level.
func NewWriter(w io.Writer, log logger.Logger, level core.Level) *Writer {
	return &Writer{w: w, log: log, level: level}
}

func (w *Writer) Write(p []byte) (int, error) {
	n, err := w.w.Write(p)
	if n > 0 {
		w.log.Log(w.level, core.Raw, string(p[:n]))
	}
	return n, err
}

// Close marks the end of the logged stream.
func (w *Writer) Close() error {
	w.end.Do(func() {
		w.log.Log(w.level, core.Raw, EndOfTransmission)
	})
	if c, ok := w.w.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
