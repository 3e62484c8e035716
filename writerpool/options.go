package writerpool

import "time"

type options struct {
	async        bool
	queueSize    int
	bufferSize   int
	blockTimeout time.Duration
	drainTimeout time.Duration
	maxOpen      int
	rotation     *rotation
}

type rotation struct {
	maxSizeMB  int
	maxBackups int
	maxAgeDays int
}

func defaultOptions() options {
	return options{
		async:        true,
		queueSize:    1000,
		bufferSize:   4096,
		blockTimeout: 100 * time.Millisecond,
		drainTimeout: 5 * time.Second,
	}
}

// Option configures a Pool.
type Option func(*options)

// WithSync disables the background write goroutine; every Write then
// reaches storage before returning.
func WithSync() Option {
	return func(o *options) { o.async = false }
}

// WithQueueSize sets the capacity of each writer's async queue.
func WithQueueSize(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.queueSize = n
		}
	}
}

// WithBufferSize sets the size of each writer's in-memory buffer.
func WithBufferSize(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.bufferSize = n
		}
	}
}

// WithBlockTimeout bounds how long a Write waits for queue space before
// falling back to a synchronous write.
func WithBlockTimeout(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.blockTimeout = d
		}
	}
}

// WithDrainTimeout bounds how long Close waits for queued records to
// reach storage.
func WithDrainTimeout(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.drainTimeout = d
		}
	}
}

// WithRotation rotates each destination file once it exceeds maxSizeMB
// megabytes, keeping at most maxBackups rotated files for at most
// maxAgeDays days. Zero values disable the respective limit.
func WithRotation(maxSizeMB, maxBackups, maxAgeDays int) Option {
	return func(o *options) {
		o.rotation = &rotation{maxSizeMB: maxSizeMB, maxBackups: maxBackups, maxAgeDays: maxAgeDays}
	}
}

// WithMaxOpen bounds the number of simultaneously open destinations.
// When the bound is exceeded the least recently used writer is closed
// and evicted; a later Get for its path reopens it.
func WithMaxOpen(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.maxOpen = n
		}
	}
}
