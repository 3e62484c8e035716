package writerpool

import "sync/atomic"

// Stats tracks per-writer counters.
type Stats struct {
	// BlockedTotal counts writes that found the async queue full and
	// fell back to the synchronous path.
	BlockedTotal uint64
	// ProcessedTotal counts records that reached storage.
	ProcessedTotal uint64
}

func (s *Stats) incrementBlocked() {
	atomic.AddUint64(&s.BlockedTotal, 1)
}

func (s *Stats) incrementProcessed() {
	atomic.AddUint64(&s.ProcessedTotal, 1)
}

// Snapshot is a point-in-time copy of a writer's counters.
type Snapshot struct {
	BlockedTotal   uint64
	ProcessedTotal uint64
}

func (s *Stats) snapshot() Snapshot {
	return Snapshot{
		BlockedTotal:   atomic.LoadUint64(&s.BlockedTotal),
		ProcessedTotal: atomic.LoadUint64(&s.ProcessedTotal),
	}
}
