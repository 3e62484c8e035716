package logio

import (
	"fmt"
	"strings"
	"sync"

	"github.com/globalmentor/globalmentor-log/core"
	"github.com/globalmentor/globalmentor-log/logger"
)

// barWidth is the number of cells in the rendered progress bar.
const barWidth = 10

// Progress logs an in-place progress bar. Every update is emitted as a
// raw line ending in a carriage return so it overwrites the previous
// one; when the total is reached, the final bar is emitted once with a
// line feed so it persists.
//
//	XXXX...... 42% (420/1000)
//
// A Progress with an unknown total (zero or negative) renders only the
// running count.
type Progress struct {
	log   logger.Logger
	level core.Level
	total int64

	mu      sync.Mutex
	current int64
	done    bool
}

// NewProgress returns a progress bar over the given total, logging at
// the given level.
func NewProgress(log logger.Logger, level core.Level, total int64) *Progress {
	return &Progress{log: log, level: level, total: total}
}

// Add advances the progress by delta and emits an update.
func (p *Progress) Add(delta int64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.set(p.current + delta)
}

// Set moves the progress to an absolute position and emits an update.
func (p *Progress) Set(current int64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.set(current)
}

func (p *Progress) set(current int64) {
	if p.done {
		return
	}
	p.current = current
	line := p.render()
	if p.total > 0 && current >= p.total {
		p.done = true
		p.log.Log(p.level, core.Raw, line+"\n")
		return
	}
	p.log.Log(p.level, core.Raw, line+"\r")
}

func (p *Progress) render() string {
	if p.total <= 0 {
		return fmt.Sprintf("(%d)", p.current)
	}
	// Out-of-range positions render as an empty or full bar; a bad
	// argument must never take the logging path down.
	current := p.current
	if current < 0 {
		current = 0
	}
	if current > p.total {
		current = p.total
	}
	filled := int(current * barWidth / p.total)
	bar := strings.Repeat("X", filled) + strings.Repeat(".", barWidth-filled)
	return fmt.Sprintf("%s %d%% (%d/%d)", bar, current*100/p.total, current, p.total)
}
