package fetch

import (
	"sync"
	"time"
)

// percentMultiplier is used to convert a ratio to percentage (0-100).
const percentMultiplier = 100

// Progress tracks the progress of a running batch download.
// It provides thread-safe access to progress metrics for render callbacks.
type Progress struct {
	// TotalItems is the total number of photos to download.
	TotalItems int

	// Succeeded is the number of downloads completed successfully so far.
	Succeeded int

	// Failed is the number of downloads that have failed so far.
	Failed int

	// BytesFetched is the byte total across successful downloads so far.
	BytesFetched int64

	// StartTime is when the run started.
	StartTime time.Time

	// LastUpdateTime is when progress was last recorded.
	LastUpdateTime time.Time

	// mu protects concurrent access to progress fields.
	mu sync.RWMutex
}

// NewProgress creates a progress tracker for totalItems downloads.
func NewProgress(totalItems int) *Progress {
	now := time.Now()
	return &Progress{
		TotalItems:     totalItems,
		StartTime:      now,
		LastUpdateTime: now,
	}
}

// Record counts one finished download.
// This method is thread-safe.
func (p *Progress) Record(o Outcome) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if o.OK() {
		p.Succeeded++
		p.BytesFetched += o.Bytes
	} else {
		p.Failed++
	}
	p.LastUpdateTime = time.Now()
}

// Processed returns the number of finished downloads, successful or not.
func (p *Progress) Processed() int {
	p.mu.RLock()
	defer p.mu.RUnlock()

	return p.Succeeded + p.Failed
}

// PercentComplete returns the completion percentage (0-100).
func (p *Progress) PercentComplete() float64 {
	p.mu.RLock()
	defer p.mu.RUnlock()

	return p.percentCompleteUnsafe()
}

// IsComplete returns true if every download has finished.
func (p *Progress) IsComplete() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()

	return p.Succeeded+p.Failed >= p.TotalItems
}

// ElapsedTime returns the time elapsed since the run started.
func (p *Progress) ElapsedTime() time.Duration {
	p.mu.RLock()
	defer p.mu.RUnlock()

	return time.Since(p.StartTime)
}

// ItemsPerSecond returns the download rate in photos per second.
func (p *Progress) ItemsPerSecond() float64 {
	p.mu.RLock()
	defer p.mu.RUnlock()

	return p.itemsPerSecondUnsafe()
}

// Snapshot returns a thread-safe copy of the current progress state.
func (p *Progress) Snapshot() ProgressSnapshot {
	p.mu.RLock()
	defer p.mu.RUnlock()

	return ProgressSnapshot{
		TotalItems:      p.TotalItems,
		Succeeded:       p.Succeeded,
		Failed:          p.Failed,
		BytesFetched:    p.BytesFetched,
		StartTime:       p.StartTime,
		LastUpdateTime:  p.LastUpdateTime,
		PercentComplete: p.percentCompleteUnsafe(),
		ElapsedTime:     time.Since(p.StartTime),
		ItemsPerSecond:  p.itemsPerSecondUnsafe(),
	}
}

// ProgressSnapshot is an immutable snapshot of progress state.
type ProgressSnapshot struct {
	TotalItems      int
	Succeeded       int
	Failed          int
	BytesFetched    int64
	StartTime       time.Time
	LastUpdateTime  time.Time
	PercentComplete float64
	ElapsedTime     time.Duration
	ItemsPerSecond  float64
}

// percentCompleteUnsafe calculates percent complete without locking.
// Should only be called when already holding the lock.
func (p *Progress) percentCompleteUnsafe() float64 {
	if p.TotalItems == 0 {
		return 0
	}
	return (float64(p.Succeeded+p.Failed) / float64(p.TotalItems)) * percentMultiplier
}

// itemsPerSecondUnsafe calculates photos per second without locking.
// Should only be called when already holding the lock.
func (p *Progress) itemsPerSecondUnsafe() float64 {
	elapsed := time.Since(p.StartTime).Seconds()
	if elapsed == 0 {
		return 0
	}
	return float64(p.Succeeded+p.Failed) / elapsed
}
