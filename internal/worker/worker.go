// Package worker provides concurrency primitives for parallel video
// analysis.
package worker

// Semaphore provides a counting semaphore for controlling concurrency.
// It limits the number of detection pipelines in flight, each of which
// holds a decoder process and frame buffers.
type Semaphore struct {
	permits chan struct{}
}

// NewSemaphore creates a new semaphore with the given number of permits.
func NewSemaphore(count int) *Semaphore {
	if count <= 0 {
		count = 1
	}
	s := &Semaphore{
		permits: make(chan struct{}, count),
	}
	// Pre-fill the permits
	for i := 0; i < count; i++ {
		s.permits <- struct{}{}
	}
	return s
}

// Release returns a permit to the semaphore.
func (s *Semaphore) Release() {
	select {
	case s.permits <- struct{}{}:
	default:
		// Semaphore is full, this shouldn't happen in normal use
	}
}

// Chan returns the underlying permit channel for use with select.
// This allows context-aware acquisition of permits.
func (s *Semaphore) Chan() <-chan struct{} {
	return s.permits
}

// Progress represents batch analysis progress.
type Progress struct {
	FilesComplete  int
	FilesTotal     int
	FramesComplete int64
}

// Percent returns the completion percentage by file count.
func (p Progress) Percent() float64 {
	if p.FilesTotal == 0 {
		return 0
	}
	return float64(p.FilesComplete) / float64(p.FilesTotal) * 100
}
