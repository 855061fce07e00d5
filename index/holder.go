package index

import (
	"sync"
	"time"
)

// SkippedFile records a compiled file that could not be read.
type SkippedFile struct {
	RelativePath string
	Err          string
}

// ScanStats summarizes one build pass.
type ScanStats struct {
	FilesSeen    int
	FilesIndexed int
	Skipped      []SkippedFile
	Duration     time.Duration
	BuiltAt      time.Time
}

// Snapshot is a fully built, read-only index generation.
type Snapshot struct {
	Units   *UnitIndex
	Classes *ClassSearchIndex
	Stats   ScanStats
}

// Close releases the search index of the snapshot.
func (s *Snapshot) Close() error {
	if s == nil || s.Classes == nil {
		return nil
	}
	return s.Classes.Close()
}

// Holder publishes the current snapshot. Readers run under a read lock so a
// rebuild never closes a snapshot that is still in use.
type Holder struct {
	mu      sync.RWMutex
	current *Snapshot
}

// NewHolder creates a holder publishing initial, which may be nil.
func NewHolder(initial *Snapshot) *Holder {
	return &Holder{current: initial}
}

// View calls fn with the current snapshot. fn must not retain it.
func (h *Holder) View(fn func(s *Snapshot) error) error {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return fn(h.current)
}

// Swap publishes next and closes the previous snapshot.
func (h *Holder) Swap(next *Snapshot) error {
	h.mu.Lock()
	previous := h.current
	h.current = next
	h.mu.Unlock()
	return previous.Close()
}

// Close closes the current snapshot.
func (h *Holder) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	err := h.current.Close()
	h.current = nil
	return err
}
