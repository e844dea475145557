package store

import (
	"context"
	"log"
	"sync"
	"time"
)

// DefaultDebounce is the quiet period before a pending write fires.
const DefaultDebounce = 300 * time.Millisecond

// DebouncedWriter coalesces bursts of layout edits into a single write.
// A write scheduled while another is pending supersedes it: only the most
// recent record ever reaches the backend. Write failures are logged and
// swallowed; persistence is best-effort by design.
type DebouncedWriter struct {
	store LayoutStore
	delay time.Duration

	mu      sync.Mutex
	timer   *time.Timer
	pending bool
	id      string
	rec     Record
}

// NewDebouncedWriter wraps store with a debounce of delay. A delay of
// zero uses DefaultDebounce.
func NewDebouncedWriter(store LayoutStore, delay time.Duration) *DebouncedWriter {
	if delay <= 0 {
		delay = DefaultDebounce
	}
	return &DebouncedWriter{store: store, delay: delay}
}

// Write schedules rec for persistence, replacing any pending write.
func (w *DebouncedWriter) Write(instanceID string, rec Record) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.id = instanceID
	w.rec = rec
	w.pending = true

	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.delay, w.fire)
}

func (w *DebouncedWriter) fire() {
	w.mu.Lock()
	if !w.pending {
		w.mu.Unlock()
		return
	}
	id, rec := w.id, w.rec
	w.pending = false
	w.mu.Unlock()

	if err := w.store.Save(context.Background(), id, rec); err != nil {
		log.Printf("Layout write for %s failed: %v", id, err)
	}
}

// Flush writes any pending record immediately.
func (w *DebouncedWriter) Flush() {
	w.mu.Lock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.mu.Unlock()
	w.fire()
}

// Close flushes and stops the writer. The underlying store is not closed.
func (w *DebouncedWriter) Close() {
	w.Flush()
}
