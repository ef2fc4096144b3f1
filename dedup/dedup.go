// Package dedup suppresses repeats of identical spot events within a time
// window. Several trusted skimmers routinely report the same station at the
// same frequency within seconds; dropping the repeats keeps the store's
// SQLite hot path quiet without changing its one-record-per-callsign rule.
package dedup

import (
	"sync"
	"time"
)

// sweepInterval bounds how often the seen map is scanned for stale entries.
const sweepInterval = time.Minute

// Window is a mutex-guarded cache of recently seen event hashes.
// A zero or negative window disables suppression.
type Window struct {
	mu        sync.Mutex
	window    time.Duration
	seen      map[uint32]time.Time
	lastSweep time.Time
}

// New creates a suppression window.
func New(window time.Duration) *Window {
	return &Window{
		window: window,
		seen:   make(map[uint32]time.Time),
	}
}

// Duplicate records the event hash and reports whether it was already seen
// within the window. Stale entries are swept opportunistically.
func (w *Window) Duplicate(hash uint32, now time.Time) bool {
	if w.window <= 0 {
		return false
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if now.Sub(w.lastSweep) >= sweepInterval {
		for h, seen := range w.seen {
			if now.Sub(seen) > w.window {
				delete(w.seen, h)
			}
		}
		w.lastSweep = now
	}

	if seen, ok := w.seen[hash]; ok && now.Sub(seen) <= w.window {
		return true
	}
	w.seen[hash] = now
	return false
}
