// Package flash tracks which entities changed recently so the presentation
// layer can highlight them transiently.
package flash

import (
	"sort"
	"sync"
	"time"
)

// DefaultTTL is how long an id stays marked.
const DefaultTTL = 800 * time.Millisecond

// Tracker is a set of recently-changed ids. Each mark self-clears after a
// fixed delay; marking an already-marked id is a no-op and does not extend
// or duplicate its timer.
type Tracker struct {
	mu      sync.Mutex
	ttl     time.Duration
	timers  map[string]*time.Timer
	stopped bool
}

// New returns a Tracker clearing marks after ttl (DefaultTTL when <= 0).
func New(ttl time.Duration) *Tracker {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Tracker{ttl: ttl, timers: make(map[string]*time.Timer)}
}

// Mark flags an id as recently changed. Idempotent while the mark is live.
func (t *Tracker) Mark(id string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.stopped {
		return
	}
	if _, ok := t.timers[id]; ok {
		return
	}
	t.timers[id] = time.AfterFunc(t.ttl, func() { t.clear(id) })
}

func (t *Tracker) clear(id string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.timers, id)
}

// IsFlashed reports whether an id is currently marked.
func (t *Tracker) IsFlashed(id string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, ok := t.timers[id]
	return ok
}

// Flashed returns the marked ids, sorted for deterministic output.
func (t *Tracker) Flashed() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	ids := make([]string, 0, len(t.timers))
	for id := range t.timers {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Stop cancels all pending timers and rejects future marks. In-flight clears
// are harmless no-ops.
func (t *Tracker) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stopped = true
	for id, tm := range t.timers {
		tm.Stop()
		delete(t.timers, id)
	}
}
