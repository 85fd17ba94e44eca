package engine

import (
	"sync"
	"time"
)

// Kind classifies a user-visible notice.
type Kind string

// Notice kinds.
const (
	KindInfo    Kind = "info"
	KindSuccess Kind = "success"
	KindWarning Kind = "warning"
	KindError   Kind = "error"
)

// Notice is a user-visible message produced by the engine. All remote-call
// failures surface as notices; none escape the engine as faults.
type Notice struct {
	Kind    Kind      `json:"kind"`
	Message string    `json:"message"`
	At      time.Time `json:"at"`
}

// Notifier receives notices. Implementations must not block.
type Notifier interface {
	Notify(n Notice)
}

// NopNotifier discards notices.
type NopNotifier struct{}

// Notify discards n.
func (NopNotifier) Notify(Notice) {}

// Ring keeps the most recent notices for the presentation layer.
type Ring struct {
	mu  sync.Mutex
	max int
	buf []Notice
}

// NewRing returns a Ring holding up to max notices.
func NewRing(max int) *Ring {
	if max <= 0 {
		max = 64
	}
	return &Ring{max: max}
}

// Notify appends n, evicting the oldest notice when full.
func (r *Ring) Notify(n Notice) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.buf = append(r.buf, n)
	if len(r.buf) > r.max {
		r.buf = r.buf[len(r.buf)-r.max:]
	}
}

// Recent returns the held notices, newest first.
func (r *Ring) Recent() []Notice {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Notice, len(r.buf))
	for i, n := range r.buf {
		out[len(r.buf)-1-i] = n
	}
	return out
}
