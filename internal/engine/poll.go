package engine

import (
	"context"
	"time"

	"github.com/fairyhunter13/inventory-dashboard-simulator/internal/model"
)

// Run drives the external-change poll until ctx is cancelled. Polling is
// suspended while offline; ticks simply pass.
func (e *Engine) Run(ctx context.Context) {
	t := time.NewTicker(e.pollInterval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			e.pollOnce(ctx)
		}
	}
}

func (e *Engine) pollOnce(ctx context.Context) {
	e.mu.Lock()
	active := e.online && !e.closed
	e.mu.Unlock()
	if !active {
		return
	}
	p, err := e.svc.PollExternalChange(ctx)
	if err != nil || p == nil {
		return
	}
	e.MergeExternal(*p)
}

// MergeExternal folds an externally-originated record into the view,
// replacing in place by id. Records for ids not on display are ignored; an
// external change never inserts. This path never touches the offline queue.
func (e *Engine) MergeExternal(p model.Product) {
	e.mu.Lock()
	if e.closed || !e.replace(p) {
		e.mu.Unlock()
		return
	}
	e.flash.Mark(p.ID)
	e.merged.Add(1)
	e.mu.Unlock()

	if p.LowStock() {
		e.notify(KindWarning, lowStockMessage(p))
	}
}
