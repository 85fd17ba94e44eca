package engine

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/fairyhunter13/inventory-dashboard-simulator/internal/directory"
	"github.com/fairyhunter13/inventory-dashboard-simulator/internal/model"
	"github.com/fairyhunter13/inventory-dashboard-simulator/internal/obs"
)

// Outcome reports how a stock mutation intent was handled.
type Outcome string

// Stock mutation outcomes.
const (
	OutcomeNoop    Outcome = "noop"
	OutcomeQueued  Outcome = "queued"
	OutcomeApplied Outcome = "applied"
	OutcomeFailed  Outcome = "failed"
)

// AdjustStock handles a stock mutation intent. The optimistic clamp-apply is
// done synchronously before any remote call, so the view never shows a stale
// value while the call is pending. Offline intents queue; online failures
// revert by reloading the full list rather than patching the entity, since a
// concurrent external update could have altered it in the interim.
func (e *Engine) AdjustStock(ctx context.Context, id string, delta int64, note, actor string) (Outcome, error) {
	if delta == 0 {
		return OutcomeNoop, nil
	}
	if actor == "" {
		actor = "unknown"
	}

	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return OutcomeNoop, nil
	}
	if p, ok := e.byID[id]; ok {
		p.Stock = model.ApplyDelta(p.Stock, delta)
		e.byID[id] = p
	}
	if !e.online {
		e.queue = append(e.queue, model.PendingOp{
			ProductID: id,
			Delta:     delta,
			Note:      note,
			Actor:     actor,
			QueuedAt:  time.Now(),
		})
		e.queued.Add(1)
		e.mu.Unlock()
		e.notify(KindInfo, "Update queued – you're offline")
		return OutcomeQueued, nil
	}
	e.mu.Unlock()

	updated, err := e.svc.UpdateStock(ctx, id, delta, note, actor)
	if err != nil {
		e.notify(KindError, "Failed to update stock: "+err.Error())
		e.Load(ctx)
		return OutcomeFailed, err
	}
	e.mutations.Add(1)

	e.mu.Lock()
	if !e.closed && e.replace(updated) {
		e.flash.Mark(updated.ID)
	}
	e.mu.Unlock()

	e.notify(KindSuccess, "Stock updated successfully")
	if updated.LowStock() {
		e.notify(KindWarning, lowStockMessage(updated))
	}
	return OutcomeApplied, nil
}

// SetThreshold updates a product's low-stock threshold. No optimistic change
// is made, so a failure needs no rollback.
func (e *Engine) SetThreshold(ctx context.Context, id string, threshold int64, actor string) (model.Product, error) {
	if actor == "" {
		actor = "unknown"
	}
	updated, err := e.svc.UpdateThreshold(ctx, id, threshold, actor)
	if err != nil {
		e.notify(KindError, "Failed to update threshold: "+err.Error())
		return model.Product{}, err
	}
	e.mu.Lock()
	if !e.closed {
		e.replace(updated)
	}
	e.mu.Unlock()
	e.notify(KindSuccess, "Threshold updated")
	return updated, nil
}

// Create adds a product through the directory and, on success, prepends the
// authoritative record to the view. Nothing is applied optimistically.
func (e *Engine) Create(ctx context.Context, in directory.CreateInput) (model.Product, error) {
	created, err := e.svc.CreateProduct(ctx, in)
	if err != nil {
		e.notify(KindError, "Failed to create product: "+err.Error())
		return model.Product{}, err
	}
	e.mu.Lock()
	if !e.closed {
		e.order = append([]string{created.ID}, e.order...)
		e.byID[created.ID] = created
		e.total++
	}
	e.mu.Unlock()
	e.notify(KindSuccess, "Product created successfully")
	return created, nil
}

// Delete removes a product through the directory and, on success, drops it
// from the view, decrements the total, and clears a matching selection.
func (e *Engine) Delete(ctx context.Context, id string) error {
	if err := e.svc.DeleteProduct(ctx, id); err != nil {
		e.notify(KindError, "Delete failed: "+err.Error())
		return err
	}
	e.mu.Lock()
	if !e.closed {
		if _, ok := e.byID[id]; ok {
			delete(e.byID, id)
			for i, oid := range e.order {
				if oid == id {
					e.order = append(e.order[:i], e.order[i+1:]...)
					break
				}
			}
		}
		e.total--
		if e.selected == id {
			e.selected = ""
		}
	}
	e.mu.Unlock()
	e.notify(KindSuccess, "Product deleted")
	return nil
}

// SetOnline records a connectivity transition. Going offline emits a notice;
// coming back online replays the offline queue.
func (e *Engine) SetOnline(ctx context.Context, online bool) {
	e.mu.Lock()
	if e.closed || online == e.online {
		e.mu.Unlock()
		return
	}
	e.online = online
	e.mu.Unlock()

	if !online {
		e.notify(KindInfo, "You are offline. Changes will sync when reconnected.")
		return
	}
	e.replayQueue(ctx)
}

// replayQueue replays pending operations strictly in enqueue order. Failed
// operations are dropped with a diagnostic, never retried; the queue is
// cleared unconditionally after the pass, and a full refresh reconciles any
// residual optimistic drift.
func (e *Engine) replayQueue(ctx context.Context) {
	e.mu.Lock()
	if e.replaying || len(e.queue) == 0 {
		e.mu.Unlock()
		return
	}
	e.replaying = true
	ops := e.queue
	e.mu.Unlock()

	success := 0
	for _, op := range ops {
		updated, err := e.svc.UpdateStock(ctx, op.ProductID, op.Delta, op.Note, op.Actor)
		if err != nil {
			obs.Logger.Warn("offline_replay_failed",
				zap.String("product_id", op.ProductID),
				zap.Int64("delta", op.Delta),
				zap.Error(err),
			)
			continue
		}
		success++
		e.replayed.Add(1)
		e.mu.Lock()
		if !e.closed && e.replace(updated) {
			e.flash.Mark(updated.ID)
		}
		e.mu.Unlock()
	}

	e.mu.Lock()
	e.queue = nil
	e.replaying = false
	e.mu.Unlock()

	e.notify(KindSuccess, fmt.Sprintf("Synced %d of %d changes", success, len(ops)))
	e.Load(ctx)
}
