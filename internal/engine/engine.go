// Package engine implements the client-side synchronization core: it owns the
// reconciled local view of the product directory and mediates every read and
// write against it. User intents apply optimistically, mutations queue while
// offline and replay in order on reconnect, and externally-originated changes
// merge into the view from a background poll. The directory's returned record
// always supersedes the local optimistic guess.
package engine

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/fairyhunter13/inventory-dashboard-simulator/internal/directory"
	"github.com/fairyhunter13/inventory-dashboard-simulator/internal/flash"
	"github.com/fairyhunter13/inventory-dashboard-simulator/internal/model"
	"github.com/fairyhunter13/inventory-dashboard-simulator/internal/obs"
)

// Status is the load state of the product view.
type Status string

// View load states.
const (
	StatusIdle      Status = "idle"
	StatusLoading   Status = "loading"
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
)

// Config tunes the engine. Zero values select defaults.
type Config struct {
	PollInterval  time.Duration
	FlashDuration time.Duration
	PageLimit     int
}

// Engine is the synchronization core. All local state is mutated only under
// the engine mutex (single writer); remote calls are made with the mutex
// released, so completions of in-flight work interleave and the last write
// wins at the local-state layer.
type Engine struct {
	svc          directory.Service
	notifier     Notifier
	flash        *flash.Tracker
	pollInterval time.Duration

	mu         sync.Mutex
	order      []string
	byID       map[string]model.Product
	total      int
	totalPages int
	status     Status
	errMsg     string
	filters    model.ListFilters
	selected   string
	queue      []model.PendingOp
	online     bool
	replaying  bool
	closed     bool

	mutations atomic.Uint64
	queued    atomic.Uint64
	replayed  atomic.Uint64
	merged    atomic.Uint64
}

// New constructs an Engine over the given directory service. A nil notifier
// discards notices.
func New(svc directory.Service, n Notifier, cfg Config) *Engine {
	if n == nil {
		n = NopNotifier{}
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 8 * time.Second
	}
	if cfg.PageLimit <= 0 {
		cfg.PageLimit = 10
	}
	return &Engine{
		svc:          svc,
		notifier:     n,
		flash:        flash.New(cfg.FlashDuration),
		pollInterval: cfg.PollInterval,
		byID:         make(map[string]model.Product),
		status:       StatusIdle,
		online:       true,
		filters: model.ListFilters{
			Page:      1,
			Limit:     cfg.PageLimit,
			SortBy:    model.SortByName,
			SortOrder: model.SortAsc,
		},
	}
}

func (e *Engine) notify(kind Kind, msg string) {
	obs.Logger.Info("notice", zap.String("kind", string(kind)), zap.String("message", msg))
	e.notifier.Notify(Notice{Kind: kind, Message: msg, At: time.Now()})
}

// Load fetches the product list with the current filters and replaces the
// local view with the result. This is also the authoritative resync used
// after failed or replayed mutations.
func (e *Engine) Load(ctx context.Context) {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return
	}
	e.status = StatusLoading
	e.errMsg = ""
	f := e.filters
	e.mu.Unlock()

	res, err := e.svc.ListProducts(ctx, f)

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return
	}
	if err != nil {
		e.status = StatusFailed
		e.errMsg = err.Error()
		obs.Logger.Warn("list_load_failed", zap.Error(err))
		return
	}
	e.order = e.order[:0]
	for id := range e.byID {
		delete(e.byID, id)
	}
	for _, p := range res.Items {
		e.order = append(e.order, p.ID)
		e.byID[p.ID] = p
	}
	e.total = res.Total
	e.totalPages = res.TotalPages
	e.status = StatusSucceeded
}

// FilterUpdate is a partial change to the list filters. Nil fields are left
// untouched. Applying any update resets the page to 1.
type FilterUpdate struct {
	Search       *string `json:"search,omitempty"`
	Category     *string `json:"category,omitempty"`
	LowStockOnly *bool   `json:"low_stock_only,omitempty"`
	SortBy       *string `json:"sort_by,omitempty"`
	SortOrder    *string `json:"sort_order,omitempty"`
	Limit        *int    `json:"limit,omitempty"`
}

// SetFilter applies a partial filter update, resets the page to 1, and
// reloads the view.
func (e *Engine) SetFilter(ctx context.Context, u FilterUpdate) {
	e.mu.Lock()
	if u.Search != nil {
		e.filters.Search = *u.Search
	}
	if u.Category != nil {
		e.filters.Category = *u.Category
	}
	if u.LowStockOnly != nil {
		e.filters.LowStockOnly = *u.LowStockOnly
	}
	if u.SortBy != nil {
		e.filters.SortBy = *u.SortBy
	}
	if u.SortOrder != nil {
		e.filters.SortOrder = *u.SortOrder
	}
	if u.Limit != nil && *u.Limit >= 1 {
		e.filters.Limit = *u.Limit
	}
	e.filters.Page = 1
	e.mu.Unlock()
	e.Load(ctx)
}

// SetPage moves to a page, leaving every other filter untouched, and reloads.
func (e *Engine) SetPage(ctx context.Context, page int) {
	if page < 1 {
		page = 1
	}
	e.mu.Lock()
	e.filters.Page = page
	e.mu.Unlock()
	e.Load(ctx)
}

// Select marks a product in the current view as selected. Returns false when
// the id is not in the view.
func (e *Engine) Select(id string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, ok := e.byID[id]; !ok {
		return false
	}
	e.selected = id
	return true
}

// ClearSelection drops the current selection.
func (e *Engine) ClearSelection() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.selected = ""
}

// History is a pass-through to the directory; the engine keeps no history
// cache.
func (e *Engine) History(ctx context.Context, productID string, f model.HistoryFilters) (model.HistoryResult, error) {
	return e.svc.GetHistory(ctx, productID, f)
}

// replace swaps in an authoritative record for an id already in the view.
// Unknown ids are ignored: the record belongs to a page not on display.
// Caller holds the lock.
func (e *Engine) replace(p model.Product) bool {
	if _, ok := e.byID[p.ID]; !ok {
		return false
	}
	e.byID[p.ID] = p
	return true
}

// View is the read-only reconciled state handed to the presentation layer.
type View struct {
	Items       []model.Product   `json:"items"`
	Total       int               `json:"total"`
	TotalPages  int               `json:"total_pages"`
	Status      Status            `json:"status"`
	Error       string            `json:"error,omitempty"`
	Filters     model.ListFilters `json:"filters"`
	SelectedID  string            `json:"selected_id,omitempty"`
	FlashedIDs  []string          `json:"flashed_ids"`
	QueueLength int               `json:"queue_length"`
	Online      bool              `json:"online"`
}

// Snapshot returns a copy of the reconciled view.
func (e *Engine) Snapshot() View {
	e.mu.Lock()
	defer e.mu.Unlock()
	items := make([]model.Product, 0, len(e.order))
	for _, id := range e.order {
		items = append(items, e.byID[id])
	}
	return View{
		Items:       items,
		Total:       e.total,
		TotalPages:  e.totalPages,
		Status:      e.status,
		Error:       e.errMsg,
		Filters:     e.filters,
		SelectedID:  e.selected,
		FlashedIDs:  e.flash.Flashed(),
		QueueLength: len(e.queue),
		Online:      e.online,
	}
}

// Metrics are the engine's operation counters.
type Metrics struct {
	Mutations   uint64 `json:"mutations"`
	Queued      uint64 `json:"queued"`
	Replayed    uint64 `json:"replayed"`
	Merged      uint64 `json:"merged"`
	QueueLength int    `json:"queue_length"`
}

// Metrics returns a snapshot of the engine counters.
func (e *Engine) Metrics() Metrics {
	e.mu.Lock()
	qlen := len(e.queue)
	e.mu.Unlock()
	return Metrics{
		Mutations:   e.mutations.Load(),
		Queued:      e.queued.Load(),
		Replayed:    e.replayed.Load(),
		Merged:      e.merged.Load(),
		QueueLength: qlen,
	}
}

// Close stops the flash timers and makes the completion handlers of any
// still-in-flight calls no-ops. The poll loop is stopped by cancelling the
// context passed to Run.
func (e *Engine) Close() {
	e.mu.Lock()
	e.closed = true
	e.mu.Unlock()
	e.flash.Stop()
}

func lowStockMessage(p model.Product) string {
	return fmt.Sprintf("Low stock alert: %s (%d remaining)", p.Name, p.Stock)
}
