package directory

import (
	"context"
	"math/rand"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/fairyhunter13/inventory-dashboard-simulator/internal/model"
)

const defaultLimit = 10

// defaultNote backs history entries created without a note.
const defaultNote = "Manual update"

// Latency groups the simulated delays per operation class. Zero values mean
// no delay, which is what tests use.
type Latency struct {
	List   time.Duration
	Get    time.Duration
	Mutate time.Duration
}

// Config tunes the simulator. The zero value gives a no-latency, no-failure
// simulator seeded from the clock.
type Config struct {
	Latency Latency
	Policy  FailurePolicy
	Seed    int64
	Now     func() time.Time
}

// Simulator is the in-memory Service implementation. Products keep their
// insertion order; that order is the tie-break base for the stable sort in
// ListProducts.
type Simulator struct {
	mu       sync.Mutex
	products []model.Product
	history  map[string][]model.HistoryEntry
	latency  Latency
	policy   FailurePolicy
	rng      *rand.Rand
	now      func() time.Time
}

// New returns a Simulator seeded with the initial catalog.
func New(cfg Config) *Simulator {
	if cfg.Policy == nil {
		cfg.Policy = NeverFail{}
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Simulator{
		products: seedProducts(cfg.Now()),
		history:  make(map[string][]model.HistoryEntry),
		latency:  cfg.Latency,
		policy:   cfg.Policy,
		rng:      rand.New(rand.NewSource(seed)),
		now:      cfg.Now,
	}
}

// sleep simulates remote latency, honoring context cancellation.
func (s *Simulator) sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}

func (s *Simulator) indexOf(id string) int {
	for i := range s.products {
		if s.products[i].ID == id {
			return i
		}
	}
	return -1
}

// ListProducts filters, sorts, and paginates the catalog.
func (s *Simulator) ListProducts(ctx context.Context, f model.ListFilters) (model.ListResult, error) {
	if err := s.sleep(ctx, s.latency.List); err != nil {
		return model.ListResult{}, err
	}
	if s.policy.ShouldFail(OpList) {
		return model.ListResult{}, ErrUnavailable
	}

	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 {
		f.Limit = defaultLimit
	}
	if f.SortBy == "" {
		f.SortBy = model.SortByName
	}

	s.mu.Lock()
	filtered := make([]model.Product, 0, len(s.products))
	needle := strings.ToLower(f.Search)
	for _, p := range s.products {
		if needle != "" &&
			!strings.Contains(strings.ToLower(p.Name), needle) &&
			!strings.Contains(strings.ToLower(p.SKU), needle) {
			continue
		}
		if f.Category != "" && p.Category != f.Category {
			continue
		}
		if f.LowStockOnly && !p.LowStock() {
			continue
		}
		filtered = append(filtered, p)
	}
	s.mu.Unlock()

	sortProducts(filtered, f.SortBy, f.SortOrder)

	total := len(filtered)
	totalPages := (total + f.Limit - 1) / f.Limit
	start := (f.Page - 1) * f.Limit
	if start > total {
		start = total
	}
	end := start + f.Limit
	if end > total {
		end = total
	}
	return model.ListResult{
		Items:      filtered[start:end],
		Total:      total,
		Page:       f.Page,
		TotalPages: totalPages,
	}, nil
}

// sortProducts orders products by field, case-insensitively for strings,
// stably so equal keys keep their original relative order.
func sortProducts(items []model.Product, field, order string) {
	less := func(a, b model.Product) bool {
		switch field {
		case model.SortByStock:
			return a.Stock < b.Stock
		case model.SortByPrice:
			return a.Price.Cmp(b.Price) < 0
		case model.SortByLastUpdated:
			return a.LastUpdated.Before(b.LastUpdated)
		case model.SortBySKU:
			return strings.ToLower(a.SKU) < strings.ToLower(b.SKU)
		case model.SortByCategory:
			return strings.ToLower(a.Category) < strings.ToLower(b.Category)
		case model.SortByWarehouse:
			return strings.ToLower(a.Warehouse) < strings.ToLower(b.Warehouse)
		default:
			return strings.ToLower(a.Name) < strings.ToLower(b.Name)
		}
	}
	sort.SliceStable(items, func(i, j int) bool {
		if order == model.SortDesc {
			return less(items[j], items[i])
		}
		return less(items[i], items[j])
	})
}

// GetProduct returns a product by id.
func (s *Simulator) GetProduct(ctx context.Context, id string) (model.Product, error) {
	if err := s.sleep(ctx, s.latency.Get); err != nil {
		return model.Product{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.indexOf(id); i >= 0 {
		return s.products[i], nil
	}
	return model.Product{}, ErrNotFound
}

// CreateProduct prepends a new product to the catalog.
func (s *Simulator) CreateProduct(ctx context.Context, in CreateInput) (model.Product, error) {
	if err := s.sleep(ctx, s.latency.List); err != nil {
		return model.Product{}, err
	}
	if s.policy.ShouldFail(OpCreate) {
		return model.Product{}, ErrUnavailable
	}
	if in.Actor == "" {
		in.Actor = "admin"
	}
	p := model.Product{
		ID:          uuid.NewString(),
		Name:        in.Name,
		SKU:         in.SKU,
		Category:    in.Category,
		Stock:       model.ApplyDelta(0, in.Stock),
		Threshold:   in.Threshold,
		Price:       in.Price,
		Warehouse:   in.Warehouse,
		LastUpdated: s.now(),
		UpdatedBy:   in.Actor,
	}
	s.mu.Lock()
	s.products = append([]model.Product{p}, s.products...)
	s.mu.Unlock()
	return p, nil
}

// UpdateStock applies a clamped delta and records a history entry.
func (s *Simulator) UpdateStock(ctx context.Context, id string, delta int64, note, actor string) (model.Product, error) {
	if err := s.sleep(ctx, s.latency.Mutate); err != nil {
		return model.Product{}, err
	}
	if s.policy.ShouldFail(OpUpdateStock) {
		return model.Product{}, ErrUnavailable
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if i < 0 {
		return model.Product{}, ErrNotFound
	}
	p := s.products[i]
	previous := p.Stock
	p.Stock = model.ApplyDelta(previous, delta)
	p.LastUpdated = s.now()
	p.UpdatedBy = actor
	s.products[i] = p
	s.appendHistory(id, previous, p.Stock, actor, note)
	return p, nil
}

// UpdateThreshold replaces the low-stock threshold.
func (s *Simulator) UpdateThreshold(ctx context.Context, id string, threshold int64, actor string) (model.Product, error) {
	if err := s.sleep(ctx, s.latency.Mutate); err != nil {
		return model.Product{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if i < 0 {
		return model.Product{}, ErrNotFound
	}
	p := s.products[i]
	p.Threshold = threshold
	p.LastUpdated = s.now()
	p.UpdatedBy = actor
	s.products[i] = p
	return p, nil
}

// DeleteProduct removes a product. History is retained for the audit trail.
func (s *Simulator) DeleteProduct(ctx context.Context, id string) error {
	if err := s.sleep(ctx, s.latency.List); err != nil {
		return err
	}
	if s.policy.ShouldFail(OpDelete) {
		return ErrUnavailable
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if i < 0 {
		return ErrNotFound
	}
	s.products = append(s.products[:i], s.products[i+1:]...)
	return nil
}

// GetHistory returns one page of a product's history, newest-first, bounded
// inclusively by the optional start/end timestamps.
func (s *Simulator) GetHistory(ctx context.Context, productID string, f model.HistoryFilters) (model.HistoryResult, error) {
	if err := s.sleep(ctx, s.latency.List); err != nil {
		return model.HistoryResult{}, err
	}
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 {
		f.Limit = defaultLimit
	}

	s.mu.Lock()
	s.ensureHistory(productID)
	entries := make([]model.HistoryEntry, 0, len(s.history[productID]))
	for _, h := range s.history[productID] {
		if f.Start != nil && h.Timestamp.Before(*f.Start) {
			continue
		}
		if f.End != nil && h.Timestamp.After(*f.End) {
			continue
		}
		entries = append(entries, h)
	}
	s.mu.Unlock()

	total := len(entries)
	totalPages := (total + f.Limit - 1) / f.Limit
	start := (f.Page - 1) * f.Limit
	if start > total {
		start = total
	}
	end := start + f.Limit
	if end > total {
		end = total
	}
	return model.HistoryResult{
		Entries:    entries[start:end],
		Total:      total,
		TotalPages: totalPages,
	}, nil
}

// PollExternalChange mutates a random product as if another session changed
// it, and returns the new authoritative record.
func (s *Simulator) PollExternalChange(ctx context.Context) (*model.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.products) == 0 {
		return nil, nil
	}
	i := s.rng.Intn(len(s.products))
	delta := int64(s.rng.Intn(10) - 4)
	p := s.products[i]
	previous := p.Stock
	p.Stock = model.ApplyDelta(previous, delta)
	p.LastUpdated = s.now()
	p.UpdatedBy = "system"
	s.products[i] = p
	s.appendHistory(p.ID, previous, p.Stock, "system", "External sync")
	return &p, nil
}

// appendHistory prepends an entry. Caller holds the lock.
func (s *Simulator) appendHistory(id string, previous, current int64, actor, note string) {
	s.ensureHistory(id)
	if note == "" {
		note = defaultNote
	}
	entry := model.HistoryEntry{
		ID:            uuid.NewString(),
		ProductID:     id,
		PreviousStock: previous,
		NewStock:      current,
		Change:        current - previous,
		User:          actor,
		Note:          note,
		Timestamp:     s.now(),
	}
	s.history[id] = append([]model.HistoryEntry{entry}, s.history[id]...)
}

// ensureHistory lazily fabricates a back-dated history block the first time a
// product's history is touched. Caller holds the lock.
func (s *Simulator) ensureHistory(id string) {
	if _, ok := s.history[id]; ok {
		return
	}
	now := s.now()
	entries := make([]model.HistoryEntry, 0, 20)
	stock := int64(50)
	for i := 0; i < 20; i++ {
		change := int64(s.rng.Intn(20) - 10)
		next := model.ApplyDelta(stock, change)
		entries = append(entries, model.HistoryEntry{
			ID:            uuid.NewString(),
			ProductID:     id,
			PreviousStock: stock,
			NewStock:      next,
			Change:        next - stock,
			User:          historyUsers[s.rng.Intn(len(historyUsers))],
			Note:          historyNotes[s.rng.Intn(len(historyNotes))],
			Timestamp:     now.Add(-time.Hour).Add(-time.Duration(float64(i) * s.rng.Float64() * 3 * 24 * float64(time.Hour))),
		})
		stock = next
	}
	sort.SliceStable(entries, func(a, b int) bool {
		return entries[a].Timestamp.After(entries[b].Timestamp)
	})
	s.history[id] = entries
}
