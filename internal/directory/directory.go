// Package directory implements the product directory service: the
// authoritative product table and per-product history log. The only
// implementation is an in-memory simulator with injectable latency and
// failure injection; callers depend on the Service interface so tests can
// substitute deterministic fakes.
package directory

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"github.com/fairyhunter13/inventory-dashboard-simulator/internal/model"
)

// Sentinel errors returned by Service operations.
var (
	// ErrNotFound means the entity vanished between view and action.
	ErrNotFound = errors.New("product not found")
	// ErrUnavailable is a transient remote failure. Callers may retry via an
	// explicit reload; the service never retries on its own.
	ErrUnavailable = errors.New("service unavailable")
)

// CreateInput carries the fields of a product creation request.
type CreateInput struct {
	Name      string          `json:"name"`
	SKU       string          `json:"sku"`
	Category  string          `json:"category"`
	Stock     int64           `json:"stock"`
	Threshold int64           `json:"threshold"`
	Price     decimal.Decimal `json:"price"`
	Warehouse string          `json:"warehouse"`
	Actor     string          `json:"actor"`
}

// Service is the directory contract consumed by the sync engine.
type Service interface {
	// ListProducts returns one filtered, sorted page of the catalog.
	ListProducts(ctx context.Context, f model.ListFilters) (model.ListResult, error)
	// GetProduct returns a single product by id.
	GetProduct(ctx context.Context, id string) (model.Product, error)
	// CreateProduct inserts a new product at the head of the catalog.
	CreateProduct(ctx context.Context, in CreateInput) (model.Product, error)
	// UpdateStock applies a signed delta, clamped at zero, records a history
	// entry, and returns the authoritative post-clamp record.
	UpdateStock(ctx context.Context, id string, delta int64, note, actor string) (model.Product, error)
	// UpdateThreshold replaces the low-stock threshold.
	UpdateThreshold(ctx context.Context, id string, threshold int64, actor string) (model.Product, error)
	// DeleteProduct removes a product. Its history is retained.
	DeleteProduct(ctx context.Context, id string) error
	// GetHistory returns one page of a product's stock history, newest-first.
	GetHistory(ctx context.Context, productID string, f model.HistoryFilters) (model.HistoryResult, error)
	// PollExternalChange simulates an out-of-band stock mutation and returns
	// the changed record, or nil when nothing changed. Not deterministic, not
	// idempotent.
	PollExternalChange(ctx context.Context) (*model.Product, error)
}
