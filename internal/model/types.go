// Package model defines domain types shared across the service.
package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Categories is the fixed category vocabulary of the catalog.
var Categories = []string{
	"Electronics",
	"Apparel",
	"Food & Beverage",
	"Tools",
	"Office Supplies",
	"Healthcare",
}

// Warehouses lists the known warehouse locations.
var Warehouses = []string{
	"Warehouse A – Chennai",
	"Warehouse B – Mumbai",
	"Warehouse C – Delhi",
}

// Product is the authoritative record of a stocked item.
type Product struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	SKU         string          `json:"sku"`
	Category    string          `json:"category"`
	Stock       int64           `json:"stock"`
	Threshold   int64           `json:"threshold"`
	Price       decimal.Decimal `json:"price"`
	Warehouse   string          `json:"warehouse"`
	LastUpdated time.Time       `json:"last_updated"`
	UpdatedBy   string          `json:"updated_by"`
}

// LowStock reports whether the product is at or below its reorder threshold.
func (p Product) LowStock() bool { return p.Stock <= p.Threshold }

// ApplyDelta returns the stock after applying a signed delta, clamped at zero.
// Both the directory and the sync engine use this so their clamps agree.
func ApplyDelta(stock, delta int64) int64 {
	if s := stock + delta; s > 0 {
		return s
	}
	return 0
}

// HistoryEntry records a single stock movement. Entries are immutable and
// kept newest-first per product.
type HistoryEntry struct {
	ID            string    `json:"id"`
	ProductID     string    `json:"product_id"`
	PreviousStock int64     `json:"previous_stock"`
	NewStock      int64     `json:"new_stock"`
	Change        int64     `json:"change"`
	User          string    `json:"user"`
	Note          string    `json:"note"`
	Timestamp     time.Time `json:"timestamp"`
}

// PendingOp is a stock mutation captured while disconnected, replayed in
// enqueue order on reconnect.
type PendingOp struct {
	ProductID string    `json:"product_id"`
	Delta     int64     `json:"delta"`
	Note      string    `json:"note"`
	Actor     string    `json:"actor"`
	QueuedAt  time.Time `json:"queued_at"`
}

// Sort fields accepted by ListFilters.SortBy.
const (
	SortByName        = "name"
	SortBySKU         = "sku"
	SortByCategory    = "category"
	SortByStock       = "stock"
	SortByPrice       = "price"
	SortByWarehouse   = "warehouse"
	SortByLastUpdated = "lastUpdated"
)

// Sort directions accepted by ListFilters.SortOrder.
const (
	SortAsc  = "asc"
	SortDesc = "desc"
)

// ValidSortBy reports whether f is a recognized sort field.
func ValidSortBy(f string) bool {
	switch f {
	case SortByName, SortBySKU, SortByCategory, SortByStock, SortByPrice, SortByWarehouse, SortByLastUpdated:
		return true
	}
	return false
}

// ListFilters selects and orders a page of the product list.
type ListFilters struct {
	Page         int    `json:"page"`
	Limit        int    `json:"limit"`
	Search       string `json:"search"`
	Category     string `json:"category"`
	LowStockOnly bool   `json:"low_stock_only"`
	SortBy       string `json:"sort_by"`
	SortOrder    string `json:"sort_order"`
}

// ListResult is one page of the product list.
type ListResult struct {
	Items      []Product `json:"items"`
	Total      int       `json:"total"`
	Page       int       `json:"page"`
	TotalPages int       `json:"total_pages"`
}

// HistoryFilters selects a page of a product's stock history. Start and End
// bound entry timestamps inclusively when set.
type HistoryFilters struct {
	Page  int
	Limit int
	Start *time.Time
	End   *time.Time
}

// HistoryResult is one page of a product's stock history, newest-first.
type HistoryResult struct {
	Entries    []HistoryEntry `json:"entries"`
	Total      int            `json:"total"`
	TotalPages int            `json:"total_pages"`
}
