package directory

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/fairyhunter13/inventory-dashboard-simulator/internal/model"
)

var historyUsers = []string{"admin", "staff1", "staff2"}

var historyNotes = []string{
	"Restocked from supplier",
	"Manual adjustment",
	"Sold to customer",
	"Returned item",
	"Damaged stock removal",
	"Inventory audit",
}

// seedProducts returns the initial catalog. Ids are stable so tests and the
// dashboard can reference them directly.
func seedProducts(now time.Time) []model.Product {
	p := func(id, name, sku, category string, stock, threshold int64, price int64, warehouse string, age time.Duration, by string) model.Product {
		return model.Product{
			ID:          id,
			Name:        name,
			SKU:         sku,
			Category:    category,
			Stock:       stock,
			Threshold:   threshold,
			Price:       decimal.NewFromInt(price),
			Warehouse:   warehouse,
			LastUpdated: now.Add(-age),
			UpdatedBy:   by,
		}
	}
	return []model.Product{
		p("1", "USB-C Hub 7-Port", "ELEC-001", "Electronics", 4, 10, 2499, "Warehouse A – Chennai", time.Hour, "admin"),
		p("2", "Mechanical Keyboard", "ELEC-002", "Electronics", 23, 5, 8999, "Warehouse A – Chennai", 2*time.Hour, "staff1"),
		p("3", "Wireless Mouse Pro", "ELEC-003", "Electronics", 3, 8, 3499, "Warehouse B – Mumbai", 30*time.Minute, "admin"),
		p("4", "Office Chair Ergonomic", "OFFC-001", "Office Supplies", 7, 3, 24999, "Warehouse A – Chennai", 24*time.Hour, "staff2"),
		p("5", "Paracetamol 500mg (Pack of 10)", "HLTH-001", "Healthcare", 2, 20, 49, "Warehouse C – Delhi", 10*time.Minute, "staff1"),
		p("6", "Blue Denim Jacket", "APRL-001", "Apparel", 15, 5, 2199, "Warehouse B – Mumbai", 48*time.Hour, "admin"),
		p("7", "4K Monitor 27\"", "ELEC-004", "Electronics", 1, 3, 42999, "Warehouse A – Chennai", 15*time.Minute, "admin"),
		p("8", "Screwdriver Set (12pc)", "TOOL-001", "Tools", 30, 5, 799, "Warehouse C – Delhi", 72*time.Hour, "staff2"),
		p("9", "Instant Coffee 200g", "FOOD-001", "Food & Beverage", 6, 15, 349, "Warehouse B – Mumbai", 12*time.Hour, "staff1"),
		p("10", "HDMI Cable 2m", "ELEC-005", "Electronics", 50, 10, 599, "Warehouse A – Chennai", 2*time.Hour, "staff1"),
		p("11", "Laptop Stand Aluminium", "OFFC-002", "Office Supplies", 9, 4, 3999, "Warehouse C – Delhi", time.Hour, "admin"),
		p("12", "Hand Sanitizer 500ml", "HLTH-002", "Healthcare", 45, 25, 199, "Warehouse B – Mumbai", 6*time.Hour, "staff2"),
	}
}
