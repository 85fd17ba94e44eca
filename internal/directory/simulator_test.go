package directory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairyhunter13/inventory-dashboard-simulator/internal/model"
)

func newSim(t *testing.T) *Simulator {
	t.Helper()
	return New(Config{Seed: 1})
}

func ids(items []model.Product) []string {
	out := make([]string, len(items))
	for i, p := range items {
		out[i] = p.ID
	}
	return out
}

func TestListSearchMatchesNameOrSKU(t *testing.T) {
	s := newSim(t)
	ctx := context.Background()

	res, err := s.ListProducts(ctx, model.ListFilters{Search: "keyboard"})
	require.NoError(t, err)
	require.Equal(t, []string{"2"}, ids(res.Items))

	res, err = s.ListProducts(ctx, model.ListFilters{Search: "hlth"})
	require.NoError(t, err)
	require.Equal(t, 2, res.Total, "SKU substring match is case-insensitive")
}

func TestListCategoryAndLowStock(t *testing.T) {
	s := newSim(t)
	ctx := context.Background()

	res, err := s.ListProducts(ctx, model.ListFilters{Category: "Healthcare"})
	require.NoError(t, err)
	require.Equal(t, 2, res.Total)

	res, err = s.ListProducts(ctx, model.ListFilters{LowStockOnly: true, Limit: 20})
	require.NoError(t, err)
	require.Equal(t, 5, res.Total)
	for _, p := range res.Items {
		assert.LessOrEqual(t, p.Stock, p.Threshold)
	}
}

func TestListSortStockDesc(t *testing.T) {
	s := newSim(t)
	res, err := s.ListProducts(context.Background(), model.ListFilters{
		SortBy: model.SortByStock, SortOrder: model.SortDesc, Limit: 20,
	})
	require.NoError(t, err)
	for i := 1; i < len(res.Items); i++ {
		require.GreaterOrEqual(t, res.Items[i-1].Stock, res.Items[i].Stock)
	}
	require.Equal(t, "10", res.Items[0].ID, "HDMI Cable holds the largest stock")
}

func TestListSortPrice(t *testing.T) {
	s := newSim(t)
	res, err := s.ListProducts(context.Background(), model.ListFilters{
		SortBy: model.SortByPrice, SortOrder: model.SortAsc, Limit: 20,
	})
	require.NoError(t, err)
	for i := 1; i < len(res.Items); i++ {
		require.True(t, res.Items[i-1].Price.Cmp(res.Items[i].Price) <= 0)
	}
	require.Equal(t, "5", res.Items[0].ID, "Paracetamol is the cheapest seed item")
}

func TestListSortStableOnTies(t *testing.T) {
	s := newSim(t)
	// Every item shares the sort key, so the page must keep catalog order.
	res, err := s.ListProducts(context.Background(), model.ListFilters{
		Category: "Electronics", SortBy: model.SortByCategory, Limit: 20,
	})
	require.NoError(t, err)
	require.Equal(t, []string{"1", "2", "3", "7", "10"}, ids(res.Items))
}

func TestListPagination(t *testing.T) {
	s := newSim(t)
	ctx := context.Background()

	res, err := s.ListProducts(ctx, model.ListFilters{Page: 2, Limit: 5})
	require.NoError(t, err)
	require.Len(t, res.Items, 5)
	require.Equal(t, 12, res.Total)
	require.Equal(t, 3, res.TotalPages)

	res, err = s.ListProducts(ctx, model.ListFilters{Page: 99, Limit: 5})
	require.NoError(t, err)
	require.Empty(t, res.Items, "out-of-range page yields an empty page, not an error")
	require.Equal(t, 12, res.Total)
}

func TestListFailureInjection(t *testing.T) {
	policy := NewScriptedPolicy()
	policy.Push(OpList, true)
	s := New(Config{Seed: 1, Policy: policy})

	_, err := s.ListProducts(context.Background(), model.ListFilters{})
	require.ErrorIs(t, err, ErrUnavailable)

	_, err = s.ListProducts(context.Background(), model.ListFilters{})
	require.NoError(t, err, "script exhausted, next call succeeds")
}

func TestUpdateStockClampsAndRecordsHistory(t *testing.T) {
	s := newSim(t)
	ctx := context.Background()

	p, err := s.UpdateStock(ctx, "5", -10, "", "admin")
	require.NoError(t, err)
	require.EqualValues(t, 0, p.Stock, "stock 2 - 10 clamps to zero")
	require.Equal(t, "admin", p.UpdatedBy)

	h, err := s.GetHistory(ctx, "5", model.HistoryFilters{})
	require.NoError(t, err)
	require.NotEmpty(t, h.Entries)
	top := h.Entries[0]
	require.EqualValues(t, 2, top.PreviousStock)
	require.EqualValues(t, 0, top.NewStock)
	require.EqualValues(t, -2, top.Change, "recorded change is post-clamp")
	require.Equal(t, "Manual update", top.Note, "empty note falls back to the placeholder")
}

func TestUpdateStockNotFound(t *testing.T) {
	s := newSim(t)
	_, err := s.UpdateStock(context.Background(), "999", 1, "", "admin")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateThreshold(t *testing.T) {
	s := newSim(t)
	p, err := s.UpdateThreshold(context.Background(), "1", 2, "staff1")
	require.NoError(t, err)
	require.EqualValues(t, 2, p.Threshold)
	require.Equal(t, "staff1", p.UpdatedBy)
}

func TestCreatePrepends(t *testing.T) {
	s := newSim(t)
	created, err := s.CreateProduct(context.Background(), CreateInput{
		Name: "Desk Lamp", SKU: "OFFC-003", Category: "Office Supplies", Stock: 8, Threshold: 2,
	})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)

	res, err := s.ListProducts(context.Background(), model.ListFilters{SortBy: model.SortByLastUpdated, SortOrder: model.SortDesc})
	require.NoError(t, err)
	require.Equal(t, created.ID, res.Items[0].ID)
	require.Equal(t, 13, res.Total)
}

func TestDeleteProduct(t *testing.T) {
	s := newSim(t)
	ctx := context.Background()

	require.NoError(t, s.DeleteProduct(ctx, "7"))
	_, err := s.GetProduct(ctx, "7")
	require.ErrorIs(t, err, ErrNotFound)
	require.ErrorIs(t, s.DeleteProduct(ctx, "7"), ErrNotFound)
}

func TestHistoryBoundsInclusiveNewestFirst(t *testing.T) {
	s := newSim(t)
	ctx := context.Background()

	// Two fresh entries at a known instant, on top of the fabricated block.
	_, err := s.UpdateStock(ctx, "8", 1, "first", "admin")
	require.NoError(t, err)
	_, err = s.UpdateStock(ctx, "8", 2, "second", "admin")
	require.NoError(t, err)

	all, err := s.GetHistory(ctx, "8", model.HistoryFilters{Limit: 50})
	require.NoError(t, err)
	require.Equal(t, 22, all.Total, "20 fabricated entries plus 2 recorded ones")
	for i := 1; i < len(all.Entries); i++ {
		require.False(t, all.Entries[i-1].Timestamp.Before(all.Entries[i].Timestamp), "newest-first ordering")
	}

	start := all.Entries[1].Timestamp
	bounded, err := s.GetHistory(ctx, "8", model.HistoryFilters{Start: &start, Limit: 50})
	require.NoError(t, err)
	require.Equal(t, 2, bounded.Total, "start bound is inclusive")
	require.Equal(t, "second", bounded.Entries[0].Note)

	end := start.Add(-time.Minute)
	older, err := s.GetHistory(ctx, "8", model.HistoryFilters{End: &end, Limit: 50})
	require.NoError(t, err)
	require.Equal(t, 20, older.Total)
}

func TestHistoryPagination(t *testing.T) {
	s := newSim(t)
	h, err := s.GetHistory(context.Background(), "3", model.HistoryFilters{Page: 2, Limit: 8})
	require.NoError(t, err)
	require.Len(t, h.Entries, 8)
	require.Equal(t, 20, h.Total)
	require.Equal(t, 3, h.TotalPages)
}

func TestPollExternalChangeClampsAndRecords(t *testing.T) {
	s := newSim(t)
	ctx := context.Background()

	for i := 0; i < 50; i++ {
		p, err := s.PollExternalChange(ctx)
		require.NoError(t, err)
		require.NotNil(t, p)
		require.GreaterOrEqual(t, p.Stock, int64(0), "external changes never drive stock negative")
		require.Equal(t, "system", p.UpdatedBy)

		got, err := s.GetProduct(ctx, p.ID)
		require.NoError(t, err)
		require.Equal(t, p.Stock, got.Stock, "poll result is the authoritative record")
	}
}

func TestPollExternalChangeEmptyCatalog(t *testing.T) {
	s := newSim(t)
	ctx := context.Background()
	for _, id := range []string{"1", "2", "3", "4", "5", "6", "7", "8", "9", "10", "11", "12"} {
		require.NoError(t, s.DeleteProduct(ctx, id))
	}
	p, err := s.PollExternalChange(ctx)
	require.NoError(t, err)
	require.Nil(t, p)
}
