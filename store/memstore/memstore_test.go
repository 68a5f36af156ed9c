package memstore

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JohnGabriel1998/Seven-Apparel-sub000/models"
	"github.com/JohnGabriel1998/Seven-Apparel-sub000/store"
)

func seedTee(s *ProductStore, stock int) *models.Product {
	p := &models.Product{
		Name:  "Basic Tee",
		Price: 400,
		Variants: []models.Variant{
			{Color: "White", Size: "M", Stock: stock, SKU: "BT-WHT-M"},
			{Color: "White", Size: "L", Stock: stock, SKU: "BT-WHT-L"},
		},
	}
	s.Put(p)
	return p
}

func TestConsumeStockLastUnitSingleWinner(t *testing.T) {
	s := NewProductStore()
	p := seedTee(s, 1)
	line := []store.StockLine{{ProductID: p.ID, Color: "White", Size: "M", Quantity: 1}}

	const workers = 32
	var wg sync.WaitGroup
	var wins, conflicts int64
	var mu sync.Mutex

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := s.ConsumeStock(context.Background(), line)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				wins++
			case errors.Is(err, store.ErrInsufficientStock):
				conflicts++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(1), wins, "exactly one consumer should win the last unit")
	assert.Equal(t, int64(workers-1), conflicts)

	got, err := s.Get(context.Background(), p.ID)
	require.NoError(t, err)
	v := got.FindVariant("White", "M")
	require.NotNil(t, v)
	assert.Equal(t, 0, v.Stock, "stock never goes negative")
	assert.Equal(t, 1, got.SoldCount)
	assert.Equal(t, 1, got.TotalStock) // the L variant is untouched
}

func TestConsumeStockBatchIsAllOrNothing(t *testing.T) {
	s := NewProductStore()
	p := seedTee(s, 5)

	// Second line over-asks, so the first line must not be applied either.
	err := s.ConsumeStock(context.Background(), []store.StockLine{
		{ProductID: p.ID, Color: "White", Size: "M", Quantity: 2},
		{ProductID: p.ID, Color: "White", Size: "L", Quantity: 6},
	})
	require.ErrorIs(t, err, store.ErrInsufficientStock)

	got, err := s.Get(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, got.FindVariant("White", "M").Stock)
	assert.Equal(t, 5, got.FindVariant("White", "L").Stock)
	assert.Equal(t, 10, got.TotalStock)
	assert.Equal(t, 0, got.SoldCount)
}

func TestConsumeStockAggregatesDuplicateLines(t *testing.T) {
	s := NewProductStore()
	p := seedTee(s, 5)

	// The same variant split across two lines counts as one demand of 6,
	// which exceeds the stock of 5 even though each line alone would pass.
	err := s.ConsumeStock(context.Background(), []store.StockLine{
		{ProductID: p.ID, Color: "White", Size: "M", Quantity: 3},
		{ProductID: p.ID, Color: "White", Size: "M", Quantity: 3},
	})
	require.ErrorIs(t, err, store.ErrInsufficientStock)

	got, err := s.Get(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, got.FindVariant("White", "M").Stock)
	assert.Equal(t, 0, got.SoldCount)

	// Split lines that fit the stock together still succeed.
	require.NoError(t, s.ConsumeStock(context.Background(), []store.StockLine{
		{ProductID: p.ID, Color: "White", Size: "M", Quantity: 2},
		{ProductID: p.ID, Color: "White", Size: "M", Quantity: 3},
	}))
	got, err = s.Get(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.FindVariant("White", "M").Stock)
	assert.Equal(t, 5, got.SoldCount)
}

func TestConsumeAndRestoreRoundTrip(t *testing.T) {
	s := NewProductStore()
	p := seedTee(s, 5)
	lines := []store.StockLine{
		{ProductID: p.ID, Color: "White", Size: "M", Quantity: 3},
		{ProductID: p.ID, Color: "White", Size: "L", Quantity: 1},
	}

	require.NoError(t, s.ConsumeStock(context.Background(), lines))
	got, _ := s.Get(context.Background(), p.ID)
	assert.Equal(t, 2, got.FindVariant("White", "M").Stock)
	assert.Equal(t, 6, got.TotalStock)
	assert.Equal(t, 4, got.SoldCount)

	require.NoError(t, s.RestoreStock(context.Background(), lines))
	got, _ = s.Get(context.Background(), p.ID)
	assert.Equal(t, 5, got.FindVariant("White", "M").Stock)
	assert.Equal(t, 10, got.TotalStock)
	assert.Equal(t, 0, got.SoldCount)
}

func TestConsumeStockUnknownVariant(t *testing.T) {
	s := NewProductStore()
	p := seedTee(s, 5)

	err := s.ConsumeStock(context.Background(), []store.StockLine{
		{ProductID: p.ID, Color: "White", Size: "XS", Quantity: 1},
	})
	assert.ErrorIs(t, err, store.ErrNotFound)

	err = s.ConsumeStock(context.Background(), []store.StockLine{
		{ProductID: p.ID + 9, Color: "White", Size: "M", Quantity: 1},
	})
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestGetReturnsClones(t *testing.T) {
	s := NewProductStore()
	p := seedTee(s, 5)

	got, err := s.Get(context.Background(), p.ID)
	require.NoError(t, err)
	got.Variants[0].Stock = 999
	got.Name = "mutated"

	again, err := s.Get(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, again.Variants[0].Stock)
	assert.Equal(t, "Basic Tee", again.Name)
}

func TestListFiltersAndPaginates(t *testing.T) {
	s := NewProductStore()
	s.Put(&models.Product{Name: "Hoodie", Price: 1200, Category: "hoodies", Gender: "men"})
	s.Put(&models.Product{Name: "Skirt", Price: 800, Category: "skirts", Gender: "women"})
	s.Put(&models.Product{Name: "Cap", Price: 300, Category: "accessories", Gender: "unisex"})

	min := 500.0
	out, total, err := s.List(context.Background(), store.ProductFilter{MinPrice: &min, SortBy: "price", Order: "asc"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, out, 2)
	assert.Equal(t, "Skirt", out[0].Name)

	out, total, err = s.List(context.Background(), store.ProductFilter{Page: 2, Limit: 2, SortBy: "price", Order: "asc"})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, out, 1)
	assert.Equal(t, "Hoodie", out[0].Name)
}
