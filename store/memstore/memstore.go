// Package memstore is the in-memory store backend. It backs the test suite
// and the STORE_BACKEND=memory dev mode, and doubles as the second
// implementation of the store interfaces next to gormstore.
package memstore

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/JohnGabriel1998/Seven-Apparel-sub000/models"
	"github.com/JohnGabriel1998/Seven-Apparel-sub000/store"
)

func New() *store.Stores {
	return &store.Stores{
		Products: NewProductStore(),
		Orders:   NewOrderStore(),
		Carts:    NewCartStore(),
		Reviews:  NewReviewStore(),
	}
}

// ---------------- products ----------------

type ProductStore struct {
	mu       sync.RWMutex
	seq      uint
	products map[uint]*models.Product
}

func NewProductStore() *ProductStore {
	return &ProductStore{products: make(map[uint]*models.Product)}
}

// Put inserts or replaces a product, assigning an ID when missing and
// recomputing the denormalized TotalStock. Used for seeding.
func (s *ProductStore) Put(p *models.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.ID == 0 {
		s.seq++
		p.ID = s.seq
	} else if p.ID > s.seq {
		s.seq = p.ID
	}
	total := 0
	for _, v := range p.Variants {
		total += v.Stock
	}
	p.TotalStock = total
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now()
	}
	s.products[p.ID] = cloneProduct(p)
}

func (s *ProductStore) List(ctx context.Context, f store.ProductFilter) ([]models.Product, int64, error) {
	_ = ctx
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.Product
	for _, p := range s.products {
		if !matchProduct(p, f) {
			continue
		}
		out = append(out, *cloneProduct(p))
	}

	sortProducts(out, f.SortBy, f.Order)
	total := int64(len(out))

	if f.Limit > 0 {
		page := f.Page
		if page < 1 {
			page = 1
		}
		start := (page - 1) * f.Limit
		if start > len(out) {
			start = len(out)
		}
		end := start + f.Limit
		if end > len(out) {
			end = len(out)
		}
		out = out[start:end]
	}
	return out, total, nil
}

func matchProduct(p *models.Product, f store.ProductFilter) bool {
	if f.Search != "" {
		q := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(p.Name), q) &&
			!strings.Contains(strings.ToLower(p.Description), q) &&
			!strings.Contains(strings.ToLower(p.Brand), q) {
			return false
		}
	}
	if f.Category != "" && p.Category != f.Category {
		return false
	}
	if f.Gender != "" && p.Gender != f.Gender {
		return false
	}
	if f.Brand != "" && p.Brand != f.Brand {
		return false
	}
	if f.MinPrice != nil && p.Price < *f.MinPrice {
		return false
	}
	if f.MaxPrice != nil && p.Price > *f.MaxPrice {
		return false
	}
	return true
}

func sortProducts(products []models.Product, sortBy, order string) {
	asc := strings.ToLower(order) == "asc"
	sort.SliceStable(products, func(i, j int) bool {
		var less bool
		switch sortBy {
		case "price":
			less = products[i].Price < products[j].Price
		case "name":
			less = products[i].Name < products[j].Name
		case "sold_count":
			less = products[i].SoldCount < products[j].SoldCount
		case "rating_average":
			less = products[i].RatingAverage < products[j].RatingAverage
		default:
			less = products[i].CreatedAt.Before(products[j].CreatedAt)
		}
		if asc {
			return less
		}
		return !less
	})
}

func (s *ProductStore) Get(ctx context.Context, id uint) (*models.Product, error) {
	_ = ctx
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.products[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return cloneProduct(p), nil
}

func (s *ProductStore) Featured(ctx context.Context, limit int) ([]models.Product, error) {
	_ = ctx
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Product
	for _, p := range s.products {
		if p.IsFeatured {
			out = append(out, *cloneProduct(p))
		}
	}
	sortProducts(out, "created_at", "desc")
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *ProductStore) ConsumeStock(ctx context.Context, lines []store.StockLine) error {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()

	// Aggregate demand per variant first: an order may carry the same
	// (product, color, size) on more than one line, and every unit has to
	// count against a single stock check.
	type demand struct {
		product  *models.Product
		variant  *models.Variant
		quantity int
	}
	seen := make(map[*models.Variant]*demand)
	demands := make([]*demand, 0, len(lines))
	for _, ln := range lines {
		p, ok := s.products[ln.ProductID]
		if !ok {
			return store.ErrNotFound
		}
		v := p.FindVariant(ln.Color, ln.Size)
		if v == nil {
			return store.ErrNotFound
		}
		d, ok := seen[v]
		if !ok {
			d = &demand{product: p, variant: v}
			seen[v] = d
			demands = append(demands, d)
		}
		d.quantity += ln.Quantity
	}

	// Validate everything under the lock so the batch is all-or-nothing.
	for _, d := range demands {
		if d.variant.Stock < d.quantity {
			return store.ErrInsufficientStock
		}
	}
	for _, d := range demands {
		d.variant.Stock -= d.quantity
		d.product.TotalStock -= d.quantity
		d.product.SoldCount += d.quantity
	}
	return nil
}

func (s *ProductStore) RestoreStock(ctx context.Context, lines []store.StockLine) error {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, ln := range lines {
		p, ok := s.products[ln.ProductID]
		if !ok {
			return store.ErrNotFound
		}
		v := p.FindVariant(ln.Color, ln.Size)
		if v == nil {
			return store.ErrNotFound
		}
		v.Stock += ln.Quantity
		p.TotalStock += ln.Quantity
		p.SoldCount -= ln.Quantity
	}
	return nil
}

func (s *ProductStore) SetRating(ctx context.Context, productID uint, average float64, count int) error {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[productID]
	if !ok {
		return store.ErrNotFound
	}
	p.RatingAverage = average
	p.RatingCount = count
	return nil
}

func cloneProduct(p *models.Product) *models.Product {
	clone := *p
	clone.Variants = make([]models.Variant, len(p.Variants))
	copy(clone.Variants, p.Variants)
	return &clone
}
