package memstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/JohnGabriel1998/Seven-Apparel-sub000/models"
	"github.com/JohnGabriel1998/Seven-Apparel-sub000/store"
)

type OrderStore struct {
	mu     sync.RWMutex
	seq    uint
	orders map[uint]*models.Order
}

func NewOrderStore() *OrderStore {
	return &OrderStore{orders: make(map[uint]*models.Order)}
}

func (s *OrderStore) Create(ctx context.Context, order *models.Order) error {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	order.ID = s.seq
	if order.CreatedAt.IsZero() {
		order.CreatedAt = time.Now()
	}
	order.UpdatedAt = time.Now()
	for i := range order.Items {
		order.Items[i].OrderID = order.ID
	}
	for i := range order.StatusHistory {
		order.StatusHistory[i].OrderID = order.ID
	}
	s.orders[order.ID] = cloneOrder(order)
	return nil
}

func (s *OrderStore) Get(ctx context.Context, id uint) (*models.Order, error) {
	_ = ctx
	s.mu.RLock()
	defer s.mu.RUnlock()
	o, ok := s.orders[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return cloneOrder(o), nil
}

func (s *OrderStore) GetByTransaction(ctx context.Context, transactionID string) (*models.Order, error) {
	_ = ctx
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, o := range s.orders {
		if o.TransactionID == transactionID && transactionID != "" {
			return cloneOrder(o), nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *OrderStore) ListByUser(ctx context.Context, userID string, page, limit int) ([]models.Order, int64, error) {
	_ = ctx
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Order
	for _, o := range s.orders {
		if o.UserID == userID {
			out = append(out, *cloneOrder(o))
		}
	}
	sortOrdersNewestFirst(out)
	total := int64(len(out))
	return pageSlice(out, page, limit), total, nil
}

func (s *OrderStore) List(ctx context.Context, f store.OrderFilter) ([]models.Order, int64, error) {
	_ = ctx
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Order
	for _, o := range s.orders {
		if f.Status != "" && string(o.Status) != f.Status {
			continue
		}
		out = append(out, *cloneOrder(o))
	}
	sortOrdersNewestFirst(out)
	total := int64(len(out))
	return pageSlice(out, f.Page, f.Limit), total, nil
}

func (s *OrderStore) Save(ctx context.Context, order *models.Order) error {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.orders[order.ID]; !ok {
		return store.ErrNotFound
	}
	order.UpdatedAt = time.Now()
	s.orders[order.ID] = cloneOrder(order)
	return nil
}

func (s *OrderStore) Delete(ctx context.Context, id uint) error {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.orders[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.orders, id)
	return nil
}

func sortOrdersNewestFirst(orders []models.Order) {
	sort.SliceStable(orders, func(i, j int) bool {
		if orders[i].CreatedAt.Equal(orders[j].CreatedAt) {
			return orders[i].ID > orders[j].ID
		}
		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})
}

func pageSlice(orders []models.Order, page, limit int) []models.Order {
	if limit <= 0 {
		return orders
	}
	if page < 1 {
		page = 1
	}
	start := (page - 1) * limit
	if start > len(orders) {
		start = len(orders)
	}
	end := start + limit
	if end > len(orders) {
		end = len(orders)
	}
	return orders[start:end]
}

func cloneOrder(o *models.Order) *models.Order {
	clone := *o
	clone.Items = make([]models.OrderItem, len(o.Items))
	copy(clone.Items, o.Items)
	clone.StatusHistory = make([]models.StatusEntry, len(o.StatusHistory))
	copy(clone.StatusHistory, o.StatusHistory)
	return &clone
}
