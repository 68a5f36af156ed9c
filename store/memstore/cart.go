package memstore

import (
	"context"
	"sync"
	"time"

	"github.com/JohnGabriel1998/Seven-Apparel-sub000/models"
	"github.com/JohnGabriel1998/Seven-Apparel-sub000/store"
)

type CartStore struct {
	mu      sync.Mutex
	seq     uint
	itemSeq uint
	carts   map[string]*models.Cart // keyed by user ID
}

func NewCartStore() *CartStore {
	return &CartStore{carts: make(map[string]*models.Cart)}
}

func (s *CartStore) GetOrCreate(ctx context.Context, userID string) (*models.Cart, error) {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.carts[userID]
	if !ok {
		s.seq++
		c = &models.Cart{CartID: s.seq, UserID: userID, CreatedAt: time.Now()}
		s.carts[userID] = c
	}
	return cloneCart(c), nil
}

func (s *CartStore) Save(ctx context.Context, cart *models.Cart) error {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.carts[cart.UserID]; !ok {
		return store.ErrNotFound
	}
	for i := range cart.Items {
		if cart.Items[i].ID == 0 {
			s.itemSeq++
			cart.Items[i].ID = s.itemSeq
		}
	}
	cart.UpdatedAt = time.Now()
	s.carts[cart.UserID] = cloneCart(cart)
	return nil
}

func (s *CartStore) Clear(ctx context.Context, userID string) error {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.carts[userID]
	if !ok {
		return store.ErrNotFound
	}
	c.Items = nil
	c.UpdatedAt = time.Now()
	return nil
}

func cloneCart(c *models.Cart) *models.Cart {
	clone := *c
	clone.Items = make([]models.CartItem, len(c.Items))
	copy(clone.Items, c.Items)
	return &clone
}
