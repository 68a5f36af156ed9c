package memstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/JohnGabriel1998/Seven-Apparel-sub000/models"
	"github.com/JohnGabriel1998/Seven-Apparel-sub000/store"
)

type ReviewStore struct {
	mu      sync.RWMutex
	seq     uint
	reviews map[uint]*models.Review
}

func NewReviewStore() *ReviewStore {
	return &ReviewStore{reviews: make(map[uint]*models.Review)}
}

func (s *ReviewStore) Create(ctx context.Context, review *models.Review) error {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.reviews {
		if r.ProductID == review.ProductID && r.UserID == review.UserID {
			return store.ErrDuplicate
		}
	}
	s.seq++
	review.ID = s.seq
	now := time.Now()
	review.CreatedAt = now
	review.UpdatedAt = now
	clone := *review
	s.reviews[review.ID] = &clone
	return nil
}

func (s *ReviewStore) Get(ctx context.Context, id uint) (*models.Review, error) {
	_ = ctx
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.reviews[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	clone := *r
	return &clone, nil
}

func (s *ReviewStore) Update(ctx context.Context, review *models.Review) error {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.reviews[review.ID]; !ok {
		return store.ErrNotFound
	}
	review.UpdatedAt = time.Now()
	clone := *review
	s.reviews[review.ID] = &clone
	return nil
}

func (s *ReviewStore) Delete(ctx context.Context, id uint) error {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.reviews[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.reviews, id)
	return nil
}

func (s *ReviewStore) ListByProduct(ctx context.Context, productID uint, approvedOnly bool) ([]models.Review, error) {
	_ = ctx
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Review
	for _, r := range s.reviews {
		if r.ProductID != productID {
			continue
		}
		if approvedOnly && !r.Approved {
			continue
		}
		out = append(out, *r)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (s *ReviewStore) ExistsForUser(ctx context.Context, productID uint, userID string) (bool, error) {
	_ = ctx
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, r := range s.reviews {
		if r.ProductID == productID && r.UserID == userID {
			return true, nil
		}
	}
	return false, nil
}
