package gormstore

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/JohnGabriel1998/Seven-Apparel-sub000/models"
	"github.com/JohnGabriel1998/Seven-Apparel-sub000/store"
)

type ReviewStore struct {
	db *gorm.DB
}

func (s *ReviewStore) Create(ctx context.Context, review *models.Review) error {
	err := s.db.WithContext(ctx).Create(review).Error
	if err != nil && errors.Is(err, gorm.ErrDuplicatedKey) {
		return store.ErrDuplicate
	}
	return err
}

func (s *ReviewStore) Get(ctx context.Context, id uint) (*models.Review, error) {
	var review models.Review
	if err := s.db.WithContext(ctx).First(&review, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	return &review, nil
}

func (s *ReviewStore) Update(ctx context.Context, review *models.Review) error {
	return s.db.WithContext(ctx).Save(review).Error
}

func (s *ReviewStore) Delete(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(&models.Review{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *ReviewStore) ListByProduct(ctx context.Context, productID uint, approvedOnly bool) ([]models.Review, error) {
	query := s.db.WithContext(ctx).Where("product_id = ?", productID)
	if approvedOnly {
		query = query.Where("approved = ?", true)
	}
	var reviews []models.Review
	err := query.Order("created_at DESC").Find(&reviews).Error
	return reviews, err
}

func (s *ReviewStore) ExistsForUser(ctx context.Context, productID uint, userID string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Review{}).
		Where("product_id = ? AND user_id = ?", productID, userID).
		Count(&count).Error
	return count > 0, err
}
