package gormstore

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/JohnGabriel1998/Seven-Apparel-sub000/models"
	"github.com/JohnGabriel1998/Seven-Apparel-sub000/store"
)

type CartStore struct {
	db *gorm.DB
}

func (s *CartStore) GetOrCreate(ctx context.Context, userID string) (*models.Cart, error) {
	var cart models.Cart
	err := s.db.WithContext(ctx).Preload("Items").Where("user_id = ?", userID).First(&cart).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		cart = models.Cart{UserID: userID}
		if err := s.db.WithContext(ctx).Create(&cart).Error; err != nil {
			return nil, err
		}
		return &cart, nil
	}
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

// Save replaces the cart's items wholesale. Simpler than diffing and the
// payloads are small.
func (s *CartStore) Save(ctx context.Context, cart *models.Cart) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("cart_id = ?", cart.CartID).Delete(&models.CartItem{}).Error; err != nil {
			return err
		}
		for i := range cart.Items {
			cart.Items[i].ID = 0
			cart.Items[i].CartID = cart.CartID
		}
		if len(cart.Items) > 0 {
			if err := tx.Create(&cart.Items).Error; err != nil {
				return err
			}
		}
		return tx.Model(&models.Cart{}).Where("cart_id = ?", cart.CartID).
			Update("updated_at", gorm.Expr("NOW()")).Error
	})
}

func (s *CartStore) Clear(ctx context.Context, userID string) error {
	var cart models.Cart
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&cart).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return store.ErrNotFound
	}
	if err != nil {
		return err
	}
	return s.db.WithContext(ctx).Where("cart_id = ?", cart.CartID).Delete(&models.CartItem{}).Error
}
