package gormstore

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/JohnGabriel1998/Seven-Apparel-sub000/models"
	"github.com/JohnGabriel1998/Seven-Apparel-sub000/store"
)

// New wires the Postgres-backed stores over a shared *gorm.DB.
func New(db *gorm.DB) *store.Stores {
	return &store.Stores{
		Products: &ProductStore{db: db},
		Orders:   &OrderStore{db: db},
		Carts:    &CartStore{db: db},
		Reviews:  &ReviewStore{db: db},
	}
}

type ProductStore struct {
	db *gorm.DB
}

func (s *ProductStore) List(ctx context.Context, f store.ProductFilter) ([]models.Product, int64, error) {
	query := s.db.WithContext(ctx).Model(&models.Product{}).Preload("Variants")

	if f.Search != "" {
		like := "%" + f.Search + "%"
		query = query.Where("name ILIKE ? OR description ILIKE ? OR brand ILIKE ?", like, like, like)
	}
	if f.Category != "" {
		query = query.Where("category = ?", f.Category)
	}
	if f.Gender != "" {
		query = query.Where("gender = ?", f.Gender)
	}
	if f.Brand != "" {
		query = query.Where("brand = ?", f.Brand)
	}
	if f.MinPrice != nil {
		query = query.Where("price >= ?", *f.MinPrice)
	}
	if f.MaxPrice != nil {
		query = query.Where("price <= ?", *f.MaxPrice)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	sortBy := f.SortBy
	switch sortBy {
	case "price", "name", "sold_count", "rating_average", "created_at":
	default:
		sortBy = "created_at"
	}
	order := strings.ToLower(f.Order)
	if order != "asc" && order != "desc" {
		order = "desc"
	}
	query = query.Order(fmt.Sprintf("%s %s", sortBy, order))

	if f.Limit > 0 {
		page := f.Page
		if page < 1 {
			page = 1
		}
		query = query.Offset((page - 1) * f.Limit).Limit(f.Limit)
	}

	var products []models.Product
	if err := query.Find(&products).Error; err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

func (s *ProductStore) Get(ctx context.Context, id uint) (*models.Product, error) {
	var product models.Product
	if err := s.db.WithContext(ctx).Preload("Variants").First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	return &product, nil
}

func (s *ProductStore) Featured(ctx context.Context, limit int) ([]models.Product, error) {
	if limit <= 0 {
		limit = 8
	}
	var products []models.Product
	err := s.db.WithContext(ctx).
		Preload("Variants").
		Where("is_featured = ?", true).
		Order("created_at DESC").
		Limit(limit).
		Find(&products).Error
	return products, err
}

// ConsumeStock is the atomic conditional decrement: each variant row is
// updated with "stock = stock - qty WHERE stock >= qty" inside a single
// transaction, so concurrent checkouts of the last unit cannot both win.
func (s *ProductStore) ConsumeStock(ctx context.Context, lines []store.StockLine) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, ln := range lines {
			res := tx.Model(&models.Variant{}).
				Where("product_id = ? AND color = ? AND size = ? AND stock >= ?",
					ln.ProductID, ln.Color, ln.Size, ln.Quantity).
				Update("stock", gorm.Expr("stock - ?", ln.Quantity))
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return store.ErrInsufficientStock
			}

			if err := tx.Model(&models.Product{}).
				Where("id = ?", ln.ProductID).
				Updates(map[string]interface{}{
					"total_stock": gorm.Expr("total_stock - ?", ln.Quantity),
					"sold_count":  gorm.Expr("sold_count + ?", ln.Quantity),
				}).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *ProductStore) RestoreStock(ctx context.Context, lines []store.StockLine) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, ln := range lines {
			res := tx.Model(&models.Variant{}).
				Where("product_id = ? AND color = ? AND size = ?",
					ln.ProductID, ln.Color, ln.Size).
				Update("stock", gorm.Expr("stock + ?", ln.Quantity))
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return store.ErrNotFound
			}

			if err := tx.Model(&models.Product{}).
				Where("id = ?", ln.ProductID).
				Updates(map[string]interface{}{
					"total_stock": gorm.Expr("total_stock + ?", ln.Quantity),
					"sold_count":  gorm.Expr("sold_count - ?", ln.Quantity),
				}).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *ProductStore) SetRating(ctx context.Context, productID uint, average float64, count int) error {
	res := s.db.WithContext(ctx).Model(&models.Product{}).
		Where("id = ?", productID).
		Updates(map[string]interface{}{
			"rating_average": average,
			"rating_count":   count,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}
