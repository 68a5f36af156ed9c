package models

import (
	"time"

	"gorm.io/gorm"
)

type Product struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	Name          string         `gorm:"not null;index" json:"name"`
	Description   string         `json:"description"`
	Price         float64        `gorm:"not null" json:"price"` // PHP
	Category      string         `gorm:"index" json:"category"`
	Gender        string         `gorm:"index" json:"gender"` // "men", "women", "unisex"
	Brand         string         `gorm:"index" json:"brand"`
	Image         string         `json:"image"`
	IsFeatured    bool           `gorm:"default:false;index" json:"is_featured"`
	Variants      []Variant      `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"variants"`
	TotalStock    int            `gorm:"default:0" json:"total_stock"` // denormalized sum over variants
	SoldCount     int            `gorm:"default:0" json:"sold_count"`
	RatingAverage float64        `gorm:"default:0" json:"rating_average"`
	RatingCount   int            `gorm:"default:0" json:"rating_count"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

type Variant struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	ProductID uint   `gorm:"index;uniqueIndex:idx_product_sku" json:"product_id"`
	Color     string `gorm:"not null" json:"color"`
	Size      string `gorm:"not null" json:"size"`
	Stock     int    `gorm:"default:0;check:stock >= 0" json:"stock"`
	SKU       string `gorm:"uniqueIndex:idx_product_sku" json:"sku"`
}

// FindVariant returns the variant matching color and size exactly, or nil.
// Matching is case-sensitive; variants are stored with canonical casing.
func (p *Product) FindVariant(color, size string) *Variant {
	for i := range p.Variants {
		if p.Variants[i].Color == color && p.Variants[i].Size == size {
			return &p.Variants[i]
		}
	}
	return nil
}
