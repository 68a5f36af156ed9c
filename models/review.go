package models

import "time"

// Review is one customer review. One review per (product, user) pair,
// enforced at the application level before insert.
type Review struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	ProductID    uint      `gorm:"index;uniqueIndex:idx_product_user" json:"product_id"`
	UserID       string    `gorm:"uniqueIndex:idx_product_user" json:"user_id"`
	Rating       int       `gorm:"not null;check:rating >= 1 AND rating <= 5" json:"rating"`
	Title        string    `json:"title"`
	Comment      string    `json:"comment"`
	Approved     bool      `gorm:"default:true" json:"approved"`
	HelpfulCount int       `gorm:"default:0" json:"helpful_count"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
