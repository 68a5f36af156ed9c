// Package store defines the repository interfaces the controllers depend on.
// Two backends implement them: gormstore (Postgres) and memstore (in-memory).
package store

import (
	"context"
	"errors"

	"github.com/JohnGabriel1998/Seven-Apparel-sub000/models"
)

var (
	ErrNotFound          = errors.New("record not found")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrDuplicate         = errors.New("record already exists")
)

// StockLine addresses one variant and a quantity to consume or restore.
type StockLine struct {
	ProductID uint
	Color     string
	Size      string
	Quantity  int
}

type ProductFilter struct {
	Search   string
	Category string
	Gender   string
	Brand    string
	MinPrice *float64
	MaxPrice *float64
	SortBy   string
	Order    string // "asc" or "desc"
	Page     int
	Limit    int
}

type ProductStore interface {
	List(ctx context.Context, f ProductFilter) ([]models.Product, int64, error)
	Get(ctx context.Context, id uint) (*models.Product, error)
	Featured(ctx context.Context, limit int) ([]models.Product, error)

	// ConsumeStock atomically decrements every line's variant stock, failing
	// the whole batch with ErrInsufficientStock if any variant cannot cover
	// its quantity. Stock never goes negative, even under concurrent calls
	// for the last unit. TotalStock and SoldCount are kept in step.
	ConsumeStock(ctx context.Context, lines []StockLine) error
	// RestoreStock adds the quantities back (order cancellation).
	RestoreStock(ctx context.Context, lines []StockLine) error

	SetRating(ctx context.Context, productID uint, average float64, count int) error
}

type OrderFilter struct {
	Status string
	Page   int
	Limit  int
}

type OrderStore interface {
	Create(ctx context.Context, order *models.Order) error
	Get(ctx context.Context, id uint) (*models.Order, error)
	GetByTransaction(ctx context.Context, transactionID string) (*models.Order, error)
	ListByUser(ctx context.Context, userID string, page, limit int) ([]models.Order, int64, error)
	List(ctx context.Context, f OrderFilter) ([]models.Order, int64, error)
	Save(ctx context.Context, order *models.Order) error
	Delete(ctx context.Context, id uint) error
}

type CartStore interface {
	// GetOrCreate returns the user's cart, creating an empty one lazily.
	GetOrCreate(ctx context.Context, userID string) (*models.Cart, error)
	Save(ctx context.Context, cart *models.Cart) error
	Clear(ctx context.Context, userID string) error
}

type ReviewStore interface {
	Create(ctx context.Context, review *models.Review) error
	Get(ctx context.Context, id uint) (*models.Review, error)
	Update(ctx context.Context, review *models.Review) error
	Delete(ctx context.Context, id uint) error
	ListByProduct(ctx context.Context, productID uint, approvedOnly bool) ([]models.Review, error)
	ExistsForUser(ctx context.Context, productID uint, userID string) (bool, error)
}

// Stores bundles the four repositories for handler wiring.
type Stores struct {
	Products ProductStore
	Orders   OrderStore
	Carts    CartStore
	Reviews  ReviewStore
}
