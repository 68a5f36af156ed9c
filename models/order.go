package models

import "time"

type OrderStatus string
type PaymentStatus string

const (
	OrderStatusPending    OrderStatus = "pending"    // Order placed, awaiting payment
	OrderStatusProcessing OrderStatus = "processing" // Paid, being prepared
	OrderStatusShipped    OrderStatus = "shipped"    // Out for delivery
	OrderStatusDelivered  OrderStatus = "delivered"  // Customer received the item
	OrderStatusCancelled  OrderStatus = "cancelled"  // Cancelled by customer, admin or failed payment

	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusFailed   PaymentStatus = "failed"
	PaymentStatusRefunded PaymentStatus = "refunded"
)

type Order struct {
	ID              uint            `gorm:"primaryKey" json:"id"`
	OrderNumber     string          `gorm:"uniqueIndex;not null" json:"order_number"`
	UserID          string          `gorm:"index;not null" json:"user_id"`
	CustomerEmail   string          `json:"customer_email,omitempty"` // confirmation recipient, needed when the webhook finalizes later
	Items           []OrderItem     `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`
	ShippingAddress ShippingAddress `gorm:"embedded;embeddedPrefix:ship_" json:"shipping_address"`
	PaymentMethod   string          `json:"payment_method"` // "gcash", "paymaya", "cod"
	PaymentStatus   PaymentStatus   `gorm:"type:VARCHAR(20);default:'pending'" json:"payment_status"`
	Status          OrderStatus     `gorm:"type:VARCHAR(20);default:'pending'" json:"status"`
	StatusHistory   []StatusEntry   `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"status_history"`
	Subtotal        float64         `json:"subtotal"`
	Discount        float64         `json:"discount"`
	ShippingCost    float64         `json:"shipping_cost"`
	Tax             float64         `json:"tax"`
	Total           float64         `json:"total"`
	TransactionID   string          `gorm:"index" json:"transaction_id,omitempty"`
	RedirectURL     string          `json:"redirect_url,omitempty"` // wallet checkout page, pending payments only
	TrackingNumber  string          `json:"tracking_number,omitempty"`
	IsPaid          bool            `json:"is_paid"`
	PaidAt          *time.Time      `json:"paid_at,omitempty"`
	IsDelivered     bool            `json:"is_delivered"`
	DeliveredAt     *time.Time      `json:"delivered_at,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

type OrderItem struct {
	ID        uint    `gorm:"primaryKey" json:"id"`
	OrderID   uint    `gorm:"index" json:"order_id"`
	ProductID uint    `json:"product_id"`
	Name      string  `json:"name"`  // snapshot at purchase time
	Image     string  `json:"image"` // snapshot
	Color     string  `json:"color"`
	Size      string  `json:"size"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"` // unit price snapshot
}

// StatusEntry is one row of the append-only status audit trail.
type StatusEntry struct {
	ID        uint        `gorm:"primaryKey" json:"-"`
	OrderID   uint        `gorm:"index" json:"-"`
	Status    OrderStatus `gorm:"type:VARCHAR(20)" json:"status"`
	Timestamp time.Time   `json:"timestamp"`
	Note      string      `json:"note,omitempty"`
}

type ShippingAddress struct {
	FullName string `json:"full_name"`
	Contact  string `json:"contact"`
	Region   string `json:"region"`
	Province string `json:"province"`
	City     string `json:"city"`
	Barangay string `json:"barangay"`
	ZipCode  string `json:"zip_code"`
	Country  string `gorm:"default:'Philippines'" json:"country"`
}

// SetStatus updates the order status and appends the matching history entry.
// Every status mutation must go through here so that the last history entry
// always equals the current status field.
func (o *Order) SetStatus(status OrderStatus, note string) {
	o.Status = status
	o.StatusHistory = append(o.StatusHistory, StatusEntry{
		OrderID:   o.ID,
		Status:    status,
		Timestamp: time.Now(),
		Note:      note,
	})
}
