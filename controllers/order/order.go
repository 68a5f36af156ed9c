package orderControllers

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/JohnGabriel1998/Seven-Apparel-sub000/events"
	"github.com/JohnGabriel1998/Seven-Apparel-sub000/models"
	"github.com/JohnGabriel1998/Seven-Apparel-sub000/payment"
	"github.com/JohnGabriel1998/Seven-Apparel-sub000/store"
)

// Client-submitted totals may differ from the server's by at most one
// centavo before the order is rejected.
const totalTolerance = 0.01

// Mailer is what the workflow needs from the mail layer.
type Mailer interface {
	SendOrderConfirmation(to string, order *models.Order)
}

// -------- Request Structs --------

type OrderItemInput struct {
	ProductID uint              `json:"product_id" binding:"required"`
	Color     models.ColorValue `json:"color" binding:"required"`
	Size      string            `json:"size" binding:"required"`
	Quantity  int               `json:"quantity" binding:"required,min=1"`
	// Client snapshot fields; price and name are taken from the catalog
	// instead, the server is the pricing authority.
	Name  string  `json:"name"`
	Price float64 `json:"price"`
	Image string  `json:"image"`
}

type TotalsInput struct {
	Subtotal     float64 `json:"subtotal"`
	Discount     float64 `json:"discount"`
	ShippingCost float64 `json:"shipping_cost"`
	Tax          float64 `json:"tax"`
	Total        float64 `json:"total" binding:"required"`
}

type CreateOrderRequest struct {
	Items           []OrderItemInput       `json:"items" binding:"required,min=1,dive"`
	ShippingAddress models.ShippingAddress `json:"shipping_address" binding:"required"`
	PaymentMethod   string                 `json:"payment_method" binding:"required,oneof=gcash paymaya cod"`
	PaymentDetails  map[string]string      `json:"payment_details"`
	Totals          TotalsInput            `json:"totals" binding:"required"`
}

type UpdateOrderStatusRequest struct {
	Status         string `json:"status" binding:"required"`
	TrackingNumber string `json:"tracking_number"`
	Note           string `json:"note"`
}

// -------- Helpers --------

func mapOrderStatus(status string) (models.OrderStatus, error) {
	switch strings.ToLower(status) {
	case string(models.OrderStatusPending):
		return models.OrderStatusPending, nil
	case string(models.OrderStatusProcessing):
		return models.OrderStatusProcessing, nil
	case string(models.OrderStatusShipped):
		return models.OrderStatusShipped, nil
	case string(models.OrderStatusDelivered):
		return models.OrderStatusDelivered, nil
	case string(models.OrderStatusCancelled):
		return models.OrderStatusCancelled, nil
	default:
		return "", errors.New("invalid order status")
	}
}

func generateOrderNumber() string {
	// Example: SA-20250908130500-1a2b3c4d
	return "SA-" + time.Now().Format("20060102150405") + "-" + uuid.NewString()[:8]
}

func stockLines(items []models.OrderItem) []store.StockLine {
	lines := make([]store.StockLine, len(items))
	for i, it := range items {
		lines[i] = store.StockLine{
			ProductID: it.ProductID,
			Color:     it.Color,
			Size:      it.Size,
			Quantity:  it.Quantity,
		}
	}
	return lines
}

func publishStockEvents(bus events.Bus, items []models.OrderItem, sign int) {
	for _, it := range items {
		bus.Publish(events.Event{
			Type: events.TypeProductStock,
			Data: gin.H{
				"product_id": it.ProductID,
				"color":      it.Color,
				"size":       it.Size,
				"delta":      sign * it.Quantity,
			},
		})
	}
}

// FinalizePaidOrder runs once a payment has actually settled, either
// immediately at checkout or later via the gateway webhook. It consumes
// stock atomically, marks the order paid/processing, clears the cart and
// kicks off the confirmation email. On a stock conflict the order is
// cancelled with paymentStatus refunded and ErrInsufficientStock bubbles up.
func FinalizePaidOrder(ctx context.Context, s *store.Stores, mail Mailer, bus events.Bus, log *zap.Logger, order *models.Order) error {
	if err := s.Products.ConsumeStock(ctx, stockLines(order.Items)); err != nil {
		if errors.Is(err, store.ErrInsufficientStock) {
			order.PaymentStatus = models.PaymentStatusRefunded
			order.SetStatus(models.OrderStatusCancelled, "Insufficient stock at payment capture; payment refunded")
			if saveErr := s.Orders.Save(ctx, order); saveErr != nil {
				log.Error("failed to record stock-conflict cancellation",
					zap.String("order", order.OrderNumber), zap.Error(saveErr))
			}
		}
		return err
	}

	now := time.Now()
	order.PaymentStatus = models.PaymentStatusPaid
	order.IsPaid = true
	order.PaidAt = &now
	order.SetStatus(models.OrderStatusProcessing, "Payment confirmed")
	if err := s.Orders.Save(ctx, order); err != nil {
		return err
	}

	if err := s.Carts.Clear(ctx, order.UserID); err != nil && !errors.Is(err, store.ErrNotFound) {
		log.Warn("failed to clear cart after checkout",
			zap.String("user", order.UserID), zap.Error(err))
	}

	if mail != nil {
		confirmation := *order
		go mail.SendOrderConfirmation(order.CustomerEmail, &confirmation)
	}

	publishStockEvents(bus, order.Items, -1)
	return nil
}

// -------- Handlers --------

// CreateOrderHandler is the checkout workflow: validate stock, persist a
// pending order, charge, then branch on the gateway's answer.
func CreateOrderHandler(s *store.Stores, pay payment.Service, mail Mailer, bus events.Bus, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString("user_id")
		email := c.GetString("email")

		var req CreateOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request: " + err.Error()})
			return
		}

		ctx := c.Request.Context()

		// 1️⃣ Validate every line against the catalog and snapshot
		// authoritative name/image/price.
		var (
			orderItems []models.OrderItem
			subtotal   float64
		)
		for _, it := range req.Items {
			product, err := s.Products.Get(ctx, it.ProductID)
			if err != nil {
				if errors.Is(err, store.ErrNotFound) {
					c.JSON(http.StatusNotFound, gin.H{"success": false,
						"message": fmt.Sprintf("Product %d not found", it.ProductID)})
					return
				}
				serverError(c, log, err)
				return
			}
			color := it.Color.String()
			variant := product.FindVariant(color, it.Size)
			if variant == nil {
				c.JSON(http.StatusNotFound, gin.H{"success": false,
					"message": fmt.Sprintf("Variant not found for %s (%s/%s)", product.Name, color, it.Size)})
				return
			}
			if variant.Stock < it.Quantity {
				c.JSON(http.StatusBadRequest, gin.H{"success": false,
					"message": fmt.Sprintf("Insufficient stock for %s (%s/%s). Available: %d, Requested: %d",
						product.Name, color, it.Size, variant.Stock, it.Quantity)})
				return
			}
			subtotal += product.Price * float64(it.Quantity)
			orderItems = append(orderItems, models.OrderItem{
				ProductID: product.ID,
				Name:      product.Name,
				Image:     product.Image,
				Color:     color,
				Size:      it.Size,
				Quantity:  it.Quantity,
				Price:     product.Price,
			})
		}

		// 2️⃣ Server-side total. The client's number is only accepted when it
		// agrees with the catalog within one centavo.
		serverTotal := subtotal - req.Totals.Discount + req.Totals.ShippingCost + req.Totals.Tax
		if math.Abs(serverTotal-req.Totals.Total) > totalTolerance {
			c.JSON(http.StatusBadRequest, gin.H{"success": false,
				"message": fmt.Sprintf("Order total mismatch: expected %.2f, got %.2f", serverTotal, req.Totals.Total)})
			return
		}

		// 3️⃣ Persist the pending order before going near the gateway.
		order := models.Order{
			OrderNumber:     generateOrderNumber(),
			UserID:          userID,
			CustomerEmail:   email,
			Items:           orderItems,
			ShippingAddress: req.ShippingAddress,
			PaymentMethod:   req.PaymentMethod,
			PaymentStatus:   models.PaymentStatusPending,
			Subtotal:        subtotal,
			Discount:        req.Totals.Discount,
			ShippingCost:    req.Totals.ShippingCost,
			Tax:             req.Totals.Tax,
			Total:           serverTotal,
		}
		order.SetStatus(models.OrderStatusPending, "Order placed")
		if err := s.Orders.Create(ctx, &order); err != nil {
			serverError(c, log, err)
			return
		}

		// 4️⃣ Charge.
		res, err := pay.Charge(ctx, payment.ChargeRequest{
			Method:      req.PaymentMethod,
			Amount:      serverTotal,
			Currency:    "PHP",
			OrderNumber: order.OrderNumber,
			Name:        req.ShippingAddress.FullName,
			Email:       email,
			Phone:       req.ShippingAddress.Contact,
			Details:     req.PaymentDetails,
		})
		if err != nil {
			order.PaymentStatus = models.PaymentStatusFailed
			order.SetStatus(models.OrderStatusCancelled, "Payment gateway unreachable")
			if saveErr := s.Orders.Save(ctx, &order); saveErr != nil {
				log.Error("failed to cancel order after gateway error", zap.Error(saveErr))
			}
			log.Error("payment gateway unreachable", zap.String("order", order.OrderNumber), zap.Error(err))
			c.JSON(http.StatusBadGateway, gin.H{"success": false, "message": "Payment gateway unavailable"})
			return
		}

		// 5️⃣ Branch on the gateway's answer.
		switch {
		case res.RequiresAction:
			// Wallet redirect; stock stays untouched until the webhook
			// confirms the payment.
			order.TransactionID = res.TransactionID
			order.RedirectURL = res.RedirectURL
			if err := s.Orders.Save(ctx, &order); err != nil {
				serverError(c, log, err)
				return
			}
			bus.Publish(events.Event{Type: events.TypeOrderCreated, Data: order})
			c.JSON(http.StatusCreated, gin.H{"success": true, "data": gin.H{
				"order": order,
				"payment": gin.H{
					"requires_action": true,
					"redirect_url":    res.RedirectURL,
				},
			}})

		case res.Success:
			order.TransactionID = res.TransactionID
			if err := FinalizePaidOrder(ctx, s, mail, bus, log, &order); err != nil {
				if errors.Is(err, store.ErrInsufficientStock) {
					c.JSON(http.StatusConflict, gin.H{"success": false,
						"message": "Stock ran out while confirming payment; the order was cancelled and the payment marked for refund"})
					return
				}
				serverError(c, log, err)
				return
			}
			bus.Publish(events.Event{Type: events.TypeOrderCreated, Data: order})
			c.JSON(http.StatusCreated, gin.H{"success": true, "data": gin.H{
				"order": order,
				"payment": gin.H{
					"success":        true,
					"transaction_id": res.TransactionID,
				},
			}})

		default:
			reason := res.Message
			if reason == "" {
				reason = "Payment failed"
			}
			order.PaymentStatus = models.PaymentStatusFailed
			order.SetStatus(models.OrderStatusCancelled, "Payment failed: "+reason)
			if err := s.Orders.Save(ctx, &order); err != nil {
				serverError(c, log, err)
				return
			}
			c.JSON(http.StatusPaymentRequired, gin.H{"success": false, "message": reason})
		}
	}
}

func GetMyOrdersHandler(s *store.Stores, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString("user_id")
		page, limit := pagination(c)
		orders, total, err := s.Orders.ListByUser(c.Request.Context(), userID, page, limit)
		if err != nil {
			serverError(c, log, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{
			"orders": orders, "total": total, "page": page, "limit": limit,
		}})
	}
}

// GetOrderHandler serves one order to its owner or to an admin.
func GetOrderHandler(s *store.Stores, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		order, ok := loadOrder(c, s, log)
		if !ok {
			return
		}
		role, _ := c.Get("role")
		if order.UserID != c.GetString("user_id") && role != "admin" {
			c.JSON(http.StatusForbidden, gin.H{"success": false, "message": "Not your order"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "data": order})
	}
}

func GetAllOrdersHandler(s *store.Stores, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, limit := pagination(c)
		orders, total, err := s.Orders.List(c.Request.Context(), store.OrderFilter{
			Status: c.Query("status"),
			Page:   page,
			Limit:  limit,
		})
		if err != nil {
			serverError(c, log, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{
			"orders": orders, "total": total, "page": page, "limit": limit,
		}})
	}
}

// UpdateOrderStatusHandler is the admin status mutation. The state machine
// is deliberately permissive: any status can be set from any status.
func UpdateOrderStatusHandler(s *store.Stores, bus events.Bus, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req UpdateOrderStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
			return
		}
		newStatus, err := mapOrderStatus(req.Status)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
			return
		}

		order, ok := loadOrder(c, s, log)
		if !ok {
			return
		}
		if req.TrackingNumber != "" {
			order.TrackingNumber = req.TrackingNumber
		}
		order.SetStatus(newStatus, req.Note)
		if newStatus == models.OrderStatusDelivered {
			now := time.Now()
			order.IsDelivered = true
			order.DeliveredAt = &now
		}
		if err := s.Orders.Save(c.Request.Context(), order); err != nil {
			serverError(c, log, err)
			return
		}
		bus.Publish(events.Event{Type: events.TypeOrderUpdated, Data: order})
		c.JSON(http.StatusOK, gin.H{"success": true, "data": order})
	}
}

// CancelOrderHandler lets a customer cancel their own order while it is
// still pending or processing. Stock consumed by a paid order is restored.
func CancelOrderHandler(s *store.Stores, bus events.Bus, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		order, ok := loadOrder(c, s, log)
		if !ok {
			return
		}
		if order.UserID != c.GetString("user_id") {
			c.JSON(http.StatusForbidden, gin.H{"success": false, "message": "Not your order"})
			return
		}
		if order.Status != models.OrderStatusPending && order.Status != models.OrderStatusProcessing {
			c.JSON(http.StatusBadRequest, gin.H{"success": false,
				"message": fmt.Sprintf("Order can no longer be cancelled (status: %s)", order.Status)})
			return
		}

		ctx := c.Request.Context()
		if order.Status == models.OrderStatusProcessing {
			// Paid orders already consumed stock.
			if err := s.Products.RestoreStock(ctx, stockLines(order.Items)); err != nil {
				serverError(c, log, err)
				return
			}
			publishStockEvents(bus, order.Items, 1)
		}
		if order.PaymentStatus == models.PaymentStatusPaid {
			order.PaymentStatus = models.PaymentStatusRefunded
		}
		order.SetStatus(models.OrderStatusCancelled, "Cancelled by customer")
		if err := s.Orders.Save(ctx, order); err != nil {
			serverError(c, log, err)
			return
		}
		bus.Publish(events.Event{Type: events.TypeOrderUpdated, Data: order})
		c.JSON(http.StatusOK, gin.H{"success": true, "data": order})
	}
}

func DeleteOrderHandler(s *store.Stores, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := parseID(c)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid order ID"})
			return
		}
		if err := s.Orders.Delete(c.Request.Context(), id); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Order not found"})
				return
			}
			serverError(c, log, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Order deleted"})
	}
}

// -------- shared plumbing --------

func loadOrder(c *gin.Context, s *store.Stores, log *zap.Logger) (*models.Order, bool) {
	id, err := parseID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid order ID"})
		return nil, false
	}
	order, err := s.Orders.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Order not found"})
			return nil, false
		}
		serverError(c, log, err)
		return nil, false
	}
	return order, true
}

func parseID(c *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("orderID"), 10, 32)
	return uint(id), err
}

func pagination(c *gin.Context) (page, limit int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return page, limit
}

// serverError logs the raw error and answers with a generic message; raw
// exception text never reaches the client.
func serverError(c *gin.Context, log *zap.Logger, err error) {
	log.Error("internal error",
		zap.String("path", c.Request.URL.Path),
		zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Internal server error"})
}
