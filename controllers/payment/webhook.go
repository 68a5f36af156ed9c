package paymentControllers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	orderControllers "github.com/JohnGabriel1998/Seven-Apparel-sub000/controllers/order"
	"github.com/JohnGabriel1998/Seven-Apparel-sub000/events"
	"github.com/JohnGabriel1998/Seven-Apparel-sub000/models"
	"github.com/JohnGabriel1998/Seven-Apparel-sub000/payment"
	"github.com/JohnGabriel1998/Seven-Apparel-sub000/store"
)

// SignatureHeader carries the gateway's hex HMAC-SHA256 of the raw body.
const SignatureHeader = "X-Payment-Signature"

type webhookPayload struct {
	Reference string `json:"reference"` // charge reference == order.TransactionID
	Status    string `json:"status"`    // "paid" or "declined"
	Message   string `json:"message"`
}

// WebhookHandler is the reconciliation path for wallet (requires-action)
// payments: the gateway calls back once the customer finishes on its page.
// Only then is stock consumed and the order marked paid. Replays of an
// already finalized charge are acknowledged without side effects.
func WebhookHandler(s *store.Stores, mail orderControllers.Mailer, bus events.Bus, log *zap.Logger) gin.HandlerFunc {
	secret := os.Getenv("PAYMENT_WEBHOOK_SECRET")
	if secret == "" {
		secret = os.Getenv("PAYMENT_SECRET_KEY")
	}

	return func(c *gin.Context) {
		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "failed to read body"})
			return
		}
		if !payment.VerifySignature(body, c.GetHeader(SignatureHeader), secret) {
			log.Warn("webhook with bad signature", zap.String("remote", c.ClientIP()))
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "invalid signature"})
			return
		}

		var payload webhookPayload
		if err := json.Unmarshal(body, &payload); err != nil || payload.Reference == "" {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "malformed payload"})
			return
		}

		ctx := c.Request.Context()
		order, err := s.Orders.GetByTransaction(ctx, payload.Reference)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "unknown charge reference"})
				return
			}
			log.Error("webhook lookup failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Internal server error"})
			return
		}

		if order.PaymentStatus != models.PaymentStatusPending {
			c.JSON(http.StatusOK, gin.H{"success": true, "message": "already processed"})
			return
		}

		if payload.Status != "paid" {
			reason := payload.Message
			if reason == "" {
				reason = "declined by gateway"
			}
			order.PaymentStatus = models.PaymentStatusFailed
			order.SetStatus(models.OrderStatusCancelled, "Payment failed: "+reason)
			if err := s.Orders.Save(ctx, order); err != nil {
				log.Error("webhook failed to cancel order", zap.Error(err))
				c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Internal server error"})
				return
			}
			bus.Publish(events.Event{Type: events.TypeOrderUpdated, Data: order})
			c.JSON(http.StatusOK, gin.H{"success": true, "message": "payment failure recorded"})
			return
		}

		if err := orderControllers.FinalizePaidOrder(ctx, s, mail, bus, log, order); err != nil {
			if errors.Is(err, store.ErrInsufficientStock) {
				// Stock ran out between checkout and the wallet confirmation.
				bus.Publish(events.Event{Type: events.TypeOrderUpdated, Data: order})
				c.JSON(http.StatusOK, gin.H{"success": true, "message": "stock conflict, order cancelled for refund"})
				return
			}
			log.Error("webhook failed to finalize order", zap.String("order", order.OrderNumber), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Internal server error"})
			return
		}

		bus.Publish(events.Event{Type: events.TypeOrderUpdated, Data: order})
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "order finalized"})
	}
}
