// Package mailer sends order confirmation email. Sending is fire-and-forget:
// the checkout response never waits on SMTP and failures only hit the log.
package mailer

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"go.uber.org/zap"
	gomail "gopkg.in/gomail.v2"

	"github.com/JohnGabriel1998/Seven-Apparel-sub000/models"
)

type Mailer struct {
	dialer *gomail.Dialer
	from   string
	log    *zap.Logger
}

// NewFromEnv builds a mailer from SMTP_* settings. With no SMTP_HOST the
// mailer is disabled and sends become logged no-ops, which keeps local dev
// working without a mail server.
func NewFromEnv(log *zap.Logger) *Mailer {
	host := os.Getenv("SMTP_HOST")
	if host == "" {
		log.Info("📭 SMTP not configured, order confirmation email disabled")
		return &Mailer{log: log}
	}
	port, err := strconv.Atoi(os.Getenv("SMTP_PORT"))
	if err != nil || port == 0 {
		port = 587
	}
	from := os.Getenv("SMTP_FROM")
	if from == "" {
		from = os.Getenv("SMTP_USER")
	}
	return &Mailer{
		dialer: gomail.NewDialer(host, port, os.Getenv("SMTP_USER"), os.Getenv("SMTP_PASS")),
		from:   from,
		log:    log,
	}
}

// SendOrderConfirmation is meant to be called from a goroutine; it never
// returns an error to the caller.
func (m *Mailer) SendOrderConfirmation(to string, order *models.Order) {
	if m.dialer == nil || to == "" {
		return
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", fmt.Sprintf("Seven Apparel — order %s confirmed", order.OrderNumber))
	msg.SetBody("text/plain", confirmationBody(order))

	if err := m.dialer.DialAndSend(msg); err != nil {
		m.log.Warn("📭 failed to send confirmation email",
			zap.String("order", order.OrderNumber),
			zap.Error(err))
		return
	}
	m.log.Info("📬 confirmation email sent", zap.String("order", order.OrderNumber))
}

func confirmationBody(order *models.Order) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Thank you for your order!\n\nOrder %s\n\n", order.OrderNumber)
	for _, it := range order.Items {
		fmt.Fprintf(&b, "  %dx %s (%s/%s) — ₱%.2f\n", it.Quantity, it.Name, it.Color, it.Size, it.Price*float64(it.Quantity))
	}
	fmt.Fprintf(&b, "\nSubtotal: ₱%.2f\n", order.Subtotal)
	if order.Discount > 0 {
		fmt.Fprintf(&b, "Discount: -₱%.2f\n", order.Discount)
	}
	fmt.Fprintf(&b, "Shipping: ₱%.2f\nTax: ₱%.2f\nTotal: ₱%.2f\n\n", order.ShippingCost, order.Tax, order.Total)
	fmt.Fprintf(&b, "Shipping to: %s, %s, %s, %s, %s %s\n",
		order.ShippingAddress.FullName,
		order.ShippingAddress.Barangay,
		order.ShippingAddress.City,
		order.ShippingAddress.Province,
		order.ShippingAddress.Region,
		order.ShippingAddress.ZipCode)
	return b.String()
}
