// Package payment wraps the wallet payment aggregator (GCash/PayMaya) the
// storefront charges through. The gateway is treated as opaque: it either
// settles immediately, asks the customer to authorize on its checkout page,
// or declines.
package payment

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

type ChargeRequest struct {
	Method      string  // "gcash", "paymaya", "cod"
	Amount      float64 // server-computed order total
	Currency    string
	OrderNumber string
	Name        string
	Email       string
	Phone       string
	Details     map[string]string // gateway-specific fields passed through
}

type ChargeResult struct {
	Success        bool
	RequiresAction bool
	RedirectURL    string // set when the customer must authorize externally
	TransactionID  string
	Message        string
}

type Service interface {
	Charge(ctx context.Context, req ChargeRequest) (ChargeResult, error)
}

// Sign computes the hex HMAC-SHA256 the gateway puts on webhook payloads.
func Sign(payload []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifySignature checks a webhook body against its signature header.
func VerifySignature(payload []byte, signature, secret string) bool {
	expected := Sign(payload, secret)
	return hmac.Equal([]byte(expected), []byte(signature))
}
