package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// WalletGateway talks to the payment aggregator's create-charge endpoint.
// "cod" short-circuits to an immediate success without touching the gateway.
type WalletGateway struct {
	apiURL     string
	merchantID string
	secretKey  string
	successURL string
	failureURL string
	cancelURL  string
	testMode   int
	client     *http.Client
	log        *zap.Logger
}

// NewWalletGatewayFromEnv reads the PAYMENT_* settings. Sandbox mode keeps
// the live endpoint but flags every charge as a test transaction.
func NewWalletGatewayFromEnv(log *zap.Logger) (*WalletGateway, error) {
	g := &WalletGateway{
		apiURL:     os.Getenv("PAYMENT_API_URL"),
		merchantID: os.Getenv("PAYMENT_MERCHANT_ID"),
		secretKey:  os.Getenv("PAYMENT_SECRET_KEY"),
		successURL: os.Getenv("PAYMENT_SUCCESS_URL"),
		failureURL: os.Getenv("PAYMENT_FAILURE_URL"),
		cancelURL:  os.Getenv("PAYMENT_CANCEL_URL"),
		client:     &http.Client{Timeout: 15 * time.Second},
		log:        log,
	}
	mode := os.Getenv("PAYMENT_MODE")
	if mode == "sandbox" || mode == "dev" {
		g.testMode = 1
	}
	if g.apiURL == "" || g.merchantID == "" || g.secretKey == "" {
		return nil, fmt.Errorf("payment gateway configuration missing")
	}
	return g, nil
}

type gatewayResponse struct {
	Charge struct {
		Reference   string `json:"reference"`
		Status      string `json:"status"` // "paid", "pending", "declined"
		CheckoutURL string `json:"checkout_url"`
	} `json:"charge"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func (g *WalletGateway) Charge(ctx context.Context, req ChargeRequest) (ChargeResult, error) {
	if req.Method == "cod" {
		// Cash on delivery settles at the door; the workflow treats it as paid.
		return ChargeResult{
			Success:       true,
			TransactionID: "COD-" + uuid.NewString(),
			Message:       "cash on delivery",
		}, nil
	}

	payload := map[string]interface{}{
		"merchant": g.merchantID,
		"key":      g.secretKey,
		"method":   req.Method,
		"test":     g.testMode,
		"charge": map[string]interface{}{
			"reference":   req.OrderNumber,
			"amount":      fmt.Sprintf("%.2f", req.Amount),
			"currency":    req.Currency,
			"description": "Seven Apparel order " + req.OrderNumber,
		},
		"customer": map[string]string{
			"name":  req.Name,
			"email": req.Email,
			"phone": req.Phone,
		},
		"return": map[string]string{
			"success":   g.successURL,
			"failure":   g.failureURL,
			"cancelled": g.cancelURL,
		},
	}
	for k, v := range req.Details {
		payload[k] = v
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return ChargeResult{}, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, g.apiURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return ChargeResult{}, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	resp, err := g.client.Do(httpReq)
	if err != nil {
		return ChargeResult{}, fmt.Errorf("failed to reach payment gateway: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return ChargeResult{}, fmt.Errorf("payment gateway error (%d): %s", resp.StatusCode, string(body))
	}

	var gw gatewayResponse
	if err := json.Unmarshal(body, &gw); err != nil {
		return ChargeResult{}, fmt.Errorf("failed to parse gateway response: %w", err)
	}
	if gw.Error != nil {
		return ChargeResult{Message: gw.Error.Message}, nil
	}

	switch gw.Charge.Status {
	case "paid":
		return ChargeResult{Success: true, TransactionID: gw.Charge.Reference}, nil
	case "pending":
		if gw.Charge.CheckoutURL == "" {
			return ChargeResult{}, fmt.Errorf("gateway returned pending charge without checkout URL")
		}
		return ChargeResult{
			RequiresAction: true,
			RedirectURL:    gw.Charge.CheckoutURL,
			TransactionID:  gw.Charge.Reference,
		}, nil
	default:
		g.log.Warn("💳 charge declined",
			zap.String("order", req.OrderNumber),
			zap.String("status", gw.Charge.Status))
		return ChargeResult{Message: "payment declined by gateway"}, nil
	}
}
