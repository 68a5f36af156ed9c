package payment

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func chargeReq() ChargeRequest {
	return ChargeRequest{
		OrderNumber: "SA-1700000000-abcd1234",
		Amount:      1549.5,
		Currency:    "PHP",
		Method:      "gcash",
		Name:        "Maria Santos",
		Email:       "maria@example.com",
		Phone:       "09171234567",
	}
}

func newTestGateway(t *testing.T, handler http.HandlerFunc) (*WalletGateway, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return &WalletGateway{
		apiURL:     srv.URL,
		merchantID: "M-1001",
		secretKey:  "sk-test",
		successURL: "https://shop.example/checkout/success",
		failureURL: "https://shop.example/checkout/failed",
		cancelURL:  "https://shop.example/checkout/cancelled",
		testMode:   1,
		client:     srv.Client(),
		log:        zap.NewNop(),
	}, srv
}

func TestChargePaid(t *testing.T) {
	var captured map[string]interface{}
	g, _ := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &captured))
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"charge": map[string]interface{}{"reference": "tx-001", "status": "paid"},
		})
	})

	res, err := g.Charge(context.Background(), chargeReq())
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.False(t, res.RequiresAction)
	assert.Equal(t, "tx-001", res.TransactionID)

	// The request carries merchant credentials and the formatted amount.
	assert.Equal(t, "M-1001", captured["merchant"])
	assert.Equal(t, "gcash", captured["method"])
	assert.Equal(t, float64(1), captured["test"])
	charge := captured["charge"].(map[string]interface{})
	assert.Equal(t, "1549.50", charge["amount"])
	assert.Equal(t, "PHP", charge["currency"])
}

func TestChargePendingRedirects(t *testing.T) {
	g, _ := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"charge": map[string]interface{}{
				"reference":    "tx-002",
				"status":       "pending",
				"checkout_url": "https://wallet.example/pay/tx-002",
			},
		})
	})

	res, err := g.Charge(context.Background(), chargeReq())
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.True(t, res.RequiresAction)
	assert.Equal(t, "https://wallet.example/pay/tx-002", res.RedirectURL)
	assert.Equal(t, "tx-002", res.TransactionID)
}

func TestChargePendingWithoutCheckoutURLFails(t *testing.T) {
	g, _ := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"charge": map[string]interface{}{"reference": "tx-003", "status": "pending"},
		})
	})

	_, err := g.Charge(context.Background(), chargeReq())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "checkout URL")
}

func TestChargeDeclined(t *testing.T) {
	g, _ := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"charge": map[string]interface{}{"reference": "tx-004", "status": "declined"},
		})
	})

	res, err := g.Charge(context.Background(), chargeReq())
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.False(t, res.RequiresAction)
	assert.NotEmpty(t, res.Message)
}

func TestChargeGatewayErrorPayload(t *testing.T) {
	g, _ := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"error": map[string]interface{}{"code": "E-42", "message": "wallet account suspended"},
		})
	})

	res, err := g.Charge(context.Background(), chargeReq())
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Equal(t, "wallet account suspended", res.Message)
}

func TestChargeNon200(t *testing.T) {
	g, _ := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream down", http.StatusBadGateway)
	})

	_, err := g.Charge(context.Background(), chargeReq())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}

func TestChargeCashOnDeliverySkipsGateway(t *testing.T) {
	called := false
	g, _ := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	req := chargeReq()
	req.Method = "cod"
	res, err := g.Charge(context.Background(), req)
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.True(t, strings.HasPrefix(res.TransactionID, "COD-"))
	assert.False(t, called)
}

func TestSignVerifyRoundTrip(t *testing.T) {
	payload := []byte(`{"reference":"tx-001","status":"paid"}`)
	sig := Sign(payload, "whsec")
	assert.True(t, VerifySignature(payload, sig, "whsec"))
	assert.False(t, VerifySignature(payload, sig, "other"))
	assert.False(t, VerifySignature([]byte(`tampered`), sig, "whsec"))
}
