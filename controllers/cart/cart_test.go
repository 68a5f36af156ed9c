package cartControllers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/JohnGabriel1998/Seven-Apparel-sub000/models"
	"github.com/JohnGabriel1998/Seven-Apparel-sub000/store"
	"github.com/JohnGabriel1998/Seven-Apparel-sub000/store/memstore"
)

type cartEnv struct {
	stores   *store.Stores
	products *memstore.ProductStore
	router   *gin.Engine
}

func newCartEnv(t *testing.T) *cartEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	env := &cartEnv{stores: memstore.New()}
	env.products = env.stores.Products.(*memstore.ProductStore)

	log := zap.NewNop()
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("user_id", "user-1")
		c.Next()
	})
	r.GET("/api/cart", GetCartHandler(env.stores, log))
	r.POST("/api/cart", AddToCartHandler(env.stores, log))
	r.POST("/api/cart/sync", SyncCartHandler(env.stores, log))
	r.PUT("/api/cart/:itemID", UpdateCartItemHandler(env.stores, log))
	r.DELETE("/api/cart/:itemID", RemoveCartItemHandler(env.stores, log))
	r.DELETE("/api/cart", ClearCartHandler(env.stores, log))
	env.router = r
	return env
}

func (e *cartEnv) seedProduct(t *testing.T, stock int) models.Product {
	t.Helper()
	p := models.Product{
		Name:  "Denim Jacket",
		Price: 1500,
		Variants: []models.Variant{
			{Color: "Indigo", Size: "M", Stock: stock, SKU: "DJ-IND-M"},
		},
	}
	e.products.Put(&p)
	return p
}

func (e *cartEnv) do(method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e *cartEnv) cart(t *testing.T) *models.Cart {
	t.Helper()
	cart, err := e.stores.Carts.GetOrCreate(context.Background(), "user-1")
	require.NoError(t, err)
	return cart
}

func addBody(productID uint, qty int) map[string]interface{} {
	return map[string]interface{}{
		"product_id": productID, "color": "Indigo", "size": "M", "quantity": qty,
	}
}

func TestAddToCartAccumulatesAndChecksStock(t *testing.T) {
	env := newCartEnv(t)
	p := env.seedProduct(t, 3)

	w := env.do(http.MethodPost, "/api/cart", addBody(p.ID, 2))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	cart := env.cart(t)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 2, cart.Items[0].Quantity)
	assert.Equal(t, "Denim Jacket", cart.Items[0].Name)
	assert.Equal(t, 1500.0, cart.Items[0].Price)

	// Same variant again tops up the line.
	w = env.do(http.MethodPost, "/api/cart", addBody(p.ID, 1))
	require.Equal(t, http.StatusOK, w.Code)
	cart = env.cart(t)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 3, cart.Items[0].Quantity)

	// A fourth unit would exceed the variant's stock of 3.
	w = env.do(http.MethodPost, "/api/cart", addBody(p.ID, 1))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Insufficient stock")
}

func TestAddToCartUnknownProductOrVariant(t *testing.T) {
	env := newCartEnv(t)
	p := env.seedProduct(t, 3)

	w := env.do(http.MethodPost, "/api/cart", addBody(p.ID+9, 1))
	assert.Equal(t, http.StatusNotFound, w.Code)

	body := addBody(p.ID, 1)
	body["size"] = "XS"
	w = env.do(http.MethodPost, "/api/cart", body)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Variant not found")
}

func TestUpdateAndRemoveCartItem(t *testing.T) {
	env := newCartEnv(t)
	p := env.seedProduct(t, 5)

	require.Equal(t, http.StatusOK, env.do(http.MethodPost, "/api/cart", addBody(p.ID, 1)).Code)
	itemID := env.cart(t).Items[0].ID

	w := env.do(http.MethodPut, fmt.Sprintf("/api/cart/%d", itemID), map[string]interface{}{"quantity": 4})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, 4, env.cart(t).Items[0].Quantity)

	// Quantity beyond stock is rejected.
	w = env.do(http.MethodPut, fmt.Sprintf("/api/cart/%d", itemID), map[string]interface{}{"quantity": 6})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(http.MethodDelete, fmt.Sprintf("/api/cart/%d", itemID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, env.cart(t).Items)

	w = env.do(http.MethodDelete, fmt.Sprintf("/api/cart/%d", itemID), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSyncCartTakesMaxQuantityPerKey(t *testing.T) {
	env := newCartEnv(t)
	p := env.seedProduct(t, 10)

	// Server cart already holds 3.
	require.Equal(t, http.StatusOK, env.do(http.MethodPost, "/api/cart", addBody(p.ID, 3)).Code)

	// Client held 2 of the same line and one unknown product: max wins, the
	// unknown line is skipped.
	w := env.do(http.MethodPost, "/api/cart/sync", map[string]interface{}{
		"items": []map[string]interface{}{
			addBody(p.ID, 2),
			{"product_id": p.ID + 9, "color": "Indigo", "size": "M", "quantity": 1},
		},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	cart := env.cart(t)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 3, cart.Items[0].Quantity)

	// Client quantity above stock gets clamped.
	w = env.do(http.MethodPost, "/api/cart/sync", map[string]interface{}{
		"items": []map[string]interface{}{addBody(p.ID, 50)},
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 10, env.cart(t).Items[0].Quantity)
}

func TestClearCart(t *testing.T) {
	env := newCartEnv(t)
	p := env.seedProduct(t, 5)

	require.Equal(t, http.StatusOK, env.do(http.MethodPost, "/api/cart", addBody(p.ID, 2)).Code)
	require.Equal(t, http.StatusOK, env.do(http.MethodDelete, "/api/cart", nil).Code)
	assert.Empty(t, env.cart(t).Items)

	// Clearing an untouched cart is fine too.
	assert.Equal(t, http.StatusOK, env.do(http.MethodDelete, "/api/cart", nil).Code)
}
