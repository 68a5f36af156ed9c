package reviewControllers

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

type reviewEnv struct {
	stores   *store.Stores
	products *memstore.ProductStore
	router   *gin.Engine
}

func newReviewEnv(t *testing.T) *reviewEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	env := &reviewEnv{stores: memstore.New()}
	env.products = env.stores.Products.(*memstore.ProductStore)

	log := zap.NewNop()
	r := gin.New()
	r.GET("/api/reviews/product/:id", ListProductReviewsHandler(env.stores, log))

	authed := func(userID, role string, h gin.HandlerFunc) gin.HandlerFunc {
		return func(c *gin.Context) {
			c.Set("user_id", userID)
			c.Set("role", role)
			h(c)
		}
	}
	r.POST("/api/reviews/product/:id", func(c *gin.Context) {
		authed(c.GetHeader("X-Test-User"), "customer", CreateReviewHandler(env.stores, log))(c)
	})
	r.PUT("/api/reviews/:reviewID", func(c *gin.Context) {
		authed(c.GetHeader("X-Test-User"), "customer", UpdateReviewHandler(env.stores, log))(c)
	})
	r.DELETE("/api/reviews/:reviewID", func(c *gin.Context) {
		role := c.GetHeader("X-Test-Role")
		if role == "" {
			role = "customer"
		}
		authed(c.GetHeader("X-Test-User"), role, DeleteReviewHandler(env.stores, log))(c)
	})
	r.POST("/api/reviews/:reviewID/helpful", func(c *gin.Context) {
		authed(c.GetHeader("X-Test-User"), "customer", MarkHelpfulHandler(env.stores, log))(c)
	})
	env.router = r
	return env
}

func (e *reviewEnv) seedProduct(t *testing.T) models.Product {
	t.Helper()
	p := models.Product{
		Name:  "Graphic Tee",
		Price: 450,
		Variants: []models.Variant{
			{Color: "Black", Size: "M", Stock: 10, SKU: "GT-BLK-M"},
		},
	}
	e.products.Put(&p)
	return p
}

func (e *reviewEnv) do(method, path, user string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if user != "" {
		req.Header.Set("X-Test-User", user)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e *reviewEnv) product(t *testing.T, id uint) *models.Product {
	t.Helper()
	p, err := e.stores.Products.Get(context.Background(), id)
	require.NoError(t, err)
	return p
}

func reviewBody(rating int, comment string) map[string]interface{} {
	return map[string]interface{}{"rating": rating, "title": "fit check", "comment": comment}
}

func TestCreateReviewRecomputesAggregate(t *testing.T) {
	env := newReviewEnv(t)
	p := env.seedProduct(t)
	path := fmt.Sprintf("/api/reviews/product/%d", p.ID)

	w := env.do(http.MethodPost, path, "user-1", reviewBody(5, "great fabric"))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	got := env.product(t, p.ID)
	assert.Equal(t, 5.0, got.RatingAverage)
	assert.Equal(t, 1, got.RatingCount)

	w = env.do(http.MethodPost, path, "user-2", reviewBody(3, "runs small"))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	got = env.product(t, p.ID)
	assert.Equal(t, 4.0, got.RatingAverage)
	assert.Equal(t, 2, got.RatingCount)
}

func TestCreateReviewRejectsDuplicateAndUnknownProduct(t *testing.T) {
	env := newReviewEnv(t)
	p := env.seedProduct(t)
	path := fmt.Sprintf("/api/reviews/product/%d", p.ID)

	require.Equal(t, http.StatusCreated, env.do(http.MethodPost, path, "user-1", reviewBody(4, "")).Code)

	w := env.do(http.MethodPost, path, "user-1", reviewBody(2, "changed my mind"))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "already reviewed")

	w = env.do(http.MethodPost, fmt.Sprintf("/api/reviews/product/%d", p.ID+9), "user-1", reviewBody(4, ""))
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = env.do(http.MethodPost, path, "user-2", reviewBody(6, "too high"))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateReviewIsOwnerOnlyAndRecomputes(t *testing.T) {
	env := newReviewEnv(t)
	p := env.seedProduct(t)
	path := fmt.Sprintf("/api/reviews/product/%d", p.ID)

	require.Equal(t, http.StatusCreated, env.do(http.MethodPost, path, "user-1", reviewBody(5, "")).Code)
	reviews, err := env.stores.Reviews.ListByProduct(context.Background(), p.ID, true)
	require.NoError(t, err)
	require.Len(t, reviews, 1)
	reviewPath := fmt.Sprintf("/api/reviews/%d", reviews[0].ID)

	w := env.do(http.MethodPut, reviewPath, "user-2", reviewBody(1, "not mine"))
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = env.do(http.MethodPut, reviewPath, "user-1", reviewBody(3, "faded after a wash"))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	got := env.product(t, p.ID)
	assert.Equal(t, 3.0, got.RatingAverage)
	assert.Equal(t, 1, got.RatingCount)
}

func TestDeleteReviewResetsAggregate(t *testing.T) {
	env := newReviewEnv(t)
	p := env.seedProduct(t)
	path := fmt.Sprintf("/api/reviews/product/%d", p.ID)

	require.Equal(t, http.StatusCreated, env.do(http.MethodPost, path, "user-1", reviewBody(5, "")).Code)
	reviews, err := env.stores.Reviews.ListByProduct(context.Background(), p.ID, true)
	require.NoError(t, err)
	reviewPath := fmt.Sprintf("/api/reviews/%d", reviews[0].ID)

	// Another customer cannot delete, an admin can.
	req := httptest.NewRequest(http.MethodDelete, reviewPath, nil)
	req.Header.Set("X-Test-User", "user-2")
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)

	req = httptest.NewRequest(http.MethodDelete, reviewPath, nil)
	req.Header.Set("X-Test-User", "admin-1")
	req.Header.Set("X-Test-Role", "admin")
	w = httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	got := env.product(t, p.ID)
	assert.Equal(t, 0.0, got.RatingAverage)
	assert.Equal(t, 0, got.RatingCount)
}

func TestMarkHelpfulIncrements(t *testing.T) {
	env := newReviewEnv(t)
	p := env.seedProduct(t)

	require.Equal(t, http.StatusCreated,
		env.do(http.MethodPost, fmt.Sprintf("/api/reviews/product/%d", p.ID), "user-1", reviewBody(4, "")).Code)
	reviews, err := env.stores.Reviews.ListByProduct(context.Background(), p.ID, true)
	require.NoError(t, err)
	helpfulPath := fmt.Sprintf("/api/reviews/%d/helpful", reviews[0].ID)

	require.Equal(t, http.StatusOK, env.do(http.MethodPost, helpfulPath, "user-2", nil).Code)
	require.Equal(t, http.StatusOK, env.do(http.MethodPost, helpfulPath, "user-3", nil).Code)

	reviews, err = env.stores.Reviews.ListByProduct(context.Background(), p.ID, true)
	require.NoError(t, err)
	assert.Equal(t, 2, reviews[0].HelpfulCount)
}

func TestListReturnsApprovedOnly(t *testing.T) {
	env := newReviewEnv(t)
	p := env.seedProduct(t)

	require.NoError(t, env.stores.Reviews.Create(context.Background(), &models.Review{
		ProductID: p.ID, UserID: "user-1", Rating: 5, Approved: true,
	}))
	require.NoError(t, env.stores.Reviews.Create(context.Background(), &models.Review{
		ProductID: p.ID, UserID: "user-2", Rating: 1, Approved: false,
	}))

	w := env.do(http.MethodGet, fmt.Sprintf("/api/reviews/product/%d", p.ID), "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data []models.Review `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 1)
	assert.Equal(t, "user-1", resp.Data[0].UserID)
}
