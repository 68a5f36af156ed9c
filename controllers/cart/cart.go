package cartControllers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/JohnGabriel1998/Seven-Apparel-sub000/models"
	"github.com/JohnGabriel1998/Seven-Apparel-sub000/store"
)

type CartItemInput struct {
	ProductID uint              `json:"product_id" binding:"required"`
	Color     models.ColorValue `json:"color" binding:"required"`
	Size      string            `json:"size" binding:"required"`
	Quantity  int               `json:"quantity" binding:"required,min=1"`
}

type SyncCartRequest struct {
	Items []CartItemInput `json:"items" binding:"dive"`
}

// GET /api/cart
func GetCartHandler(s *store.Stores, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		cart, err := s.Carts.GetOrCreate(c.Request.Context(), c.GetString("user_id"))
		if err != nil {
			serverError(c, log, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "data": cart})
	}
}

// POST /api/cart — add an item, or top up an existing line. The target
// variant's stock is re-checked against the resulting quantity.
func AddToCartHandler(s *store.Stores, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString("user_id")

		var input CartItemInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid input: " + err.Error()})
			return
		}

		ctx := c.Request.Context()
		product, variant, ok := resolveVariant(c, s, input)
		if !ok {
			return
		}

		cart, err := s.Carts.GetOrCreate(ctx, userID)
		if err != nil {
			serverError(c, log, err)
			return
		}

		color := input.Color.String()
		idx := findCartItem(cart, input.ProductID, color, input.Size)
		newQty := input.Quantity
		if idx >= 0 {
			newQty += cart.Items[idx].Quantity
		}
		if variant.Stock < newQty {
			c.JSON(http.StatusBadRequest, gin.H{"success": false,
				"message": fmt.Sprintf("Insufficient stock for %s (%s/%s). Available: %d, Requested: %d",
					product.Name, color, input.Size, variant.Stock, newQty)})
			return
		}

		if idx >= 0 {
			cart.Items[idx].Quantity = newQty
			cart.Items[idx].AddedAt = time.Now()
		} else {
			cart.Items = append(cart.Items, models.CartItem{
				CartID:    cart.CartID,
				ProductID: product.ID,
				Name:      product.Name,
				Image:     product.Image,
				Price:     product.Price,
				Color:     color,
				Size:      input.Size,
				Quantity:  input.Quantity,
				AddedAt:   time.Now(),
			})
		}
		if err := s.Carts.Save(ctx, cart); err != nil {
			serverError(c, log, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "data": cart})
	}
}

// PUT /api/cart/:itemID — set a line's quantity.
func UpdateCartItemHandler(s *store.Stores, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString("user_id")
		itemID, err := strconv.ParseUint(c.Param("itemID"), 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid item ID"})
			return
		}

		var input struct {
			Quantity int `json:"quantity" binding:"required,min=1"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid input: " + err.Error()})
			return
		}

		ctx := c.Request.Context()
		cart, err := s.Carts.GetOrCreate(ctx, userID)
		if err != nil {
			serverError(c, log, err)
			return
		}

		idx := -1
		for i := range cart.Items {
			if cart.Items[i].ID == uint(itemID) {
				idx = i
				break
			}
		}
		if idx < 0 {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Cart item not found"})
			return
		}

		item := &cart.Items[idx]
		_, variant, ok := resolveVariant(c, s, CartItemInput{
			ProductID: item.ProductID,
			Color:     models.ColorValue(item.Color),
			Size:      item.Size,
			Quantity:  input.Quantity,
		})
		if !ok {
			return
		}
		if variant.Stock < input.Quantity {
			c.JSON(http.StatusBadRequest, gin.H{"success": false,
				"message": fmt.Sprintf("Insufficient stock for %s (%s/%s). Available: %d, Requested: %d",
					item.Name, item.Color, item.Size, variant.Stock, input.Quantity)})
			return
		}

		item.Quantity = input.Quantity
		item.AddedAt = time.Now()
		if err := s.Carts.Save(ctx, cart); err != nil {
			serverError(c, log, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "data": cart})
	}
}

// DELETE /api/cart/:itemID
func RemoveCartItemHandler(s *store.Stores, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString("user_id")
		itemID, err := strconv.ParseUint(c.Param("itemID"), 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid item ID"})
			return
		}

		ctx := c.Request.Context()
		cart, err := s.Carts.GetOrCreate(ctx, userID)
		if err != nil {
			serverError(c, log, err)
			return
		}

		kept := cart.Items[:0]
		removed := false
		for _, it := range cart.Items {
			if it.ID == uint(itemID) {
				removed = true
				continue
			}
			kept = append(kept, it)
		}
		if !removed {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Cart item not found"})
			return
		}
		cart.Items = kept
		if err := s.Carts.Save(ctx, cart); err != nil {
			serverError(c, log, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Cart item removed"})
	}
}

// DELETE /api/cart
func ClearCartHandler(s *store.Stores, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		err := s.Carts.Clear(c.Request.Context(), c.GetString("user_id"))
		if err != nil && !errors.Is(err, store.ErrNotFound) {
			serverError(c, log, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Cart cleared"})
	}
}

// POST /api/cart/sync — merge a client-held cart into the server cart on
// login: max quantity wins per (product, color, size) key, clamped to the
// variant's current stock. Unknown products or variants are skipped.
func SyncCartHandler(s *store.Stores, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString("user_id")

		var req SyncCartRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid input: " + err.Error()})
			return
		}

		ctx := c.Request.Context()
		cart, err := s.Carts.GetOrCreate(ctx, userID)
		if err != nil {
			serverError(c, log, err)
			return
		}

		for _, in := range req.Items {
			product, err := s.Products.Get(ctx, in.ProductID)
			if err != nil {
				continue
			}
			color := in.Color.String()
			variant := product.FindVariant(color, in.Size)
			if variant == nil {
				continue
			}

			qty := in.Quantity
			idx := findCartItem(cart, in.ProductID, color, in.Size)
			if idx >= 0 && cart.Items[idx].Quantity > qty {
				qty = cart.Items[idx].Quantity
			}
			if qty > variant.Stock {
				qty = variant.Stock
			}
			if qty <= 0 {
				continue
			}

			if idx >= 0 {
				cart.Items[idx].Quantity = qty
			} else {
				cart.Items = append(cart.Items, models.CartItem{
					CartID:    cart.CartID,
					ProductID: product.ID,
					Name:      product.Name,
					Image:     product.Image,
					Price:     product.Price,
					Color:     color,
					Size:      in.Size,
					Quantity:  qty,
					AddedAt:   time.Now(),
				})
			}
		}

		if err := s.Carts.Save(ctx, cart); err != nil {
			serverError(c, log, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "data": cart})
	}
}

// -------- helpers --------

func findCartItem(cart *models.Cart, productID uint, color, size string) int {
	for i := range cart.Items {
		if cart.Items[i].ProductID == productID &&
			cart.Items[i].Color == color &&
			cart.Items[i].Size == size {
			return i
		}
	}
	return -1
}

func resolveVariant(c *gin.Context, s *store.Stores, input CartItemInput) (*models.Product, *models.Variant, bool) {
	product, err := s.Products.Get(c.Request.Context(), input.ProductID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Product not found"})
			return nil, nil, false
		}
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Internal server error"})
		return nil, nil, false
	}
	variant := product.FindVariant(input.Color.String(), input.Size)
	if variant == nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false,
			"message": fmt.Sprintf("Variant not found for %s (%s/%s)", product.Name, input.Color, input.Size)})
		return nil, nil, false
	}
	return product, variant, true
}

func serverError(c *gin.Context, log *zap.Logger, err error) {
	log.Error("internal error", zap.String("path", c.Request.URL.Path), zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Internal server error"})
}
