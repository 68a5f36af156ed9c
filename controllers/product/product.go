package productControllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/JohnGabriel1998/Seven-Apparel-sub000/store"
)

// GET /api/products — filtering, sorting and pagination over the catalog.
func GetProductsHandler(s *store.Stores, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		f := store.ProductFilter{
			Search:   c.Query("search"),
			Category: c.Query("category"),
			Gender:   c.Query("gender"),
			Brand:    c.Query("brand"),
			SortBy:   c.DefaultQuery("sort_by", "created_at"),
			Order:    c.DefaultQuery("order", "desc"),
		}

		if v := c.Query("min_price"); v != "" {
			mp, err := strconv.ParseFloat(v, 64)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid min_price"})
				return
			}
			f.MinPrice = &mp
		}
		if v := c.Query("max_price"); v != "" {
			mp, err := strconv.ParseFloat(v, 64)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid max_price"})
				return
			}
			f.MaxPrice = &mp
		}

		f.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
		f.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))
		if f.Page < 1 {
			f.Page = 1
		}
		if f.Limit < 1 || f.Limit > 100 {
			f.Limit = 20
		}

		products, total, err := s.Products.List(c.Request.Context(), f)
		if err != nil {
			log.Error("failed to list products", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Internal server error"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{
			"products": products, "total": total, "page": f.Page, "limit": f.Limit,
		}})
	}
}

// GET /api/products/featured
func GetFeaturedProductsHandler(s *store.Stores, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit, _ := strconv.Atoi(c.DefaultQuery("limit", "8"))
		products, err := s.Products.Featured(c.Request.Context(), limit)
		if err != nil {
			log.Error("failed to list featured products", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Internal server error"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "data": products})
	}
}

// GET /api/products/:id
func GetProductHandler(s *store.Stores, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseUint(c.Param("id"), 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid product ID"})
			return
		}
		product, err := s.Products.Get(c.Request.Context(), uint(id))
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Product not found"})
				return
			}
			log.Error("failed to load product", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Internal server error"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "data": product})
	}
}
