package reviewControllers

import (
	"context"
	"errors"
	"math"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/JohnGabriel1998/Seven-Apparel-sub000/models"
	"github.com/JohnGabriel1998/Seven-Apparel-sub000/store"
)

type ReviewInput struct {
	Rating  int    `json:"rating" binding:"required,min=1,max=5"`
	Title   string `json:"title"`
	Comment string `json:"comment"`
}

// GET /api/reviews/product/:id — approved reviews only.
func ListProductReviewsHandler(s *store.Stores, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		productID, err := strconv.ParseUint(c.Param("id"), 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid product ID"})
			return
		}
		reviews, err := s.Reviews.ListByProduct(c.Request.Context(), uint(productID), true)
		if err != nil {
			serverError(c, log, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "data": reviews})
	}
}

// POST /api/reviews/product/:id — one review per user per product.
func CreateReviewHandler(s *store.Stores, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString("user_id")
		productID, err := strconv.ParseUint(c.Param("id"), 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid product ID"})
			return
		}

		var input ReviewInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid input: " + err.Error()})
			return
		}

		ctx := c.Request.Context()
		if _, err := s.Products.Get(ctx, uint(productID)); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Product not found"})
				return
			}
			serverError(c, log, err)
			return
		}

		exists, err := s.Reviews.ExistsForUser(ctx, uint(productID), userID)
		if err != nil {
			serverError(c, log, err)
			return
		}
		if exists {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "You have already reviewed this product"})
			return
		}

		review := models.Review{
			ProductID: uint(productID),
			UserID:    userID,
			Rating:    input.Rating,
			Title:     input.Title,
			Comment:   input.Comment,
			Approved:  true,
		}
		if err := s.Reviews.Create(ctx, &review); err != nil {
			if errors.Is(err, store.ErrDuplicate) {
				c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "You have already reviewed this product"})
				return
			}
			serverError(c, log, err)
			return
		}

		if err := RecomputeProductRating(ctx, s, uint(productID)); err != nil {
			log.Warn("failed to recompute product rating", zap.Uint64("product", productID), zap.Error(err))
		}
		c.JSON(http.StatusCreated, gin.H{"success": true, "data": review})
	}
}

// PUT /api/reviews/:reviewID — owner only.
func UpdateReviewHandler(s *store.Stores, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		review, ok := loadReview(c, s, log)
		if !ok {
			return
		}
		if review.UserID != c.GetString("user_id") {
			c.JSON(http.StatusForbidden, gin.H{"success": false, "message": "Not your review"})
			return
		}

		var input ReviewInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid input: " + err.Error()})
			return
		}

		review.Rating = input.Rating
		review.Title = input.Title
		review.Comment = input.Comment
		if err := s.Reviews.Update(c.Request.Context(), review); err != nil {
			serverError(c, log, err)
			return
		}
		if err := RecomputeProductRating(c.Request.Context(), s, review.ProductID); err != nil {
			log.Warn("failed to recompute product rating", zap.Uint("product", review.ProductID), zap.Error(err))
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "data": review})
	}
}

// DELETE /api/reviews/:reviewID — owner or admin.
func DeleteReviewHandler(s *store.Stores, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		review, ok := loadReview(c, s, log)
		if !ok {
			return
		}
		role, _ := c.Get("role")
		if review.UserID != c.GetString("user_id") && role != "admin" {
			c.JSON(http.StatusForbidden, gin.H{"success": false, "message": "Not your review"})
			return
		}
		if err := s.Reviews.Delete(c.Request.Context(), review.ID); err != nil {
			serverError(c, log, err)
			return
		}
		if err := RecomputeProductRating(c.Request.Context(), s, review.ProductID); err != nil {
			log.Warn("failed to recompute product rating", zap.Uint("product", review.ProductID), zap.Error(err))
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Review deleted"})
	}
}

// POST /api/reviews/:reviewID/helpful
func MarkHelpfulHandler(s *store.Stores, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		review, ok := loadReview(c, s, log)
		if !ok {
			return
		}
		review.HelpfulCount++
		if err := s.Reviews.Update(c.Request.Context(), review); err != nil {
			serverError(c, log, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "data": review})
	}
}

// RecomputeProductRating re-reads all approved reviews and averages them.
// Full recompute on every mutation; fine at this catalog's scale.
func RecomputeProductRating(ctx context.Context, s *store.Stores, productID uint) error {
	reviews, err := s.Reviews.ListByProduct(ctx, productID, true)
	if err != nil {
		return err
	}
	var average float64
	if len(reviews) > 0 {
		sum := 0
		for _, r := range reviews {
			sum += r.Rating
		}
		average = float64(sum) / float64(len(reviews))
		average = math.Round(average*10) / 10
	}
	return s.Products.SetRating(ctx, productID, average, len(reviews))
}

func loadReview(c *gin.Context, s *store.Stores, log *zap.Logger) (*models.Review, bool) {
	id, err := strconv.ParseUint(c.Param("reviewID"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid review ID"})
		return nil, false
	}
	review, err := s.Reviews.Get(c.Request.Context(), uint(id))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Review not found"})
			return nil, false
		}
		serverError(c, log, err)
		return nil, false
	}
	return review, true
}

func serverError(c *gin.Context, log *zap.Logger, err error) {
	log.Error("internal error", zap.String("path", c.Request.URL.Path), zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Internal server error"})
}
