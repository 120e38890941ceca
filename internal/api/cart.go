package api

import (
	"net/http" // HTTP status codes
	"strconv"  // Quantity parsing

	"bookstore/internal/middleware" // Caller identity
	"bookstore/internal/service"    // Cart service

	"github.com/gin-gonic/gin" // Gin web framework
)

// GetCartHandler returns the caller's cart
func GetCartHandler(carts *service.Carts) gin.HandlerFunc {
	return func(c *gin.Context) {
		items, err := carts.Get(c.Request.Context(), middleware.UserID(c))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, items)
	}
}

// AddToCartHandler adds ?quantity= copies (default 1) of a book
func AddToCartHandler(carts *service.Carts) gin.HandlerFunc {
	return func(c *gin.Context) {
		bookID, ok := idParam(c, "bookId")
		if !ok {
			return
		}
		qty, err := strconv.Atoi(c.DefaultQuery("quantity", "1"))
		if err != nil {
			badRequest(c, "quantity must be a number")
			return
		}
		if err := carts.Add(c.Request.Context(), middleware.UserID(c), bookID, qty); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Book added to cart"})
	}
}

// quantityRequest is the body of PUT /cart/:bookId
type quantityRequest struct {
	Quantity *int `json:"quantity" binding:"required"` // New quantity, zero or less removes the line
}

// SetCartQuantityHandler replaces the quantity of a cart line
func SetCartQuantityHandler(carts *service.Carts) gin.HandlerFunc {
	return func(c *gin.Context) {
		bookID, ok := idParam(c, "bookId")
		if !ok {
			return
		}
		var req quantityRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "quantity is required")
			return
		}
		if err := carts.SetQuantity(c.Request.Context(), middleware.UserID(c), bookID, *req.Quantity); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Cart updated"})
	}
}

// RemoveFromCartHandler deletes a cart line
func RemoveFromCartHandler(carts *service.Carts) gin.HandlerFunc {
	return func(c *gin.Context) {
		bookID, ok := idParam(c, "bookId")
		if !ok {
			return
		}
		if err := carts.Remove(c.Request.Context(), middleware.UserID(c), bookID); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Book removed from cart"})
	}
}

// ClearCartHandler empties the caller's cart
func ClearCartHandler(carts *service.Carts) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := carts.Clear(c.Request.Context(), middleware.UserID(c)); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Cart cleared successfully"})
	}
}
