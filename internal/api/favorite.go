package api

import (
	"net/http" // HTTP status codes

	"bookstore/internal/middleware" // Caller identity
	"bookstore/internal/service"    // Favorites service

	"github.com/gin-gonic/gin" // Gin web framework
)

// ListFavoritesHandler returns the caller's favorite books
func ListFavoritesHandler(favs *service.Favorites) gin.HandlerFunc {
	return func(c *gin.Context) {
		books, err := favs.List(c.Request.Context(), middleware.UserID(c))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, books)
	}
}

// AddFavoriteHandler marks a book as favorite
func AddFavoriteHandler(favs *service.Favorites) gin.HandlerFunc {
	return func(c *gin.Context) {
		bookID, ok := idParam(c, "bookId")
		if !ok {
			return
		}
		if err := favs.Add(c.Request.Context(), middleware.UserID(c), bookID); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Book added to favorites"})
	}
}

// RemoveFavoriteHandler unmarks a book
func RemoveFavoriteHandler(favs *service.Favorites) gin.HandlerFunc {
	return func(c *gin.Context) {
		bookID, ok := idParam(c, "bookId")
		if !ok {
			return
		}
		if err := favs.Remove(c.Request.Context(), middleware.UserID(c), bookID); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Book removed from favorites"})
	}
}
