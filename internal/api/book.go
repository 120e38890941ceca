package api

import (
	"net/http" // HTTP status codes

	"bookstore/internal/service" // Catalog service

	"github.com/gin-gonic/gin"      // Gin web framework
	"github.com/shopspring/decimal" // Price query parsing
)

// ListBooksHandler returns the books visible to the caller
func ListBooksHandler(catalog *service.Catalog) gin.HandlerFunc {
	return func(c *gin.Context) {
		books, err := catalog.List(c.Request.Context(), viewer(c))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, books)
	}
}

// GetBookHandler returns one book
func GetBookHandler(catalog *service.Catalog) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := idParam(c, "id")
		if !ok {
			return
		}
		book, err := catalog.Get(c.Request.Context(), viewer(c), id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, book)
	}
}

// SearchBooksHandler matches ?query= across title, author, category and genre
func SearchBooksHandler(catalog *service.Catalog) gin.HandlerFunc {
	return func(c *gin.Context) {
		books, err := catalog.Search(c.Request.Context(), viewer(c), c.Query("query"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, books)
	}
}

// FilterBooksHandler applies the author, category, genre and price range query parameters
func FilterBooksHandler(catalog *service.Catalog) gin.HandlerFunc {
	return func(c *gin.Context) {
		filter := service.BookFilter{
			Author:   c.Query("author"),   // Author name substring
			Category: c.Query("category"), // Category name substring
			Genre:    c.Query("genre"),    // Genre substring
		}
		var ok bool
		if filter.MinPrice, ok = priceQuery(c, "minPrice"); !ok {
			return
		}
		if filter.MaxPrice, ok = priceQuery(c, "maxPrice"); !ok {
			return
		}
		books, err := catalog.Filter(c.Request.Context(), viewer(c), filter)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, books)
	}
}

// priceQuery parses an optional decimal query parameter
func priceQuery(c *gin.Context, name string) (*decimal.Decimal, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true // Not set
	}
	v, err := decimal.NewFromString(raw)
	if err != nil {
		badRequest(c, name+" must be a number")
		return nil, false
	}
	return &v, true
}

// CreateBookHandler adds an approved book (admin)
func CreateBookHandler(catalog *service.Catalog) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in service.BookInput // Bind JSON request to struct
		if err := c.ShouldBindJSON(&in); err != nil {
			badRequest(c, "Invalid request")
			return
		}
		approved := true // Admin created books are live unless stated otherwise
		if in.IsApproved != nil {
			approved = *in.IsApproved
		}
		book, err := catalog.Create(c.Request.Context(), in, approved)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, book)
	}
}

// UpdateBookHandler replaces a book (admin)
func UpdateBookHandler(catalog *service.Catalog) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := idParam(c, "id")
		if !ok {
			return
		}
		var in service.BookInput
		if err := c.ShouldBindJSON(&in); err != nil {
			badRequest(c, "Invalid request")
			return
		}
		book, err := catalog.Update(c.Request.Context(), id, in)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, book)
	}
}

// DeleteBookHandler removes a book (admin)
func DeleteBookHandler(catalog *service.Catalog) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := idParam(c, "id")
		if !ok {
			return
		}
		if err := catalog.Delete(c.Request.Context(), id); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Book deleted"})
	}
}

// statusRequest is the body of PATCH /book/:id/status
type statusRequest struct {
	IsApproved *bool `json:"isApproved" binding:"required"` // New approval flag
}

// SetBookStatusHandler sets the approval flag of a book (admin)
func SetBookStatusHandler(catalog *service.Catalog) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := idParam(c, "id")
		if !ok {
			return
		}
		var req statusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "isApproved is required")
			return
		}
		book, err := catalog.SetApproval(c.Request.Context(), id, *req.IsApproved)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, book)
	}
}

// ApproveBookHandler is the shortcut that publishes a book (admin)
func ApproveBookHandler(catalog *service.Catalog) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := idParam(c, "id")
		if !ok {
			return
		}
		book, err := catalog.SetApproval(c.Request.Context(), id, true)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Book approved", "book": book})
	}
}
