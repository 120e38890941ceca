package api

import (
	"net/http" // HTTP status codes

	"bookstore/internal/service" // Taxonomy service

	"github.com/gin-gonic/gin" // Gin web framework
)

// nameRequest is the body of author and category creation
type nameRequest struct {
	Name string `json:"name" binding:"required"` // Display name
}

// ListAuthorsHandler returns every author
func ListAuthorsHandler(tax *service.Taxonomy) gin.HandlerFunc {
	return func(c *gin.Context) {
		authors, err := tax.Authors(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, authors)
	}
}

// ListCategoriesHandler returns every category
func ListCategoriesHandler(tax *service.Taxonomy) gin.HandlerFunc {
	return func(c *gin.Context) {
		cats, err := tax.Categories(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, cats)
	}
}

// CreateAuthorHandler adds an author (admin)
func CreateAuthorHandler(tax *service.Taxonomy) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req nameRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "name is required")
			return
		}
		author, err := tax.CreateAuthor(c.Request.Context(), req.Name)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, author)
	}
}

// CreateCategoryHandler adds a category (admin)
func CreateCategoryHandler(tax *service.Taxonomy) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req nameRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "name is required")
			return
		}
		cat, err := tax.CreateCategory(c.Request.Context(), req.Name)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, cat)
	}
}

// DeleteAuthorHandler removes an author and their books (admin)
func DeleteAuthorHandler(tax *service.Taxonomy) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := idParam(c, "id")
		if !ok {
			return
		}
		if err := tax.DeleteAuthor(c.Request.Context(), id); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Author deleted"})
	}
}

// DeleteCategoryHandler removes a category and its books (admin)
func DeleteCategoryHandler(tax *service.Taxonomy) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := idParam(c, "id")
		if !ok {
			return
		}
		if err := tax.DeleteCategory(c.Request.Context(), id); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Category deleted"})
	}
}
