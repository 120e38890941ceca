package api

import (
	"net/http" // HTTP status codes

	"bookstore/internal/service" // Recommendation proxy

	"github.com/gin-gonic/gin" // Gin web framework
)

// RecommendationHandler proxies ?query= to the external catalog
func RecommendationHandler(rec *service.Recommender) gin.HandlerFunc {
	return func(c *gin.Context) {
		books, err := rec.Recommend(c.Request.Context(), c.Query("query"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, books)
	}
}
