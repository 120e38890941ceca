package middleware

import (
	"net/http" // HTTP status codes
	"strings"  // String manipulation

	"bookstore/internal/domain" // Role type
	"bookstore/internal/utils"  // JWT utility functions

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
)

// Context keys set by the auth middleware
const (
	CtxUserID   = "userID"   // uint
	CtxRole     = "role"     // domain.Role
	CtxUsername = "username" // string
)

// bearerToken extracts the token of a "Bearer <token>" Authorization header
func bearerToken(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader("Authorization") // Get Authorization header
	if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
		return "", false
	}
	token := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer ")) // Extract the token string
	return token, token != ""
}

func setIdentity(c *gin.Context, claims *utils.Claims) {
	c.Set(CtxUserID, claims.UserID)     // Store userID in context
	c.Set(CtxRole, claims.Role)         // Store role in context
	c.Set(CtxUsername, claims.Username) // Store username in context
}

// JWTAuth validates the bearer token and rejects the request without one
func JWTAuth(tokens *utils.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr, ok := bearerToken(c)
		// Check if the Authorization header is present and properly formatted
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Missing or invalid Authorization header"})
			return
		}
		claims, err := tokens.Parse(tokenStr) // Parse the JWT token
		if err != nil {
			logrus.WithFields(logrus.Fields{
				"path":  c.FullPath(), // Route
				"error": err.Error(),  // Parse failure
			}).Debug("Rejected bearer token")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Invalid or expired token"})
			return
		}
		setIdentity(c, claims)
		c.Next() // Proceed to the next handler
	}
}

// OptionalJWT attaches the caller identity when a valid token is sent.
// Missing, malformed or expired tokens fall through as anonymous.
func OptionalJWT(tokens *utils.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr, ok := bearerToken(c)
		if !ok {
			c.Next() // Anonymous caller
			return
		}
		claims, err := tokens.Parse(tokenStr)
		if err != nil {
			logrus.WithFields(logrus.Fields{
				"path":  c.FullPath(), // Route
				"error": err.Error(),  // Parse failure
			}).Debug("Ignoring bearer token on public route")
			c.Next()
			return
		}
		setIdentity(c, claims)
		c.Next()
	}
}

// UserID returns the authenticated user id, zero when anonymous
func UserID(c *gin.Context) uint {
	return c.GetUint(CtxUserID)
}

// Role returns the authenticated role, empty when anonymous
func Role(c *gin.Context) domain.Role {
	v, _ := c.Get(CtxRole)
	role, _ := v.(domain.Role)
	return role
}
