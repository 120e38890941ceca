package middleware

import (
	"net/http" // HTTP status codes

	"bookstore/internal/domain" // Role type

	"github.com/gin-gonic/gin" // Gin web framework
)

// RequireRoles lets the request through only when the token role is one of roles.
// It must run after JWTAuth.
func RequireRoles(roles ...domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, exists := c.Get(CtxUserID); !exists {
			// No identity, JWTAuth was not applied or let an anonymous caller through
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
			return
		}
		role := Role(c)
		for _, allowed := range roles {
			if role == allowed {
				c.Next() // Role matches, proceed
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": string(roles[0]) + " access required"})
	}
}
