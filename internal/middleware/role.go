package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"boattours/internal/pkg/response"
)

// RequireRole ensures that the authenticated admin has one of the given roles
func RequireRole(roles ...string) gin.HandlerFunc {
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}

	return func(c *gin.Context) {
		role, exists := c.Get("role")
		if !exists {
			response.Abort(c, http.StatusUnauthorized, "UNAUTHORIZED", "Role not found in token")
			return
		}

		if r, _ := role.(string); !allowed[r] {
			response.Abort(c, http.StatusForbidden, "FORBIDDEN", "Access denied: insufficient permissions")
			return
		}

		c.Next()
	}
}

// SuperAdminOnly middleware requires the super_admin role
func SuperAdminOnly() gin.HandlerFunc {
	return RequireRole("super_admin")
}
