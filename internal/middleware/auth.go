package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"boattours/internal/pkg/jwt"
	"boattours/internal/pkg/response"
)

// JWTAuth validates the bearer token and stores admin_id and role in the context.
func JWTAuth(jwtService *jwt.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Abort(c, http.StatusUnauthorized, "AUTH_HEADER_MISSING", "Authorization header is required")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" || strings.TrimSpace(parts[1]) == "" {
			response.Abort(c, http.StatusUnauthorized, "INVALID_AUTH_FORMAT", "Authorization header must be 'Bearer <token>'")
			return
		}

		claims, err := jwtService.ValidateToken(strings.TrimSpace(parts[1]))
		if err != nil {
			response.Abort(c, http.StatusUnauthorized, "INVALID_TOKEN", "Invalid or expired token")
			return
		}

		c.Set("admin_id", claims.AdminID)
		c.Set("role", claims.Role)
		c.Next()
	}
}

// ActiveAdminChecker resolves whether a token's admin may still act.
type ActiveAdminChecker interface {
	IsActive(ctx context.Context, adminID int64) (bool, error)
}

// RequireActiveAdmin rejects tokens whose admin was deleted or deactivated after issue.
func RequireActiveAdmin(checker ActiveAdminChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		active, err := checker.IsActive(c.Request.Context(), c.GetInt64("admin_id"))
		if err != nil {
			response.Abort(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to verify admin")
			return
		}
		if !active {
			response.Abort(c, http.StatusUnauthorized, "INVALID_TOKEN", "Admin account is inactive or no longer exists")
			return
		}
		c.Next()
	}
}
