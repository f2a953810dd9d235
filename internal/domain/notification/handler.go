package notification

import (
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"boattours/internal/middleware"
	"boattours/internal/pkg/jwt"
	"boattours/internal/pkg/response"
)

type tokenValidator interface {
	ValidateToken(token string) (*jwt.Claims, error)
}

type Handler struct {
	hub    *Hub
	tokens tokenValidator
	admins middleware.ActiveAdminChecker
}

func NewHandler(hub *Hub, tokens tokenValidator, admins middleware.ActiveAdminChecker) *Handler {
	return &Handler{hub: hub, tokens: tokens, admins: admins}
}

// ServeWS upgrades an authenticated admin to the live event stream.
//
// Browsers cannot set headers on websocket requests, so the token may come as ?token=.
func (h *Handler) ServeWS(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		token = strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
	}
	if token == "" {
		response.Error(c, http.StatusUnauthorized, "AUTH_HEADER_MISSING", "Token is required")
		return
	}

	claims, err := h.tokens.ValidateToken(token)
	if err != nil {
		response.Error(c, http.StatusUnauthorized, "INVALID_TOKEN", "Invalid or expired token")
		return
	}
	active, err := h.admins.IsActive(c.Request.Context(), claims.AdminID)
	if err != nil {
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to verify admin")
		return
	}
	if !active {
		response.Error(c, http.StatusUnauthorized, "INVALID_TOKEN", "Admin account is inactive or no longer exists")
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("level=warn msg=\"ws upgrade failed\" admin_id=%d err=%v", claims.AdminID, err)
		return
	}
	h.hub.Serve(conn, claims.AdminID)
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/admin/ws", h.ServeWS)
}
