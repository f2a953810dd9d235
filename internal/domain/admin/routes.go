package admin

import (
	"github.com/gin-gonic/gin"

	"boattours/internal/middleware"
)

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/admins/login", h.Login)
}

func (h *Handler) RegisterProtectedRoutes(r *gin.RouterGroup) {
	admins := r.Group("/admins")
	{
		admins.GET("/me", h.Me)
		admins.PUT("/updatepassword", h.UpdatePassword)
		admins.GET("", h.List)
		admins.GET("/:id", h.Get)
		admins.PUT("/:id", h.Update) // self or super admin, checked in the service

		super := admins.Group("", middleware.SuperAdminOnly())
		super.POST("/register", h.Register)
		super.DELETE("/:id", h.Delete)
	}
}
