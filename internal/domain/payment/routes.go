package payment

import "github.com/gin-gonic/gin"

func (h *Handler) RegisterProtectedRoutes(r *gin.RouterGroup) {
	payments := r.Group("/payments")
	{
		payments.GET("", h.List)
		payments.POST("", h.Create)
		payments.GET("/stats/overview", h.Stats)
		payments.GET("/:id", h.Get)
		payments.PUT("/:id", h.Update)
		payments.DELETE("/:id", h.Delete)
		payments.POST("/:id/refund", h.Refund)
	}
}
