package reservation

import "github.com/gin-gonic/gin"

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/tours/:id/reservations", h.BookTour) // public booking form
}

func (h *Handler) RegisterProtectedRoutes(r *gin.RouterGroup) {
	reservations := r.Group("/reservations")
	{
		reservations.GET("", h.List)
		reservations.POST("", h.Create)
		reservations.GET("/stats/overview", h.Stats)
		reservations.GET("/:id", h.Get)
		reservations.PUT("/:id", h.Update)
		reservations.DELETE("/:id", h.Delete)
		reservations.PATCH("/:id/confirm", h.Confirm)
		reservations.PATCH("/:id/cancel", h.Cancel)
		reservations.PATCH("/:id/complete", h.Complete)
	}

	r.GET("/admin/reservations", h.Grouped)
}
