package resource

import "github.com/gin-gonic/gin"

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	tours := r.Group("/tours")
	{
		tours.GET("", h.ListTours)   // GET /api/v1/tours (open only)
		tours.GET("/:id", h.GetTour) // GET /api/v1/tours/:id
	}

	equipment := r.Group("/equipment")
	{
		equipment.GET("", h.ListEquipment) // GET /api/v1/equipment?type=&is_available=
		equipment.GET("/:id", h.GetEquipment)
	}
}

func (h *Handler) RegisterProtectedRoutes(r *gin.RouterGroup) {
	r.GET("/admin/tours", h.ListAllTours)

	tours := r.Group("/tours")
	{
		tours.POST("", h.CreateTour)
		tours.PUT("/:id", h.UpdateTour)
		tours.DELETE("/:id", h.DeleteTour)
	}

	equipment := r.Group("/equipment")
	{
		equipment.POST("", h.CreateEquipment)
		equipment.PUT("/:id", h.UpdateEquipment)
		equipment.DELETE("/:id", h.DeleteEquipment)
	}
}
