package resource

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"boattours/internal/domain/booking"
	"boattours/internal/pkg/response"
	"boattours/internal/pkg/utils"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

/* ---------- TOURS ---------- */

// ListTours returns tours that can still be booked
// @Summary List open tours
// @Tags Tours
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/tours [get]
func (h *Handler) ListTours(c *gin.Context) {
	tours, err := h.service.ListOpenTours(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}
	response.List(c, tours, len(tours))
}

// ListAllTours includes tours whose window already ended.
func (h *Handler) ListAllTours(c *gin.Context) {
	tours, err := h.service.ListTours(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}
	response.List(c, tours, len(tours))
}

// GetTour
// @Summary Get a tour by ID
// @Tags Tours
// @Produce json
// @Param id path integer true "Tour ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/v1/tours/{id} [get]
func (h *Handler) GetTour(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	tour, err := h.service.GetTour(c.Request.Context(), id)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, tour)
}

func (h *Handler) CreateTour(c *gin.Context) {
	var in TourInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body")
		return
	}
	tour, err := h.service.CreateTour(c.Request.Context(), in)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, tour)
}

func (h *Handler) UpdateTour(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var in TourInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body")
		return
	}
	tour, err := h.service.UpdateTour(c.Request.Context(), id, in)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, tour)
}

// DeleteTour removes the tour and all of its reservations.
func (h *Handler) DeleteTour(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.service.DeleteTour(c.Request.Context(), id); err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

/* ---------- EQUIPMENT ---------- */

// ListEquipment
// @Summary List equipment
// @Tags Equipment
// @Produce json
// @Param type query string false "kayak or canoe"
// @Param is_available query boolean false "Availability flag"
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/equipment [get]
func (h *Handler) ListEquipment(c *gin.Context) {
	var f EquipmentFilter
	f.Kind = Kind(strings.ToLower(strings.TrimSpace(c.Query("type"))))

	if raw := strings.TrimSpace(c.Query("is_available")); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			response.ValidationFailed(c, booking.FieldErrors{"is_available": {"must be true or false"}})
			return
		}
		f.IsAvailable = &v
	}

	items, err := h.service.ListEquipment(c.Request.Context(), f)
	if err != nil {
		handleError(c, err)
		return
	}
	response.List(c, items, len(items))
}

func (h *Handler) GetEquipment(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	item, err := h.service.GetEquipment(c.Request.Context(), id)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, item)
}

func (h *Handler) CreateEquipment(c *gin.Context) {
	var in EquipmentInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body")
		return
	}
	item, err := h.service.CreateEquipment(c.Request.Context(), in)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, item)
}

func (h *Handler) UpdateEquipment(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var in EquipmentInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body")
		return
	}
	item, err := h.service.UpdateEquipment(c.Request.Context(), id, in)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, item)
}

func (h *Handler) DeleteEquipment(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.service.DeleteEquipment(c.Request.Context(), id); err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

func parseID(c *gin.Context) (int64, bool) {
	id, err := utils.ParseID(c.Param("id"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid resource ID")
		return 0, false
	}
	return id, true
}

func handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, booking.ErrValidation):
		response.ValidationFailed(c, booking.Fields(err))
	case errors.Is(err, booking.ErrNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Resource not found")
	case errors.Is(err, ErrHasPayments):
		response.Error(c, http.StatusConflict, "HAS_PAYMENTS", err.Error())
	case errors.Is(err, booking.ErrConflict):
		response.Error(c, http.StatusConflict, "CONFLICT", err.Error())
	default:
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
	}
}
