package reservation

import (
	"context"
	"errors"
	"net/http"

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

// BookTour
// @Summary Book a tour date
// @Description Public booking form. The reservation starts as pending until an admin confirms it.
// @Tags Reservations
// @Accept json
// @Produce json
// @Param id path integer true "Tour ID"
// @Success 201 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Failure 422 {object} map[string]interface{} "Field errors"
// @Router /api/v1/tours/{id}/reservations [post]
func (h *Handler) BookTour(c *gin.Context) {
	tourID, ok := parseID(c)
	if !ok {
		return
	}
	var req TourBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body")
		return
	}

	r, err := h.service.CreateForTour(c.Request.Context(), tourID, req)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, r)
}

// List
// @Summary List reservations
// @Tags Reservations
// @Produce json
// @Param status query string false "pending, confirmed, cancelled or completed"
// @Param start_date query string false "YYYY-MM-DD, inclusive"
// @Param end_date query string false "YYYY-MM-DD, inclusive"
// @Router /api/v1/reservations [get]
func (h *Handler) List(c *gin.Context) {
	f, err := ParseFilter(c.Query("status"), c.Query("start_date"), c.Query("end_date"))
	if err != nil {
		handleError(c, err)
		return
	}
	items, err := h.service.List(c.Request.Context(), f)
	if err != nil {
		handleError(c, err)
		return
	}
	response.List(c, items, len(items))
}

func (h *Handler) Create(c *gin.Context) {
	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body")
		return
	}
	r, err := h.service.Create(c.Request.Context(), req, c.GetInt64("admin_id"))
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, r)
}

func (h *Handler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	r, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, r)
}

func (h *Handler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body")
		return
	}
	r, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, r)
}

func (h *Handler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

func (h *Handler) Confirm(c *gin.Context) {
	h.changeStatus(c, h.service.Confirm)
}

func (h *Handler) Cancel(c *gin.Context) {
	h.changeStatus(c, h.service.Cancel)
}

func (h *Handler) Complete(c *gin.Context) {
	h.changeStatus(c, h.service.Complete)
}

func (h *Handler) changeStatus(c *gin.Context, apply func(ctx context.Context, id int64) (*Reservation, error)) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	r, err := apply(c.Request.Context(), id)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, r)
}

func (h *Handler) Stats(c *gin.Context) {
	stats, err := h.service.Stats(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, stats)
}

// Grouped is the admin dashboard view, one list per status.
func (h *Handler) Grouped(c *gin.Context) {
	groups, err := h.service.Grouped(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, groups)
}

func parseID(c *gin.Context) (int64, bool) {
	id, err := utils.ParseID(c.Param("id"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid ID")
		return 0, false
	}
	return id, true
}

func handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, booking.ErrValidation):
		response.ValidationFailed(c, booking.Fields(err))
	case errors.Is(err, ErrTourNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Tour not found")
	case errors.Is(err, booking.ErrNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Reservation not found")
	case errors.Is(err, booking.ErrInvalidStatusTransition):
		response.Error(c, http.StatusConflict, "INVALID_STATUS_TRANSITION", err.Error())
	case errors.Is(err, ErrHasPayments):
		response.Error(c, http.StatusConflict, "HAS_PAYMENTS", err.Error())
	case errors.Is(err, booking.ErrConflict):
		response.Error(c, http.StatusConflict, "CONFLICT", err.Error())
	default:
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
	}
}
