package payment

import (
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

// List
// @Summary List payments
// @Tags Payments
// @Produce json
// @Param status query string false "pending, completed, failed or refunded"
// @Param payment_method query string false "cash, card, bank_transfer or online"
// @Param start_date query string false "created on or after, YYYY-MM-DD"
// @Param end_date query string false "created on or before, YYYY-MM-DD"
// @Router /api/v1/payments [get]
func (h *Handler) List(c *gin.Context) {
	f, err := ParseFilter(c.Query("status"), c.Query("payment_method"), c.Query("start_date"), c.Query("end_date"))
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
	p, err := h.service.Create(c.Request.Context(), req, c.GetInt64("admin_id"))
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, p)
}

func (h *Handler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	p, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, p)
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
	p, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, p)
}

// Refund
// @Summary Refund a completed payment
// @Tags Payments
// @Param id path integer true "Payment ID"
// @Success 200 {object} map[string]interface{}
// @Failure 409 {object} map[string]interface{} "Payment is not completed"
// @Router /api/v1/payments/{id}/refund [post]
func (h *Handler) Refund(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req RefundRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Error(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body")
			return
		}
	}
	p, err := h.service.Refund(c.Request.Context(), id, req)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, p)
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

func (h *Handler) Stats(c *gin.Context) {
	stats, err := h.service.Stats(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, stats)
}

func parseID(c *gin.Context) (int64, bool) {
	id, err := utils.ParseID(c.Param("id"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid payment ID")
		return 0, false
	}
	return id, true
}

func handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, booking.ErrValidation):
		response.ValidationFailed(c, booking.Fields(err))
	case errors.Is(err, booking.ErrNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Payment not found")
	case errors.Is(err, ErrDuplicatePayment):
		response.Error(c, http.StatusConflict, "DUPLICATE_PAYMENT", err.Error())
	case errors.Is(err, ErrDuplicateTransaction):
		response.Error(c, http.StatusConflict, "DUPLICATE_TRANSACTION", err.Error())
	case errors.Is(err, ErrInvalidTransition):
		response.Error(c, http.StatusConflict, "INVALID_STATUS_TRANSITION", err.Error())
	case errors.Is(err, booking.ErrConflict):
		response.Error(c, http.StatusConflict, "CONFLICT", err.Error())
	default:
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
	}
}
