package payment

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"boattours/internal/domain/booking"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func perform(r http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var env struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env.Error.Code
}

func TestHandler_PaymentFlow(t *testing.T) {
	f := newFixture(t)
	rid := f.reservation(t, booking.StatusConfirmed)

	router := gin.New()
	NewHandler(f.svc).RegisterProtectedRoutes(router.Group("/api/v1"))

	body := gin.H{"reservation_id": rid, "amount": "75.00", "payment_method": "card"}
	w := perform(router, http.MethodPost, "/api/v1/payments", body)
	require.Equal(t, http.StatusCreated, w.Code)

	var created struct {
		Data Payment `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	base := fmt.Sprintf("/api/v1/payments/%d", created.Data.ID)

	w = perform(router, http.MethodPost, "/api/v1/payments", body)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "DUPLICATE_PAYMENT", errorCode(t, w))

	w = perform(router, http.MethodPost, base+"/refund", nil)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "INVALID_STATUS_TRANSITION", errorCode(t, w))

	w = perform(router, http.MethodPut, base, gin.H{"status": "completed"})
	require.Equal(t, http.StatusOK, w.Code)

	w = perform(router, http.MethodPost, base+"/refund", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"refunded"`)

	w = perform(router, http.MethodGet, "/api/v1/payments/stats/overview", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"refunded":1`)

	w = perform(router, http.MethodGet, "/api/v1/payments/0", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = perform(router, http.MethodPost, "/api/v1/payments", gin.H{"amount": "abc"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
