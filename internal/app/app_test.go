package app

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"boattours/internal/config"
	"boattours/internal/database"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestApp(t *testing.T) *App {
	t.Helper()
	db, err := database.OpenTest(t.Name())
	require.NoError(t, err)

	cfg := &config.Config{
		AppEnv:        "test",
		JWTSecret:     "app-test-secret",
		JWTTTL:        time.Hour,
		SweepInterval: time.Hour,
	}
	a, err := New(cfg, db)
	require.NoError(t, err)

	_, err = a.Admins.EnsureDefaultAdmin(context.Background(), "root@example.com", "changeme")
	require.NoError(t, err)
	return a
}

type client struct {
	t      *testing.T
	router http.Handler
	token  string
}

func (c *client) do(method, path string, body interface{}) (int, map[string]json.RawMessage) {
	c.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(c.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	w := httptest.NewRecorder()
	c.router.ServeHTTP(w, req)

	var env map[string]json.RawMessage
	require.NoError(c.t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return w.Code, env
}

func (c *client) id(env map[string]json.RawMessage) int64 {
	c.t.Helper()
	var data struct {
		ID int64 `json:"id"`
	}
	require.NoError(c.t, json.Unmarshal(env["data"], &data))
	require.NotZero(c.t, data.ID)
	return data.ID
}

func login(t *testing.T, router http.Handler) string {
	t.Helper()
	anon := &client{t: t, router: router}
	code, env := anon.do(http.MethodPost, "/api/v1/admins/login", gin.H{"email": "root@example.com", "password": "changeme"})
	require.Equal(t, http.StatusOK, code)
	var data struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(env["data"], &data))
	return data.Token
}

func TestHealth(t *testing.T) {
	a := newTestApp(t)
	code, env := (&client{t: t, router: a.Router}).do(http.MethodGet, "/api/v1/health", nil)
	assert.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(env["data"]), `"status":"ok"`)
}

func TestProtectedRoutesNeedToken(t *testing.T) {
	a := newTestApp(t)
	anon := &client{t: t, router: a.Router}

	code, _ := anon.do(http.MethodPost, "/api/v1/tours", gin.H{"name": "x"})
	assert.Equal(t, http.StatusUnauthorized, code)
	code, _ = anon.do(http.MethodGet, "/api/v1/reservations", nil)
	assert.Equal(t, http.StatusUnauthorized, code)
	code, _ = anon.do(http.MethodGet, "/api/v1/payments/stats/overview", nil)
	assert.Equal(t, http.StatusUnauthorized, code)

	code, _ = anon.do(http.MethodGet, "/api/v1/tours", nil)
	assert.Equal(t, http.StatusOK, code)
}

func TestBookingJourney(t *testing.T) {
	a := newTestApp(t)
	admin := &client{t: t, router: a.Router, token: login(t, a.Router)}
	public := &client{t: t, router: a.Router}

	from := time.Now().AddDate(0, 0, 1).Format("2006-01-02")
	to := time.Now().AddDate(0, 0, 60).Format("2006-01-02")
	bookOn := time.Now().AddDate(0, 0, 7).Format("2006-01-02")

	code, env := admin.do(http.MethodPost, "/api/v1/tours", gin.H{
		"name":           "Sunset Cruise",
		"description":    "Two hours along the coast at sunset",
		"duration_hours": 2,
		"capacity":       10,
		"price":          "49.90",
		"available_from": from,
		"available_to":   to,
	})
	require.Equal(t, http.StatusCreated, code, string(env["error"]))
	tourID := admin.id(env)

	code, env = public.do(http.MethodGet, "/api/v1/tours", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "1", string(env["count"]))

	code, env = public.do(http.MethodPost, fmt.Sprintf("/api/v1/tours/%d/reservations", tourID), gin.H{
		"customer_name":    "Ann Lee",
		"customer_email":   "ann@example.com",
		"customer_phone":   "+1 555 0100",
		"party_size":       4,
		"reservation_date": bookOn,
	})
	require.Equal(t, http.StatusCreated, code, string(env["error"]))
	reservationID := admin.id(env)

	code, env = public.do(http.MethodPost, fmt.Sprintf("/api/v1/tours/%d/reservations", tourID), gin.H{
		"customer_name":    "Big Group",
		"customer_email":   "group@example.com",
		"customer_phone":   "+1 555 0101",
		"party_size":       15,
		"reservation_date": bookOn,
	})
	require.Equal(t, http.StatusUnprocessableEntity, code)
	assert.Contains(t, string(env["error"]), "cannot exceed capacity of 10")

	code, _ = admin.do(http.MethodPatch, fmt.Sprintf("/api/v1/reservations/%d/confirm", reservationID), nil)
	require.Equal(t, http.StatusOK, code)

	code, env = admin.do(http.MethodPost, "/api/v1/payments", gin.H{
		"reservation_id": reservationID,
		"amount":         "199.60",
		"payment_method": "card",
		"status":         "completed",
	})
	require.Equal(t, http.StatusCreated, code, string(env["error"]))
	paymentID := admin.id(env)

	code, _ = admin.do(http.MethodPost, "/api/v1/payments", gin.H{
		"reservation_id": reservationID,
		"amount":         "10",
		"payment_method": "cash",
	})
	assert.Equal(t, http.StatusConflict, code)

	code, env = admin.do(http.MethodDelete, fmt.Sprintf("/api/v1/tours/%d", tourID), nil)
	assert.Equal(t, http.StatusConflict, code)
	assert.Contains(t, string(env["error"]), "HAS_PAYMENTS")

	code, _ = admin.do(http.MethodPost, fmt.Sprintf("/api/v1/payments/%d/refund", paymentID), nil)
	require.Equal(t, http.StatusOK, code)

	code, env = admin.do(http.MethodGet, "/api/v1/payments/stats/overview", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(env["data"]), `"refunded":1`)

	code, env = admin.do(http.MethodGet, "/api/v1/admin/reservations", nil)
	require.Equal(t, http.StatusOK, code)
	var groups map[string][]json.RawMessage
	require.NoError(t, json.Unmarshal(env["data"], &groups))
	assert.Len(t, groups["confirmed"], 1)
}

func TestEquipmentRentalAndCascadeDelete(t *testing.T) {
	a := newTestApp(t)
	admin := &client{t: t, router: a.Router, token: login(t, a.Router)}

	code, env := admin.do(http.MethodPost, "/api/v1/equipment", gin.H{
		"type":           "kayak",
		"name":           "Sea Kayak",
		"capacity":       2,
		"price_per_hour": "10.00",
	})
	require.Equal(t, http.StatusCreated, code, string(env["error"]))
	kayakID := admin.id(env)

	start := time.Now().UTC().Add(48 * time.Hour).Truncate(time.Hour)
	code, env = admin.do(http.MethodPost, "/api/v1/reservations", gin.H{
		"resource_id":    kayakID,
		"customer_name":  "Bo Jensen",
		"customer_email": "bo@example.com",
		"customer_phone": "5550100",
		"party_size":     1,
		"start_at":       start.Format(time.RFC3339),
		"end_at":         start.Add(61 * time.Minute).Format(time.RFC3339),
	})
	require.Equal(t, http.StatusCreated, code, string(env["error"]))
	assert.Contains(t, string(env["data"]), `"duration_hours":2`)
	assert.Contains(t, string(env["data"]), `"total_amount":"20"`)
	reservationID := admin.id(env)

	code, _ = admin.do(http.MethodDelete, fmt.Sprintf("/api/v1/equipment/%d", kayakID), nil)
	require.Equal(t, http.StatusOK, code)

	code, _ = admin.do(http.MethodGet, fmt.Sprintf("/api/v1/reservations/%d", reservationID), nil)
	assert.Equal(t, http.StatusNotFound, code)
}
