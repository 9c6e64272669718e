package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"parkgate/internal/middleware"
	"parkgate/internal/models"
)

func newTestRouter(authed bool) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	if authed {
		router.Use(func(c *gin.Context) {
			middleware.SetCurrentUser(c, &models.User{UserID: 1, Username: "alice", Role: models.RoleCustomer})
			c.Next()
		})
	}

	h := New(nil)
	router.POST("/api/auth/register", h.Register)
	router.POST("/api/bookings", h.CreateBooking)
	router.GET("/api/bookings/:id", h.GetBooking)
	router.PATCH("/api/bookings/:id/cancel", h.CancelBooking)
	router.POST("/api/bookings/:id/payment", h.CapturePayment)
	return router
}

func doJSON(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestRegisterRejectsMalformedBody(t *testing.T) {
	router := newTestRouter(false)

	w := doJSON(router, http.MethodPost, "/api/auth/register", `{"username": 12}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRegisterRejectsMissingFields(t *testing.T) {
	router := newTestRouter(false)

	w := doJSON(router, http.MethodPost, "/api/auth/register",
		`{"username":"alice","email":"not-an-email","password":"secret1","first_name":"A","last_name":"B"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(router, http.MethodPost, "/api/auth/register",
		`{"username":"al","email":"a@example.com","password":"secret1","first_name":"A","last_name":"B"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBookingEndpointsRequireAuth(t *testing.T) {
	router := newTestRouter(false)

	w := doJSON(router, http.MethodPost, "/api/bookings", `{}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(router, http.MethodPatch, "/api/bookings/1/cancel", `{"reason":"x"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestBookingRejectsInvalidID(t *testing.T) {
	router := newTestRouter(true)

	w := doJSON(router, http.MethodGet, "/api/bookings/abc", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(router, http.MethodGet, "/api/bookings/-3", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateBookingRejectsNegativeQuantities(t *testing.T) {
	router := newTestRouter(true)

	w := doJSON(router, http.MethodPost, "/api/bookings",
		`{"event_id":1,"seat_type":"with_table","adult_tickets":-1}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCancelRequiresReason(t *testing.T) {
	router := newTestRouter(true)

	w := doJSON(router, http.MethodPatch, "/api/bookings/1/cancel", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCapturePaymentRequiresCardFields(t *testing.T) {
	router := newTestRouter(true)

	w := doJSON(router, http.MethodPost, "/api/bookings/1/payment",
		`{"card_name":"J SMITH","card_number":"4111111111111111"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
