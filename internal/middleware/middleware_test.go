package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"parkgate/internal/models"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestCORSHeaders(t *testing.T) {
	router := gin.New()
	router.Use(CORS())
	router.GET("/ping", func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), "PATCH")
}

func TestCORSPreflight(t *testing.T) {
	router := gin.New()
	router.Use(CORS())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodOptions, "/api/bookings", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestRequestContextEchoesID(t *testing.T) {
	router := gin.New()
	router.Use(RequestContext())
	router.GET("/ping", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("X-Request-ID", "req-42")
	router.ServeHTTP(w, req)

	assert.Equal(t, "req-42", w.Header().Get("X-Request-ID"))
}

func TestRequestContextGeneratesID(t *testing.T) {
	router := gin.New()
	router.Use(RequestContext())
	router.GET("/ping", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))

	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestBasicAuthMissingCredentials(t *testing.T) {
	router := gin.New()
	router.Use(BasicAuth(nil))
	router.GET("/secure", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/secure", nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Header().Get("WWW-Authenticate"), "Basic")
}

func TestRequireAdmin(t *testing.T) {
	tests := []struct {
		name     string
		user     *models.User
		expected int
	}{
		{name: "no user", user: nil, expected: http.StatusForbidden},
		{name: "customer", user: &models.User{UserID: 7, Role: models.RoleCustomer}, expected: http.StatusForbidden},
		{name: "admin", user: &models.User{UserID: 1, Role: models.RoleAdmin}, expected: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := gin.New()
			router.Use(func(c *gin.Context) {
				if tt.user != nil {
					SetCurrentUser(c, tt.user)
				}
			})
			router.Use(RequireAdmin())
			router.GET("/admin", func(c *gin.Context) {
				c.Status(http.StatusOK)
			})

			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin", nil))
			assert.Equal(t, tt.expected, w.Code)
		})
	}
}

func TestCurrentUserRoundTrip(t *testing.T) {
	router := gin.New()
	router.GET("/whoami", func(c *gin.Context) {
		SetCurrentUser(c, &models.User{UserID: 12, Username: "gwen", Role: models.RoleCustomer})
		user, ok := CurrentUser(c)
		require.True(t, ok)
		c.JSON(http.StatusOK, gin.H{"user_id": user.UserID})
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/whoami", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"user_id":12}`, w.Body.String())
}
