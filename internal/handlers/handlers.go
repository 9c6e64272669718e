package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"parkgate/internal/apperr"
	"parkgate/internal/logger"
	"parkgate/internal/service"
)

// Handlers binds the HTTP surface to the service layer.
type Handlers struct {
	services *service.Services
}

func New(services *service.Services) *Handlers {
	return &Handlers{services: services}
}

// respondError translates a service error into the HTTP response. Validation
// errors carry their field list; storage failures are logged and surfaced
// generically.
func (h *Handlers) respondError(c *gin.Context, err error) {
	status := apperr.HTTPStatus(err)

	if verr, ok := apperr.AsValidation(err); ok {
		c.JSON(status, gin.H{
			"error":  "Validation failed",
			"fields": verr.Fields,
		})
		return
	}

	if status == http.StatusInternalServerError {
		logger.WithContext(c.Request.Context()).Error("Request handling failed",
			"error", err, "path", c.Request.URL.Path)
		c.JSON(status, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(status, gin.H{"error": err.Error()})
}

// idParam parses the :id path segment.
func idParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid id"})
		return 0, false
	}
	return id, true
}
