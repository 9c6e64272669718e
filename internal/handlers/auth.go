package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"parkgate/internal/models"
)

// Register handles POST /api/auth/register.
func (h *Handlers) Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	user, err := h.services.Users.Register(c.Request.Context(), &req)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, models.RegisterResponse{
		UserID:   user.UserID,
		Username: user.Username,
		Email:    user.Email,
	})
}
