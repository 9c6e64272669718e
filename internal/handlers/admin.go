package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"parkgate/internal/middleware"
	"parkgate/internal/models"
)

// CreateEvent handles POST /api/admin/events.
func (h *Handlers) CreateEvent(c *gin.Context) {
	var req models.CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	event, err := h.services.Events.Create(c.Request.Context(), &req)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, models.EventMutationResponse{ID: event.ID})
}

// UpdateEvent handles PUT /api/admin/events/:id.
func (h *Handlers) UpdateEvent(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	var req models.UpdateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	event, err := h.services.Events.Update(c.Request.Context(), id, &req)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.EventMutationResponse{ID: event.ID})
}

// DeleteEvent handles DELETE /api/admin/events/:id.
func (h *Handlers) DeleteEvent(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	if err := h.services.Events.Delete(c.Request.Context(), id); err != nil {
		h.respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// AdminBookings handles GET /api/admin/bookings. Supports event, status and
// search filters; revenue aggregates count confirmed bookings only.
func (h *Handlers) AdminBookings(c *gin.Context) {
	eventID, _ := strconv.ParseInt(c.Query("event_id"), 10, 64)

	rows, summary, err := h.services.Payments.AdminReport(c.Request.Context(),
		eventID, c.Query("status"), c.Query("search"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	response := models.AdminBookingsResponse{
		Bookings:          make([]models.AdminBookingItem, 0, len(rows)),
		TotalRevenuePence: summary.TotalRevenuePence,
		TotalRevenue:      models.FormatPence(summary.TotalRevenuePence),
		TotalTickets:      summary.TotalTickets,
	}
	for _, row := range rows {
		response.Bookings = append(response.Bookings, models.AdminBookingItem{
			ID:            row.ID,
			Reference:     row.Reference,
			CustomerName:  row.Username,
			CustomerEmail: row.Email,
			EventName:     row.EventName,
			EventDate:     row.EventDate.Format("2006-01-02"),
			TotalTickets:  row.TotalTickets,
			TotalAmount:   models.FormatPence(row.TotalAmountPence),
			BookingStatus: row.BookingStatus,
			PaymentStatus: row.PaymentStatus,
		})
	}

	c.JSON(http.StatusOK, response)
}

// ListUsers handles GET /api/admin/users.
func (h *Handlers) ListUsers(c *gin.Context) {
	users, err := h.services.Users.ListCustomers(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}

	response := make([]models.ListUsersResponseItem, 0, len(users))
	for _, u := range users {
		response = append(response, models.ListUsersResponseItem{
			UserID:    u.UserID,
			Username:  u.Username,
			Email:     u.Email,
			FirstName: u.FirstName,
			LastName:  u.LastName,
			Role:      u.Role,
			CreatedAt: u.CreatedAt.Format("2006-01-02 15:04:05"),
		})
	}

	c.JSON(http.StatusOK, response)
}

// DeleteUser handles DELETE /api/admin/users/:id.
func (h *Handlers) DeleteUser(c *gin.Context) {
	admin, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	id, ok := idParam(c)
	if !ok {
		return
	}

	if err := h.services.Users.Delete(c.Request.Context(), admin.UserID, id); err != nil {
		h.respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
