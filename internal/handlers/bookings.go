package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"parkgate/internal/middleware"
	"parkgate/internal/models"
	"parkgate/internal/service"
)

// CreateBooking handles POST /api/bookings. Seats are held atomically; the
// booking comes back pending and unpaid with the payment window running.
func (h *Handlers) CreateBooking(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req models.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	booking, err := h.services.Bookings.Create(c.Request.Context(), user.UserID, &req)
	if err != nil {
		h.respondError(c, err)
		return
	}

	response := models.CreateBookingResponse{
		ID:               booking.ID,
		Reference:        booking.Reference,
		BookingStatus:    booking.BookingStatus,
		PaymentStatus:    booking.PaymentStatus,
		TotalTickets:     booking.TotalTickets,
		TotalAmountPence: booking.TotalAmountPence,
		TotalAmount:      models.FormatPence(booking.TotalAmountPence),
		Lines:            bookingLines(booking.Details),
	}

	c.JSON(http.StatusCreated, response)
}

// ListBookings handles GET /api/bookings.
func (h *Handlers) ListBookings(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	bookings, err := h.services.Bookings.List(c.Request.Context(), user.UserID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	response := make(models.ListBookingsResponse, 0, len(bookings))
	for _, b := range bookings {
		response = append(response, bookingItem(&b, false))
	}

	c.JSON(http.StatusOK, response)
}

// GetBooking handles GET /api/bookings/:id.
func (h *Handlers) GetBooking(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	id, ok := idParam(c)
	if !ok {
		return
	}

	booking, err := h.services.Bookings.Get(c.Request.Context(), user.UserID, id)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, bookingItem(booking, true))
}

// CancelBooking handles PATCH /api/bookings/:id/cancel.
func (h *Handlers) CancelBooking(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	id, ok := idParam(c)
	if !ok {
		return
	}

	var req models.CancelBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	outcome, err := h.services.Bookings.Cancel(c.Request.Context(), user.UserID, id, req.Reason)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.CancelBookingResponse{
		ID:               outcome.BookingID,
		BookingStatus:    models.BookingCancelled,
		PaymentStatus:    outcome.PaymentStatus,
		RefundPercentage: outcome.RefundPercentage,
		RefundPence:      outcome.RefundPence,
		RefundAmount:     models.FormatPence(outcome.RefundPence),
	})
}

func bookingItem(b *service.BookingWithEvent, withLines bool) models.ListBookingsResponseItem {
	item := models.ListBookingsResponseItem{
		ID:            b.Booking.ID,
		Reference:     b.Booking.Reference,
		EventID:       b.Event.ID,
		EventName:     b.Event.Name,
		EventDate:     b.Event.Date.Format("2006-01-02"),
		EventTime:     b.Event.TimeOfDay,
		Venue:         b.Event.Venue,
		TotalTickets:  b.Booking.TotalTickets,
		TotalAmount:   models.FormatPence(b.Booking.TotalAmountPence),
		BookingStatus: b.Booking.BookingStatus,
		PaymentStatus: b.Booking.PaymentStatus,
	}
	if withLines {
		item.Lines = bookingLines(b.Booking.Details)
	}
	return item
}

func bookingLines(details []models.BookingDetail) []models.BookingLineItem {
	lines := make([]models.BookingLineItem, 0, len(details))
	for _, d := range details {
		lines = append(lines, models.BookingLineItem{
			SeatType:   d.SeatType,
			TicketType: d.TicketType,
			Quantity:   d.Quantity,
			UnitPrice:  models.FormatPence(d.UnitPricePence),
			Subtotal:   models.FormatPence(d.SubtotalPence),
		})
	}
	return lines
}
