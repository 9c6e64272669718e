package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"parkgate/internal/middleware"
	"parkgate/internal/models"
)

// CapturePayment handles POST /api/bookings/:id/payment.
func (h *Handlers) CapturePayment(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	id, ok := idParam(c)
	if !ok {
		return
	}

	var req models.CapturePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	payment, err := h.services.Payments.Capture(c.Request.Context(), user.UserID, id, &req)
	if err != nil {
		h.respondError(c, err)
		return
	}

	response := models.CapturePaymentResponse{
		BookingID:     payment.BookingID,
		TransactionID: payment.TransactionID,
		Amount:        models.FormatPence(payment.AmountPence),
		BookingStatus: models.BookingConfirmed,
		PaymentStatus: models.PaymentPaid,
	}
	if payment.CardLastFour != nil {
		response.CardLastFour = *payment.CardLastFour
	}

	c.JSON(http.StatusOK, response)
}

// ListPayments handles GET /api/bookings/:id/payments, exposing the ledger
// for one booking including any refund rows.
func (h *Handlers) ListPayments(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	id, ok := idParam(c)
	if !ok {
		return
	}

	payments, err := h.services.Payments.ListForBooking(c.Request.Context(), user.UserID, id)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, payments)
}
