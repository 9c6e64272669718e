package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"parkgate/internal/models"
)

// ListEvents handles GET /api/events. Supports query, date, page and
// pageSize parameters.
func (h *Handlers) ListEvents(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "0"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("pageSize", "0"))

	events, err := h.services.Events.List(c.Request.Context(),
		c.Query("query"), c.Query("date"), page, pageSize)
	if err != nil {
		h.respondError(c, err)
		return
	}

	response := make(models.ListEventsResponse, 0, len(events))
	for _, ev := range events {
		response = append(response, models.ListEventsResponseItem{
			ID:       ev.ID,
			Name:     ev.Name,
			Date:     ev.Date.Format("2006-01-02"),
			Time:     ev.TimeOfDay,
			Venue:    ev.Venue,
			SoldOut:  ev.AvailableSeats == 0,
			IsActive: ev.IsActive,
		})
	}

	c.JSON(http.StatusOK, response)
}

// GetEvent handles GET /api/events/:id.
func (h *Handlers) GetEvent(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	event, seats, prices, err := h.services.Events.Get(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}

	response := models.EventDetailResponse{Event: *event}
	for _, seat := range seats {
		response.Seats = append(response.Seats, models.SeatAvailabilityItem{
			SeatType:       seat.SeatType,
			TotalSeats:     seat.TotalSeats,
			AvailableSeats: seat.AvailableSeats,
		})
	}
	for _, price := range prices {
		response.Prices = append(response.Prices, models.PriceItem{
			SeatType:   price.SeatType,
			TicketType: price.TicketType,
			PricePence: price.PricePence,
			Price:      models.FormatPence(price.PricePence),
		})
	}

	c.JSON(http.StatusOK, response)
}
