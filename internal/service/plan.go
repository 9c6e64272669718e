package service

import (
	"fmt"

	"parkgate/internal/apperr"
	"parkgate/internal/models"
)

// BookingPlan is the priced outcome of validating a booking request against
// an event and its price matrix. Building a plan performs no writes; the
// seat hold happens later, atomically, in the repository.
type BookingPlan struct {
	Details      []models.BookingDetail
	TotalTickets int
	TotalPence   int64
}

// BuildBookingPlan validates the requested tickets and prices them. All
// problems are collected into one validation error so the customer sees the
// whole list at once.
func BuildBookingPlan(event *models.Event, prices models.PriceMatrix, req *models.CreateBookingRequest) (*BookingPlan, error) {
	verr := &apperr.ValidationError{}

	if !models.ValidSeatType(req.SeatType) {
		verr.Add("seat_type", "seat type must be without_table or with_table")
		return nil, verr
	}

	quantities := map[string]int{
		models.TicketAdult:  req.AdultTickets,
		models.TicketChild:  req.ChildTickets,
		models.TicketSenior: req.SeniorTickets,
	}

	total := 0
	negative := false
	for ticketType, q := range quantities {
		if q < 0 {
			verr.Add(ticketType+"_tickets", "ticket quantity cannot be negative")
			negative = true
			continue
		}
		total += q
	}

	if total == 0 && !negative {
		verr.Add("", "at least one ticket must be requested")
	}
	if event.MaxTicketsPerBooking > 0 && total > event.MaxTicketsPerBooking {
		verr.Add("", fmt.Sprintf("a booking may hold at most %d tickets", event.MaxTicketsPerBooking))
	}

	if event.RequiresAdult {
		if req.AdultTickets == 0 {
			verr.Add("adult_tickets", "this event requires at least one adult in the party")
		}
		if req.AdultPhoto == nil || *req.AdultPhoto == "" {
			verr.Add("adult_photo", "this event requires adult identification")
		}
	}

	tierPrices, ok := prices[req.SeatType]
	if !ok {
		verr.Add("seat_type", "the selected seat type is not sold for this event")
	}

	if verr.HasErrors() {
		return nil, verr
	}

	plan := &BookingPlan{TotalTickets: total}
	for _, ticketType := range models.TicketTypes() {
		quantity := quantities[ticketType]
		if quantity == 0 {
			continue
		}
		unit, ok := tierPrices[ticketType]
		if !ok {
			return nil, apperr.Validation("", fmt.Sprintf("no %s price is set for this event", ticketType))
		}
		subtotal := unit * int64(quantity)
		plan.Details = append(plan.Details, models.BookingDetail{
			SeatType:       req.SeatType,
			TicketType:     ticketType,
			Quantity:       quantity,
			UnitPricePence: unit,
			SubtotalPence:  subtotal,
		})
		plan.TotalPence += subtotal
	}

	return plan, nil
}
