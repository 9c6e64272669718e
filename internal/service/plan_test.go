package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"parkgate/internal/apperr"
	"parkgate/internal/models"
)

func testEvent() *models.Event {
	return &models.Event{
		ID:                   1,
		Name:                 "Lakeside Fireworks Night",
		Date:                 time.Date(2026, 11, 5, 0, 0, 0, 0, time.UTC),
		TimeOfDay:            "19:30:00",
		Venue:                "Lakeside Arena",
		MaxTicketsPerBooking: 8,
		IsActive:             true,
	}
}

func testPrices() models.PriceMatrix {
	return models.BuildPriceMatrix([]models.PriceEntry{
		{SeatType: models.SeatWithoutTable, TicketType: models.TicketAdult, PricePence: 2500},
		{SeatType: models.SeatWithoutTable, TicketType: models.TicketChild, PricePence: 1200},
		{SeatType: models.SeatWithoutTable, TicketType: models.TicketSenior, PricePence: 1500},
		{SeatType: models.SeatWithTable, TicketType: models.TicketAdult, PricePence: 3500},
		{SeatType: models.SeatWithTable, TicketType: models.TicketChild, PricePence: 2200},
		{SeatType: models.SeatWithTable, TicketType: models.TicketSenior, PricePence: 2500},
	})
}

func TestBuildBookingPlanTotals(t *testing.T) {
	plan, err := BuildBookingPlan(testEvent(), testPrices(), &models.CreateBookingRequest{
		EventID:      1,
		SeatType:     models.SeatWithoutTable,
		AdultTickets: 3,
	})
	require.NoError(t, err)

	assert.Equal(t, 3, plan.TotalTickets)
	assert.Equal(t, int64(7500), plan.TotalPence)
	require.Len(t, plan.Details, 1)
	assert.Equal(t, int64(2500), plan.Details[0].UnitPricePence)
	assert.Equal(t, int64(7500), plan.Details[0].SubtotalPence)
}

func TestBuildBookingPlanMixedParty(t *testing.T) {
	plan, err := BuildBookingPlan(testEvent(), testPrices(), &models.CreateBookingRequest{
		EventID:       1,
		SeatType:      models.SeatWithTable,
		AdultTickets:  2,
		ChildTickets:  2,
		SeniorTickets: 1,
	})
	require.NoError(t, err)

	assert.Equal(t, 5, plan.TotalTickets)
	require.Len(t, plan.Details, 3)

	var sum int64
	for _, d := range plan.Details {
		sum += d.SubtotalPence
		assert.Equal(t, d.UnitPricePence*int64(d.Quantity), d.SubtotalPence)
	}
	assert.Equal(t, sum, plan.TotalPence)
	assert.Equal(t, int64(2*3500+2*2200+2500), plan.TotalPence)

	// Lines come out in display order: adult, child, senior.
	assert.Equal(t, models.TicketAdult, plan.Details[0].TicketType)
	assert.Equal(t, models.TicketChild, plan.Details[1].TicketType)
	assert.Equal(t, models.TicketSenior, plan.Details[2].TicketType)
}

func TestBuildBookingPlanRejectsEmptyParty(t *testing.T) {
	_, err := BuildBookingPlan(testEvent(), testPrices(), &models.CreateBookingRequest{
		EventID:  1,
		SeatType: models.SeatWithoutTable,
	})
	verr, ok := apperr.AsValidation(err)
	require.True(t, ok)
	assert.True(t, verr.HasErrors())
}

func TestBuildBookingPlanRejectsNegativeQuantities(t *testing.T) {
	_, err := BuildBookingPlan(testEvent(), testPrices(), &models.CreateBookingRequest{
		EventID:       1,
		SeatType:      models.SeatWithoutTable,
		AdultTickets:  2,
		ChildTickets:  -1,
		SeniorTickets: -3,
	})
	verr, ok := apperr.AsValidation(err)
	require.True(t, ok)

	fields := make([]string, 0, len(verr.Fields))
	for _, f := range verr.Fields {
		fields = append(fields, f.Field)
	}
	assert.Contains(t, fields, "child_tickets")
	assert.Contains(t, fields, "senior_tickets")
	assert.NotContains(t, fields, "adult_tickets")
}

func TestBuildBookingPlanRejectsOversizedParty(t *testing.T) {
	_, err := BuildBookingPlan(testEvent(), testPrices(), &models.CreateBookingRequest{
		EventID:      1,
		SeatType:     models.SeatWithoutTable,
		AdultTickets: 6,
		ChildTickets: 3,
	})
	verr, ok := apperr.AsValidation(err)
	require.True(t, ok)
	assert.Contains(t, verr.Error(), "at most 8")
}

func TestBuildBookingPlanRejectsInvalidSeatType(t *testing.T) {
	_, err := BuildBookingPlan(testEvent(), testPrices(), &models.CreateBookingRequest{
		EventID:      1,
		SeatType:     "balcony",
		AdultTickets: 1,
	})
	_, ok := apperr.AsValidation(err)
	require.True(t, ok)
}

func TestBuildBookingPlanAdultSupervision(t *testing.T) {
	event := testEvent()
	event.RequiresAdult = true

	// Children alone are refused.
	_, err := BuildBookingPlan(event, testPrices(), &models.CreateBookingRequest{
		EventID:      1,
		SeatType:     models.SeatWithoutTable,
		ChildTickets: 2,
	})
	verr, ok := apperr.AsValidation(err)
	require.True(t, ok)
	assert.Len(t, verr.Fields, 2) // no adult, no identification

	// An adult without identification is still refused.
	_, err = BuildBookingPlan(event, testPrices(), &models.CreateBookingRequest{
		EventID:      1,
		SeatType:     models.SeatWithoutTable,
		AdultTickets: 1,
		ChildTickets: 2,
	})
	verr, ok = apperr.AsValidation(err)
	require.True(t, ok)
	assert.Len(t, verr.Fields, 1)

	photo := "uploads/id-check.jpg"
	plan, err := BuildBookingPlan(event, testPrices(), &models.CreateBookingRequest{
		EventID:      1,
		SeatType:     models.SeatWithoutTable,
		AdultTickets: 1,
		ChildTickets: 2,
		AdultPhoto:   &photo,
	})
	require.NoError(t, err)
	assert.Equal(t, 3, plan.TotalTickets)
}

func TestBuildBookingPlanMissingTierPrices(t *testing.T) {
	prices := models.BuildPriceMatrix([]models.PriceEntry{
		{SeatType: models.SeatWithoutTable, TicketType: models.TicketAdult, PricePence: 2500},
	})

	_, err := BuildBookingPlan(testEvent(), prices, &models.CreateBookingRequest{
		EventID:      1,
		SeatType:     models.SeatWithTable,
		AdultTickets: 1,
	})
	_, ok := apperr.AsValidation(err)
	require.True(t, ok)

	// Tier exists but the requested class has no price.
	_, err = BuildBookingPlan(testEvent(), prices, &models.CreateBookingRequest{
		EventID:      1,
		SeatType:     models.SeatWithoutTable,
		AdultTickets: 1,
		ChildTickets: 1,
	})
	_, ok = apperr.AsValidation(err)
	require.True(t, ok)
}
