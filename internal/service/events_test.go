package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"parkgate/internal/apperr"
	"parkgate/internal/models"
)

func fullPriceInputs() []models.EventPriceInput {
	var inputs []models.EventPriceInput
	for _, seatType := range []string{models.SeatWithoutTable, models.SeatWithTable} {
		for _, ticketType := range models.TicketTypes() {
			inputs = append(inputs, models.EventPriceInput{
				SeatType:   seatType,
				TicketType: ticketType,
				PricePence: 1000,
			})
		}
	}
	return inputs
}

func TestValidateEventInput(t *testing.T) {
	s := NewEventService(nil, nil, nil, nil)

	event, prices, err := s.validateEventInput("Fireworks", "Bang", "2026-11-05", "19:30",
		"Lakeside Arena", false, 0, fullPriceInputs(), false)
	require.NoError(t, err)

	assert.Equal(t, "Fireworks", event.Name)
	assert.Equal(t, "19:30:00", event.TimeOfDay)
	assert.Equal(t, 8, event.MaxTicketsPerBooking) // default when unset
	require.NotNil(t, event.Description)
	assert.Len(t, prices, 6)
}

func TestValidateEventInputRejectsBadDateAndTime(t *testing.T) {
	s := NewEventService(nil, nil, nil, nil)

	_, _, err := s.validateEventInput("Fireworks", "", "05/11/2026", "7pm",
		"Lakeside Arena", false, 8, fullPriceInputs(), false)
	verr, ok := apperr.AsValidation(err)
	require.True(t, ok)
	assert.Len(t, verr.Fields, 2)
}

func TestValidateEventInputRequiresCompleteMatrix(t *testing.T) {
	s := NewEventService(nil, nil, nil, nil)

	partial := fullPriceInputs()[:4]
	_, _, err := s.validateEventInput("Fireworks", "", "2026-11-05", "19:30",
		"Lakeside Arena", false, 8, partial, false)
	verr, ok := apperr.AsValidation(err)
	require.True(t, ok)
	assert.Len(t, verr.Fields, 2)
}

func TestValidateEventInputPricesOptionalOnUpdate(t *testing.T) {
	s := NewEventService(nil, nil, nil, nil)

	// No prices at all is fine on update.
	_, prices, err := s.validateEventInput("Fireworks", "", "2026-11-05", "19:30",
		"Lakeside Arena", false, 8, nil, true)
	require.NoError(t, err)
	assert.Empty(t, prices)

	// A partial matrix is still rejected.
	_, _, err = s.validateEventInput("Fireworks", "", "2026-11-05", "19:30",
		"Lakeside Arena", false, 8, fullPriceInputs()[:2], true)
	_, ok := apperr.AsValidation(err)
	assert.True(t, ok)
}

func TestValidateEventInputRejectsDuplicatePrices(t *testing.T) {
	s := NewEventService(nil, nil, nil, nil)

	inputs := append(fullPriceInputs(), models.EventPriceInput{
		SeatType:   models.SeatWithoutTable,
		TicketType: models.TicketAdult,
		PricePence: 999,
	})

	_, _, err := s.validateEventInput("Fireworks", "", "2026-11-05", "19:30",
		"Lakeside Arena", false, 8, inputs, false)
	_, ok := apperr.AsValidation(err)
	assert.True(t, ok)
}
