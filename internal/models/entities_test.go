package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEventStartsAt(t *testing.T) {
	event := Event{
		Date:      time.Date(2026, 11, 5, 0, 0, 0, 0, time.UTC),
		TimeOfDay: "19:30:00",
	}
	assert.Equal(t, time.Date(2026, 11, 5, 19, 30, 0, 0, time.UTC), event.StartsAt())

	// Short form without seconds is accepted too.
	event.TimeOfDay = "19:30"
	assert.Equal(t, time.Date(2026, 11, 5, 19, 30, 0, 0, time.UTC), event.StartsAt())

	// Garbage counts as midnight rather than erroring.
	event.TimeOfDay = "evening"
	assert.Equal(t, time.Date(2026, 11, 5, 0, 0, 0, 0, time.UTC), event.StartsAt())
}

func TestBuildPriceMatrix(t *testing.T) {
	matrix := BuildPriceMatrix([]PriceEntry{
		{SeatType: SeatWithoutTable, TicketType: TicketAdult, PricePence: 2500},
		{SeatType: SeatWithoutTable, TicketType: TicketChild, PricePence: 1200},
		{SeatType: SeatWithTable, TicketType: TicketAdult, PricePence: 3500},
	})

	assert.Equal(t, int64(2500), matrix[SeatWithoutTable][TicketAdult])
	assert.Equal(t, int64(1200), matrix[SeatWithoutTable][TicketChild])
	assert.Equal(t, int64(3500), matrix[SeatWithTable][TicketAdult])

	_, ok := matrix[SeatWithTable][TicketSenior]
	assert.False(t, ok)
}

func TestValidSeatType(t *testing.T) {
	assert.True(t, ValidSeatType(SeatWithoutTable))
	assert.True(t, ValidSeatType(SeatWithTable))
	assert.False(t, ValidSeatType("balcony"))
	assert.False(t, ValidSeatType(""))
}
