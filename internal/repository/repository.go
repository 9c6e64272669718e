package repository

import (
	"parkgate/internal/database"
)

type Repositories struct {
	Users    *UserRepository
	Events   *EventRepository
	Seats    *SeatRepository
	Bookings *BookingRepository
	Payments *PaymentRepository
}

func NewRepositories(db *database.DB) *Repositories {
	return &Repositories{
		Users:    NewUserRepository(db),
		Events:   NewEventRepository(db),
		Seats:    NewSeatRepository(db),
		Bookings: NewBookingRepository(db),
		Payments: NewPaymentRepository(db),
	}
}
