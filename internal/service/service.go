package service

import (
	"parkgate/internal/cache"
	"parkgate/internal/config"
	"parkgate/internal/gateway"
	"parkgate/internal/messaging"
	"parkgate/internal/repository"
	"parkgate/internal/search"
)

// Services aggregates the business-logic layer. The cache and search
// clients may be nil; every service treats them as optional accelerators
// and falls back to Postgres.
type Services struct {
	Users    *UserService
	Events   *EventService
	Bookings *BookingService
	Payments *PaymentService
}

func NewServices(repos *repository.Repositories, nats *messaging.NATSClient,
	cacheClient *cache.Client, es *search.ElasticsearchClient, cfg *config.Config) *Services {

	processor := gateway.NewCardProcessor()
	events := NewEventService(repos, nats, cacheClient, es)
	bookings := NewBookingService(repos, nats, cacheClient, processor)
	payments := NewPaymentService(repos, nats, processor)
	users := NewUserService(repos, cacheClient)

	return &Services{
		Users:    users,
		Events:   events,
		Bookings: bookings,
		Payments: payments,
	}
}
