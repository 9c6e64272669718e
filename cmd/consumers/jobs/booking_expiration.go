package jobs

import (
	"context"
	"log/slog"
	"time"

	"parkgate/internal/service"
)

// BookingExpirationJob periodically cancels pending bookings whose payment
// window has lapsed, releasing their seats back to inventory.
type BookingExpirationJob struct {
	bookings *service.BookingService
	window   time.Duration
	interval time.Duration
	ticker   *time.Ticker
	done     chan bool
}

func NewBookingExpirationJob(bookings *service.BookingService, window, interval time.Duration) *BookingExpirationJob {
	return &BookingExpirationJob{
		bookings: bookings,
		window:   window,
		interval: interval,
		done:     make(chan bool),
	}
}

// Start begins the sweep loop. The first sweep runs immediately.
func (j *BookingExpirationJob) Start(ctx context.Context) {
	slog.Info("Starting booking expiration job", "window", j.window, "interval", j.interval)

	j.ticker = time.NewTicker(j.interval)

	go j.sweep(ctx)

	go func() {
		for {
			select {
			case <-j.ticker.C:
				j.sweep(ctx)
			case <-j.done:
				slog.Info("Booking expiration job stopped")
				return
			}
		}
	}()
}

// Stop halts the sweep loop.
func (j *BookingExpirationJob) Stop() {
	if j.ticker != nil {
		j.ticker.Stop()
	}
	close(j.done)
}

func (j *BookingExpirationJob) sweep(ctx context.Context) {
	expired, err := j.bookings.ExpireStale(ctx, j.window)
	if err != nil {
		slog.Error("Booking expiration sweep failed", "error", err)
		return
	}
	if expired > 0 {
		slog.Info("Expired unpaid bookings", "count", expired)
	}
}
