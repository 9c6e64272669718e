package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "parkgate_http_request_duration_seconds",
		Help:    "HTTP request latency by method, route and status.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route", "status"})

	BookingsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "parkgate_bookings_created_total",
		Help: "Bookings created with seats held.",
	})

	BookingsCancelled = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "parkgate_bookings_cancelled_total",
		Help: "Bookings cancelled, by origin (user, sweeper).",
	}, []string{"origin"})

	PaymentsCaptured = promauto.NewCounter(prometheus.CounterOpts{
		Name: "parkgate_payments_captured_total",
		Help: "Successful simulated card captures.",
	})

	RefundsIssuedPence = promauto.NewCounter(prometheus.CounterOpts{
		Name: "parkgate_refunds_issued_pence_total",
		Help: "Total refunded amount in pence.",
	})

	SeatConflicts = promauto.NewCounter(prometheus.CounterOpts{
		Name: "parkgate_seat_conflicts_total",
		Help: "Booking attempts rejected because seats ran out.",
	})
)
