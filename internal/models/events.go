package models

import "time"

// NATS subjects
const (
	EventBookingCreated   = "booking.created"
	EventBookingCancelled = "booking.cancelled"
	EventBookingExpired   = "booking.expired"
	EventPaymentCaptured  = "payment.captured"
	EventRefundIssued     = "refund.issued"
	EventCatalogUpserted  = "catalog.upserted"
)

// BookingCreatedEvent is published after a booking commits.
type BookingCreatedEvent struct {
	BookingID   int64     `json:"booking_id"`
	EventID     int64     `json:"event_id"`
	UserID      int64     `json:"user_id"`
	Reference   string    `json:"reference"`
	TotalPence  int64     `json:"total_pence"`
	SeatType    string    `json:"seat_type"`
	TicketCount int       `json:"ticket_count"`
	Timestamp   time.Time `json:"timestamp"`
}

// BookingCancelledEvent is published after a user cancellation commits.
type BookingCancelledEvent struct {
	BookingID   int64     `json:"booking_id"`
	EventID     int64     `json:"event_id"`
	UserID      int64     `json:"user_id"`
	Reason      string    `json:"reason"`
	RefundPence int64     `json:"refund_pence"`
	Timestamp   time.Time `json:"timestamp"`
}

// BookingExpiredEvent is published when the sweeper cancels an unpaid
// pending booking.
type BookingExpiredEvent struct {
	BookingID int64     `json:"booking_id"`
	EventID   int64     `json:"event_id"`
	UserID    int64     `json:"user_id"`
	Reason    string    `json:"reason"`
	Timestamp time.Time `json:"timestamp"`
}

// PaymentCapturedEvent is published after a simulated card capture commits.
type PaymentCapturedEvent struct {
	BookingID     int64     `json:"booking_id"`
	TransactionID string    `json:"transaction_id"`
	AmountPence   int64     `json:"amount_pence"`
	Timestamp     time.Time `json:"timestamp"`
}

// RefundIssuedEvent is published when a cancellation produced a refund row.
type RefundIssuedEvent struct {
	BookingID     int64     `json:"booking_id"`
	TransactionID string    `json:"transaction_id"`
	AmountPence   int64     `json:"amount_pence"` // negative
	Timestamp     time.Time `json:"timestamp"`
}

// CatalogUpsertedEvent signals that an event row changed and the search
// index should be refreshed.
type CatalogUpsertedEvent struct {
	EventID   int64     `json:"event_id"`
	Deleted   bool      `json:"deleted"`
	Timestamp time.Time `json:"timestamp"`
}
