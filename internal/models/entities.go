package models

import (
	"time"
)

// Seat tiers sold for every event.
const (
	SeatWithoutTable = "without_table"
	SeatWithTable    = "with_table"
)

// Age-based price classes.
const (
	TicketAdult  = "adult"
	TicketChild  = "child"
	TicketSenior = "senior"
)

// Booking lifecycle. Bookings are created pending/unpaid with seats already
// held; payment capture confirms them; cancellation (user or sweeper) frees
// the seats again.
const (
	BookingPending   = "pending"
	BookingConfirmed = "confirmed"
	BookingCancelled = "cancelled"
)

const (
	PaymentUnpaid   = "unpaid"
	PaymentPaid     = "paid"
	PaymentRefunded = "refunded"
)

const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"
)

// ValidSeatType reports whether s is one of the two seat tiers.
func ValidSeatType(s string) bool {
	return s == SeatWithoutTable || s == SeatWithTable
}

// TicketTypes lists the price classes in display order.
func TicketTypes() []string {
	return []string{TicketAdult, TicketChild, TicketSenior}
}

// User represents a registered account.
type User struct {
	UserID       int64     `json:"user_id" db:"user_id"`
	Username     string    `json:"username" db:"username"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	FirstName    string    `json:"first_name" db:"first_name"`
	LastName     string    `json:"last_name" db:"last_name"`
	Phone        *string   `json:"phone" db:"phone"`
	Role         string    `json:"role" db:"role"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// Event represents a seasonal event in the catalog.
type Event struct {
	ID                   int64     `json:"id" db:"event_id"`
	Name                 string    `json:"name" db:"event_name"`
	Description          *string   `json:"description" db:"event_description"`
	Date                 time.Time `json:"date" db:"event_date"`
	TimeOfDay            string    `json:"time" db:"event_time"`
	Venue                string    `json:"venue" db:"venue"`
	TotalCapacity        int       `json:"total_capacity" db:"total_capacity"`
	RequiresAdult        bool      `json:"requires_adult" db:"requires_adult"`
	MaxTicketsPerBooking int       `json:"max_tickets_per_booking" db:"max_tickets_per_booking"`
	IsActive             bool      `json:"is_active" db:"is_active"`
	CreatedAt            time.Time `json:"created_at" db:"created_at"`
	UpdatedAt            time.Time `json:"updated_at" db:"updated_at"`
}

// StartsAt combines the event date with its wall-clock start time.
// TimeOfDay is stored as "15:04:05"; a malformed value counts as midnight.
func (e *Event) StartsAt() time.Time {
	t, err := time.Parse("15:04:05", e.TimeOfDay)
	if err != nil {
		if t, err = time.Parse("15:04", e.TimeOfDay); err != nil {
			t = time.Time{}
		}
	}
	return time.Date(e.Date.Year(), e.Date.Month(), e.Date.Day(),
		t.Hour(), t.Minute(), t.Second(), 0, e.Date.Location())
}

// SeatAllocation is the inventory ledger row for one (event, seat tier).
type SeatAllocation struct {
	EventID        int64  `json:"event_id" db:"event_id"`
	SeatType       string `json:"seat_type" db:"seat_type"`
	TotalSeats     int    `json:"total_seats" db:"total_seats"`
	AvailableSeats int    `json:"available_seats" db:"available_seats"`
}

// PriceEntry is one cell of the price matrix, in pence.
type PriceEntry struct {
	EventID    int64  `json:"event_id" db:"event_id"`
	SeatType   string `json:"seat_type" db:"seat_type"`
	TicketType string `json:"ticket_type" db:"ticket_type"`
	PricePence int64  `json:"price_pence" db:"price_pence"`
}

// PriceMatrix indexes unit prices by seat type then ticket type.
type PriceMatrix map[string]map[string]int64

// BuildPriceMatrix folds price rows into a lookup table.
func BuildPriceMatrix(entries []PriceEntry) PriceMatrix {
	m := make(PriceMatrix)
	for _, e := range entries {
		if m[e.SeatType] == nil {
			m[e.SeatType] = make(map[string]int64)
		}
		m[e.SeatType][e.TicketType] = e.PricePence
	}
	return m
}

// Booking is the aggregate header. Detail lines are owned exclusively by the
// booking and loaded separately.
type Booking struct {
	ID                 int64           `json:"id" db:"booking_id"`
	UserID             int64           `json:"user_id" db:"user_id"`
	EventID            int64           `json:"event_id" db:"event_id"`
	Reference          string          `json:"reference" db:"booking_reference"`
	TotalTickets       int             `json:"total_tickets" db:"total_tickets"`
	TotalAmountPence   int64           `json:"total_amount_pence" db:"total_amount_pence"`
	BookingStatus      string          `json:"booking_status" db:"booking_status"`
	PaymentStatus      string          `json:"payment_status" db:"payment_status"`
	AdultPhoto         *string         `json:"adult_photo" db:"adult_photo"`
	BookingDate        time.Time       `json:"booking_date" db:"booking_date"`
	CancellationDate   *time.Time      `json:"cancellation_date" db:"cancellation_date"`
	CancellationReason *string         `json:"cancellation_reason" db:"cancellation_reason"`
	CardLastFour       *string         `json:"card_last_four" db:"card_last_four"`
	Details            []BookingDetail `json:"details,omitempty"` // not from DB, filled separately
}

// BookingDetail is one immutable line of a booking.
type BookingDetail struct {
	ID             int64  `json:"id" db:"detail_id"`
	BookingID      int64  `json:"booking_id" db:"booking_id"`
	SeatType       string `json:"seat_type" db:"seat_type"`
	TicketType     string `json:"ticket_type" db:"ticket_type"`
	Quantity       int    `json:"quantity" db:"quantity"`
	UnitPricePence int64  `json:"unit_price_pence" db:"unit_price_pence"`
	SubtotalPence  int64  `json:"subtotal_pence" db:"subtotal_pence"`
}

// Payment is one row of the append-only payment ledger. Refunds are recorded
// as new rows with a negative amount, never by editing the original.
type Payment struct {
	ID            int64     `json:"id" db:"payment_id"`
	BookingID     int64     `json:"booking_id" db:"booking_id"`
	AmountPence   int64     `json:"amount_pence" db:"amount_pence"`
	Method        string    `json:"method" db:"payment_method"`
	CardLastFour  *string   `json:"card_last_four" db:"card_last_four"`
	TransactionID string    `json:"transaction_id" db:"transaction_id"`
	Status        string    `json:"status" db:"payment_status"`
	PaymentDate   time.Time `json:"payment_date" db:"payment_date"`
}
