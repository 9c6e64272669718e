package models

// RegisterRequest - payload for customer self-registration
type RegisterRequest struct {
	Username  string `json:"username" binding:"required,min=3,max=50,alphanum"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=6"`
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name" binding:"required"`
	Phone     string `json:"phone,omitempty"`
}

// RegisterResponse - created account
type RegisterResponse struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// EventPriceInput - one cell of the price matrix on event create/update
type EventPriceInput struct {
	SeatType   string `json:"seat_type" binding:"required,oneof=without_table with_table"`
	TicketType string `json:"ticket_type" binding:"required,oneof=adult child senior"`
	PricePence int64  `json:"price_pence" binding:"min=0"`
}

// CreateEventRequest - admin payload for a new event with its seat
// allocations and full price matrix
type CreateEventRequest struct {
	Name              string            `json:"name" binding:"required,max=200"`
	Description       string            `json:"description,omitempty"`
	Date              string            `json:"date" binding:"required"` // 2006-01-02
	Time              string            `json:"time" binding:"required"` // 15:04
	Venue             string            `json:"venue" binding:"required"`
	RequiresAdult     bool              `json:"requires_adult"`
	MaxTickets        int               `json:"max_tickets_per_booking"`
	SeatsWithoutTable int               `json:"seats_without_table" binding:"min=0"`
	SeatsWithTable    int               `json:"seats_with_table" binding:"min=0"`
	Prices            []EventPriceInput `json:"prices" binding:"required,dive"`
}

// UpdateEventRequest - admin payload for editing an event. Seat totals are
// fixed at creation and intentionally absent here.
type UpdateEventRequest struct {
	Name          string            `json:"name" binding:"required,max=200"`
	Description   string            `json:"description,omitempty"`
	Date          string            `json:"date" binding:"required"`
	Time          string            `json:"time" binding:"required"`
	Venue         string            `json:"venue" binding:"required"`
	RequiresAdult bool              `json:"requires_adult"`
	MaxTickets    int               `json:"max_tickets_per_booking"`
	IsActive      *bool             `json:"is_active,omitempty"`
	Prices        []EventPriceInput `json:"prices,omitempty" binding:"dive"`
}

// EventMutationResponse - id echo for admin event writes
type EventMutationResponse struct {
	ID int64 `json:"id"`
}

// ListEventsResponseItem - one event in the public listing
type ListEventsResponseItem struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Date     string `json:"date"`
	Time     string `json:"time"`
	Venue    string `json:"venue"`
	SoldOut  bool   `json:"sold_out"`
	IsActive bool   `json:"is_active"`
}

// ListEventsResponse - public event listing
type ListEventsResponse []ListEventsResponseItem

// SeatAvailabilityItem - remaining inventory for one seat tier
type SeatAvailabilityItem struct {
	SeatType       string `json:"seat_type"`
	TotalSeats     int    `json:"total_seats"`
	AvailableSeats int    `json:"available_seats"`
}

// PriceItem - one price cell with a display amount
type PriceItem struct {
	SeatType   string `json:"seat_type"`
	TicketType string `json:"ticket_type"`
	PricePence int64  `json:"price_pence"`
	Price      string `json:"price"`
}

// EventDetailResponse - event page payload: the event plus its live seat
// availability and price matrix
type EventDetailResponse struct {
	Event  Event                  `json:"event"`
	Seats  []SeatAvailabilityItem `json:"seats"`
	Prices []PriceItem            `json:"prices"`
}

// CreateBookingRequest - booking form: one seat tier, per-class quantities,
// and an optional identification artifact for adult-supervised events
type CreateBookingRequest struct {
	EventID       int64   `json:"event_id" binding:"required"`
	SeatType      string  `json:"seat_type" binding:"required"`
	AdultTickets  int     `json:"adult_tickets" binding:"min=0"`
	ChildTickets  int     `json:"child_tickets" binding:"min=0"`
	SeniorTickets int     `json:"senior_tickets" binding:"min=0"`
	AdultPhoto    *string `json:"adult_photo,omitempty"`
}

// BookingLineItem - one priced line of a booking
type BookingLineItem struct {
	SeatType   string `json:"seat_type"`
	TicketType string `json:"ticket_type"`
	Quantity   int    `json:"quantity"`
	UnitPrice  string `json:"unit_price"`
	Subtotal   string `json:"subtotal"`
}

// CreateBookingResponse - confirmation payload with the reference the
// customer presents at the gate
type CreateBookingResponse struct {
	ID               int64             `json:"id"`
	Reference        string            `json:"reference"`
	BookingStatus    string            `json:"booking_status"`
	PaymentStatus    string            `json:"payment_status"`
	TotalTickets     int               `json:"total_tickets"`
	TotalAmountPence int64             `json:"total_amount_pence"`
	TotalAmount      string            `json:"total_amount"`
	Lines            []BookingLineItem `json:"lines"`
}

// ListBookingsResponseItem - one booking in a user's history
type ListBookingsResponseItem struct {
	ID            int64             `json:"id"`
	Reference     string            `json:"reference"`
	EventID       int64             `json:"event_id"`
	EventName     string            `json:"event_name"`
	EventDate     string            `json:"event_date"`
	EventTime     string            `json:"event_time"`
	Venue         string            `json:"venue"`
	TotalTickets  int               `json:"total_tickets"`
	TotalAmount   string            `json:"total_amount"`
	BookingStatus string            `json:"booking_status"`
	PaymentStatus string            `json:"payment_status"`
	Lines         []BookingLineItem `json:"lines,omitempty"`
}

// ListBookingsResponse - a user's bookings, newest first
type ListBookingsResponse []ListBookingsResponseItem

// CancelBookingRequest - cancellation form
type CancelBookingRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// CancelBookingResponse - outcome of a cancellation including the refund
// actually issued under the time-banded policy
type CancelBookingResponse struct {
	ID               int64  `json:"id"`
	BookingStatus    string `json:"booking_status"`
	PaymentStatus    string `json:"payment_status"`
	RefundPercentage int    `json:"refund_percentage"`
	RefundPence      int64  `json:"refund_pence"`
	RefundAmount     string `json:"refund_amount"`
}

// CapturePaymentRequest - simulated card form. Checks are superficial by
// design; no real gateway sits behind this.
type CapturePaymentRequest struct {
	CardName   string `json:"card_name" binding:"required"`
	CardNumber string `json:"card_number" binding:"required"`
	ExpiryDate string `json:"expiry_date" binding:"required"`
	CVV        string `json:"cvv" binding:"required"`
}

// CapturePaymentResponse - recorded payment
type CapturePaymentResponse struct {
	BookingID     int64  `json:"booking_id"`
	TransactionID string `json:"transaction_id"`
	Amount        string `json:"amount"`
	CardLastFour  string `json:"card_last_four"`
	BookingStatus string `json:"booking_status"`
	PaymentStatus string `json:"payment_status"`
}

// AdminBookingItem - one row of the admin bookings report
type AdminBookingItem struct {
	ID            int64  `json:"id"`
	Reference     string `json:"reference"`
	CustomerName  string `json:"customer_name"`
	CustomerEmail string `json:"customer_email"`
	EventName     string `json:"event_name"`
	EventDate     string `json:"event_date"`
	TotalTickets  int    `json:"total_tickets"`
	TotalAmount   string `json:"total_amount"`
	BookingStatus string `json:"booking_status"`
	PaymentStatus string `json:"payment_status"`
}

// AdminBookingsResponse - filtered bookings plus aggregates; revenue counts
// confirmed bookings only
type AdminBookingsResponse struct {
	Bookings          []AdminBookingItem `json:"bookings"`
	TotalRevenuePence int64              `json:"total_revenue_pence"`
	TotalRevenue      string             `json:"total_revenue"`
	TotalTickets      int                `json:"total_tickets"`
}

// ListUsersResponseItem - one account in the admin user listing
type ListUsersResponseItem struct {
	UserID    int64  `json:"user_id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Role      string `json:"role"`
	CreatedAt string `json:"created_at"`
}
