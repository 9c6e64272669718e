package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"parkgate/internal/database"
	"parkgate/internal/models"
)

type BookingRepository struct {
	db *database.DB
}

func NewBookingRepository(db *database.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

const bookingColumns = `booking_id, user_id, event_id, booking_reference, total_tickets,
	       total_amount_pence, booking_status, payment_status, adult_photo, booking_date,
	       cancellation_date, cancellation_reason, card_last_four`

func scanBooking(row interface{ Scan(...any) error }) (*models.Booking, error) {
	booking := &models.Booking{}
	err := row.Scan(
		&booking.ID,
		&booking.UserID,
		&booking.EventID,
		&booking.Reference,
		&booking.TotalTickets,
		&booking.TotalAmountPence,
		&booking.BookingStatus,
		&booking.PaymentStatus,
		&booking.AdultPhoto,
		&booking.BookingDate,
		&booking.CancellationDate,
		&booking.CancellationReason,
		&booking.CardLastFour,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return booking, nil
}

// CreateWithDetails reserves the seats and writes the booking header plus its
// detail lines in one transaction. Seats are decremented by the same
// statement that checks availability, so an oversell is impossible even under
// concurrent requests for the last seats.
//
// A unique violation on the booking reference comes back as ErrDuplicate so
// the caller can regenerate and retry.
func (r *BookingRepository) CreateWithDetails(ctx context.Context, booking *models.Booking) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	// All lines of a booking share one seat tier; reserve the whole lot at
	// once so partial holds never happen.
	perTier := make(map[string]int)
	for _, d := range booking.Details {
		perTier[d.SeatType] += d.Quantity
	}
	for seatType, quantity := range perTier {
		if err := reserveSeats(ctx, tx, booking.EventID, seatType, quantity); err != nil {
			return err
		}
	}

	query := `
		INSERT INTO bookings (user_id, event_id, booking_reference, total_tickets,
		                      total_amount_pence, booking_status, payment_status, adult_photo)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING booking_id, booking_date`

	err = tx.QueryRowContext(ctx, query,
		booking.UserID,
		booking.EventID,
		booking.Reference,
		booking.TotalTickets,
		booking.TotalAmountPence,
		booking.BookingStatus,
		booking.PaymentStatus,
		booking.AdultPhoto,
	).Scan(&booking.ID, &booking.BookingDate)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return err
	}

	for i := range booking.Details {
		d := &booking.Details[i]
		d.BookingID = booking.ID
		err = tx.QueryRowContext(ctx, `
			INSERT INTO booking_details (booking_id, seat_type, ticket_type, quantity,
			                             unit_price_pence, subtotal_pence)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING detail_id`,
			d.BookingID, d.SeatType, d.TicketType, d.Quantity, d.UnitPricePence, d.SubtotalPence,
		).Scan(&d.ID)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (r *BookingRepository) GetByID(ctx context.Context, id int64) (*models.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE booking_id = $1`
	return scanBooking(r.db.QueryRowContext(ctx, query, id))
}

func (r *BookingRepository) GetByReference(ctx context.Context, reference string) (*models.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE booking_reference = $1`
	return scanBooking(r.db.QueryRowContext(ctx, query, reference))
}

func (r *BookingRepository) GetDetails(ctx context.Context, bookingID int64) ([]models.BookingDetail, error) {
	query := `
		SELECT detail_id, booking_id, seat_type, ticket_type, quantity, unit_price_pence, subtotal_pence
		FROM booking_details
		WHERE booking_id = $1
		ORDER BY detail_id`

	rows, err := r.db.QueryContext(ctx, query, bookingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var details []models.BookingDetail
	for rows.Next() {
		var d models.BookingDetail
		err := rows.Scan(&d.ID, &d.BookingID, &d.SeatType, &d.TicketType,
			&d.Quantity, &d.UnitPricePence, &d.SubtotalPence)
		if err != nil {
			return nil, err
		}
		details = append(details, d)
	}

	return details, rows.Err()
}

func (r *BookingRepository) ListByUser(ctx context.Context, userID int64) ([]models.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE user_id = $1 ORDER BY booking_date DESC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectBookings(rows)
}

// CancelResult reports what the cancellation transaction actually did.
type CancelResult struct {
	WasPaid     bool
	RefundPence int64
	RefundTxnID string
}

// RefundQuote prices the refund for a paid booking. It is called inside the
// cancellation transaction against the row state seen under the lock, so a
// payment capture that commits just before the cancel is always quoted.
type RefundQuote func(totalPence int64) (refundPence int64, txnID string)

// Cancel flips the booking to cancelled, restores its seats, and, when the
// locked row is paid and the quote is positive, marks it refunded and appends
// a negative payment row. The booking row is locked first so a concurrent
// cancel or capture cannot interleave; an already-cancelled booking yields
// ErrStateConflict.
func (r *BookingRepository) Cancel(ctx context.Context, bookingID int64, reason string, quote RefundQuote) (*CancelResult, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	booking, err := lockBooking(ctx, tx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.BookingStatus == models.BookingCancelled {
		return nil, ErrStateConflict
	}

	result := &CancelResult{WasPaid: booking.PaymentStatus == models.PaymentPaid}

	paymentStatus := booking.PaymentStatus
	if result.WasPaid && quote != nil {
		result.RefundPence, result.RefundTxnID = quote(booking.TotalAmountPence)
		if result.RefundPence > 0 {
			paymentStatus = models.PaymentRefunded
		}
	}

	if err := cancelBookingTx(ctx, tx, booking, reason, paymentStatus); err != nil {
		return nil, err
	}

	if result.RefundPence > 0 {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO payments (booking_id, amount_pence, payment_method, card_last_four,
			                      transaction_id, payment_status)
			VALUES ($1, $2, 'refund', $3, $4, 'completed')`,
			bookingID, -result.RefundPence, booking.CardLastFour, result.RefundTxnID)
		if err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return result, nil
}

// CancelExpired cancels a pending unpaid booking and releases its seats. The
// state is re-checked under the row lock, so a booking captured or cancelled
// after the sweeper selected it returns ErrStateConflict instead of being
// reclaimed out from under the customer.
func (r *BookingRepository) CancelExpired(ctx context.Context, bookingID int64, reason string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	booking, err := lockBooking(ctx, tx, bookingID)
	if err != nil {
		return err
	}
	if booking.BookingStatus != models.BookingPending || booking.PaymentStatus != models.PaymentUnpaid {
		return ErrStateConflict
	}

	if err := cancelBookingTx(ctx, tx, booking, reason, booking.PaymentStatus); err != nil {
		return err
	}

	return tx.Commit()
}

func lockBooking(ctx context.Context, tx *sql.Tx, bookingID int64) (*models.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE booking_id = $1 FOR UPDATE`
	booking, err := scanBooking(tx.QueryRowContext(ctx, query, bookingID))
	if err != nil {
		return nil, err
	}
	if booking == nil {
		return nil, sql.ErrNoRows
	}
	return booking, nil
}

// cancelBookingTx releases every detail line back to the seat ledger and
// flips the booking to cancelled with the given payment status.
func cancelBookingTx(ctx context.Context, tx *sql.Tx, booking *models.Booking, reason, paymentStatus string) error {
	details, err := bookingDetailsTx(ctx, tx, booking.ID)
	if err != nil {
		return err
	}
	for _, d := range details {
		if err := releaseSeats(ctx, tx, booking.EventID, d.SeatType, d.Quantity); err != nil {
			return err
		}
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE bookings
		SET booking_status = $2, payment_status = $3, cancellation_date = NOW(),
		    cancellation_reason = $4
		WHERE booking_id = $1`,
		booking.ID, models.BookingCancelled, paymentStatus, reason)
	return err
}

// CapturePayment confirms a pending unpaid booking and appends the payment
// row in one transaction. The status transition is guarded in the WHERE
// clause, so a double capture or a capture racing a cancel matches zero rows
// and returns ErrStateConflict.
func (r *BookingRepository) CapturePayment(ctx context.Context, payment *models.Payment) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		UPDATE bookings
		SET booking_status = $2, payment_status = $3, card_last_four = $4
		WHERE booking_id = $1 AND booking_status = $5 AND payment_status = $6`,
		payment.BookingID,
		models.BookingConfirmed, models.PaymentPaid, payment.CardLastFour,
		models.BookingPending, models.PaymentUnpaid)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrStateConflict
	}

	err = tx.QueryRowContext(ctx, `
		INSERT INTO payments (booking_id, amount_pence, payment_method, card_last_four,
		                      transaction_id, payment_status)
		VALUES ($1, $2, $3, $4, $5, 'completed')
		RETURNING payment_id, payment_date`,
		payment.BookingID, payment.AmountPence, payment.Method,
		payment.CardLastFour, payment.TransactionID,
	).Scan(&payment.ID, &payment.PaymentDate)
	if err != nil {
		return err
	}
	payment.Status = "completed"

	return tx.Commit()
}

// GetExpired returns pending unpaid bookings created before the cutoff.
// The sweeper cancels them through the normal cancellation path.
func (r *BookingRepository) GetExpired(ctx context.Context, before time.Time) ([]models.Booking, error) {
	query := `SELECT ` + bookingColumns + `
		FROM bookings
		WHERE booking_status = 'pending' AND payment_status = 'unpaid' AND booking_date < $1
		ORDER BY booking_date`

	rows, err := r.db.QueryContext(ctx, query, before)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectBookings(rows)
}

// AdminBookingRow joins a booking with its customer and event for the
// back-office listing.
type AdminBookingRow struct {
	models.Booking
	Username  string
	Email     string
	EventName string
	EventDate time.Time
}

// ListAdmin returns all bookings with optional event, status, and free-text
// filters. Search matches the reference, the customer name, and the email.
func (r *BookingRepository) ListAdmin(ctx context.Context, eventID int64, status, search string) ([]AdminBookingRow, error) {
	var args []interface{}
	argIndex := 1

	query := `
		SELECT b.booking_id, b.user_id, b.event_id, b.booking_reference, b.total_tickets,
		       b.total_amount_pence, b.booking_status, b.payment_status, b.adult_photo,
		       b.booking_date, b.cancellation_date, b.cancellation_reason, b.card_last_four,
		       u.username, u.email, e.event_name, e.event_date
		FROM bookings b
		JOIN users u ON u.user_id = b.user_id
		JOIN events e ON e.event_id = b.event_id
		WHERE 1=1`

	if eventID > 0 {
		query += fmt.Sprintf(" AND b.event_id = $%d", argIndex)
		args = append(args, eventID)
		argIndex++
	}
	if status != "" {
		query += fmt.Sprintf(" AND b.booking_status = $%d", argIndex)
		args = append(args, status)
		argIndex++
	}
	if search != "" {
		query += fmt.Sprintf(` AND (b.booking_reference ILIKE $%d OR u.username ILIKE $%d
			OR u.email ILIKE $%d OR u.first_name ILIKE $%d OR u.last_name ILIKE $%d)`,
			argIndex, argIndex, argIndex, argIndex, argIndex)
		args = append(args, "%"+search+"%")
		argIndex++
	}

	query += " ORDER BY b.booking_date DESC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []AdminBookingRow
	for rows.Next() {
		var row AdminBookingRow
		err := rows.Scan(
			&row.ID, &row.UserID, &row.EventID, &row.Reference, &row.TotalTickets,
			&row.TotalAmountPence, &row.BookingStatus, &row.PaymentStatus, &row.AdultPhoto,
			&row.BookingDate, &row.CancellationDate, &row.CancellationReason, &row.CardLastFour,
			&row.Username, &row.Email, &row.EventName, &row.EventDate,
		)
		if err != nil {
			return nil, err
		}
		results = append(results, row)
	}

	return results, rows.Err()
}

func bookingDetailsTx(ctx context.Context, tx *sql.Tx, bookingID int64) ([]models.BookingDetail, error) {
	rows, err := tx.QueryContext(ctx, `
		SELECT detail_id, booking_id, seat_type, ticket_type, quantity, unit_price_pence, subtotal_pence
		FROM booking_details
		WHERE booking_id = $1`, bookingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var details []models.BookingDetail
	for rows.Next() {
		var d models.BookingDetail
		err := rows.Scan(&d.ID, &d.BookingID, &d.SeatType, &d.TicketType,
			&d.Quantity, &d.UnitPricePence, &d.SubtotalPence)
		if err != nil {
			return nil, err
		}
		details = append(details, d)
	}

	return details, rows.Err()
}

func collectBookings(rows *sql.Rows) ([]models.Booking, error) {
	var bookings []models.Booking
	for rows.Next() {
		var b models.Booking
		err := rows.Scan(
			&b.ID, &b.UserID, &b.EventID, &b.Reference, &b.TotalTickets,
			&b.TotalAmountPence, &b.BookingStatus, &b.PaymentStatus, &b.AdultPhoto,
			&b.BookingDate, &b.CancellationDate, &b.CancellationReason, &b.CardLastFour,
		)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}
