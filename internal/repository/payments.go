package repository

import (
	"context"

	"parkgate/internal/database"
	"parkgate/internal/models"
)

// PaymentRepository reads the payment ledger. Ledger rows are written only
// inside the booking transactions (capture and refund); there is no update
// or delete path.
type PaymentRepository struct {
	db *database.DB
}

func NewPaymentRepository(db *database.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

func (r *PaymentRepository) ListByBooking(ctx context.Context, bookingID int64) ([]models.Payment, error) {
	query := `
		SELECT payment_id, booking_id, amount_pence, payment_method, card_last_four,
		       transaction_id, payment_status, payment_date
		FROM payments
		WHERE booking_id = $1
		ORDER BY payment_date`

	rows, err := r.db.QueryContext(ctx, query, bookingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var payments []models.Payment
	for rows.Next() {
		var p models.Payment
		err := rows.Scan(&p.ID, &p.BookingID, &p.AmountPence, &p.Method,
			&p.CardLastFour, &p.TransactionID, &p.Status, &p.PaymentDate)
		if err != nil {
			return nil, err
		}
		payments = append(payments, p)
	}

	return payments, rows.Err()
}

// RevenueSummary aggregates across confirmed bookings for the back office.
type RevenueSummary struct {
	TotalRevenuePence int64
	TotalTickets      int
}

// Revenue sums takings and tickets over confirmed bookings, optionally
// scoped to one event.
func (r *PaymentRepository) Revenue(ctx context.Context, eventID int64) (*RevenueSummary, error) {
	query := `
		SELECT COALESCE(SUM(total_amount_pence), 0), COALESCE(SUM(total_tickets), 0)
		FROM bookings
		WHERE booking_status = 'confirmed'`

	var args []interface{}
	if eventID > 0 {
		query += " AND event_id = $1"
		args = append(args, eventID)
	}

	summary := &RevenueSummary{}
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&summary.TotalRevenuePence, &summary.TotalTickets)
	if err != nil {
		return nil, err
	}
	return summary, nil
}
