package repository

import (
	"context"
	"database/sql"

	"parkgate/internal/apperr"
	"parkgate/internal/database"
	"parkgate/internal/models"
)

type SeatRepository struct {
	db *database.DB
}

func NewSeatRepository(db *database.DB) *SeatRepository {
	return &SeatRepository{db: db}
}

func (r *SeatRepository) GetForEvent(ctx context.Context, eventID int64) ([]models.SeatAllocation, error) {
	query := `
		SELECT event_id, seat_type, total_seats, available_seats
		FROM seats
		WHERE event_id = $1
		ORDER BY seat_type DESC`

	rows, err := r.db.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var seats []models.SeatAllocation
	for rows.Next() {
		var seat models.SeatAllocation
		err := rows.Scan(&seat.EventID, &seat.SeatType, &seat.TotalSeats, &seat.AvailableSeats)
		if err != nil {
			return nil, err
		}
		seats = append(seats, seat)
	}

	return seats, rows.Err()
}

func (r *SeatRepository) Get(ctx context.Context, eventID int64, seatType string) (*models.SeatAllocation, error) {
	seat := &models.SeatAllocation{}
	query := `
		SELECT event_id, seat_type, total_seats, available_seats
		FROM seats
		WHERE event_id = $1 AND seat_type = $2`

	err := r.db.QueryRowContext(ctx, query, eventID, seatType).Scan(
		&seat.EventID, &seat.SeatType, &seat.TotalSeats, &seat.AvailableSeats)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return seat, nil
}

// reserveSeats performs the atomic check-and-decrement inside the caller's
// transaction. The availability check and the write are one statement, so
// two concurrent reservations for the last seats cannot both pass: the
// loser's update affects zero rows.
func reserveSeats(ctx context.Context, tx *sql.Tx, eventID int64, seatType string, quantity int) error {
	res, err := tx.ExecContext(ctx, `
		UPDATE seats
		SET available_seats = available_seats - $3
		WHERE event_id = $1 AND seat_type = $2 AND available_seats >= $3`,
		eventID, seatType, quantity)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected > 0 {
		return nil
	}

	// Zero rows: either the allocation row does not exist at all, or it has
	// too few seats left. The two are different errors to the caller.
	var exists bool
	err = tx.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM seats WHERE event_id = $1 AND seat_type = $2)`,
		eventID, seatType).Scan(&exists)
	if err != nil {
		return err
	}
	if !exists {
		return ErrSeatTypeUnavailable
	}
	return apperr.ErrInsufficientSeats
}

// releaseSeats restores quantity seats inside the caller's transaction.
// Quantities always correspond to a prior successful reserve for the same
// row, so no upper-bound re-check is made here; the table CHECK constraint
// still backstops the invariant.
func releaseSeats(ctx context.Context, tx *sql.Tx, eventID int64, seatType string, quantity int) error {
	_, err := tx.ExecContext(ctx, `
		UPDATE seats
		SET available_seats = available_seats + $3
		WHERE event_id = $1 AND seat_type = $2`,
		eventID, seatType, quantity)
	return err
}
