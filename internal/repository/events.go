package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"parkgate/internal/database"
	"parkgate/internal/models"

	"github.com/lib/pq"
)

type EventRepository struct {
	db *database.DB
}

func NewEventRepository(db *database.DB) *EventRepository {
	return &EventRepository{db: db}
}

const eventColumns = `event_id, event_name, event_description, event_date, event_time, venue,
	       total_capacity, requires_adult, max_tickets_per_booking, is_active, created_at, updated_at`

func scanEvent(row interface{ Scan(...any) error }) (*models.Event, error) {
	event := &models.Event{}
	err := row.Scan(
		&event.ID,
		&event.Name,
		&event.Description,
		&event.Date,
		&event.TimeOfDay,
		&event.Venue,
		&event.TotalCapacity,
		&event.RequiresAdult,
		&event.MaxTicketsPerBooking,
		&event.IsActive,
		&event.CreatedAt,
		&event.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return event, nil
}

// CreateWithCatalog inserts the event together with its seat allocations and
// price matrix in one transaction, mirroring how events are authored: an
// event without inventory or prices is not sellable and must not exist.
func (r *EventRepository) CreateWithCatalog(ctx context.Context, event *models.Event, seats []models.SeatAllocation, prices []models.PriceEntry) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `
		INSERT INTO events (event_name, event_description, event_date, event_time, venue,
		                    total_capacity, requires_adult, max_tickets_per_booking, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING event_id, created_at, updated_at`

	err = tx.QueryRowContext(ctx, query,
		event.Name,
		event.Description,
		event.Date,
		event.TimeOfDay,
		event.Venue,
		event.TotalCapacity,
		event.RequiresAdult,
		event.MaxTicketsPerBooking,
		event.IsActive,
	).Scan(&event.ID, &event.CreatedAt, &event.UpdatedAt)
	if err != nil {
		return err
	}

	for _, seat := range seats {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO seats (event_id, seat_type, total_seats, available_seats)
			VALUES ($1, $2, $3, $3)`,
			event.ID, seat.SeatType, seat.TotalSeats)
		if err != nil {
			return err
		}
	}

	for _, price := range prices {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO prices (event_id, seat_type, ticket_type, price_pence)
			VALUES ($1, $2, $3, $4)`,
			event.ID, price.SeatType, price.TicketType, price.PricePence)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (r *EventRepository) GetByID(ctx context.Context, id int64) (*models.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE event_id = $1`
	return scanEvent(r.db.QueryRowContext(ctx, query, id))
}

// EventWithAvailability pairs an event with its summed remaining seats.
type EventWithAvailability struct {
	models.Event
	AvailableSeats int `json:"available_seats"`
}

// List returns events with optional name search, date filter, and paging.
// activeOnly hides deactivated events from the public listing; admin views
// pass false.
func (r *EventRepository) List(ctx context.Context, query, date string, activeOnly bool, page, pageSize int) ([]EventWithAvailability, error) {
	var args []interface{}
	argIndex := 1

	sqlQuery := `
		SELECT ` + eventColumns + `,
		       COALESCE((SELECT SUM(available_seats) FROM seats s WHERE s.event_id = events.event_id), 0)
		FROM events
		WHERE 1=1`

	if activeOnly {
		sqlQuery += " AND is_active = TRUE"
	}

	if query != "" {
		sqlQuery += fmt.Sprintf(" AND (event_name ILIKE $%d OR event_description ILIKE $%d)", argIndex, argIndex)
		args = append(args, "%"+query+"%")
		argIndex++
	}

	if date != "" {
		sqlQuery += fmt.Sprintf(" AND event_date = $%d", argIndex)
		args = append(args, date)
		argIndex++
	}

	sqlQuery += " ORDER BY event_date ASC, event_time ASC"

	if page > 0 && pageSize > 0 {
		offset := (page - 1) * pageSize
		sqlQuery += fmt.Sprintf(" LIMIT $%d OFFSET $%d", argIndex, argIndex+1)
		args = append(args, pageSize, offset)
	}

	rows, err := r.db.QueryContext(ctx, sqlQuery, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []EventWithAvailability
	for rows.Next() {
		var ev EventWithAvailability
		err := rows.Scan(
			&ev.ID,
			&ev.Name,
			&ev.Description,
			&ev.Date,
			&ev.TimeOfDay,
			&ev.Venue,
			&ev.TotalCapacity,
			&ev.RequiresAdult,
			&ev.MaxTicketsPerBooking,
			&ev.IsActive,
			&ev.CreatedAt,
			&ev.UpdatedAt,
			&ev.AvailableSeats,
		)
		if err != nil {
			return nil, err
		}
		events = append(events, ev)
	}

	return events, rows.Err()
}

// ListByIDs loads events with availability for the given IDs, preserving
// the input order. Used to hydrate search results from the live tables.
func (r *EventRepository) ListByIDs(ctx context.Context, ids []int64) ([]EventWithAvailability, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	query := `
		SELECT ` + eventColumns + `,
		       COALESCE((SELECT SUM(available_seats) FROM seats s WHERE s.event_id = events.event_id), 0)
		FROM events
		WHERE event_id = ANY($1)`

	rows, err := r.db.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	byID := make(map[int64]EventWithAvailability, len(ids))
	for rows.Next() {
		var ev EventWithAvailability
		err := rows.Scan(
			&ev.ID,
			&ev.Name,
			&ev.Description,
			&ev.Date,
			&ev.TimeOfDay,
			&ev.Venue,
			&ev.TotalCapacity,
			&ev.RequiresAdult,
			&ev.MaxTicketsPerBooking,
			&ev.IsActive,
			&ev.CreatedAt,
			&ev.UpdatedAt,
			&ev.AvailableSeats,
		)
		if err != nil {
			return nil, err
		}
		byID[ev.ID] = ev
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	events := make([]EventWithAvailability, 0, len(byID))
	for _, id := range ids {
		if ev, ok := byID[id]; ok {
			events = append(events, ev)
		}
	}
	return events, nil
}

// UpdateWithPrices edits the event fields and, when prices are supplied,
// overwrites the matching price cells, all in one transaction. Seat totals
// are fixed at creation and never touched here.
func (r *EventRepository) UpdateWithPrices(ctx context.Context, event *models.Event, prices []models.PriceEntry) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	event.UpdatedAt = time.Now()

	_, err = tx.ExecContext(ctx, `
		UPDATE events
		SET event_name = $1, event_description = $2, event_date = $3, event_time = $4,
		    venue = $5, requires_adult = $6, max_tickets_per_booking = $7, is_active = $8,
		    updated_at = $9
		WHERE event_id = $10`,
		event.Name,
		event.Description,
		event.Date,
		event.TimeOfDay,
		event.Venue,
		event.RequiresAdult,
		event.MaxTicketsPerBooking,
		event.IsActive,
		event.UpdatedAt,
		event.ID,
	)
	if err != nil {
		return err
	}

	for _, price := range prices {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO prices (event_id, seat_type, ticket_type, price_pence)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (event_id, seat_type, ticket_type)
			DO UPDATE SET price_pence = EXCLUDED.price_pence`,
			event.ID, price.SeatType, price.TicketType, price.PricePence)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (r *EventRepository) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM events WHERE event_id = $1`, id)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	return affected > 0, err
}

// CountActiveBookings returns the number of non-cancelled bookings against
// the event. Events with active bookings cannot be deleted.
func (r *EventRepository) CountActiveBookings(ctx context.Context, eventID int64) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM bookings WHERE event_id = $1 AND booking_status <> 'cancelled'`
	err := r.db.QueryRowContext(ctx, query, eventID).Scan(&count)
	return count, err
}

// GetPrices returns the full price matrix for an event.
func (r *EventRepository) GetPrices(ctx context.Context, eventID int64) ([]models.PriceEntry, error) {
	query := `
		SELECT event_id, seat_type, ticket_type, price_pence
		FROM prices
		WHERE event_id = $1
		ORDER BY seat_type DESC, ticket_type`

	rows, err := r.db.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var prices []models.PriceEntry
	for rows.Next() {
		var price models.PriceEntry
		err := rows.Scan(&price.EventID, &price.SeatType, &price.TicketType, &price.PricePence)
		if err != nil {
			return nil, err
		}
		prices = append(prices, price)
	}

	return prices, rows.Err()
}
