package database

import (
	"fmt"
	"log/slog"
)

func (db *DB) RunMigrations() error {
	slog.Info("Running database migrations...")

	migrations := []string{
		createUsersTable,
		createEventsTable,
		createSeatsTable,
		createPricesTable,
		createBookingsTable,
		createBookingDetailsTable,
		createPaymentsTable,
		createBookingIndexes,
	}

	for i, migration := range migrations {
		slog.Info("Running migration", "step", i+1)
		if _, err := db.Exec(migration); err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}

	slog.Info("All migrations completed successfully")
	return nil
}

const createUsersTable = `
CREATE TABLE IF NOT EXISTS users (
    user_id SERIAL PRIMARY KEY,
    username VARCHAR(50) UNIQUE NOT NULL,
    email VARCHAR(255) UNIQUE NOT NULL,
    password_hash VARCHAR(100) NOT NULL,
    first_name VARCHAR(100) NOT NULL,
    last_name VARCHAR(100) NOT NULL,
    phone VARCHAR(30),
    role VARCHAR(20) NOT NULL DEFAULT 'customer',
    created_at TIMESTAMP NOT NULL DEFAULT NOW(),

    CHECK (role IN ('customer', 'admin'))
);`

const createEventsTable = `
CREATE TABLE IF NOT EXISTS events (
    event_id SERIAL PRIMARY KEY,
    event_name VARCHAR(200) NOT NULL,
    event_description TEXT,
    event_date DATE NOT NULL,
    event_time TIME NOT NULL,
    venue VARCHAR(200) NOT NULL,
    total_capacity INTEGER NOT NULL DEFAULT 0,
    requires_adult BOOLEAN NOT NULL DEFAULT FALSE,
    max_tickets_per_booking INTEGER NOT NULL DEFAULT 8,
    is_active BOOLEAN NOT NULL DEFAULT TRUE,
    created_at TIMESTAMP NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMP NOT NULL DEFAULT NOW()
);`

const createSeatsTable = `
CREATE TABLE IF NOT EXISTS seats (
    event_id INTEGER NOT NULL REFERENCES events(event_id) ON DELETE CASCADE,
    seat_type VARCHAR(20) NOT NULL,
    total_seats INTEGER NOT NULL,
    available_seats INTEGER NOT NULL,

    PRIMARY KEY (event_id, seat_type),
    CHECK (seat_type IN ('without_table', 'with_table')),
    CHECK (available_seats >= 0 AND available_seats <= total_seats)
);`

const createPricesTable = `
CREATE TABLE IF NOT EXISTS prices (
    event_id INTEGER NOT NULL REFERENCES events(event_id) ON DELETE CASCADE,
    seat_type VARCHAR(20) NOT NULL,
    ticket_type VARCHAR(10) NOT NULL,
    price_pence BIGINT NOT NULL DEFAULT 0,

    PRIMARY KEY (event_id, seat_type, ticket_type),
    CHECK (seat_type IN ('without_table', 'with_table')),
    CHECK (ticket_type IN ('adult', 'child', 'senior')),
    CHECK (price_pence >= 0)
);`

const createBookingsTable = `
CREATE TABLE IF NOT EXISTS bookings (
    booking_id SERIAL PRIMARY KEY,
    user_id INTEGER NOT NULL REFERENCES users(user_id),
    event_id INTEGER NOT NULL REFERENCES events(event_id) ON DELETE CASCADE,
    booking_reference VARCHAR(20) UNIQUE NOT NULL,
    total_tickets INTEGER NOT NULL,
    total_amount_pence BIGINT NOT NULL,
    booking_status VARCHAR(20) NOT NULL DEFAULT 'pending',
    payment_status VARCHAR(20) NOT NULL DEFAULT 'unpaid',
    adult_photo VARCHAR(255),
    booking_date TIMESTAMP NOT NULL DEFAULT NOW(),
    cancellation_date TIMESTAMP,
    cancellation_reason TEXT,
    card_last_four VARCHAR(4),

    CHECK (booking_status IN ('pending', 'confirmed', 'cancelled')),
    CHECK (payment_status IN ('unpaid', 'paid', 'refunded'))
);`

const createBookingDetailsTable = `
CREATE TABLE IF NOT EXISTS booking_details (
    detail_id SERIAL PRIMARY KEY,
    booking_id INTEGER NOT NULL REFERENCES bookings(booking_id) ON DELETE CASCADE,
    seat_type VARCHAR(20) NOT NULL,
    ticket_type VARCHAR(10) NOT NULL,
    quantity INTEGER NOT NULL,
    unit_price_pence BIGINT NOT NULL,
    subtotal_pence BIGINT NOT NULL,

    CHECK (quantity > 0)
);`

const createPaymentsTable = `
CREATE TABLE IF NOT EXISTS payments (
    payment_id SERIAL PRIMARY KEY,
    booking_id INTEGER NOT NULL REFERENCES bookings(booking_id) ON DELETE CASCADE,
    amount_pence BIGINT NOT NULL,
    payment_method VARCHAR(30) NOT NULL,
    card_last_four VARCHAR(4),
    transaction_id VARCHAR(64) UNIQUE NOT NULL,
    payment_status VARCHAR(20) NOT NULL DEFAULT 'completed',
    payment_date TIMESTAMP NOT NULL DEFAULT NOW()
);`

const createBookingIndexes = `
CREATE INDEX IF NOT EXISTS bookings_user_idx ON bookings (user_id, booking_date DESC);
CREATE INDEX IF NOT EXISTS bookings_event_idx ON bookings (event_id);
CREATE INDEX IF NOT EXISTS bookings_pending_idx ON bookings (booking_date)
    WHERE booking_status = 'pending' AND payment_status = 'unpaid';
CREATE INDEX IF NOT EXISTS events_date_idx ON events (event_date);`
