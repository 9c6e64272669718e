package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"parkgate/internal/apperr"
	"parkgate/internal/database"
	"parkgate/internal/models"
)

// These tests run against a real Postgres instance and are skipped when
// TEST_DATABASE_URL is not set. They cover the transactional guarantees the
// seat ledger depends on: no overselling under concurrency, release on
// cancel, and no double release.

func testDB(t *testing.T) *database.DB {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set; skipping database tests")
	}

	sqlDB, err := sql.Open("postgres", dsn)
	require.NoError(t, err)
	require.NoError(t, sqlDB.Ping())

	db := &database.DB{DB: sqlDB}
	require.NoError(t, db.RunMigrations())
	t.Cleanup(func() { db.Close() })
	return db
}

var testSeq atomic.Int64

func testTag() string {
	return fmt.Sprintf("%d-%d", time.Now().UnixNano()%1e9, testSeq.Add(1))
}

func testReference() string {
	return fmt.Sprintf("T%011d%07d", time.Now().UnixNano()%1e11, testSeq.Add(1))
}

func seedCustomer(t *testing.T, repos *Repositories) *models.User {
	t.Helper()
	tag := testTag()
	user := &models.User{
		Username:     "customer-" + tag,
		Email:        "customer-" + tag + "@example.test",
		PasswordHash: "x",
		FirstName:    "Test",
		LastName:     "Customer",
		Role:         models.RoleCustomer,
	}
	require.NoError(t, repos.Users.Create(context.Background(), user))
	return user
}

func seedEvent(t *testing.T, repos *Repositories, availableSeats int) *models.Event {
	t.Helper()
	event := &models.Event{
		Name:                 "Ledger Test " + testTag(),
		Date:                 time.Now().AddDate(0, 0, 7),
		TimeOfDay:            "19:00:00",
		Venue:                "Test Pavilion",
		TotalCapacity:        availableSeats,
		MaxTicketsPerBooking: 8,
		IsActive:             true,
	}
	seats := []models.SeatAllocation{{
		SeatType:       models.SeatWithoutTable,
		TotalSeats:     availableSeats,
		AvailableSeats: availableSeats,
	}}
	prices := []models.PriceEntry{{
		SeatType:   models.SeatWithoutTable,
		TicketType: models.TicketAdult,
		PricePence: 2500,
	}}
	require.NoError(t, repos.Events.CreateWithCatalog(context.Background(), event, seats, prices))
	return event
}

func createTestBooking(t *testing.T, repos *Repositories, userID, eventID int64, quantity int) *models.Booking {
	t.Helper()
	booking := &models.Booking{
		UserID:           userID,
		EventID:          eventID,
		Reference:        testReference(),
		TotalTickets:     quantity,
		TotalAmountPence: int64(quantity) * 2500,
		BookingStatus:    models.BookingPending,
		PaymentStatus:    models.PaymentUnpaid,
		Details: []models.BookingDetail{{
			SeatType:       models.SeatWithoutTable,
			TicketType:     models.TicketAdult,
			Quantity:       quantity,
			UnitPricePence: 2500,
			SubtotalPence:  int64(quantity) * 2500,
		}},
	}
	require.NoError(t, repos.Bookings.CreateWithDetails(context.Background(), booking))
	return booking
}

func capturePayment(t *testing.T, repos *Repositories, booking *models.Booking) {
	t.Helper()
	lastFour := "4242"
	payment := &models.Payment{
		BookingID:     booking.ID,
		AmountPence:   booking.TotalAmountPence,
		Method:        "card",
		CardLastFour:  &lastFour,
		TransactionID: "TXN-" + testReference(),
	}
	require.NoError(t, repos.Bookings.CapturePayment(context.Background(), payment))
}

// availableSeats reads the live counter for the event's standard tier.
func availableSeats(t *testing.T, repos *Repositories, eventID int64) int {
	t.Helper()
	seat, err := repos.Seats.Get(context.Background(), eventID, models.SeatWithoutTable)
	require.NoError(t, err)
	require.NotNil(t, seat)
	return seat.AvailableSeats
}

// assertLedgerInvariant checks that the available counter plus the tickets
// held by non-cancelled bookings equals the tier's total.
func assertLedgerInvariant(t *testing.T, db *database.DB, repos *Repositories, eventID int64) {
	t.Helper()

	seat, err := repos.Seats.Get(context.Background(), eventID, models.SeatWithoutTable)
	require.NoError(t, err)
	require.NotNil(t, seat)

	var held int
	err = db.QueryRowContext(context.Background(), `
		SELECT COALESCE(SUM(bd.quantity), 0)
		FROM booking_details bd
		JOIN bookings b ON b.booking_id = bd.booking_id
		WHERE b.event_id = $1 AND bd.seat_type = $2 AND b.booking_status <> 'cancelled'`,
		eventID, models.SeatWithoutTable).Scan(&held)
	require.NoError(t, err)

	assert.Equal(t, seat.TotalSeats, seat.AvailableSeats+held,
		"available_seats + held tickets must equal total_seats")
}

func TestCreateWithDetails_ConcurrentExhaustion(t *testing.T) {
	db := testDB(t)
	repos := NewRepositories(db)

	const seats = 3
	const attempts = 8

	user := seedCustomer(t, repos)
	event := seedEvent(t, repos, seats)

	var wg sync.WaitGroup
	errs := make([]error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			booking := &models.Booking{
				UserID:           user.UserID,
				EventID:          event.ID,
				Reference:        testReference(),
				TotalTickets:     1,
				TotalAmountPence: 2500,
				BookingStatus:    models.BookingPending,
				PaymentStatus:    models.PaymentUnpaid,
				Details: []models.BookingDetail{{
					SeatType:       models.SeatWithoutTable,
					TicketType:     models.TicketAdult,
					Quantity:       1,
					UnitPricePence: 2500,
					SubtotalPence:  2500,
				}},
			}
			errs[i] = repos.Bookings.CreateWithDetails(context.Background(), booking)
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.ErrorIs(t, err, apperr.ErrInsufficientSeats)
	}

	assert.Equal(t, seats, succeeded, "exactly one booking per available seat must succeed")
	assert.Equal(t, 0, availableSeats(t, repos, event.ID))
	assertLedgerInvariant(t, db, repos, event.ID)
}

func TestCancel_RestoresSeatsOnce(t *testing.T) {
	db := testDB(t)
	repos := NewRepositories(db)

	user := seedCustomer(t, repos)
	event := seedEvent(t, repos, 5)
	booking := createTestBooking(t, repos, user.UserID, event.ID, 2)

	assert.Equal(t, 3, availableSeats(t, repos, event.ID))
	assertLedgerInvariant(t, db, repos, event.ID)

	result, err := repos.Bookings.Cancel(context.Background(), booking.ID, "change of plans", nil)
	require.NoError(t, err)
	assert.False(t, result.WasPaid)
	assert.Equal(t, 5, availableSeats(t, repos, event.ID))
	assertLedgerInvariant(t, db, repos, event.ID)

	// A second cancel must fail without touching the ledger.
	_, err = repos.Bookings.Cancel(context.Background(), booking.ID, "again", nil)
	assert.ErrorIs(t, err, ErrStateConflict)
	assert.Equal(t, 5, availableSeats(t, repos, event.ID))
	assertLedgerInvariant(t, db, repos, event.ID)
}

func TestCancel_QuotesPaymentSeenUnderLock(t *testing.T) {
	db := testDB(t)
	repos := NewRepositories(db)

	user := seedCustomer(t, repos)
	event := seedEvent(t, repos, 5)
	booking := createTestBooking(t, repos, user.UserID, event.ID, 2)

	// Capture commits after the booking was last read by the caller; the
	// quote must still see the paid row and price the refund.
	capturePayment(t, repos, booking)

	refundTxnID := "REF-" + testReference()
	result, err := repos.Bookings.Cancel(context.Background(), booking.ID, "cancelled after paying",
		func(totalPence int64) (int64, string) {
			return totalPence, refundTxnID
		})
	require.NoError(t, err)
	assert.True(t, result.WasPaid)
	assert.Equal(t, booking.TotalAmountPence, result.RefundPence)

	updated, err := repos.Bookings.GetByID(context.Background(), booking.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BookingCancelled, updated.BookingStatus)
	assert.Equal(t, models.PaymentRefunded, updated.PaymentStatus)

	payments, err := repos.Payments.ListByBooking(context.Background(), booking.ID)
	require.NoError(t, err)
	require.Len(t, payments, 2)

	var refund *models.Payment
	for i := range payments {
		if payments[i].TransactionID == refundTxnID {
			refund = &payments[i]
		}
	}
	require.NotNil(t, refund, "refund row must be appended to the ledger")
	assert.Equal(t, -booking.TotalAmountPence, refund.AmountPence)

	assert.Equal(t, 5, availableSeats(t, repos, event.ID))
	assertLedgerInvariant(t, db, repos, event.ID)
}

func TestCancel_ZeroQuoteRetainsPayment(t *testing.T) {
	db := testDB(t)
	repos := NewRepositories(db)

	user := seedCustomer(t, repos)
	event := seedEvent(t, repos, 5)
	booking := createTestBooking(t, repos, user.UserID, event.ID, 1)
	capturePayment(t, repos, booking)

	result, err := repos.Bookings.Cancel(context.Background(), booking.ID, "too late for a refund",
		func(totalPence int64) (int64, string) {
			return 0, ""
		})
	require.NoError(t, err)
	assert.True(t, result.WasPaid)
	assert.Zero(t, result.RefundPence)

	updated, err := repos.Bookings.GetByID(context.Background(), booking.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BookingCancelled, updated.BookingStatus)
	assert.Equal(t, models.PaymentPaid, updated.PaymentStatus)

	payments, err := repos.Payments.ListByBooking(context.Background(), booking.ID)
	require.NoError(t, err)
	assert.Len(t, payments, 1, "no refund row for a zero quote")
}

func TestCancelExpired_RefusesPaidBooking(t *testing.T) {
	db := testDB(t)
	repos := NewRepositories(db)

	user := seedCustomer(t, repos)
	event := seedEvent(t, repos, 5)
	booking := createTestBooking(t, repos, user.UserID, event.ID, 2)

	// The customer pays after the sweeper selected the booking as stale.
	capturePayment(t, repos, booking)

	err := repos.Bookings.CancelExpired(context.Background(), booking.ID, "payment window expired")
	assert.ErrorIs(t, err, ErrStateConflict)

	updated, err := repos.Bookings.GetByID(context.Background(), booking.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BookingConfirmed, updated.BookingStatus)
	assert.Equal(t, models.PaymentPaid, updated.PaymentStatus)
	assert.Equal(t, 3, availableSeats(t, repos, event.ID))
	assertLedgerInvariant(t, db, repos, event.ID)
}

func TestCancelExpired_ReleasesUnpaidBooking(t *testing.T) {
	db := testDB(t)
	repos := NewRepositories(db)

	user := seedCustomer(t, repos)
	event := seedEvent(t, repos, 5)
	booking := createTestBooking(t, repos, user.UserID, event.ID, 2)

	err := repos.Bookings.CancelExpired(context.Background(), booking.ID, "payment window expired")
	require.NoError(t, err)

	updated, err := repos.Bookings.GetByID(context.Background(), booking.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BookingCancelled, updated.BookingStatus)
	assert.Equal(t, models.PaymentUnpaid, updated.PaymentStatus)
	assert.Equal(t, 5, availableSeats(t, repos, event.ID))
	assertLedgerInvariant(t, db, repos, event.ID)

	assert.True(t, errors.Is(
		repos.Bookings.CancelExpired(context.Background(), booking.ID, "again"), ErrStateConflict))
}
