package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"parkgate/internal/apperr"
	"parkgate/internal/cache"
	"parkgate/internal/gateway"
	"parkgate/internal/logger"
	"parkgate/internal/messaging"
	"parkgate/internal/metrics"
	"parkgate/internal/models"
	"parkgate/internal/repository"
)

// referenceRetries bounds regeneration after a booking reference collision.
// Collisions are vanishingly rare; the bound exists so a broken random
// source cannot loop forever.
const referenceRetries = 3

// BookingService owns the booking lifecycle: creation with an atomic seat
// hold, time-banded cancellation, and expiry of unpaid holds.
type BookingService struct {
	repos     *repository.Repositories
	nats      *messaging.NATSClient
	cache     *cache.Client
	processor *gateway.CardProcessor
	now       func() time.Time
}

func NewBookingService(repos *repository.Repositories, nats *messaging.NATSClient,
	cacheClient *cache.Client, processor *gateway.CardProcessor) *BookingService {
	return &BookingService{
		repos:     repos,
		nats:      nats,
		cache:     cacheClient,
		processor: processor,
		now:       time.Now,
	}
}

// BookingWithEvent pairs a booking with its event and detail lines for
// presentation.
type BookingWithEvent struct {
	Booking models.Booking
	Event   models.Event
}

// Create validates the request, prices it, and writes the booking with its
// seats held in one transaction. The booking starts pending and unpaid; the
// customer has the configured payment window before the sweeper reclaims the
// seats.
func (s *BookingService) Create(ctx context.Context, userID int64, req *models.CreateBookingRequest) (*models.Booking, error) {
	log := logger.WithContext(ctx)

	event, err := s.repos.Events.GetByID(ctx, req.EventID)
	if err != nil {
		return nil, apperr.Persistence("load event", err)
	}
	if event == nil || !event.IsActive {
		return nil, apperr.ErrNotFound
	}
	if !event.StartsAt().After(s.now()) {
		return nil, apperr.Validation("event_id", "this event has already taken place")
	}

	priceRows, err := s.repos.Events.GetPrices(ctx, event.ID)
	if err != nil {
		return nil, apperr.Persistence("load prices", err)
	}

	plan, err := BuildBookingPlan(event, models.BuildPriceMatrix(priceRows), req)
	if err != nil {
		return nil, err
	}

	booking := &models.Booking{
		UserID:           userID,
		EventID:          event.ID,
		TotalTickets:     plan.TotalTickets,
		TotalAmountPence: plan.TotalPence,
		BookingStatus:    models.BookingPending,
		PaymentStatus:    models.PaymentUnpaid,
		AdultPhoto:       req.AdultPhoto,
		Details:          plan.Details,
	}

	for attempt := 0; ; attempt++ {
		booking.Reference, err = NewReference(s.now())
		if err != nil {
			return nil, err
		}

		err = s.repos.Bookings.CreateWithDetails(ctx, booking)
		if err == nil {
			break
		}
		if errors.Is(err, repository.ErrDuplicate) && attempt < referenceRetries {
			log.Warn("Booking reference collision, regenerating", "reference", booking.Reference)
			continue
		}
		if errors.Is(err, repository.ErrSeatTypeUnavailable) {
			return nil, apperr.Validation("seat_type", "the selected seat type is not sold for this event")
		}
		if errors.Is(err, apperr.ErrInsufficientSeats) {
			metrics.SeatConflicts.Inc()
			return nil, err
		}
		return nil, apperr.Persistence("create booking", err)
	}

	metrics.BookingsCreated.Inc()
	s.invalidateListings(ctx)

	if err := s.nats.Publish(models.EventBookingCreated, models.BookingCreatedEvent{
		BookingID:   booking.ID,
		EventID:     booking.EventID,
		UserID:      booking.UserID,
		Reference:   booking.Reference,
		TotalPence:  booking.TotalAmountPence,
		SeatType:    req.SeatType,
		TicketCount: booking.TotalTickets,
		Timestamp:   booking.BookingDate,
	}); err != nil {
		log.Warn("Failed to publish booking created event", "error", err, "booking_id", booking.ID)
	}

	log.Info("Booking created",
		"booking_id", booking.ID,
		"reference", booking.Reference,
		"event_id", booking.EventID,
		"tickets", booking.TotalTickets,
		"amount", models.FormatPence(booking.TotalAmountPence))

	return booking, nil
}

// List returns the user's bookings, newest first, with their events and
// detail lines attached.
func (s *BookingService) List(ctx context.Context, userID int64) ([]BookingWithEvent, error) {
	bookings, err := s.repos.Bookings.ListByUser(ctx, userID)
	if err != nil {
		return nil, apperr.Persistence("list bookings", err)
	}

	eventsByID := make(map[int64]*models.Event)
	results := make([]BookingWithEvent, 0, len(bookings))
	for _, b := range bookings {
		event, ok := eventsByID[b.EventID]
		if !ok {
			event, err = s.repos.Events.GetByID(ctx, b.EventID)
			if err != nil {
				return nil, apperr.Persistence("load event", err)
			}
			eventsByID[b.EventID] = event
		}
		if event == nil {
			continue
		}

		b.Details, err = s.repos.Bookings.GetDetails(ctx, b.ID)
		if err != nil {
			return nil, apperr.Persistence("load booking details", err)
		}

		results = append(results, BookingWithEvent{Booking: b, Event: *event})
	}

	return results, nil
}

// Get returns one booking with its event. A booking belonging to another
// user is reported as missing, not as forbidden.
func (s *BookingService) Get(ctx context.Context, userID, bookingID int64) (*BookingWithEvent, error) {
	booking, err := s.repos.Bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, apperr.Persistence("load booking", err)
	}
	if booking == nil || booking.UserID != userID {
		return nil, apperr.ErrNotFound
	}

	booking.Details, err = s.repos.Bookings.GetDetails(ctx, booking.ID)
	if err != nil {
		return nil, apperr.Persistence("load booking details", err)
	}

	event, err := s.repos.Events.GetByID(ctx, booking.EventID)
	if err != nil {
		return nil, apperr.Persistence("load event", err)
	}
	if event == nil {
		return nil, apperr.ErrNotFound
	}

	return &BookingWithEvent{Booking: *booking, Event: *event}, nil
}

// CancelOutcome reports what the cancellation did, including the refund
// actually issued under the time-banded policy.
type CancelOutcome struct {
	BookingID        int64
	PaymentStatus    string
	RefundPercentage int
	RefundPence      int64
}

// Cancel cancels the user's booking, restores its seats, and refunds
// according to time remaining before the event: 100% at 24 hours or more,
// 50% at 12, nothing inside that. Unpaid bookings cancel with no refund
// movement.
func (s *BookingService) Cancel(ctx context.Context, userID, bookingID int64, reason string) (*CancelOutcome, error) {
	log := logger.WithContext(ctx)

	booking, err := s.repos.Bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, apperr.Persistence("load booking", err)
	}
	if booking == nil || booking.UserID != userID {
		return nil, apperr.ErrNotFound
	}
	if booking.BookingStatus == models.BookingCancelled {
		return nil, apperr.ErrConflict
	}

	event, err := s.repos.Events.GetByID(ctx, booking.EventID)
	if err != nil {
		return nil, apperr.Persistence("load event", err)
	}
	if event == nil {
		return nil, apperr.ErrNotFound
	}

	now := s.now()
	start := event.StartsAt()
	if !start.After(now) {
		return nil, apperr.Validation("", "bookings cannot be cancelled once the event has started")
	}

	// The refund entitlement is quoted inside the cancellation transaction,
	// against the payment status seen under the row lock. A capture that
	// commits between the read above and the lock is still quoted.
	percentage := 0
	quote := func(totalPence int64) (int64, string) {
		percentage = RefundPercentage(s.now(), start)
		return RefundAmount(totalPence, percentage), s.processor.RefundTransactionID()
	}

	result, err := s.repos.Bookings.Cancel(ctx, bookingID, reason, quote)
	if err != nil {
		if errors.Is(err, repository.ErrStateConflict) {
			return nil, apperr.ErrConflict
		}
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.ErrNotFound
		}
		return nil, apperr.Persistence("cancel booking", err)
	}

	metrics.BookingsCancelled.WithLabelValues("user").Inc()
	if result.RefundPence > 0 {
		metrics.RefundsIssuedPence.Add(float64(result.RefundPence))
	}
	s.invalidateListings(ctx)

	if err := s.nats.Publish(models.EventBookingCancelled, models.BookingCancelledEvent{
		BookingID:   booking.ID,
		EventID:     booking.EventID,
		UserID:      booking.UserID,
		Reason:      reason,
		RefundPence: result.RefundPence,
		Timestamp:   now,
	}); err != nil {
		log.Warn("Failed to publish booking cancelled event", "error", err, "booking_id", booking.ID)
	}
	if result.RefundPence > 0 {
		if err := s.nats.Publish(models.EventRefundIssued, models.RefundIssuedEvent{
			BookingID:     booking.ID,
			TransactionID: result.RefundTxnID,
			AmountPence:   -result.RefundPence,
			Timestamp:     now,
		}); err != nil {
			log.Warn("Failed to publish refund issued event", "error", err, "booking_id", booking.ID)
		}
	}

	paymentStatus := booking.PaymentStatus
	if result.WasPaid {
		paymentStatus = models.PaymentPaid
	}
	if result.RefundPence > 0 {
		paymentStatus = models.PaymentRefunded
	}
	outcome := &CancelOutcome{
		BookingID:        booking.ID,
		PaymentStatus:    paymentStatus,
		RefundPercentage: percentage,
		RefundPence:      result.RefundPence,
	}

	log.Info("Booking cancelled",
		"booking_id", booking.ID,
		"reference", booking.Reference,
		"refund_percentage", percentage,
		"refund", models.FormatPence(result.RefundPence))

	return outcome, nil
}

// ExpireStale cancels pending unpaid bookings older than the payment window
// and releases their seats. Returns how many bookings were expired.
func (s *BookingService) ExpireStale(ctx context.Context, window time.Duration) (int, error) {
	log := logger.WithContext(ctx)
	cutoff := s.now().Add(-window)

	stale, err := s.repos.Bookings.GetExpired(ctx, cutoff)
	if err != nil {
		return 0, apperr.Persistence("load expired bookings", err)
	}

	expired := 0
	for _, booking := range stale {
		err := s.repos.Bookings.CancelExpired(ctx, booking.ID, "payment window expired")
		if err != nil {
			// Raced with a capture or a user cancel; nothing to reclaim.
			if errors.Is(err, repository.ErrStateConflict) {
				continue
			}
			log.Error("Failed to expire booking", "error", err, "booking_id", booking.ID)
			continue
		}

		expired++
		metrics.BookingsCancelled.WithLabelValues("sweeper").Inc()

		if err := s.nats.Publish(models.EventBookingExpired, models.BookingExpiredEvent{
			BookingID: booking.ID,
			EventID:   booking.EventID,
			UserID:    booking.UserID,
			Reason:    "payment window expired",
			Timestamp: s.now(),
		}); err != nil {
			log.Warn("Failed to publish booking expired event", "error", err, "booking_id", booking.ID)
		}
	}

	if expired > 0 {
		s.invalidateListings(ctx)
		log.Info("Expired stale bookings", "count", expired, "cutoff", cutoff)
	}

	return expired, nil
}

func (s *BookingService) invalidateListings(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateEventLists(ctx); err != nil {
		logger.WithContext(ctx).Warn("Failed to invalidate event listing cache", "error", err)
	}
}
