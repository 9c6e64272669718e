package service

import (
	"context"
	"errors"
	"time"

	"parkgate/internal/apperr"
	"parkgate/internal/gateway"
	"parkgate/internal/logger"
	"parkgate/internal/messaging"
	"parkgate/internal/metrics"
	"parkgate/internal/models"
	"parkgate/internal/repository"
)

// PaymentService captures simulated card payments against pending bookings
// and exposes the payment ledger.
type PaymentService struct {
	repos     *repository.Repositories
	nats      *messaging.NATSClient
	processor *gateway.CardProcessor
	now       func() time.Time
}

func NewPaymentService(repos *repository.Repositories, nats *messaging.NATSClient,
	processor *gateway.CardProcessor) *PaymentService {
	return &PaymentService{
		repos:     repos,
		nats:      nats,
		processor: processor,
		now:       time.Now,
	}
}

// Capture validates the card, charges the booking total, and confirms the
// booking. The amount is always the booking total; partial payment is not a
// thing here.
func (s *PaymentService) Capture(ctx context.Context, userID, bookingID int64, req *models.CapturePaymentRequest) (*models.Payment, error) {
	log := logger.WithContext(ctx)

	booking, err := s.repos.Bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, apperr.Persistence("load booking", err)
	}
	if booking == nil || booking.UserID != userID {
		return nil, apperr.ErrNotFound
	}
	if booking.BookingStatus != models.BookingPending || booking.PaymentStatus != models.PaymentUnpaid {
		return nil, apperr.ErrConflict
	}

	charge, err := s.processor.Charge(req.CardName, req.CardNumber, req.ExpiryDate, req.CVV)
	if err != nil {
		return nil, err
	}

	payment := &models.Payment{
		BookingID:     booking.ID,
		AmountPence:   booking.TotalAmountPence,
		Method:        "card",
		CardLastFour:  &charge.CardLastFour,
		TransactionID: charge.TransactionID,
	}

	if err := s.repos.Bookings.CapturePayment(ctx, payment); err != nil {
		if errors.Is(err, repository.ErrStateConflict) {
			return nil, apperr.ErrConflict
		}
		return nil, apperr.Persistence("capture payment", err)
	}

	metrics.PaymentsCaptured.Inc()

	if err := s.nats.Publish(models.EventPaymentCaptured, models.PaymentCapturedEvent{
		BookingID:     booking.ID,
		TransactionID: payment.TransactionID,
		AmountPence:   payment.AmountPence,
		Timestamp:     s.now(),
	}); err != nil {
		log.Warn("Failed to publish payment captured event", "error", err, "booking_id", booking.ID)
	}

	log.Info("Payment captured",
		"booking_id", booking.ID,
		"transaction_id", payment.TransactionID,
		"amount", models.FormatPence(payment.AmountPence))

	return payment, nil
}

// ListForBooking returns the payment ledger for one of the user's bookings.
func (s *PaymentService) ListForBooking(ctx context.Context, userID, bookingID int64) ([]models.Payment, error) {
	booking, err := s.repos.Bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, apperr.Persistence("load booking", err)
	}
	if booking == nil || booking.UserID != userID {
		return nil, apperr.ErrNotFound
	}

	payments, err := s.repos.Payments.ListByBooking(ctx, bookingID)
	if err != nil {
		return nil, apperr.Persistence("list payments", err)
	}
	return payments, nil
}

// AdminReport returns the filtered bookings report with revenue aggregates.
// Revenue counts confirmed bookings only.
func (s *PaymentService) AdminReport(ctx context.Context, eventID int64, status, search string) ([]repository.AdminBookingRow, *repository.RevenueSummary, error) {
	rows, err := s.repos.Bookings.ListAdmin(ctx, eventID, status, search)
	if err != nil {
		return nil, nil, apperr.Persistence("list bookings", err)
	}

	summary, err := s.repos.Payments.Revenue(ctx, eventID)
	if err != nil {
		return nil, nil, apperr.Persistence("load revenue", err)
	}

	return rows, summary, nil
}
