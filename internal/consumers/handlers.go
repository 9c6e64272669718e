package consumers

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"parkgate/internal/models"
	"parkgate/internal/repository"
	"parkgate/internal/search"
)

// Handlers processes consumed messages. Booking lifecycle events are logged
// for the audit trail; catalog events refresh the search index from the
// database so the index never lags a write for long.
type Handlers struct {
	repos *repository.Repositories
	es    *search.ElasticsearchClient
}

func NewHandlers(repos *repository.Repositories, es *search.ElasticsearchClient) *Handlers {
	return &Handlers{repos: repos, es: es}
}

func (h *Handlers) HandleBookingCreated(data []byte) {
	var event models.BookingCreatedEvent
	if err := json.Unmarshal(data, &event); err != nil {
		slog.Error("Failed to unmarshal booking created event", "error", err)
		return
	}

	slog.Info("Booking created",
		"booking_id", event.BookingID,
		"reference", event.Reference,
		"event_id", event.EventID,
		"tickets", event.TicketCount,
		"amount", models.FormatPence(event.TotalPence))
}

func (h *Handlers) HandleBookingCancelled(data []byte) {
	var event models.BookingCancelledEvent
	if err := json.Unmarshal(data, &event); err != nil {
		slog.Error("Failed to unmarshal booking cancelled event", "error", err)
		return
	}

	slog.Info("Booking cancelled",
		"booking_id", event.BookingID,
		"event_id", event.EventID,
		"reason", event.Reason,
		"refund", models.FormatPence(event.RefundPence))
}

func (h *Handlers) HandleBookingExpired(data []byte) {
	var event models.BookingExpiredEvent
	if err := json.Unmarshal(data, &event); err != nil {
		slog.Error("Failed to unmarshal booking expired event", "error", err)
		return
	}

	slog.Info("Booking expired",
		"booking_id", event.BookingID,
		"event_id", event.EventID)
}

func (h *Handlers) HandlePaymentCaptured(data []byte) {
	var event models.PaymentCapturedEvent
	if err := json.Unmarshal(data, &event); err != nil {
		slog.Error("Failed to unmarshal payment captured event", "error", err)
		return
	}

	slog.Info("Payment captured",
		"booking_id", event.BookingID,
		"transaction_id", event.TransactionID,
		"amount", models.FormatPence(event.AmountPence))
}

func (h *Handlers) HandleRefundIssued(data []byte) {
	var event models.RefundIssuedEvent
	if err := json.Unmarshal(data, &event); err != nil {
		slog.Error("Failed to unmarshal refund issued event", "error", err)
		return
	}

	slog.Info("Refund issued",
		"booking_id", event.BookingID,
		"transaction_id", event.TransactionID,
		"amount", models.FormatPence(event.AmountPence))
}

// HandleCatalogUpserted reindexes the changed event from the database, or
// drops it from the index when it was deleted.
func (h *Handlers) HandleCatalogUpserted(data []byte) {
	var event models.CatalogUpsertedEvent
	if err := json.Unmarshal(data, &event); err != nil {
		slog.Error("Failed to unmarshal catalog event", "error", err)
		return
	}

	if h.es == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if event.Deleted {
		if err := h.es.DeleteEvent(ctx, event.EventID); err != nil {
			slog.Error("Failed to remove event from index", "error", err, "event_id", event.EventID)
		}
		return
	}

	row, err := h.repos.Events.GetByID(ctx, event.EventID)
	if err != nil || row == nil {
		slog.Error("Failed to load event for indexing", "error", err, "event_id", event.EventID)
		return
	}

	if err := h.es.IndexEvent(ctx, row); err != nil {
		slog.Error("Failed to index event", "error", err, "event_id", event.EventID)
	}
}
