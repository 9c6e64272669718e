package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"parkgate/internal/apperr"
	"parkgate/internal/cache"
	"parkgate/internal/logger"
	"parkgate/internal/messaging"
	"parkgate/internal/models"
	"parkgate/internal/repository"
	"parkgate/internal/search"
)

// EventService owns the catalog: the public listing and detail pages, and
// the admin create/update/delete surface. The listing is cached briefly in
// Redis; free-text search goes through Elasticsearch when it is enabled and
// falls back to SQL ILIKE otherwise.
type EventService struct {
	repos *repository.Repositories
	nats  *messaging.NATSClient
	cache *cache.Client
	es    *search.ElasticsearchClient
	now   func() time.Time
}

func NewEventService(repos *repository.Repositories, nats *messaging.NATSClient,
	cacheClient *cache.Client, es *search.ElasticsearchClient) *EventService {
	return &EventService{
		repos: repos,
		nats:  nats,
		cache: cacheClient,
		es:    es,
		now:   time.Now,
	}
}

// List returns active events matching the optional query and date filters.
func (s *EventService) List(ctx context.Context, query, date string, page, pageSize int) ([]repository.EventWithAvailability, error) {
	log := logger.WithContext(ctx)
	cacheKey := fmt.Sprintf("%s|%s|%d|%d", query, date, page, pageSize)

	if s.cache != nil {
		if raw, err := s.cache.GetEventList(ctx, cacheKey); err != nil {
			log.Warn("Event listing cache read failed", "error", err)
		} else if raw != nil {
			var events []repository.EventWithAvailability
			if err := json.Unmarshal(raw, &events); err == nil {
				return events, nil
			}
		}
	}

	events, err := s.listUncached(ctx, query, date, page, pageSize)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if raw, err := json.Marshal(events); err == nil {
			if err := s.cache.SetEventList(ctx, cacheKey, raw); err != nil {
				log.Warn("Event listing cache write failed", "error", err)
			}
		}
	}

	return events, nil
}

func (s *EventService) listUncached(ctx context.Context, query, date string, page, pageSize int) ([]repository.EventWithAvailability, error) {
	if s.es != nil && query != "" {
		ids, err := s.es.Search(ctx, query, date, page, pageSize)
		if err != nil {
			// Search being down must not take the listing with it.
			logger.WithContext(ctx).Warn("Search failed, falling back to SQL", "error", err)
		} else {
			events, err := s.repos.Events.ListByIDs(ctx, ids)
			if err != nil {
				return nil, apperr.Persistence("load events", err)
			}
			return events, nil
		}
	}

	events, err := s.repos.Events.List(ctx, query, date, true, page, pageSize)
	if err != nil {
		return nil, apperr.Persistence("list events", err)
	}
	return events, nil
}

// Get returns one active event with its live seat availability and prices.
func (s *EventService) Get(ctx context.Context, id int64) (*models.Event, []models.SeatAllocation, []models.PriceEntry, error) {
	event, err := s.repos.Events.GetByID(ctx, id)
	if err != nil {
		return nil, nil, nil, apperr.Persistence("load event", err)
	}
	if event == nil || !event.IsActive {
		return nil, nil, nil, apperr.ErrNotFound
	}

	seats, err := s.repos.Seats.GetForEvent(ctx, id)
	if err != nil {
		return nil, nil, nil, apperr.Persistence("load seats", err)
	}

	prices, err := s.repos.Events.GetPrices(ctx, id)
	if err != nil {
		return nil, nil, nil, apperr.Persistence("load prices", err)
	}

	return event, seats, prices, nil
}

// Create adds an event with its seat allocations and full price matrix.
// Every (seat tier, ticket class) cell must be priced.
func (s *EventService) Create(ctx context.Context, req *models.CreateEventRequest) (*models.Event, error) {
	event, prices, err := s.validateEventInput(req.Name, req.Description, req.Date, req.Time,
		req.Venue, req.RequiresAdult, req.MaxTickets, req.Prices, false)
	if err != nil {
		return nil, err
	}

	event.TotalCapacity = req.SeatsWithoutTable + req.SeatsWithTable
	event.IsActive = true

	if event.TotalCapacity == 0 {
		return nil, apperr.Validation("", "an event needs at least one seat")
	}

	seats := []models.SeatAllocation{
		{SeatType: models.SeatWithoutTable, TotalSeats: req.SeatsWithoutTable},
		{SeatType: models.SeatWithTable, TotalSeats: req.SeatsWithTable},
	}

	if err := s.repos.Events.CreateWithCatalog(ctx, event, seats, prices); err != nil {
		return nil, apperr.Persistence("create event", err)
	}

	s.afterCatalogWrite(ctx, event, false)

	logger.WithContext(ctx).Info("Event created", "event_id", event.ID, "name", event.Name)
	return event, nil
}

// Update edits an event's details and prices. Seat totals are fixed at
// creation; they carry bookings and cannot be resized here.
func (s *EventService) Update(ctx context.Context, id int64, req *models.UpdateEventRequest) (*models.Event, error) {
	existing, err := s.repos.Events.GetByID(ctx, id)
	if err != nil {
		return nil, apperr.Persistence("load event", err)
	}
	if existing == nil {
		return nil, apperr.ErrNotFound
	}

	event, prices, err := s.validateEventInput(req.Name, req.Description, req.Date, req.Time,
		req.Venue, req.RequiresAdult, req.MaxTickets, req.Prices, true)
	if err != nil {
		return nil, err
	}

	event.ID = existing.ID
	event.TotalCapacity = existing.TotalCapacity
	event.IsActive = existing.IsActive
	if req.IsActive != nil {
		event.IsActive = *req.IsActive
	}

	if err := s.repos.Events.UpdateWithPrices(ctx, event, prices); err != nil {
		return nil, apperr.Persistence("update event", err)
	}

	s.afterCatalogWrite(ctx, event, false)

	logger.WithContext(ctx).Info("Event updated", "event_id", event.ID, "name", event.Name)
	return event, nil
}

// Delete removes an event. Events that still carry non-cancelled bookings
// cannot be deleted; deactivate them instead.
func (s *EventService) Delete(ctx context.Context, id int64) error {
	event, err := s.repos.Events.GetByID(ctx, id)
	if err != nil {
		return apperr.Persistence("load event", err)
	}
	if event == nil {
		return apperr.ErrNotFound
	}

	active, err := s.repos.Events.CountActiveBookings(ctx, id)
	if err != nil {
		return apperr.Persistence("count bookings", err)
	}
	if active > 0 {
		return fmt.Errorf("%w: event has %d active bookings", apperr.ErrConflict, active)
	}

	deleted, err := s.repos.Events.Delete(ctx, id)
	if err != nil {
		return apperr.Persistence("delete event", err)
	}
	if !deleted {
		return apperr.ErrNotFound
	}

	s.afterCatalogWrite(ctx, event, true)

	logger.WithContext(ctx).Info("Event deleted", "event_id", id, "name", event.Name)
	return nil
}

// validateEventInput parses the shared create/update fields and the price
// matrix. A complete matrix prices every seat tier and ticket class.
// On update an empty matrix means "leave prices alone"; a partial one is
// still rejected.
func (s *EventService) validateEventInput(name, description, dateStr, timeStr, venue string,
	requiresAdult bool, maxTickets int, priceInputs []models.EventPriceInput, pricesOptional bool) (*models.Event, []models.PriceEntry, error) {

	verr := &apperr.ValidationError{}

	date, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		verr.Add("date", "date must be YYYY-MM-DD")
	}
	if _, err := time.Parse("15:04", timeStr); err != nil {
		verr.Add("time", "time must be HH:MM")
	}

	seen := make(map[string]bool)
	prices := make([]models.PriceEntry, 0, len(priceInputs))
	for _, p := range priceInputs {
		key := p.SeatType + "/" + p.TicketType
		if seen[key] {
			verr.Add("prices", "duplicate price for "+key)
			continue
		}
		seen[key] = true
		prices = append(prices, models.PriceEntry{
			SeatType:   p.SeatType,
			TicketType: p.TicketType,
			PricePence: p.PricePence,
		})
	}
	if !pricesOptional || len(priceInputs) > 0 {
		for _, seatType := range []string{models.SeatWithoutTable, models.SeatWithTable} {
			for _, ticketType := range models.TicketTypes() {
				if !seen[seatType+"/"+ticketType] {
					verr.Add("prices", "missing price for "+seatType+"/"+ticketType)
				}
			}
		}
	}

	if verr.HasErrors() {
		return nil, nil, verr
	}

	if maxTickets <= 0 {
		maxTickets = 8
	}

	event := &models.Event{
		Name:                 name,
		Date:                 date,
		TimeOfDay:            timeStr + ":00",
		Venue:                venue,
		RequiresAdult:        requiresAdult,
		MaxTicketsPerBooking: maxTickets,
	}
	if description != "" {
		event.Description = &description
	}

	return event, prices, nil
}

// afterCatalogWrite refreshes the search index, drops cached listings, and
// announces the change. All three are best-effort.
func (s *EventService) afterCatalogWrite(ctx context.Context, event *models.Event, deleted bool) {
	log := logger.WithContext(ctx)

	if s.es != nil {
		var err error
		if deleted {
			err = s.es.DeleteEvent(ctx, event.ID)
		} else {
			err = s.es.IndexEvent(ctx, event)
		}
		if err != nil {
			log.Warn("Failed to update search index", "error", err, "event_id", event.ID)
		}
	}

	if s.cache != nil {
		if err := s.cache.InvalidateEventLists(ctx); err != nil {
			log.Warn("Failed to invalidate event listing cache", "error", err)
		}
	}

	if err := s.nats.Publish(models.EventCatalogUpserted, models.CatalogUpsertedEvent{
		EventID:   event.ID,
		Deleted:   deleted,
		Timestamp: s.now(),
	}); err != nil {
		log.Warn("Failed to publish catalog event", "error", err, "event_id", event.ID)
	}
}
