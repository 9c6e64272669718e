package consumers

import (
	"context"
	"log/slog"

	"github.com/nats-io/stan.go"

	"parkgate/internal/config"
	"parkgate/internal/database"
	"parkgate/internal/messaging"
	"parkgate/internal/models"
	"parkgate/internal/repository"
	"parkgate/internal/search"
	"parkgate/internal/service"
)

// ConsumerService runs the NATS subscribers: audit logging of booking
// lifecycle events and keeping the search index in step with the catalog.
type ConsumerService struct {
	db       *database.DB
	nats     *messaging.NATSClient
	handlers *Handlers
	services *service.Services
}

func NewConsumerService(cfg *config.Config) (*ConsumerService, error) {
	db, err := database.Connect(cfg.Database)
	if err != nil {
		return nil, err
	}

	natsClient, err := messaging.NewNATSClient(cfg.NATS)
	if err != nil {
		return nil, err
	}

	repos := repository.NewRepositories(db)

	var es *search.ElasticsearchClient
	if cfg.Search.Enabled {
		if es, err = search.NewElasticsearchClient(cfg.Search); err != nil {
			slog.Warn("Elasticsearch unavailable, catalog events will not be indexed", "error", err)
			es = nil
		}
	}

	return &ConsumerService{
		db:       db,
		nats:     natsClient,
		handlers: NewHandlers(repos, es),
		services: service.NewServices(repos, natsClient, nil, es, cfg),
	}, nil
}

// Services exposes the business layer, used by the sweeper job running in
// the same process.
func (cs *ConsumerService) Services() *service.Services {
	return cs.services
}

func (cs *ConsumerService) Start() error {
	slog.Info("Starting NATS consumers...")

	subjects := map[string]func([]byte){
		models.EventBookingCreated:   cs.handlers.HandleBookingCreated,
		models.EventBookingCancelled: cs.handlers.HandleBookingCancelled,
		models.EventBookingExpired:   cs.handlers.HandleBookingExpired,
		models.EventPaymentCaptured:  cs.handlers.HandlePaymentCaptured,
		models.EventRefundIssued:     cs.handlers.HandleRefundIssued,
		models.EventCatalogUpserted:  cs.handlers.HandleCatalogUpserted,
	}

	for subject, handler := range subjects {
		handler := handler
		_, err := cs.nats.SubscribeQueue(subject, "consumers", func(msg *stan.Msg) {
			handler(msg.Data)
		})
		if err != nil {
			return err
		}
	}

	slog.Info("All consumers started")
	return nil
}

func (cs *ConsumerService) Shutdown(ctx context.Context) error {
	slog.Info("Shutting down consumer service...")
	if err := cs.nats.Close(); err != nil {
		slog.Error("Error closing NATS connection", "error", err)
	}
	return cs.db.Close()
}
