package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"parkgate/internal/cache"
	"parkgate/internal/config"
	"parkgate/internal/database"
	"parkgate/internal/handlers"
	"parkgate/internal/logger"
	"parkgate/internal/messaging"
	"parkgate/internal/middleware"
	"parkgate/internal/repository"
	"parkgate/internal/search"
	"parkgate/internal/service"
)

// Server is the HTTP API.
type Server struct {
	router   *gin.Engine
	config   *config.Config
	db       *database.DB
	nats     *messaging.NATSClient
	cache    *cache.Client
	services *service.Services
}

// NewServer connects the backing services and wires the routes. Redis and
// Elasticsearch are optional; the server runs without them.
func NewServer(cfg *config.Config) *Server {
	gin.SetMode(cfg.GinMode)

	db, err := database.Connect(cfg.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}

	if err := db.RunMigrations(); err != nil {
		logger.Fatal("Failed to run migrations", "error", err)
	}

	natsClient, err := messaging.NewNATSClient(cfg.NATS)
	if err != nil {
		logger.Fatal("Failed to connect to NATS", "error", err)
	}

	var cacheClient *cache.Client
	if cacheClient, err = cache.NewClient(cfg.Cache); err != nil {
		logger.Get().Warn("Redis unavailable, running without cache", "error", err)
		cacheClient = nil
	}

	var es *search.ElasticsearchClient
	if cfg.Search.Enabled {
		if es, err = search.NewElasticsearchClient(cfg.Search); err != nil {
			logger.Get().Warn("Elasticsearch unavailable, search falls back to SQL", "error", err)
			es = nil
		}
	}

	repos := repository.NewRepositories(db)
	services := service.NewServices(repos, natsClient, cacheClient, es, cfg)

	router := gin.New()
	router.Use(middleware.RequestContext())
	router.Use(middleware.Recovery())
	router.Use(middleware.CORS())
	router.Use(middleware.Logger())

	server := &Server{
		router:   router,
		config:   cfg,
		db:       db,
		nats:     natsClient,
		cache:    cacheClient,
		services: services,
	}

	server.setupRoutes()

	return server
}

func (s *Server) setupRoutes() {
	h := handlers.New(s.services)

	api := s.router.Group("/api")
	{
		// Public: browsing the catalog and registering need no account.
		api.GET("/events", h.ListEvents)
		api.GET("/events/:id", h.GetEvent)
		api.POST("/auth/register", h.Register)

		authed := api.Group("")
		authed.Use(middleware.BasicAuth(s.services.Users))
		{
			bookings := authed.Group("/bookings")
			{
				bookings.POST("", h.CreateBooking)
				bookings.GET("", h.ListBookings)
				bookings.GET("/:id", h.GetBooking)
				bookings.PATCH("/:id/cancel", h.CancelBooking)
				bookings.POST("/:id/payment", h.CapturePayment)
				bookings.GET("/:id/payments", h.ListPayments)
			}

			admin := authed.Group("/admin")
			admin.Use(middleware.RequireAdmin())
			{
				admin.POST("/events", h.CreateEvent)
				admin.PUT("/events/:id", h.UpdateEvent)
				admin.DELETE("/events/:id", h.DeleteEvent)
				admin.GET("/bookings", h.AdminBookings)
				admin.GET("/users", h.ListUsers)
				admin.DELETE("/users/:id", h.DeleteUser)
			}
		}
	}

	s.router.GET("/health", s.healthCheck)
	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

func (s *Server) healthCheck(c *gin.Context) {
	check := s.db.HealthCheck(c.Request.Context())
	status := http.StatusOK
	if check.Status != "healthy" {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, gin.H{
		"status":   check.Status,
		"database": check,
	})
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run starts the HTTP server.
func (s *Server) Run() error {
	logger.Get().Info("Starting server", "port", s.config.Port)
	return s.router.Run(":" + s.config.Port)
}

// Close releases the server's connections.
func (s *Server) Close() {
	if s.cache != nil {
		_ = s.cache.Close()
	}
	_ = s.nats.Close()
	_ = s.db.Close()
}
