package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"parkgate/cmd/consumers/jobs"
	"parkgate/internal/config"
	"parkgate/internal/consumers"
	"parkgate/internal/logger"
)

func main() {
	cfg := config.Load()
	logger.Init(cfg.LogLevel, cfg.LogFormat)

	// Own client ID so the API and the consumers can share a cluster.
	cfg.NATS.ClientID = "parkgate-consumers"

	consumerService, err := consumers.NewConsumerService(cfg)
	if err != nil {
		logger.Fatal("Failed to create consumer service", "error", err)
	}

	if err := consumerService.Start(); err != nil {
		logger.Fatal("Failed to start consumers", "error", err)
	}

	sweeper := jobs.NewBookingExpirationJob(
		consumerService.Services().Bookings, cfg.BookingExpiry, cfg.SweepInterval)
	sweeper.Start(context.Background())

	logger.Get().Info("Consumers service started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Get().Info("Shutting down consumers service...")

	sweeper.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := consumerService.Shutdown(ctx); err != nil {
		logger.Get().Error("Error during shutdown", "error", err)
	}

	logger.Get().Info("Consumers service stopped")
}
