package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"golang.org/x/crypto/bcrypt"

	"parkgate/internal/config"
	"parkgate/internal/database"
	"parkgate/internal/models"
	"parkgate/internal/repository"
)

var (
	adminPassword = flag.String("admin-password", "", "Password for the seeded admin account (required on first run)")
	withEvents    = flag.Bool("events", true, "Seed the sample event catalog")
)

// Seeds a fresh database: the admin account and a small seasonal catalog.
// Safe to re-run; existing rows are left alone.
func main() {
	flag.Parse()

	cfg := config.Load()
	db, err := database.Connect(cfg.Database)
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.RunMigrations(); err != nil {
		slog.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}

	repos := repository.NewRepositories(db)
	ctx := context.Background()

	if err := seedAdmin(ctx, repos); err != nil {
		slog.Error("Failed to seed admin account", "error", err)
		os.Exit(1)
	}

	if *withEvents {
		if err := seedEvents(ctx, repos); err != nil {
			slog.Error("Failed to seed events", "error", err)
			os.Exit(1)
		}
	}

	slog.Info("Seeding completed")
}

func seedAdmin(ctx context.Context, repos *repository.Repositories) error {
	existing, err := repos.Users.GetByUsername(ctx, "admin")
	if err != nil {
		return err
	}
	if existing != nil {
		slog.Info("Admin account already exists, skipping")
		return nil
	}

	if *adminPassword == "" {
		return fmt.Errorf("admin account missing and -admin-password not given")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(*adminPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	admin := &models.User{
		Username:     "admin",
		Email:        "admin@parkgate.local",
		PasswordHash: string(hash),
		FirstName:    "Park",
		LastName:     "Admin",
		Role:         models.RoleAdmin,
	}

	if err := repos.Users.Create(ctx, admin); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			slog.Info("Admin account already exists, skipping")
			return nil
		}
		return err
	}

	slog.Info("Seeded admin account", "user_id", admin.UserID)
	return nil
}

type sampleEvent struct {
	name          string
	description   string
	daysAhead     int
	startTime     string
	venue         string
	requiresAdult bool
	withoutTable  int
	withTable     int
	// adult, child, senior pence for without_table; with_table adds the
	// table premium
	basePrices   [3]int64
	tablePremium int64
}

func seedEvents(ctx context.Context, repos *repository.Repositories) error {
	samples := []sampleEvent{
		{
			name:         "Lakeside Fireworks Night",
			description:  "Fireworks over the boating lake with live music.",
			daysAhead:    30,
			startTime:    "19:30:00",
			venue:        "Lakeside Arena",
			withoutTable: 400,
			withTable:    80,
			basePrices:   [3]int64{2500, 1200, 1500},
			tablePremium: 1000,
		},
		{
			name:          "Winter Lantern Parade",
			description:   "Evening lantern walk through the gardens. Children must be accompanied.",
			daysAhead:     45,
			startTime:     "17:00:00",
			venue:         "Victorian Gardens",
			requiresAdult: true,
			withoutTable:  250,
			withTable:     40,
			basePrices:    [3]int64{1800, 900, 1100},
			tablePremium:  800,
		},
		{
			name:         "Summer Brass Band Concert",
			description:  "An afternoon with the county brass band.",
			daysAhead:    60,
			startTime:    "14:00:00",
			venue:        "Bandstand Lawn",
			withoutTable: 300,
			withTable:    60,
			basePrices:   [3]int64{1500, 700, 900},
			tablePremium: 600,
		},
	}

	ticketTypes := models.TicketTypes()

	for _, sample := range samples {
		event := &models.Event{
			Name:                 sample.name,
			Date:                 time.Now().AddDate(0, 0, sample.daysAhead).Truncate(24 * time.Hour),
			TimeOfDay:            sample.startTime,
			Venue:                sample.venue,
			TotalCapacity:        sample.withoutTable + sample.withTable,
			RequiresAdult:        sample.requiresAdult,
			MaxTicketsPerBooking: 8,
			IsActive:             true,
		}
		desc := sample.description
		event.Description = &desc

		seats := []models.SeatAllocation{
			{SeatType: models.SeatWithoutTable, TotalSeats: sample.withoutTable},
			{SeatType: models.SeatWithTable, TotalSeats: sample.withTable},
		}

		var prices []models.PriceEntry
		for i, ticketType := range ticketTypes {
			prices = append(prices,
				models.PriceEntry{
					SeatType:   models.SeatWithoutTable,
					TicketType: ticketType,
					PricePence: sample.basePrices[i],
				},
				models.PriceEntry{
					SeatType:   models.SeatWithTable,
					TicketType: ticketType,
					PricePence: sample.basePrices[i] + sample.tablePremium,
				},
			)
		}

		if err := repos.Events.CreateWithCatalog(ctx, event, seats, prices); err != nil {
			return err
		}
		slog.Info("Seeded event", "event_id", event.ID, "name", event.Name)
	}

	return nil
}
