package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/avdeyev/flightbook/api"
	"github.com/avdeyev/flightbook/config"
	"github.com/avdeyev/flightbook/internal/bootstrap"
	"github.com/avdeyev/flightbook/internal/database"
	"github.com/avdeyev/flightbook/internal/kafka"
	"github.com/avdeyev/flightbook/internal/repository"
	"github.com/avdeyev/flightbook/internal/service/admin"
	"github.com/avdeyev/flightbook/internal/service/booking"
	"github.com/avdeyev/flightbook/internal/service/flights"
	"github.com/avdeyev/flightbook/internal/service/identity"
	"github.com/avdeyev/flightbook/internal/session"
	"github.com/avdeyev/flightbook/internal/ticket"
	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := database.Migrate(cfg.Database); err != nil {
		log.Fatalf("migrate database: %v", err)
	}

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	defer pool.Close()

	sessions := session.NewManager(cfg.Redis, cfg.Session)
	producer := kafka.NewProducer(cfg.Kafka.Brokers)
	defer producer.Close()

	flightRepo := repository.NewFlightRepository(pool)
	bookingRepo := repository.NewBookingRepository(pool)
	userRepo := repository.NewUserRepository(pool)
	paymentRepo := repository.NewPaymentRepository(pool)
	adminLogRepo := repository.NewAdminLogRepository(pool)

	tickets := ticket.NewGenerator(cfg.Tickets.Dir)

	flightService := flights.NewFlightService(flightRepo, cfg.Booking.MaxWindowDays)
	bookingService := booking.NewBookingService(
		bookingRepo,
		flightRepo,
		userRepo,
		tickets,
		producer,
		booking.WithNotificationsTopic(cfg.Kafka.NotificationsTopic),
		booking.WithRefAttempts(cfg.Booking.RefAttempts),
	)
	identityService := identity.NewIdentityService(userRepo)
	adminService := admin.NewAdminService(cfg.Admin.Accounts, flightRepo, bookingRepo, userRepo, paymentRepo, adminLogRepo)

	handlers := bootstrap.Handlers{
		Flights:  api.NewFlightHandler(flightService, bookingService),
		Bookings: api.NewBookingHandler(bookingService, flightService, cfg.Tickets.Dir),
		Auth:     api.NewAuthHandler(identityService, sessions),
		Admin:    api.NewAdminHandler(adminService, sessions),
	}

	if err := bootstrap.Run(ctx, cfg, sessions, handlers); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
