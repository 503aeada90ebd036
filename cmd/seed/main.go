package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/avdeyev/flightbook/config"
	"github.com/avdeyev/flightbook/internal/database"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"
)

const (
	totalFlights   = 365
	seatsPerFlight = 100
	flightInfoPath = "flights_info.txt"
)

var cities = []string{
	"Bangalore", "London", "Paris", "Tokyo", "Dubai", "Delhi", "New York",
	"Bangkok", "Malasiya", "Melbourne", "Moscow", "Jerusalem", "Madrid",
	"Rome", "Amsterdam", "Riyadh", "Singapore", "AbuDhabi", "Wellington", "Budapest",
}

var airlines = []string{"CloudSky", "Global Airways", "AirNova", "AirIndia"}

// Seeds one flight per day for a year over a ring of city pairs, plus a
// sample registered user. Re-running is a no-op for rows that already exist.
func main() {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx := context.Background()

	if err := database.Migrate(cfg.Database); err != nil {
		log.Fatalf("migrate database: %v", err)
	}

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	defer pool.Close()

	now := time.Now()
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, 1)

	var flightLog []string
	for i := 0; i < totalFlights; i++ {
		origin := cities[i%len(cities)]
		destination := cities[(i+1)%len(cities)]
		departure := start.AddDate(0, 0, i)
		arrival := departure.Add(8 * time.Hour)
		flightNo := fmt.Sprintf("CS%d", 1000+i)
		priceCents := int64(150+(i%100)) * 100
		airline := airlines[i%len(airlines)]

		_, err := pool.Exec(ctx, `INSERT INTO flights.flights
			(flight_no, origin, destination, departure, arrival, price_cents, seats, airline)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			ON CONFLICT ON CONSTRAINT flights_flight_no_key DO NOTHING`,
			flightNo, origin, destination, departure, arrival, priceCents, seatsPerFlight, airline)
		if err != nil {
			log.Fatalf("insert flight %s: %v", flightNo, err)
		}

		flightLog = append(flightLog, fmt.Sprintf("%s | %s -> %s | Departure: %s | Arrival: %s | Price: $%d | Airline: %s",
			flightNo, origin, destination,
			departure.Format("02-01-2006 15:04"), arrival.Format("02-01-2006 15:04"),
			priceCents/100, airline))
	}

	if err := seedSampleUser(ctx, pool); err != nil {
		log.Fatalf("seed sample user: %v", err)
	}

	if err := os.WriteFile(flightInfoPath, []byte(strings.Join(flightLog, "\n")+"\n"), 0o644); err != nil {
		log.Fatalf("write %s: %v", flightInfoPath, err)
	}

	log.Printf("seeded %d flights, flight listing written to %s", totalFlights, flightInfoPath)
}

func seedSampleUser(ctx context.Context, pool *pgxpool.Pool) error {
	hash, err := bcrypt.GenerateFromPassword([]byte("Travel@123"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	_, err = pool.Exec(ctx, `INSERT INTO identity.users
		(username, password_hash, full_name, email, phone, passport)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT ON CONSTRAINT users_username_key DO NOTHING`,
		"john_doe", string(hash), "John Doe", "john.doe@example.com", "+1 (555) 123-4567", "P12345678")
	return err
}
