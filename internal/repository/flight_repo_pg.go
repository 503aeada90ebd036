package repository

import (
	"context"
	"errors"
	"time"

	"github.com/avdeyev/flightbook/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type SearchQuery struct {
	Origin      string
	Destination string
	Date        time.Time
	Passengers  int
}

type FlightRepository interface {
	List(ctx context.Context) ([]domain.Flight, error)
	GetByID(ctx context.Context, id int64) (*domain.Flight, error)
	Search(ctx context.Context, q SearchQuery) ([]domain.Flight, error)
	Cities(ctx context.Context) ([]string, error)
	Count(ctx context.Context) (int64, error)
}

type PGFlightRepository struct {
	db *pgxpool.Pool
}

func NewFlightRepository(db *pgxpool.Pool) FlightRepository {
	return &PGFlightRepository{db: db}
}

const flightColumns = `id, flight_no, origin, destination, departure, arrival, price_cents, seats, airline, created_at`

func scanFlight(row pgx.Row) (*domain.Flight, error) {
	var f domain.Flight
	if err := row.Scan(&f.ID, &f.FlightNo, &f.Origin, &f.Destination, &f.Departure, &f.Arrival, &f.PriceCents, &f.Seats, &f.Airline, &f.CreatedAt); err != nil {
		return nil, err
	}
	return &f, nil
}

func (r *PGFlightRepository) List(ctx context.Context) ([]domain.Flight, error) {
	rows, err := r.db.Query(ctx, `SELECT `+flightColumns+` FROM flights.flights ORDER BY departure`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	flights := make([]domain.Flight, 0)
	for rows.Next() {
		f, err := scanFlight(rows)
		if err != nil {
			return nil, err
		}
		flights = append(flights, *f)
	}
	return flights, rows.Err()
}

func (r *PGFlightRepository) GetByID(ctx context.Context, id int64) (*domain.Flight, error) {
	row := r.db.QueryRow(ctx, `SELECT `+flightColumns+` FROM flights.flights WHERE id=$1`, id)
	f, err := scanFlight(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return f, nil
}

func (r *PGFlightRepository) Search(ctx context.Context, q SearchQuery) ([]domain.Flight, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+flightColumns+` FROM flights.flights
		WHERE lower(origin) = lower($1) AND lower(destination) = lower($2)
		AND departure::date = $3::date
		AND seats >= $4
		ORDER BY departure`,
		q.Origin, q.Destination, q.Date, q.Passengers)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	flights := make([]domain.Flight, 0)
	for rows.Next() {
		f, err := scanFlight(rows)
		if err != nil {
			return nil, err
		}
		flights = append(flights, *f)
	}
	return flights, rows.Err()
}

func (r *PGFlightRepository) Cities(ctx context.Context) ([]string, error) {
	rows, err := r.db.Query(ctx, `SELECT DISTINCT origin FROM flights.flights UNION SELECT DISTINCT destination FROM flights.flights ORDER BY 1`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cities := make([]string, 0)
	for rows.Next() {
		var city string
		if err := rows.Scan(&city); err != nil {
			return nil, err
		}
		cities = append(cities, city)
	}
	return cities, rows.Err()
}

func (r *PGFlightRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM flights.flights`).Scan(&n)
	return n, err
}

var _ FlightRepository = (*PGFlightRepository)(nil)
