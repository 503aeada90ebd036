package repository

import (
	"context"
	"errors"
	"time"

	"github.com/avdeyev/flightbook/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// BookingWithFlight is a booking joined with the flight it belongs to,
// used for the "my recent bookings" listing.
type BookingWithFlight struct {
	domain.Booking
	FlightNo    string    `json:"flight_no"`
	Origin      string    `json:"origin"`
	Destination string    `json:"destination"`
	Departure   time.Time `json:"departure"`
}

type BookingRepository interface {
	CreateConfirmed(ctx context.Context, booking *domain.Booking, payment *domain.Payment) error
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	BookedSeats(ctx context.Context, flightID int64) ([]string, error)
	ListByUser(ctx context.Context, userID int64, limit int) ([]BookingWithFlight, error)
	Count(ctx context.Context) (int64, error)
}

type PGBookingRepository struct {
	db *pgxpool.Pool
}

func NewBookingRepository(db *pgxpool.Pool) BookingRepository {
	return &PGBookingRepository{db: db}
}

// CreateConfirmed performs the whole booking write path in one transaction:
// conditional seat decrement, booking insert, payment insert. Either all three
// land or none of them do.
func (r *PGBookingRepository) CreateConfirmed(ctx context.Context, booking *domain.Booking, payment *domain.Payment) error {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	cmd, err := tx.Exec(ctx, `UPDATE flights.flights SET seats = seats - 1 WHERE id=$1 AND seats > 0`, booking.FlightID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		var exists bool
		if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM flights.flights WHERE id=$1)`, booking.FlightID).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return domain.ErrNotFound
		}
		return domain.ErrFlightUnavailable
	}

	booking.Status = domain.BookingStatusConfirmed
	if err := tx.QueryRow(ctx, `INSERT INTO flights.bookings (flight_id, user_id, booking_ref, seat_number, payment_amount_cents, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`,
		booking.FlightID, booking.UserID, booking.BookingRef, booking.SeatNumber, booking.AmountCents, booking.Status).
		Scan(&booking.ID, &booking.CreatedAt); err != nil {
		return translateBookingError(err)
	}

	if err := tx.QueryRow(ctx, `INSERT INTO billing.payments (booking_ref, amount_cents, card_last4)
		VALUES ($1, $2, $3)
		RETURNING id, payment_method, status, paid_at`,
		payment.BookingRef, payment.AmountCents, payment.CardLast4).
		Scan(&payment.ID, &payment.Method, &payment.Status, &payment.PaidAt); err != nil {
		return translateBookingError(err)
	}

	return tx.Commit(ctx)
}

func translateBookingError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		switch pgErr.ConstraintName {
		case "bookings_flight_seat_key":
			return domain.ErrSeatTaken
		case "bookings_ref_key", "payments_booking_ref_key":
			return domain.ErrDuplicateRef
		}
	}
	return err
}

func (r *PGBookingRepository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	row := r.db.QueryRow(ctx, `SELECT id, flight_id, user_id, booking_ref, seat_number, payment_amount_cents, status, created_at FROM flights.bookings WHERE id=$1`, id)
	var b domain.Booking
	if err := row.Scan(&b.ID, &b.FlightID, &b.UserID, &b.BookingRef, &b.SeatNumber, &b.AmountCents, &b.Status, &b.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &b, nil
}

func (r *PGBookingRepository) BookedSeats(ctx context.Context, flightID int64) ([]string, error) {
	rows, err := r.db.Query(ctx, `SELECT seat_number FROM flights.bookings WHERE flight_id=$1 ORDER BY seat_number`, flightID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	seats := make([]string, 0)
	for rows.Next() {
		var seat string
		if err := rows.Scan(&seat); err != nil {
			return nil, err
		}
		seats = append(seats, seat)
	}
	return seats, rows.Err()
}

func (r *PGBookingRepository) ListByUser(ctx context.Context, userID int64, limit int) ([]BookingWithFlight, error) {
	rows, err := r.db.Query(ctx, `
		SELECT b.id, b.flight_id, b.user_id, b.booking_ref, b.seat_number, b.payment_amount_cents, b.status, b.created_at,
		       f.flight_no, f.origin, f.destination, f.departure
		FROM flights.bookings b
		JOIN flights.flights f ON f.id = b.flight_id
		WHERE b.user_id = $1
		ORDER BY b.created_at DESC
		LIMIT $2`, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	bookings := make([]BookingWithFlight, 0)
	for rows.Next() {
		var b BookingWithFlight
		if err := rows.Scan(&b.ID, &b.FlightID, &b.UserID, &b.BookingRef, &b.SeatNumber, &b.AmountCents, &b.Status, &b.CreatedAt,
			&b.FlightNo, &b.Origin, &b.Destination, &b.Departure); err != nil {
			return nil, err
		}
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}

func (r *PGBookingRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM flights.bookings`).Scan(&n)
	return n, err
}

var _ BookingRepository = (*PGBookingRepository)(nil)
