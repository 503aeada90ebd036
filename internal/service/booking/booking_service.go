package booking

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log"
	"math/big"
	"strings"
	"time"

	"github.com/avdeyev/flightbook/internal/domain"
	"github.com/avdeyev/flightbook/internal/kafka"
	"github.com/avdeyev/flightbook/internal/repository"
	"github.com/avdeyev/flightbook/internal/ticket"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type BookingUseCase interface {
	CreateBooking(ctx context.Context, input CreateBookingInput) (*BookingResult, error)
	GetBooking(ctx context.Context, id int64) (*domain.Booking, error)
	BookedSeats(ctx context.Context, flightID int64) ([]string, error)
	UserBookings(ctx context.Context, userID int64, limit int) ([]repository.BookingWithFlight, error)
	TicketFile(ctx context.Context, bookingID int64) (path, filename string, err error)
}

type TicketIssuer interface {
	Generate(t ticket.Ticket) (string, error)
	Path(ref string) string
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

// FlightID and UserID are never client-supplied: the handler sets them from
// the URL and the session, so they are hidden from the request binder.
type CreateBookingInput struct {
	FlightID   int64  `json:"-" form:"-"`
	UserID     int64  `json:"-" form:"-"` // 0 when not logged in
	FullName   string `json:"full_name" form:"full_name"`
	Email      string `json:"email" form:"email"`
	Phone      string `json:"phone" form:"phone"`
	Passport   string `json:"passport" form:"passport"`
	CardNumber string `json:"card_number" form:"card_number"`
	SeatNumber string `json:"selected_seat" form:"selected_seat"`
}

// BookingResult is what the confirmation page is built from. TicketWarning is
// set when the booking committed but the ticket file could not be produced.
type BookingResult struct {
	Booking       *domain.Booking `json:"booking"`
	Payment       *domain.Payment `json:"payment"`
	User          *domain.User    `json:"user"`
	Flight        *domain.Flight  `json:"flight"`
	TicketPath    string          `json:"-"`
	TicketWarning string          `json:"ticket_warning,omitempty"`
}

type BookingServiceOption func(*BookingService)

func WithNotificationsTopic(topic string) BookingServiceOption {
	return func(s *BookingService) {
		s.notificationsTopic = topic
	}
}

func WithRefAttempts(n int) BookingServiceOption {
	return func(s *BookingService) {
		if n > 0 {
			s.refAttempts = n
		}
	}
}

type BookingService struct {
	bookings           repository.BookingRepository
	flights            repository.FlightRepository
	users              repository.UserRepository
	tickets            TicketIssuer
	producer           Producer
	notificationsTopic string
	refAttempts        int
}

func NewBookingService(
	bookings repository.BookingRepository,
	flights repository.FlightRepository,
	users repository.UserRepository,
	tickets TicketIssuer,
	producer Producer,
	opts ...BookingServiceOption,
) *BookingService {
	service := &BookingService{
		bookings:    bookings,
		flights:     flights,
		users:       users,
		tickets:     tickets,
		producer:    producer,
		refAttempts: 5,
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

func (s *BookingService) CreateBooking(ctx context.Context, input CreateBookingInput) (*BookingResult, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}
	card := strings.TrimSpace(input.CardNumber)
	last4 := card[len(card)-4:]

	flight, err := s.flights.GetByID(ctx, input.FlightID)
	if err != nil {
		return nil, err
	}
	if flight.Seats < 1 {
		return nil, domain.ErrFlightUnavailable
	}

	user, err := s.resolveUser(ctx, input)
	if err != nil {
		return nil, err
	}

	var booking *domain.Booking
	var payment *domain.Payment
	for attempt := 0; attempt < s.refAttempts; attempt++ {
		ref, err := newBookingRef()
		if err != nil {
			return nil, err
		}
		b := &domain.Booking{
			FlightID:    flight.ID,
			UserID:      user.ID,
			BookingRef:  ref,
			SeatNumber:  input.SeatNumber,
			AmountCents: flight.PriceCents,
		}
		p := &domain.Payment{
			BookingRef:  ref,
			AmountCents: flight.PriceCents,
			CardLast4:   last4,
		}

		err = s.bookings.CreateConfirmed(ctx, b, p)
		if errors.Is(err, domain.ErrDuplicateRef) {
			continue
		}
		if err != nil {
			return nil, err
		}
		booking, payment = b, p
		break
	}
	if booking == nil {
		return nil, domain.ErrDuplicateRef
	}

	result := &BookingResult{
		Booking: booking,
		Payment: payment,
		User:    user,
		Flight:  flight,
	}

	// The booking is committed; a failed ticket must not undo it, but it must
	// not pass silently either.
	path, terr := s.tickets.Generate(ticket.Ticket{
		BookingRef:    booking.BookingRef,
		PassengerName: user.FullName,
		FlightNo:      flight.FlightNo,
		SeatNumber:    booking.SeatNumber,
		Origin:        flight.Origin,
		Destination:   flight.Destination,
		Departure:     flight.Departure,
	})
	if terr != nil {
		log.Printf("generate ticket for %s: %v", booking.BookingRef, terr)
		result.TicketWarning = "Your booking is confirmed, but the ticket document could not be generated yet. Use the download link later."
	} else {
		result.TicketPath = path
	}

	if err := s.publishConfirmed(ctx, result); err != nil {
		log.Printf("publish booking_confirmed for %s: %v", booking.BookingRef, err)
	}

	return result, nil
}

func validateInput(input CreateBookingInput) error {
	for _, field := range []string{input.FullName, input.Email, input.Phone, input.Passport, input.CardNumber, input.SeatNumber} {
		if strings.TrimSpace(field) == "" {
			return domain.NewValidationError("All fields including seat selection are required")
		}
	}
	if len(strings.TrimSpace(input.CardNumber)) < 4 {
		return domain.NewValidationError("Invalid card number")
	}
	return nil
}

// resolveUser picks the purchasing identity: the session user when logged in,
// otherwise an existing account matched by email or passport, otherwise a
// fresh guest account with an unusable random password.
func (s *BookingService) resolveUser(ctx context.Context, input CreateBookingInput) (*domain.User, error) {
	if input.UserID != 0 {
		return s.users.GetByID(ctx, input.UserID)
	}

	user, err := s.users.FindByContact(ctx, input.Email, input.Passport)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(uuid.NewString()), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash guest password: %w", err)
	}
	guest := &domain.User{
		Username:     input.Email,
		PasswordHash: string(hash),
		FullName:     input.FullName,
		Email:        input.Email,
		Phone:        input.Phone,
		Passport:     input.Passport,
		Guest:        true,
	}
	if err := s.users.Create(ctx, guest); err != nil {
		if errors.Is(err, domain.ErrDuplicateUser) {
			// lost a race with a concurrent guest checkout
			return s.users.FindByContact(ctx, input.Email, input.Passport)
		}
		return nil, err
	}
	return guest, nil
}

func (s *BookingService) GetBooking(ctx context.Context, id int64) (*domain.Booking, error) {
	return s.bookings.GetByID(ctx, id)
}

func (s *BookingService) BookedSeats(ctx context.Context, flightID int64) ([]string, error) {
	return s.bookings.BookedSeats(ctx, flightID)
}

func (s *BookingService) UserBookings(ctx context.Context, userID int64, limit int) ([]repository.BookingWithFlight, error) {
	return s.bookings.ListByUser(ctx, userID, limit)
}

// TicketFile resolves a booking id to the ticket document on disk.
func (s *BookingService) TicketFile(ctx context.Context, bookingID int64) (string, string, error) {
	booking, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return "", "", err
	}
	return s.tickets.Path(booking.BookingRef), booking.BookingRef + ".pdf", nil
}

func (s *BookingService) publishConfirmed(ctx context.Context, result *BookingResult) error {
	if s.producer == nil || s.notificationsTopic == "" {
		return nil
	}
	event := kafka.BookingEvent{
		Type:          "booking_confirmed",
		BookingRef:    result.Booking.BookingRef,
		FlightNo:      result.Flight.FlightNo,
		SeatNumber:    result.Booking.SeatNumber,
		Origin:        result.Flight.Origin,
		Destination:   result.Flight.Destination,
		Departure:     result.Flight.Departure,
		PassengerName: result.User.FullName,
		Email:         result.User.Email,
		AmountCents:   result.Payment.AmountCents,
	}
	return s.producer.Publish(ctx, s.notificationsTopic, event.BookingRef, event)
}

// newBookingRef builds a BK<yyyymmdd><4 digits> reference. Collisions are
// possible and handled by retrying in CreateBooking.
func newBookingRef() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(10000))
	if err != nil {
		return "", fmt.Errorf("generate booking ref: %w", err)
	}
	return fmt.Sprintf("BK%s%04d", time.Now().Format("20060102"), n.Int64()), nil
}

var _ BookingUseCase = (*BookingService)(nil)
