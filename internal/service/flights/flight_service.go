package flights

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/avdeyev/flightbook/internal/domain"
	"github.com/avdeyev/flightbook/internal/repository"
)

// FrontendDateFormat is the day-first format the search form sends.
// ISO dates are accepted as well.
const (
	FrontendDateFormat = "02-01-2006"
	ISODateFormat      = "2006-01-02"
)

type FlightUseCase interface {
	List(ctx context.Context) ([]domain.Flight, error)
	GetByID(ctx context.Context, id int64) (*domain.Flight, error)
	Search(ctx context.Context, input SearchInput) ([]domain.Flight, error)
	Cities(ctx context.Context) ([]string, error)
	BookingWindow(now time.Time) (min, max time.Time)
}

type SearchInput struct {
	Origin      string `json:"origin" form:"origin"`
	Destination string `json:"destination" form:"destination"`
	Date        string `json:"date" form:"date"`
	Passengers  int    `json:"passengers" form:"passengers"`
}

type FlightService struct {
	repo          repository.FlightRepository
	maxWindowDays int
	now           func() time.Time
}

func NewFlightService(repo repository.FlightRepository, maxWindowDays int) *FlightService {
	return &FlightService{repo: repo, maxWindowDays: maxWindowDays, now: time.Now}
}

// ParseDate accepts dates in either 02-01-2006 or 2006-01-02 form and
// normalizes them to midnight UTC.
func ParseDate(s string) (time.Time, error) {
	for _, layout := range []string{FrontendDateFormat, ISODateFormat} {
		if d, err := time.Parse(layout, s); err == nil {
			return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC), nil
		}
	}
	return time.Time{}, domain.NewValidationError("Invalid date format")
}

func (s *FlightService) validateSearchDate(d time.Time) error {
	today := truncateToDay(s.now())
	if d.Before(today) {
		return domain.NewValidationError("Date cannot be in the past")
	}
	if d.After(today.AddDate(0, 0, s.maxWindowDays)) {
		return domain.NewValidationError(fmt.Sprintf("Maximum booking window is %d days", s.maxWindowDays))
	}
	return nil
}

func (s *FlightService) Search(ctx context.Context, input SearchInput) ([]domain.Flight, error) {
	origin := strings.TrimSpace(input.Origin)
	dest := strings.TrimSpace(input.Destination)
	if origin == "" || dest == "" {
		return nil, domain.NewValidationError("Origin and destination are required")
	}
	if input.Passengers < 1 {
		return nil, domain.NewValidationError("Invalid number of passengers")
	}

	date, err := ParseDate(input.Date)
	if err != nil {
		return nil, err
	}
	if err := s.validateSearchDate(date); err != nil {
		return nil, err
	}

	return s.repo.Search(ctx, repository.SearchQuery{
		Origin:      origin,
		Destination: dest,
		Date:        date,
		Passengers:  input.Passengers,
	})
}

func (s *FlightService) List(ctx context.Context) ([]domain.Flight, error) {
	return s.repo.List(ctx)
}

func (s *FlightService) GetByID(ctx context.Context, id int64) (*domain.Flight, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *FlightService) Cities(ctx context.Context) ([]string, error) {
	return s.repo.Cities(ctx)
}

// BookingWindow returns the first and last bookable calendar days.
func (s *FlightService) BookingWindow(now time.Time) (time.Time, time.Time) {
	today := truncateToDay(now)
	return today, today.AddDate(0, 0, s.maxWindowDays)
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

var _ FlightUseCase = (*FlightService)(nil)
