package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/avdeyev/flightbook/internal/domain"
	"github.com/avdeyev/flightbook/internal/repository"
	"github.com/avdeyev/flightbook/internal/service/booking"
	"github.com/avdeyev/flightbook/internal/service/flights"
	"github.com/avdeyev/flightbook/internal/session"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockFlightUseCase struct {
	mock.Mock
}

func (m *MockFlightUseCase) List(ctx context.Context) ([]domain.Flight, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Flight), args.Error(1)
}

func (m *MockFlightUseCase) GetByID(ctx context.Context, id int64) (*domain.Flight, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Flight), args.Error(1)
}

func (m *MockFlightUseCase) Search(ctx context.Context, input flights.SearchInput) ([]domain.Flight, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Flight), args.Error(1)
}

func (m *MockFlightUseCase) Cities(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockFlightUseCase) BookingWindow(now time.Time) (time.Time, time.Time) {
	args := m.Called(now)
	return args.Get(0).(time.Time), args.Get(1).(time.Time)
}

type MockBookingUseCase struct {
	mock.Mock
}

func (m *MockBookingUseCase) CreateBooking(ctx context.Context, input booking.CreateBookingInput) (*booking.BookingResult, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*booking.BookingResult), args.Error(1)
}

func (m *MockBookingUseCase) GetBooking(ctx context.Context, id int64) (*domain.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingUseCase) BookedSeats(ctx context.Context, flightID int64) ([]string, error) {
	args := m.Called(ctx, flightID)
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockBookingUseCase) UserBookings(ctx context.Context, userID int64, limit int) ([]repository.BookingWithFlight, error) {
	args := m.Called(ctx, userID, limit)
	return args.Get(0).([]repository.BookingWithFlight), args.Error(1)
}

func (m *MockBookingUseCase) TicketFile(ctx context.Context, bookingID int64) (string, string, error) {
	args := m.Called(ctx, bookingID)
	return args.String(0), args.String(1), args.Error(2)
}

// withSession stands in for SessionMiddleware in handler tests.
func withSession(sess *session.Session) gin.HandlerFunc {
	return func(c *gin.Context) {
		if sess != nil {
			c.Set(sessionContextKey, sess)
		}
		c.Next()
	}
}

func newTestRouter(mw ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(mw...)
	return router
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestFlightHandler_Home(t *testing.T) {
	mockFlights := &MockFlightUseCase{}
	mockBookings := &MockBookingUseCase{}

	router := newTestRouter()
	NewFlightHandler(mockFlights, mockBookings).Register(router)

	listing := []domain.Flight{{ID: 1, FlightNo: "CS1000", Origin: "London", Destination: "Paris"}}
	today := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	mockFlights.On("Cities", mock.Anything).Return([]string{"London", "Paris"}, nil).Once()
	mockFlights.On("List", mock.Anything).Return(listing, nil).Once()
	mockFlights.On("BookingWindow", mock.Anything).Return(today, today.AddDate(0, 0, 365)).Once()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/home", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "01-06-2025", body["min_date"])
	assert.Equal(t, "01-06-2026", body["max_date"])
	assert.NotContains(t, body, "recent_bookings")

	mockFlights.AssertExpectations(t)
}

func TestFlightHandler_Home_LoggedInGetsRecentBookings(t *testing.T) {
	mockFlights := &MockFlightUseCase{}
	mockBookings := &MockBookingUseCase{}

	router := newTestRouter(withSession(&session.Session{UserID: 5}))
	NewFlightHandler(mockFlights, mockBookings).Register(router)

	today := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	recent := []repository.BookingWithFlight{{Booking: domain.Booking{ID: 9, BookingRef: "BK202505010001"}}}
	mockFlights.On("Cities", mock.Anything).Return([]string{"London"}, nil).Once()
	mockFlights.On("List", mock.Anything).Return([]domain.Flight{}, nil).Once()
	mockFlights.On("BookingWindow", mock.Anything).Return(today, today.AddDate(0, 0, 365)).Once()
	mockBookings.On("UserBookings", mock.Anything, int64(5), recentBookingsLimit).Return(recent, nil).Once()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/home", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Contains(t, body, "recent_bookings")

	mockBookings.AssertExpectations(t)
}

func TestFlightHandler_Search(t *testing.T) {
	mockFlights := &MockFlightUseCase{}

	router := newTestRouter()
	NewFlightHandler(mockFlights, &MockBookingUseCase{}).Register(router)

	expected := flights.SearchInput{Origin: "London", Destination: "Paris", Date: "15-06-2025", Passengers: 2}
	results := []domain.Flight{{ID: 1, FlightNo: "CS1000"}}
	mockFlights.On("Search", mock.Anything, expected).Return(results, nil).Once()

	form := url.Values{}
	form.Set("origin", "London")
	form.Set("destination", "Paris")
	form.Set("date", "15-06-2025")
	form.Set("passengers", "2")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/search", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.NotContains(t, body, "message")

	mockFlights.AssertExpectations(t)
}

func TestFlightHandler_Search_NoResultsIsNotAnError(t *testing.T) {
	mockFlights := &MockFlightUseCase{}

	router := newTestRouter()
	NewFlightHandler(mockFlights, &MockBookingUseCase{}).Register(router)

	mockFlights.On("Search", mock.Anything, mock.Anything).Return([]domain.Flight{}, nil).Once()

	form := url.Values{}
	form.Set("origin", "London")
	form.Set("destination", "Oslo")
	form.Set("date", "15-06-2025")
	form.Set("passengers", "1")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/search", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "No flights found for your search. Try changing date or cities.", body["message"])
}

func TestFlightHandler_Search_ValidationError(t *testing.T) {
	mockFlights := &MockFlightUseCase{}

	router := newTestRouter()
	NewFlightHandler(mockFlights, &MockBookingUseCase{}).Register(router)

	mockFlights.On("Search", mock.Anything, mock.Anything).
		Return(nil, domain.NewValidationError("Date cannot be in the past")).Once()

	form := url.Values{}
	form.Set("origin", "London")
	form.Set("destination", "Paris")
	form.Set("date", "01-01-2020")
	form.Set("passengers", "1")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/search", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "Date cannot be in the past", body["error"])
}
