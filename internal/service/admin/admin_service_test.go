package admin

import (
	"context"
	"errors"
	"testing"

	"github.com/avdeyev/flightbook/config"
	"github.com/avdeyev/flightbook/internal/domain"
	"github.com/avdeyev/flightbook/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
)

type MockFlightRepository struct {
	mock.Mock
}

func (m *MockFlightRepository) List(ctx context.Context) ([]domain.Flight, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Flight), args.Error(1)
}

func (m *MockFlightRepository) GetByID(ctx context.Context, id int64) (*domain.Flight, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Flight), args.Error(1)
}

func (m *MockFlightRepository) Search(ctx context.Context, q repository.SearchQuery) ([]domain.Flight, error) {
	args := m.Called(ctx, q)
	return args.Get(0).([]domain.Flight), args.Error(1)
}

func (m *MockFlightRepository) Cities(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockFlightRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

type MockBookingRepository struct {
	mock.Mock
}

func (m *MockBookingRepository) CreateConfirmed(ctx context.Context, booking *domain.Booking, payment *domain.Payment) error {
	args := m.Called(ctx, booking, payment)
	return args.Error(0)
}

func (m *MockBookingRepository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) BookedSeats(ctx context.Context, flightID int64) ([]string, error) {
	args := m.Called(ctx, flightID)
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockBookingRepository) ListByUser(ctx context.Context, userID int64, limit int) ([]repository.BookingWithFlight, error) {
	args := m.Called(ctx, userID, limit)
	return args.Get(0).([]repository.BookingWithFlight), args.Error(1)
}

func (m *MockBookingRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) FindByLogin(ctx context.Context, emailOrUsername string) (*domain.User, error) {
	args := m.Called(ctx, emailOrUsername)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) FindByContact(ctx context.Context, email, passport string) (*domain.User, error) {
	args := m.Called(ctx, email, passport)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

type MockPaymentRepository struct {
	mock.Mock
}

func (m *MockPaymentRepository) Recent(ctx context.Context, limit int) ([]domain.Payment, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]domain.Payment), args.Error(1)
}

func (m *MockPaymentRepository) TotalAmountCents(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

type MockAdminLogRepository struct {
	mock.Mock
}

func (m *MockAdminLogRepository) Insert(ctx context.Context, entry *domain.AdminLog) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func testAccounts(t *testing.T) []config.AdminAccount {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.MinCost)
	assert.NoError(t, err)
	return []config.AdminAccount{{Username: "admin", PasswordHash: string(hash)}}
}

func TestAdminService_Login_Success(t *testing.T) {
	mockLogs := &MockAdminLogRepository{}
	service := NewAdminService(testAccounts(t), &MockFlightRepository{}, &MockBookingRepository{}, &MockUserRepository{}, &MockPaymentRepository{}, mockLogs)
	ctx := context.Background()

	mockLogs.On("Insert", ctx, mock.MatchedBy(func(entry *domain.AdminLog) bool {
		return entry.AdminUsername == "admin" && entry.Action == "Admin login"
	})).Return(nil).Once()

	err := service.Login(ctx, "admin", "admin123", "10.0.0.1")
	assert.NoError(t, err)

	mockLogs.AssertExpectations(t)
}

func TestAdminService_Login_WrongPassword(t *testing.T) {
	service := NewAdminService(testAccounts(t), &MockFlightRepository{}, &MockBookingRepository{}, &MockUserRepository{}, &MockPaymentRepository{}, &MockAdminLogRepository{})

	err := service.Login(context.Background(), "admin", "nope", "10.0.0.1")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestAdminService_Login_UnknownUsername(t *testing.T) {
	service := NewAdminService(testAccounts(t), &MockFlightRepository{}, &MockBookingRepository{}, &MockUserRepository{}, &MockPaymentRepository{}, &MockAdminLogRepository{})

	err := service.Login(context.Background(), "root", "admin123", "10.0.0.1")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestAdminService_Stats(t *testing.T) {
	mockFlights := &MockFlightRepository{}
	mockBookings := &MockBookingRepository{}
	mockUsers := &MockUserRepository{}
	mockPayments := &MockPaymentRepository{}

	service := NewAdminService(nil, mockFlights, mockBookings, mockUsers, mockPayments, &MockAdminLogRepository{})
	ctx := context.Background()

	recent := []domain.Payment{{ID: 1, BookingRef: "BK202508310001", AmountCents: 15400}}
	mockFlights.On("Count", ctx).Return(int64(365), nil).Once()
	mockBookings.On("Count", ctx).Return(int64(12), nil).Once()
	mockUsers.On("Count", ctx).Return(int64(8), nil).Once()
	mockPayments.On("TotalAmountCents", ctx).Return(int64(184800), nil).Once()
	mockPayments.On("Recent", ctx, recentPaymentsLimit).Return(recent, nil).Once()

	stats, err := service.Stats(ctx)
	assert.NoError(t, err)
	assert.Equal(t, int64(365), stats.Flights)
	assert.Equal(t, int64(12), stats.Bookings)
	assert.Equal(t, int64(8), stats.Users)
	assert.Equal(t, int64(184800), stats.RevenueCents)
	assert.Equal(t, recent, stats.RecentPayments)
}

func TestAdminService_Stats_CountError(t *testing.T) {
	mockFlights := &MockFlightRepository{}
	service := NewAdminService(nil, mockFlights, &MockBookingRepository{}, &MockUserRepository{}, &MockPaymentRepository{}, &MockAdminLogRepository{})
	ctx := context.Background()

	mockFlights.On("Count", ctx).Return(int64(0), errors.New("connection refused")).Once()

	stats, err := service.Stats(ctx)
	assert.Nil(t, stats)
	assert.Error(t, err)
}

func TestAdminService_RecordAction_InsertFailureIsNotFatal(t *testing.T) {
	mockLogs := &MockAdminLogRepository{}
	service := NewAdminService(nil, &MockFlightRepository{}, &MockBookingRepository{}, &MockUserRepository{}, &MockPaymentRepository{}, mockLogs)
	ctx := context.Background()

	mockLogs.On("Insert", ctx, mock.Anything).Return(errors.New("table missing")).Once()

	service.RecordAction(ctx, "admin", "Viewed dashboard", "10.0.0.1")

	mockLogs.AssertExpectations(t)
}
