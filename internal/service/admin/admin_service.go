package admin

import (
	"context"
	"log"

	"github.com/avdeyev/flightbook/config"
	"github.com/avdeyev/flightbook/internal/domain"
	"github.com/avdeyev/flightbook/internal/repository"
	"golang.org/x/crypto/bcrypt"
)

const recentPaymentsLimit = 5

type AdminUseCase interface {
	Login(ctx context.Context, username, password, ip string) error
	Logout(ctx context.Context, username, ip string)
	Stats(ctx context.Context) (*DashboardStats, error)
	RecordAction(ctx context.Context, username, action, ip string)
}

// DashboardStats is the read-only aggregation shown on the admin dashboard.
type DashboardStats struct {
	Flights        int64            `json:"flights"`
	Bookings       int64            `json:"bookings"`
	Users          int64            `json:"users"`
	RevenueCents   int64            `json:"revenue_cents"`
	RecentPayments []domain.Payment `json:"recent_payments"`
}

type AdminService struct {
	accounts []config.AdminAccount
	flights  repository.FlightRepository
	bookings repository.BookingRepository
	users    repository.UserRepository
	payments repository.PaymentRepository
	logs     repository.AdminLogRepository
}

func NewAdminService(
	accounts []config.AdminAccount,
	flights repository.FlightRepository,
	bookings repository.BookingRepository,
	users repository.UserRepository,
	payments repository.PaymentRepository,
	logs repository.AdminLogRepository,
) *AdminService {
	return &AdminService{
		accounts: accounts,
		flights:  flights,
		bookings: bookings,
		users:    users,
		payments: payments,
		logs:     logs,
	}
}

// Login checks the configured credential set. Admin accounts are not
// self-service; they only exist in configuration.
func (s *AdminService) Login(ctx context.Context, username, password, ip string) error {
	for _, account := range s.accounts {
		if account.Username != username {
			continue
		}
		if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
			return domain.ErrInvalidCredentials
		}
		s.RecordAction(ctx, username, "Admin login", ip)
		return nil
	}
	return domain.ErrInvalidCredentials
}

func (s *AdminService) Logout(ctx context.Context, username, ip string) {
	s.RecordAction(ctx, username, "Admin logout", ip)
}

func (s *AdminService) Stats(ctx context.Context) (*DashboardStats, error) {
	stats := &DashboardStats{}
	var err error

	if stats.Flights, err = s.flights.Count(ctx); err != nil {
		return nil, err
	}
	if stats.Bookings, err = s.bookings.Count(ctx); err != nil {
		return nil, err
	}
	if stats.Users, err = s.users.Count(ctx); err != nil {
		return nil, err
	}
	if stats.RevenueCents, err = s.payments.TotalAmountCents(ctx); err != nil {
		return nil, err
	}
	if stats.RecentPayments, err = s.payments.Recent(ctx, recentPaymentsLimit); err != nil {
		return nil, err
	}
	return stats, nil
}

// RecordAction writes the audit row. Audit failures are logged, never fatal.
func (s *AdminService) RecordAction(ctx context.Context, username, action, ip string) {
	entry := &domain.AdminLog{AdminUsername: username, Action: action, IPAddress: ip}
	if err := s.logs.Insert(ctx, entry); err != nil {
		log.Printf("record admin action %q for %s: %v", action, username, err)
	}
}

var _ AdminUseCase = (*AdminService)(nil)
