package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/avdeyev/flightbook/internal/domain"
	"github.com/avdeyev/flightbook/internal/repository"
	"golang.org/x/crypto/bcrypt"
)

type IdentityUseCase interface {
	Register(ctx context.Context, input RegisterInput) (*domain.User, error)
	Login(ctx context.Context, input LoginInput) (*domain.User, error)
	GetUser(ctx context.Context, id int64) (*domain.User, error)
}

type RegisterInput struct {
	Username  string `json:"username" form:"username"`
	FullName  string `json:"full_name" form:"full_name"`
	Email     string `json:"email" form:"email"`
	Phone     string `json:"phone" form:"phone"`
	Passport  string `json:"passport" form:"passport"`
	Password  string `json:"password" form:"password"`
	Password2 string `json:"password2" form:"password2"`
}

type LoginInput struct {
	EmailOrUsername string `json:"email_or_username" form:"email_or_username"`
	Password        string `json:"password" form:"password"`
	Remember        bool   `json:"remember" form:"remember"`
}

type IdentityService struct {
	users repository.UserRepository
}

func NewIdentityService(users repository.UserRepository) *IdentityService {
	return &IdentityService{users: users}
}

func (s *IdentityService) Register(ctx context.Context, input RegisterInput) (*domain.User, error) {
	username := strings.TrimSpace(input.Username)
	fullName := strings.TrimSpace(input.FullName)
	email := strings.TrimSpace(input.Email)
	if username == "" || fullName == "" || email == "" || input.Password == "" || input.Password2 == "" {
		return nil, domain.NewValidationError("Please fill in all required fields")
	}
	if input.Password != input.Password2 {
		return nil, domain.NewValidationError("Passwords do not match")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		Username:     username,
		PasswordHash: string(hash),
		FullName:     fullName,
		Email:        email,
		Phone:        strings.TrimSpace(input.Phone),
		Passport:     strings.TrimSpace(input.Passport),
	}
	// uniqueness of username/email/passport is enforced by the store
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *IdentityService) Login(ctx context.Context, input LoginInput) (*domain.User, error) {
	login := strings.TrimSpace(input.EmailOrUsername)
	if login == "" || input.Password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.users.FindByLogin(ctx, login)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return nil, domain.ErrInvalidCredentials
	}
	return user, nil
}

func (s *IdentityService) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	return s.users.GetByID(ctx, id)
}

var _ IdentityUseCase = (*IdentityService)(nil)
