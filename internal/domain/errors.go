package domain

import "errors"

var (
	ErrNotFound           = errors.New("not found")
	ErrFlightUnavailable  = errors.New("flight is no longer available")
	ErrSeatTaken          = errors.New("seat is already booked")
	ErrDuplicateRef       = errors.New("booking reference already exists")
	ErrDuplicateUser      = errors.New("an account with these details already exists")
	ErrInvalidCredentials = errors.New("invalid login credentials")
)

// ValidationError carries a message safe to show to the user.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func NewValidationError(msg string) error {
	return &ValidationError{Message: msg}
}

func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
