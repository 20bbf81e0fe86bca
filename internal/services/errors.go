package services

import (
	"errors"
	"fmt"
)

// Errors surfaced to the HTTP layer. Every store failure that is not one of these
// is wrapped in ErrStoreUnavailable so raw database errors never leave the service.
var (
	ErrUnauthenticated           = errors.New("authentication required")
	ErrRecipientOrSenderNotFound = errors.New("recipient or sender not found")
	ErrValidation                = errors.New("input validation failed")
	ErrStoreUnavailable          = errors.New("message store unavailable")
	ErrUserAlreadyExists         = errors.New("user with this email already exists")
	ErrInvalidCredentials        = errors.New("invalid email or password")
	ErrHashingPassword           = errors.New("failed to hash password")
	ErrCreatingToken             = errors.New("failed to create access token")
	ErrSubjectExists             = errors.New("subject already exists")
	ErrSubjectNotFound           = errors.New("subject not found")
	ErrTutorEntryNotFound        = errors.New("tutor entry not found")
	ErrSelfMessage               = fmt.Errorf("%w: cannot send a message to yourself", ErrValidation)
	ErrEmptyBody                 = fmt.Errorf("%w: message body cannot be empty", ErrValidation)
)

// unavailable wraps an unexpected store error.
func unavailable(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrStoreUnavailable, op, err)
}
