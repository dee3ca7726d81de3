// Package service holds the business rules of the booking platform: the
// login lockout guard, the three-step booking workflow and the staff
// back-office operations.  Persistence is reached through small interfaces
// satisfied by the repository package.
package service

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/iliyamo/event-booking/internal/repository"
)

// ErrNotFound aliases the repository sentinel so callers can test either.
var ErrNotFound = repository.ErrNotFound

var (
	ErrRegistrationDisabled = errors.New("registration is disabled for this event")
	ErrAccountInactive      = errors.New("account is inactive")
	ErrUsernameTaken        = errors.New("username already exists")
	ErrInvalidRefreshToken  = errors.New("invalid or expired refresh token")
)

// InvalidCredentialsError reports a failed login.  AttemptsRemaining is 0
// when no hint may be given, such as for an unknown username.
type InvalidCredentialsError struct {
	AttemptsRemaining int
}

func (e *InvalidCredentialsError) Error() string {
	if e.AttemptsRemaining > 0 {
		return fmt.Sprintf("invalid username or password, %d attempt(s) remaining", e.AttemptsRemaining)
	}
	return "invalid username or password"
}

// AccountLockedError reports that logins are refused until Until.
type AccountLockedError struct {
	Until time.Time
}

func (e *AccountLockedError) Error() string {
	return "account locked until " + e.Until.UTC().Format(time.RFC3339)
}

// ValidationError maps field names to human readable problems.
type ValidationError struct {
	Fields map[string]string
}

func (e ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// invalid builds a single-field ValidationError.
func invalid(field, msg string) ValidationError {
	return ValidationError{Fields: map[string]string{field: msg}}
}
