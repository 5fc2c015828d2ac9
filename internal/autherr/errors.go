// Package autherr defines the shared error taxonomy for the
// authentication subsystem. Components map store/IdP failures to these
// kinds at their boundary; the HTTP layer maps each kind to a status
// code exactly once.
package autherr

import (
	"errors"
	"fmt"
)

var (
	// Login / sign-up errors
	ErrInvalidCode    = errors.New("invalid or expired code")
	ErrIDTokenMissing = errors.New("id token missing from provider response")
	ErrDuplicatedUser = errors.New("user already registered")
	ErrUserNotFound   = errors.New("user not found")

	// Token errors
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
	ErrInvalidAccessToken  = errors.New("invalid access token")
	ErrMissingAccessToken  = errors.New("missing access token")
)

// NonexistentUserError is returned by Login when the IdP authenticated a
// subject that has no account yet. It carries the one-time sign-up code
// the client needs to complete registration without repeating the IdP
// exchange.
type NonexistentUserError struct {
	SignUpCode string
}

func (e *NonexistentUserError) Error() string {
	return "no account for authenticated subject"
}

// Wrapf wraps an error with context using fmt.Errorf
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}
