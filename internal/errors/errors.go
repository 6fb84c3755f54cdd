package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Common error types for the flight admin front end
var (
	// Session errors
	ErrEmptyToken   = errors.New("empty token")
	ErrNoSession    = errors.New("no active session")
	ErrInvalidRole  = errors.New("invalid role")
	ErrTokenExpired = errors.New("token expired")
	ErrStorage      = errors.New("session storage failure")

	// Authorization errors
	ErrNotSignedIn = errors.New("not signed in")
	ErrWrongRole   = errors.New("not available for this role")

	// Authentication errors
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")

	// Backend errors
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrBackend      = errors.New("backend error")

	// Input errors
	ErrValidation = errors.New("validation failed")
)

// APIError is returned for any non-2xx response from the backend REST API.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("backend returned %d %s", e.StatusCode, http.StatusText(e.StatusCode))
	}
	return fmt.Sprintf("backend returned %d: %s", e.StatusCode, e.Message)
}

// Unwrap maps the status code onto the sentinel errors so callers can use errors.Is.
func (e *APIError) Unwrap() error {
	switch e.StatusCode {
	case http.StatusUnauthorized:
		return ErrUnauthorized
	case http.StatusForbidden:
		return ErrForbidden
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusConflict:
		return ErrConflict
	default:
		return ErrBackend
	}
}

// Wrapf wraps an error with context using fmt.Errorf
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}

// Is reports whether any error in err's chain matches target
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// Join is errors.Join re-exported so callers only import this package.
func Join(errs ...error) error {
	return errors.Join(errs...)
}
