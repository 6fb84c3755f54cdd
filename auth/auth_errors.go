package auth

import (
	"github.com/jrsteele09/go-flight-admin/flights"
	"github.com/jrsteele09/go-flight-admin/internal/errors"
)

// Messages shown to people when an auth operation fails.
const (
	MsgInvalidCredentials = "Invalid email or password."
	MsgInvalidToken       = "The server issued a token that could not be verified."
	MsgTokenExpired       = "Your session has expired. Please sign in again."
	MsgStorage            = "Your session could not be saved. Please try again."
	MsgEmailTaken         = "An account with that email already exists."
	MsgBackendUnavailable = "The reservation service is unavailable. Please try again later."
	MsgValidation         = "Please correct the highlighted fields."
)

// UserMessage maps an error from Login or Signup to a form-level message.
func UserMessage(err error) string {
	var apiErr *errors.APIError
	switch {
	case err == nil:
		return ""
	case errors.Is(err, errors.ErrValidation):
		return MsgValidation
	case errors.Is(err, errors.ErrInvalidCredentials):
		return MsgInvalidCredentials
	case errors.Is(err, errors.ErrInvalidToken):
		return MsgInvalidToken
	case errors.Is(err, errors.ErrTokenExpired):
		return MsgTokenExpired
	case errors.Is(err, errors.ErrStorage):
		return MsgStorage
	case errors.Is(err, errors.ErrConflict):
		return MsgEmailTaken
	case errors.As(err, &apiErr) && apiErr.StatusCode < 500 && apiErr.Message != "":
		return apiErr.Message
	}
	return MsgBackendUnavailable
}

// FieldMessages returns per-field validation messages, if err carries any.
func FieldMessages(err error) map[string]string {
	var fe flights.FieldErrors
	if errors.As(err, &fe) {
		return fe
	}
	return nil
}
