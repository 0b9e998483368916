// internal/apperr/apperr.go
package apperr

import (
	"context"
	"errors"
	"net/http"

	"gorm.io/gorm"
)

// Error is a request-scoped failure with a fixed HTTP status and a message
// safe to return to clients. Anything wrapped inside stays server-side.
type Error struct {
	Status  int
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Validation creates a 400 error for missing/malformed request fields.
func Validation(msg string) error {
	return &Error{Status: http.StatusBadRequest, Message: msg}
}

// Unauthorized creates a 401 error for missing/invalid sessions or credentials.
func Unauthorized(msg string) error {
	return &Error{Status: http.StatusUnauthorized, Message: msg}
}

// NotFound creates a 404 error for unknown users/resources.
func NotFound(msg string) error {
	return &Error{Status: http.StatusNotFound, Message: msg}
}

// Conflict creates a 409 error, e.g. duplicate signup.
func Conflict(msg string) error {
	return &Error{Status: http.StatusConflict, Message: msg}
}

// Map converts repo/infra errors into apperr errors with HTTP statuses.
// Keeps the service layer clean by centralizing error mapping.
func Map(err error) *Error {
	if err == nil {
		return nil
	}

	var appErr *Error
	switch {
	case errors.As(err, &appErr):
		return appErr

	case errors.Is(err, gorm.ErrRecordNotFound):
		return &Error{Status: http.StatusNotFound, Message: "record not found", Err: err}

	case errors.Is(err, context.DeadlineExceeded):
		return &Error{Status: http.StatusGatewayTimeout, Message: "request timed out", Err: err}

	case errors.Is(err, context.Canceled):
		return &Error{Status: 499, Message: "request was canceled", Err: err}

	default:
		// generic body, detail stays in server logs
		return &Error{Status: http.StatusInternalServerError, Message: "internal server error", Err: err}
	}
}
