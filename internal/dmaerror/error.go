package dmaerror

import (
	"net/http"

	"github.com/pkg/errors"
)

type (
	// An Error represents the error format rendered by the dma server.
	// The Cause is logged but never rendered.
	Error struct {
		HTTPCode   int   `json:"-"`
		FieldError field `json:"error"`
		Cause      error `json:"-"`
	}

	field struct {
		Message string `json:"message"`
	}
)

// StatusCode returns the HTTP status code.
func StatusCode(err error) int {
	var e *Error
	if errors.As(err, &e) && e.HTTPCode != 0 {
		return e.HTTPCode
	}
	return http.StatusInternalServerError
}

// New returns a new Error with the given code and message.
func New(code int, message string) *Error {
	return &Error{HTTPCode: code, FieldError: field{Message: message}}
}

// BadRequest returns a new 400 Error with the given message.
func BadRequest(message string) *Error {
	return New(http.StatusBadRequest, message)
}

// Internal returns a new 500 Error that renders a fixed message and keeps err as cause.
func Internal(err error, message string) *Error {
	e := New(http.StatusInternalServerError, message)
	e.Cause = err
	return e
}

// Message returns the rendered message.
func (e *Error) Message() string {
	return e.FieldError.Message
}

// Error implements error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return e.FieldError.Message + ": " + e.Cause.Error()
	}
	return e.FieldError.Message
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Cause
}
