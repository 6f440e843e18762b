package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Error represents a typed client error with HTTP awareness.
type Error struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Status  int         `json:"status"`
	Payload interface{} `json:"payload,omitempty"`
	Err     error       `json:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Is reports whether target carries the same code, so clones still match their sentinel.
func (e *Error) Is(target error) bool {
	var t *Error
	if e == nil || !errors.As(target, &t) || t == nil {
		return false
	}
	return e.Code == t.Code
}

// New creates a new Error instance.
func New(code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message}
}

// Wrap attaches context to an existing error.
func Wrap(err error, code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message, Err: err}
}

// Predefined errors for the client workflows.
var (
	ErrValidation    = New("VALIDATION_ERROR", http.StatusBadRequest, "validation failed")
	ErrAlreadyJoined = New("ALREADY_JOINED", http.StatusConflict, "you have already joined this classroom")
	ErrAuthRequired  = New("AUTH_REQUIRED", http.StatusUnauthorized, "please login first")
	ErrRemote        = New("REMOTE_ERROR", http.StatusBadGateway, "remote service request failed")
	ErrStorage       = New("STORAGE_ERROR", http.StatusInternalServerError, "local storage failure")
	ErrNotFound      = New("NOT_FOUND", http.StatusNotFound, "resource not found")
	ErrInternal      = New("INTERNAL_ERROR", http.StatusInternalServerError, "internal error")
	ErrCacheMiss     = New("CACHE_MISS", http.StatusNotFound, "key not found")
)

// FromError normalises any error into an *Error.
func FromError(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Wrap(err, ErrInternal.Code, ErrInternal.Status, ErrInternal.Message)
}

// Clone returns a copy of the error allowing for message overrides.
func Clone(err *Error, message string) *Error {
	if err == nil {
		return nil
	}
	clone := *err
	if message != "" {
		clone.Message = message
	}
	return &clone
}

// Storage wraps a persistence failure for the given key.
func Storage(err error, op, key string) *Error {
	return Wrap(err, ErrStorage.Code, ErrStorage.Status, fmt.Sprintf("%s %s", op, key))
}

// Remote builds a REMOTE_ERROR carrying the upstream status and payload.
func Remote(err error, status int, message string, payload interface{}) *Error {
	e := Wrap(err, ErrRemote.Code, ErrRemote.Status, message)
	if status >= 400 {
		e.Status = status
	}
	e.Payload = payload
	return e
}
