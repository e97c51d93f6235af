package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors shared across the brand service layers.
var (
	ErrNotFound      = errors.New("resource not found")
	ErrAlreadyExists = errors.New("resource already exists")
	ErrInvalidInput  = errors.New("invalid input")
)

// internalMessage is what clients see for anything that is not an AppError.
const internalMessage = "an internal error occurred"

// kinds maps each sentinel to its wire code and HTTP status.
var kinds = []struct {
	sentinel error
	code     string
	status   int
}{
	{ErrNotFound, "NOT_FOUND", http.StatusNotFound},
	{ErrAlreadyExists, "ALREADY_EXISTS", http.StatusConflict},
	{ErrInvalidInput, "INVALID_INPUT", http.StatusBadRequest},
}

// AppError is an error that knows which HTTP status it maps to.
type AppError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"-"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func newAppError(sentinel error, message string) *AppError {
	for _, k := range kinds {
		if k.sentinel == sentinel {
			return &AppError{Code: k.code, Message: message, Status: k.status, Err: sentinel}
		}
	}
	return &AppError{Code: "INTERNAL_ERROR", Message: internalMessage, Status: http.StatusInternalServerError, Err: sentinel}
}

// NotFound reports a missing resource addressed by id.
func NotFound(resource string, id any) *AppError {
	return newAppError(ErrNotFound, fmt.Sprintf("%s with id %v not found", resource, id))
}

// AlreadyExists reports a unique-key clash.
func AlreadyExists(resource, field, value string) *AppError {
	return newAppError(ErrAlreadyExists, fmt.Sprintf("%s with %s %q already exists", resource, field, value))
}

// InvalidInput reports a request the store refuses to act on.
func InvalidInput(message string) *AppError {
	return newAppError(ErrInvalidInput, message)
}

// HTTPStatus returns the HTTP status code for err.
func HTTPStatus(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Status
	}
	for _, k := range kinds {
		if errors.Is(err, k.sentinel) {
			return k.status
		}
	}
	return http.StatusInternalServerError
}

// Message returns the client-safe message for err. Errors that are not an
// AppError never leak their text.
func Message(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	for _, k := range kinds {
		if errors.Is(err, k.sentinel) {
			return k.sentinel.Error()
		}
	}
	return internalMessage
}
