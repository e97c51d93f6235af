package httputil

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	apperrors "github.com/qqtong-pm/mall/pkg/errors"
	"github.com/qqtong-pm/mall/pkg/logger"
	"github.com/qqtong-pm/mall/pkg/validator"
)

// Result codes carried in the envelope's code field.
const (
	CodeSuccess        = 200
	CodeFailed         = 500
	CodeValidateFailed = 404
)

const (
	MessageSuccess        = "operation succeeded"
	MessageFailed         = "operation failed"
	MessageValidateFailed = "parameter validation failed"
)

// CommonResult is the {code, message, data} envelope every endpoint returns.
type CommonResult struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data"`
}

// Outcome is the result of a single request. It is either a Success or a
// Failure; no other implementations exist.
type Outcome interface {
	render() (status int, body CommonResult)
}

// Success carries the payload of a successful operation. Data may be nil.
type Success struct {
	Data any
}

func (s Success) render() (int, CommonResult) {
	return http.StatusOK, CommonResult{Code: CodeSuccess, Message: MessageSuccess, Data: s.Data}
}

// Failure describes a failed operation. Status is the HTTP status; a zero
// Status means 200, which is how business failures are reported.
type Failure struct {
	Status  int
	Code    int
	Message string
	Fields  map[string]string
}

func (f Failure) render() (int, CommonResult) {
	status := f.Status
	if status == 0 {
		status = http.StatusOK
	}
	body := CommonResult{Code: f.Code, Message: f.Message}
	if len(f.Fields) > 0 {
		body.Data = f.Fields
	}
	return status, body
}

// OK wraps data in a Success.
func OK(data any) Outcome {
	return Success{Data: data}
}

// Failed is the generic business failure: HTTP 200, code 500, no data.
func Failed() Outcome {
	return Failure{Code: CodeFailed, Message: MessageFailed}
}

// ValidateFailed reports rejected input with the per-field messages.
func ValidateFailed(message string, fields map[string]string) Outcome {
	if message == "" {
		message = MessageValidateFailed
	}
	return Failure{
		Status:  http.StatusBadRequest,
		Code:    CodeValidateFailed,
		Message: message,
		Fields:  fields,
	}
}

// Write renders o as the response.
func Write(w http.ResponseWriter, o Outcome) {
	status, body := o.render()
	WriteJSON(w, status, body)
}

// WriteJSON writes a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// Headers are already sent; nothing meaningful can be done if encoding fails.
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError renders err as a Failure. Validation errors become a
// validation envelope; AppErrors keep their status; anything else is logged
// and reported as an internal error. The request-scoped logger is preferred
// over fallback when the RequestLogger middleware is mounted.
func WriteError(w http.ResponseWriter, r *http.Request, err error, fallback *slog.Logger) {
	var valErr *validator.ValidationError
	if errors.As(err, &valErr) {
		WriteValidationError(w, err)
		return
	}

	status := apperrors.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		l := logger.FromContext(r.Context())
		if l == slog.Default() && fallback != nil {
			l = fallback
		}
		l.ErrorContext(r.Context(), "request failed",
			slog.String("error", err.Error()),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
		)
	}

	Write(w, Failure{
		Status:  status,
		Code:    status,
		Message: apperrors.Message(err),
	})
}

// WriteValidationError writes a validation envelope. A *validator.ValidationError
// contributes its field map and first message; other errors contribute their text.
func WriteValidationError(w http.ResponseWriter, err error) {
	var valErr *validator.ValidationError
	if errors.As(err, &valErr) {
		Write(w, ValidateFailed(valErr.First(), valErr.Fields()))
		return
	}
	Write(w, ValidateFailed(err.Error(), nil))
}
