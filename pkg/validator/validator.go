package validator

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidate()

func newValidate() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report fields by their JSON name so messages match the request payload.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})

	// flag accepts only 0 or 1, the encoding used by every on/off column.
	_ = v.RegisterValidation("flag", func(fl validator.FieldLevel) bool {
		switch fl.Field().Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			n := fl.Field().Int()
			return n == 0 || n == 1
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			n := fl.Field().Uint()
			return n == 0 || n == 1
		default:
			return false
		}
	})

	return v
}

// Validate validates a struct using go-playground/validator tags.
func Validate(s any) error {
	if err := validate.Struct(s); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			ve := &ValidationError{}
			for _, fe := range validationErrors {
				ve.add(fe.Field(), msgForTag(fe))
			}
			return ve
		}
		return err
	}
	return nil
}

// Violation is a single field that failed validation.
type Violation struct {
	Field   string
	Message string
}

// ValidationError collects field violations in the order they were found.
type ValidationError struct {
	Violations []Violation
}

// NewFieldError builds a ValidationError for one field. Used for query and
// path parameters that are bound by hand rather than through struct tags.
func NewFieldError(field, message string) *ValidationError {
	ve := &ValidationError{}
	ve.add(field, message)
	return ve
}

func (e *ValidationError) add(field, message string) {
	e.Violations = append(e.Violations, Violation{Field: field, Message: message})
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		msgs = append(msgs, fmt.Sprintf("field '%s' %s", v.Field, v.Message))
	}
	return strings.Join(msgs, "; ")
}

// Fields returns a map of field names to error messages.
func (e *ValidationError) Fields() map[string]string {
	fields := make(map[string]string, len(e.Violations))
	for _, v := range e.Violations {
		fields[v.Field] = v.Message
	}
	return fields
}

// First returns "<field> <message>" for the first violation, or "" if there is none.
func (e *ValidationError) First() string {
	if len(e.Violations) == 0 {
		return ""
	}
	return e.Violations[0].Field + " " + e.Violations[0].Message
}

func msgForTag(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "gte":
		return fmt.Sprintf("must be greater than or equal to %s", fe.Param())
	case "lte":
		return fmt.Sprintf("must be less than or equal to %s", fe.Param())
	case "flag":
		return "must be 0 or 1"
	case "url":
		return "must be a valid URL"
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	default:
		return fmt.Sprintf("failed on '%s' validation", fe.Tag())
	}
}

// Normalizer is implemented by request payloads that tidy their own fields
// (trimming, defaults) before being validated.
type Normalizer interface {
	Normalize()
}

// DecodeAndValidate reads JSON from the request body, decodes it into dst,
// normalizes it when dst is a Normalizer, and validates it. Every failure is
// a *ValidationError; body problems are reported against the "body" field.
func DecodeAndValidate(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.Is(err, io.EOF):
			return NewFieldError("body", "is required")
		case errors.As(err, &tooLarge):
			return NewFieldError("body", fmt.Sprintf("must not exceed %d bytes", tooLarge.Limit))
		default:
			return NewFieldError("body", "must be valid JSON")
		}
	}
	if n, ok := dst.(Normalizer); ok {
		n.Normalize()
	}
	return Validate(dst)
}
