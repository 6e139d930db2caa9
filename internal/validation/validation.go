// Package validation validates request DTOs with go-playground/validator.
package validation

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ErrInvalid is the sentinel matched by errors.Is for every validation failure.
var ErrInvalid = errors.New("validation failed")

// Error describes a failed validation. Message is safe to show to clients.
type Error struct {
	Message string
	Fields  []string
}

func (e *Error) Error() string {
	return e.Message
}

// Is reports ErrInvalid as the kind of every *Error.
func (e *Error) Is(target error) bool {
	return target == ErrInvalid
}

// New returns an *Error with the given client message.
func New(message string, fields ...string) *Error {
	return &Error{Message: message, Fields: fields}
}

var validate = newValidator() //nolint:gochecknoglobals

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0] //nolint:mnd
		if name == "-" {
			return ""
		}

		return name
	})

	return v
}

// Struct validates v. A failing "required" rule yields requiredMsg,
// any other failing rule a message naming the offending fields.
func Struct(v any, requiredMsg string) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err //nolint:wrapcheck
	}

	var (
		missing []string
		invalid []string
	)

	for _, fe := range verrs {
		if fe.Tag() == "required" {
			missing = append(missing, fe.Field())

			continue
		}

		invalid = append(invalid, fe.Field())
	}

	if len(missing) > 0 {
		return New(requiredMsg, missing...)
	}

	if len(invalid) == 1 && invalid[0] == "email" {
		return New("Please provide a valid email address", invalid...)
	}

	return New("Invalid value for: "+strings.Join(invalid, ", "), invalid...)
}
