package main

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ErrNotFound is returned when a record looked up by id is absent.
var ErrNotFound = errors.New("not found")

// ValidationError reports user input that must be fixed before any scoring or
// matching runs.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func newValidationError(field string, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return field.Name
		}
		return name
	})
	return v
}

// validateStruct runs the struct tags and reports the first failing field as a
// ValidationError. messages maps a json field name to the message shown for it.
func validateStruct(value any, messages map[string]string) error {
	err := validate.Struct(value)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return err
	}
	first := fieldErrs[0]
	field := first.Namespace()
	if _, rest, ok := strings.Cut(field, "."); ok {
		field = rest
	}
	if msg, ok := messages[field]; ok {
		return &ValidationError{Field: field, Message: msg}
	}
	return newValidationError(field, "failed %s validation", first.Tag())
}
