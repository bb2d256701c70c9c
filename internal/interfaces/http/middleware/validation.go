package middleware

import (
	"errors"
	"reflect"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// txnRefPattern matches the 16-character alphanumeric correlation references
// attached to transactions, orders and subscriptions
var txnRefPattern = regexp.MustCompile(`^[A-Za-z0-9]{16}$`)

// SetupValidator registers custom validation tags on gin's binding validator
// and makes validation errors report JSON field names instead of Go struct
// field names
func SetupValidator() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			name = strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		}
		return name
	})

	// txnref validates a payment correlation reference
	_ = v.RegisterValidation("txnref", func(fl validator.FieldLevel) bool {
		return txnRefPattern.MatchString(fl.Field().String())
	})
}

// FormatValidationError reduces a binding failure to a single human-readable
// message naming the first offending field
func FormatValidationError(err error) string {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) || len(validationErrors) == 0 {
		return "Request validation failed"
	}
	e := validationErrors[0]
	return "Field " + e.Field() + ": " + validationMessage(e)
}

// validationMessage returns a human-readable message for one field error
func validationMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "this field is required"
	case "email":
		return "invalid email format"
	case "min":
		return "must be at least " + e.Param()
	case "max":
		return "must be at most " + e.Param()
	case "len":
		return "must be exactly " + e.Param() + " characters"
	case "oneof":
		return "must be one of: " + e.Param()
	case "gt":
		return "must be greater than " + e.Param()
	case "url":
		return "invalid URL format"
	case "txnref":
		return "invalid transaction reference format"
	default:
		return "invalid value"
	}
}
