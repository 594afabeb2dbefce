package binder

import (
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	decimalRE = regexp.MustCompile(`^\d{1,10}(\.\d{1,2})?$`)
)

// decimalValidator ensures the value is a non-negative fixed-point decimal
// with at most two fractional digits, e.g. "5.25" or "10". Negative values
// fail because the leading minus sign isn't part of the pattern.
func decimalValidator(fl validator.FieldLevel) bool {
	return decimalRE.MatchString(fl.Field().String())
}

// notBlankValidator rejects strings that are empty after trimming whitespace.
// Rejecting these at bind time means no store write has happened yet when a
// blank nested descriptor fails a mixed payload.
func notBlankValidator(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}
