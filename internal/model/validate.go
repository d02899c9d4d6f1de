// Package model provides validation for user-defined data.
package model

import (
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
	_ = validate.RegisterValidation("stitchname", validateStitchName)
}

// Validate checks a struct against its validate tags.
func Validate(v any) error {
	return validate.Struct(v)
}

// Validate checks the action fields.
func (a CustomAction) Validate() error {
	return validate.Struct(a)
}

// validateStitchName rejects names the row parser would split apart: empty,
// containing delimiters or brackets, or made only of digits.
func validateStitchName(fl validator.FieldLevel) bool {
	name := fl.Field().String()
	if name == "" {
		return false
	}
	if strings.ContainsAny(name, ",()[]×*") {
		return false
	}
	allDigits := true
	for _, r := range name {
		if unicode.IsSpace(r) {
			return false
		}
		if !unicode.IsDigit(r) {
			allDigits = false
		}
	}
	return !allDigits
}
