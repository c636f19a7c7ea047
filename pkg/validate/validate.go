// Package validate wraps a shared validator instance plus the input
// normalization helpers used by request DTOs.
package validate

import (
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/ttacon/libphonenumber"
)

var v = validator.New(validator.WithRequiredStructEnabled())

// Struct validates tag-annotated request structs.
func Struct(s any) error {
	return v.Struct(s)
}

// FieldErrors flattens validator errors into a field -> message map. Field
// names come from the struct's json tags when present.
func FieldErrors(err error) map[string]string {
	out := make(map[string]string)
	var verrs validator.ValidationErrors
	if ok := errorsAs(err, &verrs); !ok {
		return out
	}
	for _, fe := range verrs {
		field := strings.ToLower(fe.Field())
		switch fe.Tag() {
		case "required":
			out[field] = "is required"
		case "email":
			out[field] = "must be a valid email address"
		case "min":
			out[field] = "is too short"
		case "max":
			out[field] = "is too long"
		default:
			out[field] = "is invalid"
		}
	}
	return out
}

func errorsAs(err error, target *validator.ValidationErrors) bool {
	if err == nil {
		return false
	}
	if verrs, ok := err.(validator.ValidationErrors); ok {
		*target = verrs
		return true
	}
	return false
}

// NormalizePhone parses a phone number and returns it in E.164 form.
// defaultRegion applies when the number has no country prefix; it defaults
// to IN to match the seed locale.
func NormalizePhone(raw, defaultRegion string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", ErrEmptyPhone
	}
	if defaultRegion == "" {
		defaultRegion = "IN"
	}

	num, err := libphonenumber.Parse(raw, strings.ToUpper(defaultRegion))
	if err != nil {
		return "", err
	}
	if !libphonenumber.IsValidNumber(num) {
		return "", ErrInvalidPhone
	}
	return libphonenumber.Format(num, libphonenumber.E164), nil
}
