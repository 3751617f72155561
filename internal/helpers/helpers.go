package helpers

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

const (
	ListingFolder = "listings"

	DefaultAvatar = "https://cdn.pixabay.com/photo/2015/10/05/22/37/blank-profile-picture-973460_1280.png"
)

func StringTrim(s string) string {
	return strings.TrimSpace(s)
}

// NormalizeEmail lower-cases and trims an email so that uniqueness checks
// are case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// SearchPattern turns free text into a case-insensitive substring regex with
// all metacharacters escaped.
func SearchPattern(term string) string {
	return regexp.QuoteMeta(strings.TrimSpace(term))
}

// ValidationMessage renders the first validator error as a short message a
// client can show next to the offending field.
func ValidationMessage(err error) string {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) || len(validationErrs) == 0 {
		return "invalid input data"
	}

	fe := validationErrs[0]
	field := lowerFirst(fe.Field())
	param := fe.Param()

	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "min", "gte":
		if fe.Kind().String() == "slice" {
			return fmt.Sprintf("%s must contain at least %s item(s)", field, param)
		}
		return fmt.Sprintf("%s must be at least %s", field, param)
	case "max", "lte":
		if fe.Kind().String() == "slice" {
			return fmt.Sprintf("%s must contain at most %s item(s)", field, param)
		}
		return fmt.Sprintf("%s must be at most %s", field, param)
	case "maxbytes":
		return fmt.Sprintf("%s must be at most %s bytes", field, param)
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, param)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, param)
	case "email":
		return field + " must be a valid email address"
	case "url", "http_url":
		return field + " must contain valid URLs"
	case "alphanum":
		return field + " may only contain letters and digits"
	default:
		return field + " is invalid"
	}
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
