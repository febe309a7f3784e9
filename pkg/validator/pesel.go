package validator

import (
	"errors"
	"regexp"
	"strings"
)

var (
	// ErrEmptyPESEL indicates the PESEL number is empty
	ErrEmptyPESEL = errors.New("PESEL number cannot be empty")

	// ErrPESELLength indicates the PESEL number is not 11 digits
	ErrPESELLength = errors.New("PESEL number must be exactly 11 digits")

	// ErrPESELFormat indicates the PESEL number contains non-digit characters
	ErrPESELFormat = errors.New("PESEL number can only contain digits")
)

// digitsRegex matches digits only
var digitsRegex = regexp.MustCompile(`^\d+$`)

// SanitizePESEL strips spaces and dashes from a PESEL number
func SanitizePESEL(pesel string) string {
	sanitized := strings.ReplaceAll(pesel, " ", "")
	sanitized = strings.ReplaceAll(sanitized, "-", "")
	return sanitized
}

// ValidatePESEL validates a Polish national identification number.
// Accepts formats like 90010112345 or 900101 12345.
// Returns the sanitized number (digits only) and an error if invalid.
func ValidatePESEL(pesel string) (string, error) {
	if pesel == "" {
		return "", ErrEmptyPESEL
	}

	sanitized := SanitizePESEL(pesel)

	if !digitsRegex.MatchString(sanitized) {
		return "", ErrPESELFormat
	}

	if len(sanitized) != 11 {
		return "", ErrPESELLength
	}

	return sanitized, nil
}
