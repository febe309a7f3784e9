package validator

import (
	"errors"
	"strings"
)

var (
	// ErrEmptyNIP indicates the NIP number is empty
	ErrEmptyNIP = errors.New("NIP number cannot be empty")

	// ErrNIPLength indicates the NIP number is not 10 digits
	ErrNIPLength = errors.New("NIP number must be exactly 10 digits")

	// ErrNIPFormat indicates the NIP number contains non-digit characters
	ErrNIPFormat = errors.New("NIP number can only contain digits")
)

// SanitizeNIP strips spaces, dashes and an optional PL prefix from a NIP number
func SanitizeNIP(nip string) string {
	sanitized := strings.ToUpper(strings.TrimSpace(nip))
	sanitized = strings.TrimPrefix(sanitized, "PL")
	sanitized = strings.ReplaceAll(sanitized, " ", "")
	sanitized = strings.ReplaceAll(sanitized, "-", "")
	return sanitized
}

// ValidateNIP validates a Polish company tax identification number.
// Accepts formats like 1234567890, 123-456-78-90 or PL1234567890.
// Returns the sanitized number (digits only) and an error if invalid.
func ValidateNIP(nip string) (string, error) {
	if strings.TrimSpace(nip) == "" {
		return "", ErrEmptyNIP
	}

	sanitized := SanitizeNIP(nip)

	if !digitsRegex.MatchString(sanitized) {
		return "", ErrNIPFormat
	}

	if len(sanitized) != 10 {
		return "", ErrNIPLength
	}

	return sanitized, nil
}
