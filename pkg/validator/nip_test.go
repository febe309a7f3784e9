package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateNIP_Valid(t *testing.T) {
	validNumbers := []struct {
		input    string
		expected string
		name     string
	}{
		{"1234567890", "1234567890", "Plain digits"},
		{"123-456-78-90", "1234567890", "With dashes"},
		{"123 456 78 90", "1234567890", "With spaces"},
		{"PL1234567890", "1234567890", "With country prefix"},
		{"pl1234567890", "1234567890", "Lowercase country prefix"},
	}

	for _, tc := range validNumbers {
		t.Run(tc.name, func(t *testing.T) {
			sanitized, err := ValidateNIP(tc.input)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, sanitized)
		})
	}
}

func TestValidateNIP_Invalid(t *testing.T) {
	invalidNumbers := []struct {
		input       string
		expectedErr error
		name        string
	}{
		{"", ErrEmptyNIP, "Empty string"},
		{"   ", ErrEmptyNIP, "Whitespace only"},
		{"123456789", ErrNIPLength, "Too short"},
		{"12345678901", ErrNIPLength, "Too long"},
		{"123456789a", ErrNIPFormat, "Contains letter"},
		{"DE1234567890", ErrNIPFormat, "Wrong country prefix"},
	}

	for _, tc := range invalidNumbers {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ValidateNIP(tc.input)
			require.Error(t, err)
			assert.ErrorIs(t, err, tc.expectedErr)
		})
	}
}
