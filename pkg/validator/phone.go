package validator

import (
	"errors"
	"regexp"
	"strings"
)

var (
	// ErrInvalidLength indicates phone number length is not 10 digits
	ErrInvalidLength = errors.New("phone number must be exactly 10 digits")

	// ErrInvalidFormat indicates phone number contains invalid characters
	ErrInvalidFormat = errors.New("phone number can only contain digits")

	// ErrEmptyPhone indicates phone number is empty
	ErrEmptyPhone = errors.New("phone number cannot be empty")
)

// phoneRegex matches digits only
var phoneRegex = regexp.MustCompile(`^\d+$`)

// PhoneValidator handles phone number validation
type PhoneValidator struct{}

// NewPhoneValidator creates a new phone validator instance
func NewPhoneValidator() *PhoneValidator {
	return &PhoneValidator{}
}

// Validate validates a 10-digit phone number.
// Accepts format: 5551234567 or 555 123 4567 or 555-123-4567
// Returns sanitized phone number (digits only) and error if invalid
func (v *PhoneValidator) Validate(phone string) (string, error) {
	// Check if empty
	if phone == "" {
		return "", ErrEmptyPhone
	}

	// Sanitize input
	sanitized := v.Sanitize(phone)

	// Check if contains only digits
	if !phoneRegex.MatchString(sanitized) {
		return "", ErrInvalidFormat
	}

	// Check length
	if len(sanitized) != 10 {
		return "", ErrInvalidLength
	}

	return sanitized, nil
}

// Sanitize removes spaces, dashes, dots and parentheses from a phone number
func (v *PhoneValidator) Sanitize(phone string) string {
	replacer := strings.NewReplacer(" ", "", "-", "", ".", "", "(", "", ")", "")
	return replacer.Replace(strings.TrimSpace(phone))
}
