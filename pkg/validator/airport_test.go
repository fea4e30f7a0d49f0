package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	validator := NewAirportValidator()

	cases := []struct {
		input    string
		expected string
		name     string
	}{
		{"JFK", "New York (JFK)", "Uppercase code"},
		{"jfk", "New York (JFK)", "Lowercase code"},
		{" lax ", "Los Angeles (LAX)", "Code with whitespace"},
		{"New York (JFK)", "New York (JFK)", "Full name passes through"},
		{"Chicago (ORD)", "Chicago (ORD)", "Another full name"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			normalized, err := validator.Normalize(tc.input)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, normalized)
		})
	}
}

func TestNormalize_Invalid(t *testing.T) {
	validator := NewAirportValidator()

	cases := []struct {
		input       string
		expectedErr error
		name        string
	}{
		{"", ErrEmptyCity, "Empty input"},
		{"XYZ", ErrUnknownCity, "Unknown code"},
		{"Springfield", ErrUnknownCity, "Unknown city name"},
		{"New York", ErrUnknownCity, "Full name without code suffix"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := validator.Normalize(tc.input)
			assert.ErrorIs(t, err, tc.expectedErr)
		})
	}
}

func TestIsValid(t *testing.T) {
	validator := NewAirportValidator()

	assert.True(t, validator.IsValid("SEA"))
	assert.True(t, validator.IsValid("Boston (BOS)"))
	assert.False(t, validator.IsValid("Atlantis"))
}
