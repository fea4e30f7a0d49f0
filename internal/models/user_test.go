package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func validRegisterRequest() RegisterRequest {
	return RegisterRequest{
		Username:    "jordanr",
		Email:       "jordan@example.com",
		Phone:       "5551234567",
		FirstName:   "Jordan",
		LastName:    "Reyes",
		Password:    "s3cret-pass",
		Gender:      "other",
		DateOfBirth: time.Date(1990, 5, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestMissingFields(t *testing.T) {
	req := validRegisterRequest()
	assert.Empty(t, req.MissingFields())

	req.Phone = ""
	req.Password = ""
	missing := req.MissingFields()
	assert.Equal(t, []string{"phoneNumber", "password"}, missing)
}

func TestMissingFieldsMessage(t *testing.T) {
	assert.Equal(t, "email is missing", MissingFieldsMessage([]string{"email"}))
	assert.Equal(t, "email, password are missing", MissingFieldsMessage([]string{"email", "password"}))
}

func TestRegisterRequestValidate(t *testing.T) {
	t.Run("Valid", func(t *testing.T) {
		req := validRegisterRequest()
		assert.Empty(t, req.Validate())
	})

	t.Run("Bad Email", func(t *testing.T) {
		req := validRegisterRequest()
		req.Email = "not-an-email"
		problems := req.Validate()
		assert.Contains(t, problems, "Please enter a valid email address")
	})

	t.Run("Non Alphabetic Names", func(t *testing.T) {
		req := validRegisterRequest()
		req.FirstName = "J0rdan"
		req.LastName = "Reyes-Smith"
		problems := req.Validate()
		assert.Len(t, problems, 2)
	})

	t.Run("Invalid Gender", func(t *testing.T) {
		req := validRegisterRequest()
		req.Gender = "unspecified"
		problems := req.Validate()
		assert.Contains(t, problems, "unspecified is not a valid gender")
	})

	t.Run("Invalid Phone", func(t *testing.T) {
		req := validRegisterRequest()
		req.Phone = "555-123"
		problems := req.Validate()
		assert.Contains(t, problems, "Please enter a valid phone number")
	})

	t.Run("Formatted Phone Accepted", func(t *testing.T) {
		req := validRegisterRequest()
		req.Phone = "555-123-4567"
		assert.Empty(t, req.Validate())
	})

	t.Run("Collects Every Problem", func(t *testing.T) {
		req := validRegisterRequest()
		req.Email = "bad"
		req.FirstName = "123"
		req.Gender = "x"
		assert.Len(t, req.Validate(), 3)
	})
}

func TestIsAdult(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		name  string
		dob   time.Time
		adult bool
	}{
		{"Well Over 18", time.Date(1990, 5, 1, 0, 0, 0, 0, time.UTC), true},
		{"Exactly 18 Today", time.Date(2008, 9, 1, 0, 0, 0, 0, time.UTC), true},
		{"18 Tomorrow", time.Date(2008, 9, 2, 0, 0, 0, 0, time.UTC), false},
		{"Under 18", time.Date(2012, 1, 1, 0, 0, 0, 0, time.UTC), false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := validRegisterRequest()
			req.DateOfBirth = tc.dob
			assert.Equal(t, tc.adult, req.IsAdult(now))
		})
	}
}

func TestDefaultPreferences(t *testing.T) {
	prefs := DefaultPreferences()
	assert.Equal(t, "USD", prefs.Currency)
	assert.Empty(t, prefs.PreferredAirlines)
	assert.Equal(t, 0, prefs.MaxStops)
	assert.Equal(t, 24, prefs.FlightDurationRange.Max)
}

func TestUserSummary(t *testing.T) {
	user := User{ID: "u-1", Username: "jordanr", Email: "jordan@example.com", Role: RoleAdmin}
	summary := user.Summary()
	assert.Equal(t, "u-1", summary.ID)
	assert.Equal(t, "jordanr", summary.Username)
	assert.True(t, user.IsAdmin())
}
