package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/skyvoyage/flight-booking-backend/pkg/validator"
)

// UserRole gates access to admin-only operations
type UserRole string

const (
	RoleUser  UserRole = "user"
	RoleAdmin UserRole = "admin"
)

var (
	emailRegex = regexp.MustCompile(`^\w+([.-]?\w+)*@\w+([.-]?\w+)*(\.\w{2,3})+$`)
	nameRegex  = regexp.MustCompile(`^[A-Za-z]+$`)

	phoneValidator = validator.NewPhoneValidator()
)

// FlightDurationRange bounds preferred flight durations in hours
type FlightDurationRange struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// Preferences holds a user's search preferences, stored as JSONB
type Preferences struct {
	Currency            string              `json:"currency"`
	PreferredAirlines   []string            `json:"preferredAirlines"`
	MaxStops            int                 `json:"maxStops"`
	FlightDurationRange FlightDurationRange `json:"flightDurationRange"`
}

// DefaultPreferences returns the preferences assigned to new users
func DefaultPreferences() Preferences {
	return Preferences{
		Currency:            "USD",
		PreferredAirlines:   []string{},
		MaxStops:            0,
		FlightDurationRange: FlightDurationRange{Min: 0, Max: 24},
	}
}

// Value implements the driver.Valuer interface
func (p Preferences) Value() (driver.Value, error) {
	return json.Marshal(p)
}

// Scan implements the sql.Scanner interface
func (p *Preferences) Scan(src interface{}) error {
	if src == nil {
		*p = DefaultPreferences()
		return nil
	}
	data, ok := src.([]byte)
	if !ok {
		return fmt.Errorf("cannot scan %T into Preferences", src)
	}
	return json.Unmarshal(data, p)
}

// User represents a registered account
type User struct {
	ID           string      `json:"id" db:"id"`
	Username     string      `json:"username" db:"username"`
	Email        string      `json:"email" db:"email"`
	FirstName    string      `json:"firstName" db:"first_name"`
	LastName     string      `json:"lastName" db:"last_name"`
	Phone        string      `json:"phone" db:"phone"`
	Gender       string      `json:"gender" db:"gender"`
	DateOfBirth  time.Time   `json:"dateOfBirth" db:"date_of_birth"`
	PasswordHash string      `json:"-" db:"password_hash"`
	Preferences  Preferences `json:"preferences" db:"preferences"`
	Role         UserRole    `json:"userRole" db:"role"`
	CreatedAt    time.Time   `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time   `json:"updatedAt" db:"updated_at"`
}

// Summary returns the trimmed view embedded in booking and auth responses
func (u *User) Summary() *UserSummary {
	return &UserSummary{ID: u.ID, Username: u.Username, Email: u.Email}
}

// IsAdmin reports whether the user holds the admin role
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// RegisterRequest represents the sign-up request body
type RegisterRequest struct {
	Username    string    `json:"username"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone"`
	FirstName   string    `json:"firstName"`
	LastName    string    `json:"lastName"`
	Password    string    `json:"password"`
	Gender      string    `json:"gender"`
	DateOfBirth time.Time `json:"dateOfBirth"`
}

// MissingFields returns the names of required fields absent from the request
func (r *RegisterRequest) MissingFields() []string {
	var missing []string
	if r.Username == "" {
		missing = append(missing, "username")
	}
	if r.Email == "" {
		missing = append(missing, "email")
	}
	if r.Phone == "" {
		missing = append(missing, "phoneNumber")
	}
	if r.FirstName == "" {
		missing = append(missing, "firstName")
	}
	if r.LastName == "" {
		missing = append(missing, "lastName")
	}
	if r.Password == "" {
		missing = append(missing, "password")
	}
	if r.Gender == "" {
		missing = append(missing, "gender")
	}
	if r.DateOfBirth.IsZero() {
		missing = append(missing, "dateOfBirth")
	}
	return missing
}

// MissingFieldsMessage builds the human-readable missing-fields message
func MissingFieldsMessage(fields []string) string {
	verb := "is"
	if len(fields) > 1 {
		verb = "are"
	}
	return fmt.Sprintf("%s %s missing", strings.Join(fields, ", "), verb)
}

// Validate validates field formats and returns every violation found,
// mirroring field-level schema validation messages.
func (r *RegisterRequest) Validate() []string {
	var problems []string

	if !emailRegex.MatchString(r.Email) {
		problems = append(problems, "Please enter a valid email address")
	}
	if !nameRegex.MatchString(r.FirstName) {
		problems = append(problems, "First name must contain only alphabetic characters")
	}
	if !nameRegex.MatchString(r.LastName) {
		problems = append(problems, "Last name must contain only alphabetic characters")
	}
	if r.Gender != "male" && r.Gender != "female" && r.Gender != "other" {
		problems = append(problems, fmt.Sprintf("%s is not a valid gender", r.Gender))
	}
	if _, err := phoneValidator.Validate(r.Phone); err != nil {
		problems = append(problems, "Please enter a valid phone number")
	}

	return problems
}

// IsAdult reports whether the date of birth corresponds to age 18 or over
func (r *RegisterRequest) IsAdult(now time.Time) bool {
	age := now.Year() - r.DateOfBirth.Year()
	if now.Month() < r.DateOfBirth.Month() ||
		(now.Month() == r.DateOfBirth.Month() && now.Day() < r.DateOfBirth.Day()) {
		age--
	}
	return age >= 18
}

// LoginRequest represents the login request body
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// UpdateProfileRequest represents the edit-user request body
type UpdateProfileRequest struct {
	Username    string    `json:"username"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone"`
	FirstName   string    `json:"firstName"`
	LastName    string    `json:"lastName"`
	Gender      string    `json:"gender"`
	DateOfBirth time.Time `json:"dateOfBirth"`
}

// MissingFields returns the names of required fields absent from the request
func (r *UpdateProfileRequest) MissingFields() []string {
	var missing []string
	if r.Username == "" {
		missing = append(missing, "username")
	}
	if r.Email == "" {
		missing = append(missing, "email")
	}
	if r.Phone == "" {
		missing = append(missing, "phone")
	}
	if r.FirstName == "" {
		missing = append(missing, "firstName")
	}
	if r.LastName == "" {
		missing = append(missing, "lastName")
	}
	if r.Gender == "" {
		missing = append(missing, "gender")
	}
	if r.DateOfBirth.IsZero() {
		missing = append(missing, "dateOfBirth")
	}
	return missing
}

// ErrNotAdult is returned when a registrant is under 18
var ErrNotAdult = errors.New("user must be at least 18 years old")
