package models

import (
	"errors"
	"fmt"
	"regexp"
	"time"
)

// SupportedAirlines lists the carriers a flight may be created under
var SupportedAirlines = []string{
	"American Airlines",
	"Delta Air Lines",
	"United Airlines",
	"Southwest Airlines",
	"JetBlue Airways",
	"Alaska Airlines",
	"Spirit Airlines",
	"Frontier Airlines",
}

// flightNumberRegex matches 2-3 uppercase letters followed by 3-4 digits
var flightNumberRegex = regexp.MustCompile(`^[A-Z]{2,3}\d{3,4}$`)

const (
	// MinFlightPrice and MaxFlightPrice bound the ticket price in dollars
	MinFlightPrice = 50
	MaxFlightPrice = 10000

	// MaxNumberOfStops caps intermediate stops
	MaxNumberOfStops = 3

	// MaxSeatCapacity is the largest supported aircraft capacity
	MaxSeatCapacity = 550

	// MinFlightDuration and MaxFlightDuration bound the scheduled duration
	MinFlightDuration = 30 * time.Minute
	MaxFlightDuration = 12 * time.Hour
)

// Flight represents a scheduled flight with its seat inventory
type Flight struct {
	ID             string    `json:"id" db:"id"`
	FlightNumber   string    `json:"flightNumber" db:"flight_number"`
	Airline        string    `json:"airline" db:"airline"`
	DepartureCity  string    `json:"departureCity" db:"departure_city"`
	ArrivalCity    string    `json:"arrivalCity" db:"arrival_city"`
	DepartureTime  time.Time `json:"departureTime" db:"departure_time"`
	ArrivalTime    time.Time `json:"arrivalTime" db:"arrival_time"`
	Price          float64   `json:"price" db:"price"`
	NumberOfStops  int       `json:"numberOfStops" db:"number_of_stops"`
	AvailableSeats int       `json:"availableSeats" db:"available_seats"`
	TotalSeats     int       `json:"totalSeats" db:"total_seats"`
	CreatedAt      time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt      time.Time `json:"updatedAt" db:"updated_at"`
}

// FlightRequest represents the request to create or replace a flight
type FlightRequest struct {
	FlightNumber   string    `json:"flightNumber" binding:"required"`
	Airline        string    `json:"airline" binding:"required"`
	DepartureCity  string    `json:"departureCity" binding:"required"`
	ArrivalCity    string    `json:"arrivalCity" binding:"required"`
	DepartureTime  time.Time `json:"departureTime" binding:"required"`
	ArrivalTime    time.Time `json:"arrivalTime" binding:"required"`
	Price          float64   `json:"price" binding:"required"`
	NumberOfStops  int       `json:"numberOfStops"`
	AvailableSeats int       `json:"availableSeats" binding:"required"`
}

// Validate validates the flight request against the inventory rules.
// City normalization is done separately by the airport validator.
func (r *FlightRequest) Validate() error {
	if !flightNumberRegex.MatchString(r.FlightNumber) {
		return errors.New("flight number must be 2-3 letters followed by 3-4 numbers")
	}

	if !IsSupportedAirline(r.Airline) {
		return fmt.Errorf("%s is not a supported airline", r.Airline)
	}

	if !r.ArrivalTime.After(r.DepartureTime) {
		return errors.New("arrival time must be after departure time")
	}

	duration := r.ArrivalTime.Sub(r.DepartureTime)
	if duration < MinFlightDuration {
		return errors.New("flight duration must be at least 30 minutes")
	}
	if duration > MaxFlightDuration {
		return errors.New("flight duration cannot exceed 12 hours for domestic flights")
	}

	if r.Price < MinFlightPrice {
		return fmt.Errorf("price must be at least $%d", MinFlightPrice)
	}
	if r.Price > MaxFlightPrice {
		return fmt.Errorf("price cannot exceed $%d", MaxFlightPrice)
	}

	if r.NumberOfStops < 0 {
		return errors.New("number of stops cannot be negative")
	}
	if r.NumberOfStops > MaxNumberOfStops {
		return fmt.Errorf("maximum %d stops allowed", MaxNumberOfStops)
	}

	if r.AvailableSeats < 1 {
		return errors.New("available seats must be at least 1")
	}
	if r.AvailableSeats > MaxSeatCapacity {
		return fmt.Errorf("available seats cannot exceed maximum aircraft capacity of %d", MaxSeatCapacity)
	}

	return nil
}

// IsSupportedAirline reports whether the airline is in the supported list
func IsSupportedAirline(airline string) bool {
	for _, a := range SupportedAirlines {
		if a == airline {
			return true
		}
	}
	return false
}

// HasDeparted reports whether the flight's departure time has passed
func (f *Flight) HasDeparted() bool {
	return f.DepartureTime.Before(time.Now())
}
