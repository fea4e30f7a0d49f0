package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func validFlightRequest() FlightRequest {
	departure := time.Now().Add(48 * time.Hour)
	return FlightRequest{
		FlightNumber:   "AA123",
		Airline:        "American Airlines",
		DepartureCity:  "New York (JFK)",
		ArrivalCity:    "Los Angeles (LAX)",
		DepartureTime:  departure,
		ArrivalTime:    departure.Add(6 * time.Hour),
		Price:          325,
		NumberOfStops:  0,
		AvailableSeats: 180,
	}
}

func TestFlightRequestValidate(t *testing.T) {
	t.Run("Valid", func(t *testing.T) {
		req := validFlightRequest()
		assert.NoError(t, req.Validate())
	})

	t.Run("Flight Number Format", func(t *testing.T) {
		for _, number := range []string{"A123", "AAAA123", "AA12", "AA12345", "aa123", "AA12A"} {
			req := validFlightRequest()
			req.FlightNumber = number
			assert.Error(t, req.Validate(), number)
		}
		for _, number := range []string{"AA123", "AAL1234", "UA9999"} {
			req := validFlightRequest()
			req.FlightNumber = number
			assert.NoError(t, req.Validate(), number)
		}
	})

	t.Run("Unsupported Airline", func(t *testing.T) {
		req := validFlightRequest()
		req.Airline = "Ryanair"
		err := req.Validate()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "not a supported airline")
	})

	t.Run("Arrival Before Departure", func(t *testing.T) {
		req := validFlightRequest()
		req.ArrivalTime = req.DepartureTime.Add(-time.Hour)
		assert.Error(t, req.Validate())
	})

	t.Run("Duration Bounds", func(t *testing.T) {
		req := validFlightRequest()
		req.ArrivalTime = req.DepartureTime.Add(20 * time.Minute)
		assert.Error(t, req.Validate(), "under 30 minutes")

		req = validFlightRequest()
		req.ArrivalTime = req.DepartureTime.Add(13 * time.Hour)
		assert.Error(t, req.Validate(), "over 12 hours")

		req = validFlightRequest()
		req.ArrivalTime = req.DepartureTime.Add(30 * time.Minute)
		assert.NoError(t, req.Validate(), "exactly 30 minutes")

		req = validFlightRequest()
		req.ArrivalTime = req.DepartureTime.Add(12 * time.Hour)
		assert.NoError(t, req.Validate(), "exactly 12 hours")
	})

	t.Run("Price Bounds", func(t *testing.T) {
		req := validFlightRequest()
		req.Price = 49.99
		assert.Error(t, req.Validate())

		req.Price = 10000.01
		assert.Error(t, req.Validate())

		req.Price = 50
		assert.NoError(t, req.Validate())

		req.Price = 10000
		assert.NoError(t, req.Validate())
	})

	t.Run("Stops Bounds", func(t *testing.T) {
		req := validFlightRequest()
		req.NumberOfStops = -1
		assert.Error(t, req.Validate())

		req.NumberOfStops = 4
		assert.Error(t, req.Validate())

		req.NumberOfStops = 3
		assert.NoError(t, req.Validate())
	})

	t.Run("Seat Bounds", func(t *testing.T) {
		req := validFlightRequest()
		req.AvailableSeats = 0
		assert.Error(t, req.Validate())

		req.AvailableSeats = 551
		assert.Error(t, req.Validate())

		req.AvailableSeats = 550
		assert.NoError(t, req.Validate())
	})
}

func TestHasDeparted(t *testing.T) {
	flight := Flight{DepartureTime: time.Now().Add(-time.Minute)}
	assert.True(t, flight.HasDeparted())

	flight.DepartureTime = time.Now().Add(time.Minute)
	assert.False(t, flight.HasDeparted())
}
