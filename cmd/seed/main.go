package main

import (
	"os"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/skyvoyage/flight-booking-backend/internal/config"
	"github.com/skyvoyage/flight-booking-backend/internal/database"
	"github.com/skyvoyage/flight-booking-backend/internal/models"
)

// Seeds a handful of upcoming flights and the first-time-user coupon so a
// fresh environment has something to search and book against.
func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stdout)

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.NewConnection(cfg.Database)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := database.RunMigrations(db, logger); err != nil {
		logger.Fatalf("Failed to run migrations: %v", err)
	}

	flights := database.NewFlightRepository(db)
	coupons := database.NewCouponRepository(db)

	now := time.Now().UTC()
	nextWeek := now.AddDate(0, 0, 7).Truncate(time.Hour)

	sampleFlights := []models.Flight{
		{
			FlightNumber:   "AA123",
			Airline:        "American Airlines",
			DepartureCity:  "New York (JFK)",
			ArrivalCity:    "Los Angeles (LAX)",
			DepartureTime:  nextWeek.Add(8 * time.Hour),
			ArrivalTime:    nextWeek.Add(14 * time.Hour),
			Price:          325,
			NumberOfStops:  0,
			AvailableSeats: 180,
		},
		{
			FlightNumber:   "DL456",
			Airline:        "Delta Air Lines",
			DepartureCity:  "Chicago (ORD)",
			ArrivalCity:    "Miami (MIA)",
			DepartureTime:  nextWeek.Add(10 * time.Hour),
			ArrivalTime:    nextWeek.Add(13*time.Hour + 30*time.Minute),
			Price:          210,
			NumberOfStops:  0,
			AvailableSeats: 160,
		},
		{
			FlightNumber:   "UA789",
			Airline:        "United Airlines",
			DepartureCity:  "San Francisco (SFO)",
			ArrivalCity:    "Seattle (SEA)",
			DepartureTime:  nextWeek.Add(9 * time.Hour),
			ArrivalTime:    nextWeek.Add(11 * time.Hour),
			Price:          145,
			NumberOfStops:  0,
			AvailableSeats: 140,
		},
		{
			FlightNumber:   "AS901",
			Airline:        "Alaska Airlines",
			DepartureCity:  "Boston (BOS)",
			ArrivalCity:    "Denver (DEN)",
			DepartureTime:  nextWeek.Add(7 * time.Hour),
			ArrivalTime:    nextWeek.Add(11*time.Hour + 45*time.Minute),
			Price:          280,
			NumberOfStops:  1,
			AvailableSeats: 200,
		},
	}

	for i := range sampleFlights {
		flight := &sampleFlights[i]
		if err := flights.Create(flight); err != nil {
			if database.IsUniqueViolation(err) {
				logger.WithField("flight_number", flight.FlightNumber).Info("Flight already seeded, skipping")
				continue
			}
			logger.Fatalf("Failed to seed flight %s: %v", flight.FlightNumber, err)
		}
		logger.WithFields(logrus.Fields{
			"flight_number": flight.FlightNumber,
			"departure":     flight.DepartureCity,
			"arrival":       flight.ArrivalCity,
		}).Info("Seeded flight")
	}

	coupon := &models.Coupon{
		Code:                "WELCOME10",
		DiscountPercentage:  10,
		IsFirstTimeUserOnly: true,
		ValidFrom:           now,
		ValidUntil:          now.AddDate(1, 0, 0),
		UsageLimit:          1000,
	}
	if err := coupon.Validate(); err != nil {
		logger.Fatalf("Invalid seed coupon: %v", err)
	}
	if err := coupons.Create(coupon); err != nil {
		if database.IsUniqueViolation(err) {
			logger.WithField("code", coupon.Code).Info("Coupon already seeded, skipping")
		} else {
			logger.Fatalf("Failed to seed coupon: %v", err)
		}
	} else {
		logger.WithField("code", coupon.Code).Info("Seeded coupon")
	}

	logger.Info("Seeding complete")
}
