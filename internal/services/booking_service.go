package services

import (
	"database/sql"
	"errors"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/skyvoyage/flight-booking-backend/internal/database"
	"github.com/skyvoyage/flight-booking-backend/internal/models"
)

// CancellationWindow is the minimum time before departure a booking may
// still be cancelled.
const CancellationWindow = 24 * time.Hour

// BookingService owns the booking lifecycle: creation with seat
// reservation, cancellation with seat release, and payment status updates.
type BookingService struct {
	bookings *database.BookingRepository
	flights  *database.FlightRepository
	payments *database.PaymentRepository
	users    *database.UserRepository
	logger   *logrus.Logger
}

// NewBookingService creates a new BookingService
func NewBookingService(
	bookings *database.BookingRepository,
	flights *database.FlightRepository,
	payments *database.PaymentRepository,
	users *database.UserRepository,
	logger *logrus.Logger,
) *BookingService {
	return &BookingService{
		bookings: bookings,
		flights:  flights,
		payments: payments,
		users:    users,
		logger:   logger,
	}
}

// CreateBooking reserves seats on a flight and records the booking.
//
// Seats are taken first through the conditional seat adjustment, so two
// concurrent requests can never both pass an availability check and
// oversell; the losing request fails with ErrNotEnoughSeats and mutates
// nothing. If the booking insert fails after seats were taken, the seats
// are released again as a compensating step.
func (s *BookingService) CreateBooking(userID string, req *models.CreateBookingRequest) (*models.BookingConfirmation, error) {
	flight, err := s.flights.GetByNumber(req.FlightNumber)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrFlightNotFound
		}
		return nil, err
	}

	if flight.HasDeparted() {
		return nil, ErrFlightDeparted
	}

	passengerCount := len(req.PassengerDetails)
	if passengerCount > flight.AvailableSeats {
		return nil, ErrNotEnoughSeats
	}

	updatedFlight, err := s.flights.AdjustSeats(req.FlightNumber, -passengerCount)
	if err != nil {
		if errors.Is(err, database.ErrSeatsUnavailable) {
			return nil, ErrNotEnoughSeats
		}
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrFlightNotFound
		}
		return nil, err
	}

	totalAmount := flight.Price * float64(passengerCount)

	booking := &models.Booking{
		UserID:           userID,
		FlightID:         flight.ID,
		FlightNumber:     flight.FlightNumber,
		PassengerDetails: req.PassengerDetails,
		TotalAmount:      totalAmount,
	}

	if err := s.bookings.Create(booking); err != nil {
		// Release the seats we just took.
		if _, releaseErr := s.flights.AdjustSeats(req.FlightNumber, passengerCount); releaseErr != nil {
			s.logger.WithError(releaseErr).WithFields(logrus.Fields{
				"flight_number": req.FlightNumber,
				"seats":         passengerCount,
			}).Error("Failed to release seats after booking insert failure")
		}
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"booking_id":    booking.ID,
		"flight_number": flight.FlightNumber,
		"passengers":    passengerCount,
		"total_amount":  totalAmount,
	}).Info("Booking created")

	return &models.BookingConfirmation{
		BookingID:        booking.ID,
		FlightDetails:    updatedFlight,
		PassengerDetails: req.PassengerDetails,
		TotalAmount:      totalAmount,
		BookingStatus:    booking.BookingStatus,
	}, nil
}

// CancelBooking cancels a booking owned by the user and restores its seats.
// Cancellation is refused within 24 hours of departure and on bookings that
// are already cancelled, so seats are restored at most once.
func (s *BookingService) CancelBooking(userID, bookingID string) (*models.Booking, error) {
	booking, err := s.bookings.GetByID(bookingID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}

	if booking.UserID != userID {
		return nil, ErrBookingAccessDenied
	}

	if booking.BookingStatus == models.BookingStatusCancelled {
		return nil, ErrAlreadyCancelled
	}

	flight, err := s.flights.GetByID(booking.FlightID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrFlightNotFound
		}
		return nil, err
	}

	if time.Until(flight.DepartureTime) < CancellationWindow {
		return nil, ErrCancellationWindow
	}

	updated, err := s.bookings.UpdateStatus(bookingID, models.BookingStatusCancelled, models.PaymentStatusRefunded)
	if err != nil {
		return nil, err
	}

	if _, err := s.flights.AdjustSeats(booking.FlightNumber, len(booking.PassengerDetails)); err != nil {
		s.logger.WithError(err).WithFields(logrus.Fields{
			"booking_id":    bookingID,
			"flight_number": booking.FlightNumber,
		}).Error("Failed to restore seats after cancellation")
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"booking_id": bookingID,
		"seats":      len(booking.PassengerDetails),
	}).Info("Booking cancelled, seats restored")

	return updated, nil
}

// UpdatePaymentStatus sets a booking's payment status, marks the booking
// confirmed, and mirrors the status onto the booking's payment record when
// one exists.
func (s *BookingService) UpdatePaymentStatus(userID, bookingID string, status models.PaymentStatus) (*models.Booking, error) {
	if !status.IsValid() {
		return nil, ErrInvalidPaymentStatus
	}

	booking, err := s.bookings.GetByID(bookingID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}

	if booking.UserID != userID {
		return nil, ErrBookingAccessDenied
	}

	updated, err := s.bookings.UpdateStatus(bookingID, models.BookingStatusConfirmed, status)
	if err != nil {
		return nil, err
	}

	mirrored, err := s.payments.UpdateStatusByBookingID(bookingID, string(status))
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"booking_id":        bookingID,
		"payment_status":    status,
		"payments_mirrored": mirrored,
	}).Info("Payment status updated")

	return updated, nil
}

// GetBooking fetches one booking with its flight and owner summary,
// refusing access to bookings of other users.
func (s *BookingService) GetBooking(userID, bookingID string) (*models.BookingDetail, error) {
	booking, err := s.bookings.GetByID(bookingID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}

	if booking.UserID != userID {
		return nil, ErrBookingAccessDenied
	}

	detail := &models.BookingDetail{Booking: *booking}

	if flight, err := s.flights.GetByID(booking.FlightID); err == nil {
		detail.Flight = flight
	}
	if user, err := s.users.GetByID(booking.UserID); err == nil {
		detail.User = user.Summary()
	}

	return detail, nil
}

// GetUserBookings lists every booking for a user, each enriched with its
// flight's departure/arrival times and payment records. A booking without
// payment records gets a synthesized pending placeholder.
func (s *BookingService) GetUserBookings(userID string) ([]models.UserBookingEntry, error) {
	bookings, err := s.bookings.GetByUserID(userID)
	if err != nil {
		return nil, err
	}

	entries := make([]models.UserBookingEntry, 0, len(bookings))
	for _, booking := range bookings {
		entry := models.UserBookingEntry{Booking: booking}

		if flight, err := s.flights.GetByID(booking.FlightID); err == nil {
			departure, arrival := flight.DepartureTime, flight.ArrivalTime
			entry.DepartureTime = &departure
			entry.ArrivalTime = &arrival
		}

		payments, err := s.payments.GetByBookingID(booking.ID)
		if err != nil {
			return nil, err
		}

		if len(payments) == 0 {
			entry.Payments = []models.PaymentSummary{models.PlaceholderPayment()}
		} else {
			entry.Payments = make([]models.PaymentSummary, 0, len(payments))
			for _, p := range payments {
				currency := p.Currency
				entry.Payments = append(entry.Payments, models.PaymentSummary{
					Status:   p.Status,
					Amount:   p.Amount,
					Currency: &currency,
				})
			}
		}

		entries = append(entries, entry)
	}

	return entries, nil
}

// IsFirstTimeCustomer reports whether the user has no bookings of any status
func (s *BookingService) IsFirstTimeCustomer(userID string) (bool, error) {
	count, err := s.bookings.CountByUserID(userID)
	if err != nil {
		return false, err
	}
	return count == 0, nil
}
