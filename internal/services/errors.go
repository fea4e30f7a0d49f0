package services

import "errors"

// Business-rule errors surfaced by the booking, coupon and payment services.
// Handlers translate these into HTTP status codes at the boundary.
var (
	ErrFlightNotFound  = errors.New("flight not found")
	ErrBookingNotFound = errors.New("booking not found")
	ErrUserNotFound    = errors.New("user not found")

	// ErrBookingAccessDenied is returned when a booking does not belong to
	// the requesting user.
	ErrBookingAccessDenied = errors.New("unauthorized access to booking")

	// ErrFlightDeparted is returned when booking a flight whose departure
	// time has passed.
	ErrFlightDeparted = errors.New("cannot book a past flight")

	// ErrNotEnoughSeats is returned when the flight cannot seat the
	// requested passengers.
	ErrNotEnoughSeats = errors.New("not enough seats available")

	// ErrAlreadyCancelled is returned when cancelling a cancelled booking.
	ErrAlreadyCancelled = errors.New("booking is already cancelled")

	// ErrCancellationWindow is returned when cancelling within 24 hours of
	// departure.
	ErrCancellationWindow = errors.New("cannot cancel booking within 24 hours of departure")

	// ErrInvalidPaymentStatus is returned for unknown payment status values.
	ErrInvalidPaymentStatus = errors.New("invalid payment status")
)
