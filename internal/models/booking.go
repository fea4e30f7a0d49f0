package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// BookingStatus represents the lifecycle state of a booking
type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCancelled BookingStatus = "cancelled"
)

// PaymentStatus represents the payment state carried on a booking
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusFailed    PaymentStatus = "failed"
	PaymentStatusRefunded  PaymentStatus = "refunded"
)

// IsValid reports whether the payment status is one of the known values
func (s PaymentStatus) IsValid() bool {
	switch s {
	case PaymentStatusPending, PaymentStatusCompleted, PaymentStatusFailed, PaymentStatusRefunded:
		return true
	}
	return false
}

// PassengerDetail holds one passenger's details on a booking
type PassengerDetail struct {
	FirstName   string    `json:"firstName"`
	LastName    string    `json:"lastName"`
	DateOfBirth time.Time `json:"dateOfBirth"`
	SeatNumber  string    `json:"seatNumber"`
}

// PassengerDetails is stored as a JSONB column
type PassengerDetails []PassengerDetail

// Value implements the driver.Valuer interface
func (p PassengerDetails) Value() (driver.Value, error) {
	if p == nil {
		return nil, nil
	}
	return json.Marshal(p)
}

// Scan implements the sql.Scanner interface
func (p *PassengerDetails) Scan(src interface{}) error {
	if src == nil {
		*p = nil
		return nil
	}
	data, ok := src.([]byte)
	if !ok {
		return fmt.Errorf("cannot scan %T into PassengerDetails", src)
	}
	return json.Unmarshal(data, p)
}

// Booking represents a passenger flight reservation
type Booking struct {
	ID               string           `json:"id" db:"id"`
	UserID           string           `json:"userId" db:"user_id"`
	FlightID         string           `json:"flightId" db:"flight_id"`
	FlightNumber     string           `json:"flightNumber" db:"flight_number"`
	PassengerDetails PassengerDetails `json:"passengerDetails" db:"passenger_details"`
	BookingStatus    BookingStatus    `json:"bookingStatus" db:"booking_status"`
	TotalAmount      float64          `json:"totalAmount" db:"total_amount"`
	PaymentStatus    PaymentStatus    `json:"paymentStatus" db:"payment_status"`
	BookingDate      time.Time        `json:"bookingDate" db:"booking_date"`
	CreatedAt        time.Time        `json:"createdAt" db:"created_at"`
	UpdatedAt        time.Time        `json:"updatedAt" db:"updated_at"`
}

// CreateBookingRequest represents the request to create a booking
type CreateBookingRequest struct {
	FlightNumber     string            `json:"flightNumber" binding:"required"`
	PassengerDetails []PassengerDetail `json:"passengerDetails" binding:"required"`
}

// Validate validates the create booking request
func (r *CreateBookingRequest) Validate() error {
	if len(r.PassengerDetails) == 0 {
		return errors.New("at least one passenger is required")
	}

	for i, p := range r.PassengerDetails {
		if p.FirstName == "" || p.LastName == "" {
			return fmt.Errorf("passenger %d: first and last name are required", i+1)
		}
		if p.DateOfBirth.IsZero() {
			return fmt.Errorf("passenger %d: date of birth is required", i+1)
		}
		if p.SeatNumber == "" {
			return fmt.Errorf("passenger %d: seat number is required", i+1)
		}
	}

	return nil
}

// UpdatePaymentStatusRequest represents the request to set a booking's payment status
type UpdatePaymentStatusRequest struct {
	Status PaymentStatus `json:"status" binding:"required"`
}

// BookingConfirmation is the payload returned after a successful booking
type BookingConfirmation struct {
	BookingID        string            `json:"bookingId"`
	FlightDetails    *Flight           `json:"flightDetails"`
	PassengerDetails []PassengerDetail `json:"passengerDetails"`
	TotalAmount      float64           `json:"totalAmount"`
	BookingStatus    BookingStatus     `json:"bookingStatus"`
}

// UserSummary is the trimmed user view embedded in booking responses
type UserSummary struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// BookingDetail is a booking enriched with its flight and owner
type BookingDetail struct {
	Booking
	Flight *Flight      `json:"flight,omitempty"`
	User   *UserSummary `json:"user,omitempty"`
}

// UserBookingEntry is one row of the user-bookings listing: the booking
// plus flight times and its payment records. Bookings without payments get
// a synthesized pending placeholder at read time. The booking-level payment
// status is shadowed out of the listing; callers read payment state from the
// payment records instead.
type UserBookingEntry struct {
	Booking
	PaymentStatus PaymentStatus    `json:"-"`
	DepartureTime *time.Time       `json:"departureTime"`
	ArrivalTime   *time.Time       `json:"arrivalTime"`
	Payments      []PaymentSummary `json:"payments"`
}
