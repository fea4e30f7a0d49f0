package database

import (
	"database/sql"

	"github.com/google/uuid"
	"github.com/skyvoyage/flight-booking-backend/internal/models"
)

// BookingRepository handles database operations for the bookings table
type BookingRepository struct {
	db DB
}

// NewBookingRepository creates a new BookingRepository
func NewBookingRepository(db DB) *BookingRepository {
	return &BookingRepository{db: db}
}

const bookingColumns = `id, user_id, flight_id, flight_number, passenger_details,
		booking_status, total_amount, payment_status, booking_date,
		created_at, updated_at`

// Create inserts a new booking in pending state
func (r *BookingRepository) Create(booking *models.Booking) error {
	query := `
		INSERT INTO bookings (
			id, user_id, flight_id, flight_number, passenger_details,
			booking_status, total_amount, payment_status
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING booking_date, created_at, updated_at
	`

	if booking.ID == "" {
		booking.ID = uuid.New().String()
	}
	if booking.BookingStatus == "" {
		booking.BookingStatus = models.BookingStatusPending
	}
	if booking.PaymentStatus == "" {
		booking.PaymentStatus = models.PaymentStatusPending
	}

	return r.db.QueryRow(
		query,
		booking.ID, booking.UserID, booking.FlightID, booking.FlightNumber,
		booking.PassengerDetails, booking.BookingStatus,
		booking.TotalAmount, booking.PaymentStatus,
	).Scan(&booking.BookingDate, &booking.CreatedAt, &booking.UpdatedAt)
}

// GetByID retrieves a booking by ID
func (r *BookingRepository) GetByID(bookingID string) (*models.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`
	return r.scanBooking(r.db.QueryRow(query, bookingID))
}

// GetByUserID retrieves all bookings for a user, newest first
func (r *BookingRepository) GetByUserID(userID string) ([]models.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE user_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.db.Query(query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	bookings := make([]models.Booking, 0)
	for rows.Next() {
		var b models.Booking
		if err := rows.Scan(
			&b.ID, &b.UserID, &b.FlightID, &b.FlightNumber, &b.PassengerDetails,
			&b.BookingStatus, &b.TotalAmount, &b.PaymentStatus, &b.BookingDate,
			&b.CreatedAt, &b.UpdatedAt,
		); err != nil {
			return nil, err
		}
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}

// UpdateStatus sets the booking and payment status of a booking
func (r *BookingRepository) UpdateStatus(bookingID string, bookingStatus models.BookingStatus, paymentStatus models.PaymentStatus) (*models.Booking, error) {
	query := `
		UPDATE bookings
		SET booking_status = $2, payment_status = $3, updated_at = now()
		WHERE id = $1
		RETURNING ` + bookingColumns

	return r.scanBooking(r.db.QueryRow(query, bookingID, bookingStatus, paymentStatus))
}

// CountByUserID returns the number of bookings a user has, any status
func (r *BookingRepository) CountByUserID(userID string) (int, error) {
	var count int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM bookings WHERE user_id = $1`, userID).Scan(&count)
	return count, err
}

// HasBookings reports whether the user has at least one booking of any status
func (r *BookingRepository) HasBookings(userID string) (bool, error) {
	count, err := r.CountByUserID(userID)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// scanBooking scans a single booking row
func (r *BookingRepository) scanBooking(row *sql.Row) (*models.Booking, error) {
	var b models.Booking
	err := row.Scan(
		&b.ID, &b.UserID, &b.FlightID, &b.FlightNumber, &b.PassengerDetails,
		&b.BookingStatus, &b.TotalAmount, &b.PaymentStatus, &b.BookingDate,
		&b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}
