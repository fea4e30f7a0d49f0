package database

import (
	"database/sql"
	"encoding/json"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skyvoyage/flight-booking-backend/internal/models"
)

var bookingColumnNames = []string{
	"id", "user_id", "flight_id", "flight_number", "passenger_details",
	"booking_status", "total_amount", "payment_status", "booking_date",
	"created_at", "updated_at",
}

func passengersJSON(t *testing.T, passengers models.PassengerDetails) []byte {
	t.Helper()
	data, err := json.Marshal(passengers)
	require.NoError(t, err)
	return data
}

func TestCreateBooking(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mockDB := &mockDatabase{db: db}
	repo := NewBookingRepository(mockDB)

	t.Run("Defaults To Pending", func(t *testing.T) {
		now := time.Now()
		booking := &models.Booking{
			UserID:       uuid.New().String(),
			FlightID:     uuid.New().String(),
			FlightNumber: "AA123",
			PassengerDetails: models.PassengerDetails{
				{FirstName: "Jordan", LastName: "Reyes", DateOfBirth: time.Date(1990, 5, 1, 0, 0, 0, 0, time.UTC), SeatNumber: "12A"},
			},
			TotalAmount: 325,
		}

		mock.ExpectQuery(`INSERT INTO bookings`).
			WithArgs(
				sqlmock.AnyArg(), booking.UserID, booking.FlightID, "AA123",
				sqlmock.AnyArg(), models.BookingStatusPending, 325.0, models.PaymentStatusPending,
			).
			WillReturnRows(sqlmock.NewRows([]string{"booking_date", "created_at", "updated_at"}).
				AddRow(now, now, now))

		err := repo.Create(booking)
		require.NoError(t, err)
		assert.NotEmpty(t, booking.ID)
		assert.Equal(t, models.BookingStatusPending, booking.BookingStatus)
		assert.Equal(t, models.PaymentStatusPending, booking.PaymentStatus)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGetBookingsByUser(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mockDB := &mockDatabase{db: db}
	repo := NewBookingRepository(mockDB)

	t.Run("Returns Passenger Details", func(t *testing.T) {
		userID := uuid.New().String()
		now := time.Now()
		passengers := models.PassengerDetails{
			{FirstName: "Jordan", LastName: "Reyes", DateOfBirth: time.Date(1990, 5, 1, 0, 0, 0, 0, time.UTC), SeatNumber: "12A"},
			{FirstName: "Casey", LastName: "Reyes", DateOfBirth: time.Date(1992, 8, 20, 0, 0, 0, 0, time.UTC), SeatNumber: "12B"},
		}

		mock.ExpectQuery(`SELECT (.+) FROM bookings`).
			WithArgs(userID).
			WillReturnRows(sqlmock.NewRows(bookingColumnNames).AddRow(
				uuid.New().String(), userID, uuid.New().String(), "AA123",
				passengersJSON(t, passengers), models.BookingStatusPending, 650.0,
				models.PaymentStatusPending, now, now, now,
			))

		bookings, err := repo.GetByUserID(userID)
		require.NoError(t, err)
		require.Len(t, bookings, 1)
		require.Len(t, bookings[0].PassengerDetails, 2)
		assert.Equal(t, "12B", bookings[0].PassengerDetails[1].SeatNumber)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Empty Result", func(t *testing.T) {
		userID := uuid.New().String()

		mock.ExpectQuery(`SELECT (.+) FROM bookings`).
			WithArgs(userID).
			WillReturnRows(sqlmock.NewRows(bookingColumnNames))

		bookings, err := repo.GetByUserID(userID)
		require.NoError(t, err)
		assert.Empty(t, bookings)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestUpdateBookingStatus(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mockDB := &mockDatabase{db: db}
	repo := NewBookingRepository(mockDB)

	t.Run("Cancel With Refund", func(t *testing.T) {
		bookingID := uuid.New().String()
		now := time.Now()

		mock.ExpectQuery(`UPDATE bookings`).
			WithArgs(bookingID, models.BookingStatusCancelled, models.PaymentStatusRefunded).
			WillReturnRows(sqlmock.NewRows(bookingColumnNames).AddRow(
				bookingID, uuid.New().String(), uuid.New().String(), "AA123",
				passengersJSON(t, models.PassengerDetails{{FirstName: "Jordan", LastName: "Reyes", SeatNumber: "12A"}}),
				models.BookingStatusCancelled, 325.0, models.PaymentStatusRefunded, now, now, now,
			))

		booking, err := repo.UpdateStatus(bookingID, models.BookingStatusCancelled, models.PaymentStatusRefunded)
		require.NoError(t, err)
		assert.Equal(t, models.BookingStatusCancelled, booking.BookingStatus)
		assert.Equal(t, models.PaymentStatusRefunded, booking.PaymentStatus)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Not Found", func(t *testing.T) {
		bookingID := uuid.New().String()

		mock.ExpectQuery(`UPDATE bookings`).
			WithArgs(bookingID, models.BookingStatusConfirmed, models.PaymentStatusCompleted).
			WillReturnError(sql.ErrNoRows)

		booking, err := repo.UpdateStatus(bookingID, models.BookingStatusConfirmed, models.PaymentStatusCompleted)
		assert.Nil(t, booking)
		assert.ErrorIs(t, err, sql.ErrNoRows)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestHasBookings(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mockDB := &mockDatabase{db: db}
	repo := NewBookingRepository(mockDB)

	t.Run("Counts Any Status", func(t *testing.T) {
		userID := uuid.New().String()

		mock.ExpectQuery(`SELECT COUNT`).
			WithArgs(userID).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

		has, err := repo.HasBookings(userID)
		require.NoError(t, err)
		assert.True(t, has)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("No Bookings", func(t *testing.T) {
		userID := uuid.New().String()

		mock.ExpectQuery(`SELECT COUNT`).
			WithArgs(userID).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

		has, err := repo.HasBookings(userID)
		require.NoError(t, err)
		assert.False(t, has)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
