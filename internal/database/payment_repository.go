package database

import (
	"github.com/google/uuid"
	"github.com/skyvoyage/flight-booking-backend/internal/models"
)

// PaymentRepository handles database operations for the payments table
type PaymentRepository struct {
	db DB
}

// NewPaymentRepository creates a new PaymentRepository
func NewPaymentRepository(db DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

const paymentColumns = `id, user_id, booking_id, amount, currency,
		payment_intent_id, status, created_at, updated_at`

// Create inserts a new payment record for a payment intent
func (r *PaymentRepository) Create(payment *models.Payment) error {
	query := `
		INSERT INTO payments (
			id, user_id, booking_id, amount, currency, payment_intent_id, status
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at
	`

	if payment.ID == "" {
		payment.ID = uuid.New().String()
	}

	return r.db.QueryRow(
		query,
		payment.ID, payment.UserID, payment.BookingID,
		payment.Amount, payment.Currency, payment.PaymentIntentID, payment.Status,
	).Scan(&payment.CreatedAt, &payment.UpdatedAt)
}

// GetByBookingID retrieves all payment records for a booking
func (r *PaymentRepository) GetByBookingID(bookingID string) ([]models.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE booking_id = $1 ORDER BY created_at`

	rows, err := r.db.Query(query, bookingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	payments := make([]models.Payment, 0)
	for rows.Next() {
		var p models.Payment
		if err := rows.Scan(
			&p.ID, &p.UserID, &p.BookingID, &p.Amount, &p.Currency,
			&p.PaymentIntentID, &p.Status, &p.CreatedAt, &p.UpdatedAt,
		); err != nil {
			return nil, err
		}
		payments = append(payments, p)
	}
	return payments, rows.Err()
}

// UpdateStatusByIntentID sets the status of the payment matching a payment
// intent id. A webhook event for an unknown intent affects zero rows and is
// reported back so the caller can treat it as a no-op.
func (r *PaymentRepository) UpdateStatusByIntentID(paymentIntentID, status string) (int64, error) {
	result, err := r.db.Exec(
		`UPDATE payments SET status = $2, updated_at = now() WHERE payment_intent_id = $1`,
		paymentIntentID, status,
	)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

// UpdateStatusByBookingID mirrors a booking-level payment status onto the
// booking's payment record, if one exists. Zero affected rows is not an error.
func (r *PaymentRepository) UpdateStatusByBookingID(bookingID, status string) (int64, error) {
	result, err := r.db.Exec(
		`UPDATE payments SET status = $2, updated_at = now() WHERE booking_id = $1`,
		bookingID, status,
	)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

// GetByIntentID retrieves a payment by its payment intent id
func (r *PaymentRepository) GetByIntentID(paymentIntentID string) (*models.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE payment_intent_id = $1`

	var p models.Payment
	err := r.db.QueryRow(query, paymentIntentID).Scan(
		&p.ID, &p.UserID, &p.BookingID, &p.Amount, &p.Currency,
		&p.PaymentIntentID, &p.Status, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
