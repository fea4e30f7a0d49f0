package models

import "time"

// Payment statuses mirror the processor-side lifecycle. The webhook flips a
// pending payment to "success"; the booking-level payment status is a
// separate field updated through the booking endpoints.
const (
	PaymentRecordPending = "pending"
	PaymentRecordSuccess = "success"
)

// Payment is a satellite record tracking one payment intent for a booking
type Payment struct {
	ID              string    `json:"id" db:"id"`
	UserID          string    `json:"userId" db:"user_id"`
	BookingID       string    `json:"bookingId" db:"booking_id"`
	Amount          int64     `json:"amount" db:"amount"` // minor units (cents)
	Currency        string    `json:"currency" db:"currency"`
	PaymentIntentID string    `json:"paymentIntentId" db:"payment_intent_id"`
	Status          string    `json:"status" db:"status"`
	CreatedAt       time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt       time.Time `json:"updatedAt" db:"updated_at"`
}

// PaymentSummary is the payment view embedded in booking listings.
// Currency is a pointer so the synthesized placeholder can carry null.
type PaymentSummary struct {
	Status   string  `json:"status"`
	Amount   int64   `json:"amount"`
	Currency *string `json:"currency"`
}

// PlaceholderPayment is the read-time default for bookings that have no
// payment records yet. It is never persisted.
func PlaceholderPayment() PaymentSummary {
	return PaymentSummary{Status: PaymentRecordPending, Amount: 0, Currency: nil}
}

// CheckoutRequest represents the request to create a payment intent
type CheckoutRequest struct {
	Amount    int64  `json:"amount" binding:"required"` // minor units (cents)
	Currency  string `json:"currency" binding:"required"`
	BookingID string `json:"bookingId" binding:"required"`
}
