package handlers

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/skyvoyage/flight-booking-backend/internal/database"
	"github.com/skyvoyage/flight-booking-backend/internal/middleware"
	"github.com/skyvoyage/flight-booking-backend/internal/models"
	"github.com/skyvoyage/flight-booking-backend/internal/services"
)

// PaymentHandler bridges checkout and webhook traffic to the Stripe service
type PaymentHandler struct {
	stripeService     *services.StripeService
	paymentRepository *database.PaymentRepository
	bookingRepository *database.BookingRepository
	userRepository    *database.UserRepository
	logger            *logrus.Logger
}

// NewPaymentHandler creates a new payment handler
func NewPaymentHandler(
	stripeService *services.StripeService,
	paymentRepository *database.PaymentRepository,
	bookingRepository *database.BookingRepository,
	userRepository *database.UserRepository,
	logger *logrus.Logger,
) *PaymentHandler {
	return &PaymentHandler{
		stripeService:     stripeService,
		paymentRepository: paymentRepository,
		bookingRepository: bookingRepository,
		userRepository:    userRepository,
		logger:            logger,
	}
}

// CheckoutResponse carries the client secret the frontend confirms with
type CheckoutResponse struct {
	ClientSecret string `json:"clientSecret"`
}

// Checkout handles POST /api/payments/checkout
func (h *PaymentHandler) Checkout(c *gin.Context) {
	userCtx, ok := middleware.GetUserContext(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req models.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "amount, currency and bookingId are required")
		return
	}
	if req.Amount <= 0 {
		respondError(c, http.StatusBadRequest, "amount must be a positive number of cents")
		return
	}

	booking, err := h.bookingRepository.GetByID(req.BookingID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			respondError(c, http.StatusNotFound, "Booking not found")
			return
		}
		h.logger.WithError(err).Error("Failed to load booking")
		respondError(c, http.StatusInternalServerError, "Failed to start checkout")
		return
	}
	if booking.UserID != userCtx.UserID.String() {
		respondError(c, http.StatusForbidden, "You are not allowed to pay for this booking")
		return
	}

	user, err := h.userRepository.GetByID(userCtx.UserID.String())
	if err != nil {
		h.logger.WithError(err).Error("Failed to load user")
		respondError(c, http.StatusInternalServerError, "Failed to start checkout")
		return
	}

	customer, err := h.stripeService.EnsureCustomer(
		user.ID,
		fmt.Sprintf("%s %s", user.FirstName, user.LastName),
		user.Email,
	)
	if err != nil {
		h.logger.WithError(err).Error("Failed to ensure payment customer")
		respondErrorDetail(c, http.StatusBadGateway, "Payment provider unavailable", err.Error())
		return
	}

	intent, err := h.stripeService.CreatePaymentIntent(&services.CreateIntentParams{
		Amount:     req.Amount,
		Currency:   req.Currency,
		CustomerID: customer.ID,
		BookingID:  booking.ID,
	})
	if err != nil {
		h.logger.WithError(err).Error("Failed to create payment intent")
		respondErrorDetail(c, http.StatusBadGateway, "Failed to create payment intent", err.Error())
		return
	}

	respondSuccess(c, http.StatusOK, "Checkout session created", CheckoutResponse{
		ClientSecret: intent.ClientSecret,
	})
}

// Webhook handles POST /api/payments/webhook. The body must be read raw so
// the signature check covers the exact bytes Stripe signed.
func (h *PaymentHandler) Webhook(c *gin.Context) {
	payload, err := c.GetRawData()
	if err != nil {
		respondError(c, http.StatusBadRequest, "Failed to read request body")
		return
	}

	event, err := h.stripeService.ConstructEvent(payload, c.GetHeader("Stripe-Signature"))
	if err != nil {
		h.logger.WithError(err).Warn("Webhook rejected")
		respondErrorDetail(c, http.StatusBadRequest, "Webhook signature verification failed", err.Error())
		return
	}

	intent := event.Data.Object

	switch event.Type {
	case "payment_intent.created":
		h.recordPendingPayment(&intent)
	case "payment_intent.succeeded":
		updated, err := h.paymentRepository.UpdateStatusByIntentID(intent.ID, models.PaymentRecordSuccess)
		if err != nil {
			h.logger.WithError(err).WithField("intent_id", intent.ID).Error("Failed to mark payment succeeded")
		} else if updated == 0 {
			// No local record for this intent; nothing to flip.
			h.logger.WithField("intent_id", intent.ID).Warn("Succeeded event for unknown payment intent")
		}
	case "payment_intent.payment_failed":
		h.logger.WithFields(logrus.Fields{
			"intent_id": intent.ID,
			"amount":    intent.Amount,
		}).Warn("Payment failed")
	default:
		h.logger.WithField("type", event.Type).Debug("Unhandled webhook event")
	}

	c.JSON(http.StatusOK, gin.H{"received": true})
}

func (h *PaymentHandler) recordPendingPayment(intent *services.PaymentIntent) {
	bookingID := intent.Metadata["booking"]
	if bookingID == "" {
		h.logger.WithField("intent_id", intent.ID).Warn("Payment intent created without booking metadata")
		return
	}

	booking, err := h.bookingRepository.GetByID(bookingID)
	if err != nil {
		h.logger.WithError(err).WithField("booking_id", bookingID).Warn("Payment intent references unknown booking")
		return
	}

	if existing, err := h.paymentRepository.GetByIntentID(intent.ID); err == nil && existing != nil {
		// Stripe retries deliveries; the record already exists.
		return
	}

	payment := &models.Payment{
		UserID:          booking.UserID,
		BookingID:       booking.ID,
		Amount:          intent.Amount,
		Currency:        intent.Currency,
		PaymentIntentID: intent.ID,
		Status:          models.PaymentRecordPending,
	}
	if err := h.paymentRepository.Create(payment); err != nil {
		if database.IsUniqueViolation(err) {
			// lost the race against a concurrent retry delivery
			return
		}
		h.logger.WithError(err).WithField("intent_id", intent.ID).Error("Failed to record payment")
		return
	}

	h.logger.WithFields(logrus.Fields{
		"intent_id":  intent.ID,
		"booking_id": booking.ID,
		"amount":     intent.Amount,
	}).Info("Recorded pending payment")
}
