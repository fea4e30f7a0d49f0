package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/skyvoyage/flight-booking-backend/internal/middleware"
	"github.com/skyvoyage/flight-booking-backend/internal/models"
	"github.com/skyvoyage/flight-booking-backend/internal/services"
)

// BookingHandler handles booking lifecycle HTTP requests
type BookingHandler struct {
	bookingService *services.BookingService
	couponService  *services.CouponService
	logger         *logrus.Logger
}

// NewBookingHandler creates a new booking handler
func NewBookingHandler(
	bookingService *services.BookingService,
	couponService *services.CouponService,
	logger *logrus.Logger,
) *BookingHandler {
	return &BookingHandler{
		bookingService: bookingService,
		couponService:  couponService,
		logger:         logger,
	}
}

// respondServiceError translates booking service errors into HTTP responses
func (h *BookingHandler) respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrFlightNotFound):
		respondError(c, http.StatusNotFound, "Flight not found")
	case errors.Is(err, services.ErrBookingNotFound):
		respondError(c, http.StatusNotFound, "Booking not found")
	case errors.Is(err, services.ErrUserNotFound):
		respondError(c, http.StatusNotFound, "User not found")
	case errors.Is(err, services.ErrBookingAccessDenied):
		respondError(c, http.StatusForbidden, "You are not allowed to access this booking")
	case errors.Is(err, services.ErrFlightDeparted):
		respondError(c, http.StatusBadRequest, "Cannot book a past flight")
	case errors.Is(err, services.ErrNotEnoughSeats):
		respondError(c, http.StatusBadRequest, "Not enough seats available")
	case errors.Is(err, services.ErrAlreadyCancelled):
		respondError(c, http.StatusBadRequest, "Booking is already cancelled")
	case errors.Is(err, services.ErrCancellationWindow):
		respondError(c, http.StatusBadRequest, "Bookings cannot be cancelled within 24 hours of departure")
	case errors.Is(err, services.ErrInvalidPaymentStatus):
		respondError(c, http.StatusBadRequest, "Invalid payment status")
	default:
		h.logger.WithError(err).Error("Booking operation failed")
		respondError(c, http.StatusInternalServerError, "Something went wrong")
	}
}

// CreateBooking handles POST /api/bookings/create
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	userCtx, ok := middleware.GetUserContext(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req models.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "flightNumber and passengerDetails are required")
		return
	}
	if err := req.Validate(); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	confirmation, err := h.bookingService.CreateBooking(userCtx.UserID.String(), &req)
	if err != nil {
		h.respondServiceError(c, err)
		return
	}

	respondSuccess(c, http.StatusCreated, "Booking created successfully", confirmation)
}

// GetBooking handles GET /api/bookings/id/:bookingId
func (h *BookingHandler) GetBooking(c *gin.Context) {
	userCtx, ok := middleware.GetUserContext(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "Authentication required")
		return
	}

	detail, err := h.bookingService.GetBooking(userCtx.UserID.String(), c.Param("bookingId"))
	if err != nil {
		h.respondServiceError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, "Booking retrieved successfully", detail)
}

// CancelBooking handles PUT /api/bookings/id/:bookingId/cancel
func (h *BookingHandler) CancelBooking(c *gin.Context) {
	userCtx, ok := middleware.GetUserContext(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "Authentication required")
		return
	}

	booking, err := h.bookingService.CancelBooking(userCtx.UserID.String(), c.Param("bookingId"))
	if err != nil {
		h.respondServiceError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, "Booking cancelled successfully", booking)
}

// UpdatePaymentStatus handles PATCH /api/bookings/:bookingId/payment-status
func (h *BookingHandler) UpdatePaymentStatus(c *gin.Context) {
	userCtx, ok := middleware.GetUserContext(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req models.UpdatePaymentStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "status is required")
		return
	}

	booking, err := h.bookingService.UpdatePaymentStatus(userCtx.UserID.String(), c.Param("bookingId"), req.Status)
	if err != nil {
		h.respondServiceError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, "Payment status updated successfully", booking)
}

// GetUserBookings handles GET /api/bookings/user-bookings.
// The response keeps the {success, data} shape the frontend consumes.
func (h *BookingHandler) GetUserBookings(c *gin.Context) {
	userCtx, ok := middleware.GetUserContext(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "Authentication required")
		return
	}

	bookings, err := h.bookingService.GetUserBookings(userCtx.UserID.String())
	if err != nil {
		h.respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    bookings,
	})
}

// CouponCodes handles GET /api/bookings/coupon-codes
func (h *BookingHandler) CouponCodes(c *gin.Context) {
	userCtx, ok := middleware.GetUserContext(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "Authentication required")
		return
	}

	eligibility, err := h.couponService.CheckEligibility(userCtx.UserID.String())
	if err != nil {
		h.respondServiceError(c, err)
		return
	}

	message := eligibility.Message
	if message == "" {
		message = "Coupon code retrieved successfully"
	}
	respondSuccess(c, http.StatusOK, message, eligibility)
}
