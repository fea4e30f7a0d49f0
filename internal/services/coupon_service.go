package services

import (
	"database/sql"
	"errors"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/skyvoyage/flight-booking-backend/internal/database"
	"github.com/skyvoyage/flight-booking-backend/internal/models"
)

// CouponService decides first-time-user discount eligibility
type CouponService struct {
	users    *database.UserRepository
	bookings *database.BookingRepository
	coupons  *database.CouponRepository
	logger   *logrus.Logger
}

// NewCouponService creates a new CouponService
func NewCouponService(
	users *database.UserRepository,
	bookings *database.BookingRepository,
	coupons *database.CouponRepository,
	logger *logrus.Logger,
) *CouponService {
	return &CouponService{
		users:    users,
		bookings: bookings,
		coupons:  coupons,
		logger:   logger,
	}
}

// CheckEligibility returns the first-time-user coupon for a user with no
// booking history. A user with any booking, of any status, is not eligible.
// Among first-time-only coupons the one with the most recent valid-from
// date wins. A missing coupon is not an error: the result simply carries no
// code.
func (s *CouponService) CheckEligibility(userID string) (*models.CouponEligibility, error) {
	if _, err := s.users.GetByID(userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	hasBookings, err := s.bookings.HasBookings(userID)
	if err != nil {
		return nil, err
	}

	if hasBookings {
		return &models.CouponEligibility{
			Eligible: false,
			Message:  "User has existing bookings, no coupon available.",
		}, nil
	}

	coupon, err := s.coupons.GetLatestFirstTimeCoupon()
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return &models.CouponEligibility{
				Eligible: false,
				Message:  "No valid coupon found for first-time users",
			}, nil
		}
		return nil, err
	}

	if !coupon.IsUsable(time.Now()) {
		return &models.CouponEligibility{
			Eligible: false,
			Message:  "No valid coupon found for first-time users",
		}, nil
	}

	s.logger.WithFields(logrus.Fields{
		"user_id": userID,
		"coupon":  coupon.Code,
	}).Debug("First-time coupon offered")

	return &models.CouponEligibility{
		Eligible:           true,
		CouponCode:         &coupon.Code,
		DiscountPercentage: coupon.DiscountPercentage,
		Message:            "Coupon found",
	}, nil
}
