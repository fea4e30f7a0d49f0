package models

import (
	"errors"
	"time"
)

// Coupon represents a discount code, administratively seeded
type Coupon struct {
	ID                  string    `json:"id" db:"id"`
	Code                string    `json:"code" db:"code"`
	DiscountPercentage  float64   `json:"discountPercentage" db:"discount_percentage"`
	IsFirstTimeUserOnly bool      `json:"isFirstTimeUserOnly" db:"is_first_time_user_only"`
	ValidFrom           time.Time `json:"validFrom" db:"valid_from"`
	ValidUntil          time.Time `json:"validUntil" db:"valid_until"`
	UsageLimit          int       `json:"usageLimit" db:"usage_limit"`
	TimesUsed           int       `json:"timesUsed" db:"times_used"`
	CreatedAt           time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt           time.Time `json:"updatedAt" db:"updated_at"`
}

// Validate validates a coupon before it is seeded
func (c *Coupon) Validate() error {
	if c.Code == "" {
		return errors.New("coupon code is required")
	}
	if c.DiscountPercentage < 0 || c.DiscountPercentage > 100 {
		return errors.New("discount percentage must be between 0 and 100")
	}
	if c.UsageLimit < 1 {
		return errors.New("usage limit must be at least 1")
	}
	if !c.ValidUntil.After(c.ValidFrom) {
		return errors.New("valid_until must be after valid_from")
	}
	return nil
}

// IsUsable reports whether the coupon can still be offered: inside its
// validity window and under its usage limit.
func (c *Coupon) IsUsable(now time.Time) bool {
	if now.Before(c.ValidFrom) || now.After(c.ValidUntil) {
		return false
	}
	return c.TimesUsed < c.UsageLimit
}

// CouponEligibility is the eligibility-check result for a user
type CouponEligibility struct {
	Eligible           bool    `json:"coupon"`
	CouponCode         *string `json:"couponCode"`
	DiscountPercentage float64 `json:"discountPercentage,omitempty"`
	Message            string  `json:"-"`
}
