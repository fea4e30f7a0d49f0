package database

import (
	"github.com/google/uuid"
	"github.com/skyvoyage/flight-booking-backend/internal/models"
)

// CouponRepository handles database operations for the coupons table
type CouponRepository struct {
	db DB
}

// NewCouponRepository creates a new CouponRepository
func NewCouponRepository(db DB) *CouponRepository {
	return &CouponRepository{db: db}
}

// Create inserts a new coupon (administrative seeding)
func (r *CouponRepository) Create(coupon *models.Coupon) error {
	query := `
		INSERT INTO coupons (
			id, code, discount_percentage, is_first_time_user_only,
			valid_from, valid_until, usage_limit, times_used
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at
	`

	if coupon.ID == "" {
		coupon.ID = uuid.New().String()
	}

	return r.db.QueryRow(
		query,
		coupon.ID, coupon.Code, coupon.DiscountPercentage, coupon.IsFirstTimeUserOnly,
		coupon.ValidFrom, coupon.ValidUntil, coupon.UsageLimit, coupon.TimesUsed,
	).Scan(&coupon.CreatedAt, &coupon.UpdatedAt)
}

// GetLatestFirstTimeCoupon returns the usable first-time-user coupon with
// the most recent valid_from date, or sql.ErrNoRows when none exists. An
// expired or usage-exhausted coupon never shadows an older usable one.
func (r *CouponRepository) GetLatestFirstTimeCoupon() (*models.Coupon, error) {
	query := `
		SELECT id, code, discount_percentage, is_first_time_user_only,
			   valid_from, valid_until, usage_limit, times_used,
			   created_at, updated_at
		FROM coupons
		WHERE is_first_time_user_only = true
		  AND valid_from <= now()
		  AND valid_until >= now()
		  AND times_used < usage_limit
		ORDER BY valid_from DESC
		LIMIT 1
	`

	var c models.Coupon
	err := r.db.QueryRow(query).Scan(
		&c.ID, &c.Code, &c.DiscountPercentage, &c.IsFirstTimeUserOnly,
		&c.ValidFrom, &c.ValidUntil, &c.UsageLimit, &c.TimesUsed,
		&c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}
