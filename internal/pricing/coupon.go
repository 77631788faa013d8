package pricing

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Skotchmaster/halkabite/internal/models"
)

type Notice string

const (
	NoticeNone              Notice = ""
	NoticeNotFound          Notice = "not_found"
	NoticeInactive          Notice = "inactive"
	NoticeNotStarted        Notice = "not_started"
	NoticeExpired           Notice = "expired"
	NoticeMinOrderNotMet    Notice = "min_order_not_met"
	NoticeUsageLimitReached Notice = "usage_limit_reached"
	NoticeWrongRestaurant   Notice = "wrong_restaurant"
	NoticeExceedsSubtotal   Notice = "exceeds_subtotal"
)

func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Eligibility reports why a coupon cannot be applied, or NoticeNone when it can.
func Eligibility(c *models.Coupon, subtotal decimal.Decimal, restaurantID uuid.UUID, now time.Time) Notice {
	switch {
	case c == nil:
		return NoticeNotFound
	case !c.IsActive:
		return NoticeInactive
	case now.Before(c.ValidFrom):
		return NoticeNotStarted
	case now.After(c.ValidUntil):
		return NoticeExpired
	case c.RestaurantID != nil && *c.RestaurantID != restaurantID:
		return NoticeWrongRestaurant
	case subtotal.LessThan(c.MinOrderAmount):
		return NoticeMinOrderNotMet
	case c.UsageLimit >= 0 && c.UsedCount >= c.UsageLimit:
		return NoticeUsageLimitReached
	}
	return NoticeNone
}

// CouponDiscount is the raw discount of an eligible coupon, rounded to cents.
func CouponDiscount(c *models.Coupon, subtotal decimal.Decimal) decimal.Decimal {
	var d decimal.Decimal
	switch c.DiscountType {
	case models.DiscountPercentage:
		d = subtotal.Mul(c.DiscountValue).Div(hundred)
		if c.MaxDiscount.Valid && d.GreaterThan(c.MaxDiscount.Decimal) {
			d = c.MaxDiscount.Decimal
		}
	case models.DiscountFixed:
		d = c.DiscountValue
	default:
		return decimal.Zero
	}
	return Round(d)
}

// ApplyCoupon combines eligibility and discount; ineligible coupons yield zero.
func ApplyCoupon(c *models.Coupon, subtotal decimal.Decimal, restaurantID uuid.UUID, now time.Time) (decimal.Decimal, Notice) {
	if n := Eligibility(c, subtotal, restaurantID, now); n != NoticeNone {
		return decimal.Zero, n
	}
	return CouponDiscount(c, subtotal), NoticeNone
}
