package pricing

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/halkabite/internal/models"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func pct(s string) decimal.NullDecimal { return decimal.NewNullDecimal(d(s)) }

func assertMoney(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.True(t, d(want).Equal(got), "want %s, got %s", want, got)
}

func TestSubtotal_DiscountedAndPlainLines(t *testing.T) {
	t.Parallel()

	lines := []Line{
		{UnitPrice: d("100"), Discount: pct("10"), Quantity: 2},
		{UnitPrice: d("50"), Discount: pct("0"), Quantity: 1},
	}

	sub, lineTotals, err := Subtotal(lines)
	require.NoError(t, err)
	require.Len(t, lineTotals, 2)
	assertMoney(t, "180", lineTotals[0])
	assertMoney(t, "50", lineTotals[1])
	assertMoney(t, "230", sub)

	totals, err := Compute(sub, decimal.Zero, d("50"), PolicyClamp)
	require.NoError(t, err)
	assertMoney(t, "280", totals.Total)
}

func TestSubtotal_NoDiscountEqualsPriceTimesQuantity(t *testing.T) {
	t.Parallel()

	lines := []Line{
		{UnitPrice: d("12.50"), Quantity: 3},
		{UnitPrice: d("0.99"), Quantity: 7},
		{UnitPrice: d("240"), Quantity: 1},
	}

	sub, _, err := Subtotal(lines)
	require.NoError(t, err)
	assertMoney(t, "284.43", sub)

	totals, err := Compute(sub, decimal.Zero, d("50"), PolicyClamp)
	require.NoError(t, err)
	assertMoney(t, "334.43", totals.Total)
}

func TestLineTotal_RoundsHalfAwayFromZero(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		line  Line
		total string
	}{
		{name: "third off", line: Line{UnitPrice: d("10"), Discount: pct("33.333"), Quantity: 1}, total: "6.67"},
		{name: "half cent", line: Line{UnitPrice: d("0.05"), Discount: pct("50"), Quantity: 1}, total: "0.03"},
		{name: "full discount", line: Line{UnitPrice: d("80"), Discount: pct("100"), Quantity: 4}, total: "0"},
		{name: "null discount", line: Line{UnitPrice: d("19.99"), Quantity: 2}, total: "39.98"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := LineTotal(tt.line)
			require.NoError(t, err)
			assertMoney(t, tt.total, got)
		})
	}
}

func TestLineTotal_RejectsNonPositiveQuantity(t *testing.T) {
	t.Parallel()

	_, err := LineTotal(Line{UnitPrice: d("10"), Quantity: 0})
	assert.ErrorIs(t, err, ErrQuantity)

	_, _, err = Subtotal([]Line{{UnitPrice: d("10"), Quantity: 1}, {UnitPrice: d("5"), Quantity: -1}})
	assert.ErrorIs(t, err, ErrQuantity)
}

func TestCompute_NegativeTotalPolicy(t *testing.T) {
	t.Parallel()

	clamped, err := Compute(d("230"), d("500"), d("50"), PolicyClamp)
	require.NoError(t, err)
	assertMoney(t, "230", clamped.Discount)
	assertMoney(t, "50", clamped.Total)

	_, err = Compute(d("230"), d("500"), d("50"), PolicyReject)
	assert.ErrorIs(t, err, ErrNegativeTotal)

	exact, err := Compute(d("230"), d("230"), d("50"), PolicyReject)
	require.NoError(t, err)
	assertMoney(t, "50", exact.Total)
}

func newCoupon(typ, value string) *models.Coupon {
	now := time.Now()
	return &models.Coupon{
		Code:           "SAVE",
		DiscountType:   typ,
		DiscountValue:  d(value),
		MinOrderAmount: decimal.Zero,
		ValidFrom:      now.Add(-time.Hour),
		ValidUntil:     now.Add(time.Hour),
		UsageLimit:     models.UnlimitedUsage,
		IsActive:       true,
	}
}

func TestApplyCoupon_PercentageCappedAtMaxDiscount(t *testing.T) {
	t.Parallel()

	c := newCoupon(models.DiscountPercentage, "20")
	c.MaxDiscount = pct("30")
	c.MinOrderAmount = d("100")

	discount, notice := ApplyCoupon(c, d("230"), uuid.New(), time.Now())
	assert.Equal(t, NoticeNone, notice)
	assertMoney(t, "30", discount)

	totals, err := Compute(d("230"), discount, d("50"), PolicyClamp)
	require.NoError(t, err)
	assertMoney(t, "250", totals.Total)
}

func TestCouponDiscount_PercentageNeverExceedsMax(t *testing.T) {
	t.Parallel()

	c := newCoupon(models.DiscountPercentage, "15")
	c.MaxDiscount = pct("40")

	for _, s := range []string{"0", "10", "199.99", "266.66", "266.67", "1000", "98765.43"} {
		sub := d(s)
		got := CouponDiscount(c, sub)
		want := decimal.Min(Round(sub.Mul(d("0.15"))), d("40"))
		assert.True(t, want.Equal(got), "subtotal %s: want %s, got %s", s, want, got)
	}
}

func TestApplyCoupon_FixedOverSubtotal(t *testing.T) {
	t.Parallel()

	discount, notice := ApplyCoupon(newCoupon(models.DiscountFixed, "500"), d("230"), uuid.New(), time.Now())
	assert.Equal(t, NoticeNone, notice)
	assertMoney(t, "500", discount)

	totals, err := Compute(d("230"), discount, d("50"), PolicyClamp)
	require.NoError(t, err)
	assertMoney(t, "50", totals.Total)
	assert.False(t, totals.Total.IsNegative())
}

func TestEligibility_Notices(t *testing.T) {
	t.Parallel()

	now := time.Now()
	restaurantID := uuid.New()
	other := uuid.New()

	tests := []struct {
		name   string
		mutate func(c *models.Coupon)
		want   Notice
	}{
		{name: "eligible", mutate: func(c *models.Coupon) {}, want: NoticeNone},
		{name: "inactive", mutate: func(c *models.Coupon) { c.IsActive = false }, want: NoticeInactive},
		{name: "not started", mutate: func(c *models.Coupon) { c.ValidFrom = now.Add(time.Hour) }, want: NoticeNotStarted},
		{name: "expired", mutate: func(c *models.Coupon) { c.ValidUntil = now.Add(-time.Minute) }, want: NoticeExpired},
		{name: "min order", mutate: func(c *models.Coupon) { c.MinOrderAmount = d("500") }, want: NoticeMinOrderNotMet},
		{name: "usage limit", mutate: func(c *models.Coupon) { c.UsageLimit = 3; c.UsedCount = 3 }, want: NoticeUsageLimitReached},
		{name: "under usage limit", mutate: func(c *models.Coupon) { c.UsageLimit = 3; c.UsedCount = 2 }, want: NoticeNone},
		{name: "other restaurant", mutate: func(c *models.Coupon) { c.RestaurantID = &other }, want: NoticeWrongRestaurant},
		{name: "same restaurant", mutate: func(c *models.Coupon) { c.RestaurantID = &restaurantID }, want: NoticeNone},
		{name: "valid until is inclusive", mutate: func(c *models.Coupon) { c.ValidUntil = now }, want: NoticeNone},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c := newCoupon(models.DiscountFixed, "25")
			tt.mutate(c)

			discount, notice := ApplyCoupon(c, d("230"), restaurantID, now)
			assert.Equal(t, tt.want, notice)
			if tt.want != NoticeNone {
				assert.True(t, discount.IsZero())
			}
		})
	}

	discount, notice := ApplyCoupon(nil, d("230"), restaurantID, now)
	assert.Equal(t, NoticeNotFound, notice)
	assert.True(t, discount.IsZero())
}

func TestNormalizeCode(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "WELCOME10", NormalizeCode("  welcome10 "))
}
