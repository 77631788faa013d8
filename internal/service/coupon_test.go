package service

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/halkabite/internal/config"
	"github.com/Skotchmaster/halkabite/internal/models"
	"github.com/Skotchmaster/halkabite/internal/transport"
)

func newCouponService(env *testEnv) *CouponService {
	return &CouponService{Repo: env.Repo, Settings: config.DefaultOrderSettings(), Now: func() time.Time { return testNow }}
}

func TestCouponService_Create(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	ctx := context.Background()
	svc := newCouponService(env)

	c, err := svc.Create(ctx, transport.CreateCouponRequest{
		Code:          " eid25 ",
		DiscountType:  models.DiscountPercentage,
		DiscountValue: decimal.NewFromInt(25),
		ValidUntil:    testNow.Add(72 * time.Hour),
	})
	require.NoError(t, err)
	assert.Equal(t, "EID25", c.Code)
	assert.Equal(t, models.UnlimitedUsage, c.UsageLimit)
	assert.True(t, c.IsActive)
	assert.True(t, c.ValidFrom.Equal(testNow))

	_, err = svc.Create(ctx, transport.CreateCouponRequest{
		Code:          "EID25",
		DiscountType:  models.DiscountFixed,
		DiscountValue: decimal.NewFromInt(10),
		ValidUntil:    testNow.Add(time.Hour),
	})
	assert.ErrorIs(t, err, ErrConflict)
}

func TestCouponService_Create_Validation(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	svc := newCouponService(env)
	until := testNow.Add(time.Hour)

	tests := []struct {
		name string
		req  transport.CreateCouponRequest
	}{
		{name: "no code", req: transport.CreateCouponRequest{DiscountType: models.DiscountFixed, DiscountValue: decimal.NewFromInt(5), ValidUntil: until}},
		{name: "unknown type", req: transport.CreateCouponRequest{Code: "X", DiscountType: "bogo", DiscountValue: decimal.NewFromInt(5), ValidUntil: until}},
		{name: "over 100 percent", req: transport.CreateCouponRequest{Code: "X", DiscountType: models.DiscountPercentage, DiscountValue: decimal.NewFromInt(101), ValidUntil: until}},
		{name: "zero value", req: transport.CreateCouponRequest{Code: "X", DiscountType: models.DiscountFixed, ValidUntil: until}},
		{name: "ends before start", req: transport.CreateCouponRequest{Code: "X", DiscountType: models.DiscountFixed, DiscountValue: decimal.NewFromInt(5), ValidUntil: testNow.Add(-time.Hour)}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), tt.req)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestCouponService_Preview(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	ctx := context.Background()
	svc := newCouponService(env)

	c := activeCoupon("SAVE20")
	c.DiscountType = models.DiscountPercentage
	c.DiscountValue = decimal.NewFromInt(20)
	c.MaxDiscount = decimal.NewNullDecimal(decimal.NewFromInt(30))
	c.MinOrderAmount = decimal.NewFromInt(100)
	env.coupon(t, c)

	preview, err := svc.Preview(ctx, transport.ValidateCouponRequest{Code: "save20", Subtotal: decimal.NewFromInt(230), RestaurantID: env.Restaurant.ID})
	require.NoError(t, err)
	assert.True(t, preview.Valid)
	money(t, "30.00", preview.Discount)
	assert.Empty(t, preview.Notice)

	preview, err = svc.Preview(ctx, transport.ValidateCouponRequest{Code: "SAVE20", Subtotal: decimal.NewFromInt(99), RestaurantID: env.Restaurant.ID})
	require.NoError(t, err)
	assert.False(t, preview.Valid)
	assert.Equal(t, "min_order_not_met", preview.Notice)
	money(t, "0.00", preview.Discount)

	stored, err := env.Repo.CouponByCode(ctx, "SAVE20")
	require.NoError(t, err)
	assert.Zero(t, stored.UsedCount)

	_, err = svc.Preview(ctx, transport.ValidateCouponRequest{})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestCouponService_Preview_OversizedFixedCoupon(t *testing.T) {
	t.Parallel()

	tests := []struct {
		policy   string
		valid    bool
		discount string
		notice   string
	}{
		{policy: config.PolicyClamp, valid: true, discount: "230.00"},
		{policy: config.PolicyReject, valid: false, discount: "0.00", notice: "exceeds_subtotal"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.policy, func(t *testing.T) {
			t.Parallel()

			env := newTestEnv(t)
			svc := newCouponService(env)
			svc.Settings.NegativeTotalPolicy = tt.policy

			c := activeCoupon("BIG500")
			c.DiscountType = models.DiscountFixed
			c.DiscountValue = decimal.NewFromInt(500)
			env.coupon(t, c)

			preview, err := svc.Preview(context.Background(), transport.ValidateCouponRequest{
				Code:         "BIG500",
				Subtotal:     decimal.NewFromInt(230),
				RestaurantID: env.Restaurant.ID,
			})
			require.NoError(t, err)
			assert.Equal(t, tt.valid, preview.Valid)
			money(t, tt.discount, preview.Discount)
			assert.Equal(t, tt.notice, preview.Notice)
		})
	}
}

func TestCouponService_List(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	svc := newCouponService(env)
	for _, code := range []string{"A1", "B2", "C3"} {
		env.coupon(t, activeCoupon(code))
	}

	items, meta, err := svc.List(context.Background(), 2, 2)
	require.NoError(t, err)
	assert.Len(t, items, 1)
	assert.Equal(t, 2, meta.Page)
	assert.EqualValues(t, 3, meta.Total)
	assert.EqualValues(t, 2, meta.TotalPages)
	assert.True(t, meta.HasPrev)
	assert.False(t, meta.HasNext)
}
