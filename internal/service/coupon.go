package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Skotchmaster/halkabite/internal/config"
	"github.com/Skotchmaster/halkabite/internal/models"
	"github.com/Skotchmaster/halkabite/internal/pricing"
	"github.com/Skotchmaster/halkabite/internal/repo"
	"github.com/Skotchmaster/halkabite/internal/transport"
	"github.com/Skotchmaster/halkabite/internal/util"
)

var hundred = decimal.NewFromInt(100)

type CouponService struct {
	Repo     *repo.GormRepo
	Settings config.OrderSettings
	Now      func() time.Time
}

func (s *CouponService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now().UTC()
}

func (s *CouponService) Create(ctx context.Context, req transport.CreateCouponRequest) (*models.Coupon, error) {
	code := pricing.NormalizeCode(req.Code)
	if code == "" {
		return nil, fmt.Errorf("code is required: %w", ErrValidation)
	}
	switch req.DiscountType {
	case models.DiscountPercentage:
		if req.DiscountValue.GreaterThan(hundred) {
			return nil, fmt.Errorf("percentage discount cannot exceed 100: %w", ErrValidation)
		}
	case models.DiscountFixed:
	default:
		return nil, fmt.Errorf("discountType must be percentage or fixed: %w", ErrValidation)
	}
	if !req.DiscountValue.IsPositive() {
		return nil, fmt.Errorf("discountValue must be positive: %w", ErrValidation)
	}
	if req.MinOrderAmount.IsNegative() {
		return nil, fmt.Errorf("minOrderAmount must not be negative: %w", ErrValidation)
	}

	validFrom := req.ValidFrom
	if validFrom.IsZero() {
		validFrom = s.now()
	}
	if req.ValidUntil.IsZero() || !req.ValidUntil.After(validFrom) {
		return nil, fmt.Errorf("validUntil must be after validFrom: %w", ErrValidation)
	}

	limit := models.UnlimitedUsage
	if req.UsageLimit != nil {
		if *req.UsageLimit < 0 {
			limit = models.UnlimitedUsage
		} else {
			limit = *req.UsageLimit
		}
	}

	c := &models.Coupon{
		Code:           code,
		Description:    req.Description,
		DiscountType:   req.DiscountType,
		DiscountValue:  req.DiscountValue,
		MinOrderAmount: req.MinOrderAmount,
		ValidFrom:      validFrom,
		ValidUntil:     req.ValidUntil,
		UsageLimit:     limit,
		IsActive:       true,
		RestaurantID:   req.RestaurantID,
	}
	if req.MaxDiscount != nil {
		c.MaxDiscount = decimal.NewNullDecimal(*req.MaxDiscount)
	}

	if err := s.Repo.CreateCoupon(ctx, c); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return nil, fmt.Errorf("coupon %s already exists: %w", code, ErrConflict)
		}
		return nil, err
	}
	return c, nil
}

func (s *CouponService) List(ctx context.Context, page, size int) ([]models.Coupon, transport.ListMeta, error) {
	offset, limit := util.Calculate(page, size)
	total, items, err := s.Repo.ListCoupons(ctx, offset, limit)
	if err != nil {
		return nil, transport.ListMeta{}, fmt.Errorf("list coupons: %w", err)
	}
	return items, listMeta(offset, limit, total), nil
}

// Preview reports what a coupon would take off the given subtotal without redeeming it.
func (s *CouponService) Preview(ctx context.Context, req transport.ValidateCouponRequest) (*transport.CouponPreview, error) {
	code := pricing.NormalizeCode(req.Code)
	if code == "" {
		return nil, fmt.Errorf("code is required: %w", ErrValidation)
	}
	if req.Subtotal.IsNegative() {
		return nil, fmt.Errorf("subtotal must not be negative: %w", ErrValidation)
	}

	var coupon *models.Coupon
	c, err := s.Repo.CouponByCode(ctx, code)
	switch {
	case err == nil:
		coupon = c
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, fmt.Errorf("load coupon: %w", err)
	}

	discount, notice := pricing.ApplyCoupon(coupon, req.Subtotal, req.RestaurantID, s.now())
	if notice != pricing.NoticeNone {
		return &transport.CouponPreview{Code: code, Discount: decimal.Zero, Notice: string(notice)}, nil
	}

	// Same totals rule as order placement, without the delivery fee.
	totals, err := pricing.Compute(req.Subtotal, discount, decimal.Zero, pricing.Policy(s.Settings.NegativeTotalPolicy))
	if errors.Is(err, pricing.ErrNegativeTotal) {
		return &transport.CouponPreview{Code: code, Discount: decimal.Zero, Notice: string(pricing.NoticeExceedsSubtotal)}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%v: %w", err, ErrValidation)
	}
	return &transport.CouponPreview{Code: code, Valid: true, Discount: totals.Discount}, nil
}

func listMeta(offset, limit int, total int64) transport.ListMeta {
	page := offset/limit + 1
	pages := util.TotalPages(total, limit)
	return transport.ListMeta{
		Page:       page,
		Size:       limit,
		Total:      total,
		TotalPages: pages,
		HasPrev:    page > 1,
		HasNext:    int64(page) < pages,
	}
}
