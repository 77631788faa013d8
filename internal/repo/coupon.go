package repo

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Skotchmaster/halkabite/internal/models"
)

func (r *GormRepo) CreateCoupon(ctx context.Context, c *models.Coupon) error {
	return translate(r.DB.WithContext(ctx).Create(c).Error)
}

func (r *GormRepo) CouponByCode(ctx context.Context, code string) (*models.Coupon, error) {
	var c models.Coupon
	if err := r.DB.WithContext(ctx).Where("code = ?", code).First(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *GormRepo) ListCoupons(ctx context.Context, offset, limit int) (int64, []models.Coupon, error) {
	var total int64
	if err := r.DB.WithContext(ctx).Model(&models.Coupon{}).Count(&total).Error; err != nil {
		return 0, nil, err
	}

	var items []models.Coupon
	if err := r.DB.WithContext(ctx).Order("created_at DESC").Offset(offset).Limit(limit).Find(&items).Error; err != nil {
		return 0, nil, err
	}
	return total, items, nil
}

// RedeemCoupon bumps used_count unless the usage limit is already reached.
// It reports false when the guard rejected the update.
func (r *GormRepo) RedeemCoupon(ctx context.Context, id uuid.UUID) (bool, error) {
	res := r.DB.WithContext(ctx).Model(&models.Coupon{}).
		Where("id = ? AND (usage_limit < 0 OR used_count < usage_limit)", id).
		Update("used_count", gorm.Expr("used_count + 1"))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}
