package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	DiscountPercentage = "percentage"
	DiscountFixed      = "fixed"

	UnlimitedUsage = -1
)

type Coupon struct {
	ID             uuid.UUID           `gorm:"type:uuid;primaryKey"        json:"id"`
	Code           string              `gorm:"uniqueIndex;not null"        json:"code"`
	Description    string              `                                   json:"description,omitempty"`
	DiscountType   string              `gorm:"not null"                    json:"discountType"`
	DiscountValue  decimal.Decimal     `gorm:"type:numeric(12,2);not null" json:"discountValue"`
	MinOrderAmount decimal.Decimal     `gorm:"type:numeric(12,2);not null" json:"minOrderAmount"`
	MaxDiscount    decimal.NullDecimal `gorm:"type:numeric(12,2)"          json:"maxDiscount"`
	ValidFrom      time.Time           `gorm:"not null"                    json:"validFrom"`
	ValidUntil     time.Time           `gorm:"not null"                    json:"validUntil"`
	UsageLimit     int                 `gorm:"not null"                    json:"usageLimit"`
	UsedCount      int                 `gorm:"not null"                    json:"usedCount"`
	IsActive       bool                `gorm:"not null"                    json:"isActive"`
	RestaurantID   *uuid.UUID          `gorm:"type:uuid;index"             json:"restaurant,omitempty"`
	CreatedAt      time.Time           `                                   json:"createdAt"`
	UpdatedAt      time.Time           `                                   json:"updatedAt"`
}

func (c *Coupon) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
