package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type FoodItem struct {
	ID              uuid.UUID           `gorm:"type:uuid;primaryKey"        json:"id"`
	RestaurantID    uuid.UUID           `gorm:"type:uuid;index;not null"    json:"restaurant"`
	CategoryID      *uuid.UUID          `gorm:"type:uuid;index"             json:"category,omitempty"`
	Name            string              `gorm:"not null"                    json:"name"`
	Description     string              `                                   json:"description"`
	Price           decimal.Decimal     `gorm:"type:numeric(12,2);not null" json:"price"`
	Discount        decimal.NullDecimal `gorm:"type:numeric(5,2)"           json:"discount"`
	Image           string              `                                   json:"image,omitempty"`
	IsAvailable     bool                `gorm:"not null"                    json:"isAvailable"`
	IsVegetarian    bool                `gorm:"not null"                    json:"isVegetarian"`
	IsSpicy         bool                `gorm:"not null"                    json:"isSpicy"`
	PreparationTime int                 `                                   json:"preparationTime"`
	Tags            pq.StringArray      `gorm:"type:text[]"                 json:"tags"`
	CreatedAt       time.Time           `                                   json:"createdAt"`
	UpdatedAt       time.Time           `                                   json:"updatedAt"`
}

func (f *FoodItem) BeforeCreate(tx *gorm.DB) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	return nil
}
