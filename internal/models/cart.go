package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Cart struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey"         json:"id"`
	UserID       uuid.UUID  `gorm:"type:uuid;uniqueIndex;not null" json:"user"`
	RestaurantID *uuid.UUID `gorm:"type:uuid"                    json:"restaurant"`
	Items        []CartItem `gorm:"foreignKey:CartID"            json:"items"`
	CreatedAt    time.Time  `                                    json:"createdAt"`
	UpdatedAt    time.Time  `                                    json:"updatedAt"`
}

func (c *Cart) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

type CartItem struct {
	ID                  uuid.UUID `gorm:"type:uuid;primaryKey"                          json:"id"`
	CartID              uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_cart_food;not null" json:"-"`
	FoodItemID          uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_cart_food;not null" json:"foodItemId"`
	FoodItem            *FoodItem `gorm:"foreignKey:FoodItemID"                         json:"foodItem,omitempty"`
	Quantity            int       `gorm:"not null;check:quantity>0"                     json:"quantity"`
	SpecialInstructions string    `                                                     json:"specialInstructions,omitempty"`
	Position            int       `gorm:"not null"                                      json:"-"`
}

func (c *CartItem) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
