package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Address is stored as a JSON value and copied into orders.
type Address struct {
	Street      string       `json:"street"`
	City        string       `json:"city"`
	State       string       `json:"state,omitempty"`
	ZipCode     string       `json:"zipCode,omitempty"`
	Country     string       `json:"country,omitempty"`
	Coordinates *Coordinates `json:"coordinates,omitempty"`
}

type Restaurant struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey"        json:"id"`
	OwnerID      uuid.UUID       `gorm:"type:uuid;index;not null"    json:"owner"`
	Name         string          `gorm:"not null"                    json:"name"`
	Description  string          `                                   json:"description"`
	Address      Address         `gorm:"serializer:json"             json:"address"`
	Phone        string          `                                   json:"phone"`
	Email        string          `                                   json:"email"`
	Cuisine      pq.StringArray  `gorm:"type:text[]"                 json:"cuisine"`
	DeliveryFee  decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"deliveryFee"`
	MinimumOrder decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"minimumOrder"`
	IsOpen       bool            `gorm:"not null"                    json:"isOpen"`
	IsActive     bool            `gorm:"not null"                    json:"isActive"`
	CreatedAt    time.Time       `                                   json:"createdAt"`
	UpdatedAt    time.Time       `                                   json:"updatedAt"`
}

func (r *Restaurant) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

type Category struct {
	ID   uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name string    `gorm:"not null"             json:"name"`
	Slug string    `gorm:"uniqueIndex;not null" json:"slug"`
}

func (c *Category) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
