package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	OrderStatusPending        = "pending"
	OrderStatusConfirmed      = "confirmed"
	OrderStatusPreparing      = "preparing"
	OrderStatusReady          = "ready"
	OrderStatusOutForDelivery = "out_for_delivery"
	OrderStatusDelivered      = "delivered"
	OrderStatusCancelled      = "cancelled"

	PaymentStatusPending  = "pending"
	PaymentStatusPaid     = "paid"
	PaymentStatusFailed   = "failed"
	PaymentStatusRefunded = "refunded"

	PaymentBkash  = "bkash"
	PaymentNagad  = "nagad"
	PaymentRocket = "rocket"
	PaymentCOD    = "cod"

	StatusFieldOrder   = "order"
	StatusFieldPayment = "payment"
)

type CateringDetails struct {
	EventDate  *time.Time `json:"eventDate,omitempty"`
	GuestCount int        `json:"guestCount,omitempty"`
	EventType  string     `json:"eventType,omitempty"`
}

// Order is a snapshot: item names and prices never follow later menu changes.
type Order struct {
	ID                    uuid.UUID        `gorm:"type:uuid;primaryKey"        json:"id"`
	OrderNumber           string           `gorm:"uniqueIndex;not null"        json:"orderNumber"`
	UserID                uuid.UUID        `gorm:"type:uuid;index;not null"    json:"user"`
	RestaurantID          uuid.UUID        `gorm:"type:uuid;index;not null"    json:"restaurant"`
	Items                 []OrderItem      `gorm:"foreignKey:OrderID"          json:"items"`
	Subtotal              decimal.Decimal  `gorm:"type:numeric(12,2);not null" json:"subtotal"`
	DeliveryFee           decimal.Decimal  `gorm:"type:numeric(12,2);not null" json:"deliveryFee"`
	Discount              decimal.Decimal  `gorm:"type:numeric(12,2);not null" json:"discount"`
	TotalAmount           decimal.Decimal  `gorm:"type:numeric(12,2);not null" json:"totalAmount"`
	DeliveryAddress       Address          `gorm:"serializer:json"             json:"deliveryAddress"`
	PaymentMethod         string           `gorm:"not null"                    json:"paymentMethod"`
	PaymentStatus         string           `gorm:"not null"                    json:"paymentStatus"`
	OrderStatus           string           `gorm:"index;not null"              json:"orderStatus"`
	CouponCode            string           `                                   json:"couponCode,omitempty"`
	SpecialInstructions   string           `                                   json:"specialInstructions,omitempty"`
	IsCatering            bool             `gorm:"not null"                    json:"isCatering"`
	CateringDetails       *CateringDetails `gorm:"serializer:json"             json:"cateringDetails,omitempty"`
	TransactionID         string           `                                   json:"transactionId,omitempty"`
	EstimatedDeliveryTime *time.Time       `                                   json:"estimatedDeliveryTime,omitempty"`
	ActualDeliveryTime    *time.Time       `                                   json:"actualDeliveryTime,omitempty"`
	CreatedAt             time.Time        `gorm:"index"                       json:"createdAt"`
	UpdatedAt             time.Time        `                                   json:"updatedAt"`
}

func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}

// OrderItem.Price is the line total, not the unit price.
type OrderItem struct {
	ID                  uuid.UUID       `gorm:"type:uuid;primaryKey"        json:"id"`
	OrderID             uuid.UUID       `gorm:"type:uuid;index;not null"    json:"-"`
	FoodItemID          uuid.UUID       `gorm:"type:uuid;not null"          json:"foodItem"`
	Name                string          `gorm:"not null"                    json:"name"`
	Quantity            int             `gorm:"not null;check:quantity>0"   json:"quantity"`
	Price               decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"price"`
	SpecialInstructions string          `                                   json:"specialInstructions,omitempty"`
	Position            int             `gorm:"not null"                    json:"-"`
}

func (i *OrderItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

type OrderStatusLog struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"     json:"id"`
	OrderID    uuid.UUID `gorm:"type:uuid;index;not null" json:"order"`
	Field      string    `gorm:"not null"                 json:"field"`
	FromStatus string    `                                json:"from"`
	ToStatus   string    `gorm:"not null"                 json:"to"`
	ChangedBy  uuid.UUID `gorm:"type:uuid;not null"       json:"changedBy"`
	ChangedAt  time.Time `gorm:"not null"                 json:"changedAt"`
}

func (l *OrderStatusLog) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}

func All() []any {
	return []any{
		&User{}, &Restaurant{}, &Category{}, &FoodItem{},
		&Cart{}, &CartItem{}, &Coupon{},
		&Order{}, &OrderItem{}, &OrderStatusLog{},
	}
}
