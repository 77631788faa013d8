package transport

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Skotchmaster/halkabite/internal/models"
)

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Phone    string `json:"phone"`
	Role     string `json:"role"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthResponse struct {
	User  *models.User `json:"user"`
	Token string       `json:"token"`
}

type OrderItemRequest struct {
	FoodItemID          uuid.UUID `json:"foodItem"`
	Quantity            int       `json:"quantity"`
	SpecialInstructions string    `json:"specialInstructions"`
}

type CreateOrderRequest struct {
	RestaurantID        uuid.UUID               `json:"restaurant"`
	Items               []OrderItemRequest      `json:"items"`
	DeliveryAddress     models.Address          `json:"deliveryAddress"`
	PaymentMethod       string                  `json:"paymentMethod"`
	CouponCode          string                  `json:"couponCode"`
	SpecialInstructions string                  `json:"specialInstructions"`
	IsCatering          bool                    `json:"isCatering"`
	CateringDetails     *models.CateringDetails `json:"cateringDetails"`
}

type UpdateOrderStatusRequest struct {
	OrderStatus   string `json:"orderStatus"`
	PaymentStatus string `json:"paymentStatus"`
}

// PlacedOrder is an order plus the outcome of the coupon that came with it.
type PlacedOrder struct {
	*models.Order
	CouponApplied bool   `json:"couponApplied"`
	CouponNotice  string `json:"couponNotice,omitempty"`
}

type Pagination struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
	Pages int64 `json:"pages"`
}

type OrderList struct {
	Orders     []models.Order `json:"orders"`
	Pagination Pagination     `json:"pagination"`
}

type AddCartItemRequest struct {
	FoodItemID          uuid.UUID `json:"foodItemId"`
	Quantity            *int      `json:"quantity"`
	SpecialInstructions string    `json:"specialInstructions"`
}

type UpdateCartItemRequest struct {
	Quantity            int     `json:"quantity"`
	SpecialInstructions *string `json:"specialInstructions"`
}

type CartView struct {
	Cart      *models.Cart    `json:"cart"`
	Subtotal  decimal.Decimal `json:"subtotal"`
	ItemCount int             `json:"itemCount"`
}

type FoodItemRequest struct {
	Name            *string          `json:"name"`
	Description     *string          `json:"description"`
	Price           *decimal.Decimal `json:"price"`
	Discount        *decimal.Decimal `json:"discount"`
	CategoryID      *uuid.UUID       `json:"category"`
	Image           *string          `json:"image"`
	IsAvailable     *bool            `json:"isAvailable"`
	IsVegetarian    *bool            `json:"isVegetarian"`
	IsSpicy         *bool            `json:"isSpicy"`
	PreparationTime *int             `json:"preparationTime"`
	Tags            []string         `json:"tags"`
}

type RestaurantRequest struct {
	OwnerID      *uuid.UUID       `json:"owner"`
	Name         string           `json:"name"`
	Description  string           `json:"description"`
	Address      models.Address   `json:"address"`
	Phone        string           `json:"phone"`
	Email        string           `json:"email"`
	Cuisine      []string         `json:"cuisine"`
	DeliveryFee  *decimal.Decimal `json:"deliveryFee"`
	MinimumOrder *decimal.Decimal `json:"minimumOrder"`
}

// RestaurantUpdateRequest changes only the fields that are present.
type RestaurantUpdateRequest struct {
	Name         *string          `json:"name"`
	Description  *string          `json:"description"`
	Address      *models.Address  `json:"address"`
	Phone        *string          `json:"phone"`
	Email        *string          `json:"email"`
	Cuisine      []string         `json:"cuisine"`
	DeliveryFee  *decimal.Decimal `json:"deliveryFee"`
	MinimumOrder *decimal.Decimal `json:"minimumOrder"`
	IsOpen       *bool            `json:"isOpen"`
	IsActive     *bool            `json:"isActive"`
}

type CategoryRequest struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type RestaurantDetail struct {
	Restaurant *models.Restaurant `json:"restaurant"`
	Menu       []models.FoodItem  `json:"menu"`
}

type ListMeta struct {
	Page       int   `json:"page"`
	Size       int   `json:"size"`
	Total      int64 `json:"total"`
	TotalPages int64 `json:"total_pages"`
	HasPrev    bool  `json:"has_prev"`
	HasNext    bool  `json:"has_next"`
}

type CreateCouponRequest struct {
	Code           string           `json:"code"`
	Description    string           `json:"description"`
	DiscountType   string           `json:"discountType"`
	DiscountValue  decimal.Decimal  `json:"discountValue"`
	MinOrderAmount decimal.Decimal  `json:"minOrderAmount"`
	MaxDiscount    *decimal.Decimal `json:"maxDiscount"`
	ValidFrom      time.Time        `json:"validFrom"`
	ValidUntil     time.Time        `json:"validUntil"`
	UsageLimit     *int             `json:"usageLimit"`
	RestaurantID   *uuid.UUID       `json:"restaurant"`
}

type ValidateCouponRequest struct {
	Code         string          `json:"code"`
	Subtotal     decimal.Decimal `json:"subtotal"`
	RestaurantID uuid.UUID       `json:"restaurant"`
}

type CouponPreview struct {
	Code     string          `json:"code"`
	Valid    bool            `json:"valid"`
	Discount decimal.Decimal `json:"discount"`
	Notice   string          `json:"notice,omitempty"`
}

type OwnerConversion struct {
	User struct {
		ID    uuid.UUID `json:"id"`
		Name  string    `json:"name"`
		Email string    `json:"email"`
		Role  string    `json:"role"`
	} `json:"user"`
	Restaurant struct {
		ID   uuid.UUID `json:"id"`
		Name string    `json:"name"`
	} `json:"restaurant"`
}
