package repo

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Skotchmaster/halkabite/internal/models"
)

func itemsByPosition(db *gorm.DB) *gorm.DB {
	return db.Order("position ASC")
}

// EnsureCart creates the user's cart unless it already exists.
func (r *GormRepo) EnsureCart(ctx context.Context, userID uuid.UUID) error {
	cart := models.Cart{UserID: userID}
	return r.DB.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "user_id"}}, DoNothing: true}).
		Omit(clause.Associations).
		Create(&cart).Error
}

// GetCart loads the cart with its items and their food items.
func (r *GormRepo) GetCart(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	var cart models.Cart
	if err := r.DB.WithContext(ctx).
		Preload("Items", itemsByPosition).
		Preload("Items.FoodItem").
		Where("user_id = ?", userID).
		First(&cart).Error; err != nil {
		return nil, err
	}
	return &cart, nil
}

// LockCart selects the cart row FOR UPDATE; call it inside Transaction.
func (r *GormRepo) LockCart(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	var cart models.Cart
	if err := r.DB.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ?", userID).
		First(&cart).Error; err != nil {
		return nil, err
	}

	var items []models.CartItem
	if err := r.DB.WithContext(ctx).Where("cart_id = ?", cart.ID).Order("position ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	cart.Items = items
	return &cart, nil
}

func (r *GormRepo) AddCartItem(ctx context.Context, item *models.CartItem) error {
	return r.DB.WithContext(ctx).Omit(clause.Associations).Create(item).Error
}

func (r *GormRepo) UpdateCartItem(ctx context.Context, item *models.CartItem) error {
	return r.DB.WithContext(ctx).Model(&models.CartItem{}).
		Where("id = ?", item.ID).
		Updates(map[string]any{
			"quantity":             item.Quantity,
			"special_instructions": item.SpecialInstructions,
		}).Error
}

func (r *GormRepo) DeleteCartItem(ctx context.Context, cartID, foodItemID uuid.UUID) (int64, error) {
	res := r.DB.WithContext(ctx).Where("cart_id = ? AND food_item_id = ?", cartID, foodItemID).Delete(&models.CartItem{})
	return res.RowsAffected, res.Error
}

func (r *GormRepo) SetCartRestaurant(ctx context.Context, cartID uuid.UUID, restaurantID *uuid.UUID) error {
	return r.DB.WithContext(ctx).Model(&models.Cart{}).
		Where("id = ?", cartID).
		Updates(map[string]any{"restaurant_id": restaurantID}).Error
}

// ClearCart removes every line and the restaurant binding.
func (r *GormRepo) ClearCart(ctx context.Context, cartID uuid.UUID) error {
	if err := r.DB.WithContext(ctx).Where("cart_id = ?", cartID).Delete(&models.CartItem{}).Error; err != nil {
		return err
	}
	return r.SetCartRestaurant(ctx, cartID, nil)
}

// ClearCartByUser is a no-op for users that never had a cart.
func (r *GormRepo) ClearCartByUser(ctx context.Context, userID uuid.UUID) error {
	var cart models.Cart
	err := r.DB.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ?", userID).
		Limit(1).
		Find(&cart).Error
	if err != nil {
		return err
	}
	if cart.ID == uuid.Nil {
		return nil
	}
	return r.ClearCart(ctx, cart.ID)
}
