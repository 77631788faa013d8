package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Skotchmaster/halkabite/internal/events"
	"github.com/Skotchmaster/halkabite/internal/models"
	"github.com/Skotchmaster/halkabite/internal/pricing"
	"github.com/Skotchmaster/halkabite/internal/repo"
	"github.com/Skotchmaster/halkabite/internal/transport"
	"github.com/Skotchmaster/halkabite/pkg/logging"
)

type CartService struct {
	Repo    *repo.GormRepo
	Effects *Effects
}

func (s *CartService) Get(ctx context.Context, userID uuid.UUID) (*transport.CartView, error) {
	if err := s.Repo.EnsureCart(ctx, userID); err != nil {
		return nil, fmt.Errorf("ensure cart: %w", err)
	}
	cart, err := s.Repo.GetCart(ctx, userID)
	if err != nil {
		return nil, notFound(err, "cart")
	}
	return cartView(cart), nil
}

// cartView shows and totals only the lines whose food item still exists and
// is available. Hidden lines stay stored and return if the item comes back.
func cartView(cart *models.Cart) *transport.CartView {
	shown := *cart
	shown.Items = make([]models.CartItem, 0, len(cart.Items))
	view := &transport.CartView{Cart: &shown, Subtotal: decimal.Zero}
	for _, it := range cart.Items {
		if it.FoodItem == nil || !it.FoodItem.IsAvailable {
			continue
		}
		lt, err := pricing.LineTotal(pricing.Line{
			UnitPrice: it.FoodItem.Price,
			Discount:  it.FoodItem.Discount,
			Quantity:  it.Quantity,
		})
		if err != nil {
			continue
		}
		shown.Items = append(shown.Items, it)
		view.Subtotal = view.Subtotal.Add(lt)
		view.ItemCount += it.Quantity
	}
	return view
}

func findLine(cart *models.Cart, foodItemID uuid.UUID) *models.CartItem {
	for i := range cart.Items {
		if cart.Items[i].FoodItemID == foodItemID {
			return &cart.Items[i]
		}
	}
	return nil
}

func nextPosition(cart *models.Cart) int {
	pos := 0
	for _, it := range cart.Items {
		if it.Position >= pos {
			pos = it.Position + 1
		}
	}
	return pos
}

func (s *CartService) AddItem(ctx context.Context, userID uuid.UUID, req transport.AddCartItemRequest) (*transport.CartView, error) {
	l := logging.FromContext(ctx).With("svc", "cart.add")

	if req.FoodItemID == uuid.Nil {
		return nil, fmt.Errorf("foodItemId is required: %w", ErrValidation)
	}
	qty := 1
	if req.Quantity != nil {
		qty = *req.Quantity
	}
	if qty < 1 {
		return nil, fmt.Errorf("quantity must be at least 1: %w", ErrValidation)
	}

	food, err := s.Repo.GetFoodItem(ctx, req.FoodItemID)
	if err != nil {
		return nil, notFound(err, "food item")
	}
	if !food.IsAvailable {
		return nil, fmt.Errorf("food item is not available: %w", ErrValidation)
	}

	if err := s.Repo.EnsureCart(ctx, userID); err != nil {
		return nil, fmt.Errorf("ensure cart: %w", err)
	}

	err = s.Repo.Transaction(ctx, func(tx *repo.GormRepo) error {
		cart, err := tx.LockCart(ctx, userID)
		if err != nil {
			return notFound(err, "cart")
		}
		if cart.RestaurantID != nil && *cart.RestaurantID != food.RestaurantID {
			return ErrDifferentRestaurant
		}

		instructions := strings.TrimSpace(req.SpecialInstructions)
		if line := findLine(cart, food.ID); line != nil {
			line.Quantity += qty
			if instructions != "" {
				line.SpecialInstructions = instructions
			}
			if err := tx.UpdateCartItem(ctx, line); err != nil {
				return fmt.Errorf("update cart item: %w", err)
			}
		} else {
			line := &models.CartItem{
				CartID:              cart.ID,
				FoodItemID:          food.ID,
				Quantity:            qty,
				SpecialInstructions: instructions,
				Position:            nextPosition(cart),
			}
			if err := tx.AddCartItem(ctx, line); err != nil {
				return fmt.Errorf("add cart item: %w", err)
			}
		}

		if cart.RestaurantID == nil {
			rid := food.RestaurantID
			if err := tx.SetCartRestaurant(ctx, cart.ID, &rid); err != nil {
				return fmt.Errorf("bind cart restaurant: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	l.Debug("cart_item_added", "food_item_id", food.ID.String(), "quantity", qty)

	return s.Get(ctx, userID)
}

func (s *CartService) UpdateItem(ctx context.Context, userID, foodItemID uuid.UUID, req transport.UpdateCartItemRequest) (*transport.CartView, error) {
	err := s.Repo.Transaction(ctx, func(tx *repo.GormRepo) error {
		cart, err := tx.LockCart(ctx, userID)
		if err != nil {
			return notFound(err, "cart")
		}
		line := findLine(cart, foodItemID)
		if line == nil {
			return fmt.Errorf("item not in cart: %w", ErrNotFound)
		}

		if req.Quantity <= 0 {
			if _, err := tx.DeleteCartItem(ctx, cart.ID, foodItemID); err != nil {
				return fmt.Errorf("delete cart item: %w", err)
			}
			return releaseIfEmpty(ctx, tx, cart, 1)
		}

		line.Quantity = req.Quantity
		if req.SpecialInstructions != nil {
			line.SpecialInstructions = strings.TrimSpace(*req.SpecialInstructions)
		}
		return tx.UpdateCartItem(ctx, line)
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, userID)
}

// RemoveItem is idempotent: removing a line that is not in the cart is not an error.
func (s *CartService) RemoveItem(ctx context.Context, userID, foodItemID uuid.UUID) (*transport.CartView, error) {
	err := s.Repo.Transaction(ctx, func(tx *repo.GormRepo) error {
		cart, err := tx.LockCart(ctx, userID)
		if err != nil {
			return notFound(err, "cart")
		}
		removed, err := tx.DeleteCartItem(ctx, cart.ID, foodItemID)
		if err != nil {
			return fmt.Errorf("delete cart item: %w", err)
		}
		return releaseIfEmpty(ctx, tx, cart, int(removed))
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, userID)
}

// releaseIfEmpty unbinds the restaurant once the last line is gone.
func releaseIfEmpty(ctx context.Context, tx *repo.GormRepo, cart *models.Cart, removed int) error {
	if len(cart.Items)-removed > 0 {
		return nil
	}
	return tx.SetCartRestaurant(ctx, cart.ID, nil)
}

func (s *CartService) Clear(ctx context.Context, userID uuid.UUID) error {
	err := s.Repo.Transaction(ctx, func(tx *repo.GormRepo) error {
		return tx.ClearCartByUser(ctx, userID)
	})
	if err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}

	s.Effects.Publish(ctx, events.TopicCart, userID.String(), events.New(events.TypeCartCleared, map[string]any{
		"userId": userID.String(),
	}))
	return nil
}

// replaceCart swaps the cart content for the given lines; it runs inside the caller's transaction.
func replaceCart(ctx context.Context, tx *repo.GormRepo, userID, restaurantID uuid.UUID, lines []models.CartItem) error {
	if err := tx.EnsureCart(ctx, userID); err != nil {
		return fmt.Errorf("ensure cart: %w", err)
	}
	cart, err := tx.LockCart(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("cart vanished: %w", ErrConflict)
		}
		return err
	}
	if err := tx.ClearCart(ctx, cart.ID); err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}

	for i := range lines {
		lines[i].ID = uuid.Nil
		lines[i].CartID = cart.ID
		lines[i].Position = i
		if err := tx.AddCartItem(ctx, &lines[i]); err != nil {
			return fmt.Errorf("add cart item: %w", err)
		}
	}
	return tx.SetCartRestaurant(ctx, cart.ID, &restaurantID)
}
