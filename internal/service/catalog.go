package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Skotchmaster/halkabite/internal/events"
	"github.com/Skotchmaster/halkabite/internal/models"
	"github.com/Skotchmaster/halkabite/internal/repo"
	"github.com/Skotchmaster/halkabite/internal/search"
	"github.com/Skotchmaster/halkabite/internal/transport"
	"github.com/Skotchmaster/halkabite/internal/util"
	"github.com/Skotchmaster/halkabite/pkg/logging"
	authmw "github.com/Skotchmaster/halkabite/pkg/middleware/auth"
)

// CatalogService serves restaurants, categories and menu items.
// Index is nil when search is not configured; searches then fall back to SQL.
type CatalogService struct {
	Repo    *repo.GormRepo
	Index   search.FoodIndex
	Effects *Effects
}

func (s *CatalogService) ListRestaurants(ctx context.Context, f repo.RestaurantFilter, page, size int) ([]models.Restaurant, transport.ListMeta, error) {
	offset, limit := util.Calculate(page, size)
	total, items, err := s.Repo.ListRestaurants(ctx, f, offset, limit)
	if err != nil {
		return nil, transport.ListMeta{}, fmt.Errorf("list restaurants: %w", err)
	}
	return items, listMeta(offset, limit, total), nil
}

// GetRestaurant returns the restaurant with the items currently on its menu.
func (s *CatalogService) GetRestaurant(ctx context.Context, id uuid.UUID) (*transport.RestaurantDetail, error) {
	rest, err := s.Repo.GetRestaurant(ctx, id)
	if err != nil {
		return nil, notFound(err, "restaurant")
	}
	_, menu, err := s.Repo.ListFoodItems(ctx, repo.FoodFilter{RestaurantID: &id, OnlyAvailable: true}, 0, -1)
	if err != nil {
		return nil, fmt.Errorf("load menu: %w", err)
	}
	return &transport.RestaurantDetail{Restaurant: rest, Menu: menu}, nil
}

// CreateRestaurant is admin only. The restaurant belongs to req.OwnerID when
// given, otherwise to the calling admin.
func (s *CatalogService) CreateRestaurant(ctx context.Context, p authmw.Principal, req transport.RestaurantRequest) (*models.Restaurant, error) {
	if !p.IsAdmin() {
		return nil, fmt.Errorf("only admins can create restaurants: %w", ErrForbidden)
	}

	owner := p.UserID
	if req.OwnerID != nil && *req.OwnerID != uuid.Nil {
		owner = *req.OwnerID
	}
	rest := &models.Restaurant{
		OwnerID:      owner,
		Name:         req.Name,
		Description:  req.Description,
		Address:      req.Address,
		Phone:        req.Phone,
		Email:        req.Email,
		Cuisine:      pq.StringArray(req.Cuisine),
		DeliveryFee:  decimal.Zero,
		MinimumOrder: decimal.Zero,
		IsOpen:       true,
		IsActive:     true,
	}
	if req.DeliveryFee != nil {
		rest.DeliveryFee = *req.DeliveryFee
	}
	if req.MinimumOrder != nil {
		rest.MinimumOrder = *req.MinimumOrder
	}
	if err := checkRestaurant(rest); err != nil {
		return nil, err
	}

	if err := s.Repo.CreateRestaurant(ctx, rest); err != nil {
		return nil, fmt.Errorf("create restaurant: %w", err)
	}
	logging.FromContext(ctx).Info("restaurant_created", "restaurant_id", rest.ID.String(), "owner_id", owner.String())
	return rest, nil
}

func (s *CatalogService) UpdateRestaurant(ctx context.Context, id uuid.UUID, req transport.RestaurantUpdateRequest) (*models.Restaurant, error) {
	rest, err := s.Repo.GetRestaurant(ctx, id)
	if err != nil {
		return nil, notFound(err, "restaurant")
	}

	if req.Name != nil {
		rest.Name = *req.Name
	}
	if req.Description != nil {
		rest.Description = *req.Description
	}
	if req.Address != nil {
		rest.Address = *req.Address
	}
	if req.Phone != nil {
		rest.Phone = *req.Phone
	}
	if req.Email != nil {
		rest.Email = *req.Email
	}
	if req.Cuisine != nil {
		rest.Cuisine = pq.StringArray(req.Cuisine)
	}
	if req.DeliveryFee != nil {
		rest.DeliveryFee = *req.DeliveryFee
	}
	if req.MinimumOrder != nil {
		rest.MinimumOrder = *req.MinimumOrder
	}
	if req.IsOpen != nil {
		rest.IsOpen = *req.IsOpen
	}
	if req.IsActive != nil {
		rest.IsActive = *req.IsActive
	}
	if err := checkRestaurant(rest); err != nil {
		return nil, err
	}

	if err := s.Repo.SaveRestaurant(ctx, rest); err != nil {
		return nil, fmt.Errorf("save restaurant: %w", err)
	}
	logging.FromContext(ctx).Info("restaurant_updated", "restaurant_id", rest.ID.String())
	return rest, nil
}

// ToggleRestaurant flips whether the restaurant is taking orders.
func (s *CatalogService) ToggleRestaurant(ctx context.Context, id uuid.UUID) (*models.Restaurant, error) {
	rest, err := s.Repo.GetRestaurant(ctx, id)
	if err != nil {
		return nil, notFound(err, "restaurant")
	}
	rest.IsOpen = !rest.IsOpen
	if err := s.Repo.SaveRestaurant(ctx, rest); err != nil {
		return nil, fmt.Errorf("save restaurant: %w", err)
	}
	logging.FromContext(ctx).Info("restaurant_toggled", "restaurant_id", rest.ID.String(), "is_open", rest.IsOpen)
	return rest, nil
}

// checkRestaurant trims text fields in place and validates the result.
func checkRestaurant(rest *models.Restaurant) error {
	rest.Name = strings.TrimSpace(rest.Name)
	rest.Description = strings.TrimSpace(rest.Description)
	rest.Phone = strings.TrimSpace(rest.Phone)
	rest.Email = strings.TrimSpace(rest.Email)

	switch {
	case rest.Name == "":
		return fmt.Errorf("name is required: %w", ErrValidation)
	case strings.TrimSpace(rest.Address.Street) == "" || strings.TrimSpace(rest.Address.City) == "":
		return fmt.Errorf("address needs street and city: %w", ErrValidation)
	case rest.DeliveryFee.IsNegative() || rest.MinimumOrder.IsNegative():
		return fmt.Errorf("fees must not be negative: %w", ErrValidation)
	}
	return nil
}

func (s *CatalogService) ListCategories(ctx context.Context) ([]models.Category, error) {
	return s.Repo.ListCategories(ctx)
}

func Slugify(name string) string {
	return slug.Make(name)
}

func (s *CatalogService) CreateCategory(ctx context.Context, req transport.CategoryRequest) (*models.Category, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("name is required: %w", ErrValidation)
	}
	key := Slugify(req.Slug)
	if key == "" {
		key = Slugify(name)
	}
	if key == "" {
		return nil, fmt.Errorf("slug is empty: %w", ErrValidation)
	}

	c := &models.Category{Name: name, Slug: key}
	if err := s.Repo.CreateCategory(ctx, c); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return nil, fmt.Errorf("category %s already exists: %w", key, ErrConflict)
		}
		return nil, err
	}
	return c, nil
}

func (s *CatalogService) ListFood(ctx context.Context, f repo.FoodFilter, page, size int) ([]models.FoodItem, transport.ListMeta, error) {
	offset, limit := util.Calculate(page, size)
	total, items, err := s.Repo.ListFoodItems(ctx, f, offset, limit)
	if err != nil {
		return nil, transport.ListMeta{}, fmt.Errorf("list food items: %w", err)
	}
	return items, listMeta(offset, limit, total), nil
}

func (s *CatalogService) GetFood(ctx context.Context, id uuid.UUID) (*models.FoodItem, error) {
	item, err := s.Repo.GetFoodItem(ctx, id)
	if err != nil {
		return nil, notFound(err, "food item")
	}
	return item, nil
}

// SearchFood asks the search index first and falls back to SQL matching
// when there is no index or it fails.
func (s *CatalogService) SearchFood(ctx context.Context, q string, restaurantID *uuid.UUID, page, size int) ([]models.FoodItem, transport.ListMeta, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return nil, transport.ListMeta{}, fmt.Errorf("query is required: %w", ErrValidation)
	}
	offset, limit := util.Calculate(page, size)

	if s.Index != nil {
		total, ids, err := s.Index.SearchFood(ctx, q, restaurantID, offset, limit)
		if err == nil {
			items, err := s.hydrate(ctx, ids)
			if err != nil {
				return nil, transport.ListMeta{}, err
			}
			return items, listMeta(offset, limit, total), nil
		}
		logging.FromContext(ctx).Warn("search_index_failed", "error", err)
	}

	f := repo.FoodFilter{RestaurantID: restaurantID, Search: q, OnlyAvailable: true}
	total, items, err := s.Repo.ListFoodItems(ctx, f, offset, limit)
	if err != nil {
		return nil, transport.ListMeta{}, fmt.Errorf("search food items: %w", err)
	}
	return items, listMeta(offset, limit, total), nil
}

// hydrate loads items in hit order; hits for deleted items are dropped.
func (s *CatalogService) hydrate(ctx context.Context, ids []uuid.UUID) ([]models.FoodItem, error) {
	byID, err := s.Repo.FoodItemsByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load food items: %w", err)
	}
	out := make([]models.FoodItem, 0, len(ids))
	for _, id := range ids {
		if it, ok := byID[id]; ok {
			out = append(out, it)
		}
	}
	return out, nil
}

func applyFoodRequest(item *models.FoodItem, req transport.FoodItemRequest) error {
	if req.Name != nil {
		item.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		item.Description = strings.TrimSpace(*req.Description)
	}
	if req.Price != nil {
		item.Price = *req.Price
	}
	if req.Discount != nil {
		if req.Discount.IsZero() {
			item.Discount = decimal.NullDecimal{}
		} else {
			item.Discount = decimal.NewNullDecimal(*req.Discount)
		}
	}
	if req.CategoryID != nil {
		if *req.CategoryID == uuid.Nil {
			item.CategoryID = nil
		} else {
			cid := *req.CategoryID
			item.CategoryID = &cid
		}
	}
	if req.Image != nil {
		item.Image = strings.TrimSpace(*req.Image)
	}
	if req.IsAvailable != nil {
		item.IsAvailable = *req.IsAvailable
	}
	if req.IsVegetarian != nil {
		item.IsVegetarian = *req.IsVegetarian
	}
	if req.IsSpicy != nil {
		item.IsSpicy = *req.IsSpicy
	}
	if req.PreparationTime != nil {
		item.PreparationTime = *req.PreparationTime
	}
	if req.Tags != nil {
		item.Tags = pq.StringArray(req.Tags)
	}

	switch {
	case item.Name == "":
		return fmt.Errorf("name is required: %w", ErrValidation)
	case item.Price.IsNegative():
		return fmt.Errorf("price must not be negative: %w", ErrValidation)
	case item.Discount.Valid && (item.Discount.Decimal.IsNegative() || item.Discount.Decimal.GreaterThan(hundred)):
		return fmt.Errorf("discount must be between 0 and 100: %w", ErrValidation)
	case item.PreparationTime < 0:
		return fmt.Errorf("preparationTime must not be negative: %w", ErrValidation)
	}
	return nil
}

// CreateFood adds an item to the menu of the caller's own restaurant.
func (s *CatalogService) CreateFood(ctx context.Context, p authmw.Principal, req transport.FoodItemRequest) (*models.FoodItem, error) {
	rest, err := s.Repo.RestaurantByOwner(ctx, p.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("caller owns no restaurant: %w", ErrForbidden)
		}
		return nil, err
	}
	if req.Price == nil {
		return nil, fmt.Errorf("price is required: %w", ErrValidation)
	}

	item := &models.FoodItem{RestaurantID: rest.ID, IsAvailable: true}
	if err := applyFoodRequest(item, req); err != nil {
		return nil, err
	}
	if err := s.Repo.CreateFoodItem(ctx, item); err != nil {
		return nil, fmt.Errorf("create food item: %w", err)
	}

	s.afterFoodChange(ctx, events.TypeFoodCreated, item)
	return item, nil
}

func (s *CatalogService) UpdateFood(ctx context.Context, p authmw.Principal, id uuid.UUID, req transport.FoodItemRequest) (*models.FoodItem, error) {
	item, err := s.editableFood(ctx, p, id)
	if err != nil {
		return nil, err
	}
	if err := applyFoodRequest(item, req); err != nil {
		return nil, err
	}
	if err := s.Repo.SaveFoodItem(ctx, item); err != nil {
		return nil, fmt.Errorf("save food item: %w", err)
	}

	s.afterFoodChange(ctx, events.TypeFoodUpdated, item)
	return item, nil
}

func (s *CatalogService) DeleteFood(ctx context.Context, p authmw.Principal, id uuid.UUID) error {
	item, err := s.editableFood(ctx, p, id)
	if err != nil {
		return err
	}
	if err := s.Repo.DeleteFoodItem(ctx, id); err != nil {
		return notFound(err, "food item")
	}

	s.afterFoodChange(ctx, events.TypeFoodDeleted, item)
	return nil
}

// editableFood loads an item the caller may change: admins any, restaurant owners their own.
func (s *CatalogService) editableFood(ctx context.Context, p authmw.Principal, id uuid.UUID) (*models.FoodItem, error) {
	item, err := s.Repo.GetFoodItem(ctx, id)
	if err != nil {
		return nil, notFound(err, "food item")
	}
	if p.IsAdmin() {
		return item, nil
	}
	ok, err := ownsRestaurant(ctx, s.Repo, p, item.RestaurantID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("not the owner of this item: %w", ErrForbidden)
	}
	return item, nil
}

func (s *CatalogService) afterFoodChange(ctx context.Context, typ string, item *models.FoodItem) {
	logging.FromContext(ctx).Info(typ, "food_item_id", item.ID.String(), "restaurant_id", item.RestaurantID.String())

	if s.Index != nil && s.Effects != nil {
		snapshot := *item
		s.Effects.Go(ctx, "search_"+typ, func(ctx context.Context) error {
			if typ == events.TypeFoodDeleted {
				return s.Index.DeleteFood(ctx, snapshot.ID)
			}
			return s.Index.IndexFood(ctx, &snapshot)
		})
	}

	s.Effects.Publish(ctx, events.TopicFood, item.ID.String(), events.New(typ, map[string]any{
		"foodItemId":   item.ID.String(),
		"restaurantId": item.RestaurantID.String(),
		"name":         item.Name,
		"price":        item.Price.StringFixed(2),
		"isAvailable":  item.IsAvailable,
	}))
}
