package repo

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Skotchmaster/halkabite/internal/models"
)

type RestaurantFilter struct {
	Cuisine string
	Search  string
	OwnerID *uuid.UUID
}

type FoodFilter struct {
	RestaurantID  *uuid.UUID
	CategoryID    *uuid.UUID
	Search        string
	MinPrice      *decimal.Decimal
	MaxPrice      *decimal.Decimal
	Vegetarian    *bool
	OnlyAvailable bool
}

func likePattern(q string) string {
	return "%" + strings.ToLower(strings.TrimSpace(q)) + "%"
}

func (r *GormRepo) CreateRestaurant(ctx context.Context, rest *models.Restaurant) error {
	return r.DB.WithContext(ctx).Create(rest).Error
}

func (r *GormRepo) SaveRestaurant(ctx context.Context, rest *models.Restaurant) error {
	return r.DB.WithContext(ctx).Save(rest).Error
}

func (r *GormRepo) GetRestaurant(ctx context.Context, id uuid.UUID) (*models.Restaurant, error) {
	var rest models.Restaurant
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&rest).Error; err != nil {
		return nil, err
	}
	return &rest, nil
}

func (r *GormRepo) RestaurantByOwner(ctx context.Context, ownerID uuid.UUID) (*models.Restaurant, error) {
	var rest models.Restaurant
	if err := r.DB.WithContext(ctx).Where("owner_id = ?", ownerID).Order("created_at ASC").First(&rest).Error; err != nil {
		return nil, err
	}
	return &rest, nil
}

func (r *GormRepo) ListRestaurants(ctx context.Context, f RestaurantFilter, offset, limit int) (int64, []models.Restaurant, error) {
	q := r.DB.WithContext(ctx).Model(&models.Restaurant{}).Where("is_active = ?", true)
	if f.OwnerID != nil {
		q = q.Where("owner_id = ?", *f.OwnerID)
	}
	if f.Search != "" {
		p := likePattern(f.Search)
		q = q.Where("(LOWER(name) LIKE ? OR LOWER(description) LIKE ?)", p, p)
	}
	if f.Cuisine != "" {
		q = q.Where("LOWER(CAST(cuisine AS TEXT)) LIKE ?", likePattern(f.Cuisine))
	}
	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return 0, nil, err
	}

	var items []models.Restaurant
	if err := q.Order("name ASC").Offset(offset).Limit(limit).Find(&items).Error; err != nil {
		return 0, nil, err
	}
	return total, items, nil
}

func (r *GormRepo) CreateCategory(ctx context.Context, c *models.Category) error {
	return translate(r.DB.WithContext(ctx).Create(c).Error)
}

func (r *GormRepo) ListCategories(ctx context.Context) ([]models.Category, error) {
	var items []models.Category
	if err := r.DB.WithContext(ctx).Order("name ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *GormRepo) GetFoodItem(ctx context.Context, id uuid.UUID) (*models.FoodItem, error) {
	var item models.FoodItem
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *GormRepo) FoodItemsByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]models.FoodItem, error) {
	out := make(map[uuid.UUID]models.FoodItem, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	var items []models.FoodItem
	if err := r.DB.WithContext(ctx).Where("id IN ?", ids).Find(&items).Error; err != nil {
		return nil, err
	}
	for _, it := range items {
		out[it.ID] = it
	}
	return out, nil
}

func applyFoodFilter(q *gorm.DB, f FoodFilter) *gorm.DB {
	if f.OnlyAvailable {
		q = q.Where("is_available = ?", true)
	}
	if f.RestaurantID != nil {
		q = q.Where("restaurant_id = ?", *f.RestaurantID)
	}
	if f.CategoryID != nil {
		q = q.Where("category_id = ?", *f.CategoryID)
	}
	if f.Vegetarian != nil {
		q = q.Where("is_vegetarian = ?", *f.Vegetarian)
	}
	if f.MinPrice != nil {
		q = q.Where("price >= ?", *f.MinPrice)
	}
	if f.MaxPrice != nil {
		q = q.Where("price <= ?", *f.MaxPrice)
	}
	if f.Search != "" {
		p := likePattern(f.Search)
		q = q.Where("(LOWER(name) LIKE ? OR LOWER(description) LIKE ?)", p, p)
	}
	return q
}

func (r *GormRepo) ListFoodItems(ctx context.Context, f FoodFilter, offset, limit int) (int64, []models.FoodItem, error) {
	q := applyFoodFilter(r.DB.WithContext(ctx).Model(&models.FoodItem{}), f).Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return 0, nil, err
	}

	var items []models.FoodItem
	if err := q.Order("name ASC").Order("id ASC").Offset(offset).Limit(limit).Find(&items).Error; err != nil {
		return 0, nil, err
	}
	return total, items, nil
}

func (r *GormRepo) CreateFoodItem(ctx context.Context, item *models.FoodItem) error {
	return r.DB.WithContext(ctx).Create(item).Error
}

func (r *GormRepo) SaveFoodItem(ctx context.Context, item *models.FoodItem) error {
	return r.DB.WithContext(ctx).Omit(clause.Associations).Save(item).Error
}

// DeleteFoodItem also drops the item from every cart. Orders keep their snapshot.
func (r *GormRepo) DeleteFoodItem(ctx context.Context, id uuid.UUID) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("food_item_id = ?", id).Delete(&models.CartItem{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.FoodItem{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}
