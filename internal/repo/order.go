package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Skotchmaster/halkabite/internal/models"
)

type OrderFilter struct {
	UserID       *uuid.UUID
	RestaurantID *uuid.UUID
	Status       string
}

type RestaurantStats struct {
	TotalRevenue  decimal.Decimal `json:"totalRevenue"`
	TotalOrders   int64           `json:"totalOrders"`
	TodayRevenue  decimal.Decimal `json:"todayRevenue"`
	TodayOrders   int64           `json:"todayOrders"`
	PendingOrders int64           `json:"pendingOrders"`
}

// CreateOrder inserts the order and its items under a savepoint, so a
// duplicate order number can be retried inside the caller's transaction.
func (r *GormRepo) CreateOrder(ctx context.Context, order *models.Order) error {
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(order).Error
	})
	return translate(err)
}

func (r *GormRepo) AppendStatusLog(ctx context.Context, entry *models.OrderStatusLog) error {
	return r.DB.WithContext(ctx).Create(entry).Error
}

func (r *GormRepo) StatusLogs(ctx context.Context, orderID uuid.UUID) ([]models.OrderStatusLog, error) {
	var logs []models.OrderStatusLog
	if err := r.DB.WithContext(ctx).Where("order_id = ?", orderID).Order("changed_at ASC").Find(&logs).Error; err != nil {
		return nil, err
	}
	return logs, nil
}

func (r *GormRepo) GetOrder(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	if err := r.DB.WithContext(ctx).
		Preload("Items", itemsByPosition).
		Where("id = ?", id).
		First(&order).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

// LockOrder selects the order FOR UPDATE; call it inside Transaction.
func (r *GormRepo) LockOrder(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	if err := r.DB.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&order).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *GormRepo) UpdateOrder(ctx context.Context, id uuid.UUID, fields map[string]any) error {
	return r.DB.WithContext(ctx).Model(&models.Order{}).Where("id = ?", id).Updates(fields).Error
}

func (r *GormRepo) ListOrders(ctx context.Context, f OrderFilter, offset, limit int) (int64, []models.Order, error) {
	q := r.DB.WithContext(ctx).Model(&models.Order{})
	if f.UserID != nil {
		q = q.Where("user_id = ?", *f.UserID)
	}
	if f.RestaurantID != nil {
		q = q.Where("restaurant_id = ?", *f.RestaurantID)
	}
	if f.Status != "" {
		q = q.Where("order_status = ?", f.Status)
	}
	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return 0, nil, err
	}

	var orders []models.Order
	if err := q.Preload("Items", itemsByPosition).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&orders).Error; err != nil {
		return 0, nil, err
	}
	return total, orders, nil
}

type revenueRow struct {
	Revenue decimal.Decimal
	Orders  int64
}

// RestaurantStats counts fulfilled or in-progress orders; pending and cancelled ones are excluded.
func (r *GormRepo) RestaurantStats(ctx context.Context, restaurantID uuid.UUID, dayStart time.Time) (*RestaurantStats, error) {
	excluded := []string{models.OrderStatusPending, models.OrderStatusCancelled}
	base := func() *gorm.DB {
		return r.DB.WithContext(ctx).Model(&models.Order{}).
			Select("COALESCE(SUM(total_amount), 0) AS revenue, COUNT(*) AS orders").
			Where("restaurant_id = ? AND order_status NOT IN ?", restaurantID, excluded)
	}

	var all, today revenueRow
	if err := base().Scan(&all).Error; err != nil {
		return nil, err
	}
	if err := base().Where("created_at >= ?", dayStart).Scan(&today).Error; err != nil {
		return nil, err
	}

	var pending int64
	if err := r.DB.WithContext(ctx).Model(&models.Order{}).
		Where("restaurant_id = ? AND order_status = ?", restaurantID, models.OrderStatusPending).
		Count(&pending).Error; err != nil {
		return nil, err
	}

	return &RestaurantStats{
		TotalRevenue:  all.Revenue,
		TotalOrders:   all.Orders,
		TodayRevenue:  today.Revenue,
		TodayOrders:   today.Orders,
		PendingOrders: pending,
	}, nil
}
