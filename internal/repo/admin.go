package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Skotchmaster/halkabite/internal/models"
)

type DashboardStats struct {
	TotalUsers         int64               `json:"totalUsers"`
	TotalRestaurants   int64               `json:"totalRestaurants"`
	TotalOrders        int64               `json:"totalOrders"`
	TotalRevenue       decimal.Decimal     `json:"totalRevenue"`
	RecentActivity     []RecentOrder       `json:"recentActivity"`
	PopularRestaurants []PopularRestaurant `json:"popularRestaurants"`
}

type RecentOrder struct {
	OrderNumber string          `json:"orderNumber"`
	CreatedAt   time.Time       `json:"createdAt"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
	OrderStatus string          `json:"orderStatus"`
}

type PopularRestaurant struct {
	ID           uuid.UUID       `json:"id"`
	Name         string          `json:"name"`
	TotalRevenue decimal.Decimal `json:"totalRevenue"`
	OrderCount   int64           `json:"orderCount"`
}

// DashboardStats aggregates platform totals. TotalUsers counts accounts
// with customerRole; revenue ignores cancelled orders.
func (r *GormRepo) DashboardStats(ctx context.Context, customerRole string, recent, popular int) (*DashboardStats, error) {
	db := r.DB.WithContext(ctx)
	out := &DashboardStats{}

	var err error
	if out.TotalUsers, err = r.CountUsers(ctx, customerRole); err != nil {
		return nil, err
	}
	if err := db.Model(&models.Restaurant{}).Where("is_active = ?", true).Count(&out.TotalRestaurants).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Order{}).Count(&out.TotalOrders).Error; err != nil {
		return nil, err
	}

	var rev revenueRow
	if err := db.Model(&models.Order{}).
		Select("COALESCE(SUM(total_amount), 0) AS revenue, COUNT(*) AS orders").
		Where("order_status <> ?", models.OrderStatusCancelled).
		Scan(&rev).Error; err != nil {
		return nil, err
	}
	out.TotalRevenue = rev.Revenue

	var orders []models.Order
	if err := db.Select("order_number", "created_at", "total_amount", "order_status").
		Order("created_at DESC").Limit(recent).Find(&orders).Error; err != nil {
		return nil, err
	}
	out.RecentActivity = make([]RecentOrder, 0, len(orders))
	for _, o := range orders {
		out.RecentActivity = append(out.RecentActivity, RecentOrder{
			OrderNumber: o.OrderNumber,
			CreatedAt:   o.CreatedAt,
			TotalAmount: o.TotalAmount,
			OrderStatus: o.OrderStatus,
		})
	}

	out.PopularRestaurants = []PopularRestaurant{}
	if err := db.Model(&models.Order{}).
		Select("restaurants.id AS id, restaurants.name AS name, COALESCE(SUM(orders.total_amount), 0) AS total_revenue, COUNT(*) AS order_count").
		Joins("JOIN restaurants ON restaurants.id = orders.restaurant_id").
		Where("orders.order_status <> ?", models.OrderStatusCancelled).
		Group("restaurants.id, restaurants.name").
		Order("total_revenue DESC").
		Limit(popular).
		Scan(&out.PopularRestaurants).Error; err != nil {
		return nil, err
	}
	return out, nil
}
