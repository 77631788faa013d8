package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Skotchmaster/halkabite/internal/models"
	"github.com/Skotchmaster/halkabite/internal/repo"
	"github.com/Skotchmaster/halkabite/internal/transport"
	"github.com/Skotchmaster/halkabite/pkg/logging"
	authmw "github.com/Skotchmaster/halkabite/pkg/middleware/auth"
)

const (
	dashboardRecentOrders   = 5
	dashboardTopRestaurants = 3

	starterPhone = "01711223344"
)

type AdminService struct {
	Repo *repo.GormRepo
}

func (s *AdminService) DashboardStats(ctx context.Context) (*repo.DashboardStats, error) {
	stats, err := s.Repo.DashboardStats(ctx, authmw.RoleUser, dashboardRecentOrders, dashboardTopRestaurants)
	if err != nil {
		return nil, fmt.Errorf("dashboard stats: %w", err)
	}
	return stats, nil
}

// MakeRestaurantOwner grants a customer the restaurant role and opens a
// starter restaurant for them. Existing tokens keep the old role until the
// user logs in again.
func (s *AdminService) MakeRestaurantOwner(ctx context.Context, userID uuid.UUID) (*transport.OwnerConversion, error) {
	user, err := s.Repo.UserByID(ctx, userID)
	if err != nil {
		return nil, notFound(err, "user")
	}
	switch user.Role {
	case authmw.RoleRestaurant:
		return nil, fmt.Errorf("user is already a restaurant owner: %w", ErrValidation)
	case authmw.RoleAdmin:
		return nil, fmt.Errorf("admins cannot become restaurant owners: %w", ErrValidation)
	}
	if _, err := s.Repo.RestaurantByOwner(ctx, userID); err == nil {
		return nil, fmt.Errorf("user already has a restaurant assigned: %w", ErrValidation)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	rest := starterRestaurant(user)
	err = s.Repo.Transaction(ctx, func(tx *repo.GormRepo) error {
		if err := tx.UpdateUserRole(ctx, user.ID, authmw.RoleRestaurant); err != nil {
			return fmt.Errorf("update role: %w", err)
		}
		if err := tx.CreateRestaurant(ctx, rest); err != nil {
			return fmt.Errorf("create restaurant: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	logging.FromContext(ctx).Info("restaurant_owner_granted", "user_id", user.ID.String(), "restaurant_id", rest.ID.String())

	out := &transport.OwnerConversion{}
	out.User.ID = user.ID
	out.User.Name = user.Name
	out.User.Email = user.Email
	out.User.Role = authmw.RoleRestaurant
	out.Restaurant.ID = rest.ID
	out.Restaurant.Name = rest.Name
	return out, nil
}

func starterRestaurant(user *models.User) *models.Restaurant {
	phone := user.Phone
	if phone == "" {
		phone = starterPhone
	}
	return &models.Restaurant{
		OwnerID:     user.ID,
		Name:        user.Name + "'s Restaurant",
		Description: "Welcome to our restaurant! We serve delicious food with passion.",
		Address: models.Address{
			Street:  "123 Main Street",
			City:    "Dhaka",
			State:   "Dhaka Division",
			ZipCode: "1212",
			Country: "Bangladesh",
		},
		Phone:        phone,
		Email:        user.Email,
		Cuisine:      pq.StringArray{"Bengali", "Fast Food"},
		DeliveryFee:  decimal.NewFromInt(50),
		MinimumOrder: decimal.NewFromInt(100),
		IsOpen:       true,
		IsActive:     true,
	}
}
