package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/halkabite/internal/models"
	"github.com/Skotchmaster/halkabite/internal/transport"
	authmw "github.com/Skotchmaster/halkabite/pkg/middleware/auth"
)

func (e *testEnv) user(t *testing.T, name, role string) *models.User {
	t.Helper()
	u := &models.User{Name: name, Email: uuid.NewString()[:8] + "@example.com", PasswordHash: "x", Role: role}
	require.NoError(t, e.Repo.CreateUser(context.Background(), u))
	return u
}

func TestAdminService_MakeRestaurantOwner(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	ctx := context.Background()
	svc := &AdminService{Repo: env.Repo}

	nusrat := env.user(t, "Nusrat", authmw.RoleUser)

	res, err := svc.MakeRestaurantOwner(ctx, nusrat.ID)
	require.NoError(t, err)
	assert.Equal(t, nusrat.ID, res.User.ID)
	assert.Equal(t, authmw.RoleRestaurant, res.User.Role)
	assert.Equal(t, "Nusrat's Restaurant", res.Restaurant.Name)

	stored, err := env.Repo.UserByID(ctx, nusrat.ID)
	require.NoError(t, err)
	assert.Equal(t, authmw.RoleRestaurant, stored.Role)

	rest, err := env.Repo.RestaurantByOwner(ctx, nusrat.ID)
	require.NoError(t, err)
	assert.Equal(t, res.Restaurant.ID, rest.ID)
	assert.Equal(t, "01711223344", rest.Phone)
	assert.Equal(t, nusrat.Email, rest.Email)
	assert.Equal(t, "Dhaka", rest.Address.City)
	assert.Equal(t, []string{"Bengali", "Fast Food"}, []string(rest.Cuisine))
	money(t, "50.00", rest.DeliveryFee)
	money(t, "100.00", rest.MinimumOrder)
	assert.True(t, rest.IsOpen)
	assert.True(t, rest.IsActive)

	_, err = svc.MakeRestaurantOwner(ctx, nusrat.ID)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrValidation)
	assert.Contains(t, err.Error(), "already a restaurant owner")

	_, err = svc.MakeRestaurantOwner(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)

	admin := env.user(t, "Root", authmw.RoleAdmin)
	_, err = svc.MakeRestaurantOwner(ctx, admin.ID)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestAdminService_MakeRestaurantOwner_AlreadyAssigned(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	ctx := context.Background()
	svc := &AdminService{Repo: env.Repo}

	karim := env.user(t, "Karim", authmw.RoleUser)
	require.NoError(t, env.Repo.CreateRestaurant(ctx, &models.Restaurant{OwnerID: karim.ID, Name: "Karim's Grill", IsActive: true}))

	_, err := svc.MakeRestaurantOwner(ctx, karim.ID)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrValidation)
	assert.Contains(t, err.Error(), "already has a restaurant assigned")

	stored, err := env.Repo.UserByID(ctx, karim.ID)
	require.NoError(t, err)
	assert.Equal(t, authmw.RoleUser, stored.Role)
}

func TestAdminService_DashboardStats(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	ctx := context.Background()
	svc := &AdminService{Repo: env.Repo}
	orders := newOrderService(env)

	env.user(t, "Ayesha", authmw.RoleUser)
	env.user(t, "Babul", authmw.RoleUser)
	env.user(t, "Chef", authmw.RoleRestaurant)

	env.placeOrder(t)
	env.placeOrder(t)
	cancelled := env.placeOrder(t)
	_, err := orders.Cancel(ctx, env.Customer, cancelled.ID)
	require.NoError(t, err)

	pizza := env.orderRequest("")
	pizza.RestaurantID = env.Other.ID
	pizza.Items = []transport.OrderItemRequest{{FoodItemID: env.Pizza.ID, Quantity: 1}}
	_, err = orders.Place(ctx, env.Customer, pizza)
	require.NoError(t, err)

	stats, err := svc.DashboardStats(ctx)
	require.NoError(t, err)

	assert.EqualValues(t, 2, stats.TotalUsers)
	assert.EqualValues(t, 2, stats.TotalRestaurants)
	assert.EqualValues(t, 4, stats.TotalOrders)
	money(t, "1110.00", stats.TotalRevenue)
	assert.Len(t, stats.RecentActivity, 4)
	for _, o := range stats.RecentActivity {
		assert.NotEmpty(t, o.OrderNumber)
		assert.NotEmpty(t, o.OrderStatus)
	}

	require.Len(t, stats.PopularRestaurants, 2)
	assert.Equal(t, env.Restaurant.ID, stats.PopularRestaurants[0].ID)
	assert.Equal(t, "Kacchi Bhai", stats.PopularRestaurants[0].Name)
	money(t, "560.00", stats.PopularRestaurants[0].TotalRevenue)
	assert.EqualValues(t, 2, stats.PopularRestaurants[0].OrderCount)
	assert.Equal(t, "Pizza Roma", stats.PopularRestaurants[1].Name)
	money(t, "550.00", stats.PopularRestaurants[1].TotalRevenue)
}
