package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/halkabite/internal/events"
	"github.com/Skotchmaster/halkabite/internal/models"
	"github.com/Skotchmaster/halkabite/internal/repo"
	"github.com/Skotchmaster/halkabite/internal/transport"
)

type fakeIndex struct {
	mu      sync.Mutex
	indexed map[uuid.UUID]string
	deleted []uuid.UUID
	hits    []uuid.UUID
	err     error
}

func (f *fakeIndex) IndexFood(_ context.Context, item *models.FoodItem) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.indexed == nil {
		f.indexed = map[uuid.UUID]string{}
	}
	f.indexed[item.ID] = item.Name
	return nil
}

func (f *fakeIndex) DeleteFood(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeIndex) SearchFood(_ context.Context, _ string, _ *uuid.UUID, _, _ int) (int64, []uuid.UUID, error) {
	if f.err != nil {
		return 0, nil, f.err
	}
	return int64(len(f.hits)), f.hits, nil
}

func strPtr(s string) *string { return &s }

func decPtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func TestCatalogService_FoodLifecycle(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	ctx := context.Background()
	idx := &fakeIndex{}
	svc := &CatalogService{Repo: env.Repo, Index: idx, Effects: env.Effects}

	_, err := svc.CreateFood(ctx, env.Customer, transport.FoodItemRequest{Name: strPtr("Fuchka"), Price: decPtr("60")})
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = svc.CreateFood(ctx, env.Owner, transport.FoodItemRequest{Name: strPtr("Fuchka")})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.CreateFood(ctx, env.Owner, transport.FoodItemRequest{Name: strPtr("Fuchka"), Price: decPtr("60"), Discount: decPtr("120")})
	assert.ErrorIs(t, err, ErrValidation)

	item, err := svc.CreateFood(ctx, env.Owner, transport.FoodItemRequest{
		Name:  strPtr(" Fuchka "),
		Price: decPtr("60"),
		Tags:  []string{"street", "snack"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Fuchka", item.Name)
	assert.Equal(t, env.Restaurant.ID, item.RestaurantID)
	assert.True(t, item.IsAvailable)

	_, err = svc.UpdateFood(ctx, env.OtherOwner, item.ID, transport.FoodItemRequest{Price: decPtr("70")})
	assert.ErrorIs(t, err, ErrForbidden)

	updated, err := svc.UpdateFood(ctx, env.Owner, item.ID, transport.FoodItemRequest{Price: decPtr("70"), Discount: decPtr("5")})
	require.NoError(t, err)
	money(t, "70.00", updated.Price)
	require.True(t, updated.Discount.Valid)

	stored, err := env.Repo.GetFoodItem(ctx, item.ID)
	require.NoError(t, err)
	money(t, "70.00", stored.Price)
	assert.ElementsMatch(t, []string{"street", "snack"}, []string(stored.Tags))

	carts := newCartService(env)
	_, err = carts.AddItem(ctx, env.Customer.UserID, transport.AddCartItemRequest{FoodItemID: item.ID})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteFood(ctx, env.Admin, item.ID))
	assert.ErrorIs(t, svc.DeleteFood(ctx, env.Admin, item.ID), ErrNotFound)
	env.Effects.Wait()

	view, err := carts.Get(ctx, env.Customer.UserID)
	require.NoError(t, err)
	assert.Empty(t, view.Cart.Items)

	idx.mu.Lock()
	assert.Equal(t, "Fuchka", idx.indexed[item.ID])
	assert.Equal(t, []uuid.UUID{item.ID}, idx.deleted)
	idx.mu.Unlock()

	assert.Subset(t, env.Events.types(), []string{events.TypeFoodCreated, events.TypeFoodUpdated, events.TypeFoodDeleted})
}

func TestCatalogService_SearchFood(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	ctx := context.Background()

	sqlOnly := &CatalogService{Repo: env.Repo}
	items, meta, err := sqlOnly.SearchFood(ctx, "ROLL", nil, 1, 10)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, env.Roll.ID, items[0].ID)
	assert.EqualValues(t, 1, meta.Total)

	_, _, err = sqlOnly.SearchFood(ctx, "  ", nil, 1, 10)
	assert.ErrorIs(t, err, ErrValidation)

	idx := &fakeIndex{hits: []uuid.UUID{env.Pizza.ID, uuid.New(), env.Borhani.ID}}
	indexed := &CatalogService{Repo: env.Repo, Index: idx}
	items, meta, err = indexed.SearchFood(ctx, "anything", nil, 1, 10)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, env.Pizza.ID, items[0].ID)
	assert.Equal(t, env.Borhani.ID, items[1].ID)
	assert.EqualValues(t, 3, meta.Total)

	idx.err = errors.New("cluster red")
	items, _, err = indexed.SearchFood(ctx, "borhani", &env.Restaurant.ID, 1, 10)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, env.Borhani.ID, items[0].ID)
}

func TestCatalogService_RestaurantsAndCategories(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	ctx := context.Background()
	svc := &CatalogService{Repo: env.Repo}

	req := transport.RestaurantRequest{
		OwnerID:     &env.Stranger.UserID,
		Name:        "Sultan's Dine",
		Address:     models.Address{Street: "Road 16", City: "Dhaka"},
		Cuisine:     []string{"mughlai"},
		DeliveryFee: decPtr("40"),
	}

	_, err := svc.CreateRestaurant(ctx, env.Customer, req)
	assert.ErrorIs(t, err, ErrForbidden)
	_, err = svc.CreateRestaurant(ctx, env.Owner, req)
	assert.ErrorIs(t, err, ErrForbidden)
	_, err = svc.CreateRestaurant(ctx, env.Admin, transport.RestaurantRequest{Name: "No Address"})
	assert.ErrorIs(t, err, ErrValidation)

	rest, err := svc.CreateRestaurant(ctx, env.Admin, req)
	require.NoError(t, err)
	assert.Equal(t, env.Stranger.UserID, rest.OwnerID)
	money(t, "40.00", rest.DeliveryFee)

	list, meta, err := svc.ListRestaurants(ctx, repo.RestaurantFilter{Search: "sultan"}, 1, 10)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.EqualValues(t, 1, meta.Total)

	detail, err := svc.GetRestaurant(ctx, env.Restaurant.ID)
	require.NoError(t, err)
	assert.Len(t, detail.Menu, 2)

	_, err = svc.GetRestaurant(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)

	cat, err := svc.CreateCategory(ctx, transport.CategoryRequest{Name: "Rice & Biryani"})
	require.NoError(t, err)
	assert.Equal(t, "rice-and-biryani", cat.Slug)

	_, err = svc.CreateCategory(ctx, transport.CategoryRequest{Name: "Rice and Biryani", Slug: "Rice and Biryani"})
	assert.ErrorIs(t, err, ErrConflict)

	cats, err := svc.ListCategories(ctx)
	require.NoError(t, err)
	assert.Len(t, cats, 1)
}

func TestCatalogService_UpdateAndToggleRestaurant(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	ctx := context.Background()
	svc := &CatalogService{Repo: env.Repo}

	updated, err := svc.UpdateRestaurant(ctx, env.Restaurant.ID, transport.RestaurantUpdateRequest{
		Name:         strPtr(" Kacchi Bhai Gulshan "),
		MinimumOrder: decPtr("150"),
		Cuisine:      []string{"bangladeshi", "biryani"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Kacchi Bhai Gulshan", updated.Name)
	money(t, "150.00", updated.MinimumOrder)
	assert.Equal(t, "Road 11", updated.Address.Street)

	stored, err := env.Repo.GetRestaurant(ctx, env.Restaurant.ID)
	require.NoError(t, err)
	assert.Equal(t, "Kacchi Bhai Gulshan", stored.Name)
	assert.Len(t, stored.Cuisine, 2)

	_, err = svc.UpdateRestaurant(ctx, env.Restaurant.ID, transport.RestaurantUpdateRequest{Name: strPtr("  ")})
	assert.ErrorIs(t, err, ErrValidation)
	_, err = svc.UpdateRestaurant(ctx, env.Restaurant.ID, transport.RestaurantUpdateRequest{DeliveryFee: decPtr("-1")})
	assert.ErrorIs(t, err, ErrValidation)
	_, err = svc.UpdateRestaurant(ctx, uuid.New(), transport.RestaurantUpdateRequest{Name: strPtr("Ghost")})
	assert.ErrorIs(t, err, ErrNotFound)

	closed, err := svc.ToggleRestaurant(ctx, env.Restaurant.ID)
	require.NoError(t, err)
	assert.False(t, closed.IsOpen)

	reopened, err := svc.ToggleRestaurant(ctx, env.Restaurant.ID)
	require.NoError(t, err)
	assert.True(t, reopened.IsOpen)

	_, err = svc.ToggleRestaurant(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSlugify(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"Rice & Biryani": "rice-and-biryani",
		"  Fast Food ":   "fast-food",
		"Café Déjà Vu":   "cafe-deja-vu",
		"!!!":            "",
	}
	for in, want := range tests {
		assert.Equal(t, want, Slugify(in), in)
	}
}
