package service

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Skotchmaster/halkabite/internal/events"
	"github.com/Skotchmaster/halkabite/internal/models"
	"github.com/Skotchmaster/halkabite/internal/repo"
	authmw "github.com/Skotchmaster/halkabite/pkg/middleware/auth"
)

func initTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, repo.Migrate(context.Background(), db))
	return db
}

type recordedEvent struct {
	Topic string
	Key   string
	Event events.Event
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []recordedEvent
}

func (p *recordingPublisher) PublishEvent(_ context.Context, topic, key string, ev events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, recordedEvent{Topic: topic, Key: key, Event: ev})
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Event.Type)
	}
	return out
}

// testEnv is a small restaurant world: one customer, two restaurants
// with their owners, and a few menu items.
type testEnv struct {
	DB      *gorm.DB
	Repo    *repo.GormRepo
	Effects *Effects
	Events  *recordingPublisher

	Customer   authmw.Principal
	Stranger   authmw.Principal
	Owner      authmw.Principal
	OtherOwner authmw.Principal
	Admin      authmw.Principal

	Restaurant *models.Restaurant
	Other      *models.Restaurant

	Roll    *models.FoodItem // 100 with 10% off
	Borhani *models.FoodItem // 50
	Pizza   *models.FoodItem // 500, other restaurant
}

func principal(role string) authmw.Principal {
	id := uuid.New()
	return authmw.Principal{UserID: id, Role: role, Email: id.String()[:8] + "@example.com"}
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()

	db := initTestDB(t)
	pub := &recordingPublisher{}
	env := &testEnv{
		DB:         db,
		Repo:       &repo.GormRepo{DB: db},
		Events:     pub,
		Effects:    &Effects{Events: pub},
		Customer:   principal(authmw.RoleUser),
		Stranger:   principal(authmw.RoleUser),
		Owner:      principal(authmw.RoleRestaurant),
		OtherOwner: principal(authmw.RoleRestaurant),
		Admin:      principal(authmw.RoleAdmin),
	}

	env.Restaurant = &models.Restaurant{
		OwnerID:  env.Owner.UserID,
		Name:     "Kacchi Bhai",
		Address:  models.Address{Street: "Road 11", City: "Dhaka"},
		Cuisine:  []string{"bangladeshi"},
		IsOpen:   true,
		IsActive: true,
	}
	env.Other = &models.Restaurant{
		OwnerID:  env.OtherOwner.UserID,
		Name:     "Pizza Roma",
		Address:  models.Address{Street: "Road 27", City: "Dhaka"},
		Cuisine:  []string{"italian"},
		IsOpen:   true,
		IsActive: true,
	}
	require.NoError(t, env.Repo.CreateRestaurant(ctx, env.Restaurant))
	require.NoError(t, env.Repo.CreateRestaurant(ctx, env.Other))

	env.Roll = env.food(t, env.Restaurant.ID, "Chicken Roll", "100", "10")
	env.Borhani = env.food(t, env.Restaurant.ID, "Borhani", "50", "")
	env.Pizza = env.food(t, env.Other.ID, "Margherita", "500", "")

	return env
}

func (e *testEnv) food(t *testing.T, restaurantID uuid.UUID, name, price, discount string) *models.FoodItem {
	t.Helper()

	item := &models.FoodItem{
		RestaurantID: restaurantID,
		Name:         name,
		Price:        decimal.RequireFromString(price),
		IsAvailable:  true,
	}
	if discount != "" {
		item.Discount = decimal.NewNullDecimal(decimal.RequireFromString(discount))
	}
	require.NoError(t, e.Repo.CreateFoodItem(context.Background(), item))
	return item
}

func (e *testEnv) coupon(t *testing.T, c models.Coupon) *models.Coupon {
	t.Helper()
	require.NoError(t, e.Repo.CreateCoupon(context.Background(), &c))
	return &c
}

func (e *testEnv) count(t *testing.T, model any) int64 {
	t.Helper()
	var n int64
	require.NoError(t, e.DB.Model(model).Count(&n).Error)
	return n
}

func money(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	require.Equal(t, want, got.StringFixed(2))
}
