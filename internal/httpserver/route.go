package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	authmw "github.com/Skotchmaster/halkabite/pkg/middleware/auth"
)

type Deps struct {
	DB        *gorm.DB
	JWTSecret []byte

	Auth    *AuthHTTP
	Cart    *CartHTTP
	Orders  *OrderHTTP
	Catalog *CatalogHTTP
	Coupons *CouponHTTP
	Admin   *AdminHTTP
}

func (d *Deps) ready(c echo.Context) error {
	if d.DB == nil {
		return c.NoContent(http.StatusOK)
	}
	sqlDB, err := d.DB.DB()
	if err == nil {
		err = sqlDB.PingContext(c.Request().Context())
	}
	if err != nil {
		return c.NoContent(http.StatusServiceUnavailable)
	}
	return c.NoContent(http.StatusOK)
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", d.ready)

	mw := authmw.New(d.JWTSecret)
	staff := mw.RequireRole(authmw.RoleRestaurant, authmw.RoleAdmin)
	admin := mw.RequireRole(authmw.RoleAdmin)

	api := e.Group("/api")

	auth := api.Group("/auth")
	auth.POST("/register", d.Auth.Register)
	auth.POST("/login", d.Auth.Login)
	auth.POST("/logout", d.Auth.LogOut)
	auth.GET("/me", d.Auth.Me, mw.RequireAuth)

	restaurants := api.Group("/restaurants")
	restaurants.GET("", d.Catalog.ListRestaurants)
	restaurants.GET("/:id", d.Catalog.GetRestaurant)
	restaurants.POST("", d.Catalog.CreateRestaurant, mw.RequireAuth, admin)
	restaurants.PUT("/:id", d.Catalog.UpdateRestaurant, mw.RequireAuth, admin)
	restaurants.PUT("/:id/toggle", d.Catalog.ToggleRestaurant, mw.RequireAuth, admin)
	restaurants.GET("/:id/orders", d.Orders.RestaurantOrders, mw.RequireAuth, staff)
	restaurants.GET("/:id/stats", d.Orders.RestaurantStats, mw.RequireAuth, staff)

	categories := api.Group("/categories")
	categories.GET("", d.Catalog.ListCategories)
	categories.POST("", d.Catalog.CreateCategory, mw.RequireAuth, admin)

	food := api.Group("/food")
	food.GET("", d.Catalog.ListFood)
	food.GET("/search", d.Catalog.SearchFood)
	food.GET("/:id", d.Catalog.GetFood)
	food.POST("", d.Catalog.CreateFood, mw.RequireAuth, mw.RequireRole(authmw.RoleRestaurant))
	food.PUT("/:id", d.Catalog.UpdateFood, mw.RequireAuth, staff)
	food.DELETE("/:id", d.Catalog.DeleteFood, mw.RequireAuth, staff)

	cart := api.Group("/cart", mw.RequireAuth)
	cart.GET("", d.Cart.GetCart)
	cart.DELETE("", d.Cart.Clear)
	cart.POST("/items", d.Cart.AddItem)
	cart.PUT("/items/:foodItemId", d.Cart.UpdateItem)
	cart.DELETE("/items/:foodItemId", d.Cart.RemoveItem)

	orders := api.Group("/orders", mw.RequireAuth)
	orders.POST("", d.Orders.CreateOrder)
	orders.GET("", d.Orders.MyOrders)
	orders.GET("/admin/all", d.Orders.AllOrders, admin)
	orders.GET("/:id", d.Orders.GetOrder)
	orders.GET("/:id/history", d.Orders.History)
	orders.PUT("/:id/status", d.Orders.UpdateStatus, staff)
	orders.PUT("/:id/cancel", d.Orders.CancelOrder)
	orders.POST("/:id/reorder", d.Orders.Reorder)

	coupons := api.Group("/coupons", mw.RequireAuth)
	coupons.POST("", d.Coupons.CreateCoupon, admin)
	coupons.GET("", d.Coupons.ListCoupons, admin)
	coupons.POST("/validate", d.Coupons.ValidateCoupon)

	users := api.Group("/users", mw.RequireAuth, admin)
	users.PUT("/:id/make-restaurant-owner", d.Admin.MakeRestaurantOwner)

	adminGroup := api.Group("/admin", mw.RequireAuth, admin)
	adminGroup.GET("/stats", d.Admin.DashboardStats)
}
