package httpserver

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/Skotchmaster/halkabite/internal/repo"
	"github.com/Skotchmaster/halkabite/internal/service"
	"github.com/Skotchmaster/halkabite/internal/transport"
	"github.com/Skotchmaster/halkabite/internal/util"
	"github.com/Skotchmaster/halkabite/pkg/logging"
)

type CatalogHTTP struct {
	Svc *service.CatalogService
}

type listResponse struct {
	Items any                `json:"items"`
	Meta  transport.ListMeta `json:"meta"`
}

func pageParams(c echo.Context) (int, int) {
	page := util.ParseIntDefault(c.QueryParam("page"), 1)
	size := util.ParseIntDefault(c.QueryParam("size"), util.ParseIntDefault(c.QueryParam("limit"), util.DefaultPageSize))
	return page, size
}

func decimalQuery(c echo.Context, name string) (*decimal.Decimal, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, name+" is not a number")
	}
	return &d, nil
}

func (h *CatalogHTTP) ListRestaurants(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.list_restaurants")

	page, size := pageParams(c)
	f := repo.RestaurantFilter{Cuisine: c.QueryParam("cuisine"), Search: c.QueryParam("search")}

	items, meta, err := h.Svc.ListRestaurants(ctx, f, page, size)
	if err != nil {
		return fail(l, "list_restaurants_error", err)
	}
	return respond(c, http.StatusOK, "", listResponse{Items: items, Meta: meta})
}

func (h *CatalogHTTP) GetRestaurant(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.get_restaurant")

	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}
	detail, err := h.Svc.GetRestaurant(ctx, id)
	if err != nil {
		return fail(l, "get_restaurant_error", err)
	}
	return respond(c, http.StatusOK, "", detail)
}

func (h *CatalogHTTP) CreateRestaurant(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.create_restaurant")

	p, err := caller(c)
	if err != nil {
		return err
	}
	var req transport.RestaurantRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("create_restaurant_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	rest, err := h.Svc.CreateRestaurant(ctx, p, req)
	if err != nil {
		return fail(l, "create_restaurant_error", err)
	}
	return respond(c, http.StatusCreated, "Restaurant created", rest)
}

func (h *CatalogHTTP) UpdateRestaurant(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.update_restaurant")

	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}
	var req transport.RestaurantUpdateRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("update_restaurant_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	rest, err := h.Svc.UpdateRestaurant(ctx, id, req)
	if err != nil {
		return fail(l, "update_restaurant_error", err)
	}
	return respond(c, http.StatusOK, "Restaurant updated successfully", rest)
}

func (h *CatalogHTTP) ToggleRestaurant(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.toggle_restaurant")

	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}
	rest, err := h.Svc.ToggleRestaurant(ctx, id)
	if err != nil {
		return fail(l, "toggle_restaurant_error", err)
	}

	state := "closed"
	if rest.IsOpen {
		state = "open"
	}
	return respond(c, http.StatusOK, "Restaurant is now "+state, rest)
}

func (h *CatalogHTTP) ListCategories(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.list_categories")

	cats, err := h.Svc.ListCategories(ctx)
	if err != nil {
		return fail(l, "list_categories_error", err)
	}
	return respond(c, http.StatusOK, "", cats)
}

func (h *CatalogHTTP) CreateCategory(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.create_category")

	var req transport.CategoryRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("create_category_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	cat, err := h.Svc.CreateCategory(ctx, req)
	if err != nil {
		return fail(l, "create_category_error", err)
	}
	return respond(c, http.StatusCreated, "Category created", cat)
}

func (h *CatalogHTTP) ListFood(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.list_food")

	restaurantID, err := optionalUUID(c, "restaurant")
	if err != nil {
		return err
	}
	categoryID, err := optionalUUID(c, "category")
	if err != nil {
		return err
	}
	minPrice, err := decimalQuery(c, "minPrice")
	if err != nil {
		return err
	}
	maxPrice, err := decimalQuery(c, "maxPrice")
	if err != nil {
		return err
	}

	f := repo.FoodFilter{
		RestaurantID:  restaurantID,
		CategoryID:    categoryID,
		Search:        c.QueryParam("search"),
		MinPrice:      minPrice,
		MaxPrice:      maxPrice,
		OnlyAvailable: true,
	}
	if raw := c.QueryParam("isVegetarian"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "isVegetarian is not a boolean")
		}
		f.Vegetarian = &v
	}

	page, size := pageParams(c)
	items, meta, err := h.Svc.ListFood(ctx, f, page, size)
	if err != nil {
		return fail(l, "list_food_error", err)
	}
	return respond(c, http.StatusOK, "", listResponse{Items: items, Meta: meta})
}

func (h *CatalogHTTP) SearchFood(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.search_food")

	restaurantID, err := optionalUUID(c, "restaurant")
	if err != nil {
		return err
	}
	page, size := pageParams(c)

	items, meta, err := h.Svc.SearchFood(ctx, c.QueryParam("q"), restaurantID, page, size)
	if err != nil {
		return fail(l, "search_food_error", err)
	}
	return respond(c, http.StatusOK, "", listResponse{Items: items, Meta: meta})
}

func (h *CatalogHTTP) GetFood(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.get_food")

	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}
	item, err := h.Svc.GetFood(ctx, id)
	if err != nil {
		return fail(l, "get_food_error", err)
	}
	return respond(c, http.StatusOK, "", item)
}

func (h *CatalogHTTP) CreateFood(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.create_food")

	p, err := caller(c)
	if err != nil {
		return err
	}
	var req transport.FoodItemRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("create_food_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	item, err := h.Svc.CreateFood(ctx, p, req)
	if err != nil {
		return fail(l, "create_food_error", err)
	}
	return respond(c, http.StatusCreated, "Food item created", item)
}

func (h *CatalogHTTP) UpdateFood(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.update_food")

	p, err := caller(c)
	if err != nil {
		return err
	}
	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}
	var req transport.FoodItemRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("update_food_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	item, err := h.Svc.UpdateFood(ctx, p, id, req)
	if err != nil {
		return fail(l, "update_food_error", err)
	}
	return respond(c, http.StatusOK, "Food item updated", item)
}

func (h *CatalogHTTP) DeleteFood(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.delete_food")

	p, err := caller(c)
	if err != nil {
		return err
	}
	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}
	if err := h.Svc.DeleteFood(ctx, p, id); err != nil {
		return fail(l, "delete_food_error", err)
	}
	return respond(c, http.StatusOK, "Food item deleted", nil)
}
