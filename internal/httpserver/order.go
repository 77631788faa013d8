package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/halkabite/internal/service"
	"github.com/Skotchmaster/halkabite/internal/transport"
	"github.com/Skotchmaster/halkabite/internal/util"
	"github.com/Skotchmaster/halkabite/pkg/logging"
)

type OrderHTTP struct {
	Svc *service.OrderService
}

func (h *OrderHTTP) CreateOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.create")

	p, err := caller(c)
	if err != nil {
		return err
	}
	var req transport.CreateOrderRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("create_order_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	placed, err := h.Svc.Place(ctx, p, req)
	if err != nil {
		return fail(l, "create_order_error", err)
	}
	return respond(c, http.StatusCreated, "Order placed successfully", placed)
}

func (h *OrderHTTP) MyOrders(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.list_mine")

	p, err := caller(c)
	if err != nil {
		return err
	}
	page := util.ParseIntDefault(c.QueryParam("page"), 1)
	limit := util.ParseIntDefault(c.QueryParam("limit"), util.DefaultPageSize)

	list, err := h.Svc.ListMine(ctx, p, c.QueryParam("status"), page, limit)
	if err != nil {
		return fail(l, "list_orders_error", err)
	}
	return respond(c, http.StatusOK, "", list)
}

func (h *OrderHTTP) AllOrders(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.list_all")

	restaurantID, err := optionalUUID(c, "restaurant")
	if err != nil {
		return err
	}
	page := util.ParseIntDefault(c.QueryParam("page"), 1)
	limit := util.ParseIntDefault(c.QueryParam("limit"), 0)

	list, err := h.Svc.ListAll(ctx, c.QueryParam("status"), restaurantID, page, limit)
	if err != nil {
		return fail(l, "list_all_orders_error", err)
	}
	return respond(c, http.StatusOK, "", list)
}

func (h *OrderHTTP) GetOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.get")

	p, err := caller(c)
	if err != nil {
		return err
	}
	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}

	order, err := h.Svc.Get(ctx, p, id)
	if err != nil {
		return fail(l, "get_order_error", err)
	}
	return respond(c, http.StatusOK, "", order)
}

func (h *OrderHTTP) History(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.history")

	p, err := caller(c)
	if err != nil {
		return err
	}
	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}

	logs, err := h.Svc.History(ctx, p, id)
	if err != nil {
		return fail(l, "order_history_error", err)
	}
	return respond(c, http.StatusOK, "", logs)
}

func (h *OrderHTTP) UpdateStatus(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.update_status")

	p, err := caller(c)
	if err != nil {
		return err
	}
	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}
	var req transport.UpdateOrderStatusRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("update_order_status_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	order, err := h.Svc.UpdateStatus(ctx, p, id, req)
	if err != nil {
		return fail(l, "update_order_status_error", err)
	}
	return respond(c, http.StatusOK, "Order status updated", order)
}

func (h *OrderHTTP) CancelOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.cancel")

	p, err := caller(c)
	if err != nil {
		return err
	}
	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}

	order, err := h.Svc.Cancel(ctx, p, id)
	if err != nil {
		return fail(l, "cancel_order_error", err)
	}
	return respond(c, http.StatusOK, "Order cancelled successfully", order)
}

func (h *OrderHTTP) Reorder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.reorder")

	p, err := caller(c)
	if err != nil {
		return err
	}
	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}

	view, err := h.Svc.Reorder(ctx, p, id)
	if err != nil {
		return fail(l, "reorder_error", err)
	}
	return respond(c, http.StatusOK, "Items added to cart", view)
}

func (h *OrderHTTP) RestaurantOrders(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.restaurant_orders")

	p, err := caller(c)
	if err != nil {
		return err
	}
	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}
	page := util.ParseIntDefault(c.QueryParam("page"), 1)
	limit := util.ParseIntDefault(c.QueryParam("limit"), 0)

	list, err := h.Svc.ListForRestaurant(ctx, p, id, c.QueryParam("status"), page, limit)
	if err != nil {
		return fail(l, "restaurant_orders_error", err)
	}
	return respond(c, http.StatusOK, "", list)
}

func (h *OrderHTTP) RestaurantStats(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.restaurant_stats")

	p, err := caller(c)
	if err != nil {
		return err
	}
	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}

	stats, err := h.Svc.RestaurantStats(ctx, p, id)
	if err != nil {
		return fail(l, "restaurant_stats_error", err)
	}
	return respond(c, http.StatusOK, "", stats)
}
