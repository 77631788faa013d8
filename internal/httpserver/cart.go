package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/halkabite/internal/service"
	"github.com/Skotchmaster/halkabite/internal/transport"
	"github.com/Skotchmaster/halkabite/pkg/logging"
)

type CartHTTP struct {
	Svc *service.CartService
}

func (h *CartHTTP) GetCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.get")

	p, err := caller(c)
	if err != nil {
		return err
	}
	view, err := h.Svc.Get(ctx, p.UserID)
	if err != nil {
		return fail(l, "get_cart_error", err)
	}
	return respond(c, http.StatusOK, "", view)
}

func (h *CartHTTP) AddItem(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.add_item")

	p, err := caller(c)
	if err != nil {
		return err
	}
	var req transport.AddCartItemRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("add_cart_item_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	view, err := h.Svc.AddItem(ctx, p.UserID, req)
	if err != nil {
		return fail(l, "add_cart_item_error", err)
	}
	return respond(c, http.StatusOK, "Item added to cart", view)
}

func (h *CartHTTP) UpdateItem(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.update_item")

	p, err := caller(c)
	if err != nil {
		return err
	}
	foodID, err := uuidParam(c, "foodItemId")
	if err != nil {
		return err
	}
	var req transport.UpdateCartItemRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("update_cart_item_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	view, err := h.Svc.UpdateItem(ctx, p.UserID, foodID, req)
	if err != nil {
		return fail(l, "update_cart_item_error", err)
	}
	return respond(c, http.StatusOK, "Cart updated", view)
}

func (h *CartHTTP) RemoveItem(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.remove_item")

	p, err := caller(c)
	if err != nil {
		return err
	}
	foodID, err := uuidParam(c, "foodItemId")
	if err != nil {
		return err
	}

	view, err := h.Svc.RemoveItem(ctx, p.UserID, foodID)
	if err != nil {
		return fail(l, "remove_cart_item_error", err)
	}
	return respond(c, http.StatusOK, "Item removed from cart", view)
}

func (h *CartHTTP) Clear(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.clear")

	p, err := caller(c)
	if err != nil {
		return err
	}
	if err := h.Svc.Clear(ctx, p.UserID); err != nil {
		return fail(l, "clear_cart_error", err)
	}
	return respond(c, http.StatusOK, "Cart cleared", nil)
}
