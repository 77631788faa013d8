package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/halkabite/internal/service"
	"github.com/Skotchmaster/halkabite/pkg/logging"
)

type AdminHTTP struct {
	Svc *service.AdminService
}

func (h *AdminHTTP) DashboardStats(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.stats")

	stats, err := h.Svc.DashboardStats(ctx)
	if err != nil {
		return fail(l, "dashboard_stats_error", err)
	}
	return respond(c, http.StatusOK, "", stats)
}

// MakeRestaurantOwner converts a customer account. The new role shows up
// in the user's token after their next login.
func (h *AdminHTTP) MakeRestaurantOwner(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.make_restaurant_owner")

	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}
	res, err := h.Svc.MakeRestaurantOwner(ctx, id)
	if err != nil {
		return fail(l, "make_restaurant_owner_error", err)
	}
	return respond(c, http.StatusOK, "User successfully converted to restaurant owner", res)
}
