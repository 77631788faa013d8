package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/halkabite/internal/service"
	"github.com/Skotchmaster/halkabite/internal/transport"
	"github.com/Skotchmaster/halkabite/pkg/logging"
)

type CouponHTTP struct {
	Svc *service.CouponService
}

func (h *CouponHTTP) CreateCoupon(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "coupon.create")

	var req transport.CreateCouponRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("create_coupon_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	coupon, err := h.Svc.Create(ctx, req)
	if err != nil {
		return fail(l, "create_coupon_error", err)
	}
	return respond(c, http.StatusCreated, "Coupon created", coupon)
}

func (h *CouponHTTP) ListCoupons(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "coupon.list")

	page, size := pageParams(c)
	items, meta, err := h.Svc.List(ctx, page, size)
	if err != nil {
		return fail(l, "list_coupons_error", err)
	}
	return respond(c, http.StatusOK, "", listResponse{Items: items, Meta: meta})
}

func (h *CouponHTTP) ValidateCoupon(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "coupon.validate")

	var req transport.ValidateCouponRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("validate_coupon_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	preview, err := h.Svc.Preview(ctx, req)
	if err != nil {
		return fail(l, "validate_coupon_error", err)
	}
	return respond(c, http.StatusOK, "", preview)
}
