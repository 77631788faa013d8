package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/halkabite/internal/service"
	"github.com/Skotchmaster/halkabite/internal/transport"
	"github.com/Skotchmaster/halkabite/pkg/logging"
	"github.com/Skotchmaster/halkabite/pkg/tokens"
)

type AuthHTTP struct {
	Svc *service.AuthService
}

func (h *AuthHTTP) Register(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.register")

	var req transport.RegisterRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("register_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	res, err := h.Svc.Register(ctx, req)
	if err != nil {
		return fail(l, "register_error", err)
	}

	c.SetCookie(tokens.CreateCookie(tokens.AccessCookieName, res.AccessToken, "/", res.AccessExp))
	l.Info("register_success", "user_id", res.User.ID.String())
	return respond(c, http.StatusCreated, "User registered successfully", transport.AuthResponse{User: res.User, Token: res.AccessToken})
}

func (h *AuthHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.login")

	var req transport.LoginRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("login_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	res, err := h.Svc.Login(ctx, req)
	if err != nil {
		return fail(l, "login_error", err)
	}

	c.SetCookie(tokens.CreateCookie(tokens.AccessCookieName, res.AccessToken, "/", res.AccessExp))
	l.Info("login_success", "user_id", res.User.ID.String())
	return respond(c, http.StatusOK, "Login successful", transport.AuthResponse{User: res.User, Token: res.AccessToken})
}

func (h *AuthHTTP) LogOut(c echo.Context) error {
	c.SetCookie(tokens.DeleteCookie(tokens.AccessCookieName, "/"))
	return respond(c, http.StatusOK, "Logged out", nil)
}

func (h *AuthHTTP) Me(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.me")

	p, err := caller(c)
	if err != nil {
		return err
	}
	user, err := h.Svc.Me(ctx, p.UserID)
	if err != nil {
		return fail(l, "me_error", err)
	}
	return respond(c, http.StatusOK, "", user)
}
