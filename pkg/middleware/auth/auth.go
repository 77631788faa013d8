package authmw

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/halkabite/pkg/logging"
	"github.com/Skotchmaster/halkabite/pkg/tokens"
)

type Middleware struct {
	JWTSecret []byte
}

func New(secret []byte) *Middleware {
	return &Middleware{JWTSecret: secret}
}

func (m *Middleware) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		raw := tokenFromRequest(c)
		if raw == "" {
			return echo.NewHTTPError(http.StatusUnauthorized, "Not authorized, no token")
		}

		claims, err := tokens.AccessClaimsFromToken(raw, m.JWTSecret)
		if err != nil {
			c.SetCookie(tokens.DeleteCookie(tokens.AccessCookieName, "/"))
			return echo.NewHTTPError(http.StatusUnauthorized, "Not authorized, token failed")
		}

		userID, err := uuid.Parse(claims.Subject)
		if err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "Not authorized, token failed")
		}

		p := Principal{UserID: userID, Role: claims.Role, Email: claims.Email}

		ctx := IntoContext(c.Request().Context(), p)
		ctx = logging.IntoContext(ctx, logging.FromContext(ctx).With("user_id", userID.String(), "role", p.Role))
		c.SetRequest(c.Request().WithContext(ctx))

		return next(c)
	}
}

// RequireRole must run after RequireAuth.
func (m *Middleware) RequireRole(roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			p, ok := FromContext(c.Request().Context())
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "Not authorized")
			}
			if !p.HasRole(roles...) {
				return echo.NewHTTPError(http.StatusForbidden, "Access denied")
			}
			return next(c)
		}
	}
}

func tokenFromRequest(c echo.Context) string {
	if ck, err := c.Cookie(tokens.AccessCookieName); err == nil && ck.Value != "" {
		return ck.Value
	}
	h := c.Request().Header.Get(echo.HeaderAuthorization)
	if after, ok := strings.CutPrefix(h, "Bearer "); ok {
		return strings.TrimSpace(after)
	}
	return ""
}
