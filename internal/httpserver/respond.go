package httpserver

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/halkabite/internal/service"
	authmw "github.com/Skotchmaster/halkabite/pkg/middleware/auth"
)

const CodeDifferentRestaurant = "DIFFERENT_RESTAURANT"

type envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Code    string `json:"code,omitempty"`
	Data    any    `json:"data,omitempty"`
}

// apiError is the message of an echo.HTTPError that carries a machine readable code.
type apiError struct {
	Message string
	Code    string
}

func respond(c echo.Context, status int, message string, data any) error {
	return c.JSON(status, envelope{Success: true, Message: message, Data: data})
}

// ErrorHandler renders every error in the failure envelope.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status := http.StatusInternalServerError
	body := envelope{Message: "Server error"}

	var he *echo.HTTPError
	if errors.As(err, &he) {
		status = he.Code
		switch m := he.Message.(type) {
		case apiError:
			body.Message, body.Code = m.Message, m.Code
		case string:
			body.Message = m
		case error:
			body.Message = m.Error()
		default:
			body.Message = http.StatusText(status)
		}
	}

	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(status)
		return
	}
	_ = c.JSON(status, body)
}

type sentinel struct {
	err    error
	status int
}

var sentinels = []sentinel{
	{service.ErrValidation, http.StatusBadRequest},
	{service.ErrUnauthorized, http.StatusUnauthorized},
	{service.ErrForbidden, http.StatusForbidden},
	{service.ErrNotFound, http.StatusNotFound},
	{service.ErrInvalidTransition, http.StatusConflict},
	{service.ErrConflict, http.StatusConflict},
}

// fail maps a service error to an HTTP error and logs it under op.
// 5xx responses never carry the underlying error text.
func fail(l *slog.Logger, op string, err error) error {
	for _, s := range sentinels {
		if !errors.Is(err, s.err) {
			continue
		}
		msg := strings.TrimSuffix(err.Error(), ": "+s.err.Error())
		l.Warn(op, "status", s.status, "error", err)

		if errors.Is(err, service.ErrDifferentRestaurant) {
			return echo.NewHTTPError(s.status, apiError{
				Message: "Cart contains items from a different restaurant. Clear cart first.",
				Code:    CodeDifferentRestaurant,
			})
		}
		return echo.NewHTTPError(s.status, msg)
	}

	l.Error(op, "status", http.StatusInternalServerError, "error", err)
	return echo.NewHTTPError(http.StatusInternalServerError, "Server error")
}

func caller(c echo.Context) (authmw.Principal, error) {
	p, ok := authmw.FromContext(c.Request().Context())
	if !ok {
		return authmw.Principal{}, echo.NewHTTPError(http.StatusUnauthorized, "Not authorized")
	}
	return p, nil
}

func uuidParam(c echo.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, echo.NewHTTPError(http.StatusBadRequest, name+" is not a valid id")
	}
	return id, nil
}

// optionalUUID parses a query parameter; empty means no filter.
func optionalUUID(c echo.Context, name string) (*uuid.UUID, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, name+" is not a valid id")
	}
	return &id, nil
}
