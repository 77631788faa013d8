package authmw

import (
	"context"

	"github.com/google/uuid"
)

const (
	RoleUser       = "user"
	RoleRestaurant = "restaurant"
	RoleAdmin      = "admin"
)

// Principal is the authenticated caller of a request.
type Principal struct {
	UserID uuid.UUID
	Role   string
	Email  string
}

func (p Principal) IsAdmin() bool { return p.Role == RoleAdmin }

func (p Principal) HasRole(roles ...string) bool {
	for _, r := range roles {
		if p.Role == r {
			return true
		}
	}
	return false
}

type ctxKey struct{}

func IntoContext(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, ctxKey{}, p)
}

func FromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(ctxKey{}).(Principal)
	if !ok || p.UserID == uuid.Nil {
		return Principal{}, false
	}
	return p, true
}
