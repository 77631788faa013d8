package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/halkabite/internal/transport"
	authmw "github.com/Skotchmaster/halkabite/pkg/middleware/auth"
	"github.com/Skotchmaster/halkabite/pkg/tokens"
)

var testSecret = []byte("test-jwt-secret")

func newAuthService(env *testEnv) *AuthService {
	return &AuthService{Repo: env.Repo, JWTSecret: testSecret, TokenTTL: time.Hour}
}

func TestAuthService_RegisterAndLogin(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	ctx := context.Background()
	svc := newAuthService(env)

	res, err := svc.Register(ctx, transport.RegisterRequest{
		Name:     "Nusrat",
		Email:    " Nusrat@Example.com ",
		Password: "secret1",
	})
	require.NoError(t, err)
	assert.Equal(t, "nusrat@example.com", res.User.Email)
	assert.Equal(t, authmw.RoleUser, res.User.Role)
	assert.NotEqual(t, "secret1", res.User.PasswordHash)

	claims, err := tokens.AccessClaimsFromToken(res.AccessToken, testSecret)
	require.NoError(t, err)
	assert.Equal(t, res.User.ID.String(), claims.Subject)
	assert.Equal(t, authmw.RoleUser, claims.Role)
	assert.Equal(t, "nusrat@example.com", claims.Email)
	assert.WithinDuration(t, time.Now().Add(time.Hour), res.AccessExp, 5*time.Second)

	_, err = svc.Register(ctx, transport.RegisterRequest{Name: "Again", Email: "nusrat@example.com", Password: "secret2"})
	assert.ErrorIs(t, err, ErrConflict)

	logged, err := svc.Login(ctx, transport.LoginRequest{Email: "NUSRAT@example.com", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, logged.User.ID)

	_, err = svc.Login(ctx, transport.LoginRequest{Email: "nusrat@example.com", Password: "wrong!"})
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = svc.Login(ctx, transport.LoginRequest{Email: "ghost@example.com", Password: "secret1"})
	assert.ErrorIs(t, err, ErrUnauthorized)

	me, err := svc.Me(ctx, res.User.ID)
	require.NoError(t, err)
	assert.Equal(t, "Nusrat", me.Name)
}

func TestAuthService_Register_Validation(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	svc := newAuthService(env)

	tests := []struct {
		name string
		req  transport.RegisterRequest
	}{
		{name: "empty name", req: transport.RegisterRequest{Email: "a@b.co", Password: "secret1"}},
		{name: "bad email", req: transport.RegisterRequest{Name: "A", Email: "not-an-email", Password: "secret1"}},
		{name: "short password", req: transport.RegisterRequest{Name: "A", Email: "a@b.co", Password: "123"}},
		{name: "self-assigned admin", req: transport.RegisterRequest{Name: "A", Email: "a@b.co", Password: "secret1", Role: authmw.RoleAdmin}},
		{name: "self-assigned restaurant", req: transport.RegisterRequest{Name: "A", Email: "a@b.co", Password: "secret1", Role: authmw.RoleRestaurant}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(context.Background(), tt.req)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestAuthService_Login_Validation(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	svc := newAuthService(env)

	res, err := svc.Login(context.Background(), transport.LoginRequest{Email: "", Password: "x"})
	require.Error(t, err)
	assert.Nil(t, res)
	assert.ErrorIs(t, err, ErrValidation)
}
