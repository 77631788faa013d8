package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Skotchmaster/halkabite/internal/models"
	"github.com/Skotchmaster/halkabite/internal/notify"
	"github.com/Skotchmaster/halkabite/internal/repo"
	"github.com/Skotchmaster/halkabite/internal/transport"
	"github.com/Skotchmaster/halkabite/pkg/hash"
	"github.com/Skotchmaster/halkabite/pkg/logging"
	authmw "github.com/Skotchmaster/halkabite/pkg/middleware/auth"
	"github.com/Skotchmaster/halkabite/pkg/tokens"
)

const minPasswordLen = 6

type AuthService struct {
	Repo      *repo.GormRepo
	JWTSecret []byte
	TokenTTL  time.Duration
	Effects   *Effects
}

type LoginResult struct {
	User        *models.User
	AccessToken string
	AccessExp   time.Time
}

func (s *AuthService) Register(ctx context.Context, req transport.RegisterRequest) (*LoginResult, error) {
	l := logging.FromContext(ctx).With("svc", "auth.register")

	name := strings.TrimSpace(req.Name)
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if name == "" {
		return nil, fmt.Errorf("name is required: %w", ErrValidation)
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, fmt.Errorf("email is invalid: %w", ErrValidation)
	}
	if len(req.Password) < minPasswordLen {
		return nil, fmt.Errorf("password must be at least %d characters: %w", minPasswordLen, ErrValidation)
	}

	// Restaurant accounts are granted by an admin, see AdminService.MakeRestaurantOwner.
	if req.Role != "" && req.Role != authmw.RoleUser {
		return nil, fmt.Errorf("role %q cannot be self-assigned: %w", req.Role, ErrValidation)
	}

	pwHash, err := hash.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{
		Name:         name,
		Email:        email,
		Phone:        strings.TrimSpace(req.Phone),
		PasswordHash: pwHash,
		Role:         authmw.RoleUser,
	}
	if err := s.Repo.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return nil, fmt.Errorf("user already exists: %w", ErrConflict)
		}
		return nil, err
	}
	l.Info("user_registered", "user_id", user.ID.String(), "role", user.Role)

	if msg, err := notify.Welcome(user.Email, user.Name); err == nil {
		s.Effects.Mail(ctx, msg)
	} else {
		l.Warn("welcome_email_render_failed", "error", err)
	}

	return s.issue(user)
}

func (s *AuthService) Login(ctx context.Context, req transport.LoginRequest) (*LoginResult, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || req.Password == "" {
		return nil, fmt.Errorf("email and password are required: %w", ErrValidation)
	}

	user, err := s.Repo.UserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("invalid credentials: %w", ErrUnauthorized)
		}
		return nil, err
	}
	if !hash.CheckPassword(user.PasswordHash, req.Password) {
		return nil, fmt.Errorf("invalid credentials: %w", ErrUnauthorized)
	}

	return s.issue(user)
}

func (s *AuthService) Me(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	u, err := s.Repo.UserByID(ctx, userID)
	if err != nil {
		return nil, notFound(err, "user")
	}
	return u, nil
}

func (s *AuthService) issue(user *models.User) (*LoginResult, error) {
	ttl := s.TokenTTL
	if ttl <= 0 {
		ttl = 7 * 24 * time.Hour
	}
	exp := time.Now().Add(ttl)

	tok, err := tokens.NewAccessToken(user.ID.String(), user.Role, user.Email, exp, s.JWTSecret)
	if err != nil {
		return nil, fmt.Errorf("sign access token: %w", err)
	}
	return &LoginResult{User: user, AccessToken: tok, AccessExp: exp}, nil
}
