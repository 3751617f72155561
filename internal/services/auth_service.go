package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/joshua-takyi/estate/internal/apperrors"
	"github.com/joshua-takyi/estate/internal/helpers"
	"github.com/joshua-takyi/estate/internal/models"
)

const SessionCookie = "access_token"

type AuthService struct {
	userRepo models.UserRepo
	secret   []byte
	ttl      time.Duration
	now      func() time.Time
}

func NewAuthService(userRepo models.UserRepo, secret string, ttl time.Duration) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		secret:   []byte(secret),
		ttl:      ttl,
		now:      time.Now,
	}
}

// Session is the result of a successful login.
type Session struct {
	User      *models.User
	Token     string
	ExpiresAt time.Time
}

func (as *AuthService) SessionTTL() time.Duration {
	return as.ttl
}

func (as *AuthService) Register(ctx context.Context, req *models.SignupRequest) (*models.User, error) {
	req.Username = strings.TrimSpace(req.Username)
	req.Email = helpers.NormalizeEmail(req.Email)
	if err := models.Validate.Struct(req); err != nil {
		return nil, invalidInput(err)
	}

	existing, err := as.userRepo.FindUserByUsernameOrEmail(ctx, req.Username, req.Email)
	switch {
	case err == nil && existing.Username == req.Username:
		return nil, apperrors.DuplicateIdentity("username already taken")
	case err == nil:
		return nil, apperrors.DuplicateIdentity("email already registered")
	case !errors.Is(err, models.ErrUserNotFound):
		return nil, storeError("user", err)
	}

	hash, err := helpers.HashPassword(req.Password)
	if err != nil {
		return nil, apperrors.Internal("failed to secure password", err)
	}

	user, err := as.userRepo.CreateUser(ctx, &models.User{
		Username: req.Username,
		Email:    req.Email,
		Password: hash,
		Avatar:   helpers.DefaultAvatar,
	})
	if err != nil {
		return nil, storeError("user", err)
	}
	return user, nil
}

// Login checks credentials and issues a signed session. Unknown emails and
// wrong passwords fail identically.
func (as *AuthService) Login(ctx context.Context, req *models.LoginRequest) (*Session, error) {
	req.Email = helpers.NormalizeEmail(req.Email)
	if err := models.Validate.Struct(req); err != nil {
		return nil, invalidInput(err)
	}

	user, err := as.userRepo.GetUserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, models.ErrUserNotFound) {
			return nil, apperrors.InvalidCredentials()
		}
		return nil, storeError("user", err)
	}
	if !helpers.CheckPassword(req.Password, user.Password) {
		return nil, apperrors.InvalidCredentials()
	}

	token, expiresAt, err := helpers.SignSession(as.secret, user.ID.Hex(), user.Username, user.Email, as.ttl, as.now())
	if err != nil {
		return nil, apperrors.Internal("failed to issue session", err)
	}
	return &Session{User: user, Token: token, ExpiresAt: expiresAt}, nil
}

func (as *AuthService) ValidateSession(token string) (*helpers.SessionClaims, error) {
	if token == "" {
		return nil, apperrors.Unauthenticated("authentication required", nil)
	}
	claims, err := helpers.ParseSession(as.secret, token)
	if err != nil {
		if errors.Is(err, helpers.ErrSessionExpired) {
			return nil, apperrors.SessionExpired(err)
		}
		return nil, apperrors.Unauthenticated("invalid session", err)
	}
	return claims, nil
}
