package auth

import (
	"context"
	"errors"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/greenpula/greenpula/internal/config"
	"github.com/greenpula/greenpula/internal/registry"
)

// ErrInvalidCredentials covers unknown identifiers and wrong passwords alike,
// so the response does not leak which one failed.
var ErrInvalidCredentials = errors.New("invalid credentials")

// Service issues and verifies session tokens.
type Service struct {
	cfg  config.Config
	regs *registry.Service
	repo registry.Repository
}

// NewService creates an auth service.
func NewService(cfg config.Config, regs *registry.Service, repo registry.Repository) *Service {
	return &Service{cfg: cfg, regs: regs, repo: repo}
}

// TokenPair bundles the issued access and refresh tokens.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

// Login resolves the identifier (email or primary phone), verifies the
// password and issues a token pair. PENDING users may log in; what they can
// do is decided by their registration status downstream.
func (s *Service) Login(ctx context.Context, identifier, password string) (registry.User, TokenPair, error) {
	user, err := s.regs.FindByIdentifier(ctx, identifier)
	if err != nil {
		return registry.User{}, TokenPair{}, ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(password)) != nil {
		return registry.User{}, TokenPair{}, ErrInvalidCredentials
	}

	pair, err := s.Issue(user)
	if err != nil {
		return registry.User{}, TokenPair{}, err
	}
	return user, pair, nil
}

// Issue signs a token pair for an already-authenticated user. Registration
// uses this to establish the new user's session directly.
func (s *Service) Issue(user registry.User) (TokenPair, error) {
	access, accessExp, err := s.sign(user, s.cfg.JWTSecret, s.cfg.AccessTokenTTL)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, _, err := s.sign(user, s.cfg.RefreshSecret, s.cfg.RefreshTokenTTL)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    int64(time.Until(accessExp).Seconds()),
	}, nil
}

func (s *Service) sign(user registry.User, secret string, ttl time.Duration) (string, time.Time, error) {
	now := time.Now()
	exp := now.Add(ttl)
	claims := map[string]any{
		"sub":  user.ID,
		"role": string(user.Role),
		"name": user.Name,
		"ver":  user.TokenVersion,
		"iat":  now.Unix(),
		"exp":  exp.Unix(),
	}
	signed, err := SignHS256(claims, []byte(secret))
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, exp, nil
}

// Refresh verifies the refresh token and returns a new access token.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (string, int64, error) {
	claims, err := ParseAndVerifyHS256(refreshToken, []byte(s.cfg.RefreshSecret))
	if err != nil {
		return "", 0, errors.New("invalid refresh token")
	}
	if exp, ok := claims["exp"].(float64); ok && time.Now().Unix() > int64(exp) {
		return "", 0, errors.New("refresh token expired")
	}
	sub, _ := claims["sub"].(string)
	verFloat, _ := claims["ver"].(float64)

	user, err := s.repo.FindByID(ctx, sub)
	if err != nil {
		return "", 0, errors.New("user not found")
	}
	if user.TokenVersion != int(verFloat) {
		return "", 0, errors.New("token version invalidated")
	}

	signed, _, err := s.sign(user, s.cfg.JWTSecret, s.cfg.AccessTokenTTL)
	if err != nil {
		return "", 0, err
	}
	return signed, int64(s.cfg.AccessTokenTTL.Seconds()), nil
}

// Logout bumps the token version so previously issued tokens stop verifying.
func (s *Service) Logout(ctx context.Context, userID string) error {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	return s.repo.UpdateTokenVersion(ctx, user.ID, user.TokenVersion+1)
}
