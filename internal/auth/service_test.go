package auth

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/greenpula/greenpula/internal/config"
	"github.com/greenpula/greenpula/internal/registry"
)

func testConfig() config.Config {
	return config.Config{
		JWTSecret:       "test-access-secret",
		RefreshSecret:   "test-refresh-secret",
		AccessTokenTTL:  15 * time.Minute,
		RefreshTokenTTL: 24 * time.Hour,
	}
}

func newTestAuth(t *testing.T) (*Service, *registry.Service, registry.User) {
	t.Helper()
	repo := registry.NewMemoryRepository()
	regs := registry.NewService(repo, nil)
	svc := NewService(testConfig(), regs, repo)

	user, err := regs.Register(context.Background(), registry.RegisterInput{
		Name: "Login User", Email: "login@example.com", Phone: "71 00 02 00",
		Password: "hunter22", PaymentMethod: registry.PayCash,
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	return svc, regs, user
}

func TestLoginByEmailAndPhone(t *testing.T) {
	svc, _, user := newTestAuth(t)
	ctx := context.Background()

	for _, identifier := range []string{"LOGIN@example.com", "71000200", "71 00 02 00"} {
		got, pair, err := svc.Login(ctx, identifier, "hunter22")
		if err != nil {
			t.Fatalf("login with %q: %v", identifier, err)
		}
		if got.ID != user.ID {
			t.Fatalf("login resolved wrong user: %s", got.ID)
		}
		if pair.AccessToken == "" || pair.RefreshToken == "" || pair.ExpiresIn <= 0 {
			t.Fatalf("incomplete token pair: %+v", pair)
		}
	}
}

func TestLoginWrongPassword(t *testing.T) {
	svc, _, _ := newTestAuth(t)
	_, _, err := svc.Login(context.Background(), "login@example.com", "wrong-pass")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestLoginUnknownIdentifier(t *testing.T) {
	svc, _, _ := newTestAuth(t)
	_, _, err := svc.Login(context.Background(), "nobody@example.com", "hunter22")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAccessTokenClaims(t *testing.T) {
	svc, _, user := newTestAuth(t)
	_, pair, err := svc.Login(context.Background(), "login@example.com", "hunter22")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	claims, err := ParseAndVerifyHS256(pair.AccessToken, []byte(testConfig().JWTSecret))
	if err != nil {
		t.Fatalf("verify access token: %v", err)
	}
	if sub, _ := claims["sub"].(string); sub != user.ID {
		t.Fatalf("wrong subject: %v", claims["sub"])
	}
	if role, _ := claims["role"].(string); role != string(registry.RoleParticipant) {
		t.Fatalf("wrong role claim: %v", claims["role"])
	}
	if name, _ := claims["name"].(string); name != "Login User" {
		t.Fatalf("wrong name claim: %v", claims["name"])
	}
}

func TestTamperedTokenFailsVerification(t *testing.T) {
	svc, _, _ := newTestAuth(t)
	_, pair, err := svc.Login(context.Background(), "login@example.com", "hunter22")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	parts := strings.Split(pair.AccessToken, ".")
	if len(parts) != 3 {
		t.Fatalf("expected 3 token segments, got %d", len(parts))
	}
	tampered := parts[0] + "." + parts[1] + ".AAAA" + parts[2][4:]
	if _, err := ParseAndVerifyHS256(tampered, []byte(testConfig().JWTSecret)); err == nil {
		t.Fatal("tampered signature must not verify")
	}

	// Verifying with the wrong secret must fail too.
	if _, err := ParseAndVerifyHS256(pair.AccessToken, []byte("other-secret")); err == nil {
		t.Fatal("wrong secret must not verify")
	}
}

func TestRefreshIssuesNewAccessToken(t *testing.T) {
	svc, _, user := newTestAuth(t)
	ctx := context.Background()

	_, pair, err := svc.Login(ctx, "login@example.com", "hunter22")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	access, expiresIn, err := svc.Refresh(ctx, pair.RefreshToken)
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if expiresIn != int64(testConfig().AccessTokenTTL.Seconds()) {
		t.Fatalf("unexpected expiry: %d", expiresIn)
	}
	claims, err := ParseAndVerifyHS256(access, []byte(testConfig().JWTSecret))
	if err != nil {
		t.Fatalf("verify refreshed token: %v", err)
	}
	if sub, _ := claims["sub"].(string); sub != user.ID {
		t.Fatalf("refreshed token for wrong user: %v", claims["sub"])
	}
}

func TestRefreshRejectsAccessToken(t *testing.T) {
	svc, _, _ := newTestAuth(t)
	ctx := context.Background()

	_, pair, err := svc.Login(ctx, "login@example.com", "hunter22")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	// An access token is signed with the other secret and must be refused.
	if _, _, err := svc.Refresh(ctx, pair.AccessToken); err == nil {
		t.Fatal("access token accepted as refresh token")
	}
}

func TestLogoutInvalidatesRefreshTokens(t *testing.T) {
	svc, _, user := newTestAuth(t)
	ctx := context.Background()

	_, pair, err := svc.Login(ctx, "login@example.com", "hunter22")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	if err := svc.Logout(ctx, user.ID); err != nil {
		t.Fatalf("logout: %v", err)
	}

	if _, _, err := svc.Refresh(ctx, pair.RefreshToken); err == nil {
		t.Fatal("refresh token must stop working after logout")
	}

	// A fresh login works and carries the bumped version.
	_, next, err := svc.Login(ctx, "login@example.com", "hunter22")
	if err != nil {
		t.Fatalf("re-login: %v", err)
	}
	if _, _, err := svc.Refresh(ctx, next.RefreshToken); err != nil {
		t.Fatalf("new refresh token should verify: %v", err)
	}
}
