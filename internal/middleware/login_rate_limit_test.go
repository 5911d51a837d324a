package middleware

import (
	"net/http/httptest"
	"strings"
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

func newRateLimitApp(t *testing.T, maxPerMin int) (*fiber.App, func()) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	cache := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	app := fiber.New()
	app.Post("/login", LoginRateLimit(cache, maxPerMin), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	return app, func() {
		cache.Close()
		mr.Close()
	}
}

func loginAttempt(t *testing.T, app *fiber.App, identifier string) int {
	t.Helper()
	body := `{"identifier":"` + identifier + `","password":"x"}`
	req := httptest.NewRequest(fiber.MethodPost, "/login", strings.NewReader(body))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	return resp.StatusCode
}

func TestLoginRateLimitBlocksAfterThreshold(t *testing.T) {
	app, cleanup := newRateLimitApp(t, 3)
	defer cleanup()

	for i := 0; i < 3; i++ {
		if code := loginAttempt(t, app, "user@example.com"); code != fiber.StatusOK {
			t.Fatalf("attempt %d: expected 200, got %d", i+1, code)
		}
	}
	if code := loginAttempt(t, app, "user@example.com"); code != fiber.StatusTooManyRequests {
		t.Fatalf("expected 429 past the threshold, got %d", code)
	}
}

func TestLoginRateLimitIsPerIdentifier(t *testing.T) {
	app, cleanup := newRateLimitApp(t, 2)
	defer cleanup()

	for i := 0; i < 2; i++ {
		loginAttempt(t, app, "alice@example.com")
	}
	if code := loginAttempt(t, app, "alice@example.com"); code != fiber.StatusTooManyRequests {
		t.Fatalf("expected alice to be limited, got %d", code)
	}
	if code := loginAttempt(t, app, "bob@example.com"); code != fiber.StatusOK {
		t.Fatalf("bob must not share alice's budget, got %d", code)
	}
}

func TestLoginRateLimitNoopWithoutCache(t *testing.T) {
	app := fiber.New()
	app.Post("/login", LoginRateLimit(nil, 1), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	for i := 0; i < 5; i++ {
		req := httptest.NewRequest(fiber.MethodPost, "/login", strings.NewReader(`{"identifier":"x"}`))
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
		resp, err := app.Test(req)
		if err != nil {
			t.Fatalf("app.Test: %v", err)
		}
		if resp.StatusCode != fiber.StatusOK {
			t.Fatalf("expected fail-open without redis, got %d", resp.StatusCode)
		}
	}
}
