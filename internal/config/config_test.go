package config

import (
	"testing"
	"time"
)

func TestLoadDefaultsInDevelopment(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.AppName != "GreenPula" {
		t.Fatalf("unexpected app name: %s", cfg.AppName)
	}
	if !cfg.IsDev() {
		t.Fatalf("default env should be development, got %s", cfg.AppEnv)
	}
	if cfg.AccessTokenTTL != 15*time.Minute || cfg.RefreshTokenTTL != 7*24*time.Hour {
		t.Fatalf("unexpected token TTLs: %v / %v", cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	}
	if cfg.PricePollEvery != 60*time.Second {
		t.Fatalf("unexpected poll interval: %v", cfg.PricePollEvery)
	}
	if !cfg.SeedDemoData {
		t.Fatal("demo data should be seeded by default in development")
	}
}

func TestLoadRequiresStoresOutsideDev(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("REDIS_URL", "")

	if _, err := Load(); err == nil {
		t.Fatal("expected error without DATABASE_URL in production")
	}

	t.Setenv("DATABASE_URL", "postgres://localhost/greenpula")
	if _, err := Load(); err == nil {
		t.Fatal("expected error without REDIS_URL in production")
	}

	t.Setenv("REDIS_URL", "redis://localhost:6379")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.IsDev() {
		t.Fatal("production must not report dev mode")
	}
}

func TestDurationEnvVariants(t *testing.T) {
	t.Setenv("ACCESS_TOKEN_TTL", "30m")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.AccessTokenTTL != 30*time.Minute {
		t.Fatalf("duration form ignored: %v", cfg.AccessTokenTTL)
	}

	t.Setenv("ACCESS_TOKEN_TTL", "")
	t.Setenv("ACCESS_TOKEN_TTL_SECONDS", "120")
	cfg, err = Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.AccessTokenTTL != 2*time.Minute {
		t.Fatalf("seconds form ignored: %v", cfg.AccessTokenTTL)
	}

	t.Setenv("ACCESS_TOKEN_TTL_SECONDS", "not-a-number")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for malformed seconds value")
	}
}

func TestAddress(t *testing.T) {
	if got := (Config{Port: "8080"}).Address(); got != ":8080" {
		t.Fatalf("unexpected address: %s", got)
	}
	if got := (Config{Port: ":9090"}).Address(); got != ":9090" {
		t.Fatalf("unexpected address: %s", got)
	}
}
