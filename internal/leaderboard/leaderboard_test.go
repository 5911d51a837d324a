package leaderboard

import (
	"context"
	"fmt"
	"testing"

	"github.com/greenpula/greenpula/internal/rank"
	"github.com/greenpula/greenpula/internal/registry"
	"github.com/greenpula/greenpula/internal/settings"
)

func seedParticipant(t *testing.T, repo registry.Repository, name string, totalBottles, monthly int) registry.User {
	t.Helper()
	user := registry.User{
		ID:                 fmt.Sprintf("user-%s", name),
		Role:               registry.RoleParticipant,
		Name:               name,
		Email:              fmt.Sprintf("%s@example.com", name),
		PhonePrimary:       fmt.Sprintf("71%06d", totalBottles),
		RegistrationStatus: registry.StatusApproved,
		PaymentMethod:      registry.PayCash,
		TotalBottles:       totalBottles,
		BottlesThisMonth:   monthly,
	}
	if err := repo.Create(context.Background(), user); err != nil {
		t.Fatalf("create %s: %v", name, err)
	}
	return user
}

func TestStandingsOrderAndPositions(t *testing.T) {
	repo := registry.NewMemoryRepository()
	svc := NewService(repo, settings.NewService(settings.NewMemoryRepository()))

	seedParticipant(t, repo, "low", 400, 0)
	seedParticipant(t, repo, "high", 1500, 0)
	seedParticipant(t, repo, "mid", 1300, 0)

	entries, err := svc.Standings(context.Background(), 0)
	if err != nil {
		t.Fatalf("standings: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}
	wantOrder := []string{"high", "mid", "low"}
	for i, name := range wantOrder {
		if entries[i].Name != name {
			t.Fatalf("position %d: expected %s, got %s", i+1, name, entries[i].Name)
		}
		if entries[i].Position != i+1 {
			t.Fatalf("expected position %d, got %d", i+1, entries[i].Position)
		}
	}
	if entries[0].Rank != rank.Whale || entries[1].Rank != rank.Master || entries[2].Rank != rank.Novice {
		t.Fatalf("ranks not derived from totals: %s %s %s", entries[0].Rank, entries[1].Rank, entries[2].Rank)
	}
}

func TestStandingsTiesKeepRegistrationOrder(t *testing.T) {
	repo := registry.NewMemoryRepository()
	svc := NewService(repo, settings.NewService(settings.NewMemoryRepository()))

	seedParticipant(t, repo, "earlier", 1000, 0)
	seedParticipant(t, repo, "later", 1000, 0)

	entries, err := svc.Standings(context.Background(), 0)
	if err != nil {
		t.Fatalf("standings: %v", err)
	}
	if entries[0].Name != "earlier" || entries[1].Name != "later" {
		t.Fatalf("tie order unstable: %s then %s", entries[0].Name, entries[1].Name)
	}
}

func TestStandingsExcludeAdmins(t *testing.T) {
	repo := registry.NewMemoryRepository()
	svc := NewService(repo, settings.NewService(settings.NewMemoryRepository()))

	seedParticipant(t, repo, "pioneer", 800, 0)
	admin := registry.User{
		ID: "admin-1", Role: registry.RoleAdmin, Name: "Admin 1",
		Email: "admin@example.com", PhonePrimary: "70000001",
		RegistrationStatus: registry.StatusApproved, TotalBottles: 9999,
	}
	if err := repo.Create(context.Background(), admin); err != nil {
		t.Fatalf("create admin: %v", err)
	}

	entries, err := svc.Standings(context.Background(), 0)
	if err != nil {
		t.Fatalf("standings: %v", err)
	}
	if len(entries) != 1 || entries[0].Name != "pioneer" {
		t.Fatalf("admins must not appear on the board: %+v", entries)
	}
}

func TestStandingsLimit(t *testing.T) {
	repo := registry.NewMemoryRepository()
	svc := NewService(repo, settings.NewService(settings.NewMemoryRepository()))

	for i := 0; i < 30; i++ {
		seedParticipant(t, repo, fmt.Sprintf("p%02d", i), 100+i, 0)
	}

	entries, err := svc.Standings(context.Background(), 5)
	if err != nil {
		t.Fatalf("standings: %v", err)
	}
	if len(entries) != 5 {
		t.Fatalf("explicit limit ignored: %d entries", len(entries))
	}

	entries, err = svc.Standings(context.Background(), 0)
	if err != nil {
		t.Fatalf("standings: %v", err)
	}
	if len(entries) != settings.Defaults().LeaderboardSize {
		t.Fatalf("expected default leaderboard size %d, got %d", settings.Defaults().LeaderboardSize, len(entries))
	}
}

func TestMonthlyProgressCappedAtHundred(t *testing.T) {
	repo := registry.NewMemoryRepository()
	svc := NewService(repo, settings.NewService(settings.NewMemoryRepository()))

	seedParticipant(t, repo, "over", 1000, 600) // target is 250
	seedParticipant(t, repo, "half", 500, 125)

	entries, err := svc.Standings(context.Background(), 0)
	if err != nil {
		t.Fatalf("standings: %v", err)
	}
	if entries[0].MonthlyProgress != 100 {
		t.Fatalf("expected capped 100, got %.1f", entries[0].MonthlyProgress)
	}
	if entries[1].MonthlyProgress != 50 {
		t.Fatalf("expected 50%%, got %.1f", entries[1].MonthlyProgress)
	}
}
