package leaderboard

import (
	"context"
	"sort"

	"github.com/greenpula/greenpula/internal/rank"
	"github.com/greenpula/greenpula/internal/registry"
	"github.com/greenpula/greenpula/internal/settings"
)

// Entry is one leaderboard row.
type Entry struct {
	Position        int
	UserID          string
	Name            string
	Avatar          string
	TotalBottles    int
	TotalXRP        float64
	Rank            rank.Rank
	MonthlyProgress float64
}

// Service derives standings from registry state.
type Service struct {
	repo     registry.Repository
	settings *settings.Service
}

// NewService builds a leaderboard service.
func NewService(repo registry.Repository, settings *settings.Service) *Service {
	return &Service{repo: repo, settings: settings}
}

// Standings returns participants ordered by TotalBottles descending. The
// sort is stable, so ties keep registration order. A limit of 0 uses the
// configured leaderboard size.
func (s *Service) Standings(ctx context.Context, limit int) ([]Entry, error) {
	cfg, err := s.settings.Get(ctx)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = cfg.LeaderboardSize
	}

	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	participants := users[:0:0]
	for _, u := range users {
		if u.Role == registry.RoleParticipant {
			participants = append(participants, u)
		}
	}

	sort.SliceStable(participants, func(i, j int) bool {
		return participants[i].TotalBottles > participants[j].TotalBottles
	})

	if len(participants) > limit {
		participants = participants[:limit]
	}

	entries := make([]Entry, len(participants))
	for i, u := range participants {
		entries[i] = Entry{
			Position:        i + 1,
			UserID:          u.ID,
			Name:            u.Name,
			Avatar:          u.Avatar,
			TotalBottles:    u.TotalBottles,
			TotalXRP:        u.TotalXRP,
			Rank:            rank.Classify(u.TotalBottles),
			MonthlyProgress: monthlyProgress(u.BottlesThisMonth, cfg.MinMonthlyTarget),
		}
	}
	return entries, nil
}

// monthlyProgress is the percentage of the monthly target met, capped at 100.
func monthlyProgress(bottlesThisMonth, target int) float64 {
	if target <= 0 {
		return 0
	}
	pct := float64(bottlesThisMonth) / float64(target) * 100
	if pct > 100 {
		return 100
	}
	return pct
}
