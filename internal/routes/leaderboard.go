package routes

import (
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/greenpula/greenpula/internal/leaderboard"
	"github.com/greenpula/greenpula/internal/registry"
)

// RegisterLeaderboardRoutes wires the public standings and participant list.
func RegisterLeaderboardRoutes(r fiber.Router, boards *leaderboard.Service, regs *registry.Service) {
	r.Get("/leaderboard", func(c *fiber.Ctx) error {
		limit := 0
		if v := c.Query("limit"); v != "" {
			parsed, err := strconv.Atoi(v)
			if err != nil || parsed < 0 {
				return fiber.NewError(http.StatusBadRequest, "limit must be a non-negative integer")
			}
			limit = parsed
		}

		entries, err := boards.Standings(c.UserContext(), limit)
		if err != nil {
			return domainError(err)
		}

		out := make([]fiber.Map, len(entries))
		for i, e := range entries {
			out[i] = fiber.Map{
				"position":             e.Position,
				"user_id":              e.UserID,
				"name":                 e.Name,
				"avatar":               e.Avatar,
				"total_bottles":        e.TotalBottles,
				"total_xrp":            e.TotalXRP,
				"rank":                 e.Rank,
				"monthly_progress_pct": e.MonthlyProgress,
			}
		}
		return c.JSON(fiber.Map{"standings": out})
	})

	r.Get("/participants", func(c *fiber.Ctx) error {
		users, err := regs.List(c.UserContext())
		if err != nil {
			return domainError(err)
		}

		out := make([]fiber.Map, 0, len(users))
		for _, u := range users {
			if u.Role != registry.RoleParticipant || u.RegistrationStatus != registry.StatusApproved {
				continue
			}
			out = append(out, userJSON(u))
		}
		return c.JSON(fiber.Map{"participants": out})
	})
}
