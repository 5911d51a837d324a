package routes

import (
	"log/slog"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/greenpula/greenpula/internal/ledger"
	"github.com/greenpula/greenpula/internal/registry"
	"github.com/greenpula/greenpula/internal/settings"
)

// RegisterAdminRoutes wires the admin lifecycle operations: registration
// review, collection logging, stat corrections, settings and the cycle-month
// reset.
func RegisterAdminRoutes(r fiber.Router, regs *registry.Service, ledg *ledger.Service, cfg *settings.Service, logger *slog.Logger) {
	r.Get("/users", func(c *fiber.Ctx) error {
		users, err := regs.List(c.UserContext())
		if err != nil {
			return domainError(err)
		}
		out := make([]fiber.Map, len(users))
		for i, u := range users {
			out[i] = userJSON(u)
		}
		return c.JSON(fiber.Map{"users": out})
	})

	r.Get("/registrations/pending", func(c *fiber.Ctx) error {
		users, err := regs.List(c.UserContext())
		if err != nil {
			return domainError(err)
		}
		out := make([]fiber.Map, 0)
		for _, u := range users {
			if u.RegistrationStatus == registry.StatusPending {
				out = append(out, userJSON(u))
			}
		}
		return c.JSON(fiber.Map{"pending": out})
	})

	r.Post("/users/:id/approve", func(c *fiber.Ctx) error {
		userID := c.Params("id")
		if err := regs.Approve(c.UserContext(), userID); err != nil {
			return domainError(err)
		}
		if logger != nil {
			logger.Info("registration approved", slog.String("user_id", userID))
		}
		return c.SendStatus(http.StatusNoContent)
	})

	r.Post("/users/:id/reject", func(c *fiber.Ctx) error {
		userID := c.Params("id")
		if err := regs.Reject(c.UserContext(), userID); err != nil {
			return domainError(err)
		}
		if logger != nil {
			logger.Info("registration rejected", slog.String("user_id", userID))
		}
		return c.SendStatus(http.StatusNoContent)
	})

	r.Post("/users/:id/collections", func(c *fiber.Ctx) error {
		var req struct {
			Amount int `json:"amount"`
		}
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(http.StatusBadRequest, err.Error())
		}

		verifier, _ := c.Locals("user_name").(string)
		rec, err := ledg.Log(c.UserContext(), ledger.LogInput{
			UserID:     c.Params("id"),
			Amount:     req.Amount,
			VerifiedBy: verifier,
		})
		if err != nil {
			return domainError(err)
		}

		if logger != nil {
			logger.Info("collection logged",
				slog.String("user_id", c.Params("id")),
				slog.Int("amount", rec.Amount),
				slog.Float64("value_bwp", rec.ValueBWP),
				slog.String("verified_by", rec.VerifiedBy),
			)
		}
		return c.Status(http.StatusCreated).JSON(recordJSON(rec))
	})

	r.Put("/users/:id/stats", func(c *fiber.Ctx) error {
		var req struct {
			TotalBottles int     `json:"total_bottles"`
			TotalXRP     float64 `json:"total_xrp"`
		}
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(http.StatusBadRequest, err.Error())
		}
		if err := regs.UpdateStats(c.UserContext(), c.Params("id"), req.TotalBottles, req.TotalXRP); err != nil {
			return domainError(err)
		}
		return c.SendStatus(http.StatusNoContent)
	})

	r.Put("/settings", func(c *fiber.Ctx) error {
		var req struct {
			SiteTitle             string  `json:"site_title"`
			HeroTagline           string  `json:"hero_tagline"`
			YoutubeVideoID        string  `json:"youtube_video_id"`
			DefaultBottleValueBWP float64 `json:"default_bottle_value_bwp"`
			LeaderboardSize       int     `json:"leaderboard_size"`
			XRPDisplayCurrency    string  `json:"xrp_display_currency"`
			RegistrationFeeBWP    float64 `json:"registration_fee_bwp"`
			PaymentPhoneNumber    string  `json:"payment_phone_number"`
			CycleMonth            int     `json:"cycle_month"`
			TotalCycleMonths      int     `json:"total_cycle_months"`
			MinMonthlyTarget      int     `json:"min_monthly_target"`
		}
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(http.StatusBadRequest, err.Error())
		}

		next := settings.SystemSettings{
			SiteTitle:             req.SiteTitle,
			HeroTagline:           req.HeroTagline,
			YoutubeVideoID:        req.YoutubeVideoID,
			DefaultBottleValueBWP: req.DefaultBottleValueBWP,
			LeaderboardSize:       req.LeaderboardSize,
			XRPDisplayCurrency:    settings.DisplayCurrency(req.XRPDisplayCurrency),
			RegistrationFeeBWP:    req.RegistrationFeeBWP,
			PaymentPhoneNumber:    req.PaymentPhoneNumber,
			CycleMonth:            req.CycleMonth,
			TotalCycleMonths:      req.TotalCycleMonths,
			MinMonthlyTarget:      req.MinMonthlyTarget,
		}
		if err := cfg.Replace(c.UserContext(), next); err != nil {
			return domainError(err)
		}
		return c.JSON(settingsJSON(next))
	})

	r.Post("/cycle/reset-month", func(c *fiber.Ctx) error {
		changed, err := regs.ResetMonth(c.UserContext())
		if err != nil {
			return domainError(err)
		}
		if logger != nil {
			logger.Info("monthly counters reset", slog.Int("participants", changed))
		}
		return c.JSON(fiber.Map{"reset": changed})
	})
}
