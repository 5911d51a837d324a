package routes

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/greenpula/greenpula/internal/insights"
	"github.com/greenpula/greenpula/internal/registry"
)

// RegisterInsightRoutes wires the on-demand AI blurbs. Both endpoints are
// total: generation failures surface as canned copy, never as errors.
func RegisterInsightRoutes(r fiber.Router, svc *insights.Service, regs *registry.Service) {
	r.Get("/insights/impact", func(c *fiber.Ctx) error {
		uid, _ := c.Locals("user_id").(string)
		user, err := regs.Get(c.UserContext(), uid)
		if err != nil {
			return fiber.NewError(http.StatusUnauthorized, "user not found")
		}

		return c.JSON(fiber.Map{
			"text": svc.RecyclingImpact(c.UserContext(), user.TotalBottles, user.TotalXRP),
		})
	})

	r.Get("/insights/forecast", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"text": svc.MarketForecast(c.UserContext()),
		})
	})
}
