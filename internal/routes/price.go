package routes

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/greenpula/greenpula/internal/pricefeed"
	"github.com/greenpula/greenpula/internal/settings"
)

type settingsReader interface {
	Get(ctx context.Context) (settings.SystemSettings, error)
}

// RegisterPriceRoutes wires the XRP quote endpoint. The poller owns feed
// failures, so this endpoint always has a pair to serve.
func RegisterPriceRoutes(r fiber.Router, price *pricefeed.Poller, cfg settingsReader) {
	r.Get("/price/xrp", func(c *fiber.Ctx) error {
		pair := pricefeed.Fallback()
		var asOf string
		if price != nil {
			current, observed := price.Current()
			pair = current
			asOf = timestamp(observed)
		}

		display := settings.CurrencyUSD
		if cfg != nil {
			if s, err := cfg.Get(c.UserContext()); err == nil {
				display = s.XRPDisplayCurrency
			}
		}

		return c.JSON(fiber.Map{
			"usd":              pair.USD,
			"bwp":              pair.BWP,
			"as_of":            asOf,
			"display_currency": display,
		})
	})
}

// RegisterSettingsReadRoute exposes the public configuration surface.
func RegisterSettingsReadRoute(r fiber.Router, cfg *settings.Service) {
	r.Get("/settings", func(c *fiber.Ctx) error {
		s, err := cfg.Get(c.UserContext())
		if err != nil {
			return domainError(err)
		}
		return c.JSON(settingsJSON(s))
	})
}

func settingsJSON(s settings.SystemSettings) fiber.Map {
	return fiber.Map{
		"site_title":               s.SiteTitle,
		"hero_tagline":             s.HeroTagline,
		"youtube_video_id":         s.YoutubeVideoID,
		"default_bottle_value_bwp": s.DefaultBottleValueBWP,
		"leaderboard_size":         s.LeaderboardSize,
		"xrp_display_currency":     s.XRPDisplayCurrency,
		"registration_fee_bwp":     s.RegistrationFeeBWP,
		"payment_phone_number":     s.PaymentPhoneNumber,
		"cycle_month":              s.CycleMonth,
		"total_cycle_months":       s.TotalCycleMonths,
		"min_monthly_target":       s.MinMonthlyTarget,
	}
}
