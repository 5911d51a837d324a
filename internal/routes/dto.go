package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/greenpula/greenpula/internal/rank"
	"github.com/greenpula/greenpula/internal/registry"
)

const dateLayout = "2006-01-02"

func userJSON(u registry.User) fiber.Map {
	return fiber.Map{
		"id":                  u.ID,
		"role":                u.Role,
		"name":                u.Name,
		"email":               u.Email,
		"phone_primary":       u.PhonePrimary,
		"avatar":              u.Avatar,
		"registration_status": u.RegistrationStatus,
		"payment_method":      u.PaymentMethod,
		"join_date":           u.JoinDate.Format(dateLayout),
		"total_bottles":       u.TotalBottles,
		"bottles_this_month":  u.BottlesThisMonth,
		"total_cash_bwp":      u.TotalCashBWP,
		"total_xrp":           u.TotalXRP,
		"rank":                rank.Classify(u.TotalBottles),
	}
}

func recordJSON(r registry.CollectionRecord) fiber.Map {
	return fiber.Map{
		"id":          r.ID,
		"date":        r.Date.Format(dateLayout),
		"amount":      r.Amount,
		"value_bwp":   r.ValueBWP,
		"verified_by": r.VerifiedBy,
	}
}

func recordsJSON(records []registry.CollectionRecord) []fiber.Map {
	out := make([]fiber.Map, len(records))
	for i, r := range records {
		out[i] = recordJSON(r)
	}
	return out
}

func historyJSON(entries []registry.MonthlyEntry) []fiber.Map {
	out := make([]fiber.Map, len(entries))
	for i, e := range entries {
		out[i] = fiber.Map{
			"month":      e.Month,
			"bottles":    e.Bottles,
			"xrp_price":  e.XRPPrice,
			"xrp_earned": e.XRPEarned,
		}
	}
	return out
}

func timestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
