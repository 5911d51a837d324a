package routes

import (
	"log/slog"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/greenpula/greenpula/internal/auth"
	"github.com/greenpula/greenpula/internal/registry"
)

// RegisterRegistrationRoutes wires participant onboarding. Registration
// immediately issues a session for the new PENDING user.
func RegisterRegistrationRoutes(r fiber.Router, regs *registry.Service, authSvc *auth.Service, logger *slog.Logger) {
	r.Post("/register", func(c *fiber.Ctx) error {
		var req struct {
			Name          string `json:"name"`
			Email         string `json:"email"`
			Phone         string `json:"phone"`
			Password      string `json:"password"`
			PaymentMethod string `json:"payment_method"`
		}
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(http.StatusBadRequest, err.Error())
		}

		user, err := regs.Register(c.UserContext(), registry.RegisterInput{
			Name:          req.Name,
			Email:         req.Email,
			Phone:         req.Phone,
			Password:      req.Password,
			PaymentMethod: registry.PaymentMethod(req.PaymentMethod),
		})
		if err != nil {
			return domainError(err)
		}

		tokens, err := authSvc.Issue(user)
		if err != nil {
			return fiber.NewError(http.StatusInternalServerError, "issue session")
		}

		if logger != nil {
			logger.Info("registration completed",
				slog.String("user_id", user.ID),
				slog.String("email", user.Email),
				slog.Int("status", http.StatusCreated),
			)
		}

		return c.Status(http.StatusCreated).JSON(fiber.Map{
			"user":   userJSON(user),
			"tokens": tokens,
		})
	})
}

// RegisterProfileRoutes wires the authenticated self-service endpoints.
func RegisterProfileRoutes(r fiber.Router, regs *registry.Service, cfg settingsReader) {
	r.Get("/me", func(c *fiber.Ctx) error {
		uid, _ := c.Locals("user_id").(string)
		if uid == "" {
			return c.SendStatus(http.StatusUnauthorized)
		}
		user, err := regs.Get(c.UserContext(), uid)
		if err != nil {
			return fiber.NewError(http.StatusUnauthorized, "user not found")
		}

		s, err := cfg.Get(c.UserContext())
		if err != nil {
			return fiber.NewError(http.StatusInternalServerError, err.Error())
		}

		progress := 0.0
		if s.MinMonthlyTarget > 0 {
			progress = float64(user.BottlesThisMonth) / float64(s.MinMonthlyTarget) * 100
		}

		resp := userJSON(user)
		resp["history"] = historyJSON(user.History)
		resp["collection_records"] = recordsJSON(user.Records)
		resp["monthly_progress_pct"] = progress
		resp["monthly_target"] = s.MinMonthlyTarget
		return c.JSON(resp)
	})
}
