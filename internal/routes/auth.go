package routes

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/greenpula/greenpula/internal/auth"
)

// RegisterAuthRoutes wires login, token refresh and logout.
func RegisterAuthRoutes(r fiber.Router, authSvc *auth.Service, rateLimiter fiber.Handler) {
	r.Post("/auth/login", rateLimiter, func(c *fiber.Ctx) error {
		var req struct {
			Identifier string `json:"identifier"`
			Password   string `json:"password"`
		}
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(http.StatusBadRequest, err.Error())
		}

		user, tokens, err := authSvc.Login(c.UserContext(), req.Identifier, req.Password)
		if err != nil {
			return fiber.NewError(http.StatusUnauthorized, "invalid credentials")
		}

		return c.JSON(fiber.Map{
			"user":   userJSON(user),
			"tokens": tokens,
		})
	})

	r.Post("/auth/refresh", func(c *fiber.Ctx) error {
		var req struct {
			RefreshToken string `json:"refresh_token"`
		}
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(http.StatusBadRequest, err.Error())
		}

		access, expiresIn, err := authSvc.Refresh(c.UserContext(), req.RefreshToken)
		if err != nil {
			return fiber.NewError(http.StatusUnauthorized, err.Error())
		}

		return c.JSON(fiber.Map{
			"access_token": access,
			"expires_in":   expiresIn,
		})
	})
}

// RegisterLogoutRoute wires logout behind JWT auth.
func RegisterLogoutRoute(r fiber.Router, authSvc *auth.Service) {
	r.Post("/auth/logout", func(c *fiber.Ctx) error {
		uid, _ := c.Locals("user_id").(string)
		if uid == "" {
			return c.SendStatus(http.StatusUnauthorized)
		}
		if err := authSvc.Logout(c.UserContext(), uid); err != nil {
			return domainError(err)
		}
		return c.SendStatus(http.StatusNoContent)
	})
}
