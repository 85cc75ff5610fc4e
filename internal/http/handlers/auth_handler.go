package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"palletbay/internal/log"
	"palletbay/internal/services"
)

type AuthHandler struct {
	Auth *services.AuthService
}

// POST /api/login
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := bind(c, &req); err != nil {
		log.Security(c, "auth.login.fail", map[string]any{"reason": "bad_format"})
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid email or password"})
	}

	res, err := h.Auth.Login(c.UserContext(), req.Email, req.Password)
	if errors.Is(err, services.ErrBadCreds) {
		log.Security(c, "auth.login.fail", map[string]any{"email": req.Email})
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid email or password"})
	}
	if err != nil {
		return fail(c, "auth.login", err)
	}

	c.Locals("user_id", res.ClientID)
	log.Audit(c, "auth.login.success", map[string]any{"email": req.Email, "role": res.Role})
	return c.JSON(res)
}
