package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"palletbay/internal/domain"
	applog "palletbay/internal/log"
	"palletbay/internal/services"
)

const localIdentity = "identity"

// RequireAuth verifies the bearer token and stores the caller's identity.
// Anything short of a valid token is a 401.
func RequireAuth(auth *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw := bearer(c.Get(fiber.HeaderAuthorization))
		if raw == "" {
			applog.Security(c, "access.denied.anonymous", nil)
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "authentication required"})
		}
		who, err := auth.Identify(raw)
		if err != nil {
			applog.Security(c, "access.denied.token", map[string]any{"reason": err.Error()})
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid or expired token"})
		}
		c.Locals(localIdentity, who)
		c.Locals("user_id", who.ClientID)
		return c.Next()
	}
}

func RequireAdmin() fiber.Handler {
	return requireRole(domain.RoleAdmin, "access.denied.admin")
}

// RequireClient admits client accounts only; the admin has its own views.
func RequireClient() fiber.Handler {
	return requireRole(domain.RoleClient, "access.denied.client")
}

func requireRole(role, action string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		who, ok := identity(c)
		if !ok || who.Role != role {
			applog.Security(c, action, map[string]any{"role": who.Role})
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "forbidden"})
		}
		return c.Next()
	}
}

func identity(c *fiber.Ctx) (domain.Identity, bool) {
	who, ok := c.Locals(localIdentity).(domain.Identity)
	return who, ok
}

func bearer(h string) string {
	scheme, tok, ok := strings.Cut(strings.TrimSpace(h), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(tok)
}
