package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"palletbay/internal/config"
	applog "palletbay/internal/log"
)

// NewApp builds the fiber app with middleware and every route mounted.
func NewApp(cfg config.Config, d *Deps) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "palletbay",
		ErrorHandler: ErrorHandler,
		BodyLimit:    1 << 20, // 1 MiB
	})

	// ---------- Middlewares ----------
	app.Use(requestid.New())
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format: "${time} ${locals:requestid} ${status} ${method} ${path} ${latency}\n",
	}))
	app.Use(helmet.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSOrigin,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,PATCH,DELETE",
	}))

	// ---------- Routes ----------
	app.Get("/healthz", func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()
		if err := d.DB.PingContext(ctx); err != nil {
			applog.Error(c, "health.db.fail", err, nil)
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"ok": false})
		}
		return c.JSON(fiber.Map{"ok": true})
	})

	api := app.Group("/api")
	api.Post("/login", limiter.New(limiter.Config{
		Max:        cfg.LoginLimit,
		Expiration: 10 * time.Minute,
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.login.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": "too many attempts, try again later"})
		},
	}), d.AuthHandler.Login)

	admin := api.Group("/admin", RequireAuth(d.Auth), RequireAdmin())
	admin.Get("/inventory", d.InventoryHandler.AdminList)
	admin.Post("/inventory", d.InventoryHandler.Inbound)
	admin.Post("/inventory/:id/outbound", d.InventoryHandler.Outbound)
	admin.Patch("/inventory/:id", d.InventoryHandler.Relocate)
	admin.Get("/resources", d.AdminHandler.Resources)

	admin.Get("/products", d.ProductHandler.List)
	admin.Post("/products", d.ProductHandler.Create)
	admin.Get("/products/:id", d.ProductHandler.Detail)
	admin.Put("/products/:id", d.ProductHandler.Update)

	admin.Get("/clients", d.AdminHandler.Clients)
	admin.Post("/clients", d.AdminHandler.CreateClient)
	admin.Get("/clients/:id", d.AdminHandler.Client)
	admin.Put("/clients/:id", d.AdminHandler.UpdateClient)
	admin.Delete("/clients/:id", d.AdminHandler.DeleteClient)

	client := api.Group("/client", RequireAuth(d.Auth), RequireClient())
	client.Get("/inventory", d.InventoryHandler.ClientList)

	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not found"})
	})
	return app
}
