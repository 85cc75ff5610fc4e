package handlers

import (
	"github.com/gofiber/fiber/v2"

	applog "palletbay/internal/log"
	"palletbay/internal/services"
)

// AdminHandler manages client accounts and the inbound form lookups.
type AdminHandler struct {
	Catalog *services.CatalogService
}

// GET /api/admin/resources
func (h *AdminHandler) Resources(c *fiber.Ctx) error {
	res, err := h.Catalog.Resources(c.UserContext())
	if err != nil {
		return fail(c, "admin.resources", err)
	}
	return c.JSON(res)
}

// GET /api/admin/clients
func (h *AdminHandler) Clients(c *fiber.Ctx) error {
	cs, err := h.Catalog.ListClients(c.UserContext())
	if err != nil {
		return fail(c, "admin.clients.list", err)
	}
	return c.JSON(cs)
}

// GET /api/admin/clients/:id
func (h *AdminHandler) Client(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return fail(c, "admin.clients.get", err)
	}
	cl, err := h.Catalog.GetClient(c.UserContext(), id)
	if err != nil {
		return fail(c, "admin.clients.get", err)
	}
	return c.JSON(cl)
}

// POST /api/admin/clients
func (h *AdminHandler) CreateClient(c *fiber.Ctx) error {
	var req clientRequest
	if err := bind(c, &req); err != nil {
		return fail(c, "admin.clients.create", err)
	}
	id, err := h.Catalog.CreateClient(c.UserContext(), req.input())
	if err != nil {
		return fail(c, "admin.clients.create", err)
	}
	applog.Audit(c, "admin.clients.create", map[string]any{"client_id": id, "email": req.Email})
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"id": id})
}

// PUT /api/admin/clients/:id
func (h *AdminHandler) UpdateClient(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return fail(c, "admin.clients.update", err)
	}
	var req clientRequest
	if err := bind(c, &req); err != nil {
		return fail(c, "admin.clients.update", err)
	}
	if err := h.Catalog.UpdateClient(c.UserContext(), id, req.input()); err != nil {
		return fail(c, "admin.clients.update", err)
	}
	applog.Audit(c, "admin.clients.update", map[string]any{"client_id": id})
	cl, err := h.Catalog.GetClient(c.UserContext(), id)
	if err != nil {
		return fail(c, "admin.clients.get", err)
	}
	return c.JSON(cl)
}

// DELETE /api/admin/clients/:id
func (h *AdminHandler) DeleteClient(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return fail(c, "admin.clients.delete", err)
	}
	if err := h.Catalog.DeleteClient(c.UserContext(), id); err != nil {
		return fail(c, "admin.clients.delete", err)
	}
	applog.Audit(c, "admin.clients.delete", map[string]any{"client_id": id})
	return c.SendStatus(fiber.StatusNoContent)
}

func (r clientRequest) input() services.ClientInput {
	return services.ClientInput{Name: r.Name, Email: r.Email, Password: r.Password, CUIT: r.CUIT}
}
