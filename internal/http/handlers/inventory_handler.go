package handlers

import (
	"github.com/gofiber/fiber/v2"

	"palletbay/internal/log"
	"palletbay/internal/services"
)

type InventoryHandler struct {
	Stock *services.StockService
	Inv   *services.InventoryService
}

// GET /api/admin/inventory
func (h *InventoryHandler) AdminList(c *fiber.Ctx) error {
	who, _ := identity(c)
	rows, err := h.Inv.AdminView(c.UserContext(), who)
	if err != nil {
		return fail(c, "inventory.list", err)
	}
	return c.JSON(rows)
}

// GET /api/client/inventory
func (h *InventoryHandler) ClientList(c *fiber.Ctx) error {
	who, _ := identity(c)
	rows, err := h.Inv.ClientView(c.UserContext(), who)
	if err != nil {
		return fail(c, "inventory.client.list", err)
	}
	return c.JSON(rows)
}

// POST /api/admin/inventory
func (h *InventoryHandler) Inbound(c *fiber.Ctx) error {
	var req inboundRequest
	if err := bind(c, &req); err != nil {
		return fail(c, "inventory.inbound", err)
	}
	id, err := h.Stock.Inbound(c.UserContext(), services.InboundInput{
		ProductID:  int64(req.ProductID),
		ClientID:   int64(req.ClientID),
		Quantity:   int(req.Quantity),
		Location:   req.Location,
		PalletType: req.PalletType,
	})
	if err != nil {
		return fail(c, "inventory.inbound", err)
	}
	log.Audit(c, "inventory.inbound", map[string]any{
		"entry_id":    id,
		"product_id":  int64(req.ProductID),
		"client_id":   int64(req.ClientID),
		"quantity":    int(req.Quantity),
		"location":    req.Location,
		"pallet_type": req.PalletType,
	})
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"id": id})
}

// POST /api/admin/inventory/:id/outbound
func (h *InventoryHandler) Outbound(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return fail(c, "inventory.outbound", err)
	}
	var req outboundRequest
	if err := bind(c, &req); err != nil {
		return fail(c, "inventory.outbound", err)
	}
	res, err := h.Stock.Outbound(c.UserContext(), id, int(req.WithdrawQuantity))
	if err != nil {
		return fail(c, "inventory.outbound", err)
	}
	log.Audit(c, "inventory.outbound", map[string]any{
		"entry_id":  id,
		"withdrawn": res.Withdrawn,
		"remaining": res.Remaining,
		"removed":   res.Removed,
	})
	return c.JSON(res)
}

// PATCH /api/admin/inventory/:id
func (h *InventoryHandler) Relocate(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return fail(c, "inventory.relocate", err)
	}
	var req relocateRequest
	if err := bind(c, &req); err != nil {
		return fail(c, "inventory.relocate", err)
	}
	e, err := h.Stock.Relocate(c.UserContext(), id, req.Location, req.PalletType)
	if err != nil {
		return fail(c, "inventory.relocate", err)
	}
	log.Audit(c, "inventory.relocate", map[string]any{
		"entry_id":    id,
		"location":    e.Location,
		"pallet_type": e.PalletType,
	})
	return c.JSON(e)
}
