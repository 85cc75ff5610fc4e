package handlers

import (
	"github.com/gofiber/fiber/v2"

	"palletbay/internal/log"
	"palletbay/internal/services"
)

type ProductHandler struct {
	Catalog *services.CatalogService
}

// GET /api/admin/products
func (h *ProductHandler) List(c *fiber.Ctx) error {
	ps, err := h.Catalog.ListProducts(c.UserContext())
	if err != nil {
		return fail(c, "product.list", err)
	}
	return c.JSON(ps)
}

// GET /api/admin/products/:id
func (h *ProductHandler) Detail(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return fail(c, "product.get", err)
	}
	p, err := h.Catalog.GetProduct(c.UserContext(), id)
	if err != nil {
		return fail(c, "product.get", err)
	}
	return c.JSON(p)
}

// POST /api/admin/products
func (h *ProductHandler) Create(c *fiber.Ctx) error {
	var req productRequest
	if err := bind(c, &req); err != nil {
		return fail(c, "product.create", err)
	}
	id, err := h.Catalog.CreateProduct(c.UserContext(), req.input())
	if err != nil {
		return fail(c, "product.create", err)
	}
	log.Audit(c, "product.create", map[string]any{"product_id": id, "sku": req.SKU})
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"id": id})
}

// PUT /api/admin/products/:id
func (h *ProductHandler) Update(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return fail(c, "product.update", err)
	}
	var req productRequest
	if err := bind(c, &req); err != nil {
		return fail(c, "product.update", err)
	}
	if err := h.Catalog.UpdateProduct(c.UserContext(), id, req.input()); err != nil {
		return fail(c, "product.update", err)
	}
	log.Audit(c, "product.update", map[string]any{"product_id": id})
	p, err := h.Catalog.GetProduct(c.UserContext(), id)
	if err != nil {
		return fail(c, "product.get", err)
	}
	return c.JSON(p)
}

func (r productRequest) input() services.ProductInput {
	return services.ProductInput{SKU: r.SKU, Name: r.Name, Description: r.Description, Weight: r.Weight}
}
