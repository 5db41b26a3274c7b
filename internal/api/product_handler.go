package api

import (
	"github.com/gofiber/fiber/v2"

	"github.com/fathima-sithara/marketplace-service/internal/service"
)

func (h *Handlers) listProducts(c *fiber.Ctx) error {
	products, err := h.products.List(c.Context())
	if err != nil {
		return h.httpError(c, err)
	}
	return c.JSON(products)
}

func (h *Handlers) getProduct(c *fiber.Ctx) error {
	p, err := h.products.Get(c.Context(), c.Params("product_id"))
	if err != nil {
		return h.httpError(c, err)
	}
	return c.JSON(p)
}

func (h *Handlers) createProduct(c *fiber.Ctx) error {
	var in service.CreateProductInput
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
	}
	p, err := h.products.Create(c.Context(), currentUserID(c), in)
	if err != nil {
		return h.httpError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(p)
}

func (h *Handlers) updateProduct(c *fiber.Ctx) error {
	fields := map[string]interface{}{}
	if err := c.BodyParser(&fields); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
	}
	p, err := h.products.Update(c.Context(), currentUserID(c), currentRole(c), c.Params("product_id"), fields)
	if err != nil {
		return h.httpError(c, err)
	}
	return c.JSON(p)
}

func (h *Handlers) deleteProduct(c *fiber.Ctx) error {
	if err := h.products.Delete(c.Context(), currentUserID(c), currentRole(c), c.Params("product_id")); err != nil {
		return h.httpError(c, err)
	}
	return c.JSON(fiber.Map{"detail": "product deleted"})
}

func (h *Handlers) markProductSold(c *fiber.Ctx) error {
	p, err := h.products.MarkSold(c.Context(), currentUserID(c), currentRole(c), c.Params("product_id"))
	if err != nil {
		return h.httpError(c, err)
	}
	return c.JSON(p)
}
