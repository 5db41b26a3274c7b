package api

import (
	"github.com/gofiber/fiber/v2"

	"github.com/fathima-sithara/marketplace-service/internal/service"
)

func (h *Handlers) register(c *fiber.Ctx) error {
	var in service.RegisterInput
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
	}
	u, err := h.users.Register(c.Context(), in)
	if err != nil {
		return h.httpError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(u)
}

func (h *Handlers) getUser(c *fiber.Ctx) error {
	u, err := h.users.Get(c.Context(), c.Params("user_id"))
	if err != nil {
		return h.httpError(c, err)
	}
	return c.JSON(u)
}

func (h *Handlers) getUserProducts(c *fiber.Ctx) error {
	products, err := h.users.ProductsOf(c.Context(), c.Params("user_id"))
	if err != nil {
		return h.httpError(c, err)
	}
	return c.JSON(products)
}

func (h *Handlers) login(c *fiber.Ctx) error {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
	}
	token, err := h.auth.Login(c.Context(), req.Email, req.Password)
	if err != nil {
		return h.httpError(c, err)
	}
	return c.JSON(fiber.Map{"access_token": token, "token_type": "bearer"})
}
