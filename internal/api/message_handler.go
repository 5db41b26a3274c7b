package api

import (
	"github.com/gofiber/fiber/v2"
)

func (h *Handlers) sendMessage(c *fiber.Ctx) error {
	var req struct {
		ReceiverID string  `json:"receiver_id"`
		Content    string  `json:"content"`
		ProductID  *string `json:"product_id"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
	}

	msg, err := h.messaging.Send(c.Context(), currentUserID(c), req.ReceiverID, req.Content, req.ProductID)
	if err != nil {
		return h.httpError(c, err)
	}
	h.pub.MessageCreated(msg.ReceiverID, msg)
	return c.Status(fiber.StatusCreated).JSON(msg)
}

func (h *Handlers) listMyMessages(c *fiber.Ctx) error {
	msgs, err := h.messaging.ListMine(c.Context(), currentUserID(c))
	if err != nil {
		return h.httpError(c, err)
	}
	return c.JSON(msgs)
}

func (h *Handlers) unreadCount(c *fiber.Ctx) error {
	count, err := h.messaging.UnreadCount(c.Context(), currentUserID(c))
	if err != nil {
		return h.httpError(c, err)
	}
	return c.JSON(fiber.Map{"unread_count": count})
}

func (h *Handlers) inbox(c *fiber.Ctx) error {
	conversations, err := h.messaging.Inbox(c.Context(), currentUserID(c))
	if err != nil {
		return h.httpError(c, err)
	}
	return c.JSON(conversations)
}

func (h *Handlers) thread(c *fiber.Ctx) error {
	otherID := c.Params("user_id")
	var productID *string
	if pid := c.Query("product_id"); pid != "" {
		productID = &pid
	}

	view, err := h.messaging.Thread(c.Context(), currentUserID(c), otherID, productID)
	if err != nil {
		return h.httpError(c, err)
	}
	return c.JSON(view)
}
