package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/fathima-sithara/marketplace-service/internal/apperr"
	"github.com/fathima-sithara/marketplace-service/internal/events"
	"github.com/fathima-sithara/marketplace-service/internal/service"
)

type Handlers struct {
	auth      *service.AuthService
	users     *service.UserService
	products  *service.ProductService
	messaging *service.MessagingService
	uploads   *service.UploadService // nil when no bucket is configured
	pub       *events.Publisher      // nil when no broker is configured
	log       *zap.SugaredLogger
}

func NewHandlers(
	auth *service.AuthService,
	users *service.UserService,
	products *service.ProductService,
	messaging *service.MessagingService,
	uploads *service.UploadService,
	pub *events.Publisher,
	log *zap.SugaredLogger,
) *Handlers {
	return &Handlers{
		auth:      auth,
		users:     users,
		products:  products,
		messaging: messaging,
		uploads:   uploads,
		pub:       pub,
		log:       log,
	}
}

// httpError maps the apperr taxonomy onto status codes. Anything
// unrecognized is a 500 with a generic body; the cause goes to the log,
// not the client.
func (h *Handlers) httpError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, apperr.ErrInvalidRequest):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, apperr.ErrUnauthorized):
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, apperr.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, apperr.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, apperr.ErrRateLimited):
		return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, apperr.ErrUnavailable):
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": err.Error()})
	}
	h.log.Errorw("request failed", "path", c.Path(), "err", err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal error"})
}
