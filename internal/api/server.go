package api

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/fathima-sithara/marketplace-service/internal/auth"
	"github.com/fathima-sithara/marketplace-service/internal/config"
	"github.com/fathima-sithara/marketplace-service/internal/metrics"
)

// NewServer wires the router. Listing reads are public; everything else
// runs behind the auth middleware.
func NewServer(cfg *config.Config, h *Handlers, tm *auth.TokenManager, limiter *RateLimiter) *fiber.App {
	app := fiber.New(fiber.Config{
		BodyLimit:    32 * 1024 * 1024,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	})
	app.Use(recover.New())
	app.Use(cors.New())
	app.Use(fiberlogger.New())

	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	app.Get("/metrics", adaptor.HTTPHandler(metrics.Handler()))

	requireAuth := RequireAuth(tm)
	limited := func(next fiber.Handler) []fiber.Handler {
		if limiter == nil {
			return []fiber.Handler{next}
		}
		return []fiber.Handler{limiter.MiddlewareByKey(callerKey), next}
	}

	app.Post("/auth/login", limited(h.login)...)

	app.Post("/users", h.register)
	app.Get("/users/:user_id", h.getUser)
	app.Get("/users/:user_id/products", h.getUserProducts)

	app.Get("/products", h.listProducts)
	app.Get("/products/:product_id", h.getProduct)
	app.Post("/products", requireAuth, h.createProduct)
	app.Put("/products/:product_id", requireAuth, h.updateProduct)
	app.Delete("/products/:product_id", requireAuth, h.deleteProduct)
	app.Patch("/products/:product_id/mark_sold", requireAuth, h.markProductSold)

	messages := app.Group("/messages", requireAuth)
	if limiter != nil {
		messages.Use(limiter.MiddlewareByKey(callerKey))
	}
	messages.Post("/", h.sendMessage)
	messages.Get("/", h.listMyMessages)
	messages.Get("/unread/count", h.unreadCount)
	messages.Get("/inbox", h.inbox)
	messages.Get("/with/:user_id", h.thread)

	uploads := app.Group("/uploads", requireAuth)
	uploads.Post("/image", h.uploadImage)
	uploads.Post("/images", h.uploadImages)

	return app
}
