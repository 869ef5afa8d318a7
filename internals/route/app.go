package routes

import (
	"errors"
	"log"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"gestao_alunos_backend/internals/configs"
	helper "gestao_alunos_backend/internals/helpers"
	"gestao_alunos_backend/internals/middlewares"
)

// NewApp builds the fiber app with the middleware chain and every route
// mounted. limiterStorage may be nil (in-memory limiter).
func NewApp(cfg configs.Config, db *gorm.DB, limiterStorage fiber.Storage) *fiber.App {
	app := fiber.New(fiber.Config{
		JSONEncoder:           sonic.Marshal,
		JSONDecoder:           sonic.Unmarshal,
		DisableStartupMessage: true,
		ProxyHeader:           fiber.HeaderXForwardedFor,
		ReadTimeout:           15 * time.Second,
		WriteTimeout:          30 * time.Second,
		IdleTimeout:           90 * time.Second,
		ErrorHandler:          errorHandler,
	})

	middlewares.SetupMiddlewares(app, cfg, limiterStorage)
	SetupRoutes(app, db, cfg)
	return app
}

// errorHandler renders anything a handler or middleware returned without
// writing a response (auth failures, unknown routes, panics).
func errorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if !errors.As(err, &fe) {
		log.Printf("[ERROR] reqid=%v %s %s: %v", c.Locals(middlewares.LocRequestID), c.Method(), c.OriginalURL(), err)
	}
	return helper.FromFiberError(c, err)
}
