package middlewares

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/etag"

	"gestao_alunos_backend/internals/configs"
	"gestao_alunos_backend/internals/middlewares/logger"
)

// SetupMiddlewares installs the global chain. Order matters: the request id
// must exist before the access log and recovery read it.
func SetupMiddlewares(app *fiber.App, cfg configs.Config, limiterStorage fiber.Storage) {
	app.Use(RequestContext(cfg.RequestTimeout))
	app.Use(RecoveryMiddleware())
	app.Use(logger.LoggerMiddleware())
	app.Use(CorsMiddleware(cfg.CORSOrigins))
	app.Use(compress.New(compress.Config{Level: compress.LevelDefault}))
	app.Use(etag.New())
	app.Use(GlobalRateLimiter(cfg.RateLimitMax, cfg.RateLimitWindow, limiterStorage))
}
