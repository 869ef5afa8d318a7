// file: internals/route/index.go
package routes

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"gestao_alunos_backend/internals/configs"
	turmaRoutes "gestao_alunos_backend/internals/features/school/turmas/route"
	authMiddleware "gestao_alunos_backend/internals/middlewares/auth"
)

var startTime = time.Now()

func SetupRoutes(app *fiber.App, db *gorm.DB, cfg configs.Config) {
	startTime = time.Now()

	log.Println("[INFO] Setting up BaseRoutes...")
	BaseRoutes(app, db)

	// ===================== PRIVATE =====================
	log.Println("[INFO] Setting up API group (JWT)...")
	api := app.Group("/api",
		authMiddleware.AuthJWT(authMiddleware.AuthJWTOpts{
			Secret:              cfg.JWTSecret,
			AllowCookieFallback: true,
		}),
	)

	log.Println("[INFO] Mounting Turma/Aluno routes...")
	turmaRoutes.TurmaRoutes(api, db, turmaRoutes.PageSizes{
		Default: cfg.DefaultPageSize,
		Max:     cfg.MaxPageSize,
	})

	app.Use(func(c *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusNotFound, "Rota não encontrada")
	})
}
