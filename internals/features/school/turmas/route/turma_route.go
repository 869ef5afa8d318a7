// file: internals/features/school/turmas/route/turma_route.go
package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	turmactrl "gestao_alunos_backend/internals/features/school/turmas/controller"
	svc "gestao_alunos_backend/internals/features/school/turmas/service"
)

// PageSizes carries the list pagination defaults from config.
type PageSizes struct {
	Default int
	Max     int
}

// TurmaRoutes mounts /turmas and /alunos under api. PUT and PATCH share the
// partial-update handler.
func TurmaRoutes(api fiber.Router, db *gorm.DB, ps PageSizes) {
	turmas := svc.NewTurmaService(db)
	alunos := svc.NewAlunoService(db)

	turmaHandler := turmactrl.NewTurmaController(turmas, alunos)
	t := api.Group("/turmas")
	{
		t.Get("/", turmaHandler.List)
		t.Post("/", turmaHandler.Create)
		t.Get("/:id", turmaHandler.Detail)
		t.Put("/:id", turmaHandler.Update)
		t.Patch("/:id", turmaHandler.Update)
		t.Delete("/:id", turmaHandler.Delete)
		t.Get("/:id/alunos", turmaHandler.ListAlunos)
		t.Get("/:id/alunos/export", turmaHandler.ExportAlunos)
	}

	alunoHandler := turmactrl.NewAlunoController(alunos, ps.Default, ps.Max)
	a := api.Group("/alunos")
	{
		a.Get("/", alunoHandler.List)
		a.Post("/", alunoHandler.Create)
		a.Get("/:id", alunoHandler.Detail)
		a.Put("/:id", alunoHandler.Update)
		a.Patch("/:id", alunoHandler.Update)
		a.Delete("/:id", alunoHandler.Delete)
	}
}
