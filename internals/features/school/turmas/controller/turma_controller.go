// file: internals/features/school/turmas/controller/turma_controller.go
package controller

import (
	"log"

	"github.com/gofiber/fiber/v2"

	"gestao_alunos_backend/internals/features/school/turmas/dto"
	svc "gestao_alunos_backend/internals/features/school/turmas/service"
	helper "gestao_alunos_backend/internals/helpers"
)

type TurmaController struct {
	Turmas svc.TurmaService
	Alunos svc.AlunoService
}

func NewTurmaController(turmas svc.TurmaService, alunos svc.AlunoService) *TurmaController {
	return &TurmaController{Turmas: turmas, Alunos: alunos}
}

/* =========================================================
   LIST / DETAIL
   ========================================================= */

// GET /api/turmas/
func (ctl *TurmaController) List(c *fiber.Ctx) error {
	rows, err := ctl.Turmas.ListTurmas(c.UserContext())
	if err != nil {
		return writeServiceError(c, err)
	}
	return helper.JsonList(c, "ok", dto.FromTurmaList(rows), nil)
}

// GET /api/turmas/:id/
func (ctl *TurmaController) Detail(c *fiber.Ctx) error {
	id, ok := parseID(c, "id")
	if !ok {
		return badID(c)
	}
	d, err := ctl.Turmas.GetTurma(c.UserContext(), id)
	if err != nil {
		return writeServiceError(c, err)
	}
	return helper.JsonOK(c, "ok", dto.FromTurmaDetail(d))
}

// GET /api/turmas/:id/alunos/
func (ctl *TurmaController) ListAlunos(c *fiber.Ctx) error {
	id, ok := parseID(c, "id")
	if !ok {
		return badID(c)
	}
	rows, err := ctl.Alunos.ListAlunosByTurma(c.UserContext(), id)
	if err != nil {
		return writeServiceError(c, err)
	}
	return helper.JsonList(c, "ok", dto.FromAlunoList(rows), nil)
}

// GET /api/turmas/:id/alunos/export
func (ctl *TurmaController) ExportAlunos(c *fiber.Ctx) error {
	id, ok := parseID(c, "id")
	if !ok {
		return badID(c)
	}
	d, err := ctl.Turmas.GetTurma(c.UserContext(), id)
	if err != nil {
		return writeServiceError(c, err)
	}
	f, err := svc.RosterWorkbook(d)
	if err != nil {
		return writeServiceError(c, err)
	}
	defer f.Close()

	buf, err := f.WriteToBuffer()
	if err != nil {
		return writeServiceError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+svc.RosterFilename(d)+`"`)
	return c.Status(fiber.StatusOK).Send(buf.Bytes())
}

/* =========================================================
   MUTATIONS
   ========================================================= */

// POST /api/turmas/
func (ctl *TurmaController) Create(c *fiber.Ctx) error {
	var req dto.TurmaCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}
	t, err := ctl.Turmas.CreateTurma(c.UserContext(), req.ToInput())
	if err != nil {
		return writeServiceError(c, err)
	}
	return helper.JsonCreated(c, "Turma criada", dto.FromModelTurma(t, 0))
}

// PUT|PATCH /api/turmas/:id/
func (ctl *TurmaController) Update(c *fiber.Ctx) error {
	id, ok := parseID(c, "id")
	if !ok {
		return badID(c)
	}
	var req dto.TurmaPatchRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}
	p, fieldErrs := req.ToPatch()
	if fieldErrs != nil {
		return helper.JsonValidationError(c, fieldErrs)
	}
	t, err := ctl.Turmas.UpdateTurma(c.UserContext(), id, p)
	if err != nil {
		return writeServiceError(c, err)
	}
	d, err := ctl.Turmas.GetTurma(c.UserContext(), t.ID)
	if err != nil {
		return writeServiceError(c, err)
	}
	return helper.JsonUpdated(c, "Turma atualizada", dto.FromModelTurma(&d.TurmaModel, d.TotalAlunos))
}

// DELETE /api/turmas/:id/
func (ctl *TurmaController) Delete(c *fiber.Ctx) error {
	id, ok := parseID(c, "id")
	if !ok {
		return badID(c)
	}
	removed, err := ctl.Turmas.DeleteTurma(c.UserContext(), id)
	if err != nil {
		return writeServiceError(c, err)
	}
	log.Printf("[INFO] turma %d removida (%d alunos)", id, removed)
	return helper.JsonDeleted(c)
}
