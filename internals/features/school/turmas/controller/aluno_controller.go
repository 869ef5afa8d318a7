// file: internals/features/school/turmas/controller/aluno_controller.go
package controller

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"gestao_alunos_backend/internals/features/school/turmas/dto"
	svc "gestao_alunos_backend/internals/features/school/turmas/service"
	helper "gestao_alunos_backend/internals/helpers"
)

type AlunoController struct {
	Alunos svc.AlunoService

	DefaultPageSize int
	MaxPageSize     int
}

func NewAlunoController(alunos svc.AlunoService, defaultPageSize, maxPageSize int) *AlunoController {
	return &AlunoController{Alunos: alunos, DefaultPageSize: defaultPageSize, MaxPageSize: maxPageSize}
}

/* =========================================================
   LIST / DETAIL
   ========================================================= */

// GET /api/alunos/?turma=&nome=&page=&page_size=
func (ctl *AlunoController) List(c *fiber.Ctx) error {
	var f svc.AlunoFilter
	if raw := strings.TrimSpace(c.Query("turma")); raw != "" {
		n, err := strconv.ParseUint(raw, 10, 0)
		if err != nil {
			return helper.JsonValidationError(c, map[string][]string{
				"turma": {"id inválido"},
			})
		}
		id := uint(n)
		f.TurmaID = &id
	}
	f.Nome = c.Query("nome")

	pg := helper.ResolvePaging(c, ctl.DefaultPageSize, ctl.MaxPageSize)
	rows, total, err := ctl.Alunos.ListAlunos(c.UserContext(), f, pg)
	if err != nil {
		return writeServiceError(c, err)
	}
	pagination := helper.BuildPagination(total, pg.Page, pg.PageSize)
	return helper.JsonList(c, "ok", dto.FromAlunoList(rows), &pagination)
}

// GET /api/alunos/:id/
func (ctl *AlunoController) Detail(c *fiber.Ctx) error {
	id, ok := parseID(c, "id")
	if !ok {
		return badID(c)
	}
	a, err := ctl.Alunos.GetAluno(c.UserContext(), id)
	if err != nil {
		return writeServiceError(c, err)
	}
	return helper.JsonOK(c, "ok", dto.FromModelAluno(a))
}

/* =========================================================
   MUTATIONS
   ========================================================= */

// POST /api/alunos/
func (ctl *AlunoController) Create(c *fiber.Ctx) error {
	var req dto.AlunoCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}
	a, err := ctl.Alunos.CreateAluno(c.UserContext(), req.ToInput())
	if err != nil {
		return writeServiceError(c, err)
	}
	return helper.JsonCreated(c, "Aluno cadastrado", dto.FromModelAluno(a))
}

// PUT|PATCH /api/alunos/:id/
func (ctl *AlunoController) Update(c *fiber.Ctx) error {
	id, ok := parseID(c, "id")
	if !ok {
		return badID(c)
	}
	var req dto.AlunoPatchRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}
	p, fieldErrs := req.ToPatch()
	if fieldErrs != nil {
		return helper.JsonValidationError(c, fieldErrs)
	}
	a, err := ctl.Alunos.UpdateAluno(c.UserContext(), id, p)
	if err != nil {
		return writeServiceError(c, err)
	}
	return helper.JsonUpdated(c, "Aluno atualizado", dto.FromModelAluno(a))
}

// DELETE /api/alunos/:id/
func (ctl *AlunoController) Delete(c *fiber.Ctx) error {
	id, ok := parseID(c, "id")
	if !ok {
		return badID(c)
	}
	if err := ctl.Alunos.DeleteAluno(c.UserContext(), id); err != nil {
		return writeServiceError(c, err)
	}
	return helper.JsonDeleted(c)
}
