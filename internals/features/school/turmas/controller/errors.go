package controller

import (
	"errors"
	"log"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	svc "gestao_alunos_backend/internals/features/school/turmas/service"
	helper "gestao_alunos_backend/internals/helpers"
)

// writeServiceError maps domain errors to the response envelope. Storage
// failures are logged and answered with a generic 500.
func writeServiceError(c *fiber.Ctx, err error) error {
	var ve *svc.ValidationError
	switch {
	case errors.As(err, &ve):
		return helper.JsonValidationError(c, ve.Fields)
	case errors.Is(err, svc.ErrDuplicateMatricula):
		return helper.JsonErrorCode(c, fiber.StatusBadRequest, helper.CodeDuplicate, "Esta matrícula já está em uso.")
	case errors.Is(err, svc.ErrTurmaNotFound):
		return helper.JsonError(c, fiber.StatusNotFound, "Turma não encontrada")
	case errors.Is(err, svc.ErrAlunoNotFound):
		return helper.JsonError(c, fiber.StatusNotFound, "Aluno não encontrado")
	default:
		log.Printf("[ERROR] reqid=%v %s %s: %v", c.Locals("reqid"), c.Method(), c.OriginalURL(), err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Erro interno")
	}
}

// parseID reads a positive integer path param.
func parseID(c *fiber.Ctx, name string) (uint, bool) {
	n, err := strconv.ParseUint(strings.TrimSpace(c.Params(name)), 10, 0)
	if err != nil || n == 0 {
		return 0, false
	}
	return uint(n), true
}

func badID(c *fiber.Ctx) error {
	return helper.JsonError(c, fiber.StatusBadRequest, "id inválido")
}

func badBody(c *fiber.Ctx) error {
	return helper.JsonError(c, fiber.StatusBadRequest, "Payload inválido")
}
