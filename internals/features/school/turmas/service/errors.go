package service

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"gorm.io/gorm"

	helper "gestao_alunos_backend/internals/helpers"
)

var (
	ErrTurmaNotFound      = errors.New("turma não encontrada")
	ErrAlunoNotFound      = errors.New("aluno não encontrado")
	ErrDuplicateMatricula = errors.New("matrícula já existe")
)

// ValidationError carries per-field messages for malformed input.
type ValidationError struct {
	Fields map[string][]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+strings.Join(e.Fields[k], ", "))
	}
	return "validação falhou: " + strings.Join(parts, "; ")
}

func (e *ValidationError) add(field, msg string) {
	if e.Fields == nil {
		e.Fields = map[string][]string{}
	}
	e.Fields[field] = append(e.Fields[field], msg)
}

func (e *ValidationError) orNil() error {
	if e == nil || len(e.Fields) == 0 {
		return nil
	}
	return e
}

func IsNotFound(err error) bool {
	return errors.Is(err, ErrTurmaNotFound) || errors.Is(err, ErrAlunoNotFound)
}

// validateStruct runs the shared validator and converts its errors.
func validateStruct(v any) error {
	err := helper.Validator().Struct(v)
	if err == nil {
		return nil
	}
	if fields, ok := helper.ValidationErrors(err); ok {
		return &ValidationError{Fields: fields}
	}
	return &ValidationError{Fields: map[string][]string{"_": {"payload inválido"}}}
}

// validateVar checks a single patched value against the same tag used on
// the create input.
func validateVar(ve *ValidationError, field string, value any, tag string) {
	err := helper.Validator().Var(value, tag)
	if err == nil {
		return
	}
	if fields, ok := helper.ValidationErrors(err); ok {
		for _, msgs := range fields {
			for _, m := range msgs {
				ve.add(field, m)
			}
		}
		return
	}
	ve.add(field, "valor inválido")
}

// translateWriteErr maps storage integrity failures onto domain errors.
func translateWriteErr(err error) error {
	switch {
	case err == nil:
		return nil
	case helper.IsUniqueViolation(err):
		return ErrDuplicateMatricula
	case helper.IsForeignKeyViolation(err):
		return ErrTurmaNotFound
	default:
		return fmt.Errorf("storage: %w", err)
	}
}

func notFoundOr(err, notFound error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound
	}
	return fmt.Errorf("storage: %w", err)
}
