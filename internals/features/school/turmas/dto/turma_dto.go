// file: internals/features/school/turmas/dto/turma_dto.go
package dto

import (
	m "gestao_alunos_backend/internals/features/school/turmas/model"
	svc "gestao_alunos_backend/internals/features/school/turmas/service"
)

/* =========================================================
   REQUESTS
   ========================================================= */

type TurmaCreateRequest struct {
	Nome      string `json:"nome"`
	AnoLetivo Int    `json:"ano_letivo"`
	Turno     string `json:"turno"`
}

func (r TurmaCreateRequest) ToInput() svc.TurmaInput {
	return svc.TurmaInput{
		Nome:      r.Nome,
		AnoLetivo: int(r.AnoLetivo),
		Turno:     r.Turno,
	}
}

// TurmaPatchRequest is the allow-list for PUT/PATCH; any other key in the
// body (id, total_alunos, ...) is ignored.
type TurmaPatchRequest struct {
	Nome      PatchField[string] `json:"nome"`
	AnoLetivo PatchField[Int]    `json:"ano_letivo"`
	Turno     PatchField[string] `json:"turno"`
}

// ToPatch converts the request; explicit nulls on required columns come back
// as field errors.
func (r TurmaPatchRequest) ToPatch() (svc.TurmaPatch, map[string][]string) {
	var p svc.TurmaPatch
	errs := map[string][]string{}
	if r.Nome.IsNull() {
		errs["nome"] = append(errs["nome"], msgNotNull)
	} else if r.Nome.Present {
		p.Nome = r.Nome.Value
	}
	if r.AnoLetivo.IsNull() {
		errs["ano_letivo"] = append(errs["ano_letivo"], msgNotNull)
	} else if r.AnoLetivo.Present {
		v := int(*r.AnoLetivo.Value)
		p.AnoLetivo = &v
	}
	if r.Turno.IsNull() {
		errs["turno"] = append(errs["turno"], msgNotNull)
	} else if r.Turno.Present {
		p.Turno = r.Turno.Value
	}
	if len(errs) == 0 {
		return p, nil
	}
	return p, errs
}

const msgNotNull = "não pode ser nulo"

/* =========================================================
   RESPONSES
   ========================================================= */

type TurmaResponse struct {
	ID           uint   `json:"id"`
	Nome         string `json:"nome"`
	AnoLetivo    int    `json:"ano_letivo"`
	Turno        string `json:"turno"`
	TurnoDisplay string `json:"turno_display"`
	TotalAlunos  int64  `json:"total_alunos"`
}

type TurmaDetailResponse struct {
	TurmaResponse
	Alunos []AlunoResponse `json:"alunos"`
}

func FromModelTurma(t *m.TurmaModel, total int64) TurmaResponse {
	return TurmaResponse{
		ID:           t.ID,
		Nome:         t.Nome,
		AnoLetivo:    t.AnoLetivo,
		Turno:        string(t.Turno),
		TurnoDisplay: t.Turno.Label(),
		TotalAlunos:  total,
	}
}

func FromTurmaList(rows []m.TurmaWithCount) []TurmaResponse {
	out := make([]TurmaResponse, 0, len(rows))
	for i := range rows {
		out = append(out, FromModelTurma(&rows[i].TurmaModel, rows[i].TotalAlunos))
	}
	return out
}

func FromTurmaDetail(d *svc.TurmaDetail) TurmaDetailResponse {
	return TurmaDetailResponse{
		TurmaResponse: FromModelTurma(&d.TurmaModel, d.TotalAlunos),
		Alunos:        FromAlunoList(d.Alunos),
	}
}
