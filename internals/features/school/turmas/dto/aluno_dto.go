// file: internals/features/school/turmas/dto/aluno_dto.go
package dto

import (
	"time"

	m "gestao_alunos_backend/internals/features/school/turmas/model"
	svc "gestao_alunos_backend/internals/features/school/turmas/service"
)

/* =========================================================
   REQUESTS
   ========================================================= */

type AlunoCreateRequest struct {
	Nome           string `json:"nome"`
	Email          string `json:"email"`
	Matricula      string `json:"matricula"`
	DataNascimento string `json:"data_nascimento"`
	Turma          ID     `json:"turma"`
}

func (r AlunoCreateRequest) ToInput() svc.AlunoInput {
	return svc.AlunoInput{
		Nome:           r.Nome,
		Email:          r.Email,
		Matricula:      r.Matricula,
		DataNascimento: r.DataNascimento,
		TurmaID:        uint(r.Turma),
	}
}

// AlunoPatchRequest is the allow-list for PUT/PATCH. turma_nome, id and any
// other read-only key sent back by clients is ignored.
type AlunoPatchRequest struct {
	Nome           PatchField[string] `json:"nome"`
	Email          PatchField[string] `json:"email"`
	Matricula      PatchField[string] `json:"matricula"`
	DataNascimento PatchField[string] `json:"data_nascimento"`
	Turma          PatchField[ID]     `json:"turma"`
}

func (r AlunoPatchRequest) ToPatch() (svc.AlunoPatch, map[string][]string) {
	var p svc.AlunoPatch
	errs := map[string][]string{}

	str := func(field string, f PatchField[string], dst **string) {
		switch {
		case f.IsNull():
			errs[field] = append(errs[field], msgNotNull)
		case f.Present:
			*dst = f.Value
		}
	}
	str("nome", r.Nome, &p.Nome)
	str("email", r.Email, &p.Email)
	str("matricula", r.Matricula, &p.Matricula)
	str("data_nascimento", r.DataNascimento, &p.DataNascimento)

	switch {
	case r.Turma.IsNull():
		errs["turma"] = append(errs["turma"], msgNotNull)
	case r.Turma.Present:
		v := uint(*r.Turma.Value)
		p.TurmaID = &v
	}

	if len(errs) == 0 {
		return p, nil
	}
	return p, errs
}

/* =========================================================
   RESPONSES
   ========================================================= */

type AlunoResponse struct {
	ID             uint   `json:"id"`
	Nome           string `json:"nome"`
	Email          string `json:"email"`
	Matricula      string `json:"matricula"`
	DataNascimento string `json:"data_nascimento"`
	Turma          uint   `json:"turma"`
	TurmaNome      string `json:"turma_nome"`
}

func FromModelAluno(a *m.AlunoModel) AlunoResponse {
	out := AlunoResponse{
		ID:             a.ID,
		Nome:           a.Nome,
		Email:          a.Email,
		Matricula:      a.Matricula,
		DataNascimento: time.Time(a.DataNascimento).Format(svc.DateLayout),
		Turma:          a.TurmaID,
	}
	if a.Turma != nil {
		out.TurmaNome = a.Turma.Nome
	}
	return out
}

func FromAlunoList(rows []m.AlunoModel) []AlunoResponse {
	out := make([]AlunoResponse, 0, len(rows))
	for i := range rows {
		out = append(out, FromModelAluno(&rows[i]))
	}
	return out
}
