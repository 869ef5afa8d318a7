package service

import (
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"
)

const DateLayout = "2006-01-02"

// validator tags shared by create inputs and patches
const (
	tagTurmaNome      = "required,max=100"
	tagAnoLetivo      = "required,min=1900,max=2100"
	tagTurno          = "required,oneof=manha tarde noite"
	tagAlunoNome      = "required,max=200"
	tagEmail          = "required,email,max=254"
	tagMatricula      = "required,max=50"
	tagDataNascimento = "required,datetime=2006-01-02"
)

type TurmaInput struct {
	Nome      string `json:"nome"       validate:"required,max=100"`
	AnoLetivo int    `json:"ano_letivo" validate:"required,min=1900,max=2100"`
	Turno     string `json:"turno"      validate:"required,oneof=manha tarde noite"`
}

func (in *TurmaInput) normalize() {
	in.Nome = cleanName(in.Nome)
	in.Turno = strings.ToLower(strings.TrimSpace(in.Turno))
}

// TurmaPatch lists the only turma fields a client may change. nil = untouched.
type TurmaPatch struct {
	Nome      *string
	AnoLetivo *int
	Turno     *string
}

func (p *TurmaPatch) validate() error {
	ve := &ValidationError{}
	if p.Nome != nil {
		*p.Nome = cleanName(*p.Nome)
		validateVar(ve, "nome", *p.Nome, tagTurmaNome)
	}
	if p.AnoLetivo != nil {
		validateVar(ve, "ano_letivo", *p.AnoLetivo, tagAnoLetivo)
	}
	if p.Turno != nil {
		*p.Turno = strings.ToLower(strings.TrimSpace(*p.Turno))
		validateVar(ve, "turno", *p.Turno, tagTurno)
	}
	return ve.orNil()
}

type AlunoInput struct {
	Nome           string `json:"nome"            validate:"required,max=200"`
	Email          string `json:"email"           validate:"required,email,max=254"`
	Matricula      string `json:"matricula"       validate:"required,max=50"`
	DataNascimento string `json:"data_nascimento" validate:"required,datetime=2006-01-02"`
	TurmaID        uint   `json:"turma"           validate:"required"`
}

func (in *AlunoInput) normalize() {
	in.Nome = cleanName(in.Nome)
	in.Email = strings.TrimSpace(in.Email)
	in.Matricula = strings.TrimSpace(in.Matricula)
	in.DataNascimento = strings.TrimSpace(in.DataNascimento)
}

// AlunoPatch lists the only aluno fields a client may change. nil = untouched.
type AlunoPatch struct {
	Nome           *string
	Email          *string
	Matricula      *string
	DataNascimento *string
	TurmaID        *uint
}

func (p *AlunoPatch) validate() error {
	ve := &ValidationError{}
	if p.Nome != nil {
		*p.Nome = cleanName(*p.Nome)
		validateVar(ve, "nome", *p.Nome, tagAlunoNome)
	}
	if p.Email != nil {
		*p.Email = strings.TrimSpace(*p.Email)
		validateVar(ve, "email", *p.Email, tagEmail)
	}
	if p.Matricula != nil {
		*p.Matricula = strings.TrimSpace(*p.Matricula)
		validateVar(ve, "matricula", *p.Matricula, tagMatricula)
	}
	if p.DataNascimento != nil {
		*p.DataNascimento = strings.TrimSpace(*p.DataNascimento)
		validateVar(ve, "data_nascimento", *p.DataNascimento, tagDataNascimento)
	}
	if p.TurmaID != nil && *p.TurmaID == 0 {
		ve.add("turma", "campo obrigatório")
	}
	return ve.orNil()
}

// AlunoFilter restricts ListAlunos. Zero values mean "no filter".
type AlunoFilter struct {
	TurmaID *uint
	Nome    string
}

// cleanName trims and NFC-normalises so composed and decomposed accents
// compare equal in storage and in filters.
func cleanName(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}

func parseDate(s string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, s, time.UTC)
}
