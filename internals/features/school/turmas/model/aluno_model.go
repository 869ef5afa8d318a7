// file: internals/features/school/turmas/model/aluno_model.go
package model

import (
	"strings"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// AlunoModel merepresentasikan tabel alunos. Matricula is globally unique at
// the storage level; the service relies on that index for concurrent writes.
type AlunoModel struct {
	ID             uint           `json:"id"              gorm:"column:id;primaryKey;autoIncrement"`
	Nome           string         `json:"nome"            gorm:"column:nome;type:varchar(200);not null;index"`
	NomeBusca      string         `json:"-"               gorm:"column:nome_busca;type:varchar(200);not null;default:'';index"`
	Email          string         `json:"email"           gorm:"column:email;type:varchar(254);not null"`
	Matricula      string         `json:"matricula"       gorm:"column:matricula;type:varchar(50);not null;uniqueIndex:uq_alunos_matricula"`
	DataNascimento datatypes.Date `json:"data_nascimento" gorm:"column:data_nascimento;not null"`
	TurmaID        uint           `json:"turma"           gorm:"column:turma_id;not null;index"`

	Turma *TurmaModel `json:"-" gorm:"foreignKey:TurmaID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`

	CreatedAt time.Time `json:"created_at" gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"column:updated_at;autoUpdateTime"`
}

func (AlunoModel) TableName() string { return "alunos" }

// BeforeSave keeps nome_busca as the Unicode lower-case of nome. SQLite's
// LOWER only folds ASCII, so the nome filter compares against this column.
func (a *AlunoModel) BeforeSave(tx *gorm.DB) error {
	a.NomeBusca = FoldNome(a.Nome)
	return nil
}

// FoldNome is the case folding used for nome_busca and for filter terms.
func FoldNome(s string) string { return strings.ToLower(s) }

// All lists the models owned by this feature, parents first.
func All() []any {
	return []any{&TurmaModel{}, &AlunoModel{}}
}
