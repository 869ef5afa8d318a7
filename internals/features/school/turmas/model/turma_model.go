// file: internals/features/school/turmas/model/turma_model.go
package model

import (
	"time"
)

type Turno string

const (
	TurnoManha Turno = "manha"
	TurnoTarde Turno = "tarde"
	TurnoNoite Turno = "noite"
)

var turnoLabels = map[Turno]string{
	TurnoManha: "Manhã",
	TurnoTarde: "Tarde",
	TurnoNoite: "Noite",
}

func (t Turno) Valid() bool {
	_, ok := turnoLabels[t]
	return ok
}

// Label is the human readable shift name; unknown codes echo back as-is.
func (t Turno) Label() string {
	if l, ok := turnoLabels[t]; ok {
		return l
	}
	return string(t)
}

// TurmaModel merepresentasikan tabel turmas
type TurmaModel struct {
	ID        uint   `json:"id"         gorm:"column:id;primaryKey;autoIncrement"`
	Nome      string `json:"nome"       gorm:"column:nome;type:varchar(100);not null;index"`
	AnoLetivo int    `json:"ano_letivo" gorm:"column:ano_letivo;not null;index"`
	Turno     Turno  `json:"turno"      gorm:"column:turno;type:varchar(20);not null"`

	CreatedAt time.Time `json:"created_at" gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"column:updated_at;autoUpdateTime"`
}

func (TurmaModel) TableName() string { return "turmas" }

// TurmaWithCount is a turma row plus the computed number of alunos.
type TurmaWithCount struct {
	TurmaModel  `gorm:"embedded"`
	TotalAlunos int64 `gorm:"column:total_alunos"`
}
