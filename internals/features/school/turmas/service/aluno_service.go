// file: internals/features/school/turmas/service/aluno_service.go
package service

import (
	"context"
	"log"
	"strings"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	m "gestao_alunos_backend/internals/features/school/turmas/model"
	helper "gestao_alunos_backend/internals/helpers"
)

type AlunoService interface {
	CreateAluno(ctx context.Context, in AlunoInput) (*m.AlunoModel, error)
	UpdateAluno(ctx context.Context, id uint, p AlunoPatch) (*m.AlunoModel, error)
	DeleteAluno(ctx context.Context, id uint) error

	GetAluno(ctx context.Context, id uint) (*m.AlunoModel, error)
	// ListAlunos returns one page plus the total matching the filter. A page
	// past the end yields an empty slice, not an error.
	ListAlunos(ctx context.Context, f AlunoFilter, pg helper.Paging) ([]m.AlunoModel, int64, error)
	ListAlunosByTurma(ctx context.Context, turmaID uint) ([]m.AlunoModel, error)
}

type alunoSvc struct {
	db *gorm.DB
}

func NewAlunoService(db *gorm.DB) AlunoService { return &alunoSvc{db: db} }

/* =========================================================
   CREATE
   ========================================================= */

func (s *alunoSvc) CreateAluno(ctx context.Context, in AlunoInput) (*m.AlunoModel, error) {
	in.normalize()
	if err := validateStruct(in); err != nil {
		return nil, err
	}
	birth, err := parseDate(in.DataNascimento)
	if err != nil {
		return nil, &ValidationError{Fields: map[string][]string{"data_nascimento": {"data inválida"}}}
	}

	ent := m.AlunoModel{
		Nome:           in.Nome,
		Email:          in.Email,
		Matricula:      in.Matricula,
		DataNascimento: datatypes.Date(birth),
		TurmaID:        in.TurmaID,
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var turma m.TurmaModel
		if err := findTurma(tx, in.TurmaID, &turma); err != nil {
			return err
		}
		if err := ensureMatriculaFree(tx, ent.Matricula, 0); err != nil {
			return err
		}
		// the unique index settles races the check above cannot see
		if err := tx.Omit(clause.Associations).Create(&ent).Error; err != nil {
			return translateWriteErr(err)
		}
		ent.Turma = &turma
		return nil
	})
	if err != nil {
		return nil, err
	}
	log.Printf("[alunos] created id=%d matricula=%s turma=%d", ent.ID, ent.Matricula, ent.TurmaID)
	return &ent, nil
}

/* =========================================================
   UPDATE (allow-listed partial)
   ========================================================= */

func (s *alunoSvc) UpdateAluno(ctx context.Context, id uint, p AlunoPatch) (*m.AlunoModel, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}
	var ent m.AlunoModel
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Preload("Turma").First(&ent, id).Error; err != nil {
			return notFoundOr(err, ErrAlunoNotFound)
		}

		// uniqueness only matters when the value actually changes
		if p.Matricula != nil && *p.Matricula != ent.Matricula {
			if err := ensureMatriculaFree(tx, *p.Matricula, ent.ID); err != nil {
				return err
			}
			ent.Matricula = *p.Matricula
		}
		if p.TurmaID != nil {
			var turma m.TurmaModel
			if err := findTurma(tx, *p.TurmaID, &turma); err != nil {
				return err
			}
			ent.TurmaID = turma.ID
			ent.Turma = &turma
		}
		if p.Nome != nil {
			ent.Nome = *p.Nome
		}
		if p.Email != nil {
			ent.Email = *p.Email
		}
		if p.DataNascimento != nil {
			birth, err := parseDate(*p.DataNascimento)
			if err != nil {
				return &ValidationError{Fields: map[string][]string{"data_nascimento": {"data inválida"}}}
			}
			ent.DataNascimento = datatypes.Date(birth)
		}

		return translateWriteErr(tx.Omit(clause.Associations).Save(&ent).Error)
	})
	if err != nil {
		return nil, err
	}
	return &ent, nil
}

/* =========================================================
   DELETE
   ========================================================= */

func (s *alunoSvc) DeleteAluno(ctx context.Context, id uint) error {
	if id == 0 {
		return ErrAlunoNotFound
	}
	res := s.db.WithContext(ctx).Delete(&m.AlunoModel{}, id)
	if res.Error != nil {
		return translateWriteErr(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrAlunoNotFound
	}
	log.Printf("[alunos] deleted id=%d", id)
	return nil
}

/* =========================================================
   QUERIES
   ========================================================= */

func (s *alunoSvc) GetAluno(ctx context.Context, id uint) (*m.AlunoModel, error) {
	var ent m.AlunoModel
	if err := s.db.WithContext(ctx).Preload("Turma").First(&ent, id).Error; err != nil {
		return nil, notFoundOr(err, ErrAlunoNotFound)
	}
	return &ent, nil
}

func (s *alunoSvc) ListAlunos(ctx context.Context, f AlunoFilter, pg helper.Paging) ([]m.AlunoModel, int64, error) {
	q := s.db.WithContext(ctx).Model(&m.AlunoModel{})
	if f.TurmaID != nil {
		q = q.Where("turma_id = ?", *f.TurmaID)
	}
	if nome := cleanName(f.Nome); nome != "" {
		q = q.Where(`nome_busca LIKE ? ESCAPE '\'`, likeContains(nome))
	}

	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, notFoundOr(err, ErrAlunoNotFound)
	}

	rows := make([]m.AlunoModel, 0)
	if pg.Offset < 0 || int64(pg.Offset) >= total {
		return rows, total, nil
	}
	if err := q.Session(&gorm.Session{}).
		Preload("Turma").
		Order("nome ASC, id ASC").
		Offset(pg.Offset).
		Limit(pg.Limit).
		Find(&rows).Error; err != nil {
		return nil, 0, notFoundOr(err, ErrAlunoNotFound)
	}
	return rows, total, nil
}

func (s *alunoSvc) ListAlunosByTurma(ctx context.Context, turmaID uint) ([]m.AlunoModel, error) {
	var out []m.AlunoModel
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var turma m.TurmaModel
		if err := findTurma(tx, turmaID, &turma); err != nil {
			return err
		}
		alunos, err := alunosOfTurma(tx, turmaID)
		if err != nil {
			return err
		}
		for i := range alunos {
			alunos[i].Turma = &turma
		}
		out = alunos
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

/* =========================================================
   Util
   ========================================================= */

// ensureMatriculaFree fails with ErrDuplicateMatricula when another aluno
// (other than exceptID) already holds matricula.
func ensureMatriculaFree(tx *gorm.DB, matricula string, exceptID uint) error {
	q := tx.Model(&m.AlunoModel{}).Where("matricula = ?", matricula)
	if exceptID != 0 {
		q = q.Where("id <> ?", exceptID)
	}
	var cnt int64
	if err := q.Count(&cnt).Error; err != nil {
		return translateWriteErr(err)
	}
	if cnt > 0 {
		return ErrDuplicateMatricula
	}
	return nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// likeContains builds a folded "%term%" pattern with LIKE wildcards escaped
// by backslash.
func likeContains(term string) string {
	return "%" + likeEscaper.Replace(m.FoldNome(term)) + "%"
}
