// file: internals/features/school/turmas/service/turma_service.go
package service

import (
	"context"
	"log"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	m "gestao_alunos_backend/internals/features/school/turmas/model"
)

// ————————————————————————————
// Public API
// ————————————————————————————

type TurmaService interface {
	CreateTurma(ctx context.Context, in TurmaInput) (*m.TurmaModel, error)
	UpdateTurma(ctx context.Context, id uint, p TurmaPatch) (*m.TurmaModel, error)
	// DeleteTurma removes the turma and all its alunos; it returns how many
	// alunos went with it.
	DeleteTurma(ctx context.Context, id uint) (int64, error)

	ListTurmas(ctx context.Context) ([]m.TurmaWithCount, error)
	GetTurma(ctx context.Context, id uint) (*TurmaDetail, error)
}

// TurmaDetail is a turma with its alunos, ordered by nome.
type TurmaDetail struct {
	m.TurmaWithCount
	Alunos []m.AlunoModel
}

type turmaSvc struct {
	db *gorm.DB
}

func NewTurmaService(db *gorm.DB) TurmaService { return &turmaSvc{db: db} }

// ————————————————————————————
// Mutations
// ————————————————————————————

func (s *turmaSvc) CreateTurma(ctx context.Context, in TurmaInput) (*m.TurmaModel, error) {
	in.normalize()
	if err := validateStruct(in); err != nil {
		return nil, err
	}
	ent := m.TurmaModel{
		Nome:      in.Nome,
		AnoLetivo: in.AnoLetivo,
		Turno:     m.Turno(in.Turno),
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return translateWriteErr(tx.Create(&ent).Error)
	})
	if err != nil {
		return nil, err
	}
	log.Printf("[turmas] created id=%d nome=%q ano=%d", ent.ID, ent.Nome, ent.AnoLetivo)
	return &ent, nil
}

func (s *turmaSvc) UpdateTurma(ctx context.Context, id uint, p TurmaPatch) (*m.TurmaModel, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}
	var ent m.TurmaModel
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := findTurma(tx, id, &ent); err != nil {
			return err
		}
		if p.Nome != nil {
			ent.Nome = *p.Nome
		}
		if p.AnoLetivo != nil {
			ent.AnoLetivo = *p.AnoLetivo
		}
		if p.Turno != nil {
			ent.Turno = m.Turno(*p.Turno)
		}
		return translateWriteErr(tx.Save(&ent).Error)
	})
	if err != nil {
		return nil, err
	}
	return &ent, nil
}

func (s *turmaSvc) DeleteTurma(ctx context.Context, id uint) (int64, error) {
	var removed int64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var ent m.TurmaModel
		// lock the row so no aluno can be attached while we cascade
		if err := tx.Clauses(lockingFor(tx)...).First(&ent, id).Error; err != nil {
			return notFoundOr(err, ErrTurmaNotFound)
		}
		// explicit cascade; the FK also cascades where the engine enforces it
		res := tx.Where("turma_id = ?", id).Delete(&m.AlunoModel{})
		if res.Error != nil {
			return translateWriteErr(res.Error)
		}
		removed = res.RowsAffected
		return translateWriteErr(tx.Delete(&ent).Error)
	})
	if err != nil {
		return 0, err
	}
	log.Printf("[turmas] deleted id=%d alunos_removidos=%d", id, removed)
	return removed, nil
}

// ————————————————————————————
// Queries
// ————————————————————————————

const totalAlunosSelect = "turmas.*, (SELECT COUNT(*) FROM alunos WHERE alunos.turma_id = turmas.id) AS total_alunos"

func (s *turmaSvc) ListTurmas(ctx context.Context) ([]m.TurmaWithCount, error) {
	rows := make([]m.TurmaWithCount, 0)
	if err := s.db.WithContext(ctx).
		Model(&m.TurmaModel{}).
		Select(totalAlunosSelect).
		Order("turmas.ano_letivo ASC, turmas.nome ASC, turmas.id ASC").
		Scan(&rows).Error; err != nil {
		return nil, notFoundOr(err, ErrTurmaNotFound)
	}
	return rows, nil
}

func (s *turmaSvc) GetTurma(ctx context.Context, id uint) (*TurmaDetail, error) {
	var out TurmaDetail
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := findTurma(tx, id, &out.TurmaModel); err != nil {
			return err
		}
		alunos, err := alunosOfTurma(tx, id)
		if err != nil {
			return err
		}
		for i := range alunos {
			alunos[i].Turma = &out.TurmaModel
		}
		out.Alunos = alunos
		out.TotalAlunos = int64(len(alunos))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// ————————————————————————————
// Shared helpers (tx scoped)
// ————————————————————————————

func findTurma(tx *gorm.DB, id uint, dst *m.TurmaModel) error {
	if id == 0 {
		return ErrTurmaNotFound
	}
	if err := tx.First(dst, id).Error; err != nil {
		return notFoundOr(err, ErrTurmaNotFound)
	}
	return nil
}

func alunosOfTurma(tx *gorm.DB, turmaID uint) ([]m.AlunoModel, error) {
	alunos := make([]m.AlunoModel, 0)
	if err := tx.
		Where("turma_id = ?", turmaID).
		Order("nome ASC, id ASC").
		Find(&alunos).Error; err != nil {
		return nil, notFoundOr(err, ErrAlunoNotFound)
	}
	return alunos, nil
}

// lockingFor returns SELECT ... FOR UPDATE where the dialect supports it.
func lockingFor(tx *gorm.DB) []clause.Expression {
	if tx.Dialector.Name() == "postgres" {
		return []clause.Expression{clause.Locking{Strength: "UPDATE"}}
	}
	return nil
}
