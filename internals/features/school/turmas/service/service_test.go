package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	m "gestao_alunos_backend/internals/features/school/turmas/model"
	database "gestao_alunos_backend/internals/databases"
	helper "gestao_alunos_backend/internals/helpers"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.ConnectSQLite(database.InMemorySQLiteDSN(t.Name()), nil)
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db, m.All()...))
	t.Cleanup(func() { database.Close(db) })
	return db
}

type fixture struct {
	db     *gorm.DB
	turmas TurmaService
	alunos AlunoService
	ctx    context.Context
}

func newFixture(t *testing.T) fixture {
	db := newTestDB(t)
	return fixture{db: db, turmas: NewTurmaService(db), alunos: NewAlunoService(db), ctx: context.Background()}
}

func (f fixture) turma(t *testing.T, nome string, ano int, turno string) *m.TurmaModel {
	t.Helper()
	tm, err := f.turmas.CreateTurma(f.ctx, TurmaInput{Nome: nome, AnoLetivo: ano, Turno: turno})
	require.NoError(t, err)
	return tm
}

func (f fixture) aluno(t *testing.T, nome, matricula string, turmaID uint) *m.AlunoModel {
	t.Helper()
	a, err := f.alunos.CreateAluno(f.ctx, AlunoInput{
		Nome:           nome,
		Email:          "aluno@example.com",
		Matricula:      matricula,
		DataNascimento: "2008-01-01",
		TurmaID:        turmaID,
	})
	require.NoError(t, err)
	return a
}

func TestWorkedExample(t *testing.T) {
	f := newFixture(t)

	turma := f.turma(t, "3º Ano B", 2026, "tarde")
	assert.NotZero(t, turma.ID)
	assert.Equal(t, "Tarde", turma.Turno.Label())

	ana, err := f.alunos.CreateAluno(f.ctx, AlunoInput{
		Nome: "Ana", Email: "ana@x.com", Matricula: "20261234", DataNascimento: "2008-01-01", TurmaID: turma.ID,
	})
	require.NoError(t, err)
	assert.NotZero(t, ana.ID)
	require.NotNil(t, ana.Turma)
	assert.Equal(t, "3º Ano B", ana.Turma.Nome)

	_, err = f.alunos.CreateAluno(f.ctx, AlunoInput{
		Nome: "Bia", Email: "bia@x.com", Matricula: "20261234", DataNascimento: "2009-02-02", TurmaID: turma.ID,
	})
	assert.ErrorIs(t, err, ErrDuplicateMatricula)

	removed, err := f.turmas.DeleteTurma(f.ctx, turma.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, removed)

	_, err = f.alunos.GetAluno(f.ctx, ana.ID)
	assert.ErrorIs(t, err, ErrAlunoNotFound)
}

func TestCreateAlunoUnknownTurma(t *testing.T) {
	f := newFixture(t)
	_, err := f.alunos.CreateAluno(f.ctx, AlunoInput{
		Nome: "Ana", Email: "ana@x.com", Matricula: "1", DataNascimento: "2008-01-01", TurmaID: 999,
	})
	assert.ErrorIs(t, err, ErrTurmaNotFound)
	assert.True(t, IsNotFound(err))

	var count int64
	require.NoError(t, f.db.Model(&m.AlunoModel{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestCreateAlunoValidation(t *testing.T) {
	f := newFixture(t)
	turma := f.turma(t, "1º Ano A", 2026, "manha")

	_, err := f.alunos.CreateAluno(f.ctx, AlunoInput{
		Nome: "  ", Email: "not-an-email", Matricula: "", DataNascimento: "01/01/2008", TurmaID: turma.ID,
	})
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Fields, "nome")
	assert.Contains(t, ve.Fields, "email")
	assert.Contains(t, ve.Fields, "matricula")
	assert.Contains(t, ve.Fields, "data_nascimento")
}

func TestCreateTurmaValidation(t *testing.T) {
	f := newFixture(t)
	_, err := f.turmas.CreateTurma(f.ctx, TurmaInput{Nome: "X", AnoLetivo: 2026, Turno: "madrugada"})
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Fields, "turno")

	// shift codes are case-insensitive on input
	tm, err := f.turmas.CreateTurma(f.ctx, TurmaInput{Nome: " X ", AnoLetivo: 2026, Turno: "NOITE"})
	require.NoError(t, err)
	assert.Equal(t, m.TurnoNoite, tm.Turno)
	assert.Equal(t, "X", tm.Nome)
}

func TestConcurrentDuplicateMatricula(t *testing.T) {
	f := newFixture(t)
	turma := f.turma(t, "2º Ano A", 2026, "manha")

	const workers = 8
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		ok, dup   int
		otherErrs []error
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := f.alunos.CreateAluno(f.ctx, AlunoInput{
				Nome:           fmt.Sprintf("Aluno %d", i),
				Email:          fmt.Sprintf("a%d@x.com", i),
				Matricula:      "20260001",
				DataNascimento: "2008-01-01",
				TurmaID:        turma.ID,
			})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				ok++
			case errors.Is(err, ErrDuplicateMatricula):
				dup++
			default:
				otherErrs = append(otherErrs, err)
			}
		}(i)
	}
	wg.Wait()

	assert.Empty(t, otherErrs)
	assert.Equal(t, 1, ok)
	assert.Equal(t, workers-1, dup)
}

func TestUniqueIndexIsFinalArbiter(t *testing.T) {
	f := newFixture(t)
	turma := f.turma(t, "2º Ano B", 2026, "tarde")
	f.aluno(t, "Ana", "777", turma.ID)

	// bypass the service check and hit the index directly
	err := f.db.Create(&m.AlunoModel{
		Nome: "Bia", Email: "b@x.com", Matricula: "777", TurmaID: turma.ID,
	}).Error
	require.Error(t, err)
	assert.ErrorIs(t, translateWriteErr(err), ErrDuplicateMatricula)
}

func TestUpdateAluno(t *testing.T) {
	f := newFixture(t)
	t1 := f.turma(t, "1º Ano A", 2026, "manha")
	t2 := f.turma(t, "1º Ano B", 2026, "tarde")
	ana := f.aluno(t, "Ana", "100", t1.ID)
	f.aluno(t, "Bia", "200", t1.ID)

	same := "100"
	got, err := f.alunos.UpdateAluno(f.ctx, ana.ID, AlunoPatch{Matricula: &same})
	require.NoError(t, err, "own matricula must never be a duplicate")
	assert.Equal(t, "100", got.Matricula)

	taken := "200"
	_, err = f.alunos.UpdateAluno(f.ctx, ana.ID, AlunoPatch{Matricula: &taken})
	assert.ErrorIs(t, err, ErrDuplicateMatricula)

	missing := uint(12345)
	_, err = f.alunos.UpdateAluno(f.ctx, ana.ID, AlunoPatch{TurmaID: &missing})
	assert.ErrorIs(t, err, ErrTurmaNotFound)

	nome, email, nasc := "Ana Maria", "ana.maria@x.com", "2007-05-06"
	got, err = f.alunos.UpdateAluno(f.ctx, ana.ID, AlunoPatch{
		Nome: &nome, Email: &email, DataNascimento: &nasc, TurmaID: &t2.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, "Ana Maria", got.Nome)
	assert.Equal(t, "ana.maria@x.com", got.Email)
	assert.Equal(t, t2.ID, got.TurmaID)
	require.NotNil(t, got.Turma)
	assert.Equal(t, "1º Ano B", got.Turma.Nome)
	assert.Equal(t, "2007-05-06", time.Time(got.DataNascimento).Format(DateLayout))

	// untouched fields survive
	assert.Equal(t, "100", got.Matricula)

	bad := "nope"
	_, err = f.alunos.UpdateAluno(f.ctx, ana.ID, AlunoPatch{Email: &bad})
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Fields, "email")

	_, err = f.alunos.UpdateAluno(f.ctx, 9999, AlunoPatch{Nome: &nome})
	assert.ErrorIs(t, err, ErrAlunoNotFound)
}

func TestUpdateAndDeleteTurma(t *testing.T) {
	f := newFixture(t)
	tm := f.turma(t, "1º Ano A", 2025, "manha")

	ano, turno := 2026, "noite"
	got, err := f.turmas.UpdateTurma(f.ctx, tm.ID, TurmaPatch{AnoLetivo: &ano, Turno: &turno})
	require.NoError(t, err)
	assert.Equal(t, 2026, got.AnoLetivo)
	assert.Equal(t, m.TurnoNoite, got.Turno)
	assert.Equal(t, "1º Ano A", got.Nome)

	_, err = f.turmas.UpdateTurma(f.ctx, 999, TurmaPatch{AnoLetivo: &ano})
	assert.ErrorIs(t, err, ErrTurmaNotFound)

	_, err = f.turmas.DeleteTurma(f.ctx, 999)
	assert.ErrorIs(t, err, ErrTurmaNotFound)
}

func TestDeleteTurmaCascades(t *testing.T) {
	f := newFixture(t)
	doomed := f.turma(t, "3º Ano A", 2026, "manha")
	kept := f.turma(t, "3º Ano B", 2026, "tarde")
	for i := 0; i < 5; i++ {
		f.aluno(t, fmt.Sprintf("Doomed %d", i), fmt.Sprintf("D%d", i), doomed.ID)
	}
	keeper := f.aluno(t, "Keeper", "K1", kept.ID)

	removed, err := f.turmas.DeleteTurma(f.ctx, doomed.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 5, removed)

	var orphans int64
	require.NoError(t, f.db.Model(&m.AlunoModel{}).
		Where("turma_id NOT IN (?)", f.db.Model(&m.TurmaModel{}).Select("id")).
		Count(&orphans).Error)
	assert.Zero(t, orphans)

	rows, total, err := f.alunos.ListAlunos(f.ctx, AlunoFilter{}, helper.NewPaging(1, 10, 10, 100))
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, rows, 1)
	assert.Equal(t, keeper.ID, rows[0].ID)

	list, err := f.turmas.ListTurmas(f.ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.EqualValues(t, 1, list[0].TotalAlunos)
}

func TestDeleteAluno(t *testing.T) {
	f := newFixture(t)
	tm := f.turma(t, "1º Ano A", 2026, "manha")
	a := f.aluno(t, "Ana", "1", tm.ID)

	require.NoError(t, f.alunos.DeleteAluno(f.ctx, a.ID))
	assert.ErrorIs(t, f.alunos.DeleteAluno(f.ctx, a.ID), ErrAlunoNotFound)

	// the turma is independent of its alunos
	d, err := f.turmas.GetTurma(f.ctx, tm.ID)
	require.NoError(t, err)
	assert.Zero(t, d.TotalAlunos)
}

func TestListTurmasOrderAndCounts(t *testing.T) {
	f := newFixture(t)
	b := f.turma(t, "B", 2026, "manha")
	f.turma(t, "A", 2026, "tarde")
	f.turma(t, "Z", 2025, "noite")
	f.aluno(t, "x", "1", b.ID)
	f.aluno(t, "y", "2", b.ID)

	list, err := f.turmas.ListTurmas(f.ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, []string{"Z", "A", "B"}, []string{list[0].Nome, list[1].Nome, list[2].Nome})
	assert.EqualValues(t, 0, list[1].TotalAlunos)
	assert.EqualValues(t, 2, list[2].TotalAlunos)
}

func TestGetTurmaDetail(t *testing.T) {
	f := newFixture(t)
	tm := f.turma(t, "1º Ano A", 2026, "manha")
	f.aluno(t, "Carla", "3", tm.ID)
	f.aluno(t, "Ana", "1", tm.ID)

	d, err := f.turmas.GetTurma(f.ctx, tm.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, d.TotalAlunos)
	require.Len(t, d.Alunos, 2)
	assert.Equal(t, "Ana", d.Alunos[0].Nome)
	assert.Equal(t, "1º Ano A", d.Alunos[0].Turma.Nome)

	_, err = f.turmas.GetTurma(f.ctx, 404)
	assert.ErrorIs(t, err, ErrTurmaNotFound)
}

func TestListAlunosFiltersAndPaging(t *testing.T) {
	f := newFixture(t)
	t1 := f.turma(t, "1º Ano A", 2026, "manha")
	empty := f.turma(t, "Vazia", 2026, "noite")
	for i := 0; i < 12; i++ {
		f.aluno(t, fmt.Sprintf("Aluno %02d", i), fmt.Sprintf("M%02d", i), t1.ID)
	}
	f.aluno(t, "Mariana Souza", "S1", t1.ID)
	f.aluno(t, "100%_real", "S2", t1.ID)

	pg := helper.NewPaging(1, 10, 10, 100)

	rows, total, err := f.alunos.ListAlunos(f.ctx, AlunoFilter{}, pg)
	require.NoError(t, err)
	assert.EqualValues(t, 14, total)
	assert.Len(t, rows, 10)
	assert.Equal(t, "100%_real", rows[0].Nome)
	require.NotNil(t, rows[0].Turma)

	rows, _, err = f.alunos.ListAlunos(f.ctx, AlunoFilter{}, helper.NewPaging(2, 10, 10, 100))
	require.NoError(t, err)
	assert.Len(t, rows, 4)

	rows, total, err = f.alunos.ListAlunos(f.ctx, AlunoFilter{}, helper.NewPaging(50, 10, 10, 100))
	require.NoError(t, err, "out-of-range page is not an error")
	assert.Empty(t, rows)
	assert.EqualValues(t, 14, total)

	// a page number large enough to overflow a naive offset stays past the end
	rows, total, err = f.alunos.ListAlunos(f.ctx, AlunoFilter{}, helper.NewPaging(1_000_000_000_000_000_000, 10, 10, 100))
	require.NoError(t, err)
	assert.Empty(t, rows)
	assert.EqualValues(t, 14, total)

	rows, total, err = f.alunos.ListAlunos(f.ctx, AlunoFilter{Nome: "MARI"}, pg)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Equal(t, "Mariana Souza", rows[0].Nome)

	// wildcards in the term are literal
	rows, _, err = f.alunos.ListAlunos(f.ctx, AlunoFilter{Nome: "%_"}, pg)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "100%_real", rows[0].Nome)

	rows, total, err = f.alunos.ListAlunos(f.ctx, AlunoFilter{TurmaID: &empty.ID}, pg)
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, rows)
	assert.NotNil(t, rows)

	unknown := uint(4242)
	rows, _, err = f.alunos.ListAlunos(f.ctx, AlunoFilter{TurmaID: &unknown}, pg)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestListAlunosNomeFilterFoldsAccents(t *testing.T) {
	f := newFixture(t)
	tm := f.turma(t, "1º Ano A", 2026, "manha")
	agata := f.aluno(t, "ÁGATA Ribeiro", "N1", tm.ID)
	f.aluno(t, "Érica CONCEIÇÃO", "N2", tm.ID)
	f.aluno(t, "Bruno", "N3", tm.ID)
	pg := helper.NewPaging(1, 10, 10, 100)

	cases := []struct {
		term string
		want string
	}{
		{"ágata", "N1"},
		{"Ágata", "N1"},
		{"érica", "N2"},
		{"conceição", "N2"},
		{"ÇÃO", "N2"},
	}
	for _, tc := range cases {
		rows, total, err := f.alunos.ListAlunos(f.ctx, AlunoFilter{Nome: tc.term}, pg)
		require.NoError(t, err, tc.term)
		require.EqualValues(t, 1, total, tc.term)
		assert.Equal(t, tc.want, rows[0].Matricula, tc.term)
	}

	// renaming refreshes the search column
	nome := "Ágata Ÿsolde"
	_, err := f.alunos.UpdateAluno(f.ctx, agata.ID, AlunoPatch{Nome: &nome})
	require.NoError(t, err)
	rows, _, err := f.alunos.ListAlunos(f.ctx, AlunoFilter{Nome: "ÿsolde"}, pg)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, agata.ID, rows[0].ID)

	rows, _, err = f.alunos.ListAlunos(f.ctx, AlunoFilter{Nome: "ribeiro"}, pg)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestListAlunosByTurma(t *testing.T) {
	f := newFixture(t)
	tm := f.turma(t, "1º Ano A", 2026, "manha")
	empty := f.turma(t, "Vazia", 2026, "noite")
	f.aluno(t, "Bruno", "2", tm.ID)
	f.aluno(t, "Ana", "1", tm.ID)

	rows, err := f.alunos.ListAlunosByTurma(f.ctx, tm.ID)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Ana", rows[0].Nome)

	rows, err = f.alunos.ListAlunosByTurma(f.ctx, empty.ID)
	require.NoError(t, err)
	assert.Empty(t, rows)

	_, err = f.alunos.ListAlunosByTurma(f.ctx, 999)
	assert.ErrorIs(t, err, ErrTurmaNotFound)
}

func TestRosterWorkbook(t *testing.T) {
	f := newFixture(t)
	tm := f.turma(t, "1º Ano A", 2026, "manha")
	f.aluno(t, "Ana", "20260001", tm.ID)

	d, err := f.turmas.GetTurma(f.ctx, tm.ID)
	require.NoError(t, err)

	wb, err := RosterWorkbook(d)
	require.NoError(t, err)
	defer wb.Close()

	title, err := wb.GetCellValue(rosterSheet, "A1")
	require.NoError(t, err)
	assert.Equal(t, "1º Ano A - 2026 (Manhã)", title)

	rows, err := wb.GetRows(rosterSheet)
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, []string{"1", "Ana", "aluno@example.com", "20260001", "2008-01-01"}, rows[3])
	assert.Equal(t, fmt.Sprintf("turma_%d_2026_alunos.xlsx", tm.ID), RosterFilename(d))
}
