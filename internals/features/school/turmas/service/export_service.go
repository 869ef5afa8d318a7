package service

import (
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"
)

const rosterSheet = "Alunos"

var rosterHeader = []any{"ID", "Nome", "E-mail", "Matrícula", "Data de nascimento"}

// RosterWorkbook renders the alunos of a turma as a single-sheet XLSX.
// The caller owns the returned file and must Close it.
func RosterWorkbook(t *TurmaDetail) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", rosterSheet); err != nil {
		_ = f.Close()
		return nil, err
	}

	title := fmt.Sprintf("%s - %d (%s)", t.Nome, t.AnoLetivo, t.Turno.Label())
	if err := f.SetCellValue(rosterSheet, "A1", title); err != nil {
		_ = f.Close()
		return nil, err
	}
	if err := f.SetSheetRow(rosterSheet, "A3", &rosterHeader); err != nil {
		_ = f.Close()
		return nil, err
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err == nil {
		_ = f.SetCellStyle(rosterSheet, "A1", "A1", bold)
		_ = f.SetCellStyle(rosterSheet, "A3", "E3", bold)
	}

	for i, a := range t.Alunos {
		cell, err := excelize.CoordinatesToCellName(1, i+4)
		if err != nil {
			_ = f.Close()
			return nil, err
		}
		row := []any{
			a.ID,
			a.Nome,
			a.Email,
			a.Matricula,
			time.Time(a.DataNascimento).Format(DateLayout),
		}
		if err := f.SetSheetRow(rosterSheet, cell, &row); err != nil {
			_ = f.Close()
			return nil, err
		}
	}
	_ = f.SetColWidth(rosterSheet, "B", "C", 32)
	_ = f.SetColWidth(rosterSheet, "D", "E", 18)
	return f, nil
}

// RosterFilename is a download-safe name for the turma roster.
func RosterFilename(t *TurmaDetail) string {
	return fmt.Sprintf("turma_%d_%d_alunos.xlsx", t.ID, t.AnoLetivo)
}
