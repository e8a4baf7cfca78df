// Package spreadsheet exports attendance reports as XLSX workbooks using excelize.
package spreadsheet

import (
	"fmt"
	"io"
	"time"

	"github.com/controlfichajes/fichajes-backend-go/internal/domain/attendance"
	"github.com/xuri/excelize/v2"
)

const (
	ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	SheetName   = "Fichajes"

	headerRow = 6
)

var headers = []interface{}{"Fecha", "Entrada", "Salida", "Pausa (min)", "Turno", "Horas trabajadas", "Minutos trabajados"}

// WriteAttendanceReport writes r as a single-sheet workbook to w.
func WriteAttendanceReport(w io.Writer, r attendance.Report) error {
	f, err := build(r)
	if err != nil {
		return fmt.Errorf("build attendance workbook: %w", err)
	}
	defer f.Close()

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write attendance workbook: %w", err)
	}
	return nil
}

func build(r attendance.Report) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		f.Close()
		return nil, err
	}

	if err := fill(f, r); err != nil {
		f.Close()
		return nil, err
	}
	return f, nil
}

func fill(f *excelize.File, r attendance.Report) error {
	err := f.SetDocProps(&excelize.DocProperties{
		Title:   "Informe de fichajes",
		Creator: "Control de Fichajes",
		Created: r.GeneratedAt.UTC().Format(time.RFC3339),
	})
	if err != nil {
		return err
	}

	info := [][]interface{}{
		{"Informe de fichajes"},
		{"Empleado", r.User.FullName()},
		{"Email", r.User.Email},
		{"Periodo", r.RangeLabel()},
		{"Generado", r.GeneratedAt.Format("02/01/2006 15:04")},
	}
	for i, row := range info {
		if err := setRow(f, i+1, row); err != nil {
			return err
		}
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"E6E6E6"}},
	})
	if err != nil {
		return err
	}

	if err := f.SetCellStyle(SheetName, "A1", "A5", bold); err != nil {
		return err
	}
	if err := setRow(f, headerRow, headers); err != nil {
		return err
	}
	lastCol, err := excelize.CoordinatesToCellName(len(headers), headerRow)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(SheetName, "A6", lastCol, headerStyle); err != nil {
		return err
	}

	row := headerRow + 1
	totalMinutes := 0
	for _, rec := range r.Records {
		minutes := 0
		if worked, ok := rec.Worked(); ok {
			minutes = int(worked / time.Minute)
		}
		totalMinutes += minutes

		values := []interface{}{
			rec.Date.Format("2006-01-02"),
			timeOrDash(rec.EntryTime),
			timeOrDash(rec.ExitTime),
			rec.PauseMinutes,
			rec.ShiftType,
			rec.WorkedLabel(),
			minutes,
		}
		if err := setRow(f, row, values); err != nil {
			return err
		}
		row++
	}

	total := []interface{}{"Total", "", "", "", "", fmt.Sprintf("%dh %dm", totalMinutes/60, totalMinutes%60), totalMinutes}
	if err := setRow(f, row, total); err != nil {
		return err
	}
	first, _ := excelize.CoordinatesToCellName(1, row)
	last, _ := excelize.CoordinatesToCellName(len(headers), row)
	if err := f.SetCellStyle(SheetName, first, last, bold); err != nil {
		return err
	}

	if err := f.SetColWidth(SheetName, "A", "G", 16); err != nil {
		return err
	}
	return f.SetPanes(SheetName, &excelize.Panes{
		Freeze:      true,
		YSplit:      headerRow,
		TopLeftCell: fmt.Sprintf("A%d", headerRow+1),
		ActivePane:  "bottomLeft",
	})
}

func setRow(f *excelize.File, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return f.SetSheetRow(SheetName, cell, &values)
}

func timeOrDash(t *attendance.TimeOfDay) string {
	if t == nil {
		return "-"
	}
	return t.Short()
}
