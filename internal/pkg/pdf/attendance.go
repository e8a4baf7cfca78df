// Package pdf renders attendance reports with go-pdf/fpdf.
package pdf

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/controlfichajes/fichajes-backend-go/internal/domain/attendance"
	"github.com/go-pdf/fpdf"
)

const (
	ContentType = "application/pdf"

	fontFamily  = "Helvetica"
	lineHeight  = 7.0
	dateDisplay = "02/01/2006"
)

var columns = []struct {
	title string
	width float64
	align string
}{
	{"Fecha", 30, "L"},
	{"Entrada", 28, "C"},
	{"Salida", 28, "C"},
	{"Pausa (min)", 30, "C"},
	{"Turno", 28, "L"},
	{"Horas trabajadas", 36, "R"},
}

// RenderAttendanceReport writes r as an A4 PDF to w.
func RenderAttendanceReport(w io.Writer, r attendance.Report) error {
	doc := build(r)
	if err := doc.Output(w); err != nil {
		return fmt.Errorf("render attendance pdf: %w", err)
	}
	return nil
}

func build(r attendance.Report) *fpdf.Fpdf {
	doc := fpdf.New("P", "mm", "A4", "")
	tr := doc.UnicodeTranslatorFromDescriptor("")

	doc.SetTitle("Informe de fichajes", true)
	doc.SetAuthor("Control de Fichajes", true)
	doc.SetCreationDate(r.GeneratedAt)
	doc.SetModificationDate(r.GeneratedAt)
	doc.SetMargins(15, 15, 15)
	doc.SetAutoPageBreak(true, 20)
	doc.AliasNbPages("")

	generated := r.GeneratedAt.Format("02/01/2006 15:04")
	doc.SetFooterFunc(func() {
		doc.SetY(-15)
		doc.SetFont(fontFamily, "I", 8)
		doc.CellFormat(90, 10, tr("Generado el "+generated), "", 0, "L", false, 0, "")
		doc.CellFormat(0, 10, tr(fmt.Sprintf("Página %d/{nb}", doc.PageNo())), "", 0, "R", false, 0, "")
	})

	doc.AddPage()

	doc.SetFont(fontFamily, "B", 16)
	doc.CellFormat(0, 10, tr("Informe de fichajes"), "", 1, "L", false, 0, "")
	doc.SetFont(fontFamily, "", 11)
	doc.CellFormat(0, lineHeight, tr("Empleado: "+r.User.FullName()), "", 1, "L", false, 0, "")
	doc.CellFormat(0, lineHeight, tr("Email: "+r.User.Email), "", 1, "L", false, 0, "")
	doc.CellFormat(0, lineHeight, tr("Periodo: "+r.RangeLabel()), "", 1, "L", false, 0, "")
	doc.Ln(4)

	header := func() {
		doc.SetFont(fontFamily, "B", 10)
		doc.SetFillColor(230, 230, 230)
		for _, c := range columns {
			doc.CellFormat(c.width, lineHeight, tr(c.title), "1", 0, "C", true, 0, "")
		}
		doc.Ln(-1)
		doc.SetFont(fontFamily, "", 10)
	}
	header()

	if len(r.Records) == 0 {
		doc.CellFormat(totalWidth(), lineHeight, tr("Sin fichajes en el periodo"), "1", 1, "C", false, 0, "")
		return doc
	}

	_, pageHeight := doc.GetPageSize()
	_, _, _, bottom := doc.GetMargins()
	var total time.Duration
	for _, rec := range r.Records {
		if doc.GetY()+lineHeight > pageHeight-bottom {
			doc.AddPage()
			header()
		}
		if worked, ok := rec.Worked(); ok {
			total += worked
		}
		for i, value := range recordRow(rec) {
			doc.CellFormat(columns[i].width, lineHeight, tr(value), "1", 0, columns[i].align, false, 0, "")
		}
		doc.Ln(-1)
	}

	doc.SetFont(fontFamily, "B", 10)
	labelWidth := totalWidth() - columns[len(columns)-1].width
	doc.CellFormat(labelWidth, lineHeight, tr("Total"), "1", 0, "R", false, 0, "")
	doc.CellFormat(columns[len(columns)-1].width, lineHeight, FormatDuration(total), "1", 1, "R", false, 0, "")

	return doc
}

func recordRow(rec attendance.Record) []string {
	return []string{
		rec.Date.Format(dateDisplay),
		shortTime(rec.EntryTime),
		shortTime(rec.ExitTime),
		strconv.Itoa(rec.PauseMinutes),
		rec.ShiftType,
		rec.WorkedLabel(),
	}
}

func shortTime(t *attendance.TimeOfDay) string {
	if t == nil {
		return "-"
	}
	return t.Short()
}

func totalWidth() float64 {
	var w float64
	for _, c := range columns {
		w += c.width
	}
	return w
}

// FormatDuration renders d as "Xh Ym", floored to minutes.
func FormatDuration(d time.Duration) string {
	minutes := int(d / time.Minute)
	return fmt.Sprintf("%dh %dm", minutes/60, minutes%60)
}
