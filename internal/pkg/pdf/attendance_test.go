package pdf

import (
	"bytes"
	"testing"
	"time"

	"github.com/controlfichajes/fichajes-backend-go/internal/domain/attendance"
	"github.com/controlfichajes/fichajes-backend-go/internal/domain/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tod(t *testing.T, s string) *attendance.TimeOfDay {
	t.Helper()
	v, err := attendance.ParseTimeOfDay(s)
	require.NoError(t, err)
	return &v
}

func sampleReport(t *testing.T, n int) attendance.Report {
	day := time.Date(2025, 11, 1, 0, 0, 0, 0, time.UTC)
	records := make([]attendance.Record, 0, n)
	for i := 0; i < n; i++ {
		records = append(records, attendance.Record{
			ID: int64(i + 1), UserID: 2, Date: day.AddDate(0, 0, i),
			EntryTime: tod(t, "09:00"), ExitTime: tod(t, "17:30"), PauseMinutes: 30, ShiftType: "Continua",
		})
	}
	return attendance.Report{
		User:        user.Summary{ID: 2, FirstName: "Empleado", LastName: "Uno", Email: "empleado1@demo.local"},
		Records:     records,
		GeneratedAt: time.Date(2025, 11, 24, 18, 0, 0, 0, time.UTC),
	}
}

func TestRenderAttendanceReport(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderAttendanceReport(&buf, sampleReport(t, 3)))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
}

func TestBuild_Content(t *testing.T) {
	doc := build(sampleReport(t, 2))
	doc.SetCompression(false)

	var buf bytes.Buffer
	require.NoError(t, doc.Output(&buf))
	out := buf.String()

	assert.Contains(t, out, "Empleado: Empleado Uno")
	assert.Contains(t, out, "Periodo: Historial completo")
	assert.Contains(t, out, "8h 0m")
	assert.Contains(t, out, "16h 0m")
	assert.Contains(t, out, "Generado el 24/11/2025 18:00")
}

func TestBuild_TableFitsPrintableWidth(t *testing.T) {
	doc := build(sampleReport(t, 1))
	pageWidth, _ := doc.GetPageSize()
	left, _, right, _ := doc.GetMargins()

	assert.InDelta(t, pageWidth-left-right, totalWidth(), 0.01)
}

func TestBuild_Paginates(t *testing.T) {
	doc := build(sampleReport(t, 80))
	assert.Greater(t, doc.PageCount(), 1)
	assert.NoError(t, doc.Error())
}

func TestBuild_Empty(t *testing.T) {
	doc := build(sampleReport(t, 0))
	doc.SetCompression(false)

	var buf bytes.Buffer
	require.NoError(t, doc.Output(&buf))
	assert.Contains(t, buf.String(), "Sin fichajes en el periodo")
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "0h 0m", FormatDuration(0))
	assert.Equal(t, "8h 0m", FormatDuration(8*time.Hour+59*time.Second))
	assert.Equal(t, "25h 5m", FormatDuration(25*time.Hour+5*time.Minute))
}
