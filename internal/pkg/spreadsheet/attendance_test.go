package spreadsheet

import (
	"bytes"
	"testing"
	"time"

	"github.com/controlfichajes/fichajes-backend-go/internal/domain/attendance"
	"github.com/controlfichajes/fichajes-backend-go/internal/domain/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func tod(t *testing.T, s string) *attendance.TimeOfDay {
	t.Helper()
	v, err := attendance.ParseTimeOfDay(s)
	require.NoError(t, err)
	return &v
}

func TestWriteAttendanceReport(t *testing.T) {
	from := time.Date(2025, 11, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 11, 30, 0, 0, 0, 0, time.UTC)
	report := attendance.Report{
		User:     user.Summary{ID: 2, FirstName: "Empleado", LastName: "Uno", Email: "empleado1@demo.local"},
		DateFrom: &from,
		DateTo:   &to,
		Records: []attendance.Record{
			{ID: 2, Date: from.AddDate(0, 0, 1), EntryTime: tod(t, "09:00"), ShiftType: "Continua"},
			{ID: 1, Date: from, EntryTime: tod(t, "09:00"), ExitTime: tod(t, "17:30"), PauseMinutes: 30, ShiftType: "Continua"},
		},
		GeneratedAt: time.Date(2025, 11, 24, 18, 0, 0, 0, time.UTC),
	}

	var buf bytes.Buffer
	require.NoError(t, WriteAttendanceReport(&buf, report))

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(SheetName)
	require.NoError(t, err)
	require.Len(t, rows, headerRow+3)

	assert.Equal(t, "Empleado Uno", rows[1][1])
	assert.Equal(t, "01/11/2025 - 30/11/2025", rows[3][1])
	assert.Equal(t, "Fecha", rows[headerRow-1][0])

	assert.Equal(t, []string{"2025-11-02", "09:00", "-", "0", "Continua", "-", "0"}, rows[headerRow])
	assert.Equal(t, []string{"2025-11-01", "09:00", "17:30", "30", "Continua", "8h 0m", "480"}, rows[headerRow+1])

	total := rows[headerRow+2]
	assert.Equal(t, "Total", total[0])
	assert.Equal(t, "8h 0m", total[5])
	assert.Equal(t, "480", total[6])
}
