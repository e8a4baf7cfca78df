package attendance

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/controlfichajes/fichajes-backend-go/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tod(t *testing.T, s string) *TimeOfDay {
	t.Helper()
	v, err := ParseTimeOfDay(s)
	require.NoError(t, err)
	return &v
}

func TestWorkedLabel(t *testing.T) {
	cases := []struct {
		name  string
		entry string
		exit  string
		pause int
		want  string
	}{
		{"full day with lunch", "09:00", "17:30", 30, "8h 0m"},
		{"zero length session", "09:00", "09:00", 0, "0h 0m"},
		{"floors seconds", "09:00:00", "10:15:59", 0, "1h 15m"},
		{"pause longer than session", "09:00", "09:10", 30, "-"},
		{"exit before entry minus pause", "12:00", "09:00", 30, "-"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := Record{EntryTime: tod(t, tc.entry), ExitTime: tod(t, tc.exit), PauseMinutes: tc.pause}
			assert.Equal(t, tc.want, rec.WorkedLabel())
		})
	}

	open := Record{EntryTime: tod(t, "09:00")}
	assert.Equal(t, "-", open.WorkedLabel())
	assert.True(t, open.IsOpen())
}

func TestTimeOfDay(t *testing.T) {
	v, err := ParseTimeOfDay("07:05")
	require.NoError(t, err)
	assert.Equal(t, "07:05:00", v.String())
	assert.Equal(t, "07:05", v.Short())

	_, err = ParseTimeOfDay("25:00")
	assert.Error(t, err)

	at := time.Date(2025, 3, 1, 18, 4, 9, 999, time.UTC)
	assert.Equal(t, "18:04:09", TimeOfDayOf(at).String())

	data, err := json.Marshal(v)
	require.NoError(t, err)
	assert.JSONEq(t, `"07:05:00"`, string(data))

	var decoded TimeOfDay
	require.NoError(t, json.Unmarshal([]byte(`"16:30:15"`), &decoded))
	assert.Equal(t, "16:30:15", decoded.String())
	assert.Error(t, json.Unmarshal([]byte(`"half past four"`), &decoded))
}

func TestElapsedPauseMinutes(t *testing.T) {
	start := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	assert.Equal(t, 14, ElapsedPauseMinutes(start, start.Add(14*time.Minute+59*time.Second)))
	assert.Equal(t, 0, ElapsedPauseMinutes(start, start.Add(-time.Minute)))
}

func TestDateOf(t *testing.T) {
	madrid, err := time.LoadLocation("Europe/Madrid")
	require.NoError(t, err)

	lateUTC := time.Date(2025, 3, 1, 23, 30, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), DateOf(lateUTC, time.UTC))
	assert.Equal(t, time.Date(2025, 3, 2, 0, 0, 0, 0, time.UTC), DateOf(lateUTC, madrid))
}

func TestHistoryQuery_ToFilter(t *testing.T) {
	filter, err := HistoryQuery{UserID: "3", DateFrom: "2025-01-01", DateTo: "2025-01-31"}.ToFilter()
	require.NoError(t, err)
	require.NotNil(t, filter.UserID)
	assert.Equal(t, int64(3), *filter.UserID)
	assert.Equal(t, 31, filter.DateTo.Day())

	_, err = HistoryQuery{DateFrom: "01/01/2025"}.ToFilter()
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Contains(t, verrs.ToMap(), "desde")

	_, err = HistoryQuery{DateFrom: "2025-02-01", DateTo: "2025-01-01"}.ToFilter()
	assert.Error(t, err)

	_, err = HistoryQuery{UserID: "abc"}.ToFilter()
	assert.Error(t, err)

	_, err = HistoryQuery{DateFrom: "2025-01-01"}.ToRangeFilter()
	require.ErrorAs(t, err, &verrs)
	assert.Contains(t, verrs.ToMap(), "hasta")
}

func TestCreateRecordRequest_Validate(t *testing.T) {
	req := CreateRecordRequest{Date: "2025-01-15", EntryTime: tod(t, "09:00"), ExitTime: tod(t, "08:45"), PauseMinutes: 30}
	require.NoError(t, req.Validate(), "exit within entry minus pause is accepted")
	assert.Equal(t, 15, req.ParsedDate.Day())

	bad := CreateRecordRequest{Date: "2025-01-15", EntryTime: tod(t, "09:00"), ExitTime: tod(t, "08:00"), PauseMinutes: 30}
	var verrs validator.ValidationErrors
	require.ErrorAs(t, bad.Validate(), &verrs)
	assert.Contains(t, verrs.ToMap(), "exit_time")

	noEntry := CreateRecordRequest{Date: "2025-01-15", ExitTime: tod(t, "17:00")}
	assert.Error(t, noEntry.Validate())

	missingDate := CreateRecordRequest{PauseMinutes: -1}
	require.ErrorAs(t, missingDate.Validate(), &verrs)
	assert.Contains(t, verrs.ToMap(), "date")
	assert.Contains(t, verrs.ToMap(), "pause_minutes")
}

func TestUpdateRecordRequest_Apply(t *testing.T) {
	rec := Record{ID: 1, EntryTime: tod(t, "09:00"), ShiftType: DefaultShiftType}

	pause := 15
	req := UpdateRecordRequest{ExitTime: tod(t, "17:00"), PauseMinutes: &pause}
	require.NoError(t, req.Validate())
	updated, err := req.Apply(rec)
	require.NoError(t, err)
	assert.Equal(t, "7h 45m", updated.WorkedLabel())
	assert.True(t, req.TouchesClockFields())

	empty := ""
	shiftOnly := UpdateRecordRequest{ShiftType: &empty}
	assert.False(t, shiftOnly.TouchesClockFields())
	updated, err = shiftOnly.Apply(rec)
	require.NoError(t, err)
	assert.Equal(t, DefaultShiftType, updated.ShiftType)

	tooEarly := UpdateRecordRequest{ExitTime: tod(t, "07:00")}
	_, err = tooEarly.Apply(rec)
	assert.Error(t, err)
}

func TestReport_RangeLabel(t *testing.T) {
	from := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, "Historial completo", Report{}.RangeLabel())
	assert.Equal(t, "01/01/2025 - 31/01/2025", Report{DateFrom: &from, DateTo: &to}.RangeLabel())
	assert.Equal(t, "Desde 01/01/2025", Report{DateFrom: &from}.RangeLabel())
	assert.Equal(t, "Hasta 31/01/2025", Report{DateTo: &to}.RangeLabel())
}

func TestNewRecordResponse(t *testing.T) {
	started := time.Date(2025, 1, 15, 11, 0, 0, 0, time.UTC)
	rec := Record{
		ID:             9,
		UserID:         2,
		Date:           time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC),
		EntryTime:      tod(t, "09:00"),
		PauseStartedAt: &started,
		ShiftType:      DefaultShiftType,
	}
	resp := NewRecordResponse(rec)
	assert.Equal(t, "2025-01-15", resp.Date)
	require.NotNil(t, resp.EntryTime)
	assert.Equal(t, "09:00:00", *resp.EntryTime)
	assert.Nil(t, resp.ExitTime)
	assert.True(t, resp.OnPause)
	assert.Equal(t, "-", resp.WorkedHours)
}
