package attendance

import (
	"strconv"
	"strings"
	"time"

	"github.com/controlfichajes/fichajes-backend-go/internal/domain/user"
	"github.com/controlfichajes/fichajes-backend-go/internal/pkg/validator"
)

// ========================================
// CLOCK DTOs
// ========================================

type ClockInRequest struct {
	Date       *string    `json:"date,omitempty"`
	ShiftType  string     `json:"shift_type,omitempty"`
	ParsedDate *time.Time `json:"-"`
}

func (r *ClockInRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Date != nil && !validator.IsEmpty(*r.Date) {
		date, ok := validator.IsValidDate(strings.TrimSpace(*r.Date))
		if !ok {
			errs.Add("date", "invalid date format, expected YYYY-MM-DD")
		} else {
			r.ParsedDate = &date
		}
	}

	if !validator.MaxLength(r.ShiftType, 50) {
		errs.Add("shift_type", "shift_type must be at most 50 characters")
	}

	return errs.Err()
}

// RecordResponse is the API shape of a Record.
type RecordResponse struct {
	ID             int64         `json:"id"`
	UserID         int64         `json:"user_id"`
	Date           string        `json:"date"`
	EntryTime      *string       `json:"entry_time"`
	ExitTime       *string       `json:"exit_time"`
	PauseMinutes   int           `json:"pause_minutes"`
	PauseStartedAt *string       `json:"pause_started_at"`
	OnPause        bool          `json:"on_pause"`
	ShiftType      string        `json:"shift_type"`
	WorkedHours    string        `json:"worked_hours"`
	User           *user.Summary `json:"user,omitempty"`
}

func NewRecordResponse(r Record) RecordResponse {
	resp := RecordResponse{
		ID:           r.ID,
		UserID:       r.UserID,
		Date:         r.Date.Format(validator.DateLayout),
		PauseMinutes: r.PauseMinutes,
		OnPause:      r.OnPause(),
		ShiftType:    r.ShiftType,
		WorkedHours:  r.WorkedLabel(),
		User:         r.User,
	}
	if r.EntryTime != nil {
		s := r.EntryTime.String()
		resp.EntryTime = &s
	}
	if r.ExitTime != nil {
		s := r.ExitTime.String()
		resp.ExitTime = &s
	}
	if r.PauseStartedAt != nil {
		s := r.PauseStartedAt.UTC().Format(time.RFC3339)
		resp.PauseStartedAt = &s
	}
	return resp
}

func NewRecordResponses(records []Record) []RecordResponse {
	out := make([]RecordResponse, 0, len(records))
	for _, r := range records {
		out = append(out, NewRecordResponse(r))
	}
	return out
}

// ========================================
// QUERY DTOs
// ========================================

// HistoryQuery carries raw query values (idUsuario, desde, hasta).
type HistoryQuery struct {
	UserID   string
	DateFrom string
	DateTo   string
}

func (q HistoryQuery) ToFilter() (Filter, error) {
	var errs validator.ValidationErrors
	filter := Filter{}

	if !validator.IsEmpty(q.UserID) {
		id, err := strconv.ParseInt(strings.TrimSpace(q.UserID), 10, 64)
		if err != nil || id <= 0 {
			errs.Add("idUsuario", "idUsuario must be a positive integer")
		} else {
			filter.UserID = &id
		}
	}

	from, err := validator.ParseOptionalDate("desde", q.DateFrom)
	if err != nil {
		errs = append(errs, err.(validator.ValidationErrors)...)
	}
	to, err := validator.ParseOptionalDate("hasta", q.DateTo)
	if err != nil {
		errs = append(errs, err.(validator.ValidationErrors)...)
	}
	if from != nil && to != nil && from.After(*to) {
		errs.Add("desde", "desde must not be after hasta")
	}
	filter.DateFrom = from
	filter.DateTo = to

	if err := errs.Err(); err != nil {
		return Filter{}, err
	}
	return filter, nil
}

// ToRangeFilter is ToFilter with both dates mandatory.
func (q HistoryQuery) ToRangeFilter() (Filter, error) {
	var errs validator.ValidationErrors
	if validator.IsEmpty(q.DateFrom) {
		errs.Add("desde", "desde is required")
	}
	if validator.IsEmpty(q.DateTo) {
		errs.Add("hasta", "hasta is required")
	}
	if err := errs.Err(); err != nil {
		return Filter{}, err
	}
	return q.ToFilter()
}

// ========================================
// CRUD DTOs
// ========================================

type CreateRecordRequest struct {
	UserID       *int64     `json:"user_id,omitempty"`
	Date         string     `json:"date"`
	EntryTime    *TimeOfDay `json:"entry_time,omitempty"`
	ExitTime     *TimeOfDay `json:"exit_time,omitempty"`
	PauseMinutes int        `json:"pause_minutes"`
	ShiftType    string     `json:"shift_type,omitempty"`
	ParsedDate   time.Time  `json:"-"`
}

func (r *CreateRecordRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Date) {
		errs.Add("date", "date is required")
	} else if date, ok := validator.IsValidDate(strings.TrimSpace(r.Date)); !ok {
		errs.Add("date", "invalid date format, expected YYYY-MM-DD")
	} else {
		r.ParsedDate = date
	}

	if r.UserID != nil && *r.UserID <= 0 {
		errs.Add("user_id", "user_id must be a positive integer")
	}

	if !validator.MaxLength(r.ShiftType, 50) {
		errs.Add("shift_type", "shift_type must be at most 50 characters")
	}

	errs = append(errs, validateTimes(r.EntryTime, r.ExitTime, r.PauseMinutes)...)

	return errs.Err()
}

type UpdateRecordRequest struct {
	ID           int64      `json:"-"`
	Date         *string    `json:"date,omitempty"`
	EntryTime    *TimeOfDay `json:"entry_time,omitempty"`
	ExitTime     *TimeOfDay `json:"exit_time,omitempty"`
	PauseMinutes *int       `json:"pause_minutes,omitempty"`
	ShiftType    *string    `json:"shift_type,omitempty"`
}

// TouchesClockFields reports whether the update edits anything beyond the shift type.
func (r *UpdateRecordRequest) TouchesClockFields() bool {
	return r.Date != nil || r.EntryTime != nil || r.ExitTime != nil || r.PauseMinutes != nil
}

func (r *UpdateRecordRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Date != nil {
		if _, ok := validator.IsValidDate(strings.TrimSpace(*r.Date)); !ok {
			errs.Add("date", "invalid date format, expected YYYY-MM-DD")
		}
	}

	if r.ShiftType != nil && !validator.MaxLength(*r.ShiftType, 50) {
		errs.Add("shift_type", "shift_type must be at most 50 characters")
	}

	if r.PauseMinutes != nil && *r.PauseMinutes < 0 {
		errs.Add("pause_minutes", "pause_minutes must be zero or positive")
	}

	return errs.Err()
}

// Apply merges the update into rec and re-checks the record invariants.
func (r *UpdateRecordRequest) Apply(rec Record) (Record, error) {
	if r.Date != nil {
		date, _ := validator.IsValidDate(strings.TrimSpace(*r.Date))
		rec.Date = date
	}
	if r.EntryTime != nil {
		entry := *r.EntryTime
		rec.EntryTime = &entry
	}
	if r.ExitTime != nil {
		exit := *r.ExitTime
		rec.ExitTime = &exit
	}
	if r.PauseMinutes != nil {
		rec.PauseMinutes = *r.PauseMinutes
	}
	if r.ShiftType != nil {
		rec.ShiftType = strings.TrimSpace(*r.ShiftType)
		if rec.ShiftType == "" {
			rec.ShiftType = DefaultShiftType
		}
	}
	if errs := validateTimes(rec.EntryTime, rec.ExitTime, rec.PauseMinutes); len(errs) > 0 {
		return Record{}, errs
	}
	return rec, nil
}

func validateTimes(entry, exit *TimeOfDay, pauseMinutes int) validator.ValidationErrors {
	var errs validator.ValidationErrors
	if pauseMinutes < 0 {
		errs.Add("pause_minutes", "pause_minutes must be zero or positive")
	}
	if entry != nil && !entry.Valid() {
		errs.Add("entry_time", "entry_time must be within the day")
	}
	if exit != nil && !exit.Valid() {
		errs.Add("exit_time", "exit_time must be within the day")
	}
	if exit != nil && entry == nil {
		errs.Add("exit_time", "exit_time requires entry_time")
	}
	if entry != nil && exit != nil &&
		exit.Duration() < entry.Duration()-time.Duration(pauseMinutes)*time.Minute {
		errs.Add("exit_time", "exit_time must not be earlier than entry_time minus pause")
	}
	return errs
}

// ========================================
// REPORT
// ========================================

type ReportQuery struct {
	UserID   int64
	DateFrom string
	DateTo   string
}

// Report is the data projected into the PDF and XLSX attendance exports.
type Report struct {
	User        user.Summary
	DateFrom    *time.Time
	DateTo      *time.Time
	Records     []Record
	GeneratedAt time.Time
}

// RangeLabel describes the covered period, or "Historial completo" when unbounded.
func (r Report) RangeLabel() string {
	switch {
	case r.DateFrom != nil && r.DateTo != nil:
		return r.DateFrom.Format("02/01/2006") + " - " + r.DateTo.Format("02/01/2006")
	case r.DateFrom != nil:
		return "Desde " + r.DateFrom.Format("02/01/2006")
	case r.DateTo != nil:
		return "Hasta " + r.DateTo.Format("02/01/2006")
	}
	return "Historial completo"
}
