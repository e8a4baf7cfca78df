package attendance

import (
	"fmt"
	"time"

	"github.com/controlfichajes/fichajes-backend-go/internal/domain/user"
)

// DefaultShiftType labels records created without an explicit shift.
const DefaultShiftType = "Continua"

// Record is one clock session (fichaje) of a user on a calendar day.
type Record struct {
	ID             int64
	UserID         int64
	Date           time.Time
	EntryTime      *TimeOfDay
	ExitTime       *TimeOfDay
	PauseMinutes   int
	PauseStartedAt *time.Time
	ShiftType      string
	CreatedAt      time.Time
	UpdatedAt      time.Time

	// Join
	User *user.Summary
}

// IsOpen reports whether the session has started and not yet finished.
func (r *Record) IsOpen() bool {
	return r.EntryTime != nil && r.ExitTime == nil
}

func (r *Record) OnPause() bool {
	return r.PauseStartedAt != nil
}

// Worked returns (exit - entry) - pause. ok is false when there is no exit time
// or the result is negative.
func (r *Record) Worked() (time.Duration, bool) {
	if r.EntryTime == nil || r.ExitTime == nil {
		return 0, false
	}
	worked := r.ExitTime.Duration() - r.EntryTime.Duration() - time.Duration(r.PauseMinutes)*time.Minute
	if worked < 0 {
		return 0, false
	}
	return worked, true
}

// WorkedLabel formats Worked as "Xh Ym" floored to whole minutes, or "-".
func (r *Record) WorkedLabel() string {
	worked, ok := r.Worked()
	if !ok {
		return "-"
	}
	minutes := int(worked / time.Minute)
	return fmt.Sprintf("%dh %dm", minutes/60, minutes%60)
}

// ElapsedPauseMinutes returns the whole minutes between the pause start and now.
func ElapsedPauseMinutes(startedAt, now time.Time) int {
	elapsed := now.Sub(startedAt)
	if elapsed < 0 {
		return 0
	}
	return int(elapsed / time.Minute)
}

// DateOf truncates t to its calendar day in loc and returns it as UTC midnight.
func DateOf(t time.Time, loc *time.Location) time.Time {
	local := t.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC)
}
