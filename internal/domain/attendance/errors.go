package attendance

import "errors"

// Attendance domain errors
var (
	// Clock errors
	ErrAlreadyClockedIn   = errors.New("you already have an open session today")
	ErrNoActiveSession    = errors.New("no active session today")
	ErrAlreadyClockedOut  = errors.New("you have already clocked out")
	ErrPauseAlreadyActive = errors.New("a pause is already in progress")
	ErrNoActivePause      = errors.New("no pause in progress")

	// General errors
	ErrRecordNotFound = errors.New("attendance record not found")
)
