package attendance

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/controlfichajes/fichajes-backend-go/internal/domain/attendance"
	"github.com/controlfichajes/fichajes-backend-go/internal/domain/auth"
	"github.com/controlfichajes/fichajes-backend-go/internal/domain/user"
	"github.com/controlfichajes/fichajes-backend-go/internal/pkg/database"
	"github.com/controlfichajes/fichajes-backend-go/internal/pkg/logger"
)

type AttendanceServiceImpl struct {
	attendance.AttendanceRepository
	user.UserRepository
	txManager database.TxManager
	loc       *time.Location
	now       func() time.Time
}

func NewAttendanceService(
	txManager database.TxManager,
	attendanceRepository attendance.AttendanceRepository,
	userRepository user.UserRepository,
	loc *time.Location,
) attendance.AttendanceService {
	if loc == nil {
		loc = time.UTC
	}
	return &AttendanceServiceImpl{
		AttendanceRepository: attendanceRepository,
		UserRepository:       userRepository,
		txManager:            txManager,
		loc:                  loc,
		now:                  time.Now,
	}
}

// clock returns the current instant together with its calendar day and wall time
// in the configured zone.
func (a *AttendanceServiceImpl) clock() (time.Time, time.Time, attendance.TimeOfDay) {
	now := a.now()
	return now, attendance.DateOf(now, a.loc), attendance.TimeOfDayOf(now.In(a.loc))
}

// latestToday loads the caller's latest record of today, translating not-found into
// ErrNoActiveSession.
func (a *AttendanceServiceImpl) latestToday(ctx context.Context, userID int64, today time.Time) (attendance.Record, error) {
	rec, err := a.AttendanceRepository.GetLatestForDate(ctx, userID, today)
	if err != nil {
		if errors.Is(err, attendance.ErrRecordNotFound) {
			return attendance.Record{}, attendance.ErrNoActiveSession
		}
		return attendance.Record{}, fmt.Errorf("failed to get today's record: %w", err)
	}
	if rec.EntryTime == nil {
		return attendance.Record{}, attendance.ErrNoActiveSession
	}
	return rec, nil
}

// ClockIn implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) ClockIn(ctx context.Context, req attendance.ClockInRequest) (attendance.RecordResponse, error) {
	caller, err := auth.FromContext(ctx)
	if err != nil {
		return attendance.RecordResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return attendance.RecordResponse{}, err
	}

	_, today, wall := a.clock()
	date := today
	if req.ParsedDate != nil && !req.ParsedDate.Equal(today) {
		if !caller.IsAdmin() {
			return attendance.RecordResponse{}, auth.ErrForbidden
		}
		date = *req.ParsedDate
	}

	shiftType := strings.TrimSpace(req.ShiftType)
	if shiftType == "" {
		shiftType = attendance.DefaultShiftType
	}

	var created attendance.Record
	err = a.txManager.WithinTransaction(ctx, func(txCtx context.Context) error {
		latest, err := a.AttendanceRepository.GetLatestForDate(txCtx, caller.UserID, date)
		switch {
		case err == nil && latest.IsOpen():
			return attendance.ErrAlreadyClockedIn
		case err != nil && !errors.Is(err, attendance.ErrRecordNotFound):
			return fmt.Errorf("failed to check open session: %w", err)
		}

		created, err = a.AttendanceRepository.Create(txCtx, attendance.Record{
			UserID:    caller.UserID,
			Date:      date,
			EntryTime: &wall,
			ShiftType: shiftType,
		})
		return err
	})
	if err != nil {
		return attendance.RecordResponse{}, err
	}

	logger.From(ctx).Info("clocked in", "record_id", created.ID)
	return attendance.NewRecordResponse(created), nil
}

// StartPause implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) StartPause(ctx context.Context) (attendance.RecordResponse, error) {
	caller, err := auth.FromContext(ctx)
	if err != nil {
		return attendance.RecordResponse{}, err
	}
	now, today, _ := a.clock()

	var updated attendance.Record
	err = a.txManager.WithinTransaction(ctx, func(txCtx context.Context) error {
		rec, err := a.latestToday(txCtx, caller.UserID, today)
		if err != nil {
			return err
		}
		if rec.ExitTime != nil {
			return attendance.ErrAlreadyClockedOut
		}
		if rec.OnPause() {
			return attendance.ErrPauseAlreadyActive
		}

		startedAt := now.UTC()
		rec.PauseStartedAt = &startedAt
		updated, err = a.AttendanceRepository.Update(txCtx, rec)
		return err
	})
	if err != nil {
		return attendance.RecordResponse{}, err
	}

	logger.From(ctx).Debug("pause started", "record_id", updated.ID)
	return attendance.NewRecordResponse(updated), nil
}

// EndPause implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) EndPause(ctx context.Context) (attendance.RecordResponse, error) {
	caller, err := auth.FromContext(ctx)
	if err != nil {
		return attendance.RecordResponse{}, err
	}
	now, today, _ := a.clock()

	var updated attendance.Record
	err = a.txManager.WithinTransaction(ctx, func(txCtx context.Context) error {
		rec, err := a.latestToday(txCtx, caller.UserID, today)
		if err != nil {
			return err
		}
		if !rec.OnPause() {
			return attendance.ErrNoActivePause
		}

		rec.PauseMinutes += attendance.ElapsedPauseMinutes(*rec.PauseStartedAt, now)
		rec.PauseStartedAt = nil
		updated, err = a.AttendanceRepository.Update(txCtx, rec)
		return err
	})
	if err != nil {
		return attendance.RecordResponse{}, err
	}

	logger.From(ctx).Debug("pause ended", "record_id", updated.ID, "pause_minutes", updated.PauseMinutes)
	return attendance.NewRecordResponse(updated), nil
}

// ClockOut implements attendance.AttendanceService. A running pause is closed first.
func (a *AttendanceServiceImpl) ClockOut(ctx context.Context) (attendance.RecordResponse, error) {
	caller, err := auth.FromContext(ctx)
	if err != nil {
		return attendance.RecordResponse{}, err
	}
	now, today, wall := a.clock()

	var updated attendance.Record
	err = a.txManager.WithinTransaction(ctx, func(txCtx context.Context) error {
		rec, err := a.latestToday(txCtx, caller.UserID, today)
		if err != nil {
			return err
		}
		if rec.ExitTime != nil {
			return attendance.ErrAlreadyClockedOut
		}

		if rec.OnPause() {
			rec.PauseMinutes += attendance.ElapsedPauseMinutes(*rec.PauseStartedAt, now)
			rec.PauseStartedAt = nil
		}
		rec.ExitTime = &wall
		updated, err = a.AttendanceRepository.Update(txCtx, rec)
		return err
	})
	if err != nil {
		return attendance.RecordResponse{}, err
	}

	logger.From(ctx).Info("clocked out", "record_id", updated.ID, "worked", updated.WorkedLabel())
	return attendance.NewRecordResponse(updated), nil
}

// GetMyToday implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) GetMyToday(ctx context.Context) (attendance.RecordResponse, error) {
	caller, err := auth.FromContext(ctx)
	if err != nil {
		return attendance.RecordResponse{}, err
	}
	_, today, _ := a.clock()

	rec, err := a.AttendanceRepository.GetLatestForDate(ctx, caller.UserID, today)
	if err != nil {
		return attendance.RecordResponse{}, err
	}
	return attendance.NewRecordResponse(rec), nil
}

// History implements attendance.AttendanceService. Employees only see their own records.
func (a *AttendanceServiceImpl) History(ctx context.Context, query attendance.HistoryQuery) ([]attendance.RecordResponse, error) {
	caller, err := auth.FromContext(ctx)
	if err != nil {
		return nil, err
	}

	filter, err := query.ToFilter()
	if err != nil {
		return nil, err
	}

	if !caller.IsAdmin() {
		if filter.UserID != nil && *filter.UserID != caller.UserID {
			return nil, auth.ErrForbidden
		}
		filter.UserID = &caller.UserID
	}

	records, err := a.AttendanceRepository.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return attendance.NewRecordResponses(records), nil
}

// AdminRange implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) AdminRange(ctx context.Context, query attendance.HistoryQuery) ([]attendance.RecordResponse, error) {
	if _, err := auth.RequireAdmin(ctx); err != nil {
		return nil, err
	}

	filter, err := query.ToRangeFilter()
	if err != nil {
		return nil, err
	}

	records, err := a.AttendanceRepository.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return attendance.NewRecordResponses(records), nil
}

// GetToday implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) GetToday(ctx context.Context) ([]attendance.RecordResponse, error) {
	if _, err := auth.RequireAdmin(ctx); err != nil {
		return nil, err
	}
	_, today, _ := a.clock()

	records, err := a.AttendanceRepository.List(ctx, attendance.Filter{DateFrom: &today, DateTo: &today})
	if err != nil {
		return nil, err
	}
	return attendance.NewRecordResponses(records), nil
}

// Report implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) Report(ctx context.Context, query attendance.ReportQuery) (attendance.Report, error) {
	if _, err := auth.RequireAdmin(ctx); err != nil {
		return attendance.Report{}, err
	}

	filter, err := attendance.HistoryQuery{DateFrom: query.DateFrom, DateTo: query.DateTo}.ToFilter()
	if err != nil {
		return attendance.Report{}, err
	}

	u, err := a.UserRepository.GetByID(ctx, query.UserID)
	if err != nil {
		return attendance.Report{}, err
	}
	filter.UserID = &u.ID

	records, err := a.AttendanceRepository.List(ctx, filter)
	if err != nil {
		return attendance.Report{}, err
	}

	return attendance.Report{
		User:        user.Summary{ID: u.ID, FirstName: u.FirstName, LastName: u.LastName, Email: u.Email},
		DateFrom:    filter.DateFrom,
		DateTo:      filter.DateTo,
		Records:     records,
		GeneratedAt: a.now().In(a.loc),
	}, nil
}

// Get implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) Get(ctx context.Context, id int64) (attendance.RecordResponse, error) {
	_, rec, err := a.loadOwned(ctx, id)
	if err != nil {
		return attendance.RecordResponse{}, err
	}
	return attendance.NewRecordResponse(rec), nil
}

// Create implements attendance.AttendanceService. Non-admin callers always create
// records for themselves.
func (a *AttendanceServiceImpl) Create(ctx context.Context, req attendance.CreateRecordRequest) (attendance.RecordResponse, error) {
	caller, err := auth.FromContext(ctx)
	if err != nil {
		return attendance.RecordResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return attendance.RecordResponse{}, err
	}

	userID := caller.UserID
	if caller.IsAdmin() && req.UserID != nil {
		if _, err := a.UserRepository.GetByID(ctx, *req.UserID); err != nil {
			return attendance.RecordResponse{}, err
		}
		userID = *req.UserID
	}

	shiftType := strings.TrimSpace(req.ShiftType)
	if shiftType == "" {
		shiftType = attendance.DefaultShiftType
	}

	created, err := a.AttendanceRepository.Create(ctx, attendance.Record{
		UserID:       userID,
		Date:         req.ParsedDate,
		EntryTime:    req.EntryTime,
		ExitTime:     req.ExitTime,
		PauseMinutes: req.PauseMinutes,
		ShiftType:    shiftType,
	})
	if err != nil {
		return attendance.RecordResponse{}, err
	}
	return attendance.NewRecordResponse(created), nil
}

// Update implements attendance.AttendanceService. Employees may only change the shift type.
func (a *AttendanceServiceImpl) Update(ctx context.Context, req attendance.UpdateRecordRequest) (attendance.RecordResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.RecordResponse{}, err
	}

	caller, rec, err := a.loadOwned(ctx, req.ID)
	if err != nil {
		return attendance.RecordResponse{}, err
	}
	if !caller.IsAdmin() && req.TouchesClockFields() {
		return attendance.RecordResponse{}, auth.ErrForbidden
	}

	rec, err = req.Apply(rec)
	if err != nil {
		return attendance.RecordResponse{}, err
	}
	if rec.ExitTime != nil {
		rec.PauseStartedAt = nil
	}

	updated, err := a.AttendanceRepository.Update(ctx, rec)
	if err != nil {
		return attendance.RecordResponse{}, err
	}
	logger.From(ctx).Info("attendance record updated", "record_id", updated.ID, "by", caller.UserID)
	return attendance.NewRecordResponse(updated), nil
}

// Delete implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) Delete(ctx context.Context, id int64) error {
	caller, _, err := a.loadOwned(ctx, id)
	if err != nil {
		return err
	}
	if err := a.AttendanceRepository.Delete(ctx, id); err != nil {
		return err
	}
	logger.From(ctx).Info("attendance record deleted", "record_id", id, "by", caller.UserID)
	return nil
}

func (a *AttendanceServiceImpl) loadOwned(ctx context.Context, id int64) (auth.Identity, attendance.Record, error) {
	caller, err := auth.FromContext(ctx)
	if err != nil {
		return auth.Identity{}, attendance.Record{}, err
	}
	rec, err := a.AttendanceRepository.GetByID(ctx, id)
	if err != nil {
		return auth.Identity{}, attendance.Record{}, err
	}
	if !caller.CanAccess(rec.UserID) {
		return auth.Identity{}, attendance.Record{}, auth.ErrForbidden
	}
	return caller, rec, nil
}
