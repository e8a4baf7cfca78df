package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/controlfichajes/fichajes-backend-go/internal/domain/attendance"
	"github.com/controlfichajes/fichajes-backend-go/internal/domain/user"
	"github.com/controlfichajes/fichajes-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

const (
	recordColumns = `f.id, f.user_id, f.date, f.entry_time, f.exit_time, f.pause_minutes,
		f.pause_started_at, f.shift_type, f.created_at, f.updated_at`
	recordUserColumns = `u.first_name, u.last_name, u.email`

	openSessionConstraint = "fichajes_one_open_per_day"
)

type attendanceRepositoryImpl struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.AttendanceRepository {
	return &attendanceRepositoryImpl{db: db}
}

func toPgTime(t *attendance.TimeOfDay) pgtype.Time {
	if t == nil {
		return pgtype.Time{}
	}
	return pgtype.Time{Microseconds: int64(t.Duration() / time.Microsecond), Valid: true}
}

func fromPgTime(t pgtype.Time) *attendance.TimeOfDay {
	if !t.Valid {
		return nil
	}
	v := attendance.TimeOfDay(time.Duration(t.Microseconds) * time.Microsecond)
	return &v
}

func scanRecord(row pgx.Row, withUser bool) (attendance.Record, error) {
	var rec attendance.Record
	var entry, exit pgtype.Time
	var firstName, lastName, email *string

	dest := []interface{}{
		&rec.ID,
		&rec.UserID,
		&rec.Date,
		&entry,
		&exit,
		&rec.PauseMinutes,
		&rec.PauseStartedAt,
		&rec.ShiftType,
		&rec.CreatedAt,
		&rec.UpdatedAt,
	}
	if withUser {
		dest = append(dest, &firstName, &lastName, &email)
	}

	if err := row.Scan(dest...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Record{}, attendance.ErrRecordNotFound
		}
		return attendance.Record{}, err
	}

	rec.EntryTime = fromPgTime(entry)
	rec.ExitTime = fromPgTime(exit)
	if withUser && email != nil {
		rec.User = &user.Summary{ID: rec.UserID, FirstName: deref(firstName), LastName: deref(lastName), Email: *email}
	}
	return rec, nil
}

// Create implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) Create(ctx context.Context, rec attendance.Record) (attendance.Record, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO fichajes AS f (user_id, date, entry_time, exit_time, pause_minutes, pause_started_at, shift_type, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
		RETURNING ` + recordColumns

	created, err := scanRecord(q.QueryRow(ctx, query,
		rec.UserID,
		rec.Date,
		toPgTime(rec.EntryTime),
		toPgTime(rec.ExitTime),
		rec.PauseMinutes,
		rec.PauseStartedAt,
		rec.ShiftType,
	), false)
	if err != nil {
		if database.IsUniqueViolation(err, openSessionConstraint) {
			return attendance.Record{}, attendance.ErrAlreadyClockedIn
		}
		return attendance.Record{}, fmt.Errorf("failed to create attendance record: %w", err)
	}
	return created, nil
}

// GetByID implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) GetByID(ctx context.Context, id int64) (attendance.Record, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + recordColumns + `, ` + recordUserColumns + `
		FROM fichajes f
		LEFT JOIN users u ON u.id = f.user_id
		WHERE f.id = $1
	`
	return scanRecord(q.QueryRow(ctx, query, id), true)
}

// GetLatestForDate implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) GetLatestForDate(ctx context.Context, userID int64, date time.Time) (attendance.Record, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + recordColumns + `
		FROM fichajes f
		WHERE f.user_id = $1 AND f.date = $2
		ORDER BY f.id DESC
		LIMIT 1`
	if inTransaction(ctx) {
		query += " FOR UPDATE"
	}
	return scanRecord(q.QueryRow(ctx, query, userID, date), false)
}

// Update implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) Update(ctx context.Context, rec attendance.Record) (attendance.Record, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE fichajes AS f
		SET date = $1, entry_time = $2, exit_time = $3, pause_minutes = $4,
			pause_started_at = $5, shift_type = $6, updated_at = NOW()
		WHERE f.id = $7
		RETURNING ` + recordColumns

	updated, err := scanRecord(q.QueryRow(ctx, query,
		rec.Date,
		toPgTime(rec.EntryTime),
		toPgTime(rec.ExitTime),
		rec.PauseMinutes,
		rec.PauseStartedAt,
		rec.ShiftType,
		rec.ID,
	), false)
	if err != nil {
		if database.IsUniqueViolation(err, openSessionConstraint) {
			return attendance.Record{}, attendance.ErrAlreadyClockedIn
		}
		if errors.Is(err, attendance.ErrRecordNotFound) {
			return attendance.Record{}, err
		}
		return attendance.Record{}, fmt.Errorf("failed to update attendance record: %w", err)
	}
	updated.User = rec.User
	return updated, nil
}

// Delete implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) Delete(ctx context.Context, id int64) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM fichajes WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete attendance record: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return attendance.ErrRecordNotFound
	}
	return nil
}

// List implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) List(ctx context.Context, filter attendance.Filter) ([]attendance.Record, error) {
	q := GetQuerier(ctx, r.db)

	var conditions []string
	var args []interface{}
	argIdx := 1

	if filter.UserID != nil {
		conditions = append(conditions, fmt.Sprintf("f.user_id = $%d", argIdx))
		args = append(args, *filter.UserID)
		argIdx++
	}
	if filter.DateFrom != nil {
		conditions = append(conditions, fmt.Sprintf("f.date >= $%d", argIdx))
		args = append(args, *filter.DateFrom)
		argIdx++
	}
	if filter.DateTo != nil {
		conditions = append(conditions, fmt.Sprintf("f.date <= $%d", argIdx))
		args = append(args, *filter.DateTo)
		argIdx++
	}

	query := `
		SELECT ` + recordColumns + `, ` + recordUserColumns + `
		FROM fichajes f
		LEFT JOIN users u ON u.id = f.user_id`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY f.date DESC, f.id DESC"

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance records: %w", err)
	}
	defer rows.Close()

	records := make([]attendance.Record, 0)
	for rows.Next() {
		rec, err := scanRecord(rows, true)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attendance record: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
