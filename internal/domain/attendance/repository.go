package attendance

import (
	"context"
	"time"
)

type AttendanceRepository interface {
	Create(ctx context.Context, rec Record) (Record, error)
	GetByID(ctx context.Context, id int64) (Record, error)
	// GetLatestForDate returns the highest-id record of the user on date and
	// locks it when called inside a transaction.
	GetLatestForDate(ctx context.Context, userID int64, date time.Time) (Record, error)
	Update(ctx context.Context, rec Record) (Record, error)
	Delete(ctx context.Context, id int64) error
	// List orders by date desc, id desc. Joined user profile is populated.
	List(ctx context.Context, filter Filter) ([]Record, error)
}

type Filter struct {
	UserID   *int64
	DateFrom *time.Time
	DateTo   *time.Time // inclusive
}
