package incident

import (
	"context"
	"time"
)

type IncidentRepository interface {
	Create(ctx context.Context, req Request) (Request, error)
	// GetByID locks the row when called inside a transaction.
	GetByID(ctx context.Context, id int64) (Request, error)
	Update(ctx context.Context, req Request) (Request, error)
	UpdateDocument(ctx context.Context, id int64, path string) error
	Delete(ctx context.Context, id int64) error
	// List orders by created_at desc, id desc. Joined user profile is populated.
	List(ctx context.Context, filter Filter) ([]Request, error)
}

type Filter struct {
	Status   *Status
	UserID   *int64
	Type     *string // case-insensitive match
	DateFrom *time.Time
	DateTo   *time.Time // inclusive whole day
}
