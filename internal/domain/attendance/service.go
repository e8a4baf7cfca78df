package attendance

import "context"

type AttendanceService interface {
	// Clock actions of the caller
	ClockIn(ctx context.Context, req ClockInRequest) (RecordResponse, error)
	StartPause(ctx context.Context) (RecordResponse, error)
	EndPause(ctx context.Context) (RecordResponse, error)
	ClockOut(ctx context.Context) (RecordResponse, error)
	GetMyToday(ctx context.Context) (RecordResponse, error)

	// Queries
	History(ctx context.Context, query HistoryQuery) ([]RecordResponse, error)
	AdminRange(ctx context.Context, query HistoryQuery) ([]RecordResponse, error)
	GetToday(ctx context.Context) ([]RecordResponse, error)
	Report(ctx context.Context, query ReportQuery) (Report, error)

	// CRUD
	Get(ctx context.Context, id int64) (RecordResponse, error)
	Create(ctx context.Context, req CreateRecordRequest) (RecordResponse, error)
	Update(ctx context.Context, req UpdateRecordRequest) (RecordResponse, error)
	Delete(ctx context.Context, id int64) error
}
