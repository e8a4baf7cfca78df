package report

import "context"

// ReportService renders attendance exports.
type ReportService interface {
	AttendanceReport(ctx context.Context, req AttendanceReportRequest) (File, error)
}
