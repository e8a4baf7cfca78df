package report

import (
	"bytes"
	"context"
	"errors"

	"github.com/controlfichajes/fichajes-backend-go/internal/domain/attendance"
	"github.com/controlfichajes/fichajes-backend-go/internal/domain/report"
	"github.com/controlfichajes/fichajes-backend-go/internal/pkg/logger"
	"github.com/controlfichajes/fichajes-backend-go/internal/pkg/pdf"
	"github.com/controlfichajes/fichajes-backend-go/internal/pkg/spreadsheet"
)

type ReportServiceImpl struct {
	attendance.AttendanceService
}

func NewReportService(attendanceService attendance.AttendanceService) report.ReportService {
	return &ReportServiceImpl{
		AttendanceService: attendanceService,
	}
}

// AttendanceReport implements report.ReportService.
func (s *ReportServiceImpl) AttendanceReport(ctx context.Context, req report.AttendanceReportRequest) (report.File, error) {
	var render func(*bytes.Buffer, attendance.Report) error
	var contentType string
	switch req.Format {
	case report.FormatPDF:
		render = func(buf *bytes.Buffer, r attendance.Report) error { return pdf.RenderAttendanceReport(buf, r) }
		contentType = pdf.ContentType
	case report.FormatXLSX:
		render = func(buf *bytes.Buffer, r attendance.Report) error { return spreadsheet.WriteAttendanceReport(buf, r) }
		contentType = spreadsheet.ContentType
	default:
		return report.File{}, report.ErrUnsupportedFormat
	}

	data, err := s.AttendanceService.Report(ctx, attendance.ReportQuery{
		UserID:   req.UserID,
		DateFrom: req.DateFrom,
		DateTo:   req.DateTo,
	})
	if err != nil {
		return report.File{}, err
	}

	var buf bytes.Buffer
	if err := render(&buf, data); err != nil {
		logger.From(ctx).Error("report rendering failed", "target_id", req.UserID, "format", req.Format, "error", err)
		return report.File{}, errors.Join(report.ErrReportGenerationFailed, err)
	}

	logger.From(ctx).Info("attendance report generated",
		"target_id", req.UserID, "format", req.Format, "records", len(data.Records), "bytes", buf.Len())

	return report.File{
		Filename:    report.Filename(data.User.ID, data.GeneratedAt, req.Format),
		ContentType: contentType,
		Content:     buf.Bytes(),
	}, nil
}
