package report

import (
	"fmt"
	"strings"
	"time"
)

type Format string

const (
	FormatPDF  Format = "pdf"
	FormatXLSX Format = "xlsx"
)

// ParseFormat accepts "pdf" or "xlsx" in any case.
func ParseFormat(s string) (Format, bool) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case FormatPDF:
		return FormatPDF, true
	case FormatXLSX, "excel":
		return FormatXLSX, true
	}
	return "", false
}

// AttendanceReportRequest selects one user's records, optionally bounded by
// desde/hasta (YYYY-MM-DD).
type AttendanceReportRequest struct {
	UserID   int64
	DateFrom string
	DateTo   string
	Format   Format
}

// File is a rendered export ready to be sent as an attachment.
type File struct {
	Filename    string
	ContentType string
	Content     []byte
}

// Filename builds fichajes_{userID}_{yyyymmdd}.{format}.
func Filename(userID int64, generatedAt time.Time, format Format) string {
	return fmt.Sprintf("fichajes_%d_%s.%s", userID, generatedAt.Format("20060102"), format)
}
