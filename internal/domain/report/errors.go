package report

import "errors"

var (
	ErrUnsupportedFormat      = errors.New("unsupported report format")
	ErrReportGenerationFailed = errors.New("failed to generate report")
)
