package report

import "errors"

var (
	ErrInvalidEmployeeID      = errors.New("employee id must be a number")
	ErrOrganizationNotFound   = errors.New("organization not found in filtered attendance records")
	ErrReportGenerationFailed = errors.New("failed to generate report")
	ErrExportNotFound         = errors.New("export file not found")
	ErrInvalidDownloadToken   = errors.New("download link is invalid or expired")
)
