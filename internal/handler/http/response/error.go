package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/attendance-audit/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-audit/internal/domain/report"
	"github.com/cmlabs-hris/attendance-audit/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Attendance domain errors
	case errors.Is(err, attendance.ErrBranchNotFound):
		NotFound(w, "Branch not found")
	case errors.Is(err, attendance.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")
	case errors.Is(err, attendance.ErrSourceUnavailable):
		ServiceUnavailable(w, "Attendance export is unavailable")
	case errors.Is(err, attendance.ErrMissingColumn):
		ServiceUnavailable(w, err.Error())
	case errors.Is(err, attendance.ErrEmptySource):
		ServiceUnavailable(w, "Attendance export has no rows")

	// Report domain errors
	case errors.Is(err, report.ErrInvalidEmployeeID):
		BadRequest(w, "Employee ID must be a number", nil)
	case errors.Is(err, report.ErrOrganizationNotFound):
		NotFound(w, "Organization not found")
	case errors.Is(err, report.ErrInvalidDownloadToken):
		Unauthorized(w, "Download link is invalid or expired")
	case errors.Is(err, report.ErrExportNotFound):
		NotFound(w, "Export file not found")
	case errors.Is(err, report.ErrReportGenerationFailed):
		InternalServerError(w, "Failed to generate report")

	// Default
	default:
		slog.Error("Unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}
