package attendance

import "errors"

// Attendance domain errors
var (
	// Source errors
	ErrSourceUnavailable = errors.New("attendance source is unavailable")
	ErrMissingColumn     = errors.New("attendance export is missing a required column")
	ErrEmptySource       = errors.New("attendance export has no rows")

	// Query errors
	ErrBranchNotFound   = errors.New("branch not found in attendance export")
	ErrEmployeeNotFound = errors.New("employee not found in filtered attendance records")
)
