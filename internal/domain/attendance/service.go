package attendance

import "context"

// AttendanceService exposes the normalized, filtered working set
type AttendanceService interface {
	// Records returns normalized records matching the filter and the work days of their period
	Records(ctx context.Context, filter Filter) (FilteredRecords, error)

	// Options returns the branches and organizations available for filtering
	Options(ctx context.Context, branch string) (OptionsResponse, error)

	// Reload forces the source to be read again
	Reload(ctx context.Context) (bool, error)
}
