package attendance

import (
	"strings"
	"time"

	"github.com/cmlabs-hris/attendance-audit/internal/pkg/validator"
)

// OrganizationAll selects every organization within a branch.
const OrganizationAll = "All"

// DefaultBranch is preselected when it exists in the export.
const DefaultBranch = "HO Jakarta"

// ========================================
// FILTER DTOs
// ========================================

type Filter struct {
	Branch       string  `json:"branch"`
	Organization string  `json:"organization"`
	StartDate    *string `json:"start_date,omitempty"` // YYYY-MM-DD
	EndDate      *string `json:"end_date,omitempty"`   // YYYY-MM-DD
	Search       string  `json:"search,omitempty"`

	start *time.Time
	end   *time.Time
}

func (f *Filter) Validate() error {
	var errs validator.ValidationErrors

	f.Branch = strings.TrimSpace(f.Branch)
	f.Organization = strings.TrimSpace(f.Organization)
	f.Search = strings.TrimSpace(f.Search)

	if f.Organization == "" {
		f.Organization = OrganizationAll
	}

	if f.StartDate != nil && *f.StartDate != "" {
		date, valid := validator.IsValidDate(*f.StartDate)
		if !valid {
			errs = append(errs, validator.ValidationError{
				Field:   "start_date",
				Message: "start_date must be in YYYY-MM-DD format",
			})
		} else {
			f.start = &date
		}
	}

	if f.EndDate != nil && *f.EndDate != "" {
		date, valid := validator.IsValidDate(*f.EndDate)
		if !valid {
			errs = append(errs, validator.ValidationError{
				Field:   "end_date",
				Message: "end_date must be in YYYY-MM-DD format",
			})
		} else {
			f.end = &date
		}
	}

	if f.start != nil && f.end != nil && f.start.After(*f.end) {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: "end_date must be after start_date",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Matches reports whether a record falls inside the filter.
// Validate must have been called first for the date bounds to apply.
func (f *Filter) Matches(rec AttendanceRecord) bool {
	if f.Branch != "" && rec.Branch != f.Branch {
		return false
	}
	if f.Organization != "" && f.Organization != OrganizationAll && rec.Organization != f.Organization {
		return false
	}
	if f.start != nil && rec.Date.Before(*f.start) {
		return false
	}
	if f.end != nil && rec.Date.After(*f.end) {
		return false
	}
	return true
}

// ========================================
// OPTIONS DTOs
// ========================================

type OptionsResponse struct {
	Branches      []string `json:"branches"`
	Organizations []string `json:"organizations"`
	DefaultBranch string   `json:"default_branch"`
	TotalRecords  int      `json:"total_records"`
	LoadedAt      string   `json:"loaded_at"`
}

// FilteredRecords is the working set of one filter context.
type FilteredRecords struct {
	Filter   Filter
	Records  []AttendanceRecord
	WorkDays int
}
