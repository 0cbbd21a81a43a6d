package report

import (
	"strings"
	"time"

	"github.com/cmlabs-hris/attendance-audit/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-audit/internal/pkg/validator"
)

// ========================================
// EMPLOYEE AGGREGATE
// ========================================

// EmployeeColumns are the export headers of an employee aggregate, in order.
var EmployeeColumns = []string{
	"Employee ID",
	"Full Name",
	"Branch",
	"Organization",
	"Job Position",
	"Jumlah Hadir",
	"Jumlah Absen",
	"Jumlah Hari Libur",
	"Jumlah Cuti",
	"Jumlah Late In",
	"Jumlah Early Out",
	"Total Jam Kerja (Real)",
	"Total Jam Late In",
	"Total Jam Early Out",
	"Work Days Bulan Ini",
	"Total Jam Kerja (Plan)",
	"Checklist Plan",
	"Kekurangan Jam Kerja",
}

// EmployeeKey identifies one employee group. Two rows with the same id but a
// different name or position form separate groups.
type EmployeeKey struct {
	EmployeeID   int64  `json:"employee_id"`
	FullName     string `json:"full_name"`
	Branch       string `json:"branch"`
	Organization string `json:"organization"`
	JobPosition  string `json:"job_position"`
}

type EmployeeAggregate struct {
	EmployeeKey

	PresentCount  int `json:"present_count"`
	AbsentCount   int `json:"absent_count"`
	DayoffCount   int `json:"dayoff_count"`
	LeaveCount    int `json:"leave_count"`
	LateInCount   int `json:"late_in_count"`
	EarlyOutCount int `json:"early_out_count"`

	RealHours     float64 `json:"real_hours"`
	LateInHours   float64 `json:"late_in_hours"`
	EarlyOutHours float64 `json:"early_out_hours"`

	WorkDays          int     `json:"work_days"`
	PlanHours         float64 `json:"plan_hours"`
	CompliantWithPlan bool    `json:"compliant_with_plan"`
	ShortfallHours    float64 `json:"shortfall_hours"`
}

// ========================================
// ORGANIZATION AGGREGATE
// ========================================

var OrganizationColumns = []string{
	"Organization",
	"Total Karyawan",
	"Total Kehadiran",
	"Total Tidak Hadir",
	"Total Cuti",
	"Total Late In",
	"Total Early Out",
	"Total Jam Kerja (Real)",
	"Work Day",
	"Total Work Day",
	"Total Jam Kerja (Plan)",
	"Kehadiran (%)",
	"Tidak Hadir (%)",
	"Plan vs Actual (%)",
	"Selisih Jam Kerja",
	"Checklist Plan",
}

type OrganizationAggregate struct {
	Organization  string `json:"organization"`
	EmployeeCount int    `json:"employee_count"`

	PresentCount  int     `json:"present_count"`
	AbsentCount   int     `json:"absent_count"`
	LeaveCount    int     `json:"leave_count"`
	LateInCount   int     `json:"late_in_count"`
	EarlyOutCount int     `json:"early_out_count"`
	RealHours     float64 `json:"real_hours"`

	WorkDay      int     `json:"work_day"`
	TotalWorkDay int     `json:"total_work_day"`
	PlanHours    float64 `json:"plan_hours"`

	AttendancePct     float64 `json:"attendance_pct"`
	AbsencePct        float64 `json:"absence_pct"`
	PlanVsActualPct   float64 `json:"plan_vs_actual_pct"`
	HoursDelta        float64 `json:"hours_delta"`
	CompliantWithPlan bool    `json:"compliant_with_plan"`
}

// ========================================
// ORGANIZATION BREAKDOWN
// ========================================

// RankMetric selects the employee column an organization breakdown is
// ranked by, highest first.
type RankMetric string

const (
	RankByRealHours RankMetric = "real_hours"
	RankByPresent   RankMetric = "present"
	RankByAbsent    RankMetric = "absent"
	RankByLateIn    RankMetric = "late_in"
	RankByEarlyOut  RankMetric = "early_out"
)

var rankMetrics = []string{
	string(RankByRealHours),
	string(RankByPresent),
	string(RankByAbsent),
	string(RankByLateIn),
	string(RankByEarlyOut),
}

// ParseRankMetric normalizes a rank_by value. Empty means real hours.
func ParseRankMetric(s string) (RankMetric, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return RankByRealHours, nil
	}
	if !validator.IsInSlice(s, rankMetrics) {
		return "", validator.ValidationErrors{{
			Field:   "rank_by",
			Message: "rank_by must be one of: real_hours, present, absent, late_in, early_out",
		}}
	}
	return RankMetric(s), nil
}

// Value returns the ranked column of an aggregate.
func (m RankMetric) Value(agg EmployeeAggregate) float64 {
	switch m {
	case RankByPresent:
		return float64(agg.PresentCount)
	case RankByAbsent:
		return float64(agg.AbsentCount)
	case RankByLateIn:
		return float64(agg.LateInCount)
	case RankByEarlyOut:
		return float64(agg.EarlyOutCount)
	default:
		return agg.RealHours
	}
}

var RankingColumns = []string{
	"Peringkat",
	"ID",
	"Nama",
	"Posisi",
	"Work Days Bulan Ini",
	"Jumlah Hadir",
	"Jumlah Absen",
	"Cuti",
	"Late In",
	"Early Out",
	"Total Jam Kerja (Real)",
	"Total Jam Kerja (Plan)",
	"Checklist Plan",
	"Kekurangan Jam Kerja",
}

type RankedEmployee struct {
	Rank int `json:"rank"`
	EmployeeAggregate
}

type OrganizationBreakdown struct {
	Organization string           `json:"organization"`
	RankBy       RankMetric       `json:"rank_by"`
	Employees    []RankedEmployee `json:"employees"`
}

// ========================================
// FLEET SUMMARY
// ========================================

type FleetSummary struct {
	TotalEmployees int `json:"total_employees"`
	WorkDays       int `json:"work_days"`
	TotalWorkDay   int `json:"total_work_day"`

	TotalPresent int `json:"total_present"`
	TotalAbsent  int `json:"total_absent"`
	TotalLeave   int `json:"total_leave"`
	TotalDayoff  int `json:"total_dayoff"`

	AttendancePct float64 `json:"attendance_pct"`
	AbsentPct     float64 `json:"absent_pct"`
	LeavePct      float64 `json:"leave_pct"`

	TotalRealHours  float64 `json:"total_real_hours"`
	PlanHours       float64 `json:"plan_hours"`
	HoursDelta      float64 `json:"hours_delta"`
	PlanVsActualPct float64 `json:"plan_vs_actual_pct"`

	// Residual is total work day minus present minus absent ("Selisih Absensi")
	Residual          int     `json:"residual"`
	ResidualPct       float64 `json:"residual_pct"`
	MissingRecords    int     `json:"missing_records"`
	MissingRecordsPct float64 `json:"missing_records_pct"`

	WeekdayRecords      int `json:"weekday_records"`
	UnclassifiedRecords int `json:"unclassified_records"`

	// NoCategoryRecords counts records with none of the four flags set.
	// IsAbsent is the residual of the other three flags, so this is always 0
	// for classified records. It is kept as a consistency check only.
	NoCategoryRecords int `json:"no_category_records"`

	// MissingByEmployee lists employees with fewer classified records than
	// work days, most missing first. Nil when nobody is missing records.
	MissingByEmployee []MissingRecordRow `json:"missing_by_employee,omitempty"`
}

// MissingRecordColumns are the headers of the missing records breakdown.
var MissingRecordColumns = []string{
	"Nama Karyawan",
	"Employee ID",
	"Seharusnya",
	"Hadir",
	"Tidak Hadir",
	"Cuti",
	"Total Terklasifikasi",
	"Missing",
}

// MissingRecordRow compares the work days of one employee with the records
// classified as present, absent or leave.
type MissingRecordRow struct {
	EmployeeID int64  `json:"employee_id"`
	FullName   string `json:"full_name"`
	Expected   int    `json:"expected"`
	Present    int    `json:"present"`
	Absent     int    `json:"absent"`
	Leave      int    `json:"leave"`
	Classified int    `json:"classified"`
	Missing    int    `json:"missing"`
}

// ========================================
// CHECKLIST COMPLIANCE
// ========================================

var ChecklistColumns = []string{
	"Employee ID",
	"Full Name",
	"Organization",
	"Date",
	"Check In",
	"Check Out",
	"Real Working Hour",
	"Kerja 8 Jam/Hari",
	"Masuk 08:00 & Pulang 17:00",
	"Keduanya Compliant",
}

// ChecklistFilter narrows the checklist beyond the record filter.
type ChecklistFilter struct {
	Start  *time.Time
	End    *time.Time
	Search string
}

// Matches reports whether a record falls inside the date range and matches
// the search on name or employee id, case-insensitively.
func (f ChecklistFilter) Matches(rec attendance.AttendanceRecord, employeeID string) bool {
	if f.Start != nil && rec.Date.Before(*f.Start) {
		return false
	}
	if f.End != nil && rec.Date.After(*f.End) {
		return false
	}

	search := strings.ToLower(strings.TrimSpace(f.Search))
	if search == "" {
		return true
	}
	return strings.Contains(strings.ToLower(rec.FullName), search) || strings.Contains(employeeID, search)
}

type ChecklistRow struct {
	EmployeeID       int64   `json:"employee_id"`
	FullName         string  `json:"full_name"`
	Organization     string  `json:"organization"`
	Date             string  `json:"date"`
	CheckIn          string  `json:"check_in"`
	CheckOut         string  `json:"check_out"`
	RealWorkingHour  string  `json:"real_working_hour"`
	RealWorkingHours float64 `json:"real_working_hours"`
	Compliant8Hours  bool    `json:"compliant_8_hours"`
	CompliantWindow  bool    `json:"compliant_window"`
	CompliantBoth    bool    `json:"compliant_both"`
}

type ChecklistSummary struct {
	TotalRecords    int     `json:"total_records"`
	Compliant8Hours int     `json:"compliant_8_hours"`
	CompliantWindow int     `json:"compliant_window"`
	CompliantBoth   int     `json:"compliant_both"`
	Pct8Hours       float64 `json:"pct_8_hours"`
	PctWindow       float64 `json:"pct_window"`
	PctBoth         float64 `json:"pct_both"`
}

type ChecklistReport struct {
	Summary ChecklistSummary `json:"summary"`
	Rows    []ChecklistRow   `json:"rows"`
}

// ========================================
// EMPLOYEE DETAIL
// ========================================

// DailyDetailColumns are the headers of the day-by-day export of every record.
var DailyDetailColumns = []string{
	"Date",
	"Employee ID",
	"Full Name",
	"Job Position",
	"Shift",
	"Check In",
	"Check Out",
	"Late In",
	"Early Out",
	"Real Working Hour",
	"Actual Working Hour",
	"Attendance Code",
	"Is Present",
	"Is Absent",
	"Is Dayoff",
	"Is Leave",
}

type DailyLog struct {
	Date             string            `json:"date"`
	Weekday          string            `json:"weekday"`
	Shift            string            `json:"shift"`
	CheckIn          string            `json:"check_in"`
	CheckOut         string            `json:"check_out"`
	RealWorkingHours float64           `json:"real_working_hours"`
	Status           attendance.Status `json:"status"`
	Work8Hours       bool              `json:"work_8_hours"`
	ClockedInBy0815  bool              `json:"clocked_in_by_0815"`
}

type EmployeeDetail struct {
	Aggregate EmployeeAggregate `json:"aggregate"`

	TotalRecords     int     `json:"total_records"`
	AttendanceRate   float64 `json:"attendance_rate"`
	Work8HoursCount  int     `json:"work_8_hours_count"`
	Work8HoursPct    float64 `json:"work_8_hours_pct"`
	ClockIn0815Count int     `json:"clock_in_0815_count"`
	ClockIn0815Pct   float64 `json:"clock_in_0815_pct"`
	HoursDelta       float64 `json:"hours_delta"`
	PlanVsActualPct  float64 `json:"plan_vs_actual_pct"`
	RealHoursLabel   string  `json:"real_hours_label"`
	PlanHoursLabel   string  `json:"plan_hours_label"`
	ShortfallLabel   string  `json:"shortfall_label"`

	DailyLogs []DailyLog `json:"daily_logs"`
}

// ========================================
// DASHBOARD
// ========================================

// DashboardResponse is the combined response of the dashboard endpoint.
type DashboardResponse struct {
	Filter        attendance.Filter       `json:"filter"`
	Summary       FleetSummary            `json:"summary"`
	Employees     []EmployeeAggregate     `json:"employees"`
	Organizations []OrganizationAggregate `json:"organizations"`
	Checklist     ChecklistSummary        `json:"checklist"`
	GeneratedAt   string                  `json:"generated_at"`
}

// ========================================
// EXPORT
// ========================================

type ExportFormat string

const (
	FormatCSV  ExportFormat = "csv"
	FormatXLSX ExportFormat = "xlsx"
	FormatPDF  ExportFormat = "pdf"
)

type ExportKind string

const (
	KindSummary       ExportKind = "summary"
	KindEmployees     ExportKind = "employees"
	KindOrganizations ExportKind = "organizations"
	KindChecklist     ExportKind = "checklist"
	KindDaily         ExportKind = "daily"
	KindRanking       ExportKind = "ranking"
	KindFull          ExportKind = "full"
)

var (
	exportFormats = []string{string(FormatCSV), string(FormatXLSX), string(FormatPDF)}
	exportKinds   = []string{
		string(KindSummary),
		string(KindEmployees),
		string(KindOrganizations),
		string(KindChecklist),
		string(KindDaily),
		string(KindRanking),
		string(KindFull),
	}
)

type ExportRequest struct {
	attendance.Filter
	Format ExportFormat `json:"format"`
	Kind   ExportKind   `json:"kind"`
	RankBy RankMetric   `json:"rank_by,omitempty"` // ranking exports only
}

func (r *ExportRequest) Validate() error {
	var errs validator.ValidationErrors

	r.Format = ExportFormat(strings.ToLower(strings.TrimSpace(string(r.Format))))
	r.Kind = ExportKind(strings.ToLower(strings.TrimSpace(string(r.Kind))))
	if r.Kind == "" {
		r.Kind = KindFull
	}

	if validator.IsEmpty(string(r.Format)) {
		errs = append(errs, validator.ValidationError{
			Field:   "format",
			Message: "format is required",
		})
	} else if !validator.IsInSlice(string(r.Format), exportFormats) {
		errs = append(errs, validator.ValidationError{
			Field:   "format",
			Message: "format must be one of: csv, xlsx, pdf",
		})
	}

	if !validator.IsInSlice(string(r.Kind), exportKinds) {
		errs = append(errs, validator.ValidationError{
			Field:   "kind",
			Message: "kind must be one of: summary, employees, organizations, checklist, daily, ranking, full",
		})
	}

	if r.Kind == KindRanking {
		org := strings.TrimSpace(r.Organization)
		if org == "" || org == attendance.OrganizationAll {
			errs = append(errs, validator.ValidationError{
				Field:   "organization",
				Message: "ranking exports require a single organization",
			})
		}
		metric, err := ParseRankMetric(string(r.RankBy))
		if verrs, ok := err.(validator.ValidationErrors); ok {
			errs = append(errs, verrs...)
		}
		r.RankBy = metric
	}

	// A CSV file holds a single table
	if r.Format == FormatCSV && r.Kind == KindFull {
		errs = append(errs, validator.ValidationError{
			Field:   "kind",
			Message: "csv exports require a single kind",
		})
	}

	if err := r.Filter.Validate(); err != nil {
		if verrs, ok := err.(validator.ValidationErrors); ok {
			errs = append(errs, verrs...)
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type ExportResponse struct {
	FileName    string `json:"file_name"`
	Format      string `json:"format"`
	Kind        string `json:"kind"`
	DownloadURL string `json:"download_url"`
	ExpiresAt   string `json:"expires_at"`
}

// ExportFile is a stored export resolved from a download token.
type ExportFile struct {
	Path        string
	FileName    string
	ContentType string
	Content     []byte
}
