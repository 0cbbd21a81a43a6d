package report

import (
	"sort"
	"strconv"

	"github.com/cmlabs-hris/attendance-audit/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-audit/internal/domain/report"
	attendanceService "github.com/cmlabs-hris/attendance-audit/internal/service/attendance"
)

// BuildChecklist evaluates the two checklist rules on every present record.
// Rows are sorted by name, then date.
func BuildChecklist(records []attendance.AttendanceRecord, filter report.ChecklistFilter) report.ChecklistReport {
	present := make([]attendance.AttendanceRecord, 0, len(records))
	for _, rec := range records {
		if !rec.IsPresent {
			continue
		}
		if !filter.Matches(rec, strconv.FormatInt(rec.EmployeeID, 10)) {
			continue
		}
		present = append(present, rec)
	}

	sort.SliceStable(present, func(i, j int) bool {
		if present[i].FullName != present[j].FullName {
			return present[i].FullName < present[j].FullName
		}
		if !present[i].Date.Equal(present[j].Date) {
			return present[i].Date.Before(present[j].Date)
		}
		return present[i].EmployeeID < present[j].EmployeeID
	})

	var summary report.ChecklistSummary
	rows := make([]report.ChecklistRow, 0, len(present))
	for _, rec := range present {
		row := report.ChecklistRow{
			EmployeeID:       rec.EmployeeID,
			FullName:         rec.FullName,
			Organization:     rec.Organization,
			Date:             rec.Date.Format("2006-01-02"),
			CheckIn:          rec.CheckIn,
			CheckOut:         rec.CheckOut,
			RealWorkingHour:  rec.RealWorkingHour,
			RealWorkingHours: rec.RealWorkingHours,
			Compliant8Hours:  attendanceService.Compliant8Hours(rec),
			CompliantWindow:  attendanceService.CompliantInOutWindow(rec),
		}
		row.CompliantBoth = row.Compliant8Hours && row.CompliantWindow

		if row.Compliant8Hours {
			summary.Compliant8Hours++
		}
		if row.CompliantWindow {
			summary.CompliantWindow++
		}
		if row.CompliantBoth {
			summary.CompliantBoth++
		}
		rows = append(rows, row)
	}

	total := float64(len(rows))
	summary.TotalRecords = len(rows)
	summary.Pct8Hours = percent(float64(summary.Compliant8Hours), total)
	summary.PctWindow = percent(float64(summary.CompliantWindow), total)
	summary.PctBoth = percent(float64(summary.CompliantBoth), total)

	return report.ChecklistReport{
		Summary: summary,
		Rows:    rows,
	}
}
