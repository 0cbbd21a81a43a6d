package report

import (
	"github.com/cmlabs-hris/attendance-audit/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-audit/internal/domain/report"
	"github.com/cmlabs-hris/attendance-audit/internal/pkg/utils"
)

// Summarize computes the fleet-wide totals. Record counts come from the
// records while total real hours come from the employee aggregates.
// Percentages are exact; rounding is left to the presentation layer.
func Summarize(records []attendance.AttendanceRecord, employees []report.EmployeeAggregate, workDays int) report.FleetSummary {
	s := report.FleetSummary{WorkDays: workDays}

	ids := make(map[int64]struct{})
	for _, rec := range records {
		ids[rec.EmployeeID] = struct{}{}

		if rec.IsPresent {
			s.TotalPresent++
		}
		if rec.IsAbsent {
			s.TotalAbsent++
		}
		if rec.IsLeave {
			s.TotalLeave++
		}
		if rec.IsDayoff {
			s.TotalDayoff++
		}
		if !rec.IsPresent && !rec.IsAbsent && !rec.IsLeave && !rec.IsDayoff {
			s.NoCategoryRecords++
		}
		if utils.IsWeekday(rec.Date) {
			s.WeekdayRecords++
		}
	}

	for _, emp := range employees {
		s.TotalRealHours += emp.RealHours
	}

	s.TotalEmployees = len(ids)
	s.TotalWorkDay = s.TotalEmployees * workDays
	s.PlanHours = utils.PlanHours(s.TotalWorkDay)

	workDay := float64(s.TotalWorkDay)
	s.AttendancePct = ratio(float64(s.TotalPresent), workDay)
	s.AbsentPct = ratio(float64(s.TotalAbsent), workDay)
	s.LeavePct = ratio(float64(s.TotalLeave), workDay)

	s.HoursDelta = s.TotalRealHours - s.PlanHours
	s.PlanVsActualPct = ratio(s.TotalRealHours, s.PlanHours)

	s.Residual = s.TotalWorkDay - s.TotalPresent - s.TotalAbsent
	s.ResidualPct = ratio(float64(s.Residual), workDay)
	s.MissingRecords = max(0, s.Residual-s.TotalLeave)
	s.MissingRecordsPct = ratio(float64(s.MissingRecords), workDay)

	s.UnclassifiedRecords = s.WeekdayRecords - (s.TotalPresent + s.TotalAbsent + s.TotalLeave)
	s.MissingByEmployee = MissingRecordsByEmployee(records, workDays)

	return s
}
