package report

import (
	"sort"

	"github.com/cmlabs-hris/attendance-audit/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-audit/internal/domain/report"
	"github.com/cmlabs-hris/attendance-audit/internal/pkg/utils"
	attendanceService "github.com/cmlabs-hris/attendance-audit/internal/service/attendance"
)

// BuildEmployeeDetail computes the personal dashboard of one employee.
// When the id spans several groups, the first group in key order is used
// for the aggregate while the counts cover every record of the id.
func BuildEmployeeDetail(records []attendance.AttendanceRecord, employeeID int64, workDays int) (report.EmployeeDetail, error) {
	var own []attendance.AttendanceRecord
	for _, rec := range records {
		if rec.EmployeeID == employeeID {
			own = append(own, rec)
		}
	}
	if len(own) == 0 {
		return report.EmployeeDetail{}, attendance.ErrEmployeeNotFound
	}

	agg := AggregateByEmployee(own, workDays)[0]

	detail := report.EmployeeDetail{
		Aggregate:       agg,
		TotalRecords:    len(own),
		AttendanceRate:  percent(float64(agg.PresentCount), float64(agg.WorkDays)),
		HoursDelta:      agg.RealHours - agg.PlanHours,
		PlanVsActualPct: percent(agg.RealHours, agg.PlanHours),
		RealHoursLabel:  utils.FormatHours(agg.RealHours),
		PlanHoursLabel:  utils.FormatHours(agg.PlanHours),
		ShortfallLabel:  utils.FormatShortfall(agg.ShortfallHours),
	}

	sort.SliceStable(own, func(i, j int) bool {
		return own[i].Date.After(own[j].Date)
	})

	detail.DailyLogs = make([]report.DailyLog, 0, len(own))
	for _, rec := range own {
		log := report.DailyLog{
			Date:             rec.Date.Format("2006-01-02"),
			Weekday:          rec.Date.Weekday().String(),
			Shift:            rec.Shift,
			CheckIn:          rec.CheckIn,
			CheckOut:         rec.CheckOut,
			RealWorkingHours: rec.RealWorkingHours,
			Status:           attendanceService.Status(rec),
			Work8Hours:       attendanceService.Compliant8Hours(rec),
			ClockedInBy0815:  attendanceService.ClockedInBy0815(rec),
		}
		if log.Work8Hours {
			detail.Work8HoursCount++
		}
		if log.ClockedInBy0815 {
			detail.ClockIn0815Count++
		}
		detail.DailyLogs = append(detail.DailyLogs, log)
	}

	total := float64(len(own))
	detail.Work8HoursPct = percent(float64(detail.Work8HoursCount), total)
	detail.ClockIn0815Pct = percent(float64(detail.ClockIn0815Count), total)

	return detail, nil
}
