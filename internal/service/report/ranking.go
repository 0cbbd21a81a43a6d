package report

import (
	"sort"

	"github.com/cmlabs-hris/attendance-audit/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-audit/internal/domain/report"
)

// RankEmployees keeps the aggregates of one organization and ranks them by
// metric, highest first. Ties keep aggregate key order. Ranks start at 1.
func RankEmployees(employees []report.EmployeeAggregate, organization string, metric report.RankMetric) []report.RankedEmployee {
	var members []report.EmployeeAggregate
	for _, emp := range employees {
		if emp.Organization == organization {
			members = append(members, emp)
		}
	}

	sort.SliceStable(members, func(i, j int) bool {
		return metric.Value(members[i]) > metric.Value(members[j])
	})

	ranked := make([]report.RankedEmployee, len(members))
	for i, emp := range members {
		ranked[i] = report.RankedEmployee{Rank: i + 1, EmployeeAggregate: emp}
	}
	return ranked
}

// MissingRecordsByEmployee compares each employee's classified records
// (present, absent or leave) with the work days of the period. Only
// employees with missing records are returned, most missing first, then by
// employee id. Names come from the first record of an employee.
func MissingRecordsByEmployee(records []attendance.AttendanceRecord, workDays int) []report.MissingRecordRow {
	groups := make(map[int64]*report.MissingRecordRow)
	var order []int64

	for _, rec := range records {
		row, ok := groups[rec.EmployeeID]
		if !ok {
			row = &report.MissingRecordRow{EmployeeID: rec.EmployeeID, FullName: rec.FullName}
			groups[rec.EmployeeID] = row
			order = append(order, rec.EmployeeID)
		}

		if rec.IsPresent {
			row.Present++
		}
		if rec.IsAbsent {
			row.Absent++
		}
		if rec.IsLeave {
			row.Leave++
		}
	}

	var rows []report.MissingRecordRow
	for _, id := range order {
		row := groups[id]
		row.Expected = workDays
		row.Classified = row.Present + row.Absent + row.Leave
		row.Missing = row.Expected - row.Classified
		if row.Missing > 0 {
			rows = append(rows, *row)
		}
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Missing != rows[j].Missing {
			return rows[i].Missing > rows[j].Missing
		}
		return rows[i].EmployeeID < rows[j].EmployeeID
	})
	return rows
}
