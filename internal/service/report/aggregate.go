package report

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/cmlabs-hris/attendance-audit/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-audit/internal/domain/report"
	"github.com/cmlabs-hris/attendance-audit/internal/pkg/utils"
)

var hundred = decimal.NewFromInt(100)

// percent returns num/den×100 rounded to two decimals, 0 when den is 0.
func percent(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return decimal.NewFromFloat(num).
		Div(decimal.NewFromFloat(den)).
		Mul(hundred).
		Round(2).
		InexactFloat64()
}

// ratio returns num/den×100 unrounded, 0 when den is 0.
func ratio(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den * 100
}

func keyOf(rec attendance.AttendanceRecord) report.EmployeeKey {
	return report.EmployeeKey{
		EmployeeID:   rec.EmployeeID,
		FullName:     rec.FullName,
		Branch:       rec.Branch,
		Organization: rec.Organization,
		JobPosition:  rec.JobPosition,
	}
}

func lessKey(a, b report.EmployeeKey) bool {
	switch {
	case a.EmployeeID != b.EmployeeID:
		return a.EmployeeID < b.EmployeeID
	case a.FullName != b.FullName:
		return a.FullName < b.FullName
	case a.Branch != b.Branch:
		return a.Branch < b.Branch
	case a.Organization != b.Organization:
		return a.Organization < b.Organization
	default:
		return a.JobPosition < b.JobPosition
	}
}

// AggregateByEmployee groups records by employee id, name, branch,
// organization and position. Output is sorted by that key.
func AggregateByEmployee(records []attendance.AttendanceRecord, workDays int) []report.EmployeeAggregate {
	groups := make(map[report.EmployeeKey]*report.EmployeeAggregate)

	for _, rec := range records {
		key := keyOf(rec)
		agg, ok := groups[key]
		if !ok {
			agg = &report.EmployeeAggregate{EmployeeKey: key}
			groups[key] = agg
		}

		if rec.IsPresent {
			agg.PresentCount++
		}
		if rec.IsAbsent {
			agg.AbsentCount++
		}
		if rec.IsDayoff {
			agg.DayoffCount++
		}
		if rec.IsLeave {
			agg.LeaveCount++
		}
		if rec.IsLateIn {
			agg.LateInCount++
		}
		if rec.IsEarlyOut {
			agg.EarlyOutCount++
		}
		agg.RealHours += rec.RealWorkingHours
		agg.LateInHours += rec.LateInHours
		agg.EarlyOutHours += rec.EarlyOutHours
	}

	plan := utils.PlanHours(workDays)
	result := make([]report.EmployeeAggregate, 0, len(groups))
	for _, agg := range groups {
		agg.WorkDays = workDays
		agg.PlanHours = plan
		agg.CompliantWithPlan = agg.RealHours >= plan
		if plan > agg.RealHours {
			agg.ShortfallHours = plan - agg.RealHours
		}
		result = append(result, *agg)
	}

	sort.Slice(result, func(i, j int) bool {
		return lessKey(result[i].EmployeeKey, result[j].EmployeeKey)
	})
	return result
}

// AggregateByOrganization groups records by organization. Output is sorted
// by organization name.
func AggregateByOrganization(records []attendance.AttendanceRecord, workDays int) []report.OrganizationAggregate {
	groups := make(map[string]*report.OrganizationAggregate)
	employees := make(map[string]map[int64]struct{})

	for _, rec := range records {
		agg, ok := groups[rec.Organization]
		if !ok {
			agg = &report.OrganizationAggregate{Organization: rec.Organization}
			groups[rec.Organization] = agg
			employees[rec.Organization] = make(map[int64]struct{})
		}
		employees[rec.Organization][rec.EmployeeID] = struct{}{}

		if rec.IsPresent {
			agg.PresentCount++
		}
		if rec.IsAbsent {
			agg.AbsentCount++
		}
		if rec.IsLeave {
			agg.LeaveCount++
		}
		if rec.IsLateIn {
			agg.LateInCount++
		}
		if rec.IsEarlyOut {
			agg.EarlyOutCount++
		}
		agg.RealHours += rec.RealWorkingHours
	}

	result := make([]report.OrganizationAggregate, 0, len(groups))
	for name, agg := range groups {
		agg.EmployeeCount = len(employees[name])
		agg.WorkDay = workDays
		agg.TotalWorkDay = agg.EmployeeCount * workDays
		agg.PlanHours = utils.PlanHours(agg.TotalWorkDay)

		agg.AttendancePct = percent(float64(agg.PresentCount), float64(agg.TotalWorkDay))
		agg.AbsencePct = percent(float64(agg.AbsentCount), float64(agg.TotalWorkDay))
		agg.PlanVsActualPct = percent(agg.RealHours, agg.PlanHours)
		agg.HoursDelta = agg.RealHours - agg.PlanHours
		agg.CompliantWithPlan = agg.RealHours >= agg.PlanHours

		result = append(result, *agg)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Organization < result[j].Organization
	})
	return result
}
