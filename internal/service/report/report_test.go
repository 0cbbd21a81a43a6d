package report

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cmlabs-hris/attendance-audit/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-audit/internal/domain/report"
	attendanceService "github.com/cmlabs-hris/attendance-audit/internal/service/attendance"
)

func day(d int) time.Time {
	return time.Date(2026, 1, d, 0, 0, 0, 0, time.UTC)
}

// record builds a classified record the way the normalizer does.
func record(id int64, name, org string, date time.Time, in, out, realHour string) attendance.AttendanceRecord {
	rec := attendance.AttendanceRecord{
		EmployeeID:      id,
		FullName:        name,
		Branch:          "HO Jakarta",
		Organization:    org,
		JobPosition:     "Staff",
		Date:            date,
		Shift:           "Regular",
		CheckIn:         in,
		CheckOut:        out,
		RealWorkingHour: realHour,
	}
	rec.RealWorkingHours = attendanceService.ParseHours(realHour)
	c := attendanceService.Classify(rec)
	rec.IsPresent, rec.IsAbsent, rec.IsLeave, rec.IsDayoff = c.IsPresent, c.IsAbsent, c.IsLeave, c.IsDayoff
	return rec
}

func scenario() []attendance.AttendanceRecord {
	return []attendance.AttendanceRecord{
		record(1001, "Budi", "Finance", day(5), "08:00", "17:00", "08:00"),
		record(1001, "Budi", "Finance", day(6), "08:30", "16:00", "07:30"),
		record(1001, "Budi", "Finance", day(7), "", "", ""),
	}
}

func TestAggregateByEmployee_Scenario(t *testing.T) {
	aggs := AggregateByEmployee(scenario(), 22)
	require.Len(t, aggs, 1)

	agg := aggs[0]
	assert.Equal(t, int64(1001), agg.EmployeeID)
	assert.Equal(t, 2, agg.PresentCount)
	assert.Equal(t, 1, agg.AbsentCount)
	assert.Equal(t, 0, agg.LeaveCount)
	assert.InDelta(t, 15.5, agg.RealHours, 1e-9)
	assert.Equal(t, 22, agg.WorkDays)
	assert.Equal(t, 176.0, agg.PlanHours)
	assert.False(t, agg.CompliantWithPlan)
	assert.InDelta(t, 160.5, agg.ShortfallHours, 1e-9)
}

func TestAggregateByEmployee_CompositeKey(t *testing.T) {
	records := []attendance.AttendanceRecord{
		record(1002, "Sari", "IT", day(5), "08:00", "17:00", "09:00"),
		record(1001, "Budi", "Finance", day(5), "08:00", "17:00", "09:00"),
		record(1001, "Budi S.", "Finance", day(6), "08:00", "17:00", "09:00"),
	}

	aggs := AggregateByEmployee(records, 22)
	require.Len(t, aggs, 3)
	assert.Equal(t, "Budi", aggs[0].FullName)
	assert.Equal(t, "Budi S.", aggs[1].FullName)
	assert.Equal(t, int64(1002), aggs[2].EmployeeID)
}

func TestAggregateByEmployee_PlanReached(t *testing.T) {
	var records []attendance.AttendanceRecord
	for d := 1; d <= 22; d++ {
		records = append(records, record(1001, "Budi", "Finance", day(d), "08:00", "17:00", "08:00"))
	}

	agg := AggregateByEmployee(records, 22)[0]
	assert.True(t, agg.CompliantWithPlan)
	assert.Equal(t, 0.0, agg.ShortfallHours)
}

func TestAggregateByOrganization(t *testing.T) {
	records := append(scenario(),
		record(1002, "Sari", "IT", day(5), "07:55", "17:10", "09:15"),
		record(1003, "Andi", "IT", day(5), "", "", ""),
	)

	orgs := AggregateByOrganization(records, 22)
	require.Len(t, orgs, 2)

	finance := orgs[0]
	assert.Equal(t, "Finance", finance.Organization)
	assert.Equal(t, 1, finance.EmployeeCount)
	assert.Equal(t, 22, finance.TotalWorkDay)
	assert.Equal(t, 176.0, finance.PlanHours)
	assert.Equal(t, 9.09, finance.AttendancePct)
	assert.Equal(t, 4.55, finance.AbsencePct)
	assert.Equal(t, 8.81, finance.PlanVsActualPct)
	assert.InDelta(t, -160.5, finance.HoursDelta, 1e-9)
	assert.False(t, finance.CompliantWithPlan)

	it := orgs[1]
	assert.Equal(t, "IT", it.Organization)
	assert.Equal(t, 2, it.EmployeeCount)
	assert.Equal(t, 44, it.TotalWorkDay)
	assert.Equal(t, 1, it.PresentCount)
	assert.Equal(t, 1, it.AbsentCount)
}

func TestSummarize_Scenario(t *testing.T) {
	records := scenario()
	s := Summarize(records, AggregateByEmployee(records, 22), 22)

	assert.Equal(t, 1, s.TotalEmployees)
	assert.Equal(t, 22, s.TotalWorkDay)
	assert.Equal(t, 2, s.TotalPresent)
	assert.Equal(t, 1, s.TotalAbsent)
	assert.Equal(t, 2.0/22*100, s.AttendancePct)
	assert.Equal(t, 1.0/22*100, s.AbsentPct)
	assert.InDelta(t, 15.5, s.TotalRealHours, 1e-9)
	assert.Equal(t, 176.0, s.PlanHours)
	assert.InDelta(t, -160.5, s.HoursDelta, 1e-9)
	assert.Equal(t, 19, s.Residual)
	assert.Equal(t, 19, s.MissingRecords)
	assert.Equal(t, 3, s.WeekdayRecords)
	assert.Equal(t, 0, s.UnclassifiedRecords)
	assert.Equal(t, 0, s.NoCategoryRecords)

	require.Len(t, s.MissingByEmployee, 1)
	assert.Equal(t, 19, s.MissingByEmployee[0].Missing)
}

func TestSummarize_PercentagesAreExact(t *testing.T) {
	records := []attendance.AttendanceRecord{
		record(1001, "Budi", "Finance", day(5), "08:00", "17:00", "08:00"),
	}
	s := Summarize(records, AggregateByEmployee(records, 3), 3)

	assert.Equal(t, 1.0/3*100, s.AttendancePct)
	assert.Equal(t, 8.0/24*100, s.PlanVsActualPct)
	assert.Equal(t, 2.0/3*100, s.ResidualPct)
	assert.Equal(t, 2.0/3*100, s.MissingRecordsPct)
}

func TestSummarize_Empty(t *testing.T) {
	s := Summarize(nil, nil, 0)

	assert.Equal(t, report.FleetSummary{}, s)
}

func TestSummarize_ZeroWorkDays(t *testing.T) {
	records := scenario()
	s := Summarize(records, AggregateByEmployee(records, 0), 0)

	assert.Equal(t, 0.0, s.AttendancePct)
	assert.Equal(t, 0.0, s.AbsentPct)
	assert.Equal(t, 0.0, s.PlanVsActualPct)
	assert.Equal(t, 0.0, s.ResidualPct)
}

func TestSummarize_TotalsMatchAggregates(t *testing.T) {
	records := append(scenario(),
		record(1002, "Sari", "IT", day(5), "07:55", "17:10", "09:15"),
		record(1002, "Sari", "IT", day(10), "", "", ""),
		record(1003, "Andi", "Ops", day(6), "09:00", "18:00", "08:45"),
	)
	employees := AggregateByEmployee(records, 22)
	s := Summarize(records, employees, 22)

	var realHours float64
	var present, absent int
	for _, e := range employees {
		realHours += e.RealHours
		present += e.PresentCount
		absent += e.AbsentCount
	}
	assert.InDelta(t, realHours, s.TotalRealHours, 1e-9)
	assert.Equal(t, present, s.TotalPresent)
	assert.Equal(t, absent, s.TotalAbsent)

	// Jan 10 2026 is a Saturday
	assert.Equal(t, 5, s.WeekdayRecords)
}

func TestBuildChecklist(t *testing.T) {
	records := []attendance.AttendanceRecord{
		record(1002, "Sari", "IT", day(6), "08:00", "17:00", "09:00"),
		record(1001, "Budi", "Finance", day(6), "08:01", "17:00", "08:59"),
		record(1001, "Budi", "Finance", day(5), "07:59", "16:59", "08:00"),
		record(1003, "Andi", "Ops", day(5), "", "", ""),
	}

	cl := BuildChecklist(records, report.ChecklistFilter{})
	require.Len(t, cl.Rows, 3)

	assert.Equal(t, "Budi", cl.Rows[0].FullName)
	assert.Equal(t, "2026-01-05", cl.Rows[0].Date)
	assert.True(t, cl.Rows[0].Compliant8Hours)
	assert.False(t, cl.Rows[0].CompliantWindow)

	assert.Equal(t, "2026-01-06", cl.Rows[1].Date)
	assert.True(t, cl.Rows[1].Compliant8Hours)
	assert.False(t, cl.Rows[1].CompliantWindow)

	assert.Equal(t, "Sari", cl.Rows[2].FullName)
	assert.True(t, cl.Rows[2].CompliantBoth)

	assert.Equal(t, 3, cl.Summary.TotalRecords)
	assert.Equal(t, 3, cl.Summary.Compliant8Hours)
	assert.Equal(t, 1, cl.Summary.CompliantWindow)
	assert.Equal(t, 1, cl.Summary.CompliantBoth)
	assert.Equal(t, 100.0, cl.Summary.Pct8Hours)
	assert.Equal(t, 33.33, cl.Summary.PctWindow)
}

func TestBuildChecklist_SearchAndDateRange(t *testing.T) {
	records := []attendance.AttendanceRecord{
		record(1002, "Sari", "IT", day(6), "08:00", "17:00", "09:00"),
		record(1001, "Budi", "Finance", day(6), "08:00", "17:00", "09:00"),
		record(1001, "Budi", "Finance", day(12), "08:00", "17:00", "09:00"),
	}

	cl := BuildChecklist(records, report.ChecklistFilter{Search: "bUdI"})
	assert.Len(t, cl.Rows, 2)

	cl = BuildChecklist(records, report.ChecklistFilter{Search: "1002"})
	require.Len(t, cl.Rows, 1)
	assert.Equal(t, "Sari", cl.Rows[0].FullName)

	start, end := day(6), day(6)
	cl = BuildChecklist(records, report.ChecklistFilter{Start: &start, End: &end})
	assert.Len(t, cl.Rows, 2)
}

func TestBuildChecklist_Empty(t *testing.T) {
	cl := BuildChecklist(nil, report.ChecklistFilter{})

	assert.Empty(t, cl.Rows)
	assert.Equal(t, 0.0, cl.Summary.Pct8Hours)
	assert.Equal(t, 0.0, cl.Summary.PctBoth)
}

func TestBuildEmployeeDetail(t *testing.T) {
	records := append(scenario(), record(1002, "Sari", "IT", day(5), "08:00", "17:00", "09:00"))

	detail, err := BuildEmployeeDetail(records, 1001, 22)
	require.NoError(t, err)

	assert.Equal(t, 3, detail.TotalRecords)
	assert.Equal(t, 2, detail.Aggregate.PresentCount)
	assert.Equal(t, 9.09, detail.AttendanceRate)
	assert.Equal(t, 1, detail.Work8HoursCount)
	assert.Equal(t, 33.33, detail.Work8HoursPct)
	assert.Equal(t, 1, detail.ClockIn0815Count)
	assert.Equal(t, "15 jam 30 menit", detail.RealHoursLabel)
	assert.Equal(t, "176 jam", detail.PlanHoursLabel)
	assert.Equal(t, "160 jam 30 menit", detail.ShortfallLabel)

	require.Len(t, detail.DailyLogs, 3)
	assert.Equal(t, "2026-01-07", detail.DailyLogs[0].Date)
	assert.Equal(t, attendance.StatusAbsent, detail.DailyLogs[0].Status)
	assert.Equal(t, attendance.StatusPresent, detail.DailyLogs[2].Status)
}

func TestBuildEmployeeDetail_NotFound(t *testing.T) {
	_, err := BuildEmployeeDetail(scenario(), 9999, 22)
	assert.ErrorIs(t, err, attendance.ErrEmployeeNotFound)
}

func TestRankEmployees(t *testing.T) {
	records := []attendance.AttendanceRecord{
		record(1001, "Budi", "Finance", day(5), "08:00", "17:00", "08:00"),
		record(1001, "Budi", "Finance", day(6), "", "", ""),
		record(1002, "Dewi", "Finance", day(5), "08:00", "17:00", "09:30"),
		record(1002, "Dewi", "Finance", day(6), "08:00", "17:00", "09:00"),
		record(1003, "Eka", "Finance", day(5), "", "", ""),
		record(1003, "Eka", "Finance", day(6), "", "", ""),
		record(2001, "Sari", "IT", day(5), "08:00", "17:00", "12:00"),
	}
	employees := AggregateByEmployee(records, 22)

	tests := []struct {
		name   string
		metric report.RankMetric
		want   []int64
	}{
		{"real hours", report.RankByRealHours, []int64{1002, 1001, 1003}},
		{"present", report.RankByPresent, []int64{1002, 1001, 1003}},
		{"absent", report.RankByAbsent, []int64{1003, 1001, 1002}},
		{"late in ties keep key order", report.RankByLateIn, []int64{1001, 1002, 1003}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ranked := RankEmployees(employees, "Finance", tt.metric)
			require.Len(t, ranked, len(tt.want))
			for i, id := range tt.want {
				assert.Equal(t, i+1, ranked[i].Rank)
				assert.Equal(t, id, ranked[i].EmployeeID)
			}
		})
	}

	assert.Empty(t, RankEmployees(employees, "Sales", report.RankByRealHours))
}

func TestMissingRecordsByEmployee(t *testing.T) {
	leave := record(1003, "Eka", "Ops", day(6), "", "", "")
	leave.AttendanceCode = "CT"
	c := attendanceService.Classify(leave)
	leave.IsPresent, leave.IsAbsent, leave.IsLeave, leave.IsDayoff = c.IsPresent, c.IsAbsent, c.IsLeave, c.IsDayoff

	tests := []struct {
		name     string
		records  []attendance.AttendanceRecord
		workDays int
		want     []report.MissingRecordRow
	}{
		{
			name:     "no records",
			workDays: 22,
		},
		{
			name: "complete employees are left out",
			records: []attendance.AttendanceRecord{
				record(1001, "Budi", "Finance", day(5), "08:00", "17:00", "08:00"),
				record(1001, "Budi", "Finance", day(6), "", "", ""),
			},
			workDays: 2,
		},
		{
			name: "most missing first",
			records: []attendance.AttendanceRecord{
				record(1001, "Budi", "Finance", day(5), "08:00", "17:00", "08:00"),
				record(1001, "Budi", "Finance", day(6), "", "", ""),
				record(1003, "Eka", "Ops", day(5), "08:00", "17:00", "08:00"),
				leave,
				record(1002, "Sari", "IT", day(5), "08:00", "17:00", "08:00"),
			},
			workDays: 4,
			want: []report.MissingRecordRow{
				{EmployeeID: 1002, FullName: "Sari", Expected: 4, Present: 1, Classified: 1, Missing: 3},
				{EmployeeID: 1001, FullName: "Budi", Expected: 4, Present: 1, Absent: 1, Classified: 2, Missing: 2},
				{EmployeeID: 1003, FullName: "Eka", Expected: 4, Present: 1, Leave: 1, Classified: 2, Missing: 2},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MissingRecordsByEmployee(tt.records, tt.workDays))
		})
	}
}

func TestRatio(t *testing.T) {
	assert.Equal(t, 0.0, ratio(5, 0))
	assert.Equal(t, 1.0/3*100, ratio(1, 3))
}

func TestPercent(t *testing.T) {
	assert.Equal(t, 0.0, percent(5, 0))
	assert.Equal(t, 50.0, percent(1, 2))
	assert.Equal(t, 66.67, percent(2, 3))
}
