package export

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/cmlabs-hris/attendance-audit/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-audit/internal/domain/report"
	"github.com/cmlabs-hris/attendance-audit/internal/pkg/utils"
)

// Sheet names of the workbook, one per table kind.
const (
	SheetSummary       = "Ringkasan Statistik"
	SheetEmployees     = "Analisis Per Karyawan"
	SheetOrganizations = "Analisis Per Organisasi"
	SheetChecklist     = "Checklist Compliance"
	SheetDaily         = "Detail Harian"
	SheetMissing       = "Detail Missing Records"
	SheetRanking       = "Peringkat Organisasi"
	SectionTopEmployee = "Analisis Per Karyawan (Top 20)"
)

// topEmployeeLimit caps the employee section of PDF reports.
const topEmployeeLimit = 20

// table is one rendered report section. Every renderer consumes the same shape.
type table struct {
	Name   string
	Header []string
	Rows   [][]string
	Widths []float64
}

func yesNo(v bool) string {
	if v {
		return "Ya"
	}
	return "Tidak"
}

func pct(v float64) string {
	return fmt.Sprintf("%.2f%%", v)
}

func id(v int64) string {
	return strconv.FormatInt(v, 10)
}

func summaryTable(s report.FleetSummary, checklist report.ChecklistSummary) table {
	rows := [][]string{
		{"Total Karyawan", strconv.Itoa(s.TotalEmployees)},
		{"Work Day", strconv.Itoa(s.WorkDays)},
		{"Total Work Day", strconv.Itoa(s.TotalWorkDay)},
		{"Total Kehadiran", strconv.Itoa(s.TotalPresent)},
		{"Total Kehadiran (%)", pct(s.AttendancePct)},
		{"Total Tidak Hadir", strconv.Itoa(s.TotalAbsent)},
		{"Total Tidak Hadir (%)", pct(s.AbsentPct)},
		{"Total Cuti", strconv.Itoa(s.TotalLeave)},
		{"Total Cuti (%)", pct(s.LeavePct)},
		{"Total Hari Libur", strconv.Itoa(s.TotalDayoff)},
		{"Total Jam Kerja", utils.FormatHours(s.TotalRealHours)},
		{"Plan Jam Kerja", utils.FormatHours(s.PlanHours)},
		{"Plan vs Actual (%)", pct(s.PlanVsActualPct)},
		{"Selisih Absensi", strconv.Itoa(s.Residual)},
		{"Selisih Absensi (%)", pct(s.ResidualPct)},
		{"Data Tidak Tercatat", strconv.Itoa(s.MissingRecords)},
		{"Data Tidak Tercatat (%)", pct(s.MissingRecordsPct)},
		{"Record Hari Kerja", strconv.Itoa(s.WeekdayRecords)},
		{"Record Tanpa Klasifikasi", strconv.Itoa(s.UnclassifiedRecords)},
		{"Compliant Kerja 8 Jam (%)", pct(checklist.Pct8Hours)},
		{"Compliant Masuk 08:00 & Pulang 17:00 (%)", pct(checklist.PctWindow)},
		{"Compliant Keduanya (%)", pct(checklist.PctBoth)},
	}

	return table{
		Name:   SheetSummary,
		Header: []string{"Metrik", "Nilai"},
		Rows:   rows,
		Widths: []float64{40, 25},
	}
}

func employeeTable(employees []report.EmployeeAggregate) table {
	rows := make([][]string, 0, len(employees))
	for _, e := range employees {
		rows = append(rows, []string{
			id(e.EmployeeID),
			e.FullName,
			e.Branch,
			e.Organization,
			e.JobPosition,
			strconv.Itoa(e.PresentCount),
			strconv.Itoa(e.AbsentCount),
			strconv.Itoa(e.DayoffCount),
			strconv.Itoa(e.LeaveCount),
			strconv.Itoa(e.LateInCount),
			strconv.Itoa(e.EarlyOutCount),
			utils.FormatHours(e.RealHours),
			utils.FormatHours(e.LateInHours),
			utils.FormatHours(e.EarlyOutHours),
			strconv.Itoa(e.WorkDays),
			utils.FormatHours(e.PlanHours),
			yesNo(e.CompliantWithPlan),
			utils.FormatShortfall(e.ShortfallHours),
		})
	}

	return table{
		Name:   SheetEmployees,
		Header: report.EmployeeColumns,
		Rows:   rows,
		Widths: []float64{12, 28, 16, 20, 22, 10, 10, 10, 10, 10, 10, 20, 18, 18, 10, 20, 10, 20},
	}
}

func organizationTable(organizations []report.OrganizationAggregate) table {
	rows := make([][]string, 0, len(organizations))
	for _, o := range organizations {
		rows = append(rows, []string{
			o.Organization,
			strconv.Itoa(o.EmployeeCount),
			strconv.Itoa(o.PresentCount),
			strconv.Itoa(o.AbsentCount),
			strconv.Itoa(o.LeaveCount),
			strconv.Itoa(o.LateInCount),
			strconv.Itoa(o.EarlyOutCount),
			utils.FormatHours(o.RealHours),
			strconv.Itoa(o.WorkDay),
			strconv.Itoa(o.TotalWorkDay),
			utils.FormatHours(o.PlanHours),
			pct(o.AttendancePct),
			pct(o.AbsencePct),
			pct(o.PlanVsActualPct),
			utils.FormatHoursSimple(o.HoursDelta),
			yesNo(o.CompliantWithPlan),
		})
	}

	return table{
		Name:   SheetOrganizations,
		Header: report.OrganizationColumns,
		Rows:   rows,
		Widths: []float64{24, 10, 10, 10, 10, 10, 10, 20, 10, 10, 20, 12, 12, 12, 16, 10},
	}
}

func missingTable(rows []report.MissingRecordRow) table {
	out := make([][]string, 0, len(rows))
	for _, m := range rows {
		out = append(out, []string{
			m.FullName,
			id(m.EmployeeID),
			strconv.Itoa(m.Expected),
			strconv.Itoa(m.Present),
			strconv.Itoa(m.Absent),
			strconv.Itoa(m.Leave),
			strconv.Itoa(m.Classified),
			strconv.Itoa(m.Missing),
		})
	}

	return table{
		Name:   SheetMissing,
		Header: report.MissingRecordColumns,
		Rows:   out,
		Widths: []float64{28, 12, 12, 10, 12, 10, 20, 10},
	}
}

func rankingTable(ranked []report.RankedEmployee) table {
	rows := make([][]string, 0, len(ranked))
	for _, e := range ranked {
		rows = append(rows, []string{
			strconv.Itoa(e.Rank),
			id(e.EmployeeID),
			e.FullName,
			e.JobPosition,
			strconv.Itoa(e.WorkDays),
			strconv.Itoa(e.PresentCount),
			strconv.Itoa(e.AbsentCount),
			strconv.Itoa(e.LeaveCount),
			strconv.Itoa(e.LateInCount),
			strconv.Itoa(e.EarlyOutCount),
			utils.FormatHours(e.RealHours),
			utils.FormatHours(e.PlanHours),
			yesNo(e.CompliantWithPlan),
			utils.FormatShortfall(e.ShortfallHours),
		})
	}

	return table{
		Name:   SheetRanking,
		Header: report.RankingColumns,
		Rows:   rows,
		Widths: []float64{10, 12, 28, 22, 12, 10, 10, 8, 8, 10, 20, 20, 10, 20},
	}
}

// topEmployeeTable is the compact employee section of PDF reports: the first
// employees in aggregate order with long names shortened.
func topEmployeeTable(employees []report.EmployeeAggregate) table {
	if len(employees) > topEmployeeLimit {
		employees = employees[:topEmployeeLimit]
	}

	rows := make([][]string, 0, len(employees))
	for _, e := range employees {
		name := e.FullName
		if r := []rune(name); len(r) > 25 {
			name = string(r[:25]) + "..."
		}
		rows = append(rows, []string{
			id(e.EmployeeID),
			name,
			strconv.Itoa(e.PresentCount),
			strconv.Itoa(e.AbsentCount),
			strconv.Itoa(e.LeaveCount),
			strconv.Itoa(e.LateInCount),
			strconv.Itoa(e.EarlyOutCount),
			utils.FormatHours(e.RealHours),
		})
	}

	return table{
		Name:   SectionTopEmployee,
		Header: []string{"ID", "Nama", "Hadir", "Absen", "Cuti", "Late In", "Early Out", "Total Jam"},
		Rows:   rows,
		Widths: []float64{12, 40, 10, 10, 10, 12, 12, 24},
	}
}

func checklistTable(checklist report.ChecklistReport) table {
	rows := make([][]string, 0, len(checklist.Rows))
	for _, r := range checklist.Rows {
		rows = append(rows, []string{
			id(r.EmployeeID),
			r.FullName,
			r.Organization,
			r.Date,
			r.CheckIn,
			r.CheckOut,
			r.RealWorkingHour,
			yesNo(r.Compliant8Hours),
			yesNo(r.CompliantWindow),
			yesNo(r.CompliantBoth),
		})
	}

	return table{
		Name:   SheetChecklist,
		Header: report.ChecklistColumns,
		Rows:   rows,
		Widths: []float64{12, 28, 20, 12, 10, 10, 16, 16, 24, 18},
	}
}

// dailyTable lists every record sorted by name ascending, then date descending.
func dailyTable(records []attendance.AttendanceRecord) table {
	sorted := make([]attendance.AttendanceRecord, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].FullName != sorted[j].FullName {
			return sorted[i].FullName < sorted[j].FullName
		}
		return sorted[i].Date.After(sorted[j].Date)
	})

	rows := make([][]string, 0, len(sorted))
	for _, rec := range sorted {
		rows = append(rows, []string{
			rec.Date.Format("2006-01-02"),
			id(rec.EmployeeID),
			rec.FullName,
			rec.JobPosition,
			rec.Shift,
			rec.CheckIn,
			rec.CheckOut,
			rec.LateIn,
			rec.EarlyOut,
			rec.RealWorkingHour,
			rec.ActualWorkingHour,
			rec.AttendanceCode,
			yesNo(rec.IsPresent),
			yesNo(rec.IsAbsent),
			yesNo(rec.IsDayoff),
			yesNo(rec.IsLeave),
		})
	}

	return table{
		Name:   SheetDaily,
		Header: report.DailyDetailColumns,
		Rows:   rows,
		Widths: []float64{12, 12, 28, 22, 14, 10, 10, 10, 10, 14, 14, 10, 10, 10, 10, 10},
	}
}
