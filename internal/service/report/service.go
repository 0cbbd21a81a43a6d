package report

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/cmlabs-hris/attendance-audit/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-audit/internal/domain/report"
)

type ReportServiceImpl struct {
	attendanceService attendance.AttendanceService
}

func NewReportService(attendanceService attendance.AttendanceService) report.ReportService {
	return &ReportServiceImpl{
		attendanceService: attendanceService,
	}
}

// Dashboard implements report.ReportService.
// The reductions share one immutable record slice and run in parallel.
func (s *ReportServiceImpl) Dashboard(ctx context.Context, filter attendance.Filter) (report.DashboardResponse, error) {
	set, err := s.attendanceService.Records(ctx, filter)
	if err != nil {
		return report.DashboardResponse{}, err
	}

	var (
		employees     []report.EmployeeAggregate
		summary       report.FleetSummary
		organizations []report.OrganizationAggregate
		checklist     report.ChecklistReport
	)

	g, gCtx := errgroup.WithContext(ctx)

	// 1. Employee aggregates, then the fleet summary built on them
	g.Go(func() error {
		employees = AggregateByEmployee(set.Records, set.WorkDays)
		summary = Summarize(set.Records, employees, set.WorkDays)
		return gCtx.Err()
	})

	// 2. Organization aggregates
	g.Go(func() error {
		organizations = AggregateByOrganization(set.Records, set.WorkDays)
		return gCtx.Err()
	})

	// 3. Checklist totals
	g.Go(func() error {
		checklist = BuildChecklist(set.Records, report.ChecklistFilter{Search: set.Filter.Search})
		return gCtx.Err()
	})

	if err := g.Wait(); err != nil {
		return report.DashboardResponse{}, err
	}

	slog.Debug("Dashboard computed",
		"branch", set.Filter.Branch,
		"organization", set.Filter.Organization,
		"records", len(set.Records),
		"employees", len(employees),
	)

	return report.DashboardResponse{
		Filter:        set.Filter,
		Summary:       summary,
		Employees:     employees,
		Organizations: organizations,
		Checklist:     checklist.Summary,
		GeneratedAt:   time.Now().Format(time.RFC3339),
	}, nil
}

// Summary implements report.ReportService.
func (s *ReportServiceImpl) Summary(ctx context.Context, filter attendance.Filter) (report.FleetSummary, error) {
	set, err := s.attendanceService.Records(ctx, filter)
	if err != nil {
		return report.FleetSummary{}, err
	}

	employees := AggregateByEmployee(set.Records, set.WorkDays)
	return Summarize(set.Records, employees, set.WorkDays), nil
}

// Employees implements report.ReportService.
func (s *ReportServiceImpl) Employees(ctx context.Context, filter attendance.Filter) ([]report.EmployeeAggregate, error) {
	set, err := s.attendanceService.Records(ctx, filter)
	if err != nil {
		return nil, err
	}
	return AggregateByEmployee(set.Records, set.WorkDays), nil
}

// Organizations implements report.ReportService.
func (s *ReportServiceImpl) Organizations(ctx context.Context, filter attendance.Filter) ([]report.OrganizationAggregate, error) {
	set, err := s.attendanceService.Records(ctx, filter)
	if err != nil {
		return nil, err
	}
	return AggregateByOrganization(set.Records, set.WorkDays), nil
}

// OrganizationEmployees implements report.ReportService.
func (s *ReportServiceImpl) OrganizationEmployees(ctx context.Context, filter attendance.Filter, organization string, metric report.RankMetric) (report.OrganizationBreakdown, error) {
	set, err := s.attendanceService.Records(ctx, filter)
	if err != nil {
		return report.OrganizationBreakdown{}, err
	}

	employees := RankEmployees(AggregateByEmployee(set.Records, set.WorkDays), organization, metric)
	if len(employees) == 0 {
		return report.OrganizationBreakdown{}, report.ErrOrganizationNotFound
	}

	return report.OrganizationBreakdown{
		Organization: organization,
		RankBy:       metric,
		Employees:    employees,
	}, nil
}

// Checklist implements report.ReportService.
func (s *ReportServiceImpl) Checklist(ctx context.Context, filter attendance.Filter) (report.ChecklistReport, error) {
	set, err := s.attendanceService.Records(ctx, filter)
	if err != nil {
		return report.ChecklistReport{}, err
	}
	return BuildChecklist(set.Records, report.ChecklistFilter{Search: set.Filter.Search}), nil
}

// Employee implements report.ReportService.
func (s *ReportServiceImpl) Employee(ctx context.Context, filter attendance.Filter, employeeID int64) (report.EmployeeDetail, error) {
	set, err := s.attendanceService.Records(ctx, filter)
	if err != nil {
		return report.EmployeeDetail{}, err
	}
	return BuildEmployeeDetail(set.Records, employeeID, set.WorkDays)
}
