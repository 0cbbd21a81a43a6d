package report

import (
	"context"

	"github.com/cmlabs-hris/attendance-audit/internal/domain/attendance"
)

// ReportService computes the audit statistics of a filter context
type ReportService interface {
	// Dashboard returns summary, aggregates and checklist totals computed in parallel
	Dashboard(ctx context.Context, filter attendance.Filter) (DashboardResponse, error)

	// Summary returns the fleet-wide totals
	Summary(ctx context.Context, filter attendance.Filter) (FleetSummary, error)

	// Employees returns one aggregate per employee group
	Employees(ctx context.Context, filter attendance.Filter) ([]EmployeeAggregate, error)

	// Organizations returns one aggregate per organization
	Organizations(ctx context.Context, filter attendance.Filter) ([]OrganizationAggregate, error)

	// OrganizationEmployees ranks the employees of one organization
	OrganizationEmployees(ctx context.Context, filter attendance.Filter, organization string, metric RankMetric) (OrganizationBreakdown, error)

	// Checklist returns per-record compliance of present records
	Checklist(ctx context.Context, filter attendance.Filter) (ChecklistReport, error)

	// Employee returns the personal dashboard of one employee
	Employee(ctx context.Context, filter attendance.Filter, employeeID int64) (EmployeeDetail, error)
}

// ExportService renders reports to files and hands out signed download links
type ExportService interface {
	// Export renders the requested report and stores it
	Export(ctx context.Context, req ExportRequest) (ExportResponse, error)

	// Open resolves a download token to the stored file
	Open(ctx context.Context, token string) (ExportFile, error)
}
