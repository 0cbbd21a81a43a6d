package http

import (
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/cmlabs-hris/attendance-audit/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-audit/internal/domain/report"
	"github.com/cmlabs-hris/attendance-audit/internal/handler/http/response"
)

type ReportHandler interface {
	// Filter options
	Filters(w http.ResponseWriter, r *http.Request)

	// Combined dashboard
	Dashboard(w http.ResponseWriter, r *http.Request)

	// Individual reports
	Summary(w http.ResponseWriter, r *http.Request)
	Employees(w http.ResponseWriter, r *http.Request)
	Employee(w http.ResponseWriter, r *http.Request)
	Organizations(w http.ResponseWriter, r *http.Request)
	OrganizationEmployees(w http.ResponseWriter, r *http.Request)
	Checklist(w http.ResponseWriter, r *http.Request)
}

type reportHandlerImpl struct {
	attendanceService attendance.AttendanceService
	reportService     report.ReportService
}

func NewReportHandler(attendanceService attendance.AttendanceService, reportService report.ReportService) ReportHandler {
	return &reportHandlerImpl{
		attendanceService: attendanceService,
		reportService:     reportService,
	}
}

// parseFilter reads the filter context from query parameters
func parseFilter(r *http.Request) attendance.Filter {
	query := r.URL.Query()

	filter := attendance.Filter{
		Branch:       query.Get("branch"),
		Organization: query.Get("organization"),
		Search:       query.Get("search"),
	}

	if startDate := query.Get("start_date"); startDate != "" {
		filter.StartDate = &startDate
	}

	if endDate := query.Get("end_date"); endDate != "" {
		filter.EndDate = &endDate
	}

	return filter
}

// Filters handles GET /filters
func (h *reportHandlerImpl) Filters(w http.ResponseWriter, r *http.Request) {
	result, err := h.attendanceService.Options(r.Context(), r.URL.Query().Get("branch"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Dashboard handles GET /dashboard
func (h *reportHandlerImpl) Dashboard(w http.ResponseWriter, r *http.Request) {
	result, err := h.reportService.Dashboard(r.Context(), parseFilter(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Summary handles GET /summary
func (h *reportHandlerImpl) Summary(w http.ResponseWriter, r *http.Request) {
	result, err := h.reportService.Summary(r.Context(), parseFilter(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Employees handles GET /employees
func (h *reportHandlerImpl) Employees(w http.ResponseWriter, r *http.Request) {
	result, err := h.reportService.Employees(r.Context(), parseFilter(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Employee handles GET /employees/{employeeID}
func (h *reportHandlerImpl) Employee(w http.ResponseWriter, r *http.Request) {
	employeeID, err := strconv.ParseInt(chi.URLParam(r, "employeeID"), 10, 64)
	if err != nil {
		response.HandleError(w, report.ErrInvalidEmployeeID)
		return
	}

	result, err := h.reportService.Employee(r.Context(), parseFilter(r), employeeID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Organizations handles GET /organizations
func (h *reportHandlerImpl) Organizations(w http.ResponseWriter, r *http.Request) {
	result, err := h.reportService.Organizations(r.Context(), parseFilter(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// OrganizationEmployees handles GET /organizations/{organization}/employees
func (h *reportHandlerImpl) OrganizationEmployees(w http.ResponseWriter, r *http.Request) {
	organization, err := url.PathUnescape(chi.URLParam(r, "organization"))
	if err != nil {
		response.BadRequest(w, "invalid organization", nil)
		return
	}

	metric, err := report.ParseRankMetric(r.URL.Query().Get("rank_by"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.reportService.OrganizationEmployees(r.Context(), parseFilter(r), organization, metric)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Checklist handles GET /checklist
func (h *reportHandlerImpl) Checklist(w http.ResponseWriter, r *http.Request) {
	result, err := h.reportService.Checklist(r.Context(), parseFilter(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
