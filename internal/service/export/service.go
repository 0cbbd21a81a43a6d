package export

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/cmlabs-hris/attendance-audit/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-audit/internal/domain/report"
	"github.com/cmlabs-hris/attendance-audit/internal/pkg/jwt"
	"github.com/cmlabs-hris/attendance-audit/internal/pkg/storage"
	reportService "github.com/cmlabs-hris/attendance-audit/internal/service/report"
)

// Dir is the storage directory of generated exports.
const Dir = "exports"

var contentTypes = map[report.ExportFormat]string{
	report.FormatCSV:  "text/csv; charset=utf-8",
	report.FormatXLSX: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	report.FormatPDF:  "application/pdf",
}

type ExportServiceImpl struct {
	attendanceService attendance.AttendanceService
	storage           storage.FileStorage
	jwtService        jwt.Service
	baseURL           string
}

func NewExportService(
	attendanceService attendance.AttendanceService,
	fileStorage storage.FileStorage,
	jwtService jwt.Service,
	baseURL string,
) report.ExportService {
	return &ExportServiceImpl{
		attendanceService: attendanceService,
		storage:           fileStorage,
		jwtService:        jwtService,
		baseURL:           strings.TrimRight(baseURL, "/"),
	}
}

// Export implements report.ExportService.
func (s *ExportServiceImpl) Export(ctx context.Context, req report.ExportRequest) (report.ExportResponse, error) {
	if err := req.Validate(); err != nil {
		return report.ExportResponse{}, err
	}

	set, err := s.attendanceService.Records(ctx, req.Filter)
	if err != nil {
		return report.ExportResponse{}, err
	}

	tables := buildTables(set, req)

	var content []byte
	switch req.Format {
	case report.FormatCSV:
		content, err = renderCSV(tables[0])
	case report.FormatXLSX:
		content, err = renderXLSX(tables)
	case report.FormatPDF:
		content, err = renderPDF(documentFor(set), tables)
	}
	if err != nil {
		slog.Error("Failed to render export", "format", req.Format, "kind", req.Kind, "error", err)
		return report.ExportResponse{}, errors.Join(report.ErrReportGenerationFailed, err)
	}

	ext := string(req.Format)
	storedPath, err := s.storage.Upload(ctx, bytes.NewReader(content), path.Join(Dir, uuid.NewString()+"."+ext), contentTypes[req.Format])
	if err != nil {
		return report.ExportResponse{}, fmt.Errorf("failed to store export: %w", err)
	}

	fileName := FileName(set.Filter, req.Kind, req.Format, time.Now())
	token, expiresAt, err := s.jwtService.GenerateDownloadToken(storedPath, fileName)
	if err != nil {
		return report.ExportResponse{}, fmt.Errorf("failed to sign download link: %w", err)
	}

	slog.Info("Export generated",
		"file_name", fileName,
		"path", storedPath,
		"bytes", len(content),
		"records", len(set.Records),
	)

	return report.ExportResponse{
		FileName:    fileName,
		Format:      string(req.Format),
		Kind:        string(req.Kind),
		DownloadURL: s.baseURL + "/api/v1/exports/" + token,
		ExpiresAt:   expiresAt.Format(time.RFC3339),
	}, nil
}

// Open implements report.ExportService.
func (s *ExportServiceImpl) Open(ctx context.Context, token string) (report.ExportFile, error) {
	claims, err := s.jwtService.ValidateDownloadToken(token)
	if err != nil {
		return report.ExportFile{}, errors.Join(report.ErrInvalidDownloadToken, err)
	}

	rc, err := s.storage.Download(ctx, claims.Path)
	if err != nil {
		if errors.Is(err, storage.ErrFileNotFound) {
			return report.ExportFile{}, report.ErrExportNotFound
		}
		return report.ExportFile{}, fmt.Errorf("failed to open export: %w", err)
	}
	defer rc.Close()

	content, err := io.ReadAll(rc)
	if err != nil {
		return report.ExportFile{}, fmt.Errorf("failed to read export: %w", err)
	}

	format := report.ExportFormat(strings.TrimPrefix(path.Ext(claims.Path), "."))
	contentType, ok := contentTypes[format]
	if !ok {
		contentType = "application/octet-stream"
	}

	return report.ExportFile{
		Path:        claims.Path,
		FileName:    claims.FileName,
		ContentType: contentType,
		Content:     content,
	}, nil
}

// buildTables computes the report sections of an export request. The full
// kind includes every section in workbook order. PDF reports carry the
// compact Top 20 employee section instead of the full employee table.
func buildTables(set attendance.FilteredRecords, req report.ExportRequest) []table {
	employees := reportService.AggregateByEmployee(set.Records, set.WorkDays)
	checklist := reportService.BuildChecklist(set.Records, report.ChecklistFilter{Search: set.Filter.Search})

	summary := func() []table {
		s := reportService.Summarize(set.Records, employees, set.WorkDays)
		tables := []table{summaryTable(s, checklist.Summary)}
		if len(s.MissingByEmployee) > 0 {
			tables = append(tables, missingTable(s.MissingByEmployee))
		}
		return tables
	}
	employeeSection := func() table {
		if req.Format == report.FormatPDF {
			return topEmployeeTable(employees)
		}
		return employeeTable(employees)
	}

	switch req.Kind {
	case report.KindSummary:
		return summary()
	case report.KindEmployees:
		return []table{employeeSection()}
	case report.KindOrganizations:
		return []table{organizationTable(reportService.AggregateByOrganization(set.Records, set.WorkDays))}
	case report.KindChecklist:
		return []table{checklistTable(checklist)}
	case report.KindDaily:
		return []table{dailyTable(set.Records)}
	case report.KindRanking:
		return []table{rankingTable(reportService.RankEmployees(employees, set.Filter.Organization, req.RankBy))}
	}

	return append(summary(),
		employeeSection(),
		organizationTable(reportService.AggregateByOrganization(set.Records, set.WorkDays)),
		checklistTable(checklist),
		dailyTable(set.Records),
	)
}

func documentFor(set attendance.FilteredRecords) document {
	return document{
		Title: "Laporan Audit Absensi Karyawan",
		Meta: [][2]string{
			{"Branch", orDash(set.Filter.Branch)},
			{"Organization", orDash(set.Filter.Organization)},
			{"Periode", period(set.Records)},
			{"Work Days", fmt.Sprintf("%d", set.WorkDays)},
			{"Dibuat", time.Now().Format("2006-01-02 15:04")},
		},
	}
}

// FileName builds the download name, e.g. "absensi_full_ho-jakarta_20260105_093000.xlsx".
func FileName(filter attendance.Filter, kind report.ExportKind, format report.ExportFormat, now time.Time) string {
	branch := slug(filter.Branch)
	if branch == "" {
		branch = "semua"
	}
	return fmt.Sprintf("absensi_%s_%s_%s.%s", kind, branch, now.Format("20060102_150405"), format)
}

func slug(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch {
		case (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9'):
			b.WriteRune(r)
			dash = false
		case !dash && b.Len() > 0:
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

func period(records []attendance.AttendanceRecord) string {
	if len(records) == 0 {
		return "-"
	}
	first, last := records[0].Date, records[0].Date
	for _, rec := range records[1:] {
		if rec.Date.Before(first) {
			first = rec.Date
		}
		if rec.Date.After(last) {
			last = rec.Date
		}
	}
	return first.Format("2006-01-02") + " s/d " + last.Format("2006-01-02")
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
