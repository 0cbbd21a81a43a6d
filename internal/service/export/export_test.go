package export

import (
	"bytes"
	"context"
	"encoding/csv"
	"net/url"
	"path"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/cmlabs-hris/attendance-audit/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-audit/internal/domain/report"
	"github.com/cmlabs-hris/attendance-audit/internal/pkg/jwt"
	"github.com/cmlabs-hris/attendance-audit/internal/pkg/storage"
	attendanceService "github.com/cmlabs-hris/attendance-audit/internal/service/attendance"
)

type stubAttendanceService struct {
	records []attendance.AttendanceRecord
}

func (s *stubAttendanceService) Records(ctx context.Context, filter attendance.Filter) (attendance.FilteredRecords, error) {
	if err := filter.Validate(); err != nil {
		return attendance.FilteredRecords{}, err
	}
	return attendance.FilteredRecords{Filter: filter, Records: s.records, WorkDays: 22}, nil
}

func (s *stubAttendanceService) Options(ctx context.Context, branch string) (attendance.OptionsResponse, error) {
	return attendance.OptionsResponse{}, nil
}

func (s *stubAttendanceService) Reload(ctx context.Context) (bool, error) {
	return false, nil
}

func record(id int64, name string, d int, in, out, realHour string) attendance.AttendanceRecord {
	rec := attendance.AttendanceRecord{
		EmployeeID:      id,
		FullName:        name,
		Branch:          "HO Jakarta",
		Organization:    "Finance",
		JobPosition:     "Staff",
		Date:            time.Date(2026, 1, d, 0, 0, 0, 0, time.UTC),
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

func records() []attendance.AttendanceRecord {
	return []attendance.AttendanceRecord{
		record(1002, "Sari", 5, "08:00", "17:00", "09:00"),
		record(1001, "Budi", 5, "08:00", "17:00", "08:00"),
		record(1001, "Budi", 6, "08:30", "16:00", "07:30"),
		record(1001, "Budi", 7, "", "", ""),
	}
}

func newTestService(t *testing.T) (*ExportServiceImpl, *storage.LocalStorage) {
	t.Helper()

	fileStorage, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	svc := NewExportService(
		&stubAttendanceService{records: records()},
		fileStorage,
		jwt.NewJWTService("test-secret", 15*time.Minute),
		"http://localhost:8080/",
	)
	return svc.(*ExportServiceImpl), fileStorage
}

func tokenOf(t *testing.T, downloadURL string) string {
	t.Helper()
	u, err := url.Parse(downloadURL)
	require.NoError(t, err)
	return path.Base(u.Path)
}

// ===== TABLES =====

func TestDailyTable_SortedByNameThenDateDescending(t *testing.T) {
	tbl := dailyTable(records())

	require.Len(t, tbl.Rows, 4)
	assert.Equal(t, report.DailyDetailColumns, tbl.Header)
	assert.Equal(t, []string{"Budi", "2026-01-07"}, []string{tbl.Rows[0][2], tbl.Rows[0][0]})
	assert.Equal(t, []string{"Budi", "2026-01-06"}, []string{tbl.Rows[1][2], tbl.Rows[1][0]})
	assert.Equal(t, []string{"Budi", "2026-01-05"}, []string{tbl.Rows[2][2], tbl.Rows[2][0]})
	assert.Equal(t, "Sari", tbl.Rows[3][2])

	// Is Present / Is Absent of the empty day
	assert.Equal(t, "Tidak", tbl.Rows[0][12])
	assert.Equal(t, "Ya", tbl.Rows[0][13])
}

func TestBuildTables(t *testing.T) {
	set := attendance.FilteredRecords{Records: records(), WorkDays: 22}

	full := buildTables(set, report.ExportRequest{Format: report.FormatXLSX, Kind: report.KindFull})
	require.Len(t, full, 6)
	names := make([]string, len(full))
	for i, tbl := range full {
		names[i] = tbl.Name
		for _, row := range tbl.Rows {
			assert.Len(t, row, len(tbl.Header), tbl.Name)
		}
	}
	assert.Equal(t, []string{SheetSummary, SheetMissing, SheetEmployees, SheetOrganizations, SheetChecklist, SheetDaily}, names)

	summary := buildTables(set, report.ExportRequest{Format: report.FormatXLSX, Kind: report.KindSummary})
	require.Len(t, summary, 2)
	assert.Equal(t, []string{"Metrik", "Nilai"}, summary[0].Header)
	assert.Equal(t, []string{"Total Karyawan", "2"}, summary[0].Rows[0])
	assert.Equal(t, []string{"Total Jam Kerja", "24 jam 30 menit"}, summary[0].Rows[10])

	// Sari has 1 of 22 work days classified, Budi 3 of 22
	missing := summary[1]
	require.Len(t, missing.Rows, 2)
	assert.Equal(t, []string{"Sari", "1002", "22", "1", "0", "0", "1", "21"}, missing.Rows[0])
	assert.Equal(t, []string{"Budi", "1001", "22", "2", "1", "0", "3", "19"}, missing.Rows[1])

	checklist := buildTables(set, report.ExportRequest{Format: report.FormatCSV, Kind: report.KindChecklist})
	require.Len(t, checklist, 1)
	assert.Len(t, checklist[0].Rows, 3)
}

func TestBuildTables_PDFEmployeeSection(t *testing.T) {
	var recs []attendance.AttendanceRecord
	for i := 0; i < 25; i++ {
		recs = append(recs, record(int64(2000+i), "Karyawan Dengan Nama Yang Sangat Panjang", 5, "08:00", "17:00", "09:00"))
	}
	set := attendance.FilteredRecords{Records: recs, WorkDays: 22}

	tables := buildTables(set, report.ExportRequest{Format: report.FormatPDF, Kind: report.KindEmployees})
	require.Len(t, tables, 1)

	top := tables[0]
	assert.Equal(t, SectionTopEmployee, top.Name)
	require.Len(t, top.Rows, 20)
	assert.Equal(t, "2000", top.Rows[0][0])
	assert.Equal(t, "Karyawan Dengan Nama Yang...", top.Rows[0][1])

	xlsx := buildTables(set, report.ExportRequest{Format: report.FormatXLSX, Kind: report.KindEmployees})
	assert.Len(t, xlsx[0].Rows, 25)
}

func TestBuildTables_Ranking(t *testing.T) {
	set := attendance.FilteredRecords{
		Filter:   attendance.Filter{Organization: "Finance"},
		Records:  records(),
		WorkDays: 22,
	}

	tables := buildTables(set, report.ExportRequest{Format: report.FormatCSV, Kind: report.KindRanking, RankBy: report.RankByAbsent})
	require.Len(t, tables, 1)

	ranking := tables[0]
	assert.Equal(t, SheetRanking, ranking.Name)
	assert.Equal(t, report.RankingColumns, ranking.Header)
	require.Len(t, ranking.Rows, 2)
	assert.Equal(t, []string{"1", "1001", "Budi"}, ranking.Rows[0][:3])
	assert.Equal(t, []string{"2", "1002", "Sari"}, ranking.Rows[1][:3])
}

func TestFileName(t *testing.T) {
	now := time.Date(2026, 1, 5, 9, 30, 0, 0, time.UTC)

	assert.Equal(t, "absensi_full_ho-jakarta_20260105_093000.xlsx",
		FileName(attendance.Filter{Branch: "HO Jakarta"}, report.KindFull, report.FormatXLSX, now))
	assert.Equal(t, "absensi_daily_semua_20260105_093000.csv",
		FileName(attendance.Filter{}, report.KindDaily, report.FormatCSV, now))
}

// ===== RENDERERS =====

func TestRenderCSV(t *testing.T) {
	content, err := renderCSV(employeeTable(nil))
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(content, []byte("\ufeff")))

	rows, err := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(content, []byte("\ufeff")))).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, report.EmployeeColumns, rows[0])
}

func TestRenderXLSX(t *testing.T) {
	set := attendance.FilteredRecords{Records: records(), WorkDays: 22}

	content, err := renderXLSX(buildTables(set, report.ExportRequest{Format: report.FormatXLSX, Kind: report.KindFull}))
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(content))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SheetSummary, SheetMissing, SheetEmployees, SheetOrganizations, SheetChecklist, SheetDaily}, f.GetSheetList())

	header, err := f.GetCellValue(SheetSummary, "A1")
	require.NoError(t, err)
	assert.Equal(t, "Metrik", header)

	name, err := f.GetCellValue(SheetDaily, "C2")
	require.NoError(t, err)
	assert.Equal(t, "Budi", name)

	panes, err := f.GetPanes(SheetDaily)
	require.NoError(t, err)
	assert.True(t, panes.Freeze)
	assert.Equal(t, 1, panes.YSplit)
}

func TestRenderPDF(t *testing.T) {
	set := attendance.FilteredRecords{Records: records(), WorkDays: 22}

	content, err := renderPDF(documentFor(set), buildTables(set, report.ExportRequest{Format: report.FormatPDF, Kind: report.KindFull}))
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(content, []byte("%PDF")))
}

// ===== SERVICE =====

func TestExport_RoundTrip(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	res, err := svc.Export(ctx, report.ExportRequest{
		Filter: attendance.Filter{Branch: "HO Jakarta"},
		Format: "xlsx",
	})
	require.NoError(t, err)
	assert.Equal(t, "full", res.Kind)
	assert.True(t, strings.HasPrefix(res.DownloadURL, "http://localhost:8080/api/v1/exports/"))
	assert.True(t, strings.HasSuffix(res.FileName, ".xlsx"))

	file, err := svc.Open(ctx, tokenOf(t, res.DownloadURL))
	require.NoError(t, err)
	assert.Equal(t, res.FileName, file.FileName)
	assert.Equal(t, contentTypes[report.FormatXLSX], file.ContentType)
	assert.True(t, strings.HasPrefix(file.Path, Dir+"/"))
	assert.NotEmpty(t, file.Content)
}

func TestExport_InvalidRequest(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Export(context.Background(), report.ExportRequest{Format: "csv", Kind: "full"})
	assert.Error(t, err)

	_, err = svc.Export(context.Background(), report.ExportRequest{Format: "docx"})
	assert.Error(t, err)

	_, err = svc.Export(context.Background(), report.ExportRequest{Format: "xlsx", Kind: "ranking"})
	assert.Error(t, err)
}

func TestOpen_InvalidToken(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Open(context.Background(), "not-a-token")
	assert.ErrorIs(t, err, report.ErrInvalidDownloadToken)
}

func TestOpen_PrunedFile(t *testing.T) {
	svc, fileStorage := newTestService(t)
	ctx := context.Background()

	res, err := svc.Export(ctx, report.ExportRequest{Format: "csv", Kind: "daily"})
	require.NoError(t, err)

	removed, err := fileStorage.Prune(ctx, Dir, time.Now().Add(time.Minute))
	require.NoError(t, err)
	require.Equal(t, 1, removed)

	_, err = svc.Open(ctx, tokenOf(t, res.DownloadURL))
	assert.ErrorIs(t, err, report.ErrExportNotFound)
}
