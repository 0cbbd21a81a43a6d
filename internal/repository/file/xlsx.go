package file

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/cmlabs-hris/attendance-audit/internal/domain/attendance"
)

// XLSXSource reads the export from one sheet of a workbook. The first sheet
// is used when no sheet name is configured.
type XLSXSource struct {
	path  string
	sheet string
}

func NewXLSXSource(path, sheet string) *XLSXSource {
	return &XLSXSource{path: path, sheet: sheet}
}

// Load implements attendance.RecordSource.
func (s *XLSXSource) Load(ctx context.Context) (attendance.Table, error) {
	fingerprint, err := statFingerprint(s.path)
	if err != nil {
		return attendance.Table{}, err
	}

	f, err := excelize.OpenFile(s.path)
	if err != nil {
		return attendance.Table{}, fmt.Errorf("%w: %v", attendance.ErrSourceUnavailable, err)
	}
	defer f.Close()

	sheet := s.sheet
	if sheet == "" {
		sheet = f.GetSheetName(0)
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return attendance.Table{}, fmt.Errorf("failed to read sheet %q of %s: %w", sheet, s.path, err)
	}
	if len(rows) == 0 {
		return attendance.Table{}, attendance.ErrEmptySource
	}
	if err := ctx.Err(); err != nil {
		return attendance.Table{}, err
	}

	return buildTable(rows[0], rows[1:], fingerprint)
}

// Fingerprint implements attendance.RecordSource.
func (s *XLSXSource) Fingerprint(ctx context.Context) (string, error) {
	return statFingerprint(s.path)
}
