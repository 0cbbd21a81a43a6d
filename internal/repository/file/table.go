package file

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/cmlabs-hris/attendance-audit/internal/domain/attendance"
)

const utf8BOM = "\ufeff"

// buildTable maps data rows onto the header and checks that every required
// column is present. Blank rows are skipped.
func buildTable(header []string, data [][]string, fingerprint string) (attendance.Table, error) {
	columns := make([]string, len(header))
	index := make(map[string]struct{}, len(header))
	for i, name := range header {
		name = strings.TrimSpace(strings.TrimPrefix(name, utf8BOM))
		columns[i] = name
		index[name] = struct{}{}
	}

	for _, required := range attendance.RequiredColumns {
		if _, ok := index[required]; !ok {
			return attendance.Table{}, fmt.Errorf("%w: %q", attendance.ErrMissingColumn, required)
		}
	}

	rows := make([]attendance.RawRow, 0, len(data))
	for _, record := range data {
		if isBlank(record) {
			continue
		}

		row := make(attendance.RawRow, len(columns))
		for i, name := range columns {
			if name == "" {
				continue
			}
			if i < len(record) {
				row[name] = record[i]
			} else {
				row[name] = ""
			}
		}
		rows = append(rows, row)
	}

	return attendance.Table{
		Rows:        rows,
		Fingerprint: fingerprint,
		LoadedAt:    time.Now(),
	}, nil
}

func isBlank(record []string) bool {
	for _, cell := range record {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// statFingerprint identifies a file revision by its size and modification time.
func statFingerprint(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("%w: %v", attendance.ErrSourceUnavailable, err)
	}
	return fmt.Sprintf("%d-%d", info.Size(), info.ModTime().UnixNano()), nil
}
