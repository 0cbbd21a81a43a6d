package file

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/cmlabs-hris/attendance-audit/internal/domain/attendance"
)

// CSVSource reads the export from a comma separated file.
type CSVSource struct {
	path string
}

func NewCSVSource(path string) *CSVSource {
	return &CSVSource{path: path}
}

// Load implements attendance.RecordSource.
func (s *CSVSource) Load(ctx context.Context) (attendance.Table, error) {
	fingerprint, err := statFingerprint(s.path)
	if err != nil {
		return attendance.Table{}, err
	}

	f, err := os.Open(s.path)
	if err != nil {
		return attendance.Table{}, fmt.Errorf("%w: %v", attendance.ErrSourceUnavailable, err)
	}
	defer f.Close()

	header, data, err := readCSV(ctx, f)
	if err != nil {
		return attendance.Table{}, fmt.Errorf("failed to read %s: %w", s.path, err)
	}

	return buildTable(header, data, fingerprint)
}

// Fingerprint implements attendance.RecordSource.
func (s *CSVSource) Fingerprint(ctx context.Context) (string, error) {
	return statFingerprint(s.path)
}

func readCSV(ctx context.Context, r io.Reader) ([]string, [][]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil, attendance.ErrEmptySource
		}
		return nil, nil, err
	}

	var data [][]string
	for {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}

		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, nil, err
		}
		data = append(data, record)
	}
	return header, data, nil
}
