package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
)

// renderCSV writes a single table with a UTF-8 BOM so spreadsheet apps pick the right encoding.
func renderCSV(t table) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString("\ufeff")

	w := csv.NewWriter(&buf)
	if err := w.Write(t.Header); err != nil {
		return nil, fmt.Errorf("failed to write csv header: %w", err)
	}
	if err := w.WriteAll(t.Rows); err != nil {
		return nil, fmt.Errorf("failed to write csv rows: %w", err)
	}
	return buf.Bytes(), nil
}
