package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/cmlabs-hris/attendance-audit/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-audit/internal/pkg/database"
)

// exportColumns maps export headers onto staging table columns.
var exportColumns = []struct {
	header string
	column string
}{
	{attendance.ColEmployeeID, "employee_id"},
	{attendance.ColFullName, "full_name"},
	{attendance.ColBranch, "branch"},
	{attendance.ColOrganization, "organization"},
	{attendance.ColJobPosition, "job_position"},
	{attendance.ColDate, "date"},
	{attendance.ColShift, "shift"},
	{attendance.ColCheckIn, "check_in"},
	{attendance.ColCheckOut, "check_out"},
	{attendance.ColLateIn, "late_in"},
	{attendance.ColEarlyOut, "early_out"},
	{attendance.ColRealWorkingHour, "real_working_hour"},
	{attendance.ColActualWorkingHour, "actual_working_hour"},
	{attendance.ColAttendanceCode, "attendance_code"},
	{attendance.ColTimeOffCode, "time_off_code"},
}

type attendanceSourceImpl struct {
	db    *database.DB
	table pgx.Identifier
}

// AttendanceSource reads the export from a staging table and can replace
// its content from another source.
type AttendanceSource interface {
	attendance.RecordSource

	// EnsureSchema creates the staging table when it does not exist
	EnsureSchema(ctx context.Context) error

	// ReplaceRows swaps the staging table content in one transaction
	ReplaceRows(ctx context.Context, rows []attendance.RawRow) (int64, error)
}

func NewAttendanceSource(db *database.DB, table string) AttendanceSource {
	return &attendanceSourceImpl{
		db:    db,
		table: pgx.Identifier{table},
	}
}

// EnsureSchema implements AttendanceSource.
func (r *attendanceSourceImpl) EnsureSchema(ctx context.Context) error {
	query := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id BIGSERIAL PRIMARY KEY,
			employee_id TEXT,
			full_name TEXT,
			branch TEXT,
			organization TEXT,
			job_position TEXT,
			date TEXT,
			shift TEXT,
			check_in TEXT,
			check_out TEXT,
			late_in TEXT,
			early_out TEXT,
			real_working_hour TEXT,
			actual_working_hour TEXT,
			attendance_code TEXT,
			time_off_code TEXT,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
	`, r.table.Sanitize())

	q := GetQuerier(ctx, r.db)
	if _, err := q.Exec(ctx, query); err != nil {
		return fmt.Errorf("failed to create staging table: %w", err)
	}
	return nil
}

// Load implements attendance.RecordSource.
func (r *attendanceSourceImpl) Load(ctx context.Context) (attendance.Table, error) {
	fingerprint, err := r.Fingerprint(ctx)
	if err != nil {
		return attendance.Table{}, err
	}

	selects := ""
	for i, c := range exportColumns {
		if i > 0 {
			selects += ", "
		}
		selects += fmt.Sprintf("COALESCE(%s::text, '')", pgx.Identifier{c.column}.Sanitize())
	}
	query := fmt.Sprintf("SELECT %s FROM %s ORDER BY id", selects, r.table.Sanitize())

	q := GetQuerier(ctx, r.db)
	rows, err := q.Query(ctx, query)
	if err != nil {
		return attendance.Table{}, fmt.Errorf("%w: %v", attendance.ErrSourceUnavailable, err)
	}
	defer rows.Close()

	var result []attendance.RawRow
	for rows.Next() {
		values := make([]string, len(exportColumns))
		dest := make([]any, len(values))
		for i := range values {
			dest[i] = &values[i]
		}
		if err := rows.Scan(dest...); err != nil {
			return attendance.Table{}, fmt.Errorf("failed to scan attendance row: %w", err)
		}

		row := make(attendance.RawRow, len(exportColumns))
		for i, c := range exportColumns {
			row[c.header] = values[i]
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return attendance.Table{}, fmt.Errorf("failed to read attendance rows: %w", err)
	}

	return attendance.Table{
		Rows:        result,
		Fingerprint: fingerprint,
		LoadedAt:    time.Now(),
	}, nil
}

// Fingerprint implements attendance.RecordSource.
func (r *attendanceSourceImpl) Fingerprint(ctx context.Context) (string, error) {
	query := fmt.Sprintf("SELECT COUNT(*), COALESCE(MAX(updated_at)::text, '') FROM %s", r.table.Sanitize())

	var (
		count     int64
		updatedAt string
	)
	q := GetQuerier(ctx, r.db)
	if err := q.QueryRow(ctx, query).Scan(&count, &updatedAt); err != nil {
		if errors.Is(err, context.Canceled) {
			return "", err
		}
		return "", fmt.Errorf("%w: %v", attendance.ErrSourceUnavailable, err)
	}
	return fmt.Sprintf("%d-%s", count, updatedAt), nil
}

// ReplaceRows implements AttendanceSource.
func (r *attendanceSourceImpl) ReplaceRows(ctx context.Context, rows []attendance.RawRow) (int64, error) {
	columns := make([]string, len(exportColumns))
	for i, c := range exportColumns {
		columns[i] = c.column
	}

	var copied int64
	err := WithTransaction(ctx, r.db, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, fmt.Sprintf("DELETE FROM %s", r.table.Sanitize())); err != nil {
			return fmt.Errorf("failed to clear staging table: %w", err)
		}

		n, err := tx.CopyFrom(ctx, r.table, columns, pgx.CopyFromSlice(len(rows), func(i int) ([]any, error) {
			values := make([]any, len(exportColumns))
			for j, c := range exportColumns {
				values[j] = rows[i].Get(c.header)
			}
			return values, nil
		}))
		if err != nil {
			return fmt.Errorf("failed to copy attendance rows: %w", err)
		}
		copied = n
		return nil
	})
	if err != nil {
		return 0, err
	}
	return copied, nil
}
